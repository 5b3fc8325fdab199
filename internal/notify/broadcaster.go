// Package notify fans a message out to every known chat identity. Delivery
// is best effort: each recipient gets at most one attempt, individual
// failures are counted but never abort the batch, and a crash mid-broadcast
// is not resumable.
package notify

import (
	"context"
	"sync"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"

	"github.com/classworks/classbot/internal/logger"
	"log/slog"
)

const defaultWorkers = 4

// Sender is the transport slice needed for fan-out; *tele.Bot satisfies it.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Roster supplies the identity snapshot to notify.
type Roster interface {
	AllIDs(ctx context.Context) ([]int64, error)
}

// Report summarizes one broadcast batch.
type Report struct {
	Delivered int
	Failed    int
}

// Broadcaster delivers one message to the whole roster through a bounded
// worker pool.
type Broadcaster struct {
	sender  Sender
	roster  Roster
	workers int
}

// NewBroadcaster builds a broadcaster; workers <= 0 selects the default cap.
func NewBroadcaster(sender Sender, roster Roster, workers int) *Broadcaster {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Broadcaster{sender: sender, roster: roster, workers: workers}
}

// Broadcast sends message to every identity in the roster snapshot. A
// failed roster read yields an empty report; per-recipient send failures
// are logged and counted without stopping the remaining fan-out.
func (b *Broadcaster) Broadcast(ctx context.Context, message string) Report {
	ids, err := b.roster.AllIDs(ctx)
	if err != nil {
		logger.Error(ctx, "notify", "broadcast.roster",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
		return Report{}
	}
	if len(ids) == 0 {
		return Report{}
	}

	var delivered, failed atomic.Int64

	jobs := make(chan int64)
	var wg sync.WaitGroup
	workers := b.workers
	if workers > len(ids) {
		workers = len(ids)
	}
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for id := range jobs {
				if _, err := b.sender.Send(&tele.User{ID: id}, message); err != nil {
					failed.Add(1)
					logger.Warn(ctx, "notify", "broadcast.send",
						slog.String("status", "fail"),
						slog.Int64("user_id", id),
						slog.String("err", err.Error()),
					)
					continue
				}
				delivered.Add(1)
			}
		}()
	}
	for _, id := range ids {
		jobs <- id
	}
	close(jobs)
	wg.Wait()

	report := Report{
		Delivered: int(delivered.Load()),
		Failed:    int(failed.Load()),
	}
	logger.Info(ctx, "notify", "broadcast.summary",
		slog.String("status", "ok"),
		slog.Int("recipients", len(ids)),
		slog.Int("delivered", report.Delivered),
		slog.Int("failed", report.Failed),
	)
	return report
}
