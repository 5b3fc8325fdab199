package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	tele "gopkg.in/telebot.v4"
)

type fakeSender struct {
	mu      sync.Mutex
	sent    []int64
	failFor map[int64]bool
}

func (s *fakeSender) Send(to tele.Recipient, _ interface{}, _ ...interface{}) (*tele.Message, error) {
	user, ok := to.(*tele.User)
	if !ok {
		return nil, errors.New("unexpected recipient type")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFor[user.ID] {
		return nil, errors.New("forbidden: bot was blocked by the user")
	}
	s.sent = append(s.sent, user.ID)
	return &tele.Message{}, nil
}

type fakeRoster struct {
	ids []int64
	err error
}

func (r *fakeRoster) AllIDs(context.Context) ([]int64, error) {
	return r.ids, r.err
}

func TestBroadcastDeliversToAll(t *testing.T) {
	sender := &fakeSender{}
	roster := &fakeRoster{ids: []int64{1, 2, 3, 4, 5}}
	b := NewBroadcaster(sender, roster, 3)

	report := b.Broadcast(context.Background(), "new assignment")
	if report.Delivered != 5 || report.Failed != 0 {
		t.Fatalf("report = %+v, expected 5 delivered", report)
	}
	if len(sender.sent) != 5 {
		t.Fatalf("sent to %d recipients, expected 5", len(sender.sent))
	}
}

func TestBroadcastToleratesPartialFailure(t *testing.T) {
	sender := &fakeSender{failFor: map[int64]bool{2: true, 4: true}}
	roster := &fakeRoster{ids: []int64{1, 2, 3, 4, 5}}
	b := NewBroadcaster(sender, roster, 2)

	report := b.Broadcast(context.Background(), "hello")
	if report.Delivered != 3 {
		t.Errorf("delivered = %d, expected 3", report.Delivered)
	}
	if report.Failed != 2 {
		t.Errorf("failed = %d, expected 2", report.Failed)
	}
}

func TestBroadcastEmptyRoster(t *testing.T) {
	b := NewBroadcaster(&fakeSender{}, &fakeRoster{}, 0)
	report := b.Broadcast(context.Background(), "hello")
	if report.Delivered != 0 || report.Failed != 0 {
		t.Fatalf("report = %+v, expected zero report", report)
	}
}

func TestBroadcastRosterFailureYieldsEmptyReport(t *testing.T) {
	sender := &fakeSender{}
	roster := &fakeRoster{err: errors.New("connection refused")}
	b := NewBroadcaster(sender, roster, 2)

	report := b.Broadcast(context.Background(), "hello")
	if report.Delivered != 0 || report.Failed != 0 {
		t.Fatalf("report = %+v, expected zero report", report)
	}
	if len(sender.sent) != 0 {
		t.Fatal("no sends expected when the roster read fails")
	}
}

func TestBroadcastWorkerCapAboveRoster(t *testing.T) {
	sender := &fakeSender{}
	roster := &fakeRoster{ids: []int64{1}}
	b := NewBroadcaster(sender, roster, 16)

	report := b.Broadcast(context.Background(), "hello")
	if report.Delivered != 1 {
		t.Fatalf("delivered = %d, expected 1", report.Delivered)
	}
}
