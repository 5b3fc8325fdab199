package intake

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/classworks/classbot/internal/access"
	"github.com/classworks/classbot/internal/notify"
	"github.com/classworks/classbot/internal/storage"
)

type fakeAdmins struct {
	ids map[int64]bool
}

func (a *fakeAdmins) IsAdmin(id int64) bool { return a.ids[id] }

type fakeAssets struct {
	mu      sync.Mutex
	created []storage.Asset
	err     error
}

func (s *fakeAssets) Create(_ context.Context, title, fileID string, uploadedBy int64) (storage.Asset, error) {
	if s.err != nil {
		return storage.Asset{}, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a := storage.Asset{
		ID:         int64(len(s.created) + 1),
		Title:      title,
		FileID:     fileID,
		UploadedBy: uploadedBy,
	}
	s.created = append(s.created, a)
	return a, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *fakeNotifier) Broadcast(_ context.Context, message string) notify.Report {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return notify.Report{Delivered: 1}
}

type fakeReplier struct {
	mu      sync.Mutex
	replies []string
}

func (r *fakeReplier) Reply(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies = append(r.replies, text)
	return nil
}

func (r *fakeReplier) last(t *testing.T) string {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.replies) == 0 {
		t.Fatal("no reply sent")
	}
	return r.replies[len(r.replies)-1]
}

func newTestFlow(adminID int64) (*Flow, *fakeAssets, *fakeNotifier) {
	assets := &fakeAssets{}
	notifier := &fakeNotifier{}
	flow := NewFlow(
		&fakeAdmins{ids: map[int64]bool{adminID: true}},
		assets, notifier, NewSessions(),
	)
	return flow, assets, notifier
}

func adminEvent(text string) Event {
	return Event{User: access.Identity{ID: 42}, Text: text}
}

func TestStartRefusesNonAdmin(t *testing.T) {
	flow, assets, _ := newTestFlow(42)
	reply := &fakeReplier{}

	ev := Event{User: access.Identity{ID: 7}, Text: "/addassignment"}
	if err := flow.Start(context.Background(), ev, reply); err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := reply.last(t); got != "You are not authorized to add assignments." {
		t.Errorf("reply = %q", got)
	}
	if flow.InProgress(7) {
		t.Error("refused identity must not own a session")
	}
	if len(assets.created) != 0 {
		t.Error("no asset expected")
	}
}

func TestStartAsksForTitle(t *testing.T) {
	flow, _, _ := newTestFlow(42)
	reply := &fakeReplier{}

	if err := flow.Start(context.Background(), adminEvent("/addassignment"), reply); err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := reply.last(t); got != "Please enter the title of the assignment:" {
		t.Errorf("reply = %q", got)
	}
	if !flow.InProgress(42) {
		t.Error("session should be active after start")
	}
}

func TestTitleAdvancesToDocument(t *testing.T) {
	flow, _, _ := newTestFlow(42)
	reply := &fakeReplier{}
	ctx := context.Background()

	flow.Start(ctx, adminEvent("/addassignment"), reply)
	if err := flow.Handle(ctx, adminEvent("Algebra homework"), reply); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := reply.last(t); got != "Now, please upload the document for the assignment:" {
		t.Errorf("reply = %q", got)
	}
}

func TestDocumentCompletesAndAnnounces(t *testing.T) {
	flow, assets, notifier := newTestFlow(42)
	reply := &fakeReplier{}
	ctx := context.Background()

	flow.Start(ctx, adminEvent("/addassignment"), reply)
	flow.Handle(ctx, adminEvent("Algebra homework"), reply)

	ev := adminEvent("")
	ev.Document = &Document{FileID: "doc-123"}
	if err := flow.Handle(ctx, ev, reply); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(assets.created) != 1 {
		t.Fatalf("created = %d assets, expected 1", len(assets.created))
	}
	a := assets.created[0]
	if a.Title != "Algebra homework" || a.FileID != "doc-123" || a.UploadedBy != 42 {
		t.Errorf("asset = %+v", a)
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("broadcasts = %d, expected exactly 1", len(notifier.messages))
	}
	if !strings.Contains(notifier.messages[0], "Algebra homework") {
		t.Errorf("announcement %q does not mention the title", notifier.messages[0])
	}
	if flow.InProgress(42) {
		t.Error("session must end after completion")
	}

	found := false
	for _, r := range reply.replies {
		if r == "Assignment 'Algebra homework' added successfully." {
			found = true
		}
	}
	if !found {
		t.Errorf("confirmation missing from replies %q", reply.replies)
	}
}

func TestNonDocumentCancelsAddition(t *testing.T) {
	flow, assets, notifier := newTestFlow(42)
	reply := &fakeReplier{}
	ctx := context.Background()

	flow.Start(ctx, adminEvent("/addassignment"), reply)
	flow.Handle(ctx, adminEvent("Algebra homework"), reply)
	if err := flow.Handle(ctx, adminEvent("just some text"), reply); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if got := reply.last(t); got != "No document uploaded. Assignment addition canceled." {
		t.Errorf("reply = %q", got)
	}
	if flow.InProgress(42) {
		t.Error("session must end after a missing document")
	}
	if len(assets.created) != 0 || len(notifier.messages) != 0 {
		t.Error("no asset or broadcast expected")
	}
}

func TestCommandIsNotSwallowedAsTitle(t *testing.T) {
	flow, _, _ := newTestFlow(42)
	reply := &fakeReplier{}
	ctx := context.Background()

	flow.Start(ctx, adminEvent("/addassignment"), reply)
	if err := flow.Handle(ctx, adminEvent("/works"), reply); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := flow.sessions.State(42); got != StateAwaitingTitle {
		t.Errorf("state = %q, expected still awaiting the title", got)
	}
}

func TestStoreFailureEndsSession(t *testing.T) {
	flow, assets, notifier := newTestFlow(42)
	assets.err = storage.ErrStoreUnavailable
	reply := &fakeReplier{}
	ctx := context.Background()

	flow.Start(ctx, adminEvent("/addassignment"), reply)
	flow.Handle(ctx, adminEvent("Algebra homework"), reply)

	ev := adminEvent("")
	ev.Document = &Document{FileID: "doc-123"}
	if err := flow.Handle(ctx, ev, reply); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if flow.InProgress(42) {
		t.Error("session must end even when the store fails")
	}
	if len(notifier.messages) != 0 {
		t.Error("no broadcast expected for an unstored assignment")
	}
	if got := reply.last(t); !strings.Contains(got, "wrong") {
		t.Errorf("reply = %q, expected a failure notice", got)
	}
}

func TestRestartDiscardsPendingTitle(t *testing.T) {
	flow, assets, _ := newTestFlow(42)
	reply := &fakeReplier{}
	ctx := context.Background()

	flow.Start(ctx, adminEvent("/addassignment"), reply)
	flow.Handle(ctx, adminEvent("Old title"), reply)
	flow.Start(ctx, adminEvent("/addassignment"), reply)
	flow.Handle(ctx, adminEvent("New title"), reply)

	ev := adminEvent("")
	ev.Document = &Document{FileID: "doc-456"}
	flow.Handle(ctx, ev, reply)

	if len(assets.created) != 1 {
		t.Fatalf("created = %d assets, expected 1", len(assets.created))
	}
	if got := assets.created[0].Title; got != "New title" {
		t.Errorf("title = %q, restart must discard the old draft", got)
	}
}

func TestCancelClearsSession(t *testing.T) {
	flow, _, _ := newTestFlow(42)
	reply := &fakeReplier{}
	ctx := context.Background()

	flow.Start(ctx, adminEvent("/addassignment"), reply)
	if err := flow.Cancel(ctx, adminEvent("/cancel"), reply); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got := reply.last(t); got != "Assignment creation canceled." {
		t.Errorf("reply = %q", got)
	}
	if flow.InProgress(42) {
		t.Error("session must end after cancel")
	}
}

func TestConcurrentEventsAreSerialized(t *testing.T) {
	flow, assets, _ := newTestFlow(42)
	reply := &fakeReplier{}
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		flow.Start(ctx, adminEvent("/addassignment"), reply)

		var wg sync.WaitGroup
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			flow.Handle(ctx, adminEvent(fmt.Sprintf("title %d", n)), reply)
		}(i)
		go func() {
			defer wg.Done()
			ev := adminEvent("")
			ev.Document = &Document{FileID: "doc"}
			flow.Handle(ctx, ev, reply)
		}()
		wg.Wait()

		flow.Cancel(ctx, adminEvent("/cancel"), reply)
	}

	// Whatever interleaving won, every stored asset must be internally
	// consistent and the session must be gone.
	assets.mu.Lock()
	for _, a := range assets.created {
		if a.FileID != "doc" || a.UploadedBy != 42 {
			t.Errorf("inconsistent asset %+v", a)
		}
	}
	assets.mu.Unlock()
	if flow.InProgress(42) {
		t.Error("no session may survive the rounds")
	}
}
