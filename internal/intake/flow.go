// Package intake runs the admin conversation that collects a new
// assignment: title first, then the document. State lives in memory and is
// keyed by the admin's identity, so the dialog survives unrelated commands
// from other chats but not a process restart.
package intake

import (
	"context"
	"fmt"
	"strings"

	"log/slog"

	"github.com/classworks/classbot/internal/access"
	"github.com/classworks/classbot/internal/logger"
	"github.com/classworks/classbot/internal/notify"
	"github.com/classworks/classbot/internal/storage"
)

const (
	msgNotAuthorized   = "You are not authorized to add assignments."
	msgAskTitle        = "Please enter the title of the assignment:"
	msgAskDocument     = "Now, please upload the document for the assignment:"
	msgNoDocument      = "No document uploaded. Assignment addition canceled."
	msgCanceled        = "Assignment creation canceled."
	msgStoreFailed     = "Something went wrong while saving the assignment. Please try again."
	addedFormat        = "Assignment '%s' added successfully."
	announcementFormat = "Admin uploaded a new assignment: %s Please check the /works for more details."
)

// Document is the part of an incoming attachment the flow needs.
type Document struct {
	FileID string
}

// Event is one inbound update routed into the conversation.
type Event struct {
	User     access.Identity
	Text     string
	Document *Document
}

// Replier delivers a plain-text reply into the originating chat.
type Replier interface {
	Reply(text string) error
}

// AssetCreator persists completed assignments; *service.Assets satisfies it.
type AssetCreator interface {
	Create(ctx context.Context, title, fileID string, uploadedBy int64) (storage.Asset, error)
}

// Notifier announces a stored assignment to the roster.
type Notifier interface {
	Broadcast(ctx context.Context, message string) notify.Report
}

// Admins is the authorization slice the flow needs from the access gate.
type Admins interface {
	IsAdmin(id int64) bool
}

// Flow drives the add-assignment conversation. All entry points serialize
// per identity through the session lock, so one admin's updates are handled
// strictly in arrival order.
type Flow struct {
	admins   Admins
	assets   AssetCreator
	notifier Notifier
	sessions *Sessions
}

// NewFlow wires the conversation against its collaborators.
func NewFlow(admins Admins, assets AssetCreator, notifier Notifier, sessions *Sessions) *Flow {
	return &Flow{admins: admins, assets: assets, notifier: notifier, sessions: sessions}
}

// Start begins (or restarts) the conversation for the identity. Non-admins
// are refused and never get a session.
func (f *Flow) Start(ctx context.Context, ev Event, reply Replier) error {
	unlock := f.sessions.Lock(ev.User.ID)
	defer unlock()

	if !f.admins.IsAdmin(ev.User.ID) {
		logger.Warn(ctx, "intake", "start.denied",
			slog.String("status", "fail"),
			slog.Int64("user_id", ev.User.ID),
		)
		return reply.Reply(msgNotAuthorized)
	}

	f.sessions.Begin(ev.User.ID)
	logger.Info(ctx, "intake", "start",
		slog.String("status", "ok"),
		slog.Int64("user_id", ev.User.ID),
	)
	return reply.Reply(msgAskTitle)
}

// Cancel aborts any in-progress conversation and confirms to the admin.
func (f *Flow) Cancel(ctx context.Context, ev Event, reply Replier) error {
	unlock := f.sessions.Lock(ev.User.ID)
	defer unlock()

	f.sessions.Clear(ev.User.ID)
	logger.Info(ctx, "intake", "cancel",
		slog.Int64("user_id", ev.User.ID),
	)
	return reply.Reply(msgCanceled)
}

// InProgress reports whether the identity has an active conversation. The
// message router uses it to decide whether a plain update belongs to the
// flow at all.
func (f *Flow) InProgress(userID int64) bool {
	return f.sessions.InProgress(userID)
}

// Handle routes a non-command update into the conversation according to the
// identity's current state. Updates for idle identities are ignored.
func (f *Flow) Handle(ctx context.Context, ev Event, reply Replier) error {
	unlock := f.sessions.Lock(ev.User.ID)
	defer unlock()

	switch f.sessions.State(ev.User.ID) {
	case StateAwaitingTitle:
		return f.handleTitle(ctx, ev, reply)
	case StateAwaitingDocument:
		return f.handleDocument(ctx, ev, reply)
	default:
		return nil
	}
}

func (f *Flow) handleTitle(ctx context.Context, ev Event, reply Replier) error {
	title := strings.TrimSpace(ev.Text)
	// Other commands must not be swallowed as a title mid-conversation.
	if title == "" || strings.HasPrefix(title, "/") {
		return nil
	}
	f.sessions.SetTitle(ev.User.ID, title)
	logger.Debug(ctx, "intake", "title.captured",
		slog.Int64("user_id", ev.User.ID),
		slog.String("title", logger.SanitizeLimit(title, 128)),
	)
	return reply.Reply(msgAskDocument)
}

// handleDocument is the terminal step: whatever happens here, the session
// is gone afterwards.
func (f *Flow) handleDocument(ctx context.Context, ev Event, reply Replier) error {
	defer f.sessions.Clear(ev.User.ID)

	if ev.Document == nil || ev.Document.FileID == "" {
		logger.Info(ctx, "intake", "document.missing",
			slog.Int64("user_id", ev.User.ID),
		)
		return reply.Reply(msgNoDocument)
	}

	title := f.sessions.Title(ev.User.ID)
	asset, err := f.assets.Create(ctx, title, ev.Document.FileID, ev.User.ID)
	if err != nil {
		return reply.Reply(msgStoreFailed)
	}

	if err := reply.Reply(fmt.Sprintf(addedFormat, title)); err != nil {
		logger.Warn(ctx, "intake", "confirm.send",
			slog.String("status", "fail"),
			slog.Int64("user_id", ev.User.ID),
			slog.String("err", err.Error()),
		)
	}

	report := f.notifier.Broadcast(ctx, fmt.Sprintf(announcementFormat, title))
	logger.Info(ctx, "intake", "assignment.stored",
		slog.String("status", "ok"),
		slog.Int64("asset_id", asset.ID),
		slog.Int64("user_id", ev.User.ID),
		slog.String("title", logger.SanitizeLimit(title, 128)),
		slog.Int("delivered", report.Delivered),
		slog.Int("failed", report.Failed),
	)
	return nil
}
