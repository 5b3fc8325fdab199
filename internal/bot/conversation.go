package bot

import (
	tele "gopkg.in/telebot.v4"

	"github.com/classworks/classbot/internal/intake"
	tghelpers "github.com/classworks/classbot/internal/telegram/helpers"
)

// conversation adapts the intake flow to the message router: it claims
// text and document updates while an admin has an active session.
type conversation struct {
	flow *intake.Flow
}

func (cv *conversation) InProgress(userID int64) bool {
	return cv.flow.InProgress(userID)
}

func (cv *conversation) HandleUpdate(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	return cv.flow.Handle(ctx, eventFrom(c), teleReplier{c})
}

// eventFrom lifts a transport update into the flow's transport-free event.
func eventFrom(c tele.Context) intake.Event {
	ev := intake.Event{
		User: identityFrom(c),
		Text: c.Text(),
	}
	if msg := c.Message(); msg != nil && msg.Document != nil {
		ev.Document = &intake.Document{FileID: msg.Document.FileID}
	}
	return ev
}

// teleReplier sends flow replies back into the originating chat.
type teleReplier struct {
	c tele.Context
}

func (r teleReplier) Reply(text string) error {
	return tghelpers.SendText(r.c, text)
}
