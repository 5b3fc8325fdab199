package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/classworks/classbot/internal/access"
	"github.com/classworks/classbot/internal/storage"
	"github.com/classworks/classbot/internal/telegram/callbacks"
	tghelpers "github.com/classworks/classbot/internal/telegram/helpers"
	"github.com/classworks/classbot/internal/telegram/keyboard"
	"github.com/classworks/classbot/internal/timetable"
)

const assetCallbackKey = "asset"

const helpText = "/start                     - To start the bot\n" +
	"/help                      - To get help\n" +
	"/works                   - To get the assignments/record/notes\n" +
	"/timetable            - To get the timetable\n" +
	"/addassignment - To add an assignment (Admin only)\n"

func identityFrom(c tele.Context) access.Identity {
	user := c.Sender()
	if user == nil {
		return access.Identity{}
	}
	return access.Identity{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
	}
}

func replyText(c tele.Context, text string) error {
	return tghelpers.SendText(c, text)
}

func (a *App) handleStart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	id := identityFrom(c)

	if err := a.users.Register(ctx, storage.User{
		ID:        id.ID,
		FirstName: id.FirstName,
		LastName:  id.LastName,
		Username:  id.Username,
	}); err != nil {
		return replyText(c, "Something went wrong. Please try again later.")
	}

	fullName := strings.TrimSpace(id.FirstName + " " + id.LastName)
	return replyText(c, fmt.Sprintf(
		"Welcome to the Assignment Bot, %s! Use /help to see available commands.", fullName))
}

func (a *App) handleHelp(c tele.Context) error {
	return replyText(c, helpText)
}

func (a *App) handleWorks(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	assets, err := a.assets.ListRecent(ctx)
	if err != nil {
		return replyText(c, "Something went wrong. Please try again later.")
	}
	if len(assets) == 0 {
		return replyText(c, "No files available.")
	}

	buttons := make([]keyboard.InlineBtn, 0, len(assets))
	for _, asset := range assets {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   asset.Title,
			Unique: assetCallbackKey,
			Data:   strconv.FormatInt(asset.ID, 10),
		})
	}
	return tghelpers.SendKeyboard(c, "Select a file to download:", keyboard.InlineButtons(buttons))
}

// handleAssetCallback delivers the selected document. The block flag is
// consulted fresh on every press; a blocked identity never receives a file.
func (a *App) handleAssetCallback(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	allowed, err := a.gate.CanReceiveFiles(ctx, identityFrom(c))
	if err != nil {
		return replyText(c, "Something went wrong. Please try again later.")
	}
	if !allowed {
		return replyText(c, "You are not allowed to download files.")
	}

	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return replyText(c, "Sorry, the assignment could not be found.")
	}

	asset, err := a.assets.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return replyText(c, "Sorry, the assignment could not be found.")
	}
	if err != nil {
		return replyText(c, "Something went wrong. Please try again later.")
	}

	return tghelpers.SendDocument(c, asset.FileID)
}

func (a *App) handleTimetable(c tele.Context) error {
	day := ""
	if msg := c.Message(); msg != nil {
		day = strings.TrimSpace(msg.Payload)
	}
	return replyText(c, timetable.ForDay(day, time.Now()))
}

func (a *App) handleAddAssignment(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	return a.flow.Start(ctx, eventFrom(c), teleReplier{c})
}

func (a *App) handleCancel(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	return a.flow.Cancel(ctx, eventFrom(c), teleReplier{c})
}
