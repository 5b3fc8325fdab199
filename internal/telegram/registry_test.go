package telegram

import (
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/classworks/classbot/internal/telegram/commands"
)

func noopHandler(tele.Context) error { return nil }

func TestRegistryRegisterAndLookup(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/works", commands.Command{
		Handler:     noopHandler,
		Description: "list files",
		Aliases:     []string{"files"},
	})

	if _, _, ok := reg.LookupCommand("/works"); !ok {
		t.Error("canonical name should resolve")
	}
	if key, _, ok := reg.LookupCommand("files"); !ok || key != "/works" {
		t.Errorf("alias lookup = %q, %v", key, ok)
	}
	if _, _, ok := reg.LookupCommand("/missing"); ok {
		t.Error("unknown command must not resolve")
	}
}

func TestRegistryRejectsInvalidCommands(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("works", commands.Command{Handler: noopHandler, Description: "no slash"})
	reg.RegisterCommand("/works", commands.Command{Description: "nil handler"})
	if len(reg.Commands()) != 0 {
		t.Errorf("commands = %d, expected none registered", len(reg.Commands()))
	}
}

func TestRegistryListCommandsHidesAdminAndHidden(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/works", commands.Command{Handler: noopHandler, Description: "list"})
	reg.RegisterCommand("/addassignment", commands.Command{Handler: noopHandler, Description: "add", AdminOnly: true})
	reg.RegisterCommand("/cancel", commands.Command{Handler: noopHandler, Description: "cancel", Hidden: true})

	visible := reg.ListCommands(true)
	if len(visible) != 1 || visible[0].Text != "/works" {
		t.Errorf("visible = %+v, expected only /works", visible)
	}
	if all := reg.ListCommands(false); len(all) != 3 {
		t.Errorf("all = %d, expected 3", len(all))
	}
}

func TestRegistryCallbackDuplicate(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterCallback("asset", noopHandler); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if err := reg.RegisterCallback("asset", noopHandler); err == nil {
		t.Error("duplicate registration must fail")
	}
	if _, ok := reg.GetCallback("asset"); !ok {
		t.Error("registered callback must resolve")
	}
}
