// Package bot wires the assignment bot together: services on top of the
// shared database pool, the authorization gate, the intake conversation,
// and the Telegram routes that expose them.
package bot

import (
	"context"
	"sync/atomic"
	"time"

	"log/slog"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"

	"github.com/classworks/classbot/internal/access"
	"github.com/classworks/classbot/internal/config"
	"github.com/classworks/classbot/internal/intake"
	"github.com/classworks/classbot/internal/logger"
	"github.com/classworks/classbot/internal/notify"
	"github.com/classworks/classbot/internal/service"
	"github.com/classworks/classbot/internal/storage"
	tg "github.com/classworks/classbot/internal/telegram"
	"github.com/classworks/classbot/internal/telegram/commands"
	"github.com/classworks/classbot/internal/telegram/router"
)

// App owns the bot's domain services and route wiring.
type App struct {
	cfg *config.Config

	users  *service.Users
	assets *service.Assets
	gate   *access.Gate
	flow   *intake.Flow

	// notifier is filled in once the bot transport exists (OnStart).
	notifier *lazyNotifier
	registry *tg.Registry
}

// lazyNotifier defers broadcaster construction until the Telegram transport
// is up; the intake flow is built before the bot connects.
type lazyNotifier struct {
	b atomic.Pointer[notify.Broadcaster]
}

func (l *lazyNotifier) set(b *notify.Broadcaster) {
	l.b.Store(b)
}

// Broadcast delegates to the live broadcaster, or drops the batch with a
// warning when the transport has not come up yet.
func (l *lazyNotifier) Broadcast(ctx context.Context, message string) notify.Report {
	if b := l.b.Load(); b != nil {
		return b.Broadcast(ctx, message)
	}
	logger.Warn(ctx, "notify", "broadcast.dropped",
		slog.String("reason", "transport_not_ready"),
	)
	return notify.Report{}
}

// New assembles the application on top of an established database pool.
func New(cfg *config.Config, db *sqlx.DB) *App {
	users := service.NewUsers(storage.NewUserRepo(db))
	assets := service.NewAssets(storage.NewAssetRepo(db))
	gate := access.NewGate(cfg.Telegram.AdminIDs, users)

	notifier := &lazyNotifier{}
	flow := intake.NewFlow(gate, assets, notifier, intake.NewSessions())

	app := &App{
		cfg:      cfg,
		users:    users,
		assets:   assets,
		gate:     gate,
		flow:     flow,
		notifier: notifier,
		registry: tg.NewRegistry(),
	}
	app.registerHandlers()
	return app
}

func (a *App) registerHandlers() {
	a.registry.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "To start the bot",
	})
	a.registry.RegisterCommand("/help", commands.Command{
		Handler:     a.handleHelp,
		Description: "To get help",
	})
	a.registry.RegisterCommand("/works", commands.Command{
		Handler:     a.handleWorks,
		Description: "To get the assignments/record/notes",
	})
	a.registry.RegisterCommand("/timetable", commands.Command{
		Handler:     a.handleTimetable,
		Description: "To get the timetable",
	})
	a.registry.RegisterCommand("/addassignment", commands.Command{
		Handler:     a.handleAddAssignment,
		Description: "To add an assignment (Admin only)",
		AdminOnly:   true,
	})
	a.registry.RegisterCommand("/cancel", commands.Command{
		Handler:     a.handleCancel,
		Description: "To cancel assignment creation",
		Hidden:      true,
	})

	_ = a.registry.RegisterCallback(assetCallbackKey, a.handleAssetCallback)
}

// TelegramRunOptions builds the full route table and lifecycle hooks.
func (a *App) TelegramRunOptions() tg.RunOptions {
	routes := router.CommandRoutes(a.registry, router.CommandRouteOptions{
		Admins:        a.gate,
		OnAdminReject: a.rejectNonAdmin,
	})
	routes = append(routes, router.TextRoutes(&conversation{flow: a.flow}, a.registry, router.TextOptions{})...)
	routes = append(routes, router.CallbackRoute(a.registry, router.CallbackOptions{}))

	startedAt := time.Now()
	return tg.RunOptions{
		Config:      a.cfg,
		Registry:    a.registry,
		Middlewares: tg.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt tg.Runtime) error {
			a.notifier.set(notify.NewBroadcaster(rt.Bot, a.users, a.cfg.Broadcast.Workers))
			logger.Info(ctx, "app", "ready",
				slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))),
			)
			return nil
		},
		OnStop: func(ctx context.Context, rt tg.Runtime) error {
			logger.Info(ctx, "app", "shutdown")
			return nil
		},
	}
}

// Run drives the bot until ctx is done.
func (a *App) Run(ctx context.Context) error {
	return tg.RunTelegram(ctx, a.TelegramRunOptions())
}

func (a *App) rejectNonAdmin(c tele.Context) error {
	return replyText(c, "You are not authorized to add assignments.")
}
