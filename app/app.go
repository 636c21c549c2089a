// Package app assembles the meetup bot: session store, ping registry,
// state machine, handlers and the Telegram runtime options.
package app

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/unilinkup/bot/bot"
	"github.com/unilinkup/bot/core/bootstrap"
	coreconfig "github.com/unilinkup/bot/core/config"
	"github.com/unilinkup/bot/core/logger"
	coretelegram "github.com/unilinkup/bot/core/telegram"
	"github.com/unilinkup/bot/core/telegram/router"
	"github.com/unilinkup/bot/meetup"
	"github.com/unilinkup/bot/storage"
	"log/slog"
)

// App holds the assembled bot components.
type App struct {
	cfg *coreconfig.Config
	db  *sqlx.DB

	store    *meetup.Store
	registry meetup.Registry
	machine  *meetup.Machine
	handlers *bot.Handlers

	sweepStop context.CancelFunc
}

// New bootstraps infrastructure and wires the domain components.
func New(cfg *coreconfig.Config) (*App, error) {
	boot, err := bootstrap.Run(bootstrap.Options{Config: cfg})
	if err != nil {
		return nil, err
	}

	store := meetup.NewStore()
	locations := catalogFrom(cfg.Catalog.Locations)
	friends := catalogFrom(cfg.Catalog.Friends)

	var registry meetup.Registry
	if cfg.Storage.Driver == coreconfig.StoragePostgres {
		registry = storage.NewPostgresRegistry(boot.DB)
	} else {
		registry = meetup.NewMemoryRegistry(cfg.Storage.MaxHistory)
	}

	machine := meetup.NewMachine(store, registry, locations, friends)

	return &App{
		cfg:      cfg,
		db:       boot.DB,
		store:    store,
		registry: registry,
		machine:  machine,
		handlers: bot.NewHandlers(machine, registry, locations, friends),
	}, nil
}

// TelegramRunOptions builds the runtime wiring for the bot.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.handlers.Register(reg)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(a.handlers, reg, router.TextOptions{})...)

	return coretelegram.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, _ coretelegram.Runtime) error {
			a.startSweeper()
			return nil
		},
		OnStop: func(ctx context.Context, _ coretelegram.Runtime) error {
			return a.Close()
		},
	}, nil
}

// startSweeper drops sessions abandoned for longer than the configured idle
// bound, on the configured interval.
func (a *App) startSweeper() {
	interval := time.Duration(a.cfg.Session.SweepIntervalMinutes) * time.Minute
	maxIdle := time.Duration(a.cfg.Session.MaxIdleHours) * time.Hour
	if interval <= 0 || maxIdle <= 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.sweepStop = cancel

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed := a.store.SweepIdle(maxIdle)
				if len(removed) > 0 {
					logger.LogEvent(ctx, logger.Sessions, slog.LevelInfo, "sessions.swept",
						slog.String("status", "ok"),
						slog.Int("removed", len(removed)),
						slog.Int("remaining", a.store.Len()),
					)
				}
			}
		}
	}()
}

func catalogFrom(entries []coreconfig.CatalogEntry) *meetup.Catalog {
	converted := make([]meetup.Entry, 0, len(entries))
	for _, e := range entries {
		converted = append(converted, meetup.Entry{ID: e.ID, Name: e.Name})
	}
	return meetup.NewCatalog(converted)
}

// Close stops background work and releases infrastructure.
func (a *App) Close() error {
	if a.sweepStop != nil {
		a.sweepStop()
		a.sweepStop = nil
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
