// Package app wires the services of the form server together in a samber/do
// container.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nfrund/authform/internal/config"
	"github.com/nfrund/authform/internal/domain"
	"github.com/nfrund/authform/internal/email"
	"github.com/nfrund/authform/internal/events"
	"github.com/nfrund/authform/internal/form"
	"github.com/nfrund/authform/internal/formsession"
	"github.com/nfrund/authform/internal/handlers"
	"github.com/nfrund/authform/internal/logging"
	"github.com/nfrund/authform/internal/provider"
	"github.com/nfrund/authform/internal/pubsub"
	"github.com/nfrund/authform/internal/server"
	"github.com/samber/do/v2"
	"github.com/spf13/afero"
	"github.com/surrealdb/surrealdb.go"
)

// App is a fully wired form server.
type App struct {
	injector do.Injector
	cfg      *config.Config
}

// Option overrides a service before it is first resolved.
type Option func(i do.Injector)

// WithFs replaces the filesystem used by the outbox email sender.
func WithFs(fs afero.Fs) Option {
	return func(i do.Injector) {
		do.Override(i, func(do.Injector) (afero.Fs, error) { return fs, nil })
	}
}

// WithEmailSender replaces the configured email sender.
func WithEmailSender(sender domain.EmailSender) Option {
	return func(i do.Injector) {
		do.Override(i, func(do.Injector) (domain.EmailSender, error) { return sender, nil })
	}
}

// New registers every service. Nothing is constructed until it is first
// invoked, so a misconfigured provider only fails when the server starts.
func New(cfg *config.Config, opts ...Option) *App {
	i := do.New()

	do.ProvideValue(i, cfg)
	do.Provide(i, func(do.Injector) (*slog.Logger, error) {
		return logging.New(cfg.LogFormat, cfg.LogLevel), nil
	})
	do.Provide(i, func(do.Injector) (afero.Fs, error) {
		return afero.NewOsFs(), nil
	})
	do.Provide(i, func(i do.Injector) (domain.EmailSender, error) {
		fs, err := do.Invoke[afero.Fs](i)
		if err != nil {
			return nil, err
		}
		return email.NewEmailService(cfg, fs)
	})
	do.Provide(i, newIdentity)
	do.Provide(i, func(do.Injector) (*pubsub.WatermillBridge, error) {
		return pubsub.NewWatermillBridge(), nil
	})
	do.Provide(i, func(i do.Injector) (*events.Publisher, error) {
		return events.NewPublisher(do.MustInvoke[*pubsub.WatermillBridge](i)), nil
	})
	do.Provide(i, newFormStore)
	do.Provide(i, func(i do.Injector) (*handlers.FormHandler, error) {
		id, err := do.Invoke[*identity](i)
		if err != nil {
			return nil, err
		}
		return handlers.NewFormHandler(id.provider, cfg.SubmitWait), nil
	})
	do.Provide(i, newServer)

	for _, opt := range opts {
		opt(i)
	}
	return &App{injector: i, cfg: cfg}
}

// identity bundles the selected provider with the connection it owns, if any.
type identity struct {
	provider provider.Provider
	db       *surrealdb.DB
}

func newIdentity(i do.Injector) (*identity, error) {
	cfg := do.MustInvoke[*config.Config](i)
	emailer, err := do.Invoke[domain.EmailSender](i)
	if err != nil {
		return nil, err
	}

	p, db, err := provider.New(context.Background(), cfg, emailer)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth provider: %w", err)
	}
	return &identity{provider: p, db: db}, nil
}

func newFormStore(i do.Injector) (*formsession.Store, error) {
	cfg := do.MustInvoke[*config.Config](i)
	logger := do.MustInvoke[*slog.Logger](i)
	publisher := do.MustInvoke[*events.Publisher](i)
	id, err := do.Invoke[*identity](i)
	if err != nil {
		return nil, err
	}

	factory := func() *form.Controller {
		return form.New(id.provider,
			form.WithLogger(logger),
			form.WithOnOutcome(publisher.Observe),
		)
	}
	return formsession.New(factory, cfg.SessionIdleTTL), nil
}

func newServer(i do.Injector) (*server.Server, error) {
	handler, err := do.Invoke[*handlers.FormHandler](i)
	if err != nil {
		return nil, err
	}
	forms, err := do.Invoke[*formsession.Store](i)
	if err != nil {
		return nil, err
	}

	s, err := server.New(server.Dependencies{
		Config:  do.MustInvoke[*config.Config](i),
		Handler: handler,
		Forms:   forms,
	})
	if err != nil {
		return nil, err
	}
	s.RegisterRoutes()
	return s, nil
}

// Server resolves the HTTP server and everything it depends on.
func (a *App) Server() (*server.Server, error) {
	return do.Invoke[*server.Server](a.injector)
}

// Run starts the event log subscriber and serves until ctx is canceled, then
// releases the bus and the database connection.
func (a *App) Run(ctx context.Context) error {
	logger, err := do.Invoke[*slog.Logger](a.injector)
	if err != nil {
		return err
	}
	s, err := a.Server()
	if err != nil {
		return err
	}
	bus := do.MustInvoke[*pubsub.WatermillBridge](a.injector)
	id := do.MustInvoke[*identity](a.injector)

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := events.LogSubscriber(subCtx, bus, logger); err != nil {
		return fmt.Errorf("failed to subscribe to auth events: %w", err)
	}

	logger.Info("Auth provider ready", "provider", a.cfg.AuthProvider, "email", a.cfg.EmailProvider)
	runErr := s.Start(ctx)

	cancel()
	if err := bus.Close(); err != nil {
		logger.Error("Failed to close event bus", "error", err)
	}
	if id.db != nil {
		if err := id.db.Close(context.Background()); err != nil {
			logger.Error("Failed to close database connection", "error", err)
		}
	}
	return runErr
}
