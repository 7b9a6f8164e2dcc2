package provider

import (
	"context"
	"fmt"

	"github.com/nfrund/authform/internal/config"
	"github.com/nfrund/authform/internal/database"
	"github.com/nfrund/authform/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

// Provider is what the application needs from an identity backend: the form
// capability plus completion of emailed links.
type Provider interface {
	domain.AuthProvider
	domain.TokenConfirmer
}

var (
	_ Provider = (*Memory)(nil)
	_ Provider = (*Surreal)(nil)
)

// New builds the provider selected by AUTH_PROVIDER. For "surreal" it opens the
// connection and returns it so the caller can close it on shutdown; for
// "memory" the returned connection is nil.
func New(ctx context.Context, cfg config.Provider, emailer domain.EmailSender) (Provider, *surrealdb.DB, error) {
	switch cfg.GetAuthProvider() {
	case "memory":
		tokens, err := NewTokenIssuer(cfg.GetTokenSecret(), cfg.GetTokenTTL())
		if err != nil {
			return nil, nil, err
		}
		return NewMemory(tokens, emailer, cfg.GetAppBaseURL()), nil, nil
	case "surreal":
		db, err := database.NewDB(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		s := NewSurreal(db, emailer, SurrealOptions{
			Namespace: cfg.GetDBNs(),
			Database:  cfg.GetDBDb(),
			Access:    cfg.GetDBAccess(),
			Root:      database.RootAuth(cfg),
			BaseURL:   cfg.GetAppBaseURL(),
		})
		if err := s.DefineSchema(ctx); err != nil {
			db.Close(ctx)
			return nil, nil, err
		}
		return s, db, nil
	default:
		return nil, nil, fmt.Errorf("unknown auth provider: %s", cfg.GetAuthProvider())
	}
}
