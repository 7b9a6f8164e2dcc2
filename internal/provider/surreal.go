package provider

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nfrund/authform/internal/database"
	"github.com/nfrund/authform/internal/domain"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// userRecord mirrors the user table defined by the record access method.
type userRecord struct {
	ID       *surrealmodels.RecordID `json:"id,omitempty"`
	Email    string                  `json:"email"`
	Name     *string                 `json:"name,omitempty"`
	Verified bool                    `json:"verified,omitempty"`
}

func (u *userRecord) principal(token string) *domain.Principal {
	p := &domain.Principal{Email: u.Email, Verified: u.Verified, Token: token}
	if u.ID != nil {
		p.ID = u.ID.String()
	}
	if u.Name != nil {
		p.DisplayName = *u.Name
	}
	return p
}

// SurrealOptions configures a Surreal provider.
type SurrealOptions struct {
	Namespace string
	Database  string
	// Access is the name of the record access method, e.g. "account".
	Access  string
	Root    *surrealdb.Auth
	BaseURL string
}

// Surreal is an identity provider backed by SurrealDB record access. Sign up
// and sign in go through the access method; profile, verification and reset
// state live on the user record.
//
// Record sign up/in re-scopes the connection, so every operation holds mu and
// restores the root session before releasing it.
type Surreal struct {
	db      *surrealdb.DB
	emailer domain.EmailSender
	opts    SurrealOptions

	mu sync.Mutex
}

// NewSurreal creates a provider on an open connection that is already using the
// target namespace and database.
func NewSurreal(db *surrealdb.DB, emailer domain.EmailSender, opts SurrealOptions) *Surreal {
	if opts.Access == "" {
		opts.Access = "account"
	}
	return &Surreal{db: db, emailer: emailer, opts: opts}
}

// schema defines the user table and the record access method used for sign up
// and sign in. The access name is interpolated, so it is validated first.
const schema = `
DEFINE TABLE IF NOT EXISTS user SCHEMALESS
	PERMISSIONS FOR select, update WHERE id = $auth.id;
DEFINE INDEX IF NOT EXISTS user_email ON user FIELDS email UNIQUE;
DEFINE ACCESS IF NOT EXISTS %s ON DATABASE TYPE RECORD
	SIGNUP ( CREATE user SET email = $email, password = crypto::argon2::generate($password) )
	SIGNIN ( SELECT * FROM user WHERE email = $email AND crypto::argon2::compare(password, $password) )
	DURATION FOR TOKEN 15m, FOR SESSION 24h;
`

// DefineSchema creates the user table, its unique email index and the record
// access method when they do not exist yet.
func (s *Surreal) DefineSchema(ctx context.Context) error {
	if err := emailValidator.Var(s.opts.Access, "required,alphanum"); err != nil {
		return fmt.Errorf("invalid access method name %q", s.opts.Access)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := database.Execute(ctx, s.db, fmt.Sprintf(schema, s.opts.Access), nil); err != nil {
		return fmt.Errorf("failed to define schema: %w", err)
	}
	return nil
}

func (s *Surreal) accessData(email, password string) map[string]any {
	return map[string]any{
		"ns":       s.opts.Namespace,
		"db":       s.opts.Database,
		"ac":       s.opts.Access,
		"email":    email,
		"password": password,
	}
}

// restoreRoot switches the shared connection back to the system user after a
// record-level sign up or sign in.
func (s *Surreal) restoreRoot(ctx context.Context) error {
	if s.opts.Root == nil {
		return nil
	}
	if _, err := s.db.SignIn(ctx, s.opts.Root); err != nil {
		return fmt.Errorf("failed to restore root session: %w", err)
	}
	return nil
}

// Register signs up a new record user.
func (s *Surreal) Register(ctx context.Context, email, password string) (*domain.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, signUpErr := s.db.SignUp(ctx, s.accessData(email, password))
	if err := s.restoreRoot(ctx); err != nil {
		return nil, err
	}
	if signUpErr != nil {
		msg := signUpErr.Error()
		if strings.Contains(msg, "already exists") || strings.Contains(msg, "signup query failed") {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("surreal sign up: %w", signUpErr)
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user after sign-up: %w", err)
	}
	return user.principal(token), nil
}

// SignIn authenticates a record user.
func (s *Surreal) SignIn(ctx context.Context, email, password string) (*domain.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, signInErr := s.db.SignIn(ctx, s.accessData(email, password))
	if err := s.restoreRoot(ctx); err != nil {
		return nil, err
	}
	if signInErr != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, signInErr)
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user after sign-in: %w", err)
	}
	return user.principal(token), nil
}

// ResetPassword stores a reset token on the user and emails the link.
func (s *Surreal) ResetPassword(ctx context.Context, email string) error {
	if email == "" {
		return domain.ErrMissingEmail
	}

	token, err := generateSecureToken(linkTokenBytes)
	if err != nil {
		return err
	}

	s.mu.Lock()
	updated, err := database.QueryOne[userRecord](ctx, s.db,
		`UPDATE user SET resetToken = $token, resetTokenExpires = $expires WHERE email = $email RETURN AFTER`,
		map[string]any{
			"email":   email,
			"token":   token,
			"expires": time.Now().UTC().Add(linkTokenTTL).Format(time.RFC3339),
		})
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to update user with reset token: %w", err)
	}
	if updated == nil {
		return domain.ErrUserNotFound
	}

	if err := s.emailer.Send(email, "Reset Your Password", resetBody(resetLink(s.opts.BaseURL, token))); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}

// SetDisplayName writes name to the user record of p.
func (s *Surreal) SetDisplayName(ctx context.Context, p *domain.Principal, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := database.QueryOne[userRecord](ctx, s.db,
		`UPDATE user SET name = $name WHERE email = $email RETURN AFTER`,
		map[string]any{"email": p.Email, "name": name})
	if err != nil {
		return fmt.Errorf("failed to set display name: %w", err)
	}
	if updated == nil {
		return domain.ErrNotFound
	}
	return nil
}

// SendVerification stores a verification token on the user and emails the link.
func (s *Surreal) SendVerification(ctx context.Context, p *domain.Principal) error {
	token, err := generateSecureToken(linkTokenBytes)
	if err != nil {
		return err
	}

	s.mu.Lock()
	updated, err := database.QueryOne[userRecord](ctx, s.db,
		`UPDATE user SET verifyToken = $token, verifyTokenExpires = $expires WHERE email = $email RETURN AFTER`,
		map[string]any{
			"email":   p.Email,
			"token":   token,
			"expires": time.Now().UTC().Add(linkTokenTTL).Format(time.RFC3339),
		})
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to store verification token: %w", err)
	}
	if updated == nil {
		return domain.ErrNotFound
	}

	if err := s.emailer.Send(p.Email, "Verify Your Email", verificationBody(verifyLink(s.opts.BaseURL, token))); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

// ConfirmEmail marks the user holding token as verified.
func (s *Surreal) ConfirmEmail(ctx context.Context, token string) (*domain.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := database.QueryOne[userRecord](ctx, s.db, `
		UPDATE user SET
			verified = true,
			verifyToken = NONE,
			verifyTokenExpires = NONE
		WHERE verifyToken = $token AND type::datetime(verifyTokenExpires) > time::now()
		RETURN AFTER`,
		map[string]any{"token": token})
	if err != nil {
		return nil, fmt.Errorf("database error during email verification: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidToken
	}
	return user.principal(""), nil
}

// ConfirmPasswordReset sets a new password for the user holding token and
// invalidates the token in the same statement.
func (s *Surreal) ConfirmPasswordReset(ctx context.Context, token, newPassword string) (*domain.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := database.QueryOne[userRecord](ctx, s.db, `
		UPDATE user SET
			password = crypto::argon2::generate($password),
			resetToken = NONE,
			resetTokenExpires = NONE
		WHERE resetToken = $token AND type::datetime(resetTokenExpires) > time::now()
		RETURN AFTER`,
		map[string]any{"token": token, "password": newPassword})
	if err != nil {
		return nil, fmt.Errorf("database error during password reset: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidToken
	}
	return user.principal(""), nil
}

func (s *Surreal) findByEmail(ctx context.Context, email string) (*userRecord, error) {
	user, err := database.QueryOne[userRecord](ctx, s.db,
		"SELECT * FROM user WHERE email = $email", map[string]any{"email": email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}
