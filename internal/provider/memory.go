package provider

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/nfrund/authform/internal/domain"
)

var emailValidator = validator.New()

type account struct {
	id            string
	email         string
	hash          string
	name          string
	verified      bool
	verifyToken   string
	verifyExpires time.Time
	resetToken    string
	resetExpires  time.Time
}

func (a *account) principal() *domain.Principal {
	return &domain.Principal{
		ID:          a.id,
		Email:       a.email,
		DisplayName: a.name,
		Verified:    a.verified,
	}
}

// Memory is an identity provider that keeps accounts in process memory. It is
// used for development and tests; accounts are lost on restart.
type Memory struct {
	emailer domain.EmailSender
	tokens  *TokenIssuer
	baseURL string
	now     func() time.Time

	mu      sync.Mutex
	byEmail map[string]*account
	byID    map[string]*account
}

// NewMemory creates an empty in-memory provider. Verification and reset links
// point at baseURL.
func NewMemory(tokens *TokenIssuer, emailer domain.EmailSender, baseURL string) *Memory {
	return &Memory{
		emailer: emailer,
		tokens:  tokens,
		baseURL: baseURL,
		now:     time.Now,
		byEmail: make(map[string]*account),
		byID:    make(map[string]*account),
	}
}

func emailKey(email string) string {
	return strings.ToLower(email)
}

// Register creates an account and returns its principal with a session token.
func (m *Memory) Register(ctx context.Context, email, password string) (*domain.Principal, error) {
	if err := emailValidator.Var(email, "required,email"); err != nil {
		return nil, domain.ErrInvalidEmail
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if _, exists := m.byEmail[emailKey(email)]; exists {
		m.mu.Unlock()
		return nil, domain.ErrUserAlreadyExists
	}
	acc := &account{id: "user:" + uuid.NewString(), email: email, hash: hash}
	m.byEmail[emailKey(email)] = acc
	m.byID[acc.id] = acc
	p := acc.principal()
	m.mu.Unlock()

	return m.withToken(p)
}

// SignIn checks the credentials and returns the principal with a session token.
func (m *Memory) SignIn(ctx context.Context, email, password string) (*domain.Principal, error) {
	m.mu.Lock()
	acc, ok := m.byEmail[emailKey(email)]
	var hash string
	var p *domain.Principal
	if ok {
		hash = acc.hash
		p = acc.principal()
	}
	m.mu.Unlock()

	if !ok {
		return nil, domain.ErrUserNotFound
	}
	match, err := verifyPassword(hash, password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		return nil, domain.ErrInvalidCredentials
	}
	return m.withToken(p)
}

// ResetPassword emails a reset link to the account registered under email.
func (m *Memory) ResetPassword(ctx context.Context, email string) error {
	if email == "" {
		return domain.ErrMissingEmail
	}
	if err := emailValidator.Var(email, "email"); err != nil {
		return domain.ErrInvalidEmail
	}

	token, err := generateSecureToken(linkTokenBytes)
	if err != nil {
		return err
	}

	m.mu.Lock()
	acc, ok := m.byEmail[emailKey(email)]
	if ok {
		acc.resetToken = token
		acc.resetExpires = m.now().Add(linkTokenTTL)
	}
	m.mu.Unlock()
	if !ok {
		return domain.ErrUserNotFound
	}

	if err := m.emailer.Send(email, "Reset Your Password", resetBody(resetLink(m.baseURL, token))); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}

// SetDisplayName updates the name on the account behind p.
func (m *Memory) SetDisplayName(ctx context.Context, p *domain.Principal, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.byID[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	acc.name = name
	return nil
}

// SendVerification emails a confirmation link to the account behind p.
func (m *Memory) SendVerification(ctx context.Context, p *domain.Principal) error {
	token, err := generateSecureToken(linkTokenBytes)
	if err != nil {
		return err
	}

	m.mu.Lock()
	acc, ok := m.byID[p.ID]
	var to string
	if ok {
		acc.verifyToken = token
		acc.verifyExpires = m.now().Add(linkTokenTTL)
		to = acc.email
	}
	m.mu.Unlock()
	if !ok {
		return domain.ErrNotFound
	}

	if err := m.emailer.Send(to, "Verify Your Email", verificationBody(verifyLink(m.baseURL, token))); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

// ConfirmEmail marks the account holding token as verified.
func (m *Memory) ConfirmEmail(ctx context.Context, token string) (*domain.Principal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, acc := range m.byID {
		if tokenMatches(acc.verifyToken, token) && m.now().Before(acc.verifyExpires) {
			acc.verified = true
			acc.verifyToken = ""
			acc.verifyExpires = time.Time{}
			slog.Info("email verified", "principal", acc.id)
			return acc.principal(), nil
		}
	}
	return nil, domain.ErrInvalidToken
}

// ConfirmPasswordReset replaces the password of the account holding token.
func (m *Memory) ConfirmPasswordReset(ctx context.Context, token, newPassword string) (*domain.Principal, error) {
	hash, err := hashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, acc := range m.byID {
		if tokenMatches(acc.resetToken, token) && m.now().Before(acc.resetExpires) {
			acc.hash = hash
			acc.resetToken = ""
			acc.resetExpires = time.Time{}
			return acc.principal(), nil
		}
	}
	return nil, domain.ErrInvalidToken
}

// tokenMatches compares link tokens in constant time. An empty stored token
// never matches.
func tokenMatches(stored, presented string) bool {
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}

func (m *Memory) withToken(p *domain.Principal) (*domain.Principal, error) {
	token, err := m.tokens.Issue(p)
	if err != nil {
		return nil, err
	}
	p.Token = token
	return p, nil
}
