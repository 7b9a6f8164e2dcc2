package provider_test

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/nfrund/authform/internal/domain"
	"github.com/nfrund/authform/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEmail    = "ada@example.com"
	testPassword = "Abcdefg1!"
)

type sentMail struct {
	to, subject, body string
}

// captureSender records emails instead of sending them.
type captureSender struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (c *captureSender) Send(to, subject, htmlBody string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, sentMail{to, subject, htmlBody})
	return nil
}

func (c *captureSender) last(t *testing.T) sentMail {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.sent, "expected an email to be sent")
	return c.sent[len(c.sent)-1]
}

var tokenPattern = regexp.MustCompile(`token=([0-9a-f]+)`)

func linkToken(t *testing.T, body string) string {
	t.Helper()
	m := tokenPattern.FindStringSubmatch(body)
	require.Len(t, m, 2, "no token in %q", body)
	return m[1]
}

func newMemory(t *testing.T) (*provider.Memory, *captureSender) {
	t.Helper()
	tokens, err := provider.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	sender := &captureSender{}
	return provider.NewMemory(tokens, sender, "http://localhost:8080/"), sender
}

func TestMemory_RegisterAndSignIn(t *testing.T) {
	ctx := context.Background()
	m, _ := newMemory(t)

	p, err := m.Register(ctx, testEmail, testPassword)
	require.NoError(t, err)
	assert.Equal(t, testEmail, p.Email)
	assert.NotEmpty(t, p.ID)
	assert.False(t, p.Verified)
	assert.NotEmpty(t, p.Token)

	signedIn, err := m.SignIn(ctx, testEmail, testPassword)
	require.NoError(t, err)
	assert.Equal(t, p.ID, signedIn.ID)
	assert.NotEmpty(t, signedIn.Token)
}

func TestMemory_RegisterErrors(t *testing.T) {
	ctx := context.Background()
	m, _ := newMemory(t)

	_, err := m.Register(ctx, "not-an-email", testPassword)
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = m.Register(ctx, testEmail, testPassword)
	require.NoError(t, err)

	_, err = m.Register(ctx, "ADA@example.com", testPassword)
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestMemory_SignInErrors(t *testing.T) {
	ctx := context.Background()
	m, _ := newMemory(t)

	_, err := m.SignIn(ctx, testEmail, testPassword)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = m.Register(ctx, testEmail, testPassword)
	require.NoError(t, err)

	_, err = m.SignIn(ctx, testEmail, "Wrong-pass1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestMemory_DisplayNameAndVerification(t *testing.T) {
	ctx := context.Background()
	m, sender := newMemory(t)

	p, err := m.Register(ctx, testEmail, testPassword)
	require.NoError(t, err)

	require.NoError(t, m.SetDisplayName(ctx, p, "Ada Lovelace"))
	require.NoError(t, m.SendVerification(ctx, p))

	mail := sender.last(t)
	assert.Equal(t, testEmail, mail.to)
	assert.Contains(t, mail.body, "http://localhost:8080/auth/verify?token=")

	verified, err := m.ConfirmEmail(ctx, linkToken(t, mail.body))
	require.NoError(t, err)
	assert.True(t, verified.Verified)
	assert.Equal(t, "Ada Lovelace", verified.DisplayName)

	// Tokens are single use.
	_, err = m.ConfirmEmail(ctx, linkToken(t, mail.body))
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	unknown := &domain.Principal{ID: "user:missing"}
	assert.ErrorIs(t, m.SetDisplayName(ctx, unknown, "x"), domain.ErrNotFound)
	assert.ErrorIs(t, m.SendVerification(ctx, unknown), domain.ErrNotFound)
}

func TestMemory_ResetPassword(t *testing.T) {
	ctx := context.Background()
	m, sender := newMemory(t)

	assert.ErrorIs(t, m.ResetPassword(ctx, ""), domain.ErrMissingEmail)
	assert.ErrorIs(t, m.ResetPassword(ctx, "nope"), domain.ErrInvalidEmail)
	assert.ErrorIs(t, m.ResetPassword(ctx, testEmail), domain.ErrUserNotFound)

	_, err := m.Register(ctx, testEmail, testPassword)
	require.NoError(t, err)
	require.NoError(t, m.ResetPassword(ctx, testEmail))

	mail := sender.last(t)
	assert.Equal(t, "Reset Your Password", mail.subject)
	token := linkToken(t, mail.body)

	_, err = m.ConfirmPasswordReset(ctx, "bogus", "Newpass1!")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = m.ConfirmPasswordReset(ctx, token, "Newpass1!")
	require.NoError(t, err)

	_, err = m.SignIn(ctx, testEmail, testPassword)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = m.SignIn(ctx, testEmail, "Newpass1!")
	assert.NoError(t, err)
}

func TestMemory_EmailFailureIsReturned(t *testing.T) {
	ctx := context.Background()
	m, sender := newMemory(t)

	p, err := m.Register(ctx, testEmail, testPassword)
	require.NoError(t, err)

	sender.err = errors.New("smtp down")
	assert.Error(t, m.SendVerification(ctx, p))
	assert.Error(t, m.ResetPassword(ctx, testEmail))
}
