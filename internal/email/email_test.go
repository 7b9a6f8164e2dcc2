package email_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nfrund/authform/internal/config"
	"github.com/nfrund/authform/internal/email"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboxSender_WritesMessage(t *testing.T) {
	fs := afero.NewMemMapFs()
	sender := email.NewOutboxSender(fs, "outbox", "noreply@example.com")

	require.NoError(t, sender.Send("ada@example.com", "Verify your email", "<p>hello</p>"))

	entries, err := afero.ReadDir(fs, "outbox")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	content, err := afero.ReadFile(fs, "outbox/"+entries[0].Name())
	require.NoError(t, err)
	assert.Contains(t, string(content), "to: ada@example.com")
	assert.Contains(t, string(content), "subject: Verify your email")
	assert.Contains(t, string(content), "<p>hello</p>")
}

func TestResendSender(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key-123", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		if got["to"] == "fail@example.com" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sender := email.NewResendSender("key-123", "").WithEndpoint(srv.URL)

	require.NoError(t, sender.Send("ada@example.com", "Hi", "<p>x</p>"))
	assert.Equal(t, "ada@example.com", got["to"])
	assert.Contains(t, got["from"], "onboarding@resend.dev")

	assert.Error(t, sender.Send("fail@example.com", "Hi", "<p>x</p>"))
}

type stubConfig struct {
	config.Provider
	provider string
	apiKey   string
}

func (s stubConfig) GetEmailProvider() string  { return s.provider }
func (s stubConfig) GetEmailAPIKey() string    { return s.apiKey }
func (s stubConfig) GetEmailSender() string    { return "" }
func (s stubConfig) GetEmailOutboxDir() string { return "outbox" }

func TestNewEmailService(t *testing.T) {
	fs := afero.NewMemMapFs()

	s, err := email.NewEmailService(stubConfig{provider: "log"}, fs)
	require.NoError(t, err)
	assert.IsType(t, &email.LogSender{}, s)

	s, err = email.NewEmailService(stubConfig{provider: "outbox"}, fs)
	require.NoError(t, err)
	assert.IsType(t, &email.OutboxSender{}, s)

	_, err = email.NewEmailService(stubConfig{provider: "resend"}, fs)
	assert.Error(t, err)

	s, err = email.NewEmailService(stubConfig{provider: "resend", apiKey: "k"}, fs)
	require.NoError(t, err)
	assert.IsType(t, &email.ResendSender{}, s)

	_, err = email.NewEmailService(stubConfig{provider: "pigeon"}, fs)
	assert.Error(t, err)
}
