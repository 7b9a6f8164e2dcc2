package server_test

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nfrund/authform/internal/config"
	"github.com/nfrund/authform/internal/form"
	"github.com/nfrund/authform/internal/formsession"
	"github.com/nfrund/authform/internal/handlers"
	"github.com/nfrund/authform/internal/provider"
	"github.com/nfrund/authform/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mailbox struct {
	mu   sync.Mutex
	sent []string
}

func (m *mailbox) Send(to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, subject)
	return nil
}

func (m *mailbox) subjects() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

func setupIntegrationTest(t *testing.T) (*httptest.Server, *http.Client, *mailbox) {
	t.Helper()

	t.Setenv("SESSION_SECRET", "integration-test-session-secret")
	t.Setenv("TOKEN_SECRET", "integration-test-token-secret")
	cfg, err := config.FromEnv()
	require.NoError(t, err)

	tokens, err := provider.NewTokenIssuer(cfg.GetTokenSecret(), cfg.GetTokenTTL())
	require.NoError(t, err)
	mail := &mailbox{}
	memory := provider.NewMemory(tokens, mail, cfg.GetAppBaseURL())

	forms := formsession.New(func() *form.Controller { return form.New(memory) }, cfg.GetSessionIdleTTL())
	s, err := server.New(server.Dependencies{
		Config:  cfg,
		Handler: handlers.NewFormHandler(memory, cfg.GetSubmitWait()),
		Forms:   forms,
	})
	require.NoError(t, err)
	s.RegisterRoutes()

	ts := httptest.NewServer(s.E)
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return ts, client, mail
}

func htmxPost(t *testing.T, client *http.Client, target string, form url.Values) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, target, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body strings.Builder
	_, err = io.Copy(&body, resp.Body)
	require.NoError(t, err)
	return resp, body.String()
}

func authCookie(client *http.Client, base string) string {
	u, _ := url.Parse(base)
	for _, c := range client.Jar.Cookies(u) {
		if c.Name == "auth_token" {
			return c.Value
		}
	}
	return ""
}

func TestRegisterThenLogin(t *testing.T) {
	ts, client, mail := setupIntegrationTest(t)

	resp, err := client.Get(ts.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for field, value := range map[string]string{"name": "Ada", "email": "ada@example.com", "password": "Abcdef1!"} {
		resp, _ := htmxPost(t, client, ts.URL+"/form/fields/"+field, url.Values{field: {value}})
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
	}

	_, body := htmxPost(t, client, ts.URL+"/form/submit", nil)
	assert.Contains(t, body, handlers.NoticeRegistered)
	assert.NotEmpty(t, authCookie(client, ts.URL))

	assert.Eventually(t, func() bool {
		for _, s := range mail.subjects() {
			if s == "Verify Your Email" {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)

	// Submitting again in register mode hits the duplicate.
	_, body = htmxPost(t, client, ts.URL+"/form/submit", nil)
	assert.Contains(t, body, form.MsgEmailInUse)

	_, body = htmxPost(t, client, ts.URL+"/form/mode", url.Values{"login": {"on"}})
	assert.Contains(t, body, "Please Login")

	_, body = htmxPost(t, client, ts.URL+"/form/submit", nil)
	assert.Contains(t, body, handlers.NoticeSignedIn)
	assert.NotContains(t, body, form.MsgEmailInUse)
}
