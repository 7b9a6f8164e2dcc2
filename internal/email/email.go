package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// --- LogSender (for development) ---

// LogSender prints emails to the log instead of sending them.
type LogSender struct {
	senderAddress string
}

// NewLogSender creates a LogSender that reports from as the sender.
func NewLogSender(from string) *LogSender {
	return &LogSender{senderAddress: from}
}

// Send logs the email content.
func (s *LogSender) Send(to, subject, htmlBody string) error {
	slog.Info("email sent (logged)",
		"from", s.senderAddress,
		"to", to,
		"subject", subject,
		"body", htmlBody,
	)
	return nil
}

// --- ResendSender (for production) ---

const resendEndpoint = "https://api.resend.com/emails"

// ResendSender sends emails using the Resend API.
type ResendSender struct {
	apiKey        string
	senderAddress string
	endpoint      string
	client        *http.Client
}

// NewResendSender creates a sender for the Resend API.
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		apiKey:        apiKey,
		senderAddress: from,
		endpoint:      resendEndpoint,
		client:        &http.Client{Timeout: 10 * time.Second},
	}
}

// WithEndpoint points the sender at a different API URL.
func (s *ResendSender) WithEndpoint(url string) *ResendSender {
	s.endpoint = url
	return s
}

type resendPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Send dispatches an email using the Resend API.
func (s *ResendSender) Send(to, subject, htmlBody string) error {
	sender := s.senderAddress
	if sender == "" {
		sender = "Authform <onboarding@resend.dev>" // Default sender for testing with Resend
	}

	body, err := json.Marshal(resendPayload{
		From:    sender,
		To:      to,
		Subject: subject,
		HTML:    htmlBody,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal resend payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create resend request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to resend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("resend API returned an error: status %d", resp.StatusCode)
	}

	slog.Info("Successfully sent email via Resend", "to", to, "subject", subject)
	return nil
}

// --- OutboxSender (for local testing of emailed links) ---

// OutboxSender writes each email as an HTML file under dir.
type OutboxSender struct {
	fs            afero.Fs
	dir           string
	senderAddress string
}

// NewOutboxSender creates an OutboxSender on fs.
func NewOutboxSender(fs afero.Fs, dir, from string) *OutboxSender {
	return &OutboxSender{fs: fs, dir: dir, senderAddress: from}
}

// Send writes the message to <dir>/<timestamp>-<id>.html.
func (s *OutboxSender) Send(to, subject, htmlBody string) error {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create outbox: %w", err)
	}

	name := fmt.Sprintf("%s-%s.html", time.Now().UTC().Format("20060102T150405"), uuid.NewString())
	var b strings.Builder
	fmt.Fprintf(&b, "<!-- from: %s -->\n<!-- to: %s -->\n<!-- subject: %s -->\n", s.senderAddress, to, subject)
	b.WriteString(htmlBody)

	if err := afero.WriteFile(s.fs, filepath.Join(s.dir, name), []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write outbox message: %w", err)
	}
	slog.Debug("email written to outbox", "to", to, "file", name)
	return nil
}
