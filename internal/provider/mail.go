package provider

import (
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"
)

const (
	linkTokenBytes = 32
	linkTokenTTL   = 24 * time.Hour
)

func verifyLink(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/auth/verify?token=" + url.QueryEscape(token)
}

func resetLink(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/auth/reset-password?token=" + url.QueryEscape(token)
}

func verificationBody(link string) string {
	return fmt.Sprintf(`<p>Please confirm your email address:</p><a href="%s">Verify Email</a>`, html.EscapeString(link))
}

func resetBody(link string) string {
	return fmt.Sprintf(`<p>Click the link below to reset your password:</p><a href="%s">Reset Password</a>`, html.EscapeString(link))
}
