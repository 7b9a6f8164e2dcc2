package email

import (
	"fmt"

	"github.com/nfrund/authform/internal/config"
	"github.com/nfrund/authform/internal/domain"
	"github.com/spf13/afero"
)

// NewEmailService creates and returns an email sender based on the configuration.
// fs is only used by the outbox sender.
func NewEmailService(cfg config.Provider, fs afero.Fs) (domain.EmailSender, error) {
	switch cfg.GetEmailProvider() {
	case "log":
		return NewLogSender(cfg.GetEmailSender()), nil
	case "resend":
		if cfg.GetEmailAPIKey() == "" {
			return nil, fmt.Errorf("email provider is 'resend' but EMAIL_API_KEY is not set")
		}
		return NewResendSender(cfg.GetEmailAPIKey(), cfg.GetEmailSender()), nil
	case "outbox":
		return NewOutboxSender(fs, cfg.GetEmailOutboxDir(), cfg.GetEmailSender()), nil
	default:
		return nil, fmt.Errorf("unknown email provider: %s", cfg.GetEmailProvider())
	}
}
