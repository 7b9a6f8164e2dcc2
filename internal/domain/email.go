package domain

// EmailSender defines the interface for sending emails. Implementations log the
// message, post it to Resend, or write it to an outbox directory.
type EmailSender interface {
	Send(to, subject, htmlBody string) error
}
