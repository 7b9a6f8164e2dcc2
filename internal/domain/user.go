package domain

import "context"

// Principal is the authenticated identity returned by a provider after a
// successful registration or sign-in.
type Principal struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	Verified    bool   `json:"verified"`
	// Token is the session token issued by the provider. It is never serialized.
	Token string `json:"-"`
}

// AuthProvider is the capability the form controller drives. Every
// security-sensitive operation (hashing, token issuance, email delivery) happens
// behind it.
type AuthProvider interface {
	Register(ctx context.Context, email, password string) (*Principal, error)
	SignIn(ctx context.Context, email, password string) (*Principal, error)
	ResetPassword(ctx context.Context, email string) error
	// SetDisplayName and SendVerification apply to the principal that was just
	// authenticated by Register.
	SetDisplayName(ctx context.Context, p *Principal, name string) error
	SendVerification(ctx context.Context, p *Principal) error
}

// TokenConfirmer completes the emailed flows started by SendVerification and
// ResetPassword.
type TokenConfirmer interface {
	ConfirmEmail(ctx context.Context, token string) (*Principal, error)
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) (*Principal, error)
}
