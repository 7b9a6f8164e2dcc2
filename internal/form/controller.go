package form

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nfrund/authform/internal/domain"
)

// Fixed messages shown when the provider rejects an attempt. The provider's own
// error is kept in the Outcome and never reaches the user.
const (
	MsgUserNotFound = "User not found!"
	MsgEmailInUse   = "This Email Already Has Been Used!"
	MsgMissingEmail = "Missing Email!"
)

// Mode selects which flow the shared form drives.
type Mode int

const (
	ModeRegister Mode = iota
	ModeLogin
)

func (m Mode) String() string {
	if m == ModeLogin {
		return "login"
	}
	return "register"
}

// State is the transient input held by a Controller. An empty Error means the
// last attempt did not fail.
type State struct {
	Name     string
	Email    string
	Password string
	Mode     Mode
	Error    string
}

// Op names the operation an Outcome reports on.
type Op string

const (
	OpValidate         Op = "validate"
	OpRegister         Op = "register"
	OpSignIn           Op = "signin"
	OpReset            Op = "reset"
	OpSetDisplayName   Op = "set_display_name"
	OpSendVerification Op = "send_verification"
)

// Outcome is delivered once per completed operation. Err carries the raw cause.
type Outcome struct {
	Op        Op
	Email     string
	Principal *domain.Principal
	Err       error
}

// Option configures a Controller.
type Option func(*Controller)

// WithOnOutcome registers fn to run after every completed operation, including
// the fire-and-forget follow-ups of a registration.
func WithOnOutcome(fn func(Outcome)) Option {
	return func(c *Controller) {
		c.observers = append(c.observers, fn)
	}
}

// WithLogger sets the logger used for internal diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// Controller mediates between raw form input and an AuthProvider.
//
// Submit and ResetPassword return immediately; the provider call completes on
// its own goroutine and the returned channel receives the Outcome once the
// state has been updated. Attempts are not serialized: when two are in flight,
// whichever finishes last decides Error.
type Controller struct {
	provider  domain.AuthProvider
	logger    *slog.Logger
	observers []func(Outcome)

	mu    sync.Mutex
	state State
}

// New creates a Controller in register mode with empty fields.
func New(provider domain.AuthProvider, opts ...Option) *Controller {
	c := &Controller{
		provider: provider,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the current form state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Error returns the message from the most recent failed attempt, or "".
func (c *Controller) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Error
}

func (c *Controller) SetName(v string) {
	c.mu.Lock()
	c.state.Name = v
	c.mu.Unlock()
}

func (c *Controller) SetEmail(v string) {
	c.mu.Lock()
	c.state.Email = v
	c.mu.Unlock()
}

func (c *Controller) SetPassword(v string) {
	c.mu.Lock()
	c.state.Password = v
	c.mu.Unlock()
}

// SetMode switches between the register and login flows. Fields and Error are
// left untouched.
func (c *Controller) SetMode(m Mode) {
	c.mu.Lock()
	c.state.Mode = m
	c.mu.Unlock()
}

// Submit clears Error, validates the password and, when it passes, starts the
// sign-in or registration call for the current mode. A policy failure sets
// Error synchronously and the returned channel already holds the Outcome.
func (c *Controller) Submit(ctx context.Context) <-chan Outcome {
	done := make(chan Outcome, 1)

	c.mu.Lock()
	c.state.Error = ""
	snapshot := c.state
	if err := ValidatePassword(snapshot.Password); err != nil {
		c.state.Error = err.Error()
		c.mu.Unlock()
		c.finish(done, Outcome{Op: OpValidate, Email: snapshot.Email, Err: err})
		return done
	}
	c.mu.Unlock()

	// In-flight calls are never cancelled, even when the caller goes away.
	ctx = context.WithoutCancel(ctx)
	if snapshot.Mode == ModeLogin {
		go c.signIn(ctx, snapshot, done)
	} else {
		go c.register(ctx, snapshot, done)
	}
	return done
}

// ResetPassword asks the provider to email a reset link to the current email,
// whatever the mode.
func (c *Controller) ResetPassword(ctx context.Context) <-chan Outcome {
	done := make(chan Outcome, 1)
	email := c.State().Email
	ctx = context.WithoutCancel(ctx)

	go func() {
		err := c.provider.ResetPassword(ctx, email)
		if err != nil {
			c.setError(MsgMissingEmail)
			c.logger.Warn("password reset failed", "email", email, "error", err)
		} else {
			c.setError("")
			c.logger.Info("password reset email requested", "email", email)
		}
		c.finish(done, Outcome{Op: OpReset, Email: email, Err: err})
	}()
	return done
}

func (c *Controller) signIn(ctx context.Context, s State, done chan<- Outcome) {
	p, err := c.provider.SignIn(ctx, s.Email, s.Password)
	if err != nil {
		c.setError(MsgUserNotFound)
		c.logger.Warn("sign in failed", "email", s.Email, "error", err)
	} else {
		c.setError("")
		c.logger.Info("sign in succeeded", "email", s.Email, "principal", p.ID)
	}
	c.finish(done, Outcome{Op: OpSignIn, Email: s.Email, Principal: p, Err: err})
}

func (c *Controller) register(ctx context.Context, s State, done chan<- Outcome) {
	p, err := c.provider.Register(ctx, s.Email, s.Password)
	if err != nil {
		c.setError(MsgEmailInUse)
		c.logger.Warn("registration failed", "email", s.Email, "error", err)
		c.finish(done, Outcome{Op: OpRegister, Email: s.Email, Err: err})
		return
	}

	c.setError("")
	c.logger.Info("registration succeeded", "email", s.Email, "principal", p.ID)

	// Both follow-ups are independent and unawaited; their failures never
	// reach the form state.
	go c.followUp(OpSetDisplayName, s.Email, p, func() error {
		return c.provider.SetDisplayName(ctx, p, s.Name)
	})
	go c.followUp(OpSendVerification, s.Email, p, func() error {
		return c.provider.SendVerification(ctx, p)
	})

	c.finish(done, Outcome{Op: OpRegister, Email: s.Email, Principal: p})
}

func (c *Controller) followUp(op Op, email string, p *domain.Principal, call func() error) {
	err := call()
	if err != nil {
		c.logger.Warn("registration follow-up failed", "op", op, "email", email, "error", err)
	}
	c.notify(Outcome{Op: op, Email: email, Principal: p, Err: err})
}

func (c *Controller) setError(msg string) {
	c.mu.Lock()
	c.state.Error = msg
	c.mu.Unlock()
}

func (c *Controller) finish(done chan<- Outcome, o Outcome) {
	c.notify(o)
	done <- o
	close(done)
}

func (c *Controller) notify(o Outcome) {
	for _, fn := range c.observers {
		fn(o)
	}
}
