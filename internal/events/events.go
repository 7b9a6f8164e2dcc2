// Package events publishes form outcomes on the bus so that provider error
// detail hidden from users is still observable.
package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/authform/internal/form"
	"github.com/nfrund/authform/internal/pubsub"
)

// Kind classifies an auth event.
type Kind string

const (
	KindValidationFailed Kind = "validation.failed"
	KindRegisterOK       Kind = "register.succeeded"
	KindRegisterFailed   Kind = "register.failed"
	KindSignInOK         Kind = "signin.succeeded"
	KindSignInFailed     Kind = "signin.failed"
	KindResetOK          Kind = "reset.succeeded"
	KindResetFailed      Kind = "reset.failed"
	KindFollowUpOK       Kind = "followup.succeeded"
	KindFollowUpFailed   Kind = "followup.failed"
)

// Event is the payload published on Topic.
type Event struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Op        string    `json:"op"`
	Email     string    `json:"email"`
	Principal string    `json:"principal,omitempty"`
	Error     string    `json:"error,omitempty"`
	At        time.Time `json:"at"`
}

// Topic carries every auth event.
var Topic = pubsub.NewTopic[Event]("auth.events")

func kindOf(o form.Outcome) Kind {
	failed := o.Err != nil
	switch o.Op {
	case form.OpValidate:
		return KindValidationFailed
	case form.OpRegister:
		if failed {
			return KindRegisterFailed
		}
		return KindRegisterOK
	case form.OpSignIn:
		if failed {
			return KindSignInFailed
		}
		return KindSignInOK
	case form.OpReset:
		if failed {
			return KindResetFailed
		}
		return KindResetOK
	default:
		if failed {
			return KindFollowUpFailed
		}
		return KindFollowUpOK
	}
}

// FromOutcome converts a controller outcome into an Event stamped with at.
func FromOutcome(o form.Outcome, at time.Time) Event {
	e := Event{
		ID:    uuid.NewString(),
		Kind:  kindOf(o),
		Op:    string(o.Op),
		Email: o.Email,
		At:    at.UTC(),
	}
	if o.Principal != nil {
		e.Principal = o.Principal.ID
	}
	if o.Err != nil {
		e.Error = o.Err.Error()
	}
	return e
}

// Publisher turns outcomes into events on the bus.
type Publisher struct {
	pub pubsub.Publisher
	now func() time.Time
}

// NewPublisher creates a Publisher on pub.
func NewPublisher(pub pubsub.Publisher) *Publisher {
	return &Publisher{pub: pub, now: time.Now}
}

// Observe publishes o. It has the signature expected by form.WithOnOutcome;
// publish failures are logged and otherwise ignored.
func (p *Publisher) Observe(o form.Outcome) {
	e := FromOutcome(o, p.now())
	if err := pubsub.Publish(context.Background(), p.pub, Topic, e.Principal, e); err != nil {
		slog.Error("failed to publish auth event", "kind", e.Kind, "error", err)
	}
}

// LogSubscriber writes every auth event to logger. Failures are logged at warn
// level and successes at info.
func LogSubscriber(ctx context.Context, sub pubsub.Subscriber, logger *slog.Logger) error {
	return pubsub.Subscribe(ctx, sub, Topic, func(ctx context.Context, e Event) error {
		level := slog.LevelInfo
		if e.Error != "" || e.Kind == KindValidationFailed {
			level = slog.LevelWarn
		}
		logger.LogAttrs(ctx, level, "auth event",
			slog.String("id", e.ID),
			slog.String("kind", string(e.Kind)),
			slog.String("email", e.Email),
			slog.String("principal", e.Principal),
			slog.String("error", e.Error),
		)
		return nil
	})
}
