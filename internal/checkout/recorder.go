package checkout

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/farmbasket/checkout-service/internal/domain/model"
	"github.com/farmbasket/checkout-service/internal/repository"
)

// TransitionEvent describes one step change in a checkout session.
type TransitionEvent struct {
	OwnerID   string
	SessionID string
	From      model.CheckoutStep
	To        model.CheckoutStep
	OrderRef  string
	Detail    string
}

// EventRecorder persists checkout transitions for audit and reconciliation.
type EventRecorder interface {
	Record(ctx context.Context, event TransitionEvent)
}

// MongoEventRecorder writes transitions to the checkout event log.
// Recording is best effort: a failed write is logged and never blocks a
// checkout transition.
type MongoEventRecorder struct {
	events repository.EventsRepositoryInterface
}

// NewMongoEventRecorder creates a recorder backed by the events repository.
func NewMongoEventRecorder(events repository.EventsRepositoryInterface) *MongoEventRecorder {
	return &MongoEventRecorder{events: events}
}

// Record persists one transition event.
func (r *MongoEventRecorder) Record(ctx context.Context, event TransitionEvent) {
	err := r.events.Create(ctx, &repository.CheckoutEvent{
		OwnerID:   event.OwnerID,
		SessionID: event.SessionID,
		FromStep:  event.From.String(),
		ToStep:    event.To.String(),
		OrderRef:  event.OrderRef,
		Detail:    event.Detail,
	})
	if err != nil {
		log.Warn().Err(err).
			Str("owner_id", event.OwnerID).
			Str("from", event.From.String()).
			Str("to", event.To.String()).
			Msg("checkout event not recorded")
	}
}
