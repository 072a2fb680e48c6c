package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/farmbasket/checkout-service/internal/domain/model"
	"github.com/farmbasket/checkout-service/internal/mocks"
	"github.com/farmbasket/checkout-service/internal/repository"
)

func TestMongoEventRecorder_Record(t *testing.T) {
	repo := new(mocks.MockEventsRepositoryInterface)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(e *repository.CheckoutEvent) bool {
		return e.OwnerID == "user:42" &&
			e.FromStep == "PAYMENT_SELECT" &&
			e.ToStep == "PROCESSING" &&
			e.Detail == "online"
	})).Return(nil).Once()

	recorder := NewMongoEventRecorder(repo)
	recorder.Record(context.Background(), TransitionEvent{
		OwnerID:   "user:42",
		SessionID: "sess-1",
		From:      model.StepPaymentSelect,
		To:        model.StepProcessing,
		Detail:    "online",
	})

	repo.AssertExpectations(t)
}

func TestMongoEventRecorder_WriteFailureDoesNotPanic(t *testing.T) {
	repo := new(mocks.MockEventsRepositoryInterface)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed")).Once()

	recorder := NewMongoEventRecorder(repo)
	assert.NotPanics(t, func() {
		recorder.Record(context.Background(), TransitionEvent{
			OwnerID: "user:42",
			From:    model.StepProcessing,
			To:      model.StepConfirmed,
		})
	})
	repo.AssertExpectations(t)
}
