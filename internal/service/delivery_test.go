package service_test

import (
	"context"
	"errors"
	"testing"

	"givehub-backend/internal/domain"
	"givehub-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newDeliveryFixture() (*MockDeliveryRepo, *MockUserRepo, *MockEarningService, *MockNotifier, service.DeliveryService) {
	deliveryRepo := new(MockDeliveryRepo)
	userRepo := new(MockUserRepo)
	earningSvc := new(MockEarningService)
	notifier := new(MockNotifier)
	svc := service.NewDeliveryService(deliveryRepo, userRepo, earningSvc, notifier)
	return deliveryRepo, userRepo, earningSvc, notifier, svc
}

func deliveryAt(status domain.DeliveryStatus) *domain.Delivery {
	return &domain.Delivery{
		ID:             3,
		ItemID:         1,
		OfferID:        5,
		CourierID:      7,
		OwnerID:        10,
		PickupAddress:  "1 Origin St",
		DropoffAddress: "2 Target Ave",
		FeeCents:       700,
		Status:         status,
	}
}

func TestDeliveryService_AdvanceDelivery(t *testing.T) {
	ctx := context.Background()
	courierID := int32(7)

	t.Run("Assigned to accepted", func(t *testing.T) {
		deliveryRepo, _, _, notifier, svc := newDeliveryFixture()

		deliveryRepo.On("GetByID", ctx, int32(3)).Return(deliveryAt(domain.DeliveryStatusAssigned), nil).Once()
		deliveryRepo.On("Advance", ctx, int32(3), domain.DeliveryStatusAssigned, domain.DeliveryStatusAccepted, mock.AnythingOfType("time.Time")).Return(nil)
		deliveryRepo.On("GetByID", ctx, int32(3)).Return(deliveryAt(domain.DeliveryStatusAccepted), nil)
		notifier.On("Publish", mock.AnythingOfType("domain.NotificationEvent")).Return()

		d, err := svc.AdvanceDelivery(ctx, courierID, 3, domain.DeliveryStatusAccepted)
		assert.NoError(t, err)
		assert.Equal(t, domain.DeliveryStatusAccepted, d.Status)
	})

	t.Run("Not the courier", func(t *testing.T) {
		deliveryRepo, _, _, _, svc := newDeliveryFixture()
		deliveryRepo.On("GetByID", ctx, int32(3)).Return(deliveryAt(domain.DeliveryStatusAssigned), nil)

		_, err := svc.AdvanceDelivery(ctx, int32(999), 3, domain.DeliveryStatusAccepted)
		assert.ErrorIs(t, err, domain.ErrNotCourier)
	})

	t.Run("Skipping a state is rejected", func(t *testing.T) {
		deliveryRepo, _, _, _, svc := newDeliveryFixture()
		deliveryRepo.On("GetByID", ctx, int32(3)).Return(deliveryAt(domain.DeliveryStatusAssigned), nil)

		_, err := svc.AdvanceDelivery(ctx, courierID, 3, domain.DeliveryStatusInTransit)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("Terminal delivery", func(t *testing.T) {
		deliveryRepo, _, _, _, svc := newDeliveryFixture()
		deliveryRepo.On("GetByID", ctx, int32(3)).Return(deliveryAt(domain.DeliveryStatusCancelled), nil)

		_, err := svc.AdvanceDelivery(ctx, courierID, 3, domain.DeliveryStatusAccepted)
		assert.ErrorIs(t, err, domain.ErrDeliveryFinalized)
	})

	t.Run("Completion settles earnings", func(t *testing.T) {
		deliveryRepo, _, earningSvc, notifier, svc := newDeliveryFixture()

		deliveryRepo.On("GetByID", ctx, int32(3)).Return(deliveryAt(domain.DeliveryStatusInTransit), nil).Once()
		deliveryRepo.On("Complete", ctx, int32(3), mock.AnythingOfType("time.Time")).Return(nil)
		earningSvc.On("SettleDelivery", ctx, mock.MatchedBy(func(d *domain.Delivery) bool {
			return d.ID == 3 && d.Status == domain.DeliveryStatusCompleted
		})).Return(&domain.Earning{ID: 11, DeliveryID: 3}, nil)
		deliveryRepo.On("GetByID", ctx, int32(3)).Return(deliveryAt(domain.DeliveryStatusCompleted), nil)
		notifier.On("Publish", mock.AnythingOfType("domain.NotificationEvent")).Return()

		d, err := svc.AdvanceDelivery(ctx, courierID, 3, domain.DeliveryStatusCompleted)
		assert.NoError(t, err)
		assert.Equal(t, domain.DeliveryStatusCompleted, d.Status)
		earningSvc.AssertNumberOfCalls(t, "SettleDelivery", 1)
	})

	t.Run("Settlement failure does not undo completion", func(t *testing.T) {
		deliveryRepo, _, earningSvc, notifier, svc := newDeliveryFixture()

		deliveryRepo.On("GetByID", ctx, int32(3)).Return(deliveryAt(domain.DeliveryStatusInTransit), nil).Once()
		deliveryRepo.On("Complete", ctx, int32(3), mock.AnythingOfType("time.Time")).Return(nil)
		earningSvc.On("SettleDelivery", ctx, mock.AnythingOfType("*domain.Delivery")).
			Return(nil, errors.New("db down"))
		deliveryRepo.On("GetByID", ctx, int32(3)).Return(deliveryAt(domain.DeliveryStatusCompleted), nil)
		notifier.On("Publish", mock.AnythingOfType("domain.NotificationEvent")).Return()

		d, err := svc.AdvanceDelivery(ctx, courierID, 3, domain.DeliveryStatusCompleted)
		assert.NoError(t, err)
		assert.Equal(t, domain.DeliveryStatusCompleted, d.Status)
	})

	t.Run("Lost CAS retries once with a fresh read", func(t *testing.T) {
		deliveryRepo, _, _, notifier, svc := newDeliveryFixture()

		// First read sees ASSIGNED but the row has moved on; the retry reads
		// ACCEPTED and advances from there.
		deliveryRepo.On("GetByID", ctx, int32(3)).Return(deliveryAt(domain.DeliveryStatusAssigned), nil).Once()
		deliveryRepo.On("Advance", ctx, int32(3), domain.DeliveryStatusAssigned, domain.DeliveryStatusAccepted, mock.AnythingOfType("time.Time")).
			Return(domain.ErrConflict).Once()
		deliveryRepo.On("GetByID", ctx, int32(3)).Return(deliveryAt(domain.DeliveryStatusAccepted), nil)

		notifier.On("Publish", mock.AnythingOfType("domain.NotificationEvent")).Return()

		// The fresh read is already ACCEPTED, so re-advancing to ACCEPTED is
		// an invalid transition and surfaces as such.
		_, err := svc.AdvanceDelivery(ctx, courierID, 3, domain.DeliveryStatusAccepted)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestDeliveryService_CancelDelivery(t *testing.T) {
	ctx := context.Background()

	t.Run("Courier cancels", func(t *testing.T) {
		deliveryRepo, _, _, notifier, svc := newDeliveryFixture()

		deliveryRepo.On("GetByID", ctx, int32(3)).Return(deliveryAt(domain.DeliveryStatusAccepted), nil).Once()
		deliveryRepo.On("Cancel", ctx, int32(3), int32(7), "van broke down").Return(nil)
		cancelled := deliveryAt(domain.DeliveryStatusCancelled)
		cancelled.CancelReason = "van broke down"
		deliveryRepo.On("GetByID", ctx, int32(3)).Return(cancelled, nil)
		notifier.On("Publish", mock.AnythingOfType("domain.NotificationEvent")).Return()

		d, err := svc.CancelDelivery(ctx, int32(7), 3, "van broke down")
		assert.NoError(t, err)
		assert.Equal(t, domain.DeliveryStatusCancelled, d.Status)
	})

	t.Run("Reason too short", func(t *testing.T) {
		_, _, _, _, svc := newDeliveryFixture()

		_, err := svc.CancelDelivery(ctx, int32(7), 3, "  no  ")
		assert.ErrorIs(t, err, domain.ErrReasonTooShort)
	})

	t.Run("Stranger may not cancel", func(t *testing.T) {
		deliveryRepo, userRepo, _, _, svc := newDeliveryFixture()

		deliveryRepo.On("GetByID", ctx, int32(3)).Return(deliveryAt(domain.DeliveryStatusAccepted), nil)
		userRepo.On("GetByID", ctx, int32(42)).Return(&domain.User{ID: 42, Role: domain.UserRoleMember}, nil)

		_, err := svc.CancelDelivery(ctx, int32(42), 3, "not my delivery")
		assert.ErrorIs(t, err, domain.ErrNotAllowed)
	})

	t.Run("Admin may cancel", func(t *testing.T) {
		deliveryRepo, userRepo, _, notifier, svc := newDeliveryFixture()

		deliveryRepo.On("GetByID", ctx, int32(3)).Return(deliveryAt(domain.DeliveryStatusAccepted), nil).Once()
		userRepo.On("GetByID", ctx, int32(42)).Return(&domain.User{ID: 42, Role: domain.UserRoleAdmin}, nil)
		deliveryRepo.On("Cancel", ctx, int32(3), int32(42), "fraud report").Return(nil)
		deliveryRepo.On("GetByID", ctx, int32(3)).Return(deliveryAt(domain.DeliveryStatusCancelled), nil)
		notifier.On("Publish", mock.AnythingOfType("domain.NotificationEvent")).Return()

		_, err := svc.CancelDelivery(ctx, int32(42), 3, "fraud report")
		assert.NoError(t, err)
	})

	t.Run("Completed delivery cannot be cancelled", func(t *testing.T) {
		deliveryRepo, _, _, _, svc := newDeliveryFixture()
		deliveryRepo.On("GetByID", ctx, int32(3)).Return(deliveryAt(domain.DeliveryStatusCompleted), nil)

		_, err := svc.CancelDelivery(ctx, int32(7), 3, "changed my mind")
		assert.ErrorIs(t, err, domain.ErrDeliveryFinalized)
	})
}

func TestDeliveryService_GetDelivery(t *testing.T) {
	ctx := context.Background()

	t.Run("Party access only", func(t *testing.T) {
		deliveryRepo, _, _, _, svc := newDeliveryFixture()
		deliveryRepo.On("GetByID", ctx, int32(3)).Return(deliveryAt(domain.DeliveryStatusAccepted), nil)

		_, err := svc.GetDelivery(ctx, int32(42), 3)
		assert.ErrorIs(t, err, domain.ErrNotAllowed)

		d, err := svc.GetDelivery(ctx, int32(10), 3)
		assert.NoError(t, err)
		assert.Equal(t, int32(3), d.ID)
	})
}

func TestDeliveryStatusEdges(t *testing.T) {
	assert.True(t, domain.DeliveryStatusAssigned.CanAdvance(domain.DeliveryStatusAccepted))
	assert.True(t, domain.DeliveryStatusInTransit.CanAdvance(domain.DeliveryStatusCompleted))
	assert.False(t, domain.DeliveryStatusAssigned.CanAdvance(domain.DeliveryStatusCompleted))
	assert.False(t, domain.DeliveryStatusCompleted.CanAdvance(domain.DeliveryStatusAccepted))
}
