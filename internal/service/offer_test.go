package service_test

import (
	"context"
	"testing"
	"time"

	"givehub-backend/internal/domain"
	"givehub-backend/internal/service"
	"givehub-backend/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newOfferFixture() (*MockOfferRepo, *MockItemRepo, *MockGateway, *MockNotifier, service.OfferService) {
	offerRepo := new(MockOfferRepo)
	itemRepo := new(MockItemRepo)
	gateway := new(MockGateway)
	notifier := new(MockNotifier)
	tariff := utils.Tariff{BaseFeeCents: 300, PerKmCents: 80}
	svc := service.NewOfferService(offerRepo, itemRepo, gateway, tariff, notifier)
	return offerRepo, itemRepo, gateway, notifier, svc
}

func paidItem(id, ownerID int32) *domain.Item {
	return &domain.Item{
		ID:                id,
		Kind:              domain.ItemKindDonation,
		OwnerID:           ownerID,
		Title:             "Box of books",
		FulfillmentOption: domain.FulfillmentPaid,
		PickupAddress:     "1 Origin St",
		DropoffAddress:    "2 Target Ave",
		DistanceKm:        4.2,
		Status:            domain.ItemStatusAvailable,
	}
}

func TestOfferService_CreateOffer(t *testing.T) {
	ctx := context.Background()
	courierID := int32(7)

	t.Run("Success with tariff pricing", func(t *testing.T) {
		offerRepo, itemRepo, _, notifier, svc := newOfferFixture()
		item := paidItem(1, 10)

		itemRepo.On("GetByID", ctx, int32(1)).Return(item, nil)
		offerRepo.On("HasActiveOffer", ctx, int32(1), courierID).Return(false, nil)
		offerRepo.On("Create", ctx, mock.AnythingOfType("*domain.Offer")).Return(nil)
		notifier.On("Publish", mock.AnythingOfType("domain.NotificationEvent")).Return()

		offer, err := svc.CreateOffer(ctx, courierID, 1, domain.OfferKindDelivery, "can do today")
		assert.NoError(t, err)
		assert.NotNil(t, offer)
		assert.Equal(t, domain.OfferStatusPending, offer.Status)
		// 4.2 km rounds up to 5 km: 300 + 5*80
		assert.Equal(t, int32(700), offer.EstimatedEarningCents)
		assert.Equal(t, offer.OfferedAt.Add(domain.OfferTTL), offer.ExpiresAt)
	})

	t.Run("Success with confirmed pre-payment", func(t *testing.T) {
		offerRepo, itemRepo, gateway, notifier, svc := newOfferFixture()
		item := paidItem(1, 10)
		ref := "charge-abc"
		amount := int32(2500)
		item.PaymentRef = &ref
		item.PaymentAmountCents = &amount

		itemRepo.On("GetByID", ctx, int32(1)).Return(item, nil)
		offerRepo.On("HasActiveOffer", ctx, int32(1), courierID).Return(false, nil)
		gateway.On("ChargeSucceeded", ctx, ref).Return(true, nil)
		offerRepo.On("Create", ctx, mock.AnythingOfType("*domain.Offer")).Return(nil)
		notifier.On("Publish", mock.AnythingOfType("domain.NotificationEvent")).Return()

		offer, err := svc.CreateOffer(ctx, courierID, 1, domain.OfferKindDelivery, "")
		assert.NoError(t, err)
		assert.Equal(t, int32(2500), offer.EstimatedEarningCents)
	})

	t.Run("Payment not confirmed", func(t *testing.T) {
		offerRepo, itemRepo, gateway, _, svc := newOfferFixture()
		item := paidItem(1, 10)
		ref := "charge-bad"
		item.PaymentRef = &ref

		itemRepo.On("GetByID", ctx, int32(1)).Return(item, nil)
		offerRepo.On("HasActiveOffer", ctx, int32(1), courierID).Return(false, nil)
		gateway.On("ChargeSucceeded", ctx, ref).Return(false, nil)

		offer, err := svc.CreateOffer(ctx, courierID, 1, domain.OfferKindDelivery, "")
		assert.ErrorIs(t, err, domain.ErrPaymentNotConfirmed)
		assert.Nil(t, offer)
	})

	t.Run("Own item", func(t *testing.T) {
		_, itemRepo, _, _, svc := newOfferFixture()
		item := paidItem(1, courierID)

		itemRepo.On("GetByID", ctx, int32(1)).Return(item, nil)

		offer, err := svc.CreateOffer(ctx, courierID, 1, domain.OfferKindDelivery, "")
		assert.ErrorIs(t, err, domain.ErrNotAllowed)
		assert.Nil(t, offer)
	})

	t.Run("Kind mismatch", func(t *testing.T) {
		_, itemRepo, _, _, svc := newOfferFixture()
		item := paidItem(1, 10)

		itemRepo.On("GetByID", ctx, int32(1)).Return(item, nil)

		offer, err := svc.CreateOffer(ctx, courierID, 1, domain.OfferKindVolunteer, "")
		assert.ErrorIs(t, err, domain.ErrOptionMismatch)
		assert.Nil(t, offer)
	})

	t.Run("Self pickup takes no offers", func(t *testing.T) {
		_, itemRepo, _, _, svc := newOfferFixture()
		item := paidItem(1, 10)
		item.FulfillmentOption = domain.FulfillmentSelf

		itemRepo.On("GetByID", ctx, int32(1)).Return(item, nil)

		_, err := svc.CreateOffer(ctx, courierID, 1, domain.OfferKindDelivery, "")
		assert.ErrorIs(t, err, domain.ErrOptionMismatch)
	})

	t.Run("Item not available", func(t *testing.T) {
		_, itemRepo, _, _, svc := newOfferFixture()
		item := paidItem(1, 10)
		item.Status = domain.ItemStatusAssigned

		itemRepo.On("GetByID", ctx, int32(1)).Return(item, nil)

		_, err := svc.CreateOffer(ctx, courierID, 1, domain.OfferKindDelivery, "")
		assert.ErrorIs(t, err, domain.ErrItemUnavailable)
	})

	t.Run("Duplicate active offer", func(t *testing.T) {
		offerRepo, itemRepo, _, _, svc := newOfferFixture()
		item := paidItem(1, 10)

		itemRepo.On("GetByID", ctx, int32(1)).Return(item, nil)
		offerRepo.On("HasActiveOffer", ctx, int32(1), courierID).Return(true, nil)

		_, err := svc.CreateOffer(ctx, courierID, 1, domain.OfferKindDelivery, "")
		assert.ErrorIs(t, err, domain.ErrDuplicateOffer)
	})
}

func TestOfferService_ApproveOffer(t *testing.T) {
	ctx := context.Background()
	ownerID := int32(10)
	courierID := int32(7)

	pendingOffer := func() *domain.Offer {
		now := time.Now()
		return &domain.Offer{
			ID:                    5,
			Kind:                  domain.OfferKindDelivery,
			ItemID:                1,
			OwnerID:               ownerID,
			CourierID:             courierID,
			EstimatedEarningCents: 700,
			Status:                domain.OfferStatusPending,
			OfferedAt:             now,
			ExpiresAt:             now.Add(domain.OfferTTL),
		}
	}

	t.Run("Success", func(t *testing.T) {
		offerRepo, itemRepo, _, notifier, svc := newOfferFixture()
		offer := pendingOffer()
		item := paidItem(1, ownerID)

		offerRepo.On("GetByID", ctx, int32(5)).Return(offer, nil)
		itemRepo.On("GetByID", ctx, int32(1)).Return(item, nil)
		offerRepo.On("ApproveWithDelivery", ctx, int32(5), mock.AnythingOfType("*domain.Delivery")).
			Run(func(args mock.Arguments) {
				d := args.Get(2).(*domain.Delivery)
				d.ID = 99
				d.Status = domain.DeliveryStatusAssigned
			}).Return(nil)
		notifier.On("Publish", mock.AnythingOfType("domain.NotificationEvent")).Return()

		delivery, err := svc.ApproveOffer(ctx, ownerID, 5)
		assert.NoError(t, err)
		assert.NotNil(t, delivery)
		assert.Equal(t, int32(99), delivery.ID)
		assert.Equal(t, courierID, delivery.CourierID)
		assert.Equal(t, item.PickupAddress, delivery.PickupAddress)
		assert.Equal(t, offer.EstimatedEarningCents, delivery.FeeCents)
	})

	t.Run("Not the owner", func(t *testing.T) {
		offerRepo, _, _, _, svc := newOfferFixture()
		offerRepo.On("GetByID", ctx, int32(5)).Return(pendingOffer(), nil)

		_, err := svc.ApproveOffer(ctx, int32(999), 5)
		assert.ErrorIs(t, err, domain.ErrNotOwner)
	})

	t.Run("Expired before the reaper ran", func(t *testing.T) {
		offerRepo, _, _, _, svc := newOfferFixture()
		offer := pendingOffer()
		offer.OfferedAt = time.Now().Add(-25 * time.Hour)
		offer.ExpiresAt = time.Now().Add(-1 * time.Hour)

		offerRepo.On("GetByID", ctx, int32(5)).Return(offer, nil)

		_, err := svc.ApproveOffer(ctx, ownerID, 5)
		assert.ErrorIs(t, err, domain.ErrOfferExpired)
	})

	t.Run("Already rejected", func(t *testing.T) {
		offerRepo, _, _, _, svc := newOfferFixture()
		offer := pendingOffer()
		offer.Status = domain.OfferStatusRejected

		offerRepo.On("GetByID", ctx, int32(5)).Return(offer, nil)

		_, err := svc.ApproveOffer(ctx, ownerID, 5)
		assert.ErrorIs(t, err, domain.ErrOfferNotPending)
	})

	t.Run("Item lost to a competing approval", func(t *testing.T) {
		offerRepo, itemRepo, _, _, svc := newOfferFixture()
		offer := pendingOffer()
		item := paidItem(1, ownerID)

		offerRepo.On("GetByID", ctx, int32(5)).Return(offer, nil)
		itemRepo.On("GetByID", ctx, int32(1)).Return(item, nil)
		offerRepo.On("ApproveWithDelivery", ctx, int32(5), mock.AnythingOfType("*domain.Delivery")).
			Return(domain.ErrItemUnavailable)

		_, err := svc.ApproveOffer(ctx, ownerID, 5)
		assert.ErrorIs(t, err, domain.ErrItemUnavailable)
	})
}

func TestOfferService_RejectOffer(t *testing.T) {
	ctx := context.Background()
	ownerID := int32(10)

	offer := &domain.Offer{
		ID:        5,
		ItemID:    1,
		OwnerID:   ownerID,
		CourierID: 7,
		Status:    domain.OfferStatusPending,
	}

	t.Run("Success", func(t *testing.T) {
		offerRepo, _, _, notifier, svc := newOfferFixture()
		offerRepo.On("GetByID", ctx, int32(5)).Return(offer, nil)
		offerRepo.On("Reject", ctx, int32(5), "too slow").Return(nil)
		notifier.On("Publish", mock.AnythingOfType("domain.NotificationEvent")).Return()

		rejected, err := svc.RejectOffer(ctx, ownerID, 5, "too slow")
		assert.NoError(t, err)
		assert.Equal(t, domain.OfferStatusRejected, rejected.Status)
		assert.Equal(t, "too slow", rejected.RejectionReason)
	})

	t.Run("Not the owner", func(t *testing.T) {
		offerRepo, _, _, _, svc := newOfferFixture()
		offerRepo.On("GetByID", ctx, int32(5)).Return(offer, nil)

		_, err := svc.RejectOffer(ctx, int32(999), 5, "nope")
		assert.ErrorIs(t, err, domain.ErrNotOwner)
	})
}

func TestOfferService_ListItemOffers(t *testing.T) {
	ctx := context.Background()

	t.Run("Owner gated", func(t *testing.T) {
		_, itemRepo, _, _, svc := newOfferFixture()
		itemRepo.On("GetByID", ctx, int32(1)).Return(paidItem(1, 10), nil)

		_, err := svc.ListItemOffers(ctx, int32(999), 1)
		assert.ErrorIs(t, err, domain.ErrNotOwner)
	})
}
