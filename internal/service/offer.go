package service

import (
	"context"
	"fmt"
	"time"

	"givehub-backend/internal/domain"
	"givehub-backend/internal/logger"
	"givehub-backend/internal/repository"
	"givehub-backend/internal/utils"
)

type offerService struct {
	offerRepo repository.OfferRepository
	itemRepo  repository.ItemRepository
	gateway   PaymentGateway
	tariff    utils.Tariff
	notifier  Notifier
	now       func() time.Time
}

func NewOfferService(
	offerRepo repository.OfferRepository,
	itemRepo repository.ItemRepository,
	gateway PaymentGateway,
	tariff utils.Tariff,
	notifier Notifier,
) OfferService {
	return &offerService{
		offerRepo: offerRepo,
		itemRepo:  itemRepo,
		gateway:   gateway,
		tariff:    tariff,
		notifier:  notifier,
		now:       time.Now,
	}
}

// grossEarning resolves the pre-commission amount an offer is worth: the
// item's stored payment when the owner pre-paid, otherwise the distance
// tariff.
func (s *offerService) grossEarning(ctx context.Context, item *domain.Item) (int32, error) {
	if item.FulfillmentOption == domain.FulfillmentPaid && item.PaymentRef != nil {
		ok, err := s.gateway.ChargeSucceeded(ctx, *item.PaymentRef)
		if err != nil {
			return 0, domain.ErrExternalFailure.WithDetail("charge authority: %v", err)
		}
		if !ok {
			return 0, domain.ErrPaymentNotConfirmed
		}
		if item.PaymentAmountCents == nil {
			amount, err := s.gateway.Amount(ctx, *item.PaymentRef)
			if err != nil {
				return 0, domain.ErrExternalFailure.WithDetail("charge authority: %v", err)
			}
			return amount, nil
		}
	}
	if item.PaymentAmountCents != nil {
		return *item.PaymentAmountCents, nil
	}
	return s.tariff.Fare(item.DistanceKm).TotalCents, nil
}

func (s *offerService) CreateOffer(ctx context.Context, courierID, itemID int32, kind domain.OfferKind, message string) (*domain.Offer, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.Status != domain.ItemStatusAvailable {
		return nil, domain.ErrItemUnavailable.WithDetail("current status %s", item.Status)
	}
	if item.OwnerID == courierID {
		return nil, domain.ErrNotAllowed.WithDetail("cannot offer on your own item")
	}

	expected, ok := domain.OfferKindFor(item.FulfillmentOption)
	if !ok || expected != kind {
		return nil, domain.ErrOptionMismatch.WithDetail("item option %s does not take %s offers", item.FulfillmentOption, kind)
	}

	exists, err := s.offerRepo.HasActiveOffer(ctx, itemID, courierID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateOffer
	}

	gross, err := s.grossEarning(ctx, item)
	if err != nil {
		return nil, err
	}

	now := s.now()
	offer := &domain.Offer{
		Kind:                  kind,
		ItemID:                itemID,
		OwnerID:               item.OwnerID,
		CourierID:             courierID,
		Message:               message,
		EstimatedEarningCents: gross,
		Status:                domain.OfferStatusPending,
		OfferedAt:             now,
		ExpiresAt:             now.Add(domain.OfferTTL),
	}
	if err := s.offerRepo.Create(ctx, offer); err != nil {
		return nil, err
	}
	logger.Info("Offer created", "offer_id", offer.ID, "item_id", itemID, "courier_id", courierID, "gross_cents", gross)

	s.notifier.Publish(domain.NotificationEvent{
		Event:          domain.EventOfferCreated,
		ActorID:        courierID,
		CounterpartyID: item.OwnerID,
		Title:          "New fulfillment offer",
		Message:        fmt.Sprintf("A courier offered to fulfill %q", item.Title),
		Attributes: map[string]string{
			"offer_id": fmt.Sprintf("%d", offer.ID),
			"item_id":  fmt.Sprintf("%d", itemID),
		},
	})
	return offer, nil
}

func (s *offerService) ApproveOffer(ctx context.Context, ownerID, offerID int32) (*domain.Delivery, error) {
	offer, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.OwnerID != ownerID {
		return nil, domain.ErrNotOwner
	}
	switch offer.Status {
	case domain.OfferStatusPending:
	case domain.OfferStatusExpired:
		return nil, domain.ErrOfferExpired
	default:
		return nil, domain.ErrOfferNotPending.WithDetail("current status %s", offer.Status)
	}
	// Lazy expiry: the stored status may still read PENDING before the
	// reaper has swept the row.
	if offer.ExpiredAt(s.now()) {
		return nil, domain.ErrOfferExpired
	}

	item, err := s.itemRepo.GetByID(ctx, offer.ItemID)
	if err != nil {
		return nil, err
	}

	delivery := &domain.Delivery{
		ItemID:         offer.ItemID,
		OfferID:        offerID,
		CourierID:      offer.CourierID,
		OwnerID:        offer.OwnerID,
		PickupAddress:  item.PickupAddress,
		DropoffAddress: item.DropoffAddress,
		FeeCents:       offer.EstimatedEarningCents,
	}
	if err := s.offerRepo.ApproveWithDelivery(ctx, offerID, delivery); err != nil {
		return nil, err
	}
	logger.Info("Offer approved", "offer_id", offerID, "delivery_id", delivery.ID, "item_id", offer.ItemID)

	s.notifier.Publish(domain.NotificationEvent{
		Event:          domain.EventOfferApproved,
		ActorID:        ownerID,
		CounterpartyID: offer.CourierID,
		Title:          "Offer approved",
		Message:        fmt.Sprintf("Your offer on %q was approved, delivery #%d assigned to you", item.Title, delivery.ID),
		Attributes: map[string]string{
			"offer_id":    fmt.Sprintf("%d", offerID),
			"delivery_id": fmt.Sprintf("%d", delivery.ID),
		},
	})
	return delivery, nil
}

func (s *offerService) RejectOffer(ctx context.Context, ownerID, offerID int32, reason string) (*domain.Offer, error) {
	offer, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.OwnerID != ownerID {
		return nil, domain.ErrNotOwner
	}

	if err := s.offerRepo.Reject(ctx, offerID, reason); err != nil {
		return nil, err
	}
	offer.Status = domain.OfferStatusRejected
	offer.RejectionReason = reason
	logger.Info("Offer rejected", "offer_id", offerID, "owner_id", ownerID)

	s.notifier.Publish(domain.NotificationEvent{
		Event:          domain.EventOfferRejected,
		ActorID:        ownerID,
		CounterpartyID: offer.CourierID,
		Title:          "Offer rejected",
		Message:        fmt.Sprintf("Your offer #%d was rejected: %s", offerID, reason),
		Attributes:     map[string]string{"offer_id": fmt.Sprintf("%d", offerID)},
	})
	return offer, nil
}

func (s *offerService) ListItemOffers(ctx context.Context, ownerID, itemID int32) ([]domain.Offer, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, domain.ErrNotOwner
	}
	return s.offerRepo.ListByItem(ctx, itemID)
}

func (s *offerService) ListMyOffers(ctx context.Context, courierID int32, page, pageSize int32) ([]domain.Offer, int32, error) {
	return s.offerRepo.ListByCourier(ctx, courierID, page, pageSize)
}
