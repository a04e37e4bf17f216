package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"givehub-backend/internal/domain"
	"givehub-backend/internal/logger"
	"givehub-backend/internal/repository"
)

type deliveryService struct {
	deliveryRepo repository.DeliveryRepository
	userRepo     repository.UserRepository
	earningSvc   EarningService
	notifier     Notifier
	now          func() time.Time
}

func NewDeliveryService(
	deliveryRepo repository.DeliveryRepository,
	userRepo repository.UserRepository,
	earningSvc EarningService,
	notifier Notifier,
) DeliveryService {
	return &deliveryService{
		deliveryRepo: deliveryRepo,
		userRepo:     userRepo,
		earningSvc:   earningSvc,
		notifier:     notifier,
		now:          time.Now,
	}
}

func (s *deliveryService) AdvanceDelivery(ctx context.Context, courierID, deliveryID int32, next domain.DeliveryStatus) (*domain.Delivery, error) {
	d, err := s.deliveryRepo.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if d.CourierID != courierID {
		return nil, domain.ErrNotCourier
	}

	err = s.advanceOnce(ctx, d, next)
	if errors.Is(err, domain.ErrConflict) {
		// One internal retry with a fresh read before surfacing the loss.
		d, err = s.deliveryRepo.GetByID(ctx, deliveryID)
		if err != nil {
			return nil, err
		}
		err = s.advanceOnce(ctx, d, next)
	}
	if err != nil {
		return nil, err
	}

	d, err = s.deliveryRepo.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	logger.Info("Delivery advanced", "delivery_id", deliveryID, "status", d.Status)

	s.notifier.Publish(domain.NotificationEvent{
		Event:          domain.EventDeliveryUpdated,
		ActorID:        courierID,
		CounterpartyID: d.OwnerID,
		Title:          "Delivery update",
		Message:        fmt.Sprintf("Delivery #%d is now %s", deliveryID, d.Status),
		Attributes: map[string]string{
			"delivery_id": fmt.Sprintf("%d", deliveryID),
			"status":      string(d.Status),
		},
	})
	return d, nil
}

func (s *deliveryService) advanceOnce(ctx context.Context, d *domain.Delivery, next domain.DeliveryStatus) error {
	if d.Status.Terminal() {
		return domain.ErrDeliveryFinalized.WithDetail("current status %s", d.Status)
	}
	if !d.Status.CanAdvance(next) {
		return domain.ErrInvalidTransition.WithDetail("%s → %s", d.Status, next)
	}

	now := s.now()
	if next != domain.DeliveryStatusCompleted {
		return s.deliveryRepo.Advance(ctx, d.ID, d.Status, next, now)
	}

	if err := s.deliveryRepo.Complete(ctx, d.ID, now); err != nil {
		return err
	}

	// Settlement runs after the completion has committed. A failure here is
	// recovered by the unsettled-deliveries sweep and must not undo the
	// completed delivery.
	completed := *d
	completed.Status = domain.DeliveryStatusCompleted
	completed.CompletedAt = &now
	if _, err := s.earningSvc.SettleDelivery(ctx, &completed); err != nil {
		logger.Error("Earnings settlement failed, leaving to recovery sweep",
			"delivery_id", d.ID, "error", err)
	}
	return nil
}

func (s *deliveryService) CancelDelivery(ctx context.Context, actorID, deliveryID int32, reason string) (*domain.Delivery, error) {
	if len(strings.TrimSpace(reason)) < 5 {
		return nil, domain.ErrReasonTooShort
	}

	d, err := s.deliveryRepo.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if actorID != d.CourierID && actorID != d.OwnerID {
		actor, err := s.userRepo.GetByID(ctx, actorID)
		if err != nil {
			return nil, err
		}
		if !actor.IsAdmin() {
			return nil, domain.ErrNotAllowed
		}
	}
	if d.Status.Terminal() {
		return nil, domain.ErrDeliveryFinalized.WithDetail("current status %s", d.Status)
	}

	if err := s.deliveryRepo.Cancel(ctx, deliveryID, actorID, reason); err != nil {
		return nil, err
	}
	d, err = s.deliveryRepo.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	logger.Info("Delivery cancelled", "delivery_id", deliveryID, "by", actorID, "reason", reason)

	counterparty := d.OwnerID
	if actorID == d.OwnerID {
		counterparty = d.CourierID
	}
	s.notifier.Publish(domain.NotificationEvent{
		Event:          domain.EventDeliveryUpdated,
		ActorID:        actorID,
		CounterpartyID: counterparty,
		Title:          "Delivery cancelled",
		Message:        fmt.Sprintf("Delivery #%d was cancelled: %s", deliveryID, reason),
		Attributes: map[string]string{
			"delivery_id": fmt.Sprintf("%d", deliveryID),
			"status":      string(domain.DeliveryStatusCancelled),
		},
	})
	return d, nil
}

func (s *deliveryService) GetDelivery(ctx context.Context, userID, deliveryID int32) (*domain.Delivery, error) {
	d, err := s.deliveryRepo.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if userID != d.CourierID && userID != d.OwnerID {
		return nil, domain.ErrNotAllowed
	}
	return d, nil
}

func (s *deliveryService) ListMyDeliveries(ctx context.Context, courierID int32, status string, page, pageSize int32) ([]domain.Delivery, int32, error) {
	return s.deliveryRepo.ListByCourier(ctx, courierID, status, page, pageSize)
}
