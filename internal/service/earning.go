package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"givehub-backend/internal/domain"
	"givehub-backend/internal/logger"
	"givehub-backend/internal/repository"

	"github.com/google/uuid"
)

type earningService struct {
	earningRepo repository.EarningRepository
	userRepo    repository.UserRepository
	policy      CommissionPolicy
	notifier    Notifier

	minimumPayoutCents int32
	dailyCapCents      int32
}

func NewEarningService(
	earningRepo repository.EarningRepository,
	userRepo repository.UserRepository,
	policy CommissionPolicy,
	notifier Notifier,
	minimumPayoutCents, dailyCapCents int32,
) EarningService {
	return &earningService{
		earningRepo:        earningRepo,
		userRepo:           userRepo,
		policy:             policy,
		notifier:           notifier,
		minimumPayoutCents: minimumPayoutCents,
		dailyCapCents:      dailyCapCents,
	}
}

func (s *earningService) SettleDelivery(ctx context.Context, delivery *domain.Delivery) (*domain.Earning, error) {
	if delivery.Status != domain.DeliveryStatusCompleted {
		return nil, domain.ErrInvalidTransition.WithDetail("cannot settle a %s delivery", delivery.Status)
	}

	rate, err := s.policy.CurrentRate(ctx)
	if err != nil {
		return nil, err
	}
	commission, net := domain.SplitCommission(delivery.FeeCents, rate)

	earning := &domain.Earning{
		DeliveryID:            delivery.ID,
		UserID:                delivery.CourierID,
		GrossAmountCents:      delivery.FeeCents,
		CommissionRate:        rate,
		CommissionAmountCents: commission,
		NetAmountCents:        net,
		Status:                domain.EarningStatusPending,
	}
	created, err := s.earningRepo.CreateSettlement(ctx, earning)
	if err != nil {
		return nil, err
	}
	if !created {
		// Already settled earlier; the repository loaded the original
		// record, snapshot rate included.
		return earning, nil
	}
	logger.Info("Delivery settled", "delivery_id", delivery.ID, "earning_id", earning.ID,
		"gross_cents", earning.GrossAmountCents, "net_cents", earning.NetAmountCents, "rate", rate)

	s.notifier.Publish(domain.NotificationEvent{
		Event:          domain.EventEarningSettled,
		ActorID:        delivery.CourierID,
		CounterpartyID: delivery.CourierID,
		Title:          "Earning settled",
		Message:        fmt.Sprintf("You earned %d cents (after %d commission) for delivery #%d", net, commission, delivery.ID),
		Attributes: map[string]string{
			"earning_id":  fmt.Sprintf("%d", earning.ID),
			"delivery_id": fmt.Sprintf("%d", delivery.ID),
		},
	})
	return earning, nil
}

func (s *earningService) RequestPayout(ctx context.Context, userID, amountCents int32, method domain.PayoutMethod) (*domain.PayoutRequest, []domain.Earning, error) {
	if amountCents <= 0 {
		return nil, nil, domain.ErrInvalidAmount
	}
	if amountCents < s.minimumPayoutCents {
		return nil, nil, domain.ErrBelowMinimumPayout.WithDetail("minimum is %d cents", s.minimumPayoutCents)
	}
	if !domain.ValidPayoutMethod(method) {
		return nil, nil, domain.ErrUnsupportedMethod.WithDetail("%s", method)
	}

	requestID := uuid.NewString()
	reserved, err := s.earningRepo.RequestPayout(ctx, userID, amountCents, method, requestID, s.dailyCapCents)
	if err != nil {
		return nil, nil, err
	}

	var totalCents int32
	for _, e := range reserved {
		totalCents += e.NetAmountCents
	}
	req := &domain.PayoutRequest{
		RequestID:   requestID,
		Method:      method,
		AmountCents: totalCents,
		RequestedAt: time.Now(),
	}
	logger.Info("Payout requested", "user_id", userID, "request_id", requestID,
		"requested_cents", amountCents, "reserved_cents", totalCents, "earnings", len(reserved))

	s.notifier.Publish(domain.NotificationEvent{
		Event:          domain.EventPayoutRequested,
		ActorID:        userID,
		CounterpartyID: domain.AdminAudience,
		Title:          "Payout requested",
		Message:        fmt.Sprintf("User %d requested a payout of %d cents via %s", userID, totalCents, method),
		Attributes: map[string]string{
			"request_id":   requestID,
			"amount_cents": fmt.Sprintf("%d", totalCents),
		},
	})
	return req, reserved, nil
}

func (s *earningService) ApprovePayout(ctx context.Context, adminID, earningID int32, transactionID string) (*domain.Earning, error) {
	if strings.TrimSpace(transactionID) == "" {
		return nil, domain.ErrMissingTransactionID
	}
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	earning, err := s.earningRepo.ApprovePayout(ctx, earningID, adminID, transactionID)
	if err != nil {
		return nil, err
	}
	logger.Info("Payout approved", "earning_id", earningID, "admin_id", adminID, "transaction_id", transactionID)

	s.notifier.Publish(domain.NotificationEvent{
		Event:          domain.EventPayoutApproved,
		ActorID:        adminID,
		CounterpartyID: earning.UserID,
		Title:          "Payout approved",
		Message:        fmt.Sprintf("Your payout of %d cents was approved (transaction %s)", earning.NetAmountCents, transactionID),
		Attributes: map[string]string{
			"earning_id":     fmt.Sprintf("%d", earningID),
			"transaction_id": transactionID,
		},
	})
	return earning, nil
}

func (s *earningService) RejectPayout(ctx context.Context, adminID, earningID int32, reason string) (*domain.Earning, error) {
	if len(strings.TrimSpace(reason)) < 5 {
		return nil, domain.ErrReasonTooShort
	}
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	earning, err := s.earningRepo.RejectPayout(ctx, earningID, adminID, reason)
	if err != nil {
		return nil, err
	}
	logger.Info("Payout rejected", "earning_id", earningID, "admin_id", adminID, "reason", reason)

	s.notifier.Publish(domain.NotificationEvent{
		Event:          domain.EventPayoutRejected,
		ActorID:        adminID,
		CounterpartyID: earning.UserID,
		Title:          "Payout rejected",
		Message:        fmt.Sprintf("Your payout request was rejected: %s. The earnings are available again.", reason),
		Attributes:     map[string]string{"earning_id": fmt.Sprintf("%d", earningID)},
	})
	return earning, nil
}

func (s *earningService) GetSummary(ctx context.Context, userID int32) (*domain.EarningsSummary, error) {
	return s.earningRepo.GetSummary(ctx, userID)
}

func (s *earningService) ListEarnings(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Earning, int32, error) {
	return s.earningRepo.ListByUser(ctx, userID, page, pageSize)
}

func (s *earningService) requireAdmin(ctx context.Context, userID int32) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.IsAdmin() {
		return domain.ErrNotAdmin
	}
	return nil
}
