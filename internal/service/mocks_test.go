package service_test

import (
	"context"
	"time"

	"givehub-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) ListAdmins(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

// MockItemRepo
type MockItemRepo struct {
	mock.Mock
}

func (m *MockItemRepo) Create(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockItemRepo) GetByID(ctx context.Context, id int32) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}
func (m *MockItemRepo) ListAvailable(ctx context.Context, page, pageSize int32) ([]domain.Item, int32, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.Item), args.Get(1).(int32), args.Error(2)
}

// MockOfferRepo
type MockOfferRepo struct {
	mock.Mock
}

func (m *MockOfferRepo) Create(ctx context.Context, offer *domain.Offer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}
func (m *MockOfferRepo) GetByID(ctx context.Context, id int32) (*domain.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}
func (m *MockOfferRepo) HasActiveOffer(ctx context.Context, itemID, courierID int32) (bool, error) {
	args := m.Called(ctx, itemID, courierID)
	return args.Bool(0), args.Error(1)
}
func (m *MockOfferRepo) ApproveWithDelivery(ctx context.Context, offerID int32, delivery *domain.Delivery) error {
	args := m.Called(ctx, offerID, delivery)
	return args.Error(0)
}
func (m *MockOfferRepo) Reject(ctx context.Context, offerID int32, reason string) error {
	args := m.Called(ctx, offerID, reason)
	return args.Error(0)
}
func (m *MockOfferRepo) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockOfferRepo) ListByItem(ctx context.Context, itemID int32) ([]domain.Offer, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).([]domain.Offer), args.Error(1)
}
func (m *MockOfferRepo) ListByCourier(ctx context.Context, courierID int32, page, pageSize int32) ([]domain.Offer, int32, error) {
	args := m.Called(ctx, courierID, page, pageSize)
	return args.Get(0).([]domain.Offer), args.Get(1).(int32), args.Error(2)
}

// MockDeliveryRepo
type MockDeliveryRepo struct {
	mock.Mock
}

func (m *MockDeliveryRepo) GetByID(ctx context.Context, id int32) (*domain.Delivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Delivery), args.Error(1)
}
func (m *MockDeliveryRepo) Advance(ctx context.Context, id int32, from, to domain.DeliveryStatus, at time.Time) error {
	args := m.Called(ctx, id, from, to, at)
	return args.Error(0)
}
func (m *MockDeliveryRepo) Complete(ctx context.Context, id int32, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}
func (m *MockDeliveryRepo) Cancel(ctx context.Context, id, cancelledBy int32, reason string) error {
	args := m.Called(ctx, id, cancelledBy, reason)
	return args.Error(0)
}
func (m *MockDeliveryRepo) ListByCourier(ctx context.Context, courierID int32, status string, page, pageSize int32) ([]domain.Delivery, int32, error) {
	args := m.Called(ctx, courierID, status, page, pageSize)
	return args.Get(0).([]domain.Delivery), args.Get(1).(int32), args.Error(2)
}
func (m *MockDeliveryRepo) ListUnsettledCompleted(ctx context.Context, limit int32) ([]domain.Delivery, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Delivery), args.Error(1)
}

// MockEarningRepo
type MockEarningRepo struct {
	mock.Mock
}

func (m *MockEarningRepo) CreateSettlement(ctx context.Context, e *domain.Earning) (bool, error) {
	args := m.Called(ctx, e)
	return args.Bool(0), args.Error(1)
}
func (m *MockEarningRepo) GetByID(ctx context.Context, id int32) (*domain.Earning, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Earning), args.Error(1)
}
func (m *MockEarningRepo) GetByDeliveryID(ctx context.Context, deliveryID int32) (*domain.Earning, error) {
	args := m.Called(ctx, deliveryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Earning), args.Error(1)
}
func (m *MockEarningRepo) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Earning, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Earning), args.Get(1).(int32), args.Error(2)
}
func (m *MockEarningRepo) GetSummary(ctx context.Context, userID int32) (*domain.EarningsSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EarningsSummary), args.Error(1)
}
func (m *MockEarningRepo) RequestPayout(ctx context.Context, userID, amountCents int32, method domain.PayoutMethod, requestID string, dailyCapCents int32) ([]domain.Earning, error) {
	args := m.Called(ctx, userID, amountCents, method, requestID, dailyCapCents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Earning), args.Error(1)
}
func (m *MockEarningRepo) ApprovePayout(ctx context.Context, earningID, adminID int32, transactionID string) (*domain.Earning, error) {
	args := m.Called(ctx, earningID, adminID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Earning), args.Error(1)
}
func (m *MockEarningRepo) RejectPayout(ctx context.Context, earningID, adminID int32, reason string) (*domain.Earning, error) {
	args := m.Called(ctx, earningID, adminID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Earning), args.Error(1)
}
func (m *MockEarningRepo) ReleaseCleared(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// MockCommissionRepo
type MockCommissionRepo struct {
	mock.Mock
}

func (m *MockCommissionRepo) RateAt(ctx context.Context, at time.Time) (*domain.CommissionRate, error) {
	args := m.Called(ctx, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CommissionRate), args.Error(1)
}
func (m *MockCommissionRepo) Insert(ctx context.Context, rate *domain.CommissionRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockNotifier records published events without any queueing
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Publish(event domain.NotificationEvent) {
	m.Called(event)
}

// MockGateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) ChargeSucceeded(ctx context.Context, paymentRef string) (bool, error) {
	args := m.Called(ctx, paymentRef)
	return args.Bool(0), args.Error(1)
}
func (m *MockGateway) Amount(ctx context.Context, paymentRef string) (int32, error) {
	args := m.Called(ctx, paymentRef)
	return args.Get(0).(int32), args.Error(1)
}

// MockEmailSender
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, toEmail, toName, subject, body string) error {
	args := m.Called(ctx, toEmail, toName, subject, body)
	return args.Error(0)
}

// MockCommissionPolicy
type MockCommissionPolicy struct {
	mock.Mock
}

func (m *MockCommissionPolicy) CurrentRate(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}
func (m *MockCommissionPolicy) SetRate(ctx context.Context, adminID int32, rate float64) error {
	args := m.Called(ctx, adminID, rate)
	return args.Error(0)
}

// MockEarningService
type MockEarningService struct {
	mock.Mock
}

func (m *MockEarningService) SettleDelivery(ctx context.Context, delivery *domain.Delivery) (*domain.Earning, error) {
	args := m.Called(ctx, delivery)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Earning), args.Error(1)
}
func (m *MockEarningService) RequestPayout(ctx context.Context, userID, amountCents int32, method domain.PayoutMethod) (*domain.PayoutRequest, []domain.Earning, error) {
	args := m.Called(ctx, userID, amountCents, method)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.PayoutRequest), args.Get(1).([]domain.Earning), args.Error(2)
}
func (m *MockEarningService) ApprovePayout(ctx context.Context, adminID, earningID int32, transactionID string) (*domain.Earning, error) {
	args := m.Called(ctx, adminID, earningID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Earning), args.Error(1)
}
func (m *MockEarningService) RejectPayout(ctx context.Context, adminID, earningID int32, reason string) (*domain.Earning, error) {
	args := m.Called(ctx, adminID, earningID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Earning), args.Error(1)
}
func (m *MockEarningService) GetSummary(ctx context.Context, userID int32) (*domain.EarningsSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EarningsSummary), args.Error(1)
}
func (m *MockEarningService) ListEarnings(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Earning, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Earning), args.Get(1).(int32), args.Error(2)
}
