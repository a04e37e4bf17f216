package service

import (
	"context"
	"sync"
	"time"

	"givehub-backend/internal/domain"
	"givehub-backend/internal/logger"
	"givehub-backend/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	offset := (page - 1) * pageSize
	return s.noteRepo.List(ctx, userID, pageSize, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	return s.noteRepo.MarkAsRead(ctx, notificationID, userID)
}

// deliverTimeout bounds each outbound email attempt so a slow channel can
// never back up the dispatch queue behind it.
const deliverTimeout = 5 * time.Second

// Dispatcher is the fan-out worker behind Notifier. Services publish events
// after their transaction commits; the worker goroutine persists in-app
// notification rows for the counterparty, the actor, and the shared admin
// audience, then sends best-effort email. Failures are logged and dropped;
// nothing here can fail the transition that produced the event.
type Dispatcher struct {
	noteRepo repository.NotificationRepository
	userRepo repository.UserRepository
	email    EmailSender

	events chan domain.NotificationEvent
	wg     sync.WaitGroup
	once   sync.Once
}

func NewDispatcher(noteRepo repository.NotificationRepository, userRepo repository.UserRepository, email EmailSender) *Dispatcher {
	return &Dispatcher{
		noteRepo: noteRepo,
		userRepo: userRepo,
		email:    email,
		events:   make(chan domain.NotificationEvent, 256),
	}
}

// Publish enqueues an event without blocking. A saturated queue drops the
// event rather than stalling the caller.
func (d *Dispatcher) Publish(event domain.NotificationEvent) {
	select {
	case d.events <- event:
	default:
		logger.Warn("Notification queue full, dropping event", "event", event.Event)
	}
}

// Start launches the dispatch worker.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for ev := range d.events {
			d.dispatch(ev)
		}
	}()
}

// Stop drains the queue and waits for the worker to finish.
func (d *Dispatcher) Stop() {
	d.once.Do(func() { close(d.events) })
	d.wg.Wait()
}

func (d *Dispatcher) dispatch(ev domain.NotificationEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()

	recipients := []int32{ev.CounterpartyID}
	if ev.ActorID != ev.CounterpartyID {
		recipients = append(recipients, ev.ActorID)
	}
	if ev.CounterpartyID != domain.AdminAudience {
		recipients = append(recipients, domain.AdminAudience)
	}

	for _, userID := range recipients {
		note := &domain.Notification{
			UserID:     userID,
			Event:      ev.Event,
			Title:      ev.Title,
			Message:    ev.Message,
			Attributes: ev.Attributes,
		}
		if err := d.noteRepo.Create(ctx, note); err != nil {
			logger.Error("Failed to persist notification", "event", ev.Event, "user_id", userID, "error", err)
		}
	}

	d.sendEmail(ctx, ev)
}

func (d *Dispatcher) sendEmail(ctx context.Context, ev domain.NotificationEvent) {
	if d.email == nil || ev.CounterpartyID == domain.AdminAudience {
		return
	}
	user, err := d.userRepo.GetByID(ctx, ev.CounterpartyID)
	if err != nil {
		logger.Error("Failed to resolve notification recipient", "user_id", ev.CounterpartyID, "error", err)
		return
	}
	if err := d.email.Send(ctx, user.Email, user.Name, ev.Title, ev.Message); err != nil {
		logger.Error("Failed to send notification email", "event", ev.Event, "user_id", user.ID, "error", err)
	}
}
