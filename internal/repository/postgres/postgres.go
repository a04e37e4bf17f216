package postgres

import (
	"context"
	"database/sql"

	"givehub-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.ItemRepository
	repository.OfferRepository
	repository.DeliveryRepository
	repository.EarningRepository
	repository.CommissionRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		ItemRepository:         NewItemRepository(db),
		OfferRepository:        NewOfferRepository(db),
		DeliveryRepository:     NewDeliveryRepository(db),
		EarningRepository:      NewEarningRepository(db),
		CommissionRepository:   NewCommissionRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}

// withTx runs fn inside a transaction, rolling back on error or panic.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
