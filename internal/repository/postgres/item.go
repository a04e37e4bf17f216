package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"givehub-backend/internal/domain"
	"givehub-backend/internal/repository"
)

type itemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) repository.ItemRepository {
	return &itemRepository{db: db}
}

const itemColumns = `id, kind, owner_id, title, fulfillment_option, payment_amount_cents, payment_ref,
	pickup_address, dropoff_address, distance_km, status, assigned_to, created_on, updated_on`

func scanItem(row interface{ Scan(...any) error }, it *domain.Item) error {
	return row.Scan(
		&it.ID, &it.Kind, &it.OwnerID, &it.Title, &it.FulfillmentOption,
		&it.PaymentAmountCents, &it.PaymentRef, &it.PickupAddress, &it.DropoffAddress,
		&it.DistanceKm, &it.Status, &it.AssignedTo, &it.CreatedOn, &it.UpdatedOn)
}

func (r *itemRepository) Create(ctx context.Context, it *domain.Item) error {
	query := `INSERT INTO items (kind, owner_id, title, fulfillment_option, payment_amount_cents, payment_ref,
	              pickup_address, dropoff_address, distance_km, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	now := time.Now()
	if it.Status == "" {
		it.Status = domain.ItemStatusAvailable
	}
	return r.db.QueryRowContext(ctx, query,
		it.Kind, it.OwnerID, it.Title, it.FulfillmentOption, it.PaymentAmountCents, it.PaymentRef,
		it.PickupAddress, it.DropoffAddress, it.DistanceKm, it.Status, now, now).Scan(&it.ID)
}

func (r *itemRepository) GetByID(ctx context.Context, id int32) (*domain.Item, error) {
	it := &domain.Item{}
	err := scanItem(r.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id), it)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (r *itemRepository) ListAvailable(ctx context.Context, page, pageSize int32) ([]domain.Item, int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM items WHERE status = $1`, domain.ItemStatusAvailable).Scan(&count)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + itemColumns + ` FROM items WHERE status = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, domain.ItemStatusAvailable, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var it domain.Item
		if err := scanItem(rows, &it); err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	return items, count, rows.Err()
}
