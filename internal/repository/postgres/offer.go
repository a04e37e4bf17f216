package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"givehub-backend/internal/domain"
	"givehub-backend/internal/repository"

	"github.com/lib/pq"
)

// siblingRejectReason is recorded on competing PENDING offers when one offer
// on the item wins approval.
const siblingRejectReason = "item was assigned to another offer"

type offerRepository struct {
	db *sql.DB
}

func NewOfferRepository(db *sql.DB) repository.OfferRepository {
	return &offerRepository{db: db}
}

const offerColumns = `id, kind, item_id, owner_id, courier_id, message, estimated_earning_cents,
	status, COALESCE(rejection_reason, ''), offered_at, expires_at, delivery_id, created_on, updated_on`

func scanOffer(row interface{ Scan(...any) error }, o *domain.Offer) error {
	return row.Scan(
		&o.ID, &o.Kind, &o.ItemID, &o.OwnerID, &o.CourierID, &o.Message, &o.EstimatedEarningCents,
		&o.Status, &o.RejectionReason, &o.OfferedAt, &o.ExpiresAt, &o.DeliveryID, &o.CreatedOn, &o.UpdatedOn)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *offerRepository) Create(ctx context.Context, o *domain.Offer) error {
	query := `INSERT INTO offers (kind, item_id, owner_id, courier_id, message, estimated_earning_cents,
	              status, offered_at, expires_at, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		o.Kind, o.ItemID, o.OwnerID, o.CourierID, o.Message, o.EstimatedEarningCents,
		o.Status, o.OfferedAt, o.ExpiresAt, now, now).Scan(&o.ID)
	if isUniqueViolation(err) {
		// The partial unique index on (item_id, courier_id) for active offers
		// caught a race the service-level pre-read missed.
		return domain.ErrDuplicateOffer
	}
	return err
}

func (r *offerRepository) GetByID(ctx context.Context, id int32) (*domain.Offer, error) {
	o := &domain.Offer{}
	err := scanOffer(r.db.QueryRowContext(ctx, `SELECT `+offerColumns+` FROM offers WHERE id = $1`, id), o)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOfferNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *offerRepository) HasActiveOffer(ctx context.Context, itemID, courierID int32) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM offers WHERE item_id = $1 AND courier_id = $2 AND status IN ($3, $4))`
	err := r.db.QueryRowContext(ctx, query, itemID, courierID, domain.OfferStatusPending, domain.OfferStatusApproved).Scan(&exists)
	return exists, err
}

func (r *offerRepository) ApproveWithDelivery(ctx context.Context, offerID int32, d *domain.Delivery) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		now := time.Now()

		// Guard 1: the offer must still be pending.
		res, err := tx.ExecContext(ctx,
			`UPDATE offers SET status = $1, updated_on = $2 WHERE id = $3 AND status = $4`,
			domain.OfferStatusApproved, now, offerID, domain.OfferStatusPending)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrOfferNotPending
		}

		// Guard 2: the item must still be available. Losing this guard means
		// a competing approval won the race.
		res, err = tx.ExecContext(ctx,
			`UPDATE items SET status = $1, assigned_to = $2, updated_on = $3 WHERE id = $4 AND status = $5`,
			domain.ItemStatusAssigned, d.CourierID, now, d.ItemID, domain.ItemStatusAvailable)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrItemUnavailable
		}

		query := `INSERT INTO deliveries (item_id, offer_id, courier_id, owner_id, pickup_address, dropoff_address,
		              fee_cents, status, created_on, updated_on)
		          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
		d.Status = domain.DeliveryStatusAssigned
		err = tx.QueryRowContext(ctx, query,
			d.ItemID, offerID, d.CourierID, d.OwnerID, d.PickupAddress, d.DropoffAddress,
			d.FeeCents, d.Status, now, now).Scan(&d.ID)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE offers SET delivery_id = $1 WHERE id = $2`, d.ID, offerID); err != nil {
			return err
		}

		// Competing pending offers on the item cannot win anymore; reject
		// them now instead of letting them linger until expiry.
		_, err = tx.ExecContext(ctx,
			`UPDATE offers SET status = $1, rejection_reason = $2, updated_on = $3
			 WHERE item_id = $4 AND status = $5 AND id <> $6`,
			domain.OfferStatusRejected, siblingRejectReason, now, d.ItemID, domain.OfferStatusPending, offerID)
		return err
	})
}

func (r *offerRepository) Reject(ctx context.Context, offerID int32, reason string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE offers SET status = $1, rejection_reason = $2, updated_on = $3 WHERE id = $4 AND status = $5`,
		domain.OfferStatusRejected, reason, time.Now(), offerID, domain.OfferStatusPending)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrOfferNotPending
	}
	return nil
}

func (r *offerRepository) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE offers SET status = $1, updated_on = $2 WHERE status = $3 AND expires_at < $2`,
		domain.OfferStatusExpired, now, domain.OfferStatusPending)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *offerRepository) ListByItem(ctx context.Context, itemID int32) ([]domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE item_id = $1 ORDER BY offered_at DESC`
	rows, err := r.db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []domain.Offer
	for rows.Next() {
		var o domain.Offer
		if err := scanOffer(rows, &o); err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

func (r *offerRepository) ListByCourier(ctx context.Context, courierID int32, page, pageSize int32) ([]domain.Offer, int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM offers WHERE courier_id = $1`, courierID).Scan(&count)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + offerColumns + ` FROM offers WHERE courier_id = $1 ORDER BY offered_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, courierID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var offers []domain.Offer
	for rows.Next() {
		var o domain.Offer
		if err := scanOffer(rows, &o); err != nil {
			return nil, 0, err
		}
		offers = append(offers, o)
	}
	return offers, count, rows.Err()
}
