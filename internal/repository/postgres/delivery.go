package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"givehub-backend/internal/domain"
	"givehub-backend/internal/repository"
)

type deliveryRepository struct {
	db *sql.DB
}

func NewDeliveryRepository(db *sql.DB) repository.DeliveryRepository {
	return &deliveryRepository{db: db}
}

const deliveryColumns = `id, item_id, offer_id, courier_id, owner_id, pickup_address, dropoff_address,
	fee_cents, status, COALESCE(cancel_reason, ''), cancelled_by,
	accepted_at, picked_up_at, in_transit_at, completed_at, created_on, updated_on`

func scanDelivery(row interface{ Scan(...any) error }, d *domain.Delivery) error {
	return row.Scan(
		&d.ID, &d.ItemID, &d.OfferID, &d.CourierID, &d.OwnerID, &d.PickupAddress, &d.DropoffAddress,
		&d.FeeCents, &d.Status, &d.CancelReason, &d.CancelledBy,
		&d.AcceptedAt, &d.PickedUpAt, &d.InTransitAt, &d.CompletedAt, &d.CreatedOn, &d.UpdatedOn)
}

// timestampColumn maps a progress state to the column stamped on entry.
func timestampColumn(s domain.DeliveryStatus) string {
	switch s {
	case domain.DeliveryStatusAccepted:
		return "accepted_at"
	case domain.DeliveryStatusPickedUp:
		return "picked_up_at"
	case domain.DeliveryStatusInTransit:
		return "in_transit_at"
	case domain.DeliveryStatusCompleted:
		return "completed_at"
	}
	return ""
}

func (r *deliveryRepository) GetByID(ctx context.Context, id int32) (*domain.Delivery, error) {
	d := &domain.Delivery{}
	err := scanDelivery(r.db.QueryRowContext(ctx, `SELECT `+deliveryColumns+` FROM deliveries WHERE id = $1`, id), d)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrDeliveryNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *deliveryRepository) Advance(ctx context.Context, id int32, from, to domain.DeliveryStatus, at time.Time) error {
	col := timestampColumn(to)
	if col == "" {
		return domain.ErrInvalidTransition
	}
	query := fmt.Sprintf(
		`UPDATE deliveries SET status = $1, %s = $2, updated_on = $2 WHERE id = $3 AND status = $4`, col)
	res, err := r.db.ExecContext(ctx, query, to, at, id, from)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *deliveryRepository) Complete(ctx context.Context, id int32, at time.Time) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE deliveries SET status = $1, completed_at = $2, updated_on = $2 WHERE id = $3 AND status = $4`,
			domain.DeliveryStatusCompleted, at, id, domain.DeliveryStatusInTransit)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrConflict
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE items SET status = $1, updated_on = $2
			 WHERE id = (SELECT item_id FROM deliveries WHERE id = $3) AND status = $4`,
			domain.ItemStatusCompleted, at, id, domain.ItemStatusAssigned)
		return err
	})
}

func (r *deliveryRepository) Cancel(ctx context.Context, id, cancelledBy int32, reason string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		now := time.Now()
		res, err := tx.ExecContext(ctx,
			`UPDATE deliveries SET status = $1, cancel_reason = $2, cancelled_by = $3, updated_on = $4
			 WHERE id = $5 AND status NOT IN ($6, $7)`,
			domain.DeliveryStatusCancelled, reason, cancelledBy, now, id,
			domain.DeliveryStatusCompleted, domain.DeliveryStatusCancelled)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrDeliveryFinalized
		}

		// The item goes back on the market for fresh offers.
		_, err = tx.ExecContext(ctx,
			`UPDATE items SET status = $1, assigned_to = NULL, updated_on = $2
			 WHERE id = (SELECT item_id FROM deliveries WHERE id = $3) AND status = $4`,
			domain.ItemStatusAvailable, now, id, domain.ItemStatusAssigned)
		return err
	})
}

func (r *deliveryRepository) ListByCourier(ctx context.Context, courierID int32, status string, page, pageSize int32) ([]domain.Delivery, int32, error) {
	base := `FROM deliveries WHERE courier_id = $1`
	args := []any{courierID}
	if status != "" {
		base += ` AND status = $2`
		args = append(args, status)
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) `+base, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := fmt.Sprintf(`SELECT %s %s ORDER BY created_on DESC LIMIT $%d OFFSET $%d`,
		deliveryColumns, base, len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var deliveries []domain.Delivery
	for rows.Next() {
		var d domain.Delivery
		if err := scanDelivery(rows, &d); err != nil {
			return nil, 0, err
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, count, rows.Err()
}

func (r *deliveryRepository) ListUnsettledCompleted(ctx context.Context, limit int32) ([]domain.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries d
	          WHERE d.status = $1 AND NOT EXISTS (SELECT 1 FROM earnings e WHERE e.delivery_id = d.id)
	          ORDER BY d.completed_at LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, domain.DeliveryStatusCompleted, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deliveries []domain.Delivery
	for rows.Next() {
		var d domain.Delivery
		if err := scanDelivery(rows, &d); err != nil {
			return nil, err
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, rows.Err()
}
