package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"givehub-backend/internal/domain"
	"givehub-backend/internal/repository"
)

type earningRepository struct {
	db *sql.DB
}

func NewEarningRepository(db *sql.DB) repository.EarningRepository {
	return &earningRepository{db: db}
}

const earningColumns = `id, delivery_id, user_id, gross_amount_cents, commission_rate,
	commission_amount_cents, net_amount_cents, status,
	payout_request_id, payout_method, payout_amount_cents, requested_at,
	approved_at, rejected_at, COALESCE(reject_reason, ''), approver_id, transaction_id,
	created_on, updated_on`

func scanEarning(row interface{ Scan(...any) error }, e *domain.Earning) error {
	var (
		requestID     sql.NullString
		method        sql.NullString
		amount        sql.NullInt32
		requestedAt   sql.NullTime
		approvedAt    sql.NullTime
		rejectedAt    sql.NullTime
		rejectReason  string
		approverID    sql.NullInt32
		transactionID sql.NullString
	)
	err := row.Scan(
		&e.ID, &e.DeliveryID, &e.UserID, &e.GrossAmountCents, &e.CommissionRate,
		&e.CommissionAmountCents, &e.NetAmountCents, &e.Status,
		&requestID, &method, &amount, &requestedAt,
		&approvedAt, &rejectedAt, &rejectReason, &approverID, &transactionID,
		&e.CreatedOn, &e.UpdatedOn)
	if err != nil {
		return err
	}
	if requestID.Valid {
		p := &domain.PayoutRequest{
			RequestID:    requestID.String,
			Method:       domain.PayoutMethod(method.String),
			AmountCents:  amount.Int32,
			RequestedAt:  requestedAt.Time,
			RejectReason: rejectReason,
		}
		if approvedAt.Valid {
			t := approvedAt.Time
			p.ApprovedAt = &t
		}
		if rejectedAt.Valid {
			t := rejectedAt.Time
			p.RejectedAt = &t
		}
		if approverID.Valid {
			id := approverID.Int32
			p.ApproverID = &id
		}
		if transactionID.Valid {
			p.TransactionID = transactionID.String
		}
		e.Payout = p
	}
	return nil
}

func (r *earningRepository) CreateSettlement(ctx context.Context, e *domain.Earning) (bool, error) {
	created := false
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		now := time.Now()
		if e.Status == "" {
			e.Status = domain.EarningStatusPending
		}
		query := `INSERT INTO earnings (delivery_id, user_id, gross_amount_cents, commission_rate,
		              commission_amount_cents, net_amount_cents, status, created_on, updated_on)
		          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		          ON CONFLICT (delivery_id) DO NOTHING RETURNING id`
		err := tx.QueryRowContext(ctx, query,
			e.DeliveryID, e.UserID, e.GrossAmountCents, e.CommissionRate,
			e.CommissionAmountCents, e.NetAmountCents, e.Status, now).Scan(&e.ID)
		if errors.Is(err, sql.ErrNoRows) {
			// Already settled: load the existing record instead.
			return scanEarning(tx.QueryRowContext(ctx,
				`SELECT `+earningColumns+` FROM earnings WHERE delivery_id = $1`, e.DeliveryID), e)
		}
		if err != nil {
			return err
		}
		created = true

		_, err = tx.ExecContext(ctx,
			`UPDATE users SET pending_earnings_cents = pending_earnings_cents + $1,
			        total_earnings_cents = total_earnings_cents + $1, updated_on = $2
			 WHERE id = $3`,
			e.NetAmountCents, now, e.UserID)
		return err
	})
	return created, err
}

func (r *earningRepository) GetByID(ctx context.Context, id int32) (*domain.Earning, error) {
	e := &domain.Earning{}
	err := scanEarning(r.db.QueryRowContext(ctx, `SELECT `+earningColumns+` FROM earnings WHERE id = $1`, id), e)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrEarningNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *earningRepository) GetByDeliveryID(ctx context.Context, deliveryID int32) (*domain.Earning, error) {
	e := &domain.Earning{}
	err := scanEarning(r.db.QueryRowContext(ctx, `SELECT `+earningColumns+` FROM earnings WHERE delivery_id = $1`, deliveryID), e)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrEarningNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *earningRepository) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Earning, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM earnings WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + earningColumns + ` FROM earnings WHERE user_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var earnings []domain.Earning
	for rows.Next() {
		var e domain.Earning
		if err := scanEarning(rows, &e); err != nil {
			return nil, 0, err
		}
		earnings = append(earnings, e)
	}
	return earnings, count, rows.Err()
}

func (r *earningRepository) GetSummary(ctx context.Context, userID int32) (*domain.EarningsSummary, error) {
	s := &domain.EarningsSummary{StatusCount: make(map[domain.EarningStatus]int32)}

	err := r.db.QueryRowContext(ctx,
		`SELECT pending_earnings_cents, total_earnings_cents FROM users WHERE id = $1`, userID).
		Scan(&s.PendingEarningsCents, &s.TotalEarningsCents)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(net_amount_cents), 0) FROM earnings WHERE user_id = $1 AND status = $2`,
		userID, domain.EarningStatusAvailable).Scan(&s.AvailableCents)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT status, count(*) FROM earnings WHERE user_id = $1 GROUP BY status`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status domain.EarningStatus
		var count int32
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		s.StatusCount[status] = count
	}
	return s, rows.Err()
}

func (r *earningRepository) RequestPayout(ctx context.Context, userID, amountCents int32, method domain.PayoutMethod, requestID string, dailyCapCents int32) ([]domain.Earning, error) {
	var reserved []domain.Earning
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		now := time.Now()
		windowStart := now.Add(-24 * time.Hour)

		// Lock the user row so concurrent requests from the same user
		// serialize on the balance reads below.
		var lockedID int32
		err := tx.QueryRowContext(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&lockedID)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		if err != nil {
			return err
		}

		var openExists bool
		err = tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM earnings WHERE user_id = $1 AND status = $2 AND requested_at > $3)`,
			userID, domain.EarningStatusRequested, windowStart).Scan(&openExists)
		if err != nil {
			return err
		}
		if openExists {
			return domain.ErrPendingRequestExists
		}

		var windowCents int32
		err = tx.QueryRowContext(ctx,
			`SELECT COALESCE(SUM(payout_amount_cents), 0) FROM earnings
			 WHERE user_id = $1 AND status IN ($2, $3) AND requested_at > $4`,
			userID, domain.EarningStatusRequested, domain.EarningStatusPaid, windowStart).Scan(&windowCents)
		if err != nil {
			return err
		}
		if windowCents+amountCents > dailyCapCents {
			return domain.ErrDailyCapExceeded.WithDetail("requested %d with %d already in the trailing 24h, cap %d",
				amountCents, windowCents, dailyCapCents)
		}

		rows, err := tx.QueryContext(ctx,
			`SELECT `+earningColumns+` FROM earnings
			 WHERE user_id = $1 AND status = $2 ORDER BY created_on FOR UPDATE`,
			userID, domain.EarningStatusAvailable)
		if err != nil {
			return err
		}
		var available []domain.Earning
		var availableCents int32
		for rows.Next() {
			var e domain.Earning
			if err := scanEarning(rows, &e); err != nil {
				rows.Close()
				return err
			}
			available = append(available, e)
			availableCents += e.NetAmountCents
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
		if amountCents > availableCents {
			return domain.ErrInsufficientAvailable.WithDetail("requested %d, available %d", amountCents, availableCents)
		}

		// Reserve whole earnings oldest-first until the request is covered.
		var covered int32
		for _, e := range available {
			if covered >= amountCents {
				break
			}
			_, err := tx.ExecContext(ctx,
				`UPDATE earnings SET status = $1, payout_request_id = $2, payout_method = $3,
				        payout_amount_cents = $4, requested_at = $5, updated_on = $5
				 WHERE id = $6`,
				domain.EarningStatusRequested, requestID, method, e.NetAmountCents, now, e.ID)
			if err != nil {
				return err
			}
			covered += e.NetAmountCents
			e.Status = domain.EarningStatusRequested
			e.Payout = &domain.PayoutRequest{
				RequestID:   requestID,
				Method:      method,
				AmountCents: e.NetAmountCents,
				RequestedAt: now,
			}
			reserved = append(reserved, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reserved, nil
}

func (r *earningRepository) ApprovePayout(ctx context.Context, earningID, adminID int32, transactionID string) (*domain.Earning, error) {
	e := &domain.Earning{}
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		now := time.Now()

		var used bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM earnings WHERE transaction_id = $1)`, transactionID).Scan(&used)
		if err != nil {
			return err
		}
		if used {
			return domain.ErrDuplicateTransaction
		}

		var userID, netCents int32
		err = tx.QueryRowContext(ctx,
			`UPDATE earnings SET status = $1, approved_at = $2, approver_id = $3, transaction_id = $4, updated_on = $2
			 WHERE id = $5 AND status = $6 RETURNING user_id, net_amount_cents`,
			domain.EarningStatusPaid, now, adminID, transactionID, earningID, domain.EarningStatusRequested).
			Scan(&userID, &netCents)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrEarningNotRequested
		}
		if isUniqueViolation(err) {
			return domain.ErrDuplicateTransaction
		}
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE users SET pending_earnings_cents = pending_earnings_cents - $1, updated_on = $2 WHERE id = $3`,
			netCents, now, userID)
		if err != nil {
			return err
		}

		return scanEarning(tx.QueryRowContext(ctx,
			`SELECT `+earningColumns+` FROM earnings WHERE id = $1`, earningID), e)
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *earningRepository) RejectPayout(ctx context.Context, earningID, adminID int32, reason string) (*domain.Earning, error) {
	e := &domain.Earning{}
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		now := time.Now()
		res, err := tx.ExecContext(ctx,
			`UPDATE earnings SET status = $1, rejected_at = $2, reject_reason = $3, approver_id = $4, updated_on = $2
			 WHERE id = $5 AND status = $6`,
			domain.EarningStatusAvailable, now, reason, adminID, earningID, domain.EarningStatusRequested)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrEarningNotRequested
		}

		return scanEarning(tx.QueryRowContext(ctx,
			`SELECT `+earningColumns+` FROM earnings WHERE id = $1`, earningID), e)
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *earningRepository) ReleaseCleared(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE earnings SET status = $1, updated_on = $2 WHERE status = $3 AND created_on < $4`,
		domain.EarningStatusAvailable, time.Now(), domain.EarningStatusPending, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
