package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"givehub-backend/internal/domain"
	"givehub-backend/internal/repository"
)

type commissionRepository struct {
	db *sql.DB
}

func NewCommissionRepository(db *sql.DB) repository.CommissionRepository {
	return &commissionRepository{db: db}
}

func (r *commissionRepository) RateAt(ctx context.Context, at time.Time) (*domain.CommissionRate, error) {
	cr := &domain.CommissionRate{}
	query := `SELECT id, rate, effective_from, created_by, created_on FROM commission_rates
	          WHERE effective_from <= $1 ORDER BY effective_from DESC, id DESC LIMIT 1`
	err := r.db.QueryRowContext(ctx, query, at).Scan(&cr.ID, &cr.Rate, &cr.EffectiveFrom, &cr.CreatedBy, &cr.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		// No configured rate yet: the platform takes no commission.
		return &domain.CommissionRate{Rate: 0, EffectiveFrom: time.Time{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return cr, nil
}

func (r *commissionRepository) Insert(ctx context.Context, cr *domain.CommissionRate) error {
	query := `INSERT INTO commission_rates (rate, effective_from, created_by, created_on)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	return r.db.QueryRowContext(ctx, query, cr.Rate, cr.EffectiveFrom, cr.CreatedBy, time.Now()).Scan(&cr.ID)
}
