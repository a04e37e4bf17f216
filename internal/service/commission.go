package service

import (
	"context"
	"sync"
	"time"

	"givehub-backend/internal/domain"
	"givehub-backend/internal/logger"
	"givehub-backend/internal/repository"
)

// rateCacheTTL bounds how stale a cached commission rate may be. Settled
// earnings are unaffected by staleness since they snapshot the rate anyway.
const rateCacheTTL = 30 * time.Second

type commissionPolicy struct {
	commissionRepo repository.CommissionRepository
	userRepo       repository.UserRepository

	mu        sync.Mutex
	cached    float64
	fetchedAt time.Time
}

func NewCommissionPolicy(commissionRepo repository.CommissionRepository, userRepo repository.UserRepository) CommissionPolicy {
	return &commissionPolicy{
		commissionRepo: commissionRepo,
		userRepo:       userRepo,
	}
}

func (p *commissionPolicy) CurrentRate(ctx context.Context) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.fetchedAt.IsZero() && time.Since(p.fetchedAt) < rateCacheTTL {
		return p.cached, nil
	}

	cr, err := p.commissionRepo.RateAt(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	p.cached = cr.Rate
	p.fetchedAt = time.Now()
	return p.cached, nil
}

func (p *commissionPolicy) SetRate(ctx context.Context, adminID int32, rate float64) error {
	if rate < 0 || rate > 1 {
		return domain.ErrInvalidRate
	}

	admin, err := p.userRepo.GetByID(ctx, adminID)
	if err != nil {
		return err
	}
	if !admin.IsAdmin() {
		return domain.ErrNotAdmin
	}

	cr := &domain.CommissionRate{
		Rate:          rate,
		EffectiveFrom: time.Now(),
		CreatedBy:     adminID,
	}
	if err := p.commissionRepo.Insert(ctx, cr); err != nil {
		return err
	}
	logger.Info("Commission rate updated", "rate", rate, "admin_id", adminID)

	p.mu.Lock()
	p.fetchedAt = time.Time{} // force a re-read on the next CurrentRate
	p.mu.Unlock()
	return nil
}
