package jobs

import (
	"context"
	"time"

	"givehub-backend/internal/logger"
)

// ReapExpiredOffers physically expires offers whose TTL has passed. Approval
// already treats stale PENDING rows as expired (lazy expiry); this sweep
// keeps the stored status honest for listings and the duplicate-offer index.
func (jr *JobRunner) ReapExpiredOffers() {
	jr.runWithRecovery("ReapExpiredOffers", func() {
		ctx := context.Background()

		count, err := jr.store.OfferRepository.MarkExpired(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to reap expired offers", "error", err)
			return
		}
		logger.Info("Reaped expired offers", "count", count)
	})
}
