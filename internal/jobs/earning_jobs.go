package jobs

import (
	"context"
	"time"

	"givehub-backend/internal/logger"
)

// recoveryBatchSize caps how many missed settlements one sweep attempts.
const recoveryBatchSize = 100

// ReleaseClearedEarnings moves earnings out of the clearing hold into the
// payable bucket once the configured hold period has elapsed.
func (jr *JobRunner) ReleaseClearedEarnings() {
	jr.runWithRecovery("ReleaseClearedEarnings", func() {
		ctx := context.Background()

		cutoff := time.Now().Add(-time.Duration(jr.config.Earnings.ClearingHoldHours) * time.Hour)
		count, err := jr.store.EarningRepository.ReleaseCleared(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to release cleared earnings", "error", err)
			return
		}
		logger.Info("Released cleared earnings", "count", count, "cutoff", cutoff)
	})
}

// RecoverUnsettledDeliveries settles completed deliveries that have no
// earning row yet. Settlement normally happens inline on completion but may
// fail without undoing the delivery; this sweep closes that gap.
func (jr *JobRunner) RecoverUnsettledDeliveries() {
	jr.runWithRecovery("RecoverUnsettledDeliveries", func() {
		ctx := context.Background()

		deliveries, err := jr.store.DeliveryRepository.ListUnsettledCompleted(ctx, recoveryBatchSize)
		if err != nil {
			logger.Error("Failed to list unsettled deliveries", "error", err)
			return
		}

		settled := 0
		for i := range deliveries {
			d := &deliveries[i]
			if _, err := jr.earningSvc.SettleDelivery(ctx, d); err != nil {
				logger.Error("Failed to settle delivery", "delivery_id", d.ID, "error", err)
				continue
			}
			settled++
		}
		logger.Info("Recovered unsettled deliveries", "found", len(deliveries), "settled", settled)
	})
}
