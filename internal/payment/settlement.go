package payment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"studentportal/internal/models"
)

// ApplyResult is the outcome of feeding one notification to the ledger.
type ApplyResult int

const (
	ResultApplied ApplyResult = iota
	ResultAlreadySettled
	ResultFeeNotFound
	ResultStatusMismatch
)

func (r ApplyResult) String() string {
	switch r {
	case ResultApplied:
		return "applied"
	case ResultAlreadySettled:
		return "already_settled"
	case ResultFeeNotFound:
		return "fee_not_found"
	default:
		return "status_mismatch"
	}
}

// SettleState is what the store reports after its transactional update.
type SettleState int

const (
	SettleApplied SettleState = iota
	SettleAlreadyPaid
	SettleNotFound
)

// FeeStore is the contract the payment subsystem requires from storage.
// Settle must run its lookup-then-mutate as one atomic unit per fee:
// concurrent calls for the same fee ID must never double-apply.
type FeeStore interface {
	FindByID(ctx context.Context, id uint) (*models.TuitionFee, error)
	Settle(ctx context.Context, feeID uint) (SettleState, error)
}

// settleRetries bounds retries of the settlement transaction. A failure here
// is transient contention, not a data error.
const settleRetries = 3

// Settler applies verified notifications to tuition-fee records.
type Settler struct {
	fees   FeeStore
	logger *zap.Logger
}

func NewSettler(fees FeeStore, logger *zap.Logger) *Settler {
	return &Settler{fees: fees, logger: logger}
}

// Apply credits an authenticated notification to a tuition fee. The gateway
// delivers duplicates as a matter of course, so a fee that is already fully
// settled reports ResultAlreadySettled and is left untouched. A fee that is
// not fully settled is marked fully paid (the gateway's flow settles the full
// outstanding balance, partial settlement is not distinguished further).
func (s *Settler) Apply(ctx context.Context, feeID uint, paidAmount int64, txnStatus string) (ApplyResult, error) {
	if txnStatus != StatusSuccess {
		s.logger.Info("payment notification without success status",
			zap.Uint("fee_id", feeID),
			zap.String("transaction_status", txnStatus),
		)
		return ResultStatusMismatch, nil
	}

	var lastErr error
	for attempt := 0; attempt < settleRetries; attempt++ {
		state, err := s.fees.Settle(ctx, feeID)
		if err != nil {
			lastErr = err
			s.logger.Warn("settlement attempt failed",
				zap.Uint("fee_id", feeID),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			continue
		}

		switch state {
		case SettleNotFound:
			return ResultFeeNotFound, nil
		case SettleAlreadyPaid:
			return ResultAlreadySettled, nil
		default:
			s.logger.Info("tuition fee settled",
				zap.Uint("fee_id", feeID),
				zap.Int64("paid_amount", paidAmount),
			)
			return ResultApplied, nil
		}
	}

	return 0, fmt.Errorf("settle fee %d: %w: %v", feeID, ErrStorageFailure, lastErr)
}
