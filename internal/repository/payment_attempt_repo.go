package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"studentportal/internal/models"
)

// PaymentAttemptRepository persists advisory payment-attempt records.
type PaymentAttemptRepository struct {
	db *gorm.DB
}

func NewPaymentAttemptRepository(db *gorm.DB) *PaymentAttemptRepository {
	return &PaymentAttemptRepository{db: db}
}

func (r *PaymentAttemptRepository) Create(ctx context.Context, attempt *models.PaymentAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *PaymentAttemptRepository) MarkPaid(ctx context.Context, txnRef string) error {
	return r.db.WithContext(ctx).Model(&models.PaymentAttempt{}).
		Where("txn_ref = ?", txnRef).
		Update("status", models.AttemptPaid).Error
}

// ExpirePending marks pending attempts whose payment window has closed.
// Returns the number of rows flipped.
func (r *PaymentAttemptRepository) ExpirePending(now time.Time) (int64, error) {
	res := r.db.Model(&models.PaymentAttempt{}).
		Where("status = ? AND expire_at < ?", models.AttemptPending, now).
		Update("status", models.AttemptExpired)
	return res.RowsAffected, res.Error
}

// ListPendingExpired returns pending attempts whose payment window has
// closed, for reconciliation before the expiry sweep flips them.
func (r *PaymentAttemptRepository) ListPendingExpired(now time.Time) ([]models.PaymentAttempt, error) {
	var attempts []models.PaymentAttempt
	err := r.db.Where("status = ? AND expire_at < ?", models.AttemptPending, now).
		Order("created_at").Limit(100).Find(&attempts).Error
	return attempts, err
}

// ListByFee returns all attempts recorded for one tuition fee.
func (r *PaymentAttemptRepository) ListByFee(feeID uint) ([]models.PaymentAttempt, error) {
	var attempts []models.PaymentAttempt
	err := r.db.Where("tuition_fee_id = ?", feeID).Order("created_at DESC").Find(&attempts).Error
	return attempts, err
}
