package models

import "time"

// Payment attempt statuses.
const (
	AttemptPending = "pending"
	AttemptPaid    = "paid"
	AttemptExpired = "expired"
)

// PaymentAttempt records one redirect URL handed to a student. Attempts are
// advisory: settlement correctness rests on the idempotent tuition-fee
// update, not on this table.
type PaymentAttempt struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TxnRef       string    `gorm:"column:txn_ref;size:64;uniqueIndex" json:"txn_ref"`
	TuitionFeeID uint      `gorm:"column:tuition_fee_id;index" json:"tuition_fee_id"`
	Amount       int64     `gorm:"column:amount" json:"amount"`
	IPAddress    string    `gorm:"column:ip_address;size:45" json:"ip_address"`
	Status       string    `gorm:"column:status;size:20;index" json:"status"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	ExpireAt     time.Time `gorm:"column:expire_at" json:"expire_at"`
}

func (PaymentAttempt) TableName() string {
	return "payment_attempts"
}
