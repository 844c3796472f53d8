package models

// Tuition fee statuses. AmountPaid never decreases; a fee is Paid exactly
// when AmountPaid >= TotalDue.
const (
	TuitionUnpaid  = "Unpaid"
	TuitionPartial = "Partial"
	TuitionPaid    = "Paid"
)

// TuitionFee maps to the `TuitionFees` table. Amounts are VND.
type TuitionFee struct {
	ID         uint   `gorm:"column:Id;primaryKey;autoIncrement" json:"id"`
	StudentID  uint   `gorm:"column:StudentId;index" json:"student_id"`
	Semester   string `gorm:"column:HocKy;size:10" json:"semester"`
	Year       string `gorm:"column:NamHoc;size:20" json:"year"`
	TotalDue   int64  `gorm:"column:TongTien" json:"total_due"`
	AmountPaid int64  `gorm:"column:DaDong" json:"amount_paid"`
	Status     string `gorm:"column:TrangThai;size:20" json:"status"`
}

func (TuitionFee) TableName() string {
	return "TuitionFees"
}

// Outstanding returns the unpaid remainder of the fee.
func (f *TuitionFee) Outstanding() int64 {
	return f.TotalDue - f.AmountPaid
}

// DeriveStatus computes the status from the amounts, used when legacy rows
// carry a stale TrangThai value.
func (f *TuitionFee) DeriveStatus() string {
	switch {
	case f.TotalDue > 0 && f.AmountPaid >= f.TotalDue:
		return TuitionPaid
	case f.AmountPaid > 0:
		return TuitionPartial
	default:
		return TuitionUnpaid
	}
}
