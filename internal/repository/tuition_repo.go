package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"studentportal/internal/models"
	"studentportal/internal/payment"
)

// TuitionFeeRepository handles tuition-fee database operations. It is the
// storage side of the payment subsystem's FeeStore contract.
type TuitionFeeRepository struct {
	db *gorm.DB
}

func NewTuitionFeeRepository(db *gorm.DB) *TuitionFeeRepository {
	return &TuitionFeeRepository{db: db}
}

// FindByID loads one fee. Missing fees map to payment.ErrFeeNotFound so the
// payment client can surface them in its own taxonomy.
func (r *TuitionFeeRepository) FindByID(ctx context.Context, id uint) (*models.TuitionFee, error) {
	var fee models.TuitionFee
	if err := r.db.WithContext(ctx).First(&fee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrFeeNotFound
		}
		return nil, err
	}
	return &fee, nil
}

// FindForStudent loads a fee and checks it belongs to the student.
func (r *TuitionFeeRepository) FindForStudent(ctx context.Context, id, studentID uint) (*models.TuitionFee, error) {
	fee, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fee.StudentID != studentID {
		return nil, payment.ErrFeeNotFound
	}
	return fee, nil
}

// Settle marks a fee fully paid. The read-check-write runs inside one
// transaction with a row lock, so concurrent duplicate notifications for the
// same fee serialize and only the first one applies.
func (r *TuitionFeeRepository) Settle(ctx context.Context, feeID uint) (payment.SettleState, error) {
	state := payment.SettleApplied
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var fee models.TuitionFee
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&fee, feeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				state = payment.SettleNotFound
				return nil
			}
			return err
		}

		if fee.TotalDue > 0 && fee.AmountPaid >= fee.TotalDue {
			state = payment.SettleAlreadyPaid
			return nil
		}

		return tx.Model(&models.TuitionFee{}).Where("Id = ?", feeID).Updates(map[string]interface{}{
			"DaDong":    fee.TotalDue,
			"TrangThai": models.TuitionPaid,
		}).Error
	})
	if err != nil {
		return 0, err
	}
	return state, nil
}

// ListByStudent returns all fees of one student.
func (r *TuitionFeeRepository) ListByStudent(studentID uint) ([]models.TuitionFee, error) {
	var fees []models.TuitionFee
	err := r.db.Where("StudentId = ?", studentID).Order("NamHoc, HocKy").Find(&fees).Error
	return fees, err
}

func (r *TuitionFeeRepository) FindAll() ([]models.TuitionFee, error) {
	var fees []models.TuitionFee
	err := r.db.Order("StudentId, NamHoc, HocKy").Find(&fees).Error
	return fees, err
}

func (r *TuitionFeeRepository) Create(fee *models.TuitionFee) error {
	return r.db.Create(fee).Error
}

func (r *TuitionFeeRepository) Update(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.TuitionFee{}).Where("Id = ?", id).Updates(updates).Error
}

func (r *TuitionFeeRepository) Delete(id uint) error {
	return r.db.Delete(&models.TuitionFee{}, id).Error
}

// Totals aggregates tuition amounts for the admin dashboard.
func (r *TuitionFeeRepository) Totals() (totalDue, totalPaid int64, err error) {
	row := struct {
		Due  int64
		Paid int64
	}{}
	err = r.db.Model(&models.TuitionFee{}).
		Select("COALESCE(SUM(TongTien), 0) AS due, COALESCE(SUM(DaDong), 0) AS paid").
		Scan(&row).Error
	return row.Due, row.Paid, err
}

// ListUnpaid returns every fee that still carries an outstanding balance,
// for the dashboard unpaid list.
func (r *TuitionFeeRepository) ListUnpaid() ([]models.TuitionFee, error) {
	var fees []models.TuitionFee
	err := r.db.Where("TongTien > 0 AND (DaDong IS NULL OR DaDong < TongTien)").
		Order("StudentId, NamHoc, HocKy").
		Find(&fees).Error
	return fees, err
}

// CountByStatus counts fees per derived status bucket.
func (r *TuitionFeeRepository) CountByStatus(status string) (int64, error) {
	var count int64
	db := r.db.Model(&models.TuitionFee{})
	switch status {
	case models.TuitionPaid:
		db = db.Where("TongTien > 0 AND DaDong >= TongTien")
	case models.TuitionPartial:
		db = db.Where("DaDong > 0 AND DaDong < TongTien")
	default:
		db = db.Where("DaDong = 0 OR DaDong IS NULL")
	}
	err := db.Count(&count).Error
	return count, err
}
