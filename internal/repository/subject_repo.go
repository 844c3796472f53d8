package repository

import (
	"gorm.io/gorm"

	"studentportal/internal/models"
)

// SubjectRepository handles subject database operations.
type SubjectRepository struct {
	db *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

func (r *SubjectRepository) FindAll() ([]models.Subject, error) {
	var subjects []models.Subject
	err := r.db.Order("MaMon").Find(&subjects).Error
	return subjects, err
}

func (r *SubjectRepository) FindByID(id uint) (*models.Subject, error) {
	var subject models.Subject
	if err := r.db.First(&subject, id).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *SubjectRepository) Create(subject *models.Subject) error {
	return r.db.Create(subject).Error
}

func (r *SubjectRepository) Update(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Subject{}).Where("Id = ?", id).Updates(updates).Error
}

// Delete removes a subject together with registrations and schedule slots
// pointing at it.
func (r *SubjectRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("SubjectId = ?", id).Delete(&models.Registration{}).Error; err != nil {
			return err
		}
		if err := tx.Where("SubjectId = ?", id).Delete(&models.Schedule{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Subject{}, id).Error
	})
}

func (r *SubjectRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Subject{}).Count(&count).Error
	return count, err
}

// CreditCount is one bucket of the credit-distribution chart.
type CreditCount struct {
	Credits int   `json:"credits"`
	Count   int64 `json:"count"`
}

// CountByCredits buckets the catalogue by credit value, ascending.
func (r *SubjectRepository) CountByCredits() ([]CreditCount, error) {
	var rows []CreditCount
	err := r.db.Model(&models.Subject{}).
		Select("SoTinChi AS credits, COUNT(*) AS count").
		Group("SoTinChi").
		Order("SoTinChi").
		Scan(&rows).Error
	return rows, err
}
