package repository

import (
	"gorm.io/gorm"

	"studentportal/internal/models"
)

// StudentRepository handles student database operations.
type StudentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindAll returns students with pagination and optional search.
func (r *StudentRepository) FindAll(limit, page int, query string) ([]models.Student, int64, error) {
	var students []models.Student
	var total int64

	db := r.db.Model(&models.Student{})

	if query != "" {
		search := "%" + query + "%"
		db = db.Where("MSSV LIKE ? OR HoTen LIKE ? OR Lop LIKE ? OR Khoa LIKE ?",
			search, search, search, search)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	if err := db.Limit(limit).Offset(offset).Order("Id").Find(&students).Error; err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// FindByID finds a student by primary key.
func (r *StudentRepository) FindByID(id uint) (*models.Student, error) {
	var student models.Student
	if err := r.db.First(&student, id).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByCredentials matches a student code and password for login.
func (r *StudentRepository) FindByCredentials(code, password string) (*models.Student, error) {
	var student models.Student
	err := r.db.Where("MSSV = ? AND Password = ?", code, password).First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// Create inserts a new student.
func (r *StudentRepository) Create(student *models.Student) error {
	return r.db.Create(student).Error
}

// Update updates student fields.
func (r *StudentRepository) Update(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Student{}).Where("Id = ?", id).Updates(updates).Error
}

// Delete removes a student and its dependent rows.
func (r *StudentRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("StudentId = ?", id).Delete(&models.Registration{}).Error; err != nil {
			return err
		}
		if err := tx.Where("StudentId = ?", id).Delete(&models.Schedule{}).Error; err != nil {
			return err
		}
		if err := tx.Where("StudentId = ?", id).Delete(&models.TuitionFee{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Student{}, id).Error
	})
}

// Count returns the number of students.
func (r *StudentRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Student{}).Count(&count).Error
	return count, err
}

// GroupCount is one bucket of a grouped student count.
type GroupCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// CountByFaculty buckets students per faculty, largest first. Students
// without a faculty are skipped.
func (r *StudentRepository) CountByFaculty() ([]GroupCount, error) {
	var rows []GroupCount
	err := r.db.Model(&models.Student{}).
		Select("Khoa AS label, COUNT(*) AS count").
		Where("Khoa IS NOT NULL AND Khoa <> ''").
		Group("Khoa").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

// CountByClass buckets students per class, largest first.
func (r *StudentRepository) CountByClass(limit int) ([]GroupCount, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []GroupCount
	err := r.db.Model(&models.Student{}).
		Select("Lop AS label, COUNT(*) AS count").
		Where("Lop IS NOT NULL AND Lop <> ''").
		Group("Lop").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
