package repository

import (
	"gorm.io/gorm"

	"studentportal/internal/models"
)

// RegisteredSubject is one row of a student's registration list.
type RegisteredSubject struct {
	RegistrationID uint   `json:"registration_id"`
	SubjectID      uint   `json:"subject_id"`
	Code           string `json:"code"`
	Name           string `json:"name"`
	Credits        int    `json:"credits"`
}

// RegistrationDetail is one row of the admin registration list, joined with
// both sides of the enrollment.
type RegistrationDetail struct {
	ID          uint   `json:"id"`
	StudentID   uint   `json:"student_id"`
	StudentCode string `json:"student_mssv"`
	StudentName string `json:"student_name"`
	SubjectID   uint   `json:"subject_id"`
	SubjectCode string `json:"subject_code"`
	SubjectName string `json:"subject_name"`
	Credits     int    `json:"credits"`
}

// SubjectRegistrationCount is one bar of the most-registered-subjects chart.
type SubjectRegistrationCount struct {
	SubjectID uint   `json:"subject_id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Count     int64  `json:"count"`
}

// RegistrationRepository handles subject registration operations.
type RegistrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

func (r *RegistrationRepository) FindByID(id uint) (*models.Registration, error) {
	var reg models.Registration
	if err := r.db.First(&reg, id).Error; err != nil {
		return nil, err
	}
	return &reg, nil
}

// Exists reports whether the student already registered the subject.
func (r *RegistrationRepository) Exists(studentID, subjectID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Registration{}).
		Where("StudentId = ? AND SubjectId = ?", studentID, subjectID).
		Count(&count).Error
	return count > 0, err
}

// ListByStudent returns the student's registrations joined with subjects.
func (r *RegistrationRepository) ListByStudent(studentID uint) ([]RegisteredSubject, error) {
	var rows []RegisteredSubject
	err := r.db.Model(&models.Registration{}).
		Select("StudentSubjects.Id AS registration_id, Subjects.Id AS subject_id, Subjects.MaMon AS code, Subjects.TenMon AS name, Subjects.SoTinChi AS credits").
		Joins("JOIN Subjects ON Subjects.Id = StudentSubjects.SubjectId").
		Where("StudentSubjects.StudentId = ?", studentID).
		Scan(&rows).Error
	return rows, err
}

// SumCredits totals the credits of every subject the student registered.
func (r *RegistrationRepository) SumCredits(studentID uint) (int, error) {
	var sum int64
	err := r.db.Model(&models.Registration{}).
		Joins("JOIN Subjects ON Subjects.Id = StudentSubjects.SubjectId").
		Where("StudentSubjects.StudentId = ?", studentID).
		Select("COALESCE(SUM(Subjects.SoTinChi), 0)").
		Scan(&sum).Error
	return int(sum), err
}

// FindAllDetailed returns every registration joined with student and
// subject, for the admin list and export.
func (r *RegistrationRepository) FindAllDetailed() ([]RegistrationDetail, error) {
	var rows []RegistrationDetail
	err := r.db.Model(&models.Registration{}).
		Select("StudentSubjects.Id AS id, Students.Id AS student_id, Students.MSSV AS student_code, Students.HoTen AS student_name, Subjects.Id AS subject_id, Subjects.MaMon AS subject_code, Subjects.TenMon AS subject_name, Subjects.SoTinChi AS credits").
		Joins("JOIN Students ON Students.Id = StudentSubjects.StudentId").
		Joins("JOIN Subjects ON Subjects.Id = StudentSubjects.SubjectId").
		Order("Students.MSSV, Subjects.MaMon").
		Scan(&rows).Error
	return rows, err
}

// TopSubjects returns the most-registered subjects in descending order.
func (r *RegistrationRepository) TopSubjects(limit int) ([]SubjectRegistrationCount, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []SubjectRegistrationCount
	err := r.db.Model(&models.Registration{}).
		Select("Subjects.Id AS subject_id, Subjects.MaMon AS code, Subjects.TenMon AS name, COUNT(*) AS count").
		Joins("JOIN Subjects ON Subjects.Id = StudentSubjects.SubjectId").
		Group("Subjects.Id, Subjects.MaMon, Subjects.TenMon").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *RegistrationRepository) Create(reg *models.Registration) error {
	return r.db.Create(reg).Error
}

func (r *RegistrationRepository) Delete(id uint) error {
	return r.db.Delete(&models.Registration{}, id).Error
}

func (r *RegistrationRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Registration{}).Count(&count).Error
	return count, err
}
