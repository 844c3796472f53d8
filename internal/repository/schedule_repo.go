package repository

import (
	"gorm.io/gorm"

	"studentportal/internal/models"
)

// ScheduleEntry is one row of a student's weekly timetable.
type ScheduleEntry struct {
	ID          uint   `json:"id"`
	SubjectCode string `json:"subject_code"`
	SubjectName string `json:"subject_name"`
	Weekday     int    `json:"weekday"`
	StartPeriod int    `json:"start_period"`
	EndPeriod   int    `json:"end_period"`
	Room        string `json:"room"`
	Lecturer    string `json:"lecturer"`
}

// ScheduleRepository handles timetable database operations.
type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// ListByStudent returns the student's timetable ordered by weekday then
// starting period.
func (r *ScheduleRepository) ListByStudent(studentID uint) ([]ScheduleEntry, error) {
	var rows []ScheduleEntry
	err := r.db.Model(&models.Schedule{}).
		Select("Schedule.Id AS id, Subjects.MaMon AS subject_code, Subjects.TenMon AS subject_name, Schedule.Thu AS weekday, Schedule.TietBatDau AS start_period, Schedule.TietKetThuc AS end_period, Schedule.Phong AS room, Schedule.GiangVien AS lecturer").
		Joins("JOIN Subjects ON Subjects.Id = Schedule.SubjectId").
		Where("Schedule.StudentId = ?", studentID).
		Order("Schedule.Thu, Schedule.TietBatDau").
		Scan(&rows).Error
	return rows, err
}

func (r *ScheduleRepository) FindByID(id uint) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := r.db.First(&schedule, id).Error; err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *ScheduleRepository) FindAll() ([]models.Schedule, error) {
	var schedules []models.Schedule
	err := r.db.Order("StudentId, Thu, TietBatDau").Find(&schedules).Error
	return schedules, err
}

func (r *ScheduleRepository) Create(schedule *models.Schedule) error {
	return r.db.Create(schedule).Error
}

func (r *ScheduleRepository) Update(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Schedule{}).Where("Id = ?", id).Updates(updates).Error
}

func (r *ScheduleRepository) Delete(id uint) error {
	return r.db.Delete(&models.Schedule{}, id).Error
}
