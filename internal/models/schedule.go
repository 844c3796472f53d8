package models

// Schedule maps to the `Schedule` table. Weekday is 2..8 (Monday..Sunday,
// following the Vietnamese "thứ" convention of the legacy data).
type Schedule struct {
	ID          uint   `gorm:"column:Id;primaryKey;autoIncrement" json:"id"`
	StudentID   uint   `gorm:"column:StudentId;index" json:"student_id"`
	SubjectID   uint   `gorm:"column:SubjectId;index" json:"subject_id"`
	Weekday     int    `gorm:"column:Thu" json:"weekday"`
	StartPeriod int    `gorm:"column:TietBatDau" json:"start_period"`
	EndPeriod   int    `gorm:"column:TietKetThuc" json:"end_period"`
	Room        string `gorm:"column:Phong;size:20" json:"room"`
	Lecturer    string `gorm:"column:GiangVien;size:100" json:"lecturer"`
}

func (Schedule) TableName() string {
	return "Schedule"
}
