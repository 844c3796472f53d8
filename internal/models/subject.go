package models

// Subject maps to the `Subjects` table.
type Subject struct {
	ID      uint   `gorm:"column:Id;primaryKey;autoIncrement" json:"id"`
	Code    string `gorm:"column:MaMon;size:20;uniqueIndex" json:"code"`
	Name    string `gorm:"column:TenMon;size:100" json:"name"`
	Credits int    `gorm:"column:SoTinChi" json:"credits"`
}

func (Subject) TableName() string {
	return "Subjects"
}

// Registration maps to the `StudentSubjects` join table.
type Registration struct {
	ID        uint `gorm:"column:Id;primaryKey;autoIncrement" json:"id"`
	StudentID uint `gorm:"column:StudentId;index" json:"student_id"`
	SubjectID uint `gorm:"column:SubjectId;index" json:"subject_id"`
}

func (Registration) TableName() string {
	return "StudentSubjects"
}
