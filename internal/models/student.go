package models

// Student maps to the `Students` table.
type Student struct {
	ID       uint   `gorm:"column:Id;primaryKey;autoIncrement" json:"id"`
	Code     string `gorm:"column:MSSV;size:20;uniqueIndex" json:"mssv"`
	FullName string `gorm:"column:HoTen;size:100" json:"full_name"`
	Class    string `gorm:"column:Lop;size:50" json:"class"`
	Faculty  string `gorm:"column:Khoa;size:100" json:"faculty"`
	Email    string `gorm:"column:Email;size:100" json:"email"`
	Password string `gorm:"column:Password;size:100" json:"-"`
}

func (Student) TableName() string {
	return "Students"
}
