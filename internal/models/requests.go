package models

// LoginRequest is shared by student and admin login.
type LoginRequest struct {
	Code     string `json:"mssv"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterSubjectRequest struct {
	StudentID uint `json:"student_id"`
	SubjectID uint `json:"subject_id"`
}

type CancelRegistrationRequest struct {
	RegistrationID uint `json:"registration_id"`
}

// PaymentTuitionRequest asks for a gateway redirect URL.
type PaymentTuitionRequest struct {
	StudentID    uint  `json:"student_id"`
	TuitionFeeID uint  `json:"tuition_fee_id"`
	Amount       int64 `json:"amount"`
}

type StudentUpsertRequest struct {
	Code     string `json:"mssv"`
	FullName string `json:"full_name"`
	Class    string `json:"class"`
	Faculty  string `json:"faculty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SubjectUpsertRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Credits int    `json:"credits"`
}

type ScheduleUpsertRequest struct {
	StudentID   uint   `json:"student_id"`
	SubjectID   uint   `json:"subject_id"`
	Weekday     int    `json:"weekday"`
	StartPeriod int    `json:"start_period"`
	EndPeriod   int    `json:"end_period"`
	Room        string `json:"room"`
	Lecturer    string `json:"lecturer"`
}

type TuitionFeeUpsertRequest struct {
	StudentID uint   `json:"student_id"`
	Semester  string `json:"semester"`
	Year      string `json:"year"`
	TotalDue  int64  `json:"total_due"`
}
