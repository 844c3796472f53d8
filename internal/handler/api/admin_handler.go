package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"studentportal/internal/config"
	"studentportal/internal/middleware"
	"studentportal/internal/models"
	"studentportal/internal/repository"
)

type AdminHandler struct {
	cfg           *config.Config
	students      *repository.StudentRepository
	subjects      *repository.SubjectRepository
	registrations *repository.RegistrationRepository
	schedules     *repository.ScheduleRepository
	fees          *repository.TuitionFeeRepository
	logger        *zap.Logger
}

func NewAdminHandler(
	cfg *config.Config,
	students *repository.StudentRepository,
	subjects *repository.SubjectRepository,
	registrations *repository.RegistrationRepository,
	schedules *repository.ScheduleRepository,
	fees *repository.TuitionFeeRepository,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		cfg:           cfg,
		students:      students,
		subjects:      subjects,
		registrations: registrations,
		schedules:     schedules,
		fees:          fees,
		logger:        logger,
	}
}

// Login checks the configured admin credentials and issues an admin token.
func (h *AdminHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Username != h.cfg.Admin.Username || req.Password != h.cfg.Admin.Password {
		return errorResponse(c, http.StatusUnauthorized, "Incorrect username or password")
	}

	token, err := middleware.IssueToken(h.cfg.JWT.Secret, req.Username, middleware.RoleAdmin, h.cfg.JWT.Expiry)
	if err != nil {
		h.logger.Error("issue admin token", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not create session")
	}
	return successResponse(c, map[string]string{"token": token})
}

// Statistics aggregates counts and tuition totals for the dashboard.
func (h *AdminHandler) Statistics(c echo.Context) error {
	studentCount, err := h.students.Count()
	if err != nil {
		h.logger.Error("count students", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not load statistics")
	}
	subjectCount, err := h.subjects.Count()
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, "Could not load statistics")
	}
	registrationCount, err := h.registrations.Count()
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, "Could not load statistics")
	}
	totalDue, totalPaid, err := h.fees.Totals()
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, "Could not load statistics")
	}
	paidFees, err := h.fees.CountByStatus(models.TuitionPaid)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, "Could not load statistics")
	}
	unpaidFees, err := h.fees.CountByStatus(models.TuitionUnpaid)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, "Could not load statistics")
	}
	unpaidList, err := h.fees.ListUnpaid()
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, "Could not load statistics")
	}
	for i := range unpaidList {
		unpaidList[i].Status = unpaidList[i].DeriveStatus()
	}

	return successResponse(c, map[string]interface{}{
		"students":           studentCount,
		"subjects":           subjectCount,
		"registrations":      registrationCount,
		"tuition_total_due":  totalDue,
		"tuition_total_paid": totalPaid,
		"fees_paid":          paidFees,
		"fees_unpaid":        unpaidFees,
		"unpaid_list":        unpaidList,
	})
}

// --- students ---

func (h *AdminHandler) ListStudents(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	page, _ := strconv.Atoi(c.QueryParam("page"))
	students, total, err := h.students.FindAll(limit, page, c.QueryParam("q"))
	if err != nil {
		h.logger.Error("list students", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not load students")
	}
	return successResponse(c, map[string]interface{}{
		"students": students,
		"total":    total,
	})
}

func (h *AdminHandler) CreateStudent(c echo.Context) error {
	var req models.StudentUpsertRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Code == "" || req.FullName == "" {
		return errorResponse(c, http.StatusBadRequest, "MSSV and full name are required")
	}
	student := &models.Student{
		Code:     req.Code,
		FullName: req.FullName,
		Class:    req.Class,
		Faculty:  req.Faculty,
		Email:    req.Email,
		Password: req.Password,
	}
	if err := h.students.Create(student); err != nil {
		h.logger.Error("create student", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not create student")
	}
	return createdResponse(c, student)
}

func (h *AdminHandler) UpdateStudent(c echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return errorResponse(c, http.StatusBadRequest, "Invalid student id")
	}
	var req models.StudentUpsertRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "Invalid request body")
	}
	if _, err := h.students.FindByID(id); err != nil {
		return errorResponse(c, http.StatusNotFound, "Student not found")
	}

	updates := map[string]interface{}{
		"MSSV":  req.Code,
		"HoTen": req.FullName,
		"Lop":   req.Class,
		"Khoa":  req.Faculty,
		"Email": req.Email,
	}
	if req.Password != "" {
		updates["Password"] = req.Password
	}
	if err := h.students.Update(id, updates); err != nil {
		h.logger.Error("update student", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not update student")
	}
	return successResponse(c, nil)
}

// DeleteStudent removes the student together with their registrations,
// schedules, and tuition fees.
func (h *AdminHandler) DeleteStudent(c echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return errorResponse(c, http.StatusBadRequest, "Invalid student id")
	}
	if _, err := h.students.FindByID(id); err != nil {
		return errorResponse(c, http.StatusNotFound, "Student not found")
	}
	if err := h.students.Delete(id); err != nil {
		h.logger.Error("delete student", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not delete student")
	}
	return successResponse(c, nil)
}

// --- subjects ---

func (h *AdminHandler) ListSubjects(c echo.Context) error {
	subjects, err := h.subjects.FindAll()
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, "Could not load subjects")
	}
	return successResponse(c, subjects)
}

func (h *AdminHandler) CreateSubject(c echo.Context) error {
	var req models.SubjectUpsertRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Code == "" || req.Name == "" || req.Credits <= 0 {
		return errorResponse(c, http.StatusBadRequest, "Code, name and positive credits are required")
	}
	subject := &models.Subject{Code: req.Code, Name: req.Name, Credits: req.Credits}
	if err := h.subjects.Create(subject); err != nil {
		h.logger.Error("create subject", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not create subject")
	}
	return createdResponse(c, subject)
}

func (h *AdminHandler) UpdateSubject(c echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return errorResponse(c, http.StatusBadRequest, "Invalid subject id")
	}
	var req models.SubjectUpsertRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "Invalid request body")
	}
	if _, err := h.subjects.FindByID(id); err != nil {
		return errorResponse(c, http.StatusNotFound, "Subject not found")
	}
	if err := h.subjects.Update(id, map[string]interface{}{
		"MaMon":    req.Code,
		"TenMon":   req.Name,
		"SoTinChi": req.Credits,
	}); err != nil {
		h.logger.Error("update subject", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not update subject")
	}
	return successResponse(c, nil)
}

func (h *AdminHandler) DeleteSubject(c echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return errorResponse(c, http.StatusBadRequest, "Invalid subject id")
	}
	if _, err := h.subjects.FindByID(id); err != nil {
		return errorResponse(c, http.StatusNotFound, "Subject not found")
	}
	if err := h.subjects.Delete(id); err != nil {
		h.logger.Error("delete subject", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not delete subject")
	}
	return successResponse(c, nil)
}

// --- registrations ---

func (h *AdminHandler) ListRegistrations(c echo.Context) error {
	rows, err := h.registrations.FindAllDetailed()
	if err != nil {
		h.logger.Error("list registrations", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not load registrations")
	}
	return successResponse(c, rows)
}

func (h *AdminHandler) DeleteRegistration(c echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return errorResponse(c, http.StatusBadRequest, "Invalid registration id")
	}
	if _, err := h.registrations.FindByID(id); err != nil {
		return errorResponse(c, http.StatusNotFound, "Registration not found")
	}
	if err := h.registrations.Delete(id); err != nil {
		h.logger.Error("delete registration", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not delete registration")
	}
	return successResponse(c, nil)
}

// --- schedules ---

func (h *AdminHandler) ListSchedules(c echo.Context) error {
	schedules, err := h.schedules.FindAll()
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, "Could not load schedules")
	}
	return successResponse(c, schedules)
}

func (h *AdminHandler) CreateSchedule(c echo.Context) error {
	var req models.ScheduleUpsertRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Weekday < 2 || req.Weekday > 8 {
		return errorResponse(c, http.StatusBadRequest, "Weekday must be between 2 and 8")
	}
	if req.StartPeriod <= 0 || req.EndPeriod < req.StartPeriod {
		return errorResponse(c, http.StatusBadRequest, "Invalid period range")
	}
	schedule := &models.Schedule{
		StudentID:   req.StudentID,
		SubjectID:   req.SubjectID,
		Weekday:     req.Weekday,
		StartPeriod: req.StartPeriod,
		EndPeriod:   req.EndPeriod,
		Room:        req.Room,
		Lecturer:    req.Lecturer,
	}
	if err := h.schedules.Create(schedule); err != nil {
		h.logger.Error("create schedule", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not create schedule")
	}
	return createdResponse(c, schedule)
}

func (h *AdminHandler) UpdateSchedule(c echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return errorResponse(c, http.StatusBadRequest, "Invalid schedule id")
	}
	var req models.ScheduleUpsertRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "Invalid request body")
	}
	if _, err := h.schedules.FindByID(id); err != nil {
		return errorResponse(c, http.StatusNotFound, "Schedule not found")
	}
	if err := h.schedules.Update(id, map[string]interface{}{
		"Thu":         req.Weekday,
		"TietBatDau":  req.StartPeriod,
		"TietKetThuc": req.EndPeriod,
		"Phong":       req.Room,
		"GiangVien":   req.Lecturer,
	}); err != nil {
		h.logger.Error("update schedule", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not update schedule")
	}
	return successResponse(c, nil)
}

func (h *AdminHandler) DeleteSchedule(c echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return errorResponse(c, http.StatusBadRequest, "Invalid schedule id")
	}
	if _, err := h.schedules.FindByID(id); err != nil {
		return errorResponse(c, http.StatusNotFound, "Schedule not found")
	}
	if err := h.schedules.Delete(id); err != nil {
		h.logger.Error("delete schedule", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not delete schedule")
	}
	return successResponse(c, nil)
}

// --- tuition fees ---

func (h *AdminHandler) ListTuitionFees(c echo.Context) error {
	fees, err := h.fees.FindAll()
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, "Could not load tuition fees")
	}
	return successResponse(c, fees)
}

func (h *AdminHandler) CreateTuitionFee(c echo.Context) error {
	var req models.TuitionFeeUpsertRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.TotalDue <= 0 {
		return errorResponse(c, http.StatusBadRequest, "Total due must be positive")
	}
	if _, err := h.students.FindByID(req.StudentID); err != nil {
		return errorResponse(c, http.StatusNotFound, "Student not found")
	}
	fee := &models.TuitionFee{
		StudentID: req.StudentID,
		Semester:  req.Semester,
		Year:      req.Year,
		TotalDue:  req.TotalDue,
		Status:    models.TuitionUnpaid,
	}
	if err := h.fees.Create(fee); err != nil {
		h.logger.Error("create tuition fee", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not create tuition fee")
	}
	return createdResponse(c, fee)
}

func (h *AdminHandler) UpdateTuitionFee(c echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return errorResponse(c, http.StatusBadRequest, "Invalid tuition fee id")
	}
	var req models.TuitionFeeUpsertRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.TotalDue <= 0 {
		return errorResponse(c, http.StatusBadRequest, "Total due must be positive")
	}
	if _, err := h.fees.FindByID(c.Request().Context(), id); err != nil {
		return errorResponse(c, http.StatusNotFound, "Tuition fee not found")
	}
	if err := h.fees.Update(id, map[string]interface{}{
		"HocKy":    req.Semester,
		"NamHoc":   req.Year,
		"TongTien": req.TotalDue,
	}); err != nil {
		h.logger.Error("update tuition fee", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not update tuition fee")
	}
	return successResponse(c, nil)
}

func (h *AdminHandler) DeleteTuitionFee(c echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return errorResponse(c, http.StatusBadRequest, "Invalid tuition fee id")
	}
	if _, err := h.fees.FindByID(c.Request().Context(), id); err != nil {
		return errorResponse(c, http.StatusNotFound, "Tuition fee not found")
	}
	if err := h.fees.Delete(id); err != nil {
		h.logger.Error("delete tuition fee", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not delete tuition fee")
	}
	return successResponse(c, nil)
}
