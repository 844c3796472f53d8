package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"studentportal/internal/config"
	"studentportal/internal/middleware"
	"studentportal/internal/models"
	"studentportal/internal/repository"
)

// Registration is capped per student; the cap counts credits, not subjects.
const maxRegisteredCredits = 25

type StudentHandler struct {
	cfg           *config.Config
	students      *repository.StudentRepository
	subjects      *repository.SubjectRepository
	registrations *repository.RegistrationRepository
	schedules     *repository.ScheduleRepository
	fees          *repository.TuitionFeeRepository
	logger        *zap.Logger
}

func NewStudentHandler(
	cfg *config.Config,
	students *repository.StudentRepository,
	subjects *repository.SubjectRepository,
	registrations *repository.RegistrationRepository,
	schedules *repository.ScheduleRepository,
	fees *repository.TuitionFeeRepository,
	logger *zap.Logger,
) *StudentHandler {
	return &StudentHandler{
		cfg:           cfg,
		students:      students,
		subjects:      subjects,
		registrations: registrations,
		schedules:     schedules,
		fees:          fees,
		logger:        logger,
	}
}

// Login checks student number and password, returning a token plus profile.
func (h *StudentHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Code == "" || req.Password == "" {
		return errorResponse(c, http.StatusBadRequest, "MSSV and password are required")
	}

	student, err := h.students.FindByCredentials(req.Code, req.Password)
	if err != nil {
		return errorResponse(c, http.StatusUnauthorized, "Incorrect MSSV or password")
	}

	token, err := middleware.IssueToken(h.cfg.JWT.Secret, student.Code, middleware.RoleStudent, h.cfg.JWT.Expiry)
	if err != nil {
		h.logger.Error("issue student token", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not create session")
	}

	return successResponse(c, map[string]interface{}{
		"token":   token,
		"student": student,
	})
}

func (h *StudentHandler) Profile(c echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return errorResponse(c, http.StatusBadRequest, "Invalid student id")
	}
	student, err := h.students.FindByID(id)
	if err != nil {
		return errorResponse(c, http.StatusNotFound, "Student not found")
	}
	return successResponse(c, student)
}

// Subjects lists the full catalogue open for registration.
func (h *StudentHandler) Subjects(c echo.Context) error {
	subjects, err := h.subjects.FindAll()
	if err != nil {
		h.logger.Error("list subjects", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not load subjects")
	}
	return successResponse(c, subjects)
}

// RegisterSubject enrolls the student in a subject. Duplicate enrollments
// are rejected, and the total registered credits may not exceed the cap.
func (h *StudentHandler) RegisterSubject(c echo.Context) error {
	var req models.RegisterSubjectRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "Invalid request body")
	}

	if _, err := h.students.FindByID(req.StudentID); err != nil {
		return errorResponse(c, http.StatusNotFound, "Student not found")
	}
	subject, err := h.subjects.FindByID(req.SubjectID)
	if err != nil {
		return errorResponse(c, http.StatusNotFound, "Subject not found")
	}

	exists, err := h.registrations.Exists(req.StudentID, req.SubjectID)
	if err != nil {
		h.logger.Error("check registration", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not register subject")
	}
	if exists {
		return errorResponse(c, http.StatusConflict, "Subject already registered")
	}

	credits, err := h.registrations.SumCredits(req.StudentID)
	if err != nil {
		h.logger.Error("sum credits", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not register subject")
	}
	if credits+subject.Credits > maxRegisteredCredits {
		return errorResponse(c, http.StatusBadRequest, "Credit limit exceeded")
	}

	reg := &models.Registration{StudentID: req.StudentID, SubjectID: req.SubjectID}
	if err := h.registrations.Create(reg); err != nil {
		h.logger.Error("create registration", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not register subject")
	}

	h.logger.Info("subject registered",
		zap.Uint("student_id", req.StudentID),
		zap.String("subject", subject.Code))
	return createdResponse(c, reg)
}

func (h *StudentHandler) RegisteredSubjects(c echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return errorResponse(c, http.StatusBadRequest, "Invalid student id")
	}
	list, err := h.registrations.ListByStudent(id)
	if err != nil {
		h.logger.Error("list registrations", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not load registrations")
	}
	return successResponse(c, list)
}

func (h *StudentHandler) CancelRegistration(c echo.Context) error {
	var req models.CancelRegistrationRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "Invalid request body")
	}
	if _, err := h.registrations.FindByID(req.RegistrationID); err != nil {
		return errorResponse(c, http.StatusNotFound, "Registration not found")
	}
	if err := h.registrations.Delete(req.RegistrationID); err != nil {
		h.logger.Error("cancel registration", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not cancel registration")
	}
	return successResponse(c, nil)
}

// Schedule returns the weekly timetable ordered by weekday then period.
func (h *StudentHandler) Schedule(c echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return errorResponse(c, http.StatusBadRequest, "Invalid student id")
	}
	entries, err := h.schedules.ListByStudent(id)
	if err != nil {
		h.logger.Error("list schedule", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not load schedule")
	}
	return successResponse(c, entries)
}

// TuitionFees lists the student's fees with the status recomputed from the
// amounts, so stale rows still present consistently.
func (h *StudentHandler) TuitionFees(c echo.Context) error {
	id, ok := paramUint(c, "id")
	if !ok {
		return errorResponse(c, http.StatusBadRequest, "Invalid student id")
	}
	fees, err := h.fees.ListByStudent(id)
	if err != nil {
		h.logger.Error("list tuition fees", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not load tuition fees")
	}
	for i := range fees {
		fees[i].Status = fees[i].DeriveStatus()
	}
	return successResponse(c, fees)
}
