package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"studentportal/internal/export"
	"studentportal/internal/repository"
)

type ExportHandler struct {
	students      *repository.StudentRepository
	subjects      *repository.SubjectRepository
	registrations *repository.RegistrationRepository
	fees          *repository.TuitionFeeRepository
	logger        *zap.Logger
}

func NewExportHandler(students *repository.StudentRepository, subjects *repository.SubjectRepository, registrations *repository.RegistrationRepository, fees *repository.TuitionFeeRepository, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{students: students, subjects: subjects, registrations: registrations, fees: fees, logger: logger}
}

func (h *ExportHandler) streamWorkbook(c echo.Context, f *excelize.File, prefix string) error {
	filename := fmt.Sprintf("%s_%s.xlsx", prefix, time.Now().Format("20060102_150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)
	return f.Write(c.Response())
}

func (h *ExportHandler) Students(c echo.Context) error {
	students, _, err := h.students.FindAll(0, 0, "")
	if err != nil {
		h.logger.Error("export students", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not export students")
	}
	f, err := export.Students(students)
	if err != nil {
		h.logger.Error("export students", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not export students")
	}
	return h.streamWorkbook(c, f, "students")
}

func (h *ExportHandler) Subjects(c echo.Context) error {
	subjects, err := h.subjects.FindAll()
	if err != nil {
		h.logger.Error("export subjects", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not export subjects")
	}
	f, err := export.Subjects(subjects)
	if err != nil {
		h.logger.Error("export subjects", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not export subjects")
	}
	return h.streamWorkbook(c, f, "subjects")
}

// Registrations exports the enrollment list joined with students and
// subjects.
func (h *ExportHandler) Registrations(c echo.Context) error {
	details, err := h.registrations.FindAllDetailed()
	if err != nil {
		h.logger.Error("export registrations", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not export registrations")
	}

	rows := make([]export.RegistrationRow, 0, len(details))
	for _, d := range details {
		rows = append(rows, export.RegistrationRow{
			StudentCode: d.StudentCode,
			StudentName: d.StudentName,
			SubjectCode: d.SubjectCode,
			SubjectName: d.SubjectName,
			Credits:     d.Credits,
		})
	}

	f, err := export.Registrations(rows)
	if err != nil {
		h.logger.Error("export registrations", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not export registrations")
	}
	return h.streamWorkbook(c, f, "registrations")
}

// Tuition exports the tuition summary joined with student names.
func (h *ExportHandler) Tuition(c echo.Context) error {
	fees, err := h.fees.FindAll()
	if err != nil {
		h.logger.Error("export tuition", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not export tuition fees")
	}

	rows := make([]export.TuitionRow, 0, len(fees))
	for _, fee := range fees {
		row := export.TuitionRow{Fee: fee}
		if student, err := h.students.FindByID(fee.StudentID); err == nil {
			row.StudentCode = student.Code
			row.StudentName = student.FullName
		}
		rows = append(rows, row)
	}

	f, err := export.Tuition(rows)
	if err != nil {
		h.logger.Error("export tuition", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not export tuition fees")
	}
	return h.streamWorkbook(c, f, "tuition_fees")
}
