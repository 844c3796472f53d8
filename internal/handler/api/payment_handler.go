package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"studentportal/internal/models"
	"studentportal/internal/payment"
	"studentportal/internal/repository"
)

type PaymentHandler struct {
	client   *payment.Client
	students *repository.StudentRepository
	fees     *repository.TuitionFeeRepository
	logger   *zap.Logger
}

func NewPaymentHandler(client *payment.Client, students *repository.StudentRepository, fees *repository.TuitionFeeRepository, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{client: client, students: students, fees: fees, logger: logger}
}

// CreatePaymentURL validates the request, checks the fee belongs to the
// student, and returns a signed gateway redirect URL.
func (h *PaymentHandler) CreatePaymentURL(c echo.Context) error {
	var req models.PaymentTuitionRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Amount <= 0 {
		return errorResponse(c, http.StatusBadRequest, "Amount must be positive")
	}

	student, err := h.students.FindByID(req.StudentID)
	if err != nil {
		return errorResponse(c, http.StatusNotFound, "Student not found")
	}
	fee, err := h.fees.FindForStudent(c.Request().Context(), req.TuitionFeeID, req.StudentID)
	if err != nil {
		return errorResponse(c, http.StatusNotFound, "Tuition fee not found")
	}
	if fee.Outstanding() <= 0 {
		return errorResponse(c, http.StatusBadRequest, "Tuition fee already paid")
	}

	description := fmt.Sprintf("Thanh toan hoc phi %s %s - MSSV: %s",
		fee.Semester, fee.Year, student.Code)

	url, err := h.client.BuildPaymentURL(c.Request().Context(), payment.PaymentRequest{
		FeeID:       fee.ID,
		Amount:      req.Amount,
		Description: description,
		IPAddress:   c.RealIP(),
	})
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidAmount):
			return errorResponse(c, http.StatusBadRequest, "Amount must be positive")
		case errors.Is(err, payment.ErrOverpaymentRejected):
			return errorResponse(c, http.StatusBadRequest, "Amount exceeds outstanding balance")
		case errors.Is(err, payment.ErrMissingField):
			return errorResponse(c, http.StatusBadRequest, "Missing payment details")
		case errors.Is(err, payment.ErrFeeNotFound):
			return errorResponse(c, http.StatusNotFound, "Tuition fee not found")
		default:
			h.logger.Error("build payment url", zap.Error(err))
			return errorResponse(c, http.StatusInternalServerError, "Could not create payment URL")
		}
	}

	return successResponse(c, map[string]string{"payment_url": url})
}
