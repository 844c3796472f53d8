package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"studentportal/internal/config"
	"studentportal/internal/handler"
	"studentportal/internal/handler/api"
	"studentportal/internal/middleware"
)

type Handlers struct {
	Student  *api.StudentHandler
	Admin    *api.AdminHandler
	Payment  *api.PaymentHandler
	Export   *api.ExportHandler
	Callback *handler.PaymentCallbackHandler
}

// Setup wires all routes. Gateway callbacks stay unauthenticated: the
// signature check inside the payment package is their access control.
func Setup(cfg *config.Config, h Handlers, deduper middleware.NotificationDeduper, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(middleware.CORS())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Student portal.
	studentAuth := middleware.JWTAuth(cfg.JWT.Secret, middleware.RoleStudent)
	e.POST("/api/student/login", h.Student.Login)
	student := e.Group("/api/student", studentAuth)
	student.GET("/:id", h.Student.Profile)
	student.GET("/subjects", h.Student.Subjects)
	student.POST("/register-subject", h.Student.RegisterSubject)
	student.GET("/:id/registered-subjects", h.Student.RegisteredSubjects)
	student.POST("/cancel-registration", h.Student.CancelRegistration)
	student.GET("/:id/schedule", h.Student.Schedule)
	student.GET("/:id/tuition-fees", h.Student.TuitionFees)
	student.POST("/payment-tuition", h.Payment.CreatePaymentURL)

	// Admin portal.
	adminAuth := middleware.JWTAuth(cfg.JWT.Secret, middleware.RoleAdmin)
	e.POST("/api/admin/login", h.Admin.Login)
	admin := e.Group("/api/admin", adminAuth)
	admin.GET("/statistics", h.Admin.Statistics)

	admin.GET("/charts/students-by-faculty", h.Admin.ChartStudentsByFaculty)
	admin.GET("/charts/students-by-class", h.Admin.ChartStudentsByClass)
	admin.GET("/charts/top-subjects", h.Admin.ChartTopSubjects)
	admin.GET("/charts/subjects-by-credits", h.Admin.ChartSubjectsByCredits)
	admin.GET("/charts/tuition-status", h.Admin.ChartTuitionStatus)
	admin.GET("/charts/tuition-by-semester", h.Admin.ChartTuitionBySemester)

	admin.GET("/students", h.Admin.ListStudents)
	admin.POST("/students", h.Admin.CreateStudent)
	admin.PUT("/students/:id", h.Admin.UpdateStudent)
	admin.DELETE("/students/:id", h.Admin.DeleteStudent)

	admin.GET("/subjects", h.Admin.ListSubjects)
	admin.POST("/subjects", h.Admin.CreateSubject)
	admin.PUT("/subjects/:id", h.Admin.UpdateSubject)
	admin.DELETE("/subjects/:id", h.Admin.DeleteSubject)

	admin.GET("/registrations", h.Admin.ListRegistrations)
	admin.DELETE("/registrations/:id", h.Admin.DeleteRegistration)

	admin.GET("/schedules", h.Admin.ListSchedules)
	admin.POST("/schedules", h.Admin.CreateSchedule)
	admin.PUT("/schedules/:id", h.Admin.UpdateSchedule)
	admin.DELETE("/schedules/:id", h.Admin.DeleteSchedule)

	admin.GET("/tuition-fees", h.Admin.ListTuitionFees)
	admin.POST("/tuition-fees", h.Admin.CreateTuitionFee)
	admin.PUT("/tuition-fees/:id", h.Admin.UpdateTuitionFee)
	admin.DELETE("/tuition-fees/:id", h.Admin.DeleteTuitionFee)

	admin.GET("/export/students", h.Export.Students)
	admin.GET("/export/subjects", h.Export.Subjects)
	admin.GET("/export/registrations", h.Export.Registrations)
	admin.GET("/export/tuition-fees", h.Export.Tuition)

	// Gateway callbacks.
	e.GET("/payment/vnpay/ipn", h.Callback.IPN, middleware.DedupNotifications(deduper, logger))
	e.GET("/payment/vnpay/return", h.Callback.Return)

	return e
}
