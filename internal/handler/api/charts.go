package api

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"studentportal/internal/models"
)

// statusCount is one slice of the paid/partial/unpaid tuition pie.
type statusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// semesterTotal is one bar of the tuition-by-semester chart.
type semesterTotal struct {
	Semester  string `json:"semester"`
	Year      string `json:"year"`
	TotalDue  int64  `json:"total_due"`
	TotalPaid int64  `json:"total_paid"`
	Count     int64  `json:"count"`
}

// bucketTuitionStatus folds fees into paid/partial/unpaid slices using the
// derived status, so stale stored statuses never skew the chart.
func bucketTuitionStatus(fees []models.TuitionFee) []statusCount {
	buckets := map[string]int64{}
	for i := range fees {
		buckets[fees[i].DeriveStatus()]++
	}
	return []statusCount{
		{Status: models.TuitionPaid, Count: buckets[models.TuitionPaid]},
		{Status: models.TuitionPartial, Count: buckets[models.TuitionPartial]},
		{Status: models.TuitionUnpaid, Count: buckets[models.TuitionUnpaid]},
	}
}

// foldTuitionBySemester aggregates due and paid amounts per semester/year,
// ordered by year then semester. Fees missing either label are skipped.
func foldTuitionBySemester(fees []models.TuitionFee) []semesterTotal {
	type key struct{ semester, year string }
	totals := map[key]*semesterTotal{}
	for i := range fees {
		fee := &fees[i]
		if fee.Semester == "" || fee.Year == "" {
			continue
		}
		k := key{fee.Semester, fee.Year}
		row, ok := totals[k]
		if !ok {
			row = &semesterTotal{Semester: fee.Semester, Year: fee.Year}
			totals[k] = row
		}
		row.TotalDue += fee.TotalDue
		row.TotalPaid += fee.AmountPaid
		row.Count++
	}

	rows := make([]semesterTotal, 0, len(totals))
	for _, row := range totals {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		return rows[i].Semester < rows[j].Semester
	})
	return rows
}

func chartLimit(c echo.Context) int {
	limit, _ := strconv.Atoi(c.QueryParam("top"))
	return limit
}

func (h *AdminHandler) ChartStudentsByFaculty(c echo.Context) error {
	rows, err := h.students.CountByFaculty()
	if err != nil {
		h.logger.Error("students by faculty chart", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not load chart data")
	}
	return successResponse(c, rows)
}

func (h *AdminHandler) ChartStudentsByClass(c echo.Context) error {
	rows, err := h.students.CountByClass(chartLimit(c))
	if err != nil {
		h.logger.Error("students by class chart", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not load chart data")
	}
	return successResponse(c, rows)
}

func (h *AdminHandler) ChartTopSubjects(c echo.Context) error {
	rows, err := h.registrations.TopSubjects(chartLimit(c))
	if err != nil {
		h.logger.Error("top subjects chart", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not load chart data")
	}
	return successResponse(c, rows)
}

func (h *AdminHandler) ChartSubjectsByCredits(c echo.Context) error {
	rows, err := h.subjects.CountByCredits()
	if err != nil {
		h.logger.Error("subjects by credits chart", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not load chart data")
	}
	return successResponse(c, rows)
}

func (h *AdminHandler) ChartTuitionStatus(c echo.Context) error {
	fees, err := h.fees.FindAll()
	if err != nil {
		h.logger.Error("tuition status chart", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not load chart data")
	}
	return successResponse(c, bucketTuitionStatus(fees))
}

func (h *AdminHandler) ChartTuitionBySemester(c echo.Context) error {
	fees, err := h.fees.FindAll()
	if err != nil {
		h.logger.Error("tuition by semester chart", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "Could not load chart data")
	}
	return successResponse(c, foldTuitionBySemester(fees))
}
