// Package export builds xlsx workbooks for the admin pages.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"studentportal/internal/models"
)

const sheetName = "Sheet1"

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
}

func writeHeader(f *excelize.File, headers []string) error {
	style, err := headerStyle(f)
	if err != nil {
		return err
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, row int, values []interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return err
		}
	}
	return nil
}

// Students builds a workbook listing every student.
func Students(students []models.Student) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := writeHeader(f, []string{"STT", "MSSV", "Họ tên", "Lớp", "Khoa", "Email"}); err != nil {
		return nil, fmt.Errorf("export students: %w", err)
	}
	for i, s := range students {
		row := []interface{}{i + 1, s.Code, s.FullName, s.Class, s.Faculty, s.Email}
		if err := writeRow(f, i+2, row); err != nil {
			return nil, fmt.Errorf("export students: %w", err)
		}
	}
	return f, nil
}

// Subjects builds a workbook listing the subject catalogue.
func Subjects(subjects []models.Subject) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := writeHeader(f, []string{"STT", "Mã môn", "Tên môn", "Số tín chỉ"}); err != nil {
		return nil, fmt.Errorf("export subjects: %w", err)
	}
	for i, s := range subjects {
		row := []interface{}{i + 1, s.Code, s.Name, s.Credits}
		if err := writeRow(f, i+2, row); err != nil {
			return nil, fmt.Errorf("export subjects: %w", err)
		}
	}
	return f, nil
}

// RegistrationRow is one line of the enrollment sheet.
type RegistrationRow struct {
	StudentCode string
	StudentName string
	SubjectCode string
	SubjectName string
	Credits     int
}

// Registrations builds a workbook listing every enrollment with both sides
// of the join.
func Registrations(rows []RegistrationRow) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := writeHeader(f, []string{"STT", "MSSV", "Họ tên", "Mã môn", "Tên môn", "Số tín chỉ"}); err != nil {
		return nil, fmt.Errorf("export registrations: %w", err)
	}
	for i, r := range rows {
		row := []interface{}{i + 1, r.StudentCode, r.StudentName, r.SubjectCode, r.SubjectName, r.Credits}
		if err := writeRow(f, i+2, row); err != nil {
			return nil, fmt.Errorf("export registrations: %w", err)
		}
	}
	return f, nil
}

// TuitionRow pairs a fee with its owner for the tuition summary sheet.
type TuitionRow struct {
	StudentCode string
	StudentName string
	Fee         models.TuitionFee
}

// Tuition builds the tuition summary workbook. Statuses are recomputed from
// the amounts so the sheet never shows a stale value.
func Tuition(rows []TuitionRow) (*excelize.File, error) {
	f := excelize.NewFile()
	headers := []string{"STT", "MSSV", "Họ tên", "Học kỳ", "Năm học", "Tổng tiền", "Đã đóng", "Còn lại", "Trạng thái"}
	if err := writeHeader(f, headers); err != nil {
		return nil, fmt.Errorf("export tuition: %w", err)
	}
	for i, r := range rows {
		row := []interface{}{
			i + 1, r.StudentCode, r.StudentName,
			r.Fee.Semester, r.Fee.Year,
			r.Fee.TotalDue, r.Fee.AmountPaid, r.Fee.Outstanding(),
			r.Fee.DeriveStatus(),
		}
		if err := writeRow(f, i+2, row); err != nil {
			return nil, fmt.Errorf("export tuition: %w", err)
		}
	}
	return f, nil
}
