package export

import (
	"bytes"
	"fmt"

	"cafedesk/internal/operation"
	"cafedesk/internal/payroll"

	"github.com/xuri/excelize/v2"
)

// BuildPayrollWorkbook renders a month's payroll sheet as an XLSX file.
func BuildPayrollWorkbook(sheet payroll.MonthlySheetResponse) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Payroll " + sheet.Month
	f.SetSheetName(f.GetSheetName(0), sheetName)

	headers := []string{
		"Mã NV", "Họ tên", "Lương cơ bản", "Lương ngày",
		"Ngày công", "Ngày nghỉ", "Ngày tăng ca",
		"Thưởng", "Phạt", "Thực lãnh", "Ước tính",
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}

	for row, slip := range sheet.Payslips {
		estimated := ""
		if slip.Estimated {
			estimated = "x"
		}
		values := []any{
			slip.EmployeeCode, slip.EmployeeName, slip.BaseSalary, slip.DailySalary,
			slip.NormalDays, slip.OffDays, slip.OvertimeDays,
			slip.Bonus, slip.Penalty, slip.ActualSalary, estimated,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}

	totalRow := len(sheet.Payslips) + 2
	if err := f.SetCellValue(sheetName, fmt.Sprintf("A%d", totalRow), "TỔNG"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(sheetName, fmt.Sprintf("J%d", totalRow), sheet.Total); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}

// BuildOperationsWorkbook renders a 20th-to-19th accounting period of vendor
// expenses as an XLSX file.
func BuildOperationsWorkbook(summary operation.PeriodSummaryResponse) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Operations " + summary.Period
	f.SetSheetName(f.GetSheetName(0), sheetName)

	if err := f.SetCellValue(sheetName, "A1", fmt.Sprintf("Kỳ %s (%s đến %s)", summary.Period, summary.From, summary.To)); err != nil {
		return nil, err
	}

	headers := []string{"Ngày", "Loại", "Tên", "Số tiền"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}

	for row, op := range summary.Operations {
		values := []any{op.Date, op.Type, op.Name, op.Amount}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+3)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}

	totalRow := len(summary.Operations) + 3
	rows := [][2]any{
		{"Nguyên liệu", summary.TotalMaterial},
		{"Dịch vụ", summary.TotalService},
		{"TỔNG", summary.Total},
	}
	for i, r := range rows {
		if err := f.SetCellValue(sheetName, fmt.Sprintf("C%d", totalRow+i), r[0]); err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, fmt.Sprintf("D%d", totalRow+i), r[1]); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}
