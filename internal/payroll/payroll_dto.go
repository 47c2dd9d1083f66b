package payroll

type PayslipResponse struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeCode string `json:"employee_code"`
	EmployeeName string `json:"employee_name"`
	Month        string `json:"month"`
	BaseSalary   int64  `json:"base_salary"`
	DailySalary  int64  `json:"daily_salary"`
	NormalDays   int64  `json:"normal_days"`
	OffDays      int64  `json:"off_days"`
	OvertimeDays int64  `json:"overtime_days"`
	Bonus        int64  `json:"bonus"`
	Penalty      int64  `json:"penalty"`
	ActualSalary int64  `json:"actual_salary"`
	// Estimated marks a payslip computed without attendance or discipline
	// data because the read failed; the employee is paid in full rather
	// than blocked.
	Estimated bool `json:"estimated"`
}

type MonthlySheetResponse struct {
	Month    string            `json:"month"`
	Payslips []PayslipResponse `json:"payslips"`
	Total    int64             `json:"total"`
}
