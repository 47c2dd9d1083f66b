package payroll

import (
	"context"
	"encoding/json"
	"regexp"
	"time"

	"cafedesk/internal/attendance"
	"cafedesk/internal/discipline"
	"cafedesk/internal/employee"

	payrollerrors "cafedesk/internal/payroll/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// The month is normalized to 30 payable days regardless of calendar length.
const payableDaysPerMonth = 30

const sheetCacheKeyPrefix = "payroll:sheet:"

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// EmployeeSource is the slice of the employee repository payroll reads from.
type EmployeeSource interface {
	FindAll(ctx context.Context, status string) ([]employee.Employee, error)
	FindByID(ctx context.Context, id string) (*employee.Employee, error)
}

type AttendanceSource interface {
	CountByMonth(ctx context.Context, employeeID, month, attType string) (int64, error)
}

type DisciplineSource interface {
	SumByMonth(ctx context.Context, employeeID, month string, types []string) (int64, error)
}

type Service interface {
	Calculate(ctx context.Context, employeeID, month string) (PayslipResponse, error)
	MonthlySheet(ctx context.Context, month string) (MonthlySheetResponse, error)
}

type service struct {
	employees   EmployeeSource
	attendances AttendanceSource
	disciplines DisciplineSource
	rdb         *redis.Client
	logger      *zap.Logger
}

func NewService(
	employees EmployeeSource,
	attendances AttendanceSource,
	disciplines DisciplineSource,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		employees:   employees,
		attendances: attendances,
		disciplines: disciplines,
		rdb:         rdb,
		logger:      l,
	}
}

func (s *service) Calculate(ctx context.Context, employeeID, month string) (PayslipResponse, error) {
	if !monthPattern.MatchString(month) {
		return PayslipResponse{}, payrollerrors.ErrInvalidMonth
	}

	empl, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		s.logger.Error("calculate payroll fetch employee failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return PayslipResponse{}, mapRepositoryError(err)
	}

	return s.buildPayslip(ctx, *empl, month), nil
}

func (s *service) MonthlySheet(ctx context.Context, month string) (MonthlySheetResponse, error) {
	if !monthPattern.MatchString(month) {
		return MonthlySheetResponse{}, payrollerrors.ErrInvalidMonth
	}

	cacheKey := sheetCacheKeyPrefix + month
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp MonthlySheetResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	empls, err := s.employees.FindAll(ctx, employee.StatusActive)
	if err != nil {
		s.logger.Error("monthly sheet fetch employees failed", zap.String("month", month), zap.Error(err))
		return MonthlySheetResponse{}, mapRepositoryError(err)
	}

	resp := MonthlySheetResponse{
		Month:    month,
		Payslips: make([]PayslipResponse, 0, len(empls)),
	}
	for _, empl := range empls {
		slip := s.buildPayslip(ctx, empl, month)
		resp.Payslips = append(resp.Payslips, slip)
		resp.Total += slip.ActualSalary
	}

	if s.rdb != nil {
		if jsonData, err := json.Marshal(resp); err == nil {
			s.rdb.Set(ctx, cacheKey, jsonData, 10*time.Minute)
		}
	}

	return resp, nil
}

// buildPayslip computes one employee's month. Reads fail open: when
// attendance or discipline data cannot be loaded the payslip assumes a full
// normal month for that part and is flagged estimated, so a storage hiccup
// never blocks payday.
func (s *service) buildPayslip(ctx context.Context, empl employee.Employee, month string) PayslipResponse {
	slip := PayslipResponse{
		EmployeeID:   empl.ID.String(),
		EmployeeCode: empl.Code,
		EmployeeName: empl.Name,
		Month:        month,
		BaseSalary:   empl.BaseSalary,
		DailySalary:  empl.BaseSalary / payableDaysPerMonth,
	}

	offDays, offErr := s.attendances.CountByMonth(ctx, slip.EmployeeID, month, attendance.TypeOff)
	otDays, otErr := s.attendances.CountByMonth(ctx, slip.EmployeeID, month, attendance.TypeOvertime)
	if offErr != nil || otErr != nil {
		s.logger.Warn("payroll attendance read failed, paying full base salary",
			zap.String("employee_id", slip.EmployeeID),
			zap.String("month", month),
			zap.NamedError("off_error", offErr),
			zap.NamedError("overtime_error", otErr),
		)
		offDays, otDays = 0, 0
		slip.Estimated = true
	}

	bonus, bonusErr := s.disciplines.SumByMonth(ctx, slip.EmployeeID, month,
		[]string{discipline.TypeReward, discipline.TypeBonus})
	penalty, penaltyErr := s.disciplines.SumByMonth(ctx, slip.EmployeeID, month,
		[]string{discipline.TypePenalty, discipline.TypeFine})
	if bonusErr != nil || penaltyErr != nil {
		s.logger.Warn("payroll discipline read failed, skipping adjustments",
			zap.String("employee_id", slip.EmployeeID),
			zap.String("month", month),
			zap.NamedError("bonus_error", bonusErr),
			zap.NamedError("penalty_error", penaltyErr),
		)
		bonus, penalty = 0, 0
		slip.Estimated = true
	}

	slip.OffDays = offDays
	slip.OvertimeDays = otDays
	slip.NormalDays = payableDaysPerMonth - offDays
	slip.Bonus = bonus
	slip.Penalty = penalty

	actual := slip.NormalDays*slip.DailySalary +
		otDays*slip.DailySalary/2 +
		bonus - penalty
	if actual < 0 {
		actual = 0
	}
	slip.ActualSalary = actual

	return slip
}
