package payroll

import (
	"context"
	"errors"
	"testing"

	"cafedesk/internal/attendance"
	"cafedesk/internal/discipline"
	"cafedesk/internal/employee"
	payrollerrors "cafedesk/internal/payroll/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeEmployees struct {
	findAllFn  func(ctx context.Context, status string) ([]employee.Employee, error)
	findByIDFn func(ctx context.Context, id string) (*employee.Employee, error)
}

func (f *fakeEmployees) FindAll(ctx context.Context, status string) ([]employee.Employee, error) {
	return f.findAllFn(ctx, status)
}
func (f *fakeEmployees) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	return f.findByIDFn(ctx, id)
}

type fakeAttendances struct {
	countFn func(ctx context.Context, employeeID, month, attType string) (int64, error)
}

func (f *fakeAttendances) CountByMonth(ctx context.Context, employeeID, month, attType string) (int64, error) {
	return f.countFn(ctx, employeeID, month, attType)
}

type fakeDisciplines struct {
	sumFn func(ctx context.Context, employeeID, month string, types []string) (int64, error)
}

func (f *fakeDisciplines) SumByMonth(ctx context.Context, employeeID, month string, types []string) (int64, error) {
	return f.sumFn(ctx, employeeID, month, types)
}

func testEmployee(baseSalary int64) employee.Employee {
	return employee.Employee{
		ID:         uuid.New(),
		Code:       "EMP-000001",
		Name:       "Nguyen Van A",
		BaseSalary: baseSalary,
		Status:     employee.StatusActive,
	}
}

func TestService_Calculate(t *testing.T) {
	ctx := context.Background()
	empl := testEmployee(9_000_000)

	empls := &fakeEmployees{
		findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
			return &empl, nil
		},
	}
	atts := &fakeAttendances{
		countFn: func(ctx context.Context, employeeID, month, attType string) (int64, error) {
			switch attType {
			case attendance.TypeOff:
				return 3, nil
			case attendance.TypeOvertime:
				return 2, nil
			}
			return 0, nil
		},
	}
	discs := &fakeDisciplines{
		sumFn: func(ctx context.Context, employeeID, month string, types []string) (int64, error) {
			if types[0] == discipline.TypeReward {
				return 200_000, nil
			}
			return 50_000, nil
		},
	}

	svc := NewService(empls, atts, discs, nil)

	slip, err := svc.Calculate(ctx, empl.ID.String(), "2025-03")
	assert.NoError(t, err)
	assert.Equal(t, int64(300_000), slip.DailySalary)
	assert.Equal(t, int64(27), slip.NormalDays)
	assert.Equal(t, int64(3), slip.OffDays)
	assert.Equal(t, int64(2), slip.OvertimeDays)
	assert.Equal(t, int64(8_550_000), slip.ActualSalary)
	assert.False(t, slip.Estimated)
}

func TestService_Calculate_InvalidMonth(t *testing.T) {
	svc := NewService(&fakeEmployees{}, &fakeAttendances{}, &fakeDisciplines{}, nil)

	_, err := svc.Calculate(context.Background(), uuid.New().String(), "2025-3")
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidMonth)

	_, err = svc.Calculate(context.Background(), uuid.New().String(), "2025-13")
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidMonth)
}

func TestService_Calculate_AttendanceUnavailable(t *testing.T) {
	ctx := context.Background()
	empl := testEmployee(9_000_000)

	empls := &fakeEmployees{
		findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
			return &empl, nil
		},
	}
	atts := &fakeAttendances{
		countFn: func(ctx context.Context, employeeID, month, attType string) (int64, error) {
			return 0, errors.New("storage unavailable")
		},
	}
	discs := &fakeDisciplines{
		sumFn: func(ctx context.Context, employeeID, month string, types []string) (int64, error) {
			if types[0] == discipline.TypeReward {
				return 200_000, nil
			}
			return 50_000, nil
		},
	}

	svc := NewService(empls, atts, discs, nil)

	slip, err := svc.Calculate(ctx, empl.ID.String(), "2025-03")
	assert.NoError(t, err)
	assert.True(t, slip.Estimated)
	assert.Equal(t, int64(0), slip.OffDays)
	assert.Equal(t, int64(0), slip.OvertimeDays)
	// Full base month plus the adjustments that could still be read.
	assert.Equal(t, int64(9_150_000), slip.ActualSalary)
}

func TestService_Calculate_DisciplineUnavailable(t *testing.T) {
	ctx := context.Background()
	empl := testEmployee(9_000_000)

	empls := &fakeEmployees{
		findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
			return &empl, nil
		},
	}
	atts := &fakeAttendances{
		countFn: func(ctx context.Context, employeeID, month, attType string) (int64, error) {
			return 0, nil
		},
	}
	discs := &fakeDisciplines{
		sumFn: func(ctx context.Context, employeeID, month string, types []string) (int64, error) {
			return 0, errors.New("storage unavailable")
		},
	}

	svc := NewService(empls, atts, discs, nil)

	slip, err := svc.Calculate(ctx, empl.ID.String(), "2025-03")
	assert.NoError(t, err)
	assert.True(t, slip.Estimated)
	assert.Equal(t, int64(0), slip.Bonus)
	assert.Equal(t, int64(0), slip.Penalty)
	assert.Equal(t, int64(9_000_000), slip.ActualSalary)
}

func TestService_Calculate_NeverNegative(t *testing.T) {
	ctx := context.Background()
	empl := testEmployee(900_000)

	empls := &fakeEmployees{
		findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
			return &empl, nil
		},
	}
	atts := &fakeAttendances{
		countFn: func(ctx context.Context, employeeID, month, attType string) (int64, error) {
			return 0, nil
		},
	}
	discs := &fakeDisciplines{
		sumFn: func(ctx context.Context, employeeID, month string, types []string) (int64, error) {
			if types[0] == discipline.TypePenalty {
				return 5_000_000, nil
			}
			return 0, nil
		},
	}

	svc := NewService(empls, atts, discs, nil)

	slip, err := svc.Calculate(ctx, empl.ID.String(), "2025-03")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), slip.ActualSalary)
}

func TestService_MonthlySheet(t *testing.T) {
	ctx := context.Background()
	first := testEmployee(9_000_000)
	second := testEmployee(6_000_000)
	second.Code = "EMP-000002"

	empls := &fakeEmployees{
		findAllFn: func(ctx context.Context, status string) ([]employee.Employee, error) {
			assert.Equal(t, employee.StatusActive, status)
			return []employee.Employee{first, second}, nil
		},
	}
	atts := &fakeAttendances{
		countFn: func(ctx context.Context, employeeID, month, attType string) (int64, error) {
			return 0, nil
		},
	}
	discs := &fakeDisciplines{
		sumFn: func(ctx context.Context, employeeID, month string, types []string) (int64, error) {
			return 0, nil
		},
	}

	svc := NewService(empls, atts, discs, nil)

	sheet, err := svc.MonthlySheet(ctx, "2025-03")
	assert.NoError(t, err)
	assert.Len(t, sheet.Payslips, 2)
	assert.Equal(t, int64(15_000_000), sheet.Total)
}
