package export

import (
	"bytes"
	"context"

	"cafedesk/internal/operation"
	"cafedesk/internal/payroll"
	"cafedesk/internal/report"

	"go.uber.org/zap"
)

type Service interface {
	ReportShareText(ctx context.Context, date string) (string, error)
	PayrollWorkbook(ctx context.Context, month string) (*bytes.Buffer, string, error)
	OperationsWorkbook(ctx context.Context, period string) (*bytes.Buffer, string, error)
}

type service struct {
	reports    report.Service
	payrolls   payroll.Service
	operations operation.Service
	logger     *zap.Logger
}

func NewService(
	reports report.Service,
	payrolls payroll.Service,
	operations operation.Service,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("export.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("export.service")
	}
	return &service{reports: reports, payrolls: payrolls, operations: operations, logger: l}
}

func (s *service) ReportShareText(ctx context.Context, date string) (string, error) {
	rep, err := s.reports.GetOrCreate(ctx, date)
	if err != nil {
		return "", err
	}

	return BuildReportShareText(rep), nil
}

func (s *service) PayrollWorkbook(ctx context.Context, month string) (*bytes.Buffer, string, error) {
	sheet, err := s.payrolls.MonthlySheet(ctx, month)
	if err != nil {
		return nil, "", err
	}

	buf, err := BuildPayrollWorkbook(sheet)
	if err != nil {
		s.logger.Error("build payroll workbook failed", zap.String("month", month), zap.Error(err))
		return nil, "", err
	}

	return buf, "payroll-" + month + ".xlsx", nil
}

func (s *service) OperationsWorkbook(ctx context.Context, period string) (*bytes.Buffer, string, error) {
	summary, err := s.operations.PeriodSummary(ctx, period)
	if err != nil {
		return nil, "", err
	}

	buf, err := BuildOperationsWorkbook(summary)
	if err != nil {
		s.logger.Error("build operations workbook failed", zap.String("period", period), zap.Error(err))
		return nil, "", err
	}

	return buf, "operations-" + period + ".xlsx", nil
}
