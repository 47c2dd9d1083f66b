package export

import (
	"strings"
	"testing"

	"cafedesk/internal/report"

	"github.com/stretchr/testify/assert"
)

func TestBuildReportShareText(t *testing.T) {
	rep := report.ReportResponse{
		Date:           "2025-03-05",
		OpeningBalance: 100_000,
		Revenue:        500_000,
		ClosingBalance: 100_000,
		TotalExpenses:  350_000,
		TotalTransfers: 100_000,
		ActualReceived: 50_000,
		Note:           "thiếu 5k tiền lẻ",
		Expenses: []report.LineItemResponse{
			{Name: "nguyên liệu", Amount: 200_000},
			{Name: "điện nước", Amount: 150_000},
		},
		Transfers: []report.LineItemResponse{
			{Name: "chuyển khoản chủ quán", Amount: 100_000},
		},
		Exports: []report.ExportItemResponse{
			{Name: "bánh mì", Quantity: 10, Amount: 80_000},
		},
	}

	text := BuildReportShareText(rep)

	assert.True(t, strings.HasPrefix(text, "BÁO CÁO NGÀY 2025-03-05\n"))
	assert.Contains(t, text, "CHI PHÍ\n")
	assert.Contains(t, text, "- nguyên liệu\t200.000\n")
	assert.Contains(t, text, "Tổng chi:\t350.000\n")
	assert.Contains(t, text, "CHUYỂN KHOẢN\n")
	assert.Contains(t, text, "Tổng chuyển:\t100.000\n")
	assert.Contains(t, text, "XUẤT HÀNG\n")
	assert.Contains(t, text, "- bánh mì x10\t80.000\n")
	assert.Contains(t, text, "Thực nhận:\t50.000\n")
	assert.Contains(t, text, "Ghi chú: thiếu 5k tiền lẻ\n")
}

func TestBuildReportShareText_OmitsEmptySections(t *testing.T) {
	rep := report.ReportResponse{
		Date:           "2025-03-06",
		OpeningBalance: 100_000,
	}

	text := BuildReportShareText(rep)

	assert.NotContains(t, text, "CHI PHÍ")
	assert.NotContains(t, text, "CHUYỂN KHOẢN")
	assert.NotContains(t, text, "XUẤT HÀNG")
	assert.NotContains(t, text, "Ghi chú")
	assert.Contains(t, text, "Tồn đầu:\t100.000\n")
}
