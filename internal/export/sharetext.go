package export

import (
	"fmt"
	"strings"

	"cafedesk/internal/report"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var vnPrinter = message.NewPrinter(language.Vietnamese)

func formatMoney(v int64) string {
	return vnPrinter.Sprintf("%d", v)
}

// BuildReportShareText renders a day's report as the plain text block the
// shop pastes into chat: Vietnamese labels, tab-separated amounts, one line
// per item.
func BuildReportShareText(rep report.ReportResponse) string {
	var b strings.Builder

	fmt.Fprintf(&b, "BÁO CÁO NGÀY %s\n", rep.Date)
	fmt.Fprintf(&b, "Tồn đầu:\t%s\n", formatMoney(rep.OpeningBalance))
	fmt.Fprintf(&b, "Doanh thu:\t%s\n", formatMoney(rep.Revenue))

	if len(rep.Expenses) > 0 {
		b.WriteString("CHI PHÍ\n")
		for _, it := range rep.Expenses {
			fmt.Fprintf(&b, "- %s\t%s\n", it.Name, formatMoney(it.Amount))
		}
		fmt.Fprintf(&b, "Tổng chi:\t%s\n", formatMoney(rep.TotalExpenses))
	}

	if len(rep.Transfers) > 0 {
		b.WriteString("CHUYỂN KHOẢN\n")
		for _, it := range rep.Transfers {
			fmt.Fprintf(&b, "- %s\t%s\n", it.Name, formatMoney(it.Amount))
		}
		fmt.Fprintf(&b, "Tổng chuyển:\t%s\n", formatMoney(rep.TotalTransfers))
	}

	if len(rep.Exports) > 0 {
		b.WriteString("XUẤT HÀNG\n")
		for _, it := range rep.Exports {
			fmt.Fprintf(&b, "- %s x%d\t%s\n", it.Name, it.Quantity, formatMoney(it.Amount))
		}
	}

	fmt.Fprintf(&b, "Tồn cuối:\t%s\n", formatMoney(rep.ClosingBalance))
	fmt.Fprintf(&b, "Thực nhận:\t%s\n", formatMoney(rep.ActualReceived))

	if rep.Note != "" {
		fmt.Fprintf(&b, "Ghi chú: %s\n", rep.Note)
	}

	return b.String()
}
