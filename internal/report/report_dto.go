package report

type SaveReportRequest struct {
	OpeningBalance *int64 `json:"opening_balance" binding:"omitempty,gte=0"`
	Revenue        *int64 `json:"revenue" binding:"omitempty,gte=0"`
	ClosingBalance *int64 `json:"closing_balance" binding:"omitempty,gte=0"`
	Note           *string `json:"note"`
}

type AddLineItemRequest struct {
	Name   string `json:"name" binding:"required"`
	Amount int64  `json:"amount" binding:"required,gt=0"`
}

type AddExportRequest struct {
	Name     string `json:"name" binding:"required"`
	Quantity int64  `json:"quantity" binding:"gte=0"`
	Amount   int64  `json:"amount" binding:"gte=0"`
}

type LineItemResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

type ExportItemResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Amount   int64  `json:"amount"`
}

type ReportResponse struct {
	ID             string               `json:"id"`
	Date           string               `json:"date"`
	OpeningBalance int64                `json:"opening_balance"`
	Revenue        int64                `json:"revenue"`
	ClosingBalance int64                `json:"closing_balance"`
	TotalExpenses  int64                `json:"total_expenses"`
	TotalTransfers int64                `json:"total_transfers"`
	ActualReceived int64                `json:"actual_received"`
	Note           string               `json:"note"`
	Expenses       []LineItemResponse   `json:"expenses"`
	Transfers      []LineItemResponse   `json:"transfers"`
	Exports        []ExportItemResponse `json:"exports"`
}
