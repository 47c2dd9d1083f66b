package discipline

type CreateEntryRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Month      string `json:"month" binding:"required,datetime=2006-01"`
	Type       string `json:"type" binding:"required,oneof=reward bonus penalty fine"`
	Amount     int64  `json:"amount" binding:"required,gt=0"`
	Reason     string `json:"reason"`
}

type EntryResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Month      string `json:"month"`
	Type       string `json:"type"`
	Amount     int64  `json:"amount"`
	Reason     string `json:"reason"`
}
