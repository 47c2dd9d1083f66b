package operation

type CreateOperationRequest struct {
	Type   string `json:"type" binding:"required,oneof=material service"`
	Name   string `json:"name" binding:"required"`
	Amount int64  `json:"amount" binding:"required,gt=0"`
	Date   string `json:"date" binding:"required,datetime=2006-01-02"`
}

type OperationResponse struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
	Date   string `json:"date"`
}

// PeriodSummaryResponse totals a 20th-to-19th accounting window.
type PeriodSummaryResponse struct {
	Period        string              `json:"period"`
	From          string              `json:"from"`
	To            string              `json:"to"`
	TotalMaterial int64               `json:"total_material"`
	TotalService  int64               `json:"total_service"`
	Total         int64               `json:"total"`
	Operations    []OperationResponse `json:"operations"`
}
