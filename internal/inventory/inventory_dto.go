package inventory

type CreateProductRequest struct {
	Name     string `json:"name" binding:"required"`
	Unit     string `json:"unit"`
	MinStock int64  `json:"min_stock" binding:"gte=0"`
}

type UpdateProductRequest struct {
	Name     *string `json:"name"`
	Unit     *string `json:"unit"`
	MinStock *int64  `json:"min_stock" binding:"omitempty,gte=0"`
}

type StockInRequest struct {
	Quantity  int64  `json:"quantity" binding:"required,gt=0"`
	UnitPrice int64  `json:"unit_price" binding:"required,gte=0"`
	Date      string `json:"date" binding:"required,datetime=2006-01-02"`
}

type StockOutRequest struct {
	Quantity int64  `json:"quantity" binding:"required,gt=0"`
	Date     string `json:"date" binding:"required,datetime=2006-01-02"`
}

type ProductResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Unit            string `json:"unit"`
	CurrentQuantity int64  `json:"current_quantity"`
	AveragePrice    int64  `json:"average_price"`
	TotalValue      int64  `json:"total_value"`
	MinStock        int64  `json:"min_stock"`
	LowStock        bool   `json:"low_stock"`
}

type HistoryResponse struct {
	ID         string `json:"id"`
	ProductID  string `json:"product_id"`
	Type       string `json:"type"`
	Quantity   int64  `json:"quantity"`
	UnitPrice  int64  `json:"unit_price"`
	TotalPrice int64  `json:"total_price"`
	Date       string `json:"date"`
}
