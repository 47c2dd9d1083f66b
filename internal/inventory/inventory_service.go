package inventory

import (
	"context"
	"encoding/json"

	"cafedesk/internal/shared/contextutil"
	"cafedesk/internal/sync"

	inventoryerrors "cafedesk/internal/inventory/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	CreateProduct(ctx context.Context, req CreateProductRequest) (ProductResponse, error)
	GetAll(ctx context.Context) ([]ProductResponse, error)
	GetByID(ctx context.Context, id string) (ProductResponse, error)
	UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (ProductResponse, error)
	StockIn(ctx context.Context, productID string, req StockInRequest) (ProductResponse, error)
	StockOut(ctx context.Context, productID string, req StockOutRequest) (ProductResponse, error)
	History(ctx context.Context, productID string) ([]HistoryResponse, error)
	LowStock(ctx context.Context) ([]ProductResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("inventory.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("inventory.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) CreateProduct(ctx context.Context, req CreateProductRequest) (ProductResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	product := &Product{
		ID:       uuid.New(),
		Name:     req.Name,
		Unit:     req.Unit,
		MinStock: req.MinStock,
	}

	err := s.repo.Transaction(ctx, func(txRepo Repository, tx *gorm.DB) error {
		if err := txRepo.Create(ctx, product); err != nil {
			return err
		}
		return s.enqueueProductSync(tx, rid, product)
	})
	if err != nil {
		s.logger.Error("create product failed", zap.String("request_id", rid), zap.Error(err))
		return ProductResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("create product success",
		zap.String("request_id", rid),
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name),
	)

	return mapToResponse(*product), nil
}

func (s *service) GetAll(ctx context.Context) ([]ProductResponse, error) {
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all products failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(products), nil
}

func (s *service) GetByID(ctx context.Context, id string) (ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("get product by id failed", zap.String("product_id", id), zap.Error(err))
		return ProductResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*product), nil
}

func (s *service) UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (ProductResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	var product *Product
	err := s.repo.Transaction(ctx, func(txRepo Repository, tx *gorm.DB) error {
		var err error
		product, err = txRepo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if req.Name != nil {
			product.Name = *req.Name
		}
		if req.Unit != nil {
			product.Unit = *req.Unit
		}
		if req.MinStock != nil {
			product.MinStock = *req.MinStock
		}

		if err := txRepo.Save(ctx, product); err != nil {
			return err
		}
		return s.enqueueProductSync(tx, rid, product)
	})
	if err != nil {
		s.logger.Error("update product failed", zap.String("product_id", id), zap.Error(err))
		return ProductResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("update product success",
		zap.String("request_id", rid),
		zap.String("product_id", id),
	)

	return mapToResponse(*product), nil
}

// StockIn receives goods: quantity and value grow, and the weighted average
// price is re-derived from the new total value. The product update and the
// audit row commit together or not at all.
func (s *service) StockIn(ctx context.Context, productID string, req StockInRequest) (ProductResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	var product *Product
	err := s.repo.Transaction(ctx, func(txRepo Repository, tx *gorm.DB) error {
		var err error
		product, err = txRepo.FindByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}

		movementValue := req.Quantity * req.UnitPrice
		product.CurrentQuantity += req.Quantity
		product.TotalValue += movementValue
		product.AveragePrice = averagePrice(product.TotalValue, product.CurrentQuantity)

		if err := txRepo.Save(ctx, product); err != nil {
			return err
		}

		entry := &HistoryEntry{
			ID:         uuid.New(),
			ProductID:  product.ID,
			Type:       MovementIn,
			Quantity:   req.Quantity,
			UnitPrice:  req.UnitPrice,
			TotalPrice: movementValue,
			Date:       req.Date,
		}
		if err := txRepo.AppendHistory(ctx, entry); err != nil {
			return err
		}

		if err := s.enqueueProductSync(tx, rid, product); err != nil {
			return err
		}
		return s.enqueueHistorySync(tx, rid, entry)
	})
	if err != nil {
		s.logger.Error("stock in failed",
			zap.String("product_id", productID),
			zap.Int64("quantity", req.Quantity),
			zap.Error(err),
		)
		return ProductResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("stock in success",
		zap.String("request_id", rid),
		zap.String("product_id", productID),
		zap.Int64("quantity", req.Quantity),
		zap.Int64("current_quantity", product.CurrentQuantity),
	)

	return mapToResponse(*product), nil
}

// StockOut issues goods at the current average price. Availability is checked
// under the row lock; an over-decrement rolls back leaving stock untouched.
func (s *service) StockOut(ctx context.Context, productID string, req StockOutRequest) (ProductResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	var product *Product
	err := s.repo.Transaction(ctx, func(txRepo Repository, tx *gorm.DB) error {
		var err error
		product, err = txRepo.FindByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}

		if product.CurrentQuantity < req.Quantity {
			return inventoryerrors.ErrInsufficientStock
		}

		unitPrice := product.AveragePrice
		movementValue := req.Quantity * unitPrice
		product.CurrentQuantity -= req.Quantity
		if product.CurrentQuantity == 0 {
			movementValue = product.TotalValue
			product.TotalValue = 0
		} else {
			product.TotalValue -= movementValue
		}
		product.AveragePrice = averagePrice(product.TotalValue, product.CurrentQuantity)

		if err := txRepo.Save(ctx, product); err != nil {
			return err
		}

		entry := &HistoryEntry{
			ID:         uuid.New(),
			ProductID:  product.ID,
			Type:       MovementOut,
			Quantity:   req.Quantity,
			UnitPrice:  unitPrice,
			TotalPrice: movementValue,
			Date:       req.Date,
		}
		if err := txRepo.AppendHistory(ctx, entry); err != nil {
			return err
		}

		if err := s.enqueueProductSync(tx, rid, product); err != nil {
			return err
		}
		return s.enqueueHistorySync(tx, rid, entry)
	})
	if err != nil {
		s.logger.Error("stock out failed",
			zap.String("product_id", productID),
			zap.Int64("quantity", req.Quantity),
			zap.Error(err),
		)
		return ProductResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("stock out success",
		zap.String("request_id", rid),
		zap.String("product_id", productID),
		zap.Int64("quantity", req.Quantity),
		zap.Int64("current_quantity", product.CurrentQuantity),
	)

	return mapToResponse(*product), nil
}

func (s *service) History(ctx context.Context, productID string) ([]HistoryResponse, error) {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		return nil, mapRepositoryError(err)
	}

	entries, err := s.repo.FindHistory(ctx, productID)
	if err != nil {
		s.logger.Error("get product history failed", zap.String("product_id", productID), zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	res := make([]HistoryResponse, len(entries))
	for i, e := range entries {
		res[i] = HistoryResponse{
			ID:         e.ID.String(),
			ProductID:  e.ProductID.String(),
			Type:       e.Type,
			Quantity:   e.Quantity,
			UnitPrice:  e.UnitPrice,
			TotalPrice: e.TotalPrice,
			Date:       e.Date,
		}
	}
	return res, nil
}

func (s *service) LowStock(ctx context.Context) ([]ProductResponse, error) {
	products, err := s.repo.FindLowStock(ctx)
	if err != nil {
		s.logger.Error("get low stock products failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(products), nil
}

func (s *service) enqueueProductSync(tx *gorm.DB, rid string, product *Product) error {
	payload, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return sync.EnqueueTx(tx, sync.NewOutboxDocument(rid, SyncCollection, product.ID.String(), payload))
}

func (s *service) enqueueHistorySync(tx *gorm.DB, rid string, entry *HistoryEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return sync.EnqueueTx(tx, sync.NewOutboxDocument(rid, HistorySyncCollection, entry.ID.String(), payload))
}

func averagePrice(totalValue, quantity int64) int64 {
	if quantity <= 0 {
		return 0
	}
	return totalValue / quantity
}

func mapToResponse(product Product) ProductResponse {
	return ProductResponse{
		ID:              product.ID.String(),
		Name:            product.Name,
		Unit:            product.Unit,
		CurrentQuantity: product.CurrentQuantity,
		AveragePrice:    product.AveragePrice,
		TotalValue:      product.TotalValue,
		MinStock:        product.MinStock,
		LowStock:        product.CurrentQuantity <= product.MinStock,
	}
}

func mapToListResponse(products []Product) []ProductResponse {
	res := make([]ProductResponse, len(products))
	for i, p := range products {
		res[i] = mapToResponse(p)
	}
	return res
}
