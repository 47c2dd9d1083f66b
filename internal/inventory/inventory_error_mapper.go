package inventory

import (
	"errors"

	inventoryerrors "cafedesk/internal/inventory/errors"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return inventoryerrors.ErrProductNotFound
	}

	return err
}
