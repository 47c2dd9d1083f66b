package operation

import (
	"errors"

	operationerrors "cafedesk/internal/operation/errors"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return operationerrors.ErrOperationNotFound
	}

	return err
}
