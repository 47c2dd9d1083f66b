package discipline

import (
	"errors"

	disciplineerrors "cafedesk/internal/discipline/errors"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return disciplineerrors.ErrEntryNotFound
	}

	return err
}
