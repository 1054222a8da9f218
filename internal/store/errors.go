package store

import (
	"fangemeinschaft/internal/apperr"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"
)

// dbError classifies a GORM error
func dbError(model, verb string, err error) error {
	switch {
	case err == nil:
		return nil
	case apperr.KindOf(err) != apperr.KindInternal:
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(model, "")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Database("A unique constraint would be violated.", errors.Wrapf(err, "%s %s", verb, model))
	default:
		return apperr.Database("An unexpected database error occurred.", errors.Wrapf(err, "%s %s", verb, model))
	}
}
