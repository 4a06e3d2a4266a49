package persistence

import (
	"errors"

	"github.com/cosecha/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps driver errors that callers can act on to domain errors.
// Unique violations surface when two checkouts race for the same number or
// cart; they are reported as a concurrency conflict so the client can retry.
func translateError(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrConcurrencyConflict.Wrap(err)
	}
	return err
}
