// Package repository implements the service stores on GORM/PostgreSQL and in memory.
package repository

import (
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements every store port on a single *gorm.DB.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// translate maps GORM errors onto apperr kinds. The DB must be opened with
// TranslateError so unique violations arrive as gorm.ErrDuplicatedKey.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(what + " not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Conflict(what + " already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperr.NotFound("referenced record not found")
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return fmt.Errorf("%s: %w", what, err)
}

// forUpdate locks the selected rows until the transaction ends.
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
