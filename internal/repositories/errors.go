package repositories

import (
	"errors"
	"fmt"
	"strings"

	"resto/internal/models"

	"gorm.io/gorm"
)

// storageError classifies a gorm error for callers. Duplicate keys become models.ErrDuplicate,
// everything else a *models.PersistenceError.
func storageError(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", op, models.ErrDuplicate)
	}
	return &models.PersistenceError{Op: op, Err: err}
}

// likePattern builds a case-insensitive LIKE operand for a search term.
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

func paginate(db *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		db = db.Limit(limit)
	}
	if offset > 0 {
		db = db.Offset(offset)
	}
	return db
}
