package store

import (
	"errors"

	"gorm.io/gorm"
)

// ErrVersionConflict means the record changed since the caller read it.
var ErrVersionConflict = errors.New("record was modified by another request")

// UpdateVersioned applies updates to the row with the given id only while its
// version still equals expected, bumping the version in the same statement.
func UpdateVersioned(tx *gorm.DB, model any, id string, expected uint, updates map[string]any) error {
	updates["version"] = gorm.Expr("version + 1")
	res := tx.Model(model).
		Where("id = ? AND version = ?", id, expected).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}
