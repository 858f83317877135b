package repository

import (
	"Drivebox/internal/errs"
	"Drivebox/internal/models"
	"fmt"

	"gorm.io/gorm"
)

// propagateSize adds delta to the folder startID and every folder above it.
// Each row gets its own "size = size + ?" so concurrent writers never overwrite each other.
func propagateSize(tx *gorm.DB, startID *uint, delta int64, maxDepth int) error {
	if delta == 0 {
		return nil
	}
	current := startID
	for depth := 0; current != nil; depth++ {
		if depth >= maxDepth {
			return fmt.Errorf("ancestor chain exceeds max depth %d", maxDepth)
		}
		var folder models.Item
		if err := tx.Select("id", "parent_id").First(&folder, *current).Error; err != nil {
			return notFoundOr(err)
		}
		err := tx.Model(&models.Item{}).
			Where("id = ?", folder.ID).
			UpdateColumn("size", gorm.Expr("size + ?", delta)).Error
		if err != nil {
			return err
		}
		current = folder.ParentID
	}
	return nil
}

// isAncestorOrSelf reports whether candidate sits on the chain from start up to the root.
func isAncestorOrSelf(tx *gorm.DB, candidate uint, start *uint, maxDepth int) (bool, error) {
	current := start
	for depth := 0; current != nil; depth++ {
		if *current == candidate {
			return true, nil
		}
		if depth >= maxDepth {
			return false, fmt.Errorf("ancestor chain exceeds max depth %d", maxDepth)
		}
		var folder models.Item
		if err := tx.Select("id", "parent_id").First(&folder, *current).Error; err != nil {
			return false, notFoundOr(err)
		}
		current = folder.ParentID
	}
	return false, nil
}

// ensureDepth rejects placing a subtree of the given height under parentID when its
// deepest row would sit more than maxDepth levels below the root. Subtree walks stop
// at maxDepth and must reach every row.
func ensureDepth(tx *gorm.DB, parentID *uint, height int, maxDepth int) error {
	depth := 0
	for current := parentID; current != nil; depth++ {
		if depth+height >= maxDepth {
			return errs.Validation("folder nesting exceeds max depth %d", maxDepth)
		}
		var folder models.Item
		if err := tx.Select("id", "parent_id").First(&folder, *current).Error; err != nil {
			return notFoundOr(err)
		}
		current = folder.ParentID
	}
	return nil
}
