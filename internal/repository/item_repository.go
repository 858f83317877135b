package repository

import (
	"Drivebox/internal/config"
	"Drivebox/internal/errs"
	"Drivebox/internal/models"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// subtreeCTE selects an item and all of its descendants, bounded by depth.
// Callers bind the root id and the max depth, in that order.
const subtreeCTE = `
	WITH RECURSIVE subtree(id, depth) AS (
		SELECT id, 0
		FROM items
		WHERE id = ?

		UNION ALL

		SELECT i.id, s.depth + 1
		FROM items i
		INNER JOIN subtree s ON i.parent_id = s.id
		WHERE s.depth < ?
	)`

type ItemCounts struct {
	Folders      int64 `json:"folders"`
	Files        int64 `json:"files"`
	Private      int64 `json:"private"`
	SharedByMe   int64 `json:"shared_by_me"`
	SharedWithMe int64 `json:"shared_with_me"`
}

type ItemRepository interface {
	GenericRepository[models.Item]
	CreateWithPropagation(ctx context.Context, item *models.Item, inheritPrivacy bool) error
	FindOwned(ctx context.Context, id uint, owner uint) (*models.Item, error)
	FindOwnedFolder(ctx context.Context, id uint, owner uint) (*models.Item, error)
	FindVisible(ctx context.Context, id uint, requester uint) (*models.Item, error)
	FindChildren(ctx context.Context, parentID *uint, owner uint) ([]models.Item, error)
	FindPrivateUnderFolder(ctx context.Context, folderID uint) ([]models.Item, error)
	FindByPreviewURL(ctx context.Context, previewURL string, viewer uint) (*models.Item, error)
	FindExpiredTrashRoots(ctx context.Context, before time.Time) ([]models.Item, error)
	GetAllDescendants(ctx context.Context, id uint) ([]models.Item, error)
	UpdateNameAndPrivacy(ctx context.Context, id uint, owner uint, name string, isPrivate bool) (*models.Item, error)
	CountsByOwner(ctx context.Context, owner uint) (ItemCounts, error)
	ToggleStar(ctx context.Context, id uint, owner uint) (*models.Item, error)
	Trash(ctx context.Context, id uint, owner uint) (int64, error)
	Restore(ctx context.Context, id uint, owner uint) (int64, error)
	DeleteSubtree(ctx context.Context, id uint, owner uint) ([]string, error)
	Move(ctx context.Context, id uint, owner uint, newParentID *uint) (*models.Item, error)
	Search(ctx context.Context, query ItemQuery) ([]models.Item, error)
}

type ItemRepositoryImpl struct {
	GenericRepository[models.Item]
	db       *gorm.DB
	maxDepth int
}

func NewItemRepository(db *gorm.DB, configuration *config.Configuration) ItemRepository {
	maxDepth := configuration.Tree.MaxDepth
	if maxDepth <= 0 {
		maxDepth = config.DefaultMaxDepth
	}
	return &ItemRepositoryImpl{
		GenericRepository: NewGenericRepository[models.Item](db),
		db:                db,
		maxDepth:          maxDepth,
	}
}

func (r *ItemRepositoryImpl) CreateWithPropagation(ctx context.Context, item *models.Item, inheritPrivacy bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if item.ParentID != nil {
			parent, err := findActiveFolder(tx, *item.ParentID, item.OwnerID)
			if err != nil {
				return err
			}
			if inheritPrivacy {
				item.IsPrivate = parent.IsPrivate
			}
		}
		if err := ensureUniqueName(tx, item.OwnerID, item.ParentID, item.Name, 0); err != nil {
			return err
		}
		if err := ensureDepth(tx, item.ParentID, 0, r.maxDepth); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(item).Error; err != nil {
			return err
		}
		return propagateSize(tx, item.ParentID, item.Size, r.maxDepth)
	})
}

func (r *ItemRepositoryImpl) FindOwned(ctx context.Context, id uint, owner uint) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, owner).First(&item).Error
	if err != nil {
		return nil, itemNotFoundOr(err)
	}
	return &item, nil
}

func (r *ItemRepositoryImpl) FindOwnedFolder(ctx context.Context, id uint, owner uint) (*models.Item, error) {
	return findActiveFolder(r.db.WithContext(ctx), id, owner)
}

func (r *ItemRepositoryImpl) FindVisible(ctx context.Context, id uint, requester uint) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("SharedWith.User").
		Where("items.id = ? AND items.is_trash = ?", id, false).
		Where("items.owner_id = ? OR (items.is_private = ? AND EXISTS (SELECT 1 FROM shared_grants g WHERE g.item_id = items.id AND g.user_id = ?))",
			requester, true, requester).
		First(&item).Error
	if err != nil {
		return nil, itemNotFoundOr(err)
	}
	// Grantees see the item, not who else it is shared with.
	if item.OwnerID != requester {
		item.SharedWith = nil
	}
	return &item, nil
}

func (r *ItemRepositoryImpl) FindChildren(ctx context.Context, parentID *uint, owner uint) ([]models.Item, error) {
	db := r.db.WithContext(ctx)
	query := db.Where("owner_id = ? AND is_trash = ?", owner, false)
	if parentID != nil {
		if _, err := findActiveFolder(db, *parentID, owner); err != nil {
			return nil, err
		}
		query = query.Where("parent_id = ?", *parentID)
	} else {
		query = query.Where("parent_id IS NULL")
	}

	var items []models.Item
	if err := query.Order("is_folder DESC").Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ItemRepositoryImpl) FindPrivateUnderFolder(ctx context.Context, folderID uint) ([]models.Item, error) {
	db := r.db.WithContext(ctx)
	var folder models.Item
	err := db.Where("id = ? AND is_folder = ? AND is_trash = ?", folderID, true, false).First(&folder).Error
	if err != nil {
		return nil, itemNotFoundOr(err)
	}

	var items []models.Item
	err = db.Preload("Owner").
		Where("parent_id = ? AND is_private = ? AND is_trash = ?", folder.ID, true, false).
		Order("is_folder DESC").Order("id").
		Find(&items).Error
	return items, err
}

func (r *ItemRepositoryImpl) FindByPreviewURL(ctx context.Context, previewURL string, viewer uint) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("items.preview_url = ? AND items.is_folder = ? AND items.is_trash = ?", previewURL, false, false).
		Where("items.owner_id = ? OR (items.is_private = ? AND EXISTS (SELECT 1 FROM shared_grants g WHERE g.item_id = items.id AND g.user_id = ?))",
			viewer, true, viewer).
		First(&item).Error
	if err != nil {
		return nil, itemNotFoundOr(err)
	}
	return &item, nil
}

// FindExpiredTrashRoots returns items trashed directly (not by a cascade) before the cutoff.
func (r *ItemRepositoryImpl) FindExpiredTrashRoots(ctx context.Context, before time.Time) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).
		Where("is_trash = ? AND trash_root_id = id AND trashed_at < ?", true, before).
		Order("id").
		Find(&items).Error
	return items, err
}

func (r *ItemRepositoryImpl) GetAllDescendants(ctx context.Context, id uint) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).
		Raw(subtreeCTE+` SELECT * FROM items WHERE id IN (SELECT id FROM subtree) AND id <> ? ORDER BY id`,
			id, r.maxDepth, id).
		Scan(&items).Error
	return items, err
}

func (r *ItemRepositoryImpl) UpdateNameAndPrivacy(ctx context.Context, id uint, owner uint, name string, isPrivate bool) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND owner_id = ?", id, owner).First(&item).Error; err != nil {
			return itemNotFoundOr(err)
		}
		if item.Name == name && item.IsPrivate == isPrivate {
			return nil
		}
		if item.Name != name {
			if err := ensureUniqueName(tx, owner, item.ParentID, name, item.ID); err != nil {
				return err
			}
		}
		err := tx.Model(&item).Updates(map[string]interface{}{"name": name, "is_private": isPrivate}).Error
		if err != nil {
			return err
		}
		// Public items carry no grants.
		if item.IsPrivate && !isPrivate {
			if err := tx.Where("item_id = ?", item.ID).Delete(&models.SharedGrant{}).Error; err != nil {
				return err
			}
		}
		item.Name = name
		item.IsPrivate = isPrivate
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepositoryImpl) CountsByOwner(ctx context.Context, owner uint) (ItemCounts, error) {
	var counts ItemCounts
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		active := func() *gorm.DB {
			return tx.Model(&models.Item{}).Where("owner_id = ? AND is_trash = ?", owner, false)
		}
		if err := active().Where("is_folder = ?", true).Count(&counts.Folders).Error; err != nil {
			return err
		}
		if err := active().Where("is_folder = ?", false).Count(&counts.Files).Error; err != nil {
			return err
		}
		if err := active().Where("is_private = ?", true).Count(&counts.Private).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.SharedGrant{}).Where("owner_id = ?", owner).Count(&counts.SharedByMe).Error; err != nil {
			return err
		}
		return tx.Model(&models.SharedGrant{}).Where("user_id = ?", owner).Count(&counts.SharedWithMe).Error
	})
	return counts, err
}

func (r *ItemRepositoryImpl) ToggleStar(ctx context.Context, id uint, owner uint) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Item{}).
			Where("id = ? AND owner_id = ?", id, owner).
			UpdateColumn("is_starred", gorm.Expr("NOT is_starred"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errs.NotFound("item")
		}
		return tx.First(&item, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Trash flags the item and every active descendant. The first UPDATE carries the
// precondition, so of two racing calls only one can match the row.
func (r *ItemRepositoryImpl) Trash(ctx context.Context, id uint, owner uint) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		result := tx.Model(&models.Item{}).
			Where("id = ? AND owner_id = ? AND is_trash = ?", id, owner, false).
			Updates(map[string]interface{}{"is_trash": true, "trash_root_id": id, "trashed_at": now})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errs.NotFound("item")
		}

		cascade := tx.Exec(subtreeCTE+`
			UPDATE items
			SET is_trash = ?, trash_root_id = ?, trashed_at = ?, updated_at = ?
			WHERE id IN (SELECT id FROM subtree) AND id <> ? AND is_trash = ?`,
			id, r.maxDepth, true, id, now, now, id, false)
		if cascade.Error != nil {
			return cascade.Error
		}
		affected = 1 + cascade.RowsAffected
		return nil
	})
	return affected, err
}

// Restore reactivates the item and the descendants trashed by the same call.
func (r *ItemRepositoryImpl) Restore(ctx context.Context, id uint, owner uint) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.Item
		err := tx.Where("id = ? AND owner_id = ? AND is_trash = ?", id, owner, true).First(&item).Error
		if err != nil {
			return itemNotFoundOr(err)
		}
		trashRoot := item.ID
		if item.TrashRootID != nil {
			trashRoot = *item.TrashRootID
		}

		result := tx.Model(&models.Item{}).
			Where("id = ? AND is_trash = ?", id, true).
			Updates(map[string]interface{}{"is_trash": false, "trash_root_id": nil, "trashed_at": nil})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errs.NotFound("item")
		}

		cascade := tx.Exec(subtreeCTE+`
			UPDATE items
			SET is_trash = ?, trash_root_id = NULL, trashed_at = NULL, updated_at = ?
			WHERE id IN (SELECT id FROM subtree) AND id <> ? AND is_trash = ? AND trash_root_id = ?`,
			id, r.maxDepth, false, time.Now().UTC(), id, true, trashRoot)
		if cascade.Error != nil {
			return cascade.Error
		}
		affected = 1 + cascade.RowsAffected
		return nil
	})
	return affected, err
}

// DeleteSubtree removes a trashed item with its descendants and their grants, and
// returns the blob refs of the removed files. Surviving ancestors shrink by the item size.
func (r *ItemRepositoryImpl) DeleteSubtree(ctx context.Context, id uint, owner uint) ([]string, error) {
	var refs []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var root models.Item
		err := tx.Where("id = ? AND owner_id = ? AND is_trash = ?", id, owner, true).First(&root).Error
		if err != nil {
			return itemNotFoundOr(err)
		}

		refs, err = collectMediaRefs(tx, id, r.maxDepth)
		if err != nil {
			return err
		}
		err = tx.Exec(subtreeCTE+` DELETE FROM shared_grants WHERE item_id IN (SELECT id FROM subtree)`,
			id, r.maxDepth).Error
		if err != nil {
			return err
		}
		result := tx.Exec(subtreeCTE+` DELETE FROM items WHERE id IN (SELECT id FROM subtree)`, id, r.maxDepth)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errs.NotFound("item")
		}
		return propagateSize(tx, root.ParentID, -root.Size, r.maxDepth)
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}

func (r *ItemRepositoryImpl) Move(ctx context.Context, id uint, owner uint, newParentID *uint) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND owner_id = ? AND is_trash = ?", id, owner, false).First(&item).Error
		if err != nil {
			return itemNotFoundOr(err)
		}
		if sameParent(item.ParentID, newParentID) {
			return nil
		}
		if newParentID != nil {
			if _, err := findActiveFolder(tx, *newParentID, owner); err != nil {
				return err
			}
			cycle, err := isAncestorOrSelf(tx, item.ID, newParentID, r.maxDepth)
			if err != nil {
				return err
			}
			if cycle {
				return errs.Validation("cannot move %q into itself or one of its descendants", item.Name)
			}
			height, err := subtreeHeight(tx, item.ID, r.maxDepth)
			if err != nil {
				return err
			}
			if err := ensureDepth(tx, newParentID, height, r.maxDepth); err != nil {
				return err
			}
		}
		if err := ensureUniqueName(tx, owner, newParentID, item.Name, item.ID); err != nil {
			return err
		}

		if err := propagateSize(tx, item.ParentID, -item.Size, r.maxDepth); err != nil {
			return err
		}
		if err := tx.Model(&item).Update("parent_id", newParentID).Error; err != nil {
			return err
		}
		item.ParentID = newParentID
		return propagateSize(tx, newParentID, item.Size, r.maxDepth)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepositoryImpl) Search(ctx context.Context, query ItemQuery) ([]models.Item, error) {
	var items []models.Item
	db := r.db.WithContext(ctx).Model(&models.Item{})
	if query.Filter == FilterSharedWithMe {
		db = db.Preload("Owner")
	}
	err := db.Scopes(query.Scope()).
		Order("items.is_folder DESC").
		Order("items.id").
		Find(&items).Error
	return items, err
}

func findActiveFolder(db *gorm.DB, id uint, owner uint) (*models.Item, error) {
	var folder models.Item
	err := db.Where("id = ? AND owner_id = ? AND is_folder = ? AND is_trash = ?", id, owner, true, false).
		First(&folder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("folder")
		}
		return nil, err
	}
	return &folder, nil
}

// ensureUniqueName checks all siblings, trashed ones included, so restore can never
// produce two items with the same name under one parent.
func ensureUniqueName(tx *gorm.DB, owner uint, parentID *uint, name string, excludeID uint) error {
	query := tx.Model(&models.Item{}).Where("owner_id = ? AND name = ?", owner, name)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errs.Conflict("an item named %q already exists here", name)
	}
	return nil
}

func collectMediaRefs(tx *gorm.DB, id uint, maxDepth int) ([]string, error) {
	rows, err := tx.Raw(subtreeCTE+`
		SELECT media FROM items
		WHERE id IN (SELECT id FROM subtree) AND is_folder = ? AND media IS NOT NULL
		ORDER BY id`, id, maxDepth, false).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// subtreeHeight is the number of levels below id, 0 for a leaf.
func subtreeHeight(tx *gorm.DB, id uint, maxDepth int) (int, error) {
	var height int
	err := tx.Raw(subtreeCTE+` SELECT COALESCE(MAX(depth), 0) FROM subtree`, id, maxDepth).
		Row().Scan(&height)
	return height, err
}

func sameParent(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func itemNotFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound("item")
	}
	return err
}
