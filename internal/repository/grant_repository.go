package repository

import (
	"Drivebox/internal/errs"
	"Drivebox/internal/models"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GrantRepository interface {
	GenericRepository[models.SharedGrant]
	Toggle(ctx context.Context, owner uint, grantee uint, itemID uint) (bool, error)
	RevokeAll(ctx context.Context, owner uint, itemID uint) (int64, error)
	FindByItem(ctx context.Context, itemID uint) ([]models.SharedGrant, error)
}

type GrantRepositoryImpl struct {
	GenericRepository[models.SharedGrant]
	db *gorm.DB
}

func NewGrantRepository(db *gorm.DB) GrantRepository {
	return &GrantRepositoryImpl{
		GenericRepository: NewGenericRepository[models.SharedGrant](db),
		db:                db,
	}
}

// Toggle creates the grant when absent and removes it when present. It reports
// whether the item is shared with the grantee afterwards.
func (r *GrantRepositoryImpl) Toggle(ctx context.Context, owner uint, grantee uint, itemID uint) (bool, error) {
	var shared bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.Item
		err := tx.Where("id = ? AND owner_id = ? AND is_private = ? AND is_trash = ?", itemID, owner, true, false).
			First(&item).Error
		if err != nil {
			return itemNotFoundOr(err)
		}

		var user models.User
		if err := tx.Select("id").First(&user, grantee).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NotFound("user")
			}
			return err
		}

		var grant models.SharedGrant
		err = tx.Where("owner_id = ? AND user_id = ? AND item_id = ?", owner, grantee, itemID).First(&grant).Error
		switch {
		case err == nil:
			shared = false
			return tx.Delete(&grant).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			shared = true
			grant = models.SharedGrant{OwnerID: owner, UserID: grantee, ItemID: itemID}
			return tx.Omit(clause.Associations).Create(&grant).Error
		default:
			return err
		}
	})
	return shared, err
}

func (r *GrantRepositoryImpl) RevokeAll(ctx context.Context, owner uint, itemID uint) (int64, error) {
	var revoked int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.Select("id").Where("id = ? AND owner_id = ?", itemID, owner).First(&item).Error; err != nil {
			return itemNotFoundOr(err)
		}
		result := tx.Where("owner_id = ? AND item_id = ?", owner, itemID).Delete(&models.SharedGrant{})
		revoked = result.RowsAffected
		return result.Error
	})
	return revoked, err
}

func (r *GrantRepositoryImpl) FindByItem(ctx context.Context, itemID uint) ([]models.SharedGrant, error) {
	var grants []models.SharedGrant
	err := r.db.WithContext(ctx).Preload("User").Where("item_id = ?", itemID).Order("id").Find(&grants).Error
	return grants, err
}
