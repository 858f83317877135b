package services

import (
	"Drivebox/internal/models"
	"Drivebox/internal/repository"
	"context"

	"github.com/sirupsen/logrus"
)

type MoveItemInput struct {
	// ParentID nil moves the item to the owner's root.
	ParentID *uint `json:"parent_id"`
}

type MoverService interface {
	MoveItem(ctx context.Context, id uint, owner uint, input MoveItemInput) (*models.Item, error)
}

type MoverServiceImpl struct {
	itemRepository repository.ItemRepository
	logService     LogService
}

func NewMoverService(itemRepository repository.ItemRepository, logService LogService) MoverService {
	return &MoverServiceImpl{
		itemRepository: itemRepository,
		logService:     logService,
	}
}

func (m *MoverServiceImpl) MoveItem(ctx context.Context, id uint, owner uint, input MoveItemInput) (*models.Item, error) {
	item, err := m.itemRepository.Move(ctx, id, owner, input.ParentID)
	if err != nil {
		return nil, err
	}
	m.logService.Log.WithFields(logrus.Fields{
		"item":   item.ID,
		"parent": parentField(input.ParentID),
		"size":   item.Size,
	}).Info("item moved")
	return item, nil
}

func parentField(parentID *uint) interface{} {
	if parentID == nil {
		return "root"
	}
	return *parentID
}
