package services

import (
	"Drivebox/internal/helpers"
	"Drivebox/internal/models"
	"Drivebox/internal/repository"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

type CreateFolderInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	ParentID *uint  `json:"parent_id"`
	// Size is the declared starting size; it is propagated like a file upload.
	Size      int64 `json:"size" validate:"gte=0"`
	IsPrivate *bool `json:"is_private"`
}

type EditItemInput struct {
	Name      string `json:"name" validate:"required,max=255"`
	IsPrivate bool   `json:"is_private"`
}

type ItemService interface {
	CreateFolder(ctx context.Context, owner uint, input CreateFolderInput) (*models.Item, error)
	GetItem(ctx context.Context, id uint, requester uint) (*models.Item, error)
	ListChildren(ctx context.Context, parentID *uint, owner uint) ([]models.Item, error)
	EditItem(ctx context.Context, id uint, owner uint, input EditItemInput) (*models.Item, error)
	Counts(ctx context.Context, owner uint) (repository.ItemCounts, error)
	Search(ctx context.Context, query repository.ItemQuery) ([]models.Item, error)
	ToggleStar(ctx context.Context, id uint, owner uint) (*models.Item, error)
	GetPreview(ctx context.Context, previewURL string, viewer uint) (*models.Item, error)
}

type itemServiceImpl struct {
	itemRepo   repository.ItemRepository
	logService LogService
}

func NewItemService(itemRepository repository.ItemRepository, logService LogService) ItemService {
	return &itemServiceImpl{itemRepo: itemRepository, logService: logService}
}

func (s *itemServiceImpl) CreateFolder(ctx context.Context, owner uint, input CreateFolderInput) (*models.Item, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	name, err := cleanName(input.Name)
	if err != nil {
		return nil, err
	}
	previewURL, err := helpers.NewPreviewToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate preview token: %w", err)
	}

	folder := &models.Item{
		Name:       name,
		IsFolder:   true,
		ParentID:   input.ParentID,
		OwnerID:    owner,
		Size:       input.Size,
		PreviewURL: previewURL,
	}
	if input.IsPrivate != nil {
		folder.IsPrivate = *input.IsPrivate
	}
	if err := s.itemRepo.CreateWithPropagation(ctx, folder, input.IsPrivate == nil); err != nil {
		return nil, err
	}
	s.logService.Log.WithFields(logrus.Fields{
		"item":  folder.ID,
		"owner": owner,
		"size":  folder.Size,
	}).Debug("folder created")
	return folder, nil
}

func (s *itemServiceImpl) GetItem(ctx context.Context, id uint, requester uint) (*models.Item, error) {
	return s.itemRepo.FindVisible(ctx, id, requester)
}

func (s *itemServiceImpl) ListChildren(ctx context.Context, parentID *uint, owner uint) ([]models.Item, error) {
	return s.itemRepo.FindChildren(ctx, parentID, owner)
}

func (s *itemServiceImpl) EditItem(ctx context.Context, id uint, owner uint, input EditItemInput) (*models.Item, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	name, err := cleanName(input.Name)
	if err != nil {
		return nil, err
	}
	return s.itemRepo.UpdateNameAndPrivacy(ctx, id, owner, name, input.IsPrivate)
}

func (s *itemServiceImpl) Counts(ctx context.Context, owner uint) (repository.ItemCounts, error) {
	return s.itemRepo.CountsByOwner(ctx, owner)
}

func (s *itemServiceImpl) Search(ctx context.Context, query repository.ItemQuery) ([]models.Item, error) {
	return s.itemRepo.Search(ctx, query)
}

func (s *itemServiceImpl) ToggleStar(ctx context.Context, id uint, owner uint) (*models.Item, error) {
	return s.itemRepo.ToggleStar(ctx, id, owner)
}

func (s *itemServiceImpl) GetPreview(ctx context.Context, previewURL string, viewer uint) (*models.Item, error) {
	return s.itemRepo.FindByPreviewURL(ctx, previewURL, viewer)
}
