package services

import (
	"Drivebox/internal/helpers"
	"Drivebox/internal/models"
	"Drivebox/internal/repository"
	"Drivebox/internal/storage"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

type UploadInput struct {
	Name        string `validate:"required,max=255"`
	ParentID    *uint
	ContentType string
	IsPrivate   *bool
	Body        io.ReadSeeker `validate:"required"`
}

type FileService interface {
	Upload(ctx context.Context, owner uint, input UploadInput) (*models.Item, error)
}

type FileServiceImpl struct {
	itemRepository repository.ItemRepository
	blobStore      storage.BlobStore
	logService     LogService
}

func NewFileService(itemRepository repository.ItemRepository, blobStore storage.BlobStore, logService LogService) FileService {
	return &FileServiceImpl{
		itemRepository: itemRepository,
		blobStore:      blobStore,
		logService:     logService,
	}
}

// Upload stores the bytes first and then records metadata with size propagation
// in one transaction. If the metadata write fails the stored blob is released.
func (s *FileServiceImpl) Upload(ctx context.Context, owner uint, input UploadInput) (*models.Item, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	name, err := cleanName(input.Name)
	if err != nil {
		return nil, err
	}
	// Cheap pre-check so a bad parent does not cost a blob round trip.
	// The transaction checks again.
	if input.ParentID != nil {
		if _, err := s.itemRepository.FindOwnedFolder(ctx, *input.ParentID, owner); err != nil {
			return nil, err
		}
	}

	contentType, err := helpers.DetectContentType(input.Body, input.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to detect content type: %w", err)
	}
	previewURL, err := helpers.NewPreviewToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate preview token: %w", err)
	}

	blob, err := s.blobStore.Store(ctx, input.Body, name, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	item := &models.Item{
		Name:       name,
		ParentID:   input.ParentID,
		OwnerID:    owner,
		Size:       blob.Size,
		MediaType:  models.MediaTypeFromContentType(contentType),
		Media:      &blob.Ref,
		SHA256:     blob.SHA256,
		PreviewURL: previewURL,
	}
	if input.IsPrivate != nil {
		item.IsPrivate = *input.IsPrivate
	}
	if err := s.itemRepository.CreateWithPropagation(ctx, item, input.IsPrivate == nil); err != nil {
		s.releaseBlob(context.WithoutCancel(ctx), blob.Ref)
		return nil, err
	}

	s.logService.Log.WithFields(logrus.Fields{
		"item":      item.ID,
		"owner":     owner,
		"size":      item.Size,
		"mediaType": item.MediaType,
	}).Info("file uploaded")
	return item, nil
}

func (s *FileServiceImpl) releaseBlob(ctx context.Context, ref string) {
	err := s.blobStore.Delete(ctx, ref)
	if err != nil && !errors.Is(err, storage.ErrBlobNotFound) {
		s.logService.Log.WithFields(logrus.Fields{
			"ref":   ref,
			"error": err.Error(),
		}).Warn("failed to release blob after metadata write failed")
	}
}
