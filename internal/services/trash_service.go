package services

import (
	"Drivebox/internal/repository"
	"Drivebox/internal/storage"
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

type TrashService interface {
	Trash(ctx context.Context, id uint, owner uint) (int64, error)
	Restore(ctx context.Context, id uint, owner uint) (int64, error)
	// Delete permanently removes a trashed item and its subtree. Blob releases
	// happen after the metadata commit and never fail the call.
	Delete(ctx context.Context, id uint, owner uint) error
}

type TrashServiceImpl struct {
	itemRepository repository.ItemRepository
	blobStore      storage.BlobStore
	logService     LogService
}

func NewTrashService(itemRepository repository.ItemRepository, blobStore storage.BlobStore, logService LogService) TrashService {
	return &TrashServiceImpl{
		itemRepository: itemRepository,
		blobStore:      blobStore,
		logService:     logService,
	}
}

func (s *TrashServiceImpl) Trash(ctx context.Context, id uint, owner uint) (int64, error) {
	affected, err := s.itemRepository.Trash(ctx, id, owner)
	if err != nil {
		return 0, err
	}
	s.logService.Log.WithFields(logrus.Fields{
		"item":     id,
		"affected": affected,
	}).Debug("item trashed")
	return affected, nil
}

func (s *TrashServiceImpl) Restore(ctx context.Context, id uint, owner uint) (int64, error) {
	affected, err := s.itemRepository.Restore(ctx, id, owner)
	if err != nil {
		return 0, err
	}
	s.logService.Log.WithFields(logrus.Fields{
		"item":     id,
		"affected": affected,
	}).Debug("item restored")
	return affected, nil
}

func (s *TrashServiceImpl) Delete(ctx context.Context, id uint, owner uint) error {
	refs, err := s.itemRepository.DeleteSubtree(ctx, id, owner)
	if err != nil {
		return err
	}

	blobCtx := context.WithoutCancel(ctx)
	var failed int
	for _, ref := range refs {
		err := s.blobStore.Delete(blobCtx, ref)
		switch {
		case err == nil:
		case errors.Is(err, storage.ErrBlobNotFound):
			s.logService.Log.WithField("ref", ref).Debug("blob already gone")
		default:
			failed++
			s.logService.Log.WithFields(logrus.Fields{
				"item":  id,
				"ref":   ref,
				"error": err.Error(),
			}).Warn("failed to delete blob")
		}
	}
	s.logService.Log.WithFields(logrus.Fields{
		"item":        id,
		"blobs":       len(refs),
		"blobsFailed": failed,
	}).Info("item deleted")
	return nil
}
