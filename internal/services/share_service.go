package services

import (
	"Drivebox/internal/errs"
	"Drivebox/internal/models"
	"Drivebox/internal/repository"
	"context"

	"github.com/sirupsen/logrus"
)

// ShareInput names the grantee by id or by email.
type ShareInput struct {
	UserID uint   `json:"user_id" validate:"required_without=Email"`
	Email  string `json:"email" validate:"omitempty,email"`
}

type ShareService interface {
	ToggleShare(ctx context.Context, itemID uint, owner uint, input ShareInput) (bool, error)
	RevokeAll(ctx context.Context, itemID uint, owner uint) (int64, error)
	SharedWithMe(ctx context.Context, viewer uint) ([]models.Item, error)
	SharedUnderFolder(ctx context.Context, folderID uint) ([]models.Item, error)
}

type ShareServiceImpl struct {
	itemRepository  repository.ItemRepository
	grantRepository repository.GrantRepository
	userRepository  repository.UserRepository
	logService      LogService
}

func NewShareService(
	itemRepository repository.ItemRepository,
	grantRepository repository.GrantRepository,
	userRepository repository.UserRepository,
	logService LogService,
) ShareService {
	return &ShareServiceImpl{
		itemRepository:  itemRepository,
		grantRepository: grantRepository,
		userRepository:  userRepository,
		logService:      logService,
	}
}

func (s *ShareServiceImpl) ToggleShare(ctx context.Context, itemID uint, owner uint, input ShareInput) (bool, error) {
	if err := validateInput(input); err != nil {
		return false, err
	}
	grantee := input.UserID
	if grantee == 0 {
		user, err := s.userRepository.FindByEmail(ctx, input.Email)
		if err != nil {
			return false, err
		}
		grantee = user.ID
	}
	if grantee == owner {
		return false, errs.Validation("an item cannot be shared with its owner")
	}

	shared, err := s.grantRepository.Toggle(ctx, owner, grantee, itemID)
	if err != nil {
		return false, err
	}
	s.logService.Log.WithFields(logrus.Fields{
		"item":    itemID,
		"grantee": grantee,
		"shared":  shared,
	}).Info("share toggled")
	return shared, nil
}

func (s *ShareServiceImpl) RevokeAll(ctx context.Context, itemID uint, owner uint) (int64, error) {
	revoked, err := s.grantRepository.RevokeAll(ctx, owner, itemID)
	if err != nil {
		return 0, err
	}
	s.logService.Log.WithFields(logrus.Fields{
		"item":    itemID,
		"revoked": revoked,
	}).Info("shares revoked")
	return revoked, nil
}

func (s *ShareServiceImpl) SharedWithMe(ctx context.Context, viewer uint) ([]models.Item, error) {
	return s.itemRepository.Search(ctx, repository.ItemQuery{Viewer: viewer, Filter: repository.FilterSharedWithMe})
}

// SharedUnderFolder lists the private, active children of a folder without
// requiring a grant or ownership from the caller.
func (s *ShareServiceImpl) SharedUnderFolder(ctx context.Context, folderID uint) ([]models.Item, error) {
	return s.itemRepository.FindPrivateUnderFolder(ctx, folderID)
}
