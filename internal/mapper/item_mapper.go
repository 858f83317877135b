package mapper

import (
	"Drivebox/internal/dto"
	"Drivebox/internal/models"
	"path/filepath"
	"strings"
)

func ToItemGetDTO(item *models.Item) *dto.ItemGetDTO {
	itemDTO := &dto.ItemGetDTO{
		ID:         item.ID,
		ParentID:   item.ParentID,
		OwnerID:    item.OwnerID,
		Name:       item.Name,
		IsFolder:   item.IsFolder,
		Size:       item.Size,
		IsPrivate:  item.IsPrivate,
		IsStarred:  item.IsStarred,
		IsTrash:    item.IsTrash,
		MediaType:  string(item.MediaType),
		Media:      item.Media,
		SHA256:     item.SHA256,
		PreviewURL: item.PreviewURL,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
		TrashedAt:  item.TrashedAt,
	}
	if !item.IsFolder {
		itemDTO.Extension = strings.TrimPrefix(filepath.Ext(item.Name), ".")
	}
	if item.Owner != nil {
		itemDTO.Owner = ToUserDTO(item.Owner)
	}
	for _, grant := range item.SharedWith {
		if grant.User != nil {
			itemDTO.SharedWith = append(itemDTO.SharedWith, *ToUserDTO(grant.User))
		}
	}
	return itemDTO
}

func ToItemsGetDTOs(items []models.Item) []dto.ItemGetDTO {
	itemsGetDTOs := make([]dto.ItemGetDTO, 0, len(items))
	for i := range items {
		itemsGetDTOs = append(itemsGetDTOs, *ToItemGetDTO(&items[i]))
	}
	return itemsGetDTOs
}

func ToUserDTO(user *models.User) *dto.UserDTO {
	return &dto.UserDTO{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Image: user.Image,
	}
}
