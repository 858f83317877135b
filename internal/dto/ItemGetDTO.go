package dto

import "time"

type ItemGetDTO struct {
	ID         uint       `json:"id"`
	ParentID   *uint      `json:"parent_id,omitempty"`
	OwnerID    uint       `json:"owner_id"`
	Owner      *UserDTO   `json:"owner,omitempty"`
	Name       string     `json:"name"`
	IsFolder   bool       `json:"is_folder"`
	Size       int64      `json:"size"`
	IsPrivate  bool       `json:"is_private"`
	IsStarred  bool       `json:"is_starred"`
	IsTrash    bool       `json:"is_trash"`
	MediaType  string     `json:"media_type,omitempty"`
	Media      *string    `json:"media,omitempty"`
	SHA256     string     `json:"sha256,omitempty"`
	PreviewURL string     `json:"preview_url"`
	Extension  string     `json:"extension,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	TrashedAt  *time.Time `json:"trashed_at,omitempty"`
	SharedWith []UserDTO  `json:"shared_with,omitempty"`
}

type UserDTO struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
}
