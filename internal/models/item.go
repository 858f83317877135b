package models

import (
	"strings"
	"time"
)

type MediaType string

const (
	MediaTypePDF     MediaType = "PDF"
	MediaTypeImage   MediaType = "IMAGE"
	MediaTypeVideo   MediaType = "VIDEO"
	MediaTypeOffice  MediaType = "OFFICE"
	MediaTypeUnknown MediaType = "UNKNOWN"
)

// MediaTypeFromContentType classifies a MIME type the way uploads are tagged.
func MediaTypeFromContentType(contentType string) MediaType {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case strings.HasPrefix(contentType, "application/pdf"):
		return MediaTypePDF
	case strings.HasPrefix(contentType, "image/"):
		return MediaTypeImage
	case strings.HasPrefix(contentType, "video/"):
		return MediaTypeVideo
	case strings.HasPrefix(contentType, "application/vnd."):
		return MediaTypeOffice
	default:
		return MediaTypeUnknown
	}
}

func ParseMediaType(s string) (MediaType, bool) {
	switch mt := MediaType(strings.ToUpper(s)); mt {
	case MediaTypePDF, MediaTypeImage, MediaTypeVideo, MediaTypeOffice, MediaTypeUnknown:
		return mt, true
	}
	return "", false
}

type Item struct {
	BaseModel
	Name      string    `gorm:"type:varchar(255);not null;index" json:"name"`
	IsFolder  bool      `gorm:"not null" json:"is_folder"`
	ParentID  *uint     `gorm:"index" json:"parent_id,omitempty"`
	OwnerID   uint      `gorm:"index;not null" json:"owner_id"`
	Owner     *User     `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Size      int64     `gorm:"not null" json:"size"`
	IsPrivate bool      `gorm:"not null" json:"is_private"`
	IsStarred bool      `gorm:"not null" json:"is_starred"`
	IsTrash   bool      `gorm:"index;not null" json:"is_trash"`
	MediaType MediaType `gorm:"type:varchar(16)" json:"media_type,omitempty"`
	Media     *string   `gorm:"type:text" json:"media,omitempty"`
	SHA256    string    `gorm:"type:char(64)" json:"sha256,omitempty"`
	// PreviewURL is an opaque token, not a URL.
	PreviewURL string `gorm:"type:varchar(64);uniqueIndex;not null" json:"preview_url"`

	// TrashRootID points at the item whose trash call flagged this row.
	TrashRootID *uint      `gorm:"index" json:"-"`
	TrashedAt   *time.Time `json:"trashed_at,omitempty"`

	SharedWith []SharedGrant `gorm:"foreignKey:ItemID" json:"shared_with,omitempty"`
}
