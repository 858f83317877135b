package repository

import (
	"Drivebox/internal/models"

	"gorm.io/gorm"
)

type ItemFilter int

const (
	// FilterNone lists the viewer's own active items.
	FilterNone ItemFilter = iota
	FilterMediaType
	FilterStarred
	FilterSharedWithMe
	FilterPrivate
	FilterTrashed
)

func (f ItemFilter) String() string {
	switch f {
	case FilterMediaType:
		return "mediaType"
	case FilterStarred:
		return "starred"
	case FilterSharedWithMe:
		return "shared"
	case FilterPrivate:
		return "private"
	case FilterTrashed:
		return "trashed"
	default:
		return "none"
	}
}

// ItemQuery is a typed listing request. Exactly one filter applies.
type ItemQuery struct {
	Viewer    uint
	Filter    ItemFilter
	MediaType models.MediaType
}

// Scope returns the single predicate for the query, usable with db.Scopes.
func (q ItemQuery) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch q.Filter {
		case FilterMediaType:
			return db.Where("items.owner_id = ? AND items.media_type = ? AND items.is_folder = ? AND items.is_trash = ?",
				q.Viewer, q.MediaType, false, false)
		case FilterStarred:
			return db.Where("items.owner_id = ? AND items.is_starred = ? AND items.is_trash = ?", q.Viewer, true, false)
		case FilterSharedWithMe:
			return db.Where("items.id IN (SELECT item_id FROM shared_grants WHERE user_id = ?)", q.Viewer).
				Where("items.is_private = ? AND items.is_trash = ?", true, false)
		case FilterPrivate:
			return db.Where("items.owner_id = ? AND items.is_private = ?", q.Viewer, true)
		case FilterTrashed:
			return db.Where("items.owner_id = ? AND items.is_trash = ?", q.Viewer, true)
		default:
			return db.Where("items.owner_id = ? AND items.is_trash = ?", q.Viewer, false)
		}
	}
}
