package cmd

import (
	"Drivebox/internal/handlers"
	"Drivebox/internal/services"
	"Drivebox/internal/storage"

	"gorm.io/gorm"
)

type Server struct {
	DB             *gorm.DB
	BlobStore      storage.BlobStore
	ItemHandler    *handlers.ItemHandler
	FileHandler    *handlers.FileHandler
	ShareHandler   *handlers.ShareHandler
	LogService     services.LogService
	JanitorService *services.Janitor
}

func NewServer(
	db *gorm.DB,
	blobStore storage.BlobStore,
	itemHandler *handlers.ItemHandler,
	fileHandler *handlers.FileHandler,
	shareHandler *handlers.ShareHandler,
	logService services.LogService,
	janitorService *services.Janitor,
) *Server {
	return &Server{
		DB:             db,
		BlobStore:      blobStore,
		ItemHandler:    itemHandler,
		FileHandler:    fileHandler,
		ShareHandler:   shareHandler,
		LogService:     logService,
		JanitorService: janitorService,
	}
}
