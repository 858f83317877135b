//go:build wireinject
// +build wireinject

package main

import (
	"Drivebox/cmd"
	"Drivebox/database"
	"Drivebox/internal/config"
	"Drivebox/internal/handlers"
	"Drivebox/internal/repository"
	"Drivebox/internal/services"
	"Drivebox/internal/storage"
	"context"

	"github.com/google/wire"
)

func InitializeServer(ctx context.Context, configuration *config.Configuration) (*cmd.Server, error) {
	wire.Build(
		cmd.NewServer,
		database.SetupDatabase,
		storage.NewBlobStore,
		repository.NewItemRepository,
		repository.NewGrantRepository,
		repository.NewUserRepository,
		services.NewLogService,
		services.NewItemService,
		services.NewFileService,
		services.NewTrashService,
		services.NewShareService,
		services.NewMoverService,
		services.NewJanitorService,
		handlers.NewItemHandler,
		handlers.NewFileHandler,
		handlers.NewShareHandler,
	)
	return nil, nil
}
