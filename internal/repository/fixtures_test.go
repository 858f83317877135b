package repository

import (
	"Drivebox/database"
	"Drivebox/internal/config"
	"Drivebox/internal/models"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var previewCounter atomic.Uint64

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func testConfiguration() *config.Configuration {
	return &config.Configuration{Tree: config.TreeConfig{MaxDepth: config.DefaultMaxDepth}}
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Name: email}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newItem(owner uint, parentID *uint, name string, isFolder bool, size int64) *models.Item {
	item := &models.Item{
		Name:       name,
		IsFolder:   isFolder,
		ParentID:   parentID,
		OwnerID:    owner,
		Size:       size,
		PreviewURL: fmt.Sprintf("preview-%d", previewCounter.Add(1)),
	}
	if !isFolder {
		ref := "local://" + name
		item.Media = &ref
		item.MediaType = models.MediaTypeUnknown
	}
	return item
}

func createFolder(t *testing.T, repo ItemRepository, owner uint, parentID *uint, name string) *models.Item {
	t.Helper()
	folder := newItem(owner, parentID, name, true, 0)
	require.NoError(t, repo.CreateWithPropagation(ctx(), folder, false))
	return folder
}

func createFile(t *testing.T, repo ItemRepository, owner uint, parentID *uint, name string, size int64) *models.Item {
	t.Helper()
	file := newItem(owner, parentID, name, false, size)
	require.NoError(t, repo.CreateWithPropagation(ctx(), file, false))
	return file
}

func reload(t *testing.T, db *gorm.DB, id uint) models.Item {
	t.Helper()
	var item models.Item
	require.NoError(t, db.First(&item, id).Error)
	return item
}
