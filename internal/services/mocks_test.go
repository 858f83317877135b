package services

import (
	"Drivebox/database"
	"Drivebox/internal/config"
	"Drivebox/internal/models"
	"Drivebox/internal/repository"
	"Drivebox/internal/storage"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Create(ctx context.Context, item *models.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) FindByID(ctx context.Context, id uint) (*models.Item, error) {
	args := m.Called(ctx, id)
	return itemOrNil(args.Get(0)), args.Error(1)
}

func (m *MockItemRepository) FindAll(ctx context.Context) ([]models.Item, error) {
	args := m.Called(ctx)
	return itemsOrNil(args.Get(0)), args.Error(1)
}

func (m *MockItemRepository) Update(ctx context.Context, item *models.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockItemRepository) CreateWithPropagation(ctx context.Context, item *models.Item, inheritPrivacy bool) error {
	args := m.Called(ctx, item, inheritPrivacy)
	return args.Error(0)
}

func (m *MockItemRepository) FindOwned(ctx context.Context, id uint, owner uint) (*models.Item, error) {
	args := m.Called(ctx, id, owner)
	return itemOrNil(args.Get(0)), args.Error(1)
}

func (m *MockItemRepository) FindOwnedFolder(ctx context.Context, id uint, owner uint) (*models.Item, error) {
	args := m.Called(ctx, id, owner)
	return itemOrNil(args.Get(0)), args.Error(1)
}

func (m *MockItemRepository) FindVisible(ctx context.Context, id uint, requester uint) (*models.Item, error) {
	args := m.Called(ctx, id, requester)
	return itemOrNil(args.Get(0)), args.Error(1)
}

func (m *MockItemRepository) FindChildren(ctx context.Context, parentID *uint, owner uint) ([]models.Item, error) {
	args := m.Called(ctx, parentID, owner)
	return itemsOrNil(args.Get(0)), args.Error(1)
}

func (m *MockItemRepository) FindPrivateUnderFolder(ctx context.Context, folderID uint) ([]models.Item, error) {
	args := m.Called(ctx, folderID)
	return itemsOrNil(args.Get(0)), args.Error(1)
}

func (m *MockItemRepository) FindByPreviewURL(ctx context.Context, previewURL string, viewer uint) (*models.Item, error) {
	args := m.Called(ctx, previewURL, viewer)
	return itemOrNil(args.Get(0)), args.Error(1)
}

func (m *MockItemRepository) FindExpiredTrashRoots(ctx context.Context, before time.Time) ([]models.Item, error) {
	args := m.Called(ctx, before)
	return itemsOrNil(args.Get(0)), args.Error(1)
}

func (m *MockItemRepository) GetAllDescendants(ctx context.Context, id uint) ([]models.Item, error) {
	args := m.Called(ctx, id)
	return itemsOrNil(args.Get(0)), args.Error(1)
}

func (m *MockItemRepository) UpdateNameAndPrivacy(ctx context.Context, id uint, owner uint, name string, isPrivate bool) (*models.Item, error) {
	args := m.Called(ctx, id, owner, name, isPrivate)
	return itemOrNil(args.Get(0)), args.Error(1)
}

func (m *MockItemRepository) CountsByOwner(ctx context.Context, owner uint) (repository.ItemCounts, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).(repository.ItemCounts), args.Error(1)
}

func (m *MockItemRepository) ToggleStar(ctx context.Context, id uint, owner uint) (*models.Item, error) {
	args := m.Called(ctx, id, owner)
	return itemOrNil(args.Get(0)), args.Error(1)
}

func (m *MockItemRepository) Trash(ctx context.Context, id uint, owner uint) (int64, error) {
	args := m.Called(ctx, id, owner)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemRepository) Restore(ctx context.Context, id uint, owner uint) (int64, error) {
	args := m.Called(ctx, id, owner)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemRepository) DeleteSubtree(ctx context.Context, id uint, owner uint) ([]string, error) {
	args := m.Called(ctx, id, owner)
	refs, _ := args.Get(0).([]string)
	return refs, args.Error(1)
}

func (m *MockItemRepository) Move(ctx context.Context, id uint, owner uint, newParentID *uint) (*models.Item, error) {
	args := m.Called(ctx, id, owner, newParentID)
	return itemOrNil(args.Get(0)), args.Error(1)
}

func (m *MockItemRepository) Search(ctx context.Context, query repository.ItemQuery) ([]models.Item, error) {
	args := m.Called(ctx, query)
	return itemsOrNil(args.Get(0)), args.Error(1)
}

func itemOrNil(v interface{}) *models.Item {
	item, _ := v.(*models.Item)
	return item
}

func itemsOrNil(v interface{}) []models.Item {
	items, _ := v.([]models.Item)
	return items
}

// recordingBlobStore keeps blobs in memory and records every call.
type recordingBlobStore struct {
	mutex     sync.Mutex
	blobs     map[string][]byte
	deleted   []string
	storeErr  error
	deleteErr map[string]error
	next      int
}

func newRecordingBlobStore() *recordingBlobStore {
	return &recordingBlobStore{blobs: map[string][]byte{}, deleteErr: map[string]error{}}
}

func (s *recordingBlobStore) Store(_ context.Context, r io.Reader, name string, _ string) (storage.Blob, error) {
	if s.storeErr != nil {
		return storage.Blob{}, s.storeErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return storage.Blob{}, err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.next++
	ref := fmt.Sprintf("mem://%d/%s", s.next, name)
	s.blobs[ref] = data
	return storage.Blob{Ref: ref, Size: int64(len(data)), SHA256: fmt.Sprintf("%064d", len(data))}, nil
}

func (s *recordingBlobStore) Delete(_ context.Context, ref string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.deleted = append(s.deleted, ref)
	if err, ok := s.deleteErr[ref]; ok {
		return err
	}
	if _, ok := s.blobs[ref]; !ok {
		return storage.ErrBlobNotFound
	}
	delete(s.blobs, ref)
	return nil
}

func (s *recordingBlobStore) Deleted() []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return append([]string(nil), s.deleted...)
}

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
	configuration := &config.Configuration{}
	config.ApplyDefaults(configuration)
	return configuration
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Name: email}
	require.NoError(t, db.Create(user).Error)
	return user
}

func reload(t *testing.T, db *gorm.DB, id uint) models.Item {
	t.Helper()
	var item models.Item
	require.NoError(t, db.First(&item, id).Error)
	return item
}

func ctx() context.Context {
	return context.Background()
}
