package handlers

import (
	"Drivebox/internal/models"
	"Drivebox/internal/repository"
	"Drivebox/internal/services"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) CreateFolder(ctx context.Context, owner uint, input services.CreateFolderInput) (*models.Item, error) {
	args := m.Called(owner, input)
	return itemOrNil(args.Get(0)), args.Error(1)
}

func (m *MockItemService) GetItem(ctx context.Context, id uint, requester uint) (*models.Item, error) {
	args := m.Called(id, requester)
	return itemOrNil(args.Get(0)), args.Error(1)
}

func (m *MockItemService) ListChildren(ctx context.Context, parentID *uint, owner uint) ([]models.Item, error) {
	args := m.Called(parentID, owner)
	return itemsOrNil(args.Get(0)), args.Error(1)
}

func (m *MockItemService) EditItem(ctx context.Context, id uint, owner uint, input services.EditItemInput) (*models.Item, error) {
	args := m.Called(id, owner, input)
	return itemOrNil(args.Get(0)), args.Error(1)
}

func (m *MockItemService) Counts(ctx context.Context, owner uint) (repository.ItemCounts, error) {
	args := m.Called(owner)
	return args.Get(0).(repository.ItemCounts), args.Error(1)
}

func (m *MockItemService) Search(ctx context.Context, query repository.ItemQuery) ([]models.Item, error) {
	args := m.Called(query)
	return itemsOrNil(args.Get(0)), args.Error(1)
}

func (m *MockItemService) ToggleStar(ctx context.Context, id uint, owner uint) (*models.Item, error) {
	args := m.Called(id, owner)
	return itemOrNil(args.Get(0)), args.Error(1)
}

func (m *MockItemService) GetPreview(ctx context.Context, previewURL string, viewer uint) (*models.Item, error) {
	args := m.Called(previewURL, viewer)
	return itemOrNil(args.Get(0)), args.Error(1)
}

type MockTrashService struct {
	mock.Mock
}

func (m *MockTrashService) Trash(ctx context.Context, id uint, owner uint) (int64, error) {
	args := m.Called(id, owner)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTrashService) Restore(ctx context.Context, id uint, owner uint) (int64, error) {
	args := m.Called(id, owner)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTrashService) Delete(ctx context.Context, id uint, owner uint) error {
	args := m.Called(id, owner)
	return args.Error(0)
}

type MockMoverService struct {
	mock.Mock
}

func (m *MockMoverService) MoveItem(ctx context.Context, id uint, owner uint, input services.MoveItemInput) (*models.Item, error) {
	args := m.Called(id, owner, input)
	return itemOrNil(args.Get(0)), args.Error(1)
}

type MockFileService struct {
	mock.Mock
}

func (m *MockFileService) Upload(ctx context.Context, owner uint, input services.UploadInput) (*models.Item, error) {
	args := m.Called(owner, input)
	return itemOrNil(args.Get(0)), args.Error(1)
}

type MockShareService struct {
	mock.Mock
}

func (m *MockShareService) ToggleShare(ctx context.Context, itemID uint, owner uint, input services.ShareInput) (bool, error) {
	args := m.Called(itemID, owner, input)
	return args.Bool(0), args.Error(1)
}

func (m *MockShareService) RevokeAll(ctx context.Context, itemID uint, owner uint) (int64, error) {
	args := m.Called(itemID, owner)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockShareService) SharedWithMe(ctx context.Context, viewer uint) ([]models.Item, error) {
	args := m.Called(viewer)
	return itemsOrNil(args.Get(0)), args.Error(1)
}

func (m *MockShareService) SharedUnderFolder(ctx context.Context, folderID uint) ([]models.Item, error) {
	args := m.Called(folderID)
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

type testMocks struct {
	items *MockItemService
	trash *MockTrashService
	mover *MockMoverService
	files *MockFileService
	share *MockShareService
}

func (m testMocks) AssertExpectations(t *testing.T) {
	m.items.AssertExpectations(t)
	m.trash.AssertExpectations(t)
	m.mover.AssertExpectations(t)
	m.files.AssertExpectations(t)
	m.share.AssertExpectations(t)
}

// newTestApp wires the handlers onto the same paths the router uses.
func newTestApp() (*fiber.App, testMocks) {
	mocks := testMocks{
		items: new(MockItemService),
		trash: new(MockTrashService),
		mover: new(MockMoverService),
		files: new(MockFileService),
		share: new(MockShareService),
	}
	logService := services.NewDiscardLogService()
	itemHandler := NewItemHandler(mocks.items, mocks.trash, mocks.mover, logService)
	fileHandler := NewFileHandler(mocks.files, logService)
	shareHandler := NewShareHandler(mocks.share, logService)

	app := fiber.New()
	router := app.Group("/api", Identity()).Group("/items")
	router.Get("/", itemHandler.ListItems)
	router.Get("/count", itemHandler.CountItems)
	router.Get("/files-folders/*", itemHandler.ListChildren)
	router.Get("/shared/*", shareHandler.ListShared)
	router.Get("/preview/:previewUrl", itemHandler.GetPreview)
	router.Post("/files/*", fileHandler.UploadFile)
	router.Post("/folders/*", itemHandler.CreateFolder)
	router.Get("/:itemId", itemHandler.GetItemByID)
	router.Put("/:itemId", itemHandler.UpdateItem)
	router.Put("/:itemId/starred", itemHandler.ToggleStar)
	router.Put("/:itemId/share", shareHandler.ToggleShare)
	router.Delete("/:itemId/share", shareHandler.RevokeAll)
	router.Put("/:itemId/trash", itemHandler.TrashItem)
	router.Put("/:itemId/restore", itemHandler.RestoreItem)
	router.Put("/:itemId/move", itemHandler.MoveItem)
	router.Delete("/:itemId", itemHandler.DeleteItem)
	return app, mocks
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}
