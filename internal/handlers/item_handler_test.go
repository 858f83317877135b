package handlers

import (
	"Drivebox/internal/dto"
	"Drivebox/internal/errs"
	"Drivebox/internal/models"
	"Drivebox/internal/repository"
	"Drivebox/internal/services"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func request(method, target string, body io.Reader, userID string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(UserIDHeader, userID)
	}
	return req
}

func TestIdentity_RejectsMissingOrMalformedUser(t *testing.T) {
	app, mocks := newTestApp()

	for _, userID := range []string{"", "abc", "0", "-4"} {
		resp, err := app.Test(request(http.MethodGet, "/api/items/count", nil, userID))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, userID)
	}
	mocks.AssertExpectations(t)
}

func TestGetItemByID_Scenarios(t *testing.T) {
	app, mocks := newTestApp()

	tests := []struct {
		name          string
		itemID        string
		setupMock     func()
		expectedCode  int
		checkResponse func(*testing.T, *http.Response)
	}{
		{
			name:   "Successfully get item",
			itemID: "1",
			setupMock: func() {
				mocks.items.On("GetItem", uint(1), uint(7)).Return(&models.Item{
					BaseModel: models.BaseModel{ID: 1},
					Name:      "report.pdf",
					OwnerID:   7,
				}, nil).Once()
			},
			expectedCode: http.StatusOK,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result dto.ItemGetDTO
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
				assert.Equal(t, uint(1), result.ID)
				assert.Equal(t, "report.pdf", result.Name)
				assert.Equal(t, "pdf", result.Extension)
			},
		},
		{
			name:   "Item not found",
			itemID: "999",
			setupMock: func() {
				mocks.items.On("GetItem", uint(999), uint(7)).Return(nil, errs.NotFound("item")).Once()
			},
			expectedCode: http.StatusNotFound,
			checkResponse: func(t *testing.T, resp *http.Response) {
				assert.JSONEq(t, `{"error":"item not found"}`, readBody(t, resp))
			},
		},
		{
			name:          "Invalid ID format",
			itemID:        "invalid",
			setupMock:     func() {},
			expectedCode:  http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp *http.Response) {},
		},
		{
			name:   "Unexpected failure hides detail",
			itemID: "2",
			setupMock: func() {
				mocks.items.On("GetItem", uint(2), uint(7)).Return(nil, errors.New("connection reset")).Once()
			},
			expectedCode: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, resp *http.Response) {
				assert.JSONEq(t, `{"error":"internal server error"}`, readBody(t, resp))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			resp, err := app.Test(request(http.MethodGet, "/api/items/"+tt.itemID, nil, "7"))

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedCode, resp.StatusCode)
			tt.checkResponse(t, resp)
		})
	}
	mocks.AssertExpectations(t)
}

func TestListItems_Scenarios(t *testing.T) {
	app, mocks := newTestApp()

	tests := []struct {
		name         string
		query        string
		setupMock    func()
		expectedCode int
	}{
		{
			name:  "Default listing",
			query: "",
			setupMock: func() {
				mocks.items.On("Search", repository.ItemQuery{Viewer: 3}).
					Return([]models.Item{{Name: "a"}, {Name: "b"}}, nil).Once()
			},
			expectedCode: http.StatusOK,
		},
		{
			name:  "Media type wins over other flags",
			query: "?trashed=true&mediaType=video",
			setupMock: func() {
				mocks.items.On("Search", repository.ItemQuery{
					Viewer: 3, Filter: repository.FilterMediaType, MediaType: models.MediaTypeVideo,
				}).Return([]models.Item{}, nil).Once()
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Unknown media type",
			query:        "?mediaType=spreadsheet",
			setupMock:    func() {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			resp, err := app.Test(request(http.MethodGet, "/api/items"+tt.query, nil, "3"))

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedCode, resp.StatusCode)
		})
	}
	mocks.AssertExpectations(t)
}

func TestCountItems(t *testing.T) {
	app, mocks := newTestApp()
	mocks.items.On("Counts", uint(3)).Return(repository.ItemCounts{Folders: 2, Files: 5, SharedWithMe: 1}, nil)

	resp, err := app.Test(request(http.MethodGet, "/api/items/count", nil, "3"))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"folders":2,"files":5,"private":0,"shared_by_me":0,"shared_with_me":1}`, readBody(t, resp))
}

func TestListChildren(t *testing.T) {
	app, mocks := newTestApp()
	folderID := uint(12)
	mocks.items.On("ListChildren", (*uint)(nil), uint(3)).Return([]models.Item{{Name: "root"}}, nil).Once()
	mocks.items.On("ListChildren", &folderID, uint(3)).Return(nil, errs.NotFound("folder")).Once()

	resp, err := app.Test(request(http.MethodGet, "/api/items/files-folders/", nil, "3"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(request(http.MethodGet, "/api/items/files-folders/12", nil, "3"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(request(http.MethodGet, "/api/items/files-folders/abc", nil, "3"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	mocks.AssertExpectations(t)
}

func TestCreateFolder_Scenarios(t *testing.T) {
	app, mocks := newTestApp()
	parentID := uint(4)

	tests := []struct {
		name         string
		path         string
		body         string
		setupMock    func()
		expectedCode int
	}{
		{
			name: "Create at root",
			path: "/api/items/folders/",
			body: `{"name":"A"}`,
			setupMock: func() {
				mocks.items.On("CreateFolder", uint(3), services.CreateFolderInput{Name: "A"}).
					Return(&models.Item{Name: "A", IsFolder: true}, nil).Once()
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "Create under parent",
			path: "/api/items/folders/4",
			body: `{"name":"B","size":10}`,
			setupMock: func() {
				mocks.items.On("CreateFolder", uint(3), services.CreateFolderInput{Name: "B", ParentID: &parentID, Size: 10}).
					Return(&models.Item{Name: "B", IsFolder: true}, nil).Once()
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "Name conflict",
			path: "/api/items/folders/",
			body: `{"name":"dup"}`,
			setupMock: func() {
				mocks.items.On("CreateFolder", uint(3), services.CreateFolderInput{Name: "dup"}).
					Return(nil, errs.Conflict("taken")).Once()
			},
			expectedCode: http.StatusConflict,
		},
		{
			name:         "Malformed body",
			path:         "/api/items/folders/",
			body:         `{"name":`,
			setupMock:    func() {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			resp, err := app.Test(request(http.MethodPost, tt.path, strings.NewReader(tt.body), "3"))

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedCode, resp.StatusCode)
		})
	}
	mocks.AssertExpectations(t)
}

func TestUpdateItem(t *testing.T) {
	app, mocks := newTestApp()
	mocks.items.On("EditItem", uint(5), uint(3), services.EditItemInput{Name: "new", IsPrivate: true}).
		Return(&models.Item{Name: "new", IsPrivate: true}, nil).Once()
	mocks.items.On("EditItem", uint(5), uint(3), services.EditItemInput{Name: ""}).
		Return(nil, errs.Validation("Name: validation failed on 'required' tag")).Once()

	resp, err := app.Test(request(http.MethodPut, "/api/items/5", strings.NewReader(`{"name":"new","is_private":true}`), "3"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(request(http.MethodPut, "/api/items/5", strings.NewReader(`{"name":""}`), "3"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	mocks.AssertExpectations(t)
}

func TestToggleStarAndPreview(t *testing.T) {
	app, mocks := newTestApp()
	mocks.items.On("ToggleStar", uint(5), uint(3)).Return(&models.Item{IsStarred: true}, nil).Once()
	mocks.items.On("GetPreview", "abc123", uint(3)).Return(&models.Item{PreviewURL: "abc123"}, nil).Once()

	resp, err := app.Test(request(http.MethodPut, "/api/items/5/starred", nil, "3"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var starred dto.ItemGetDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&starred))
	assert.True(t, starred.IsStarred)

	resp, err = app.Test(request(http.MethodGet, "/api/items/preview/abc123", nil, "3"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mocks.AssertExpectations(t)
}

func TestTrashRestoreDelete(t *testing.T) {
	app, mocks := newTestApp()
	mocks.trash.On("Trash", uint(5), uint(3)).Return(int64(4), nil).Once()
	mocks.trash.On("Trash", uint(5), uint(3)).Return(int64(0), errs.NotFound("item")).Once()
	mocks.trash.On("Restore", uint(5), uint(3)).Return(int64(4), nil).Once()
	mocks.trash.On("Delete", uint(5), uint(3)).Return(nil).Once()

	resp, err := app.Test(request(http.MethodPut, "/api/items/5/trash", nil, "3"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"item moved to trash","affected":4}`, readBody(t, resp))

	resp, err = app.Test(request(http.MethodPut, "/api/items/5/trash", nil, "3"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(request(http.MethodPut, "/api/items/5/restore", nil, "3"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(request(http.MethodDelete, "/api/items/5", nil, "3"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	mocks.AssertExpectations(t)
}

func TestMoveItem(t *testing.T) {
	app, mocks := newTestApp()
	target := uint(9)
	mocks.mover.On("MoveItem", uint(5), uint(3), services.MoveItemInput{ParentID: &target}).
		Return(nil, errs.Validation("cannot move into a descendant")).Once()
	mocks.mover.On("MoveItem", uint(5), uint(3), services.MoveItemInput{}).
		Return(&models.Item{Name: "moved"}, nil).Once()

	resp, err := app.Test(request(http.MethodPut, "/api/items/5/move", strings.NewReader(`{"parent_id":9}`), "3"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(request(http.MethodPut, "/api/items/5/move", strings.NewReader(`{"parent_id":null}`), "3"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mocks.AssertExpectations(t)
}
