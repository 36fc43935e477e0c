package handler_test

import (
	"net/http"
	"testing"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/handler"
	"yamdb/internal/microservices/http-api/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestListTitles_Anonymous(t *testing.T) {
	mockService := new(MockTitleService)
	r := setupRouter(handler.NewTitleHandler(mockService))

	rating := 7.5
	page := dto.NewPaginated([]dto.TitleResponse{{ID: 1, Name: "Dune", Year: 1965, Rating: &rating}}, 1, dto.PageQuery{Page: 1, PageSize: 10})
	mockService.On("List", mock.Anything, mock.MatchedBy(func(f dto.TitleFilter) bool {
		return f.Genre == "scifi" && f.Year != nil && *f.Year == 1965
	})).Return(page, nil)

	w := do(r, http.MethodGet, "/api/v1/titles?genre=scifi&year=1965", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(w)["data"].([]any)
	assert.Len(t, data, 1)
	assert.Equal(t, 7.5, data[0].(map[string]any)["rating"])
}

func TestListTitles_BadYear(t *testing.T) {
	r := setupRouter(handler.NewTitleHandler(new(MockTitleService)))

	w := do(r, http.MethodGet, "/api/v1/titles?year=soon", "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTitle_NotFound(t *testing.T) {
	mockService := new(MockTitleService)
	r := setupRouter(handler.NewTitleHandler(mockService))

	mockService.On("Get", mock.Anything, int64(42)).Return(nil, service.ErrTitleNotFound)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/titles/42", "", nil).Code)
}

func TestGetTitle_NonNumericID(t *testing.T) {
	mockService := new(MockTitleService)
	r := setupRouter(handler.NewTitleHandler(mockService))

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/titles/abc", "", nil).Code)
	mockService.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestCreateTitle_RequiresAdmin(t *testing.T) {
	mockService := new(MockTitleService)
	r := setupRouter(handler.NewTitleHandler(mockService))

	body := map[string]any{"name": "Dune", "year": 1965, "category": "books"}
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/api/v1/titles", "", body).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodPost, "/api/v1/titles", "mod-token", body).Code)
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateTitle_Success(t *testing.T) {
	mockService := new(MockTitleService)
	r := setupRouter(handler.NewTitleHandler(mockService))

	mockService.On("Create", mock.Anything, mock.MatchedBy(func(req dto.TitleWriteDTO) bool {
		return req.Name != nil && *req.Name == "Dune" && len(req.Genre) == 1 && req.Genre[0] == "scifi"
	})).Return(&dto.TitleWriteResponse{ID: 1, Name: "Dune", Year: 1965, Genre: []string{"scifi"}, Category: strPtr("books")}, nil)

	w := do(r, http.MethodPost, "/api/v1/titles", "admin-token", map[string]any{
		"name":     "Dune",
		"year":     1965,
		"genre":    []string{"scifi"},
		"category": "books",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(w)
	assert.Equal(t, "books", body["category"])
	assert.Equal(t, []any{"scifi"}, body["genre"])
}

func TestCreateTitle_DuplicateInCategory(t *testing.T) {
	mockService := new(MockTitleService)
	r := setupRouter(handler.NewTitleHandler(mockService))

	mockService.On("Create", mock.Anything, mock.Anything).Return(nil, service.ErrDuplicateTitle)

	w := do(r, http.MethodPost, "/api/v1/titles", "admin-token", map[string]any{
		"name": "Dune", "year": 1965, "category": "books",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "name", decode(w)["field"])
}

func TestCreateTitle_InvalidGenreSlug(t *testing.T) {
	mockService := new(MockTitleService)
	r := setupRouter(handler.NewTitleHandler(mockService))

	w := do(r, http.MethodPost, "/api/v1/titles", "admin-token", map[string]any{
		"name": "Dune", "year": 1965, "genre": []string{"sci fi!"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateTitle_PatchAndPut(t *testing.T) {
	mockService := new(MockTitleService)
	r := setupRouter(handler.NewTitleHandler(mockService))

	mockService.On("Update", mock.Anything, int64(1), mock.Anything, true).
		Return(&dto.TitleWriteResponse{ID: 1, Name: "Dune Messiah", Year: 1969}, nil)
	mockService.On("Update", mock.Anything, int64(1), mock.Anything, false).
		Return(&dto.TitleWriteResponse{ID: 1, Name: "Dune", Year: 1965}, nil)

	w := do(r, http.MethodPatch, "/api/v1/titles/1", "admin-token", map[string]any{"name": "Dune Messiah"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Dune Messiah", decode(w)["name"])

	w = do(r, http.MethodPut, "/api/v1/titles/1", "admin-token", map[string]any{"name": "Dune", "year": 1965})
	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestDeleteTitle(t *testing.T) {
	mockService := new(MockTitleService)
	r := setupRouter(handler.NewTitleHandler(mockService))

	mockService.On("Delete", mock.Anything, int64(3)).Return(nil)

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/api/v1/titles/3", "admin-token", nil).Code)
}
