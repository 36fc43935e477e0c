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

func TestListComments(t *testing.T) {
	mockService := new(MockCommentService)
	r := setupRouter(handler.NewCommentHandler(mockService))

	page := dto.NewPaginated([]dto.CommentResponse{{ID: 1, Text: "agreed", Author: "mod"}}, 1, dto.PageQuery{Page: 1, PageSize: 10})
	mockService.On("List", mock.Anything, int64(1), int64(5), mock.Anything).Return(page, nil)

	w := do(r, http.MethodGet, "/api/v1/titles/1/reviews/5/comments", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(w)["data"], 1)
}

func TestCreateComment(t *testing.T) {
	mockService := new(MockCommentService)
	r := setupRouter(handler.NewCommentHandler(mockService))

	mockService.On("Create", mock.Anything, callerFor(plainUser), int64(1), int64(5), mock.MatchedBy(func(req dto.CommentWriteDTO) bool {
		return req.Text != nil && *req.Text == "agreed"
	})).Return(&dto.CommentResponse{ID: 9, Text: "agreed", Author: "reader"}, nil)

	w := do(r, http.MethodPost, "/api/v1/titles/1/reviews/5/comments", "user-token", map[string]string{"text": "agreed"})

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestCreateComment_ReviewNotFound(t *testing.T) {
	mockService := new(MockCommentService)
	r := setupRouter(handler.NewCommentHandler(mockService))

	mockService.On("Create", mock.Anything, mock.Anything, int64(1), int64(99), mock.Anything).Return(nil, service.ErrReviewNotFound)

	w := do(r, http.MethodPost, "/api/v1/titles/1/reviews/99/comments", "user-token", map[string]string{"text": "hi"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateComment_PutAndPatchShareHandler(t *testing.T) {
	mockService := new(MockCommentService)
	r := setupRouter(handler.NewCommentHandler(mockService))

	mockService.On("Update", mock.Anything, callerFor(adminUser), int64(1), int64(5), int64(9), mock.Anything).
		Return(&dto.CommentResponse{ID: 9, Text: "edited", Author: "reader"}, nil).Twice()

	assert.Equal(t, http.StatusOK, do(r, http.MethodPatch, "/api/v1/titles/1/reviews/5/comments/9", "admin-token", map[string]string{"text": "edited"}).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPut, "/api/v1/titles/1/reviews/5/comments/9", "admin-token", map[string]string{"text": "edited"}).Code)
	mockService.AssertExpectations(t)
}

func TestDeleteComment_Anonymous(t *testing.T) {
	mockService := new(MockCommentService)
	r := setupRouter(handler.NewCommentHandler(mockService))

	w := do(r, http.MethodDelete, "/api/v1/titles/1/reviews/5/comments/9", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
