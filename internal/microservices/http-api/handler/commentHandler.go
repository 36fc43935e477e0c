package handler

import (
	"net/http"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/permission"
	"yamdb/internal/microservices/http-api/service"
	"yamdb/pkg/response"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// RegisterRoutes registers comment routes nested under a review
func (h *CommentHandler) RegisterRoutes(router *gin.RouterGroup) {
	comments := router.Group("/titles/:title_id/reviews/:review_id/comments", middleware.Authorize(permission.ModeratorOrOwner))
	{
		comments.GET("", h.List)
		comments.POST("", h.Create)
		comments.GET("/:comment_id", h.Get)
		comments.PATCH("/:comment_id", h.Update)
		comments.PUT("/:comment_id", h.Update)
		comments.DELETE("/:comment_id", h.Delete)
	}
}

// reviewPath parses the title and review ids shared by every comment route.
func reviewPath(c *gin.Context) (titleID, reviewID int64, ok bool) {
	if titleID, ok = paramID(c, "title_id"); !ok {
		return
	}
	reviewID, ok = paramID(c, "review_id")
	return
}

// GET /api/v1/titles/:title_id/reviews/:review_id/comments
func (h *CommentHandler) List(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}
	var page dto.PageQuery
	if !bindQuery(c, &page) {
		return
	}

	comments, err := h.commentService.List(c.Request.Context(), titleID, reviewID, page)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// GET /api/v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Get(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}
	commentID, ok := paramID(c, "comment_id")
	if !ok {
		return
	}

	comment, err := h.commentService.Get(c.Request.Context(), titleID, reviewID, commentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// POST /api/v1/titles/:title_id/reviews/:review_id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}
	var req dto.CommentWriteDTO
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), middleware.CallerFrom(c), titleID, reviewID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// PUT, PATCH /api/v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Update(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}
	commentID, ok := paramID(c, "comment_id")
	if !ok {
		return
	}
	var req dto.CommentWriteDTO
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.commentService.Update(c.Request.Context(), middleware.CallerFrom(c), titleID, reviewID, commentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// DELETE /api/v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Delete(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}
	commentID, ok := paramID(c, "comment_id")
	if !ok {
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), middleware.CallerFrom(c), titleID, reviewID, commentID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
