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

type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// RegisterRoutes registers review routes nested under a title
func (h *ReviewHandler) RegisterRoutes(router *gin.RouterGroup) {
	reviews := router.Group("/titles/:title_id/reviews", middleware.Authorize(permission.ModeratorOrOwner))
	{
		reviews.GET("", h.List)
		reviews.POST("", h.Create)
		reviews.GET("/:review_id", h.Get)
		reviews.PATCH("/:review_id", h.Update)
		reviews.PUT("/:review_id", h.Update)
		reviews.DELETE("/:review_id", h.Delete)
	}
}

// GET /api/v1/titles/:title_id/reviews
func (h *ReviewHandler) List(c *gin.Context) {
	titleID, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	var page dto.PageQuery
	if !bindQuery(c, &page) {
		return
	}

	reviews, err := h.reviewService.List(c.Request.Context(), titleID, page)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// GET /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Get(c *gin.Context) {
	titleID, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}

	review, err := h.reviewService.Get(c.Request.Context(), titleID, reviewID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// Create posts the caller's review; one per title per author
// POST /api/v1/titles/:title_id/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	titleID, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	var req dto.ReviewWriteDTO
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), middleware.CallerFrom(c), titleID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// PUT, PATCH /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Update(c *gin.Context) {
	titleID, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}
	var req dto.ReviewWriteDTO
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.Update(c.Request.Context(), middleware.CallerFrom(c), titleID, reviewID, req, isPartial(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// DELETE /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Delete(c *gin.Context) {
	titleID, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), middleware.CallerFrom(c), titleID, reviewID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
