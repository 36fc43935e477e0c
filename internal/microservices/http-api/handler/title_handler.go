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

type TitleHandler struct {
	titleService service.TitleService
}

func NewTitleHandler(titleService service.TitleService) *TitleHandler {
	return &TitleHandler{titleService: titleService}
}

// RegisterRoutes registers title routes; writes are admin only
func (h *TitleHandler) RegisterRoutes(router *gin.RouterGroup) {
	titles := router.Group("/titles", middleware.Authorize(permission.Admin))
	{
		titles.GET("", h.List)
		titles.POST("", h.Create)
		titles.GET("/:title_id", h.Get)
		titles.PATCH("/:title_id", h.Update)
		titles.PUT("/:title_id", h.Update)
		titles.DELETE("/:title_id", h.Delete)
	}
}

// List returns titles with their rating
// GET /api/v1/titles?genre=&category=&year=&name=
func (h *TitleHandler) List(c *gin.Context) {
	var filter dto.TitleFilter
	if !bindQuery(c, &filter) {
		return
	}

	page, err := h.titleService.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/v1/titles/:title_id
func (h *TitleHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "title_id")
	if !ok {
		return
	}

	title, err := h.titleService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, title)
}

// POST /api/v1/titles
func (h *TitleHandler) Create(c *gin.Context) {
	var req dto.TitleWriteDTO
	if !bindJSON(c, &req) {
		return
	}

	title, err := h.titleService.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, title)
}

// PUT, PATCH /api/v1/titles/:title_id
func (h *TitleHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "title_id")
	if !ok {
		return
	}

	var req dto.TitleWriteDTO
	if !bindJSON(c, &req) {
		return
	}

	title, err := h.titleService.Update(c.Request.Context(), id, req, isPartial(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, title)
}

// DELETE /api/v1/titles/:title_id
func (h *TitleHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "title_id")
	if !ok {
		return
	}

	if err := h.titleService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
