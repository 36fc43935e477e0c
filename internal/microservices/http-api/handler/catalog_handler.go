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

type CategoryHandler struct {
	categoryService service.CategoryService
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// RegisterRoutes registers category routes; writes are admin only
func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	categories := router.Group("/categories", middleware.Authorize(permission.Admin))
	{
		categories.GET("", h.List)
		categories.POST("", h.Create)
		categories.DELETE("/:slug", h.Delete)
	}
}

// GET /api/v1/categories?search=
func (h *CategoryHandler) List(c *gin.Context) {
	var filter dto.SlugFilter
	if !bindQuery(c, &filter) {
		return
	}

	page, err := h.categoryService.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// POST /api/v1/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryDTO
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// DELETE /api/v1/categories/:slug
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.categoryService.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type GenreHandler struct {
	genreService service.GenreService
}

func NewGenreHandler(genreService service.GenreService) *GenreHandler {
	return &GenreHandler{genreService: genreService}
}

// RegisterRoutes registers genre routes; writes are admin only
func (h *GenreHandler) RegisterRoutes(router *gin.RouterGroup) {
	genres := router.Group("/genres", middleware.Authorize(permission.Admin))
	{
		genres.GET("", h.List)
		genres.POST("", h.Create)
		genres.DELETE("/:slug", h.Delete)
	}
}

// GET /api/v1/genres?search=
func (h *GenreHandler) List(c *gin.Context) {
	var filter dto.SlugFilter
	if !bindQuery(c, &filter) {
		return
	}

	page, err := h.genreService.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// POST /api/v1/genres
func (h *GenreHandler) Create(c *gin.Context) {
	var req dto.CreateGenreDTO
	if !bindJSON(c, &req) {
		return
	}

	genre, err := h.genreService.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, genre)
}

// DELETE /api/v1/genres/:slug
func (h *GenreHandler) Delete(c *gin.Context) {
	if err := h.genreService.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
