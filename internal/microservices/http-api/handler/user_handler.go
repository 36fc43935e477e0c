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

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes registers user routes. /users/me is open to any
// authenticated user, everything else is admin only.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		me := users.Group("/me", middleware.Authorize(permission.Authenticated))
		me.GET("", h.GetMe)
		me.PATCH("", h.UpdateMe)

		admin := users.Group("", middleware.Authorize(permission.AdminOnly))
		admin.GET("", h.List)
		admin.POST("", h.Create)
		admin.GET("/:username", h.Get)
		admin.PATCH("/:username", h.Update)
		admin.PUT("/:username", h.Update)
		admin.DELETE("/:username", h.Delete)
	}
}

// List returns users, optionally searched by username
// GET /api/v1/users?search=
func (h *UserHandler) List(c *gin.Context) {
	var filter dto.UserFilter
	if !bindQuery(c, &filter) {
		return
	}

	page, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Create adds a user
// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserDTO
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// GET /api/v1/users/:username
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update changes any user, role included
// PUT, PATCH /api/v1/users/:username
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserDTO
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Update(c.Request.Context(), c.Param("username"), req, isPartial(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DELETE /api/v1/users/:username
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userService.Delete(c.Request.Context(), c.Param("username")); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetMe returns the caller's own profile
// GET /api/v1/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	user := middleware.UserFrom(c)
	if user == nil {
		response.Error(c, permission.ErrUnauthenticated)
		return
	}
	c.JSON(http.StatusOK, dto.UserFromModel(user))
}

// UpdateMe edits the caller's own profile; role cannot be changed here
// PATCH /api/v1/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	caller := middleware.CallerFrom(c)
	if caller == nil {
		response.Error(c, permission.ErrUnauthenticated)
		return
	}

	var req dto.UpdateUserDTO
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateMe(c.Request.Context(), caller.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
