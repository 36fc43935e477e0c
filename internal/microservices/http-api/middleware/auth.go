package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/permission"
	"yamdb/internal/microservices/http-api/service"
	"yamdb/pkg/apperror"
	"yamdb/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	callerKey = "caller"
	userKey   = "user"
)

var errBadAuthHeader = apperror.New(http.StatusUnauthorized, "invalid authorization header format", apperror.ErrUnauthenticated)

// UserLoader resolves the user a token was issued to.
type UserLoader interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Authenticate is a Gin middleware for JWT authentication of API requests.
// A request without an Authorization header continues as anonymous; a header
// that is present but invalid is rejected. The user is reloaded on every
// request so role changes apply immediately.
func Authenticate(authService service.AuthService, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		// Extract token (format: "Bearer <token>")
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.AbortWithError(c, errBadAuthHeader)
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			response.AbortWithError(c, err)
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				// token outlived its user
				response.AbortWithError(c, service.ErrInvalidToken)
				return
			}
			response.AbortWithError(c, err)
			return
		}

		c.Set(userKey, user)
		c.Set(callerKey, permission.CallerFromUser(user))
		c.Next()
	}
}

// Authorize runs the first, resource-independent phase of policy for the
// request method. Ownership checks happen in the services once the target
// object is loaded.
func Authorize(policy permission.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		action := permission.ActionFor(c.Request.Method)
		if err := policy.CheckAction(action, CallerFrom(c)); err != nil {
			response.AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

// CallerFrom returns the authenticated caller, or nil for anonymous requests.
func CallerFrom(c *gin.Context) *permission.Caller {
	v, ok := c.Get(callerKey)
	if !ok {
		return nil
	}
	caller, _ := v.(*permission.Caller)
	return caller
}

// UserFrom returns the authenticated user, or nil for anonymous requests.
func UserFrom(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
