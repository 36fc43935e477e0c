package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/permission"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func strPtr(s string) *string { return &s }

// --- CALLERS ---

var (
	adminUser     = &models.User{ID: "admin-id", Username: "boss", Email: "boss@example.com", Role: models.RoleAdmin}
	moderatorUser = &models.User{ID: "mod-id", Username: "mod", Email: "mod@example.com", Role: models.RoleModerator}
	plainUser     = &models.User{ID: "user-id", Username: "reader", Email: "reader@example.com", Role: models.RoleUser}

	tokens = map[string]*models.User{
		"admin-token": adminUser,
		"mod-token":   moderatorUser,
		"user-token":  plainUser,
	}
)

// tokenAuth accepts the fixed tokens above and delegates the rest to the mock.
type tokenAuth struct {
	*MockAuthService
}

func (tokenAuth) ValidateToken(token string) (*service.Claims, error) {
	u, ok := tokens[token]
	if !ok {
		return nil, service.ErrInvalidToken
	}
	return &service.Claims{UserID: u.ID, Username: u.Username, Type: "access"}, nil
}

type tokenUsers struct{}

func (tokenUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range tokens {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, service.ErrUserNotFound
}

// --- MOCK SERVICES ---

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, username, email string) (*models.User, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) RefreshCode(ctx context.Context, username, email string) error {
	return m.Called(ctx, username, email).Error(0)
}

func (m *MockAuthService) Exchange(ctx context.Context, username, code string) (string, error) {
	args := m.Called(ctx, username, code)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context, filter dto.UserFilter) (*dto.Paginated[dto.UserResponse], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.UserResponse]), args.Error(1)
}

func (m *MockUserService) Create(ctx context.Context, req dto.CreateUserDTO) (*dto.UserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, username string) (*dto.UserResponse, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, username string, req dto.UpdateUserDTO, partial bool) (*dto.UserResponse, error) {
	args := m.Called(ctx, username, req, partial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, username string) error {
	return m.Called(ctx, username).Error(0)
}

func (m *MockUserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdateMe(ctx context.Context, userID string, req dto.UpdateUserDTO) (*dto.UserResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) List(ctx context.Context, filter dto.SlugFilter) (*dto.Paginated[dto.CategoryResponse], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.CategoryResponse]), args.Error(1)
}

func (m *MockCategoryService) Create(ctx context.Context, req dto.CreateCategoryDTO) (*dto.CategoryResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CategoryResponse), args.Error(1)
}

func (m *MockCategoryService) Delete(ctx context.Context, slug string) error {
	return m.Called(ctx, slug).Error(0)
}

type MockGenreService struct {
	mock.Mock
}

func (m *MockGenreService) List(ctx context.Context, filter dto.SlugFilter) (*dto.Paginated[dto.GenreResponse], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.GenreResponse]), args.Error(1)
}

func (m *MockGenreService) Create(ctx context.Context, req dto.CreateGenreDTO) (*dto.GenreResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.GenreResponse), args.Error(1)
}

func (m *MockGenreService) Delete(ctx context.Context, slug string) error {
	return m.Called(ctx, slug).Error(0)
}

type MockTitleService struct {
	mock.Mock
}

func (m *MockTitleService) List(ctx context.Context, filter dto.TitleFilter) (*dto.Paginated[dto.TitleResponse], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.TitleResponse]), args.Error(1)
}

func (m *MockTitleService) Get(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TitleResponse), args.Error(1)
}

func (m *MockTitleService) Create(ctx context.Context, req dto.TitleWriteDTO) (*dto.TitleWriteResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TitleWriteResponse), args.Error(1)
}

func (m *MockTitleService) Update(ctx context.Context, id int64, req dto.TitleWriteDTO, partial bool) (*dto.TitleWriteResponse, error) {
	args := m.Called(ctx, id, req, partial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TitleWriteResponse), args.Error(1)
}

func (m *MockTitleService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) List(ctx context.Context, titleID int64, page dto.PageQuery) (*dto.Paginated[dto.ReviewResponse], error) {
	args := m.Called(ctx, titleID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.ReviewResponse]), args.Error(1)
}

func (m *MockReviewService) Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, titleID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Create(ctx context.Context, caller *permission.Caller, titleID int64, req dto.ReviewWriteDTO) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, caller, titleID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, caller *permission.Caller, titleID, reviewID int64, req dto.ReviewWriteDTO, partial bool) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, caller, titleID, reviewID, req, partial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, caller *permission.Caller, titleID, reviewID int64) error {
	return m.Called(ctx, caller, titleID, reviewID).Error(0)
}

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) List(ctx context.Context, titleID, reviewID int64, page dto.PageQuery) (*dto.Paginated[dto.CommentResponse], error) {
	args := m.Called(ctx, titleID, reviewID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.CommentResponse]), args.Error(1)
}

func (m *MockCommentService) Get(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error) {
	args := m.Called(ctx, titleID, reviewID, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentResponse), args.Error(1)
}

func (m *MockCommentService) Create(ctx context.Context, caller *permission.Caller, titleID, reviewID int64, req dto.CommentWriteDTO) (*dto.CommentResponse, error) {
	args := m.Called(ctx, caller, titleID, reviewID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentResponse), args.Error(1)
}

func (m *MockCommentService) Update(ctx context.Context, caller *permission.Caller, titleID, reviewID, commentID int64, req dto.CommentWriteDTO) (*dto.CommentResponse, error) {
	args := m.Called(ctx, caller, titleID, reviewID, commentID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentResponse), args.Error(1)
}

func (m *MockCommentService) Delete(ctx context.Context, caller *permission.Caller, titleID, reviewID, commentID int64) error {
	return m.Called(ctx, caller, titleID, reviewID, commentID).Error(0)
}

// --- SETUP ---

type routeRegistrar interface {
	RegisterRoutes(router *gin.RouterGroup)
}

// setupRouter mounts h under /api/v1 behind the real authentication middleware.
func setupRouter(h routeRegistrar) *gin.Engine {
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(middleware.Authenticate(tokenAuth{&MockAuthService{}}, tokenUsers{}))
	h.RegisterRoutes(api)
	return r
}

// do sends a request with an optional JSON body and bearer token.
func do(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body
}

// callerFor matches the caller the middleware builds for u.
func callerFor(u *models.User) any {
	return mock.MatchedBy(func(c *permission.Caller) bool {
		return c != nil && c.UserID == u.ID
	})
}
