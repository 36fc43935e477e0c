package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"yamdb/internal/config"
	"yamdb/internal/mail"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/microservices/http-api/validation"

	"github.com/golang-jwt/jwt/v5"
)

const (
	confirmationSubject = "Confirmation code for your API token"
	accessTokenType     = "access"
)

// Claims carried by access tokens.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Signup(ctx context.Context, username, email string) (*models.User, error)
	RefreshCode(ctx context.Context, username, email string) error
	Exchange(ctx context.Context, username, code string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo       repository.UserRepository
	codes          *CodeGenerator
	throttle       CodeThrottle
	mailer         mail.Mailer
	jwtSecret      string
	accessTokenTTL time.Duration
	now            func() time.Time
}

func NewAuthService(
	userRepo repository.UserRepository,
	codes *CodeGenerator,
	throttle CodeThrottle,
	mailer mail.Mailer,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:       userRepo,
		codes:          codes,
		throttle:       throttle,
		mailer:         mailer,
		jwtSecret:      cfg.JWTSecret,
		accessTokenTTL: cfg.AccessTokenTTL,
		now:            time.Now,
	}
}

// Signup registers an unverified user and mails a confirmation code. Signing
// up again with the exact same username and email just resends a code.
func (s *authService) Signup(ctx context.Context, username, email string) (*models.User, error) {
	if err := validation.Username(username); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.FindByUsernameAndEmail(ctx, username, email)
	switch {
	case err == nil:
		if err := s.sendCode(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	if err := ensureUniqueUser(ctx, s.userRepo, username, email, ""); err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Role:     models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, userWriteError(err)
	}
	slog.InfoContext(ctx, "user_signed_up", "user_id", user.ID, "username", user.Username)

	if err := s.sendCode(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// RefreshCode mails a new code to a user identified by both username and email.
func (s *authService) RefreshCode(ctx context.Context, username, email string) error {
	user, err := s.userRepo.FindByUsernameAndEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return s.sendCode(ctx, user)
}

// Exchange trades a confirmation code for an access token. A successful
// exchange records the login, which invalidates the code.
func (s *authService) Exchange(ctx context.Context, username, code string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	if !s.codes.Check(user, code) {
		return "", ErrInvalidConfirmationCode
	}

	now := s.now()
	if err := s.userRepo.TouchLastLogin(ctx, user.ID, user.LastLogin, now); err != nil {
		// a concurrent exchange of the same code stamped first
		if errors.Is(err, repository.ErrStale) {
			return "", ErrInvalidConfirmationCode
		}
		return "", err
	}
	user.LastLogin = &now

	return s.generateAccessToken(user)
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != accessTokenType || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Type:     accessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) sendCode(ctx context.Context, user *models.User) error {
	allowed, err := s.throttle.Allow(ctx, user.ID)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrCodeThrottled
	}

	body := fmt.Sprintf("Your confirmation code: %q\n\nSend it with your username to /api/v1/auth/token to get an access token.", s.codes.Make(user))
	if err := s.mailer.Send(ctx, user.Email, confirmationSubject, body); err != nil {
		return fmt.Errorf("dispatch confirmation code: %w", err)
	}
	return nil
}

// ensureUniqueUser is the friendly pre-check; the unique indexes remain the
// backstop for concurrent writes. selfID excludes the user being updated.
func ensureUniqueUser(ctx context.Context, repo repository.UserRepository, username, email, selfID string) error {
	if username != "" {
		u, err := repo.FindByUsername(ctx, username)
		if err == nil && u.ID != selfID {
			return ErrDuplicateUsername
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}
	if email != "" {
		u, err := repo.FindByEmail(ctx, email)
		if err == nil && u.ID != selfID {
			return ErrDuplicateEmail
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}
	return nil
}

// userWriteError maps unique index violations on users to field errors.
func userWriteError(err error) error {
	switch {
	case repository.IsDuplicate(err, models.IdxUsersUsername):
		return ErrDuplicateUsername
	case repository.IsDuplicate(err, models.IdxUsersEmail):
		return ErrDuplicateEmail
	case errors.Is(err, repository.ErrNotFound):
		return ErrUserNotFound
	}
	return err
}
