package service

import (
	"context"
	"errors"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/microservices/http-api/validation"
)

type UserService interface {
	List(ctx context.Context, filter dto.UserFilter) (*dto.Paginated[dto.UserResponse], error)
	Create(ctx context.Context, req dto.CreateUserDTO) (*dto.UserResponse, error)
	Get(ctx context.Context, username string) (*dto.UserResponse, error)
	Update(ctx context.Context, username string, req dto.UpdateUserDTO, partial bool) (*dto.UserResponse, error)
	Delete(ctx context.Context, username string) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateMe(ctx context.Context, userID string, req dto.UpdateUserDTO) (*dto.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	pageSize int
}

func NewUserService(userRepo repository.UserRepository, pageSize int) UserService {
	return &userService{userRepo: userRepo, pageSize: pageSize}
}

func (s *userService) List(ctx context.Context, filter dto.UserFilter) (*dto.Paginated[dto.UserResponse], error) {
	filter.Normalize(s.pageSize)
	users, total, err := s.userRepo.List(ctx, filter.Search, filter.Offset(), filter.PageSize)
	if err != nil {
		return nil, err
	}
	data := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		data = append(data, dto.UserFromModel(&users[i]))
	}
	return dto.NewPaginated(data, total, filter.PageQuery), nil
}

// Create is the admin path: the role may be chosen, the user still has to
// confirm through the code flow to get a token.
func (s *userService) Create(ctx context.Context, req dto.CreateUserDTO) (*dto.UserResponse, error) {
	if err := validation.Username(req.Username); err != nil {
		return nil, err
	}
	if err := ensureUniqueUser(ctx, s.userRepo, req.Username, req.Email, ""); err != nil {
		return nil, err
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      models.RoleUser,
	}
	if req.Role != nil {
		role := models.Role(*req.Role)
		if !role.Valid() {
			return nil, validation.ErrInvalidRole
		}
		user.Role = role
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, userWriteError(err)
	}
	resp := dto.UserFromModel(user)
	return &resp, nil
}

func (s *userService) Get(ctx context.Context, username string) (*dto.UserResponse, error) {
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	resp := dto.UserFromModel(user)
	return &resp, nil
}

// Update is the admin path. A full update (PUT) must carry username and email.
func (s *userService) Update(ctx context.Context, username string, req dto.UpdateUserDTO, partial bool) (*dto.UserResponse, error) {
	if !partial {
		if req.Username == nil {
			return nil, required("username")
		}
		if req.Email == nil {
			return nil, required("email")
		}
	}
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, user, req, true)
}

func (s *userService) Delete(ctx context.Context, username string) error {
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return err
	}
	return userWriteError(s.userRepo.Delete(ctx, user.ID))
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, userWriteError(err)
	}
	return user, nil
}

// UpdateMe updates the caller's own profile. Role is read-only here and a
// role in the payload is silently ignored.
func (s *userService) UpdateMe(ctx context.Context, userID string, req dto.UpdateUserDTO) (*dto.UserResponse, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, user, req, false)
}

func (s *userService) apply(ctx context.Context, user *models.User, req dto.UpdateUserDTO, allowRole bool) (*dto.UserResponse, error) {
	var newUsername, newEmail string
	if req.Username != nil && *req.Username != user.Username {
		if err := validation.Username(*req.Username); err != nil {
			return nil, err
		}
		newUsername = *req.Username
	}
	if req.Email != nil && *req.Email != user.Email {
		newEmail = *req.Email
	}
	if err := ensureUniqueUser(ctx, s.userRepo, newUsername, newEmail, user.ID); err != nil {
		return nil, err
	}

	if newUsername != "" {
		user.Username = newUsername
	}
	if newEmail != "" {
		user.Email = newEmail
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if allowRole && req.Role != nil {
		role := models.Role(*req.Role)
		if !role.Valid() {
			return nil, validation.ErrInvalidRole
		}
		user.Role = role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, userWriteError(err)
	}
	resp := dto.UserFromModel(user)
	return &resp, nil
}

func (s *userService) findByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
