package repository

import (
	"context"
	"fmt"
	"time"

	"yamdb/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsernameAndEmail(ctx context.Context, username, email string) (*models.User, error)
	List(ctx context.Context, search string, offset, limit int) ([]models.User, int64, error)
	TouchLastLogin(ctx context.Context, id string, prev *time.Time, at time.Time) error
}

// userRepository is the GORM implementation of UserRepository.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository in a GORM implementation
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return translate("create user", r.db.WithContext(ctx).Create(user).Error)
}

// Update writes every profile column of user. Role and superuser flag are
// included; callers decide which fields a request may touch.
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).
		Model(user).
		Select("username", "email", "first_name", "last_name", "bio", "role", "is_superuser").
		Updates(user).Error
	return translate("update user", err)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	if result.Error != nil {
		return translate("delete user", result.Error)
	}
	if result.RowsAffected == 0 {
		return translate("delete user", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	// return nil on error, a zero-value user would look like a hit
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate("find user by id", err)
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate("find user by username", err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate("find user by email", err)
	}
	return &user, nil
}

func (r *userRepository) FindByUsernameAndEmail(ctx context.Context, username, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("username = ? AND email = ?", username, email).
		First(&user).Error
	if err != nil {
		return nil, translate("find user by username and email", err)
	}
	return &user, nil
}

// List returns users ordered by username; search matches a username substring.
func (r *userRepository) List(ctx context.Context, search string, offset, limit int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	filtered := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.User{})
		if search != "" {
			q = q.Where("username ILIKE ?", containsPattern(search))
		}
		return q
	}

	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, translate("count users", err)
	}
	if err := filtered().Order("username ASC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, translate("list users", err)
	}
	return users, total, nil
}

// TouchLastLogin stamps last_login only while it still holds prev, so of two
// concurrent stamps from the same observed state exactly one wins. The loser
// gets ErrStale.
func (r *userRepository) TouchLastLogin(ctx context.Context, id string, prev *time.Time, at time.Time) error {
	q := r.db.WithContext(ctx).Model(&models.User{})
	if prev == nil {
		q = q.Where("id = ? AND last_login IS NULL", id)
	} else {
		q = q.Where("id = ? AND last_login = ?", id, *prev)
	}
	result := q.Update("last_login", at)
	if result.Error != nil {
		return translate("touch last login", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("touch last login: %w", ErrStale)
	}
	return nil
}
