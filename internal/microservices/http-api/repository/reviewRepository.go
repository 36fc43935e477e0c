package repository

import (
	"context"

	"yamdb/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id int64) error
	GetByTitle(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
	ListByTitle(ctx context.Context, titleID int64, offset, limit int) ([]models.Review, int64, error)
	ExistsByAuthorAndTitle(ctx context.Context, authorID string, titleID int64) (bool, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create inserts the review; a second review by the same author on the same
// title fails with ErrDuplicate on idx_reviews_author_title.
func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return translate("create review", r.db.WithContext(ctx).Omit(clause.Associations).Create(review).Error)
}

// Update only touches text and score. Author, title and pub_date are fixed.
func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	err := r.db.WithContext(ctx).
		Model(review).
		Omit(clause.Associations).
		Select("text", "score").
		Updates(review).Error
	return translate("update review", err)
}

func (r *reviewRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Review{}, id)
	if result.Error != nil {
		return translate("delete review", result.Error)
	}
	if result.RowsAffected == 0 {
		return translate("delete review", gorm.ErrRecordNotFound)
	}
	return nil
}

// GetByTitle loads a review scoped to its title, so a review id under the
// wrong title is not found.
func (r *reviewRepository) GetByTitle(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("id = ? AND title_id = ?", reviewID, titleID).
		First(&review).Error
	if err != nil {
		return nil, translate("get review", err)
	}
	return &review, nil
}

// ListByTitle returns reviews newest first.
func (r *reviewRepository) ListByTitle(ctx context.Context, titleID int64, offset, limit int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Review{}).Where("title_id = ?", titleID).Count(&total).Error; err != nil {
		return nil, 0, translate("count reviews", err)
	}
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("title_id = ?", titleID).
		Order("pub_date DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, translate("list reviews", err)
	}
	return reviews, total, nil
}

func (r *reviewRepository) ExistsByAuthorAndTitle(ctx context.Context, authorID string, titleID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("author_id = ? AND title_id = ?", authorID, titleID).
		Count(&count).Error
	if err != nil {
		return false, translate("check review", err)
	}
	return count > 0, nil
}
