package repository

import (
	"context"

	"yamdb/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id int64) error
	GetByReview(ctx context.Context, reviewID, commentID int64) (*models.Comment, error)
	ListByReview(ctx context.Context, reviewID int64, offset, limit int) ([]models.Comment, int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return translate("create comment", r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error)
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).
		Model(comment).
		Omit(clause.Associations).
		Select("text").
		Updates(comment).Error
	return translate("update comment", err)
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if result.Error != nil {
		return translate("delete comment", result.Error)
	}
	if result.RowsAffected == 0 {
		return translate("delete comment", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *commentRepository) GetByReview(ctx context.Context, reviewID, commentID int64) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("id = ? AND review_id = ?", commentID, reviewID).
		First(&comment).Error
	if err != nil {
		return nil, translate("get comment", err)
	}
	return &comment, nil
}

// ListByReview returns comments oldest first, the way a thread reads.
func (r *commentRepository) ListByReview(ctx context.Context, reviewID int64, offset, limit int) ([]models.Comment, int64, error) {
	var comments []models.Comment
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("review_id = ?", reviewID).Count(&total).Error; err != nil {
		return nil, 0, translate("count comments", err)
	}
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("review_id = ?", reviewID).
		Order("pub_date ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, 0, translate("list comments", err)
	}
	return comments, total, nil
}
