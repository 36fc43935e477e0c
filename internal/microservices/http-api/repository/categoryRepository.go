package repository

import (
	"context"

	"yamdb/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, c *models.Category) error
	List(ctx context.Context, search string, offset, limit int) ([]models.Category, int64, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, c *models.Category) error {
	return translate("create category", r.db.WithContext(ctx).Create(c).Error)
}

// List orders by name; search matches a substring of name or slug.
func (r *categoryRepository) List(ctx context.Context, search string, offset, limit int) ([]models.Category, int64, error) {
	var list []models.Category
	var total int64

	filtered := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.Category{})
		if search != "" {
			p := containsPattern(search)
			q = q.Where("name ILIKE ? OR slug ILIKE ?", p, p)
		}
		return q
	}

	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, translate("count categories", err)
	}
	if err := filtered().Order("name ASC, id ASC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return nil, 0, translate("list categories", err)
	}
	return list, total, nil
}

func (r *categoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var c models.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error; err != nil {
		return nil, translate("find category", err)
	}
	return &c, nil
}

// DeleteBySlug removes the category; titles keep existing with a NULL category.
func (r *categoryRepository) DeleteBySlug(ctx context.Context, slug string) error {
	result := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&models.Category{})
	if result.Error != nil {
		return translate("delete category", result.Error)
	}
	if result.RowsAffected == 0 {
		return translate("delete category", gorm.ErrRecordNotFound)
	}
	return nil
}
