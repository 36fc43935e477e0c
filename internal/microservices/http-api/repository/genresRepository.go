package repository

import (
	"context"

	"yamdb/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type GenreRepository interface {
	Create(ctx context.Context, g *models.Genre) error
	List(ctx context.Context, search string, offset, limit int) ([]models.Genre, int64, error)
	FindBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type genreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &genreRepository{db: db}
}

func (r *genreRepository) Create(ctx context.Context, g *models.Genre) error {
	return translate("create genre", r.db.WithContext(ctx).Create(g).Error)
}

func (r *genreRepository) List(ctx context.Context, search string, offset, limit int) ([]models.Genre, int64, error) {
	var list []models.Genre
	var total int64

	filtered := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.Genre{})
		if search != "" {
			p := containsPattern(search)
			q = q.Where("name ILIKE ? OR slug ILIKE ?", p, p)
		}
		return q
	}

	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, translate("count genres", err)
	}
	if err := filtered().Order("name ASC, id ASC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return nil, 0, translate("list genres", err)
	}
	return list, total, nil
}

// FindBySlugs returns the genres matching slugs. Unknown slugs are simply
// absent from the result.
func (r *genreRepository) FindBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error) {
	var list []models.Genre
	if len(slugs) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Order("name ASC").Find(&list).Error; err != nil {
		return nil, translate("find genres", err)
	}
	return list, nil
}

// DeleteBySlug removes the genre together with its title links.
func (r *genreRepository) DeleteBySlug(ctx context.Context, slug string) error {
	result := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&models.Genre{})
	if result.Error != nil {
		return translate("delete genre", result.Error)
	}
	if result.RowsAffected == 0 {
		return translate("delete genre", gorm.ErrRecordNotFound)
	}
	return nil
}
