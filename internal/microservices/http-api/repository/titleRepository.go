package repository

import (
	"context"

	"yamdb/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ratingColumn computes the mean review score per title on read. Titles
// without reviews get NULL.
const ratingColumn = "(SELECT AVG(reviews.score) FROM reviews WHERE reviews.title_id = titles.id) AS rating"

// TitleQuery narrows a title listing. Zero values mean "no filter".
type TitleQuery struct {
	Genre    string // genre slug
	Category string // category slug
	Year     *int
	Name     string // substring, case-insensitive
	Offset   int
	Limit    int
}

type TitleRepository interface {
	List(ctx context.Context, q TitleQuery) ([]models.Title, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Title, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ExistsByNameAndCategory(ctx context.Context, name string, categoryID int64, excludeID int64) (bool, error)
	Create(ctx context.Context, t *models.Title) error
	Update(ctx context.Context, t *models.Title, replaceGenres bool) error
	Delete(ctx context.Context, id int64) error
}

type titleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

func (r *titleRepository) filtered(ctx context.Context, q TitleQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&models.Title{})
	if q.Genre != "" {
		db = db.Where("titles.id IN (?)",
			r.db.Table("genre_titles").
				Select("genre_titles.title_id").
				Joins("JOIN genres ON genres.id = genre_titles.genre_id").
				Where("genres.slug = ?", q.Genre))
	}
	if q.Category != "" {
		db = db.Where("titles.category_id IN (?)",
			r.db.Table("categories").Select("categories.id").Where("categories.slug = ?", q.Category))
	}
	if q.Year != nil {
		db = db.Where("titles.year = ?", *q.Year)
	}
	if q.Name != "" {
		db = db.Where("titles.name ILIKE ?", containsPattern(q.Name))
	}
	return db
}

func withTitleRelations(db *gorm.DB) *gorm.DB {
	return db.
		Select("titles.*, " + ratingColumn).
		Preload("Category").
		Preload("Genres", func(db *gorm.DB) *gorm.DB {
			return db.Order("genres.name ASC")
		})
}

// List returns titles ordered by name with rating, category and genres loaded.
func (r *titleRepository) List(ctx context.Context, q TitleQuery) ([]models.Title, int64, error) {
	var titles []models.Title
	var total int64

	if err := r.filtered(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, translate("count titles", err)
	}
	err := withTitleRelations(r.filtered(ctx, q)).
		Order("titles.name ASC, titles.id ASC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&titles).Error
	if err != nil {
		return nil, 0, translate("list titles", err)
	}
	return titles, total, nil
}

func (r *titleRepository) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	var t models.Title
	if err := withTitleRelations(r.db.WithContext(ctx)).First(&t, "titles.id = ?", id).Error; err != nil {
		return nil, translate("get title", err)
	}
	return &t, nil
}

func (r *titleRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Title{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, translate("check title", err)
	}
	return count > 0, nil
}

// ExistsByNameAndCategory checks the (name, category) uniqueness rule.
// excludeID skips the title being updated; pass 0 on create.
func (r *titleRepository) ExistsByNameAndCategory(ctx context.Context, name string, categoryID int64, excludeID int64) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Title{}).Where("name = ? AND category_id = ?", name, categoryID)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, translate("check title name", err)
	}
	return count > 0, nil
}

// Create inserts the title and links its genres in one transaction.
// Category and genres must already exist.
func (r *titleRepository) Create(ctx context.Context, t *models.Title) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(t).Error; err != nil {
			return err
		}
		return linkGenres(tx, t.ID, t.Genres)
	})
	return translate("create title", err)
}

// Update writes the scalar columns and category. Genre links are rewritten
// only when replaceGenres is set.
func (r *titleRepository) Update(ctx context.Context, t *models.Title, replaceGenres bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(t).
			Omit(clause.Associations).
			Select("name", "year", "description", "category_id").
			Updates(t)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if !replaceGenres {
			return nil
		}
		if err := tx.Where("title_id = ?", t.ID).Delete(&models.GenreTitle{}).Error; err != nil {
			return err
		}
		return linkGenres(tx, t.ID, t.Genres)
	})
	return translate("update title", err)
}

// Delete removes the title. Reviews, their comments and genre links cascade.
func (r *titleRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Title{}, id)
	if result.Error != nil {
		return translate("delete title", result.Error)
	}
	if result.RowsAffected == 0 {
		return translate("delete title", gorm.ErrRecordNotFound)
	}
	return nil
}

func linkGenres(tx *gorm.DB, titleID int64, genres []models.Genre) error {
	if len(genres) == 0 {
		return nil
	}
	seen := make(map[int64]bool, len(genres))
	links := make([]models.GenreTitle, 0, len(genres))
	for _, g := range genres {
		if seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		links = append(links, models.GenreTitle{TitleID: titleID, GenreID: g.ID})
	}
	return tx.Create(&links).Error
}
