package service

import (
	"context"
	"errors"
	"strings"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/microservices/http-api/validation"
)

type TitleService interface {
	List(ctx context.Context, filter dto.TitleFilter) (*dto.Paginated[dto.TitleResponse], error)
	Get(ctx context.Context, id int64) (*dto.TitleResponse, error)
	Create(ctx context.Context, req dto.TitleWriteDTO) (*dto.TitleWriteResponse, error)
	Update(ctx context.Context, id int64, req dto.TitleWriteDTO, partial bool) (*dto.TitleWriteResponse, error)
	Delete(ctx context.Context, id int64) error
}

type titleService struct {
	titleRepo    repository.TitleRepository
	categoryRepo repository.CategoryRepository
	genreRepo    repository.GenreRepository
	pageSize     int
}

func NewTitleService(
	titleRepo repository.TitleRepository,
	categoryRepo repository.CategoryRepository,
	genreRepo repository.GenreRepository,
	pageSize int,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
		pageSize:     pageSize,
	}
}

func (s *titleService) List(ctx context.Context, filter dto.TitleFilter) (*dto.Paginated[dto.TitleResponse], error) {
	filter.Normalize(s.pageSize)
	titles, total, err := s.titleRepo.List(ctx, repository.TitleQuery{
		Genre:    filter.Genre,
		Category: filter.Category,
		Year:     filter.Year,
		Name:     filter.Name,
		Offset:   filter.Offset(),
		Limit:    filter.PageSize,
	})
	if err != nil {
		return nil, err
	}
	data := make([]dto.TitleResponse, 0, len(titles))
	for i := range titles {
		data = append(data, dto.TitleFromModel(&titles[i]))
	}
	return dto.NewPaginated(data, total, filter.PageQuery), nil
}

func (s *titleService) Get(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	title, err := s.getTitle(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.TitleFromModel(title)
	return &resp, nil
}

func (s *titleService) Create(ctx context.Context, req dto.TitleWriteDTO) (*dto.TitleWriteResponse, error) {
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return nil, required("name")
	}
	if req.Year == nil {
		return nil, required("year")
	}

	title := &models.Title{Genres: []models.Genre{}}
	if err := s.merge(ctx, title, req); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, title); err != nil {
		return nil, err
	}

	if err := s.titleRepo.Create(ctx, title); err != nil {
		return nil, titleWriteError(err)
	}
	resp := dto.TitleWriteFromModel(title)
	return &resp, nil
}

// Update applies req to the title. A full update (PUT) requires name and
// year; genres and category keep their value when omitted either way.
func (s *titleService) Update(ctx context.Context, id int64, req dto.TitleWriteDTO, partial bool) (*dto.TitleWriteResponse, error) {
	if !partial {
		if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
			return nil, required("name")
		}
		if req.Year == nil {
			return nil, required("year")
		}
	}

	title, err := s.getTitle(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.merge(ctx, title, req); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, title); err != nil {
		return nil, err
	}

	if err := s.titleRepo.Update(ctx, title, req.Genre != nil); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, titleWriteError(err)
	}
	resp := dto.TitleWriteFromModel(title)
	return &resp, nil
}

func (s *titleService) Delete(ctx context.Context, id int64) error {
	if err := s.titleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTitleNotFound
		}
		return err
	}
	return nil
}

func (s *titleService) getTitle(ctx context.Context, id int64) (*models.Title, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}
	return title, nil
}

// merge copies the fields present in req onto title, resolving category and
// genre slugs against storage.
func (s *titleService) merge(ctx context.Context, title *models.Title, req dto.TitleWriteDTO) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return required("name")
		}
		title.Name = name
	}
	if req.Year != nil {
		if err := validation.ValidYear(*req.Year); err != nil {
			return err
		}
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = *req.Description
	}

	if req.Category != nil {
		if *req.Category == "" {
			title.Category, title.CategoryID = nil, nil
		} else {
			category, err := s.categoryRepo.FindBySlug(ctx, *req.Category)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return ErrUnknownCategory
				}
				return err
			}
			title.Category, title.CategoryID = category, &category.ID
		}
	}

	if req.Genre != nil {
		genres, err := s.resolveGenres(ctx, req.Genre)
		if err != nil {
			return err
		}
		title.Genres = genres
	}
	return nil
}

func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]models.Genre, error) {
	unique := make([]string, 0, len(slugs))
	seen := make(map[string]bool, len(slugs))
	for _, slug := range slugs {
		if !seen[slug] {
			seen[slug] = true
			unique = append(unique, slug)
		}
	}
	genres, err := s.genreRepo.FindBySlugs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(genres) != len(unique) {
		return nil, ErrUnknownGenre
	}
	return genres, nil
}

// ensureUnique enforces one title per (name, category). Titles without a
// category are not constrained, matching the unique index on NULLs.
func (s *titleService) ensureUnique(ctx context.Context, title *models.Title) error {
	if title.CategoryID == nil {
		return nil
	}
	exists, err := s.titleRepo.ExistsByNameAndCategory(ctx, title.Name, *title.CategoryID, title.ID)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateTitle
	}
	return nil
}

func titleWriteError(err error) error {
	switch {
	case repository.IsDuplicate(err, models.IdxTitlesNameCategory):
		return ErrDuplicateTitle
	case errors.Is(err, repository.ErrForeignKey):
		// category or genre deleted between lookup and write
		return ErrUnknownCategory
	}
	return err
}
