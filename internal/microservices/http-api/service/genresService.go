package service

import (
	"context"
	"errors"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
)

type GenreService interface {
	List(ctx context.Context, filter dto.SlugFilter) (*dto.Paginated[dto.GenreResponse], error)
	Create(ctx context.Context, req dto.CreateGenreDTO) (*dto.GenreResponse, error)
	Delete(ctx context.Context, slug string) error
}

type genreService struct {
	genreRepo repository.GenreRepository
	pageSize  int
}

func NewGenreService(genreRepo repository.GenreRepository, pageSize int) GenreService {
	return &genreService{genreRepo: genreRepo, pageSize: pageSize}
}

func (s *genreService) List(ctx context.Context, filter dto.SlugFilter) (*dto.Paginated[dto.GenreResponse], error) {
	filter.Normalize(s.pageSize)
	list, total, err := s.genreRepo.List(ctx, filter.Search, filter.Offset(), filter.PageSize)
	if err != nil {
		return nil, err
	}
	data := make([]dto.GenreResponse, 0, len(list))
	for _, g := range list {
		data = append(data, dto.GenreFromModel(g))
	}
	return dto.NewPaginated(data, total, filter.PageQuery), nil
}

func (s *genreService) Create(ctx context.Context, req dto.CreateGenreDTO) (*dto.GenreResponse, error) {
	genre := &models.Genre{Name: req.Name, Slug: req.Slug}
	if err := s.genreRepo.Create(ctx, genre); err != nil {
		if repository.IsDuplicate(err, models.IdxGenresSlug) {
			return nil, ErrDuplicateGenre
		}
		return nil, err
	}
	resp := dto.GenreFromModel(*genre)
	return &resp, nil
}

func (s *genreService) Delete(ctx context.Context, slug string) error {
	if err := s.genreRepo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrGenreNotFound
		}
		return err
	}
	return nil
}
