package service

import (
	"context"
	"errors"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
)

type CategoryService interface {
	List(ctx context.Context, filter dto.SlugFilter) (*dto.Paginated[dto.CategoryResponse], error)
	Create(ctx context.Context, req dto.CreateCategoryDTO) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, slug string) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	pageSize     int
}

func NewCategoryService(categoryRepo repository.CategoryRepository, pageSize int) CategoryService {
	return &categoryService{categoryRepo: categoryRepo, pageSize: pageSize}
}

func (s *categoryService) List(ctx context.Context, filter dto.SlugFilter) (*dto.Paginated[dto.CategoryResponse], error) {
	filter.Normalize(s.pageSize)
	list, total, err := s.categoryRepo.List(ctx, filter.Search, filter.Offset(), filter.PageSize)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		data = append(data, dto.CategoryFromModel(c))
	}
	return dto.NewPaginated(data, total, filter.PageQuery), nil
}

func (s *categoryService) Create(ctx context.Context, req dto.CreateCategoryDTO) (*dto.CategoryResponse, error) {
	category := &models.Category{Name: req.Name, Slug: req.Slug}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if repository.IsDuplicate(err, models.IdxCategoriesSlug) {
			return nil, ErrDuplicateCategory
		}
		return nil, err
	}
	resp := dto.CategoryFromModel(*category)
	return &resp, nil
}

func (s *categoryService) Delete(ctx context.Context, slug string) error {
	if err := s.categoryRepo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}
