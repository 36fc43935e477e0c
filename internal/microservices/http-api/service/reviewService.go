package service

import (
	"context"
	"errors"
	"strings"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/permission"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/microservices/http-api/validation"
)

type ReviewService interface {
	List(ctx context.Context, titleID int64, page dto.PageQuery) (*dto.Paginated[dto.ReviewResponse], error)
	Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error)
	Create(ctx context.Context, caller *permission.Caller, titleID int64, req dto.ReviewWriteDTO) (*dto.ReviewResponse, error)
	Update(ctx context.Context, caller *permission.Caller, titleID, reviewID int64, req dto.ReviewWriteDTO, partial bool) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, caller *permission.Caller, titleID, reviewID int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
	pageSize   int
}

func NewReviewService(reviewRepo repository.ReviewRepository, titleRepo repository.TitleRepository, pageSize int) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
		pageSize:   pageSize,
	}
}

func (s *reviewService) List(ctx context.Context, titleID int64, page dto.PageQuery) (*dto.Paginated[dto.ReviewResponse], error) {
	if err := s.ensureTitle(ctx, titleID); err != nil {
		return nil, err
	}
	page.Normalize(s.pageSize)
	reviews, total, err := s.reviewRepo.ListByTitle(ctx, titleID, page.Offset(), page.PageSize)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		data = append(data, dto.ReviewFromModel(&reviews[i]))
	}
	return dto.NewPaginated(data, total, page), nil
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	review, err := s.getReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	resp := dto.ReviewFromModel(review)
	return &resp, nil
}

// Create adds the caller's review of a title. The existence check gives a
// clean error in the common case; the unique index catches concurrent creates.
func (s *reviewService) Create(ctx context.Context, caller *permission.Caller, titleID int64, req dto.ReviewWriteDTO) (*dto.ReviewResponse, error) {
	if err := permission.ModeratorOrOwner.CheckAction(permission.ActionCreate, caller); err != nil {
		return nil, err
	}
	if err := s.ensureTitle(ctx, titleID); err != nil {
		return nil, err
	}

	text, score, err := parseReview(req)
	if err != nil {
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsByAuthorAndTitle(ctx, caller.UserID, titleID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateReview
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: caller.UserID,
		Text:     text,
		Score:    score,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if repository.IsDuplicate(err, models.IdxReviewsAuthorTitle) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}

	// Reload with author data
	return s.Get(ctx, titleID, review.ID)
}

func (s *reviewService) Update(ctx context.Context, caller *permission.Caller, titleID, reviewID int64, req dto.ReviewWriteDTO, partial bool) (*dto.ReviewResponse, error) {
	review, err := s.getReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := permission.ModeratorOrOwner.CheckObject(permission.ActionUpdate, caller, review.AuthorID); err != nil {
		return nil, err
	}

	if !partial {
		text, score, err := parseReview(req)
		if err != nil {
			return nil, err
		}
		review.Text, review.Score = text, score
	} else {
		if req.Text != nil {
			if strings.TrimSpace(*req.Text) == "" {
				return nil, required("text")
			}
			review.Text = *req.Text
		}
		if len(req.Score) > 0 {
			score, err := validation.ParseScore(req.Score)
			if err != nil {
				return nil, err
			}
			review.Score = score
		}
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	resp := dto.ReviewFromModel(review)
	return &resp, nil
}

func (s *reviewService) Delete(ctx context.Context, caller *permission.Caller, titleID, reviewID int64) error {
	review, err := s.getReview(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if err := permission.ModeratorOrOwner.CheckObject(permission.ActionDelete, caller, review.AuthorID); err != nil {
		return err
	}
	if err := s.reviewRepo.Delete(ctx, review.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	return nil
}

func (s *reviewService) ensureTitle(ctx context.Context, titleID int64) error {
	exists, err := s.titleRepo.Exists(ctx, titleID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrTitleNotFound
	}
	return nil
}

// getReview resolves the review under its title, 404ing on either.
func (s *reviewService) getReview(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	if err := s.ensureTitle(ctx, titleID); err != nil {
		return nil, err
	}
	review, err := s.reviewRepo.GetByTitle(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

func parseReview(req dto.ReviewWriteDTO) (string, int, error) {
	if req.Text == nil || strings.TrimSpace(*req.Text) == "" {
		return "", 0, required("text")
	}
	if len(req.Score) == 0 {
		return "", 0, required("score")
	}
	score, err := validation.ParseScore(req.Score)
	if err != nil {
		return "", 0, err
	}
	return *req.Text, score, nil
}
