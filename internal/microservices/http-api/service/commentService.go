package service

import (
	"context"
	"errors"
	"strings"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/permission"
	"yamdb/internal/microservices/http-api/repository"
)

type CommentService interface {
	List(ctx context.Context, titleID, reviewID int64, page dto.PageQuery) (*dto.Paginated[dto.CommentResponse], error)
	Get(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error)
	Create(ctx context.Context, caller *permission.Caller, titleID, reviewID int64, req dto.CommentWriteDTO) (*dto.CommentResponse, error)
	Update(ctx context.Context, caller *permission.Caller, titleID, reviewID, commentID int64, req dto.CommentWriteDTO) (*dto.CommentResponse, error)
	Delete(ctx context.Context, caller *permission.Caller, titleID, reviewID, commentID int64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
	titleRepo   repository.TitleRepository
	pageSize    int
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	reviewRepo repository.ReviewRepository,
	titleRepo repository.TitleRepository,
	pageSize int,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		reviewRepo:  reviewRepo,
		titleRepo:   titleRepo,
		pageSize:    pageSize,
	}
}

func (s *commentService) List(ctx context.Context, titleID, reviewID int64, page dto.PageQuery) (*dto.Paginated[dto.CommentResponse], error) {
	if err := s.ensureReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	page.Normalize(s.pageSize)
	comments, total, err := s.commentRepo.ListByReview(ctx, reviewID, page.Offset(), page.PageSize)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		data = append(data, dto.CommentFromModel(&comments[i]))
	}
	return dto.NewPaginated(data, total, page), nil
}

func (s *commentService) Get(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error) {
	comment, err := s.getComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	resp := dto.CommentFromModel(comment)
	return &resp, nil
}

func (s *commentService) Create(ctx context.Context, caller *permission.Caller, titleID, reviewID int64, req dto.CommentWriteDTO) (*dto.CommentResponse, error) {
	if err := permission.ModeratorOrOwner.CheckAction(permission.ActionCreate, caller); err != nil {
		return nil, err
	}
	if err := s.ensureReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	if req.Text == nil || strings.TrimSpace(*req.Text) == "" {
		return nil, required("text")
	}

	comment := &models.Comment{
		ReviewID: reviewID,
		AuthorID: caller.UserID,
		Text:     *req.Text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	// Reload with author data
	return s.Get(ctx, titleID, reviewID, comment.ID)
}

// Update replaces the comment text; PUT and PATCH behave the same since text
// is the only writable field.
func (s *commentService) Update(ctx context.Context, caller *permission.Caller, titleID, reviewID, commentID int64, req dto.CommentWriteDTO) (*dto.CommentResponse, error) {
	comment, err := s.getComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := permission.ModeratorOrOwner.CheckObject(permission.ActionUpdate, caller, comment.AuthorID); err != nil {
		return nil, err
	}
	if req.Text == nil || strings.TrimSpace(*req.Text) == "" {
		return nil, required("text")
	}

	comment.Text = *req.Text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	resp := dto.CommentFromModel(comment)
	return &resp, nil
}

func (s *commentService) Delete(ctx context.Context, caller *permission.Caller, titleID, reviewID, commentID int64) error {
	comment, err := s.getComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if err := permission.ModeratorOrOwner.CheckObject(permission.ActionDelete, caller, comment.AuthorID); err != nil {
		return err
	}
	if err := s.commentRepo.Delete(ctx, comment.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	return nil
}

// ensureReview checks the title exists and owns the review.
func (s *commentService) ensureReview(ctx context.Context, titleID, reviewID int64) error {
	exists, err := s.titleRepo.Exists(ctx, titleID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrTitleNotFound
	}
	if _, err := s.reviewRepo.GetByTitle(ctx, titleID, reviewID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	return nil
}

func (s *commentService) getComment(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error) {
	if err := s.ensureReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByReview(ctx, reviewID, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}
