package service

import (
	"context"
	"encoding/json"
	"testing"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/permission"
	"yamdb/internal/microservices/http-api/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	author    = &permission.Caller{UserID: "author-id", Username: "alice", Role: models.RoleUser}
	stranger  = &permission.Caller{UserID: "stranger-id", Username: "bob", Role: models.RoleUser}
	moderator = &permission.Caller{UserID: "mod-id", Username: "mod", Role: models.RoleModerator}
)

func strPtr(s string) *string { return &s }

func reviewReq(text string, score string) dto.ReviewWriteDTO {
	return dto.ReviewWriteDTO{Text: strPtr(text), Score: json.RawMessage(score)}
}

func storedReview() *models.Review {
	return &models.Review{
		ID:       3,
		TitleID:  1,
		AuthorID: author.UserID,
		Text:     "great",
		Score:    8,
		Author:   &models.User{ID: author.UserID, Username: author.Username},
	}
}

func newReviewFixture() (*MockReviewRepository, *MockTitleRepository, ReviewService) {
	reviews := new(MockReviewRepository)
	titles := new(MockTitleRepository)
	return reviews, titles, NewReviewService(reviews, titles, 10)
}

func TestCreateReview_Success(t *testing.T) {
	reviews, titles, svc := newReviewFixture()
	ctx := context.Background()

	titles.On("Exists", ctx, int64(1)).Return(true, nil)
	reviews.On("ExistsByAuthorAndTitle", ctx, author.UserID, int64(1)).Return(false, nil)
	reviews.On("Create", ctx, mock.MatchedBy(func(r *models.Review) bool {
		return r.AuthorID == author.UserID && r.TitleID == 1 && r.Score == 8
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Review).ID = 3
	}).Return(nil)
	reviews.On("GetByTitle", ctx, int64(1), int64(3)).Return(storedReview(), nil)

	resp, err := svc.Create(ctx, author, 1, reviewReq("great", "8"))

	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Author)
	assert.Equal(t, 8, resp.Score)
	reviews.AssertExpectations(t)
}

func TestCreateReview_SecondReviewRejected(t *testing.T) {
	reviews, titles, svc := newReviewFixture()
	ctx := context.Background()

	titles.On("Exists", ctx, int64(1)).Return(true, nil)
	reviews.On("ExistsByAuthorAndTitle", ctx, author.UserID, int64(1)).Return(true, nil)

	_, err := svc.Create(ctx, author, 1, reviewReq("again", "5"))

	assert.ErrorIs(t, err, ErrDuplicateReview)
	reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// The pre-check passes for both of two concurrent requests; the loser is
// stopped by the unique index and still gets the domain error.
func TestCreateReview_RaceCaughtByIndex(t *testing.T) {
	reviews, titles, svc := newReviewFixture()
	ctx := context.Background()

	titles.On("Exists", ctx, int64(1)).Return(true, nil)
	reviews.On("ExistsByAuthorAndTitle", ctx, author.UserID, int64(1)).Return(false, nil)
	reviews.On("Create", ctx, mock.Anything).Return(duplicateErr(models.IdxReviewsAuthorTitle))

	_, err := svc.Create(ctx, author, 1, reviewReq("again", "5"))

	assert.ErrorIs(t, err, ErrDuplicateReview)
}

func TestCreateReview_TitleMissing(t *testing.T) {
	reviews, titles, svc := newReviewFixture()
	ctx := context.Background()
	titles.On("Exists", ctx, int64(99)).Return(false, nil)

	_, err := svc.Create(ctx, author, 99, reviewReq("text", "5"))

	assert.ErrorIs(t, err, ErrTitleNotFound)
	reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateReview_Anonymous(t *testing.T) {
	_, _, svc := newReviewFixture()

	_, err := svc.Create(context.Background(), nil, 1, reviewReq("text", "5"))

	assert.ErrorIs(t, err, permission.ErrUnauthenticated)
}

func TestCreateReview_ScoreValidation(t *testing.T) {
	ctx := context.Background()

	for _, score := range []string{"0", "11", "1.5", `"abc"`, "null"} {
		t.Run("reject "+score, func(t *testing.T) {
			_, titles, svc := newReviewFixture()
			titles.On("Exists", ctx, int64(1)).Return(true, nil)

			_, err := svc.Create(ctx, author, 1, reviewReq("text", score))
			assert.ErrorIs(t, err, validation.ErrInvalidScore)
		})
	}

	for _, score := range []string{"1", "10"} {
		t.Run("accept "+score, func(t *testing.T) {
			reviews, titles, svc := newReviewFixture()
			titles.On("Exists", ctx, int64(1)).Return(true, nil)
			reviews.On("ExistsByAuthorAndTitle", ctx, author.UserID, int64(1)).Return(false, nil)
			reviews.On("Create", ctx, mock.Anything).Return(nil)
			reviews.On("GetByTitle", ctx, int64(1), int64(0)).Return(storedReview(), nil)

			_, err := svc.Create(ctx, author, 1, reviewReq("text", score))
			assert.NoError(t, err)
		})
	}

	t.Run("missing score", func(t *testing.T) {
		_, titles, svc := newReviewFixture()
		titles.On("Exists", ctx, int64(1)).Return(true, nil)

		_, err := svc.Create(ctx, author, 1, dto.ReviewWriteDTO{Text: strPtr("text")})
		assert.ErrorContains(t, err, "score is required")
	})
}

func TestUpdateReview_Permissions(t *testing.T) {
	ctx := context.Background()

	t.Run("stranger is denied", func(t *testing.T) {
		reviews, titles, svc := newReviewFixture()
		titles.On("Exists", ctx, int64(1)).Return(true, nil)
		reviews.On("GetByTitle", ctx, int64(1), int64(3)).Return(storedReview(), nil)

		_, err := svc.Update(ctx, stranger, 1, 3, dto.ReviewWriteDTO{Text: strPtr("hijack")}, true)

		assert.ErrorIs(t, err, permission.ErrPermissionDenied)
		reviews.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("author may patch", func(t *testing.T) {
		reviews, titles, svc := newReviewFixture()
		titles.On("Exists", ctx, int64(1)).Return(true, nil)
		reviews.On("GetByTitle", ctx, int64(1), int64(3)).Return(storedReview(), nil)
		reviews.On("Update", ctx, mock.Anything).Return(nil)

		resp, err := svc.Update(ctx, author, 1, 3, dto.ReviewWriteDTO{Score: json.RawMessage("10")}, true)

		require.NoError(t, err)
		assert.Equal(t, 10, resp.Score)
		assert.Equal(t, "great", resp.Text)
	})

	t.Run("put needs every field", func(t *testing.T) {
		reviews, titles, svc := newReviewFixture()
		titles.On("Exists", ctx, int64(1)).Return(true, nil)
		reviews.On("GetByTitle", ctx, int64(1), int64(3)).Return(storedReview(), nil)

		_, err := svc.Update(ctx, author, 1, 3, dto.ReviewWriteDTO{Score: json.RawMessage("10")}, false)

		assert.ErrorContains(t, err, "text is required")
	})
}

func TestDeleteReview(t *testing.T) {
	ctx := context.Background()

	t.Run("moderator may delete any review", func(t *testing.T) {
		reviews, titles, svc := newReviewFixture()
		titles.On("Exists", ctx, int64(1)).Return(true, nil)
		reviews.On("GetByTitle", ctx, int64(1), int64(3)).Return(storedReview(), nil)
		reviews.On("Delete", ctx, int64(3)).Return(nil)

		assert.NoError(t, svc.Delete(ctx, moderator, 1, 3))
		reviews.AssertExpectations(t)
	})

	t.Run("review under another title", func(t *testing.T) {
		reviews, titles, svc := newReviewFixture()
		titles.On("Exists", ctx, int64(2)).Return(true, nil)
		reviews.On("GetByTitle", ctx, int64(2), int64(3)).Return(nil, notFoundErr())

		assert.ErrorIs(t, svc.Delete(ctx, author, 2, 3), ErrReviewNotFound)
	})
}

func TestListReviews(t *testing.T) {
	reviews, titles, svc := newReviewFixture()
	ctx := context.Background()
	titles.On("Exists", ctx, int64(1)).Return(true, nil)
	reviews.On("ListByTitle", ctx, int64(1), 10, 10).Return([]models.Review{*storedReview()}, int64(11), nil)

	page, err := svc.List(ctx, 1, dto.PageQuery{Page: 2})

	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 10, page.PageSize)
}
