package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/Skotchmaster/techstore/internal/events"
	"github.com/Skotchmaster/techstore/internal/logging"
	"github.com/Skotchmaster/techstore/internal/models"
	"github.com/Skotchmaster/techstore/internal/repo"
	"github.com/Skotchmaster/techstore/internal/tokens"
	"github.com/Skotchmaster/techstore/internal/transport"
)

const (
	MinStars = 1
	MaxStars = 5
)

type ReviewService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func validateReview(text string, stars int) error {
	var errs error
	if text == "" {
		errs = multierr.Append(errs, errors.New("review text is required"))
	}
	if stars < MinStars || stars > MaxStars {
		errs = multierr.Append(errs, fmt.Errorf("stars must be between %d and %d", MinStars, MaxStars))
	}
	if errs != nil {
		return validationError(errs)
	}
	return nil
}

func (s *ReviewService) CreateReview(ctx context.Context, who tokens.Identity, req transport.CreateReviewRequest) (*models.ReviewView, error) {
	l := logging.FromContext(ctx).With("svc", "review.create", "user_id", who.ID)

	text := strings.TrimSpace(req.Review)
	if req.ProductID == 0 {
		return nil, validationError(errors.New("product_id is required"))
	}
	if err := validateReview(text, req.Stars); err != nil {
		return nil, err
	}

	if _, err := s.Repo.GetProduct(ctx, req.ProductID); err != nil {
		return nil, notFound(err, "product")
	}

	rv := &models.Review{
		UserID:    who.ID,
		ProductID: req.ProductID,
		Text:      text,
		Stars:     req.Stars,
	}
	if err := s.Repo.CreateReview(ctx, rv); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			// The product may have been deleted since the check above.
			if _, perr := s.Repo.GetProduct(ctx, req.ProductID); perr != nil {
				return nil, notFound(perr, "product")
			}
			l.Warn("create_review_failed", "status", 401, "reason", "author account does not exist")
			return nil, fmt.Errorf("%w: account no longer exists", ErrUnauthorized)
		}
		l.Error("create_review_failed", "error", err)
		return nil, err
	}

	publish(ctx, s.Events, events.TopicReviews, rv.ID, map[string]any{
		"type":       "review_created",
		"review_id":  rv.ID,
		"product_id": rv.ProductID,
		"user_id":    rv.UserID,
		"stars":      rv.Stars,
	})

	return s.GetReview(ctx, rv.ID)
}

func (s *ReviewService) GetReview(ctx context.Context, id uint) (*models.ReviewView, error) {
	view, err := s.Repo.GetReviewView(ctx, id)
	if err != nil {
		return nil, notFound(err, "review")
	}
	return view, nil
}

func (s *ReviewService) UpdateReview(ctx context.Context, who tokens.Identity, id uint, req transport.UpdateReviewRequest) (*models.ReviewView, error) {
	l := logging.FromContext(ctx).With("svc", "review.update", "user_id", who.ID, "review_id", id)

	text := strings.TrimSpace(req.Review)
	if err := validateReview(text, req.Stars); err != nil {
		return nil, err
	}

	rv, err := s.Repo.GetReview(ctx, id)
	if err != nil {
		return nil, notFound(err, "review")
	}
	if rv.UserID != who.ID {
		l.Warn("update_review_denied", "status", 403, "owner_id", rv.UserID)
		return nil, fmt.Errorf("%w: only the author may modify this review", ErrForbidden)
	}

	if err := s.Repo.UpdateOwnedReview(ctx, id, who.ID, text, req.Stars); err != nil {
		return nil, notFound(err, "review")
	}

	publish(ctx, s.Events, events.TopicReviews, id, map[string]any{
		"type":       "review_updated",
		"review_id":  id,
		"product_id": rv.ProductID,
		"user_id":    who.ID,
		"stars":      req.Stars,
	})

	return s.GetReview(ctx, id)
}

func (s *ReviewService) DeleteReview(ctx context.Context, who tokens.Identity, id uint) error {
	l := logging.FromContext(ctx).With("svc", "review.delete", "user_id", who.ID, "review_id", id)

	rv, err := s.Repo.GetReview(ctx, id)
	if err != nil {
		return notFound(err, "review")
	}
	if rv.UserID != who.ID {
		l.Warn("delete_review_denied", "status", 403, "owner_id", rv.UserID)
		return fmt.Errorf("%w: only the author may remove this review", ErrForbidden)
	}

	if err := s.Repo.DeleteOwnedReview(ctx, id, who.ID); err != nil {
		return notFound(err, "review")
	}

	publish(ctx, s.Events, events.TopicReviews, id, map[string]any{
		"type":       "review_deleted",
		"review_id":  id,
		"product_id": rv.ProductID,
		"user_id":    who.ID,
	})

	return nil
}

func (s *ReviewService) GetProductReviews(ctx context.Context, productID uint) ([]models.ReviewView, error) {
	return s.Repo.GetReviewsByProduct(ctx, productID)
}

func (s *ReviewService) GetUserReviews(ctx context.Context, userID uint) ([]models.ReviewView, error) {
	return s.Repo.GetReviewsByUser(ctx, userID)
}

func (s *ReviewService) GetProductRating(ctx context.Context, productID uint) (models.Rating, error) {
	return s.Repo.GetProductRating(ctx, productID)
}
