package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/techstore/internal/logging"
	authmw "github.com/Skotchmaster/techstore/internal/middleware/auth"
	"github.com/Skotchmaster/techstore/internal/service"
	"github.com/Skotchmaster/techstore/internal/transport"
)

type ReviewHTTP struct {
	Svc *service.ReviewService
}

func unauthenticated() error {
	return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
}

func (h *ReviewHTTP) CreateReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.create_review")

	who, authed := authmw.IdentityFrom(c)
	if !authed {
		l.Warn("create_review_failed", "status", 401, "reason", "no identity in context")
		return unauthenticated()
	}

	var req transport.CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(l, "create_review_failed", err)
	}
	if err := c.Validate(&req); err != nil {
		return fail(l, "create_review_failed", err)
	}

	review, err := h.Svc.CreateReview(ctx, who, req)
	if err != nil {
		return fail(l, "create_review_failed", err)
	}

	l.Info("create_review_success", "review_id", review.ID, "user_id", who.ID)
	return ok(c, http.StatusCreated, review)
}

func (h *ReviewHTTP) GetReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.get_review")

	id, valid := parseID(c, "id")
	if !valid {
		return notFound(l, "get_review_failed", "review")
	}

	review, err := h.Svc.GetReview(ctx, id)
	if err != nil {
		return fail(l, "get_review_failed", err)
	}
	return ok(c, http.StatusOK, review)
}

func (h *ReviewHTTP) UpdateReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.update_review")

	who, authed := authmw.IdentityFrom(c)
	if !authed {
		l.Warn("update_review_failed", "status", 401, "reason", "no identity in context")
		return unauthenticated()
	}

	id, valid := parseID(c, "id")
	if !valid {
		return notFound(l, "update_review_failed", "review")
	}

	var req transport.UpdateReviewRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(l, "update_review_failed", err)
	}
	if err := c.Validate(&req); err != nil {
		return fail(l, "update_review_failed", err)
	}

	review, err := h.Svc.UpdateReview(ctx, who, id, req)
	if err != nil {
		return fail(l, "update_review_failed", err)
	}

	l.Info("update_review_success", "review_id", id, "user_id", who.ID)
	return ok(c, http.StatusOK, review)
}

func (h *ReviewHTTP) DeleteReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.delete_review")

	who, authed := authmw.IdentityFrom(c)
	if !authed {
		l.Warn("delete_review_failed", "status", 401, "reason", "no identity in context")
		return unauthenticated()
	}

	id, valid := parseID(c, "id")
	if !valid {
		return notFound(l, "delete_review_failed", "review")
	}

	if err := h.Svc.DeleteReview(ctx, who, id); err != nil {
		return fail(l, "delete_review_failed", err)
	}

	l.Info("delete_review_success", "review_id", id, "user_id", who.ID)
	return ok(c, http.StatusOK, map[string]uint{"id": id})
}

func (h *ReviewHTTP) GetProductReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.get_product_reviews")

	id, valid := parseID(c, "id")
	if !valid {
		return notFound(l, "get_product_reviews_failed", "product")
	}

	reviews, err := h.Svc.GetProductReviews(ctx, id)
	if err != nil {
		return fail(l, "get_product_reviews_failed", err)
	}
	return list(c, nonNil(reviews), len(reviews))
}

func (h *ReviewHTTP) GetUserReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.get_user_reviews")

	id, valid := parseID(c, "id")
	if !valid {
		return notFound(l, "get_user_reviews_failed", "user")
	}

	reviews, err := h.Svc.GetUserReviews(ctx, id)
	if err != nil {
		return fail(l, "get_user_reviews_failed", err)
	}
	return list(c, nonNil(reviews), len(reviews))
}
