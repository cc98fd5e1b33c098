package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/techstore/internal/models"
)

const reviewColumns = "reviews.id, reviews.user_id, reviews.product_id, reviews.review, reviews.stars, reviews.created_at"

func (r *GormRepo) reviewViews(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Table("reviews").
		Select(reviewColumns + ", users.name AS user_name, products.name AS product_name").
		Joins("LEFT JOIN users ON users.id = reviews.user_id").
		Joins("LEFT JOIN products ON products.id = reviews.product_id")
}

func (r *GormRepo) CreateReview(ctx context.Context, rv *models.Review) error {
	return translate(r.DB.WithContext(ctx).Create(rv).Error)
}

func (r *GormRepo) GetReview(ctx context.Context, id uint) (*models.Review, error) {
	var rv models.Review
	if err := r.DB.WithContext(ctx).First(&rv, id).Error; err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *GormRepo) GetReviewView(ctx context.Context, id uint) (*models.ReviewView, error) {
	var views []models.ReviewView
	if err := r.reviewViews(ctx).Where("reviews.id = ?", id).Limit(1).Scan(&views).Error; err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &views[0], nil
}

func (r *GormRepo) GetReviewsByProduct(ctx context.Context, productID uint) ([]models.ReviewView, error) {
	views := make([]models.ReviewView, 0)
	err := r.reviewViews(ctx).
		Where("reviews.product_id = ?", productID).
		Order("reviews.created_at DESC, reviews.id DESC").
		Scan(&views).Error
	return views, err
}

func (r *GormRepo) GetReviewsByUser(ctx context.Context, userID uint) ([]models.ReviewView, error) {
	views := make([]models.ReviewView, 0)
	err := r.reviewViews(ctx).
		Where("reviews.user_id = ?", userID).
		Order("reviews.created_at DESC, reviews.id DESC").
		Scan(&views).Error
	return views, err
}

// UpdateOwnedReview writes only when the review still belongs to userID.
func (r *GormRepo) UpdateOwnedReview(ctx context.Context, id, userID uint, text string, stars int) error {
	res := r.DB.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{"review": text, "stars": stars})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) DeleteOwnedReview(ctx context.Context, id, userID uint) error {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
