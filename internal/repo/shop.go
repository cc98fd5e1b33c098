package repo

import (
	"context"

	"github.com/Skotchmaster/techstore/internal/models"
)

func (r *GormRepo) GetShops(ctx context.Context) ([]models.Shop, error) {
	shops := make([]models.Shop, 0)
	err := r.DB.WithContext(ctx).Order("created_at DESC, id DESC").Find(&shops).Error
	return shops, err
}

func (r *GormRepo) GetShopsWithCoordinates(ctx context.Context) ([]models.Shop, error) {
	shops := make([]models.Shop, 0)
	err := r.DB.WithContext(ctx).
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Order("id ASC").
		Find(&shops).Error
	return shops, err
}

func (r *GormRepo) CreateShop(ctx context.Context, shop *models.Shop) error {
	return translate(r.DB.WithContext(ctx).Create(shop).Error)
}
