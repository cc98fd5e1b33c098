package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/techstore/internal/models"
	"github.com/Skotchmaster/techstore/internal/transport"
)

const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortNameAsc   = "name-asc"
	SortNameDesc  = "name-desc"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
)

var productOrder = map[string]string{
	SortNewest:    "created_at DESC, id DESC",
	SortOldest:    "created_at ASC, id ASC",
	SortNameAsc:   "name ASC, id ASC",
	SortNameDesc:  "name DESC, id DESC",
	SortPriceAsc:  "price ASC, id ASC",
	SortPriceDesc: "price DESC, id DESC",
}

func ValidSort(sort string) bool {
	_, ok := productOrder[sort]
	return ok
}

func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(q))) + "%"
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product := models.Product{}
	if err := r.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) GetProducts(ctx context.Context, f transport.ProductFilter) (int64, []models.Product, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{})
	if f.Query != "" {
		p := likePattern(f.Query)
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, p, p)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	order, ok := productOrder[f.Sort]
	if !ok {
		order = productOrder[SortNewest]
	}

	items := make([]models.Product, 0)
	page := q.Order(order)
	if f.Limit > 0 {
		page = page.Offset(f.Offset).Limit(f.Limit)
	}
	if err := page.Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

func (r *GormRepo) GetCategories(ctx context.Context) ([]string, error) {
	out := make([]string, 0)
	err := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("category <> ''").
		Distinct().
		Order("category ASC").
		Pluck("category", &out).Error
	return out, err
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) (*models.Product, error) {
	if err := r.DB.WithContext(ctx).Create(prod).Error; err != nil {
		return nil, translate(err)
	}
	return prod, nil
}

func (r *GormRepo) PatchProduct(ctx context.Context, req transport.PatchProductRequest, id uint) (*models.Product, error) {
	var prod models.Product
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&prod, id).Error; err != nil {
			return err
		}

		if req.Name != nil {
			prod.Name = *req.Name
		}
		if req.Description != nil {
			prod.Description = *req.Description
		}
		if req.Price != nil {
			prod.Price = *req.Price
		}
		if req.ImageURL != nil {
			prod.ImageURL = *req.ImageURL
		}
		if req.Category != nil {
			prod.Category = *req.Category
		}

		res := tx.Model(&prod).
			Select("name", "description", "price", "image_url", "category").
			Updates(&prod)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &prod, nil
}

// DeleteProduct removes the product together with its reviews.
func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// SearchProducts is the SQL fallback used when no search index is configured.
func (r *GormRepo) SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	p := likePattern(q)
	where := `LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(category) LIKE ? ESCAPE '\'`

	var total int64
	if err := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where(where, p, p, p).
		Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Product, 0, limit)
	if err := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where(where, p, p, p).
		Order("name ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

func (r *GormRepo) GetProductRating(ctx context.Context, productID uint) (models.Rating, error) {
	var rating models.Rating
	err := r.DB.WithContext(ctx).
		Model(&models.Review{}).
		Select("COALESCE(AVG(stars), 0) AS average, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&rating).Error
	return rating, err
}
