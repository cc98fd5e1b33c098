package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/Skotchmaster/techstore/internal/events"
	"github.com/Skotchmaster/techstore/internal/logging"
	"github.com/Skotchmaster/techstore/internal/models"
	"github.com/Skotchmaster/techstore/internal/repo"
	"github.com/Skotchmaster/techstore/internal/transport"
)

// ProductIndex is an external full-text index of the catalog.
type ProductIndex interface {
	Put(ctx context.Context, p models.Product) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error)
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Index  ProductIndex
	Events events.Publisher
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	return p, nil
}

func (s *CatalogService) GetProducts(ctx context.Context, f transport.ProductFilter) (int64, []models.Product, error) {
	f.Query = strings.TrimSpace(f.Query)
	f.Category = strings.TrimSpace(f.Category)
	if f.Sort == "" {
		f.Sort = repo.SortNewest
	}
	if !repo.ValidSort(f.Sort) {
		return 0, nil, validationError(fmt.Errorf("unknown sort %q", f.Sort))
	}
	return s.Repo.GetProducts(ctx, f)
}

func (s *CatalogService) GetCategories(ctx context.Context) ([]string, error) {
	return s.Repo.GetCategories(ctx)
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create_product")

	prod := models.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    strings.TrimSpace(req.ImageURL),
		Category:    strings.TrimSpace(req.Category),
	}

	var errs error
	if prod.Name == "" {
		errs = multierr.Append(errs, errors.New("name is required"))
	}
	if prod.Price <= 0 {
		errs = multierr.Append(errs, errors.New("price must be greater than zero"))
	}
	if errs != nil {
		return nil, validationError(errs)
	}

	created, err := s.Repo.CreateProduct(ctx, &prod)
	if err != nil {
		l.Error("create_product_error", "error", err)
		return nil, err
	}

	s.reindex(ctx, *created)
	publish(ctx, s.Events, events.TopicProducts, created.ID, map[string]any{
		"type":       "product_created",
		"product_id": created.ID,
		"name":       created.Name,
		"price":      created.Price,
	})

	return created, nil
}

func (s *CatalogService) PatchProduct(ctx context.Context, req transport.PatchProductRequest, id uint) (*models.Product, error) {
	if req.Empty() {
		return nil, validationError(errors.New("no fields to update"))
	}

	var errs error
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			errs = multierr.Append(errs, errors.New("name cannot be empty"))
		}
		req.Name = &name
	}
	if req.Price != nil && *req.Price <= 0 {
		errs = multierr.Append(errs, errors.New("price must be greater than zero"))
	}
	if errs != nil {
		return nil, validationError(errs)
	}

	prod, err := s.Repo.PatchProduct(ctx, req, id)
	if err != nil {
		return nil, notFound(err, "product")
	}

	s.reindex(ctx, *prod)
	publish(ctx, s.Events, events.TopicProducts, prod.ID, map[string]any{
		"type":       "product_updated",
		"product_id": prod.ID,
		"name":       prod.Name,
		"price":      prod.Price,
	})

	return prod, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return notFound(err, "product")
	}

	if s.Index != nil {
		if err := s.Index.Delete(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_delete_failed", "product_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicProducts, id, map[string]any{
		"type":       "product_deleted",
		"product_id": id,
	})

	return nil
}

// SearchProducts prefers the search index and falls back to SQL when it is
// absent or failing.
func (s *CatalogService) SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, nil, validationError(errors.New("query is required"))
	}

	if s.Index != nil {
		total, items, err := s.Index.Search(ctx, q, offset, limit)
		if err == nil {
			return total, items, nil
		}
		logging.FromContext(ctx).Warn("search_index_failed", "reason", "falling back to sql", "error", err)
	}

	return s.Repo.SearchProducts(ctx, q, offset, limit)
}

func (s *CatalogService) reindex(ctx context.Context, p models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Put(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "product_id", p.ID, "error", err)
	}
}
