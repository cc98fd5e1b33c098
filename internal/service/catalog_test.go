package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/techstore/internal/models"
	"github.com/Skotchmaster/techstore/internal/transport"
)

func TestCatalogService_CreateProduct(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Catalog.CreateProduct(ctx, transport.CreateProductRequest{Name: "  ", Price: 0})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "price must be greater than zero")

	_, err = env.Catalog.CreateProduct(ctx, transport.CreateProductRequest{Name: "Cable", Price: -1})
	require.ErrorIs(t, err, ErrValidation)

	p, err := env.Catalog.CreateProduct(ctx, transport.CreateProductRequest{
		Name: " Headphones ", Price: 199.9, Category: "audio", ImageURL: "/img/h.png",
	})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, "Headphones", p.Name)
	assert.False(t, p.CreatedAt.IsZero())

	assert.Contains(t, env.Index.docs, p.ID)
	assert.Equal(t, []string{"product_created"}, env.Events.types())
}

func TestCatalogService_CreateProduct_IndexFailureIsTolerated(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.Index.err = errIndexDown

	p, err := env.Catalog.CreateProduct(context.Background(), transport.CreateProductRequest{Name: "Lamp", Price: 20})
	require.NoError(t, err)

	stored, err := env.Catalog.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", stored.Name)
}

func TestCatalogService_GetProduct_NotFound(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, err := env.Catalog.GetProduct(context.Background(), 404)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "product not found", err.Error())
}

func TestCatalogService_GetProducts_Sort(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	env.product(t, "b", 2)
	env.product(t, "a", 1)

	_, _, err := env.Catalog.GetProducts(ctx, transport.ProductFilter{Sort: "random"})
	assert.ErrorIs(t, err, ErrValidation)

	total, items, err := env.Catalog.GetProducts(ctx, transport.ProductFilter{Sort: "price-asc"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "a", items[0].Name)

	_, items, err = env.Catalog.GetProducts(ctx, transport.ProductFilter{Query: "  b  "})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].Name)
}

func TestCatalogService_PatchProduct(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	p := env.product(t, "Router", 80)

	tests := []struct {
		name string
		req  transport.PatchProductRequest
		id   uint
		is   error
	}{
		{name: "empty field set", req: transport.PatchProductRequest{}, id: p.ID, is: ErrValidation},
		{name: "blank name", req: transport.PatchProductRequest{Name: ptr("  ")}, id: p.ID, is: ErrValidation},
		{name: "zero price", req: transport.PatchProductRequest{Price: ptr(0.0)}, id: p.ID, is: ErrValidation},
		{name: "missing product", req: transport.PatchProductRequest{Price: ptr(10.0)}, id: 999, is: ErrNotFound},
	}
	for _, tt := range tests {
		_, err := env.Catalog.PatchProduct(ctx, tt.req, tt.id)
		assert.ErrorIs(t, err, tt.is, tt.name)
	}

	got, err := env.Catalog.PatchProduct(ctx, transport.PatchProductRequest{Price: ptr(75.5), Category: ptr("network")}, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Router", got.Name)
	assert.Equal(t, 75.5, got.Price)
	assert.Equal(t, "network", got.Category)
	assert.Equal(t, 75.5, env.Index.docs[p.ID].Price)
	assert.Equal(t, []string{"product_updated"}, env.Events.types())
}

func TestCatalogService_DeleteProduct(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	who := env.user(t, "ann")
	p := env.product(t, "Drone", 700)

	rv, err := env.Reviews.CreateReview(ctx, who, transport.CreateReviewRequest{ProductID: p.ID, Review: "flies", Stars: 5})
	require.NoError(t, err)

	require.NoError(t, env.Catalog.DeleteProduct(ctx, p.ID))
	assert.Equal(t, []uint{p.ID}, env.Index.deleted)

	_, err = env.Catalog.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.Reviews.GetReview(ctx, rv.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, env.Catalog.DeleteProduct(ctx, p.ID), ErrNotFound)
}

func TestCatalogService_DeleteProduct_ConcurrentCallsDeleteOnce(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	p := env.product(t, "Console", 500)

	const callers = 4
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = env.Catalog.DeleteProduct(context.Background(), p.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, 1, succeeded)
}

func TestCatalogService_SearchProducts(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	_, _, err := env.Catalog.SearchProducts(ctx, "   ", 0, 10)
	require.ErrorIs(t, err, ErrValidation)

	_, err = env.Catalog.CreateProduct(ctx, transport.CreateProductRequest{Name: "Mouse", Price: 10})
	require.NoError(t, err)
	env.product(t, "Mouse pad", 5) // stored but never indexed

	total, items, err := env.Catalog.SearchProducts(ctx, "mouse", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total, "served by the index")
	assert.Len(t, items, 1)

	env.Index.mu.Lock()
	env.Index.err = errIndexDown
	env.Index.mu.Unlock()

	total, items, err = env.Catalog.SearchProducts(ctx, "mouse", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total, "served by sql fallback")
	assert.Equal(t, "Mouse", items[0].Name)

	sqlOnly := &CatalogService{Repo: env.Repo}
	total, _, err = sqlOnly.SearchProducts(ctx, "pad", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestCatalogService_GetCategories(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	for _, c := range []string{"tv", "audio", "tv"} {
		_, err := env.Repo.CreateProduct(ctx, &models.Product{Name: c, Price: 1, Category: c})
		require.NoError(t, err)
	}

	cats, err := env.Catalog.GetCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"audio", "tv"}, cats)
}
