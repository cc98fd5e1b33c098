package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/techstore/internal/logging"
	"github.com/Skotchmaster/techstore/internal/models"
	"github.com/Skotchmaster/techstore/internal/service"
	"github.com/Skotchmaster/techstore/internal/transport"
	"github.com/Skotchmaster/techstore/internal/util"
)

type CatalogHTTP struct {
	Svc     *service.CatalogService
	Reviews *service.ReviewService
}

type productDetail struct {
	models.Product
	Rating models.Rating `json:"rating"`
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	f := transport.ProductFilter{
		Query:    c.QueryParam("q"),
		Category: c.QueryParam("category"),
		Sort:     c.QueryParam("sort"),
	}
	paged := c.QueryParam("page") != ""
	if paged {
		f.Offset, f.Limit = util.Calculate(
			util.ParseIntDefault(c.QueryParam("page"), 1),
			util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize),
		)
	}

	total, items, err := h.Svc.GetProducts(ctx, f)
	if err != nil {
		return fail(l, "get_products_failed", err)
	}

	l.Info("get_products_success", "count", len(items))
	if paged {
		return page(c, nonNil(items), len(items), total)
	}
	return list(c, nonNil(items), len(items))
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	offset, limit := util.Calculate(
		util.ParseIntDefault(c.QueryParam("page"), 1),
		util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize),
	)

	total, items, err := h.Svc.SearchProducts(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		return fail(l, "search_failed", err)
	}

	l.Info("search_success", "total", total)
	return page(c, nonNil(items), len(items), total)
}

func (h *CatalogHTTP) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_categories")

	cats, err := h.Svc.GetCategories(ctx)
	if err != nil {
		return fail(l, "get_categories_failed", err)
	}
	return list(c, nonNil(cats), len(cats))
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, valid := parseID(c, "id")
	if !valid {
		return notFound(l, "get_product_failed", "product")
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return fail(l, "get_product_failed", err)
	}

	detail := productDetail{Product: *product}
	if h.Reviews != nil {
		rating, err := h.Reviews.GetProductRating(ctx, id)
		if err != nil {
			return fail(l, "get_product_failed", err)
		}
		detail.Rating = rating
	}

	return ok(c, http.StatusOK, detail)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(l, "create_product_failed", err)
	}
	if err := c.Validate(&req); err != nil {
		return fail(l, "create_product_failed", err)
	}

	product, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return fail(l, "create_product_failed", err)
	}

	l.Info("create_product_success", "product_id", product.ID)
	return ok(c, http.StatusCreated, product)
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_product")

	id, valid := parseID(c, "id")
	if !valid {
		return notFound(l, "update_product_failed", "product")
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(l, "update_product_failed", err)
	}
	if err := c.Validate(&req); err != nil {
		return fail(l, "update_product_failed", err)
	}

	product, err := h.Svc.PatchProduct(ctx, req, id)
	if err != nil {
		return fail(l, "update_product_failed", err)
	}

	l.Info("update_product_success", "product_id", id)
	return ok(c, http.StatusOK, product)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, valid := parseID(c, "id")
	if !valid {
		return notFound(l, "delete_product_failed", "product")
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return fail(l, "delete_product_failed", err)
	}

	l.Info("delete_product_success", "product_id", id)
	return ok(c, http.StatusOK, map[string]uint{"id": id})
}
