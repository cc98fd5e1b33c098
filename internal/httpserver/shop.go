package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/multierr"

	"github.com/Skotchmaster/techstore/internal/logging"
	"github.com/Skotchmaster/techstore/internal/service"
	"github.com/Skotchmaster/techstore/internal/transport"
)

type ShopHTTP struct {
	Svc *service.ShopService
}

func (h *ShopHTTP) GetShops(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shop.get_shops")

	shops, err := h.Svc.GetShops(ctx)
	if err != nil {
		return fail(l, "get_shops_failed", err)
	}
	return list(c, nonNil(shops), len(shops))
}

func (h *ShopHTTP) CreateShop(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shop.create_shop")

	var req transport.CreateShopRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(l, "create_shop_failed", err)
	}
	if err := c.Validate(&req); err != nil {
		return fail(l, "create_shop_failed", err)
	}

	shop, err := h.Svc.CreateShop(ctx, req)
	if err != nil {
		return fail(l, "create_shop_failed", err)
	}

	l.Info("create_shop_success", "shop_id", shop.ID)
	return ok(c, http.StatusCreated, shop)
}

func (h *ShopHTTP) NearestShop(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shop.nearest_shop")

	lat, latErr := coordinate(c, "lat")
	lng, lngErr := coordinate(c, "lng")
	if err := multierr.Combine(latErr, lngErr); err != nil {
		return fail(l, "nearest_shop_failed", fmt.Errorf("%w: %v", service.ErrValidation, err))
	}

	shop, err := h.Svc.NearestShop(ctx, lat, lng)
	if err != nil {
		return fail(l, "nearest_shop_failed", err)
	}
	return ok(c, http.StatusOK, shop)
}

func coordinate(c echo.Context, name string) (float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	return v, nil
}
