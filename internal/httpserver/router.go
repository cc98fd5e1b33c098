package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/techstore/internal/logging"
	authmw "github.com/Skotchmaster/techstore/internal/middleware/auth"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	CatalogHandler *CatalogHTTP
	ReviewHandler  *ReviewHTTP
	ShopHandler    *ShopHTTP
	Verify         authmw.VerifyFunc
	Ready          func(ctx context.Context) error
}

var endpoints = map[string]string{
	"register":        "POST /api/register",
	"login":           "POST /api/login",
	"products":        "GET|POST /api/products",
	"product":         "GET|PUT|DELETE /api/products/:id",
	"search":          "GET /api/products/search?q=",
	"categories":      "GET /api/products/categories",
	"product_reviews": "GET /api/products/:id/reviews",
	"user_reviews":    "GET /api/users/:id/reviews",
	"reviews":         "POST /api/reviews",
	"review":          "GET|PUT|DELETE /api/reviews/:id",
	"shops":           "GET|POST /api/shops",
	"nearest_shop":    "GET /api/shops/nearest?lat=&lng=",
}

func index(c echo.Context) error {
	return ok(c, http.StatusOK, map[string]any{
		"name":      "techstore api",
		"endpoints": endpoints,
	})
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				logging.FromContext(c.Request().Context()).Error("readiness_failed", "status", 503, "error", err)
				return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
			}
		}
		return c.NoContent(http.StatusOK)
	})

	e.GET("/", index)

	api := e.Group("/api")
	api.GET("", index)

	api.POST("/register", d.AuthHandler.Register)
	api.POST("/login", d.AuthHandler.Login)

	products := api.Group("/products")
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.GET("/categories", d.CatalogHandler.GetCategories)
	products.GET("/:id", d.CatalogHandler.GetProduct)
	products.POST("", d.CatalogHandler.CreateProduct)
	products.PUT("/:id", d.CatalogHandler.UpdateProduct)
	products.DELETE("/:id", d.CatalogHandler.DeleteProduct)
	products.GET("/:id/reviews", d.ReviewHandler.GetProductReviews)

	api.GET("/users/:id/reviews", d.ReviewHandler.GetUserReviews)

	requireSession := authmw.RequireSession(d.Verify)

	reviews := api.Group("/reviews")
	reviews.GET("/:id", d.ReviewHandler.GetReview)
	reviews.POST("", d.ReviewHandler.CreateReview, requireSession)
	reviews.PUT("/:id", d.ReviewHandler.UpdateReview, requireSession)
	reviews.DELETE("/:id", d.ReviewHandler.DeleteReview, requireSession)

	shops := api.Group("/shops")
	shops.GET("", d.ShopHandler.GetShops)
	shops.GET("/nearest", d.ShopHandler.NearestShop)
	shops.POST("", d.ShopHandler.CreateShop)
}
