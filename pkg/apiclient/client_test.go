package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/techstore/internal/db"
	"github.com/Skotchmaster/techstore/internal/events"
	"github.com/Skotchmaster/techstore/internal/httpserver"
	"github.com/Skotchmaster/techstore/internal/logging"
	"github.com/Skotchmaster/techstore/internal/models"
	"github.com/Skotchmaster/techstore/internal/repo"
	"github.com/Skotchmaster/techstore/internal/service"
	"github.com/Skotchmaster/techstore/internal/tokens"
)

func newTestServer(t *testing.T) (*httptest.Server, *repo.GormRepo) {
	t.Helper()

	ctx := context.Background()
	gdb, err := db.Open(ctx, db.Config{Driver: db.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx, gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := &repo.GormRepo{DB: gdb}
	pub := events.Noop{}
	authSvc := &service.AuthService{Repo: r, Tokens: tokens.NewIssuer([]byte("test-jwt-secret"), time.Hour), Events: pub}
	reviews := &service.ReviewService{Repo: r, Events: pub}

	e := httpserver.New(logging.NewWithWriter(io.Discard, "error"), nil)
	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: r, Events: pub}, Reviews: reviews},
		ReviewHandler:  &httpserver.ReviewHTTP{Svc: reviews},
		ShopHandler:    &httpserver.ShopHTTP{Svc: &service.ShopService{Repo: r, Events: pub}},
		Verify:         authSvc.VerifyToken,
		Ready:          r.Ping,
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv, r
}

func TestClientEndToEnd(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	srv, r := newTestServer(t)

	lat, lng := 59.9343, 30.3351
	require.NoError(t, r.CreateShop(ctx, &models.Shop{Address: "Nevsky 1", Latitude: &lat, Longitude: &lng}))
	p, err := r.CreateProduct(ctx, &models.Product{Name: "Phone", Price: 500, Category: "phones"})
	require.NoError(t, err)
	_, err = r.CreateProduct(ctx, &models.Product{Name: "Cable", Price: 10, Category: "accessories"})
	require.NoError(t, err)

	c := NewClient(srv.URL + "/api/")

	user, err := c.Register(ctx, "Dana", "dana@example.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, "dana@example.com", user.Email)

	_, err = c.CreateReview(ctx, p.ID, "no token yet", 3)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)

	sess, err := c.Login(ctx, "dana@example.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, user.ID, sess.ID)
	require.Equal(t, sess.Token, c.Token())
	require.True(t, sess.ExpiresAt.After(time.Now()))

	products, err := c.Products(ctx, ProductFilter{Sort: "price-asc"})
	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Equal(t, "Cable", products[0].Name)

	products, err = c.Products(ctx, ProductFilter{Category: "phones", Page: 1, Size: 5})
	require.NoError(t, err)
	require.Len(t, products, 1)

	cats, err := c.Categories(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"accessories", "phones"}, cats)

	review, err := c.CreateReview(ctx, p.ID, "Solid phone", 4)
	require.NoError(t, err)
	require.Equal(t, user.ID, review.UserID)

	review, err = c.UpdateReview(ctx, review.ID, "Solid phone, good battery", 5)
	require.NoError(t, err)
	require.Equal(t, 5, review.Stars)

	detail, err := c.Product(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Rating)
	require.EqualValues(t, 1, detail.Rating.Count)

	byProduct, err := c.ProductReviews(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, byProduct, 1)
	require.Equal(t, "Dana", byProduct[0].UserName)

	byUser, err := c.UserReviews(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	require.Equal(t, "Phone", byUser[0].ProductName)

	require.NoError(t, c.DeleteReview(ctx, review.ID))
	err = c.DeleteReview(ctx, review.ID)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.Status)

	shops, err := c.Shops(ctx)
	require.NoError(t, err)
	require.Len(t, shops, 1)

	nearest, err := c.NearestShop(ctx, 59.93, 30.33)
	require.NoError(t, err)
	require.Equal(t, "Nevsky 1", nearest.Address)
	require.Less(t, nearest.DistanceKM, 2.0)

	_, err = c.Product(ctx, 9999)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.Status)
	require.Equal(t, "product not found", apiErr.Message)
}

func TestClientNonEnvelopeError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL).Shops(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadGateway, apiErr.Status)
}

func TestClientSendsBearerToken(t *testing.T) {
	t.Parallel()

	got := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":3}}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)
	c.SetToken("abc")
	require.NoError(t, c.DeleteReview(context.Background(), 3))
	require.Equal(t, "Bearer abc", <-got)
}
