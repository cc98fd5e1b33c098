package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func (c *Client) Register(ctx context.Context, name, email, password string) (*User, error) {
	var u User
	body := map[string]string{"name": name, "email": email, "password": password}
	if _, err := c.do(ctx, http.MethodPost, "/register", nil, body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login stores the returned token on the client for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	body := map[string]string{"email": email, "password": password}
	if _, err := c.do(ctx, http.MethodPost, "/login", nil, body, &s); err != nil {
		return nil, err
	}
	c.token = s.Token
	return &s, nil
}

func (c *Client) Products(ctx context.Context, f ProductFilter) ([]Product, error) {
	q := url.Values{}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Sort != "" {
		q.Set("sort", f.Sort)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
		if f.Size > 0 {
			q.Set("size", strconv.Itoa(f.Size))
		}
	}

	var out []Product
	if _, err := c.do(ctx, http.MethodGet, "/products", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out []string
	if _, err := c.do(ctx, http.MethodGet, "/products/categories", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Product(ctx context.Context, id uint) (*Product, error) {
	var p Product
	if _, err := c.do(ctx, http.MethodGet, idPath("/products", id, ""), nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) ProductReviews(ctx context.Context, productID uint) ([]Review, error) {
	var out []Review
	if _, err := c.do(ctx, http.MethodGet, idPath("/products", productID, "/reviews"), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UserReviews(ctx context.Context, userID uint) ([]Review, error) {
	var out []Review
	if _, err := c.do(ctx, http.MethodGet, idPath("/users", userID, "/reviews"), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateReview(ctx context.Context, productID uint, text string, stars int) (*Review, error) {
	var r Review
	body := map[string]any{"product_id": productID, "review": text, "stars": stars}
	if _, err := c.do(ctx, http.MethodPost, "/reviews", nil, body, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) UpdateReview(ctx context.Context, id uint, text string, stars int) (*Review, error) {
	var r Review
	body := map[string]any{"review": text, "stars": stars}
	if _, err := c.do(ctx, http.MethodPut, idPath("/reviews", id, ""), nil, body, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) DeleteReview(ctx context.Context, id uint) error {
	_, err := c.do(ctx, http.MethodDelete, idPath("/reviews", id, ""), nil, nil, nil)
	return err
}

func (c *Client) Shops(ctx context.Context) ([]Shop, error) {
	var out []Shop
	if _, err := c.do(ctx, http.MethodGet, "/shops", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) NearestShop(ctx context.Context, lat, lng float64) (*Shop, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))

	var s Shop
	if _, err := c.do(ctx, http.MethodGet, "/shops/nearest", q, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
