// Package userstore keeps a user's cart and favorites on the client side.
// Lists are partitioned by the user id found in the session token so that
// switching accounts on one machine does not mix selections.
package userstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

type List string

const (
	Cart      List = "cart"
	Favorites List = "favorites"
)

const tokenKey = "token"

var (
	ErrNotLoggedIn = errors.New("not logged in")
	ErrUnknownList = errors.New("unknown list")
	ErrBadToken    = errors.New("token carries no user id")
)

// Item is a product snapshot taken when it was added.
type Item struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url,omitempty"`
}

// Store is safe for concurrent use. Mutations hold mu across their
// read-modify-write so updates to the same list are not lost.
type Store struct {
	mu      sync.Mutex
	backend Backend
}

func New(b Backend) *Store {
	return &Store{backend: b}
}

func activeKey(list List) (string, error) {
	switch list {
	case Cart:
		return "cartItems", nil
	case Favorites:
		return "favoriteItems", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownList, list)
	}
}

func archiveKey(list List, userID uint) (string, error) {
	k, err := activeKey(list)
	if err != nil {
		return "", err
	}
	return k + "_" + strconv.FormatUint(uint64(userID), 10), nil
}

// userIDFromToken reads the id claim without checking the signature. The
// result only partitions local data and is never used for authorization.
func userIDFromToken(token string) (uint, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0, fmt.Errorf("decode token: %w", err)
	}

	switch v := claims["id"].(type) {
	case float64:
		if v <= 0 || v != float64(uint(v)) {
			return 0, ErrBadToken
		}
		return uint(v), nil
	case string:
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil || id == 0 {
			return 0, ErrBadToken
		}
		return uint(id), nil
	default:
		return 0, ErrBadToken
	}
}

func (s *Store) Token(ctx context.Context) (string, error) {
	tok, _, err := s.backend.Get(ctx, tokenKey)
	return tok, err
}

func (s *Store) UserID(ctx context.Context) (uint, error) {
	tok, ok, err := s.backend.Get(ctx, tokenKey)
	if err != nil {
		return 0, err
	}
	if !ok || tok == "" {
		return 0, ErrNotLoggedIn
	}
	return userIDFromToken(tok)
}

func (s *Store) read(ctx context.Context, key string) ([]Item, error) {
	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return []Item{}, nil
	}

	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

func (s *Store) write(ctx context.Context, key string, items []Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.backend.Set(ctx, key, string(raw))
}

// Login stores the token and loads that user's saved lists into the active ones.
func (s *Store) Login(ctx context.Context, token string) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, err := userIDFromToken(token)
	if err != nil {
		return 0, err
	}
	if err := s.backend.Set(ctx, tokenKey, token); err != nil {
		return 0, err
	}

	for _, list := range []List{Cart, Favorites} {
		active, _ := activeKey(list)
		archive, _ := archiveKey(list, userID)

		items, err := s.read(ctx, archive)
		if err != nil {
			return 0, err
		}
		if err := s.write(ctx, active, items); err != nil {
			return 0, err
		}
	}
	return userID, nil
}

// Logout saves the active lists for the current user and clears them.
// Saved lists survive so the next Login restores them.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, err := s.UserID(ctx)
	if err != nil && !errors.Is(err, ErrNotLoggedIn) && !errors.Is(err, ErrBadToken) {
		return err
	}

	for _, list := range []List{Cart, Favorites} {
		active, _ := activeKey(list)
		if userID != 0 {
			items, err := s.read(ctx, active)
			if err != nil {
				return err
			}
			archive, _ := archiveKey(list, userID)
			if err := s.write(ctx, archive, items); err != nil {
				return err
			}
		}
		if err := s.backend.Delete(ctx, active); err != nil {
			return err
		}
	}
	return s.backend.Delete(ctx, tokenKey)
}

func (s *Store) Items(ctx context.Context, list List) ([]Item, error) {
	key, err := activeKey(list)
	if err != nil {
		return nil, err
	}
	return s.read(ctx, key)
}

func (s *Store) save(ctx context.Context, list List, userID uint, items []Item) error {
	active, _ := activeKey(list)
	archive, _ := archiveKey(list, userID)
	if err := s.write(ctx, active, items); err != nil {
		return err
	}
	return s.write(ctx, archive, items)
}

// Toggle removes item when a product with the same id is present and appends
// it otherwise. It reports whether the item was added.
func (s *Store) Toggle(ctx context.Context, list List, item Item) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, err := s.UserID(ctx)
	if err != nil {
		return false, err
	}
	items, err := s.Items(ctx, list)
	if err != nil {
		return false, err
	}

	kept := items[:0]
	removed := false
	for _, it := range items {
		if it.ID == item.ID {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	if !removed {
		kept = append(kept, item)
	}

	if err := s.save(ctx, list, userID, kept); err != nil {
		return false, err
	}
	return !removed, nil
}

func (s *Store) Remove(ctx context.Context, list List, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, err := s.UserID(ctx)
	if err != nil {
		return err
	}
	items, err := s.Items(ctx, list)
	if err != nil {
		return err
	}

	kept := items[:0]
	for _, it := range items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	return s.save(ctx, list, userID, kept)
}

func (s *Store) Contains(ctx context.Context, list List, id uint) (bool, error) {
	items, err := s.Items(ctx, list)
	if err != nil {
		return false, err
	}
	for _, it := range items {
		if it.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) Total(ctx context.Context, list List) (float64, error) {
	items, err := s.Items(ctx, list)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, it := range items {
		sum += it.Price
	}
	return sum, nil
}
