package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/techstore/internal/db"
	"github.com/Skotchmaster/techstore/internal/models"
	"github.com/Skotchmaster/techstore/internal/repo"
	"github.com/Skotchmaster/techstore/internal/tokens"
)

type recordedEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, _ := event.(map[string]any)
	p.events = append(p.events, recordedEvent{Topic: topic, Key: key, Event: m})
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Event["type"].(string))
	}
	return out
}

type fakeIndex struct {
	mu      sync.Mutex
	docs    map[uint]models.Product
	deleted []uint
	err     error
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{docs: map[uint]models.Product{}}
}

func (f *fakeIndex) Put(_ context.Context, p models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.docs[p.ID] = p
	return nil
}

func (f *fakeIndex) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	delete(f.docs, id)
	return f.err
}

func (f *fakeIndex) Search(_ context.Context, _ string, _, _ int) (int64, []models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, nil, f.err
	}
	out := make([]models.Product, 0, len(f.docs))
	for _, p := range f.docs {
		out = append(out, p)
	}
	return int64(len(out)), out, nil
}

var errIndexDown = errors.New("index unavailable")

type testEnv struct {
	Repo    *repo.GormRepo
	Events  *recordingPublisher
	Index   *fakeIndex
	Auth    *AuthService
	Catalog *CatalogService
	Reviews *ReviewService
	Shops   *ShopService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctx := context.Background()
	gdb, err := db.Open(ctx, db.Config{Driver: db.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx, gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := &repo.GormRepo{DB: gdb}
	pub := &recordingPublisher{}
	ix := newFakeIndex()

	return &testEnv{
		Repo:    r,
		Events:  pub,
		Index:   ix,
		Auth:    &AuthService{Repo: r, Tokens: tokens.NewIssuer([]byte("test-jwt-secret"), time.Hour), Events: pub},
		Catalog: &CatalogService{Repo: r, Index: ix, Events: pub},
		Reviews: &ReviewService{Repo: r, Events: pub},
		Shops:   &ShopService{Repo: r, Events: pub},
	}
}

func (env *testEnv) user(t *testing.T, name string) tokens.Identity {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@example.com", PasswordHash: "x"}
	require.NoError(t, env.Repo.CreateUser(context.Background(), u))
	return tokens.Identity{ID: u.ID, Email: u.Email, Name: u.Name}
}

func (env *testEnv) product(t *testing.T, name string, price float64) *models.Product {
	t.Helper()
	p, err := env.Repo.CreateProduct(context.Background(), &models.Product{Name: name, Price: price})
	require.NoError(t, err)
	return p
}

func ptr[T any](v T) *T { return &v }
