package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/Skotchmaster/techstore/internal/config"
	"github.com/Skotchmaster/techstore/internal/db"
	"github.com/Skotchmaster/techstore/internal/events"
	"github.com/Skotchmaster/techstore/internal/httpserver"
	"github.com/Skotchmaster/techstore/internal/logging"
	"github.com/Skotchmaster/techstore/internal/repo"
	"github.com/Skotchmaster/techstore/internal/search"
	"github.com/Skotchmaster/techstore/internal/service"
	"github.com/Skotchmaster/techstore/internal/tokens"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(ctx, db.Config{Driver: cfg.DBDriver, DSN: cfg.DatabaseURL})
	if err == nil {
		err = db.Migrate(ctx, gdb)
	}
	cancel()
	if err != nil {
		log.Fatalf("db: %v", err)
	}

	publisher := events.New(cfg.KafkaBrokers)
	repository := &repo.GormRepo{DB: gdb}

	catalog := &service.CatalogService{Repo: repository, Events: publisher}
	if cfg.ESURL != "" {
		if ix, err := openIndex(cfg); err != nil {
			logger.Warn("search_index_unavailable", "reason", "falling back to sql search", "error", err)
		} else {
			catalog.Index = ix
		}
	}

	authSvc := &service.AuthService{
		Repo:   repository,
		Tokens: tokens.NewIssuer(cfg.JWTSecret, cfg.TokenTTL),
		Events: publisher,
	}
	reviews := &service.ReviewService{Repo: repository, Events: publisher}

	e := httpserver.New(logger, cfg.CORSOrigins)
	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalog, Reviews: reviews},
		ReviewHandler:  &httpserver.ReviewHTTP{Svc: reviews},
		ShopHandler:    &httpserver.ShopHTTP{Svc: &service.ShopService{Repo: repository, Events: publisher}},
		Verify:         authSvc.VerifyToken,
		Ready:          repository.Ping,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr, "db_driver", cfg.DBDriver, "kafka", len(cfg.KafkaBrokers) > 0, "search", catalog.Index != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	err = multierr.Combine(
		srv.Shutdown(shutdownCtx),
		publisher.Close(),
		db.Close(gdb),
	)
	if err != nil {
		logger.Error("shutdown_failed", "error", err)
	}

	logger.Info("server_stopped")
}

func openIndex(cfg config.Config) (*search.ProductIndex, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	es, err := search.NewClient(ctx, search.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword})
	if err != nil {
		return nil, err
	}

	ix := search.NewProductIndex(es, cfg.ESIndex)
	if err := ix.EnsureIndex(ctx); err != nil {
		return nil, err
	}
	return ix, nil
}
