package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/techstore/internal/config"
	"github.com/Skotchmaster/techstore/pkg/apiclient"
	"github.com/Skotchmaster/techstore/pkg/userstore"
)

func openBackend() (userstore.Backend, func() error, error) {
	if addr := os.Getenv("SHOPCTL_REDIS"); addr != "" {
		rb := userstore.NewRedisBackend(addr, "shopctl:")
		return rb, rb.Close, nil
	}

	path := os.Getenv("SHOPCTL_STORE")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, fmt.Errorf("locate home dir: %w", err)
		}
		path = filepath.Join(home, ".techstore", "store.json")
	}
	return userstore.NewFileBackend(path), func() error { return nil }, nil
}

func main() {
	_ = godotenv.Load()

	backend, closeBackend, err := openBackend()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	a := &app{
		api:   apiclient.NewClient(config.EnvDefault("SHOPCTL_API", "http://localhost:8080/api")),
		store: userstore.New(backend),
		out:   os.Stdout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = newRootCmd(a).ExecuteContext(ctx)
	stop()
	_ = closeBackend()
	if err != nil {
		os.Exit(1)
	}
}
