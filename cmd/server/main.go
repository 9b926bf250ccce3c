package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/jarutosurano/wordcounter/internal/api"
	"github.com/jarutosurano/wordcounter/internal/config"
	"github.com/jarutosurano/wordcounter/internal/feeds"
	"github.com/jarutosurano/wordcounter/internal/render"
	"github.com/jarutosurano/wordcounter/internal/settings"
	"github.com/jarutosurano/wordcounter/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	uninstall := flag.Bool("uninstall", false, "remove every stored option, including legacy keys, and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration (auto-creates default if missing).
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Open database with WAL mode and pragmas.
	db, err := storage.OpenDatabase(cfg.Storage.Path)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	opts := storage.NewStore(db)
	defer func() {
		if err := opts.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	if err := storage.RunMigrations(ctx, db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	store := settings.NewStore(opts)

	if *uninstall {
		if err := store.Uninstall(ctx); err != nil {
			slog.Error("failed to remove options", "error", err)
			os.Exit(1)
		}
		slog.Info("removed all options", "options", settings.UninstallOptions())
		return
	}

	// Activation: store defaults for options that are not set yet.
	if err := store.EnsureDefaults(ctx); err != nil {
		slog.Error("failed to store default options", "error", err)
		os.Exit(1)
	}

	renderer := render.NewRenderer(store)
	fetcher := feeds.NewFetcher(renderer, feeds.Options{
		Timeout:       cfg.Fetch.Timeout(),
		MaxConcurrent: cfg.Fetch.MaxConcurrent,
		RateLimit:     cfg.Fetch.RateLimit(),
	})

	router := api.NewRouter(opts, store, renderer, fetcher)

	// Localhost only: the settings form has no authentication, and
	// cross-origin writes are rejected by the router.
	addr := fmt.Sprintf("localhost:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.Server.AutoOpenBrowser {
		go func() {
			time.Sleep(500 * time.Millisecond)
			openBrowser("http://" + addr + "/admin")
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", "http://"+addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
		}
	}
}

// openBrowser opens the given URL in the user's default browser.
// It is a fire-and-forget operation; errors are silently ignored.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	}
	if cmd != nil {
		_ = cmd.Start()
	}
}
