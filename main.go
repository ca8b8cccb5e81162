package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	auction "chit-auction/internal/auctionService"
	"chit-auction/internal/config"
	"chit-auction/internal/ledger"
	"chit-auction/internal/repository"
	requests "chit-auction/internal/requestService"
	roster "chit-auction/internal/rosterService"
	"chit-auction/internal/scheduler"
	"chit-auction/internal/server"
	"chit-auction/utils"

	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"
)

func main() {
	cfg := config.Load()
	utils.SetLevel(cfg.LogLevel)
	ledger.AdminPrefix = cfg.AdminPrefix

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	store, feedStore, closeStore, err := openStores(ctx, cfg, g)
	if err != nil {
		utils.Fatal("failed to open store", map[string]any{"driver": cfg.StoreDriver, "error": err.Error()})
	}

	if cfg.SeedFile != "" {
		seed, err := config.LoadSeed(cfg.SeedFile)
		if err != nil {
			utils.Fatal("failed to load seed file", map[string]any{"path": cfg.SeedFile, "error": err.Error()})
		}
		written, err := seed.Apply(ctx, store)
		if err != nil {
			utils.Fatal("failed to apply seed", map[string]any{"path": cfg.SeedFile, "error": err.Error()})
		}
		utils.Info("seed applied", map[string]any{"path": cfg.SeedFile, "keys": written})
	}

	engine, err := auction.NewEngine(ctx, store, auction.DefaultConfig(time.Now()))
	if err != nil {
		utils.Fatal("failed to start auction engine", map[string]any{"error": err.Error()})
	}
	defer engine.Close()

	rosterSvc := roster.NewService(store, engine)
	requestSvc := requests.NewService(store, engine, rosterSvc)

	limiter := server.NewRateLimiter(cfg.BidRatePerSec, cfg.BidRateBurst)
	hub := server.NewHub(feedStore)
	defer hub.Close()

	router := server.SetupRouter(server.Services{
		Auction:  engine,
		Requests: requestSvc,
		Roster:   rosterSvc,
	}, limiter, hub)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		utils.Info("Starting auction server", map[string]any{"addr": srv.Addr, "store": cfg.StoreDriver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return scheduler.New(engine).Run(ctx)
	})
	g.Go(func() error {
		return limiter.Run(ctx, time.Minute)
	})

	err = g.Wait()
	if cerr := closeStore(); cerr != nil {
		utils.Warn("failed to close store", map[string]any{"error": cerr.Error()})
	}
	if err != nil {
		utils.Fatal("server stopped with error", map[string]any{"error": err.Error()})
	}
	utils.Info("server stopped", nil)
}

// openStores returns the store used by the services and a second handle on the
// same data for the websocket feed, so the feed also sees this process's writes.
func openStores(ctx context.Context, cfg *config.Config, g *errgroup.Group) (repository.KVStore, repository.KVStore, func() error, error) {
	if cfg.StoreDriver != config.DriverSQLite {
		mem := repository.NewMemoryStore()
		return mem, mem.Fork(), func() error { return nil }, nil
	}

	db, err := sql.Open("sqlite", cfg.SQLiteDSN)
	if err != nil {
		return nil, nil, nil, err
	}

	store, err := repository.OpenSQLiteStore(ctx, db, cfg.StorePollInterval)
	if err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	feed, err := repository.OpenSQLiteStore(ctx, db, cfg.StorePollInterval)
	if err != nil {
		db.Close()
		return nil, nil, nil, err
	}

	g.Go(func() error { return store.Watch(ctx) })
	g.Go(func() error { return feed.Watch(ctx) })
	return store, feed, db.Close, nil
}
