package main

import (
	"context"
	"fmt"
	"os"

	"adslot-auction/internal/broadcast"
	"adslot-auction/internal/cache"
	"adslot-auction/internal/collaborators"
	"adslot-auction/internal/config"
	"adslot-auction/internal/engine"
	"adslot-auction/internal/server"
	"adslot-auction/internal/store"
	"adslot-auction/utils"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	utils.SetLogLevel(cfg.LogLevel)

	auctionStore := store.NewMemoryStore()
	auctionCache := cache.NewMemoryCache(cfg.AuctionCacheTTL, cfg.ActiveListCacheTTL)

	// One hub for the whole process, injected everywhere.
	hub := broadcast.NewHub(cfg.SubscriberBuffer)

	auctionEngine := engine.NewAuctionEngine(
		auctionStore,
		auctionCache,
		hub,
		collaborators.StaticRecommender{RatePerSecond: cfg.RecommenderRatePerSecond},
		collaborators.NoRiskChecker{},
		collaborators.LoggingLedger{},
		engine.RetryPolicy{MaxAttempts: cfg.RetryMaxAttempts, BaseDelay: cfg.RetryBaseDelay},
		engine.Config{
			FraudThreshold:      cfg.FraudThreshold,
			FraudTimeout:        cfg.FraudTimeout,
			FraudFailOpen:       cfg.FraudFailOpen,
			CollaboratorTimeout: cfg.CollaboratorTimeout,
			DefaultBasePrice:    cfg.DefaultBasePrice,
		},
	)

	sweeper := engine.NewSweeper(auctionEngine, cfg.SweepInterval)
	sweeper.Start(context.Background())
	defer sweeper.Stop()

	router := server.SetupRouter(auctionEngine, hub)

	addr := ":" + cfg.Port
	fmt.Printf("Starting ad-slot auction server on %s...\n", addr)
	if err := router.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}
