package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hostel-admin/internal/config"
	"github.com/iliyamo/hostel-admin/internal/database"
	"github.com/iliyamo/hostel-admin/internal/handler"
	"github.com/iliyamo/hostel-admin/internal/hostel"
	"github.com/iliyamo/hostel-admin/internal/queue"
	"github.com/iliyamo/hostel-admin/internal/repository"
	"github.com/iliyamo/hostel-admin/internal/router"
	publisher "github.com/iliyamo/hostel-admin/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	store := repository.NewStore(db)
	if cfg.SeedRooms {
		if err := database.SeedRooms(ctx, store.Rooms()); err != nil {
			log.Fatalf("seed rooms: %v", err)
		}
	}

	svc := hostel.NewService(store, publisher.New(), cfg.RentResyncOnChange)

	// Redis is optional: a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Handlers{
		Auth:        handler.NewAuthHandler(cfg, users, tokens),
		Rooms:       handler.NewRoomHandler(store.Rooms(), store.Residents(), svc),
		Residents:   handler.NewResidentHandler(store.Residents(), svc),
		Payments:    handler.NewPaymentHandler(store.Payments(), store.Residents(), svc),
		Assignments: handler.NewAssignmentHandler(svc),
	}, cfg.JWTSecret, rdb)

	// The audit consumer tails ledger.audit and appends to logs/ledger.log.
	// It reconnects on its own; a broker outage never blocks startup.
	go func() {
		if err := queue.StartLedgerConsumer(); err != nil {
			log.Printf("ledger consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
