package main

import (
	"context"
	"log"

	"market-insights-be/internal/bootstrap"
	"market-insights-be/internal/config"
	"market-insights-be/internal/server"
	"market-insights-be/internal/tracer"
	"market-insights-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer("market-insights-backend", cfg.App.Environment)
	defer shutdownTracer(context.Background())

	// 3. Initialize Database (optional: memory-only without a DSN)
	var gormDB *gorm.DB
	if cfg.Database.Connection != "" {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		gormDB = db
	} else {
		log.Println("DB_CONNECTION_STRING not set, running with in-memory store only")
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 5. Rebuild the serving index from durable storage
	if err := container.DocumentService.Hydrate(context.Background()); err != nil {
		log.Printf("Hydration failed: %v", err)
	}

	// 6. Start Background Services
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 7. Initialize Server
	srv := server.New(cfg, container)

	// 8. Run Server
	log.Fatal(srv.Run())
}
