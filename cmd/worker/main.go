package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"market-insights-be/internal/config"
	"market-insights-be/internal/pkg/logger"
	"market-insights-be/pkg/events"
	pktNats "market-insights-be/pkg/nats"
)

// Audit worker: tails every research event from JetStream and writes it to
// the structured log so document lifecycle changes stay traceable across
// restarts of the REST process.
func main() {
	cfg := config.Load()

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	defer sysLogger.Sync()

	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Fatalf("Unable to connect to NATS: %v", err)
	}
	defer sub.Close()

	err = sub.Subscribe("research.>", "research-audit", func(ctx context.Context, event events.Event) error {
		sysLogger.Info("audit", event.EventType(), event.Payload())
		return nil
	})
	if err != nil {
		log.Fatalf("Unable to subscribe: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("Shutting down audit worker")
}
