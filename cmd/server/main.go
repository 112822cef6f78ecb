package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pawsquare/pawsquare/internal/config"
	"github.com/pawsquare/pawsquare/internal/db"
	"github.com/pawsquare/pawsquare/internal/httpapi"
	"github.com/pawsquare/pawsquare/internal/notify"
	"github.com/pawsquare/pawsquare/internal/presence"
	"github.com/pawsquare/pawsquare/internal/store/rabbitmq"
	"github.com/pawsquare/pawsquare/internal/store/redisstore"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	gdb := db.Connect(cfg.DBDSN)

	rds := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer rds.Close()

	// The notification queue is optional: without rabbit the fan-out degrades
	// to synchronous inserts.
	var queue notify.Queue
	pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
	if err != nil {
		log.Printf("rabbit unavailable, notifications will be inserted inline: %v", err)
	} else {
		queue = pub
		defer pub.Close()
	}

	hub := presence.NewHub()
	router := httpapi.NewRouter(gdb, cfg, rds, queue, hub)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
