package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"coinwatch/config"
	"coinwatch/handlers"
	"coinwatch/internal/database"
	"coinwatch/services/account"
	"coinwatch/services/coingecko"
	"coinwatch/utils"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	settings, err := config.NewManager(*configPath).Load()
	if err != nil {
		log.Fatalf("[main] failed to load configuration: %v", err)
	}

	log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
		Filename:   settings.Log.File,
		MaxSize:    settings.Log.MaxSizeMB,
		MaxBackups: settings.Log.MaxBackups,
		MaxAge:     settings.Log.MaxAgeDays,
	}))

	db, err := database.NewDB(database.Config{DatabasePath: settings.Database.Path})
	if err != nil {
		log.Fatalf("[main] failed to open database: %v", err)
	}
	defer db.Close()

	store := account.NewStore(db.Repository)
	store.Restore()

	market := coingecko.NewClient(settings.Market.BaseURL, settings.Market.VsCurrency)

	router := utils.NewRouter()
	handlers.RegisterRoutes(router,
		handlers.NewAuthHandler(store),
		handlers.NewWatchlistHandler(store),
		handlers.NewMarketsHandler(market),
	)

	server := &http.Server{
		Addr:         settings.Server.Addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("[main] listening on %s", settings.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("[main] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[main] shutdown error: %v", err)
	}
}
