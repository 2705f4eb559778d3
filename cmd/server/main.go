package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mybudget/internal/handlers"
	"mybudget/internal/session"
	"mybudget/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

func setupRouter(h *handlers.Handlers) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Mount("/", h.Routes())
	return r
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	viper.SetConfigFile(".env")
	viper.AutomaticEnv()
	viper.SetDefault("db.path", "mybudget.db")
	viper.SetDefault("server.addr", ":8080")
	viper.BindEnv("db.path", "DB_PATH")
	viper.BindEnv("server.addr", "SERVER_ADDR")
	if err := viper.ReadInConfig(); err != nil {
		log.Debug().Err(err).Msg("no config file, using env and defaults")
	}

	dbPath := viper.GetString("db.path")
	db, err := storage.NewDB(dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", dbPath).Msg("failed to open ledger database")
	}
	defer db.Close()

	coord, err := session.NewCoordinator(db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load accounts")
	}

	if empty, err := db.Empty(); err == nil && empty {
		log.Info().Msg("ledger is empty, create an account to get started")
	}

	h := handlers.NewHandlers(coord, log)
	r := setupRouter(h)

	addr := viper.GetString("server.addr")
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Str("db", dbPath).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
