package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/unilab/lab-reservation-api/internal/config"
	"github.com/unilab/lab-reservation-api/internal/database"
	"github.com/unilab/lab-reservation-api/internal/handler"
	"github.com/unilab/lab-reservation-api/internal/logging"
	"github.com/unilab/lab-reservation-api/internal/metrics"
	"github.com/unilab/lab-reservation-api/internal/middleware"
	"github.com/unilab/lab-reservation-api/internal/queue"
	"github.com/unilab/lab-reservation-api/internal/repository"
	"github.com/unilab/lab-reservation-api/internal/router"
	"github.com/unilab/lab-reservation-api/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment

	cfg := config.Load()
	log := logging.New(cfg.Env)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable, cache and rate limit disabled")
	}
	cacheCfg := config.LoadCacheConfig()
	rateCfg := config.LoadRateLimitConfig()

	metrics.Register()

	professorRepo := repository.NewProfessorRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	professors := service.NewProfessorService(professorRepo, cfg.BcryptCost)
	bookings := service.NewBookingService(reservationRepo, cfg.SlotBuffer)

	authH := handler.NewAuthHandler(cfg, professors, tokenRepo)
	professorH := handler.NewProfessorHandler(professors)
	bookingH := handler.NewBookingHandler(bookings, log, cacheCfg, rdb)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.NewTokenBucket(rateCfg, rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterProfessors(e, professorH, cfg.JWTSecret)
	router.RegisterBookings(e, bookingH, cfg.JWTSecret, cacheCfg, rdb)

	go queue.StartBookingConsumer(log)

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
