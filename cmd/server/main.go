package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"propertyscout/config"
	"propertyscout/internal/api"
	"propertyscout/internal/app"
	"propertyscout/internal/logger"
	"propertyscout/internal/scheduler"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.New("info", "json").WithError(err).Fatal("Failed to load configuration")
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	a, err := app.New(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize application")
	}
	defer a.Close()

	a.StartProcessing()

	jobs := scheduler.NewScheduler(log, scheduler.Job{
		Name:     "geocode-comparables",
		Interval: cfg.Geocoding.RefreshInterval,
		Run: func(ctx context.Context) error {
			_, err := a.DB.UpdateMissingCoordinates(ctx, a.Geocoder)
			return err
		},
	})
	jobs.Start()

	handler := api.NewHandler(api.Services{
		DB:              a.DB,
		Engine:          a.Engine,
		Parcels:         a.Parcels,
		TelegramService: a.Telegram,
		Queue:           a.Queue,
		ChecklistTarget: a.ChecklistTarget(),
		MaxBatchSize:    cfg.BatchProcessing.MaxBatchSize,
	}, log)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	api.SetupRoutes(router, handler)

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Infof("Starting server on port %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	jobs.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
}
