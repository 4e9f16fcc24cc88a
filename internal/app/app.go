package app

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"propertyscout/config"
	"propertyscout/internal/analyzer"
	"propertyscout/internal/comps"
	"propertyscout/internal/database"
	"propertyscout/internal/geocoding"
	"propertyscout/internal/gis"
	"propertyscout/internal/models"
	"propertyscout/internal/processor"
	"propertyscout/internal/queue"
	"propertyscout/internal/report"
	"propertyscout/internal/telegram"
)

// App holds the components shared by the server and the CLI.
type App struct {
	Config    *config.Config
	Logger    *logrus.Logger
	DB        *database.Database
	Geocoder  *geocoding.Geocoder
	Parcels   *gis.Client
	Telegram  *telegram.Service
	Queue     *queue.ComparableQueue
	Processor *processor.BatchProcessor
	Engine    *analyzer.Engine

	processing bool
}

// New opens the database, runs migrations and builds every component.
func New(cfg *config.Config, logger *logrus.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Infof("Using database at: %s", cfg.Server.DatabasePath)
	db, err := database.NewDatabase(cfg.Server.DatabasePath, logger)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}

	a := &App{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Geocoder: geocoding.NewGeocoder(logger, geocoding.Options{
			BaseURL:     cfg.Geocoding.URL,
			CountryCode: cfg.Geocoding.Country,
			CacheDir:    cfg.Geocoding.CacheDir,
		}),
		Parcels: gis.NewClient(logger, gis.Options{
			BaseURL:            cfg.GIS.ParcelURL,
			Timeout:            cfg.GIS.Timeout,
			RequestsPerMinute:  cfg.GIS.RequestsPerMinute,
			MaxResults:         cfg.GIS.MaxResults,
			InsecureSkipVerify: cfg.GIS.InsecureSkipVerify,
		}),
		Telegram: telegram.NewService(logger, telegram.Config{
			Enabled:  cfg.Telegram.Enabled,
			BotToken: cfg.Telegram.BotToken,
			ChatID:   cfg.Telegram.ChatID,
			APIURL:   cfg.Telegram.APIURL,
			MinScore: cfg.Telegram.MinScore,
		}),
		Queue: queue.NewComparableQueue(cfg.BatchProcessing.MaxBatchSize, logger),
	}
	a.Processor = processor.NewBatchProcessor(db.GetDB(), a.Queue, cfg, logger)

	engine, err := a.NewEngine(cfg.Comparables.Source)
	if err != nil {
		db.Close()
		return nil, err
	}
	a.Engine = engine

	return a, nil
}

// Provider returns the comparable source named by source: static, db or auto.
func (a *App) Provider(source string) (analyzer.ComparableProvider, error) {
	store := comps.NewStoreProvider(a.DB, a.Geocoder, a.Logger, comps.StoreOptions{
		PropertyTypes:    a.Config.Comparables.PropertyTypes,
		MaxDistanceMiles: a.Config.Comparables.MaxDistanceMiles,
		Limit:            a.Config.Comparables.Limit,
	})

	switch source {
	case "static":
		return comps.NewReferenceProvider(), nil
	case "db":
		return store, nil
	case "auto", "":
		return comps.NewFallbackProvider(store, comps.NewReferenceProvider()), nil
	default:
		return nil, fmt.Errorf("unknown comparables source %q", source)
	}
}

// NewEngine builds an analyzer over the given comparable source.
func (a *App) NewEngine(source string) (*analyzer.Engine, error) {
	provider, err := a.Provider(source)
	if err != nil {
		return nil, err
	}
	return analyzer.NewEngine(provider, a.Config.ScoringParams()), nil
}

// ChecklistTarget returns the configured checklist listing or the default one.
func (a *App) ChecklistTarget() models.ListingTarget {
	if t := a.Config.ChecklistTarget(); t != nil {
		return *t
	}
	return report.DefaultTarget()
}

// StartProcessing starts the comparable batch processor.
func (a *App) StartProcessing() {
	if a.processing {
		return
	}
	a.Processor.Start()
	a.processing = true
}

// Close drains queued comparables and closes the database.
func (a *App) Close() {
	if a.processing {
		a.Processor.Stop()
		a.processing = false
	}
	if err := a.DB.Close(); err != nil {
		a.Logger.WithError(err).Error("Failed to close database")
	}
}
