package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"propertyscout/internal/models"
)

var ErrNotFound = errors.New("record not found")

// Geocoder resolves an address to a lon/lat point.
type Geocoder interface {
	GeocodeAddress(ctx context.Context, address string) (orb.Point, error)
}

type Database struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewDatabase opens (creating if needed) the sqlite database at dbPath.
func NewDatabase(dbPath string, logger *logrus.Logger) (*Database, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, err
	}

	return Wrap(db, logger), nil
}

// Wrap builds a Database around an open gorm handle.
func Wrap(db *gorm.DB, logger *logrus.Logger) *Database {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Database{db: db, logger: logger}
}

// NewTestDB opens a private in-memory database.
func NewTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// Every pooled connection to :memory: would see its own empty database.
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func (d *Database) GetDB() *gorm.DB {
	return d.db
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// UpsertComparables inserts comparables, replacing rows with the same address.
func UpsertComparables(tx *gorm.DB, comps []*models.Property) error {
	if len(comps) == 0 {
		return nil
	}

	records := make([]models.ComparableRecord, 0, len(comps))
	for _, c := range comps {
		if c == nil || c.Address == "" {
			return fmt.Errorf("comparable without an address")
		}
		records = append(records, models.ComparableRecordFromProperty(*c))
	}

	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"price", "square_feet", "units", "cap_rate", "sale_date",
			"property_type", "distance_miles", "latitude", "longitude", "updated_at",
		}),
	}).Create(&records).Error
}

// ListComparables returns stored comparables, most recent sales first.
func (d *Database) ListComparables(ctx context.Context, filter models.ComparableFilter) ([]models.ComparableRecord, error) {
	query := d.db.WithContext(ctx).Model(&models.ComparableRecord{})
	if len(filter.PropertyTypes) > 0 {
		query = query.Where("property_type IN ?", filter.PropertyTypes)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var records []models.ComparableRecord
	if err := query.Order("sale_date DESC").Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query comparables: %w", err)
	}
	return records, nil
}

// CountComparables returns the number of stored comparables.
func (d *Database) CountComparables(ctx context.Context) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&models.ComparableRecord{}).Count(&count).Error
	return count, err
}

// SaveAnalysis stores an analysis under a fresh run id.
func (d *Database) SaveAnalysis(ctx context.Context, analysis *models.InvestmentAnalysis) (*models.AnalysisRecord, error) {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis: %w", err)
	}

	record := &models.AnalysisRecord{
		RunID:        uuid.NewString(),
		Address:      analysis.TargetProperty.Address,
		AskingPrice:  analysis.PriceAnalysis.AskingPrice,
		Score:        analysis.InvestmentScore,
		Tier:         analysis.Recommendations.Tier,
		ValueLow:     analysis.PriceAnalysis.EstimatedValueRange.Low,
		ValueHigh:    analysis.PriceAnalysis.EstimatedValueRange.High,
		CounterOffer: analysis.Recommendations.SuggestedCounterOffer,
		Payload:      string(payload),
		CreatedAt:    analysis.GeneratedAt,
	}
	if err := d.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}

	d.logger.WithFields(logrus.Fields{
		"run_id":  record.RunID,
		"address": record.Address,
		"score":   record.Score,
	}).Info("Saved analysis")
	return record, nil
}

// ListAnalyses returns the most recent analyses.
func (d *Database) ListAnalyses(ctx context.Context, limit int) ([]models.AnalysisRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	var records []models.AnalysisRecord
	err := d.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	return records, nil
}

// GetAnalysis loads the full analysis stored under runID.
func (d *Database) GetAnalysis(ctx context.Context, runID string) (*models.InvestmentAnalysis, error) {
	var record models.AnalysisRecord
	err := d.db.WithContext(ctx).Where("run_id = ?", runID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis: %w", err)
	}

	var analysis models.InvestmentAnalysis
	if err := json.Unmarshal([]byte(record.Payload), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse stored analysis: %w", err)
	}
	return &analysis, nil
}

// UpdateMissingCoordinates geocodes stored comparables without coordinates.
// Individual failures are logged and skipped. It returns the number updated.
func (d *Database) UpdateMissingCoordinates(ctx context.Context, geocoder Geocoder) (int, error) {
	var records []models.ComparableRecord
	err := d.db.WithContext(ctx).
		Where("latitude IS NULL OR longitude IS NULL").
		Find(&records).Error
	if err != nil {
		return 0, fmt.Errorf("failed to query comparables without coordinates: %w", err)
	}

	d.logger.Infof("Found %d comparables without coordinates", len(records))

	updated := 0
	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return updated, err
		}

		point, err := geocoder.GeocodeAddress(ctx, r.Address)
		if err != nil {
			d.logger.WithError(err).WithField("address", r.Address).Warn("Failed to geocode comparable")
			continue
		}

		err = d.db.WithContext(ctx).Model(&models.ComparableRecord{}).
			Where("id = ?", r.ID).
			Updates(map[string]interface{}{"latitude": point.Lat(), "longitude": point.Lon()}).Error
		if err != nil {
			return updated, fmt.Errorf("failed to update coordinates for %s: %w", r.Address, err)
		}
		updated++
	}

	d.logger.WithField("updated", updated).Info("Finished updating comparable coordinates")
	return updated, nil
}
