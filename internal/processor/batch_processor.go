package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"propertyscout/config"
	"propertyscout/internal/database"
	"propertyscout/internal/models"
	"propertyscout/internal/queue"
)

// BatchProcessor stores queued comparable batches
type BatchProcessor struct {
	db         *gorm.DB
	logger     *logrus.Logger
	config     *config.Config
	queue      *queue.ComparableQueue
	retryDelay time.Duration
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewBatchProcessor creates a new batch processor instance
func NewBatchProcessor(db *gorm.DB, q *queue.ComparableQueue, cfg *config.Config, logger *logrus.Logger) *BatchProcessor {
	ctx, cancel := context.WithCancel(context.Background())
	return &BatchProcessor{
		db:         db,
		queue:      q,
		config:     cfg,
		logger:     logger,
		retryDelay: time.Duration(cfg.BatchProcessing.RetryDelay) * time.Second,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start subscribes to the queue and launches the configured number of workers.
func (p *BatchProcessor) Start() {
	p.queue.Subscribe(p.Process)
	p.queue.Start(p.config.BatchProcessing.ProcessorCount)
}

// Stop closes the queue and waits up to BATCH_WAIT_TIME for queued batches
// to be stored. Pending retries are abandoned once the wait expires.
func (p *BatchProcessor) Stop() {
	done := make(chan struct{})
	go func() {
		p.queue.Close()
		close(done)
	}()

	wait := time.Duration(p.config.BatchProcessing.MaxBatchWaitTime) * time.Second
	select {
	case <-done:
	case <-time.After(wait):
		p.logger.Warnf("Queued batches not drained after %s, abandoning retries", wait)
		p.cancel()
		<-done
	}
	p.cancel()
}

// Process stores a single batch with transaction and retry logic
func (p *BatchProcessor) Process(batch []*models.Property) error {
	maxRetries := p.config.BatchProcessing.MaxRetries

	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			p.logger.Infof("Retrying batch processing, attempt %d of %d", attempt, maxRetries)
			select {
			case <-time.After(p.retryDelay):
			case <-p.ctx.Done():
				return fmt.Errorf("batch processing cancelled: %w", err)
			}
		}

		err = p.db.WithContext(p.ctx).Transaction(func(tx *gorm.DB) error {
			if err := database.UpsertComparables(tx, batch); err != nil {
				return fmt.Errorf("failed to upsert comparables batch: %w", err)
			}
			return nil
		})

		if err == nil {
			p.logger.Infof("Successfully processed batch of %d comparables", len(batch))
			return nil
		}

		p.logger.Errorf("Batch processing failed: %v", err)
	}

	return fmt.Errorf("failed to process batch after %d attempts: %w", maxRetries+1, err)
}

// SetRetryDelay overrides the delay between attempts.
func (p *BatchProcessor) SetRetryDelay(d time.Duration) {
	p.retryDelay = d
}
