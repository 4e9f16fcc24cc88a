package queue

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"propertyscout/internal/models"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// Handler consumes one batch of comparables.
type Handler func([]*models.Property) error

// ComparableQueue is an in-memory queue of comparable batches waiting to be stored.
type ComparableQueue struct {
	items    chan []*models.Property
	maxSize  int
	closed   bool
	mu       sync.RWMutex
	logger   *logrus.Logger
	handlers []Handler
	wg       sync.WaitGroup
	pending  sync.WaitGroup
}

// NewComparableQueue creates a queue holding at most bufferSize batches.
func NewComparableQueue(bufferSize int, logger *logrus.Logger) *ComparableQueue {
	if logger == nil {
		logger = logrus.New()
	}
	return &ComparableQueue{
		items:   make(chan []*models.Property, bufferSize),
		maxSize: bufferSize,
		logger:  logger,
	}
}

// Push adds a batch without blocking.
func (q *ComparableQueue) Push(batch []*models.Property) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	q.pending.Add(1)
	select {
	case q.items <- batch:
		q.logger.WithField("batch_size", len(batch)).Debug("Pushed batch to queue")
		return nil
	default:
		q.pending.Done()
		return ErrQueueFull
	}
}

// Subscribe adds a handler called for each batch.
func (q *ComparableQueue) Subscribe(handler Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start launches workers goroutines delivering batches to subscribers.
func (q *ComparableQueue) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.process()
	}
}

func (q *ComparableQueue) process() {
	defer q.wg.Done()
	for batch := range q.items {
		q.processBatch(batch)
		q.pending.Done()
	}
}

func (q *ComparableQueue) processBatch(batch []*models.Property) {
	q.mu.RLock()
	handlers := append([]Handler(nil), q.handlers...)
	q.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(batch); err != nil {
			q.logger.WithError(err).WithField("batch_size", len(batch)).Error("Handler failed to process batch")
		}
	}
}

// Wait blocks until every pushed batch has been handled. It requires Start.
func (q *ComparableQueue) Wait() {
	q.pending.Wait()
}

// Close stops accepting batches and waits for queued ones to drain.
func (q *ComparableQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.items)
	q.mu.Unlock()

	q.wg.Wait()
	return nil
}

// Len returns the current number of batches in the queue
func (q *ComparableQueue) Len() int {
	return len(q.items)
}

// IsClosed returns whether the queue has been closed
func (q *ComparableQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
