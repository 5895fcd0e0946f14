package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mediameter/internal/models"
	"mediameter/internal/queue"
	"mediameter/internal/utils"
)

// UsageQueueWorker drains the usage-event queue and writes events to
// Postgres in batches. A failed batch falls back to individual inserts
// with retries; events that still fail move to the dead-letter queue.
type UsageQueueWorker struct {
	queue       queue.Queue
	dlq         queue.DeadLetterQueue
	repo        *UsageEventRepository
	config      *queue.Config
	stopChan    chan struct{}
	stoppedChan chan struct{}
}

// NewUsageQueueWorker creates a new usage queue worker
func NewUsageQueueWorker(q queue.Queue, dlq queue.DeadLetterQueue, db *DB, config *queue.Config) *UsageQueueWorker {
	if config == nil {
		config = queue.DefaultConfig("usage")
	}

	return &UsageQueueWorker{
		queue:       q,
		dlq:         dlq,
		repo:        NewUsageEventRepository(db),
		config:      config,
		stopChan:    make(chan struct{}),
		stoppedChan: make(chan struct{}),
	}
}

// Start starts the worker goroutine
func (w *UsageQueueWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

// Stop gracefully stops the worker
func (w *UsageQueueWorker) Stop() error {
	close(w.stopChan)
	<-w.stoppedChan
	return nil
}

// Enqueue adds a usage event to the queue
func (w *UsageQueueWorker) Enqueue(ctx context.Context, event *models.UsageEvent) error {
	return w.queue.Enqueue(ctx, event)
}

// run is the main worker loop
func (w *UsageQueueWorker) run(ctx context.Context) {
	defer close(w.stoppedChan)

	logger := utils.NewLogger("usage-worker")

	for {
		select {
		case <-w.stopChan:
			logger.Info("Usage worker stopping")
			return
		case <-ctx.Done():
			logger.Info("Usage worker context cancelled")
			return
		default:
			w.processBatch(ctx, logger)
		}
	}
}

// processBatch processes one batch of usage events
func (w *UsageQueueWorker) processBatch(ctx context.Context, logger *utils.Logger) {
	items, err := w.queue.DequeueWithTimeout(ctx, w.config.BatchSize, w.config.BatchTimeout)
	if err != nil {
		logger.Error("Failed to dequeue usage events", "error", err)
		time.Sleep(1 * time.Second) // Back off on error
		return
	}

	if len(items) == 0 {
		return
	}

	logger.Debug("Processing usage batch", "count", len(items))

	events := make([]*models.UsageEvent, 0, len(items))
	for _, item := range items {
		var event models.UsageEvent
		if err := w.unmarshalItem(item, &event); err != nil {
			logger.Error("Failed to unmarshal usage event", "error", err)
			continue
		}
		events = append(events, &event)
	}

	if len(events) == 0 {
		return
	}

	if err := w.repo.CreateBatch(ctx, events); err != nil {
		logger.Error("Failed to insert batch, falling back to individual inserts", "error", err)
		for _, event := range events {
			if err := w.processItem(ctx, event, logger); err != nil {
				logger.Error("Failed to process usage event", "error", err)
			}
		}
	}
}

// processItem inserts a single usage event with retries
func (w *UsageQueueWorker) processItem(ctx context.Context, event *models.UsageEvent, logger *utils.Logger) error {
	var lastErr error
	for attempt := 0; attempt <= w.config.MaxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff
			backoff := w.config.RetryBackoff * time.Duration(1<<uint(attempt-1))
			logger.Debug("Retrying usage event", "attempt", attempt, "backoff", backoff)
			time.Sleep(backoff)
		}

		if err := w.repo.Create(ctx, event); err != nil {
			lastErr = err
			logger.Error("Failed to insert usage event", "attempt", attempt, "error", err)
			continue
		}

		logger.Debug("Usage event inserted", "ref_id", event.RefID)
		return nil
	}

	// Max retries exceeded, keep the event for manual replay
	if w.dlq != nil {
		if err := w.dlq.Add(ctx, event, lastErr); err != nil {
			logger.Error("Failed to add to dead letter queue", "error", err)
		} else {
			logger.Warn("Usage event moved to DLQ", "ref_id", event.RefID, "error", lastErr)
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// unmarshalItem converts a queue item back into a UsageEvent. The
// memory queue hands back the original struct; the Redis queue hands
// back raw JSON.
func (w *UsageQueueWorker) unmarshalItem(item interface{}, event *models.UsageEvent) error {
	switch v := item.(type) {
	case *models.UsageEvent:
		*event = *v
		return nil
	case models.UsageEvent:
		*event = v
		return nil
	case []byte:
		return json.Unmarshal(v, event)
	case json.RawMessage:
		return json.Unmarshal(v, event)
	default:
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to marshal item: %w", err)
		}
		return json.Unmarshal(data, event)
	}
}

// QueueLength returns the current queue length
func (w *UsageQueueWorker) QueueLength(ctx context.Context) (int, error) {
	return w.queue.Length(ctx)
}

// DeadLetterItems returns items from the dead letter queue
func (w *UsageQueueWorker) DeadLetterItems(ctx context.Context, maxItems int) ([]queue.DeadLetterItem, error) {
	if w.dlq == nil {
		return nil, fmt.Errorf("dead letter queue not configured")
	}
	return w.dlq.List(ctx, maxItems)
}

// RetryDeadLetterItem re-enqueues a failed event from the dead letter queue
func (w *UsageQueueWorker) RetryDeadLetterItem(ctx context.Context, id string) error {
	if w.dlq == nil {
		return fmt.Errorf("dead letter queue not configured")
	}

	items, err := w.dlq.List(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to list dead letter items: %w", err)
	}

	for _, dlItem := range items {
		if dlItem.ID == id {
			if err := w.queue.Enqueue(ctx, dlItem.Item); err != nil {
				return fmt.Errorf("failed to re-enqueue item: %w", err)
			}
			if err := w.dlq.Remove(ctx, id); err != nil {
				return fmt.Errorf("failed to remove from DLQ: %w", err)
			}
			return nil
		}
	}

	return fmt.Errorf("item not found in dead letter queue")
}
