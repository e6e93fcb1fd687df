package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const QueueReceipt = "jobs:receipt"

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueReceipt pushes a receipt notification job to Redis.
func (d *Dispatcher) EnqueueReceipt(ctx context.Context, payload interface{}) error {
	return d.enqueue(ctx, QueueReceipt, "receipt", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Handlers routes dequeued jobs by type.
type Handlers struct {
	Receipt *ReceiptWorker
}

// StartWorkerPool launches numWorkers goroutines consuming the receipt queue.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, handlers Handlers) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i, handlers)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, handlers Handlers) {
	queues := []string{QueueReceipt}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handlers Handlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	switch job.Type {
	case "receipt":
		if handlers.Receipt != nil {
			handlers.Receipt.Process(ctx, job.Payload)
			return
		}
	}
	SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, "no handler registered", 0)
}
