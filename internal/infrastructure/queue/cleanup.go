package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/playtube/account-service/internal/api/metrics"
	"github.com/playtube/account-service/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// CleanupDispatcher deletes replaced media assets asynchronously. Public ids
// are sharded over a fixed set of workers by consistent hashing, so repeated
// deletions of the same asset stay ordered. Deletion failures are logged and
// counted, never surfaced to the request that triggered them.
type CleanupDispatcher struct {
	workers []chan string
	storage ports.MediaStorage
	log     zerolog.Logger
}

// NewCleanupDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewCleanupDispatcher(numWorkers int, storage ports.MediaStorage, log zerolog.Logger) *CleanupDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &CleanupDispatcher{
		workers: make([]chan string, numWorkers),
		storage: storage,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *CleanupDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue schedules an asset for deletion. Non-blocking up to channelBuffer
// capacity.
func (d *CleanupDispatcher) Enqueue(publicID string) {
	if publicID == "" {
		return
	}
	d.workers[d.shardIndex(publicID)] <- publicID
}

// shardIndex maps a public id deterministically to a worker index.
func (d *CleanupDispatcher) shardIndex(publicID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(publicID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *CleanupDispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case publicID, ok := <-ch:
			if !ok {
				return
			}
			if err := d.storage.Delete(ctx, publicID); err != nil {
				metrics.MediaDeletesTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Str("public_id", publicID).
					Int("worker_id", id).
					Msg("media cleanup failed, asset leaked")
				continue
			}
			metrics.MediaDeletesTotal.WithLabelValues("success").Inc()
			d.log.Debug().Str("public_id", publicID).Msg("replaced media deleted")
		}
	}
}
