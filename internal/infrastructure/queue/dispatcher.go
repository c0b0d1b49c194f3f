// Package queue records publication views off the request path.
package queue

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/marketplace-api/marketplace/internal/core/ports"
	"github.com/marketplace-api/marketplace/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// VisitRecorder stores one publication view in the caller's history.
type VisitRecorder interface {
	Record(ctx context.Context, userID, publicationID uint) (*ports.VisitResult, error)
}

type visitJob struct {
	userID        uint
	publicationID uint
}

// Dispatcher routes views to a fixed set of workers sharded by user id, so a
// user's history is written in the order the pages were opened.
type Dispatcher struct {
	workers []chan visitJob
	visits  VisitRecorder
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, visits VisitRecorder, log zerolog.Logger) *Dispatcher {
	return newDispatcher(numWorkers, channelBuffer, visits, log)
}

func newDispatcher(numWorkers, buffer int, visits VisitRecorder, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan visitJob, numWorkers),
		visits:  visits,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan visitJob, buffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Track queues a view without blocking. When the worker's buffer is full the
// view is dropped and counted.
func (d *Dispatcher) Track(userID, publicationID uint) {
	select {
	case d.workers[d.shardIndex(userID)] <- visitJob{userID: userID, publicationID: publicationID}:
	default:
		metrics.VisitQueueDroppedTotal.Inc()
		d.log.Warn().
			Uint("user_id", userID).
			Uint("publication_id", publicationID).
			Msg("visit queue full, view dropped")
	}
}

func (d *Dispatcher) shardIndex(userID uint) int {
	return int(userID % uint(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan visitJob) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-ch:
			if _, err := d.visits.Record(ctx, job.userID, job.publicationID); err != nil {
				d.log.Warn().Err(err).
					Uint("user_id", job.userID).
					Uint("publication_id", job.publicationID).
					Int("worker_id", id).
					Msg("failed to record visit")
			}
		}
	}
}
