// Package inproc carries fingerprint jobs from ingestion to a pool of
// hash workers over a buffered channel. It keeps the publish/subscribe
// contract of a broker-backed queue while staying a pure in-process call
// path: no ordering across items, no cancellation of a started job, no
// redelivery.
package inproc

import (
	"context"
	"fmt"
	"log"
	"sync"
)

type Queue struct {
	jobs    chan string
	workers int

	mu     sync.RWMutex
	closed bool
}

const (
	defaultWorkers = 4
	defaultBuffer  = 64
)

func New(workers, buffer int) *Queue {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Queue{
		jobs:    make(chan string, buffer),
		workers: workers,
	}
}

// PublishFingerprintRequested enqueues one item id. Ingestion never blocks
// indefinitely on a full queue: a cancelled context aborts the publish. A
// publish after Close is rejected rather than racing the channel close.
func (q *Queue) PublishFingerprintRequested(ctx context.Context, itemID string) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return fmt.Errorf("publish fingerprint job: queue closed")
	}

	select {
	case q.jobs <- itemID:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("publish fingerprint job: %w", ctx.Err())
	}
}

// SubscribeFingerprintRequested runs the worker pool against the handler
// and blocks until the context is cancelled, then waits for in-flight
// handlers to finish. A started hash computation always runs to completion
// or failure; there is no cancel-on-demand path.
func (q *Queue) SubscribeFingerprintRequested(ctx context.Context, handler func(context.Context, string) error) error {
	var wg sync.WaitGroup
	wg.Add(q.workers)

	for i := 0; i < q.workers; i++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case itemID, ok := <-q.jobs:
					if !ok {
						return
					}
					if err := handler(context.WithoutCancel(ctx), itemID); err != nil {
						log.Printf("fingerprint handler error for item=%s: %v", itemID, err)
					}
				}
			}
		}()
	}

	<-ctx.Done()
	wg.Wait()
	return nil
}

// Close rejects further publishes and releases the job channel. A publish
// blocked on a full buffer holds its read lock, so Close waits for pending
// publishes to finish first.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
}
