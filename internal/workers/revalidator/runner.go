// Package revalidator batches cache revalidation requests from admin
// mutations and publishes them off the request path.
package revalidator

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"backoffice/internal/metrics"
	"backoffice/internal/ports"
)

const (
	publishTimeout = 5 * time.Second
	defaultFlush   = 250 * time.Millisecond
)

// Queue is the non-blocking ports.Revalidator handed to services.
type Queue struct {
	ch      chan []string
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewQueue(size int, log *zap.Logger, m *metrics.Metrics) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{ch: make(chan []string, size), log: log.Named("revalidator"), metrics: m}
}

// Revalidate enqueues paths. When the queue is full the request is dropped.
func (q *Queue) Revalidate(paths ...string) {
	if len(paths) == 0 {
		return
	}
	cp := append([]string(nil), paths...)
	select {
	case q.ch <- cp:
	default:
		q.metrics.Revalidation("dropped", len(cp))
		q.log.Warn("revalidation queue full, dropping paths", zap.Strings("paths", cp))
	}
}

// LogPublisher stands in for a broker when none is configured.
type LogPublisher struct{ Log *zap.Logger }

func (p LogPublisher) Publish(_ context.Context, paths []string) error {
	p.Log.Info("revalidate", zap.Strings("paths", paths))
	return nil
}

// Run drains q every flushInterval, de-duplicating paths, and hands each batch
// to one of concurrency publishing workers. It blocks until ctx is cancelled
// and the final batch has been published.
func Run(ctx context.Context, q *Queue, pub ports.RevalidationPublisher, concurrency int, flushInterval time.Duration) {
	if concurrency < 1 {
		concurrency = 1
	}
	if flushInterval <= 0 {
		flushInterval = defaultFlush
	}
	batches := make(chan []string, concurrency)

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			for batch := range batches {
				pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
				err := pub.Publish(pctx, batch)
				cancel()
				if err != nil {
					q.metrics.Revalidation("failed", len(batch))
					q.log.Warn("publish revalidation failed", zap.Int("worker", idx), zap.Strings("paths", batch), zap.Error(err))
					continue
				}
				q.metrics.Revalidation("published", len(batch))
			}
		}(i)
	}

	pending := newPathSet()
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()
	for {
		select {
		case paths := <-q.ch:
			pending.add(paths...)
		case <-ticker.C:
			if batch := pending.take(); len(batch) > 0 {
				batches <- batch
			}
		case <-ctx.Done():
			for drained := false; !drained; {
				select {
				case paths := <-q.ch:
					pending.add(paths...)
				default:
					drained = true
				}
			}
			if batch := pending.take(); len(batch) > 0 {
				batches <- batch
			}
			close(batches)
			wg.Wait()
			return
		}
	}
}

// pathSet keeps insertion order so batches are deterministic.
type pathSet struct {
	seen  map[string]struct{}
	order []string
}

func newPathSet() *pathSet { return &pathSet{seen: map[string]struct{}{}} }

func (s *pathSet) add(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, ok := s.seen[p]; ok {
			continue
		}
		s.seen[p] = struct{}{}
		s.order = append(s.order, p)
	}
}

func (s *pathSet) take() []string {
	out := s.order
	s.order = nil
	s.seen = map[string]struct{}{}
	return out
}
