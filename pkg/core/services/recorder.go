package services

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/wadjakorntonsri/shortlinks/pkg/core/domain"
	"github.com/wadjakorntonsri/shortlinks/pkg/ports"
)

// ClickRecorder increments click counters off the request path. Failures
// are logged and dropped.
type ClickRecorder struct {
	repo    ports.LinkRepository
	clock   domain.Clock
	timeout time.Duration

	inflight sync.WaitGroup
}

func NewClickRecorder(repo ports.LinkRepository, clock domain.Clock, timeout time.Duration) *ClickRecorder {
	return &ClickRecorder{repo: repo, clock: clock, timeout: timeout}
}

// Record schedules one click for code and returns immediately.
func (r *ClickRecorder) Record(code string) {
	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		r.record(code)
	}()
}

func (r *ClickRecorder) record(code string) {
	defer func() {
		if p := recover(); p != nil {
			glog.Errorf("recordClick(%s) panic: %v", code, p)
		}
	}()

	// Detached from the request: a client hanging up must not cancel the update.
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	clicks, err := r.repo.IncrementClicks(ctx, code, r.clock.Now())
	if err != nil {
		glog.Warningf("recordClick(%s) %+v", code, err)
		return
	}
	glog.V(2).Infof("recorded click for %s (clicks=%d)", code, clicks)
}

// Wait blocks until every scheduled click has finished or ctx is done.
func (r *ClickRecorder) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
