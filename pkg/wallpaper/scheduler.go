package wallpaper

import (
	"context"
	"errors"
	"time"

	"github.com/dixieflatline76/wpsetter/util"
	"github.com/dixieflatline76/wpsetter/util/log"
	"github.com/google/uuid"
)

// minInterval is MinInterval, lowered by tests.
var minInterval = MinInterval

// LoopOptions configures StartBackgroundLoop.
type LoopOptions struct {
	// Interval is the pause between cycles.
	//
	// Deprecated behavior kept for compatibility: a non-zero Interval with Repeat
	// unset logs a deprecation warning and turns Repeat on. Callers that want a
	// repeating loop should set Repeat explicitly.
	Interval time.Duration
	// Repeat keeps cycling until the worker is stopped. Without it exactly one
	// cycle runs. Defaults Interval to DefaultInterval when it is zero.
	Repeat bool
	// FromCache applies images listed in the cache snapshot instead of fetching.
	FromCache bool
	// OnError receives Connectivity failures of repeating loops, which do not stop
	// the worker. When nil they are logged.
	OnError func(error)
}

// normalize applies the deprecation shim and interval defaults.
func (o LoopOptions) normalize() LoopOptions {
	if o.Interval != 0 && !o.Repeat {
		log.Printf("Deprecated: an interval of %v was given without repeat; repeat is being enabled. Request repeat explicitly next time.", o.Interval)
		o.Repeat = true
	}
	if o.Repeat {
		if o.Interval == 0 {
			o.Interval = DefaultInterval
		}
		if o.Interval < minInterval {
			log.Printf("Interval %v is below the minimum, using %v", o.Interval, minInterval)
			o.Interval = minInterval
		}
	}
	return o
}

// Worker is the handle of a background goroutine started by this package.
type Worker struct {
	id     uuid.UUID
	cancel context.CancelFunc
	done   chan struct{}
	err    error
	cycles *util.SafeCounter
}

func newWorker(cancel context.CancelFunc) *Worker {
	return &Worker{
		id:     uuid.New(),
		cancel: cancel,
		done:   make(chan struct{}),
		cycles: util.NewSafeCounter(0),
	}
}

// ID identifies the worker in logs.
func (w *Worker) ID() string {
	return w.id.String()
}

// Cycles returns the number of cycles the worker has completed without error.
func (w *Worker) Cycles() int {
	return w.cycles.Value()
}

// Stop asks the worker to finish. It does not wait.
func (w *Worker) Stop() {
	w.cancel()
}

// Done is closed when the worker has finished.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Wait blocks until the worker finishes and returns the error that ended it.
// A worker ended by Stop returns nil.
func (w *Worker) Wait() error {
	<-w.done
	return w.err
}

func (w *Worker) finish() {
	w.cancel()
	close(w.done)
}

// StartBackgroundLoop starts the fetch-write-apply loop (or the cache loop with
// FromCache) on a worker goroutine. Only one loop runs per Setter: while one is
// alive the call does nothing and reports false.
func (s *Setter) StartBackgroundLoop(ctx context.Context, opts LoopOptions) (*Worker, bool) {
	if !s.loopActive.TrySet() {
		log.Print("Background loop already running; not starting another")
		return nil, false
	}

	opts = opts.normalize()
	ctx, cancel := context.WithCancel(ctx)
	w := newWorker(cancel)

	go func() {
		defer w.finish()
		defer s.loopActive.Set(false)

		log.Printf("Worker %s started (repeat=%t interval=%v cache=%t)", w.ID(), opts.Repeat, opts.Interval, opts.FromCache)
		w.err = s.runLoop(ctx, w, opts)
		if w.err != nil {
			log.Printf("Worker %s stopped after %d cycles: %v", w.ID(), w.Cycles(), w.err)
		} else {
			log.Printf("Worker %s finished after %d cycles", w.ID(), w.Cycles())
		}
	}()

	return w, true
}

// runLoop returns nil when ctx is canceled or the single cycle succeeds.
func (s *Setter) runLoop(ctx context.Context, w *Worker, opts LoopOptions) error {
	step := s.Cycle
	if opts.FromCache {
		step = func(ctx context.Context) error {
			_, err := s.ApplyFromCache(ctx)
			return err
		}
	}

	for {
		err := step(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			if !opts.Repeat || !errors.Is(err, ErrConnectivity) {
				return err
			}
			if opts.OnError != nil {
				opts.OnError(err)
			} else {
				log.Printf("Cycle failed, retrying in %v: %v", opts.Interval, err)
			}
		} else {
			w.cycles.Increment()
		}
		if !opts.Repeat {
			return nil
		}

		timer := time.NewTimer(opts.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}
