package autosave

import (
	"context"
	"sync"
	"time"
)

const DefaultDelay = 500 * time.Millisecond

type SaveFunc func(ctx context.Context, d Draft) error

// Autosaver drives a Machine with a debounce timer. A failed save goes back
// to idle and is reported to the error handler; Retry, Flush or the next edit
// sends it again.
type Autosaver struct {
	ctx     context.Context
	delay   time.Duration
	save    SaveFunc
	onError func(error)

	mu      sync.Mutex
	m       Machine
	timer   *time.Timer
	gen     uint64
	stopped bool
	idle    *sync.Cond
}

type Option func(*Autosaver)

func WithDelay(d time.Duration) Option {
	return func(a *Autosaver) {
		a.delay = d
	}
}

func WithErrorHandler(fn func(error)) Option {
	return func(a *Autosaver) {
		a.onError = fn
	}
}

func New(ctx context.Context, save SaveFunc, opts ...Option) *Autosaver {
	a := &Autosaver{
		ctx:     ctx,
		delay:   DefaultDelay,
		save:    save,
		onError: func(error) {},
	}
	a.idle = sync.NewCond(&a.mu)

	for _, opt := range opts {
		opt(a)
	}

	return a
}

func (a *Autosaver) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.m.State()
}

func (a *Autosaver) Edit(d Draft) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return
	}

	if a.m.Edit(d) {
		a.scheduleLocked()
	}
}

// Pending is the draft not yet saved, including one whose save failed.
func (a *Autosaver) Pending() (Draft, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.m.Pending()
}

// Retry re-arms the debounce timer for a draft whose last save failed.
func (a *Autosaver) Retry() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return
	}

	if a.m.Retry() {
		a.scheduleLocked()
	}
}

// Flush saves an unsaved draft now instead of waiting for the timer, then
// waits until no save is in flight.
func (a *Autosaver) Flush() {
	a.mu.Lock()
	for a.m.State() == Saving {
		a.idle.Wait()
	}
	a.m.Retry()

	if a.m.State() == Dirty {
		a.gen++
		a.stopTimerLocked()
		d, ok := a.m.DebounceElapsed()
		a.mu.Unlock()
		if ok {
			a.run(d)
		}
		a.mu.Lock()
	}

	for a.m.State() == Saving {
		a.idle.Wait()
	}
	a.mu.Unlock()
}

// Stop cancels the pending timer. An in-flight save is allowed to finish.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stopped = true
	a.gen++
	a.stopTimerLocked()
}

func (a *Autosaver) scheduleLocked() {
	a.gen++
	gen := a.gen

	a.stopTimerLocked()
	a.timer = time.AfterFunc(a.delay, func() { a.fire(gen) })
}

func (a *Autosaver) stopTimerLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *Autosaver) fire(gen uint64) {
	a.mu.Lock()
	if gen != a.gen || a.stopped {
		a.mu.Unlock()
		return
	}

	d, ok := a.m.DebounceElapsed()
	a.mu.Unlock()

	if ok {
		a.run(d)
	}
}

func (a *Autosaver) run(d Draft) {
	err := a.save(a.ctx, d)

	a.mu.Lock()
	if a.m.SaveFinished(err == nil) && !a.stopped {
		a.scheduleLocked()
	}
	a.idle.Broadcast()
	a.mu.Unlock()

	if err != nil {
		a.onError(err)
	}
}
