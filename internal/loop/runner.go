// Package loop drives an arcade session from wall-clock timers. The frame
// timer and the one-second countdown live in a single goroutine, so stopping
// the runner always stops both together.
package loop

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Garsondee/Kite-Fly/internal/arcade"
)

// ErrRunning is returned by Start while a previous run is still active.
var ErrRunning = errors.New("loop: already running")

// Runner owns a session and its two recurring timers.
type Runner struct {
	mu      sync.Mutex
	session *arcade.Session
	held    arcade.Held

	frameEvery  time.Duration
	secondEvery time.Duration
	onFrame     func(arcade.Snapshot)
	onEnd       func(arcade.Result)
	logger      *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Runner.
type Option func(*Runner)

// WithFrameInterval sets the frame period (default 1/60 s).
func WithFrameInterval(d time.Duration) Option {
	return func(r *Runner) { r.frameEvery = d }
}

// WithSecondInterval sets the countdown period (default 1 s). Tests shorten it.
func WithSecondInterval(d time.Duration) Option {
	return func(r *Runner) { r.secondEvery = d }
}

// OnFrame is called after every Advance with a fresh snapshot, outside the lock.
func OnFrame(fn func(arcade.Snapshot)) Option {
	return func(r *Runner) { r.onFrame = fn }
}

// OnEnd is called once when the countdown reaches zero.
func OnEnd(fn func(arcade.Result)) Option {
	return func(r *Runner) { r.onEnd = fn }
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// New wraps s. The session is not started until Start.
func New(s *arcade.Session, opts ...Option) *Runner {
	r := &Runner{
		session:     s,
		frameEvery:  time.Second / 60,
		secondEvery: time.Second,
		logger:      zap.NewNop(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Start begins a new session and its timers. The run ends when the countdown
// reaches zero, ctx is cancelled, or Stop is called.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.done != nil {
		select {
		case <-r.done:
		default:
			r.mu.Unlock()
			return ErrRunning
		}
	}
	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	r.held = 0
	r.session.Start()
	id := r.session.ID()
	done := r.done
	r.mu.Unlock()

	r.logger.Info("session started", zap.String("session", id))
	go r.run(ctx, done)
	return nil
}

func (r *Runner) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	frames := time.NewTicker(r.frameEvery)
	defer frames.Stop()
	seconds := time.NewTicker(r.secondEvery)
	defer seconds.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			r.mu.Lock()
			r.session.Abort()
			r.mu.Unlock()
			r.logger.Debug("loop stopped before countdown ended")
			return

		case now := <-frames.C:
			dt := now.Sub(last).Seconds()
			last = now
			r.mu.Lock()
			r.session.Advance(dt, r.held)
			snap := r.session.Snapshot()
			r.mu.Unlock()
			if r.onFrame != nil {
				r.onFrame(snap)
			}

		case <-seconds.C:
			r.mu.Lock()
			ended := r.session.Tick1Hz()
			res := r.session.Result()
			r.mu.Unlock()
			if !ended {
				continue
			}
			if res.Err != nil {
				r.logger.Warn("profile not saved", zap.String("session", res.SessionID), zap.Error(res.Err))
			}
			r.logger.Info("session ended",
				zap.String("session", res.SessionID),
				zap.Int("score", res.Score),
				zap.String("badge", res.Badge.String()),
				zap.Bool("new_best", res.NewBest))
			if r.onEnd != nil {
				r.onEnd(res)
			}
			return
		}
	}
}

// Stop cancels both timers and waits for the loop goroutine to exit. It is
// safe to call more than once and after the run ended on its own.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Done is closed when the current run exits. Nil before the first Start.
func (r *Runner) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

// SetHeld replaces the held direction set used on the next frame.
func (r *Runner) SetHeld(h arcade.Held) {
	r.mu.Lock()
	r.held = h
	r.mu.Unlock()
}

// Press adds directions to the held set.
func (r *Runner) Press(h arcade.Held) {
	r.mu.Lock()
	r.held |= h
	r.mu.Unlock()
}

// Release removes directions from the held set.
func (r *Runner) Release(h arcade.Held) {
	r.mu.Lock()
	r.held &^= h
	r.mu.Unlock()
}

// BeginDrag, Drag and EndDrag forward pointer input to the session.
func (r *Runner) BeginDrag(x, y float64) {
	r.mu.Lock()
	r.session.BeginDrag()
	r.session.SetPointerTarget(x, y)
	r.mu.Unlock()
}

func (r *Runner) Drag(x, y float64) {
	r.mu.Lock()
	r.session.SetPointerTarget(x, y)
	r.mu.Unlock()
}

func (r *Runner) EndDrag() {
	r.mu.Lock()
	r.session.EndDrag()
	r.mu.Unlock()
}

// Snapshot returns the current state for drawing.
func (r *Runner) Snapshot() arcade.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session.Snapshot()
}
