// Package tui hosts a Kite Fly session in a terminal. The simulation runs on
// a loop.Runner; this package only turns tcell events into held directions
// and snapshots into cells.
package tui

import (
	"context"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/Garsondee/Kite-Fly/internal/arcade"
	"github.com/Garsondee/Kite-Fly/internal/loop"
	"github.com/Garsondee/Kite-Fly/internal/sfx"
)

// HoldFor is how long one key event keeps a direction held. Terminals report
// presses and auto-repeats but no releases, so a held key is one that keeps
// repeating.
const HoldFor = 180 * time.Millisecond

const redrawEvery = time.Second / 30

// Options configures an App.
type Options struct {
	Session *arcade.Session
	Sound   *sfx.Player
	Logger  *zap.Logger
	Best    func() int // current best score for the cards; may be nil
}

// App owns the terminal screen for the lifetime of Run.
type App struct {
	screen  tcell.Screen
	session *arcade.Session
	runner  *loop.Runner
	sound   *sfx.Player
	logger  *zap.Logger
	best    func() int

	mu      sync.Mutex
	holds   map[arcade.Held]time.Time
	started bool
	drag    bool

	lastCatches   int
	lastPenalties int

	ended chan arcade.Result
}

// New wires an App to screen. The screen must already be initialised.
func New(screen tcell.Screen, o Options) *App {
	logger := o.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := o.Session
	if s == nil {
		s = arcade.NewSession()
	}
	a := &App{
		screen:  screen,
		session: s,
		sound:   o.Sound,
		logger:  logger,
		best:    o.Best,
		holds:   make(map[arcade.Held]time.Time),
		ended:   make(chan arcade.Result, 1),
	}
	a.runner = loop.New(s,
		loop.WithLogger(logger),
		loop.OnEnd(func(res arcade.Result) {
			select {
			case a.ended <- res:
			default:
			}
		}),
	)
	return a
}

// keyHeld maps a key event to a direction. ok is false for non-movement keys.
func keyHeld(ev *tcell.EventKey, vertical bool) (arcade.Held, bool) {
	switch ev.Key() {
	case tcell.KeyLeft:
		return arcade.HoldLeft, true
	case tcell.KeyRight:
		return arcade.HoldRight, true
	case tcell.KeyUp:
		return arcade.HoldUp, vertical
	case tcell.KeyDown:
		return arcade.HoldDown, vertical
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'a', 'A':
			return arcade.HoldLeft, true
		case 'd', 'D':
			return arcade.HoldRight, true
		case 'w', 'W':
			return arcade.HoldUp, vertical
		case 's', 'S':
			return arcade.HoldDown, vertical
		}
	}
	return 0, false
}

func isQuit(ev *tcell.EventKey) bool {
	return ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
		(ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'))
}

func isStart(ev *tcell.EventKey) bool {
	return ev.Key() == tcell.KeyEnter || (ev.Key() == tcell.KeyRune && ev.Rune() == ' ')
}

// press records a key event at now.
func (a *App) press(h arcade.Held, now time.Time) {
	a.mu.Lock()
	a.holds[h] = now.Add(HoldFor)
	a.mu.Unlock()
}

// heldAt returns the directions still held at now and forgets expired ones.
func (a *App) heldAt(now time.Time) arcade.Held {
	a.mu.Lock()
	defer a.mu.Unlock()
	var h arcade.Held
	for d, until := range a.holds {
		if now.After(until) {
			delete(a.holds, d)
			continue
		}
		h |= d
	}
	return h
}

func (a *App) start(ctx context.Context) {
	a.mu.Lock()
	a.holds = make(map[arcade.Held]time.Time)
	a.drag = false
	a.started = true
	a.mu.Unlock()
	a.lastCatches, a.lastPenalties = 0, 0
	if err := a.runner.Start(ctx); err != nil {
		a.logger.Debug("start ignored", zap.Error(err))
	}
}

// handle processes one terminal event. It returns false when the user quits.
func (a *App) handle(ctx context.Context, ev tcell.Event, now time.Time) bool {
	vertical := a.session.Tuning().Vertical
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if isQuit(ev) {
			return false
		}
		if isStart(ev) {
			if !a.runner.Snapshot().Running {
				a.start(ctx)
			}
			return true
		}
		if h, ok := keyHeld(ev, vertical); ok {
			a.press(h, now)
		}

	case *tcell.EventMouse:
		cols, rows := a.screen.Size()
		v := Viewport{Cols: cols, Rows: rows}
		col, row := ev.Position()
		x, y := v.Logical(col, row)
		down := ev.Buttons()&tcell.Button1 != 0
		switch {
		case down && !a.drag:
			if !a.runner.Snapshot().Running {
				a.start(ctx)
			}
			a.drag = true
			a.runner.BeginDrag(x, y)
		case down:
			a.runner.Drag(x, y)
		case a.drag:
			a.drag = false
			a.runner.EndDrag()
		}

	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *App) cues(sn arcade.Snapshot) {
	if a.sound == nil {
		a.lastCatches, a.lastPenalties = sn.Catches, sn.Penalties
		return
	}
	for ; a.lastCatches < sn.Catches; a.lastCatches++ {
		a.sound.Play(sfx.CueCatch)
	}
	for ; a.lastPenalties < sn.Penalties; a.lastPenalties++ {
		a.sound.Play(sfx.CuePenalty)
	}
}

func (a *App) bestScore(sn arcade.Snapshot) int {
	if a.best != nil {
		return a.best()
	}
	if sn.Score > sn.PrevBest && sn.Ended {
		return sn.Score
	}
	return sn.PrevBest
}

func (a *App) draw(now time.Time) {
	if a.started {
		a.runner.SetHeld(a.heldAt(now))
	}
	sn := a.runner.Snapshot()
	a.cues(sn)
	a.screen.Clear()
	Render(a.screen, sn, a.bestScore(sn), a.session.Tuning().Vertical)
	a.screen.Show()
}

// Run drives the screen until the user quits or ctx is cancelled. Any
// running session is stopped without being recorded.
func (a *App) Run(ctx context.Context) error {
	defer a.runner.Stop()
	a.screen.EnableMouse()
	defer a.screen.DisableMouse()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()
	defer close(quit)

	ticker := time.NewTicker(redrawEvery)
	defer ticker.Stop()

	a.draw(time.Now())
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !a.handle(ctx, ev, time.Now()) {
				return nil
			}
		case res := <-a.ended:
			if a.sound != nil {
				a.sound.Play(sfx.CueEnd)
			}
			a.logger.Debug("terminal session over", zap.String("session", res.SessionID), zap.Int("score", res.Score))
			a.draw(time.Now())
		case now := <-ticker.C:
			a.draw(now)
		}
	}
}
