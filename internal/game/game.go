package game

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/gobold"

	"github.com/Garsondee/Kite-Fly/internal/arcade"
	"github.com/Garsondee/Kite-Fly/internal/sfx"
	"github.com/Garsondee/Kite-Fly/internal/store"
)

// Options wires a Game to its collaborators. Every field is optional.
type Options struct {
	Tuning  arcade.Tuning
	Seed    int64 // 0 picks a time-based seed
	Profile *store.Profile
	Sound   *sfx.Player
	Logger  *zap.Logger
}

// Game is the ebiten host for one arcade session. Update drives both the
// frame step and the one-second countdown, so closing the window stops both.
type Game struct {
	session *arcade.Session
	profile *store.Profile
	sound   *sfx.Player
	logger  *zap.Logger

	// Render scale: screen pixels per logical unit (device scale factor).
	scale float64

	// Input state.
	held      arcade.Held
	prevKeys  map[ebiten.Key]bool
	mouseDrag bool
	touchDrag bool
	touchID   ebiten.TouchID

	// Timing. now is swapped in tests.
	now        func() time.Time
	born       time.Time
	lastFrame  time.Time
	lastSecond time.Time

	// Scoring cues are derived from snapshot counters.
	lastCatches   int
	lastPenalties int

	feed    *Feed
	record  store.Record
	status  string
	statusT time.Time

	fontSrc *text.GoTextFaceSource
}

// New builds an idle game. The session starts on Enter, Space or a click.
func New(o Options) (*Game, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		return nil, fmt.Errorf("load HUD font: %w", err)
	}
	logger := o.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []arcade.Option{arcade.WithTuning(o.Tuning)}
	if o.Seed != 0 {
		opts = append(opts, arcade.WithSeed(o.Seed))
	}
	if o.Profile != nil {
		opts = append(opts, arcade.WithRecorder(o.Profile))
	}

	g := &Game{
		session:  arcade.NewSession(opts...),
		profile:  o.Profile,
		sound:    o.Sound,
		logger:   logger,
		scale:    1,
		prevKeys: make(map[ebiten.Key]bool),
		now:      time.Now,
		feed:     NewFeed(),
		fontSrc:  src,
	}
	g.born = g.now()
	if g.profile != nil {
		g.record = g.profile.Load()
	}
	return g, nil
}

// Update runs one host frame: input, then the simulation step, then any
// whole seconds of countdown that have elapsed on the wall clock.
func (g *Game) Update() error {
	now := g.now()
	g.handleInput(now)

	if !g.session.Running() {
		return nil
	}

	dt := now.Sub(g.lastFrame).Seconds()
	g.lastFrame = now
	g.session.Advance(dt, g.held)
	g.noticeScoring()

	for g.session.Running() && now.Sub(g.lastSecond) >= time.Second {
		g.lastSecond = g.lastSecond.Add(time.Second)
		if g.session.Tick1Hz() {
			g.finish()
		}
	}
	return nil
}

// start begins a fresh session. Both the frame clock and the second clock
// restart together.
func (g *Game) start(now time.Time) {
	g.session.Start()
	g.held = 0
	g.mouseDrag = false
	g.touchDrag = false
	g.lastFrame = now
	g.lastSecond = now
	g.lastCatches = 0
	g.lastPenalties = 0
	g.status = ""
	g.feed.Reset()
	g.feed.Add(0, FeedInfo, "Fly! Catch hats, bottles and VR.")
	g.logger.Info("session started",
		zap.String("session", g.session.ID()),
		zap.Int("duration", g.session.Tuning().Duration),
		zap.Int("best", g.session.PrevBest()))
}

func (g *Game) noticeScoring() {
	sn := g.session.Snapshot()
	for ; g.lastCatches < sn.Catches; g.lastCatches++ {
		g.feed.Add(sn.Clock, FeedCatch, fmt.Sprintf("+%d  score %d", arcade.PointsPerCatch, sn.Score))
		g.play(sfx.CueCatch)
	}
	for ; g.lastPenalties < sn.Penalties; g.lastPenalties++ {
		g.feed.Add(sn.Clock, FeedPenalty, fmt.Sprintf("-%d  cloud!", arcade.PointsPerCatch))
		g.play(sfx.CuePenalty)
	}
}

func (g *Game) finish() {
	res := g.session.Result()
	if res.Err != nil {
		g.logger.Warn("profile not saved", zap.String("session", res.SessionID), zap.Error(res.Err))
	}
	g.logger.Info("session ended",
		zap.String("session", res.SessionID),
		zap.Int("score", res.Score),
		zap.String("badge", res.Badge.String()),
		zap.Bool("new_best", res.NewBest))
	if g.profile != nil {
		g.record = g.profile.Load()
	} else {
		g.record, _ = g.record.Merge(res.Score, res.Badge)
	}
	g.feed.Add(g.session.Clock(), FeedInfo, fmt.Sprintf("Time! %s", res.Badge))
	g.play(sfx.CueEnd)
}

func (g *Game) play(c sfx.Cue) {
	if g.sound != nil {
		g.sound.Play(c)
	}
}

// Close tears the session down when the window goes away. Nothing is saved
// for an unfinished run.
func (g *Game) Close() {
	if g.session.Running() {
		g.logger.Info("session abandoned", zap.String("session", g.session.ID()), zap.Int("score", g.session.Score()))
	}
	g.session.Abort()
	if g.sound != nil {
		g.sound.Close()
	}
}

// Layout renders at logical size × device scale so the playfield stays crisp
// on high-density displays.
func (g *Game) Layout(_, _ int) (int, int) {
	g.scale = deviceScale()
	return int(math.Ceil(arcade.FieldWidth * g.scale)), int(math.Ceil(arcade.FieldHeight * g.scale))
}

func deviceScale() float64 {
	m := ebiten.Monitor()
	if m == nil {
		return 1
	}
	s := m.DeviceScaleFactor()
	if s <= 0 {
		return 1
	}
	return s
}

// Session exposes the simulation for read-only use by tests.
func (g *Game) Session() *arcade.Session {
	return g.session
}
