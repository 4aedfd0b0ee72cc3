package arcade

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Held is the set of movement directions currently pressed.
type Held uint8

const (
	HoldLeft Held = 1 << iota
	HoldRight
	HoldUp
	HoldDown
)

// Has reports whether every direction in d is held.
func (h Held) Has(d Held) bool { return h&d == d }

// Recorder persists finished sessions. BestScore is read once per Start.
type Recorder interface {
	BestScore() int
	Record(score int, badge Badge) error
}

// Result describes a finished session.
type Result struct {
	SessionID string
	Score     int
	Badge     Badge
	PrevBest  int
	NewBest   bool
	Err       error // persistence failure, if any
}

// Session owns all mutable arcade state. It is not safe for concurrent use;
// hosts serialise calls (see internal/loop).
type Session struct {
	tuning   Tuning
	rng      *rand.Rand
	log      *EventLog
	recorder Recorder

	id        string
	kite      Rect
	items     []Item
	pending   []Item
	score     int
	remaining int
	running   bool
	ended     bool
	badge     Badge
	dragging  bool
	catches   int
	penalties int

	clock      float64
	frame      int
	goodTimer  float64
	cloudTimer float64
	nextID     int

	prevBest int
	result   Result
}

// Option configures a Session at construction.
type Option func(*Session)

// WithSeed makes spawns reproducible.
func WithSeed(seed int64) Option {
	return func(s *Session) {
		s.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- game only
	}
}

// WithRand injects a random source directly.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// WithTuning overrides duration and vertical movement.
func WithTuning(t Tuning) Option {
	return func(s *Session) { s.tuning = t.normalized() }
}

// WithRecorder attaches persistence for best score and badges.
func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithVerbose records the kite position every frame.
func WithVerbose(v bool) Option {
	return func(s *Session) { s.log = NewEventLog(v) }
}

// NewSession builds an idle session. Call Start to begin play.
func NewSession(opts ...Option) *Session {
	s := &Session{
		tuning:    DefaultTuning(),
		log:       NewEventLog(false),
		remaining: DefaultDuration,
	}
	for _, o := range opts {
		o(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec G404 -- game only
	}
	s.remaining = s.tuning.Duration
	s.recenter()
	return s
}

func (s *Session) recenter() {
	s.kite = Rect{
		X: (FieldWidth - KiteWidth) / 2,
		Y: FieldHeight - KiteRowFromBottom,
		W: KiteWidth,
		H: KiteHeight,
	}
}

// Start resets the session and begins a new run. Two decorative clouds are
// seeded so the sky is never empty on the first frame.
func (s *Session) Start() {
	s.id = uuid.NewString()
	s.score = 0
	s.catches = 0
	s.penalties = 0
	s.remaining = s.tuning.Duration
	s.ended = false
	s.badge = BadgeDreamer
	s.dragging = false
	s.items = s.items[:0]
	s.pending = s.pending[:0]
	s.clock = 0
	s.frame = 0
	s.goodTimer = 0
	s.cloudTimer = 0
	s.result = Result{}
	s.recenter()
	s.log.Reset()

	s.prevBest = 0
	if s.recorder != nil {
		s.prevBest = s.recorder.BestScore()
	}

	for i := 0; i < SeedDecorCount; i++ {
		s.items = append(s.items, s.spawn(KindDecor))
	}
	s.running = true
	s.log.Add(0, 0, CatSession, KeyStart,
		fmt.Sprintf("id=%s duration=%ds best=%d", s.id, s.remaining, s.prevBest), float64(s.remaining))
}

func (s *Session) spawn(kind ItemKind) Item {
	s.nextID++
	it := newItem(s.rng, s.nextID, kind)
	key := KeyGood
	switch kind {
	case KindCloud:
		key = KeyCloud
	case KindDecor:
		key = KeyDecor
	}
	s.log.Add(s.frame, s.clock, CatSpawn, key,
		fmt.Sprintf("#%d %s x=%.1f vy=%.1f", it.ID, it.Variant, it.X, it.VY), it.X)
	return it
}

// Advance runs one frame. dt is clamped to MaxFrameDelta so a stalled tab or
// slow frame cannot tunnel items through the kite. A stopped session ignores
// the call entirely.
func (s *Session) Advance(dt float64, held Held) {
	if !s.running {
		return
	}
	dt = clamp(dt, 0, MaxFrameDelta)
	s.frame++
	s.clock += dt

	// 1. Kite. An active drag owns the position this frame.
	if !s.dragging {
		s.kite.X = clamp(s.kite.X+axis(held, HoldLeft, HoldRight)*KiteSpeed*dt, KiteMargin, FieldWidth-KiteWidth-KiteMargin)
		if s.tuning.Vertical {
			s.kite.Y = clamp(s.kite.Y+axis(held, HoldUp, HoldDown)*KiteSpeed*dt, KiteMargin, FieldHeight-KiteHeight-KiteMargin)
		}
	}
	s.log.AddVerbose(s.frame, s.clock, CatKite, KeyMove, fmt.Sprintf("(%.2f,%.2f)", s.kite.X, s.kite.Y), s.kite.X)

	// 2. Spawns. New items enter the field after this frame's motion.
	s.goodTimer += dt
	s.cloudTimer += dt
	if s.goodTimer > GoodInterval {
		s.goodTimer = 0
		s.pending = append(s.pending, s.spawn(KindGood))
	}
	if s.cloudTimer > CloudInterval {
		s.cloudTimer = 0
		s.pending = append(s.pending, s.spawn(KindCloud))
	}

	// 3+4. Motion, then collision in item order. Removed items never score twice.
	kept := s.items[:0]
	for _, it := range s.items {
		it.step(dt, s.clock)
		if it.Kind != KindDecor && s.kite.Overlaps(it.Rect()) {
			s.collect(&it)
			continue
		}
		if it.gone() {
			s.log.Add(s.frame, s.clock, CatItem, KeyExpire, fmt.Sprintf("#%d %s", it.ID, it.Kind), it.Y)
			continue
		}
		kept = append(kept, it)
	}
	s.items = append(kept, s.pending...)
	s.pending = s.pending[:0]
}

func axis(held, neg, pos Held) float64 {
	v := 0.0
	if held.Has(pos) {
		v++
	}
	if held.Has(neg) {
		v--
	}
	return v
}

// collect applies an item's score delta. Score is floored at zero.
func (s *Session) collect(it *Item) {
	before := s.badge
	s.score += it.Delta()
	if s.score < 0 {
		s.score = 0
	}
	s.badge = BadgeFor(s.score)

	key := KeyCatch
	if it.Kind == KindCloud {
		key = KeyPenalty
		s.penalties++
	} else {
		s.catches++
	}
	s.log.Add(s.frame, s.clock, CatScore, key,
		fmt.Sprintf("#%d %s %+d → %d", it.ID, it.Variant, it.Delta(), s.score), float64(s.score))
	if s.badge != before {
		s.log.Add(s.frame, s.clock, CatScore, KeyBadge, fmt.Sprintf("%s → %s", before, s.badge), float64(s.badge))
	}
}

// Tick1Hz counts down one second. It returns true on the call that ends the
// session; the final result is then available from Result.
func (s *Session) Tick1Hz() bool {
	if !s.running {
		return false
	}
	s.remaining--
	s.log.Add(s.frame, s.clock, CatClock, KeyTick, fmt.Sprintf("%ds left", s.remaining), float64(s.remaining))
	if s.remaining > 0 {
		return false
	}
	s.remaining = 0
	s.finish()
	return true
}

func (s *Session) finish() {
	s.running = false
	s.ended = true
	s.dragging = false
	s.badge = BadgeFor(s.score)
	s.result = Result{
		SessionID: s.id,
		Score:     s.score,
		Badge:     s.badge,
		PrevBest:  s.prevBest,
		NewBest:   s.score > s.prevBest,
	}
	if s.recorder != nil {
		s.result.Err = s.recorder.Record(s.score, s.badge)
	}
	s.log.Add(s.frame, s.clock, CatSession, KeyEnd,
		fmt.Sprintf("score=%d badge=%s new_best=%t", s.score, s.badge, s.result.NewBest), float64(s.score))
}

// Abort stops a running session without ending it, e.g. when the host view is
// torn down. Nothing is persisted.
func (s *Session) Abort() {
	s.running = false
	s.dragging = false
}

// BeginDrag hands kite position to the pointer until EndDrag.
func (s *Session) BeginDrag() {
	if s.running {
		s.dragging = true
	}
}

// EndDrag returns control to keyboard velocity.
func (s *Session) EndDrag() { s.dragging = false }

// Dragging reports whether a pointer drag is active.
func (s *Session) Dragging() bool { return s.dragging }

// SetPointerTarget centres the kite on a logical point while a drag is
// active. The y coordinate is ignored unless vertical movement is enabled.
func (s *Session) SetPointerTarget(x, y float64) {
	if !s.running || !s.dragging {
		return
	}
	s.kite.X = clamp(x-KiteWidth/2, KiteMargin, FieldWidth-KiteWidth-KiteMargin)
	if s.tuning.Vertical {
		s.kite.Y = clamp(y-KiteHeight/2, KiteMargin, FieldHeight-KiteHeight-KiteMargin)
	}
}

func (s *Session) ID() string { return s.id }
func (s *Session) Score() int { return s.score }
func (s *Session) Remaining() int { return s.remaining }
func (s *Session) Running() bool { return s.running }
func (s *Session) Ended() bool { return s.ended }
func (s *Session) Badge() Badge { return s.badge }
func (s *Session) Kite() Rect { return s.kite }
func (s *Session) Clock() float64 { return s.clock }
func (s *Session) Frame() int { return s.frame }
func (s *Session) Tuning() Tuning { return s.tuning }
func (s *Session) Log() *EventLog { return s.log }
func (s *Session) Result() Result { return s.result }
func (s *Session) PrevBest() int { return s.prevBest }

// Items returns a copy of the active items.
func (s *Session) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}
