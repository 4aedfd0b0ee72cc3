package arcade

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const eps = 1e-9

func startedSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	s := NewSession(append([]Option{WithSeed(7)}, opts...)...)
	s.Start()
	return s
}

// placeOnKite drops an item directly on top of the kite.
func placeOnKite(s *Session, kind ItemKind) {
	w, h := GoodWidth, GoodHeight
	if kind != KindGood {
		w, h = CloudWidth, CloudHeight
	}
	s.nextID++
	s.items = append(s.items, Item{
		ID:   s.nextID,
		Kind: kind,
		X:    s.kite.X + 4,
		Y:    s.kite.Y + 4,
		W:    w,
		H:    h,
	})
}

func countKind(items []Item, kind ItemKind) int {
	n := 0
	for _, it := range items {
		if it.Kind == kind {
			n++
		}
	}
	return n
}

// --- Start ---

func TestStart_ResetsSessionState(t *testing.T) {
	s := startedSession(t)
	s.score = 120
	s.remaining = 3
	s.Advance(0.02, HoldLeft)

	s.Start()
	if s.Score() != 0 {
		t.Fatalf("score after start = %d, want 0", s.Score())
	}
	if s.Remaining() != DefaultDuration {
		t.Fatalf("remaining after start = %d, want %d", s.Remaining(), DefaultDuration)
	}
	if !s.Running() || s.Ended() {
		t.Fatalf("expected running=true ended=false, got running=%t ended=%t", s.Running(), s.Ended())
	}
	items := s.Items()
	if len(items) != SeedDecorCount {
		t.Fatalf("expected %d seeded items, got %d", SeedDecorCount, len(items))
	}
	if countKind(items, KindDecor) != SeedDecorCount {
		t.Fatalf("seeded items should all be decorative, got %+v", items)
	}
	want := (FieldWidth - KiteWidth) / 2
	if math.Abs(s.Kite().X-want) > eps {
		t.Fatalf("kite not re-centred: x=%.2f want %.2f", s.Kite().X, want)
	}
	if s.Badge() != BadgeDreamer {
		t.Fatalf("badge after start = %s, want %s", s.Badge(), BadgeDreamer)
	}
}

func TestStart_NewSessionIDEachRun(t *testing.T) {
	s := startedSession(t)
	first := s.ID()
	s.Start()
	if first == "" || first == s.ID() {
		t.Fatalf("expected a fresh session id per start, got %q then %q", first, s.ID())
	}
}

// --- Advance: kite ---

func TestAdvance_MoveRightOneFrame(t *testing.T) {
	s := startedSession(t)
	x0 := s.Kite().X
	s.Advance(0.016, HoldRight)
	want := x0 + KiteSpeed*0.016
	if math.Abs(s.Kite().X-want) > eps {
		t.Fatalf("kite x = %.4f, want %.4f", s.Kite().X, want)
	}
}

func TestAdvance_OpposingDirectionsCancel(t *testing.T) {
	s := startedSession(t)
	x0 := s.Kite().X
	s.Advance(0.016, HoldLeft|HoldRight)
	if s.Kite().X != x0 {
		t.Fatalf("left+right should cancel, x moved %.4f → %.4f", x0, s.Kite().X)
	}
}

func TestAdvance_ClampsLargeDelta(t *testing.T) {
	s := startedSession(t)
	x0 := s.Kite().X
	s.Advance(2.5, HoldRight)
	want := x0 + KiteSpeed*MaxFrameDelta
	if math.Abs(s.Kite().X-want) > eps {
		t.Fatalf("dt not clamped: x = %.4f, want %.4f", s.Kite().X, want)
	}
	if math.Abs(s.Clock()-MaxFrameDelta) > eps {
		t.Fatalf("clock = %.4f, want %.4f", s.Clock(), MaxFrameDelta)
	}
}

func TestAdvance_VerticalIgnoredByDefault(t *testing.T) {
	s := startedSession(t)
	y0 := s.Kite().Y
	s.Advance(0.016, HoldUp)
	if s.Kite().Y != y0 {
		t.Fatalf("single-axis kite moved vertically: %.2f → %.2f", y0, s.Kite().Y)
	}
}

func TestAdvance_KiteStaysInBounds(t *testing.T) {
	s := startedSession(t, WithTuning(Tuning{Duration: 600, Vertical: true}))
	rng := rand.New(rand.NewSource(99))
	dirs := []Held{HoldLeft, HoldRight, HoldUp, HoldDown, HoldLeft | HoldUp, HoldRight | HoldDown, 0}
	held := HoldLeft
	for frame := 0; frame < 20000; frame++ {
		if frame%37 == 0 {
			held = dirs[rng.Intn(len(dirs))]
		}
		s.Advance(rng.Float64()*MaxFrameDelta, held)
		k := s.Kite()
		if k.X < KiteMargin-eps || k.X > FieldWidth-KiteWidth-KiteMargin+eps {
			t.Fatalf("frame %d: kite x=%.3f out of bounds", frame, k.X)
		}
		if k.Y < KiteMargin-eps || k.Y > FieldHeight-KiteHeight-KiteMargin+eps {
			t.Fatalf("frame %d: kite y=%.3f out of bounds", frame, k.Y)
		}
	}
}

// --- Advance: spawns and items ---

func TestAdvance_FirstBeneficialSpawnAtTop(t *testing.T) {
	s := startedSession(t)
	for frame := 1; frame <= 100; frame++ {
		s.Advance(0.016, HoldRight)
		if countKind(s.Items(), KindGood) > 0 {
			break
		}
	}
	var goods []Item
	for _, it := range s.Items() {
		if it.Kind == KindGood {
			goods = append(goods, it)
		}
	}
	if len(goods) != 1 {
		t.Fatalf("expected exactly one beneficial item, got %d\n%s", len(goods), s.Log().Format())
	}
	if want := -(GoodHeight + SpawnLift); goods[0].Y != want {
		t.Fatalf("beneficial item y = %.2f, want %.2f", goods[0].Y, want)
	}
	if s.Clock() <= GoodInterval {
		t.Fatalf("spawned before the interval elapsed: clock=%.3f", s.Clock())
	}
	if countKind(s.Items(), KindCloud) != 0 {
		t.Fatalf("penalty item spawned before its slower interval")
	}
}

func TestAdvance_SpawnedItemsFitField(t *testing.T) {
	s := startedSession(t, WithTuning(Tuning{Duration: 120}))
	for i := 0; i < 3000; i++ {
		s.Advance(0.016, 0)
		for _, it := range s.Items() {
			if it.X < 0 || it.X > FieldWidth-it.W+eps {
				t.Fatalf("item #%d x=%.2f outside [0, %.2f]", it.ID, it.X, FieldWidth-it.W)
			}
			switch it.Kind {
			case KindGood:
				if it.VY < GoodSpeedMin || it.VY >= GoodSpeedMax {
					t.Fatalf("beneficial speed %.2f outside range", it.VY)
				}
			case KindCloud:
				if it.VY < CloudSpeedMin || it.VY >= CloudSpeedMax {
					t.Fatalf("penalty speed %.2f outside range", it.VY)
				}
			}
		}
	}
}

func TestAdvance_ItemsFallPastBottomExpire(t *testing.T) {
	s := startedSession(t)
	s.items = append(s.items, Item{ID: 500, Kind: KindGood, X: 0, Y: FieldHeight + BottomSlack + 1, W: GoodWidth, H: GoodHeight, VY: 100})
	s.Advance(0.016, 0)
	for _, it := range s.Items() {
		if it.ID == 500 {
			t.Fatal("item past the bottom bound should be removed")
		}
	}
	if s.Score() != 0 {
		t.Fatalf("expired item changed score to %d", s.Score())
	}
	if !s.Log().HasEvent(CatItem, KeyExpire, "#500") {
		t.Fatalf("expected expire event\n%s", s.Log().Format())
	}
}

// --- Collision and scoring ---

func TestCollision_BeneficialScoresOnce(t *testing.T) {
	s := startedSession(t)
	placeOnKite(s, KindGood)
	s.Advance(0.016, 0)
	if s.Score() != PointsPerCatch {
		t.Fatalf("score after catch = %d, want %d", s.Score(), PointsPerCatch)
	}
	for i := 0; i < 10; i++ {
		s.Advance(0.016, 0)
	}
	if s.Score() != PointsPerCatch {
		t.Fatalf("caught item scored again: score=%d", s.Score())
	}
	if n := s.Log().Count(CatScore, KeyCatch); n != 1 {
		t.Fatalf("expected 1 catch event, got %d", n)
	}
}

func TestCollision_PenaltyFloorsAtZero(t *testing.T) {
	s := startedSession(t)
	placeOnKite(s, KindCloud)
	s.Advance(0.016, 0)
	if s.Score() != 0 {
		t.Fatalf("penalty at zero should floor, got %d", s.Score())
	}

	s.score = 30
	placeOnKite(s, KindCloud)
	s.Advance(0.016, 0)
	if s.Score() != 20 {
		t.Fatalf("penalty from 30 should give 20, got %d", s.Score())
	}
}

func TestCollision_DecorNeverScores(t *testing.T) {
	s := startedSession(t)
	placeOnKite(s, KindDecor)
	before := len(s.Items())
	s.Advance(0.016, 0)
	if s.Score() != 0 {
		t.Fatalf("decor changed score to %d", s.Score())
	}
	if len(s.Items()) != before {
		t.Fatalf("decor should pass through the kite: %d items → %d", before, len(s.Items()))
	}
}

func TestCollision_BadgeTracksScore(t *testing.T) {
	s := startedSession(t)
	s.score = 90
	placeOnKite(s, KindGood)
	s.Advance(0.016, 0)
	if s.Badge() != BadgeHighFlyer {
		t.Fatalf("badge at %d = %s, want %s", s.Score(), s.Badge(), BadgeHighFlyer)
	}
	if !s.Log().HasEvent(CatScore, KeyBadge, "Kite High Flyer") {
		t.Fatalf("expected badge change event\n%s", s.Log().Format())
	}
}

func TestRectOverlaps_TouchingEdges(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	cases := []struct {
		name string
		b    Rect
		want bool
	}{
		{"inside", Rect{X: 2, Y: 2, W: 2, H: 2}, true},
		{"touching right edge", Rect{X: 10, Y: 0, W: 5, H: 5}, true},
		{"gap right", Rect{X: 10.01, Y: 0, W: 5, H: 5}, false},
		{"above", Rect{X: 0, Y: -6, W: 5, H: 5}, false},
	}
	for _, tc := range cases {
		if got := a.Overlaps(tc.b); got != tc.want {
			t.Errorf("%s: Overlaps = %t, want %t", tc.name, got, tc.want)
		}
	}
}

// --- Countdown and end ---

type fakeRecorder struct {
	best   int
	badges map[Badge]bool
	calls  int
}

func (f *fakeRecorder) BestScore() int { return f.best }

func (f *fakeRecorder) Record(score int, badge Badge) error {
	f.calls++
	if score > f.best {
		f.best = score
	}
	if f.badges == nil {
		f.badges = map[Badge]bool{}
	}
	f.badges[badge] = true
	return nil
}

func TestTick1Hz_EndsAtZeroAndPersists(t *testing.T) {
	rec := &fakeRecorder{best: 5}
	s := startedSession(t, WithTuning(Tuning{Duration: 3}), WithRecorder(rec))
	s.score = 40

	if s.Tick1Hz() || s.Tick1Hz() {
		t.Fatal("session ended early")
	}
	if !s.Tick1Hz() {
		t.Fatal("third tick should end a 3s session")
	}
	if s.Running() || !s.Ended() {
		t.Fatalf("expected running=false ended=true, got %t/%t", s.Running(), s.Ended())
	}
	if s.Remaining() != 0 {
		t.Fatalf("remaining = %d, want 0", s.Remaining())
	}
	res := s.Result()
	if res.Score != 40 || !res.NewBest || res.PrevBest != 5 {
		t.Fatalf("unexpected result %+v", res)
	}
	if rec.calls != 1 || rec.best != 40 || !rec.badges[BadgeDreamer] {
		t.Fatalf("recorder not updated: %+v", rec)
	}
	if s.Tick1Hz() {
		t.Fatal("tick after end should be a no-op")
	}
	if rec.calls != 1 {
		t.Fatalf("recorder called %d times, want 1", rec.calls)
	}
}

func TestAdvance_NoOpAfterEnd(t *testing.T) {
	s := startedSession(t, WithTuning(Tuning{Duration: 1}))
	for i := 0; i < 120; i++ {
		s.Advance(0.016, 0)
	}
	s.Tick1Hz()
	if !s.Ended() {
		t.Fatal("expected ended session")
	}

	before := s.Snapshot()
	placeOnKite(s, KindGood)
	withExtra := s.Snapshot()
	for i := 0; i < 50; i++ {
		s.Advance(0.016, HoldRight)
		s.Tick1Hz()
	}
	after := s.Snapshot()
	if diff := cmp.Diff(withExtra, after); diff != "" {
		t.Fatalf("ended session mutated (-before +after):\n%s", diff)
	}
	if after.Score != before.Score || after.Remaining != 0 {
		t.Fatalf("score/time changed after end: %+v", after)
	}
}

// --- Pointer drag ---

func TestPointer_IgnoredWithoutDrag(t *testing.T) {
	s := startedSession(t)
	x0 := s.Kite().X
	s.SetPointerTarget(0, 0)
	if s.Kite().X != x0 {
		t.Fatalf("pointer moved kite without an active drag")
	}
}

func TestPointer_CentresAndClamps(t *testing.T) {
	s := startedSession(t)
	s.BeginDrag()

	s.SetPointerTarget(210, 0)
	if want := 210 - KiteWidth/2; math.Abs(s.Kite().X-want) > eps {
		t.Fatalf("kite x = %.2f, want %.2f", s.Kite().X, want)
	}
	s.SetPointerTarget(-500, 0)
	if s.Kite().X != KiteMargin {
		t.Fatalf("kite x = %.2f, want left clamp %.2f", s.Kite().X, KiteMargin)
	}
	s.SetPointerTarget(5000, 0)
	if want := FieldWidth - KiteWidth - KiteMargin; s.Kite().X != want {
		t.Fatalf("kite x = %.2f, want right clamp %.2f", s.Kite().X, want)
	}
	if s.Kite().Y != FieldHeight-KiteRowFromBottom {
		t.Fatalf("single-axis drag moved kite vertically to %.2f", s.Kite().Y)
	}
}

func TestPointer_VerticalDrag(t *testing.T) {
	s := startedSession(t, WithTuning(Tuning{Vertical: true}))
	s.BeginDrag()
	s.SetPointerTarget(100, 300)
	if want := 300 - KiteHeight/2; math.Abs(s.Kite().Y-want) > eps {
		t.Fatalf("kite y = %.2f, want %.2f", s.Kite().Y, want)
	}
}

func TestPointer_DragOverridesKeyboard(t *testing.T) {
	s := startedSession(t)
	s.BeginDrag()
	s.SetPointerTarget(100, 0)
	x := s.Kite().X
	s.Advance(0.016, HoldRight)
	if s.Kite().X != x {
		t.Fatalf("keyboard moved kite during drag: %.2f → %.2f", x, s.Kite().X)
	}
	s.EndDrag()
	s.Advance(0.016, HoldRight)
	if s.Kite().X <= x {
		t.Fatalf("keyboard should move kite after drag ends")
	}
}

// --- Determinism ---

func TestPlay_SameSeedSameRun(t *testing.T) {
	run := func() Snapshot {
		s := NewSession(WithSeed(2024), WithTuning(Tuning{Duration: 20}))
		Play(s, DefaultAutopilot(), 60)
		return s.Snapshot()
	}
	a, b := run(), run()
	if diff := cmp.Diff(a, b, cmpopts.IgnoreFields(Snapshot{}, "SessionID")); diff != "" {
		t.Fatalf("seeded runs diverged (-a +b):\n%s", diff)
	}
}

func TestPlay_RunsFullCountdown(t *testing.T) {
	s := NewSession(WithSeed(3))
	res := Play(s, Idle{}, 60)
	if !s.Ended() {
		t.Fatal("Play should end the session")
	}
	if s.Frame() != DefaultDuration*60 {
		t.Fatalf("frames run = %d, want %d", s.Frame(), DefaultDuration*60)
	}
	if res.Badge != BadgeFor(res.Score) {
		t.Fatalf("final badge %s does not match score %d", res.Badge, res.Score)
	}
}
