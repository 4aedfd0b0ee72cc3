package loop

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/Garsondee/Kite-Fly/internal/arcade"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func fastRunner(duration int, opts ...Option) (*Runner, *arcade.Session) {
	s := arcade.NewSession(arcade.WithSeed(11), arcade.WithTuning(arcade.Tuning{Duration: duration}))
	base := []Option{
		WithFrameInterval(time.Millisecond),
		WithSecondInterval(5 * time.Millisecond),
	}
	return New(s, append(base, opts...)...), s
}

func TestRunner_EndsAfterCountdown(t *testing.T) {
	ended := make(chan arcade.Result, 1)
	r, _ := fastRunner(3, OnEnd(func(res arcade.Result) { ended <- res }))
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer r.Stop()

	select {
	case res := <-ended:
		if res.SessionID == "" {
			t.Fatal("result missing session id")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not end the session")
	}
	<-r.Done()

	snap := r.Snapshot()
	if !snap.Ended || snap.Running || snap.Remaining != 0 {
		t.Fatalf("unexpected final state: %+v", snap)
	}
}

func TestRunner_StopHaltsBothTimers(t *testing.T) {
	r, _ := fastRunner(60)
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	r.Stop()

	before := r.Snapshot()
	if before.Running {
		t.Fatal("session still running after Stop")
	}
	if before.Ended {
		t.Fatal("Stop should abort, not end, the session")
	}
	time.Sleep(30 * time.Millisecond)
	after := r.Snapshot()
	if after.Frame != before.Frame || after.Remaining != before.Remaining {
		t.Fatalf("state changed after Stop: frame %d→%d remaining %d→%d",
			before.Frame, after.Frame, before.Remaining, after.Remaining)
	}
	r.Stop()
}

func TestRunner_ContextCancelStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r, _ := fastRunner(60)
	if err := r.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	cancel()
	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("cancel did not stop the loop")
	}
}

func TestRunner_StartWhileRunning(t *testing.T) {
	r, _ := fastRunner(60)
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer r.Stop()
	if err := r.Start(context.Background()); !errors.Is(err, ErrRunning) {
		t.Fatalf("second Start = %v, want ErrRunning", err)
	}
}

func TestRunner_RestartAfterEnd(t *testing.T) {
	r, _ := fastRunner(1)
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-r.Done()
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("restart: %v", err)
	}
	r.Stop()
}

func TestRunner_HeldInputMovesKite(t *testing.T) {
	r, _ := fastRunner(60)
	x0 := r.Snapshot().Kite.X
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	r.Press(arcade.HoldRight)
	time.Sleep(20 * time.Millisecond)
	r.Stop()
	if r.Snapshot().Kite.X <= x0 {
		t.Fatalf("kite did not move right: %.2f → %.2f", x0, r.Snapshot().Kite.X)
	}
}

func TestRunner_DragTakesOver(t *testing.T) {
	r, _ := fastRunner(60)
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	r.Press(arcade.HoldRight)
	r.BeginDrag(60, 0)
	time.Sleep(10 * time.Millisecond)
	snap := r.Snapshot()
	r.EndDrag()
	r.Stop()
	if want := 60 - arcade.KiteWidth/2; snap.Kite.X != want {
		t.Fatalf("drag position %.2f overridden, want %.2f", snap.Kite.X, want)
	}
}
