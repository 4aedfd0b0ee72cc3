package arcade

// Pilot chooses held directions from what a render sink would see.
type Pilot interface {
	Steer(Snapshot) Held
}

// Idle holds nothing.
type Idle struct{}

func (Idle) Steer(Snapshot) Held { return 0 }

// RunFrames drives s for n frames at fps without a display, firing the 1 Hz
// tick every fps frames. It stops early if the session ends and returns the
// number of frames actually run.
func RunFrames(s *Session, p Pilot, fps, n int) int {
	if fps <= 0 {
		fps = 60
	}
	dt := 1.0 / float64(fps)
	for i := 1; i <= n; i++ {
		if !s.Running() {
			return i - 1
		}
		s.Advance(dt, p.Steer(s.Snapshot()))
		if i%fps == 0 {
			s.Tick1Hz()
		}
	}
	return n
}

// Play starts s and runs it to the end of its countdown.
func Play(s *Session, p Pilot, fps int) Result {
	if fps <= 0 {
		fps = 60
	}
	s.Start()
	RunFrames(s, p, fps, (s.tuning.Duration+1)*fps)
	return s.Result()
}
