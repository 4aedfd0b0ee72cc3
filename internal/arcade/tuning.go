package arcade

// Playfield and pacing constants. All distances are logical units; the render
// sinks scale them to device pixels.
const (
	FieldWidth  = 420.0
	FieldHeight = 720.0

	KiteWidth         = 72.0
	KiteHeight        = 88.0
	KiteRowFromBottom = 110.0 // kite top edge sits this far above the bottom
	KiteMargin        = 8.0
	KiteSpeed         = 200.0 // units per second per held direction

	GoodWidth    = 44.0
	GoodHeight   = 44.0
	GoodSpeedMin = 90.0
	GoodSpeedMax = 160.0
	GoodSway     = 10.0
	GoodInterval = 0.7 // seconds between beneficial spawns

	CloudWidth    = 64.0
	CloudHeight   = 40.0
	CloudSpeedMin = 60.0
	CloudSpeedMax = 100.0
	CloudSway     = 6.0
	CloudInterval = 1.1

	SpawnLift     = 10.0 // items appear this far above the top edge
	BottomSlack   = 60.0 // items are culled once y passes FieldHeight+BottomSlack
	SwayFrequency = 2.0  // radians per second of sim clock

	MaxFrameDelta = 0.034

	PointsPerCatch = 10

	DefaultDuration = 60 // seconds
	SeedDecorCount  = 2
)

// Tuning holds the per-session knobs that a host may change. Everything that
// affects scoring (item sizes, points, thresholds) stays a constant.
type Tuning struct {
	// Duration is the countdown length in whole seconds.
	Duration int
	// Vertical enables up/down movement and vertical drag.
	Vertical bool
}

// DefaultTuning matches the single-axis arcade page.
func DefaultTuning() Tuning {
	return Tuning{Duration: DefaultDuration}
}

func (t Tuning) normalized() Tuning {
	if t.Duration <= 0 {
		t.Duration = DefaultDuration
	}
	return t
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
