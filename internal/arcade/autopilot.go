package arcade

import "math"

// Autopilot steers the kite for headless runs: chase the lowest beneficial
// item still above the kite, and sidestep clouds that are about to land on it.
type Autopilot struct {
	// Deadzone is how close (in units) the kite centre must get to the target
	// before it stops correcting.
	Deadzone float64
	// Lookahead is how far above the kite a cloud counts as a threat.
	Lookahead float64
}

// DefaultAutopilot is tuned for the default playfield.
func DefaultAutopilot() Autopilot {
	return Autopilot{Deadzone: 4, Lookahead: 140}
}

// Steer returns the directions to hold this frame.
func (a Autopilot) Steer(sn Snapshot) Held {
	kx, _ := sn.Kite.Center()

	// Threat first: a cloud overlapping the kite's column and close above it.
	for _, it := range sn.Items {
		if it.Kind != KindCloud {
			continue
		}
		if it.Y+it.H < sn.Kite.Y-a.Lookahead || it.Y > sn.Kite.Y+sn.Kite.H {
			continue
		}
		if it.X+it.W < sn.Kite.X || it.X > sn.Kite.X+sn.Kite.W {
			continue
		}
		cx, _ := it.Rect().Center()
		if cx > kx {
			if sn.Kite.X <= KiteMargin {
				return HoldRight
			}
			return HoldLeft
		}
		if sn.Kite.X+sn.Kite.W >= FieldWidth-KiteMargin {
			return HoldLeft
		}
		return HoldRight
	}

	var target *Item
	for i := range sn.Items {
		it := &sn.Items[i]
		if it.Kind != KindGood || it.Y > sn.Kite.Y+sn.Kite.H {
			continue
		}
		if target == nil || it.Y > target.Y {
			target = it
		}
	}
	if target == nil {
		return 0
	}
	tx, _ := target.Rect().Center()
	if math.Abs(tx-kx) <= a.Deadzone {
		return 0
	}
	if tx < kx {
		return HoldLeft
	}
	return HoldRight
}
