package arcade

import "fmt"

// Snapshot is a read-only copy of everything a render sink draws.
type Snapshot struct {
	SessionID string
	Kite      Rect
	Items     []Item
	Score     int
	Catches   int
	Penalties int
	Remaining int
	Running   bool
	Ended     bool
	Dragging  bool
	Badge     Badge
	PrevBest  int
	Clock     float64
	Frame     int
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		SessionID: s.id,
		Kite:      s.kite,
		Items:     s.Items(),
		Score:     s.score,
		Catches:   s.catches,
		Penalties: s.penalties,
		Remaining: s.remaining,
		Running:   s.running,
		Ended:     s.ended,
		Dragging:  s.dragging,
		Badge:     s.badge,
		PrevBest:  s.prevBest,
		Clock:     s.clock,
		Frame:     s.frame,
	}
}

// Idle reports whether no session has been started yet.
func (sn Snapshot) Idle() bool { return !sn.Running && !sn.Ended }

// ScoreText is the left HUD label.
func (sn Snapshot) ScoreText() string { return fmt.Sprintf("Score: %d", sn.Score) }

// TimeText is the right HUD label.
func (sn Snapshot) TimeText() string { return fmt.Sprintf("Time: %ds", sn.Remaining) }
