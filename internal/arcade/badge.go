package arcade

// Badge is the rank earned from a score. It has no state of its own.
type Badge int

const (
	BadgeDreamer Badge = iota
	BadgeHighFlyer
	BadgeLegend
)

// Score cut points, ascending.
const (
	HighFlyerScore = 100
	LegendScore    = 250
)

// AllBadges lists tiers lowest first.
var AllBadges = []Badge{BadgeDreamer, BadgeHighFlyer, BadgeLegend}

// BadgeFor maps a score to its tier.
func BadgeFor(score int) Badge {
	switch {
	case score >= LegendScore:
		return BadgeLegend
	case score >= HighFlyerScore:
		return BadgeHighFlyer
	}
	return BadgeDreamer
}

func (b Badge) String() string {
	switch b {
	case BadgeHighFlyer:
		return "Kite High Flyer"
	case BadgeLegend:
		return "Kite Legend"
	}
	return "Kite Dreamer"
}

// Tagline is the line shown under the badge on the game-over card.
func (b Badge) Tagline() string {
	switch b {
	case BadgeHighFlyer:
		return "You're soaring with skill!"
	case BadgeLegend:
		return "You've mastered the skies!"
	}
	return "Keep flying higher next time!"
}

// ParseBadge is the inverse of String. Unknown names report false.
func ParseBadge(name string) (Badge, bool) {
	for _, b := range AllBadges {
		if b.String() == name {
			return b, true
		}
	}
	return BadgeDreamer, false
}
