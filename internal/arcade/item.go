package arcade

import (
	"math"
	"math/rand"
)

// ItemKind separates scoring behaviour. Variants within a kind are cosmetic.
type ItemKind int

const (
	KindGood  ItemKind = iota // beneficial: +10 on catch
	KindCloud                 // penalty: -10 on catch
	KindDecor                 // seeded at start, drawn like a cloud, never scores
)

func (k ItemKind) String() string {
	switch k {
	case KindGood:
		return "good"
	case KindCloud:
		return "cloud"
	case KindDecor:
		return "decor"
	}
	return "unknown"
}

// Variant picks the sprite for a beneficial item.
type Variant int

const (
	VariantNone Variant = iota
	VariantHat
	VariantBottle
	VariantVR
)

var goodVariants = [...]Variant{VariantHat, VariantBottle, VariantVR}

func (v Variant) String() string {
	switch v {
	case VariantHat:
		return "hat"
	case VariantBottle:
		return "bottle"
	case VariantVR:
		return "vr"
	}
	return "none"
}

// Rect is an axis-aligned box in logical space.
type Rect struct {
	X, Y, W, H float64
}

// Overlaps reports whether r and o intersect. Touching edges count, so a
// kite whose edge grazes an item still catches it.
func (r Rect) Overlaps(o Rect) bool {
	return !(r.X+r.W < o.X || r.X > o.X+o.W || r.Y+r.H < o.Y || r.Y > o.Y+o.H)
}

// Center returns the midpoint of r.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Item is one falling object owned by the session.
type Item struct {
	ID      int
	Kind    ItemKind
	Variant Variant
	X, Y    float64
	W, H    float64
	VY      float64 // fall speed, units per second
	Phase   float64 // sway phase offset, radians
}

// Rect returns the item's bounding box.
func (it *Item) Rect() Rect {
	return Rect{X: it.X, Y: it.Y, W: it.W, H: it.H}
}

// Delta is the score change applied when the kite touches the item.
func (it *Item) Delta() int {
	switch it.Kind {
	case KindGood:
		return PointsPerCatch
	case KindCloud:
		return -PointsPerCatch
	}
	return 0
}

func (it *Item) swayAmplitude() float64 {
	if it.Kind == KindGood {
		return GoodSway
	}
	return CloudSway
}

// step integrates fall and sway for one frame. clock is the session's sim time.
func (it *Item) step(dt, clock float64) {
	sway := math.Sin(it.Phase+clock*SwayFrequency) * it.swayAmplitude()
	it.Y += it.VY * dt
	it.X = clamp(it.X+sway*dt, 0, FieldWidth-it.W)
}

// gone reports whether the item has fallen past the cull line.
func (it *Item) gone() bool {
	return it.Y > FieldHeight+BottomSlack
}

// newItem draws a fresh item of the given kind from rng. Draw order is fixed
// (variant, x, speed, phase) so seeded runs replay exactly.
func newItem(rng *rand.Rand, id int, kind ItemKind) Item {
	it := Item{ID: id, Kind: kind}
	var vmin, vmax float64
	if kind == KindGood {
		it.Variant = goodVariants[rng.Intn(len(goodVariants))]
		it.W, it.H = GoodWidth, GoodHeight
		vmin, vmax = GoodSpeedMin, GoodSpeedMax
	} else {
		it.W, it.H = CloudWidth, CloudHeight
		vmin, vmax = CloudSpeedMin, CloudSpeedMax
	}
	it.X = rng.Float64() * (FieldWidth - it.W)
	it.Y = -it.H - SpawnLift
	it.VY = vmin + rng.Float64()*(vmax-vmin)
	it.Phase = rng.Float64() * 2 * math.Pi
	return it
}
