package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	feedMaxEntries = 24
	feedVisible    = 4
	feedLineHeight = 16
	feedTTL        = 2.5 // seconds of sim clock an entry stays on screen
)

// Feed entry kinds.
const (
	FeedInfo    = "info"
	FeedCatch   = "catch"
	FeedPenalty = "penalty"
)

// FeedEntry is a single line in the scoring feed.
type FeedEntry struct {
	Clock   float64
	Kind    string
	Message string
}

// Feed is a ring buffer of recent scoring lines drawn under the HUD.
type Feed struct {
	entries []FeedEntry
	head    int
	count   int
}

// NewFeed creates a feed with a fixed capacity.
func NewFeed() *Feed {
	return &Feed{
		entries: make([]FeedEntry, feedMaxEntries),
	}
}

// Add appends an entry, overwriting the oldest once full.
func (f *Feed) Add(clock float64, kind, msg string) {
	f.entries[f.head] = FeedEntry{
		Clock:   clock,
		Kind:    kind,
		Message: msg,
	}
	f.head = (f.head + 1) % feedMaxEntries
	if f.count < feedMaxEntries {
		f.count++
	}
}

// Recent returns entries in chronological order (oldest first).
func (f *Feed) Recent() []FeedEntry {
	result := make([]FeedEntry, f.count)
	for i := 0; i < f.count; i++ {
		idx := (f.head - f.count + i + feedMaxEntries) % feedMaxEntries
		result[i] = f.entries[idx]
	}
	return result
}

// Live returns at most feedVisible entries that are still fresh at clock.
// Entries stamped after clock belong to a previous session and are skipped.
func (f *Feed) Live(clock float64) []FeedEntry {
	all := f.Recent()
	var out []FeedEntry
	for i := len(all) - 1; i >= 0 && len(out) < feedVisible; i-- {
		e := all[i]
		if e.Clock > clock || clock-e.Clock > feedTTL {
			continue
		}
		out = append(out, e)
	}
	// Back to oldest first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Reset drops every entry.
func (f *Feed) Reset() {
	f.head = 0
	f.count = 0
}

func feedColor(kind string) color.RGBA {
	switch kind {
	case FeedCatch:
		return color.RGBA{R: 46, G: 160, B: 90, A: 230}
	case FeedPenalty:
		return color.RGBA{R: 200, G: 70, B: 70, A: 230}
	}
	return color.RGBA{R: 25, G: 118, B: 210, A: 230}
}

// Draw renders live entries as small pills, newest at the bottom.
func (f *Feed) Draw(screen *ebiten.Image, clock, scale float64, x, y int) {
	for i, e := range f.Live(clock) {
		line := fmt.Sprintf("%5.1fs %s", e.Clock, e.Message)
		w := float32(len(line)*6 + 10)
		py := float32(y + i*feedLineHeight)
		vector.FillRect(screen, float32(x)*float32(scale), py*float32(scale), w*float32(scale), 14*float32(scale), feedColor(e.Kind), false)
		ebitenutil.DebugPrintAt(screen, line, int(float64(x+5)*scale), int(float64(py)*scale))
	}
}
