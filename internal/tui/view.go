package tui

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Kite-Fly/internal/arcade"
)

var (
	styleSky     = tcell.StyleDefault.Background(tcell.NewRGBColor(0xE3, 0xF2, 0xFD)).Foreground(tcell.ColorNavy)
	styleHUD     = tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorNavy).Bold(true)
	styleKite    = styleSky.Foreground(tcell.ColorOrangeRed).Bold(true)
	styleKiteDrg = styleSky.Foreground(tcell.ColorOrange).Bold(true)
	styleCloud   = styleSky.Foreground(tcell.ColorSlateGray)
	styleDecor   = styleSky.Foreground(tcell.ColorSilver)
	styleHat     = styleSky.Foreground(tcell.ColorSaddleBrown).Bold(true)
	styleBottle  = styleSky.Foreground(tcell.ColorGreen).Bold(true)
	styleVR      = styleSky.Foreground(tcell.ColorTeal).Bold(true)
	styleCard    = tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorNavy)
	styleAccent  = styleCard.Foreground(tcell.ColorOrangeRed).Bold(true)
)

// Viewport maps the logical playfield onto a block of terminal cells. Row 0
// is reserved for the HUD.
type Viewport struct {
	Cols int
	Rows int
}

func (v Viewport) fieldRows() int {
	if v.Rows <= 1 {
		return 0
	}
	return v.Rows - 1
}

// Cell returns the cell covering logical point (x, y).
func (v Viewport) Cell(x, y float64) (int, int) {
	if v.Cols <= 0 || v.fieldRows() <= 0 {
		return 0, 0
	}
	col := int(math.Floor(x / arcade.FieldWidth * float64(v.Cols)))
	row := 1 + int(math.Floor(y/arcade.FieldHeight*float64(v.fieldRows())))
	return col, row
}

// Logical returns the logical point at the centre of a cell.
func (v Viewport) Logical(col, row int) (float64, float64) {
	if v.Cols <= 0 || v.fieldRows() <= 0 {
		return 0, 0
	}
	x := (float64(col) + 0.5) / float64(v.Cols) * arcade.FieldWidth
	y := (float64(row-1) + 0.5) / float64(v.fieldRows()) * arcade.FieldHeight
	return x, y
}

// span converts a rect into the inclusive cell range it touches, clipped to
// the playfield rows.
func (v Viewport) span(r arcade.Rect) (c0, r0, c1, r1 int, ok bool) {
	c0, r0 = v.Cell(r.X, r.Y)
	c1, r1 = v.Cell(r.X+r.W-0.001, r.Y+r.H-0.001)
	if r0 < 1 {
		r0 = 1
	}
	if r1 > v.Rows-1 {
		r1 = v.Rows - 1
	}
	if c0 < 0 {
		c0 = 0
	}
	if c1 > v.Cols-1 {
		c1 = v.Cols - 1
	}
	return c0, r0, c1, r1, r0 <= r1 && c0 <= c1
}

func itemGlyph(it arcade.Item) (rune, tcell.Style) {
	switch it.Kind {
	case arcade.KindCloud:
		return '▓', styleCloud
	case arcade.KindDecor:
		return '░', styleDecor
	}
	switch it.Variant {
	case arcade.VariantBottle:
		return 'B', styleBottle
	case arcade.VariantVR:
		return 'V', styleVR
	}
	return 'H', styleHat
}

func fill(s tcell.Screen, c0, r0, c1, r1 int, ch rune, st tcell.Style) {
	for y := r0; y <= r1; y++ {
		for x := c0; x <= c1; x++ {
			s.SetContent(x, y, ch, nil, st)
		}
	}
}

func put(s tcell.Screen, x, y int, str string, st tcell.Style) {
	for _, ch := range str {
		s.SetContent(x, y, ch, nil, st)
		x++
	}
}

func putCentered(s tcell.Screen, cols, y int, str string, st tcell.Style) {
	put(s, (cols-len([]rune(str)))/2, y, str, st)
}

// Render draws one frame of sn onto s. A zero-sized screen draws nothing.
func Render(s tcell.Screen, sn arcade.Snapshot, best int, vertical bool) {
	cols, rows := s.Size()
	v := Viewport{Cols: cols, Rows: rows}
	if cols <= 0 || v.fieldRows() <= 0 {
		return
	}

	fill(s, 0, 1, cols-1, rows-1, ' ', styleSky)

	for _, it := range sn.Items {
		c0, r0, c1, r1, ok := v.span(it.Rect())
		if !ok {
			continue
		}
		ch, st := itemGlyph(it)
		fill(s, c0, r0, c1, r1, ch, st)
	}

	if c0, r0, c1, r1, ok := v.span(sn.Kite); ok {
		st := styleKite
		if sn.Dragging {
			st = styleKiteDrg
		}
		fill(s, c0, r0, c1, r1, '◆', st)
	}

	fill(s, 0, 0, cols-1, 0, ' ', styleHUD)
	put(s, 1, 0, sn.ScoreText(), styleHUD)
	tt := sn.TimeText()
	put(s, cols-1-len(tt), 0, tt, styleHUD)

	switch {
	case sn.Idle():
		renderCard(s, cols, rows, idleLines(best, vertical))
	case sn.Ended:
		renderCard(s, cols, rows, gameOverLines(sn, best))
	}
}

type cardLine struct {
	text   string
	accent bool
}

func idleLines(best int, vertical bool) []cardLine {
	keys := "←/→ or A/D to steer"
	if vertical {
		keys = "arrows or WASD to steer"
	}
	lines := []cardLine{
		{text: "KITE FLY", accent: true},
		{text: "Catch H B V, dodge ▓ clouds"},
		{text: keys},
	}
	if best > 0 {
		lines = append(lines, cardLine{text: fmt.Sprintf("Best: %d", best)})
	}
	return append(lines, cardLine{}, cardLine{text: "Enter to start, q to quit", accent: true})
}

func gameOverLines(sn arcade.Snapshot, best int) []cardLine {
	bestLine := fmt.Sprintf("Best: %d", best)
	if sn.Score > sn.PrevBest {
		bestLine = fmt.Sprintf("New best! (was %d)", sn.PrevBest)
	}
	return []cardLine{
		{text: "TIME'S UP", accent: true},
		{text: fmt.Sprintf("Score %d", sn.Score)},
		{text: sn.Badge.String(), accent: true},
		{text: sn.Badge.Tagline()},
		{text: bestLine},
		{},
		{text: "Enter to play again, q to quit", accent: true},
	}
}

func renderCard(s tcell.Screen, cols, rows int, lines []cardLine) {
	h := len(lines) + 2
	top := (rows - h) / 2
	if top < 1 {
		top = 1
	}
	w := 0
	for _, l := range lines {
		if n := len([]rune(l.text)); n > w {
			w = n
		}
	}
	w += 4
	left := (cols - w) / 2
	if left < 0 {
		left = 0
	}
	fill(s, left, top, left+w-1, top+h-1, ' ', styleCard)
	for i, l := range lines {
		st := styleCard
		if l.accent {
			st = styleAccent
		}
		putCentered(s, cols, top+1+i, l.text, st)
	}
}
