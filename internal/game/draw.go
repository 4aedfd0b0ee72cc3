package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Kite-Fly/internal/arcade"
)

var (
	skyTop    = color.RGBA{R: 0xE3, G: 0xF2, B: 0xFD, A: 255}
	skyBottom = color.RGBA{R: 0xBB, G: 0xDE, B: 0xFB, A: 255}
	inkDark   = color.RGBA{R: 13, G: 71, B: 161, A: 255}
	cardFill  = color.RGBA{R: 255, G: 255, B: 255, A: 235}
	scrim     = color.RGBA{R: 10, G: 30, B: 60, A: 120}
)

// skyBands is the number of horizontal strips the gradient is drawn with.
const skyBands = 48

// Draw renders the playfield, the HUD and whichever overlay applies.
func (g *Game) Draw(screen *ebiten.Image) {
	if g == nil || g.session == nil {
		return
	}
	sn := g.session.Snapshot()

	g.drawSky(screen)
	g.drawBackdrop(screen, g.now().Sub(g.born).Seconds())
	for _, it := range sn.Items {
		g.drawItem(screen, it)
	}
	g.drawKite(screen, sn.Kite, sn.Dragging)
	g.drawHUD(screen, sn)
	g.feed.Draw(screen, sn.Clock, g.scale, 10, 40)

	switch {
	case sn.Idle():
		g.drawIdle(screen)
	case sn.Ended:
		g.drawGameOver(screen, sn)
	}
}

func lerpColor(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*t) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

func (g *Game) drawSky(screen *ebiten.Image) {
	w := float32(arcade.FieldWidth * g.scale)
	bandH := float32(arcade.FieldHeight*g.scale) / skyBands
	for i := 0; i < skyBands; i++ {
		c := lerpColor(skyTop, skyBottom, float64(i)/float64(skyBands-1))
		vector.FillRect(screen, 0, float32(i)*bandH, w, bandH+1, c, false)
	}
}

// drawBackdrop draws slow horizontal clouds behind the playfield. They are
// scenery only and take no part in collision.
func (g *Game) drawBackdrop(screen *ebiten.Image, t float64) {
	puffs := []struct{ y, speed, size, offset float64 }{
		{110, 8, 1.0, 0},
		{260, 5, 1.4, 190},
		{470, 11, 0.8, 330},
	}
	span := arcade.FieldWidth + 160.0
	for _, p := range puffs {
		x := math.Mod(p.offset+t*p.speed, span) - 80
		g.drawPuff(screen, x, p.y, p.size, color.RGBA{R: 255, G: 255, B: 255, A: 110})
	}
}

func (g *Game) drawPuff(screen *ebiten.Image, x, y, size float64, c color.RGBA) {
	s := float32(g.scale)
	for _, b := range [][3]float64{{0, 0, 18}, {20, -8, 22}, {42, 0, 17}, {22, 6, 18}} {
		vector.FillCircle(screen, float32(x+b[0]*size)*s, float32(y+b[1]*size)*s, float32(b[2]*size)*s, c, true)
	}
}

func (g *Game) fillRect(screen *ebiten.Image, x, y, w, h float64, c color.Color) {
	s := g.scale
	vector.FillRect(screen, float32(x*s), float32(y*s), float32(w*s), float32(h*s), c, true)
}

func (g *Game) drawItem(screen *ebiten.Image, it arcade.Item) {
	x, y, w, h := it.X, it.Y, it.W, it.H
	switch it.Kind {
	case arcade.KindCloud:
		g.drawPuff(screen, x+8, y+h*0.55, w/64, color.RGBA{R: 120, G: 130, B: 150, A: 235})
		return
	case arcade.KindDecor:
		g.drawPuff(screen, x+6, y+h*0.5, w/80, color.RGBA{R: 255, G: 255, B: 255, A: 170})
		return
	}

	// Good items sit on a soft disc so they read against the sky.
	s := float32(g.scale)
	vector.FillCircle(screen, float32(x+w/2)*s, float32(y+h/2)*s, float32(w/2)*s, color.RGBA{R: 255, G: 255, B: 255, A: 200}, true)
	switch it.Variant {
	case arcade.VariantHat:
		g.fillRect(screen, x+6, y+h*0.62, w-12, 6, color.RGBA{R: 62, G: 39, B: 35, A: 255})
		g.fillRect(screen, x+13, y+h*0.25, w-26, h*0.4, color.RGBA{R: 93, G: 64, B: 55, A: 255})
		g.fillRect(screen, x+13, y+h*0.52, w-26, 4, color.RGBA{R: 230, G: 74, B: 25, A: 255})
	case arcade.VariantBottle:
		g.fillRect(screen, x+w/2-4, y+6, 8, 8, color.RGBA{R: 46, G: 125, B: 50, A: 255})
		g.fillRect(screen, x+w/2-9, y+14, 18, h-20, color.RGBA{R: 102, G: 187, B: 106, A: 255})
		g.fillRect(screen, x+w/2-9, y+h*0.5, 18, 7, color.RGBA{R: 255, G: 255, B: 255, A: 220})
	case arcade.VariantVR:
		g.fillRect(screen, x+6, y+h*0.35, w-12, h*0.3, color.RGBA{R: 55, G: 71, B: 79, A: 255})
		vector.FillCircle(screen, float32(x+w*0.33)*s, float32(y+h/2)*s, 5*s, color.RGBA{R: 79, G: 195, B: 247, A: 255}, true)
		vector.FillCircle(screen, float32(x+w*0.67)*s, float32(y+h/2)*s, 5*s, color.RGBA{R: 79, G: 195, B: 247, A: 255}, true)
	}
}

// drawKite draws a diamond with a cross spar and a short tail.
func (g *Game) drawKite(screen *ebiten.Image, k arcade.Rect, dragging bool) {
	s := float32(g.scale)
	cx, _ := k.Center()
	top, bottom := float32(k.Y)*s, float32(k.Y+k.H*0.8)*s
	left, right := float32(k.X)*s, float32(k.X+k.W)*s
	midY := float32(k.Y+k.H*0.32) * s
	fcx := float32(cx) * s

	var path vector.Path
	path.MoveTo(fcx, top)
	path.LineTo(right, midY)
	path.LineTo(fcx, bottom)
	path.LineTo(left, midY)
	path.Close()

	op := &vector.DrawPathOptions{AntiAlias: true}
	if dragging {
		op.ColorScale.ScaleWithColor(color.RGBA{R: 255, G: 112, B: 67, A: 255})
	} else {
		op.ColorScale.ScaleWithColor(color.RGBA{R: 244, G: 81, B: 30, A: 255})
	}
	vector.FillPath(screen, &path, &vector.FillOptions{}, op)

	spar := color.RGBA{R: 120, G: 40, B: 20, A: 255}
	vector.StrokeLine(screen, fcx, top, fcx, bottom, 2*s, spar, true)
	vector.StrokeLine(screen, left, midY, right, midY, 2*s, spar, true)

	// Tail bows.
	for i, dx := range []float32{-5, 5, -4} {
		ty := bottom + float32(i+1)*5*s
		vector.StrokeLine(screen, fcx, ty-5*s, fcx+dx*s, ty, 1.5*s, spar, true)
	}
}

func (g *Game) face(size float64) *text.GoTextFace {
	return &text.GoTextFace{Source: g.fontSrc, Size: size * g.scale}
}

func (g *Game) drawText(screen *ebiten.Image, s string, size, x, y float64, align text.Align, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x*g.scale, y*g.scale)
	op.ColorScale.ScaleWithColor(c)
	op.PrimaryAlign = align
	text.Draw(screen, s, g.face(size), op)
}

func (g *Game) drawHUD(screen *ebiten.Image, sn arcade.Snapshot) {
	g.fillRect(screen, 0, 0, arcade.FieldWidth, 34, color.RGBA{R: 255, G: 255, B: 255, A: 150})
	g.drawText(screen, sn.ScoreText(), 18, 12, 7, text.AlignStart, inkDark)
	g.drawText(screen, sn.TimeText(), 18, arcade.FieldWidth-12, 7, text.AlignEnd, inkDark)
}

func (g *Game) drawCard(screen *ebiten.Image, y, h float64) {
	g.fillRect(screen, 0, 0, arcade.FieldWidth, arcade.FieldHeight, scrim)
	g.fillRect(screen, 30, y, arcade.FieldWidth-60, h, cardFill)
}

func (g *Game) drawIdle(screen *ebiten.Image) {
	mid := arcade.FieldWidth / 2.0
	g.drawCard(screen, 230, 230)
	g.drawText(screen, "Kite Fly", 34, mid, 250, text.AlignCenter, inkDark)
	g.drawText(screen, "Catch hats, bottles and VR. Dodge clouds.", 13, mid, 305, text.AlignCenter, inkDark)
	keys := "Arrows / A D to steer, or drag the kite"
	if g.session.Tuning().Vertical {
		keys = "Arrows / WASD to steer, or drag the kite"
	}
	g.drawText(screen, keys, 13, mid, 328, text.AlignCenter, inkDark)
	if g.record.BestScore > 0 {
		g.drawText(screen, fmt.Sprintf("Best: %d", g.record.BestScore), 15, mid, 360, text.AlignCenter, inkDark)
	}
	g.drawText(screen, "Press Enter or click to start", 16, mid, 405, text.AlignCenter, color.RGBA{R: 244, G: 81, B: 30, A: 255})
}

func (g *Game) drawGameOver(screen *ebiten.Image, sn arcade.Snapshot) {
	mid := arcade.FieldWidth / 2.0
	res := g.session.Result()
	g.drawCard(screen, 170, 360)
	g.drawText(screen, "Time's up!", 30, mid, 188, text.AlignCenter, inkDark)
	g.drawText(screen, fmt.Sprintf("Score %d", sn.Score), 24, mid, 232, text.AlignCenter, inkDark)
	g.drawText(screen, sn.Badge.String(), 22, mid, 272, text.AlignCenter, color.RGBA{R: 244, G: 81, B: 30, A: 255})
	g.drawText(screen, sn.Badge.Tagline(), 13, mid, 304, text.AlignCenter, inkDark)

	best := fmt.Sprintf("Best: %d", g.record.BestScore)
	if res.NewBest {
		best = fmt.Sprintf("New best! (was %d)", res.PrevBest)
	}
	g.drawText(screen, best, 16, mid, 338, text.AlignCenter, inkDark)

	y := 372.0
	for _, b := range arcade.AllBadges {
		mark, c := "-", color.RGBA{R: 150, G: 160, B: 175, A: 255}
		if g.record.Has(b) {
			mark, c = "*", inkDark
		}
		g.drawText(screen, mark+" "+b.String(), 14, mid, y, text.AlignCenter, c)
		y += 20
	}

	g.drawText(screen, "Enter to play again, C to copy", 14, mid, 448, text.AlignCenter, inkDark)
	if g.status != "" && g.now().Sub(g.statusT).Seconds() < 3 {
		g.drawText(screen, g.status, 13, mid, 476, text.AlignCenter, color.RGBA{R: 46, G: 125, B: 50, A: 255})
	}
}
