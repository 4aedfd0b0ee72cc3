package game

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/Garsondee/Kite-Fly/internal/arcade"
)

// directionKeys maps movement keys to held directions. Up/down only apply
// when vertical movement is enabled.
var directionKeys = map[ebiten.Key]arcade.Held{
	ebiten.KeyArrowLeft:  arcade.HoldLeft,
	ebiten.KeyA:          arcade.HoldLeft,
	ebiten.KeyArrowRight: arcade.HoldRight,
	ebiten.KeyD:          arcade.HoldRight,
	ebiten.KeyArrowUp:    arcade.HoldUp,
	ebiten.KeyW:          arcade.HoldUp,
	ebiten.KeyArrowDown:  arcade.HoldDown,
	ebiten.KeyS:          arcade.HoldDown,
}

// applyKeyEdge folds one key-down or key-up edge into the held set.
func applyKeyEdge(held arcade.Held, k ebiten.Key, down, vertical bool) arcade.Held {
	d, ok := directionKeys[k]
	if !ok {
		return held
	}
	if !vertical && (d == arcade.HoldUp || d == arcade.HoldDown) {
		return held
	}
	if down {
		return held | d
	}
	return held &^ d
}

// toLogical converts screen pixels to playfield units.
func toLogical(px, py int, scale float64) (float64, float64) {
	if scale <= 0 {
		scale = 1
	}
	return float64(px) / scale, float64(py) / scale
}

// handleInput processes keyboard edges and pointer drags.
func (g *Game) handleInput(now time.Time) {
	currentKeys := map[ebiten.Key]bool{}
	vertical := g.session.Tuning().Vertical

	// Movement: edge-tracked so a key released between frames still clears.
	for k := range directionKeys {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		if currentKeys[k] != g.prevKeys[k] {
			g.held = applyKeyEdge(g.held, k, currentKeys[k], vertical)
		}
	}

	// Enter / Space: start or play again.
	for _, k := range []ebiten.Key{ebiten.KeyEnter, ebiten.KeySpace} {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		if currentKeys[k] && !g.prevKeys[k] && !g.session.Running() {
			g.start(now)
		}
	}

	// C: copy the result to the clipboard on the game-over card.
	currentKeys[ebiten.KeyC] = ebiten.IsKeyPressed(ebiten.KeyC)
	if currentKeys[ebiten.KeyC] && !g.prevKeys[ebiten.KeyC] && g.session.Ended() {
		g.copyResult(now)
	}

	g.prevKeys = currentKeys
	g.handlePointer(now)
}

// handlePointer maps mouse and touch drags onto the kite. A press while no
// session is running acts as the start button instead.
func (g *Game) handlePointer(now time.Time) {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if !g.session.Running() {
			g.start(now)
		}
		g.mouseDrag = true
		g.session.BeginDrag()
	}
	if g.mouseDrag {
		cx, cy := ebiten.CursorPosition()
		x, y := toLogical(cx, cy, g.scale)
		g.session.SetPointerTarget(x, y)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) && g.mouseDrag {
		g.mouseDrag = false
		g.session.EndDrag()
	}

	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		if g.touchDrag {
			break
		}
		if !g.session.Running() {
			g.start(now)
		}
		g.touchDrag = true
		g.touchID = id
		g.session.BeginDrag()
	}
	if g.touchDrag {
		if inpututil.IsTouchJustReleased(g.touchID) {
			g.touchDrag = false
			g.session.EndDrag()
			return
		}
		tx, ty := ebiten.TouchPosition(g.touchID)
		x, y := toLogical(tx, ty, g.scale)
		g.session.SetPointerTarget(x, y)
	}
}

// shareText is what the copy key puts on the clipboard.
func shareText(res arcade.Result, best int) string {
	if res.NewBest {
		return fmt.Sprintf("I just set a new Kite Fly best: %d points, %s!", res.Score, res.Badge)
	}
	return fmt.Sprintf("I scored %d in Kite Fly and earned %s (best %d).", res.Score, res.Badge, best)
}

func (g *Game) copyResult(now time.Time) {
	res := g.session.Result()
	best := g.record.BestScore
	if res.Score > best {
		best = res.Score
	}
	if err := clipboard.WriteAll(shareText(res, best)); err != nil {
		g.logger.Warn("clipboard unavailable", zap.Error(err))
		g.setStatus(now, "Clipboard unavailable")
		return
	}
	g.setStatus(now, "Copied to clipboard!")
}

func (g *Game) setStatus(now time.Time, s string) {
	g.status = s
	g.statusT = now
}
