package flock

import (
	"fmt"

	"github.com/vovakirdan/tui-flock/internal/config"
	"github.com/vovakirdan/tui-flock/internal/core"
	"github.com/vovakirdan/tui-flock/internal/round"
)

const (
	tileW     = 12
	tileH     = 6
	hudHeight = 3
	footerH   = 2

	gridW = config.GridCols * tileW
	gridH = config.GridRows * tileH

	minW = gridW + 2
	minH = hudHeight + gridH + footerH
)

const buttonLabel = "[ R: new flock ]"

// layout places the pen and the reset button for the current screen size.
// The button is centred under the pen.
func (g *Game) layout() {
	g.tooSmall = g.screenW < minW || g.screenH < minH

	x := max((g.screenW-gridW)/2, 0)
	g.grid = core.NewRect(x, hudHeight, gridW, gridH)

	g.hits = make([]core.Rect, config.GridRows*config.GridCols)
	for slot := range g.hits {
		row, col := slot/config.GridCols, slot%config.GridCols
		g.hits[slot] = core.NewRect(x+col*tileW, hudHeight+row*tileH, tileW, tileH)
	}
	cx, _ := g.grid.Center()
	g.button = core.NewRect(max(cx-len(buttonLabel)/2, 0), g.grid.Bottom()+1, len(buttonLabel), 1)
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.ctrl == nil {
		return
	}
	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	state := g.ctrl.State()
	g.renderHUD(dst)
	for slot := range g.hits {
		g.renderSheep(dst, slot)
	}
	g.renderFooter(dst, state)

	if g.paused {
		g.renderPaused(dst)
	}
}

func (g *Game) renderTooSmall(dst *core.Screen) {
	msg := "Window too small"
	x := (g.screenW - len(msg)) / 2
	y := g.screenH / 2
	dst.DrawText(x, y, msg)

	hint := fmt.Sprintf("Need at least %dx%d", minW, minH)
	dst.DrawText((g.screenW-len(hint))/2, y+1, hint)
}

func (g *Game) renderHUD(dst *core.Screen) {
	v := g.hud.view()

	title := "LUCKY FLOCK"
	dst.DrawTextColored(g.grid.X+(gridW-len(title))/2, 0, title, core.ColorBrightWhite)

	roundText := fmt.Sprintf("Round: %d", v.RoundCount)
	roundColor := core.ColorAccentB
	if v.RoundPulse {
		roundText = "* " + roundText + " *"
		roundColor = core.ColorBrightYellow
	}
	dst.DrawTextColored(g.grid.X, 1, roundText, roundColor)

	multText := fmt.Sprintf("Multiplier: x%d", v.Multiplier)
	multColor := core.ColorAccentA
	if v.MultPulse {
		multText = "* " + multText + " *"
		multColor = core.ColorBrightYellow
	}
	dst.DrawTextColored(g.grid.Right()-len(multText), 1, multText, multColor)

	if v.Rounds > 0 {
		played := fmt.Sprintf("rounds played: %d", v.Rounds)
		dst.DrawTextColored(g.grid.X+(gridW-len(played))/2, 1, played, core.ColorGray)
	}
}

func (g *Game) renderSheep(dst *core.Screen, slot int) {
	r := g.hits[slot]
	label := g.views[slot].label()
	p := g.players[slot].pose()

	border := core.ColorWhite
	switch {
	case slot == g.cursor:
		border = core.ColorBrightYellow
	case label.Locked:
		border = core.ColorGray
	}
	dst.DrawBox(r, border)

	if label.Text != "" {
		dst.DrawTextColored(r.X+(tileW-len(label.Text))/2, r.Y+1, label.Text, label.Color)
	}
	if label.Star {
		dst.SetColored(r.X+1, r.Y+1, '*', core.ColorBrightYellow)
		dst.SetColored(r.Right()-2, r.Y+1, '*', core.ColorBrightYellow)
	}

	body := core.ColorWhite
	if label.Locked {
		body = core.ColorGray
	}
	x := r.X + (tileW-len(sheepBody))/2
	ground := r.Bottom() - 2
	dst.DrawTextColored(x, ground-1-p.lift, sheepBody, body)
	dst.DrawTextColored(x, ground-p.lift, p.legs, body)
}

func (g *Game) renderFooter(dst *core.Screen, s round.State) {
	y := g.grid.Bottom()

	var status string
	color := core.ColorNeutral
	switch s.Phase {
	case round.PhaseActive:
		status = "Arrows/WASD move, Space picks a sheep"
	case round.PhaseConcluding:
		status = "Revealing the flock..."
		color = core.ColorGray
	case round.PhaseConcluded:
		status = fmt.Sprintf("Round over: %d rounds at x%d", s.RoundCount, s.Multiplier)
		color = core.ColorGreen
	}
	dst.DrawTextColored(g.grid.X, y, status, color)

	buttonColor := core.ColorCyan
	if s.Phase == round.PhaseConcluded {
		buttonColor = core.ColorBrightYellow
	}
	dst.DrawTextColored(g.button.X, g.button.Y, buttonLabel, buttonColor)
}

func (g *Game) renderPaused(dst *core.Screen) {
	msg := " PAUSED "
	w := len(msg) + 4
	x := (g.screenW - w) / 2
	y := g.screenH/2 - 1
	box := core.NewRect(x, y, w, 3)
	dst.FillRect(box)
	dst.DrawBox(box, core.ColorBrightWhite)
	dst.DrawTextColored(x+2, y+1, msg, core.ColorBrightWhite)
}
