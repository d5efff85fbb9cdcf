package tactical

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	hudLineH = 12 // debug font line height
	hudCharW = 6  // debug font char width
	hudPadX  = 5
	hudPadY  = 4
)

// drawHUD renders the key legend panel in the bottom-left corner.
func (v *View) drawHUD(screen *ebiten.Image) {
	lines := []string{
		fmt.Sprintf("zoom: %.2fx  tokens: %d", v.cam.Zoom, len(v.tokens)),
		"scroll or =/- = zoom  middle/ctrl+drag=pan",
		"drag token=move  dblclick=cycle art",
		"[H] hud  [R] copy report",
	}
	if sel := v.session.Selected(); sel != nil {
		lines = append(lines, fmt.Sprintf("selected: %s", sel.Name))
	}

	maxLen := 0
	for _, l := range lines {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	boxW := float32(maxLen*hudCharW + hudPadX*2)
	boxH := float32(len(lines)*hudLineH + hudPadY*2)
	bx := float32(6)
	by := float32(v.cam.canvasH) - boxH - 6

	vector.FillRect(screen, bx, by, boxW, boxH,
		color.RGBA{R: 8, G: 10, B: 12, A: 210}, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH,
		1.0, color.RGBA{R: 90, G: 90, B: 110, A: 180}, false)

	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, int(bx)+hudPadX, int(by)+hudPadY+i*hudLineH)
	}
}
