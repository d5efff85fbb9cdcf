package tactical

import (
	"fmt"
	"strings"
)

// sceneReport renders a human-readable dump of the viewport and token table,
// suitable for pasting into a bug report or session log.
func sceneReport(cam *Camera, tokens []*Token, selected *Token) string {
	var b strings.Builder
	b.WriteString("--- battlemap scene report ---\n")
	if cam.Ready() {
		imgW, imgH := cam.ImageSize()
		fmt.Fprintf(&b, "background: %dx%d px\n", int(imgW), int(imgH))
		fmt.Fprintf(&b, "viewport: zoom=%.4f (min=%.4f max=%.4f) pan=(%.1f, %.1f)\n",
			cam.Zoom, cam.MinZoom, cam.MaxZoom, cam.PanX, cam.PanY)
	} else {
		b.WriteString("background: not ready\n")
	}
	fmt.Fprintf(&b, "tokens: %d\n", len(tokens))
	for _, t := range tokens {
		mark := " "
		if t == selected {
			mark = "*"
		}
		pos := "unplaced"
		if t.Pos != nil {
			pos = fmt.Sprintf("(%.1f, %.1f)", t.Pos.X, t.Pos.Y)
		}
		hp := ""
		if t.Stats != nil {
			hp = fmt.Sprintf("  hp=%d/%d", t.Stats.HP, t.Stats.HPMax)
		}
		fmt.Fprintf(&b, "%s %-12s %-10s %s%s\n", mark, t.ID, t.Side, pos, hp)
	}
	return b.String()
}
