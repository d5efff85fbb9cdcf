package tactical

import "math"

// pickToken maps a screen point to the topmost token whose circular icon
// contains it. Tokens are scanned in reverse array order so the last-drawn
// (visually topmost) token wins ties. Returns nil when no background is
// fitted or nothing qualifies.
func pickToken(tokens []*Token, cam *Camera, sx, sy float64) *Token {
	if !cam.Ready() {
		return nil
	}
	ix, iy := cam.ToImage(sx, sy)
	for i := len(tokens) - 1; i >= 0; i-- {
		t := tokens[i]
		if t.Pos == nil {
			continue
		}
		cx, cy := t.imageCenter(cam)
		dx := cx - ix
		dy := cy - iy
		if math.Sqrt(dx*dx+dy*dy) <= tokenSize/2 {
			return t
		}
	}
	return nil
}

// imageCenter converts the token's normalized position to background-image
// pixel coordinates.
func (t *Token) imageCenter(cam *Camera) (cx, cy float64) {
	imgW, imgH := cam.ImageSize()
	return t.Pos.X / 100 * imgW, t.Pos.Y / 100 * imgH
}
