package tactical

// panMargin is the fixed screen-pixel strip of the image that must stay
// visible after any pan or zoom. The clamp is a fixed margin, not a
// proportional half-image rule.
const panMargin = 100

// Zoom step factors per wheel tick.
const (
	zoomStepIn  = 1.1
	zoomStepOut = 0.9
)

// Camera owns the viewport transform for the tactical view: a zoom factor and
// a screen-pixel pan offset over the background image. Pure math, no surface
// dependency.
type Camera struct {
	Zoom    float64
	PanX    float64
	PanY    float64
	MinZoom float64
	MaxZoom float64

	canvasW float64
	canvasH float64
	imageW  float64
	imageH  float64
	ready   bool
}

// Fit computes the initial cover-fit viewport for an image of imgW×imgH pixels
// inside a canvasW×canvasH surface: the image covers the canvas, possibly
// overflowing one axis, and is centred.
func (c *Camera) Fit(imgW, imgH, canvasW, canvasH float64) {
	c.imageW, c.imageH = imgW, imgH
	c.canvasW, c.canvasH = canvasW, canvasH

	fillZoom := max(canvasW/imgW, canvasH/imgH)
	c.Zoom = fillZoom
	c.MinZoom = min(canvasW/imgW, canvasH/imgH) * 0.5
	c.MaxZoom = fillZoom * 3

	c.PanX = (canvasW - imgW*c.Zoom) / 2
	c.PanY = (canvasH - imgH*c.Zoom) / 2
	c.ready = true
}

// Ready reports whether a background has been fitted.
func (c *Camera) Ready() bool { return c.ready }

// ImageSize returns the natural pixel dimensions of the fitted background.
func (c *Camera) ImageSize() (w, h float64) { return c.imageW, c.imageH }

// SetCanvasSize records the current surface dimensions. Called every render so
// a live window resize keeps the pan clamp honest.
func (c *Camera) SetCanvasSize(w, h float64) {
	if w == c.canvasW && h == c.canvasH {
		return
	}
	c.canvasW, c.canvasH = w, h
	if c.ready {
		c.clampPan()
	}
}

// ToImage converts screen coordinates to background-image coordinates.
func (c *Camera) ToImage(sx, sy float64) (ix, iy float64) {
	return (sx - c.PanX) / c.Zoom, (sy - c.PanY) / c.Zoom
}

// ToScreen converts background-image coordinates to screen coordinates.
func (c *Camera) ToScreen(ix, iy float64) (sx, sy float64) {
	return ix*c.Zoom + c.PanX, iy*c.Zoom + c.PanY
}

// ZoomAt applies wheel ticks at screen point (mx,my): one step in per positive
// tick, one step out per negative tick, clamped to [MinZoom,MaxZoom]. The pan
// is corrected so the image point under the cursor stays fixed.
func (c *Camera) ZoomAt(ticks, mx, my float64) {
	if !c.ready || ticks == 0 {
		return
	}
	step := zoomStepIn
	if ticks < 0 {
		step = zoomStepOut
		ticks = -ticks
	}
	for i := 0.0; i < ticks; i++ {
		next := c.Zoom * step
		if next < c.MinZoom {
			next = c.MinZoom
		}
		if next > c.MaxZoom {
			next = c.MaxZoom
		}
		ratio := next / c.Zoom
		c.PanX = mx - (mx-c.PanX)*ratio
		c.PanY = my - (my-c.PanY)*ratio
		c.Zoom = next
	}
	c.clampPan()
}

// PanTo sets the pan offset and re-applies the bound clamp.
func (c *Camera) PanTo(px, py float64) {
	c.PanX, c.PanY = px, py
	c.clampPan()
}

// clampPan keeps at least panMargin pixels of the scaled image on-surface.
func (c *Camera) clampPan() {
	scaledW := c.imageW * c.Zoom
	scaledH := c.imageH * c.Zoom
	c.PanX = clampRange(c.PanX, -scaledW+panMargin, c.canvasW-panMargin)
	c.PanY = clampRange(c.PanY, -scaledH+panMargin, c.canvasH-panMargin)
}

func clampRange(v, lo, hi float64) float64 {
	if lo > hi {
		// Degenerate: the scaled image is smaller than twice the margin.
		return (lo + hi) / 2
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
