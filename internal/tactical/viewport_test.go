package tactical

import (
	"math"
	"testing"
)

const tol = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-6
}

func fittedCamera() *Camera {
	c := &Camera{}
	c.Fit(1000, 800, 1600, 900)
	return c
}

func TestFit_CoverScenario(t *testing.T) {
	c := fittedCamera()
	// fillZoom = max(1600/1000, 900/800) = 1.6
	if !approx(c.Zoom, 1.6) {
		t.Fatalf("zoom = %v, want 1.6", c.Zoom)
	}
	if !approx(c.MinZoom, 0.5625) {
		t.Fatalf("minZoom = %v, want 0.5625", c.MinZoom)
	}
	if !approx(c.MaxZoom, 4.8) {
		t.Fatalf("maxZoom = %v, want 4.8", c.MaxZoom)
	}
	// Scaled image is 1600x1280: centred horizontally exactly, negative top offset.
	if !approx(c.PanX, 0) {
		t.Fatalf("panX = %v, want 0", c.PanX)
	}
	if !approx(c.PanY, -190) {
		t.Fatalf("panY = %v, want -190", c.PanY)
	}
}

func TestFit_PortraitImage_OverflowsVertically(t *testing.T) {
	c := &Camera{}
	c.Fit(800, 1600, 1600, 900)
	// fillZoom = max(2.0, 0.5625) = 2.0; scaled 1600x3200.
	if !approx(c.Zoom, 2.0) {
		t.Fatalf("zoom = %v, want 2.0", c.Zoom)
	}
	if !approx(c.PanX, 0) || !approx(c.PanY, (900-3200)/2.0) {
		t.Fatalf("pan = (%v, %v)", c.PanX, c.PanY)
	}
}

func TestCoordinateConversion_RoundTrip(t *testing.T) {
	c := fittedCamera()
	c.ZoomAt(3, 412, 218)
	c.PanTo(c.PanX-37, c.PanY+59)

	points := [][2]float64{{0, 0}, {123.4, 567.8}, {1600, 900}, {-50, 1200}}
	for _, p := range points {
		ix, iy := c.ToImage(p[0], p[1])
		sx, sy := c.ToScreen(ix, iy)
		if !approx(sx, p[0]) || !approx(sy, p[1]) {
			t.Fatalf("round trip of (%v,%v) gave (%v,%v)", p[0], p[1], sx, sy)
		}
	}
}

func TestZoomAt_PointUnderCursorStaysFixed(t *testing.T) {
	c := fittedCamera()
	mx, my := 800.0, 450.0
	beforeX, beforeY := c.ToImage(mx, my)
	c.ZoomAt(1, mx, my)
	afterX, afterY := c.ToImage(mx, my)
	if !approx(beforeX, afterX) || !approx(beforeY, afterY) {
		t.Fatalf("image point moved: (%v,%v) -> (%v,%v)", beforeX, beforeY, afterX, afterY)
	}

	c.ZoomAt(-1, mx, my)
	backX, backY := c.ToImage(mx, my)
	if !approx(beforeX, backX) || !approx(beforeY, backY) {
		t.Fatalf("zoom out drifted: (%v,%v) -> (%v,%v)", beforeX, beforeY, backX, backY)
	}
}

func TestZoomAt_ClampsToBounds(t *testing.T) {
	c := fittedCamera()
	for i := 0; i < 100; i++ {
		c.ZoomAt(1, 800, 450)
	}
	if !approx(c.Zoom, c.MaxZoom) {
		t.Fatalf("zoom = %v, want maxZoom %v", c.Zoom, c.MaxZoom)
	}
	for i := 0; i < 200; i++ {
		c.ZoomAt(-1, 800, 450)
	}
	if !approx(c.Zoom, c.MinZoom) {
		t.Fatalf("zoom = %v, want minZoom %v", c.Zoom, c.MinZoom)
	}
}

func TestZoomAt_NotReady_NoOp(t *testing.T) {
	c := &Camera{}
	c.ZoomAt(5, 100, 100)
	if c.Zoom != 0 || c.PanX != 0 || c.PanY != 0 {
		t.Fatal("unfitted camera must ignore wheel events")
	}
}

func TestPanTo_FixedMarginClamp(t *testing.T) {
	c := fittedCamera()
	scaledW := 1000 * c.Zoom
	scaledH := 800 * c.Zoom

	c.PanTo(1e6, 1e6)
	if !approx(c.PanX, 1600-panMargin) || !approx(c.PanY, 900-panMargin) {
		t.Fatalf("upper clamp gave (%v, %v)", c.PanX, c.PanY)
	}

	c.PanTo(-1e6, -1e6)
	if !approx(c.PanX, -scaledW+panMargin) || !approx(c.PanY, -scaledH+panMargin) {
		t.Fatalf("lower clamp gave (%v, %v)", c.PanX, c.PanY)
	}
}

func TestSetCanvasSize_ReclampsPan(t *testing.T) {
	c := fittedCamera()
	c.PanTo(1600-panMargin, 0)
	c.SetCanvasSize(1000, 900)
	if c.PanX > 1000-panMargin+tol {
		t.Fatalf("panX = %v exceeds shrunk surface bound", c.PanX)
	}
}
