package tactical

import "testing"

// standardView is a 1600x900 surface over a 1000x800 background: fit zoom 1.6,
// pan (0, -190). The token at (50,50) sits at screen (800, 450).
func standardView(extra ...TestViewOption) *TestView {
	opts := []TestViewOption{
		WithBackgroundSize(1000, 800),
		WithPlacedToken(placedToken("grunt", 50, 50)),
	}
	return NewTestView(append(opts, extra...)...)
}

func findHover(fx []Effect) (HoverChange, bool) {
	for _, e := range fx {
		if h, ok := e.(HoverChange); ok {
			return h, true
		}
	}
	return HoverChange{}, false
}

func findDragEnd(fx []Effect) (DragEnd, bool) {
	for _, e := range fx {
		if d, ok := e.(DragEnd); ok {
			return d, true
		}
	}
	return DragEnd{}, false
}

func findCursor(fx []Effect) (CursorChange, bool) {
	for _, e := range fx {
		if c, ok := e.(CursorChange); ok {
			return c, true
		}
	}
	return CursorChange{}, false
}

func TestPan_MiddleButton(t *testing.T) {
	tv := standardView()
	basePanX, basePanY := tv.Cam.PanX, tv.Cam.PanY

	fx := tv.Interpret(PointerDown{X: 800, Y: 450, Button: ButtonMiddle})
	if c, ok := findCursor(fx); !ok || c.Cursor != CursorGrabbing {
		t.Fatal("pan start must switch to the grabbing cursor")
	}
	if !tv.Session.Panning() {
		t.Fatal("middle press must enter the panning state")
	}

	tv.Interpret(PointerMove{X: 850, Y: 480})
	if !approx(tv.Cam.PanX, basePanX+50) || !approx(tv.Cam.PanY, basePanY+30) {
		t.Fatalf("pan = (%v, %v), want (+50, +30) from base", tv.Cam.PanX, tv.Cam.PanY)
	}

	tv.Interpret(PointerUp{X: 850, Y: 480})
	if tv.Session.Panning() {
		t.Fatal("pointer-up must end the pan")
	}
}

func TestPan_ModifierLeftOverToken_PansNotDrags(t *testing.T) {
	tv := standardView()
	tv.Interpret(PointerDown{X: 800, Y: 450, Button: ButtonLeft, Modifier: true})
	if !tv.Session.Panning() {
		t.Fatal("modifier+left must pan even over a token")
	}
	if tv.Session.Dragging() {
		t.Fatal("panning and dragging must be exclusive")
	}
}

func TestDrag_Correctness(t *testing.T) {
	tv := standardView()
	grunt := tv.Tokens[0]

	// Grab off-centre so the relative grab point must be preserved.
	ax, ay := 810.0, 446.0
	tv.Interpret(PointerDown{X: ax, Y: ay, Button: ButtonLeft})
	if !tv.Session.Dragging() {
		t.Fatal("left press on a token must start a drag")
	}
	gix, giy := tv.Cam.ToImage(ax, ay)
	offX, offY := gix-500, giy-400

	bx, by := 900.0, 300.0
	tv.Interpret(PointerMove{X: bx, Y: by})
	fx := tv.Interpret(PointerUp{X: bx, Y: by})
	d, ok := findDragEnd(fx)
	if !ok || d.Token != grunt {
		t.Fatal("release must emit a drag-end for the moved token")
	}

	ix, iy := tv.Cam.ToImage(bx, by)
	wantX := (ix - offX) / 1000 * 100
	wantY := (iy - offY) / 800 * 100
	if !approx(grunt.Pos.X, wantX) || !approx(grunt.Pos.Y, wantY) {
		t.Fatalf("token at (%v, %v), want (%v, %v)", grunt.Pos.X, grunt.Pos.Y, wantX, wantY)
	}
}

func TestDrag_ClampsToPercentRange(t *testing.T) {
	tv := standardView()
	grunt := tv.Tokens[0]

	tv.Interpret(PointerDown{X: 800, Y: 450, Button: ButtonLeft})
	tv.Interpret(PointerMove{X: 1e6, Y: -1e6})
	tv.Interpret(PointerUp{X: 1e6, Y: -1e6})

	if grunt.Pos.X != 100 || grunt.Pos.Y != 0 {
		t.Fatalf("clamped position = (%v, %v), want (100, 0)", grunt.Pos.X, grunt.Pos.Y)
	}
}

func TestDrag_ModeFixedUntilRelease(t *testing.T) {
	tv := standardView()
	tv.Interpret(PointerDown{X: 800, Y: 450, Button: ButtonLeft})
	// Pointer over empty map mid-gesture: still dragging, no hover evaluation.
	fx := tv.Interpret(PointerMove{X: 100, Y: 100})
	if !tv.Session.Dragging() {
		t.Fatal("drag must persist until pointer-up")
	}
	if _, ok := findHover(fx); ok {
		t.Fatal("hover must not be evaluated mid-drag")
	}
}

func TestDrag_DisabledSession(t *testing.T) {
	tv := standardView(WithoutDragging())
	tv.Interpret(PointerDown{X: 800, Y: 450, Button: ButtonLeft})
	if tv.Session.Dragging() {
		t.Fatal("drag-disabled session must not start drags")
	}
}

func TestHover_ChangeAndClear(t *testing.T) {
	tv := standardView()

	fx := tv.Interpret(PointerMove{X: 800, Y: 450})
	h, ok := findHover(fx)
	if !ok || h.Token == nil || h.Token.ID != "grunt" {
		t.Fatalf("hover over token gave %v", h.Token)
	}
	if c, ok := findCursor(fx); !ok || c.Cursor != CursorPointer {
		t.Fatal("hover must switch to the pointer cursor")
	}

	// No change while still over the same token: no effects.
	if fx := tv.Interpret(PointerMove{X: 802, Y: 452}); len(fx) != 0 {
		t.Fatalf("unchanged hover emitted %d effects", len(fx))
	}

	fx = tv.Interpret(PointerMove{X: 100, Y: 100})
	h, ok = findHover(fx)
	if !ok || h.Token != nil {
		t.Fatal("leaving the token must clear the hover")
	}
}

func TestHover_NotEvaluatedWhilePanning(t *testing.T) {
	tv := standardView()
	tv.Interpret(PointerDown{X: 100, Y: 100, Button: ButtonMiddle})
	fx := tv.Interpret(PointerMove{X: 800, Y: 450})
	if _, ok := findHover(fx); ok {
		t.Fatal("hover must not be evaluated while panning")
	}
}

func TestClick_SelectsAndClears(t *testing.T) {
	tv := standardView()
	grunt := tv.Tokens[0]

	fx := tv.Interpret(Click{X: 800, Y: 450})
	hit := false
	for _, e := range fx {
		if c, ok := e.(ClickHit); ok {
			hit = true
			if c.Token != grunt {
				t.Fatal("click hit the wrong token")
			}
		}
	}
	if !hit || tv.Session.Selected() != grunt {
		t.Fatal("click on a token must select it and notify")
	}

	tv.Interpret(Click{X: 100, Y: 100})
	if tv.Session.Selected() != nil {
		t.Fatal("click on empty map must clear the selection")
	}
}

func TestDoubleClick_GalleryCyclesAndPreloads(t *testing.T) {
	tv := NewTestView(
		WithBackgroundSize(1000, 800),
		WithPlacedToken(Token{
			ID:      "shifter",
			Pos:     &Position{X: 50, Y: 50},
			Icon:    "a.png",
			Gallery: []string{"a.png", "b.png", "c.png"},
		}),
	)
	shifter := tv.Tokens[0]

	fx := tv.Interpret(DoubleClick{X: 800, Y: 450})
	preloaded := ""
	for _, e := range fx {
		if p, ok := e.(PreloadIcon); ok {
			preloaded = p.URL
		}
	}
	if shifter.Icon != "b.png" || preloaded != "b.png" {
		t.Fatalf("first cycle gave icon %q, preload %q", shifter.Icon, preloaded)
	}

	// Cycling gallery-length times restores the original icon.
	tv.Interpret(DoubleClick{X: 800, Y: 450})
	tv.Interpret(DoubleClick{X: 800, Y: 450})
	if shifter.Icon != "a.png" || tv.Session.GalleryIndex(shifter) != 0 {
		t.Fatalf("full cycle left icon %q index %d", shifter.Icon, tv.Session.GalleryIndex(shifter))
	}
}

func TestDoubleClick_SingleIconGallery_NoOp(t *testing.T) {
	tv := NewTestView(
		WithBackgroundSize(1000, 800),
		WithPlacedToken(Token{
			ID:      "statue",
			Pos:     &Position{X: 50, Y: 50},
			Icon:    "a.png",
			Gallery: []string{"a.png"},
		}),
	)
	if fx := tv.Interpret(DoubleClick{X: 800, Y: 450}); len(fx) != 0 {
		t.Fatal("a one-entry gallery must not cycle")
	}
}

func TestRightClick_HitAndMiss(t *testing.T) {
	tv := standardView()

	fx := tv.Interpret(RightClick{X: 800, Y: 450})
	if len(fx) != 1 {
		t.Fatalf("right-click hit emitted %d effects", len(fx))
	}
	if r, ok := fx[0].(RightClickHit); !ok || r.Token.ID != "grunt" {
		t.Fatal("right-click on a token must notify the target listener")
	}

	if fx := tv.Interpret(RightClick{X: 100, Y: 100}); len(fx) != 0 {
		t.Fatal("right-click on empty map must notify nothing")
	}
}

func TestWheel_ProcessedDuringDrag(t *testing.T) {
	tv := standardView()
	tv.Interpret(PointerDown{X: 800, Y: 450, Button: ButtonLeft})
	before := tv.Cam.Zoom
	tv.Interpret(Wheel{X: 800, Y: 450, Ticks: 1})
	if !approx(tv.Cam.Zoom, before*zoomStepIn) {
		t.Fatalf("zoom = %v, want one step in from %v", tv.Cam.Zoom, before)
	}
	if !tv.Session.Dragging() {
		t.Fatal("wheel must not end the drag")
	}
}

func TestWheel_DuringPan_NextMoveKeepsZoomedPan(t *testing.T) {
	tv := standardView()
	tv.Interpret(PointerDown{X: 800, Y: 450, Button: ButtonMiddle})
	tv.Interpret(Wheel{X: 800, Y: 450, Ticks: 1})
	zoomedX, zoomedY := tv.Cam.PanX, tv.Cam.PanY

	// Pointer has not travelled since the wheel: the pan must hold, not snap
	// back to the pre-zoom anchor.
	tv.Interpret(PointerMove{X: 800, Y: 450})
	if !approx(tv.Cam.PanX, zoomedX) || !approx(tv.Cam.PanY, zoomedY) {
		t.Fatalf("pan = (%v, %v), want the post-zoom (%v, %v)", tv.Cam.PanX, tv.Cam.PanY, zoomedX, zoomedY)
	}

	tv.Interpret(PointerMove{X: 810, Y: 455})
	if !approx(tv.Cam.PanX, zoomedX+10) || !approx(tv.Cam.PanY, zoomedY+5) {
		t.Fatalf("pan = (%v, %v), want (+10, +5) from the post-zoom pan", tv.Cam.PanX, tv.Cam.PanY)
	}
}

func TestPointerLeave_EndsDragAndClearsHover(t *testing.T) {
	tv := standardView()
	tv.Interpret(PointerMove{X: 800, Y: 450})
	tv.Interpret(PointerDown{X: 800, Y: 450, Button: ButtonLeft})
	fx := tv.Interpret(PointerLeave{})
	if _, ok := findDragEnd(fx); !ok {
		t.Fatal("pointer-leave during a drag must emit a drag-end")
	}
	if tv.Session.Dragging() || tv.Session.Hovered() != nil {
		t.Fatal("pointer-leave must clear all transient state")
	}
}
