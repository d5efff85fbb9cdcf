package tactical

// Pointer/wheel events consumed by the interaction session. The session is a
// pure interpreter over these values, so the whole state machine is testable
// without a drawing surface or a pointer device; the Ebitengine adapter in
// view.go is the only producer in the real application.

type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

type Event interface{ isEvent() }

// PointerDown starts a gesture. Modifier reports whether a pan modifier key
// was held with the press.
type PointerDown struct {
	X, Y     float64
	Button   Button
	Modifier bool
}

type PointerMove struct{ X, Y float64 }

type PointerUp struct{ X, Y float64 }

// PointerLeave fires when the pointer exits the surface; it ends any active
// gesture and clears the hover overlay.
type PointerLeave struct{}

// Click fires only when the completed gesture was not a drag or pan.
type Click struct{ X, Y float64 }

type DoubleClick struct{ X, Y float64 }

type RightClick struct{ X, Y float64 }

// Wheel is processed in every gesture state.
type Wheel struct{ X, Y, Ticks float64 }

func (PointerDown) isEvent()  {}
func (PointerMove) isEvent()  {}
func (PointerUp) isEvent()    {}
func (PointerLeave) isEvent() {}
func (Click) isEvent()        {}
func (DoubleClick) isEvent()  {}
func (RightClick) isEvent()   {}
func (Wheel) isEvent()        {}

// Effects returned by Interpret. The owner maps these to listener callbacks,
// cursor changes and redraws; the session itself never touches a device.

type Effect interface{ isEffect() }

type Redraw struct{}

type CursorChange struct{ Cursor Cursor }

// HoverChange carries the newly hovered token, nil when the hover ended.
type HoverChange struct{ Token *Token }

type ClickHit struct{ Token *Token }

type RightClickHit struct{ Token *Token }

// DragEnd carries the dragged token at its final position. The owning
// application decides whether to accept, reject or reconcile the move.
type DragEnd struct{ Token *Token }

// PreloadIcon asks the owner to warm the cache for a freshly cycled gallery
// icon.
type PreloadIcon struct{ URL string }

func (Redraw) isEffect()        {}
func (CursorChange) isEffect()  {}
func (HoverChange) isEffect()   {}
func (ClickHit) isEffect()      {}
func (RightClickHit) isEffect() {}
func (DragEnd) isEffect()       {}
func (PreloadIcon) isEffect()   {}

type Cursor int

const (
	CursorDefault Cursor = iota
	CursorPointer
	CursorGrabbing
)

// gesture is a tagged union over the three interaction modes. Hover is an
// overlay evaluated only while idle, not a gesture of its own, and the union
// makes simultaneous panning and dragging unrepresentable.
type gesture interface{ isGesture() }

type gestureIdle struct{}

// gesturePan records the pointer position and pan offset at pan start; each
// move recomputes the pan from the delta against these.
type gesturePan struct {
	startX, startY float64
	panX, panY     float64
}

// gestureDrag records the dragged token and the image-space offset between
// pointer and token centre at drag start, so the token keeps its relative
// grab point instead of jumping to the pointer.
type gestureDrag struct {
	token      *Token
	offX, offY float64
}

func (gestureIdle) isGesture() {}
func (gesturePan) isGesture()  {}
func (gestureDrag) isGesture() {}

// Session drives pan vs drag vs hover vs select/cycle behaviour from a single
// event stream. The mode is chosen exclusively at pointer-down and runs
// unchanged until pointer-up, even if intervening hit-tests would suggest
// otherwise.
type Session struct {
	cam         *Camera
	tokens      func() []*Token
	dragEnabled bool

	g        gesture
	selected *Token
	hovered  *Token
	gallery  map[string]int // lazily created on first cycle
}

func NewSession(cam *Camera, tokens func() []*Token, dragEnabled bool) *Session {
	return &Session{
		cam:         cam,
		tokens:      tokens,
		dragEnabled: dragEnabled,
		g:           gestureIdle{},
	}
}

// Selected returns the single selected token, nil when none.
func (s *Session) Selected() *Token { return s.selected }

// Hovered returns the token under the pointer while idle, nil otherwise.
func (s *Session) Hovered() *Token { return s.hovered }

// GalleryIndex returns the current alternate-icon index for a token.
func (s *Session) GalleryIndex(t *Token) int {
	if s.gallery == nil {
		return 0
	}
	return s.gallery[t.ID]
}

// Dragging reports whether a drag gesture is active.
func (s *Session) Dragging() bool {
	_, ok := s.g.(gestureDrag)
	return ok
}

// Panning reports whether a pan gesture is active.
func (s *Session) Panning() bool {
	_, ok := s.g.(gesturePan)
	return ok
}

// reset clears all transient gesture and overlay state. Used on view clear.
func (s *Session) reset() {
	s.g = gestureIdle{}
	s.selected = nil
	s.hovered = nil
}

func (s *Session) pick(sx, sy float64) *Token {
	return pickToken(s.tokens(), s.cam, sx, sy)
}

// Interpret consumes one event and returns the resulting effects.
func (s *Session) Interpret(ev Event) []Effect {
	switch ev := ev.(type) {
	case PointerDown:
		return s.pointerDown(ev)
	case PointerMove:
		return s.pointerMove(ev)
	case PointerUp:
		return s.endGesture(ev.X, ev.Y, false)
	case PointerLeave:
		return s.endGesture(0, 0, true)
	case Click:
		return s.click(ev)
	case DoubleClick:
		return s.doubleClick(ev)
	case RightClick:
		if t := s.pick(ev.X, ev.Y); t != nil {
			return []Effect{RightClickHit{Token: t}}
		}
		return nil
	case Wheel:
		// Zoom works in every state.
		s.cam.ZoomAt(ev.Ticks, ev.X, ev.Y)
		if _, ok := s.g.(gesturePan); ok {
			// The zoom moved the pan under the pointer; rebase the anchor so
			// the next move does not snap back to the pre-zoom pan.
			s.g = gesturePan{startX: ev.X, startY: ev.Y, panX: s.cam.PanX, panY: s.cam.PanY}
		}
		return []Effect{Redraw{}}
	}
	return nil
}

func (s *Session) pointerDown(ev PointerDown) []Effect {
	if _, ok := s.g.(gestureIdle); !ok {
		return nil
	}
	if ev.Button == ButtonMiddle || (ev.Button == ButtonLeft && ev.Modifier) {
		s.g = gesturePan{startX: ev.X, startY: ev.Y, panX: s.cam.PanX, panY: s.cam.PanY}
		return []Effect{CursorChange{Cursor: CursorGrabbing}}
	}
	if ev.Button != ButtonLeft || !s.dragEnabled {
		return nil
	}
	t := s.pick(ev.X, ev.Y)
	if t == nil {
		return nil
	}
	ix, iy := s.cam.ToImage(ev.X, ev.Y)
	cx, cy := t.imageCenter(s.cam)
	s.g = gestureDrag{token: t, offX: ix - cx, offY: iy - cy}
	return nil
}

func (s *Session) pointerMove(ev PointerMove) []Effect {
	switch g := s.g.(type) {
	case gesturePan:
		s.cam.PanTo(g.panX+(ev.X-g.startX), g.panY+(ev.Y-g.startY))
		return []Effect{Redraw{}}
	case gestureDrag:
		ix, iy := s.cam.ToImage(ev.X, ev.Y)
		imgW, imgH := s.cam.ImageSize()
		g.token.Pos = &Position{
			X: clampPct((ix - g.offX) / imgW * 100),
			Y: clampPct((iy - g.offY) / imgH * 100),
		}
		return []Effect{Redraw{}}
	default:
		return s.updateHover(s.pick(ev.X, ev.Y))
	}
}

func (s *Session) endGesture(x, y float64, leave bool) []Effect {
	var fx []Effect
	if g, ok := s.g.(gestureDrag); ok {
		fx = append(fx, DragEnd{Token: g.token})
	}
	s.g = gestureIdle{}
	if leave {
		fx = append(fx, s.updateHover(nil)...)
		fx = append(fx, CursorChange{Cursor: CursorDefault})
		return fx
	}
	fx = append(fx, s.updateHover(s.pick(x, y))...)
	if _, changed := hasHoverChange(fx); !changed {
		// Gesture cursors still need resetting when the hover did not move.
		fx = append(fx, CursorChange{Cursor: hoverCursor(s.hovered)})
	}
	fx = append(fx, Redraw{})
	return fx
}

func (s *Session) updateHover(t *Token) []Effect {
	if t == s.hovered {
		return nil
	}
	s.hovered = t
	return []Effect{
		HoverChange{Token: t},
		CursorChange{Cursor: hoverCursor(t)},
		Redraw{},
	}
}

func (s *Session) click(ev Click) []Effect {
	t := s.pick(ev.X, ev.Y)
	if t == nil {
		s.selected = nil
		return []Effect{Redraw{}}
	}
	s.selected = t
	return []Effect{ClickHit{Token: t}, Redraw{}}
}

func (s *Session) doubleClick(ev DoubleClick) []Effect {
	t := s.pick(ev.X, ev.Y)
	if t == nil || len(t.Gallery) <= 1 {
		return nil
	}
	if s.gallery == nil {
		s.gallery = make(map[string]int)
	}
	idx := (s.gallery[t.ID] + 1) % len(t.Gallery)
	s.gallery[t.ID] = idx
	t.Icon = t.Gallery[idx]
	return []Effect{PreloadIcon{URL: t.Icon}, Redraw{}}
}

func hoverCursor(t *Token) Cursor {
	if t != nil {
		return CursorPointer
	}
	return CursorDefault
}

func hasHoverChange(fx []Effect) (HoverChange, bool) {
	for _, e := range fx {
		if h, ok := e.(HoverChange); ok {
			return h, true
		}
	}
	return HoverChange{}, false
}
