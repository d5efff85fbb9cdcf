package tactical

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Listener event names exposed to collaborators.
type EventName string

const (
	EventTokenClicked      EventName = "token-clicked"
	EventTokenRightClicked EventName = "token-right-clicked"
	EventTokenDragEnded    EventName = "token-drag-ended"
	EventTokenHovered      EventName = "token-hovered"
)

const (
	clickSlop      = 4 // pixels of travel before a press stops counting as a click
	dblClickSlop   = 6
	dblClickWindow = 350 * time.Millisecond
)

type Option func(*View)

// WithLogger routes engine logging through the given logger.
func WithLogger(log *slog.Logger) Option {
	return func(v *View) { v.log = log }
}

// WithDragDisabled makes tokens immovable for this session; panning, hovering
// and selection still work.
func WithDragDisabled() Option {
	return func(v *View) { v.dragEnabled = false }
}

// View is the tactical-view engine: a persistent drawing surface showing a
// pannable/zoomable background image and movable circular token markers. It
// owns all mutable interaction state for the surface; the host application
// only observes it through listeners.
type View struct {
	log         *slog.Logger
	cam         Camera
	cache       *ImageCache
	renderer    *Renderer
	session     *Session
	tokens      []*Token
	handlers    map[EventName][]func(*Token)
	dragEnabled bool
	visible     bool
	destroyed   bool
	showHUD     bool

	// Deferred fit for a background that loaded before the first frame told
	// us the surface size.
	needFit    bool
	bgW, bgH   float64

	// Input adapter state.
	lastX, lastY   int
	pressX, pressY int
	pressed        bool
	travelled      bool
	inside         bool
	lastClickAt    time.Time
	lastClickX     int
	lastClickY     int
}

func New(opts ...Option) *View {
	v := &View{
		handlers:    make(map[EventName][]func(*Token)),
		dragEnabled: true,
		visible:     true,
		showHUD:     true,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.log == nil {
		v.log = slog.Default()
	}
	v.cache = NewImageCache(v.log)
	v.renderer = NewRenderer(&v.cam, v.cache)
	v.session = NewSession(&v.cam, func() []*Token { return v.tokens }, v.dragEnabled)
	return v
}

// SetTokens replaces the full token list and preloads every icon before the
// first render. Positions are clamped to [0,100]; transient interaction state
// referencing the old list is cleared.
func (v *View) SetTokens(ctx context.Context, tokens []Token) error {
	if v.destroyed {
		return fmt.Errorf("view destroyed")
	}
	next := make([]*Token, 0, len(tokens))
	urls := make([]string, 0, len(tokens))
	for i := range tokens {
		t := tokens[i].clone()
		if t.Pos != nil {
			t.Pos.X = clampPct(t.Pos.X)
			t.Pos.Y = clampPct(t.Pos.Y)
		}
		next = append(next, t)
		if t.Icon != "" {
			urls = append(urls, t.Icon)
		}
	}
	if err := v.cache.Preload(ctx, urls); err != nil {
		return fmt.Errorf("preload icons: %w", err)
	}
	v.tokens = next
	v.session.reset()
	return nil
}

// UpdateToken merges the patch into one token. Reports whether the token
// exists.
func (v *View) UpdateToken(id string, patch TokenPatch) bool {
	for _, t := range v.tokens {
		if t.ID == id {
			t.apply(patch)
			return true
		}
	}
	return false
}

// Tokens returns the view's working token list in draw order.
func (v *View) Tokens() []*Token { return v.tokens }

// SetBackgroundImage loads the background and recomputes the fit-to-canvas
// viewport. On error the background stays unready and renders keep skipping
// it; there is no automatic retry.
func (v *View) SetBackgroundImage(ctx context.Context, url string) error {
	if v.destroyed {
		return fmt.Errorf("view destroyed")
	}
	img, err := v.cache.Fetch(ctx, url)
	if err != nil {
		return fmt.Errorf("load background: %w", err)
	}
	b := img.Bounds()
	v.bgW, v.bgH = float64(b.Dx()), float64(b.Dy())
	v.renderer.SetBackground(img)
	if v.cam.canvasW > 0 && v.cam.canvasH > 0 {
		v.cam.Fit(v.bgW, v.bgH, v.cam.canvasW, v.cam.canvasH)
		v.needFit = false
	} else {
		// Surface size unknown until the first frame; fit then.
		v.needFit = true
	}
	v.log.Info("background ready", "url", url, "w", int(v.bgW), "h", int(v.bgH))
	return nil
}

// ZoomStep applies one or more wheel-sized zoom steps anchored at the surface
// centre. Positive ticks zoom in. Used by the keyboard zoom keys.
func (v *View) ZoomStep(ticks float64) {
	v.cam.ZoomAt(ticks, v.cam.canvasW/2, v.cam.canvasH/2)
}

// On registers a listener for one of the token events. The hover listener
// receives nil when the hover ends.
func (v *View) On(name EventName, fn func(*Token)) {
	v.handlers[name] = append(v.handlers[name], fn)
}

// Pick maps a screen point to the topmost token under it, or nil.
func (v *View) Pick(x, y float64) *Token {
	return pickToken(v.tokens, &v.cam, x, y)
}

// Selected returns the currently selected token, nil when none.
func (v *View) Selected() *Token { return v.session.Selected() }

// Report renders the scene report for the current state.
func (v *View) Report() string {
	return sceneReport(&v.cam, v.tokens, v.session.Selected())
}

// ToggleHUD flips the on-surface key legend.
func (v *View) ToggleHUD() { v.showHUD = !v.showHUD }

// Show makes the surface visible and interactive again.
func (v *View) Show() { v.visible = true }

// Hide stops rendering and input handling without discarding any state.
func (v *View) Hide() { v.visible = false }

// Clear drops the token list and all transient interaction state. The
// background and viewport survive.
func (v *View) Clear() {
	v.tokens = nil
	v.session.reset()
}

// Destroy tears the view down: tokens, background, textures and the image
// cache are all released. The view rejects further use.
func (v *View) Destroy() {
	v.tokens = nil
	v.session.reset()
	v.renderer.reset()
	v.cache.Clear()
	v.visible = false
	v.destroyed = true
}

// HandleInput polls pointer and wheel input, feeds the interaction session,
// and reports whether this surface consumed the gesture. A true return tells
// the host (e.g. an enclosing world-map layer) to ignore the same events.
func (v *View) HandleInput() bool {
	if v.destroyed || !v.visible {
		return false
	}
	consumed := false
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)

	inside := v.cam.canvasW == 0 ||
		(x >= 0 && y >= 0 && x < v.cam.canvasW && y < v.cam.canvasH)
	if !inside && v.inside {
		v.dispatch(PointerLeave{})
		v.pressed = false
	}
	v.inside = inside

	if _, wy := ebiten.Wheel(); wy != 0 && inside {
		v.dispatch(Wheel{X: x, Y: y, Ticks: wy})
		consumed = true
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		v.ZoomStep(1)
		consumed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		v.ZoomStep(-1)
		consumed = true
	}

	modifier := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyAlt)
	if inside && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle) {
		v.dispatch(PointerDown{X: x, Y: y, Button: ButtonMiddle, Modifier: modifier})
		consumed = true
	}
	if inside && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		v.pressed = true
		v.travelled = false
		v.pressX, v.pressY = mx, my
		v.dispatch(PointerDown{X: x, Y: y, Button: ButtonLeft, Modifier: modifier})
		consumed = true
	}

	if mx != v.lastX || my != v.lastY {
		if v.pressed && (absInt(mx-v.pressX) > clickSlop || absInt(my-v.pressY) > clickSlop) {
			v.travelled = true
		}
		if inside {
			v.dispatch(PointerMove{X: x, Y: y})
		}
		v.lastX, v.lastY = mx, my
	}

	leftUp := inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	middleUp := inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonMiddle)
	if leftUp || middleUp {
		v.dispatch(PointerUp{X: x, Y: y})
		consumed = true
	}
	if leftUp && v.pressed && !v.travelled {
		v.emitClick(mx, my)
	}
	if leftUp {
		v.pressed = false
	}

	if inside && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		// The host must not open its own context menu either way.
		v.dispatch(RightClick{X: x, Y: y})
		consumed = true
	}

	return consumed || v.session.Panning() || v.session.Dragging()
}

// emitClick dispatches a click, upgrading the second of two quick nearby
// clicks to a double-click as a browser would.
func (v *View) emitClick(mx, my int) {
	now := time.Now()
	x, y := float64(mx), float64(my)
	v.dispatch(Click{X: x, Y: y})
	if now.Sub(v.lastClickAt) <= dblClickWindow &&
		absInt(mx-v.lastClickX) <= dblClickSlop && absInt(my-v.lastClickY) <= dblClickSlop {
		v.dispatch(DoubleClick{X: x, Y: y})
		v.lastClickAt = time.Time{} // a triple click is not two doubles
	} else {
		v.lastClickAt = now
	}
	v.lastClickX, v.lastClickY = mx, my
}

func (v *View) dispatch(ev Event) {
	for _, fx := range v.session.Interpret(ev) {
		switch fx := fx.(type) {
		case HoverChange:
			v.emit(EventTokenHovered, fx.Token)
		case ClickHit:
			v.emit(EventTokenClicked, fx.Token)
		case RightClickHit:
			v.emit(EventTokenRightClicked, fx.Token)
		case DragEnd:
			v.emit(EventTokenDragEnded, fx.Token)
		case PreloadIcon:
			v.cache.Request(fx.URL)
		case CursorChange:
			ebiten.SetCursorShape(cursorShape(fx.Cursor))
		case Redraw:
			// The frame loop redraws every tick; nothing to schedule.
		}
	}
}

func (v *View) emit(name EventName, t *Token) {
	for _, fn := range v.handlers[name] {
		fn(t)
	}
}

// Resize records the surface dimensions and completes any fit that was
// waiting for them. Draw calls it every frame; headless callers use it to
// stand in for the window size.
func (v *View) Resize(w, h float64) {
	v.cam.SetCanvasSize(w, h)
	if v.needFit && v.cam.canvasW > 0 {
		v.cam.Fit(v.bgW, v.bgH, v.cam.canvasW, v.cam.canvasH)
		v.needFit = false
	}
}

// Draw performs the full synchronous redraw for this frame.
func (v *View) Draw(screen *ebiten.Image) {
	if v.destroyed || !v.visible {
		return
	}
	b := screen.Bounds()
	v.Resize(float64(b.Dx()), float64(b.Dy()))
	v.renderer.Draw(screen, RenderState{
		Tokens:       v.tokens,
		Selected:     v.session.Selected(),
		Hovered:      v.session.Hovered(),
		GalleryIndex: v.session.GalleryIndex,
	})
	if v.showHUD {
		v.drawHUD(screen)
	}
}

func cursorShape(c Cursor) ebiten.CursorShapeType {
	switch c {
	case CursorPointer:
		return ebiten.CursorShapePointer
	case CursorGrabbing:
		return ebiten.CursorShapeMove
	default:
		return ebiten.CursorShapeDefault
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
