package tactical

// TestView is a headless harness used exclusively by tests. It assembles the
// camera, token list and interaction session without any Ebiten dependency,
// so transition and picking behaviour can be exercised deterministically.
type TestView struct {
	Cam     Camera
	Tokens  []*Token
	Session *Session

	canvasW, canvasH float64
	bgW, bgH         float64
	drag             bool
}

// TestViewOption configures a TestView during construction.
type TestViewOption func(*TestView)

// WithSurfaceSize sets the drawing surface dimensions (default 1600x900).
func WithSurfaceSize(w, h float64) TestViewOption {
	return func(tv *TestView) { tv.canvasW, tv.canvasH = w, h }
}

// WithBackgroundSize fits a background of the given natural pixel dimensions.
func WithBackgroundSize(w, h float64) TestViewOption {
	return func(tv *TestView) { tv.bgW, tv.bgH = w, h }
}

// WithPlacedToken appends a token to the draw-order list.
func WithPlacedToken(t Token) TestViewOption {
	return func(tv *TestView) { tv.Tokens = append(tv.Tokens, t.clone()) }
}

// WithoutDragging makes tokens immovable for the session.
func WithoutDragging() TestViewOption {
	return func(tv *TestView) { tv.drag = false }
}

func NewTestView(opts ...TestViewOption) *TestView {
	tv := &TestView{canvasW: 1600, canvasH: 900, drag: true}
	for _, opt := range opts {
		opt(tv)
	}
	if tv.bgW > 0 && tv.bgH > 0 {
		tv.Cam.Fit(tv.bgW, tv.bgH, tv.canvasW, tv.canvasH)
	} else {
		tv.Cam.SetCanvasSize(tv.canvasW, tv.canvasH)
	}
	tv.Session = NewSession(&tv.Cam, func() []*Token { return tv.Tokens }, tv.drag)
	return tv
}

// Interpret feeds one event through the session.
func (tv *TestView) Interpret(ev Event) []Effect {
	return tv.Session.Interpret(ev)
}

// Pick runs the hit-test at a screen point.
func (tv *TestView) Pick(x, y float64) *Token {
	return pickToken(tv.Tokens, &tv.Cam, x, y)
}

// TokenScreenPos returns the screen coordinates of a token's centre under the
// current transform.
func (tv *TestView) TokenScreenPos(t *Token) (x, y float64) {
	cx, cy := t.imageCenter(&tv.Cam)
	return tv.Cam.ToScreen(cx, cy)
}
