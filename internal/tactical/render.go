package tactical

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	text "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

// Token decoration palette.
var (
	backdropColor  = color.RGBA{R: 18, G: 18, B: 22, A: 255}
	shadowColor    = color.RGBA{R: 0, G: 0, B: 0, A: 90}
	outlineColor   = color.RGBA{R: 212, G: 175, B: 55, A: 255}
	selectionColor = color.RGBA{R: 255, G: 222, B: 90, A: 255}
	hoverColor     = color.RGBA{R: 255, G: 255, B: 255, A: 170}
	labelColor     = color.RGBA{R: 235, G: 235, B: 235, A: 255}
	labelBackColor = color.RGBA{R: 0, G: 0, B: 0, A: 150}
	hpBackColor    = color.RGBA{R: 0, G: 0, B: 0, A: 160}
	hpHighColor    = color.RGBA{R: 60, G: 200, B: 80, A: 255}
	hpMidColor     = color.RGBA{R: 240, G: 160, B: 40, A: 255}
	hpLowColor     = color.RGBA{R: 220, G: 50, B: 40, A: 255}
)

var (
	labelFontOnce sync.Once
	labelFontSrc  *text.GoTextFaceSource
)

func labelFace(size float64) *text.GoTextFace {
	labelFontOnce.Do(func() {
		src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			panic(fmt.Sprintf("load embedded label font: %v", err))
		}
		labelFontSrc = src
	})
	return &text.GoTextFace{Source: labelFontSrc, Size: size}
}

// RenderState is everything one frame needs besides the camera: the token
// list in draw order plus the interaction overlays.
type RenderState struct {
	Tokens       []*Token
	Selected     *Token
	Hovered      *Token
	GalleryIndex func(*Token) int
}

// Renderer performs the full-surface redraw: background under the current
// camera transform, then each token with its decorations in array order. It is
// a pure function of current state plus draw calls — no state mutation happens
// during a frame — and stays cheap enough to run on every pointer move.
type Renderer struct {
	cam   *Camera
	cache *ImageCache
	icons map[string]*ebiten.Image // circular-masked textures by icon URL
	bgSrc image.Image              // decoded background, texture built lazily
	bg    *ebiten.Image
}

func NewRenderer(cam *Camera, cache *ImageCache) *Renderer {
	return &Renderer{
		cam:   cam,
		cache: cache,
		icons: make(map[string]*ebiten.Image),
	}
}

// SetBackground installs the background bitmap. The texture is built on the
// next frame so this stays safe off the render goroutine; the camera fit is
// the caller's concern.
func (r *Renderer) SetBackground(img image.Image) {
	r.bgSrc = img
	r.bg = nil
}

// reset drops every bitmap and texture. Used on view teardown.
func (r *Renderer) reset() {
	r.bgSrc = nil
	r.bg = nil
	r.icons = make(map[string]*ebiten.Image)
}

// Draw redraws the whole surface from current state.
func (r *Renderer) Draw(screen *ebiten.Image, st RenderState) {
	b := screen.Bounds()
	// Surface dimensions are re-read every call so a live window resize is
	// picked up without an explicit resize event.
	r.cam.SetCanvasSize(float64(b.Dx()), float64(b.Dy()))

	screen.Fill(backdropColor)

	if r.bg == nil && r.bgSrc != nil {
		r.bg = ebiten.NewImageFromImage(r.bgSrc)
	}
	if r.bg != nil && r.cam.Ready() {
		op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
		op.GeoM.Scale(r.cam.Zoom, r.cam.Zoom)
		op.GeoM.Translate(r.cam.PanX, r.cam.PanY)
		screen.DrawImage(r.bg, op)
	}

	if !r.cam.Ready() {
		return
	}
	for _, t := range st.Tokens {
		if t.Pos == nil {
			continue
		}
		r.drawToken(screen, t, st)
	}
}

func (r *Renderer) drawToken(screen *ebiten.Image, t *Token, st RenderState) {
	cx, cy := t.imageCenter(r.cam)
	sxf, syf := r.cam.ToScreen(cx, cy)
	sx, sy := float32(sxf), float32(syf)
	radius := float32(tokenSize / 2 * r.cam.Zoom)

	// Drop shadow under the disc.
	vector.FillCircle(screen, sx+2, sy+3, radius, shadowColor, true)

	if tex := r.iconTexture(t.Icon); tex != nil {
		tb := tex.Bounds()
		op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
		op.GeoM.Scale(
			float64(2*radius)/float64(tb.Dx()),
			float64(2*radius)/float64(tb.Dy()),
		)
		op.GeoM.Translate(float64(sx-radius), float64(sy-radius))
		screen.DrawImage(tex, op)
	} else {
		// Icon missing or not yet decoded: plain coloured disc fallback.
		vector.FillCircle(screen, sx, sy, radius, sideColor(t.Side), true)
	}

	vector.StrokeCircle(screen, sx, sy, radius, 2.0, outlineColor, true)
	switch {
	case t == st.Selected:
		// Selection takes precedence over hover.
		vector.StrokeCircle(screen, sx, sy, radius+3, 3.0, selectionColor, true)
	case t == st.Hovered:
		vector.StrokeCircle(screen, sx, sy, radius+2, 1.5, hoverColor, true)
	}

	if t.Stats != nil {
		r.drawHPBar(screen, t, sx, sy, radius)
	}
	if len(t.Gallery) > 1 && st.GalleryIndex != nil {
		badge := fmt.Sprintf("%d/%d", st.GalleryIndex(t)+1, len(t.Gallery))
		r.drawBadge(screen, badge, sx+radius*0.4, sy-radius-6)
	}
	if t.Name != "" && (t == st.Hovered || t == st.Selected) {
		r.drawNameLabel(screen, t.Name, sx, sy+radius+4)
	}
}

func (r *Renderer) drawHPBar(screen *ebiten.Image, t *Token, sx, sy, radius float32) {
	frac := 0.0
	if t.Stats.HPMax > 0 {
		frac = float64(t.Stats.HP) / float64(t.Stats.HPMax)
	}
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	fill := hpLowColor
	switch {
	case frac > 0.5:
		fill = hpHighColor
	case frac > 0.25:
		fill = hpMidColor
	}
	barW := 2 * radius
	barH := float32(4)
	bx := sx - radius
	by := sy - radius - 9
	vector.FillRect(screen, bx, by, barW, barH, hpBackColor, false)
	vector.FillRect(screen, bx, by, barW*float32(frac), barH, fill, false)
}

func (r *Renderer) drawBadge(screen *ebiten.Image, s string, x, y float32) {
	face := labelFace(10)
	w, h := text.Measure(s, face, 0)
	vector.FillRect(screen, x-2, y-2, float32(w)+4, float32(h)+3, labelBackColor, false)
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(labelColor)
	text.Draw(screen, s, face, op)
}

func (r *Renderer) drawNameLabel(screen *ebiten.Image, name string, cx, top float32) {
	face := labelFace(13)
	w, h := text.Measure(name, face, 0)
	lx := cx - float32(w)/2
	vector.FillRect(screen, lx-3, top-1, float32(w)+6, float32(h)+2, labelBackColor, false)
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(lx), float64(top))
	op.ColorScale.ScaleWithColor(labelColor)
	text.Draw(screen, name, face, op)
}

// iconTexture returns the circular-masked GPU texture for url, building it on
// first use once the cache has a decoded bitmap. Returns nil while the load is
// still in flight.
func (r *Renderer) iconTexture(url string) *ebiten.Image {
	if url == "" {
		return nil
	}
	if tex, ok := r.icons[url]; ok {
		return tex
	}
	img := r.cache.Request(url)
	if img == nil {
		return nil
	}
	tex := ebiten.NewImageFromImage(circleMask(img))
	r.icons[url] = tex
	return tex
}

// circleMask zeroes every pixel outside the largest circle inscribed in the
// bitmap, so each icon draws as a disc without per-frame clipping work.
func circleMask(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	cx := float64(b.Dx()) / 2
	cy := float64(b.Dy()) / 2
	radius := min(cx, cy)
	r2 := radius * radius
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy <= r2 {
				dst.Set(x, y, src.At(b.Min.X+x, b.Min.Y+y))
			}
		}
	}
	return dst
}

func sideColor(side string) color.RGBA {
	switch side {
	case "party", "ally", "player":
		return color.RGBA{R: 30, G: 80, B: 220, A: 255}
	case "enemy", "hostile":
		return color.RGBA{R: 220, G: 30, B: 30, A: 255}
	case "neutral":
		return color.RGBA{R: 170, G: 160, B: 70, A: 255}
	default:
		return color.RGBA{R: 110, G: 115, B: 125, A: 255}
	}
}
