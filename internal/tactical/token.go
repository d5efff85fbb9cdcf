package tactical

// Token diameter in background-image pixels. A token's circular icon is also
// its exact hit region.
const tokenSize = 50.0

// Position is a token placement normalized to [0,100] on both axes, as a
// percentage of the background image dimensions. This keeps placements stable
// across backgrounds of any aspect ratio.
type Position struct {
	X float64
	Y float64
}

// Stats carries optional combat numbers shown as an HP bar above the token.
type Stats struct {
	HP    int
	HPMax int
}

// Token is a circular marker on the tactical view.
type Token struct {
	ID      string
	Name    string
	Side    string
	Pos     *Position // nil = unplaced; skipped by render and hit-testing
	Icon    string
	Gallery []string // ordered alternate icons, cycled via double-click
	Stats   *Stats
}

// clone returns a deep copy so the view owns its working set independently of
// the caller's slice.
func (t *Token) clone() *Token {
	c := *t
	if t.Pos != nil {
		p := *t.Pos
		c.Pos = &p
	}
	if t.Stats != nil {
		s := *t.Stats
		c.Stats = &s
	}
	if t.Gallery != nil {
		c.Gallery = append([]string(nil), t.Gallery...)
	}
	return &c
}

// TokenPatch is a partial update merged into one token. Nil fields are left
// untouched.
type TokenPatch struct {
	Name    *string
	Side    *string
	Pos     *Position
	Icon    *string
	Gallery []string
	Stats   *Stats
}

// apply merges the patch, clamping positions to [0,100].
func (t *Token) apply(p TokenPatch) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Side != nil {
		t.Side = *p.Side
	}
	if p.Pos != nil {
		t.Pos = &Position{X: clampPct(p.Pos.X), Y: clampPct(p.Pos.Y)}
	}
	if p.Icon != nil {
		t.Icon = *p.Icon
	}
	if p.Gallery != nil {
		t.Gallery = append([]string(nil), p.Gallery...)
	}
	if p.Stats != nil {
		s := *p.Stats
		t.Stats = &s
	}
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
