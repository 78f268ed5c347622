package geom

import "math"

// Rect is an axis-aligned rectangle in page coordinates.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// FromSize builds a rectangle from its top-left corner and dimensions.
func FromSize(left, top, width, height float64) Rect {
	return Rect{Left: left, Top: top, Right: left + width, Bottom: top + height}
}

// Width returns the horizontal span of the rectangle.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns the vertical span of the rectangle.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// CenterX returns the horizontal center point of the rectangle.
func (r Rect) CenterX() float64 { return (r.Left + r.Right) / 2 }

// CenterY returns the vertical center point of the rectangle.
func (r Rect) CenterY() float64 { return (r.Top + r.Bottom) / 2 }

// IsZero reports whether the rectangle has no area.
func (r Rect) IsZero() bool { return r.Width() <= 0 || r.Height() <= 0 }

// Expand grows the rectangle outwards by e on every side.
func (r Rect) Expand(e Edges) Rect {
	return Rect{
		Left:   r.Left - e.Left,
		Right:  r.Right + e.Right,
		Top:    r.Top - e.Top,
		Bottom: r.Bottom + e.Bottom,
	}
}

// Shrink moves every side inwards by e. Opposite sides never cross: a
// rectangle shrunk past its own size collapses onto its center line.
func (r Rect) Shrink(e Edges) Rect {
	out := Rect{
		Left:   r.Left + e.Left,
		Right:  r.Right - e.Right,
		Top:    r.Top + e.Top,
		Bottom: r.Bottom - e.Bottom,
	}
	if out.Right < out.Left {
		c := (out.Left + out.Right) / 2
		out.Left, out.Right = c, c
	}
	if out.Bottom < out.Top {
		c := (out.Top + out.Bottom) / 2
		out.Top, out.Bottom = c, c
	}
	return out
}

// Translate offsets the rectangle by dx, dy.
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{Left: r.Left + dx, Right: r.Right + dx, Top: r.Top + dy, Bottom: r.Bottom + dy}
}

// Round snaps every side to the nearest whole pixel.
func (r Rect) Round() Rect {
	return Rect{
		Left:   math.Round(r.Left),
		Right:  math.Round(r.Right),
		Top:    math.Round(r.Top),
		Bottom: math.Round(r.Bottom),
	}
}

// Union returns the min/max envelope of rs. The union of no rectangles is
// the zero Rect.
func Union(rs ...Rect) Rect {
	if len(rs) == 0 {
		return Rect{}
	}
	out := rs[0]
	for _, r := range rs[1:] {
		out.Left = math.Min(out.Left, r.Left)
		out.Top = math.Min(out.Top, r.Top)
		out.Right = math.Max(out.Right, r.Right)
		out.Bottom = math.Max(out.Bottom, r.Bottom)
	}
	return out
}

// Edges holds per-side lengths such as margins, borders or paddings.
type Edges struct {
	Top    float64 `json:"top,omitempty"`
	Right  float64 `json:"right,omitempty"`
	Bottom float64 `json:"bottom,omitempty"`
	Left   float64 `json:"left,omitempty"`
}

// Add returns the side-wise sum of e and o.
func (e Edges) Add(o Edges) Edges {
	return Edges{Top: e.Top + o.Top, Right: e.Right + o.Right, Bottom: e.Bottom + o.Bottom, Left: e.Left + o.Left}
}

// Horizontal returns Left + Right.
func (e Edges) Horizontal() float64 { return e.Left + e.Right }

// Vertical returns Top + Bottom.
func (e Edges) Vertical() float64 { return e.Top + e.Bottom }

// IsZero reports whether every side is zero.
func (e Edges) IsZero() bool { return e == Edges{} }

// Near reports whether a and b differ by at most tolerance.
func Near(a, b, tolerance float64) bool { return math.Abs(a-b) <= tolerance }
