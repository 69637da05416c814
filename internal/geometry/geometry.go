package geometry

import "math"

// Point is an integer pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is the rendered extent of a card in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an axis-aligned rectangle. Edges are inclusive.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Viewport describes the scroll offset and client origin of the page the
// rectangles were measured in.
type Viewport struct {
	ScrollX    float64 `json:"scroll_x"`
	ScrollY    float64 `json:"scroll_y"`
	ClientLeft float64 `json:"client_left"`
	ClientTop  float64 `json:"client_top"`
}

// RectAt builds the rectangle of a card of the given size placed at p.
func RectAt(p Point, s Size) Rect {
	return Rect{
		Left:   float64(p.X),
		Top:    float64(p.Y),
		Right:  float64(p.X) + s.Width,
		Bottom: float64(p.Y) + s.Height,
	}
}

// Sub returns p - o.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// PageCoordinates converts a viewport-relative rectangle into page-relative
// pixel coordinates of its top-left corner, independent of scroll offset.
func PageCoordinates(r Rect, v Viewport) Point {
	left := r.Left + v.ScrollX - v.ClientLeft
	top := r.Top + v.ScrollY - v.ClientTop
	return Point{X: int(math.Round(left)), Y: int(math.Round(top))}
}

// Overlaps reports whether a and b intersect on both axes. Touching edges
// count as overlap.
func Overlaps(a, b Rect) bool {
	vertical := !(a.Bottom < b.Top || b.Bottom < a.Top)
	horizontal := !(a.Right < b.Left || b.Right < a.Left)
	return vertical && horizontal
}
