// Package geom provides float rectangles, sizes and points in wall pixels.
package geom

import "math"

// Epsilon is the tolerance used for approximate float comparisons.
const Epsilon = 1e-6

// AspectRatioMode controls how a size is scaled into a target size.
type AspectRatioMode int

const (
	// IgnoreAspectRatio scales to the target size exactly.
	IgnoreAspectRatio AspectRatioMode = iota
	// KeepAspectRatio scales to the largest size that fits inside the target.
	KeepAspectRatio
	// KeepAspectRatioByExpanding scales to the smallest size that covers the target.
	KeepAspectRatioByExpanding
)

// Point is a position in wall pixels (or normalized units for zoom rects).
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Mul returns p scaled by k.
func (p Point) Mul(k float64) Point { return Point{p.X * k, p.Y * k} }

// Size is a width/height pair.
type Size struct {
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

// IsEmpty reports whether either dimension is not positive.
func (s Size) IsEmpty() bool { return s.W <= 0 || s.H <= 0 }

// AspectRatio returns W/H, or 0 for an empty size.
func (s Size) AspectRatio() float64 {
	if s.IsEmpty() {
		return 0
	}
	return s.W / s.H
}

// IsFinite reports whether both dimensions are real numbers.
func (s Size) IsFinite() bool {
	return !math.IsNaN(s.W) && !math.IsNaN(s.H) && !math.IsInf(s.W, 0) && !math.IsInf(s.H, 0)
}

// Area returns W*H.
func (s Size) Area() float64 { return s.W * s.H }

// Mul returns the size scaled by k on both axes.
func (s Size) Mul(k float64) Size { return Size{s.W * k, s.H * k} }

// MulSize returns the componentwise product.
func (s Size) MulSize(o Size) Size { return Size{s.W * o.W, s.H * o.H} }

// Add returns the componentwise sum.
func (s Size) Add(o Size) Size { return Size{s.W + o.W, s.H + o.H} }

// ExpandedTo returns the componentwise maximum of s and o.
func (s Size) ExpandedTo(o Size) Size { return Size{math.Max(s.W, o.W), math.Max(s.H, o.H)} }

// BoundedTo returns the componentwise minimum of s and o.
func (s Size) BoundedTo(o Size) Size { return Size{math.Min(s.W, o.W), math.Min(s.H, o.H)} }

// Fits reports whether s fits inside o on both axes, within Epsilon.
func (s Size) Fits(o Size) bool { return s.W <= o.W+Epsilon && s.H <= o.H+Epsilon }

// Scaled scales s into target according to mode. An empty s returns target.
func (s Size) Scaled(target Size, mode AspectRatioMode) Size {
	if mode == IgnoreAspectRatio || s.IsEmpty() {
		return target
	}
	rw := target.H * s.W / s.H
	useHeight := rw <= target.W
	if mode == KeepAspectRatioByExpanding {
		useHeight = rw >= target.W
	}
	if useHeight {
		return Size{rw, target.H}
	}
	return Size{target.W, target.W * s.H / s.W}
}

// ApproxEqual reports whether both dimensions match within Epsilon.
func (s Size) ApproxEqual(o Size) bool {
	return almostEqual(s.W, o.W) && almostEqual(s.H, o.H)
}

// Margins are distances to remove from each side of a rectangle.
type Margins struct {
	Left   float64 `json:"left" yaml:"left"`
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
}

// Horizontal returns Left+Right.
func (m Margins) Horizontal() float64 { return m.Left + m.Right }

// Vertical returns Top+Bottom.
func (m Margins) Vertical() float64 { return m.Top + m.Bottom }

// Scaled returns every margin multiplied by k.
func (m Margins) Scaled(k float64) Margins {
	return Margins{m.Left * k, m.Top * k, m.Right * k, m.Bottom * k}
}

// Size returns the total margin as a size.
func (m Margins) Size() Size { return Size{m.Horizontal(), m.Vertical()} }

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

// UnitRect is the normalized rectangle covering the whole content.
var UnitRect = Rect{0, 0, 1, 1}

// RectFrom builds a rectangle from a top-left point and a size.
func RectFrom(p Point, s Size) Rect { return Rect{p.X, p.Y, s.W, s.H} }

// CenteredRect builds a rectangle of size s centered on c.
func CenteredRect(c Point, s Size) Rect { return Rect{c.X - s.W/2, c.Y - s.H/2, s.W, s.H} }

func (r Rect) Left() float64 { return r.X }
func (r Rect) Top() float64 { return r.Y }
func (r Rect) Right() float64 { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// TopLeft returns the origin.
func (r Rect) TopLeft() Point { return Point{r.X, r.Y} }

// Center returns the center point.
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// Size returns the rectangle dimensions.
func (r Rect) Size() Size { return Size{r.W, r.H} }

// Area returns W*H, or 0 for an empty rectangle.
func (r Rect) Area() float64 {
	if r.IsEmpty() {
		return 0
	}
	return r.W * r.H
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool { return r.W <= 0 || r.H <= 0 }

// MovedTo returns r with its top-left corner at p.
func (r Rect) MovedTo(p Point) Rect { return Rect{p.X, p.Y, r.W, r.H} }

// WithCenter returns r moved so that its center is c.
func (r Rect) WithCenter(c Point) Rect { return CenteredRect(c, r.Size()) }

// WithSize returns r resized, keeping the top-left corner.
func (r Rect) WithSize(s Size) Rect { return Rect{r.X, r.Y, s.W, s.H} }

// Translated returns r shifted by d.
func (r Rect) Translated(d Point) Rect { return Rect{r.X + d.X, r.Y + d.Y, r.W, r.H} }

// Inset returns r shrunk by m.
func (r Rect) Inset(m Margins) Rect {
	return Rect{r.X + m.Left, r.Y + m.Top, r.W - m.Horizontal(), r.H - m.Vertical()}
}

// Outset returns r grown by m.
func (r Rect) Outset(m Margins) Rect {
	return Rect{r.X - m.Left, r.Y - m.Top, r.W + m.Horizontal(), r.H + m.Vertical()}
}

// ScaledAround scales r by (sx, sy) keeping p fixed.
func (r Rect) ScaledAround(p Point, sx, sy float64) Rect {
	return Rect{
		X: p.X - (p.X-r.X)*sx,
		Y: p.Y - (p.Y-r.Y)*sy,
		W: r.W * sx,
		H: r.H * sy,
	}
}

// ResizedAround resizes r to s keeping p at the same relative position.
func (r Rect) ResizedAround(p Point, s Size) Rect {
	sx, sy := 1.0, 1.0
	if r.W != 0 {
		sx = s.W / r.W
	}
	if r.H != 0 {
		sy = s.H / r.H
	}
	out := r.ScaledAround(p, sx, sy)
	out.W, out.H = s.W, s.H
	return out
}

// Intersect returns the overlap of r and o; the result is empty when they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x1 := math.Max(r.X, o.X)
	y1 := math.Max(r.Y, o.Y)
	x2 := math.Min(r.Right(), o.Right())
	y2 := math.Min(r.Bottom(), o.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{x1, y1, x2 - x1, y2 - y1}
}

// Intersects reports whether r and o overlap by more than Epsilon.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right()-Epsilon && o.X < r.Right()-Epsilon &&
		r.Y < o.Bottom()-Epsilon && o.Y < r.Bottom()-Epsilon
}

// Contains reports whether o lies inside r, within Epsilon.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X-Epsilon && o.Y >= r.Y-Epsilon &&
		o.Right() <= r.Right()+Epsilon && o.Bottom() <= r.Bottom()+Epsilon
}

// ContainsPoint reports whether p lies inside r.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// United returns the bounding rectangle of r and o. Empty rectangles are ignored.
func (r Rect) United(o Rect) Rect {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	x1 := math.Min(r.X, o.X)
	y1 := math.Min(r.Y, o.Y)
	x2 := math.Max(r.Right(), o.Right())
	y2 := math.Max(r.Bottom(), o.Bottom())
	return Rect{x1, y1, x2 - x1, y2 - y1}
}

// ApproxEqual reports whether all components match within Epsilon.
func (r Rect) ApproxEqual(o Rect) bool {
	return almostEqual(r.X, o.X) && almostEqual(r.Y, o.Y) &&
		almostEqual(r.W, o.W) && almostEqual(r.H, o.H)
}

// Clamp limits v to [lo, hi]. When lo > hi, lo wins.
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
