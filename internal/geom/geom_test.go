package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeScaled(t *testing.T) {
	s := Size{W: 800, H: 600}
	target := Size{W: 1000, H: 1000}

	assert.Equal(t, target, s.Scaled(target, IgnoreAspectRatio))
	assert.Equal(t, Size{W: 1000, H: 750}, s.Scaled(target, KeepAspectRatio))
	assert.True(t, s.Scaled(target, KeepAspectRatioByExpanding).ApproxEqual(Size{W: 1000 * 4.0 / 3, H: 1000}))
	assert.Equal(t, target, Size{}.Scaled(target, KeepAspectRatio))
}

func TestSizeAspectRatio(t *testing.T) {
	assert.InDelta(t, 4.0/3, Size{W: 800, H: 600}.AspectRatio(), 1e-12)
	assert.Zero(t, Size{W: 800}.AspectRatio())
}

func TestSizeIsFinite(t *testing.T) {
	assert.True(t, Size{W: 800, H: 600}.IsFinite())
	assert.True(t, Size{}.IsFinite())
	assert.False(t, Size{W: math.Inf(1), H: 1}.IsFinite())
	assert.False(t, Size{W: 1, H: math.Inf(-1)}.IsFinite())
	assert.False(t, Size{W: math.NaN(), H: 1}.IsFinite())
}

func TestRectIntersect(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 100, H: 100}

	assert.Equal(t, Rect{X: 50, Y: 50, W: 50, H: 50}, a.Intersect(Rect{X: 50, Y: 50, W: 100, H: 100}))
	assert.True(t, a.Intersect(Rect{X: 100, W: 10, H: 10}).IsEmpty())
	assert.False(t, a.Intersects(Rect{X: 100, W: 10, H: 10}))
	assert.True(t, a.Intersects(Rect{X: 99, W: 10, H: 10}))
}

func TestRectContains(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 100, H: 100}
	assert.True(t, a.Contains(a))
	assert.True(t, a.Contains(Rect{X: 10, Y: 10, W: 20, H: 20}))
	assert.False(t, a.Contains(Rect{X: 90, Y: 10, W: 20, H: 20}))
	assert.True(t, a.ContainsPoint(Point{X: 100, Y: 0}))
}

func TestRectScaledAround(t *testing.T) {
	r := Rect{X: 100, Y: 100, W: 200, H: 100}

	got := r.ScaledAround(Point{X: 100, Y: 100}, 2, 2)
	assert.Equal(t, Rect{X: 100, Y: 100, W: 400, H: 200}, got)

	got = r.ScaledAround(r.Center(), 2, 2)
	assert.Equal(t, r.Center(), got.Center())

	got = r.ResizedAround(Point{X: 300, Y: 200}, Size{W: 100, H: 50})
	assert.Equal(t, Rect{X: 200, Y: 150, W: 100, H: 50}, got)
}

func TestRectInsetOutset(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 100, H: 100}
	m := Margins{Left: 10, Top: 20, Right: 5, Bottom: 5}

	in := r.Inset(m)
	assert.Equal(t, Rect{X: 10, Y: 20, W: 85, H: 75}, in)
	assert.Equal(t, r, in.Outset(m))
	assert.Equal(t, Size{W: 15, H: 25}, m.Size())
}

func TestRectUnited(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	b := Rect{X: 20, Y: 5, W: 10, H: 10}
	assert.Equal(t, Rect{X: 0, Y: 0, W: 30, H: 15}, a.United(b))
	assert.Equal(t, a, Rect{}.United(a))
	assert.Equal(t, a, a.United(Rect{}))
}

func TestRectWithCenter(t *testing.T) {
	r := Rect{W: 100, H: 50}.WithCenter(Point{X: 500, Y: 500})
	assert.Equal(t, Rect{X: 450, Y: 475, W: 100, H: 50}, r)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5.0, Clamp(5, 0, 10))
	assert.Equal(t, 0.0, Clamp(-5, 0, 10))
	assert.Equal(t, 10.0, Clamp(50, 0, 10))
	assert.Equal(t, 7.0, Clamp(5, 7, 3))
}

func TestApproxEqual(t *testing.T) {
	assert.True(t, Rect{X: 1, W: 1000}.ApproxEqual(Rect{X: 1 + 1e-9, W: 1000 + 1e-5}))
	assert.False(t, Rect{X: 1}.ApproxEqual(Rect{X: 1.001}))
}
