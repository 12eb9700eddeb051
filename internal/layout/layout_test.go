package layout

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/displaywall/internal/config"
	"github.com/1broseidon/displaywall/internal/content"
	"github.com/1broseidon/displaywall/internal/geom"
	"github.com/1broseidon/displaywall/internal/window"
)

func newWindow(dims geom.Size, rect geom.Rect) *window.Window {
	c := content.New(content.Texture, "image.png", dims)
	return window.New(c, window.WithCoordinates(rect))
}

func TestApplyRegion(t *testing.T) {
	bounds := geom.Rect{X: 0, Y: 0, W: 2000, H: 1000}
	tests := []struct {
		region config.FocusRegion
		want   geom.Rect
	}{
		{config.FocusRegion{Type: config.RegionFull}, bounds},
		{config.FocusRegion{Type: config.RegionLeftHalf}, geom.Rect{W: 1000, H: 1000}},
		{config.FocusRegion{Type: config.RegionRightHalf}, geom.Rect{X: 1000, W: 1000, H: 1000}},
		{config.FocusRegion{Type: config.RegionTopHalf}, geom.Rect{W: 2000, H: 500}},
		{config.FocusRegion{Type: config.RegionBottomHalf}, geom.Rect{Y: 500, W: 2000, H: 500}},
		{
			config.FocusRegion{Type: config.RegionCustom, XPercent: 10, YPercent: 20, WidthPercent: 50, HeightPercent: 50},
			geom.Rect{X: 200, Y: 200, W: 1000, H: 500},
		},
	}
	for _, tt := range tests {
		t.Run(string(tt.region.Type), func(t *testing.T) {
			assert.Equal(t, tt.want, ApplyRegion(bounds, tt.region))
		})
	}
}

func TestPolicySurfaceAndMargins(t *testing.T) {
	p := Policy{Wall: geom.Size{W: 1000, H: 800}, Spacing: 20, ControlsWidth: 50, TitleHeight: 30}
	assert.Equal(t, geom.Rect{X: 20, Y: 20, W: 980, H: 780}, p.FocusSurface())
	assert.Equal(t, geom.Margins{Left: 50, Top: 30, Right: 20, Bottom: 20}, p.WindowMargins())
}

func TestNewEngine(t *testing.T) {
	p := Policy{Wall: geom.Size{W: 1000, H: 1000}}

	e, err := New(config.FocusLayoutAutomatic, p)
	require.NoError(t, err)
	assert.IsType(t, &Canvas{}, e)

	e, err = New(config.FocusLayoutLine, p)
	require.NoError(t, err)
	assert.IsType(t, &Line{}, e)

	_, err = New("spiral", p)
	assert.Error(t, err)
}

func TestLineLayoutCentersTwoWindows(t *testing.T) {
	p := Policy{Wall: geom.Size{W: 1000, H: 1000}}
	a := newWindow(geom.Size{W: 800, H: 600}, geom.Rect{W: 800, H: 600})
	b := newWindow(geom.Size{W: 800, H: 600}, geom.Rect{X: 100, W: 800, H: 600})

	rects := NewLine(p).Compute([]*window.Window{a, b})
	require.Len(t, rects, 2)

	opt := cmpopts.EquateApprox(0, 1e-9)
	if diff := cmp.Diff(geom.Rect{X: 0, Y: 312.5, W: 500, H: 375}, rects[0], opt); diff != "" {
		t.Fatalf("first window (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(geom.Rect{X: 500, Y: 312.5, W: 500, H: 375}, rects[1], opt); diff != "" {
		t.Fatalf("second window (-want +got):\n%s", diff)
	}

	pair := rects[0].United(rects[1])
	assert.InDelta(t, 500, pair.Center().X, 1e-9)
	assert.InDelta(t, 500, pair.Center().Y, 1e-9)
}

func TestLineLayoutDistributesLeftoverWidth(t *testing.T) {
	p := Policy{Wall: geom.Size{W: 4000, H: 1000}}
	a := newWindow(geom.Size{W: 800, H: 600}, geom.Rect{W: 800, H: 600})
	b := newWindow(geom.Size{W: 800, H: 600}, geom.Rect{X: 2000, W: 800, H: 600})

	rects := NewLine(p).Compute([]*window.Window{a, b})

	gap := (4000 - 2*4000.0/3) / 3
	assert.InDelta(t, gap, rects[0].Left(), 1e-9)
	assert.InDelta(t, rects[0].Right()+gap, rects[1].Left(), 1e-9)
	assert.InDelta(t, 4000-gap, rects[1].Right(), 1e-9)
	assert.InDelta(t, 1000, rects[0].H, 1e-9)
}

func TestLineLayoutOrdersByStandardPosition(t *testing.T) {
	p := Policy{Wall: geom.Size{W: 1000, H: 1000}}
	left := newWindow(geom.Size{W: 800, H: 600}, geom.Rect{X: 0, W: 800, H: 600})
	right := newWindow(geom.Size{W: 800, H: 600}, geom.Rect{X: 500, W: 800, H: 600})

	// Front-most first in z-order does not change the horizontal order.
	rects := NewLine(p).Compute([]*window.Window{right, left})
	assert.Less(t, rects[1].X, rects[0].X)

	// Same center: z-order decides.
	twin := newWindow(geom.Size{W: 800, H: 600}, geom.Rect{X: 0, W: 800, H: 600})
	rects = NewLine(p).Compute([]*window.Window{twin, left})
	assert.Less(t, rects[0].X, rects[1].X)
}

func TestLineLayoutRespectsMargins(t *testing.T) {
	p := Policy{Wall: geom.Size{W: 1000, H: 1000}, Spacing: 10, ControlsWidth: 40, TitleHeight: 20}
	a := newWindow(geom.Size{W: 800, H: 600}, geom.Rect{W: 800, H: 600})
	b := newWindow(geom.Size{W: 800, H: 600}, geom.Rect{X: 200, W: 800, H: 600})

	rects := NewLine(p).Compute([]*window.Window{a, b})
	surface := p.FocusSurface()
	for _, r := range rects {
		assert.True(t, surface.Contains(r), "rect %+v outside %+v", r, surface)
	}
	assert.GreaterOrEqual(t, rects[1].Left()-rects[0].Right(), 50-geom.Epsilon)
}

func TestLineLayoutKeepsNarrowWindowsOnSurface(t *testing.T) {
	p := Policy{Wall: geom.Size{W: 4000, H: 1000}, Spacing: 10, ControlsWidth: 40, TitleHeight: 20}
	narrow := newWindow(geom.Size{W: 10, H: 1000}, geom.Rect{W: 10, H: 1000})
	wide := newWindow(geom.Size{W: 800, H: 600}, geom.Rect{X: 500, W: 800, H: 600})

	rects := NewLine(p).Compute([]*window.Window{narrow, wide})

	surface := p.FocusSurface()
	for i, r := range rects {
		require.Falsef(t, r.IsEmpty(), "window %d got empty rect", i)
		assert.GreaterOrEqualf(t, r.Top(), surface.Top()-geom.Epsilon, "window %d rect %+v", i, r)
		assert.LessOrEqualf(t, r.Bottom(), surface.Bottom()+geom.Epsilon, "window %d rect %+v", i, r)
	}
	assert.InDelta(t, 0.01, rects[0].Size().AspectRatio(), 1e-9)
}

func TestCanvasLayoutExtremeAspectRatios(t *testing.T) {
	p := Policy{Wall: geom.Size{W: 1000, H: 3000}, Spacing: 40, ControlsWidth: 60, TitleHeight: 40}
	shapes := []geom.Size{
		{W: 6200, H: 100},
		{W: 100, H: 4000},
		{W: 800, H: 600},
	}
	for len(shapes) < 12 {
		shapes = append(shapes, geom.Size{W: 6200, H: 100})
	}
	windows := make([]*window.Window, len(shapes))
	for i, s := range shapes {
		windows[i] = newWindow(s, geom.Rect{X: float64(i) * 50, W: s.W, H: s.H})
	}

	rects := NewCanvas(p).Compute(windows)
	require.Len(t, rects, len(windows))

	surface := p.FocusSurface()
	for i, r := range rects {
		require.Falsef(t, r.IsEmpty(), "window %d got empty rect", i)
		assert.Truef(t, surface.Contains(r), "window %d rect %+v outside %+v", i, r, surface)
		assert.InDeltaf(t, shapes[i].AspectRatio(), r.Size().AspectRatio(), 1e-6, "window %d aspect", i)
	}
}

func TestCanvasLayoutProperties(t *testing.T) {
	shapes := []geom.Size{
		{W: 800, H: 600},
		{W: 1920, H: 1080},
		{W: 600, H: 800},
		{W: 1000, H: 1000},
		{W: 3000, H: 1000},
		{W: 400, H: 1200},
		{W: 1280, H: 720},
		{W: 500, H: 500},
	}
	policies := []Policy{
		{Wall: geom.Size{W: 3840, H: 2160}},
		{Wall: geom.Size{W: 3840, H: 2160}, Spacing: 40, ControlsWidth: 60, TitleHeight: 40},
		{Wall: geom.Size{W: 1000, H: 3000}, Spacing: 10},
	}

	for pi, p := range policies {
		for n := 1; n <= len(shapes); n++ {
			t.Run(fmt.Sprintf("policy%d/%d_windows", pi, n), func(t *testing.T) {
				windows := make([]*window.Window, n)
				for i := range windows {
					s := shapes[i]
					windows[i] = newWindow(s, geom.Rect{X: float64(i) * 100, W: s.W, H: s.H})
				}

				rects := NewCanvas(p).Compute(windows)
				require.Len(t, rects, n)

				surface := p.FocusSurface()
				for i, r := range rects {
					require.Falsef(t, r.IsEmpty(), "window %d got empty rect", i)
					assert.Truef(t, surface.Contains(r), "window %d rect %+v outside %+v", i, r, surface)
					assert.InDeltaf(t, shapes[i].AspectRatio(), r.Size().AspectRatio(), 1e-6, "window %d aspect", i)
					for j := i + 1; j < len(rects); j++ {
						assert.Falsef(t, r.Intersects(rects[j]), "windows %d and %d overlap: %+v %+v", i, j, r, rects[j])
					}
				}
			})
		}
	}
}

func TestCanvasLayoutIsDeterministic(t *testing.T) {
	p := Policy{Wall: geom.Size{W: 3840, H: 2160}, Spacing: 20}
	windows := []*window.Window{
		newWindow(geom.Size{W: 800, H: 600}, geom.Rect{W: 800, H: 600}),
		newWindow(geom.Size{W: 1920, H: 1080}, geom.Rect{W: 1920, H: 1080}),
		newWindow(geom.Size{W: 600, H: 800}, geom.Rect{W: 600, H: 800}),
	}
	first := NewCanvas(p).Compute(windows)
	second := NewCanvas(p).Compute(windows)
	assert.Equal(t, first, second)
}

func TestCanvasSingleWindowFillsSurface(t *testing.T) {
	p := Policy{Wall: geom.Size{W: 1000, H: 1000}}
	w := newWindow(geom.Size{W: 800, H: 600}, geom.Rect{W: 800, H: 600})

	rects := NewCanvas(p).Compute([]*window.Window{w})

	opt := cmpopts.EquateApprox(0, 1e-6)
	if diff := cmp.Diff(geom.Rect{X: 0, Y: 125, W: 1000, H: 750}, rects[0], opt); diff != "" {
		t.Fatalf("unexpected rect (-want +got):\n%s", diff)
	}
}

func TestCanvasTreeStaysDisjoint(t *testing.T) {
	items := []item{
		{size: geom.Size{W: 600, H: 400}},
		{size: geom.Size{W: 300, H: 300}},
		{size: geom.Size{W: 900, H: 200}},
		{size: geom.Size{W: 200, H: 900}},
	}
	c := newCanvas(geom.Size{W: 1000, H: 800}, items)
	for i := range items {
		c.insert(i)
	}
	assert.Equal(t, KindRoot, c.nodes[0].kind)

	cells := c.cells()
	for i, cell := range cells {
		require.Falsef(t, cell.IsEmpty(), "item %d not placed", i)
		assert.Truef(t, c.root().rect.Contains(cell), "item %d outside canvas", i)
		for j := i + 1; j < len(cells); j++ {
			assert.Falsef(t, cell.Intersects(cells[j]), "items %d and %d overlap", i, j)
		}
	}
}

func TestUpdateFocusedCoordinates(t *testing.T) {
	p := Policy{Wall: geom.Size{W: 1000, H: 1000}}
	a := newWindow(geom.Size{W: 800, H: 600}, geom.Rect{W: 800, H: 600})
	b := newWindow(geom.Size{W: 800, H: 600}, geom.Rect{X: 100, W: 800, H: 600})
	engine := NewLine(p)

	want := FocusedCoordinates(engine, []*window.Window{a, b}, b)
	assert.True(t, a.FocusedCoordinates().IsEmpty())

	UpdateFocusedCoordinates(engine, []*window.Window{a, b})
	assert.Equal(t, want, b.FocusedCoordinates())
	assert.False(t, a.FocusedCoordinates().IsEmpty())
}
