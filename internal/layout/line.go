package layout

import (
	"sort"

	"github.com/1broseidon/displaywall/internal/controller"
	"github.com/1broseidon/displaywall/internal/geom"
	"github.com/1broseidon/displaywall/internal/window"
)

// Line is the deterministic focus layout: all windows on one row, ordered by
// the horizontal position of their standard coordinates.
type Line struct {
	policy Policy
}

// NewLine creates the single-row layout engine.
func NewLine(policy Policy) *Line { return &Line{policy: policy} }

// Compute implements Engine. Windows are expected in z-order; it breaks
// ties between windows sharing the same center.
func (l *Line) Compute(windows []*window.Window) []geom.Rect {
	out := make([]geom.Rect, len(windows))
	surface := l.policy.FocusSurface()
	if len(windows) == 0 || surface.IsEmpty() {
		return out
	}
	margins := l.policy.WindowMargins()

	sizes := make([]geom.Size, len(windows))
	order := make([]int, len(windows))
	totalWidth := 0.0
	for i, w := range windows {
		sizes[i] = l.nominalSize(w, geom.Size{W: surface.W - margins.Horizontal(), H: surface.H - margins.Vertical()})
		totalWidth += sizes[i].W
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return windows[order[a]].Coordinates().Center().X < windows[order[b]].Coordinates().Center().X
	})

	n := float64(len(windows))
	totalMargins := n * margins.Horizontal()
	extra := 0.0
	if totalWidth+totalMargins > surface.W {
		f := (surface.W - totalMargins) / totalWidth
		if f < 0 {
			f = 0
		}
		for i := range sizes {
			sizes[i] = sizes[i].Mul(f)
		}
	} else {
		extra = (surface.W - totalWidth - totalMargins) / (n + 1)
	}

	x := surface.X
	for _, i := range order {
		x += extra
		cellHeight := sizes[i].H + margins.Vertical()
		out[i] = geom.Rect{
			X: x + margins.Left,
			Y: surface.Y + (surface.H-cellHeight)/2 + margins.Top,
			W: sizes[i].W,
			H: sizes[i].H,
		}
		x += sizes[i].W + margins.Horizontal()
	}
	return out
}

// nominalSize fits the window to the available height, then applies the
// focused size constraints. The result never leaves the available space,
// even when the minimum size of a very narrow window is taller than it.
func (l *Line) nominalSize(w *window.Window, available geom.Size) geom.Size {
	if available.IsEmpty() {
		return geom.Size{}
	}
	ar := aspectRatio(w)
	size := geom.Size{W: available.H * ar, H: available.H}
	size = controller.New(w, l.policy, controller.TargetFocused).ConstrainSize(size)
	if !size.Fits(available) {
		size = size.Scaled(available, geom.KeepAspectRatio)
	}
	return size
}
