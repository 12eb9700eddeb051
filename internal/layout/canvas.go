package layout

import (
	"math"
	"math/rand"

	"github.com/1broseidon/displaywall/internal/geom"
	"github.com/1broseidon/displaywall/internal/window"
)

const (
	// Permutations is the number of insertion orders tried per layout.
	Permutations = 200
	// MaxOversize is how much larger than a free cell a window may be and
	// still be placed there, downscaled.
	MaxOversize = 1.3
	// Seed makes the shuffled insertion orders reproducible.
	Seed = 42
)

// NodeKind tags the nodes of a packing tree.
type NodeKind int

const (
	KindRoot NodeKind = iota
	KindInternal
	KindLeaf
)

const none = -1

// node is one cell of the packing tree. Children and the window are
// indices into the canvas arena and the item list.
type node struct {
	kind     NodeKind
	rect     geom.Rect
	children []int
	item     int
}

func (n node) isFree() bool { return n.kind == KindLeaf && n.item == none }

type item struct {
	window *window.Window
	size   geom.Size
}

// canvas is a guillotine bin-packing tree grown until every item is placed.
type canvas struct {
	nodes  []node
	items  []item
	target float64
}

func newCanvas(available geom.Size, items []item) *canvas {
	c := &canvas{items: items, target: available.AspectRatio()}
	root := c.add(node{kind: KindRoot, rect: geom.Rect{W: available.W, H: available.H}, item: none})
	leaf := c.add(node{kind: KindLeaf, rect: c.nodes[root].rect, item: none})
	c.nodes[root].children = []int{leaf}
	return c
}

func (c *canvas) add(n node) int {
	c.nodes = append(c.nodes, n)
	return len(c.nodes) - 1
}

func (c *canvas) root() *node { return &c.nodes[0] }

// insert places item i, growing the canvas when no free leaf can hold it.
func (c *canvas) insert(i int) {
	size := c.items[i].size
	for {
		if leaf := c.findLeaf(0, size, false); leaf != none {
			c.place(leaf, i, size)
			return
		}
		if leaf := c.findLeaf(0, size, true); leaf != none {
			r := c.nodes[leaf].rect
			k := math.Min(r.W/size.W, r.H/size.H)
			c.place(leaf, i, size.Mul(k))
			return
		}
		c.grow(size)
	}
}

// findLeaf returns the first free leaf, depth first, that holds size
// exactly or, when oversize is set, after downscaling by up to MaxOversize.
func (c *canvas) findLeaf(idx int, size geom.Size, oversize bool) int {
	n := c.nodes[idx]
	if n.kind == KindLeaf {
		if !n.isFree() {
			return none
		}
		if size.Fits(n.rect.Size()) {
			return idx
		}
		if oversize && size.Fits(n.rect.Size().Mul(MaxOversize)) {
			return idx
		}
		return none
	}
	for _, child := range n.children {
		if leaf := c.findLeaf(child, size, oversize); leaf != none {
			return leaf
		}
	}
	return none
}

// place splits free leaf idx into the item cell and up to two free
// remainders, cutting along the axis that leaves the larger remainder whole.
func (c *canvas) place(idx, i int, size geom.Size) {
	r := c.nodes[idx].rect
	size = size.BoundedTo(r.Size())
	cell := geom.Rect{X: r.X, Y: r.Y, W: size.W, H: size.H}

	dw, dh := r.W-size.W, r.H-size.H
	var strip, rest, beside geom.Rect
	if dw > dh {
		strip = geom.Rect{X: r.X, Y: r.Y, W: size.W, H: r.H}
		rest = geom.Rect{X: r.X + size.W, Y: r.Y, W: dw, H: r.H}
		beside = geom.Rect{X: r.X, Y: r.Y + size.H, W: size.W, H: dh}
	} else {
		strip = geom.Rect{X: r.X, Y: r.Y, W: r.W, H: size.H}
		rest = geom.Rect{X: r.X, Y: r.Y + size.H, W: r.W, H: dh}
		beside = geom.Rect{X: r.X + size.W, Y: r.Y, W: dw, H: size.H}
	}

	itemLeaf := c.add(node{kind: KindLeaf, rect: cell, item: i})
	stripNode := itemLeaf
	if !beside.IsEmpty() {
		free := c.add(node{kind: KindLeaf, rect: beside, item: none})
		stripNode = c.add(node{kind: KindInternal, rect: strip, children: []int{itemLeaf, free}, item: none})
	}

	n := &c.nodes[idx]
	if rest.IsEmpty() {
		if stripNode == itemLeaf {
			// The item fills the leaf.
			n.item = i
			n.rect = cell
			c.nodes = c.nodes[:len(c.nodes)-1]
			return
		}
		*n = c.nodes[stripNode]
		return
	}
	free := c.add(node{kind: KindLeaf, rect: rest, item: none})
	n = &c.nodes[idx]
	n.kind = KindInternal
	n.children = []int{stripNode, free}
}

// grow enlarges the canvas to the right or downwards, whichever keeps its
// aspect ratio closer to the available space, so that size fits.
func (c *canvas) grow(size geom.Size) {
	r := c.root().rect
	right := geom.Size{W: r.W + size.W, H: math.Max(r.H, size.H)}
	down := geom.Size{W: math.Max(r.W, size.W), H: r.H + size.H}

	old := c.add(node{kind: KindInternal, rect: r, children: c.root().children, item: none})
	var children []int
	if aspectDistance(right.AspectRatio(), c.target) <= aspectDistance(down.AspectRatio(), c.target) {
		left := old
		if right.H > r.H {
			below := c.add(node{kind: KindLeaf, rect: geom.Rect{Y: r.H, W: r.W, H: right.H - r.H}, item: none})
			left = c.add(node{kind: KindInternal, rect: geom.Rect{W: r.W, H: right.H}, children: []int{old, below}, item: none})
		}
		free := c.add(node{kind: KindLeaf, rect: geom.Rect{X: r.W, W: size.W, H: right.H}, item: none})
		children = []int{left, free}
		c.root().rect = geom.Rect{W: right.W, H: right.H}
	} else {
		top := old
		if down.W > r.W {
			beside := c.add(node{kind: KindLeaf, rect: geom.Rect{X: r.W, W: down.W - r.W, H: r.H}, item: none})
			top = c.add(node{kind: KindInternal, rect: geom.Rect{W: down.W, H: r.H}, children: []int{old, beside}, item: none})
		}
		free := c.add(node{kind: KindLeaf, rect: geom.Rect{Y: r.H, W: size.W, H: size.H}, item: none})
		if down.W > size.W {
			rest := c.add(node{kind: KindLeaf, rect: geom.Rect{X: size.W, Y: r.H, W: down.W - size.W, H: size.H}, item: none})
			free = c.add(node{kind: KindInternal, rect: geom.Rect{Y: r.H, W: down.W, H: size.H}, children: []int{free, rest}, item: none})
		}
		children = []int{top, free}
		c.root().rect = geom.Rect{W: down.W, H: down.H}
	}
	c.root().children = children
}

func aspectDistance(ar, target float64) float64 {
	if ar <= 0 || target <= 0 {
		return math.Inf(1)
	}
	return math.Abs(math.Log(ar / target))
}

// cells returns the rectangle of every placed item, indexed by item.
func (c *canvas) cells() []geom.Rect {
	out := make([]geom.Rect, len(c.items))
	for _, n := range c.nodes {
		if n.kind == KindLeaf && n.item != none {
			out[n.item] = n.rect
		}
	}
	return out
}

// Canvas is the automatic focus layout: a randomized bin-packing search
// keeping the arrangement that leaves the most room to the windows.
type Canvas struct {
	policy Policy
}

// NewCanvas creates the automatic layout engine.
func NewCanvas(policy Policy) *Canvas { return &Canvas{policy: policy} }

// Compute implements Engine.
func (l *Canvas) Compute(windows []*window.Window) []geom.Rect {
	out := make([]geom.Rect, len(windows))
	surface := l.policy.FocusSurface()
	if len(windows) == 0 || surface.IsEmpty() {
		return out
	}

	items := l.items(windows, surface.Size())
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}

	rng := rand.New(rand.NewSource(Seed))
	bestScore := -1.0
	for p := 0; p < Permutations; p++ {
		if p > 0 {
			rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		}
		c := newCanvas(surface.Size(), items)
		for _, i := range order {
			c.insert(i)
		}
		rects, score := l.finalize(c, windows, surface)
		if score > bestScore {
			bestScore = score
			copy(out, rects)
		}
		if len(items) == 1 {
			break
		}
	}
	return out
}

// items scales the windows so their total area matches the available area
// and pads each with the window margins.
func (l *Canvas) items(windows []*window.Window, available geom.Size) []item {
	base := make([]geom.Size, len(windows))
	total := 0.0
	for i, w := range windows {
		ar := aspectRatio(w)
		area := w.Coordinates().Area()
		if area <= 0 {
			area = 1
		}
		h := math.Sqrt(area / ar)
		base[i] = geom.Size{W: h * ar, H: h}
		total += base[i].Area()
	}
	k := math.Sqrt(available.Area() / total)
	margins := l.policy.WindowMargins().Size()

	items := make([]item, len(windows))
	for i, w := range windows {
		items[i] = item{window: w, size: base[i].Mul(k).Add(margins)}
	}
	return items
}

// finalize maps the packed cells into the focus surface and fits each
// window into its cell. The score is the total window area.
func (l *Canvas) finalize(c *canvas, windows []*window.Window, surface geom.Rect) ([]geom.Rect, float64) {
	cells := c.cells()
	var bounds geom.Rect
	for _, cell := range cells {
		bounds = bounds.United(cell)
	}
	if bounds.IsEmpty() {
		return make([]geom.Rect, len(windows)), 0
	}

	k := math.Min(surface.W/bounds.W, surface.H/bounds.H)
	origin := surface.Center().Sub(bounds.Center().Mul(k))

	rects := make([]geom.Rect, len(windows))
	score := 0.0
	for i, cell := range cells {
		mapped := geom.Rect{X: origin.X + cell.X*k, Y: origin.Y + cell.Y*k, W: cell.W * k, H: cell.H * k}
		rects[i] = fitWindow(l.policy, windows[i], mapped, k)
		score += rects[i].Area()
	}
	return rects, score
}
