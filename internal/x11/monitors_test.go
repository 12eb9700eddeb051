package x11

import (
	"testing"

	"github.com/1broseidon/displaywall/internal/geom"
)

func TestBounds(t *testing.T) {
	tests := []struct {
		name     string
		monitors []Monitor
		want     geom.Rect
	}{
		{name: "none", want: geom.Rect{}},
		{
			name:     "single",
			monitors: []Monitor{{Width: 1920, Height: 1080}},
			want:     geom.Rect{W: 1920, H: 1080},
		},
		{
			name: "2x2 grid",
			monitors: []Monitor{
				{X: 0, Y: 0, Width: 1920, Height: 1080},
				{X: 1920, Y: 0, Width: 1920, Height: 1080},
				{X: 0, Y: 1080, Width: 1920, Height: 1080},
				{X: 1920, Y: 1080, Width: 1920, Height: 1080},
			},
			want: geom.Rect{W: 3840, H: 2160},
		},
		{
			name: "offset row",
			monitors: []Monitor{
				{X: 100, Y: 50, Width: 1000, Height: 500},
				{X: 1100, Y: 0, Width: 1000, Height: 600},
			},
			want: geom.Rect{X: 100, Y: 0, W: 2000, H: 600},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Bounds(tt.monitors); got != tt.want {
				t.Fatalf("Bounds() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
