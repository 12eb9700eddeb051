// Package x11 discovers the monitors that make up the wall.
package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"

	"github.com/1broseidon/displaywall/internal/geom"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// Rect returns the monitor geometry.
func (m Monitor) Rect() geom.Rect {
	return geom.Rect{X: float64(m.X), Y: float64(m.Y), W: float64(m.Width), H: float64(m.Height)}
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor

	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			outputName = string(outputInfo.Name)
		}

		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   outputName,
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		})
	}

	return monitors, nil
}

// Bounds returns the smallest rectangle covering every monitor.
func Bounds(monitors []Monitor) geom.Rect {
	var r geom.Rect
	for _, m := range monitors {
		r = r.United(m.Rect())
	}
	return r
}

// DetectWall connects to the display and returns the size of the area
// covered by its monitors.
func DetectWall(display, xauthority string) (geom.Size, []Monitor, error) {
	conn, err := NewConnection(display, xauthority)
	if err != nil {
		return geom.Size{}, nil, err
	}
	defer conn.Close()

	monitors, err := conn.GetMonitors()
	if err != nil {
		return geom.Size{}, nil, err
	}
	bounds := Bounds(monitors)
	if bounds.IsEmpty() {
		return geom.Size{}, monitors, fmt.Errorf("no active monitors on display %q", display)
	}
	return bounds.Size(), monitors, nil
}
