package mcp

import "github.com/1broseidon/displaywall/internal/ipc"

// WindowInput selects a window by id.
type WindowInput struct {
	ID string `json:"id" jsonschema:"required,Window id as returned by list_windows or open_window"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []ipc.WindowData `json:"windows"`
}

// OpenWindowInput is the input for the open_window tool.
type OpenWindowInput struct {
	ContentType string   `json:"content_type" jsonschema:"required,One of texture, movie, pdf, svg, image_pyramid, pixel_stream, web_browser"`
	URI         string   `json:"uri" jsonschema:"required,Content location"`
	Width       float64  `json:"width" jsonschema:"required,Native content width in pixels"`
	Height      float64  `json:"height" jsonschema:"required,Native content height in pixels"`
	Panel       bool     `json:"panel,omitempty" jsonschema:"Open as a panel overlay that never joins the focused set"`
	CenterX     *float64 `json:"center_x,omitempty" jsonschema:"Window center in wall pixels (default: wall center)"`
	CenterY     *float64 `json:"center_y,omitempty" jsonschema:"Window center in wall pixels (default: wall center)"`
}

// CloseWindowOutput is the output for the close_window tool.
type CloseWindowOutput struct {
	ID     string `json:"id"`
	Closed bool   `json:"closed"`
}

// AdjustWindowInput is the input for the adjust_window tool.
type AdjustWindowInput struct {
	ID    string `json:"id" jsonschema:"required,Window id"`
	State string `json:"state" jsonschema:"required,Preset size: 1to1, 1to1_fitting, large, fullscreen, fullscreen_max or fullscreen_1to1"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	ID       string  `json:"id" jsonschema:"required,Window id"`
	X        float64 `json:"x" jsonschema:"required,Target x in wall pixels (or delta when relative)"`
	Y        float64 `json:"y" jsonschema:"required,Target y in wall pixels (or delta when relative)"`
	Center   bool    `json:"center,omitempty" jsonschema:"Place the window center instead of its top-left corner"`
	Relative bool    `json:"relative,omitempty" jsonschema:"Move by (x, y) instead of to (x, y)"`
}

// ResizeWindowInput is the input for the resize_window tool.
type ResizeWindowInput struct {
	ID     string  `json:"id" jsonschema:"required,Window id"`
	Width  float64 `json:"width" jsonschema:"required,Requested width in wall pixels"`
	Height float64 `json:"height" jsonschema:"required,Requested height in wall pixels"`
	Center bool    `json:"center,omitempty" jsonschema:"Keep the window center fixed instead of its top-left corner"`
}

// FullscreenInput is the input for the fullscreen_window tool.
type FullscreenInput struct {
	ID string `json:"id,omitempty" jsonschema:"Window id; omit to exit fullscreen"`
}

// FullscreenOutput is the output for the fullscreen_window tool.
type FullscreenOutput struct {
	Fullscreen string `json:"fullscreen,omitempty"`
}

// ZoomInput is the input for the zoom_window tool.
type ZoomInput struct {
	ID    string   `json:"id" jsonschema:"required,Window id"`
	Delta float64  `json:"delta,omitempty" jsonschema:"Change of content width in pixels; positive zooms in"`
	PanX  float64  `json:"pan_x,omitempty" jsonschema:"Horizontal content pan in wall pixels"`
	PanY  float64  `json:"pan_y,omitempty" jsonschema:"Vertical content pan in wall pixels"`
	Reset bool     `json:"reset,omitempty" jsonschema:"Reset the zoom to show the whole content"`
	AtX   *float64 `json:"at_x,omitempty" jsonschema:"Zoom anchor in wall pixels (default: window center)"`
	AtY   *float64 `json:"at_y,omitempty" jsonschema:"Zoom anchor in wall pixels (default: window center)"`
}

// VisibleAreaOutput is the output for the visible_area tool.
type VisibleAreaOutput struct {
	ID      string  `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Visible bool    `json:"visible"`
}
