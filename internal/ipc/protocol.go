package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/displaywall/internal/geom"
	"github.com/1broseidon/displaywall/internal/wall"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload       CommandType = "RELOAD"
	CommandGetStatus    CommandType = "GET_STATUS"
	CommandGetMonitors  CommandType = "GET_MONITORS"
	CommandListWindows  CommandType = "LIST_WINDOWS"
	CommandGetWindow    CommandType = "GET_WINDOW"
	CommandOpenWindow   CommandType = "OPEN_WINDOW"
	CommandCloseWindow  CommandType = "CLOSE_WINDOW"
	CommandMoveWindow   CommandType = "MOVE_WINDOW"
	CommandResizeWindow CommandType = "RESIZE_WINDOW"
	CommandDragHandle   CommandType = "DRAG_HANDLE"
	CommandScaleWindow  CommandType = "SCALE_WINDOW"
	CommandAdjustWindow CommandType = "ADJUST_WINDOW"
	CommandToggleMax    CommandType = "TOGGLE_FULLSCREEN_MAX"
	CommandSetPolicy    CommandType = "SET_RESIZE_POLICY"
	CommandSelect       CommandType = "SELECT_WINDOW"
	CommandDeselectAll  CommandType = "DESELECT_ALL"
	CommandRaiseWindow  CommandType = "RAISE_WINDOW"
	CommandFocus        CommandType = "FOCUS_WINDOW"
	CommandUnfocus      CommandType = "UNFOCUS_WINDOW"
	CommandUnfocusAll   CommandType = "UNFOCUS_ALL"
	CommandFullscreen   CommandType = "SET_FULLSCREEN"
	CommandPinch        CommandType = "PINCH"
	CommandPan          CommandType = "PAN"
	CommandResetZoom    CommandType = "RESET_ZOOM"
	CommandVisibleArea  CommandType = "VISIBLE_AREA"
	CommandClear        CommandType = "CLEAR"
	CommandSaveSession  CommandType = "SAVE_SESSION"
	CommandLoadSession  CommandType = "LOAD_SESSION"
	CommandListSessions CommandType = "LIST_SESSIONS"
	CommandDelSession   CommandType = "DELETE_SESSION"
)

// Error codes carried by ERROR responses.
const (
	CodeNotFound = "not_found"
	CodeInvalid  = "invalid"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
	Code   string          `json:"code,omitempty"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

type WindowPayload struct {
	ID string `json:"id"`
}

// MovePayload moves a window to (X, Y), or by (X, Y) when Relative is set.
type MovePayload struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Center   bool    `json:"center,omitempty"`
	Relative bool    `json:"relative,omitempty"`
}

type ResizePayload struct {
	ID     string  `json:"id"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Center bool    `json:"center,omitempty"`
}

type DragHandlePayload struct {
	ID     string  `json:"id"`
	Handle string  `json:"handle"`
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
}

type ScalePayload struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Delta float64 `json:"delta"`
}

type AdjustPayload struct {
	ID    string `json:"id"`
	State string `json:"state"`
}

type PolicyPayload struct {
	ID     string `json:"id"`
	Policy string `json:"policy"`
}

type SelectPayload struct {
	ID       string `json:"id"`
	Selected bool   `json:"selected"`
}

// GesturePayload carries a pinch (position and delta) or a pan (delta only).
type GesturePayload struct {
	ID string  `json:"id"`
	X  float64 `json:"x,omitempty"`
	Y  float64 `json:"y,omitempty"`
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type SessionPayload struct {
	Name string `json:"name"`
}

type SessionsData struct {
	Sessions []string `json:"sessions"`
}

type VisibleAreaData struct {
	ID   string    `json:"id"`
	Area geom.Rect `json:"area"`
}

type (
	StatusData  = wall.Status
	WindowData  = wall.WindowInfo
	OpenPayload = wall.OpenRequest
)

type WindowsData struct {
	Windows []WindowData `json:"windows"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
