package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/displaywall/internal/geom"
	"github.com/1broseidon/displaywall/internal/runtimepath"
	"github.com/1broseidon/displaywall/internal/wall"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientForSocket(socketPath)
}

// NewClientForSocket creates a client talking to the given socket.
func NewClientForSocket(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		switch resp.Code {
		case CodeNotFound:
			return nil, fmt.Errorf("daemon error: %w: %s", wall.ErrWindowNotFound, resp.Error)
		case CodeInvalid:
			return nil, fmt.Errorf("daemon error: %w: %s", wall.ErrInvalidArgument, resp.Error)
		}
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends command with payload and decodes the response data into out
// when out is non-nil.
func (c *Client) call(command CommandType, payload any, out any) error {
	req := &Request{Command: command}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", command, err)
	}
	return nil
}

func (c *Client) windowCall(command CommandType, payload any) (*WindowData, error) {
	var w WindowData
	if err := c.call(command, payload, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetMonitors retrieves monitor information
func (c *Client) GetMonitors() (*MonitorsData, error) {
	var monitors MonitorsData
	if err := c.call(CommandGetMonitors, nil, &monitors); err != nil {
		return nil, err
	}
	return &monitors, nil
}

func (c *Client) ListWindows() ([]WindowData, error) {
	var data WindowsData
	if err := c.call(CommandListWindows, nil, &data); err != nil {
		return nil, err
	}
	return data.Windows, nil
}

func (c *Client) GetWindow(id string) (*WindowData, error) {
	return c.windowCall(CommandGetWindow, WindowPayload{ID: id})
}

func (c *Client) OpenWindow(req OpenPayload) (*WindowData, error) {
	return c.windowCall(CommandOpenWindow, req)
}

func (c *Client) CloseWindow(id string) error {
	return c.call(CommandCloseWindow, WindowPayload{ID: id}, nil)
}

// MoveWindow moves the window to p (top-left or center), or by p when relative.
func (c *Client) MoveWindow(id string, p geom.Point, center, relative bool) (*WindowData, error) {
	return c.windowCall(CommandMoveWindow, MovePayload{ID: id, X: p.X, Y: p.Y, Center: center, Relative: relative})
}

func (c *Client) ResizeWindow(id string, size geom.Size, center bool) (*WindowData, error) {
	return c.windowCall(CommandResizeWindow, ResizePayload{ID: id, Width: size.W, Height: size.H, Center: center})
}

func (c *Client) DragHandle(id, handle string, delta geom.Point) (*WindowData, error) {
	return c.windowCall(CommandDragHandle, DragHandlePayload{ID: id, Handle: handle, DX: delta.X, DY: delta.Y})
}

func (c *Client) ScaleWindow(id string, center geom.Point, delta float64) (*WindowData, error) {
	return c.windowCall(CommandScaleWindow, ScalePayload{ID: id, X: center.X, Y: center.Y, Delta: delta})
}

func (c *Client) AdjustWindow(id, state string) (*WindowData, error) {
	return c.windowCall(CommandAdjustWindow, AdjustPayload{ID: id, State: state})
}

func (c *Client) ToggleFullscreenMax(id string) (*WindowData, error) {
	return c.windowCall(CommandToggleMax, WindowPayload{ID: id})
}

func (c *Client) SetResizePolicy(id, policy string) (*WindowData, error) {
	return c.windowCall(CommandSetPolicy, PolicyPayload{ID: id, Policy: policy})
}

func (c *Client) SelectWindow(id string, selected bool) (*WindowData, error) {
	return c.windowCall(CommandSelect, SelectPayload{ID: id, Selected: selected})
}

func (c *Client) DeselectAll() error {
	return c.call(CommandDeselectAll, nil, nil)
}

func (c *Client) RaiseWindow(id string) (*WindowData, error) {
	return c.windowCall(CommandRaiseWindow, WindowPayload{ID: id})
}

func (c *Client) FocusWindow(id string) (*WindowData, error) {
	return c.windowCall(CommandFocus, WindowPayload{ID: id})
}

func (c *Client) UnfocusWindow(id string) (*WindowData, error) {
	return c.windowCall(CommandUnfocus, WindowPayload{ID: id})
}

func (c *Client) UnfocusAll() error {
	return c.call(CommandUnfocusAll, nil, nil)
}

// SetFullscreen shows the window fullscreen; an empty id exits fullscreen.
func (c *Client) SetFullscreen(id string) error {
	return c.call(CommandFullscreen, WindowPayload{ID: id}, nil)
}

func (c *Client) Pinch(id string, pos, delta geom.Point) (*WindowData, error) {
	return c.windowCall(CommandPinch, GesturePayload{ID: id, X: pos.X, Y: pos.Y, DX: delta.X, DY: delta.Y})
}

func (c *Client) Pan(id string, delta geom.Point) (*WindowData, error) {
	return c.windowCall(CommandPan, GesturePayload{ID: id, DX: delta.X, DY: delta.Y})
}

func (c *Client) ResetZoom(id string) (*WindowData, error) {
	return c.windowCall(CommandResetZoom, WindowPayload{ID: id})
}

func (c *Client) VisibleArea(id string) (geom.Rect, error) {
	var data VisibleAreaData
	if err := c.call(CommandVisibleArea, WindowPayload{ID: id}, &data); err != nil {
		return geom.Rect{}, err
	}
	return data.Area, nil
}

func (c *Client) Clear() error {
	return c.call(CommandClear, nil, nil)
}

func (c *Client) SaveSession(name string) error {
	return c.call(CommandSaveSession, SessionPayload{Name: name}, nil)
}

func (c *Client) LoadSession(name string) error {
	return c.call(CommandLoadSession, SessionPayload{Name: name}, nil)
}

func (c *Client) ListSessions() ([]string, error) {
	var data SessionsData
	if err := c.call(CommandListSessions, nil, &data); err != nil {
		return nil, err
	}
	return data.Sessions, nil
}

func (c *Client) DeleteSession(name string) error {
	return c.call(CommandDelSession, SessionPayload{Name: name}, nil)
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
