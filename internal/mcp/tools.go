package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/1broseidon/displaywall/internal/geom"
	"github.com/1broseidon/displaywall/internal/ipc"
)

func requireID(id, tool string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%s: id is required", tool)
	}
	return id, nil
}

// windowResult unwraps a backend window reply.
func windowResult(w *ipc.WindowData, err error) (*mcpsdk.CallToolResult, ipc.WindowData, error) {
	if err != nil {
		return nil, ipc.WindowData{}, err
	}
	return nil, *w, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ struct{}) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	windows, err := s.backend.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	if windows == nil {
		windows = []ipc.WindowData{}
	}
	return nil, ListWindowsOutput{Windows: windows}, nil
}

func (s *Server) handleOpenWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenWindowInput) (*mcpsdk.CallToolResult, ipc.WindowData, error) {
	req := ipc.OpenPayload{
		ContentType: strings.TrimSpace(args.ContentType),
		URI:         args.URI,
		Width:       args.Width,
		Height:      args.Height,
		Panel:       args.Panel,
	}
	if (args.CenterX == nil) != (args.CenterY == nil) {
		return nil, ipc.WindowData{}, fmt.Errorf("open_window: center_x and center_y must be given together")
	}
	if args.CenterX != nil {
		req.Center = &geom.Point{X: *args.CenterX, Y: *args.CenterY}
	}

	w, err := s.backend.OpenWindow(req)
	if err != nil {
		return nil, ipc.WindowData{}, err
	}
	s.logger.Info("mcp open_window", zap.String("window", w.ID), zap.String("content_type", w.ContentType))
	return nil, *w, nil
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, CloseWindowOutput, error) {
	id, err := requireID(args.ID, "close_window")
	if err != nil {
		return nil, CloseWindowOutput{}, err
	}
	if err := s.backend.CloseWindow(id); err != nil {
		return nil, CloseWindowOutput{}, err
	}
	s.logger.Info("mcp close_window", zap.String("window", id))
	return nil, CloseWindowOutput{ID: id, Closed: true}, nil
}

func (s *Server) handleAdjustWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args AdjustWindowInput) (*mcpsdk.CallToolResult, ipc.WindowData, error) {
	id, err := requireID(args.ID, "adjust_window")
	if err != nil {
		return nil, ipc.WindowData{}, err
	}
	return windowResult(s.backend.AdjustWindow(id, strings.TrimSpace(args.State)))
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, ipc.WindowData, error) {
	id, err := requireID(args.ID, "move_window")
	if err != nil {
		return nil, ipc.WindowData{}, err
	}
	return windowResult(s.backend.MoveWindow(id, geom.Point{X: args.X, Y: args.Y}, args.Center, args.Relative))
}

func (s *Server) handleResizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizeWindowInput) (*mcpsdk.CallToolResult, ipc.WindowData, error) {
	id, err := requireID(args.ID, "resize_window")
	if err != nil {
		return nil, ipc.WindowData{}, err
	}
	if args.Width <= 0 || args.Height <= 0 {
		return nil, ipc.WindowData{}, fmt.Errorf("resize_window: width and height must be positive")
	}
	return windowResult(s.backend.ResizeWindow(id, geom.Size{W: args.Width, H: args.Height}, args.Center))
}

func (s *Server) handleFocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, ipc.WindowData, error) {
	id, err := requireID(args.ID, "focus_window")
	if err != nil {
		return nil, ipc.WindowData{}, err
	}
	return windowResult(s.backend.FocusWindow(id))
}

func (s *Server) handleUnfocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, ipc.WindowData, error) {
	id, err := requireID(args.ID, "unfocus_window")
	if err != nil {
		return nil, ipc.WindowData{}, err
	}
	return windowResult(s.backend.UnfocusWindow(id))
}

func (s *Server) handleFullscreen(_ context.Context, _ *mcpsdk.CallToolRequest, args FullscreenInput) (*mcpsdk.CallToolResult, FullscreenOutput, error) {
	id := strings.TrimSpace(args.ID)
	if err := s.backend.SetFullscreen(id); err != nil {
		return nil, FullscreenOutput{}, err
	}
	st, err := s.backend.GetStatus()
	if err != nil {
		return nil, FullscreenOutput{}, err
	}
	return nil, FullscreenOutput{Fullscreen: st.Fullscreen}, nil
}

func (s *Server) handleZoomWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ZoomInput) (*mcpsdk.CallToolResult, ipc.WindowData, error) {
	id, err := requireID(args.ID, "zoom_window")
	if err != nil {
		return nil, ipc.WindowData{}, err
	}
	if args.Reset {
		return windowResult(s.backend.ResetZoom(id))
	}

	w, err := s.backend.GetWindow(id)
	if err != nil {
		return nil, ipc.WindowData{}, err
	}
	if args.Delta != 0 {
		at := w.DisplayCoordinates.Center()
		if args.AtX != nil {
			at.X = *args.AtX
		}
		if args.AtY != nil {
			at.Y = *args.AtY
		}
		if w, err = s.backend.Pinch(id, at, geom.Point{X: args.Delta}); err != nil {
			return nil, ipc.WindowData{}, err
		}
	}
	if args.PanX != 0 || args.PanY != 0 {
		if w, err = s.backend.Pan(id, geom.Point{X: args.PanX, Y: args.PanY}); err != nil {
			return nil, ipc.WindowData{}, err
		}
	}
	return nil, *w, nil
}

func (s *Server) handleVisibleArea(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, VisibleAreaOutput, error) {
	id, err := requireID(args.ID, "visible_area")
	if err != nil {
		return nil, VisibleAreaOutput{}, err
	}
	area, err := s.backend.VisibleArea(id)
	if err != nil {
		return nil, VisibleAreaOutput{}, err
	}
	return nil, VisibleAreaOutput{
		ID:      id,
		X:       area.X,
		Y:       area.Y,
		Width:   area.W,
		Height:  area.H,
		Visible: !area.IsEmpty(),
	}, nil
}
