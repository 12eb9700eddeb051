package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/1broseidon/displaywall/internal/geom"
	"github.com/1broseidon/displaywall/internal/ipc"
)

const (
	ServerName    = "displaywall"
	ServerVersion = "0.1.0"
)

// Backend is the daemon surface the tools drive. *ipc.Client implements it.
type Backend interface {
	GetStatus() (*ipc.StatusData, error)
	ListWindows() ([]ipc.WindowData, error)
	GetWindow(id string) (*ipc.WindowData, error)
	OpenWindow(req ipc.OpenPayload) (*ipc.WindowData, error)
	CloseWindow(id string) error
	MoveWindow(id string, p geom.Point, center, relative bool) (*ipc.WindowData, error)
	ResizeWindow(id string, size geom.Size, center bool) (*ipc.WindowData, error)
	AdjustWindow(id, state string) (*ipc.WindowData, error)
	FocusWindow(id string) (*ipc.WindowData, error)
	UnfocusWindow(id string) (*ipc.WindowData, error)
	SetFullscreen(id string) error
	Pinch(id string, pos, delta geom.Point) (*ipc.WindowData, error)
	Pan(id string, delta geom.Point) (*ipc.WindowData, error)
	ResetZoom(id string) (*ipc.WindowData, error)
	VisibleArea(id string) (geom.Rect, error)
}

// Server exposes wall operations as MCP tools.
type Server struct {
	mcpServer *mcpsdk.Server
	backend   Backend
	logger    *zap.Logger
}

// NewServer creates a new MCP server driving backend.
func NewServer(backend Backend, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		backend: backend,
		logger:  logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List the windows on the wall back to front, with their standard, focused and fullscreen coordinates, mode and content.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_window",
		Description: "Open a window showing the given content. The window is sized to the native content size, bounded to 90% of the wall, and centered on the wall or on center_x/center_y.",
	}, s.handleOpenWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a window and remove it from the wall.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "adjust_window",
		Description: "Apply a preset size to a window: 1to1, 1to1_fitting, large, fullscreen, fullscreen_max or fullscreen_1to1.",
	}, s.handleAdjustWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Move a window to a wall position, or by a delta when relative is set. Standard windows always keep part of their area on the wall.",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_window",
		Description: "Resize a window. The size is fitted to the content aspect ratio and clamped between the minimum and maximum window sizes.",
	}, s.handleResizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Add a window to the focused set. Focused windows are laid out together on the focus area of the wall. Panels cannot be focused.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "unfocus_window",
		Description: "Remove a window from the focused set; the remaining focused windows are laid out again.",
	}, s.handleUnfocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "fullscreen_window",
		Description: "Show a window fullscreen, replacing any current fullscreen window. Omit id to exit fullscreen.",
	}, s.handleFullscreen)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "zoom_window",
		Description: "Zoom or pan the content inside a window, or reset it to show the whole content. Ignored for content that handles its own input.",
	}, s.handleZoomWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "visible_area",
		Description: "Return the part of a window that is on the wall and not hidden by windows above it.",
	}, s.handleVisibleArea)
}
