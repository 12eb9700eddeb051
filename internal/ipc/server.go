package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/1broseidon/displaywall/internal/geom"
	"github.com/1broseidon/displaywall/internal/runtimepath"
	"github.com/1broseidon/displaywall/internal/wall"
	"github.com/1broseidon/displaywall/internal/x11"
)

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	service      *wall.Service
	monitors     []x11.Monitor
	logger       *zap.Logger
	reloadChan   chan struct{}
	shuttingDown bool
	shutdownMu   sync.Mutex
	wg           sync.WaitGroup
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithSocketPath overrides the runtime socket path.
func WithSocketPath(path string) ServerOption { return func(s *Server) { s.socketPath = path } }

// WithMonitors sets the monitors reported by GET_MONITORS.
func WithMonitors(m []x11.Monitor) ServerOption { return func(s *Server) { s.monitors = m } }

func WithServerLogger(l *zap.Logger) ServerOption { return func(s *Server) { s.logger = l } }

// NewServer creates a new IPC server. RELOAD requests are signalled on
// reloadChan without blocking.
func NewServer(service *wall.Service, reloadChan chan struct{}, opts ...ServerOption) (*Server, error) {
	s := &Server{
		service:    service,
		reloadChan: reloadChan,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.socketPath == "" {
		socketPath, err := runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
		s.socketPath = socketPath
	}

	// Remove existing socket if present
	os.Remove(s.socketPath)

	return s, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", zap.String("socket", s.socketPath))

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			shuttingDown := s.shuttingDown
			s.shutdownMu.Unlock()
			if shuttingDown || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("IPC accept error", zap.Error(err))
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(conn)
		}()
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", zap.Error(err))
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", zap.Error(err))
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", zap.Error(err))
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("IPC command", zap.String("command", string(req.Command)))

	svc := s.service
	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return respond(svc.Status(), nil)
	case CommandGetMonitors:
		return s.handleGetMonitors()
	case CommandListWindows:
		return respond(WindowsData{Windows: svc.ListWindows()}, nil)
	case CommandGetWindow:
		return withPayload(req.Payload, func(p WindowPayload) (any, error) {
			return svc.Window(p.ID)
		})
	case CommandOpenWindow:
		return withPayload(req.Payload, func(p OpenPayload) (any, error) {
			return svc.OpenWindow(p)
		})
	case CommandCloseWindow:
		return withPayload(req.Payload, func(p WindowPayload) (any, error) {
			return nil, svc.CloseWindow(p.ID)
		})
	case CommandMoveWindow:
		return withPayload(req.Payload, func(p MovePayload) (any, error) {
			if p.Relative {
				return svc.MoveWindowBy(p.ID, geom.Point{X: p.X, Y: p.Y})
			}
			return svc.MoveWindow(p.ID, geom.Point{X: p.X, Y: p.Y}, p.Center)
		})
	case CommandResizeWindow:
		return withPayload(req.Payload, func(p ResizePayload) (any, error) {
			return svc.ResizeWindow(p.ID, geom.Size{W: p.Width, H: p.Height}, p.Center)
		})
	case CommandDragHandle:
		return withPayload(req.Payload, func(p DragHandlePayload) (any, error) {
			return svc.DragHandle(p.ID, p.Handle, geom.Point{X: p.DX, Y: p.DY})
		})
	case CommandScaleWindow:
		return withPayload(req.Payload, func(p ScalePayload) (any, error) {
			return svc.ScaleWindow(p.ID, geom.Point{X: p.X, Y: p.Y}, p.Delta)
		})
	case CommandAdjustWindow:
		return withPayload(req.Payload, func(p AdjustPayload) (any, error) {
			return svc.AdjustWindow(p.ID, p.State)
		})
	case CommandToggleMax:
		return withPayload(req.Payload, func(p WindowPayload) (any, error) {
			return svc.ToggleFullscreenMaxSize(p.ID)
		})
	case CommandSetPolicy:
		return withPayload(req.Payload, func(p PolicyPayload) (any, error) {
			return svc.SetResizePolicy(p.ID, p.Policy)
		})
	case CommandSelect:
		return withPayload(req.Payload, func(p SelectPayload) (any, error) {
			return svc.SetSelected(p.ID, p.Selected)
		})
	case CommandDeselectAll:
		svc.DeselectAll()
		return respond(nil, nil)
	case CommandRaiseWindow:
		return withPayload(req.Payload, func(p WindowPayload) (any, error) {
			return svc.RaiseWindow(p.ID)
		})
	case CommandFocus:
		return withPayload(req.Payload, func(p WindowPayload) (any, error) {
			return svc.FocusWindow(p.ID)
		})
	case CommandUnfocus:
		return withPayload(req.Payload, func(p WindowPayload) (any, error) {
			return svc.UnfocusWindow(p.ID)
		})
	case CommandUnfocusAll:
		svc.UnfocusAll()
		return respond(nil, nil)
	case CommandFullscreen:
		return withPayload(req.Payload, func(p WindowPayload) (any, error) {
			return nil, svc.SetFullscreen(p.ID)
		})
	case CommandPinch:
		return withPayload(req.Payload, func(p GesturePayload) (any, error) {
			return svc.Pinch(p.ID, geom.Point{X: p.X, Y: p.Y}, geom.Point{X: p.DX, Y: p.DY})
		})
	case CommandPan:
		return withPayload(req.Payload, func(p GesturePayload) (any, error) {
			return svc.Pan(p.ID, geom.Point{X: p.DX, Y: p.DY})
		})
	case CommandResetZoom:
		return withPayload(req.Payload, func(p WindowPayload) (any, error) {
			return svc.ResetZoom(p.ID)
		})
	case CommandVisibleArea:
		return withPayload(req.Payload, func(p WindowPayload) (any, error) {
			area, err := svc.VisibleArea(p.ID)
			return VisibleAreaData{ID: p.ID, Area: area}, err
		})
	case CommandClear:
		svc.Clear()
		return respond(nil, nil)
	case CommandSaveSession:
		return withPayload(req.Payload, func(p SessionPayload) (any, error) {
			return nil, svc.SaveSession(p.Name)
		})
	case CommandLoadSession:
		return withPayload(req.Payload, func(p SessionPayload) (any, error) {
			return nil, svc.LoadSession(p.Name)
		})
	case CommandListSessions:
		names, err := svc.ListSessions()
		return respond(SessionsData{Sessions: names}, err)
	case CommandDelSession:
		return withPayload(req.Payload, func(p SessionPayload) (any, error) {
			return nil, svc.DeleteSession(p.Name)
		})
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// withPayload decodes the request payload into P and runs fn.
func withPayload[P any](payload json.RawMessage, fn func(P) (any, error)) *Response {
	var p P
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			resp := NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
			resp.Code = CodeInvalid
			return resp
		}
	}
	return respond(fn(p))
}

func respond(data any, err error) *Response {
	if err != nil {
		resp := NewErrorResponse(err.Error())
		switch {
		case errors.Is(err, wall.ErrWindowNotFound):
			resp.Code = CodeNotFound
		case errors.Is(err, wall.ErrInvalidArgument):
			resp.Code = CodeInvalid
		}
		return resp
	}
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// handleReload asks the daemon to reload its configuration
func (s *Server) handleReload() *Response {
	s.logger.Info("IPC: received RELOAD command")

	// Notify the main daemon via channel (non-blocking)
	select {
	case s.reloadChan <- struct{}{}:
	default:
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

// handleGetMonitors returns information about all monitors
func (s *Server) handleGetMonitors() *Response {
	monitorInfos := make([]MonitorInfo, len(s.monitors))
	for i, m := range s.monitors {
		monitorInfos[i] = MonitorInfo{
			ID:     m.ID,
			Name:   m.Name,
			X:      m.X,
			Y:      m.Y,
			Width:  m.Width,
			Height: m.Height,
		}
	}

	resp, _ := NewOKResponse(MonitorsData{Monitors: monitorInfos})
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop shuts down the server and waits for in-flight connections.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	os.Remove(s.socketPath)
}
