package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/1broseidon/lapin/internal/command"
	"github.com/1broseidon/lapin/internal/wm"
	"github.com/google/uuid"
)

// ErrSocketInUse is returned when another process answers on the socket.
var ErrSocketInUse = errors.New("control socket is in use by another instance")

// Controller is the window manager as seen by the control socket.
type Controller interface {
	Status(ctx context.Context) (wm.Status, error)
	Exec(ctx context.Context, action command.Action) error
	Reload(ctx context.Context) error
}

// Server handles IPC requests from clients
type Server struct {
	socketPath string
	ctrl       Controller
	logger     *slog.Logger
	// timeout bounds one request, including the wait for the event loop.
	timeout time.Duration

	mu       sync.Mutex
	listener net.Listener
}

// NewServer creates a new IPC server
func NewServer(socketPath string, ctrl Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		socketPath: socketPath,
		ctrl:       ctrl,
		logger:     logger.With("component", "ipc"),
		timeout:    5 * time.Second,
	}
}

func (s *Server) String() string { return "ipc" }

// Listen creates the socket. Serve calls it when it has not run yet.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0o700); err != nil {
		return fmt.Errorf("failed to create socket dir: %w", err)
	}
	if conn, err := net.DialTimeout("unix", s.socketPath, 200*time.Millisecond); err == nil {
		conn.Close()
		return fmt.Errorf("%w: %s", ErrSocketInUse, s.socketPath)
	}
	if err := os.Remove(s.socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove stale socket: %w", err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	if err := os.Chmod(s.socketPath, 0o600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}
	s.listener = listener
	s.logger.Info("IPC server listening", "socket", s.socketPath)
	return nil
}

// Serve accepts connections until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	defer s.cleanup()

	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return ctx.Err()
			}
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}
		go s.handleConnection(ctx, conn)
	}
}

func (s *Server) cleanup() {
	s.mu.Lock()
	s.listener = nil
	s.mu.Unlock()
	if err := os.Remove(s.socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("failed to remove socket", "error", err)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(s.timeout))

	data, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Debug("IPC read error", "error", err)
		return
	}

	id := uuid.NewString()
	var resp *Response
	req, err := ParseRequest(data)
	if err != nil {
		resp = NewErrorResponse(fmt.Sprintf("invalid request: %v", err))
	} else {
		s.logger.Debug("IPC request", "id", id, "command", req.Command)
		reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
		resp = s.handleCommand(reqCtx, req)
		cancel()
	}
	if resp.Status == StatusError {
		s.logger.Debug("IPC request failed", "id", id, "error", resp.Error)
	}

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Warn("failed to marshal response", "id", id, "error", err)
		return
	}
	if _, err := conn.Write(append(respData, '\n')); err != nil {
		s.logger.Debug("failed to send response", "id", id, "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(ctx context.Context, req *Request) *Response {
	switch req.Command {
	case CommandStatus:
		st, err := s.ctrl.Status(ctx)
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		return okResponse(st)
	case CommandExec:
		return s.handleExec(ctx, req.Payload)
	case CommandReload:
		if err := s.ctrl.Reload(ctx); err != nil {
			return NewErrorResponse(fmt.Sprintf("reload failed: %v", err))
		}
		return okResponse(nil)
	case CommandActions:
		return okResponse(ActionsData{Actions: command.Catalog()})
	default:
		return NewErrorResponse(fmt.Sprintf("unknown command: %s", req.Command))
	}
}

func (s *Server) handleExec(ctx context.Context, payload json.RawMessage) *Response {
	var p ExecPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("invalid exec payload: %v", err))
	}
	action, err := command.Parse(p.Action)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	if err := s.ctrl.Exec(ctx, action); err != nil {
		return NewErrorResponse(err.Error())
	}
	return okResponse(nil)
}

func okResponse(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}
