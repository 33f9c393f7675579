package ipc

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/1broseidon/tilewm/internal/orchestrator"
	"github.com/1broseidon/tilewm/internal/reload"
	"github.com/1broseidon/tilewm/internal/runtimepath"
)

// Server handles IPC requests from CLI clients over tilewm's three-command
// protocol (reload, status, exit), wired to an orchestrator.AppState and a
// reload.Watcher.
type Server struct {
	socketPath string
	listener   net.Listener

	state    *orchestrator.AppState
	watcher  *reload.Watcher
	shutdown func()
	logger   *slog.Logger

	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server bound to displayName's control
// socket. shutdown is invoked when an EXIT command arrives; it is expected
// to cancel the daemon's root context and let it wind down normally.
func NewServer(displayName string, state *orchestrator.AppState, watcher *reload.Watcher, shutdown func(), logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	socketPath, err := runtimepath.SocketPath(displayName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		state:      state,
		watcher:    watcher,
		shutdown:   shutdown,
		logger:     logger,
	}, nil
}

// SocketPath returns the unix socket path this server listens (or will
// listen) on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections.
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "path", s.socketPath)

	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Error("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Error("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Error("failed to send response", "error", err)
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandStatus:
		return s.handleStatus()
	case CommandExit:
		return s.handleExit()
	default:
		return NewErrorResponse(fmt.Sprintf("unknown command: %s", req.Command))
	}
}

func (s *Server) handleReload() *Response {
	if s.watcher == nil {
		return NewErrorResponse("no config watcher registered")
	}
	if err := s.watcher.TriggerReload(); err != nil {
		return NewErrorResponse(fmt.Sprintf("failed to reload config: %v", err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleStatus() *Response {
	status := s.state.Status()

	displays := make([]DisplayStatusData, len(status.Displays))
	for i, d := range status.Displays {
		displays[i] = DisplayStatusData{
			ID:              int(d.ID),
			Name:            d.Name,
			ActiveWorkspace: d.ActiveWorkspace,
			WindowCount:     d.WindowCount,
		}
	}

	resp, _ := NewOKResponse(StatusData{
		Displays:      displays,
		UptimeSeconds: status.UptimeSeconds,
		DaemonRunning: true,
	})
	return resp
}

func (s *Server) handleExit() *Response {
	resp, _ := NewOKResponse(nil)
	if s.shutdown != nil {
		go s.shutdown()
	}
	return resp
}

func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
