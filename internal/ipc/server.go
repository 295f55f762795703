package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/fuddlesworth/PlasmaZones-sub001/internal/facade"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/runtimepath"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/screen"
)

// Server handles IPC requests against the facade.
type Server struct {
	socketPath   string
	listener     net.Listener
	core         *facade.Facade
	shuttingDown bool
	shutdownMu   sync.Mutex

	// Screens receives compositor screen updates when set. The daemon
	// wires the same provider it handed to the facade.
	Screens *screen.Sync
}

// NewServer creates a server bound to the default socket path.
func NewServer(core *facade.Facade) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{socketPath: socketPath, core: core}, nil
}

// NewServerAt creates a server bound to an explicit socket path.
func NewServerAt(socketPath string, core *facade.Facade) *Server {
	os.Remove(socketPath)
	return &Server{socketPath: socketPath, core: core}
}

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

	log.Info().Str("socket", s.socketPath).Msg("IPC server listening")

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
			log.Warn().Err(err).Msg("IPC accept error")
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
		log.Warn().Err(err).Msg("IPC read error")
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	if req.Command == CommandSubscribe {
		s.streamEvents(conn)
		return
	}

	resp := s.handleCommand(req)
	respData, err := resp.Marshal()
	if err != nil {
		log.Warn().Err(err).Msg("failed to marshal response")
		return
	}
	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Warn().Err(err).Msg("failed to send response")
	}
}

// streamEvents writes facade events as JSON lines until the client hangs
// up or the server stops.
func (s *Server) streamEvents(conn net.Conn) {
	events, cancel := s.core.Subscribe()
	defer cancel()

	ok, _ := NewOKResponse(nil)
	data, _ := ok.Marshal()
	if _, err := conn.Write(append(data, '\n')); err != nil {
		return
	}

	for ev := range events {
		line, err := json.Marshal(ev)
		if err != nil {
			continue
		}
		if _, err := conn.Write(append(line, '\n')); err != nil {
			return
		}
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		resp, _ := NewOKResponse(s.core.CurrentStatus())
		return resp

	case CommandListZones:
		var p ScreenPayload
		if err := unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		resp, _ := NewOKResponse(s.core.ListZones(p.Screen))
		return resp

	case CommandWindowState:
		var p WindowPayload
		if err := unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		resp, _ := NewOKResponse(s.core.GetWindowState(p.WindowId))
		return resp

	case CommandSnapWindow:
		var p SnapPayload
		if err := unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		if !s.core.WindowSnapped(p.WindowId, p.ZoneIds, p.Screen, p.Desktop) {
			return NewErrorResponse("snap rejected")
		}
		resp, _ := NewOKResponse(nil)
		return resp

	case CommandUnsnapWindow:
		var p WindowPayload
		if err := unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		s.core.WindowUnsnapped(p.WindowId)
		resp, _ := NewOKResponse(nil)
		return resp

	case CommandWindowClosed:
		var p WindowPayload
		if err := unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		s.core.WindowClosed(p.WindowId)
		resp, _ := NewOKResponse(nil)
		return resp

	case CommandSetFloating:
		var p FloatPayload
		if err := unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		s.core.SetWindowFloating(p.WindowId, p.Floating)
		resp, _ := NewOKResponse(nil)
		return resp

	case CommandSnapLastZone:
		var p AutoSnapPayload
		if err := unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		res := s.core.SnapToLastZone(p.WindowId, p.Screen, p.Desktop, p.Sticky)
		resp, _ := NewOKResponse(SnapResultData{
			ShouldSnap: res.ShouldSnap, ZoneIds: res.ZoneIds, Rect: res.Rect, Screen: res.Screen,
		})
		return resp

	case CommandRestoreSession:
		var p AutoSnapPayload
		if err := unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		res := s.core.RestoreToPersistedZone(p.WindowId, p.Screen, p.Sticky)
		resp, _ := NewOKResponse(SnapResultData{
			ShouldSnap: res.ShouldSnap, ZoneIds: res.ZoneIds, Rect: res.Rect, Screen: res.Screen,
		})
		return resp

	case CommandMoveWindow:
		var p DirectionPayload
		if err := unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		target, ok := s.core.MoveWindow(p.WindowId, p.Direction, p.Screen)
		if !ok {
			return NewErrorResponse("move failed")
		}
		resp, _ := NewOKResponse(target)
		return resp

	case CommandFocusWindow:
		var p DirectionPayload
		if err := unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		target, ok := s.core.FocusWindow(p.WindowId, p.Direction, p.Screen)
		if !ok {
			return NewErrorResponse("no window in that direction")
		}
		resp, _ := NewOKResponse(WindowPayload{WindowId: target})
		return resp

	case CommandSwapWindow:
		var p DirectionPayload
		if err := unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		moves, ok := s.core.SwapWindow(p.WindowId, p.Direction, p.Screen)
		if !ok {
			return NewErrorResponse("swap failed")
		}
		resp, _ := NewOKResponse(moves)
		return resp

	case CommandPushWindow:
		var p DirectionPayload
		if err := unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		target, ok := s.core.PushWindowToEdge(p.WindowId, p.Direction, p.Screen)
		if !ok {
			return NewErrorResponse("push failed")
		}
		resp, _ := NewOKResponse(target)
		return resp

	case CommandSnapByNumber:
		var p NumberPayload
		if err := unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		target, ok := s.core.SnapWindowByNumber(p.WindowId, p.Number, p.Screen)
		if !ok {
			return NewErrorResponse("no such zone")
		}
		resp, _ := NewOKResponse(target)
		return resp

	case CommandCycleWindows:
		var p CyclePayload
		if err := unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		resp, _ := NewOKResponse(s.core.CycleWindows(p.Clockwise, p.Screen))
		return resp

	case CommandPromoteMaster:
		var p WindowPayload
		if err := unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		resp, _ := NewOKResponse(s.core.PromoteMaster(p.WindowId, p.Screen))
		return resp

	case CommandAdjustRatio:
		var p RatioPayload
		if err := unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		resp, _ := NewOKResponse(s.core.AdjustMasterRatio(p.Screen, p.Delta))
		return resp

	case CommandResnap:
		resp, _ := NewOKResponse(s.core.ResnapToNewLayout())
		return resp

	case CommandSnapAll:
		var p ScreenPayload
		if err := unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		count := s.core.SnapAllWindows(p.Screen)
		resp, _ := NewOKResponse(map[string]int{"snapped": count})
		return resp

	case CommandSetLayout:
		var p LayoutPayload
		if err := unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		layout := p.Layout
		s.core.SetActiveLayout(p.Screen, &layout)
		resp, _ := NewOKResponse(nil)
		return resp

	case CommandUpdateScreens:
		var p ScreensPayload
		if err := unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		if s.Screens == nil {
			return NewErrorResponse("daemon does not accept screen updates")
		}
		s.Screens.Update(p.Screens)
		if p.Cursor != "" {
			s.Screens.SetCursor(p.Cursor)
		}
		resp, _ := NewOKResponse(nil)
		return resp

	case CommandPanelsReady:
		s.core.PanelGeometryChanged()
		resp, _ := NewOKResponse(nil)
		return resp

	case CommandCursorScreen:
		var p ScreenPayload
		if err := unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		if s.Screens != nil {
			s.Screens.SetCursor(p.Screen)
		}
		s.core.CursorScreenChanged(p.Screen)
		resp, _ := NewOKResponse(nil)
		return resp

	case CommandWindowOpened:
		var p AutoSnapPayload
		if err := unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		handled, _ := s.core.AutoTileWindowOpened(p.WindowId, p.Screen, p.Sticky)
		resp, _ := NewOKResponse(HandledData{Handled: handled})
		return resp

	case CommandWindowMinimize:
		var p MinimizePayload
		if err := unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		s.core.AutoTileWindowMinimized(p.WindowId, p.Minimized)
		resp, _ := NewOKResponse(nil)
		return resp

	case CommandWindowActive:
		var p WindowPayload
		if err := unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		s.core.WindowActivated(p.WindowId, p.Screen)
		resp, _ := NewOKResponse(nil)
		return resp

	case CommandPreSnapStore:
		var p GeometryPayload
		if err := unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		s.core.StorePreSnapGeometry(p.WindowId, p.Rect)
		resp, _ := NewOKResponse(nil)
		return resp

	case CommandPreSnapGet:
		var p WindowPayload
		if err := unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		rect, found := s.core.ValidatedPreSnapGeometry(p.WindowId)
		resp, _ := NewOKResponse(RectData{Rect: rect, Found: found})
		return resp

	case CommandPreSnapClear:
		var p WindowPayload
		if err := unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		s.core.ClearPreSnapGeometry(p.WindowId)
		resp, _ := NewOKResponse(nil)
		return resp

	case CommandUnfloatRestore:
		var p WindowPayload
		if err := unmarshal(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		res := s.core.CalculateUnfloatRestore(p.WindowId, p.Screen)
		resp, _ := NewOKResponse(SnapResultData{
			ShouldSnap: res.ShouldSnap, ZoneIds: res.ZoneIds, Rect: res.Rect, Screen: res.Screen,
		})
		return resp

	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func unmarshal(payload json.RawMessage, v interface{}) error {
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
