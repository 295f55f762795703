// Package ipc carries the daemon's request/response protocol over a unix
// socket: one JSON request per line, one JSON response per line, plus a
// subscribe mode that streams facade events as JSON lines.
package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/fuddlesworth/PlasmaZones-sub001/internal/geometry"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/screen"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/zone"
)

// CommandType enumerates IPC commands.
type CommandType string

const (
	CommandGetStatus      CommandType = "GET_STATUS"
	CommandListZones      CommandType = "LIST_ZONES"
	CommandWindowState    CommandType = "WINDOW_STATE"
	CommandSnapWindow     CommandType = "SNAP_WINDOW"
	CommandUnsnapWindow   CommandType = "UNSNAP_WINDOW"
	CommandWindowClosed   CommandType = "WINDOW_CLOSED"
	CommandSetFloating    CommandType = "SET_FLOATING"
	CommandSnapLastZone   CommandType = "SNAP_LAST_ZONE"
	CommandRestoreSession CommandType = "RESTORE_SESSION"
	CommandMoveWindow     CommandType = "MOVE_WINDOW"
	CommandFocusWindow    CommandType = "FOCUS_WINDOW"
	CommandSwapWindow     CommandType = "SWAP_WINDOW"
	CommandPushWindow     CommandType = "PUSH_WINDOW"
	CommandSnapByNumber   CommandType = "SNAP_BY_NUMBER"
	CommandCycleWindows   CommandType = "CYCLE_WINDOWS"
	CommandPromoteMaster  CommandType = "PROMOTE_MASTER"
	CommandAdjustRatio    CommandType = "ADJUST_MASTER_RATIO"
	CommandResnap         CommandType = "RESNAP"
	CommandSnapAll        CommandType = "SNAP_ALL"
	CommandSubscribe      CommandType = "SUBSCRIBE"

	// Compositor-facing commands feeding state into the daemon.
	CommandSetLayout      CommandType = "SET_LAYOUT"
	CommandUpdateScreens  CommandType = "UPDATE_SCREENS"
	CommandPanelsReady    CommandType = "PANELS_READY"
	CommandCursorScreen   CommandType = "CURSOR_SCREEN"
	CommandWindowOpened   CommandType = "WINDOW_OPENED"
	CommandWindowMinimize CommandType = "WINDOW_MINIMIZED"
	CommandWindowActive   CommandType = "WINDOW_ACTIVATED"
	CommandPreSnapStore   CommandType = "PRESNAP_STORE"
	CommandPreSnapGet     CommandType = "PRESNAP_GET"
	CommandPreSnapClear   CommandType = "PRESNAP_CLEAR"
	CommandUnfloatRestore CommandType = "UNFLOAT_RESTORE"
)

// Request is one client request.
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is the server's answer.
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// WindowPayload addresses a window, optionally with a screen hint.
type WindowPayload struct {
	WindowId string `json:"window_id"`
	Screen   string `json:"screen,omitempty"`
}

// SnapPayload requests a snap into explicit zones.
type SnapPayload struct {
	WindowId string   `json:"window_id"`
	ZoneIds  []string `json:"zone_ids"`
	Screen   string   `json:"screen,omitempty"`
	Desktop  int      `json:"desktop,omitempty"`
}

// FloatPayload toggles floating state.
type FloatPayload struct {
	WindowId string `json:"window_id"`
	Floating bool   `json:"floating"`
}

// AutoSnapPayload drives the snap-to-last and session-restore paths.
type AutoSnapPayload struct {
	WindowId string `json:"window_id"`
	Screen   string `json:"screen,omitempty"`
	Desktop  int    `json:"desktop,omitempty"`
	Sticky   bool   `json:"sticky,omitempty"`
}

// DirectionPayload is shared by the navigation commands.
type DirectionPayload struct {
	WindowId  string `json:"window_id,omitempty"`
	Direction string `json:"direction"`
	Screen    string `json:"screen,omitempty"`
}

// NumberPayload snaps a window by zone number.
type NumberPayload struct {
	WindowId string `json:"window_id"`
	Number   int    `json:"number"`
	Screen   string `json:"screen,omitempty"`
}

// CyclePayload rotates zone occupants.
type CyclePayload struct {
	Clockwise bool   `json:"clockwise"`
	Screen    string `json:"screen,omitempty"`
}

// RatioPayload adjusts the master ratio of a dynamic layout.
type RatioPayload struct {
	Screen string  `json:"screen,omitempty"`
	Delta  float64 `json:"delta"`
}

// ScreenPayload addresses a screen.
type ScreenPayload struct {
	Screen string `json:"screen,omitempty"`
}

// LayoutPayload installs an active layout on a screen.
type LayoutPayload struct {
	Screen string      `json:"screen"`
	Layout zone.Layout `json:"layout"`
}

// ScreensPayload replaces the known screen set.
type ScreensPayload struct {
	Screens []screen.Screen `json:"screens"`
	Cursor  string          `json:"cursor,omitempty"`
}

// MinimizePayload reports a minimize state change.
type MinimizePayload struct {
	WindowId  string `json:"window_id"`
	Minimized bool   `json:"minimized"`
}

// GeometryPayload carries a window rectangle, e.g. its pre-snap geometry.
type GeometryPayload struct {
	WindowId string        `json:"window_id"`
	Rect     geometry.Rect `json:"rect"`
}

// RectData is a rect lookup result.
type RectData struct {
	Rect  geometry.Rect `json:"rect"`
	Found bool          `json:"found"`
}

// HandledData reports whether auto-tile took ownership of a window.
type HandledData struct {
	Handled bool `json:"handled"`
}

// SnapResultData mirrors the facade's snap decision for clients.
type SnapResultData struct {
	ShouldSnap bool          `json:"should_snap"`
	ZoneIds    []string      `json:"zone_ids,omitempty"`
	Rect       geometry.Rect `json:"rect"`
	Screen     string        `json:"screen,omitempty"`
}

// NewOKResponse creates a successful response with optional data.
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}
	return &Response{Status: "OK", Data: dataBytes}, nil
}

// NewErrorResponse creates an error response with a message.
func NewErrorResponse(errMsg string) *Response {
	return &Response{Status: "ERROR", Error: errMsg}
}

// ParseRequest parses a request from JSON bytes.
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes.
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
