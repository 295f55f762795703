package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/fuddlesworth/PlasmaZones-sub001/internal/facade"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/geometry"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/runtimepath"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/screen"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/zone"
)

// Client talks to the daemon over the unix socket.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client against the default socket path.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return &Client{socketPath: socketPath, timeout: 5 * time.Second}
}

// NewClientAt creates a client against an explicit socket path.
func NewClientAt(socketPath string) *Client {
	return &Client{socketPath: socketPath, timeout: 5 * time.Second}
}

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
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return &resp, nil
}

func (c *Client) call(cmd CommandType, payload interface{}, out interface{}) error {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		req.Payload = data
	}
	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out != nil && len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, out); err != nil {
			return fmt.Errorf("failed to parse response data: %w", err)
		}
	}
	return nil
}

// GetStatus retrieves daemon status.
func (c *Client) GetStatus() (*facade.Status, error) {
	var status facade.Status
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListZones retrieves the active layout's zones for a screen.
func (c *Client) ListZones(screen string) ([]facade.ZoneInfo, error) {
	var zones []facade.ZoneInfo
	if err := c.call(CommandListZones, ScreenPayload{Screen: screen}, &zones); err != nil {
		return nil, err
	}
	return zones, nil
}

// GetWindowState retrieves the tracked state of one window.
func (c *Client) GetWindowState(windowId string) (*facade.WindowState, error) {
	var st facade.WindowState
	if err := c.call(CommandWindowState, WindowPayload{WindowId: windowId}, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// SnapWindow snaps a window into explicit zones.
func (c *Client) SnapWindow(windowId string, zoneIds []string, screen string, desktop int) error {
	return c.call(CommandSnapWindow, SnapPayload{
		WindowId: windowId, ZoneIds: zoneIds, Screen: screen, Desktop: desktop,
	}, nil)
}

// UnsnapWindow removes a window's assignment.
func (c *Client) UnsnapWindow(windowId string) error {
	return c.call(CommandUnsnapWindow, WindowPayload{WindowId: windowId}, nil)
}

// WindowClosed reports a window close so its assignment is queued for
// restore on the next instance.
func (c *Client) WindowClosed(windowId string) error {
	return c.call(CommandWindowClosed, WindowPayload{WindowId: windowId}, nil)
}

// SetFloating toggles a window's floating state.
func (c *Client) SetFloating(windowId string, floating bool) error {
	return c.call(CommandSetFloating, FloatPayload{WindowId: windowId, Floating: floating}, nil)
}

// SnapLastZone asks the daemon whether a new window should be auto
// placed into its class's last used zone.
func (c *Client) SnapLastZone(windowId, screen string, desktop int, sticky bool) (*SnapResultData, error) {
	var res SnapResultData
	if err := c.call(CommandSnapLastZone, AutoSnapPayload{
		WindowId: windowId, Screen: screen, Desktop: desktop, Sticky: sticky,
	}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// RestoreSession asks the daemon whether a new window has a persisted
// assignment from a previous session.
func (c *Client) RestoreSession(windowId, screen string, desktop int, sticky bool) (*SnapResultData, error) {
	var res SnapResultData
	if err := c.call(CommandRestoreSession, AutoSnapPayload{
		WindowId: windowId, Screen: screen, Desktop: desktop, Sticky: sticky,
	}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// MoveWindow moves a window one zone in the given direction.
func (c *Client) MoveWindow(windowId, direction, screen string) error {
	return c.call(CommandMoveWindow, DirectionPayload{WindowId: windowId, Direction: direction, Screen: screen}, nil)
}

// FocusWindow focuses the occupant of the adjacent zone.
func (c *Client) FocusWindow(windowId, direction, screen string) error {
	return c.call(CommandFocusWindow, DirectionPayload{WindowId: windowId, Direction: direction, Screen: screen}, nil)
}

// SwapWindow swaps a window with the occupants of the adjacent zone.
func (c *Client) SwapWindow(windowId, direction, screen string) error {
	return c.call(CommandSwapWindow, DirectionPayload{WindowId: windowId, Direction: direction, Screen: screen}, nil)
}

// PushWindow pushes a window to the furthest zone in the direction.
func (c *Client) PushWindow(windowId, direction, screen string) error {
	return c.call(CommandPushWindow, DirectionPayload{WindowId: windowId, Direction: direction, Screen: screen}, nil)
}

// SnapByNumber snaps a window into the zone with the given number.
func (c *Client) SnapByNumber(windowId string, number int, screen string) error {
	return c.call(CommandSnapByNumber, NumberPayload{WindowId: windowId, Number: number, Screen: screen}, nil)
}

// CycleWindows rotates zone occupants on a screen.
func (c *Client) CycleWindows(clockwise bool, screen string) error {
	return c.call(CommandCycleWindows, CyclePayload{Clockwise: clockwise, Screen: screen}, nil)
}

// Resnap remaps buffered assignments onto the new active layouts.
func (c *Client) Resnap() error {
	return c.call(CommandResnap, nil, nil)
}

// SnapAll re-emits placement directives for every assigned window.
func (c *Client) SnapAll(screen string) (int, error) {
	var res struct {
		Snapped int `json:"snapped"`
	}
	if err := c.call(CommandSnapAll, ScreenPayload{Screen: screen}, &res); err != nil {
		return 0, err
	}
	return res.Snapped, nil
}

// PromoteMaster makes the window the master of its tile set.
func (c *Client) PromoteMaster(windowId, screen string) error {
	return c.call(CommandPromoteMaster, WindowPayload{WindowId: windowId, Screen: screen}, nil)
}

// AdjustMasterRatio nudges a dynamic layout's master share.
func (c *Client) AdjustMasterRatio(screen string, delta float64) error {
	return c.call(CommandAdjustRatio, RatioPayload{Screen: screen, Delta: delta}, nil)
}

// SetLayout installs the active layout for a screen.
func (c *Client) SetLayout(screenName string, layout zone.Layout) error {
	return c.call(CommandSetLayout, LayoutPayload{Screen: screenName, Layout: layout}, nil)
}

// UpdateScreens replaces the daemon's known screen set.
func (c *Client) UpdateScreens(screens []screen.Screen, cursor string) error {
	return c.call(CommandUpdateScreens, ScreensPayload{Screens: screens, Cursor: cursor}, nil)
}

// PanelsReady reports that panel geometry has settled.
func (c *Client) PanelsReady() error {
	return c.call(CommandPanelsReady, nil, nil)
}

// CursorScreen reports the screen currently holding the cursor.
func (c *Client) CursorScreen(screenName string) error {
	return c.call(CommandCursorScreen, ScreenPayload{Screen: screenName}, nil)
}

// WindowOpened reports a new window for auto tiling. Returns whether the
// scheduler took ownership of its geometry.
func (c *Client) WindowOpened(windowId, screenName string, sticky bool) (bool, error) {
	var res HandledData
	if err := c.call(CommandWindowOpened, AutoSnapPayload{
		WindowId: windowId, Screen: screenName, Sticky: sticky,
	}, &res); err != nil {
		return false, err
	}
	return res.Handled, nil
}

// WindowMinimized reports a minimize state change.
func (c *Client) WindowMinimized(windowId string, minimized bool) error {
	return c.call(CommandWindowMinimize, MinimizePayload{WindowId: windowId, Minimized: minimized}, nil)
}

// WindowActivated reports focus moving to a window.
func (c *Client) WindowActivated(windowId, screenName string) error {
	return c.call(CommandWindowActive, WindowPayload{WindowId: windowId, Screen: screenName}, nil)
}

// StorePreSnap records a window's geometry before its first snap.
func (c *Client) StorePreSnap(windowId string, rect geometry.Rect) error {
	return c.call(CommandPreSnapStore, GeometryPayload{WindowId: windowId, Rect: rect}, nil)
}

// GetPreSnap fetches the validated pre-snap geometry for a window.
func (c *Client) GetPreSnap(windowId string) (geometry.Rect, bool, error) {
	var res RectData
	if err := c.call(CommandPreSnapGet, WindowPayload{WindowId: windowId}, &res); err != nil {
		return geometry.Rect{}, false, err
	}
	return res.Rect, res.Found, nil
}

// ClearPreSnap drops a window's pre-snap geometry record.
func (c *Client) ClearPreSnap(windowId string) error {
	return c.call(CommandPreSnapClear, WindowPayload{WindowId: windowId}, nil)
}

// UnfloatRestore asks where a window should return when it stops floating.
func (c *Client) UnfloatRestore(windowId, screenName string) (*SnapResultData, error) {
	var res SnapResultData
	if err := c.call(CommandUnfloatRestore, WindowPayload{WindowId: windowId, Screen: screenName}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Ping checks if the daemon is responding.
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}

// SubscribeEvents opens a long-lived connection streaming facade events.
// The handler runs for each event; SubscribeEvents returns when the
// connection drops.
func (c *Client) SubscribeEvents(handler func(facade.Event)) error {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	req, _ := json.Marshal(&Request{Command: CommandSubscribe})
	if _, err := conn.Write(append(req, '\n')); err != nil {
		return fmt.Errorf("failed to send subscribe request: %w", err)
	}

	reader := bufio.NewReader(conn)
	// First line is the OK handshake.
	if _, err := reader.ReadBytes('\n'); err != nil {
		return fmt.Errorf("failed to read subscribe ack: %w", err)
	}
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return nil
		}
		var ev facade.Event
		if err := json.Unmarshal(line, &ev); err != nil {
			continue
		}
		handler(ev)
	}
}
