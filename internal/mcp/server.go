package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fuddlesworth/PlasmaZones-sub001/internal/ipc"
)

const (
	ServerName    = "plasmazones"
	ServerVersion = "0.1.0"
)

// Server exposes the zone manager over the Model Context Protocol. Every
// tool call is forwarded to the daemon through its IPC socket, so the MCP
// process carries no state of its own.
type Server struct {
	mcpServer *mcpsdk.Server
	client    *ipc.Client
}

// NewServer creates an MCP server talking to the daemon's default socket.
func NewServer() *Server {
	return NewServerWith(ipc.NewClient())
}

// NewServerWith creates an MCP server against an explicit IPC client.
func NewServerWith(client *ipc.Client) *Server {
	s := &Server{client: client}
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
		Name:        "list_zones",
		Description: "List the active layout's zones on a screen with their resolved pixel rectangles. Defaults to the screen under the cursor.",
	}, s.handleListZones)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "snap_window",
		Description: "Snap a window into one or more zones of the active layout. Multi-zone snaps span the bounding rectangle of the listed zones.",
	}, s.handleSnapWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "unsnap_window",
		Description: "Release a window from its zones. The window keeps its pre-snap geometry record so a later restore can return it to its original size.",
	}, s.handleUnsnapWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "window_state",
		Description: "Inspect the tracked state of a window: zones, screen, desktop and floating flag.",
	}, s.handleWindowState)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Move a snapped window one zone in a direction (left, right, up, down), wrapping to the far edge when no zone lies further that way.",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "promote_master",
		Description: "Promote a window to the master position of its screen's dynamic layout.",
	}, s.handlePromoteMaster)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "adjust_master_ratio",
		Description: "Adjust the master area share of a screen's dynamic layout by a delta. The ratio is clamped to a sane range.",
	}, s.handleAdjustRatio)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tracker_status",
		Description: "Report per-screen layout state, tiled window counts and pending restore queues.",
	}, s.handleTrackerStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "snap_all",
		Description: "Re-emit placement directives for every assigned window on a screen, realigning windows with their zones.",
	}, s.handleSnapAll)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "cycle_windows",
		Description: "Rotate zone occupants one position around the active layout.",
	}, s.handleCycleWindows)
}
