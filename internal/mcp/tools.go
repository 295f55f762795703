package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleListZones(_ context.Context, _ *mcpsdk.CallToolRequest, args ListZonesInput) (*mcpsdk.CallToolResult, ListZonesOutput, error) {
	zones, err := s.client.ListZones(args.Screen)
	if err != nil {
		return nil, ListZonesOutput{}, err
	}
	out := ListZonesOutput{Screen: args.Screen}
	for _, z := range zones {
		out.Zones = append(out.Zones, ZoneEntry{
			Id:     z.Id,
			Number: z.Number,
			X:      z.Rect.X,
			Y:      z.Rect.Y,
			Width:  z.Rect.Width,
			Height: z.Rect.Height,
		})
	}
	return nil, out, nil
}

func (s *Server) handleSnapWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args SnapWindowInput) (*mcpsdk.CallToolResult, SnapWindowOutput, error) {
	if args.WindowId == "" {
		return nil, SnapWindowOutput{}, fmt.Errorf("window_id is required")
	}
	if len(args.ZoneIds) == 0 {
		return nil, SnapWindowOutput{}, fmt.Errorf("zone_ids must name at least one zone")
	}
	if err := s.client.SnapWindow(args.WindowId, args.ZoneIds, args.Screen, args.Desktop); err != nil {
		return nil, SnapWindowOutput{}, err
	}
	return nil, SnapWindowOutput{Snapped: true}, nil
}

func (s *Server) handleUnsnapWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args UnsnapWindowInput) (*mcpsdk.CallToolResult, UnsnapWindowOutput, error) {
	if args.WindowId == "" {
		return nil, UnsnapWindowOutput{}, fmt.Errorf("window_id is required")
	}
	if err := s.client.UnsnapWindow(args.WindowId); err != nil {
		return nil, UnsnapWindowOutput{}, err
	}
	return nil, UnsnapWindowOutput{Unsnapped: true}, nil
}

func (s *Server) handleWindowState(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowStateInput) (*mcpsdk.CallToolResult, WindowStateOutput, error) {
	if args.WindowId == "" {
		return nil, WindowStateOutput{}, fmt.Errorf("window_id is required")
	}
	st, err := s.client.GetWindowState(args.WindowId)
	if err != nil {
		return nil, WindowStateOutput{}, err
	}
	return nil, WindowStateOutput{
		WindowId: st.WindowId,
		Zones:    st.Zones,
		Screen:   st.Screen,
		Desktop:  st.Desktop,
		Floating: st.Floating,
	}, nil
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, MoveWindowOutput, error) {
	if args.WindowId == "" {
		return nil, MoveWindowOutput{}, fmt.Errorf("window_id is required")
	}
	if args.Direction == "" {
		return nil, MoveWindowOutput{}, fmt.Errorf("direction is required")
	}
	if err := s.client.MoveWindow(args.WindowId, args.Direction, args.Screen); err != nil {
		return nil, MoveWindowOutput{}, err
	}
	return nil, MoveWindowOutput{Moved: true}, nil
}

func (s *Server) handlePromoteMaster(_ context.Context, _ *mcpsdk.CallToolRequest, args PromoteMasterInput) (*mcpsdk.CallToolResult, PromoteMasterOutput, error) {
	if args.WindowId == "" {
		return nil, PromoteMasterOutput{}, fmt.Errorf("window_id is required")
	}
	if err := s.client.PromoteMaster(args.WindowId, args.Screen); err != nil {
		return nil, PromoteMasterOutput{}, err
	}
	return nil, PromoteMasterOutput{Promoted: true}, nil
}

func (s *Server) handleAdjustRatio(_ context.Context, _ *mcpsdk.CallToolRequest, args AdjustRatioInput) (*mcpsdk.CallToolResult, AdjustRatioOutput, error) {
	if args.Delta == 0 {
		return nil, AdjustRatioOutput{}, fmt.Errorf("delta must be non-zero")
	}
	if err := s.client.AdjustMasterRatio(args.Screen, args.Delta); err != nil {
		return nil, AdjustRatioOutput{}, err
	}
	return nil, AdjustRatioOutput{Adjusted: true}, nil
}

func (s *Server) handleTrackerStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ TrackerStatusInput) (*mcpsdk.CallToolResult, TrackerStatusOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, TrackerStatusOutput{}, err
	}
	out := TrackerStatusOutput{
		TrackedWindows: status.TrackedWindows,
		PendingQueues:  status.PendingQueues,
		LastUsedZone:   status.LastUsedZone,
	}
	for _, scr := range status.Screens {
		out.Screens = append(out.Screens, ScreenSummary{
			Name:         scr.Name,
			Layout:       scr.LayoutName,
			Dynamic:      scr.Dynamic,
			Master:       scr.Master,
			TiledWindows: scr.TiledWindows,
			ZoneCount:    scr.ZoneCount,
		})
	}
	return nil, out, nil
}

func (s *Server) handleSnapAll(_ context.Context, _ *mcpsdk.CallToolRequest, args SnapAllInput) (*mcpsdk.CallToolResult, SnapAllOutput, error) {
	count, err := s.client.SnapAll(args.Screen)
	if err != nil {
		return nil, SnapAllOutput{}, err
	}
	return nil, SnapAllOutput{Snapped: count}, nil
}

func (s *Server) handleCycleWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args CycleWindowsInput) (*mcpsdk.CallToolResult, CycleWindowsOutput, error) {
	if err := s.client.CycleWindows(args.Clockwise, args.Screen); err != nil {
		return nil, CycleWindowsOutput{}, err
	}
	return nil, CycleWindowsOutput{Cycled: true}, nil
}
