package mcp

// ListZonesInput is the input for the list_zones tool.
type ListZonesInput struct {
	Screen string `json:"screen,omitempty" jsonschema:"Screen name (default: screen under the cursor)"`
}

// ZoneEntry describes one zone with its resolved pixel rect.
type ZoneEntry struct {
	Id     string `json:"id"`
	Number int    `json:"number"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ListZonesOutput is the output for the list_zones tool.
type ListZonesOutput struct {
	Screen string      `json:"screen,omitempty"`
	Zones  []ZoneEntry `json:"zones"`
}

// SnapWindowInput is the input for the snap_window tool.
type SnapWindowInput struct {
	WindowId string   `json:"window_id" jsonschema:"required,Window identifier (class:resource:instance)"`
	ZoneIds  []string `json:"zone_ids" jsonschema:"required,Zone ids the window should span"`
	Screen   string   `json:"screen,omitempty" jsonschema:"Screen name (default: screen under the cursor)"`
	Desktop  int      `json:"desktop,omitempty" jsonschema:"Virtual desktop number; 0 means sticky/unknown"`
}

// SnapWindowOutput is the output for the snap_window tool.
type SnapWindowOutput struct {
	Snapped bool `json:"snapped"`
}

// UnsnapWindowInput is the input for the unsnap_window tool.
type UnsnapWindowInput struct {
	WindowId string `json:"window_id" jsonschema:"required,Window identifier to release from its zones"`
}

// UnsnapWindowOutput is the output for the unsnap_window tool.
type UnsnapWindowOutput struct {
	Unsnapped bool `json:"unsnapped"`
}

// WindowStateInput is the input for the window_state tool.
type WindowStateInput struct {
	WindowId string `json:"window_id" jsonschema:"required,Window identifier to inspect"`
}

// WindowStateOutput is the output for the window_state tool.
type WindowStateOutput struct {
	WindowId string   `json:"window_id"`
	Zones    []string `json:"zones,omitempty"`
	Screen   string   `json:"screen,omitempty"`
	Desktop  int      `json:"desktop,omitempty"`
	Floating bool     `json:"floating"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	WindowId  string `json:"window_id" jsonschema:"required,Window identifier to move"`
	Direction string `json:"direction" jsonschema:"required,Direction to move: left, right, up or down"`
	Screen    string `json:"screen,omitempty" jsonschema:"Screen name (default: screen under the cursor)"`
}

// MoveWindowOutput is the output for the move_window tool.
type MoveWindowOutput struct {
	Moved bool `json:"moved"`
}

// PromoteMasterInput is the input for the promote_master tool.
type PromoteMasterInput struct {
	WindowId string `json:"window_id" jsonschema:"required,Window identifier to promote to master"`
	Screen   string `json:"screen,omitempty" jsonschema:"Screen name (default: screen under the cursor)"`
}

// PromoteMasterOutput is the output for the promote_master tool.
type PromoteMasterOutput struct {
	Promoted bool `json:"promoted"`
}

// AdjustRatioInput is the input for the adjust_master_ratio tool.
type AdjustRatioInput struct {
	Delta  float64 `json:"delta" jsonschema:"required,Master ratio delta, e.g. 0.05 or -0.05"`
	Screen string  `json:"screen,omitempty" jsonschema:"Screen name (default: screen under the cursor)"`
}

// AdjustRatioOutput is the output for the adjust_master_ratio tool.
type AdjustRatioOutput struct {
	Adjusted bool `json:"adjusted"`
}

// TrackerStatusInput is the input for the tracker_status tool.
type TrackerStatusInput struct{}

// ScreenSummary describes one screen in tracker_status output.
type ScreenSummary struct {
	Name         string `json:"name"`
	Layout       string `json:"layout,omitempty"`
	Dynamic      bool   `json:"dynamic"`
	Master       string `json:"master,omitempty"`
	TiledWindows int    `json:"tiled_windows"`
	ZoneCount    int    `json:"zone_count"`
}

// TrackerStatusOutput is the output for the tracker_status tool.
type TrackerStatusOutput struct {
	Screens        []ScreenSummary `json:"screens"`
	TrackedWindows int             `json:"tracked_windows"`
	PendingQueues  int             `json:"pending_queues"`
	LastUsedZone   string          `json:"last_used_zone,omitempty"`
}

// SnapAllInput is the input for the snap_all tool.
type SnapAllInput struct {
	Screen string `json:"screen,omitempty" jsonschema:"Screen name (default: screen under the cursor)"`
}

// SnapAllOutput is the output for the snap_all tool.
type SnapAllOutput struct {
	Snapped int `json:"snapped"`
}

// CycleWindowsInput is the input for the cycle_windows tool.
type CycleWindowsInput struct {
	Clockwise bool   `json:"clockwise,omitempty" jsonschema:"Rotate occupants clockwise (default: counter-clockwise)"`
	Screen    string `json:"screen,omitempty" jsonschema:"Screen name (default: screen under the cursor)"`
}

// CycleWindowsOutput is the output for the cycle_windows tool.
type CycleWindowsOutput struct {
	Cycled bool `json:"cycled"`
}
