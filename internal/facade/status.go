package facade

import (
	"sort"

	"github.com/fuddlesworth/PlasmaZones-sub001/internal/geometry"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/zone"
)

// ScreenStatus summarizes one screen for status queries.
type ScreenStatus struct {
	Name         string `json:"name"`
	Id           string `json:"id"`
	LayoutId     string `json:"layoutId,omitempty"`
	LayoutName   string `json:"layoutName,omitempty"`
	Dynamic      bool   `json:"dynamic"`
	Master       string `json:"master,omitempty"`
	TiledWindows int    `json:"tiledWindows"`
	ZoneCount    int    `json:"zoneCount"`
}

// Status is the daemon-wide summary returned to status queries.
type Status struct {
	Screens        []ScreenStatus `json:"screens"`
	TrackedWindows int            `json:"trackedWindows"`
	PendingQueues  int            `json:"pendingQueues"`
	LastUsedZone   string         `json:"lastUsedZone,omitempty"`
}

// ZoneInfo describes one zone with its resolved pixel rect.
type ZoneInfo struct {
	Id     string        `json:"id"`
	Number int           `json:"number"`
	Rect   geometry.Rect `json:"rect"`
}

// WindowState is the per-window view for state queries.
type WindowState struct {
	WindowId string        `json:"windowId"`
	Zones    []string      `json:"zones,omitempty"`
	Screen   string        `json:"screen,omitempty"`
	Desktop  int           `json:"desktop,omitempty"`
	Floating bool          `json:"floating"`
	PreSnap  *geometry.Rect `json:"preSnap,omitempty"`
}

// CurrentStatus reports the state of every known screen.
func (f *Facade) CurrentStatus() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := Status{
		TrackedWindows: len(f.track.AssignedWindows("")),
		PendingQueues:  len(f.track.PendingRestores()),
		LastUsedZone:   f.track.LastUsedZone().ZoneId,
	}
	for _, scr := range f.screens.Screens() {
		st := ScreenStatus{Name: scr.Name, Id: scr.Id}
		if l := f.layouts[scr.Name]; l != nil {
			st.LayoutId = l.Id
			st.LayoutName = l.Name
			st.Dynamic = l.Dynamic()
			st.ZoneCount = len(l.Zones)
		}
		if m, ok := f.sched.Master(scr.Name); ok {
			st.Master = m
		}
		st.TiledWindows = len(f.sched.TiledWindows(scr.Name))
		out.Screens = append(out.Screens, st)
	}
	sort.Slice(out.Screens, func(a, b int) bool { return out.Screens[a].Name < out.Screens[b].Name })
	return out
}

// ListZones resolves the active layout's zones to pixel rects.
func (f *Facade) ListZones(screenName string) []ZoneInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	scr, ok := f.resolveScreen(screenName, nil)
	if !ok {
		return nil
	}
	layout := f.layouts[scr.Name]
	if layout == nil {
		return nil
	}
	s := f.getSettings()
	rects := layout.PixelRects(scr.Available, zone.Gaps{Inner: s.InnerGap, Outer: s.OuterGap}, s.GapThreshold)
	out := make([]ZoneInfo, 0, len(layout.Zones))
	for i := range layout.Zones {
		out = append(out, ZoneInfo{
			Id:     layout.Zones[i].Id,
			Number: layout.Zones[i].Number,
			Rect:   rects[i],
		})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Number < out[b].Number })
	return out
}

// GetWindowState returns everything tracked about one window.
func (f *Facade) GetWindowState(windowId string) WindowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := WindowState{
		WindowId: windowId,
		Zones:    f.track.Zones(windowId),
		Floating: f.track.IsFloating(windowId),
	}
	st.Screen, _ = f.track.Screen(windowId)
	st.Desktop, _ = f.track.Desktop(windowId)
	if rect, ok := f.track.ValidatedPreSnap(windowId); ok {
		st.PreSnap = &rect
	}
	return st
}
