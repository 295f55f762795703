package tracker

import "github.com/fuddlesworth/PlasmaZones-sub001/internal/geometry"

// Snapshot is the plain-data view of the tracker that the persistence layer
// serializes. Keys are stable ids; screen names are still connector names
// here, the persister translates them to stable screen ids on save.
type Snapshot struct {
	Assignments map[string][]string
	Screens     map[string]string
	Desktops    map[string]int
	Layouts     map[string]string
	PreSnap     map[string]geometry.Rect
	PreFloat    map[string][]string
	PreFloatScr map[string]string
	Floating    []string
	UserSnapped []string
	LastUsed    LastUsed
}

// Snapshot captures the current state in one pass, with pending restore
// queue heads taking precedence over active assignments for the same stable
// id. Entries saved at window close describe a window that already went
// away; they must win over a snapshot of a still-open sibling.
func (t *Tracker) Snapshot() Snapshot {
	s := Snapshot{
		Assignments: make(map[string][]string),
		Screens:     make(map[string]string),
		Desktops:    make(map[string]int),
		Layouts:     make(map[string]string),
		PreSnap:     make(map[string]geometry.Rect),
		PreFloat:    make(map[string][]string),
		PreFloatScr: make(map[string]string),
		LastUsed:    t.lastUsed,
	}

	for w, zones := range t.assignments {
		stable := StableId(w)
		s.Assignments[stable] = append([]string(nil), zones...)
		s.Screens[stable] = t.windowScreens[w]
		if d := t.windowDesktops[w]; d > 0 {
			s.Desktops[stable] = d
		}
		if l := t.windowLayouts[w]; l != "" {
			s.Layouts[stable] = l
		}
	}
	for stable, queue := range t.pending {
		if len(queue) == 0 {
			continue
		}
		head := queue[0]
		s.Assignments[stable] = append([]string(nil), head.ZoneIds...)
		s.Screens[stable] = head.Screen
		if head.Desktop > 0 {
			s.Desktops[stable] = head.Desktop
		} else {
			delete(s.Desktops, stable)
		}
		if head.LayoutId != "" {
			s.Layouts[stable] = head.LayoutId
		}
	}

	for w, rect := range t.preSnap {
		s.PreSnap[StableId(w)] = rect
	}
	for stable, zones := range t.preFloatZones {
		s.PreFloat[stable] = append([]string(nil), zones...)
	}
	for stable, scr := range t.preFloatScreens {
		s.PreFloatScr[stable] = scr
	}
	for stable := range t.floating {
		s.Floating = append(s.Floating, stable)
	}
	for class := range t.userSnapped {
		s.UserSnapped = append(s.UserSnapped, class)
	}
	return s
}

// Restore seeds the tracker from a loaded snapshot. Assignments become
// pending restore queues; the rest of the maps load directly. Called once
// at startup before any window events arrive.
func (t *Tracker) Restore(s Snapshot) {
	for stable, zones := range s.Assignments {
		if len(zones) == 0 {
			continue
		}
		t.AddPendingRestore(stable, PendingRestore{
			ZoneIds:  append([]string(nil), zones...),
			Screen:   s.Screens[stable],
			Desktop:  s.Desktops[stable],
			LayoutId: s.Layouts[stable],
		})
	}
	for stable, rect := range s.PreSnap {
		if !rect.Empty() {
			t.preSnap[stable] = rect
		}
	}
	for stable, zones := range s.PreFloat {
		if len(zones) > 0 {
			t.preFloatZones[stable] = append([]string(nil), zones...)
		}
	}
	for stable, scr := range s.PreFloatScr {
		t.preFloatScreens[stable] = scr
	}
	for _, stable := range s.Floating {
		if stable != "" {
			t.floating[stable] = struct{}{}
		}
	}
	for _, class := range s.UserSnapped {
		if class != "" {
			t.userSnapped[class] = struct{}{}
		}
	}
	if s.LastUsed.ZoneId != "" {
		t.lastUsed = s.LastUsed
	}
}
