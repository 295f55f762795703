package facade

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/fuddlesworth/PlasmaZones-sub001/internal/autotile"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/geometry"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/settings"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/tracker"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/zone"
)

func (f *Facade) parseDirection(s, action, windowId string) (geometry.Direction, bool) {
	dir, err := geometry.ParseDirection(s)
	if err != nil {
		log.Warn().Str("direction", s).Msg("navigation dropped: bad direction")
		f.feedback(false, action, "invalid direction", windowId, "")
		return 0, false
	}
	return dir, true
}

// MoveWindow moves a window one zone in a direction and applies the result.
func (f *Facade) MoveWindow(windowId, direction, screenName string) (tracker.NavTarget, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	dir, ok := f.parseDirection(direction, "move", windowId)
	if !ok {
		return tracker.NavTarget{}, false
	}
	scr, ok := f.resolveScreen(screenName, nil)
	if !ok {
		f.feedback(false, "move", "no screen", windowId, screenName)
		return tracker.NavTarget{}, false
	}
	target, ok := f.track.CalculateMoveTarget(windowId, dir, scr.Name)
	if !ok {
		f.feedback(false, "move", "no layout", windowId, scr.Name)
		return tracker.NavTarget{}, false
	}
	f.applyTarget(target)
	f.feedback(true, "move", "", windowId, scr.Name)
	return target, true
}

// FocusWindow returns the window to focus in a direction; the caller
// performs the actual focus switch.
func (f *Facade) FocusWindow(activeWindow, direction, screenName string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	dir, ok := f.parseDirection(direction, "focus", activeWindow)
	if !ok {
		return "", false
	}
	scr, ok := f.resolveScreen(screenName, nil)
	if !ok {
		f.feedback(false, "focus", "no screen", activeWindow, screenName)
		return "", false
	}
	target, ok := f.track.CalculateFocusTarget(activeWindow, dir, scr.Name)
	if !ok {
		f.feedback(false, "focus", "no window in direction", activeWindow, scr.Name)
		return "", false
	}
	f.feedback(true, "focus", "", target, scr.Name)
	return target, true
}

// SwapWindow exchanges a window with the occupants of the adjacent zone.
func (f *Facade) SwapWindow(windowId, direction, screenName string) ([]tracker.NavTarget, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	dir, ok := f.parseDirection(direction, "swap", windowId)
	if !ok {
		return nil, false
	}
	scr, ok := f.resolveScreen(screenName, nil)
	if !ok {
		f.feedback(false, "swap", "no screen", windowId, screenName)
		return nil, false
	}
	moves, ok := f.track.CalculateSwap(windowId, dir, scr.Name)
	if !ok {
		f.feedback(false, "swap", "nothing to swap", windowId, scr.Name)
		return nil, false
	}
	for _, m := range moves {
		f.applyTarget(m)
	}
	f.feedback(true, "swap", "", windowId, scr.Name)
	return moves, true
}

// PushWindowToEdge moves a window to the outermost zone in a direction.
func (f *Facade) PushWindowToEdge(windowId, direction, screenName string) (tracker.NavTarget, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	dir, ok := f.parseDirection(direction, "push", windowId)
	if !ok {
		return tracker.NavTarget{}, false
	}
	scr, ok := f.resolveScreen(screenName, nil)
	if !ok {
		f.feedback(false, "push", "no screen", windowId, screenName)
		return tracker.NavTarget{}, false
	}
	target, ok := f.track.CalculatePushToEdge(windowId, dir, scr.Name)
	if !ok {
		f.feedback(false, "push", "no layout", windowId, scr.Name)
		return tracker.NavTarget{}, false
	}
	f.applyTarget(target)
	f.feedback(true, "push", "", windowId, scr.Name)
	return target, true
}

// SnapWindowByNumber snaps a window into the zone with the given number.
func (f *Facade) SnapWindowByNumber(windowId string, number int, screenName string) (tracker.NavTarget, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	scr, ok := f.resolveScreen(screenName, nil)
	if !ok {
		f.feedback(false, "snapByNumber", "no screen", windowId, screenName)
		return tracker.NavTarget{}, false
	}
	target, ok := f.track.CalculateSnapByNumber(windowId, number, scr.Name)
	if !ok {
		f.feedback(false, "snapByNumber", "no such zone", windowId, scr.Name)
		return tracker.NavTarget{}, false
	}
	f.applyTarget(target)
	f.feedback(true, "snapByNumber", "", windowId, scr.Name)
	return target, true
}

// CycleWindows rotates every zone's occupants to the neighboring zone.
func (f *Facade) CycleWindows(clockwise bool, screenName string) []tracker.NavTarget {
	f.mu.Lock()
	defer f.mu.Unlock()
	scr, ok := f.resolveScreen(screenName, nil)
	if !ok {
		f.feedback(false, "cycle", "no screen", "", screenName)
		return nil
	}
	moves := f.track.CalculateRotation(clockwise, scr.Name)
	if len(moves) == 0 {
		f.feedback(false, "cycle", "nothing to rotate", "", scr.Name)
		return nil
	}
	for _, m := range moves {
		f.applyTarget(m)
	}
	f.feedback(true, "cycle", "", "", scr.Name)
	return moves
}

// applyTarget assigns the window to its target zones and emits the move
// directive for the effect to execute. Assumes f.mu is held.
func (f *Facade) applyTarget(t tracker.NavTarget) {
	desktop, _ := f.track.Desktop(t.WindowId)
	f.track.RecordSnapIntent(t.WindowId, true)
	f.track.Assign(t.WindowId, t.TargetZones, t.Screen, desktop)
	f.publishDirective(t.WindowId, t.TargetZones, t.Rect)
	f.requestSave()
}

// AutoTileWindowOpened offers a new window to the scheduler. Not handled
// means the caller continues with the static snap path.
func (f *Facade) AutoTileWindowOpened(windowId, screenName string, sticky bool) (bool, []autotile.Assignment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if windowId == "" {
		return false, nil
	}
	if sticky && f.getSettings().StickyWindowHandling != settings.StickyHandleAll {
		return false, nil
	}
	scr, ok := f.resolveScreen(screenName, nil)
	if !ok {
		return false, nil
	}
	handled, assignments := f.sched.WindowOpened(windowId, scr.Name)
	if handled {
		f.publish(Event{Kind: EventAutoTileGeometries, Screen: scr.Name, Assignments: assignments})
		f.requestSave()
	}
	return handled, assignments
}

// AutoTileWindowMinimized forwards minimize state to the scheduler.
func (f *Facade) AutoTileWindowMinimized(windowId string, minimized bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sched.WindowMinimized(windowId, minimized)
}

// PromoteMaster makes the window the master of its screen's tile set.
func (f *Facade) PromoteMaster(windowId, screenName string) []autotile.Assignment {
	f.mu.Lock()
	defer f.mu.Unlock()
	scr, ok := f.resolveScreen(screenName, nil)
	if !ok {
		return nil
	}
	as := f.sched.PromoteMaster(windowId, scr.Name)
	if as != nil {
		f.requestSave()
	}
	return as
}

// AdjustMasterRatio nudges the dynamic layout's master share.
func (f *Facade) AdjustMasterRatio(screenName string, delta float64) []autotile.Assignment {
	f.mu.Lock()
	defer f.mu.Unlock()
	scr, ok := f.resolveScreen(screenName, nil)
	if !ok {
		return nil
	}
	as := f.sched.AdjustMasterRatio(scr.Name, delta)
	if as != nil {
		f.requestSave()
	}
	return as
}

// ResnapToNewLayout maps the buffered assignments of a replaced layout
// into the current one and applies them.
func (f *Facade) ResnapToNewLayout() []tracker.ResnapAssignment {
	f.mu.Lock()
	defer f.mu.Unlock()
	resnaps := f.track.CalculateResnapFromPreviousLayout()
	for _, r := range resnaps {
		f.track.MarkAutoSnapped(r.WindowId)
		f.track.Assign(r.WindowId, r.ZoneIds, r.Screen, r.Desktop)
		f.publishDirective(r.WindowId, r.ZoneIds, r.Rect)
	}
	if len(resnaps) > 0 {
		f.requestSave()
	}
	return resnaps
}

// SnapAllWindows re-emits move directives for every assigned window on a
// screen, snapping them back into their zones after a geometry upheaval.
func (f *Facade) SnapAllWindows(screenName string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	scr, ok := f.resolveScreen(screenName, nil)
	if !ok {
		return 0
	}
	layout := f.layouts[scr.Name]
	if layout == nil {
		return 0
	}
	s := f.getSettings()
	windows := f.track.AssignedWindows(scr.Name)
	sort.Strings(windows)
	count := 0
	for _, w := range windows {
		zones := f.track.Zones(w)
		rect, found := layout.CombinedRect(zones, scr.Available, zone.Gaps{Inner: s.InnerGap, Outer: s.OuterGap}, s.GapThreshold)
		if !found {
			continue
		}
		f.publishDirective(w, zones, rect)
		count++
	}
	return count
}
