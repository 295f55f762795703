package facade

import (
	"github.com/rs/zerolog/log"

	"github.com/fuddlesworth/PlasmaZones-sub001/internal/geometry"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/tracker"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/zone"
)

// WindowSnapped records a user-initiated snap into one or more zones.
func (f *Facade) WindowSnapped(windowId string, zoneIds []string, screenName string, desktop int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if windowId == "" || len(zoneIds) == 0 {
		log.Warn().Str("window", windowId).Msg("snap dropped: empty input")
		return false
	}
	scr, ok := f.resolveScreen(screenName, nil)
	if !ok {
		log.Warn().Str("window", windowId).Msg("snap dropped: no screen")
		return false
	}
	layout := f.layouts[scr.Name]
	if layout == nil {
		log.Debug().Str("screen", scr.Name).Msg("snap dropped: no layout")
		return false
	}
	for _, id := range zoneIds {
		if layout.ZoneById(id) == nil {
			log.Debug().Str("zone", id).Msg("snap dropped: unknown zone")
			return false
		}
	}
	f.track.RecordSnapIntent(windowId, true)
	f.track.Assign(windowId, zoneIds, scr.Name, desktop)
	f.requestSave()
	return true
}

// WindowUnsnapped removes a window's assignment.
func (f *Facade) WindowUnsnapped(windowId string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if windowId == "" {
		return
	}
	f.track.Unassign(windowId)
	f.requestSave()
}

// WindowClosed runs the close path through both the tracker and the
// auto-tile scheduler.
func (f *Facade) WindowClosed(windowId string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if windowId == "" {
		return
	}
	f.sched.WindowClosed(windowId)
	f.track.Closed(windowId)
	f.requestSave()
}

// WindowActivated tracks the screen of the active window as a resolution
// fallback.
func (f *Facade) WindowActivated(windowId, screenName string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if screenName != "" {
		f.lastActive = screenName
	}
}

// StorePreSnapGeometry remembers the geometry a window had before its
// first snap.
func (f *Facade) StorePreSnapGeometry(windowId string, rect geometry.Rect) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.track.StorePreSnap(windowId, rect)
	f.requestSave()
}

// ValidatedPreSnapGeometry returns the restore geometry, adjusted to stay
// visible on a current screen.
func (f *Facade) ValidatedPreSnapGeometry(windowId string) (geometry.Rect, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.track.ValidatedPreSnap(windowId)
}

// ClearPreSnapGeometry drops the stored restore geometry.
func (f *Facade) ClearPreSnapGeometry(windowId string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.track.ClearPreSnap(windowId)
	f.requestSave()
}

// SetWindowFloating toggles float state; reports whether anything changed.
func (f *Facade) SetWindowFloating(windowId string, floating bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if windowId == "" {
		return false
	}
	changed := f.track.SetFloating(windowId, floating)
	if changed {
		f.requestSave()
	}
	return changed
}

// CalculateUnfloatRestore resolves the remembered pre-float destination.
// The caller applies the geometry and then reports the snap back through
// WindowSnapped; the remembered destination is consumed here.
func (f *Facade) CalculateUnfloatRestore(windowId, screenName string) tracker.SnapResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	zones, savedScreen, ok := f.track.PreFloat(windowId)
	if !ok {
		return tracker.SnapResult{}
	}
	target := savedScreen
	if target == "" {
		target = screenName
	}
	scr, found := f.resolveScreen(target, nil)
	if !found {
		return tracker.SnapResult{}
	}
	layout := f.layouts[scr.Name]
	if layout == nil {
		return tracker.SnapResult{}
	}
	s := f.getSettings()
	rect, found := layout.CombinedRect(zones, scr.Available, zone.Gaps{Inner: s.InnerGap, Outer: s.OuterGap}, s.GapThreshold)
	if !found {
		return tracker.SnapResult{}
	}
	f.track.ClearPreFloat(windowId)
	return tracker.SnapResult{ShouldSnap: true, ZoneIds: zones, Rect: rect, Screen: scr.Name}
}

// SnapToLastZone runs the auto-snap decision for a newly opened window and
// applies the assignment on success.
func (f *Facade) SnapToLastZone(windowId, screenName string, desktop int, sticky bool) tracker.SnapResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := f.track.CalculateSnapToLastZone(windowId, screenName, desktop, sticky)
	if !res.ShouldSnap {
		return res
	}
	f.track.MarkAutoSnapped(windowId)
	f.track.Assign(windowId, res.ZoneIds, res.Screen, desktop)
	f.publishDirective(windowId, res.ZoneIds, res.Rect)
	f.requestSave()
	return res
}

// RestoreToPersistedZone consumes the window's pending session restore.
func (f *Facade) RestoreToPersistedZone(windowId, screenName string, sticky bool) tracker.SnapResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := f.track.CalculateRestoreFromSession(windowId, screenName, sticky)
	if !res.ShouldSnap {
		return res
	}
	f.track.MarkAutoSnapped(windowId)
	f.track.Assign(windowId, res.ZoneIds, res.Screen, res.Desktop)
	f.publishDirective(windowId, res.ZoneIds, res.Rect)
	f.requestSave()
	return res
}

func (f *Facade) publishDirective(windowId string, zoneIds []string, rect geometry.Rect) {
	r := rect
	ev := Event{
		Kind:     EventMoveWindowToZone,
		WindowId: windowId,
		ZoneIds:  zoneIds,
		Rect:     &r,
	}
	if len(zoneIds) > 0 {
		ev.ZoneId = zoneIds[0]
	}
	f.publish(ev)
}
