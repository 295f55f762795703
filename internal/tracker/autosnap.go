package tracker

import (
	"github.com/rs/zerolog/log"

	"github.com/fuddlesworth/PlasmaZones-sub001/internal/geometry"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/settings"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/zone"
)

// CalculateSnapToLastZone decides whether a newly opened window should be
// placed in the last zone the user snapped into. Every gate failure yields
// noSnap; nothing is mutated here. On a positive result the caller marks
// the window auto-snapped before assigning, so LastUsed stays untouched.
func (t *Tracker) CalculateSnapToLastZone(windowId, screenName string, desktop int, sticky bool) SnapResult {
	s := t.getSettings()
	if !s.MoveNewWindowsToLastZone {
		return noSnap
	}
	if sticky && s.StickyWindowHandling != settings.StickyHandleAll {
		return noSnap
	}
	if t.lastUsed.ZoneId == "" {
		return noSnap
	}
	if t.IsFloating(windowId) {
		return noSnap
	}
	if _, ok := t.userSnapped[ClassOf(windowId)]; !ok {
		return noSnap
	}
	if screenName != "" && t.lastUsed.Screen != "" && screenName != t.lastUsed.Screen {
		return noSnap
	}
	if !sticky && t.lastUsed.Desktop != 0 && desktop != t.lastUsed.Desktop {
		return noSnap
	}

	target := t.lastUsed.Screen
	if target == "" {
		target = screenName
	}
	rect, ok := t.zoneRect(target, []string{t.lastUsed.ZoneId}, s)
	if !ok {
		return noSnap
	}
	return SnapResult{
		ShouldSnap: true,
		ZoneIds:    []string{t.lastUsed.ZoneId},
		Rect:       rect,
		Screen:     target,
	}
}

// CalculateRestoreFromSession pops the head of the pending restore queue
// for the window's stable id and turns it into a snap result. The entry is
// consumed even when the geometry lookup fails: the queue entry belongs to
// this window instance, and keeping a stale head would misplace the next
// window of the same application.
func (t *Tracker) CalculateRestoreFromSession(windowId, screenName string, sticky bool) SnapResult {
	s := t.getSettings()
	if !s.RestoreWindowsOnRestart {
		return noSnap
	}
	if sticky && s.StickyWindowHandling == settings.StickyIgnoreAll {
		return noSnap
	}
	if t.IsFloating(windowId) {
		return noSnap
	}

	stable := StableId(windowId)
	queue := t.pending[stable]
	if len(queue) == 0 {
		return noSnap
	}
	entry := queue[0]
	if len(queue) == 1 {
		delete(t.pending, stable)
	} else {
		t.pending[stable] = queue[1:]
	}

	target := entry.Screen
	if target == "" {
		target = screenName
	}
	layout := t.layouts.ActiveLayout(target)
	if layout == nil {
		log.Debug().Str("window", windowId).Str("screen", target).
			Msg("session restore skipped: no active layout")
		return noSnap
	}
	if entry.LayoutId != "" && entry.LayoutId != layout.Id {
		log.Debug().Str("window", windowId).Str("saved", entry.LayoutId).
			Str("active", layout.Id).Msg("session restore skipped: layout changed")
		return noSnap
	}
	rect, ok := t.zoneRect(target, entry.ZoneIds, s)
	if !ok {
		return noSnap
	}
	return SnapResult{
		ShouldSnap: true,
		ZoneIds:    append([]string(nil), entry.ZoneIds...),
		Rect:       rect,
		Screen:     target,
		Desktop:    entry.Desktop,
	}
}

// zoneRect resolves zone ids to a combined pixel rect on a screen.
func (t *Tracker) zoneRect(screenName string, zoneIds []string, s settings.Settings) (geometry.Rect, bool) {
	layout := t.layouts.ActiveLayout(screenName)
	if layout == nil {
		return geometry.Rect{}, false
	}
	scr, ok := t.screens.ScreenByName(screenName)
	if !ok {
		return geometry.Rect{}, false
	}
	gaps := zone.Gaps{Inner: s.InnerGap, Outer: s.OuterGap}
	return layout.CombinedRect(zoneIds, scr.Available, gaps, s.GapThreshold)
}
