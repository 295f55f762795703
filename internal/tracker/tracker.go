// Package tracker holds the authoritative window-to-zone state: which zones
// each window occupies, pre-snap geometry for restores, the floating set,
// and the session-restore queues that survive restarts.
package tracker

import (
	"github.com/rs/zerolog/log"

	"github.com/fuddlesworth/PlasmaZones-sub001/internal/geometry"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/screen"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/settings"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/zone"
)

// LayoutSource supplies the active layout for a screen. The facade owns the
// layout lifecycle; the tracker only reads through this seam.
type LayoutSource interface {
	ActiveLayout(screenName string) *zone.Layout
}

// LastUsed remembers the destination of the most recent user-initiated snap,
// the seed for "place new windows in the last used zone".
type LastUsed struct {
	ZoneId  string
	Screen  string
	Class   string
	Desktop int
}

// PendingRestore is one queued session-restore destination for a stable id.
type PendingRestore struct {
	ZoneIds  []string
	Screen   string
	Desktop  int
	LayoutId string
}

// SnapResult is the outcome of an auto-snap or restore calculation. A zero
// value means "do not snap".
type SnapResult struct {
	ShouldSnap bool          `json:"shouldSnap"`
	ZoneIds    []string      `json:"zoneIds,omitempty"`
	Rect       geometry.Rect `json:"rect"`
	Screen     string        `json:"screen,omitempty"`
	Desktop    int           `json:"desktop,omitempty"`
}

var noSnap = SnapResult{}

type resnapEntry struct {
	zoneNumbers []int
	screenName  string
	desktop     int
}

// Tracker is the window tracking state machine. It is not internally
// synchronized: all operations run on the facade's single task, matching
// the cooperative scheduling model of the whole core.
type Tracker struct {
	layouts     LayoutSource
	screens     screen.Provider
	getSettings func() settings.Settings

	assignments     map[string][]string      // windowId -> zone ids, primary first
	windowScreens   map[string]string        // windowId -> screen name
	windowDesktops  map[string]int           // windowId -> desktop, 0 = sticky
	windowLayouts   map[string]string        // windowId -> layout id at assign time
	preSnap         map[string]geometry.Rect // windowId -> geometry before first snap
	floating        map[string]struct{}      // stable ids excluded from auto behavior
	preFloatZones   map[string][]string      // stableId -> zones before float toggle
	preFloatScreens map[string]string        // stableId -> screen before float toggle
	userSnapped     map[string]struct{}      // classes the user ever snapped by hand
	autoSnapped     map[string]struct{}      // windowId, consumed by the next Assign
	pending         map[string][]PendingRestore
	resnap          map[string]resnapEntry // buffered on layout change
	lastUsed        LastUsed

	// OnZoneChanged fires when a window's primary zone binding changes; an
	// empty zone id means the window became unassigned. OnFloatingChanged
	// fires on float toggles. Both are optional.
	OnZoneChanged    func(windowId, zoneId string)
	OnFloatingChanged func(windowId string, floating bool)
}

// New creates an empty tracker. getSettings is read at decision time so a
// settings reload applies without rewiring.
func New(layouts LayoutSource, screens screen.Provider, getSettings func() settings.Settings) *Tracker {
	return &Tracker{
		layouts:         layouts,
		screens:         screens,
		getSettings:     getSettings,
		assignments:     make(map[string][]string),
		windowScreens:   make(map[string]string),
		windowDesktops:  make(map[string]int),
		windowLayouts:   make(map[string]string),
		preSnap:         make(map[string]geometry.Rect),
		floating:        make(map[string]struct{}),
		preFloatZones:   make(map[string][]string),
		preFloatScreens: make(map[string]string),
		userSnapped:     make(map[string]struct{}),
		autoSnapped:     make(map[string]struct{}),
		pending:         make(map[string][]PendingRestore),
		resnap:          make(map[string]resnapEntry),
	}
}

func (t *Tracker) emitZoneChanged(windowId, zoneId string) {
	if t.OnZoneChanged != nil {
		t.OnZoneChanged(windowId, zoneId)
	}
}

// Assign binds a window to one or more zones, primary first. Entering an
// assignment clears the floating state and the remembered pre-float zone.
// The auto-snapped flag set by MarkAutoSnapped is consumed here: without it
// the snap counts as user-initiated and updates LastUsed.
func (t *Tracker) Assign(windowId string, zoneIds []string, screenName string, desktop int) {
	if windowId == "" || len(zoneIds) == 0 {
		log.Warn().Str("window", windowId).Msg("assign dropped: empty window or zone list")
		return
	}

	prev := t.primaryZone(windowId)

	stable := StableId(windowId)
	if _, wasFloating := t.floating[stable]; wasFloating {
		delete(t.floating, stable)
		delete(t.preFloatZones, stable)
		delete(t.preFloatScreens, stable)
		if t.OnFloatingChanged != nil {
			t.OnFloatingChanged(windowId, false)
		}
	}

	t.assignments[windowId] = append([]string(nil), zoneIds...)
	t.windowScreens[windowId] = screenName
	t.windowDesktops[windowId] = desktop
	if l := t.layouts.ActiveLayout(screenName); l != nil {
		t.windowLayouts[windowId] = l.Id
	}

	_, wasAuto := t.autoSnapped[windowId]
	delete(t.autoSnapped, windowId)
	if !wasAuto {
		t.lastUsed = LastUsed{
			ZoneId:  zoneIds[0],
			Screen:  screenName,
			Class:   ClassOf(windowId),
			Desktop: desktop,
		}
	}

	if prev != zoneIds[0] {
		t.emitZoneChanged(windowId, zoneIds[0])
	}
}

// Unassign removes a window's zone binding. No-op for untracked windows.
func (t *Tracker) Unassign(windowId string) {
	if _, ok := t.assignments[windowId]; !ok {
		return
	}
	delete(t.assignments, windowId)
	delete(t.windowScreens, windowId)
	delete(t.windowDesktops, windowId)
	delete(t.windowLayouts, windowId)
	t.emitZoneChanged(windowId, "")
}

// Zones returns the window's zone ids, primary first, or nil.
func (t *Tracker) Zones(windowId string) []string {
	z := t.assignments[windowId]
	if z == nil {
		return nil
	}
	return append([]string(nil), z...)
}

// Screen returns the screen a window is assigned on.
func (t *Tracker) Screen(windowId string) (string, bool) {
	s, ok := t.windowScreens[windowId]
	return s, ok
}

// Desktop returns the virtual desktop a window is assigned on (0 = sticky).
func (t *Tracker) Desktop(windowId string) (int, bool) {
	d, ok := t.windowDesktops[windowId]
	return d, ok
}

func (t *Tracker) primaryZone(windowId string) string {
	if z := t.assignments[windowId]; len(z) > 0 {
		return z[0]
	}
	return ""
}

// WindowsInZone lists the windows whose primary zone is zoneId.
func (t *Tracker) WindowsInZone(zoneId string) []string {
	var out []string
	for w, zones := range t.assignments {
		if len(zones) > 0 && zones[0] == zoneId {
			out = append(out, w)
		}
	}
	return out
}

// AssignedWindows lists all tracked windows on a screen ("" for all).
func (t *Tracker) AssignedWindows(screenName string) []string {
	var out []string
	for w := range t.assignments {
		if screenName == "" || t.windowScreens[w] == screenName {
			out = append(out, w)
		}
	}
	return out
}

// StorePreSnap records the geometry a window had before its first snap.
// Later snaps must not overwrite it, so the write only happens when no
// entry exists. Non-positive rects are dropped.
func (t *Tracker) StorePreSnap(windowId string, rect geometry.Rect) {
	if windowId == "" || rect.Empty() {
		log.Warn().Str("window", windowId).Msg("pre-snap geometry dropped: invalid input")
		return
	}
	if _, exists := t.preSnap[windowId]; exists {
		return
	}
	t.preSnap[windowId] = rect
}

// ClearPreSnap forgets the stored pre-snap geometry. Session-restored
// entries are keyed by stable id, so both keys are cleared.
func (t *Tracker) ClearPreSnap(windowId string) {
	delete(t.preSnap, windowId)
	delete(t.preSnap, StableId(windowId))
}

// ValidatedPreSnap returns the stored pre-snap geometry adjusted so at
// least 100x100 px are visible on some current screen, translating the rect
// onto the nearest available area when the original position is gone.
// Entries loaded from a previous session are keyed by stable id and are
// found through the fallback lookup.
func (t *Tracker) ValidatedPreSnap(windowId string) (geometry.Rect, bool) {
	rect, ok := t.preSnap[windowId]
	if !ok {
		rect, ok = t.preSnap[StableId(windowId)]
	}
	if !ok {
		return geometry.Rect{}, false
	}
	screens := t.screens.Screens()
	if len(screens) == 0 {
		return rect, true
	}
	const minVisible = 100
	for _, s := range screens {
		ov := rect.Intersect(s.Available)
		if ov.Width >= minVisible && ov.Height >= minVisible {
			return rect, true
		}
	}
	// Off-screen: clamp onto the nearest screen by center distance.
	best := screens[0]
	bestDist := -1
	c := rect.Center()
	for _, s := range screens {
		sc := s.Available.Center()
		d := geometry.Abs(c.X-sc.X) + geometry.Abs(c.Y-sc.Y)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = s
		}
	}
	area := best.Available
	if rect.Width > area.Width {
		rect.Width = area.Width
	}
	if rect.Height > area.Height {
		rect.Height = area.Height
	}
	if rect.X < area.X {
		rect.X = area.X
	}
	if rect.Right() > area.Right() {
		rect.X = area.Right() - rect.Width
	}
	if rect.Y < area.Y {
		rect.Y = area.Y
	}
	if rect.Bottom() > area.Bottom() {
		rect.Y = area.Bottom() - rect.Height
	}
	return rect, true
}

// IsFloating reports whether the window's stable id is in the floating set.
func (t *Tracker) IsFloating(windowId string) bool {
	_, ok := t.floating[StableId(windowId)]
	return ok
}

// SetFloating toggles a window in or out of the floating set. Entering
// float captures the current zones for a later restore and unassigns the
// window; leaving float does not restore, that is the caller's two-step
// (read PreFloat, then Assign). Returns whether the state changed.
func (t *Tracker) SetFloating(windowId string, floating bool) bool {
	stable := StableId(windowId)
	_, isFloating := t.floating[stable]
	if floating == isFloating {
		return false
	}
	if floating {
		if zones := t.assignments[windowId]; len(zones) > 0 {
			t.preFloatZones[stable] = append([]string(nil), zones...)
			t.preFloatScreens[stable] = t.windowScreens[windowId]
		}
		t.floating[stable] = struct{}{}
		t.Unassign(windowId)
	} else {
		delete(t.floating, stable)
	}
	if t.OnFloatingChanged != nil {
		t.OnFloatingChanged(windowId, floating)
	}
	return true
}

// PreFloat returns the remembered destination for an unfloat restore.
func (t *Tracker) PreFloat(windowId string) ([]string, string, bool) {
	stable := StableId(windowId)
	zones, ok := t.preFloatZones[stable]
	if !ok || len(zones) == 0 {
		return nil, "", false
	}
	return append([]string(nil), zones...), t.preFloatScreens[stable], true
}

// ClearPreFloat drops the remembered unfloat destination.
func (t *Tracker) ClearPreFloat(windowId string) {
	stable := StableId(windowId)
	delete(t.preFloatZones, stable)
	delete(t.preFloatScreens, stable)
}

// RecordSnapIntent marks a window class as user-snapped. Only user
// initiated snaps count; the set gates auto-snap-to-last-zone.
func (t *Tracker) RecordSnapIntent(windowId string, userInitiated bool) {
	if !userInitiated || windowId == "" {
		return
	}
	t.userSnapped[ClassOf(windowId)] = struct{}{}
}

// MarkAutoSnapped flags the window so the next Assign does not count as
// user-initiated. The flag is consumed by Assign and dropped on Closed.
func (t *Tracker) MarkAutoSnapped(windowId string) {
	t.autoSnapped[windowId] = struct{}{}
}

// UpdateLastUsed overwrites the last-used-zone seed. Callers guarantee the
// triggering snap was user-initiated.
func (t *Tracker) UpdateLastUsed(zoneId, screenName, class string, desktop int) {
	t.lastUsed = LastUsed{ZoneId: zoneId, Screen: screenName, Class: class, Desktop: desktop}
}

// LastUsedZone returns the current last-used seed.
func (t *Tracker) LastUsedZone() LastUsed {
	return t.lastUsed
}

// Closed removes every per-window entry. Stable-id keyed state (floating,
// pending restores) survives for future sessions; the current assignment is
// pushed onto the pending queue so the window can be restored after a
// restart. The auto-snapped flag is dropped too so it cannot leak when the
// effect never applied the geometry.
func (t *Tracker) Closed(windowId string) {
	if zones, ok := t.assignments[windowId]; ok && len(zones) > 0 {
		stable := StableId(windowId)
		t.pending[stable] = append(t.pending[stable], PendingRestore{
			ZoneIds:  append([]string(nil), zones...),
			Screen:   t.windowScreens[windowId],
			Desktop:  t.windowDesktops[windowId],
			LayoutId: t.windowLayouts[windowId],
		})
	}
	delete(t.assignments, windowId)
	delete(t.windowScreens, windowId)
	delete(t.windowDesktops, windowId)
	delete(t.windowLayouts, windowId)
	delete(t.preSnap, windowId)
	delete(t.autoSnapped, windowId)
	delete(t.resnap, windowId)
}

// AddPendingRestore queues a session-restore destination for a stable id.
// Used by the persistence layer at load time.
func (t *Tracker) AddPendingRestore(stableId string, entry PendingRestore) {
	if stableId == "" || len(entry.ZoneIds) == 0 {
		return
	}
	t.pending[stableId] = append(t.pending[stableId], entry)
}

// PendingRestores returns a copy of the restore queues.
func (t *Tracker) PendingRestores() map[string][]PendingRestore {
	out := make(map[string][]PendingRestore, len(t.pending))
	for k, v := range t.pending {
		out[k] = append([]PendingRestore(nil), v...)
	}
	return out
}

// DiagnoseLeftoverPending logs queues that were never consumed. Called at
// shutdown; a non-empty queue usually means a window of that application
// never reopened this session.
func (t *Tracker) DiagnoseLeftoverPending() {
	for stable, queue := range t.pending {
		if len(queue) > 0 {
			log.Debug().Str("stableId", stable).Int("entries", len(queue)).
				Msg("pending restore queue not consumed this session")
		}
	}
}

// OnLayoutChanged reconciles assignments after the active layout for a
// screen changed: windows whose zones no longer exist are unassigned, and
// their previous zone numbers are buffered so CalculateResnapFromPrevious
// can map them into the new layout.
func (t *Tracker) OnLayoutChanged(screenName string, previous *zone.Layout) {
	active := t.layouts.ActiveLayout(screenName)
	for _, w := range t.AssignedWindows(screenName) {
		zones := t.assignments[w]
		valid := active != nil
		if valid {
			for _, id := range zones {
				if active.ZoneById(id) == nil {
					valid = false
					break
				}
			}
		}
		if valid {
			continue
		}
		if previous != nil {
			var numbers []int
			for _, id := range zones {
				if z := previous.ZoneById(id); z != nil {
					numbers = append(numbers, z.Number)
				}
			}
			if len(numbers) > 0 {
				t.resnap[w] = resnapEntry{
					zoneNumbers: numbers,
					screenName:  screenName,
					desktop:     t.windowDesktops[w],
				}
			}
		}
		t.Unassign(w)
	}
}

// ResnapAssignment is one window's mapping from the previous layout into
// the current one, by zone number.
type ResnapAssignment struct {
	WindowId string        `json:"windowId"`
	ZoneIds  []string      `json:"zoneIds"`
	Rect     geometry.Rect `json:"rect"`
	Screen   string        `json:"screen"`
	Desktop  int           `json:"desktop,omitempty"`
}

// CalculateResnapFromPreviousLayout maps the buffered zone numbers of the
// last layout change onto the now-active layout and clears the buffer.
func (t *Tracker) CalculateResnapFromPreviousLayout() []ResnapAssignment {
	s := t.getSettings()
	var out []ResnapAssignment
	for w, entry := range t.resnap {
		delete(t.resnap, w)
		layout := t.layouts.ActiveLayout(entry.screenName)
		if layout == nil {
			continue
		}
		scr, ok := t.screens.ScreenByName(entry.screenName)
		if !ok {
			continue
		}
		var ids []string
		for _, n := range entry.zoneNumbers {
			if z := layout.ZoneByNumber(n); z != nil {
				ids = append(ids, z.Id)
			}
		}
		if len(ids) == 0 {
			continue
		}
		rect, ok := layout.CombinedRect(ids, scr.Available, zone.Gaps{Inner: s.InnerGap, Outer: s.OuterGap}, s.GapThreshold)
		if !ok {
			continue
		}
		out = append(out, ResnapAssignment{
			WindowId: w,
			ZoneIds:  ids,
			Rect:     rect,
			Screen:   entry.screenName,
			Desktop:  entry.desktop,
		})
	}
	return out
}
