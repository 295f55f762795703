// Package autotile regenerates dynamic layouts when windows come and go,
// keeping a per-screen tile set with a master window at the front.
package autotile

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fuddlesworth/PlasmaZones-sub001/internal/clock"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/geometry"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/screen"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/settings"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/tracker"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/zone"
)

// Assignment pairs a window with the zone it was tiled into.
type Assignment struct {
	WindowId string        `json:"windowId"`
	ZoneId   string        `json:"zoneId"`
	Rect     geometry.Rect `json:"rect"`
}

type tileSet struct {
	windows   []string // insertion order, master at index 0
	minimized map[string]struct{}
}

func (ts *tileSet) contains(w string) bool {
	for _, x := range ts.windows {
		if x == w {
			return true
		}
	}
	return false
}

func (ts *tileSet) remove(w string) bool {
	for i, x := range ts.windows {
		if x == w {
			ts.windows = append(ts.windows[:i], ts.windows[i+1:]...)
			delete(ts.minimized, w)
			return true
		}
	}
	return false
}

// promoteFirstVisible moves the first non-minimized window to the front so
// the master slot is never held by a hidden window.
func (ts *tileSet) promoteFirstVisible() {
	for i, w := range ts.windows {
		if _, min := ts.minimized[w]; !min {
			if i > 0 {
				ts.windows = append([]string{w}, append(append([]string(nil), ts.windows[:i]...), ts.windows[i+1:]...)...)
			}
			return
		}
	}
}

// Scheduler drives auto-tiling for every screen running a dynamic layout.
// Open events are handled synchronously because the compositor needs the
// new window's geometry immediately; close and minimize coalesce through a
// debounce timer. Not internally synchronized, same single-task model as
// the tracker.
type Scheduler struct {
	layouts     tracker.LayoutSource
	screens     screen.Provider
	track       *tracker.Tracker
	getSettings func() settings.Settings
	clk         clock.Clock

	sets     map[string]*tileSet
	byWindow map[string]string
	pending  map[string]struct{}
	timer    clock.Timer

	// OnGeometriesChanged receives the batched result of a regeneration.
	OnGeometriesChanged func(screenName string, assignments []Assignment)
}

// New creates an idle scheduler.
func New(layouts tracker.LayoutSource, screens screen.Provider, track *tracker.Tracker, getSettings func() settings.Settings, clk clock.Clock) *Scheduler {
	return &Scheduler{
		layouts:     layouts,
		screens:     screens,
		track:       track,
		getSettings: getSettings,
		clk:         clk,
		sets:        make(map[string]*tileSet),
		byWindow:    make(map[string]string),
		pending:     make(map[string]struct{}),
	}
}

func (s *Scheduler) set(screenName string) *tileSet {
	ts, ok := s.sets[screenName]
	if !ok {
		ts = &tileSet{minimized: make(map[string]struct{})}
		s.sets[screenName] = ts
	}
	return ts
}

func (s *Scheduler) dynamicLayout(screenName string) *zone.Layout {
	l := s.layouts.ActiveLayout(screenName)
	if l == nil || !l.Dynamic() {
		return nil
	}
	return l
}

// WindowOpened tiles a new window. handled is false when the screen is not
// running a dynamic layout or the window floats, in which case the caller
// falls through to the static snap path.
func (s *Scheduler) WindowOpened(windowId, screenName string) (handled bool, assignments []Assignment) {
	if s.dynamicLayout(screenName) == nil {
		return false, nil
	}
	if s.track.IsFloating(windowId) {
		return false, nil
	}
	if prev, ok := s.byWindow[windowId]; ok && prev != screenName {
		if old := s.sets[prev]; old != nil && old.remove(windowId) {
			old.promoteFirstVisible()
			s.schedule(prev)
		}
	}
	ts := s.set(screenName)
	if !ts.contains(windowId) {
		if s.getSettings().NewWindowAsMaster {
			ts.windows = append([]string{windowId}, ts.windows...)
		} else {
			ts.windows = append(ts.windows, windowId)
		}
		s.byWindow[windowId] = screenName
	}
	return true, s.regenerate(screenName)
}

// WindowClosed removes the window from its tile set and schedules a
// debounced regeneration of the affected screen.
func (s *Scheduler) WindowClosed(windowId string) {
	screenName, ok := s.byWindow[windowId]
	if !ok {
		return
	}
	delete(s.byWindow, windowId)
	ts := s.sets[screenName]
	if ts == nil || !ts.remove(windowId) {
		return
	}
	ts.promoteFirstVisible()
	s.schedule(screenName)
}

// WindowMinimized updates the minimized subset. With countMinimizedWindows
// enabled, minimized windows keep their zone and nothing regenerates.
func (s *Scheduler) WindowMinimized(windowId string, minimized bool) {
	screenName, ok := s.byWindow[windowId]
	if !ok {
		return
	}
	ts := s.sets[screenName]
	if ts == nil {
		return
	}
	if minimized {
		ts.minimized[windowId] = struct{}{}
	} else {
		delete(ts.minimized, windowId)
	}
	if s.getSettings().CountMinimizedWindows {
		return
	}
	ts.promoteFirstVisible()
	s.schedule(screenName)
}

// LayoutChanged regenerates immediately; switching away from a dynamic
// layout drops the screen's tile state.
func (s *Scheduler) LayoutChanged(screenName string) []Assignment {
	if s.dynamicLayout(screenName) == nil {
		if ts := s.sets[screenName]; ts != nil {
			for _, w := range ts.windows {
				delete(s.byWindow, w)
			}
			delete(s.sets, screenName)
		}
		delete(s.pending, screenName)
		return nil
	}
	out := s.regenerate(screenName)
	s.emit(screenName, out)
	return out
}

// PromoteMaster swaps the window with the current master and retiles.
func (s *Scheduler) PromoteMaster(windowId, screenName string) []Assignment {
	ts := s.sets[screenName]
	if ts == nil || len(ts.windows) == 0 || s.dynamicLayout(screenName) == nil {
		return nil
	}
	idx := -1
	for i, w := range ts.windows {
		if w == windowId {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	ts.windows[0], ts.windows[idx] = ts.windows[idx], ts.windows[0]
	out := s.regenerate(screenName)
	s.emit(screenName, out)
	return out
}

// AdjustMasterRatio nudges the layout's master ratio and retiles.
func (s *Scheduler) AdjustMasterRatio(screenName string, delta float64) []Assignment {
	l := s.dynamicLayout(screenName)
	if l == nil {
		return nil
	}
	l.MasterRatio = zone.ClampMasterRatio(l.MasterRatio + delta)
	out := s.regenerate(screenName)
	s.emit(screenName, out)
	return out
}

// Master returns the current master window for a screen, if any.
func (s *Scheduler) Master(screenName string) (string, bool) {
	ts := s.sets[screenName]
	if ts == nil || len(ts.windows) == 0 {
		return "", false
	}
	return ts.windows[0], true
}

// TiledWindows returns the tile order for a screen, master first.
func (s *Scheduler) TiledWindows(screenName string) []string {
	ts := s.sets[screenName]
	if ts == nil {
		return nil
	}
	return append([]string(nil), ts.windows...)
}

// schedule coalesces affected screens and (re)arms the debounce timer. A
// later call replaces the deadline; the pending set accumulates regardless.
func (s *Scheduler) schedule(screenName string) {
	s.pending[screenName] = struct{}{}
	d := time.Duration(s.getSettings().AutoTileDebounceMs) * time.Millisecond
	if s.timer != nil {
		s.timer.Reset(d)
		return
	}
	s.timer = s.clk.AfterFunc(d, s.flush)
}

func (s *Scheduler) flush() {
	s.timer = nil
	for screenName := range s.pending {
		delete(s.pending, screenName)
		s.emit(screenName, s.regenerate(screenName))
	}
}

func (s *Scheduler) emit(screenName string, assignments []Assignment) {
	if s.OnGeometriesChanged != nil {
		s.OnGeometriesChanged(screenName, assignments)
	}
}

// visible returns the windows that take part in tiling, master first.
func (s *Scheduler) visible(ts *tileSet) []string {
	count := s.getSettings().CountMinimizedWindows
	var out []string
	for _, w := range ts.windows {
		if _, min := ts.minimized[w]; min && !count {
			continue
		}
		out = append(out, w)
	}
	return out
}

// regenerate recomputes the zone set for the current window count, zips
// zones by number with the ordered visible windows, and forwards each pair
// to the tracker as an auto snap.
func (s *Scheduler) regenerate(screenName string) []Assignment {
	l := s.dynamicLayout(screenName)
	if l == nil {
		return nil
	}
	ts := s.sets[screenName]
	if ts == nil {
		return nil
	}
	windows := s.visible(ts)
	if len(windows) == 0 {
		return nil
	}
	scr, ok := s.screens.ScreenByName(screenName)
	if !ok {
		log.Debug().Str("screen", screenName).Msg("regenerate skipped: unknown screen")
		return nil
	}

	l.Regenerate(len(windows))
	cfg := s.getSettings()
	gaps := zone.Gaps{Inner: cfg.InnerGap, Outer: cfg.OuterGap}
	rects := l.PixelRects(scr.Available, gaps, cfg.GapThreshold)

	order := make([]int, len(l.Zones))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return l.Zones[order[a]].Number < l.Zones[order[b]].Number
	})

	n := len(windows)
	if len(order) < n {
		n = len(order)
	}
	out := make([]Assignment, 0, n)
	for i := 0; i < n; i++ {
		zi := order[i]
		a := Assignment{
			WindowId: windows[i],
			ZoneId:   l.Zones[zi].Id,
			Rect:     rects[zi],
		}
		out = append(out, a)
		desktop, _ := s.track.Desktop(a.WindowId)
		s.track.MarkAutoSnapped(a.WindowId)
		s.track.Assign(a.WindowId, []string{a.ZoneId}, screenName, desktop)
	}
	return out
}
