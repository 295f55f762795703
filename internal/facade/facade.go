// Package facade is the thin orchestration layer between the compositor's
// event stream and the stateful core: it validates input, resolves screens,
// drives the tracker, scheduler, and persister, and publishes every
// outbound notification as one tagged event stream.
package facade

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fuddlesworth/PlasmaZones-sub001/internal/autotile"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/clock"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/geometry"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/persist"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/screen"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/settings"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/tracker"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/zone"
)

// Facade owns the core components and serializes every operation behind
// one mutex, matching the single-task scheduling model. Timer callbacks
// from the scheduler and saver run under the same mutex via lockedClock.
type Facade struct {
	mu    sync.Mutex
	subMu sync.Mutex

	screens screen.Provider
	track   *tracker.Tracker
	sched   *autotile.Scheduler
	saver   *persist.Saver
	gate    *persist.RestoreGate

	getSettings func() settings.Settings
	layouts     map[string]*zone.Layout // active layout per screen name
	lastActive  string                  // last activated-window screen

	subs    map[int]chan Event
	nextSub int
}

// Options configures New. Store may be nil to run without persistence.
type Options struct {
	Screens  screen.Provider
	Settings func() settings.Settings
	Store    *persist.Store
	Clock    clock.Clock
}

// New wires the core together and loads the persisted session if a store
// is configured.
func New(opts Options) *Facade {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	f := &Facade{
		screens:     opts.Screens,
		getSettings: opts.Settings,
		layouts:     make(map[string]*zone.Layout),
		subs:        make(map[int]chan Event),
		gate:        &persist.RestoreGate{},
	}
	// Timer callbacks reenter the core; run them under the facade mutex so
	// a debounce firing never observes a half-applied operation.
	clk := lockedClock{inner: opts.Clock, mu: &f.mu}
	f.track = tracker.New(layoutSource{f}, opts.Screens, opts.Settings)
	f.sched = autotile.New(layoutSource{f}, opts.Screens, f.track, opts.Settings, clk)

	f.track.OnZoneChanged = func(w, z string) {
		f.publish(Event{Kind: EventZoneChanged, WindowId: w, ZoneId: z})
		f.requestSave()
	}
	f.track.OnFloatingChanged = func(w string, floating bool) {
		f.publish(Event{Kind: EventFloatingChanged, WindowId: w, Floating: floating})
		f.requestSave()
	}
	f.sched.OnGeometriesChanged = func(scr string, as []autotile.Assignment) {
		f.publish(Event{Kind: EventAutoTileGeometries, Screen: scr, Assignments: as})
	}
	f.gate.OnReady = func() {
		f.publish(Event{Kind: EventPendingRestoresAvailable})
	}

	if opts.Store != nil {
		saveDebounce := time.Duration(opts.Settings().SaveDebounceMs) * time.Millisecond
		f.saver = persist.NewSaver(opts.Store, opts.Screens, f.snapshot, clk, saveDebounce)
		doc, ok, err := opts.Store.Read()
		if err != nil {
			log.Warn().Err(err).Msg("session load failed, starting clean")
		} else if ok {
			f.track.Restore(persist.Decode(doc, opts.Screens))
			log.Info().Int("assignments", len(doc.Assignments)).Msg("session state loaded")
		}
	}
	return f
}

// layoutSource adapts the facade's layout table to the tracker and
// scheduler without exposing the facade itself.
type layoutSource struct{ f *Facade }

func (ls layoutSource) ActiveLayout(screenName string) *zone.Layout {
	return ls.f.layouts[screenName]
}

// lockedClock wraps timer callbacks in the facade mutex.
type lockedClock struct {
	inner clock.Clock
	mu    *sync.Mutex
}

func (c lockedClock) Now() time.Time { return c.inner.Now() }

func (c lockedClock) AfterFunc(d time.Duration, fn func()) clock.Timer {
	return c.inner.AfterFunc(d, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		fn()
	})
}

// snapshot always runs with f.mu held, either from a locked timer callback
// or from Close.
func (f *Facade) snapshot() tracker.Snapshot {
	return f.track.Snapshot()
}

func (f *Facade) requestSave() {
	if f.saver != nil {
		f.saver.Request()
	}
}

// SetActiveLayout installs the layout for a screen, reconciling stale
// assignments and dropping or rebuilding auto-tile state. The first layout
// satisfies half of the restore gate.
func (f *Facade) SetActiveLayout(screenName string, l *zone.Layout) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if screenName == "" || l == nil {
		log.Warn().Str("screen", screenName).Msg("layout install dropped: empty input")
		return
	}
	if err := l.Validate(); err != nil {
		log.Warn().Err(err).Msg("layout install dropped")
		return
	}
	previous := f.layouts[screenName]
	f.layouts[screenName] = l
	f.track.OnLayoutChanged(screenName, previous)
	f.sched.LayoutChanged(screenName)
	f.gate.LayoutReady()
	f.requestSave()
}

// ActiveLayout returns the installed layout for a screen, or nil.
func (f *Facade) ActiveLayout(screenName string) *zone.Layout {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.layouts[screenName]
}

// PanelGeometryChanged marks available areas as accurate; with a layout
// installed this releases the pending-restore gate.
func (f *Facade) PanelGeometryChanged() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate.PanelsReady()
}

// CursorScreenChanged records the screen under the cursor as the fallback
// for operations arriving without one.
func (f *Facade) CursorScreenChanged(screenName string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastActive = screenName
}

// resolveScreen applies the three-step fallback: explicit name, geometric
// containment of a reference point, then the last active or cursor screen.
// Assumes f.mu is held.
func (f *Facade) resolveScreen(name string, center *geometry.Point) (screen.Screen, bool) {
	if s, ok := screen.Resolve(f.screens, name, center); ok {
		return s, true
	}
	if f.lastActive != "" {
		if s, ok := f.screens.ScreenByName(f.lastActive); ok {
			return s, true
		}
	}
	return screen.Screen{}, false
}

// Close flushes pending state and logs unconsumed restore queues.
func (f *Facade) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.track.DiagnoseLeftoverPending()
	if f.saver != nil {
		f.saver.Flush()
	}
}
