package autotile

import (
	"testing"
	"time"

	"github.com/fuddlesworth/PlasmaZones-sub001/internal/clock"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/geometry"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/screen"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/settings"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/tracker"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/zone"
)

type stubLayouts map[string]*zone.Layout

func (s stubLayouts) ActiveLayout(name string) *zone.Layout { return s[name] }

type fixture struct {
	sched    *Scheduler
	track    *tracker.Tracker
	clk      *clock.Fake
	settings *settings.Settings
	layouts  stubLayouts
	emitted  []emission
}

type emission struct {
	screen      string
	assignments []Assignment
}

func newFixture(layouts stubLayouts) *fixture {
	s := settings.Default()
	s.InnerGap = 0
	s.OuterGap = 0

	f := &fixture{clk: clock.NewFake(), settings: &s, layouts: layouts}
	get := func() settings.Settings { return *f.settings }
	screens := &screen.Static{
		List: []screen.Screen{{
			Name:      "DP-1",
			Id:        "scr-1",
			Geometry:  geometry.Rect{Width: 1000, Height: 800},
			Available: geometry.Rect{Width: 1000, Height: 800},
		}},
		Cursor: "DP-1",
	}
	f.track = tracker.New(layouts, screens, get)
	f.sched = New(layouts, screens, f.track, get, f.clk)
	f.sched.OnGeometriesChanged = func(scr string, as []Assignment) {
		f.emitted = append(f.emitted, emission{screen: scr, assignments: as})
	}
	return f
}

func newDualScreenFixture(layouts stubLayouts) *fixture {
	s := settings.Default()
	s.InnerGap = 0
	s.OuterGap = 0

	f := &fixture{clk: clock.NewFake(), settings: &s, layouts: layouts}
	get := func() settings.Settings { return *f.settings }
	screens := &screen.Static{
		List: []screen.Screen{
			{
				Name:      "DP-1",
				Id:        "scr-1",
				Geometry:  geometry.Rect{Width: 1000, Height: 800},
				Available: geometry.Rect{Width: 1000, Height: 800},
			},
			{
				Name:      "HDMI-1",
				Id:        "scr-2",
				Geometry:  geometry.Rect{X: 1000, Width: 1000, Height: 800},
				Available: geometry.Rect{X: 1000, Width: 1000, Height: 800},
			},
		},
		Cursor: "DP-1",
	}
	f.track = tracker.New(layouts, screens, get)
	f.sched = New(layouts, screens, f.track, get, f.clk)
	f.sched.OnGeometriesChanged = func(scr string, as []Assignment) {
		f.emitted = append(f.emitted, emission{screen: scr, assignments: as})
	}
	return f
}

func masterStack() *zone.Layout {
	return &zone.Layout{
		Id:          "dyn-1",
		Name:        "master stack",
		Category:    zone.CategoryDynamic,
		Kind:        zone.DynamicMasterStack,
		MasterRatio: 0.5,
	}
}

func TestWindowOpened_StaticLayoutNotHandled(t *testing.T) {
	static := &zone.Layout{
		Id:       "st-1",
		Category: zone.CategoryStatic,
		Zones:    []zone.Zone{{Id: "z1", Number: 1, Relative: zone.RelRect{Width: 1, Height: 1}}},
	}
	f := newFixture(stubLayouts{"DP-1": static})
	handled, _ := f.sched.WindowOpened("a:a:1", "DP-1")
	if handled {
		t.Error("static layout should fall through to the snap path")
	}
}

func TestWindowOpened_FloatingNotHandled(t *testing.T) {
	f := newFixture(stubLayouts{"DP-1": masterStack()})
	f.track.SetFloating("a:a:1", true)
	if handled, _ := f.sched.WindowOpened("a:a:1", "DP-1"); handled {
		t.Error("floating window was tiled")
	}
}

func TestWindowOpened_TilesSynchronously(t *testing.T) {
	f := newFixture(stubLayouts{"DP-1": masterStack()})

	handled, as := f.sched.WindowOpened("a:a:1", "DP-1")
	if !handled || len(as) != 1 {
		t.Fatalf("first open: handled=%v assignments=%v", handled, as)
	}
	if as[0].Rect != (geometry.Rect{X: 0, Y: 0, Width: 1000, Height: 800}) {
		t.Errorf("single window rect = %v", as[0].Rect)
	}

	_, as = f.sched.WindowOpened("b:b:1", "DP-1")
	if len(as) != 2 {
		t.Fatalf("second open: %v", as)
	}
	// Master keeps the front slot; new window appends.
	if as[0].WindowId != "a:a:1" || as[1].WindowId != "b:b:1" {
		t.Errorf("tile order = %s, %s", as[0].WindowId, as[1].WindowId)
	}
	if as[0].Rect != (geometry.Rect{X: 0, Y: 0, Width: 500, Height: 800}) {
		t.Errorf("master rect = %v", as[0].Rect)
	}
	if as[1].Rect != (geometry.Rect{X: 500, Y: 0, Width: 500, Height: 800}) {
		t.Errorf("stack rect = %v", as[1].Rect)
	}

	// Tiling counts as auto snaps: tracker assigned, LastUsed untouched.
	if f.track.Zones("a:a:1") == nil || f.track.Zones("b:b:1") == nil {
		t.Error("assignments not forwarded to the tracker")
	}
	if lu := f.track.LastUsedZone(); lu.ZoneId != "" {
		t.Errorf("auto tiling updated LastUsed: %+v", lu)
	}
}

func TestWindowOpened_NewWindowAsMaster(t *testing.T) {
	f := newFixture(stubLayouts{"DP-1": masterStack()})
	f.settings.NewWindowAsMaster = true

	f.sched.WindowOpened("a:a:1", "DP-1")
	_, as := f.sched.WindowOpened("b:b:1", "DP-1")
	if as[0].WindowId != "b:b:1" {
		t.Errorf("new window should take the master slot, order = %v", as)
	}
	if m, _ := f.sched.Master("DP-1"); m != "b:b:1" {
		t.Errorf("master = %s", m)
	}
}

func TestWindowOpened_ReopenOnOtherScreen(t *testing.T) {
	f := newDualScreenFixture(stubLayouts{"DP-1": masterStack(), "HDMI-1": masterStack()})
	f.sched.WindowOpened("a:a:1", "DP-1")
	f.sched.WindowOpened("b:b:1", "DP-1")
	f.emitted = nil

	handled, as := f.sched.WindowOpened("b:b:1", "HDMI-1")
	if !handled || len(as) != 1 || as[0].WindowId != "b:b:1" {
		t.Fatalf("reopen on second screen: handled=%v as=%v", handled, as)
	}
	if as[0].Rect != (geometry.Rect{X: 1000, Y: 0, Width: 1000, Height: 800}) {
		t.Errorf("second screen rect = %v", as[0].Rect)
	}
	if got := f.sched.TiledWindows("DP-1"); len(got) != 1 || got[0] != "a:a:1" {
		t.Fatalf("moved window still tiled on old screen: %v", got)
	}

	// The vacated screen regenerates on the debounce.
	f.clk.Advance(time.Second)
	if len(f.emitted) != 1 || f.emitted[0].screen != "DP-1" {
		t.Fatalf("emissions = %+v", f.emitted)
	}
	old := f.emitted[0].assignments
	if len(old) != 1 || old[0].WindowId != "a:a:1" {
		t.Errorf("old screen retile: %v", old)
	}
	if old[0].Rect != (geometry.Rect{X: 0, Y: 0, Width: 1000, Height: 800}) {
		t.Errorf("remaining window rect = %v", old[0].Rect)
	}

	f.sched.WindowClosed("b:b:1")
	if got := f.sched.TiledWindows("HDMI-1"); got != nil {
		t.Errorf("close left %v on the second screen", got)
	}
}

func TestWindowClosed_DebouncedPromotion(t *testing.T) {
	f := newFixture(stubLayouts{"DP-1": masterStack()})
	f.sched.WindowOpened("a:a:1", "DP-1")
	f.sched.WindowOpened("b:b:1", "DP-1")
	f.sched.WindowOpened("c:c:1", "DP-1")
	f.emitted = nil

	f.sched.WindowClosed("a:a:1")
	if len(f.emitted) != 0 {
		t.Fatal("close regenerated before the debounce fired")
	}
	f.clk.Advance(49 * time.Millisecond)
	if len(f.emitted) != 0 {
		t.Fatal("debounce fired early")
	}
	f.clk.Advance(1 * time.Millisecond)
	if len(f.emitted) != 1 {
		t.Fatalf("got %d emissions, want 1", len(f.emitted))
	}
	as := f.emitted[0].assignments
	if len(as) != 2 || as[0].WindowId != "b:b:1" {
		t.Errorf("promotion after close: %v", as)
	}
}

func TestWindowClosed_CoalescesBurst(t *testing.T) {
	f := newFixture(stubLayouts{"DP-1": masterStack()})
	f.sched.WindowOpened("a:a:1", "DP-1")
	f.sched.WindowOpened("b:b:1", "DP-1")
	f.sched.WindowOpened("c:c:1", "DP-1")
	f.emitted = nil

	f.sched.WindowClosed("c:c:1")
	f.clk.Advance(30 * time.Millisecond)
	f.sched.WindowClosed("b:b:1") // resets the timer
	f.clk.Advance(30 * time.Millisecond)
	if len(f.emitted) != 0 {
		t.Fatal("reset timer fired on the old deadline")
	}
	f.clk.Advance(20 * time.Millisecond)
	if len(f.emitted) != 1 {
		t.Fatalf("got %d emissions, want 1", len(f.emitted))
	}
	as := f.emitted[0].assignments
	if len(as) != 1 || as[0].WindowId != "a:a:1" {
		t.Errorf("after burst: %v", as)
	}
	if as[0].Rect != (geometry.Rect{X: 0, Y: 0, Width: 1000, Height: 800}) {
		t.Errorf("sole window rect = %v", as[0].Rect)
	}
}

func TestWindowMinimized(t *testing.T) {
	f := newFixture(stubLayouts{"DP-1": masterStack()})
	f.sched.WindowOpened("a:a:1", "DP-1")
	f.sched.WindowOpened("b:b:1", "DP-1")
	f.emitted = nil

	f.settings.CountMinimizedWindows = true
	f.sched.WindowMinimized("a:a:1", true)
	f.clk.Advance(time.Second)
	if len(f.emitted) != 0 {
		t.Fatal("counted minimized window triggered a regeneration")
	}

	f.settings.CountMinimizedWindows = false
	f.sched.WindowMinimized("a:a:1", true)
	f.clk.Advance(time.Second)
	if len(f.emitted) != 1 {
		t.Fatalf("got %d emissions, want 1", len(f.emitted))
	}
	as := f.emitted[0].assignments
	if len(as) != 1 || as[0].WindowId != "b:b:1" {
		t.Errorf("minimized master not excluded: %v", as)
	}
}

func TestPromoteMaster(t *testing.T) {
	f := newFixture(stubLayouts{"DP-1": masterStack()})
	f.sched.WindowOpened("a:a:1", "DP-1")
	f.sched.WindowOpened("b:b:1", "DP-1")
	f.sched.WindowOpened("c:c:1", "DP-1")

	as := f.sched.PromoteMaster("c:c:1", "DP-1")
	if len(as) != 3 || as[0].WindowId != "c:c:1" {
		t.Fatalf("promotion order: %v", as)
	}
	// The old master takes the promoted window's slot.
	if as[2].WindowId != "a:a:1" {
		t.Errorf("swap order: %v", as)
	}
	if f.sched.PromoteMaster("nope:nope:1", "DP-1") != nil {
		t.Error("promoting an untracked window should do nothing")
	}
}

func TestAdjustMasterRatio_Clamps(t *testing.T) {
	layout := masterStack()
	f := newFixture(stubLayouts{"DP-1": layout})
	f.sched.WindowOpened("a:a:1", "DP-1")
	f.sched.WindowOpened("b:b:1", "DP-1")

	f.sched.AdjustMasterRatio("DP-1", 10)
	if layout.MasterRatio != 0.9 {
		t.Errorf("ratio = %v, want clamp at 0.9", layout.MasterRatio)
	}
	as := f.sched.AdjustMasterRatio("DP-1", -10)
	if layout.MasterRatio != 0.1 {
		t.Errorf("ratio = %v, want clamp at 0.1", layout.MasterRatio)
	}
	if len(as) != 2 || as[0].Rect.Width != 100 {
		t.Errorf("assignments after ratio change: %v", as)
	}
}

func TestLayoutChanged_DropsStateForStatic(t *testing.T) {
	layouts := stubLayouts{"DP-1": masterStack()}
	f := newFixture(layouts)
	f.sched.WindowOpened("a:a:1", "DP-1")
	f.sched.WindowOpened("b:b:1", "DP-1")

	layouts["DP-1"] = &zone.Layout{
		Id:       "st-1",
		Category: zone.CategoryStatic,
		Zones:    []zone.Zone{{Id: "z1", Number: 1, Relative: zone.RelRect{Width: 1, Height: 1}}},
	}
	if as := f.sched.LayoutChanged("DP-1"); as != nil {
		t.Errorf("static layout change returned assignments: %v", as)
	}
	if f.sched.TiledWindows("DP-1") != nil {
		t.Error("tile state survived the switch to a static layout")
	}
	// Closing a formerly tiled window is now a no-op.
	f.emitted = nil
	f.sched.WindowClosed("a:a:1")
	f.clk.Advance(time.Second)
	if len(f.emitted) != 0 {
		t.Errorf("stale close emitted %v", f.emitted)
	}
}
