package tracker

import (
	"reflect"
	"testing"

	"github.com/fuddlesworth/PlasmaZones-sub001/internal/geometry"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/screen"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/settings"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/zone"
)

type stubLayouts map[string]*zone.Layout

func (s stubLayouts) ActiveLayout(name string) *zone.Layout { return s[name] }

func twoZoneLayout(id, left, right string) *zone.Layout {
	return &zone.Layout{
		Id:       id,
		Name:     "split",
		Category: zone.CategoryStatic,
		Zones: []zone.Zone{
			{Id: left, Number: 1, Relative: zone.RelRect{X: 0, Y: 0, Width: 0.5, Height: 1}},
			{Id: right, Number: 2, Relative: zone.RelRect{X: 0.5, Y: 0, Width: 0.5, Height: 1}},
		},
	}
}

func testScreens() *screen.Static {
	return &screen.Static{
		List: []screen.Screen{{
			Name:      "DP-1",
			Id:        "scr-1",
			Geometry:  geometry.Rect{X: 0, Y: 0, Width: 1000, Height: 800},
			Available: geometry.Rect{X: 0, Y: 0, Width: 1000, Height: 800},
		}},
		Cursor: "DP-1",
	}
}

func newTestTracker(s settings.Settings, layouts stubLayouts) *Tracker {
	return New(layouts, testScreens(), func() settings.Settings { return s })
}

func gaplessSettings() settings.Settings {
	s := settings.Default()
	s.InnerGap = 0
	s.OuterGap = 0
	return s
}

func TestStableId(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"kitty:kitty:123", "kitty:kitty"},
		{"kitty:kitty:dev", "kitty:kitty:dev"},
		{"firefox:Navigator", "firefox:Navigator"},
		{"app:res:", "app:res:"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := StableId(tt.in); got != tt.want {
			t.Errorf("StableId(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAssign_EmitsZoneChangedOnPrimaryChange(t *testing.T) {
	layouts := stubLayouts{"DP-1": twoZoneLayout("L1", "z1", "z2")}
	tr := newTestTracker(gaplessSettings(), layouts)

	var events []string
	tr.OnZoneChanged = func(w, z string) { events = append(events, w+"->"+z) }

	tr.Assign("kitty:kitty:1", []string{"z1"}, "DP-1", 1)
	tr.Assign("kitty:kitty:1", []string{"z1", "z2"}, "DP-1", 1) // primary unchanged
	tr.Assign("kitty:kitty:1", []string{"z2"}, "DP-1", 1)
	tr.Unassign("kitty:kitty:1")

	want := []string{
		"kitty:kitty:1->z1",
		"kitty:kitty:1->z2",
		"kitty:kitty:1->",
	}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("zoneChanged sequence = %v, want %v", events, want)
	}
}

func TestAssign_EmptyInputsDropped(t *testing.T) {
	tr := newTestTracker(gaplessSettings(), stubLayouts{})
	tr.Assign("", []string{"z1"}, "DP-1", 1)
	tr.Assign("kitty:kitty:1", nil, "DP-1", 1)
	if got := tr.Zones("kitty:kitty:1"); got != nil {
		t.Errorf("expected no assignment, got %v", got)
	}
}

func TestStorePreSnap_FirstSnapOnly(t *testing.T) {
	tr := newTestTracker(gaplessSettings(), stubLayouts{})
	first := geometry.Rect{X: 100, Y: 100, Width: 400, Height: 300}

	tr.StorePreSnap("w:w:1", first)
	tr.StorePreSnap("w:w:1", geometry.Rect{X: 0, Y: 0, Width: 999, Height: 999})

	got, ok := tr.ValidatedPreSnap("w:w:1")
	if !ok || got != first {
		t.Fatalf("ValidatedPreSnap = %v, %v; want %v, true", got, ok, first)
	}

	tr.ClearPreSnap("w:w:1")
	if _, ok := tr.ValidatedPreSnap("w:w:1"); ok {
		t.Error("pre-snap geometry survived ClearPreSnap")
	}
}

func TestStorePreSnap_RejectsEmptyRect(t *testing.T) {
	tr := newTestTracker(gaplessSettings(), stubLayouts{})
	tr.StorePreSnap("w:w:1", geometry.Rect{X: 10, Y: 10})
	if _, ok := tr.ValidatedPreSnap("w:w:1"); ok {
		t.Error("empty rect was stored")
	}
}

func TestValidatedPreSnap_ClampsOffscreenRect(t *testing.T) {
	tr := newTestTracker(gaplessSettings(), stubLayouts{})
	tr.StorePreSnap("w:w:1", geometry.Rect{X: 5000, Y: 5000, Width: 400, Height: 300})

	got, ok := tr.ValidatedPreSnap("w:w:1")
	if !ok {
		t.Fatal("expected a validated rect")
	}
	if got.Width != 400 || got.Height != 300 {
		t.Errorf("size changed to %dx%d", got.Width, got.Height)
	}
	area := geometry.Rect{X: 0, Y: 0, Width: 1000, Height: 800}
	if !area.Contains(geometry.Point{X: got.X, Y: got.Y}) || got.Right() > area.Right() || got.Bottom() > area.Bottom() {
		t.Errorf("rect %v not inside screen %v", got, area)
	}
}

func TestSetFloating_CapturesPreFloatAndUnassigns(t *testing.T) {
	layouts := stubLayouts{"DP-1": twoZoneLayout("L1", "z1", "z2")}
	tr := newTestTracker(gaplessSettings(), layouts)

	var floats []bool
	tr.OnFloatingChanged = func(w string, f bool) { floats = append(floats, f) }

	tr.Assign("kitty:kitty:7", []string{"z1", "z2"}, "DP-1", 1)
	if !tr.SetFloating("kitty:kitty:7", true) {
		t.Fatal("SetFloating(true) reported no change")
	}
	if tr.SetFloating("kitty:kitty:7", true) {
		t.Error("second SetFloating(true) should be a no-op")
	}
	if tr.Zones("kitty:kitty:7") != nil {
		t.Error("floating window still assigned")
	}
	if !tr.IsFloating("kitty:kitty:9") {
		t.Error("floating is keyed by stable id; sibling instance should float too")
	}

	zones, scr, ok := tr.PreFloat("kitty:kitty:7")
	if !ok || scr != "DP-1" || !reflect.DeepEqual(zones, []string{"z1", "z2"}) {
		t.Fatalf("PreFloat = %v, %q, %v", zones, scr, ok)
	}

	// Assigning again leaves the floating set.
	tr.Assign("kitty:kitty:7", []string{"z2"}, "DP-1", 1)
	if tr.IsFloating("kitty:kitty:7") {
		t.Error("assign did not clear floating state")
	}
	if _, _, ok := tr.PreFloat("kitty:kitty:7"); ok {
		t.Error("assign did not clear pre-float destination")
	}
	if want := []bool{true, false}; !reflect.DeepEqual(floats, want) {
		t.Errorf("floatingChanged sequence = %v, want %v", floats, want)
	}
}

func TestAssign_AutoSnappedDoesNotUpdateLastUsed(t *testing.T) {
	layouts := stubLayouts{"DP-1": twoZoneLayout("L1", "z1", "z2")}
	tr := newTestTracker(gaplessSettings(), layouts)

	tr.Assign("kitty:kitty:1", []string{"z1"}, "DP-1", 2)
	if lu := tr.LastUsedZone(); lu.ZoneId != "z1" || lu.Class != "kitty" || lu.Desktop != 2 {
		t.Fatalf("user snap did not seed LastUsed: %+v", lu)
	}

	tr.MarkAutoSnapped("firefox:Navigator:9")
	tr.Assign("firefox:Navigator:9", []string{"z2"}, "DP-1", 2)
	if lu := tr.LastUsedZone(); lu.ZoneId != "z1" {
		t.Errorf("auto snap overwrote LastUsed: %+v", lu)
	}

	// Flag was consumed: the next assign of the same window is user-initiated.
	tr.Assign("firefox:Navigator:9", []string{"z1"}, "DP-1", 2)
	if lu := tr.LastUsedZone(); lu.Class != "firefox" {
		t.Errorf("consumed flag still suppressing LastUsed: %+v", lu)
	}
}

func TestCalculateSnapToLastZone_Gates(t *testing.T) {
	layouts := stubLayouts{"DP-1": twoZoneLayout("L1", "z1", "z2")}

	base := func() (*Tracker, *settings.Settings) {
		s := gaplessSettings()
		s.MoveNewWindowsToLastZone = true
		tr := New(layouts, testScreens(), func() settings.Settings { return s })
		tr.UpdateLastUsed("z2", "DP-1", "kitty", 1)
		tr.RecordSnapIntent("kitty:kitty:1", true)
		return tr, &s
	}

	t.Run("success", func(t *testing.T) {
		tr, _ := base()
		got := tr.CalculateSnapToLastZone("kitty:kitty:2", "DP-1", 1, false)
		if !got.ShouldSnap {
			t.Fatal("expected a snap")
		}
		want := geometry.Rect{X: 500, Y: 0, Width: 500, Height: 800}
		if got.Rect != want || got.Screen != "DP-1" || !reflect.DeepEqual(got.ZoneIds, []string{"z2"}) {
			t.Errorf("result = %+v", got)
		}
	})

	t.Run("settingDisabled", func(t *testing.T) {
		tr, s := base()
		s.MoveNewWindowsToLastZone = false
		if tr.CalculateSnapToLastZone("kitty:kitty:2", "DP-1", 1, false).ShouldSnap {
			t.Error("snapped with moveNewWindowsToLastZone off")
		}
	})

	t.Run("stickyIgnored", func(t *testing.T) {
		tr, s := base()
		s.StickyWindowHandling = settings.StickyRestoreOnly
		if tr.CalculateSnapToLastZone("kitty:kitty:2", "DP-1", 1, true).ShouldSnap {
			t.Error("sticky window snapped under restore_only handling")
		}
	})

	t.Run("noLastUsed", func(t *testing.T) {
		tr, _ := base()
		tr.UpdateLastUsed("", "", "", 0)
		if tr.CalculateSnapToLastZone("kitty:kitty:2", "DP-1", 1, false).ShouldSnap {
			t.Error("snapped with empty LastUsed")
		}
	})

	t.Run("classNeverSnapped", func(t *testing.T) {
		tr, _ := base()
		if tr.CalculateSnapToLastZone("firefox:Navigator:2", "DP-1", 1, false).ShouldSnap {
			t.Error("snapped a class the user never snapped")
		}
	})

	t.Run("screenMismatch", func(t *testing.T) {
		tr, _ := base()
		if tr.CalculateSnapToLastZone("kitty:kitty:2", "HDMI-1", 1, false).ShouldSnap {
			t.Error("snapped across screens")
		}
	})

	t.Run("desktopMismatch", func(t *testing.T) {
		tr, _ := base()
		if tr.CalculateSnapToLastZone("kitty:kitty:2", "DP-1", 3, false).ShouldSnap {
			t.Error("snapped across desktops")
		}
	})

	t.Run("stickyCrossesDesktops", func(t *testing.T) {
		tr, _ := base()
		if !tr.CalculateSnapToLastZone("kitty:kitty:2", "DP-1", 3, true).ShouldSnap {
			t.Error("sticky window should ignore the desktop gate")
		}
	})

	t.Run("floatingExcluded", func(t *testing.T) {
		tr, _ := base()
		tr.SetFloating("kitty:kitty:2", true)
		if tr.CalculateSnapToLastZone("kitty:kitty:2", "DP-1", 1, false).ShouldSnap {
			t.Error("floating window auto-snapped")
		}
	})

	t.Run("zoneGone", func(t *testing.T) {
		tr, _ := base()
		tr.UpdateLastUsed("missing", "DP-1", "kitty", 1)
		if tr.CalculateSnapToLastZone("kitty:kitty:2", "DP-1", 1, false).ShouldSnap {
			t.Error("snapped into a zone absent from the layout")
		}
	})
}

func TestClosed_QueuesPendingRestorePerStableId(t *testing.T) {
	layouts := stubLayouts{"DP-1": twoZoneLayout("L1", "z1", "z2")}
	s := gaplessSettings()
	s.RestoreWindowsOnRestart = true
	tr := New(layouts, testScreens(), func() settings.Settings { return s })

	// Two instances of the same application collapse to one stable id.
	tr.Assign("kitty:kitty:100", []string{"z1"}, "DP-1", 1)
	tr.Assign("kitty:kitty:200", []string{"z2"}, "DP-1", 1)
	tr.Closed("kitty:kitty:100")
	tr.Closed("kitty:kitty:200")

	if got := len(tr.PendingRestores()["kitty:kitty"]); got != 2 {
		t.Fatalf("queue length = %d, want 2", got)
	}

	// First reopened window consumes the head entry.
	r1 := tr.CalculateRestoreFromSession("kitty:kitty:300", "DP-1", false)
	if !r1.ShouldSnap || !reflect.DeepEqual(r1.ZoneIds, []string{"z1"}) {
		t.Fatalf("first restore = %+v", r1)
	}
	r2 := tr.CalculateRestoreFromSession("kitty:kitty:400", "DP-1", false)
	if !r2.ShouldSnap || !reflect.DeepEqual(r2.ZoneIds, []string{"z2"}) {
		t.Fatalf("second restore = %+v", r2)
	}
	if r3 := tr.CalculateRestoreFromSession("kitty:kitty:500", "DP-1", false); r3.ShouldSnap {
		t.Errorf("third restore should find an empty queue, got %+v", r3)
	}
}

func TestCalculateRestoreFromSession_Gates(t *testing.T) {
	layouts := stubLayouts{"DP-1": twoZoneLayout("L1", "z1", "z2")}

	base := func() (*Tracker, *settings.Settings) {
		s := gaplessSettings()
		s.RestoreWindowsOnRestart = true
		tr := New(layouts, testScreens(), func() settings.Settings { return s })
		tr.AddPendingRestore("kitty:kitty", PendingRestore{
			ZoneIds: []string{"z1"}, Screen: "DP-1", Desktop: 1, LayoutId: "L1",
		})
		return tr, &s
	}

	t.Run("restoreDisabled", func(t *testing.T) {
		tr, s := base()
		s.RestoreWindowsOnRestart = false
		if tr.CalculateRestoreFromSession("kitty:kitty:1", "DP-1", false).ShouldSnap {
			t.Error("restored with restoreWindowsOnRestart off")
		}
	})

	t.Run("stickyRestoreOnlyAllows", func(t *testing.T) {
		tr, s := base()
		s.StickyWindowHandling = settings.StickyRestoreOnly
		if !tr.CalculateRestoreFromSession("kitty:kitty:1", "DP-1", true).ShouldSnap {
			t.Error("restore_only handling should still restore sticky windows")
		}
	})

	t.Run("stickyIgnoreAllBlocks", func(t *testing.T) {
		tr, s := base()
		s.StickyWindowHandling = settings.StickyIgnoreAll
		if tr.CalculateRestoreFromSession("kitty:kitty:1", "DP-1", true).ShouldSnap {
			t.Error("ignore_all handling restored a sticky window")
		}
	})

	t.Run("layoutChangedConsumesEntry", func(t *testing.T) {
		tr, _ := base()
		tr.pending["kitty:kitty"][0].LayoutId = "other-layout"
		if tr.CalculateRestoreFromSession("kitty:kitty:1", "DP-1", false).ShouldSnap {
			t.Error("restored into a different layout than the one saved")
		}
		if len(tr.PendingRestores()["kitty:kitty"]) != 0 {
			t.Error("failed restore left the queue entry behind")
		}
	})
}

func TestOnLayoutChanged_UnassignsAndBuffersResnap(t *testing.T) {
	old := twoZoneLayout("L1", "z1", "z2")
	layouts := stubLayouts{"DP-1": old}
	tr := newTestTracker(gaplessSettings(), layouts)

	tr.Assign("kitty:kitty:1", []string{"z1"}, "DP-1", 1)
	tr.Assign("kitty:kitty:2", []string{"z2"}, "DP-1", 1)

	layouts["DP-1"] = twoZoneLayout("L2", "n1", "n2")
	tr.OnLayoutChanged("DP-1", old)

	if tr.Zones("kitty:kitty:1") != nil || tr.Zones("kitty:kitty:2") != nil {
		t.Fatal("stale assignments survived the layout change")
	}

	resnaps := tr.CalculateResnapFromPreviousLayout()
	if len(resnaps) != 2 {
		t.Fatalf("got %d resnap assignments, want 2", len(resnaps))
	}
	byWindow := make(map[string]ResnapAssignment)
	for _, r := range resnaps {
		byWindow[r.WindowId] = r
	}
	if got := byWindow["kitty:kitty:1"].ZoneIds; !reflect.DeepEqual(got, []string{"n1"}) {
		t.Errorf("window 1 mapped to %v, want [n1]", got)
	}
	if got := byWindow["kitty:kitty:2"].Rect; got != (geometry.Rect{X: 500, Y: 0, Width: 500, Height: 800}) {
		t.Errorf("window 2 rect = %v", got)
	}

	// Buffer is consumed.
	if again := tr.CalculateResnapFromPreviousLayout(); len(again) != 0 {
		t.Errorf("resnap buffer not cleared: %v", again)
	}
}

func TestSnapshot_PendingOverridesActive(t *testing.T) {
	layouts := stubLayouts{"DP-1": twoZoneLayout("L1", "z1", "z2")}
	tr := newTestTracker(gaplessSettings(), layouts)

	// Closed instance saved z1; a still-open sibling sits in z2.
	tr.Assign("kitty:kitty:100", []string{"z1"}, "DP-1", 2)
	tr.Closed("kitty:kitty:100")
	tr.Assign("kitty:kitty:200", []string{"z2"}, "DP-1", 1)

	snap := tr.Snapshot()
	if got := snap.Assignments["kitty:kitty"]; !reflect.DeepEqual(got, []string{"z1"}) {
		t.Errorf("assignments[kitty:kitty] = %v, want the closed entry [z1]", got)
	}
	if got := snap.Desktops["kitty:kitty"]; got != 2 {
		t.Errorf("desktops[kitty:kitty] = %d, want 2", got)
	}
}

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	layouts := stubLayouts{"DP-1": twoZoneLayout("L1", "z1", "z2")}
	tr := newTestTracker(gaplessSettings(), layouts)

	tr.Assign("kitty:kitty:1", []string{"z1", "z2"}, "DP-1", 1)
	tr.StorePreSnap("kitty:kitty:1", geometry.Rect{X: 10, Y: 20, Width: 300, Height: 200})
	tr.RecordSnapIntent("kitty:kitty:1", true)
	tr.SetFloating("firefox:Navigator:5", true)

	s := gaplessSettings()
	s.RestoreWindowsOnRestart = true
	fresh := New(layouts, testScreens(), func() settings.Settings { return s })
	fresh.Restore(tr.Snapshot())

	if !fresh.IsFloating("firefox:Navigator:99") {
		t.Error("floating set lost in round trip")
	}
	if lu := fresh.LastUsedZone(); lu.ZoneId != "z1" {
		t.Errorf("lastUsed lost: %+v", lu)
	}
	r := fresh.CalculateRestoreFromSession("kitty:kitty:42", "DP-1", false)
	if !r.ShouldSnap || !reflect.DeepEqual(r.ZoneIds, []string{"z1", "z2"}) {
		t.Fatalf("restore after round trip = %+v", r)
	}
	if _, ok := fresh.ValidatedPreSnap("kitty:kitty:42"); !ok {
		t.Error("pre-snap geometry not reachable via stable id after restore")
	}
}
