package zone

import (
	"testing"

	"github.com/fuddlesworth/PlasmaZones-sub001/internal/geometry"
)

func splitLayout() *Layout {
	return &Layout{
		Id:       "L1",
		Name:     "split",
		Category: CategoryStatic,
		Zones: []Zone{
			{Id: "z1", Number: 1, Relative: RelRect{X: 0, Y: 0, Width: 0.5, Height: 1}},
			{Id: "z2", Number: 2, Relative: RelRect{X: 0.5, Y: 0, Width: 0.5, Height: 1}},
		},
	}
}

var available = geometry.Rect{Width: 1000, Height: 800}

func TestPixelRects_NoGaps(t *testing.T) {
	rects := splitLayout().PixelRects(available, Gaps{}, 5)
	want := []geometry.Rect{
		{X: 0, Y: 0, Width: 500, Height: 800},
		{X: 500, Y: 0, Width: 500, Height: 800},
	}
	for i := range want {
		if rects[i] != want[i] {
			t.Errorf("rect %d = %+v, want %+v", i, rects[i], want[i])
		}
	}
}

func TestPixelRects_OuterAndInnerGaps(t *testing.T) {
	rects := splitLayout().PixelRects(available, Gaps{Inner: 10, Outer: 10}, 5)

	// Outer gap insets the area to 980x780 at (10,10); the interior edge
	// between the halves gives up half the inner gap on each side.
	want := []geometry.Rect{
		{X: 10, Y: 10, Width: 485, Height: 780},
		{X: 505, Y: 10, Width: 485, Height: 780},
	}
	for i := range want {
		if rects[i] != want[i] {
			t.Errorf("rect %d = %+v, want %+v", i, rects[i], want[i])
		}
	}
}

func TestPixelRects_GapOverrideWins(t *testing.T) {
	l := splitLayout()
	l.GapOverride = &Gaps{Inner: 0, Outer: 0}
	rects := l.PixelRects(available, Gaps{Inner: 10, Outer: 10}, 5)
	if rects[0] != (geometry.Rect{X: 0, Y: 0, Width: 500, Height: 800}) {
		t.Errorf("rect 0 = %+v, override not applied", rects[0])
	}
}

func TestPixelRects_FixedZoneWins(t *testing.T) {
	l := splitLayout()
	fixed := geometry.Rect{X: 100, Y: 100, Width: 300, Height: 200}
	l.Zones[0].Fixed = &fixed
	rects := l.PixelRects(available, Gaps{}, 5)
	if rects[0] != fixed {
		t.Errorf("rect 0 = %+v, want fixed %+v", rects[0], fixed)
	}
}

func TestCombinedRect(t *testing.T) {
	l := splitLayout()

	rect, ok := l.CombinedRect([]string{"z1", "z2"}, available, Gaps{}, 5)
	if !ok {
		t.Fatal("combined rect not resolved")
	}
	if rect != (geometry.Rect{X: 0, Y: 0, Width: 1000, Height: 800}) {
		t.Errorf("combined = %+v", rect)
	}

	if _, ok := l.CombinedRect([]string{"missing"}, available, Gaps{}, 5); ok {
		t.Error("resolved a rect from unknown ids")
	}
}

func TestZoneAt(t *testing.T) {
	l := splitLayout()
	z := l.ZoneAt(geometry.Point{X: 600, Y: 400}, available, Gaps{}, 5)
	if z == nil || z.Id != "z2" {
		t.Errorf("ZoneAt = %v, want z2", z)
	}
	if l.ZoneAt(geometry.Point{X: -5, Y: 0}, available, Gaps{}, 5) != nil {
		t.Error("resolved a zone outside the area")
	}
}

func TestRegenerate_MasterStack(t *testing.T) {
	l := &Layout{
		Id:          "dyn",
		Category:    CategoryDynamic,
		Kind:        DynamicMasterStack,
		MasterRatio: 0.6,
	}

	l.Regenerate(3)
	if len(l.Zones) != 3 {
		t.Fatalf("zones = %d, want 3", len(l.Zones))
	}
	master := l.Zones[0]
	if master.Number != 1 || master.Relative.Width != 0.6 || master.Relative.Height != 1 {
		t.Errorf("master = %+v", master.Relative)
	}
	for i, z := range l.Zones[1:] {
		if z.Relative.X != 0.6 || z.Relative.Height != 0.5 {
			t.Errorf("stack zone %d = %+v", i, z.Relative)
		}
	}

	// Single window fills the screen.
	l.Regenerate(1)
	if len(l.Zones) != 1 || l.Zones[0].Relative.Width != 1 {
		t.Errorf("single-window zones = %+v", l.Zones)
	}
}

func TestRegenerate_Grid(t *testing.T) {
	l := &Layout{Id: "dyn", Category: CategoryDynamic, Kind: DynamicGrid}
	l.Regenerate(3)
	// ceil(sqrt(3)) = 2 columns, 2 rows; third zone starts the second row.
	if len(l.Zones) != 3 {
		t.Fatalf("zones = %d, want 3", len(l.Zones))
	}
	third := l.Zones[2].Relative
	if third.X != 0 || third.Y != 0.5 {
		t.Errorf("third zone = %+v", third)
	}
}

func TestRegenerate_StaticUntouched(t *testing.T) {
	l := splitLayout()
	l.Regenerate(4)
	if len(l.Zones) != 2 || l.Zones[0].Id != "z1" {
		t.Errorf("static layout regenerated: %+v", l.Zones)
	}
}

func TestRegenerate_FreshIds(t *testing.T) {
	l := &Layout{Id: "dyn", Category: CategoryDynamic, Kind: DynamicColumns}
	l.Regenerate(2)
	first := l.Zones[0].Id
	l.Regenerate(2)
	if l.Zones[0].Id == first {
		t.Error("zone ids reused across regenerations")
	}
	if !ValidZoneId(l.Zones[0].Id) {
		t.Errorf("generated id %q is not a uuid", l.Zones[0].Id)
	}
}

func TestClampMasterRatio(t *testing.T) {
	if got := ClampMasterRatio(0.05); got != 0.1 {
		t.Errorf("clamp low = %v", got)
	}
	if got := ClampMasterRatio(0.95); got != 0.9 {
		t.Errorf("clamp high = %v", got)
	}
	if got := ClampMasterRatio(0.5); got != 0.5 {
		t.Errorf("clamp mid = %v", got)
	}
}

func TestValidate(t *testing.T) {
	l := splitLayout()
	if err := l.Validate(); err != nil {
		t.Errorf("valid layout rejected: %v", err)
	}

	l.Zones[1].Id = "z1"
	if err := l.Validate(); err == nil {
		t.Error("duplicate zone id accepted")
	}

	if err := (&Layout{Name: "anon"}).Validate(); err == nil {
		t.Error("layout without id accepted")
	}
}
