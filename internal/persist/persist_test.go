package persist

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/fuddlesworth/PlasmaZones-sub001/internal/clock"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/geometry"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/screen"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/tracker"
)

func twoScreens() *screen.Static {
	return &screen.Static{
		List: []screen.Screen{
			{Name: "DP-1", Id: "serial-aaa", Available: geometry.Rect{Width: 1920, Height: 1040}},
			{Name: "HDMI-1", Id: "serial-bbb", Available: geometry.Rect{X: 1920, Width: 1280, Height: 1024}},
		},
		Cursor: "DP-1",
	}
}

func TestEncodeDecode_TranslatesScreenIds(t *testing.T) {
	screens := twoScreens()
	snap := tracker.Snapshot{
		Assignments: map[string][]string{"kitty:kitty": {"z1", "z2"}},
		Screens:     map[string]string{"kitty:kitty": "HDMI-1"},
		Desktops:    map[string]int{"kitty:kitty": 2},
		Layouts:     map[string]string{"kitty:kitty": "L1"},
		PreSnap:     map[string]geometry.Rect{"kitty:kitty": {X: 10, Y: 20, Width: 300, Height: 200}},
		PreFloatScr: map[string]string{"ff:nav": "DP-1"},
		PreFloat:    map[string][]string{"ff:nav": {"z2"}},
		Floating:    []string{"ff:nav"},
		UserSnapped: []string{"kitty"},
		LastUsed:    tracker.LastUsed{ZoneId: "z1", Screen: "DP-1", Class: "kitty", Desktop: 1},
	}

	doc := Encode(snap, screens)
	if doc.Screens["kitty:kitty"] != "serial-bbb" {
		t.Errorf("connector name not translated on save: %q", doc.Screens["kitty:kitty"])
	}
	if doc.LastUsedScreen != "serial-aaa" {
		t.Errorf("lastUsed screen = %q", doc.LastUsedScreen)
	}

	back := Decode(doc, screens)
	if back.Screens["kitty:kitty"] != "HDMI-1" {
		t.Errorf("screen id not translated back: %q", back.Screens["kitty:kitty"])
	}
	if !reflect.DeepEqual(back.Assignments, snap.Assignments) {
		t.Errorf("assignments = %v", back.Assignments)
	}
	if back.PreSnap["kitty:kitty"] != snap.PreSnap["kitty:kitty"] {
		t.Errorf("preSnap = %v", back.PreSnap)
	}
	if back.LastUsed != snap.LastUsed {
		t.Errorf("lastUsed = %+v", back.LastUsed)
	}
}

func TestEncode_UnknownScreenKeepsName(t *testing.T) {
	doc := Encode(tracker.Snapshot{
		Assignments: map[string][]string{"a:b": {"z"}},
		Screens:     map[string]string{"a:b": "DP-9"},
	}, twoScreens())
	if doc.Screens["a:b"] != "DP-9" {
		t.Errorf("unknown screen should pass through, got %q", doc.Screens["a:b"])
	}
}

func TestDecode_DedupesFloating(t *testing.T) {
	s := Decode(Document{Floating: []string{"a:b", "a:b", "", "c:d"}}, twoScreens())
	if !reflect.DeepEqual(s.Floating, []string{"a:b", "c:d"}) {
		t.Errorf("floating = %v", s.Floating)
	}
}

func TestStore_RoundTripAndMissingFile(t *testing.T) {
	st := &Store{Path: filepath.Join(t.TempDir(), "session.json")}

	if _, ok, err := st.Read(); ok || err != nil {
		t.Fatalf("missing file: ok=%v err=%v", ok, err)
	}

	want := Document{
		Version:      schemaVersion,
		Assignments:  map[string][]string{"kitty:kitty": {"z1"}},
		LastUsedZone: "z1",
	}
	if err := st.Write(want); err != nil {
		t.Fatal(err)
	}
	got, ok, err := st.Read()
	if !ok || err != nil {
		t.Fatalf("read back: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{nope"), 0644); err != nil {
		t.Fatal(err)
	}
	st := &Store{Path: path}
	if _, _, err := st.Read(); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("expected a parse error, got %v", err)
	}
}

func TestSaver_DebouncesBursts(t *testing.T) {
	st := &Store{Path: filepath.Join(t.TempDir(), "session.json")}
	clk := clock.NewFake()
	writes := 0
	snapshot := func() tracker.Snapshot {
		writes++
		return tracker.Snapshot{LastUsed: tracker.LastUsed{ZoneId: "z1"}}
	}
	saver := NewSaver(st, twoScreens(), snapshot, clk, 500*time.Millisecond)

	saver.Request()
	clk.Advance(300 * time.Millisecond)
	saver.Request() // pushes the deadline back
	clk.Advance(300 * time.Millisecond)
	if writes != 0 {
		t.Fatal("save fired before the debounce elapsed")
	}
	clk.Advance(200 * time.Millisecond)
	if writes != 1 {
		t.Fatalf("writes = %d, want 1", writes)
	}
	if _, ok, _ := st.Read(); !ok {
		t.Error("nothing written to disk")
	}

	// Flush cancels a pending timer and writes immediately.
	saver.Request()
	saver.Flush()
	if writes != 2 {
		t.Fatalf("writes after flush = %d", writes)
	}
	clk.Advance(time.Second)
	if writes != 2 {
		t.Error("cancelled timer fired anyway")
	}
}

func TestRestoreGate_FiresOnce(t *testing.T) {
	fired := 0
	g := &RestoreGate{OnReady: func() { fired++ }}

	g.LayoutReady()
	if fired != 0 {
		t.Fatal("fired with panels unknown")
	}
	g.PanelsReady()
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}
	g.LayoutReady()
	g.PanelsReady()
	if fired != 1 {
		t.Errorf("gate fired again: %d", fired)
	}
}
