// Package screen models the monitors the core tiles onto. The compositor
// owns the real screen state; this package only carries the geometry it
// reports and resolves which screen an operation targets.
package screen

import (
	"sync"

	"github.com/fuddlesworth/PlasmaZones-sub001/internal/geometry"
)

// Screen describes one monitor. Name is the volatile connector name
// (DP-1, HDMI-A-2); Id is the stable identifier persistence translates to,
// surviving replugs under a different connector. Available is the geometry
// minus panels and taskbars.
type Screen struct {
	Name      string        `json:"name"`
	Id        string        `json:"id"`
	Geometry  geometry.Rect `json:"geometry"`
	Available geometry.Rect `json:"available"`
}

// Provider supplies current screen state. The daemon wires a compositor
// backed implementation; tests pass a Static stub.
type Provider interface {
	Screens() []Screen
	ScreenByName(name string) (Screen, bool)
	// CursorScreen returns the name of the screen holding the cursor or the
	// active window, or "" when unknown.
	CursorScreen() string
}

// Resolve picks the screen an operation targets using the three-step
// fallback: explicit name first, then geometric containment of the given
// point, then the cursor screen.
func Resolve(p Provider, name string, center *geometry.Point) (Screen, bool) {
	if p == nil {
		return Screen{}, false
	}
	if name != "" {
		if s, ok := p.ScreenByName(name); ok {
			return s, true
		}
	}
	if center != nil {
		for _, s := range p.Screens() {
			if s.Available.Contains(*center) {
				return s, true
			}
		}
	}
	if cursor := p.CursorScreen(); cursor != "" {
		if s, ok := p.ScreenByName(cursor); ok {
			return s, true
		}
	}
	return Screen{}, false
}

// IdForName translates a connector name to its stable id. Falls back to the
// name itself when the screen is unknown, so persistence still round-trips.
func IdForName(p Provider, name string) string {
	if s, ok := p.ScreenByName(name); ok && s.Id != "" {
		return s.Id
	}
	return name
}

// NameForId translates a stable id back to the current connector name.
// Falls back to the id when no connected screen matches.
func NameForId(p Provider, id string) string {
	for _, s := range p.Screens() {
		if s.Id == id {
			return s.Name
		}
	}
	return id
}

// Static is a fixed Provider for tests and for driving the core from
// recorded compositor state.
type Static struct {
	List   []Screen
	Cursor string
}

func (s *Static) Screens() []Screen { return s.List }

func (s *Static) ScreenByName(name string) (Screen, bool) {
	for _, sc := range s.List {
		if sc.Name == name {
			return sc, true
		}
	}
	return Screen{}, false
}

func (s *Static) CursorScreen() string { return s.Cursor }

// Sync is a Provider the daemon updates as the compositor reports screen
// changes. Safe for concurrent readers and writers.
type Sync struct {
	mu     sync.RWMutex
	list   []Screen
	cursor string
}

// Update replaces the known screen set.
func (s *Sync) Update(screens []Screen) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = append(s.list[:0:0], screens...)
}

// SetCursor records the screen currently holding the cursor.
func (s *Sync) SetCursor(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = name
}

func (s *Sync) Screens() []Screen {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(s.list[:0:0], s.list...)
}

func (s *Sync) ScreenByName(name string) (Screen, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sc := range s.list {
		if sc.Name == name {
			return sc, true
		}
	}
	return Screen{}, false
}

func (s *Sync) CursorScreen() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor
}
