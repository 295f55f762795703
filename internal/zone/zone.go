// Package zone models zones and layouts: the rectangles windows are tiled
// into, and the ordered collections that group them per screen.
package zone

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/fuddlesworth/PlasmaZones-sub001/internal/geometry"
)

// Category distinguishes layouts whose zones are fixed at edit time from
// layouts whose zones are regenerated from the window count.
type Category string

const (
	CategoryStatic  Category = "static"
	CategoryDynamic Category = "dynamic"
)

// DynamicKind selects the generator used by a dynamic layout.
type DynamicKind string

const (
	DynamicMasterStack DynamicKind = "master_stack"
	DynamicColumns     DynamicKind = "columns"
	DynamicGrid        DynamicKind = "grid"
)

// RelRect is a rectangle in layout space, each component in [0,1].
type RelRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Zone is a single tiling target. Either Relative or Fixed describes its
// geometry; Fixed wins when set. Appearance fields are carried opaquely for
// the overlay renderer and never interpreted here.
type Zone struct {
	Id         string            `json:"id"`
	Number     int               `json:"number"`
	Relative   RelRect           `json:"relative"`
	Fixed      *geometry.Rect    `json:"fixed,omitempty"`
	MinSize    geometry.Size     `json:"minSize"`
	Appearance map[string]string `json:"appearance,omitempty"`
}

// Gaps holds the pixel gaps applied when resolving zones to screen space.
type Gaps struct {
	Inner int `json:"inner"`
	Outer int `json:"outer"`
}

// Layout is an ordered set of zones plus the metadata the core reads.
type Layout struct {
	Id          string      `json:"id"`
	Name        string      `json:"name"`
	Category    Category    `json:"category"`
	Kind        DynamicKind `json:"kind,omitempty"`
	Zones       []Zone      `json:"zones"`
	MasterRatio float64     `json:"masterRatio,omitempty"`
	GapOverride *Gaps       `json:"gapOverride,omitempty"`
}

// NewZoneId returns a fresh version-4 zone identifier.
func NewZoneId() string { return uuid.NewString() }

// ValidZoneId reports whether s parses as a UUID.
func ValidZoneId(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// ZoneById returns the zone with the given id, or nil.
func (l *Layout) ZoneById(id string) *Zone {
	for i := range l.Zones {
		if l.Zones[i].Id == id {
			return &l.Zones[i]
		}
	}
	return nil
}

// ZoneByNumber returns the zone with the given number, or nil.
func (l *Layout) ZoneByNumber(n int) *Zone {
	for i := range l.Zones {
		if l.Zones[i].Number == n {
			return &l.Zones[i]
		}
	}
	return nil
}

// Dynamic reports whether the layout regenerates zones from window count.
func (l *Layout) Dynamic() bool { return l.Category == CategoryDynamic }

// EffectiveGaps returns the layout's gap override, or the supplied globals.
func (l *Layout) EffectiveGaps(global Gaps) Gaps {
	if l.GapOverride != nil {
		return *l.GapOverride
	}
	return global
}

// pixelRect resolves a single zone against an already outer-gapped area.
func (z *Zone) pixelRect(area geometry.Rect) geometry.Rect {
	if z.Fixed != nil {
		return *z.Fixed
	}
	return geometry.Rect{
		X:      area.X + int(z.Relative.X*float64(area.Width)),
		Y:      area.Y + int(z.Relative.Y*float64(area.Height)),
		Width:  int(z.Relative.Width * float64(area.Width)),
		Height: int(z.Relative.Height * float64(area.Height)),
	}
}

// Regenerate replaces the zones of a dynamic layout with a set sized for n
// windows, numbered 1..n in placement order. Zone ids are fresh on every
// regeneration. No-op for static layouts or n <= 0.
func (l *Layout) Regenerate(n int) {
	if !l.Dynamic() || n <= 0 {
		return
	}
	switch l.Kind {
	case DynamicMasterStack:
		l.Zones = masterStackZones(n, l.MasterRatio)
	case DynamicColumns:
		l.Zones = columnZones(n)
	default:
		l.Zones = gridZones(n)
	}
}

// ClampMasterRatio keeps the master ratio inside the usable range.
func ClampMasterRatio(r float64) float64 {
	if r < 0.1 {
		return 0.1
	}
	if r > 0.9 {
		return 0.9
	}
	return r
}

func masterStackZones(n int, ratio float64) []Zone {
	ratio = ClampMasterRatio(ratio)
	if n == 1 {
		return []Zone{{
			Id:       NewZoneId(),
			Number:   1,
			Relative: RelRect{X: 0, Y: 0, Width: 1, Height: 1},
		}}
	}
	zones := make([]Zone, 0, n)
	zones = append(zones, Zone{
		Id:       NewZoneId(),
		Number:   1,
		Relative: RelRect{X: 0, Y: 0, Width: ratio, Height: 1},
	})
	stack := n - 1
	h := 1.0 / float64(stack)
	for i := 0; i < stack; i++ {
		zones = append(zones, Zone{
			Id:       NewZoneId(),
			Number:   i + 2,
			Relative: RelRect{X: ratio, Y: float64(i) * h, Width: 1 - ratio, Height: h},
		})
	}
	return zones
}

func columnZones(n int) []Zone {
	w := 1.0 / float64(n)
	zones := make([]Zone, 0, n)
	for i := 0; i < n; i++ {
		zones = append(zones, Zone{
			Id:       NewZoneId(),
			Number:   i + 1,
			Relative: RelRect{X: float64(i) * w, Y: 0, Width: w, Height: 1},
		})
	}
	return zones
}

// gridZones mirrors the ceil-sqrt grid: cols = ceil(sqrt(n)),
// rows = ceil(n/cols).
func gridZones(n int) []Zone {
	cols := 1
	for cols*cols < n {
		cols++
	}
	rows := (n + cols - 1) / cols
	w := 1.0 / float64(cols)
	h := 1.0 / float64(rows)
	zones := make([]Zone, 0, n)
	for i := 0; i < n; i++ {
		row := i / cols
		col := i % cols
		zones = append(zones, Zone{
			Id:       NewZoneId(),
			Number:   i + 1,
			Relative: RelRect{X: float64(col) * w, Y: float64(row) * h, Width: w, Height: h},
		})
	}
	return zones
}

// Validate reports layout-level problems worth rejecting at load time.
func (l *Layout) Validate() error {
	if l.Id == "" {
		return fmt.Errorf("layout %q has no id", l.Name)
	}
	seen := make(map[string]struct{}, len(l.Zones))
	for i := range l.Zones {
		z := &l.Zones[i]
		if z.Id == "" {
			return fmt.Errorf("layout %q zone %d has no id", l.Name, z.Number)
		}
		if _, dup := seen[z.Id]; dup {
			return fmt.Errorf("layout %q has duplicate zone id %s", l.Name, z.Id)
		}
		seen[z.Id] = struct{}{}
	}
	return nil
}
