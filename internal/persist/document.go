// Package persist snapshots tracker state to disk and restores it at
// startup. On disk everything is keyed by stable window ids and stable
// screen ids so entries survive compositor restarts; volatile connector
// names are translated at the boundary.
package persist

import (
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/geometry"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/screen"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/tracker"
)

// Document is the on-disk session schema.
type Document struct {
	Version            int                      `json:"version"`
	Assignments        map[string][]string      `json:"assignments,omitempty"`
	Screens            map[string]string        `json:"screens,omitempty"`
	Desktops           map[string]int           `json:"desktops,omitempty"`
	Layouts            map[string]string        `json:"layouts,omitempty"`
	PreSnapGeoms       map[string]geometry.Rect `json:"preSnapGeoms,omitempty"`
	PreFloatZones      map[string][]string      `json:"preFloatZones,omitempty"`
	PreFloatScreens    map[string]string        `json:"preFloatScreens,omitempty"`
	Floating           []string                 `json:"floating,omitempty"`
	UserSnappedClasses []string                 `json:"userSnappedClasses,omitempty"`
	LastUsedZone       string                   `json:"lastUsedZone,omitempty"`
	LastUsedScreen     string                   `json:"lastUsedScreen,omitempty"`
	LastUsedClass      string                   `json:"lastUsedClass,omitempty"`
	LastUsedDesktop    int                      `json:"lastUsedDesktop,omitempty"`
}

const schemaVersion = 1

// Encode turns a tracker snapshot into the on-disk document, translating
// connector names to stable screen ids.
func Encode(s tracker.Snapshot, screens screen.Provider) Document {
	doc := Document{
		Version:         schemaVersion,
		LastUsedZone:    s.LastUsed.ZoneId,
		LastUsedScreen:  screen.IdForName(screens, s.LastUsed.Screen),
		LastUsedClass:   s.LastUsed.Class,
		LastUsedDesktop: s.LastUsed.Desktop,
	}
	if len(s.Assignments) > 0 {
		doc.Assignments = make(map[string][]string, len(s.Assignments))
		for k, v := range s.Assignments {
			doc.Assignments[k] = append([]string(nil), v...)
		}
	}
	if len(s.Screens) > 0 {
		doc.Screens = make(map[string]string, len(s.Screens))
		for k, v := range s.Screens {
			doc.Screens[k] = screen.IdForName(screens, v)
		}
	}
	if len(s.Desktops) > 0 {
		doc.Desktops = make(map[string]int, len(s.Desktops))
		for k, v := range s.Desktops {
			if v > 0 {
				doc.Desktops[k] = v
			}
		}
	}
	if len(s.Layouts) > 0 {
		doc.Layouts = make(map[string]string, len(s.Layouts))
		for k, v := range s.Layouts {
			doc.Layouts[k] = v
		}
	}
	if len(s.PreSnap) > 0 {
		doc.PreSnapGeoms = make(map[string]geometry.Rect, len(s.PreSnap))
		for k, v := range s.PreSnap {
			doc.PreSnapGeoms[k] = v
		}
	}
	if len(s.PreFloat) > 0 {
		doc.PreFloatZones = make(map[string][]string, len(s.PreFloat))
		for k, v := range s.PreFloat {
			doc.PreFloatZones[k] = append([]string(nil), v...)
		}
	}
	if len(s.PreFloatScr) > 0 {
		doc.PreFloatScreens = make(map[string]string, len(s.PreFloatScr))
		for k, v := range s.PreFloatScr {
			doc.PreFloatScreens[k] = screen.IdForName(screens, v)
		}
	}
	doc.Floating = dedupe(s.Floating)
	doc.UserSnappedClasses = dedupe(s.UserSnapped)
	return doc
}

// Decode turns a loaded document back into a tracker snapshot, mapping
// stable screen ids to the connector names currently present.
func Decode(doc Document, screens screen.Provider) tracker.Snapshot {
	s := tracker.Snapshot{
		Assignments: make(map[string][]string, len(doc.Assignments)),
		Screens:     make(map[string]string, len(doc.Screens)),
		Desktops:    make(map[string]int, len(doc.Desktops)),
		Layouts:     make(map[string]string, len(doc.Layouts)),
		PreSnap:     make(map[string]geometry.Rect, len(doc.PreSnapGeoms)),
		PreFloat:    make(map[string][]string, len(doc.PreFloatZones)),
		PreFloatScr: make(map[string]string, len(doc.PreFloatScreens)),
		LastUsed: tracker.LastUsed{
			ZoneId:  doc.LastUsedZone,
			Screen:  screen.NameForId(screens, doc.LastUsedScreen),
			Class:   doc.LastUsedClass,
			Desktop: doc.LastUsedDesktop,
		},
	}
	for k, v := range doc.Assignments {
		if k != "" && len(v) > 0 {
			s.Assignments[k] = append([]string(nil), v...)
		}
	}
	for k, v := range doc.Screens {
		s.Screens[k] = screen.NameForId(screens, v)
	}
	for k, v := range doc.Desktops {
		if v > 0 {
			s.Desktops[k] = v
		}
	}
	for k, v := range doc.Layouts {
		s.Layouts[k] = v
	}
	for k, v := range doc.PreSnapGeoms {
		if !v.Empty() {
			s.PreSnap[k] = v
		}
	}
	for k, v := range doc.PreFloatZones {
		if len(v) > 0 {
			s.PreFloat[k] = append([]string(nil), v...)
		}
	}
	for k, v := range doc.PreFloatScreens {
		s.PreFloatScr[k] = screen.NameForId(screens, v)
	}
	s.Floating = dedupe(doc.Floating)
	s.UserSnapped = dedupe(doc.UserSnappedClasses)
	return s
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	var out []string
	for _, v := range in {
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
