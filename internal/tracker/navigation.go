package tracker

import (
	"math"
	"sort"

	"github.com/fuddlesworth/PlasmaZones-sub001/internal/geometry"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/zone"
)

// NavTarget describes one window movement produced by a navigation query.
type NavTarget struct {
	WindowId    string        `json:"windowId"`
	SourceZones []string      `json:"sourceZones,omitempty"`
	TargetZones []string      `json:"targetZones"`
	Rect        geometry.Rect `json:"rect"`
	Screen      string        `json:"screen"`
}

type layoutGeometry struct {
	layout *zone.Layout
	rects  []geometry.Rect
	screen string
}

func (t *Tracker) resolveLayout(screenName string) (layoutGeometry, bool) {
	layout := t.layouts.ActiveLayout(screenName)
	if layout == nil || len(layout.Zones) == 0 {
		return layoutGeometry{}, false
	}
	scr, ok := t.screens.ScreenByName(screenName)
	if !ok {
		return layoutGeometry{}, false
	}
	s := t.getSettings()
	gaps := zone.Gaps{Inner: s.InnerGap, Outer: s.OuterGap}
	return layoutGeometry{
		layout: layout,
		rects:  layout.PixelRects(scr.Available, gaps, s.GapThreshold),
		screen: screenName,
	}, true
}

func (lg layoutGeometry) indexOf(zoneId string) int {
	for i := range lg.layout.Zones {
		if lg.layout.Zones[i].Id == zoneId {
			return i
		}
	}
	return -1
}

// navigateZone picks the zone reached by moving in a direction from the
// zone at currentIdx, comparing zone centers. When no zone lies in the
// direction the result wraps to the far edge, preferring zones aligned on
// the perpendicular axis.
func navigateZone(rects []geometry.Rect, currentIdx int, dir geometry.Direction) int {
	if currentIdx < 0 || currentIdx >= len(rects) {
		return 0
	}
	c := rects[currentIdx].Center()

	bestIdx := -1
	bestDist := -1
	for i, r := range rects {
		if i == currentIdx {
			continue
		}
		zc := r.Center()
		inDirection := false
		switch dir {
		case geometry.DirUp:
			inDirection = zc.Y < c.Y
		case geometry.DirDown:
			inDirection = zc.Y > c.Y
		case geometry.DirLeft:
			inDirection = zc.X < c.X
		case geometry.DirRight:
			inDirection = zc.X > c.X
		}
		if !inDirection {
			continue
		}
		dist := geometry.Abs(zc.X-c.X) + geometry.Abs(zc.Y-c.Y)
		if bestIdx == -1 || dist < bestDist {
			bestDist = dist
			bestIdx = i
		}
	}
	if bestIdx >= 0 {
		return bestIdx
	}

	// Wrap to the opposite edge, penalizing perpendicular offset.
	bestScore := math.MinInt
	for i, r := range rects {
		if i == currentIdx {
			continue
		}
		zc := r.Center()
		var score int
		switch dir {
		case geometry.DirUp:
			score = zc.Y*10000 - geometry.Abs(zc.X-c.X)
		case geometry.DirDown:
			score = -zc.Y*10000 - geometry.Abs(zc.X-c.X)
		case geometry.DirLeft:
			score = zc.X*10000 - geometry.Abs(zc.Y-c.Y)
		case geometry.DirRight:
			score = -zc.X*10000 - geometry.Abs(zc.Y-c.Y)
		}
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx >= 0 {
		return bestIdx
	}
	return currentIdx
}

// currentZoneIndex locates the window's primary zone in the layout, or the
// zone whose center is closest to the window's last known geometry when the
// window is unassigned (falls back to zone 0).
func (t *Tracker) currentZoneIndex(lg layoutGeometry, windowId string) int {
	if primary := t.primaryZone(windowId); primary != "" {
		if idx := lg.indexOf(primary); idx >= 0 {
			return idx
		}
	}
	return 0
}

// CalculateMoveTarget returns the destination for moving a window one zone
// in a direction. ok is false when the screen has no usable layout.
func (t *Tracker) CalculateMoveTarget(windowId string, dir geometry.Direction, screenName string) (NavTarget, bool) {
	lg, ok := t.resolveLayout(screenName)
	if !ok {
		return NavTarget{}, false
	}
	src := t.currentZoneIndex(lg, windowId)
	dst := src
	if t.primaryZone(windowId) != "" {
		dst = navigateZone(lg.rects, src, dir)
	}
	return NavTarget{
		WindowId:    windowId,
		SourceZones: t.Zones(windowId),
		TargetZones: []string{lg.layout.Zones[dst].Id},
		Rect:        lg.rects[dst],
		Screen:      screenName,
	}, true
}

// CalculateFocusTarget returns a window occupying the zone in the given
// direction from the active window's zone. ok is false when the target
// zone is empty or the layout is unusable.
func (t *Tracker) CalculateFocusTarget(activeWindow string, dir geometry.Direction, screenName string) (string, bool) {
	lg, ok := t.resolveLayout(screenName)
	if !ok {
		return "", false
	}
	src := t.currentZoneIndex(lg, activeWindow)
	dst := navigateZone(lg.rects, src, dir)
	if dst == src {
		return "", false
	}
	occupants := t.WindowsInZone(lg.layout.Zones[dst].Id)
	if len(occupants) == 0 {
		return "", false
	}
	sort.Strings(occupants)
	return occupants[0], true
}

// CalculateSwap moves the window into the zone in the given direction and
// the occupants of that zone into the window's current zone.
func (t *Tracker) CalculateSwap(windowId string, dir geometry.Direction, screenName string) ([]NavTarget, bool) {
	lg, ok := t.resolveLayout(screenName)
	if !ok {
		return nil, false
	}
	srcZone := t.primaryZone(windowId)
	if srcZone == "" {
		return nil, false
	}
	src := lg.indexOf(srcZone)
	if src < 0 {
		return nil, false
	}
	dst := navigateZone(lg.rects, src, dir)
	if dst == src {
		return nil, false
	}
	dstId := lg.layout.Zones[dst].Id
	out := []NavTarget{{
		WindowId:    windowId,
		SourceZones: []string{srcZone},
		TargetZones: []string{dstId},
		Rect:        lg.rects[dst],
		Screen:      screenName,
	}}
	displaced := t.WindowsInZone(dstId)
	sort.Strings(displaced)
	for _, w := range displaced {
		out = append(out, NavTarget{
			WindowId:    w,
			SourceZones: []string{dstId},
			TargetZones: []string{srcZone},
			Rect:        lg.rects[src],
			Screen:      screenName,
		})
	}
	return out, true
}

// CalculatePushToEdge moves the window to the zone furthest in a direction.
func (t *Tracker) CalculatePushToEdge(windowId string, dir geometry.Direction, screenName string) (NavTarget, bool) {
	lg, ok := t.resolveLayout(screenName)
	if !ok {
		return NavTarget{}, false
	}
	bestIdx := 0
	for i, r := range lg.rects {
		c := r.Center()
		b := lg.rects[bestIdx].Center()
		switch dir {
		case geometry.DirLeft:
			if c.X < b.X {
				bestIdx = i
			}
		case geometry.DirRight:
			if c.X > b.X {
				bestIdx = i
			}
		case geometry.DirUp:
			if c.Y < b.Y {
				bestIdx = i
			}
		case geometry.DirDown:
			if c.Y > b.Y {
				bestIdx = i
			}
		}
	}
	return NavTarget{
		WindowId:    windowId,
		SourceZones: t.Zones(windowId),
		TargetZones: []string{lg.layout.Zones[bestIdx].Id},
		Rect:        lg.rects[bestIdx],
		Screen:      screenName,
	}, true
}

// CalculateSnapByNumber resolves the zone with the given number on a screen.
func (t *Tracker) CalculateSnapByNumber(windowId string, number int, screenName string) (NavTarget, bool) {
	lg, ok := t.resolveLayout(screenName)
	if !ok {
		return NavTarget{}, false
	}
	z := lg.layout.ZoneByNumber(number)
	if z == nil {
		return NavTarget{}, false
	}
	idx := lg.indexOf(z.Id)
	if idx < 0 {
		return NavTarget{}, false
	}
	return NavTarget{
		WindowId:    windowId,
		SourceZones: t.Zones(windowId),
		TargetZones: []string{z.Id},
		Rect:        lg.rects[idx],
		Screen:      screenName,
	}, true
}

// CalculateRotation cycles every occupied zone's windows to the next (or
// previous) zone by zone number. Degenerate cases, fewer than two zones or
// no assigned windows, yield an empty list.
func (t *Tracker) CalculateRotation(clockwise bool, screenName string) []NavTarget {
	lg, ok := t.resolveLayout(screenName)
	if !ok || len(lg.layout.Zones) < 2 {
		return nil
	}

	order := make([]int, len(lg.layout.Zones))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return lg.layout.Zones[order[a]].Number < lg.layout.Zones[order[b]].Number
	})

	var out []NavTarget
	n := len(order)
	for pos, idx := range order {
		zid := lg.layout.Zones[idx].Id
		occupants := t.WindowsInZone(zid)
		if len(occupants) == 0 {
			continue
		}
		sort.Strings(occupants)
		var next int
		if clockwise {
			next = order[(pos+1)%n]
		} else {
			next = order[(pos-1+n)%n]
		}
		targetId := lg.layout.Zones[next].Id
		for _, w := range occupants {
			if t.windowScreens[w] != screenName {
				continue
			}
			out = append(out, NavTarget{
				WindowId:    w,
				SourceZones: []string{zid},
				TargetZones: []string{targetId},
				Rect:        lg.rects[next],
				Screen:      screenName,
			})
		}
	}
	return out
}
