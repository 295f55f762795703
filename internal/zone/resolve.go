package zone

import (
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/geometry"
	"github.com/fuddlesworth/PlasmaZones-sub001/internal/solver"
)

// edgeSnap is how close a resolved zone edge may sit to the outer area
// border and still be treated as touching it. Absorbs rounding from the
// relative-to-pixel conversion.
const edgeSnap = 2

// PixelRects resolves every zone of the layout against a screen's available
// area: outer gap first, relative-to-pixel conversion, inner gap insets on
// interior edges, then minimum-size enforcement. The result is index-aligned
// with l.Zones.
func (l *Layout) PixelRects(available geometry.Rect, global Gaps, gapThreshold int) []geometry.Rect {
	if len(l.Zones) == 0 || available.Empty() {
		return nil
	}
	gaps := l.EffectiveGaps(global)

	area := available
	area.X += gaps.Outer
	area.Y += gaps.Outer
	area.Width -= 2 * gaps.Outer
	area.Height -= 2 * gaps.Outer
	if area.Empty() {
		area = available
	}

	rects := make([]geometry.Rect, len(l.Zones))
	mins := make([]geometry.Size, len(l.Zones))
	for i := range l.Zones {
		rects[i] = l.Zones[i].pixelRect(area)
		mins[i] = l.Zones[i].MinSize
	}

	if gaps.Inner > 0 {
		half := gaps.Inner / 2
		for i := range rects {
			r := &rects[i]
			if r.X-area.X > edgeSnap {
				r.X += half
				r.Width -= half
			}
			if area.Right()-r.Right() > edgeSnap {
				r.Width -= half
			}
			if r.Y-area.Y > edgeSnap {
				r.Y += half
				r.Height -= half
			}
			if area.Bottom()-r.Bottom() > edgeSnap {
				r.Height -= half
			}
		}
	}

	return solver.EnforceMinSizes(rects, mins, gapThreshold, gaps.Inner)
}

// ZoneRect resolves a single zone by id. The second return is false when the
// id is not part of the layout.
func (l *Layout) ZoneRect(id string, available geometry.Rect, global Gaps, gapThreshold int) (geometry.Rect, bool) {
	rects := l.PixelRects(available, global, gapThreshold)
	for i := range l.Zones {
		if l.Zones[i].Id == id {
			return rects[i], true
		}
	}
	return geometry.Rect{}, false
}

// ZoneAt returns the zone whose resolved rect contains the point, or nil.
func (l *Layout) ZoneAt(p geometry.Point, available geometry.Rect, global Gaps, gapThreshold int) *Zone {
	rects := l.PixelRects(available, global, gapThreshold)
	for i := range rects {
		if rects[i].Contains(p) {
			return &l.Zones[i]
		}
	}
	return nil
}

// CombinedRect returns the bounding rect of the listed zone ids, for
// multi-zone snaps. The second return is false when none of the ids resolve.
func (l *Layout) CombinedRect(ids []string, available geometry.Rect, global Gaps, gapThreshold int) (geometry.Rect, bool) {
	rects := l.PixelRects(available, global, gapThreshold)
	var out geometry.Rect
	found := false
	for i := range l.Zones {
		for _, id := range ids {
			if l.Zones[i].Id == id {
				out = out.Union(rects[i])
				found = true
			}
		}
	}
	return out, found
}
