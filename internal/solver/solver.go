// Package solver redistributes pixels between zone rectangles so that every
// zone meets its minimum size without overlapping its neighbours and without
// collapsing configured gaps. It is a pure function over rectangles: no
// state, no side effects, symmetric in the two axes.
package solver

import (
	"sort"

	"github.com/fuddlesworth/PlasmaZones-sub001/internal/geometry"
)

const (
	// hardMin is the floor applied to constrained columns so that a tiny
	// configured minimum cannot produce an unusable sliver.
	hardMin = 50

	// maxStealRounds bounds the pairwise fallback.
	maxStealRounds = 10
)

type axis int

const (
	axisX axis = iota
	axisY
)

func span(r geometry.Rect, a axis) (pos, length int) {
	if a == axisX {
		return r.X, r.Width
	}
	return r.Y, r.Height
}

func setSpan(r *geometry.Rect, a axis, pos, length int) {
	if a == axisX {
		r.X, r.Width = pos, length
	} else {
		r.Y, r.Height = pos, length
	}
}

func minFor(s geometry.Size, a axis) int {
	if a == axisX {
		return s.Width
	}
	return s.Height
}

func perpOverlap(r1, r2 geometry.Rect, a axis) int {
	if a == axisX {
		return r1.OverlapY(r2)
	}
	return r1.OverlapX(r2)
}

// EnforceMinSizes returns a copy of zones adjusted so each rectangle meets
// its minimum size, horizontally then vertically. minSizes is index-aligned
// with zones; a zero component means unconstrained. gapThreshold is the
// largest pixel distance between edges still treated as adjacency, innerGap
// the gap preserved while resolving overlaps.
//
// A length mismatch between zones and minSizes returns the input unchanged;
// every other input degrades instead of failing.
func EnforceMinSizes(zones []geometry.Rect, minSizes []geometry.Size, gapThreshold, innerGap int) []geometry.Rect {
	out := append([]geometry.Rect(nil), zones...)
	if len(zones) != len(minSizes) || len(zones) == 0 {
		return out
	}

	for _, a := range []axis{axisX, axisY} {
		solved := solveColumns(out, minSizes, a, gapThreshold)
		if !solved || deficient(out, minSizes, a) {
			stealPairwise(out, minSizes, a, gapThreshold)
		}
		cleanupOverlaps(out, minSizes, a, innerGap)
	}
	return out
}

func deficient(zones []geometry.Rect, minSizes []geometry.Size, a axis) bool {
	for i := range zones {
		_, length := span(zones[i], a)
		if m := minFor(minSizes[i], a); m > 0 && length < m {
			return true
		}
	}
	return false
}

// solveColumns is the column-group phase: zones that share a column interval
// move together, so regular grids and hierarchical layouts keep their shared
// boundaries straight. Returns false when the layout is irregular (a zone
// straddles several intervals, or an empty interval is too wide to be a gap)
// and the pairwise fallback must run instead.
func solveColumns(zones []geometry.Rect, minSizes []geometry.Size, a axis, gapThreshold int) bool {
	// Boundary coordinates: every start and end edge, deduplicated.
	edgeSet := make(map[int]struct{}, len(zones)*2)
	for _, z := range zones {
		pos, length := span(z, a)
		edgeSet[pos] = struct{}{}
		edgeSet[pos+length] = struct{}{}
	}
	bounds := make([]int, 0, len(edgeSet))
	for e := range edgeSet {
		bounds = append(bounds, e)
	}
	sort.Ints(bounds)
	nCols := len(bounds) - 1
	if nCols < 1 {
		return true
	}

	idx := make(map[int]int, len(bounds))
	for i, b := range bounds {
		idx[b] = i
	}

	// Map every zone to the single column interval it occupies.
	colOf := make([]int, len(zones))
	for i, z := range zones {
		pos, length := span(z, a)
		lo, okLo := idx[pos]
		hi, okHi := idx[pos+length]
		if !okLo || !okHi || hi != lo+1 {
			// Irregular layout: zone straddles more than one interval.
			return false
		}
		colOf[i] = lo
	}

	colMin := make([]int, nCols)
	occupied := make([]bool, nCols)
	constrained := make([]bool, nCols)
	for i := range zones {
		c := colOf[i]
		occupied[c] = true
		if m := minFor(minSizes[i], a); m > colMin[c] {
			colMin[c] = m
		}
	}

	for c := 0; c < nCols; c++ {
		width := bounds[c+1] - bounds[c]
		if !occupied[c] {
			// Empty interval: a gap spacer between zone groups, locked to
			// its current width. Anything wider means the groups are not
			// actually adjacent and the column model does not apply.
			if width > gapThreshold {
				return false
			}
			colMin[c] = width
			constrained[c] = true
			continue
		}
		if colMin[c] > 0 {
			if colMin[c] < hardMin {
				colMin[c] = hardMin
			}
			constrained[c] = true
		} else {
			colMin[c] = 1
		}
	}

	totalSpan := bounds[nCols] - bounds[0]
	sumAll, sumConstrained := 0, 0
	anyDeficit := false
	for c := 0; c < nCols; c++ {
		sumAll += colMin[c]
		if constrained[c] {
			sumConstrained += colMin[c]
		}
		if bounds[c+1]-bounds[c] < colMin[c] {
			anyDeficit = true
		}
	}

	if !anyDeficit && sumAll <= totalSpan {
		return true
	}

	newBounds := make([]int, len(bounds))
	switch {
	case sumAll <= totalSpan:
		// Forward sweep pushes right boundaries out, backward sweep pulls
		// left boundaries in; the outer boundaries stay clamped to the
		// original span.
		copy(newBounds, bounds)
		for c := 0; c < nCols; c++ {
			if newBounds[c+1] < newBounds[c]+colMin[c] {
				newBounds[c+1] = newBounds[c] + colMin[c]
			}
		}
		newBounds[nCols] = bounds[nCols]
		for c := nCols - 1; c >= 0; c-- {
			if newBounds[c] > newBounds[c+1]-colMin[c] {
				newBounds[c] = newBounds[c+1] - colMin[c]
			}
		}
		if newBounds[0] < bounds[0] {
			newBounds[0] = bounds[0]
		}

	case sumConstrained <= totalSpan:
		// Constrained columns get exactly their minimum; whatever is left
		// is split among the unconstrained ones.
		free := totalSpan - sumConstrained
		nUnconstrained := 0
		for c := 0; c < nCols; c++ {
			if !constrained[c] {
				nUnconstrained++
			}
		}
		share, extra := 0, 0
		if nUnconstrained > 0 {
			share = free / nUnconstrained
			extra = free % nUnconstrained
		}
		newBounds[0] = bounds[0]
		for c := 0; c < nCols; c++ {
			w := colMin[c]
			if !constrained[c] {
				w = share
				if extra > 0 {
					w++
					extra--
				}
				if w < 1 {
					w = 1
				}
			}
			newBounds[c+1] = newBounds[c] + w
		}

	default:
		// Unsatisfiable: degrade to a proportional share per column. The
		// only regime that does not preserve pixel count exactly.
		newBounds[0] = bounds[0]
		for c := 0; c < nCols; c++ {
			w := totalSpan * colMin[c] / sumAll
			if w < 1 {
				w = 1
			}
			newBounds[c+1] = newBounds[c] + w
		}
	}

	for i := range zones {
		c := colOf[i]
		setSpan(&zones[i], a, newBounds[c], newBounds[c+1]-newBounds[c])
	}
	return true
}

// stealPairwise grows each deficient zone by taking pixels from adjacent
// zones with surplus. When a boundary shifts, every zone sharing that exact
// edge coordinate moves with it, which keeps shared dividers straight in
// hierarchical layouts.
func stealPairwise(zones []geometry.Rect, minSizes []geometry.Size, a axis, gapThreshold int) {
	for round := 0; round < maxStealRounds; round++ {
		progress := false
		for i := range zones {
			need := minFor(minSizes[i], a)
			if need <= 0 {
				continue
			}
			_, length := span(zones[i], a)
			deficit := need - length
			if deficit <= 0 {
				continue
			}
			for j := range zones {
				if j == i || deficit <= 0 {
					continue
				}
				if perpOverlap(zones[i], zones[j], a) <= 0 {
					continue
				}
				surplus := axisSurplus(zones[j], minSizes[j], a)
				if surplus <= 0 {
					continue
				}

				iPos, iLen := span(zones[i], a)
				jPos, jLen := span(zones[j], a)
				var moved int
				switch {
				case jPos >= iPos+iLen && jPos-(iPos+iLen) <= gapThreshold:
					moved = shiftBoundary(zones, minSizes, a, iPos+iLen, jPos, minInt(deficit, surplus), false)
				case iPos >= jPos+jLen && iPos-(jPos+jLen) <= gapThreshold:
					moved = shiftBoundary(zones, minSizes, a, iPos, jPos+jLen, minInt(deficit, surplus), true)
				default:
					continue
				}
				if moved > 0 {
					deficit -= moved
					progress = true
				}
			}
		}
		if !progress {
			return
		}
	}
}

func axisSurplus(z geometry.Rect, m geometry.Size, a axis) int {
	_, length := span(z, a)
	floor := minFor(m, a)
	if floor < 1 {
		floor = 1
	}
	return length - floor
}

// shiftBoundary moves a shared boundary by up to want pixels, co-moving
// every zone whose exact edge coordinate matches one of the moving pair's
// edges. With leftward=false the grower's end edge sits at growEdge and the
// shrinker's start edge at shrinkEdge, and the boundary shifts toward higher
// coordinates; with leftward=true the grower's start edge sits at growEdge,
// the shrinker's end edge at shrinkEdge, and the boundary shifts toward
// lower coordinates. The shift is clamped by the clearance to the nearest
// zone that is not co-moving and by the co-moved shrinkers' own minimums.
// Returns the applied shift.
func shiftBoundary(zones []geometry.Rect, minSizes []geometry.Size, a axis, growEdge, shrinkEdge, want int, leftward bool) int {
	growers := make([]int, 0, 2)
	shrinkers := make([]int, 0, 2)
	comoved := make(map[int]bool, 4)
	for k := range zones {
		pos, length := span(zones[k], a)
		if leftward {
			if pos == growEdge {
				growers = append(growers, k)
				comoved[k] = true
			}
			if pos+length == shrinkEdge {
				shrinkers = append(shrinkers, k)
				comoved[k] = true
			}
		} else {
			if pos+length == growEdge {
				growers = append(growers, k)
				comoved[k] = true
			}
			if pos == shrinkEdge {
				shrinkers = append(shrinkers, k)
				comoved[k] = true
			}
		}
	}
	if len(growers) == 0 || len(shrinkers) == 0 {
		return 0
	}

	delta := want
	// Shrinkers keep at least their own minimum (1 px when unconstrained).
	for _, s := range shrinkers {
		if room := axisSurplus(zones[s], minSizes[s], a); room < delta {
			delta = room
		}
	}
	// Growers may not run into a third zone that is not co-moving. This
	// clamp is what keeps quadrants from spilling across rows in
	// hierarchical layouts.
	for _, g := range growers {
		for k := range zones {
			if comoved[k] || perpOverlap(zones[g], zones[k], a) <= 0 {
				continue
			}
			kPos, kLen := span(zones[k], a)
			var clearance int
			if leftward {
				if kPos+kLen > growEdge {
					continue
				}
				clearance = growEdge - (kPos + kLen)
			} else {
				if kPos < growEdge {
					continue
				}
				clearance = kPos - growEdge
			}
			if clearance < delta {
				delta = clearance
			}
		}
	}
	if delta <= 0 {
		return 0
	}

	for _, g := range growers {
		pos, length := span(zones[g], a)
		if leftward {
			setSpan(&zones[g], a, pos-delta, length+delta)
		} else {
			setSpan(&zones[g], a, pos, length+delta)
		}
	}
	for _, s := range shrinkers {
		pos, length := span(zones[s], a)
		if leftward {
			setSpan(&zones[s], a, pos, length-delta)
		} else {
			setSpan(&zones[s], a, pos+delta, length-delta)
		}
	}
	return delta
}

// cleanupOverlaps removes residual overlaps between zone pairs on one axis.
// The shared boundary lands proportionally to each side's surplus, offset by
// innerGap/2 per side when both sides can still afford it.
func cleanupOverlaps(zones []geometry.Rect, minSizes []geometry.Size, a axis, innerGap int) {
	for i := range zones {
		for j := i + 1; j < len(zones); j++ {
			if !zones[i].Intersects(zones[j]) {
				continue
			}
			left, right := i, j
			lp, _ := span(zones[left], a)
			rp, _ := span(zones[right], a)
			if rp < lp {
				left, right = right, left
				lp, rp = rp, lp
			}

			lPos, lLen := span(zones[left], a)
			rPos, rLen := span(zones[right], a)
			overlapStart := rPos
			overlapEnd := lPos + lLen
			if overlapEnd <= overlapStart {
				continue
			}
			overlap := overlapEnd - overlapStart

			lSurplus := axisSurplus(zones[left], minSizes[left], a)
			rSurplus := axisSurplus(zones[right], minSizes[right], a)
			var boundary int
			if lSurplus <= 0 && rSurplus <= 0 {
				boundary = overlapStart + overlap/2
			} else {
				boundary = overlapStart + overlap*rSurplus/(lSurplus+rSurplus)
			}

			half := innerGap / 2
			lEnd, rStart := boundary, boundary
			if half > 0 {
				lMin := minFor(minSizes[left], a)
				rMin := minFor(minSizes[right], a)
				if boundary-half-lPos >= maxInt(lMin, 1) && rPos+rLen-(boundary+half) >= maxInt(rMin, 1) {
					lEnd = boundary - half
					rStart = boundary + half
				}
			}

			newLLen := lEnd - lPos
			newRLen := rPos + rLen - rStart
			if newLLen < 1 || newRLen < 1 {
				continue
			}
			setSpan(&zones[left], a, lPos, newLLen)
			setSpan(&zones[right], a, rStart, newRLen)
		}
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
