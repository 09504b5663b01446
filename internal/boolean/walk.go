package boolean

import (
	"fmt"

	"polyedit/internal/domainerr"
	"polyedit/internal/geom2d"
)

// Rule picks the output contours of a Boolean operation out of the two
// cross polygons: for each operand poly, keepLabel names which
// Inside/Outside classification of its edges belongs in the result, dir
// names which way to walk that operand's cycle while collecting them,
// and collect names whether contours may start on that operand at all.
// Subtract walks its subtrahend backward (dirPrev) so the retained
// Inside(A) portion of B traces the boundary in the opposite sense from
// A's own contour, and collects only from A.
type Rule struct {
	keepLabel [2]label
	dir       [2]entryDir
	collect   [2]bool
}

func unionRule() Rule {
	return Rule{
		keepLabel: [2]label{labelOutside, labelOutside},
		dir:       [2]entryDir{dirNext, dirNext},
		collect:   [2]bool{true, true},
	}
}

func intersectRule() Rule {
	return Rule{
		keepLabel: [2]label{labelInside, labelInside},
		dir:       [2]entryDir{dirNext, dirNext},
		collect:   [2]bool{true, true},
	}
}

func subtractRule() Rule {
	return Rule{
		keepLabel: [2]label{labelOutside, labelInside},
		dir:       [2]entryDir{dirNext, dirPrev},
		collect:   [2]bool{true, false},
	}
}

func opposite(d entryDir) entryDir {
	if d == dirNext {
		return dirPrev
	}
	return dirNext
}

// edgeLabelAt returns the label of the edge crossed when moving from
// vertex i of the given poly in direction dir.
func (cp *crossPolygons) edgeLabelAt(poly, i int, dir entryDir) label {
	n := len(cp.verts[poly])
	if dir == dirNext {
		return cp.outLbl[poly][i]
	}
	return cp.outLbl[poly][(i-1+n)%n]
}

func (cp *crossPolygons) step(poly, i int, dir entryDir) int {
	n := len(cp.verts[poly])
	if dir == dirNext {
		return (i + 1) % n
	}
	return (i - 1 + n) % n
}

// edgeMarkIndex normalizes a (vertex, direction) step to the canonical
// forward-edge index it traverses, so a given underlying edge is marked
// visited the same way regardless of which end it is entered from.
func edgeMarkIndex(i int, dir entryDir, n int) int {
	if dir == dirNext {
		return i
	}
	return (i - 1 + n) % n
}

// walk traces every output contour selected by rule. It starts from
// every not-yet-visited edge whose label matches the rule's keepLabel
// for a collectible operand, follows that operand's cycle in the rule's
// direction, and performs an XVD jump at every intersection vertex,
// until the starting edge is re-encountered.
func (cp *crossPolygons) walk(rule Rule) ([][]geom2d.Point, error) {
	visited := [2][]bool{
		make([]bool, len(cp.verts[0])),
		make([]bool, len(cp.verts[1])),
	}

	var contours [][]geom2d.Point

	for startPoly := 0; startPoly < 2; startPoly++ {
		if !rule.collect[startPoly] {
			continue
		}
		n := len(cp.verts[startPoly])
		for startIdx := 0; startIdx < n; startIdx++ {
			dir := rule.dir[startPoly]
			if visited[startPoly][edgeMarkIndex(startIdx, dir, n)] {
				continue
			}
			if cp.edgeLabelAt(startPoly, startIdx, dir) != rule.keepLabel[startPoly] {
				continue
			}

			contour, err := cp.walkFrom(startPoly, startIdx, rule, visited)
			if err != nil {
				return nil, err
			}
			if len(contour) >= 3 {
				contours = append(contours, contour)
			}
		}
	}

	return contours, nil
}

func (cp *crossPolygons) walkFrom(startPoly, startIdx int, rule Rule, visited [2][]bool) ([]geom2d.Point, error) {
	poly, idx, dir := startPoly, startIdx, rule.dir[startPoly]
	startMark := edgeMarkIndex(startIdx, dir, len(cp.verts[startPoly]))

	var contour []geom2d.Point
	for {
		n := len(cp.verts[poly])
		visited[poly][edgeMarkIndex(idx, dir, n)] = true
		contour = append(contour, cp.verts[poly][idx].pt)

		next := cp.step(poly, idx, dir)
		if !cp.verts[poly][next].isCross {
			if poly == startPoly && next == startIdx {
				return contour, nil
			}
			idx = next
			continue
		}

		nextPoly, nextIdx, nextDir, closed, err := cp.jump(poly, next, dir, rule, visited, startPoly, startMark)
		if err != nil {
			return nil, err
		}
		if closed {
			return contour, nil
		}
		poly, idx, dir = nextPoly, nextIdx, nextDir
	}
}

// jump resumes the walk at a cross vertex: starting from the XVD entry
// matching the arrival direction, it scans the intersection point's
// incident edges in polar-angle order for the first edge the rule
// accepts, switching cross polygon and direction accordingly. closed
// reports that the scan reached the contour's starting edge instead.
func (cp *crossPolygons) jump(poly, vertIdx int, dir entryDir, rule Rule, visited [2][]bool, startPoly, startMark int) (nextPoly, nextIdx int, nextDir entryDir, closed bool, err error) {
	xIdx := cp.verts[poly][vertIdx].xsectIdx
	entries := *cp.xvd[xIdx]

	arrival := -1
	back := opposite(dir)
	for i, e := range entries {
		if e.poly == poly && e.idx == vertIdx && e.dir == back {
			arrival = i
			break
		}
	}
	if arrival < 0 {
		return 0, 0, 0, false, fmt.Errorf("%w: intersection vertex missing its arrival descriptor", domainerr.ErrDomain)
	}

	for k := 1; k <= len(entries); k++ {
		e := entries[(arrival+k)%len(entries)]
		if e.dir != rule.dir[e.poly] {
			continue
		}
		if cp.edgeLabelAt(e.poly, e.idx, e.dir) != rule.keepLabel[e.poly] {
			continue
		}
		mark := edgeMarkIndex(e.idx, e.dir, len(cp.verts[e.poly]))
		if e.poly == startPoly && mark == startMark {
			return 0, 0, 0, true, nil
		}
		if visited[e.poly][mark] {
			continue
		}
		return e.poly, e.idx, e.dir, false, nil
	}
	return 0, 0, 0, false, fmt.Errorf("%w: contour walk dead-ended at an intersection", domainerr.ErrDomain)
}
