// Package boolean implements the planar polygon Boolean-operations engine:
// union, intersection, difference, symmetric difference, and partition
// over simple, hole-free, non-degenerate polygons.
//
// The engine builds a cross polygon per input (the original contour with
// every intersection with the other polygon spliced in as an extra
// vertex), links intersection points across both cross polygons with a shared
// XVD (cross-vertex descriptor) connectivity list, labels every edge
// Inside/Outside the other polygon, and walks the cross polygons
// collecting output contours per an operation-specific edge rule. This is
// a variant of the Leonov & Nikitin polygon-Boolean algorithm, restricted
// to simple, non-touching, non-degenerate inputs.
package boolean

import (
	"errors"
	"fmt"

	"polyedit/internal/domainerr"
	"polyedit/internal/geom2d"
	"polyedit/internal/polygon"
)

// Op identifies a Boolean set operation.
type Op int

const (
	OpUnion Op = iota
	OpIntersect
	OpSubtract
	OpXor
	OpPartition
)

func (op Op) String() string {
	switch op {
	case OpUnion:
		return "Union"
	case OpIntersect:
		return "Intersection"
	case OpSubtract:
		return "Difference"
	case OpXor:
		return "Exclusive-or"
	case OpPartition:
		return "Partition"
	default:
		return "Unknown"
	}
}

// Clip performs op(a, b), dispatching to the corresponding top-level
// function. It exists so callers (internal/action's BooleanOp) can store
// just an Op value rather than a function pointer.
func Clip(op Op, a, b *polygon.Polygon) ([]*polygon.Polygon, error) {
	switch op {
	case OpUnion:
		r, err := Union(a, b)
		if err != nil {
			return nil, err
		}
		return []*polygon.Polygon{r}, nil
	case OpIntersect:
		return Intersect(a, b)
	case OpSubtract:
		return Subtract(a, b)
	case OpXor:
		return Xor(a, b)
	case OpPartition:
		return Partition(a, b)
	default:
		return nil, fmt.Errorf("%w: unknown boolean operation %v", domainerr.ErrCall, op)
	}
}

func validateInputs(a, b *polygon.Polygon) error {
	if a == nil || b == nil {
		return fmt.Errorf("%w: input polygons must not be nil", domainerr.ErrCall)
	}
	if a.NumVertices() < 3 || !a.IsSimple() {
		return fmt.Errorf("%w: first operand is not a simple polygon", domainerr.ErrDomain)
	}
	if b.NumVertices() < 3 || !b.IsSimple() {
		return fmt.Errorf("%w: second operand is not a simple polygon", domainerr.ErrDomain)
	}
	return nil
}

// Union returns the single contour covering the union of a and b. It
// fails with an ErrRange-wrapped error if the union would require more
// than one contour (i.e. the result would have a hole).
func Union(a, b *polygon.Polygon) (*polygon.Polygon, error) {
	if err := validateInputs(a, b); err != nil {
		return nil, err
	}

	ccwA, ccwB := normalize(a, b)

	contours, fast, err := fastPathContours(ccwA, ccwB, OpUnion)
	if err != nil {
		return nil, err
	}
	if !fast {
		cp, err := buildCrossPolygons(ccwA, ccwB)
		if err != nil {
			return nil, err
		}
		contours, err = cp.walk(unionRule())
		if err != nil {
			return nil, err
		}
	}

	if len(contours) != 1 {
		return nil, fmt.Errorf("%w: union produced %d contours, result would have a hole", domainerr.ErrRange, len(contours))
	}
	return polygon.FromPoints(contours[0]), nil
}

// Intersect returns zero or more contours covering a ∩ b.
func Intersect(a, b *polygon.Polygon) ([]*polygon.Polygon, error) {
	if err := validateInputs(a, b); err != nil {
		return nil, err
	}
	ccwA, ccwB := normalize(a, b)

	contours, fast, err := fastPathContours(ccwA, ccwB, OpIntersect)
	if err != nil {
		return nil, err
	}
	if !fast {
		cp, err := buildCrossPolygons(ccwA, ccwB)
		if err != nil {
			return nil, err
		}
		contours, err = cp.walk(intersectRule())
		if err != nil {
			return nil, err
		}
	}
	return toPolygons(contours), nil
}

// Subtract returns zero or more contours covering a ∖ b.
func Subtract(a, b *polygon.Polygon) ([]*polygon.Polygon, error) {
	if err := validateInputs(a, b); err != nil {
		return nil, err
	}
	ccwA, ccwB := normalize(a, b)

	contours, fast, err := fastPathContours(ccwA, ccwB, OpSubtract)
	if err != nil {
		return nil, err
	}
	if !fast {
		cp, err := buildCrossPolygons(ccwA, ccwB)
		if err != nil {
			return nil, err
		}
		contours, err = cp.walk(subtractRule())
		if err != nil {
			return nil, err
		}
	}
	return toPolygons(contours), nil
}

// Xor returns the symmetric difference of a and b, computed as
// (a∖b) ∪ (b∖a): the subtract rule runs once per operand order.
func Xor(a, b *polygon.Polygon) ([]*polygon.Polygon, error) {
	d1, err := Subtract(a, b)
	if err != nil {
		return nil, err
	}
	d2, err := Subtract(b, a)
	if err != nil {
		return nil, err
	}
	return append(d1, d2...), nil
}

// Partition splits a by b into the overlapping region and the remainder
// of a: Partition(a,b) = Intersect(a,b) ∪ Subtract(a,b), which for b ⊂ a
// is exactly {b, a∖b}.
func Partition(a, b *polygon.Polygon) ([]*polygon.Polygon, error) {
	inter, err := Intersect(a, b)
	if err != nil {
		return nil, err
	}
	diff, err := Subtract(a, b)
	if err != nil {
		return nil, err
	}
	return append(inter, diff...), nil
}

func normalize(a, b *polygon.Polygon) (*polygon.Polygon, *polygon.Polygon) {
	ca, cb := a.Clone(), b.Clone()
	ca.ToCCW()
	cb.ToCCW()
	return ca, cb
}

func toPolygons(contours [][]geom2d.Point) []*polygon.Polygon {
	out := make([]*polygon.Polygon, 0, len(contours))
	for _, c := range contours {
		out = append(out, polygon.FromPoints(c))
	}
	return out
}

// fastPathContours handles the case where a and b do not cross at all:
// either disjoint or one strictly contains the other. ok is false when a
// genuine intersection exists and the caller must run the full
// cross-polygon algorithm instead.
func fastPathContours(a, b *polygon.Polygon, op Op) (contours [][]geom2d.Point, ok bool, err error) {
	xs, touched, collinear := findIntersections(a, b)
	if collinear {
		return nil, false, errCollinear
	}
	if touched {
		return nil, false, errTouching
	}
	if len(xs) > 0 {
		return nil, false, nil
	}

	aInB := geom2d.Inside(a.Vertex(0), b.Vertices())
	bInA := geom2d.Inside(b.Vertex(0), a.Vertices())

	switch {
	case !aInB && !bInA:
		// Disjoint.
		switch op {
		case OpUnion:
			return nil, true, fmt.Errorf("%w: disjoint polygons would union into two contours", domainerr.ErrRange)
		case OpIntersect:
			return [][]geom2d.Point{}, true, nil
		case OpSubtract:
			return [][]geom2d.Point{a.Vertices()}, true, nil
		}
	case bInA:
		// b strictly inside a.
		switch op {
		case OpUnion:
			return [][]geom2d.Point{a.Vertices()}, true, nil
		case OpIntersect:
			return [][]geom2d.Point{b.Vertices()}, true, nil
		case OpSubtract:
			return [][]geom2d.Point{bridge(a.Vertices(), b.Vertices())}, true, nil
		}
	case aInB:
		// a strictly inside b.
		switch op {
		case OpUnion:
			return [][]geom2d.Point{b.Vertices()}, true, nil
		case OpIntersect:
			return [][]geom2d.Point{a.Vertices()}, true, nil
		case OpSubtract:
			return [][]geom2d.Point{}, true, nil
		}
	}
	return nil, false, errors.New("boolean: unreachable fast path")
}

// bridge splices inner into outer as a single self-touching contour (a
// zero-width channel connecting the two rings), so that outer∖inner is
// representable as one contour with no hole. The bridge contributes zero
// net signed area.
func bridge(outer, inner []geom2d.Point) []geom2d.Point {
	oi, ii := closestPair(outer, inner)

	result := make([]geom2d.Point, 0, len(outer)+len(inner)+2)
	result = append(result, outer[:oi+1]...)

	n := len(inner)
	for k := 0; k <= n; k++ {
		idx := ((ii-k)%n + n) % n
		result = append(result, inner[idx])
	}
	result = append(result, outer[oi])
	result = append(result, outer[oi+1:]...)
	return result
}

func closestPair(outer, inner []geom2d.Point) (oi, ii int) {
	best := -1.0
	for i, op := range outer {
		for j, ip := range inner {
			d := geom2d.DistanceSqr(op, ip)
			if best < 0 || d < best {
				best = d
				oi, ii = i, j
			}
		}
	}
	return oi, ii
}
