package geom2d

import "math"

// ParallelEpsilon is the absolute tolerance on the perp-dot-product used by
// Intersect to decide whether two segments are (near-)parallel. Equality
// elsewhere in this package is exact; this single tolerance is the one
// deliberate exception, needed because near-parallel segments make the
// intersection parameter's denominator blow up under exact comparison.
const ParallelEpsilon = 1e-8

func onSegmentBox(a, b, p Point) bool {
	return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
}

// SegmentsIntersect decides whether two segments overlap, including
// collinear overlap or an endpoint touch, by dispatching on the
// orientation of each endpoint relative to the other segment. It never
// divides.
func SegmentsIntersect(s1, s2 Segment) bool {
	o1 := OrientationPts(s1.P1, s1.P2, s2.P1)
	o2 := OrientationPts(s1.P1, s1.P2, s2.P2)
	o3 := OrientationPts(s2.P1, s2.P2, s1.P1)
	o4 := OrientationPts(s2.P1, s2.P2, s1.P2)

	if o1 != o2 && o3 != o4 {
		return true
	}

	if o1 == Collinear && onSegmentBox(s1.P1, s1.P2, s2.P1) {
		return true
	}
	if o2 == Collinear && onSegmentBox(s1.P1, s1.P2, s2.P2) {
		return true
	}
	if o3 == Collinear && onSegmentBox(s2.P1, s2.P2, s1.P1) {
		return true
	}
	if o4 == Collinear && onSegmentBox(s2.P1, s2.P2, s1.P2) {
		return true
	}
	return false
}

// IntersectKind classifies the result of Intersect.
type IntersectKind int

const (
	IntersectEmpty IntersectKind = iota
	IntersectPointKind
	IntersectSegmentKind
)

// Intersect solves the 2-parameter linear system for the intersection of
// two segments using perp-dot products. For near-parallel segments
// (|det| < ParallelEpsilon) it falls back to a collinear-overlap test;
// otherwise it returns IntersectPointKind iff both parameters lie in
// [0,1].
func Intersect(s1, s2 Segment) (kind IntersectKind, p1, p2 Point) {
	r := s1.Vector()
	s := s2.Vector()
	denom := r.Cross(s)

	qp := NewVector(s1.P1, s2.P1)

	if math.Abs(denom) < ParallelEpsilon {
		return intersectCollinear(s1, s2, r, qp)
	}

	t := qp.Cross(s) / denom
	u := qp.Cross(r) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return IntersectEmpty, Point{}, Point{}
	}
	return IntersectPointKind, s1.P1.Add(r.Scale(t)), Point{}
}

func intersectCollinear(s1, s2 Segment, r, qp Vector) (IntersectKind, Point, Point) {
	// Parallel lines that are not the same line never intersect.
	if math.Abs(r.Cross(qp)) >= ParallelEpsilon {
		return IntersectEmpty, Point{}, Point{}
	}

	lenSqr := r.LengthSqr()
	if lenSqr == 0 {
		// s1 degenerates to a point; test containment in s2 instead.
		if onSegmentBox(s2.P1, s2.P2, s1.P1) {
			return IntersectPointKind, s1.P1, Point{}
		}
		return IntersectEmpty, Point{}, Point{}
	}

	param := func(p Point) float64 {
		return NewVector(s1.P1, p).Dot(r) / lenSqr
	}

	t3, t4 := param(s2.P1), param(s2.P2)
	if t3 > t4 {
		t3, t4 = t4, t3
	}
	tmin := math.Max(0, t3)
	tmax := math.Min(1, t4)

	if tmin > tmax {
		return IntersectEmpty, Point{}, Point{}
	}
	if tmin == tmax {
		return IntersectPointKind, s1.P1.Add(r.Scale(tmin)), Point{}
	}
	return IntersectSegmentKind, s1.P1.Add(r.Scale(tmin)), s1.P1.Add(r.Scale(tmax))
}
