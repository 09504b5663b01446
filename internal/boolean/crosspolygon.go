package boolean

import (
	"sort"

	"polyedit/internal/geom2d"
	"polyedit/internal/polygon"
)

type xsect struct {
	point        geom2d.Point
	aEdge, bEdge int
}

// findIntersections brute-forces every (edgeA, edgeB) pair. touched
// reports a shared vertex or a touching edge (both rejected); collinear
// reports an overlapping collinear segment (also rejected).
func findIntersections(a, b *polygon.Polygon) (xs []xsect, touched, collinear bool) {
	aEdges := a.Edges()
	bEdges := b.Edges()
	aVerts := a.Vertices()
	bVerts := b.Vertices()

	for i, ea := range aEdges {
		for j, eb := range bEdges {
			kind, p1, _ := geom2d.Intersect(ea.Segment(), eb.Segment())
			switch kind {
			case geom2d.IntersectSegmentKind:
				collinear = true
			case geom2d.IntersectPointKind:
				if pointIn(p1, aVerts) || pointIn(p1, bVerts) {
					touched = true
					continue
				}
				xs = append(xs, xsect{point: p1, aEdge: i, bEdge: j})
			}
		}
	}
	return xs, touched, collinear
}

func pointIn(p geom2d.Point, pts []geom2d.Point) bool {
	for _, q := range pts {
		if p.Equal(q) {
			return true
		}
	}
	return false
}

// vertEdge is one entry of a cross polygon: either an original vertex or
// an intersection vertex spliced in along an edge.
type vertEdge struct {
	pt       geom2d.Point
	isCross  bool
	xsectIdx int // index into crossPolygons.xsects, valid iff isCross
}

// entryDir names which neighbor of a cross vertex an XVD entry points to.
type entryDir int

const (
	dirNext entryDir = iota
	dirPrev
)

// xvdEntry is one cross-vertex descriptor: one per edge incident to an
// intersection point, carrying enough to resume a walk on the other
// cross polygon.
type xvdEntry struct {
	poly  int // 0 for A's cross polygon, 1 for B's
	idx   int // vertex position within that cross polygon
	dir   entryDir
	angle float64
}

type label int

const (
	labelOutside label = iota
	labelInside
)

// crossPolygons holds the two spliced cross polygons, their per-edge
// labels, and the XVD list shared between the two vertices that sit at
// each intersection point.
type crossPolygons struct {
	verts  [2][]vertEdge
	outLbl [2][]label // outLbl[p][i] labels the forward edge i -> i+1
	xvd    []*[]xvdEntry
	orig   [2][]geom2d.Point

	// xsectVertIdx[poly][xsectIdx] is the position of that intersection
	// point within verts[poly].
	xsectVertIdx [2][]int
}

func buildCrossPolygons(a, b *polygon.Polygon) (*crossPolygons, error) {
	xs, touched, collinear := findIntersections(a, b)
	if collinear || touched {
		// Callers run the fast path first and only reach here once a
		// genuine crossing exists, but guard anyway for direct callers.
		return nil, errDomainTouch(touched, collinear)
	}

	cp := &crossPolygons{}
	cp.orig[0] = a.Vertices()
	cp.orig[1] = b.Vertices()

	cp.verts[0] = splice(cp.orig[0], a.Edges(), xs, true)
	cp.verts[1] = splice(cp.orig[1], b.Edges(), xs, false)

	// Two intersections at the same parameter on one edge splice in as
	// adjacent equal points; the ordering between them is undefined, so
	// the input is rejected as degenerate.
	for poly := 0; poly < 2; poly++ {
		vs := cp.verts[poly]
		n := len(vs)
		for i := 0; i < n; i++ {
			if vs[i].pt.Equal(vs[(i+1)%n].pt) {
				return nil, errDegenerate
			}
		}
	}

	// xsectIdx values assigned by splice index into xs directly; build
	// the shared XVD list per intersection.
	cp.xvd = make([]*[]xvdEntry, len(xs))
	for i := range xs {
		list := []xvdEntry{}
		cp.xvd[i] = &list
	}

	cp.xsectVertIdx[0] = make([]int, len(xs))
	cp.xsectVertIdx[1] = make([]int, len(xs))
	for poly := 0; poly < 2; poly++ {
		for i, v := range cp.verts[poly] {
			if v.isCross {
				cp.xsectVertIdx[poly][v.xsectIdx] = i
			}
		}
	}

	for poly := 0; poly < 2; poly++ {
		verts := cp.verts[poly]
		n := len(verts)
		for i, v := range verts {
			if !v.isCross {
				continue
			}
			prev := verts[(i-1+n)%n].pt
			next := verts[(i+1)%n].pt
			entries := cp.xvd[v.xsectIdx]
			*entries = append(*entries,
				xvdEntry{poly: poly, idx: i, dir: dirPrev, angle: geom2d.PolarAngle(geom2d.NewVector(v.pt, prev))},
				xvdEntry{poly: poly, idx: i, dir: dirNext, angle: geom2d.PolarAngle(geom2d.NewVector(v.pt, next))},
			)
		}
	}
	for _, list := range cp.xvd {
		sort.Slice(*list, func(i, j int) bool { return (*list)[i].angle < (*list)[j].angle })
	}

	cp.label()
	return cp, nil
}

func errDomainTouch(touched, collinear bool) error {
	if collinear {
		return errCollinear
	}
	return errTouching
}

// splice rebuilds a polygon's vertex cycle with every intersection found
// on each of its edges inserted in order of squared distance from the
// edge's start vertex. edgeIsA selects which side of each xsect entry
// (aEdge or bEdge) identifies "this polygon's" edge index.
func splice(verts []geom2d.Point, edges []polygon.Edge, xs []xsect, edgeIsA bool) []vertEdge {
	n := len(verts)
	perEdge := make([][]int, n)
	for k, x := range xs {
		e := x.bEdge
		if edgeIsA {
			e = x.aEdge
		}
		perEdge[e] = append(perEdge[e], k)
	}

	out := make([]vertEdge, 0, n+len(xs))
	for i := 0; i < n; i++ {
		out = append(out, vertEdge{pt: verts[i]})
		idxs := perEdge[i]
		start := edges[i].A
		sort.Slice(idxs, func(a, b int) bool {
			da := geom2d.DistanceSqr(start, xs[idxs[a]].point)
			db := geom2d.DistanceSqr(start, xs[idxs[b]].point)
			return da < db
		})
		for _, k := range idxs {
			out = append(out, vertEdge{pt: xs[k].point, isCross: true, xsectIdx: k})
		}
	}
	return out
}

// label assigns Inside/Outside to every forward edge of both cross
// polygons by testing whether the edge's midpoint lies inside the other
// original polygon. An edge between cross vertices never crosses the
// other polygon's boundary (every crossing is already spliced in as a
// vertex), so a single interior sample classifies the whole edge.
func (cp *crossPolygons) label() {
	for poly := 0; poly < 2; poly++ {
		other := cp.orig[1-poly]
		verts := cp.verts[poly]
		n := len(verts)
		lbl := make([]label, n)
		for i := 0; i < n; i++ {
			a := verts[i].pt
			b := verts[(i+1)%n].pt
			mid := geom2d.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
			if geom2d.Inside(mid, other) {
				lbl[i] = labelInside
			} else {
				lbl[i] = labelOutside
			}
		}
		cp.outLbl[poly] = lbl
	}
}
