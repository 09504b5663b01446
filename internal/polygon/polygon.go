// Package polygon implements the ordered-vertex-cycle container the
// editor's domain layer operates on. A Polygon is a closed cyclic
// contour of zero or more points; orientation (CW/CCW) is a derived
// property, and simplicity is tested, never enforced.
package polygon

import (
	"polyedit/internal/geom2d"
)

// Polygon is an ordered sequence of points representing a closed cyclic
// contour: the last vertex connects back to the first. Vertex count 0 is
// permitted only as a transient default-constructed state; any polygon
// stored in the domain has at least one vertex.
type Polygon struct {
	vertices []geom2d.Point
}

// New returns an empty polygon.
func New() *Polygon {
	return &Polygon{}
}

// FromPoints returns a polygon initialized with the given vertices, in
// order.
func FromPoints(pts []geom2d.Point) *Polygon {
	vertices := make([]geom2d.Point, len(pts))
	copy(vertices, pts)
	return &Polygon{vertices: vertices}
}

// Clone returns a deep copy of p.
func (p *Polygon) Clone() *Polygon {
	return FromPoints(p.vertices)
}

// NumVertices returns the number of vertices.
func (p *Polygon) NumVertices() int {
	return len(p.vertices)
}

// Empty reports whether the polygon has no vertices.
func (p *Polygon) Empty() bool {
	return len(p.vertices) == 0
}

// Vertex returns the vertex at position i.
func (p *Polygon) Vertex(i int) geom2d.Point {
	return p.vertices[i]
}

// SetVertex overwrites the vertex at position i.
func (p *Polygon) SetVertex(i int, pt geom2d.Point) {
	p.vertices[i] = pt
}

// Vertices returns a copy of the vertex slice, in cyclic order.
func (p *Polygon) Vertices() []geom2d.Point {
	out := make([]geom2d.Point, len(p.vertices))
	copy(out, p.vertices)
	return out
}

// AddVertex appends pt at the end of the contour.
func (p *Polygon) AddVertex(pt geom2d.Point) {
	p.vertices = append(p.vertices, pt)
}

// InsertVertex inserts pt before position i (0 <= i <= NumVertices()).
func (p *Polygon) InsertVertex(i int, pt geom2d.Point) {
	p.vertices = append(p.vertices, geom2d.Point{})
	copy(p.vertices[i+1:], p.vertices[i:])
	p.vertices[i] = pt
}

// RemoveVertex removes the vertex at position i.
func (p *Polygon) RemoveVertex(i int) {
	copy(p.vertices[i:], p.vertices[i+1:])
	p.vertices = p.vertices[:len(p.vertices)-1]
}

// Edge is one cyclic edge of the contour, (v_i, v_{(i+1) mod n}).
type Edge struct {
	A, B geom2d.Point
}

// Segment returns the edge as a geom2d.Segment.
func (e Edge) Segment() geom2d.Segment {
	return geom2d.Segment{P1: e.A, P2: e.B}
}

// Edges returns the polygon's edges in cyclic order.
func (p *Polygon) Edges() []Edge {
	n := len(p.vertices)
	if n == 0 {
		return nil
	}
	edges := make([]Edge, n)
	for i := 0; i < n; i++ {
		edges[i] = Edge{A: p.vertices[i], B: p.vertices[(i+1)%n]}
	}
	return edges
}

// Translate moves every vertex by v.
func (p *Polygon) Translate(v geom2d.Vector) {
	for i := range p.vertices {
		p.vertices[i] = p.vertices[i].Add(v)
	}
}

// Contains is the winding-number point-in-polygon test; it works for
// self-intersecting polygons.
func (p *Polygon) Contains(pt geom2d.Point) bool {
	return geom2d.Inside(pt, p.vertices)
}

// IsSimple tests for self-intersection: a pairwise edge test skipping the
// two edges adjacent to each candidate edge. Returns false for n<3;
// trivially true for n==3. O(n^2).
func (p *Polygon) IsSimple() bool {
	n := len(p.vertices)
	if n < 3 {
		return false
	}
	if n == 3 {
		return true
	}
	edges := p.Edges()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if j == i || j == (i+1)%n || i == (j+1)%n {
				continue
			}
			if geom2d.SegmentsIntersect(edges[i].Segment(), edges[j].Segment()) {
				return false
			}
		}
	}
	return true
}

// IsCCW locates the lexicographically smallest vertex and returns whether
// its surrounding turn is a left turn.
func (p *Polygon) IsCCW() bool {
	n := len(p.vertices)
	if n < 3 {
		return false
	}
	minIdx := 0
	for i := 1; i < n; i++ {
		if p.vertices[i].Less(p.vertices[minIdx]) {
			minIdx = i
		}
	}
	prev := p.vertices[(minIdx-1+n)%n]
	cur := p.vertices[minIdx]
	next := p.vertices[(minIdx+1)%n]
	return geom2d.OrientationPts(prev, cur, next) == geom2d.Left
}

// ToCCW reverses the vertex sequence if the polygon is currently CW.
func (p *Polygon) ToCCW() {
	if p.IsCCW() {
		return
	}
	for i, j := 0, len(p.vertices)-1; i < j; i, j = i+1, j-1 {
		p.vertices[i], p.vertices[j] = p.vertices[j], p.vertices[i]
	}
}

// IntersectsPolygon is the pairwise O(n*m) edge-intersection check between
// two polygons.
func (p *Polygon) IntersectsPolygon(q *Polygon) bool {
	pe := p.Edges()
	qe := q.Edges()
	for _, e1 := range pe {
		for _, e2 := range qe {
			if geom2d.SegmentsIntersect(e1.Segment(), e2.Segment()) {
				return true
			}
		}
	}
	return false
}

// Area returns the signed area via the shoelace formula; positive for CCW
// contours.
func (p *Polygon) Area() float64 {
	n := len(p.vertices)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += p.vertices[i].X*p.vertices[j].Y - p.vertices[j].X*p.vertices[i].Y
	}
	return area / 2
}
