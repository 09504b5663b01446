package polygon

import (
	"testing"

	"polyedit/internal/geom2d"
)

func square(x1, y1, x2, y2 float64) *Polygon {
	return FromPoints([]geom2d.Point{{x1, y1}, {x2, y1}, {x2, y2}, {x1, y2}})
}

func TestIsCCWAndToCCW(t *testing.T) {
	ccw := square(0, 0, 2, 2)
	if !ccw.IsCCW() {
		t.Fatalf("expected CCW square to report IsCCW")
	}

	cw := FromPoints([]geom2d.Point{{0, 0}, {0, 2}, {2, 2}, {2, 0}})
	if cw.IsCCW() {
		t.Fatalf("expected CW square to report !IsCCW")
	}
	cw.ToCCW()
	if !cw.IsCCW() {
		t.Fatalf("ToCCW should flip a CW polygon to CCW")
	}
}

func TestIsSimple(t *testing.T) {
	simple := square(0, 0, 2, 2)
	if !simple.IsSimple() {
		t.Errorf("square should be simple")
	}

	bowtie := FromPoints([]geom2d.Point{{0, 0}, {2, 2}, {2, 0}, {0, 2}})
	if bowtie.IsSimple() {
		t.Errorf("bowtie should not be simple")
	}

	// simplicity is invariant under reversal
	rev := FromPoints([]geom2d.Point{{0, 2}, {2, 2}, {2, 0}, {0, 0}})
	if simple.IsSimple() != rev.IsSimple() {
		t.Errorf("IsSimple should be invariant under reversal")
	}
}

func TestInsertRemoveVertex(t *testing.T) {
	p := square(0, 0, 2, 2)
	p.InsertVertex(1, geom2d.Point{1, -1})
	if p.NumVertices() != 5 {
		t.Fatalf("expected 5 vertices after insert, got %d", p.NumVertices())
	}
	if p.Vertex(1) != (geom2d.Point{1, -1}) {
		t.Errorf("inserted vertex at wrong position: %v", p.Vertex(1))
	}

	p.RemoveVertex(1)
	if p.NumVertices() != 4 {
		t.Fatalf("expected 4 vertices after remove, got %d", p.NumVertices())
	}
	if p.Vertex(1) != (geom2d.Point{2, 0}) {
		t.Errorf("remove left wrong vertex at position 1: %v", p.Vertex(1))
	}
}

func TestTranslate(t *testing.T) {
	p := square(0, 0, 2, 2)
	p.Translate(geom2d.Vector{X: 1, Y: 1})
	if p.Vertex(0) != (geom2d.Point{1, 1}) {
		t.Errorf("translate failed: %v", p.Vertex(0))
	}
}

func TestArea(t *testing.T) {
	p := square(0, 0, 2, 2)
	if p.Area() != 4 {
		t.Errorf("area = %v, want 4", p.Area())
	}
}

func TestIntersectsPolygon(t *testing.T) {
	a := square(0, 0, 2, 2)
	b := square(1, 1, 3, 3)
	if !a.IntersectsPolygon(b) {
		t.Errorf("overlapping squares should intersect")
	}

	c := square(10, 10, 12, 12)
	if a.IntersectsPolygon(c) {
		t.Errorf("disjoint squares should not intersect")
	}
}
