package action

import (
	"errors"
	"testing"

	"polyedit/internal/boolean"
	"polyedit/internal/domainerr"
	"polyedit/internal/geom2d"
	"polyedit/internal/polygon"
)

func square(x1, y1, x2, y2 float64) *polygon.Polygon {
	return polygon.FromPoints([]geom2d.Point{{x1, y1}, {x2, y1}, {x2, y2}, {x1, y2}})
}

func TestAddDeletePolygonRoundtrip(t *testing.T) {
	polys := []*polygon.Polygon{square(0, 0, 1, 1)}

	add := NewAddPolygon(square(2, 2, 3, 3))
	events, err := add.Apply(&polys)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(polys) != 2 {
		t.Fatalf("expected 2 polygons, got %d", len(polys))
	}
	if events[0] != (PolygonEvent(Added, 1)) {
		t.Errorf("unexpected event: %v", events)
	}

	if _, err := add.Undo(&polys); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if len(polys) != 1 {
		t.Fatalf("expected 1 polygon after undo, got %d", len(polys))
	}
}

func TestDeletePolygonRoundtrip(t *testing.T) {
	polys := []*polygon.Polygon{square(0, 0, 1, 1), square(2, 2, 3, 3)}

	del := NewDeletePolygon(0)
	if _, err := del.Apply(&polys); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(polys) != 1 || polys[0].Vertex(0) != (geom2d.Point{2, 2}) {
		t.Fatalf("unexpected state after delete: %v", polys)
	}

	if _, err := del.Undo(&polys); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if len(polys) != 2 || polys[0].Vertex(0) != (geom2d.Point{0, 0}) {
		t.Fatalf("unexpected state after undo: %v", polys)
	}
}

func TestDeleteVertexRefusesToEmptyPolygon(t *testing.T) {
	p := polygon.New()
	p.AddVertex(geom2d.Point{0, 0})
	polys := []*polygon.Polygon{p}

	del := NewDeleteVertex(0, 0)
	if _, err := del.Apply(&polys); !errors.Is(err, domainerr.ErrState) {
		t.Errorf("expected ErrState, got %v", err)
	}
	if p.NumVertices() != 1 {
		t.Errorf("failed DeleteVertex should not mutate the polygon, got %d vertices", p.NumVertices())
	}
}

func TestMoveVertexRoundtrip(t *testing.T) {
	p := square(0, 0, 2, 2)
	polys := []*polygon.Polygon{p}

	mv := NewMoveVertex(0, 0, geom2d.Vector{X: 5, Y: 5})
	if _, err := mv.Apply(&polys); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if p.Vertex(0) != (geom2d.Point{5, 5}) {
		t.Fatalf("unexpected vertex after move: %v", p.Vertex(0))
	}
	if _, err := mv.Undo(&polys); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if p.Vertex(0) != (geom2d.Point{0, 0}) {
		t.Fatalf("unexpected vertex after undo: %v", p.Vertex(0))
	}
}

func TestBooleanOpApplyUndo(t *testing.T) {
	a := square(0, 0, 2, 2)
	b := square(1, 1, 3, 3)
	polys := []*polygon.Polygon{a, b}

	op := NewBooleanOp(0, 1, false, boolean.OpIntersect)
	events, err := op.Apply(&polys)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(polys) != 1 {
		t.Fatalf("expected 1 resulting polygon, got %d", len(polys))
	}
	if len(events) != 3 { // Deleted(0), Deleted(1), Added(0)
		t.Fatalf("unexpected events: %v", events)
	}

	if _, err := op.Undo(&polys); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if len(polys) != 2 {
		t.Fatalf("expected 2 polygons after undo, got %d", len(polys))
	}
	if polys[0] != a || polys[1] != b {
		t.Fatalf("undo did not restore original polygons in place")
	}
}

func TestBooleanOpRejectedLeavesListUntouched(t *testing.T) {
	a := square(0, 0, 1, 1)
	b := square(10, 10, 11, 11)
	polys := []*polygon.Polygon{a, b}

	op := NewBooleanOp(0, 1, false, boolean.OpUnion)
	if _, err := op.Apply(&polys); !errors.Is(err, domainerr.ErrRange) {
		t.Fatalf("expected ErrRange, got %v", err)
	}
	if len(polys) != 2 || polys[0] != a || polys[1] != b {
		t.Fatalf("rejected BooleanOp mutated the polygon list: %v", polys)
	}
}
