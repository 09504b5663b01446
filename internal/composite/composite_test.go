package composite

import (
	"testing"

	"polyedit/internal/document"
	"polyedit/internal/geom2d"
	"polyedit/internal/polygon"
)

func square(x1, y1, x2, y2 float64) *polygon.Polygon {
	return polygon.FromPoints([]geom2d.Point{{x1, y1}, {x2, y1}, {x2, y2}, {x1, y2}})
}

func TestCreatePolygonActionCommits(t *testing.T) {
	d := document.New(nil)
	c, err := StartCreatePolygon(d)
	if err != nil {
		t.Fatalf("StartCreatePolygon: %v", err)
	}

	for _, pt := range []geom2d.Point{{0, 0}, {2, 0}, {2, 2}, {0, 2}} {
		if err := c.AddVertex(pt); err != nil {
			t.Fatalf("AddVertex(%v): %v", pt, err)
		}
	}

	ok, err := c.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if !ok {
		t.Fatalf("expected Finish to commit a valid 4-vertex polygon")
	}
	if len(d.Polygons()) != 1 || d.Polygons()[0].NumVertices() != 4 {
		t.Fatalf("expected a committed 4-vertex polygon, got %v", d.Polygons())
	}
	if !d.CanUndo() {
		t.Fatalf("expected CanUndo() after committing a created polygon")
	}
}

func TestCreatePolygonActionRejectsTooFewVertices(t *testing.T) {
	d := document.New(nil)
	c, err := StartCreatePolygon(d)
	if err != nil {
		t.Fatalf("StartCreatePolygon: %v", err)
	}
	_ = c.AddVertex(geom2d.Point{0, 0})
	_ = c.AddVertex(geom2d.Point{1, 1})

	ok, err := c.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if ok {
		t.Fatalf("expected Finish to reject a 2-vertex polygon")
	}
	if len(d.Polygons()) != 0 {
		t.Fatalf("expected no committed polygon, got %v", d.Polygons())
	}
}

func TestCreatePolygonActionCancel(t *testing.T) {
	d := document.New(nil)
	c, err := StartCreatePolygon(d)
	if err != nil {
		t.Fatalf("StartCreatePolygon: %v", err)
	}
	_ = c.AddVertex(geom2d.Point{0, 0})
	_ = c.AddVertex(geom2d.Point{1, 1})
	c.Cancel()

	if len(d.Polygons()) != 0 {
		t.Fatalf("expected no polygons after cancel, got %v", d.Polygons())
	}

	// Cancel is idempotent and silent.
	c.Cancel()

	if _, err := StartCreatePolygon(d); err != nil {
		t.Fatalf("StartCreatePolygon after cancel: %v", err)
	}
}

func TestVertexDragCollapsesToNoOpOnReturnToAnchor(t *testing.T) {
	d := document.New(nil)
	_ = d.AddPolygon(square(0, 0, 2, 2))

	drag, err := StartVertexDrag(d, 0, 0, geom2d.Point{0, 0})
	if err != nil {
		t.Fatalf("StartVertexDrag: %v", err)
	}
	if err := drag.Step(geom2d.Point{5, 5}); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got := d.Polygons()[0].Vertex(0); got != (geom2d.Point{5, 5}) {
		t.Fatalf("vertex not moved: %v", got)
	}
	if err := drag.Step(geom2d.Point{0, 0}); err != nil {
		t.Fatalf("Step back to anchor: %v", err)
	}
	if got := d.Polygons()[0].Vertex(0); got != (geom2d.Point{0, 0}) {
		t.Fatalf("vertex not reverted on return to anchor: %v", got)
	}

	ok, err := drag.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if ok {
		t.Fatalf("expected Finish to report no pending change")
	}
	// The only log entry is the setup AddPolygon: undoing it empties the
	// document and leaves nothing further to undo.
	if err := d.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if d.CanUndo() || len(d.Polygons()) != 0 {
		t.Fatalf("expected no new undo entry for a drag that returned to its anchor")
	}
}

func TestPolygonDragCommits(t *testing.T) {
	d := document.New(nil)
	_ = d.AddPolygon(square(0, 0, 2, 2))

	drag, err := StartPolygonDrag(d, 0, geom2d.Point{0, 0})
	if err != nil {
		t.Fatalf("StartPolygonDrag: %v", err)
	}
	if err := drag.Step(geom2d.Point{1, 1}); err != nil {
		t.Fatalf("Step: %v", err)
	}
	ok, err := drag.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if !ok {
		t.Fatalf("expected Finish to commit the drag")
	}
	if got := d.Polygons()[0].Vertex(0); got != (geom2d.Point{1, 1}) {
		t.Fatalf("polygon not translated: %v", got)
	}
	// Undoing the newest entry must revert the drag, not the setup
	// AddPolygon.
	if err := d.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if len(d.Polygons()) != 1 || d.Polygons()[0].Vertex(0) != (geom2d.Point{0, 0}) {
		t.Fatalf("expected a new undo entry after committing a polygon drag")
	}
}
