package action

import (
	"fmt"

	"polyedit/internal/domainerr"
	"polyedit/internal/geom2d"
	"polyedit/internal/polygon"
)

// Action is a reversible record over the document's polygon list. Apply
// and Undo both validate their preconditions before touching polys, so
// that a returned error leaves polys and the Action's own state
// untouched.
type Action interface {
	Apply(polys *[]*polygon.Polygon) (EventList, error)
	Undo(polys *[]*polygon.Polygon) (EventList, error)
}

func insertPolygon(polys *[]*polygon.Polygon, idx int, p *polygon.Polygon) {
	s := *polys
	s = append(s, nil)
	copy(s[idx+1:], s[idx:])
	s[idx] = p
	*polys = s
}

func removePolygon(polys *[]*polygon.Polygon, idx int) *polygon.Polygon {
	s := *polys
	p := s[idx]
	copy(s[idx:], s[idx+1:])
	*polys = s[:len(s)-1]
	return p
}

// AddPolygon appends a polygon to the end of the list.
type AddPolygon struct {
	P *polygon.Polygon

	applied bool
}

func NewAddPolygon(p *polygon.Polygon) *AddPolygon { return &AddPolygon{P: p} }

func (a *AddPolygon) Apply(polys *[]*polygon.Polygon) (EventList, error) {
	if a.P == nil || a.P.NumVertices() == 0 {
		return nil, fmt.Errorf("%w: AddPolygon requires a non-empty polygon", domainerr.ErrCall)
	}
	*polys = append(*polys, a.P)
	a.applied = true
	return EventList{PolygonEvent(Added, len(*polys)-1)}, nil
}

func (a *AddPolygon) Undo(polys *[]*polygon.Polygon) (EventList, error) {
	if !a.applied {
		return nil, fmt.Errorf("%w: AddPolygon.Undo called before Apply", domainerr.ErrState)
	}
	n := len(*polys)
	a.P = (*polys)[n-1]
	*polys = (*polys)[:n-1]
	a.applied = false
	return EventList{PolygonEvent(Deleted, n-1)}, nil
}

// DeletePolygon removes the polygon at Index.
type DeletePolygon struct {
	Index int

	captured *polygon.Polygon
	applied  bool
}

func NewDeletePolygon(index int) *DeletePolygon { return &DeletePolygon{Index: index} }

func (a *DeletePolygon) Apply(polys *[]*polygon.Polygon) (EventList, error) {
	if a.Index < 0 || a.Index >= len(*polys) {
		return nil, fmt.Errorf("%w: DeletePolygon index %d out of range", domainerr.ErrCall, a.Index)
	}
	a.captured = removePolygon(polys, a.Index)
	a.applied = true
	return EventList{PolygonEvent(Deleted, a.Index)}, nil
}

func (a *DeletePolygon) Undo(polys *[]*polygon.Polygon) (EventList, error) {
	if !a.applied {
		return nil, fmt.Errorf("%w: DeletePolygon.Undo called before Apply", domainerr.ErrState)
	}
	insertPolygon(polys, a.Index, a.captured)
	a.applied = false
	return EventList{PolygonEvent(Added, a.Index)}, nil
}

// MovePolygon translates the polygon at Index by V. It emits no events:
// the polygon list's shape does not change.
type MovePolygon struct {
	Index int
	V     geom2d.Vector
}

func NewMovePolygon(index int, v geom2d.Vector) *MovePolygon {
	return &MovePolygon{Index: index, V: v}
}

func (a *MovePolygon) Apply(polys *[]*polygon.Polygon) (EventList, error) {
	if a.Index < 0 || a.Index >= len(*polys) {
		return nil, fmt.Errorf("%w: MovePolygon index %d out of range", domainerr.ErrCall, a.Index)
	}
	(*polys)[a.Index].Translate(a.V)
	return nil, nil
}

func (a *MovePolygon) Undo(polys *[]*polygon.Polygon) (EventList, error) {
	if a.Index < 0 || a.Index >= len(*polys) {
		return nil, fmt.Errorf("%w: MovePolygon index %d out of range", domainerr.ErrCall, a.Index)
	}
	(*polys)[a.Index].Translate(a.V.Neg())
	return nil, nil
}

// AddVertex inserts Pt before vertex VertIndex of polygon PolyIndex.
type AddVertex struct {
	PolyIndex, VertIndex int
	Pt                   geom2d.Point

	applied bool
}

func NewAddVertex(polyIdx, vertIdx int, pt geom2d.Point) *AddVertex {
	return &AddVertex{PolyIndex: polyIdx, VertIndex: vertIdx, Pt: pt}
}

func (a *AddVertex) Apply(polys *[]*polygon.Polygon) (EventList, error) {
	p, err := a.polygon(polys)
	if err != nil {
		return nil, err
	}
	if a.VertIndex < 0 || a.VertIndex > p.NumVertices() {
		return nil, fmt.Errorf("%w: AddVertex index %d out of range", domainerr.ErrCall, a.VertIndex)
	}
	p.InsertVertex(a.VertIndex, a.Pt)
	a.applied = true
	return EventList{VertexEvent(Added, a.PolyIndex, a.VertIndex)}, nil
}

func (a *AddVertex) Undo(polys *[]*polygon.Polygon) (EventList, error) {
	if !a.applied {
		return nil, fmt.Errorf("%w: AddVertex.Undo called before Apply", domainerr.ErrState)
	}
	p, err := a.polygon(polys)
	if err != nil {
		return nil, err
	}
	p.RemoveVertex(a.VertIndex)
	a.applied = false
	return EventList{VertexEvent(Deleted, a.PolyIndex, a.VertIndex)}, nil
}

func (a *AddVertex) polygon(polys *[]*polygon.Polygon) (*polygon.Polygon, error) {
	if a.PolyIndex < 0 || a.PolyIndex >= len(*polys) {
		return nil, fmt.Errorf("%w: polygon index %d out of range", domainerr.ErrCall, a.PolyIndex)
	}
	return (*polys)[a.PolyIndex], nil
}

// DeleteVertex removes vertex VertIndex of polygon PolyIndex. It refuses
// to leave the polygon with fewer than 1 vertex.
type DeleteVertex struct {
	PolyIndex, VertIndex int

	captured geom2d.Point
	applied  bool
}

func NewDeleteVertex(polyIdx, vertIdx int) *DeleteVertex {
	return &DeleteVertex{PolyIndex: polyIdx, VertIndex: vertIdx}
}

func (a *DeleteVertex) Apply(polys *[]*polygon.Polygon) (EventList, error) {
	p, err := a.polygon(polys)
	if err != nil {
		return nil, err
	}
	if a.VertIndex < 0 || a.VertIndex >= p.NumVertices() {
		return nil, fmt.Errorf("%w: DeleteVertex index %d out of range", domainerr.ErrCall, a.VertIndex)
	}
	if p.NumVertices() <= 1 {
		return nil, fmt.Errorf("%w: DeleteVertex would leave an empty polygon", domainerr.ErrState)
	}
	a.captured = p.Vertex(a.VertIndex)
	p.RemoveVertex(a.VertIndex)
	a.applied = true
	return EventList{VertexEvent(Deleted, a.PolyIndex, a.VertIndex)}, nil
}

func (a *DeleteVertex) Undo(polys *[]*polygon.Polygon) (EventList, error) {
	if !a.applied {
		return nil, fmt.Errorf("%w: DeleteVertex.Undo called before Apply", domainerr.ErrState)
	}
	p, err := a.polygon(polys)
	if err != nil {
		return nil, err
	}
	p.InsertVertex(a.VertIndex, a.captured)
	a.applied = false
	return EventList{VertexEvent(Added, a.PolyIndex, a.VertIndex)}, nil
}

func (a *DeleteVertex) polygon(polys *[]*polygon.Polygon) (*polygon.Polygon, error) {
	if a.PolyIndex < 0 || a.PolyIndex >= len(*polys) {
		return nil, fmt.Errorf("%w: polygon index %d out of range", domainerr.ErrCall, a.PolyIndex)
	}
	return (*polys)[a.PolyIndex], nil
}

// MoveVertex translates a single vertex by Vec. It emits no events.
type MoveVertex struct {
	PolyIndex, VertIndex int
	Vec                  geom2d.Vector
}

func NewMoveVertex(polyIdx, vertIdx int, vec geom2d.Vector) *MoveVertex {
	return &MoveVertex{PolyIndex: polyIdx, VertIndex: vertIdx, Vec: vec}
}

func (a *MoveVertex) Apply(polys *[]*polygon.Polygon) (EventList, error) {
	return a.shift(polys, a.Vec)
}

func (a *MoveVertex) Undo(polys *[]*polygon.Polygon) (EventList, error) {
	return a.shift(polys, a.Vec.Neg())
}

func (a *MoveVertex) shift(polys *[]*polygon.Polygon, v geom2d.Vector) (EventList, error) {
	if a.PolyIndex < 0 || a.PolyIndex >= len(*polys) {
		return nil, fmt.Errorf("%w: polygon index %d out of range", domainerr.ErrCall, a.PolyIndex)
	}
	p := (*polys)[a.PolyIndex]
	if a.VertIndex < 0 || a.VertIndex >= p.NumVertices() {
		return nil, fmt.Errorf("%w: vertex index %d out of range", domainerr.ErrCall, a.VertIndex)
	}
	p.SetVertex(a.VertIndex, p.Vertex(a.VertIndex).Add(v))
	return nil, nil
}
