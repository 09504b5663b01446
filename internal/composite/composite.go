// Package composite implements the multi-step user gestures built on
// top of internal/document's single-step commit protocol: drawing a
// new polygon vertex by vertex, and dragging a
// polygon, a vertex, or a freshly inserted vertex. Each composite
// action acquires the document's composite lock on start and releases
// it on Finish, Cancel, or abandonment, and rewrites a single pending
// atomic action across incremental steps rather than committing one
// per step.
package composite

import (
	"errors"
	"fmt"

	"polyedit/internal/action"
	"polyedit/internal/document"
	"polyedit/internal/domainerr"
	"polyedit/internal/geom2d"
	"polyedit/internal/polygon"
)

// CreatePolygonAction grows a new polygon one vertex at a time.
type CreatePolygonAction struct {
	doc       *document.Document
	finished  bool
	canCommit func(p *polygon.Polygon) bool
}

func defaultCanCommit(p *polygon.Polygon) bool {
	return p.NumVertices() >= 3 && p.IsSimple()
}

// StartCreatePolygon acquires the composite lock and returns a new
// in-progress polygon-creation gesture.
func StartCreatePolygon(doc *document.Document) (*CreatePolygonAction, error) {
	if err := doc.BeginComposite(); err != nil {
		return nil, err
	}
	return &CreatePolygonAction{doc: doc, canCommit: defaultCanCommit}, nil
}

// SetCanCommit overrides the finish-time acceptance hook (default:
// at least 3 vertices and a simple contour).
func (c *CreatePolygonAction) SetCanCommit(f func(p *polygon.Polygon) bool) {
	c.canCommit = f
}

// HasVertex reports whether any vertex has been placed yet.
func (c *CreatePolygonAction) HasVertex() bool { return c.doc.HasPending() }

// fail applies the gesture exception policy to a step error: a caller
// error (call/state kind) leaves the gesture usable; anything else
// finalizes it with best-effort rollback.
func (c *CreatePolygonAction) fail(err error) error {
	if err == nil || errors.Is(err, domainerr.ErrCall) {
		return err
	}
	c.finished = true
	if c.doc.HasPending() {
		c.doc.PopPending()
	}
	c.doc.EndComposite()
	return err
}

// AddVertex places pt as the next vertex of the polygon under
// construction.
func (c *CreatePolygonAction) AddVertex(pt geom2d.Point) error {
	if c.finished {
		return fmt.Errorf("%w: CreatePolygonAction already finished", domainerr.ErrState)
	}
	pending := c.doc.PendingAction()
	if pending == nil {
		p := polygon.New()
		p.AddVertex(pt)
		_, err := c.doc.PushPending(action.NewAddPolygon(p))
		return c.fail(err)
	}
	add, ok := pending.(*action.AddPolygon)
	if !ok {
		return fmt.Errorf("%w: pending action is not a polygon creation", domainerr.ErrState)
	}
	next := add.P.Clone()
	next.AddVertex(pt)
	_, err := c.doc.RewritePending(action.NewAddPolygon(next))
	return c.fail(err)
}

// MoveLastVertex rewrites the position of the most recently placed
// vertex, for a "rubber band" preview while the pointer moves before
// the next AddVertex.
func (c *CreatePolygonAction) MoveLastVertex(pt geom2d.Point) error {
	if c.finished {
		return fmt.Errorf("%w: CreatePolygonAction already finished", domainerr.ErrState)
	}
	pending := c.doc.PendingAction()
	add, ok := pending.(*action.AddPolygon)
	if !ok || add.P.NumVertices() == 0 {
		return fmt.Errorf("%w: no placed vertex to move", domainerr.ErrState)
	}
	next := add.P.Clone()
	next.SetVertex(next.NumVertices()-1, pt)
	_, err := c.doc.RewritePending(action.NewAddPolygon(next))
	return c.fail(err)
}

// Finish commits the polygon under construction if canCommit accepts
// it, releasing the composite lock either way. ok is false if there
// was nothing pending, or canCommit rejected it.
func (c *CreatePolygonAction) Finish() (ok bool, err error) {
	if c.finished {
		return false, nil
	}
	c.finished = true
	defer c.doc.EndComposite()

	pending := c.doc.PendingAction()
	add, isAdd := pending.(*action.AddPolygon)
	if pending == nil || !isAdd || !c.canCommit(add.P) {
		if c.doc.HasPending() {
			c.doc.PopPending()
		}
		return false, nil
	}
	if err := c.doc.CommitPending(); err != nil {
		return false, err
	}
	return true, nil
}

// Cancel discards the polygon under construction. Idempotent and
// silent once Finished.
func (c *CreatePolygonAction) Cancel() {
	if c.finished {
		return
	}
	c.finished = true
	if c.doc.HasPending() {
		c.doc.PopPending()
	}
	c.doc.EndComposite()
}

type dragKind int

const (
	dragPolygon dragKind = iota
	dragVertex
	dragAddVertex
)

// Drag is the shared state machine behind polygon drag, vertex drag,
// and insert-vertex-by-dragging: it holds the anchor point the gesture
// started from and rewrites a single pending Move/MoveVertex/AddVertex
// action as Step is called with the pointer's current position.
type Drag struct {
	doc      *document.Document
	kind     dragKind
	anchor   geom2d.Point
	polyIdx  int
	vertIdx  int
	finished bool
}

// StartPolygonDrag begins dragging the whole polygon at polyIdx.
func StartPolygonDrag(doc *document.Document, polyIdx int, anchor geom2d.Point) (*Drag, error) {
	if err := doc.BeginComposite(); err != nil {
		return nil, err
	}
	return &Drag{doc: doc, kind: dragPolygon, anchor: anchor, polyIdx: polyIdx}, nil
}

// StartVertexDrag begins dragging a single vertex of polyIdx.
func StartVertexDrag(doc *document.Document, polyIdx, vertIdx int, anchor geom2d.Point) (*Drag, error) {
	if err := doc.BeginComposite(); err != nil {
		return nil, err
	}
	return &Drag{doc: doc, kind: dragVertex, anchor: anchor, polyIdx: polyIdx, vertIdx: vertIdx}, nil
}

// StartAddVertex begins inserting a new vertex before beforeVertex of
// polyIdx, letting the caller drag it into place before committing.
func StartAddVertex(doc *document.Document, polyIdx, beforeVertex int, anchor geom2d.Point) (*Drag, error) {
	if err := doc.BeginComposite(); err != nil {
		return nil, err
	}
	return &Drag{doc: doc, kind: dragAddVertex, anchor: anchor, polyIdx: polyIdx, vertIdx: beforeVertex}, nil
}

func (d *Drag) buildAction(pt geom2d.Point) action.Action {
	switch d.kind {
	case dragPolygon:
		return action.NewMovePolygon(d.polyIdx, geom2d.NewVector(d.anchor, pt))
	case dragVertex:
		return action.NewMoveVertex(d.polyIdx, d.vertIdx, geom2d.NewVector(d.anchor, pt))
	default:
		return action.NewAddVertex(d.polyIdx, d.vertIdx, pt)
	}
}

// Step moves the gesture to pt: if nothing is pending yet, pushes the
// first pending action; otherwise undoes and reapplies it at the new
// position. For the two Move variants, a pt equal to the anchor pops
// the pending action instead, so a drag that returns to its start
// leaves no trace in history.
func (d *Drag) Step(pt geom2d.Point) error {
	if d.finished {
		return fmt.Errorf("%w: drag already finished", domainerr.ErrState)
	}

	if d.kind == dragAddVertex {
		if !d.doc.HasPending() {
			_, err := d.doc.PushPending(d.buildAction(pt))
			return d.fail(err)
		}
		_, err := d.doc.RewritePending(d.buildAction(pt))
		return d.fail(err)
	}

	v := geom2d.NewVector(d.anchor, pt)
	if !d.doc.HasPending() {
		if v.IsZero() {
			return nil
		}
		_, err := d.doc.PushPending(d.buildAction(pt))
		return d.fail(err)
	}
	if v.IsZero() {
		return d.fail(d.doc.PopPending())
	}
	_, err := d.doc.RewritePending(d.buildAction(pt))
	return d.fail(err)
}

// fail applies the gesture exception policy to a step error, same as
// CreatePolygonAction.fail.
func (d *Drag) fail(err error) error {
	if err == nil || errors.Is(err, domainerr.ErrCall) {
		return err
	}
	d.finished = true
	if d.doc.HasPending() {
		d.doc.PopPending()
	}
	d.doc.EndComposite()
	return err
}

// Finish commits the pending step, if any.
func (d *Drag) Finish() (ok bool, err error) {
	if d.finished {
		return false, nil
	}
	d.finished = true
	defer d.doc.EndComposite()

	if !d.doc.HasPending() {
		return false, nil
	}
	if err := d.doc.CommitPending(); err != nil {
		return false, err
	}
	return true, nil
}

// Cancel discards the pending step, if any. Idempotent and silent once
// Finished.
func (d *Drag) Cancel() {
	if d.finished {
		return
	}
	d.finished = true
	if d.doc.HasPending() {
		d.doc.PopPending()
	}
	d.doc.EndComposite()
}
