// Package document implements the polygon editor's transactional core:
// the polygon list, the undo/redo action log, the composite-action
// lock, and the derived selection state, all driven through a
// controller-facing method surface that wraps every mutation in a
// single committed action.
package document

import (
	"fmt"

	"polyedit/internal/action"
	"polyedit/internal/boolean"
	"polyedit/internal/domainerr"
	"polyedit/internal/polygon"
)

// Observer receives the event list produced by every successful Apply
// or Undo. It must not panic: the document's own invariants are already
// consistent by the time Notify is called, so a panicking observer is
// the one violating its contract, not the document.
type Observer interface {
	Notify(events action.EventList)
}

type pendingEntry struct {
	act action.Action
}

// Document owns the polygon list, the action log, the undone stack,
// the composite-action lock, and the current selection.
type Document struct {
	polys  []*polygon.Polygon
	log    []action.Action
	undone []action.Action

	compositeLock bool
	pending       *pendingEntry

	currentPolygon int
	currentVertex  int

	observer Observer
}

// New returns an empty document with no selection.
func New(observer Observer) *Document {
	return &Document{
		currentPolygon: -1,
		currentVertex:  -1,
		observer:       observer,
	}
}

func stateErr(msg string) error {
	return fmt.Errorf("%w: %s", domainerr.ErrState, msg)
}

// --- Queries ---

// Polygons returns the live polygon list. Callers must not retain it
// across a mutating call.
func (d *Document) Polygons() []*polygon.Polygon { return d.polys }

func (d *Document) CurrentPolygonIndex() (int, bool) {
	if d.currentPolygon < 0 {
		return 0, false
	}
	return d.currentPolygon, true
}

func (d *Document) CurrentVertexIndex() (int, bool) {
	if d.currentVertex < 0 {
		return 0, false
	}
	return d.currentVertex, true
}

// ActiveIsPolygon reports whether the selection is a whole polygon
// rather than a single vertex of it.
func (d *Document) ActiveIsPolygon() bool {
	return d.currentPolygon >= 0 && d.currentVertex < 0
}

// CanDeleteCurrentVertex is true iff the current polygon has more than
// 3 vertices, so deleting one still leaves a valid polygon.
func (d *Document) CanDeleteCurrentVertex() bool {
	if d.currentPolygon < 0 || d.currentVertex < 0 {
		return false
	}
	return d.polys[d.currentPolygon].NumVertices() > 3
}

func (d *Document) CanUndo() bool { return len(d.log) > 0 }
func (d *Document) CanRedo() bool { return len(d.undone) > 0 }

// SetCurrentPolygon selects a polygon as a whole (clearing any vertex
// selection), or clears selection entirely when idx < 0.
func (d *Document) SetCurrentPolygon(idx int) {
	d.currentPolygon = idx
	d.currentVertex = -1
}

// SetCurrentVertex selects a vertex of the current polygon.
func (d *Document) SetCurrentVertex(idx int) {
	d.currentVertex = idx
}

// --- Committed single-action mutations ---

func (d *Document) runAction(a action.Action) (action.EventList, error) {
	if d.compositeLock {
		return nil, stateErr("a composite action is in progress")
	}
	events, err := a.Apply(&d.polys)
	if err != nil {
		return nil, err
	}
	d.log = append(d.log, a)
	d.undone = d.undone[:0]
	d.applySelection(events)
	d.notify(events)
	return events, nil
}

// AddPolygon appends p as a single committed action.
func (d *Document) AddPolygon(p *polygon.Polygon) error {
	_, err := d.runAction(action.NewAddPolygon(p))
	return err
}

// DeleteCurrentPolygon removes the selected polygon.
func (d *Document) DeleteCurrentPolygon() error {
	if d.currentPolygon < 0 {
		return stateErr("no current polygon")
	}
	_, err := d.runAction(action.NewDeletePolygon(d.currentPolygon))
	return err
}

// DeleteCurrentVertex removes the selected vertex.
func (d *Document) DeleteCurrentVertex() error {
	if d.currentPolygon < 0 || d.currentVertex < 0 {
		return stateErr("no current vertex")
	}
	if !d.CanDeleteCurrentVertex() {
		return stateErr("deleting this vertex would leave fewer than 3 vertices")
	}
	_, err := d.runAction(action.NewDeleteVertex(d.currentPolygon, d.currentVertex))
	return err
}

func (d *Document) findOtherOperand() (int, error) {
	if d.currentPolygon < 0 {
		return -1, stateErr("no current polygon")
	}
	cur := d.polys[d.currentPolygon]
	match := -1
	count := 0
	for i, p := range d.polys {
		if i == d.currentPolygon {
			continue
		}
		if cur.IntersectsPolygon(p) {
			count++
			match = i
		}
	}
	switch count {
	case 0:
		return -1, stateErr("no polygon intersects the current polygon")
	case 1:
		return match, nil
	default:
		return -1, stateErr("more than one polygon intersects the current polygon")
	}
}

func (d *Document) booleanWithOther(op boolean.Op, preserve2 bool) error {
	other, err := d.findOtherOperand()
	if err != nil {
		return err
	}
	_, err = d.runAction(action.NewBooleanOp(d.currentPolygon, other, preserve2, op))
	return err
}

func (d *Document) MergeWithOther() error     { return d.booleanWithOther(boolean.OpUnion, false) }
func (d *Document) IntersectWithOther() error { return d.booleanWithOther(boolean.OpIntersect, false) }
func (d *Document) XorWithOther() error       { return d.booleanWithOther(boolean.OpXor, false) }

// SubtractWithOther subtracts the current polygon from the other one:
// the result is other minus current.
func (d *Document) SubtractWithOther() error {
	other, err := d.findOtherOperand()
	if err != nil {
		return err
	}
	_, err = d.runAction(action.NewBooleanOp(other, d.currentPolygon, false, boolean.OpSubtract))
	return err
}

// PartitionWithOther splits the other polygon along the current
// polygon's boundary into the overlapping piece and the remainder. The
// current polygon is the overlay and stays in the list unchanged.
func (d *Document) PartitionWithOther() error {
	other, err := d.findOtherOperand()
	if err != nil {
		return err
	}
	_, err = d.runAction(action.NewBooleanOp(other, d.currentPolygon, true, boolean.OpPartition))
	return err
}

// --- Undo / redo ---

func (d *Document) Undo() error {
	if len(d.log) == 0 {
		return stateErr("nothing to undo")
	}
	n := len(d.log)
	last := d.log[n-1]
	d.log = d.log[:n-1]

	events, err := last.Undo(&d.polys)
	if err != nil {
		d.log = append(d.log, last)
		return err
	}
	d.undone = append(d.undone, last)
	d.applySelection(events)
	d.notify(events)
	return nil
}

func (d *Document) Redo() error {
	if len(d.undone) == 0 {
		return stateErr("nothing to redo")
	}
	n := len(d.undone)
	last := d.undone[n-1]
	d.undone = d.undone[:n-1]

	events, err := last.Apply(&d.polys)
	if err != nil {
		d.undone = append(d.undone, last)
		return err
	}
	d.log = append(d.log, last)
	d.applySelection(events)
	d.notify(events)
	return nil
}

// --- Composite-action support (internal/composite) ---

// BeginComposite acquires the composite lock.
func (d *Document) BeginComposite() error {
	if d.compositeLock {
		return stateErr("a composite action is already in progress")
	}
	d.compositeLock = true
	return nil
}

// EndComposite releases the composite lock unconditionally.
func (d *Document) EndComposite() {
	d.compositeLock = false
	d.pending = nil
}

func (d *Document) HasPending() bool { return d.pending != nil }

// PendingAction exposes the current pending action so composite actions
// can inspect and rebuild it (e.g. to grow a polygon under construction
// one vertex at a time). Returns nil if no composite gesture is open.
func (d *Document) PendingAction() action.Action {
	if d.pending == nil {
		return nil
	}
	return d.pending.act
}

// PushPending applies a and holds it open (Done, not yet Committed) as
// the composite action's single pending step.
func (d *Document) PushPending(a action.Action) (action.EventList, error) {
	if !d.compositeLock {
		return nil, stateErr("PushPending requires the composite lock")
	}
	if d.pending != nil {
		return nil, stateErr("a pending action already exists")
	}
	events, err := a.Apply(&d.polys)
	if err != nil {
		return nil, err
	}
	d.pending = &pendingEntry{act: a}
	d.applySelection(events)
	d.notify(events)
	return events, nil
}

// RewritePending undoes the current pending action and applies
// replacement in its place, atomically from the caller's point of view.
func (d *Document) RewritePending(replacement action.Action) (action.EventList, error) {
	if d.pending == nil {
		return nil, stateErr("no pending action to rewrite")
	}
	undoEvents, err := d.pending.act.Undo(&d.polys)
	if err != nil {
		return nil, err
	}
	applyEvents, err := replacement.Apply(&d.polys)
	if err != nil {
		// best-effort: restore the original pending action
		d.pending.act.Apply(&d.polys)
		return nil, err
	}
	d.pending = &pendingEntry{act: replacement}
	events := append(undoEvents, applyEvents...)
	d.applySelection(events)
	d.notify(events)
	return events, nil
}

// PopPending undoes and discards the pending action without committing
// it, leaving history at its pre-gesture shape.
func (d *Document) PopPending() error {
	if d.pending == nil {
		return nil
	}
	events, err := d.pending.act.Undo(&d.polys)
	if err != nil {
		return err
	}
	d.pending = nil
	d.applySelection(events)
	d.notify(events)
	return nil
}

// CommitPending moves the pending action into the committed log and
// clears the undone stack, per the normal single-action commit rule.
func (d *Document) CommitPending() error {
	if d.pending == nil {
		return stateErr("no pending action to commit")
	}
	d.log = append(d.log, d.pending.act)
	d.undone = d.undone[:0]
	d.pending = nil
	return nil
}

// --- Selection and notification ---

func (d *Document) notify(events action.EventList) {
	if d.observer != nil {
		d.observer.Notify(events)
	}
}

func (d *Document) applySelection(events action.EventList) {
	for _, e := range events {
		switch {
		case e.Object == action.ObjectPolygon && e.Kind == action.Deleted:
			switch {
			case d.currentPolygon == e.PolygonIndex:
				d.currentPolygon = -1
				d.currentVertex = -1
			case d.currentPolygon > e.PolygonIndex:
				d.currentPolygon--
			}
		case e.Object == action.ObjectPolygon && e.Kind == action.Added:
			if d.currentPolygon >= e.PolygonIndex {
				d.currentPolygon++
			}
		case e.Object == action.ObjectVertex && e.Kind == action.Deleted:
			if d.currentPolygon == e.PolygonIndex {
				switch {
				case d.currentVertex == e.VertexIndex:
					d.currentVertex = -1
				case d.currentVertex > e.VertexIndex:
					d.currentVertex--
				}
			}
		case e.Object == action.ObjectVertex && e.Kind == action.Added:
			if d.currentPolygon == e.PolygonIndex && d.currentVertex >= e.VertexIndex {
				d.currentVertex++
			}
		}
	}

	addedPolys, lastAddedPoly := 0, -1
	for _, e := range events {
		if e.Object == action.ObjectPolygon && e.Kind == action.Added {
			addedPolys++
			lastAddedPoly = e.PolygonIndex
		}
	}
	if addedPolys == 1 {
		d.currentPolygon = lastAddedPoly
		d.currentVertex = -1
	}

	if len(events) == 1 && events[0].Object == action.ObjectVertex && events[0].Kind == action.Added {
		d.currentPolygon = events[0].PolygonIndex
		d.currentVertex = events[0].VertexIndex
	}
}
