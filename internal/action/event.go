// Package action implements the reversible, atomic mutations of the
// polygon list: every concrete Action provides Apply and Undo, both
// honoring the strong exception guarantee: on error the polygon list
// and the Action's own captured state are left exactly as they were
// before the call.
package action

// Object names what kind of thing an Event describes.
type Object int

const (
	ObjectPolygon Object = iota
	ObjectVertex
)

func (o Object) String() string {
	if o == ObjectVertex {
		return "Vertex"
	}
	return "Polygon"
}

// Kind names what happened to the Object.
type Kind int

const (
	Added Kind = iota
	Deleted
)

func (k Kind) String() string {
	if k == Deleted {
		return "Deleted"
	}
	return "Added"
}

// Event is one (Object, Kind, polygon_index, vertex_index?) record,
// describing the effect of an Apply or Undo in index space after the
// mutation completes.
type Event struct {
	Object       Object
	Kind         Kind
	PolygonIndex int
	VertexIndex  int
	HasVertex    bool
}

// PolygonEvent builds an Event with Object = Polygon.
func PolygonEvent(kind Kind, polyIdx int) Event {
	return Event{Object: ObjectPolygon, Kind: kind, PolygonIndex: polyIdx}
}

// VertexEvent builds an Event with Object = Vertex.
func VertexEvent(kind Kind, polyIdx, vertIdx int) Event {
	return Event{Object: ObjectVertex, Kind: kind, PolygonIndex: polyIdx, VertexIndex: vertIdx, HasVertex: true}
}

// EventList is the ordered sequence of Events emitted by one Apply or
// Undo call.
type EventList []Event
