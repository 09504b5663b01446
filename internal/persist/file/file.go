// Package file implements the polygon list's sequential binary
// persistence format: a u32 polygon count, then per polygon a u32
// vertex count followed by that many (x,y) IEEE-754 64-bit pairs, in
// load order. No checksum, no version field.
package file

import (
	"encoding/binary"
	"fmt"
	"io"

	"polyedit/internal/geom2d"
	"polyedit/internal/polygon"
)

var byteOrder = binary.BigEndian

// Save writes polys to w in the sequential binary format.
func Save(w io.Writer, polys []*polygon.Polygon) error {
	if err := binary.Write(w, byteOrder, uint32(len(polys))); err != nil {
		return fmt.Errorf("file: writing polygon count: %w", err)
	}
	for i, p := range polys {
		verts := p.Vertices()
		if err := binary.Write(w, byteOrder, uint32(len(verts))); err != nil {
			return fmt.Errorf("file: writing vertex count for polygon %d: %w", i, err)
		}
		for j, v := range verts {
			if err := binary.Write(w, byteOrder, v.X); err != nil {
				return fmt.Errorf("file: writing polygon %d vertex %d x: %w", i, j, err)
			}
			if err := binary.Write(w, byteOrder, v.Y); err != nil {
				return fmt.Errorf("file: writing polygon %d vertex %d y: %w", i, j, err)
			}
		}
	}
	return nil
}

// Load reads a polygon list from r, preserving order.
func Load(r io.Reader) ([]*polygon.Polygon, error) {
	var count uint32
	if err := binary.Read(r, byteOrder, &count); err != nil {
		return nil, fmt.Errorf("file: reading polygon count: %w", err)
	}

	polys := make([]*polygon.Polygon, 0, count)
	for i := uint32(0); i < count; i++ {
		var numVerts uint32
		if err := binary.Read(r, byteOrder, &numVerts); err != nil {
			return nil, fmt.Errorf("file: reading vertex count for polygon %d: %w", i, err)
		}

		pts := make([]geom2d.Point, numVerts)
		for j := uint32(0); j < numVerts; j++ {
			var x, y float64
			if err := binary.Read(r, byteOrder, &x); err != nil {
				return nil, fmt.Errorf("file: reading polygon %d vertex %d x: %w", i, j, err)
			}
			if err := binary.Read(r, byteOrder, &y); err != nil {
				return nil, fmt.Errorf("file: reading polygon %d vertex %d y: %w", i, j, err)
			}
			pts[j] = geom2d.Point{X: x, Y: y}
		}
		// A polygon with fewer than 3 vertices is accepted here and
		// rejected later by whichever domain operation first requires
		// simplicity. Load itself only replays what was serialized.
		polys = append(polys, polygon.FromPoints(pts))
	}
	return polys, nil
}
