// Command editor is a minimal interactive shell for the polygon
// document: an SDL2 window that turns mouse and keyboard input into
// internal/document and internal/composite calls, using raw go-sdl2
// (sdl.Init, sdl.CreateWindow, sdl.CreateRenderer, and an sdl.PollEvent
// loop type-switching on *sdl.QuitEvent/*sdl.KeyboardEvent/
// *sdl.MouseButtonEvent/*sdl.MouseMotionEvent) for the window and event
// loop, and its own vertex/edge hit-testing math for picking.
package main

import (
	"flag"
	"log"
	"math"
	"os"

	"polyedit/internal/composite"
	"polyedit/internal/document"
	"polyedit/internal/geom2d"
	"polyedit/internal/persist/file"

	"github.com/veandco/go-sdl2/sdl"
)

const (
	windowWidth  = 800
	windowHeight = 600
	pointRadius  = 5.0
)

type editor struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	doc      *document.Document
	path     string

	creating *composite.CreatePolygonAction
	drag     *composite.Drag
}

func main() {
	path := flag.String("file", "polygon.dat", "path to the saved polygon file")
	flag.Parse()

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		log.Fatalf("sdl.Init: %v", err)
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow(
		"Polygon Editor",
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		windowWidth, windowHeight,
		sdl.WINDOW_SHOWN)
	if err != nil {
		log.Fatalf("sdl.CreateWindow: %v", err)
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		renderer, err = sdl.CreateRenderer(window, -1, sdl.RENDERER_SOFTWARE)
		if err != nil {
			log.Fatalf("sdl.CreateRenderer: %v", err)
		}
	}
	defer renderer.Destroy()

	e := &editor{window: window, renderer: renderer, path: *path}
	e.doc = document.New(nil)
	e.loadIfPresent()

	running := true
	for running {
		for {
			ev := sdl.PollEvent()
			if ev == nil {
				break
			}
			switch ev := ev.(type) {
			case *sdl.QuitEvent:
				running = false
			case *sdl.KeyboardEvent:
				if ev.Type == sdl.KEYDOWN {
					e.handleKey(ev)
				}
			case *sdl.MouseButtonEvent:
				e.handleMouseButton(ev)
			case *sdl.MouseMotionEvent:
				e.handleMouseMotion(ev)
			}
		}
		e.draw()
		sdl.Delay(16)
	}
}

func (e *editor) loadIfPresent() {
	f, err := os.Open(e.path)
	if err != nil {
		return
	}
	defer f.Close()
	polys, err := file.Load(f)
	if err != nil {
		log.Printf("editor: load %s: %v", e.path, err)
		return
	}
	for _, p := range polys {
		if err := e.doc.AddPolygon(p); err != nil {
			log.Printf("editor: restoring polygon: %v", err)
		}
	}
}

func (e *editor) save() {
	f, err := os.Create(e.path)
	if err != nil {
		log.Printf("editor: save %s: %v", e.path, err)
		return
	}
	defer f.Close()
	if err := file.Save(f, e.doc.Polygons()); err != nil {
		log.Printf("editor: save %s: %v", e.path, err)
	}
}

func (e *editor) cancelGesture() {
	if e.creating != nil {
		e.creating.Cancel()
		e.creating = nil
	}
	if e.drag != nil {
		e.drag.Cancel()
		e.drag = nil
	}
}

func (e *editor) handleKey(ev *sdl.KeyboardEvent) {
	mod := ev.Keysym.Mod
	switch ev.Keysym.Sym {
	case sdl.K_ESCAPE:
		e.cancelGesture()
	case sdl.K_n:
		e.cancelGesture()
		c, err := composite.StartCreatePolygon(e.doc)
		if err != nil {
			log.Printf("editor: start create: %v", err)
			return
		}
		e.creating = c
	case sdl.K_RETURN, sdl.K_KP_ENTER:
		if e.creating != nil {
			if ok, err := e.creating.Finish(); err != nil {
				log.Printf("editor: finish create: %v", err)
			} else if !ok {
				log.Printf("editor: new polygon rejected (needs >= 3 simple vertices)")
			}
			e.creating = nil
		}
	case sdl.K_DELETE, sdl.K_BACKSPACE:
		e.deleteCurrent()
	case sdl.K_z:
		if mod&sdl.KMOD_SHIFT != 0 {
			if err := e.doc.Redo(); err != nil {
				log.Printf("editor: redo: %v", err)
			}
		} else if err := e.doc.Undo(); err != nil {
			log.Printf("editor: undo: %v", err)
		}
	case sdl.K_y:
		if err := e.doc.Redo(); err != nil {
			log.Printf("editor: redo: %v", err)
		}
	case sdl.K_m:
		if err := e.doc.MergeWithOther(); err != nil {
			log.Printf("editor: union: %v", err)
		}
	case sdl.K_i:
		if err := e.doc.IntersectWithOther(); err != nil {
			log.Printf("editor: intersect: %v", err)
		}
	case sdl.K_s:
		if mod&sdl.KMOD_CTRL != 0 {
			e.save()
			return
		}
		if err := e.doc.SubtractWithOther(); err != nil {
			log.Printf("editor: subtract: %v", err)
		}
	case sdl.K_x:
		if err := e.doc.XorWithOther(); err != nil {
			log.Printf("editor: xor: %v", err)
		}
	case sdl.K_p:
		if err := e.doc.PartitionWithOther(); err != nil {
			log.Printf("editor: partition: %v", err)
		}
	case sdl.K_o:
		if mod&sdl.KMOD_CTRL != 0 {
			e.doc = document.New(nil)
			e.loadIfPresent()
		}
	case sdl.K_LEFT, sdl.K_RIGHT, sdl.K_UP, sdl.K_DOWN:
		e.nudgeSelection(ev.Keysym.Sym)
	}
}

func (e *editor) deleteCurrent() {
	if e.doc.ActiveIsPolygon() {
		if err := e.doc.DeleteCurrentPolygon(); err != nil {
			log.Printf("editor: delete polygon: %v", err)
		}
		return
	}
	if err := e.doc.DeleteCurrentVertex(); err != nil {
		log.Printf("editor: delete vertex: %v", err)
	}
}

// nudgeSelection moves the selected vertex or polygon by one pixel, via
// a single-step drag so it still goes through the undo log as one
// committed action.
func (e *editor) nudgeSelection(sym sdl.Keycode) {
	var dx, dy float64
	switch sym {
	case sdl.K_LEFT:
		dx = -1
	case sdl.K_RIGHT:
		dx = 1
	case sdl.K_UP:
		dy = -1
	case sdl.K_DOWN:
		dy = 1
	}

	polyIdx, ok := e.doc.CurrentPolygonIndex()
	if !ok {
		return
	}
	var anchor geom2d.Point
	var drag *composite.Drag
	var err error
	if vertIdx, hasVertex := e.doc.CurrentVertexIndex(); hasVertex {
		anchor = e.doc.Polygons()[polyIdx].Vertex(vertIdx)
		drag, err = composite.StartVertexDrag(e.doc, polyIdx, vertIdx, anchor)
	} else {
		anchor = geom2d.Point{}
		drag, err = composite.StartPolygonDrag(e.doc, polyIdx, anchor)
	}
	if err != nil {
		log.Printf("editor: nudge: %v", err)
		return
	}
	if err := drag.Step(geom2d.Point{X: anchor.X + dx, Y: anchor.Y + dy}); err != nil {
		log.Printf("editor: nudge step: %v", err)
		drag.Cancel()
		return
	}
	if _, err := drag.Finish(); err != nil {
		log.Printf("editor: nudge finish: %v", err)
	}
}

func (e *editor) handleMouseButton(ev *sdl.MouseButtonEvent) {
	if ev.Type != sdl.MOUSEBUTTONDOWN {
		if e.drag != nil {
			if _, err := e.drag.Finish(); err != nil {
				log.Printf("editor: finish drag: %v", err)
			}
			e.drag = nil
		}
		return
	}

	pt := geom2d.Point{X: float64(ev.X), Y: float64(ev.Y)}

	if e.creating != nil {
		if err := e.creating.AddVertex(pt); err != nil {
			log.Printf("editor: add vertex: %v", err)
		}
		return
	}

	if ev.Button == sdl.BUTTON_RIGHT {
		if polyIdx, before, anchor, ok := e.findEdgeAt(pt); ok {
			drag, err := composite.StartAddVertex(e.doc, polyIdx, before, anchor)
			if err != nil {
				log.Printf("editor: start insert vertex: %v", err)
				return
			}
			e.drag = drag
		}
		return
	}

	if polyIdx, vertIdx, ok := e.findVertexAt(pt); ok {
		e.doc.SetCurrentPolygon(polyIdx)
		e.doc.SetCurrentVertex(vertIdx)
		drag, err := composite.StartVertexDrag(e.doc, polyIdx, vertIdx, pt)
		if err != nil {
			log.Printf("editor: start vertex drag: %v", err)
			return
		}
		e.drag = drag
		return
	}

	if polyIdx, ok := e.findPolygonAt(pt); ok {
		e.doc.SetCurrentPolygon(polyIdx)
		drag, err := composite.StartPolygonDrag(e.doc, polyIdx, pt)
		if err != nil {
			log.Printf("editor: start polygon drag: %v", err)
			return
		}
		e.drag = drag
		return
	}

	e.doc.SetCurrentPolygon(-1)
}

func (e *editor) handleMouseMotion(ev *sdl.MouseMotionEvent) {
	pt := geom2d.Point{X: float64(ev.X), Y: float64(ev.Y)}
	if e.creating != nil && e.creating.HasVertex() {
		if err := e.creating.MoveLastVertex(pt); err != nil {
			log.Printf("editor: preview vertex: %v", err)
		}
		return
	}
	if e.drag != nil {
		if err := e.drag.Step(pt); err != nil {
			log.Printf("editor: drag step: %v", err)
		}
	}
}

// findVertexAt is a radius-based hit test: dx, dy from the candidate
// vertex, accepted when sqrt(dx*dx+dy*dy) <= pointRadius.
func (e *editor) findVertexAt(pt geom2d.Point) (polyIdx, vertIdx int, ok bool) {
	for pi, p := range e.doc.Polygons() {
		for vi, v := range p.Vertices() {
			dx := pt.X - v.X
			dy := pt.Y - v.Y
			if math.Sqrt(dx*dx+dy*dy) <= pointRadius {
				return pi, vi, true
			}
		}
	}
	return 0, 0, false
}

func (e *editor) findPolygonAt(pt geom2d.Point) (polyIdx int, ok bool) {
	for pi, p := range e.doc.Polygons() {
		if p.Contains(pt) {
			return pi, true
		}
	}
	return 0, false
}

// findEdgeAt drops a perpendicular from pt onto each edge's supporting
// line and accepts the edge when the foot of that perpendicular lies
// strictly between the endpoints and within pointRadius of pt.
func (e *editor) findEdgeAt(pt geom2d.Point) (polyIdx, beforeVertex int, anchor geom2d.Point, ok bool) {
	for pi, p := range e.doc.Polygons() {
		n := p.NumVertices()
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			x1, y1 := p.Vertex(i).X, p.Vertex(i).Y
			x2, y2 := p.Vertex(j).X, p.Vertex(j).Y

			dx := x2 - x1
			dy := y2 - y1
			if math.Sqrt(dx*dx+dy*dy) <= 1e-7 {
				continue
			}

			x3, y3 := pt.X, pt.Y
			x4 := x3 - dy
			y4 := y3 + dx

			den := (y4-y3)*(x2-x1) - (x4-x3)*(y2-y1)
			if math.Abs(den) < 1e-7 {
				continue
			}
			u1 := ((x4-x3)*(y1-y3) - (y4-y3)*(x1-x3)) / den
			xi := x1 + u1*(x2-x1)
			yi := y1 + u1*(y2-y1)

			fdx := xi - x3
			fdy := yi - y3
			if u1 > 0.0 && u1 < 1.0 && math.Sqrt(fdx*fdx+fdy*fdy) <= pointRadius {
				return pi, j, geom2d.Point{X: xi, Y: yi}, true
			}
		}
	}
	return 0, 0, geom2d.Point{}, false
}

func (e *editor) draw() {
	r := e.renderer
	r.SetDrawColor(0x20, 0x20, 0x20, 0xff)
	r.Clear()

	cur := -1
	if idx, ok := e.doc.CurrentPolygonIndex(); ok {
		cur = idx
	}
	for pi, p := range e.doc.Polygons() {
		if pi == cur {
			r.SetDrawColor(0xff, 0xcc, 0x33, 0xff)
		} else {
			r.SetDrawColor(0x50, 0xc0, 0xe0, 0xff)
		}
		verts := p.Vertices()
		n := len(verts)
		for i := 0; i < n; i++ {
			a := verts[i]
			b := verts[(i+1)%n]
			r.DrawLine(int32(a.X), int32(a.Y), int32(b.X), int32(b.Y))
		}
	}

	r.Present()
}
