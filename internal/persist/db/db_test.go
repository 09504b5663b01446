package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"io"
	"sort"
	"strings"
	"testing"

	"polyedit/internal/geom2d"
	"polyedit/internal/polygon"
)

// Save/Load are exercised against a minimal in-memory fake driver
// (database/sql/driver) so the test needs no real database.

type fakeRow struct {
	polyIdx, vertIdx int
	x, y             float64
}

// fakeDriver hands out one shared connection, since the table contents
// live on the conn and database/sql's pool is free to open a second
// connection between Save and Load.
type fakeDriver struct {
	conn *fakeConn
}

func (d fakeDriver) Open(name string) (driver.Conn, error) { return d.conn, nil }

type fakeConn struct {
	rows []fakeRow
}

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	return &fakeStmt{conn: c, query: query}, nil
}
func (c *fakeConn) Close() error               { return nil }
func (c *fakeConn) Begin() (driver.Tx, error) { return fakeTx{}, nil }

type fakeTx struct{}

func (fakeTx) Commit() error   { return nil }
func (fakeTx) Rollback() error { return nil }

type fakeStmt struct {
	conn  *fakeConn
	query string
}

func (s *fakeStmt) Close() error  { return nil }
func (s *fakeStmt) NumInput() int { return -1 }

func (s *fakeStmt) Exec(args []driver.Value) (driver.Result, error) {
	q := strings.TrimSpace(s.query)
	switch {
	case strings.HasPrefix(q, "DROP TABLE"):
		s.conn.rows = nil
	case strings.HasPrefix(q, "CREATE TABLE"):
		// no-op
	case strings.HasPrefix(q, "INSERT INTO"):
		s.conn.rows = append(s.conn.rows, fakeRow{
			polyIdx: int(args[0].(int64)),
			vertIdx: int(args[1].(int64)),
			x:       args[2].(float64),
			y:       args[3].(float64),
		})
	}
	return driver.RowsAffected(1), nil
}

func (s *fakeStmt) Query(args []driver.Value) (driver.Rows, error) {
	sorted := append([]fakeRow(nil), s.conn.rows...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].polyIdx != sorted[j].polyIdx {
			return sorted[i].polyIdx < sorted[j].polyIdx
		}
		return sorted[i].vertIdx < sorted[j].vertIdx
	})
	return &fakeRows{data: sorted}, nil
}

type fakeRows struct {
	data []fakeRow
	pos  int
}

func (r *fakeRows) Columns() []string { return []string{"polygonIdx", "vertexIdx", "x", "y"} }
func (r *fakeRows) Close() error      { return nil }

func (r *fakeRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.data) {
		return io.EOF
	}
	row := r.data[r.pos]
	dest[0] = int64(row.polyIdx)
	dest[1] = int64(row.vertIdx)
	dest[2] = row.x
	dest[3] = row.y
	r.pos++
	return nil
}

func init() {
	sql.Register("fakedriver", fakeDriver{conn: &fakeConn{}})
}

func TestSaveLoadRoundtrip(t *testing.T) {
	database, err := sql.Open("fakedriver", "ignored")
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer database.Close()

	a := polygon.FromPoints([]geom2d.Point{{0, 0}, {2, 0}, {2, 2}, {0, 2}})
	b := polygon.FromPoints([]geom2d.Point{{1.5, -3.25}, {4, 4}, {0, 9}})
	want := []*polygon.Polygon{a, b}

	ctx := context.Background()
	if err := Save(ctx, database, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(ctx, database)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d polygons, got %d", len(want), len(got))
	}
	for i, p := range want {
		if got[i].NumVertices() != p.NumVertices() {
			t.Fatalf("polygon %d: expected %d vertices, got %d", i, p.NumVertices(), got[i].NumVertices())
		}
		for j, v := range p.Vertices() {
			if got[i].Vertex(j) != v {
				t.Errorf("polygon %d vertex %d: got %v, want %v", i, j, got[i].Vertex(j), v)
			}
		}
	}
}

func TestSaveDropsPreviousContents(t *testing.T) {
	database, err := sql.Open("fakedriver", "ignored")
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer database.Close()

	ctx := context.Background()
	first := []*polygon.Polygon{polygon.FromPoints([]geom2d.Point{{0, 0}, {1, 0}, {1, 1}})}
	if err := Save(ctx, database, first); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := Save(ctx, database, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(ctx, database)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty table after saving an empty list, got %d polygons", len(got))
	}
}
