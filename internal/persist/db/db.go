// Package db implements the polygon list's external database
// persistence: a single table Points(polygonIdx, vertexIdx, x, y),
// PRIMARY KEY(polygonIdx, vertexIdx). Save drops and recreates the
// table; Load sorts by (polygonIdx, vertexIdx) and groups consecutive
// rows sharing a polygonIdx into one polygon.
//
// The package works against an injected *sql.DB, leaving driver
// selection (sqlite, postgres, ...) to the caller's DSN and registered
// driver. Coordinates travel as bound float64 parameters, which
// round-trip at full IEEE-754 precision.
package db

import (
	"context"
	"database/sql"
	"fmt"

	"polyedit/internal/geom2d"
	"polyedit/internal/polygon"
)

// Save replaces the Points table's contents with polys.
func Save(ctx context.Context, database *sql.DB, polys []*polygon.Polygon) error {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db: begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS Points`); err != nil {
		return fmt.Errorf("db: dropping Points: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `CREATE TABLE Points (
		polygonIdx INTEGER NOT NULL,
		vertexIdx  INTEGER NOT NULL,
		x          DOUBLE PRECISION NOT NULL,
		y          DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (polygonIdx, vertexIdx)
	)`); err != nil {
		return fmt.Errorf("db: creating Points: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO Points (polygonIdx, vertexIdx, x, y) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("db: preparing insert: %w", err)
	}
	defer stmt.Close()

	for pi, p := range polys {
		for vi, v := range p.Vertices() {
			if _, err := stmt.ExecContext(ctx, pi, vi, v.X, v.Y); err != nil {
				return fmt.Errorf("db: inserting polygon %d vertex %d: %w", pi, vi, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("db: commit: %w", err)
	}
	return nil
}

// Load reads every polygon back out of the Points table.
func Load(ctx context.Context, database *sql.DB) ([]*polygon.Polygon, error) {
	rows, err := database.QueryContext(ctx, `SELECT polygonIdx, vertexIdx, x, y FROM Points ORDER BY polygonIdx, vertexIdx`)
	if err != nil {
		return nil, fmt.Errorf("db: querying Points: %w", err)
	}
	defer rows.Close()

	var polys []*polygon.Polygon
	var cur *polygon.Polygon
	curIdx := -1

	for rows.Next() {
		var polyIdx, vertIdx int
		var x, y float64
		if err := rows.Scan(&polyIdx, &vertIdx, &x, &y); err != nil {
			return nil, fmt.Errorf("db: scanning row: %w", err)
		}
		if polyIdx != curIdx {
			cur = polygon.New()
			polys = append(polys, cur)
			curIdx = polyIdx
		}
		cur.AddVertex(geom2d.Point{X: x, Y: y})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db: iterating rows: %w", err)
	}
	return polys, nil
}
