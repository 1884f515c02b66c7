package gis

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"
)

// RasterMap is a regular grid with row-major float64 cells. NaN marks
// a null cell.
type RasterMap struct {
	ID      int64
	Name    string
	EPSG    int
	North   float64
	South   float64
	East    float64
	West    float64
	Rows    int
	Cols    int
	NSRes   float64
	EWRes   float64
	Cells   []float64
	Created time.Time
}

// CreateRasterMap stores a raster map, replacing any previous map of
// the same name.
func (s *Store) CreateRasterMap(ctx context.Context, m RasterMap) (int64, error) {
	if len(m.Cells) != m.Rows*m.Cols {
		return 0, fmt.Errorf("raster map %s: %d cells do not fill a %dx%d grid", m.Name, len(m.Cells), m.Rows, m.Cols)
	}

	if err := s.RemoveRasterMap(ctx, m.Name); err != nil {
		return 0, err
	}

	res, err := s.write.ExecContext(ctx, `
		INSERT INTO raster_maps (name, epsg, north, south, east, west, rows, cols, ns_res, ew_res, cells, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Name, m.EPSG, m.North, m.South, m.East, m.West, m.Rows, m.Cols, m.NSRes, m.EWRes,
		encodeCells(m.Cells), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("creating raster map %s: %w", m.Name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("creating raster map %s: %w", m.Name, err)
	}

	s.logger.Debug("raster map created", "name", m.Name, "rows", m.Rows, "cols", m.Cols)
	return id, nil
}

func (s *Store) RemoveRasterMap(ctx context.Context, name string) error {
	_, err := s.write.ExecContext(ctx, `DELETE FROM raster_maps WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("removing raster map %s: %w", name, err)
	}
	return nil
}

func (s *Store) GetRasterMap(ctx context.Context, name string) (RasterMap, error) {
	var m RasterMap
	var cells []byte
	var created string
	err := s.read.QueryRowContext(ctx, `
		SELECT id, name, epsg, north, south, east, west, rows, cols, ns_res, ew_res, cells, created_at
		FROM raster_maps WHERE name = ?`, name).
		Scan(&m.ID, &m.Name, &m.EPSG, &m.North, &m.South, &m.East, &m.West,
			&m.Rows, &m.Cols, &m.NSRes, &m.EWRes, &cells, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return m, fmt.Errorf("raster map %s: %w", name, ErrMapNotFound)
	}
	if err != nil {
		return m, fmt.Errorf("fetching raster map %s: %w", name, err)
	}

	m.Cells = decodeCells(cells)
	m.Created, _ = time.Parse(time.RFC3339, created)
	return m, nil
}

func (s *Store) ListRasterMaps(ctx context.Context) ([]RasterMap, error) {
	rows, err := s.read.QueryContext(ctx, `
		SELECT id, name, epsg, north, south, east, west, rows, cols, ns_res, ew_res, created_at
		FROM raster_maps ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing raster maps: %w", err)
	}
	defer rows.Close()

	var maps []RasterMap
	for rows.Next() {
		var m RasterMap
		var created string
		err := rows.Scan(&m.ID, &m.Name, &m.EPSG, &m.North, &m.South, &m.East, &m.West,
			&m.Rows, &m.Cols, &m.NSRes, &m.EWRes, &created)
		if err != nil {
			return nil, fmt.Errorf("scanning raster map: %w", err)
		}
		m.Created, _ = time.Parse(time.RFC3339, created)
		maps = append(maps, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading raster map rows: %w", err)
	}

	return maps, nil
}

func encodeCells(cells []float64) []byte {
	buf := make([]byte, len(cells)*8)
	for i, c := range cells {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(c))
	}
	return buf
}

func decodeCells(buf []byte) []float64 {
	cells := make([]float64, len(buf)/8)
	for i := range cells {
		cells[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	return cells
}
