package gis

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrMapNotFound is returned when a map name is not present in the store.
var ErrMapNotFound = errors.New("map not found")

type VectorMap struct {
	ID      int64
	Name    string
	EPSG    int
	Created time.Time
}

// VectorPoint is one station of a vector map. The descriptive columns
// stay empty unless the import ran in sensors-only mode.
type VectorPoint struct {
	Cat         int
	Name        string
	Description string
	Keywords    string
	SensorType  string
	SystemType  string
	X           float64
	Y           float64
	Z           float64
}

type VectorLayer struct {
	Layer int
	Start time.Time
}

// VectorValue is one attribute cell: the aggregated value of one
// property at one point within one layer.
type VectorValue struct {
	Cat      int
	Property string
	Value    float64
}

// CreateVectorMap registers a new empty vector map, replacing any
// previous map of the same name.
func (s *Store) CreateVectorMap(ctx context.Context, name string, epsg int) (int64, error) {
	if err := s.RemoveVectorMap(ctx, name); err != nil {
		return 0, err
	}

	res, err := s.write.ExecContext(ctx, `
		INSERT INTO vector_maps (name, epsg, created_at)
		VALUES (?, ?, ?)`,
		name, epsg, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("creating vector map %s: %w", name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("creating vector map %s: %w", name, err)
	}

	s.logger.Debug("vector map created", "name", name, "id", id)
	return id, nil
}

func (s *Store) RemoveVectorMap(ctx context.Context, name string) error {
	_, err := s.write.ExecContext(ctx, `DELETE FROM vector_maps WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("removing vector map %s: %w", name, err)
	}
	return nil
}

func (s *Store) GetVectorMap(ctx context.Context, name string) (VectorMap, error) {
	var m VectorMap
	var created string
	err := s.read.QueryRowContext(ctx, `
		SELECT id, name, epsg, created_at FROM vector_maps WHERE name = ?`, name).
		Scan(&m.ID, &m.Name, &m.EPSG, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return m, fmt.Errorf("vector map %s: %w", name, ErrMapNotFound)
	}
	if err != nil {
		return m, fmt.Errorf("fetching vector map %s: %w", name, err)
	}
	m.Created, _ = time.Parse(time.RFC3339, created)
	return m, nil
}

func (s *Store) WriteVectorPoints(ctx context.Context, mapID int64, points []VectorPoint) error {
	tx, err := s.write.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("writing vector points: %w", err)
	}

	for _, p := range points {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO vector_points (map_id, cat, name, description, keywords, sensor_type, system_type, x, y, z)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			mapID, p.Cat, p.Name, p.Description, p.Keywords, p.SensorType, p.SystemType, p.X, p.Y, p.Z)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("writing vector point %d: %w", p.Cat, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("writing vector points: %w", err)
	}
	return nil
}

func (s *Store) GetVectorPoints(ctx context.Context, mapID int64) ([]VectorPoint, error) {
	rows, err := s.read.QueryContext(ctx, `
		SELECT cat, name, description, keywords, sensor_type, system_type, x, y, z
		FROM vector_points
		WHERE map_id = ?
		ORDER BY cat ASC`, mapID)
	if err != nil {
		return nil, fmt.Errorf("fetching vector points: %w", err)
	}
	defer rows.Close()

	var points []VectorPoint
	for rows.Next() {
		var p VectorPoint
		err := rows.Scan(&p.Cat, &p.Name, &p.Description, &p.Keywords, &p.SensorType, &p.SystemType, &p.X, &p.Y, &p.Z)
		if err != nil {
			return nil, fmt.Errorf("scanning vector point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading vector point rows: %w", err)
	}

	return points, nil
}

// AddVectorLayer appends one temporal layer with its attribute values.
func (s *Store) AddVectorLayer(ctx context.Context, mapID int64, layer int, start time.Time, values []VectorValue) error {
	tx, err := s.write.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("adding vector layer %d: %w", layer, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO vector_layers (map_id, layer, start_time)
		VALUES (?, ?, ?)`,
		mapID, layer, start.UTC().Format(time.RFC3339))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("adding vector layer %d: %w", layer, err)
	}

	for _, v := range values {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO vector_values (map_id, layer, cat, property, value)
			VALUES (?, ?, ?, ?, ?)`,
			mapID, layer, v.Cat, v.Property, v.Value)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("adding value for cat %d in layer %d: %w", v.Cat, layer, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("adding vector layer %d: %w", layer, err)
	}
	return nil
}

func (s *Store) GetVectorLayers(ctx context.Context, mapID int64) ([]VectorLayer, error) {
	rows, err := s.read.QueryContext(ctx, `
		SELECT layer, start_time FROM vector_layers WHERE map_id = ? ORDER BY layer ASC`, mapID)
	if err != nil {
		return nil, fmt.Errorf("fetching vector layers: %w", err)
	}
	defer rows.Close()

	var layers []VectorLayer
	for rows.Next() {
		var l VectorLayer
		var start string
		if err := rows.Scan(&l.Layer, &start); err != nil {
			return nil, fmt.Errorf("scanning vector layer: %w", err)
		}
		l.Start, err = time.Parse(time.RFC3339, start)
		if err != nil {
			return nil, fmt.Errorf("parsing layer timestamp: %w", err)
		}
		layers = append(layers, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading vector layer rows: %w", err)
	}

	return layers, nil
}

func (s *Store) GetVectorValues(ctx context.Context, mapID int64, layer int) ([]VectorValue, error) {
	rows, err := s.read.QueryContext(ctx, `
		SELECT cat, property, value
		FROM vector_values
		WHERE map_id = ? AND layer = ?
		ORDER BY cat, property ASC`, mapID, layer)
	if err != nil {
		return nil, fmt.Errorf("fetching vector values: %w", err)
	}
	defer rows.Close()

	var values []VectorValue
	for rows.Next() {
		var v VectorValue
		if err := rows.Scan(&v.Cat, &v.Property, &v.Value); err != nil {
			return nil, fmt.Errorf("scanning vector value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading vector value rows: %w", err)
	}

	return values, nil
}

func (s *Store) ListVectorMaps(ctx context.Context) ([]VectorMap, error) {
	rows, err := s.read.QueryContext(ctx, `
		SELECT id, name, epsg, created_at FROM vector_maps ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing vector maps: %w", err)
	}
	defer rows.Close()

	var maps []VectorMap
	for rows.Next() {
		var m VectorMap
		var created string
		if err := rows.Scan(&m.ID, &m.Name, &m.EPSG, &created); err != nil {
			return nil, fmt.Errorf("scanning vector map: %w", err)
		}
		m.Created, _ = time.Parse(time.RFC3339, created)
		maps = append(maps, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading vector map rows: %w", err)
	}

	return maps, nil
}
