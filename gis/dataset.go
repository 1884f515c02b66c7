package gis

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Space-time dataset types, raster and vector series.
const (
	DatasetRaster = "strds"
	DatasetVector = "stvds"
)

// ErrDatasetNotFound is returned when a dataset name is not registered.
var ErrDatasetNotFound = errors.New("dataset not found")

// Dataset is a registry entry grouping timestamped maps into one
// space-time series. Start and End are derived from the registered
// maps and stay nil until the first registration.
type Dataset struct {
	ID          int64
	Name        string
	Type        string
	Title       string
	Description string
	Start       *time.Time
	End         *time.Time
	Created     time.Time
}

// RegisteredMap is one entry of a dataset: a map (raster) or a map
// layer (vector) with its temporal extent.
type RegisteredMap struct {
	MapName string
	Layer   int
	Start   time.Time
	End     *time.Time
}

// CreateDataset registers an empty space-time dataset, dsType being
// DatasetRaster or DatasetVector. An existing dataset of the same name
// is replaced together with its registrations.
func (s *Store) CreateDataset(ctx context.Context, name, dsType, title, description string) (int64, error) {
	if dsType != DatasetRaster && dsType != DatasetVector {
		return 0, fmt.Errorf("unknown dataset type %q", dsType)
	}

	if _, err := s.write.ExecContext(ctx, `DELETE FROM datasets WHERE name = ?`, name); err != nil {
		return 0, fmt.Errorf("replacing dataset %s: %w", name, err)
	}

	res, err := s.write.ExecContext(ctx, `
		INSERT INTO datasets (name, type, title, description, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		name, dsType, title, description, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("creating dataset %s: %w", name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("creating dataset %s: %w", name, err)
	}

	s.logger.Debug("dataset created", "name", name, "type", dsType)
	return id, nil
}

// RegisterMap adds one timestamped map (or map layer) to a dataset and
// refreshes the dataset's temporal extent.
func (s *Store) RegisterMap(ctx context.Context, dataset string, m RegisteredMap) error {
	ds, err := s.GetDataset(ctx, dataset)
	if err != nil {
		return err
	}

	var end any
	if m.End != nil {
		end = m.End.UTC().Format(time.RFC3339)
	}

	_, err = s.write.ExecContext(ctx, `
		INSERT INTO dataset_maps (dataset_id, map_name, layer, start_time, end_time)
		VALUES (?, ?, ?, ?, ?)`,
		ds.ID, m.MapName, m.Layer, m.Start.UTC().Format(time.RFC3339), end)
	if err != nil {
		return fmt.Errorf("registering map %s in dataset %s: %w", m.MapName, dataset, err)
	}

	return s.refreshDatasetExtent(ctx, ds.ID)
}

// refreshDatasetExtent recomputes the dataset temporal extent from its
// registered maps.
func (s *Store) refreshDatasetExtent(ctx context.Context, datasetID int64) error {
	_, err := s.write.ExecContext(ctx, `
		UPDATE datasets SET
			start_time = (SELECT MIN(start_time) FROM dataset_maps WHERE dataset_id = ?),
			end_time = (SELECT MAX(COALESCE(end_time, start_time)) FROM dataset_maps WHERE dataset_id = ?)
		WHERE id = ?`,
		datasetID, datasetID, datasetID)
	if err != nil {
		return fmt.Errorf("refreshing dataset extent: %w", err)
	}
	return nil
}

func (s *Store) GetDataset(ctx context.Context, name string) (Dataset, error) {
	row := s.read.QueryRowContext(ctx, `
		SELECT id, name, type, title, description, start_time, end_time, created_at
		FROM datasets WHERE name = ?`, name)

	ds, err := scanDataset(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return ds, fmt.Errorf("dataset %s: %w", name, ErrDatasetNotFound)
	}
	if err != nil {
		return ds, fmt.Errorf("fetching dataset %s: %w", name, err)
	}
	return ds, nil
}

func (s *Store) ListDatasets(ctx context.Context) ([]Dataset, error) {
	rows, err := s.read.QueryContext(ctx, `
		SELECT id, name, type, title, description, start_time, end_time, created_at
		FROM datasets ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing datasets: %w", err)
	}
	defer rows.Close()

	var datasets []Dataset
	for rows.Next() {
		ds, err := scanDataset(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning dataset: %w", err)
		}
		datasets = append(datasets, ds)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading dataset rows: %w", err)
	}

	return datasets, nil
}

// GetDatasetMaps returns the registered maps ordered by start time.
func (s *Store) GetDatasetMaps(ctx context.Context, dataset string) ([]RegisteredMap, error) {
	ds, err := s.GetDataset(ctx, dataset)
	if err != nil {
		return nil, err
	}

	rows, err := s.read.QueryContext(ctx, `
		SELECT map_name, layer, start_time, end_time
		FROM dataset_maps
		WHERE dataset_id = ?
		ORDER BY start_time, layer ASC`, ds.ID)
	if err != nil {
		return nil, fmt.Errorf("fetching maps of dataset %s: %w", dataset, err)
	}
	defer rows.Close()

	var maps []RegisteredMap
	for rows.Next() {
		var m RegisteredMap
		var start string
		var end sql.NullString
		if err := rows.Scan(&m.MapName, &m.Layer, &start, &end); err != nil {
			return nil, fmt.Errorf("scanning registered map: %w", err)
		}
		m.Start, err = time.Parse(time.RFC3339, start)
		if err != nil {
			return nil, fmt.Errorf("parsing registration timestamp: %w", err)
		}
		if end.Valid {
			t, err := time.Parse(time.RFC3339, end.String)
			if err != nil {
				return nil, fmt.Errorf("parsing registration end timestamp: %w", err)
			}
			m.End = &t
		}
		maps = append(maps, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading registered map rows: %w", err)
	}

	return maps, nil
}

func scanDataset(scan func(...any) error) (Dataset, error) {
	var ds Dataset
	var start, end sql.NullString
	var created string
	err := scan(&ds.ID, &ds.Name, &ds.Type, &ds.Title, &ds.Description, &start, &end, &created)
	if err != nil {
		return ds, err
	}
	ds.Created, _ = time.Parse(time.RFC3339, created)
	if start.Valid {
		if t, err := time.Parse(time.RFC3339, start.String); err == nil {
			ds.Start = &t
		}
	}
	if end.Valid {
		if t, err := time.Parse(time.RFC3339, end.String); err == nil {
			ds.End = &t
		}
	}
	return ds, nil
}
