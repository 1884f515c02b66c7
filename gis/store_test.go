package gis

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(context.Background(), filepath.Join(t.TempDir(), "gis.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestVectorMapRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.CreateVectorMap(ctx, "out_WQ2_air_temperature", 4326)
	if err != nil {
		t.Fatalf("CreateVectorMap: %v", err)
	}

	points := []VectorPoint{
		{Cat: 1, Name: "station_1", X: 17.39, Y: 62.29, Z: 5},
		{Cat: 2, Name: "station_2", X: 17.41, Y: 62.31},
	}
	if err := s.WriteVectorPoints(ctx, id, points); err != nil {
		t.Fatalf("WriteVectorPoints: %v", err)
	}

	start := time.Date(2015, time.June, 1, 0, 0, 0, 0, time.UTC)
	values := []VectorValue{
		{Cat: 1, Property: "air_temperature", Value: 12.5},
		{Cat: 2, Property: "air_temperature", Value: 13.25},
		{Cat: 1, Property: "no2", Value: 0.0042},
	}
	if err := s.AddVectorLayer(ctx, id, 1, start, values); err != nil {
		t.Fatalf("AddVectorLayer: %v", err)
	}

	m, err := s.GetVectorMap(ctx, "out_WQ2_air_temperature")
	if err != nil {
		t.Fatalf("GetVectorMap: %v", err)
	}
	if m.EPSG != 4326 {
		t.Errorf("expected EPSG 4326, got %d", m.EPSG)
	}

	gotPoints, err := s.GetVectorPoints(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetVectorPoints: %v", err)
	}
	if len(gotPoints) != 2 {
		t.Fatalf("expected 2 points, got %d", len(gotPoints))
	}
	if gotPoints[0].Name != "station_1" || gotPoints[0].Z != 5 {
		t.Errorf("unexpected first point: %+v", gotPoints[0])
	}

	layers, err := s.GetVectorLayers(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetVectorLayers: %v", err)
	}
	if len(layers) != 1 {
		t.Fatalf("expected 1 layer, got %d", len(layers))
	}
	if !layers[0].Start.Equal(start) {
		t.Errorf("layer start expected %v, got %v", start, layers[0].Start)
	}

	gotValues, err := s.GetVectorValues(ctx, m.ID, 1)
	if err != nil {
		t.Fatalf("GetVectorValues: %v", err)
	}
	if len(gotValues) != 3 {
		t.Fatalf("expected 3 values, got %d", len(gotValues))
	}
	if gotValues[0].Value != 12.5 {
		t.Errorf("expected value 12.5, got %v", gotValues[0].Value)
	}
	if gotValues[1].Property != "no2" || gotValues[1].Value != 0.0042 {
		t.Errorf("small values must round trip untouched, got %+v", gotValues[1])
	}
}

func TestCreateVectorMapReplacesExisting(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id1, err := s.CreateVectorMap(ctx, "out", 4326)
	if err != nil {
		t.Fatalf("CreateVectorMap: %v", err)
	}
	if err := s.WriteVectorPoints(ctx, id1, []VectorPoint{{Cat: 1, X: 1, Y: 2}}); err != nil {
		t.Fatalf("WriteVectorPoints: %v", err)
	}

	id2, err := s.CreateVectorMap(ctx, "out", 3857)
	if err != nil {
		t.Fatalf("CreateVectorMap (replace): %v", err)
	}
	if id1 == id2 {
		t.Errorf("replacement should produce a new map id")
	}

	points, err := s.GetVectorPoints(ctx, id2)
	if err != nil {
		t.Fatalf("GetVectorPoints: %v", err)
	}
	if len(points) != 0 {
		t.Errorf("replaced map should start empty, got %d points", len(points))
	}
}

func TestRasterMapRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	cells := []float64{12.5, math.NaN(), 13.25, math.NaN()}
	_, err := s.CreateRasterMap(ctx, RasterMap{
		Name:  "out_WQ2_air_temperature_t20150601T000000",
		EPSG:  4326,
		North: 63, South: 61, East: 18, West: 16,
		Rows: 2, Cols: 2,
		NSRes: 1, EWRes: 1,
		Cells: cells,
	})
	if err != nil {
		t.Fatalf("CreateRasterMap: %v", err)
	}

	m, err := s.GetRasterMap(ctx, "out_WQ2_air_temperature_t20150601T000000")
	if err != nil {
		t.Fatalf("GetRasterMap: %v", err)
	}
	if m.Rows != 2 || m.Cols != 2 {
		t.Fatalf("expected a 2x2 grid, got %dx%d", m.Rows, m.Cols)
	}
	if m.Cells[0] != 12.5 || m.Cells[2] != 13.25 {
		t.Errorf("unexpected cell values: %v", m.Cells)
	}
	if !math.IsNaN(m.Cells[1]) || !math.IsNaN(m.Cells[3]) {
		t.Errorf("null cells should round trip as NaN: %v", m.Cells)
	}

	_, err = s.GetRasterMap(ctx, "nosuch")
	if !errors.Is(err, ErrMapNotFound) {
		t.Errorf("expected ErrMapNotFound, got %v", err)
	}

	if err := s.RemoveRasterMap(ctx, m.Name); err != nil {
		t.Fatalf("RemoveRasterMap: %v", err)
	}
	if _, err := s.GetRasterMap(ctx, m.Name); !errors.Is(err, ErrMapNotFound) {
		t.Errorf("expected removed map to be gone, got %v", err)
	}
}

func TestCreateRasterMapRejectsBadGrid(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.CreateRasterMap(ctx, RasterMap{Name: "bad", Rows: 2, Cols: 2, Cells: []float64{1}})
	if err == nil {
		t.Errorf("expected an error for a cell count not matching the grid")
	}
}

func TestDatasetRegistration(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.CreateDataset(ctx, "out_WQ2", "spam", "", ""); err == nil {
		t.Errorf("expected an error for an unknown dataset type")
	}

	_, err := s.CreateDataset(ctx, "out_WQ2", DatasetRaster, "Dataset for offering WQ2", "Raster space time dataset")
	if err != nil {
		t.Fatalf("CreateDataset: %v", err)
	}

	t0 := time.Date(2015, time.June, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	if err := s.RegisterMap(ctx, "out_WQ2", RegisteredMap{MapName: "map_a", Start: t1}); err != nil {
		t.Fatalf("RegisterMap: %v", err)
	}
	if err := s.RegisterMap(ctx, "out_WQ2", RegisteredMap{MapName: "map_b", Start: t0}); err != nil {
		t.Fatalf("RegisterMap: %v", err)
	}

	ds, err := s.GetDataset(ctx, "out_WQ2")
	if err != nil {
		t.Fatalf("GetDataset: %v", err)
	}
	if ds.Start == nil || !ds.Start.Equal(t0) {
		t.Errorf("dataset start expected %v, got %v", t0, ds.Start)
	}
	if ds.End == nil || !ds.End.Equal(t1) {
		t.Errorf("dataset end expected %v, got %v", t1, ds.End)
	}

	maps, err := s.GetDatasetMaps(ctx, "out_WQ2")
	if err != nil {
		t.Fatalf("GetDatasetMaps: %v", err)
	}
	if len(maps) != 2 {
		t.Fatalf("expected 2 registered maps, got %d", len(maps))
	}
	if maps[0].MapName != "map_b" {
		t.Errorf("registered maps should be ordered by start time, got %q first", maps[0].MapName)
	}

	_, err = s.GetDataset(ctx, "nosuch")
	if !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("expected ErrDatasetNotFound, got %v", err)
	}
}
