package www

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/pesekon2/sos-tools-go/gis"
)

type vectorMapResponse struct {
	Name    string    `json:"name"`
	EPSG    int       `json:"epsg"`
	Created time.Time `json:"created"`
}

type rasterMapResponse struct {
	Name    string    `json:"name"`
	EPSG    int       `json:"epsg"`
	North   float64   `json:"north"`
	South   float64   `json:"south"`
	East    float64   `json:"east"`
	West    float64   `json:"west"`
	Rows    int       `json:"rows"`
	Cols    int       `json:"cols"`
	Created time.Time `json:"created"`
}

func NewMapsHandler(logger *slog.Logger, store *gis.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vectors, err := store.ListVectorMaps(r.Context())
		if err != nil {
			logger.Error("listing vector maps", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		rasters, err := store.ListRasterMaps(r.Context())
		if err != nil {
			logger.Error("listing raster maps", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		out := struct {
			Vector []vectorMapResponse `json:"vector"`
			Raster []rasterMapResponse `json:"raster"`
		}{
			Vector: make([]vectorMapResponse, 0, len(vectors)),
			Raster: make([]rasterMapResponse, 0, len(rasters)),
		}
		for _, m := range vectors {
			out.Vector = append(out.Vector, vectorMapResponse{Name: m.Name, EPSG: m.EPSG, Created: m.Created})
		}
		for _, m := range rasters {
			out.Raster = append(out.Raster, rasterMapResponse{
				Name: m.Name, EPSG: m.EPSG,
				North: m.North, South: m.South, East: m.East, West: m.West,
				Rows: m.Rows, Cols: m.Cols,
				Created: m.Created,
			})
		}

		if err := writeJSON(w, out); err != nil {
			logger.Error("writing maps response", slog.Any("error", err))
		}
	}
}
