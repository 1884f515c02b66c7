package www

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/pesekon2/sos-tools-go/gis"
)

type datasetResponse struct {
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Start       *time.Time `json:"start,omitempty"`
	End         *time.Time `json:"end,omitempty"`
	Created     time.Time  `json:"created"`
}

type registeredMapResponse struct {
	Map   string     `json:"map"`
	Layer int        `json:"layer,omitempty"`
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`
}

func toDatasetResponse(ds gis.Dataset) datasetResponse {
	return datasetResponse{
		Name:        ds.Name,
		Type:        ds.Type,
		Title:       ds.Title,
		Description: ds.Description,
		Start:       ds.Start,
		End:         ds.End,
		Created:     ds.Created,
	}
}

func NewDatasetsHandler(logger *slog.Logger, store *gis.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		datasets, err := store.ListDatasets(r.Context())
		if err != nil {
			logger.Error("listing datasets", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		out := make([]datasetResponse, 0, len(datasets))
		for _, ds := range datasets {
			out = append(out, toDatasetResponse(ds))
		}
		if err := writeJSON(w, out); err != nil {
			logger.Error("writing datasets response", slog.Any("error", err))
		}
	}
}

func NewDatasetHandler(logger *slog.Logger, store *gis.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")

		ds, err := store.GetDataset(r.Context(), name)
		if errors.Is(err, gis.ErrDatasetNotFound) {
			http.Error(w, "dataset not found", http.StatusNotFound)
			return
		}
		if err != nil {
			logger.Error("fetching dataset", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		maps, err := store.GetDatasetMaps(r.Context(), name)
		if err != nil {
			logger.Error("fetching dataset maps", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		regs := make([]registeredMapResponse, 0, len(maps))
		for _, m := range maps {
			regs = append(regs, registeredMapResponse{
				Map:   m.MapName,
				Layer: m.Layer,
				Start: m.Start,
				End:   m.End,
			})
		}

		out := struct {
			datasetResponse
			Maps []registeredMapResponse `json:"maps"`
		}{toDatasetResponse(ds), regs}

		if err := writeJSON(w, out); err != nil {
			logger.Error("writing dataset response", slog.Any("error", err))
		}
	}
}
