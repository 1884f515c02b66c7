package www

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/pesekon2/sos-tools-go/config"
	"github.com/pesekon2/sos-tools-go/gis"
	"github.com/pesekon2/sos-tools-go/notify"
)

// Server exposes the store contents as a JSON status API and streams
// import events to websocket clients.
type Server struct {
	logger *slog.Logger
	config config.AppConfigApi
	store  *gis.Store
	hub    *Hub
}

func StartServer(store *gis.Store, cnfg config.AppConfigApi) *Server {
	logger := slog.Default().With("module", "www")

	s := &Server{
		logger: logger,
		config: cnfg,
		store:  store,
		hub:    NewHub(logger),
	}

	go s.hub.Run()
	return s
}

// Publish broadcasts one import event to all websocket clients.
func (s *Server) Publish(event notify.ImportEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding import event: %w", err)
	}
	s.hub.Broadcast <- payload
	return nil
}

func (s *Server) routes() *http.ServeMux {
	logReqMW := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.logger.Debug("http request",
				slog.String("method", r.Method),
				slog.String("url", r.URL.String()),
				slog.String("remoteAddr", r.RemoteAddr))
			next.ServeHTTP(w, r)
		})
	}

	mux := http.NewServeMux()

	mux.Handle("GET /api/datasets", logReqMW(NewDatasetsHandler(
		s.logger.With(slog.String("handler", "datasets")), s.store)))

	mux.Handle("GET /api/datasets/{name}", logReqMW(NewDatasetHandler(
		s.logger.With(slog.String("handler", "dataset")), s.store)))

	mux.Handle("GET /api/maps", logReqMW(NewMapsHandler(
		s.logger.With(slog.String("handler", "maps")), s.store)))

	mux.Handle("GET /api/log", logReqMW(NewLogHandler(
		s.logger.With(slog.String("handler", "log")), s.store)))

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		name := r.Header.Get("User-Agent")
		client, err := NewClient(s.hub, w, r, name)
		if err != nil {
			s.logger.Error("new websocket client failed", slog.Any("error", err))
			return
		}
		s.hub.Register <- client
		go client.WritePump()
	})

	return mux
}

func (s *Server) Run(ctx context.Context) {
	s.logger.Info("starting server...", "port", s.config.Port)
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.config.Address, s.config.Port),
		Handler: s.routes(),
	}

	srvErrors := make(chan error, 1)
	go func() {
		srvErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-srvErrors:
		if err != nil {
			s.logger.Error("server error", slog.Any("error", err))
		}

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server shutdown failed", slog.Any("error", err))
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}
