// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/valpere/SolarArchiver/internal/catalog"
	"github.com/valpere/SolarArchiver/internal/monitoring"
	"github.com/valpere/SolarArchiver/internal/store"
	"github.com/valpere/SolarArchiver/internal/utils"
)

// sessionView is the JSON shape of one session in API responses.
type sessionView struct {
	ObsID       int      `json:"obs_id"`
	DateTime    string   `json:"date_time"`
	Year        int      `json:"year"`
	Month       int      `json:"month"`
	Day         int      `json:"day"`
	Time        string   `json:"time"`
	Instruments []string `json:"instruments"`
	Target      *string  `json:"target"`
	Comments    *string  `json:"comments"`
	VideoLinks  []string `json:"video_links"`
	ImageLinks  []string `json:"image_links"`
	Links       []string `json:"links"`
	NumLinks    int      `json:"num_links"`
	Polarimetry *bool    `json:"polarimetry"`
}

func toView(id int, s catalog.Session) sessionView {
	return sessionView{
		ObsID:       id,
		DateTime:    s.DateTime.Format(store.DateTimeLayout),
		Year:        s.Year,
		Month:       s.Month,
		Day:         s.Day,
		Time:        s.TimeOfDay,
		Instruments: s.Instruments,
		Target:      s.Target,
		Comments:    s.Comments,
		VideoLinks:  s.VideoLinks,
		ImageLinks:  s.ImageLinks,
		Links:       s.Links,
		NumLinks:    s.NumLinks,
		Polarimetry: s.Polarimetry,
	}
}

// editRequest is the PATCH body for a session edit.
type editRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// Server exposes the catalog for browsing and curation over HTTP.
type Server struct {
	repo     *Repository
	logger   utils.Logger
	registry *prometheus.Registry
	httpSrv  *http.Server
}

// New creates a catalog server. registry may be nil to disable /metrics.
func New(repo *Repository, logger utils.Logger, registry *prometheus.Registry) *Server {
	if logger == nil {
		logger = utils.NewLogger()
	}
	return &Server{repo: repo, logger: logger, registry: registry}
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/api/sessions", s.handleList).Methods(http.MethodGet)
	router.HandleFunc("/api/sessions/{id:[0-9]+}", s.handleGet).Methods(http.MethodGet)
	router.HandleFunc("/api/sessions/{id:[0-9]+}", s.handleEdit).Methods(http.MethodPatch)
	if s.registry != nil {
		router.Handle("/metrics", monitoring.Handler(s.registry)).Methods(http.MethodGet)
	}
	return router
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, address string) error {
	s.httpSrv = &http.Server{
		Addr:         address,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("catalog server listening on %s", address)
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": s.repo.Len(),
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	sessions := s.repo.List()

	yearFilter := 0
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid year %q", raw))
			return
		}
		yearFilter = year
	}
	instrument := r.URL.Query().Get("instrument")

	views := make([]sessionView, 0, len(sessions))
	for id, session := range sessions {
		if yearFilter != 0 && session.Year != yearFilter {
			continue
		}
		if instrument != "" && !hasInstrument(session, instrument) {
			continue
		}
		views = append(views, toView(id, session))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(views),
		"sessions": views,
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	session, err := s.repo.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toView(id, session))
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	session, err := s.repo.ApplyEdit(id, req.Field, req.Value)
	if err != nil {
		var status int
		switch {
		case errors.Is(err, ErrSessionNotFound):
			status = http.StatusNotFound
		case errors.Is(err, ErrFieldNotEditable):
			status = http.StatusBadRequest
		default:
			// The edit was valid but could not be persisted.
			status = http.StatusInternalServerError
		}
		writeError(w, status, err.Error())
		return
	}

	s.logger.Infof("session %d: %s updated", id, req.Field)
	writeJSON(w, http.StatusOK, toView(id, session))
}

func hasInstrument(session catalog.Session, name string) bool {
	for _, instrument := range session.Instruments {
		if instrument == name {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
