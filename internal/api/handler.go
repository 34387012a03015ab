package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"cv-parser/internal/pipeline"
	"cv-parser/internal/storage"
)

// Ingestor is the batch ingestion entry point.
type Ingestor interface {
	Ingest(ctx context.Context, docs []pipeline.RawDocument) ([]pipeline.FileResult, error)
}

// Store is the slice of the profile store the HTTP surface needs.
type Store interface {
	QueryProfiles(ctx context.Context, params storage.QueryParams) ([]storage.CandidateProfile, int, int, error)
	UpdateProfile(ctx context.Context, id string, payload map[string]any) (*storage.CandidateProfile, error)
	DeleteProfile(ctx context.Context, id string) (bool, error)
}

type API struct {
	ingestor Ingestor
	store    Store
	logger   *zap.Logger
}

func NewAPI(ingestor Ingestor, store Store, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		ingestor: ingestor,
		store:    store,
		logger:   logger,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"detail": message})
}

func queryInt(r *http.Request, name string) *int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

func queryTime(r *http.Request, name string) *time.Time {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	return nil
}
