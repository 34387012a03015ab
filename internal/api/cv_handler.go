package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"cv-parser/internal/pipeline"
	"cv-parser/internal/storage"
)

const maxUploadBytes = 32 << 20

// UploadHandler ingests a batch of CV files
// @Summary Upload and process CVs
// @Description Upload up to 10 CV files (PDF/DOCX); each file is processed independently and gets its own result entry
// @Tags cv
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "CV files"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /cv/upload [post]
func (a *API) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form (max 32MB)")
		return
	}

	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	docs := make([]pipeline.RawDocument, 0, len(fileHeaders))
	for _, header := range fileHeaders {
		file, err := header.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("cannot read %s", header.Filename))
			return
		}
		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("cannot read %s", header.Filename))
			return
		}
		docs = append(docs, pipeline.RawDocument{Content: content, Filename: header.Filename})
	}

	results, err := a.ingestor.Ingest(r.Context(), docs)
	if errors.Is(err, pipeline.ErrBatchTooLarge) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		a.logger.Error("batch ingestion failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Per-file failures still yield 200; only batch-level faults do not.
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Batch processing completed",
		"results": results,
	})
}

// ListHandler returns filtered, sorted, paginated profiles
// @Summary List CV profiles
// @Description Filter, sort and paginate stored candidate profiles
// @Tags cv
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size (max 100)" default(10)
// @Param sort_by query string false "Sort field: nome, cognome, created_at, anni_esperienza"
// @Param sort_desc query bool false "Sort descending"
// @Param search query string false "Global search over nome, cognome, competenze"
// @Param nome query string false "Name substring"
// @Param cognome query string false "Surname substring"
// @Param citta query string false "City substring"
// @Param process_status query string false "Exact processing state: processing, completed, error"
// @Param anni_esperienza_min query int false "Minimum years of experience"
// @Param anni_esperienza_max query int false "Maximum years of experience"
// @Param stipendio_attuale_min query int false "Minimum current salary"
// @Param stipendio_attuale_max query int false "Maximum current salary"
// @Param tools query []string false "Tools the profile must contain"
// @Param database query []string false "Databases the profile must contain"
// @Param piattaforme query []string false "Platforms the profile must contain"
// @Param sistemi_operativi query []string false "Operating systems the profile must contain"
// @Param linguaggi query []string false "Programming languages the profile must contain"
// @Param data_dal query string false "Created from (RFC3339 or YYYY-MM-DD)"
// @Param data_al query string false "Created until (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /cv [get]
func (a *API) ListHandler(w http.ResponseWriter, r *http.Request) {
	params := parseQueryParams(r)

	items, _, filtered, err := a.store.QueryProfiles(r.Context(), params)
	if err != nil {
		a.logger.Error("profile query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":     items,
		"total":     filtered,
		"page":      params.Page,
		"page_size": params.PageSize,
	})
}

func parseQueryParams(r *http.Request) storage.QueryParams {
	q := r.URL.Query()

	page := 1
	if p := queryInt(r, "page"); p != nil && *p >= 1 {
		page = *p
	}
	pageSize := 10
	if ps := queryInt(r, "page_size"); ps != nil && *ps >= 1 && *ps <= 100 {
		pageSize = *ps
	}

	return storage.QueryParams{
		Search:            q.Get("search"),
		Nome:              q.Get("nome"),
		Cognome:           q.Get("cognome"),
		Citta:             q.Get("citta"),
		ProcessStatus:     q.Get("process_status"),
		AnniEsperienzaMin: queryInt(r, "anni_esperienza_min"),
		AnniEsperienzaMax: queryInt(r, "anni_esperienza_max"),
		StipendioMin:      queryInt(r, "stipendio_attuale_min"),
		StipendioMax:      queryInt(r, "stipendio_attuale_max"),
		Tools:             q["tools"],
		Database:          q["database"],
		Piattaforme:       q["piattaforme"],
		SistemiOperativi:  q["sistemi_operativi"],
		Linguaggi:         q["linguaggi"],
		DataDal:           queryTime(r, "data_dal"),
		DataAl:            queryTime(r, "data_al"),
		SortBy:            q.Get("sort_by"),
		SortDesc:          q.Get("sort_desc") == "true",
		Page:              page,
		PageSize:          pageSize,
	}
}

// UpdateHandler applies a partial update to an existing profile
// @Summary Update a CV profile
// @Description Partial update; fields absent from the body are left untouched. Cannot create profiles.
// @Tags cv
// @Accept json
// @Produce json
// @Param id path string true "Profile id"
// @Param profile body map[string]interface{} true "Fields to update"
// @Success 200 {object} storage.CandidateProfile
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /cv/{id} [put]
func (a *API) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	payload, err := buildUpdatePayload(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := a.store.UpdateProfile(r.Context(), id, payload)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "CV not found")
		return
	}
	if err != nil {
		a.logger.Error("profile update failed", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteHandler removes a profile by id
// @Summary Delete a CV profile
// @Tags cv
// @Produce json
// @Param id path string true "Profile id"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /cv/{id} [delete]
func (a *API) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	removed, err := a.store.DeleteProfile(r.Context(), id)
	if err != nil {
		a.logger.Error("profile delete failed", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "CV not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "CV deleted successfully"})
}

type fieldKind int

const (
	kindString fieldKind = iota
	kindInt
	kindDate
	kindStringList
)

var updatableFields = map[string]fieldKind{
	"nome":                      kindString,
	"cognome":                   kindString,
	"citta":                     kindString,
	"data_nascita":              kindDate,
	"cellulare":                 kindString,
	"anni_esperienza":           kindInt,
	"competenze":                kindString,
	"tools":                     kindStringList,
	"database":                  kindStringList,
	"piattaforme":               kindStringList,
	"sistemi_operativi":         kindStringList,
	"linguaggi_programmazione":  kindStringList,
	"contratto_attuale":         kindString,
	"stipendio_attuale":         kindInt,
	"scadenza_contratto":        kindDate,
	"preavviso":                 kindString,
	"tipo_contratto_desiderato": kindString,
	"stipendio_desiderato":      kindInt,
	"note":                      kindString,
	"process_status":            kindString,
}

// buildUpdatePayload whitelists and coerces a request body into store column
// values. Unknown keys are dropped; explicit nulls clear the column; date
// strings accept DD/MM/YYYY, DD-MM-YYYY and YYYY-MM-DD.
func buildUpdatePayload(body map[string]any) (map[string]any, error) {
	payload := make(map[string]any, len(body))
	for key, value := range body {
		kind, ok := updatableFields[key]
		if !ok {
			continue
		}
		if value == nil {
			payload[key] = nil
			continue
		}

		switch kind {
		case kindString:
			s, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("field %q must be a string", key)
			}
			payload[key] = s
		case kindInt:
			n, ok := value.(float64)
			if !ok || n != float64(int(n)) {
				return nil, fmt.Errorf("field %q must be an integer", key)
			}
			payload[key] = int(n)
		case kindDate:
			s, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("field %q must be a date string", key)
			}
			d, err := storage.ParseDate(s)
			if err != nil {
				return nil, err
			}
			payload[key] = d
		case kindStringList:
			raw, ok := value.([]any)
			if !ok {
				return nil, fmt.Errorf("field %q must be a list of strings", key)
			}
			list := make([]string, 0, len(raw))
			for _, item := range raw {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("field %q must be a list of strings", key)
				}
				list = append(list, s)
			}
			payload[key] = list
		}
	}
	return payload, nil
}
