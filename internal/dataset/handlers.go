package dataset

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/shapelift/shapelift/internal/server"
	"github.com/shapelift/shapelift/pkg/engine"
)

// maxUploadBytes bounds dataset upload bodies (32 MiB).
const maxUploadBytes = 32 << 20

// handleList returns metadata for all stored datasets.
func (m *Module) handleList(w http.ResponseWriter, r *http.Request) {
	datasets, err := m.store.List(r.Context())
	if err != nil {
		m.logger.Error("failed to list datasets", zap.Error(err))
		server.InternalError(w, "failed to list datasets", r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, datasets)
}

// handleUpsert replaces the named dataset with the JSON array in the body.
func (m *Module) handleUpsert(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var records []engine.Record
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err := dec.Decode(&records); err != nil {
		server.BadRequest(w, "body must be a JSON array of records: "+err.Error(), r.URL.Path)
		return
	}

	ds, err := m.store.Upsert(r.Context(), name, records)
	if err != nil {
		m.logger.Error("failed to store dataset", zap.String("dataset", name), zap.Error(err))
		server.InternalError(w, "failed to store dataset", r.URL.Path)
		return
	}

	// Stored collections changed; cached query results for it are stale.
	m.invalidate(name)

	m.logger.Info("dataset stored",
		zap.String("dataset", name),
		zap.Int("records", ds.RecordCount),
	)
	writeJSON(w, http.StatusOK, ds)
}

// handleDelete removes the named dataset.
func (m *Module) handleDelete(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	if err := m.store.Delete(r.Context(), name); err != nil {
		if errors.Is(err, ErrNotFound) {
			server.NotFound(w, "dataset "+name+" not found", r.URL.Path)
			return
		}
		m.logger.Error("failed to delete dataset", zap.String("dataset", name), zap.Error(err))
		server.InternalError(w, "failed to delete dataset", r.URL.Path)
		return
	}

	m.invalidate(name)
	w.WriteHeader(http.StatusNoContent)
}

// handleRecords serves the paged list endpoint.
func (m *Module) handleRecords(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	q, err := parseRecordsQuery(r)
	if err != nil {
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}

	page, err := m.runRecordsQuery(r.Context(), name, q)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			server.NotFound(w, "dataset "+name+" not found", r.URL.Path)
			return
		}
		m.logger.Error("records query failed", zap.String("dataset", name), zap.Error(err))
		server.InternalError(w, "records query failed", r.URL.Path)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// handleQuery serves the analytical query endpoint.
func (m *Module) handleQuery(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "invalid query body: "+err.Error(), r.URL.Path)
		return
	}

	resp, err := m.runQuery(r.Context(), name, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			server.NotFound(w, "dataset "+name+" not found", r.URL.Path)
			return
		}
		m.logger.Error("query failed", zap.String("dataset", name), zap.Error(err))
		server.InternalError(w, "query failed", r.URL.Path)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleCacheStats reports current cache occupancy. The listing may include
// logically expired entries that no read has swept yet.
func (m *Module) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, m.cache.Stats())
}

// handleCacheClear empties the query cache.
func (m *Module) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	m.cache.Clear()
	m.logger.Info("query cache cleared")
	w.WriteHeader(http.StatusNoContent)
}

// -- helpers --

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
