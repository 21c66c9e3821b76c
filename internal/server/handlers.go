package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tsawler/menudoc"
	"github.com/tsawler/menudoc/layout"
	"github.com/tsawler/menudoc/model"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := map[string]string{}
	healthy := true
	for name, p := range s.checks {
		if err := p.Ping(ctx); err != nil {
			s.log.Warn("health check failed", zap.String("check", name), zap.Error(err))
			status[name] = "unavailable"
			healthy = false
			continue
		}
		status[name] = "ok"
	}
	if !healthy {
		writeJSON(w, r, http.StatusServiceUnavailable, envelope{
			Data:  status,
			Error: &apiError{Code: "unhealthy", Message: "a dependency is unavailable"},
		})
		return
	}
	status["status"] = "ok"
	writeData(w, r, http.StatusOK, status)
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	status := model.Status(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		writeError(w, r, http.StatusBadRequest, "bad_request", fmt.Sprintf("unknown status %q", status), nil)
		return
	}
	list, err := s.store.List(r.Context(), status)
	if err != nil {
		s.log.Error("list documents", zap.Error(err))
		writeErr(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, list)
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, doc)
}

func (s *Server) createDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := decodeDocument(w, r)
	if !ok {
		return
	}
	doc.ID = ""
	saved, err := s.store.Save(r.Context(), doc)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/documents/"+saved.ID)
	writeData(w, r, http.StatusCreated, saved)
}

func (s *Server) putDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, ok := decodeDocument(w, r)
	if !ok {
		return
	}
	if doc.ID != "" && doc.ID != id {
		writeError(w, r, http.StatusBadRequest, "bad_request", "document id does not match the path", nil)
		return
	}
	doc.ID = id
	saved, err := s.store.Save(r.Context(), doc)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, saved)
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) exportDocument(w http.ResponseWriter, r *http.Request) {
	g, fields := s.exportGeometry(r)
	if len(fields) > 0 {
		writeError(w, r, http.StatusBadRequest, "bad_request", "invalid geometry override", fields)
		return
	}

	a, err := s.exporter.ExportWithGeometry(r.Context(), chi.URLParam(r, "id"), g)
	if err != nil {
		var ee *menudoc.ExportError
		if !errors.As(err, &ee) || ee.Reason != menudoc.ReasonNotFound {
			s.log.Error("export failed", zap.String("request_id", RequestID(r.Context())), zap.Error(err))
		}
		writeErr(w, r, err)
		return
	}

	cacheStatus := "miss"
	if a.Cached {
		cacheStatus = "hit"
	}
	h := w.Header()
	h.Set("Content-Type", "application/pdf")
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename}))
	h.Set("Content-Length", strconv.Itoa(len(a.Bytes)))
	h.Set("X-Export-Pages", strconv.Itoa(a.Pages))
	h.Set("X-Export-Warnings", strconv.Itoa(len(a.Warnings)))
	h.Set("X-Export-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.Bytes)
}

// exportGeometry applies the margin, pageWidth and pageHeight query
// parameters to the server's base geometry
func (s *Server) exportGeometry(r *http.Request) (layout.Geometry, []model.FieldError) {
	g := s.geometry
	q := r.URL.Query()
	var fields []model.FieldError
	for _, p := range []struct {
		name string
		dst  *float64
	}{
		{"margin", &g.Margin},
		{"pageWidth", &g.PageWidth},
		{"pageHeight", &g.PageHeight},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			fields = append(fields, model.FieldError{Field: p.name, Message: "must be a non-negative number"})
			continue
		}
		*p.dst = v
	}
	return g, fields
}

func (s *Server) shareDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	url, err := menudoc.ShareURL(s.baseURL, doc)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, map[string]string{"url": url})
}

func decodeDocument(w http.ResponseWriter, r *http.Request) (*model.Document, bool) {
	var doc model.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "too_large", "document body too large", nil)
			return nil, false
		}
		writeError(w, r, http.StatusBadRequest, "invalid_json", err.Error(), nil)
		return nil, false
	}
	return &doc, true
}
