package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tsawler/menudoc"
	"github.com/tsawler/menudoc/model"
)

// envelope is the body of every JSON response
type envelope struct {
	Data  any       `json:"data,omitempty"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Fields  []model.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	_ = json.NewEncoder(w).Encode(env)
}

func writeData(w http.ResponseWriter, r *http.Request, status int, data any) {
	writeJSON(w, r, status, envelope{Data: data})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, fields []model.FieldError) {
	writeJSON(w, r, status, envelope{Error: &apiError{Code: code, Message: message, Fields: fields}})
}

// writeErr maps err to a status and error code
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	if ve, ok := model.AsValidation(err); ok {
		writeError(w, r, http.StatusUnprocessableEntity, "validation_failed", "validation failed", ve.Fields)
		return
	}

	var ee *menudoc.ExportError
	if errors.As(err, &ee) {
		switch ee.Reason {
		case menudoc.ReasonNotFound:
			writeError(w, r, http.StatusNotFound, "not_found", ee.Reason, nil)
		case menudoc.ReasonInvalidGeometry:
			writeError(w, r, http.StatusBadRequest, "invalid_geometry", ee.Error(), nil)
		case menudoc.ReasonCancelled:
			writeError(w, r, http.StatusServiceUnavailable, "cancelled", ee.Reason, nil)
		default:
			writeError(w, r, http.StatusInternalServerError, "export_failed", ee.Reason, nil)
		}
		return
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, menudoc.ErrNotShareable):
		writeError(w, r, http.StatusConflict, "not_published", "document is not published", nil)
	default:
		writeError(w, r, http.StatusInternalServerError, "internal", "internal server error", nil)
	}
}
