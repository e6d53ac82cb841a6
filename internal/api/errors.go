// internal/api/errors.go
//
// Standardised JSON error bodies for the layout API.  Every non-2xx
// response carries the same shape so the editor can show a message, point
// at a field, or list validation problems without special cases.

package api

import (
	"encoding/json"
	"net/http"

	"github.com/yanizio/layoutkit/internal/requestinfo"
)

// Machine-readable error codes.
const (
	CodeInvalidBody      = "invalid_request_body"
	CodeInvalidParam     = "invalid_parameter"
	CodeValidationFailed = "validation_failed"
	CodeNotFound         = "not_found"
	CodeStoreError       = "store_error"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Code      string   `json:"code"`
	Message   string   `json:"message"`
	Status    int      `json:"status"`
	Field     string   `json:"field,omitempty"`
	Errors    []string `json:"errors,omitempty"`
	RequestID string   `json:"requestId,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeErrorResponse(w, r, ErrorResponse{Code: code, Message: msg, Status: status})
}

func writeErrorWithField(w http.ResponseWriter, r *http.Request, status int, code, msg, field string) {
	writeErrorResponse(w, r, ErrorResponse{Code: code, Message: msg, Status: status, Field: field})
}

func writeErrorList(w http.ResponseWriter, r *http.Request, status int, code, msg string, errs []string) {
	writeErrorResponse(w, r, ErrorResponse{Code: code, Message: msg, Status: status, Errors: errs})
}

func writeErrorResponse(w http.ResponseWriter, r *http.Request, resp ErrorResponse) {
	resp.RequestID = requestinfo.IDFromContext(r.Context())
	writeJSON(w, resp.Status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
