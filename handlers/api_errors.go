package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/camden-git/moviearchive/catalog"
)

// APIErrorDetail represents a single error in the standardized error response.
type APIErrorDetail struct {
	Code   string `json:"code"`
	Status string `json:"status"`
	Field  string `json:"field,omitempty"`
	Detail string `json:"detail"`
}

// APIErrorResponse represents the standardized error response body.
type APIErrorResponse struct {
	Errors []APIErrorDetail `json:"errors"`
}

// WriteAPIError writes a standardized error response with the given HTTP status, code, and detail.
func WriteAPIError(w http.ResponseWriter, httpStatus int, code string, detail string) {
	writeAPIErrors(w, httpStatus, []APIErrorDetail{
		{
			Code:   code,
			Status: strconv.Itoa(httpStatus),
			Detail: detail,
		},
	})
}

// WriteValidationError writes one error entry per violated field.
func WriteValidationError(w http.ResponseWriter, verr *catalog.ValidationError) {
	status := strconv.Itoa(http.StatusBadRequest)
	details := make([]APIErrorDetail, 0, len(verr.Fields))
	for _, fe := range verr.Fields {
		code := "invalid_field"
		if fe.Code == catalog.CodeMissing {
			code = "missing_field"
		}
		details = append(details, APIErrorDetail{
			Code:   code,
			Status: status,
			Field:  fe.Field,
			Detail: fe.Message,
		})
	}
	writeAPIErrors(w, http.StatusBadRequest, details)
}

func writeAPIErrors(w http.ResponseWriter, httpStatus int, details []APIErrorDetail) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(APIErrorResponse{Errors: details})
}
