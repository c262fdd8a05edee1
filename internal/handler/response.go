package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sgt/fitapi/internal/model"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// DataResponse wraps a successful response with optional HATEOAS links
type DataResponse struct {
	Data  interface{}       `json:"data"`
	Links map[string]string `json:"_links,omitempty"`
}

// CollectionResponse wraps a collection response with pagination
type CollectionResponse struct {
	Data       interface{}       `json:"data"`
	Pagination *PaginationInfo   `json:"pagination,omitempty"`
	Links      map[string]string `json:"_links,omitempty"`
}

// PaginationInfo describes an offset page of a collection
type PaginationInfo struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// NewPaginationInfo builds the page description for a result of count items
func NewPaginationInfo(total, limit, offset, count int) *PaginationInfo {
	return &PaginationInfo{
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+count < total,
	}
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteData writes a successful data response
func WriteData(w http.ResponseWriter, status int, data interface{}, links map[string]string) {
	WriteJSON(w, status, DataResponse{Data: data, Links: links})
}

// WriteCollection writes a collection response with pagination
func WriteCollection(w http.ResponseWriter, status int, data interface{}, pagination *PaginationInfo, links map[string]string) {
	WriteJSON(w, status, CollectionResponse{
		Data:       data,
		Pagination: pagination,
		Links:      links,
	})
}

// WriteError writes an error response using RFC 9457 Problem Details.
// Rate limited problems also get a Retry-After header.
func WriteError(w http.ResponseWriter, err *model.ProblemDetails) {
	if err.RetryAfter != nil {
		w.Header().Set("Retry-After", strconv.Itoa(*err.RetryAfter))
	}
	err.WriteJSON(w)
}

// DecodeJSON decodes a JSON request body into the given struct
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteNoContent writes a 204 No Content response
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
