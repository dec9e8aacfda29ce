package handlers

import (
	"encoding/json"
	"net/http"
)

// PageCounter reports how many pages are mounted
type PageCounter interface {
	Len() int
}

// HealthResponse is the body of GET /healthz
type HealthResponse struct {
	Status string `json:"status"`
	Pages  int    `json:"pages"`
}

// HealthHandler reports liveness
type HealthHandler struct {
	pages PageCounter
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(pages PageCounter) *HealthHandler {
	return &HealthHandler{pages: pages}
}

// ServeHTTP handles GET /healthz
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok", Pages: h.pages.Len()})
}
