package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/adyen/productpage/internal/media"
	"github.com/adyen/productpage/internal/services"
)

// MediaHandler serves gallery images of the catalog entry
type MediaHandler struct {
	catalog services.CatalogService
	media   *media.Service
	logger  *zap.Logger
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(catalog services.CatalogService, mediaService *media.Service, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{
		catalog: catalog,
		media:   mediaService,
		logger:  logger,
	}
}

// ServeHTTP handles GET /media/{imageID}?variant=thumb|full
func (h *MediaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "imageID"))
	if err != nil {
		sendErrorResponse(w, "Invalid image id", http.StatusBadRequest)
		return
	}

	variant, err := media.ParseVariant(r.URL.Query().Get("variant"))
	if err != nil {
		sendErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	product, err := h.catalog.Product(r.Context())
	if err != nil {
		h.logger.Error("failed to load product", zap.Error(err))
		sendErrorResponse(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	img, ok := product.ImageByID(id)
	if !ok {
		sendErrorResponse(w, "Image not found", http.StatusNotFound)
		return
	}

	data, err := h.media.Render(img.Src, variant)
	if errors.Is(err, media.ErrImageNotFound) {
		sendErrorResponse(w, "Image not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to render image", zap.Int("image_id", id), zap.Error(err))
		sendErrorResponse(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", media.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
