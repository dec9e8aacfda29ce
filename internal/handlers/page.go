package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"
	"go.uber.org/zap"

	"github.com/adyen/productpage/internal/interaction"
	"github.com/adyen/productpage/internal/models"
	"github.com/adyen/productpage/internal/services"
)

// eventsTouchInterval keeps a page with an open event stream from expiring
const eventsTouchInterval = 15 * time.Second

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// StateResponse is the JSON view of a page for non-datastar clients
type StateResponse struct {
	PageID string `json:"pageId"`
	interaction.State
	CanAddToCart bool  `json:"canAddToCart"`
	Accepted     *bool `json:"accepted,omitempty"`
}

type colorRequest struct {
	Color string `json:"color"`
}

type sizeRequest struct {
	Size string `json:"size"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

type imageRequest struct {
	Image *int `json:"image"`
}

type zoomMoveRequest struct {
	PointerX     float64 `json:"pointerX"`
	PointerY     float64 `json:"pointerY"`
	BoundsWidth  float64 `json:"boundsWidth"`
	BoundsHeight float64 `json:"boundsHeight"`
}

// PageHandler serves the interaction API of mounted pages
type PageHandler struct {
	pages    services.PageService
	renderer *Renderer
	logger   *zap.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(pages services.PageService, renderer *Renderer, logger *zap.Logger) *PageHandler {
	return &PageHandler{
		pages:    pages,
		renderer: renderer,
		logger:   logger,
	}
}

// Routes returns the page API, to be mounted under /api/pages
func (h *PageHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/{pageID}", func(r chi.Router) {
		r.Delete("/", h.Unmount)
		r.Get("/state", h.State)
		r.Get("/events", h.Events)
		r.Post("/color", h.SelectColor)
		r.Post("/size", h.SelectSize)
		r.Post("/quantity", h.SetQuantity)
		r.Post("/quantity/increment", h.IncrementQuantity)
		r.Post("/quantity/decrement", h.DecrementQuantity)
		r.Post("/image", h.SelectImage)
		r.Post("/zoom/toggle", h.ToggleZoom)
		r.Post("/zoom/move", h.MoveZoom)
		r.Post("/zoom/leave", h.LeaveZoom)
		r.Post("/sections/{section}/toggle", h.ToggleSection)
		r.Post("/cart", h.AddToCart)
	})
	return r
}

// State returns the current snapshot
func (h *PageHandler) State(w http.ResponseWriter, r *http.Request) {
	page, ok := h.page(w, r)
	if !ok {
		return
	}
	h.respond(w, r, page, nil)
}

// SelectColor handles POST /color
func (h *PageHandler) SelectColor(w http.ResponseWriter, r *http.Request) {
	page, ok := h.page(w, r)
	if !ok {
		return
	}

	var req colorRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := page.Machine.SelectColor(req.Color); err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, r, page, nil)
}

// SelectSize handles POST /size
func (h *PageHandler) SelectSize(w http.ResponseWriter, r *http.Request) {
	page, ok := h.page(w, r)
	if !ok {
		return
	}

	var req sizeRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := page.Machine.SelectSize(req.Size); err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, r, page, nil)
}

// SetQuantity handles POST /quantity. Out-of-range values are clamped.
func (h *PageHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	page, ok := h.page(w, r)
	if !ok {
		return
	}

	var req quantityRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Quantity == nil {
		sendErrorResponse(w, "quantity is required", http.StatusBadRequest)
		return
	}

	page.Machine.SetQuantity(*req.Quantity)
	h.respond(w, r, page, nil)
}

// IncrementQuantity handles POST /quantity/increment
func (h *PageHandler) IncrementQuantity(w http.ResponseWriter, r *http.Request) {
	page, ok := h.page(w, r)
	if !ok {
		return
	}
	page.Machine.IncrementQuantity()
	h.respond(w, r, page, nil)
}

// DecrementQuantity handles POST /quantity/decrement
func (h *PageHandler) DecrementQuantity(w http.ResponseWriter, r *http.Request) {
	page, ok := h.page(w, r)
	if !ok {
		return
	}
	page.Machine.DecrementQuantity()
	h.respond(w, r, page, nil)
}

// SelectImage handles POST /image
func (h *PageHandler) SelectImage(w http.ResponseWriter, r *http.Request) {
	page, ok := h.page(w, r)
	if !ok {
		return
	}

	var req imageRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Image == nil {
		sendErrorResponse(w, "image is required", http.StatusBadRequest)
		return
	}

	if err := page.Machine.SelectImage(*req.Image); err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, r, page, nil)
}

// ToggleZoom handles POST /zoom/toggle
func (h *PageHandler) ToggleZoom(w http.ResponseWriter, r *http.Request) {
	page, ok := h.page(w, r)
	if !ok {
		return
	}
	page.Machine.ToggleZoom()
	h.respond(w, r, page, nil)
}

// MoveZoom handles POST /zoom/move with the pointer position relative to the
// main image and the image's rendered size
func (h *PageHandler) MoveZoom(w http.ResponseWriter, r *http.Request) {
	page, ok := h.page(w, r)
	if !ok {
		return
	}

	var req zoomMoveRequest
	if !h.decode(w, r, &req) {
		return
	}

	page.Machine.UpdateZoomPosition(req.PointerX, req.PointerY, req.BoundsWidth, req.BoundsHeight)
	h.respond(w, r, page, nil)
}

// LeaveZoom handles POST /zoom/leave
func (h *PageHandler) LeaveZoom(w http.ResponseWriter, r *http.Request) {
	page, ok := h.page(w, r)
	if !ok {
		return
	}
	page.Machine.LeaveZoomArea()
	h.respond(w, r, page, nil)
}

// ToggleSection handles POST /sections/{section}/toggle
func (h *PageHandler) ToggleSection(w http.ResponseWriter, r *http.Request) {
	page, ok := h.page(w, r)
	if !ok {
		return
	}

	section, err := models.ParseSection(chi.URLParam(r, "section"))
	if err == nil {
		err = page.Machine.ToggleSection(section)
	}
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, r, page, nil)
}

// AddToCart handles POST /cart. A submission that is not accepted (size out
// of stock, request in flight) is reported with accepted=false.
func (h *PageHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	page, ok := h.page(w, r)
	if !ok {
		return
	}

	accepted := page.Machine.SubmitAddToCart()
	h.respond(w, r, page, &accepted)
}

// Unmount handles DELETE /. The page's pending cart transitions are dropped.
func (h *PageHandler) Unmount(w http.ResponseWriter, r *http.Request) {
	if err := h.pages.Close(chi.URLParam(r, "pageID")); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Events streams a fragment patch for every state change, including the
// timer-driven cart transitions, until the client goes away or the page is
// closed
func (h *PageHandler) Events(w http.ResponseWriter, r *http.Request) {
	page, ok := h.page(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	updates := page.Machine.Subscribe(ctx)
	sse := datastar.NewSSE(w, r)

	if err := h.patch(sse, page, page.Machine.Snapshot()); err != nil {
		h.logger.Debug("event stream closed", zap.String("page_id", page.ID), zap.Error(err))
		return
	}

	touch := time.NewTicker(eventsTouchInterval)
	defer touch.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case state, ok := <-updates:
			if !ok {
				return
			}
			if err := h.patch(sse, page, state); err != nil {
				h.logger.Debug("event stream closed", zap.String("page_id", page.ID), zap.Error(err))
				return
			}
		case <-touch.C:
			if _, err := h.pages.Get(page.ID); err != nil {
				return
			}
		}
	}
}

// page resolves the {pageID} URL parameter, writing a 404 when it is unknown
func (h *PageHandler) page(w http.ResponseWriter, r *http.Request) (*services.PageSession, bool) {
	page, err := h.pages.Get(chi.URLParam(r, "pageID"))
	if err != nil {
		h.fail(w, err)
		return nil, false
	}
	return page, true
}

// decode reads datastar signals or a plain JSON body into v
func (h *PageHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := datastar.ReadSignals(r, v); err != nil {
		sendErrorResponse(w, "Invalid request payload", http.StatusBadRequest)
		return false
	}
	return true
}

// respond answers a datastar request with a fragment patch and anything else
// with the JSON snapshot
func (h *PageHandler) respond(w http.ResponseWriter, r *http.Request, page *services.PageSession, accepted *bool) {
	state := page.Machine.Snapshot()

	if isDatastar(r) {
		sse := datastar.NewSSE(w, r)
		if err := h.patch(sse, page, state); err != nil {
			h.logger.Warn("failed to patch page", zap.String("page_id", page.ID), zap.Error(err))
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(StateResponse{
		PageID:       page.ID,
		State:        state,
		CanAddToCart: state.CanAddToCart(),
		Accepted:     accepted,
	}); err != nil {
		h.logger.Warn("failed to encode response", zap.Error(err))
	}
}

func (h *PageHandler) patch(sse *datastar.ServerSentEventGenerator, page *services.PageSession, state interaction.State) error {
	fragment, err := h.renderer.Fragment(view(page, state))
	if err != nil {
		return err
	}
	return sse.PatchElements(fragment)
}

// fail maps domain errors to HTTP status codes
func (h *PageHandler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrPageNotFound):
		sendErrorResponse(w, "Page not found", http.StatusNotFound)
	case errors.Is(err, interaction.ErrUnknownColor),
		errors.Is(err, interaction.ErrUnknownSize),
		errors.Is(err, interaction.ErrUnknownImage),
		errors.Is(err, interaction.ErrInvalidSection):
		sendErrorResponse(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		h.logger.Error("page request failed", zap.Error(err))
		sendErrorResponse(w, "Internal server error", http.StatusInternalServerError)
	}
}

// isDatastar reports whether the request was sent by the datastar client
func isDatastar(r *http.Request) bool {
	return r.Header.Get("Datastar-Request") == "true" ||
		strings.Contains(r.Header.Get("Accept"), "text/event-stream")
}

// sendErrorResponse sends a JSON error response
func sendErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}
