package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/adyen/productpage/internal/interaction"
	"github.com/adyen/productpage/internal/services"
)

// fragmentName is the template re-rendered after every state change
const fragmentName = "interaction"

// Renderer renders the product page and its interactive fragment
type Renderer struct {
	template *template.Template
}

// NewRenderer parses the product page template
func NewRenderer(templatePath string) (*Renderer, error) {
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return nil, err
	}
	if tmpl.Lookup(fragmentName) == nil {
		return nil, fmt.Errorf("template %s does not define %q", templatePath, fragmentName)
	}
	return &Renderer{template: tmpl}, nil
}

// Page renders the full document
func (r *Renderer) Page(view PageView) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.template.Execute(&buf, view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Fragment renders the element patched into the page on every change
func (r *Renderer) Fragment(view PageView) (string, error) {
	var buf bytes.Buffer
	if err := r.template.ExecuteTemplate(&buf, fragmentName, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ProductHandler handles the product page requests
type ProductHandler struct {
	renderer *Renderer
	pages    services.PageService
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(renderer *Renderer, pages services.PageService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		renderer: renderer,
		pages:    pages,
		logger:   logger,
	}
}

// ServeHTTP handles the GET / request. Every render mounts a fresh page, so
// a reload starts again from the catalog defaults.
func (h *ProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	page, err := h.pages.Open(r.Context())
	if err != nil {
		h.logger.Error("failed to open page", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	body, err := h.renderer.Page(view(page, page.Machine.Snapshot()))
	if err != nil {
		h.logger.Error("failed to render page", zap.String("page_id", page.ID), zap.Error(err))
		h.pages.Close(page.ID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(body)
}

func view(page *services.PageSession, state interaction.State) PageView {
	return NewPageView(page.ID, page.Machine.Product(), state)
}
