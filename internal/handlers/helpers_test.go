package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/adyen/productpage/internal/config"
	"github.com/adyen/productpage/internal/interaction"
	"github.com/adyen/productpage/internal/models"
	"github.com/adyen/productpage/internal/models/testutil"
	"github.com/adyen/productpage/internal/services"
)

const templatePath = "../../templates/product.html"

// fixtureCatalog serves the sneaker fixture
type fixtureCatalog struct {
	err error
}

func (c fixtureCatalog) Product(ctx context.Context) (models.Product, error) {
	if c.err != nil {
		return models.Product{}, c.err
	}
	return testutil.SneakerProduct(), nil
}

type testEnv struct {
	router   chi.Router
	pages    *services.PageServiceImpl
	clock    *interaction.ManualClock
	renderer *Renderer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	renderer, err := NewRenderer(templatePath)
	require.NoError(t, err)

	clock := interaction.NewManualClock(time.Unix(0, 0))
	pages := services.NewPageServiceWithClock(fixtureCatalog{}, config.InteractionConfig{
		AddToCartDelay:        time.Second,
		SuccessBannerDuration: 3 * time.Second,
		SessionIdleTimeout:    time.Hour,
	}, zap.NewNop(), clock)
	t.Cleanup(pages.CloseAll)

	logger := zap.NewNop()
	r := chi.NewRouter()
	r.Handle("/", NewProductHandler(renderer, pages, logger))
	r.Mount("/api/pages", NewPageHandler(pages, renderer, logger).Routes())
	r.Handle("/healthz", NewHealthHandler(pages))

	return &testEnv{router: r, pages: pages, clock: clock, renderer: renderer}
}

func (e *testEnv) openPage(t *testing.T) *services.PageSession {
	t.Helper()
	page, err := e.pages.Open(context.Background())
	require.NoError(t, err)
	return page
}

func (e *testEnv) do(method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}
