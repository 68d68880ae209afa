package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/snapformstudio/storefront-backend/internal/catalog"
	cartsvc "github.com/snapformstudio/storefront-backend/internal/cart"
	"github.com/snapformstudio/storefront-backend/pkg/config"
	"github.com/snapformstudio/storefront-backend/pkg/logger"
	"github.com/snapformstudio/storefront-backend/pkg/shopify"
	"github.com/snapformstudio/storefront-backend/pkg/types"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

type stubCatalogService struct {
	products []catalog.Product
	err      error
}

func (s stubCatalogService) FetchProducts(ctx context.Context, count int) ([]catalog.Product, error) {
	return s.products, s.err
}

type stubCartService struct {
	record   *cartsvc.Record
	snapshot *cartsvc.Snapshot
	url      string
	err      error
}

func (s stubCartService) AddItem(ctx context.Context, sessionKey string, input cartsvc.AddItemInput) (*cartsvc.Record, error) {
	return s.record, s.err
}

func (s stubCartService) Cart(ctx context.Context, sessionKey string) (*cartsvc.Snapshot, error) {
	return s.snapshot, s.err
}

func (s stubCartService) CheckoutURL(ctx context.Context, sessionKey string) (string, error) {
	return s.url, s.err
}

func (s stubCartService) Clear(ctx context.Context, sessionKey string) error {
	return s.err
}

func testConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Env: "test", Port: "0"},
		Session: config.SessionConfig{Backend: "memory", TTL: time.Hour, CookieName: "sf_session"},
		Catalog: config.CatalogConfig{DefaultCount: 1, MaxCount: 20},
		CORS:    config.CORSConfig{Origins: []string{"http://localhost:3000"}},
	}
}

func newTestRouter(cfg *config.Config, cartService stubCartService) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Output: io.Discard})
	catalogService := stubCatalogService{products: []catalog.Product{{
		ID:    "p1",
		Title: "Sakura Case",
		Variants: []catalog.Variant{{
			ID:    "v1",
			Price: shopify.Money{Amount: "29.99", CurrencyCode: "USD"},
		}},
	}}}
	return NewRouter(cfg, logg, stubPinger{}, catalogService, cartService, prometheus.NewRegistry())
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(testConfig(), stubCartService{})

	for _, path := range []string{"/health/live", "/health/ready"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 from %s, got %d", path, resp.Code)
		}
		if resp.Header().Get("X-SnapForm-Env") != "test" {
			t.Fatalf("missing environment header on %s", path)
		}
	}
}

func TestReadyFailsWhenSessionBackendDown(t *testing.T) {
	cfg := testConfig()
	logg := logger.New(logger.Options{ServiceName: "test-routing", Output: io.Discard})
	router := NewRouter(cfg, logg, stubPinger{err: context.DeadlineExceeded}, stubCatalogService{}, stubCartService{}, nil)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 when session backend is down, got %d", resp.Code)
	}
}

func TestProductsEndpointServesCatalog(t *testing.T) {
	router := newTestRouter(testConfig(), stubCartService{})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	data := envelope.Data.(map[string]any)
	if products := data["products"].([]any); len(products) != 1 {
		t.Fatalf("expected 1 product, got %v", products)
	}
}

func TestCartRoutesMintSessionCookie(t *testing.T) {
	router := newTestRouter(testConfig(), stubCartService{snapshot: &cartsvc.Snapshot{Status: cartsvc.StatusIdle}})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	cookies := resp.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "sf_session" {
		t.Fatalf("expected sf_session cookie to be minted, got %v", cookies)
	}
}

func TestAddItemRouteRoundTrip(t *testing.T) {
	router := newTestRouter(testConfig(), stubCartService{record: &cartsvc.Record{
		CartID:      "gid://shopify/Cart/1",
		CheckoutURL: "https://snapform.myshopify.com/checkouts/1",
	}})

	body := `{"variant_id":"v1","quantity":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCheckoutURLRoute(t *testing.T) {
	router := newTestRouter(testConfig(), stubCartService{url: "https://snapform.myshopify.com/checkouts/1"})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart/checkout-url", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestMetricsEndpointMounted(t *testing.T) {
	router := newTestRouter(testConfig(), stubCartService{})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", resp.Code)
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	router := newTestRouter(testConfig(), stubCartService{})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
