package catalog

import (
	"context"
	"io"
	"testing"

	pkgerrors "github.com/snapformstudio/storefront-backend/pkg/errors"
	"github.com/snapformstudio/storefront-backend/pkg/logger"
	"github.com/snapformstudio/storefront-backend/pkg/shopify"
)

type stubGateway struct {
	nodes []shopify.ProductNode
	err   error
	count int
}

func (s *stubGateway) FetchProducts(ctx context.Context, count int) ([]shopify.ProductNode, error) {
	s.count = count
	return s.nodes, s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Output: io.Discard})
}

func productNode(id, title string, variants ...shopify.VariantNode) shopify.ProductNode {
	node := shopify.ProductNode{ID: id, Title: title}
	for _, v := range variants {
		node.Variants.Edges = append(node.Variants.Edges, struct {
			Node shopify.VariantNode `json:"node"`
		}{Node: v})
	}
	return node
}

func TestFetchProductsFlattensAndKeepsOrder(t *testing.T) {
	gw := &stubGateway{nodes: []shopify.ProductNode{
		productNode("gid://shopify/Product/1", "Sakura Case",
			shopify.VariantNode{ID: "v1", Title: "iPhone 15", Price: shopify.Money{Amount: "29.99", CurrencyCode: "USD"}},
			shopify.VariantNode{ID: "v2", Title: "Pixel 9", Price: shopify.Money{Amount: "27.50", CurrencyCode: "USD"}},
		),
		productNode("gid://shopify/Product/2", "Mecha Case",
			shopify.VariantNode{ID: "v3", Title: "iPhone 15", Price: shopify.Money{Amount: "31.00", CurrencyCode: "USD"}},
		),
	}}

	svc, err := NewService(gw, testLogger())
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	products, err := svc.FetchProducts(context.Background(), 5)
	if err != nil {
		t.Fatalf("FetchProducts failed: %v", err)
	}
	if gw.count != 5 {
		t.Fatalf("expected count 5 forwarded, got %d", gw.count)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].ID != "gid://shopify/Product/1" || products[1].ID != "gid://shopify/Product/2" {
		t.Fatalf("product order not preserved: %+v", products)
	}
	if len(products[0].Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(products[0].Variants))
	}
	if products[0].Variants[1].Price.Display() != "27.50 USD" {
		t.Fatalf("unexpected price %s", products[0].Variants[1].Price.Display())
	}
}

func TestFetchProductsDropsPricelessVariants(t *testing.T) {
	gw := &stubGateway{nodes: []shopify.ProductNode{
		productNode("p1", "Holo Case",
			shopify.VariantNode{ID: "v1", Title: "broken", Price: shopify.Money{Amount: "not-a-number", CurrencyCode: "USD"}},
			shopify.VariantNode{ID: "v2", Title: "ok", Price: shopify.Money{Amount: "12.00", CurrencyCode: "USD"}},
		),
		productNode("p2", "All Broken",
			shopify.VariantNode{ID: "v3", Title: "no currency", Price: shopify.Money{Amount: "12.00"}},
		),
	}}

	svc, _ := NewService(gw, testLogger())
	products, err := svc.FetchProducts(context.Background(), 10)
	if err != nil {
		t.Fatalf("FetchProducts failed: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("product without valid variants should be dropped, got %d products", len(products))
	}
	if len(products[0].Variants) != 1 || products[0].Variants[0].ID != "v2" {
		t.Fatalf("expected only the priced variant to survive: %+v", products[0].Variants)
	}
}

func TestFetchProductsEmptyCatalogIsNotAnError(t *testing.T) {
	svc, _ := NewService(&stubGateway{}, testLogger())
	products, err := svc.FetchProducts(context.Background(), 3)
	if err != nil {
		t.Fatalf("empty catalog should not error: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("expected empty slice, got %d", len(products))
	}
}

func TestFetchProductsRejectsNonPositiveCount(t *testing.T) {
	gw := &stubGateway{}
	svc, _ := NewService(gw, testLogger())
	_, err := svc.FetchProducts(context.Background(), 0)
	if !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if gw.count != 0 {
		t.Fatalf("gateway should not be called on invalid count")
	}
}

func TestFetchProductsPropagatesGatewayErrors(t *testing.T) {
	gw := &stubGateway{err: pkgerrors.New(pkgerrors.CodeNetwork, "connection refused")}
	svc, _ := NewService(gw, testLogger())
	_, err := svc.FetchProducts(context.Background(), 1)
	if !pkgerrors.Is(err, pkgerrors.CodeNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}
