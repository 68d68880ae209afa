package catalog

import (
	"context"
	"fmt"

	pkgerrors "github.com/snapformstudio/storefront-backend/pkg/errors"
	"github.com/snapformstudio/storefront-backend/pkg/logger"
	"github.com/snapformstudio/storefront-backend/pkg/shopify"
)

// Variant is a purchasable option of a Product with a validated price.
type Variant struct {
	ID              string                   `json:"id"`
	Title           string                   `json:"title"`
	Price           shopify.Money            `json:"price"`
	SelectedOptions []shopify.SelectedOption `json:"selected_options"`
}

// Product is an immutable catalog snapshot; it is never mutated locally.
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Images      []string  `json:"images"`
	Variants    []Variant `json:"variants"`
}

type gateway interface {
	FetchProducts(ctx context.Context, count int) ([]shopify.ProductNode, error)
}

// Service exposes normalized catalog reads.
type Service interface {
	FetchProducts(ctx context.Context, count int) ([]Product, error)
}

type service struct {
	gateway gateway
	logg    *logger.Logger
}

// NewService builds a catalog service backed by the storefront gateway.
func NewService(gw gateway, logg *logger.Logger) (Service, error) {
	if gw == nil {
		return nil, fmt.Errorf("catalog gateway required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{gateway: gw, logg: logg}, nil
}

// FetchProducts returns at most count products with the paginated wire shape
// flattened away. Variants without a usable price are dropped; products left
// without variants are dropped entirely. An empty catalog is an empty slice,
// not an error.
func (s *service) FetchProducts(ctx context.Context, count int) ([]Product, error) {
	if count < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "count must be at least 1")
	}

	nodes, err := s.gateway.FetchProducts(ctx, count)
	if err != nil {
		return nil, err
	}

	products := make([]Product, 0, len(nodes))
	for _, node := range nodes {
		product, ok := s.normalize(ctx, node)
		if !ok {
			continue
		}
		products = append(products, product)
	}
	return products, nil
}

func (s *service) normalize(ctx context.Context, node shopify.ProductNode) (Product, bool) {
	variants := make([]Variant, 0, len(node.Variants.Edges))
	for _, edge := range node.Variants.Edges {
		v := edge.Node
		if v.ID == "" {
			continue
		}
		if err := v.Price.Validate(); err != nil {
			logCtx := s.logg.WithFields(ctx, map[string]any{
				"product_id": node.ID,
				"variant_id": v.ID,
			})
			s.logg.Warn(logCtx, "dropping variant without usable price")
			continue
		}
		variants = append(variants, Variant{
			ID:              v.ID,
			Title:           v.Title,
			Price:           v.Price,
			SelectedOptions: v.SelectedOptions,
		})
	}

	if len(variants) == 0 {
		logCtx := s.logg.WithField(ctx, "product_id", node.ID)
		s.logg.Warn(logCtx, "dropping product without valid variants")
		return Product{}, false
	}

	images := make([]string, 0, len(node.Images.Edges))
	for _, edge := range node.Images.Edges {
		if edge.Node.URL == "" {
			continue
		}
		images = append(images, edge.Node.URL)
	}

	return Product{
		ID:          node.ID,
		Title:       node.Title,
		Description: node.Description,
		Images:      images,
		Variants:    variants,
	}, true
}
