package shopify

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/snapformstudio/storefront-backend/pkg/errors"
)

const cartFields = `
    id
    checkoutUrl
    lines(first: 100) {
      edges {
        node {
          id
          quantity
          attributes {
            key
            value
          }
          merchandise {
            ... on ProductVariant {
              id
              title
              price {
                amount
                currencyCode
              }
            }
          }
        }
      }
    }`

const cartCreateMutation = `
mutation storefrontCartCreate($input: CartInput!) {
  cartCreate(input: $input) {
    cart {` + cartFields + `
    }
    userErrors {
      field
      message
      code
    }
  }
}`

const cartLinesAddMutation = `
mutation storefrontCartLinesAdd($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart {` + cartFields + `
    }
    userErrors {
      field
      message
      code
    }
  }
}`

// Attribute is a free-form key/value pair attached to a cart line.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CartLineInput describes one line to add to a cart. Attributes with empty
// values are dropped before transmission.
type CartLineInput struct {
	VariantID  string
	Quantity   int
	Attributes []Attribute
}

// CartLine is a confirmed line on the remote cart.
type CartLine struct {
	ID         string      `json:"id"`
	VariantID  string      `json:"variant_id"`
	Title      string      `json:"title"`
	Quantity   int         `json:"quantity"`
	Price      Money       `json:"price"`
	Attributes []Attribute `json:"attributes,omitempty"`
}

// Cart mirrors the authoritative remote cart state after a mutation.
type Cart struct {
	ID          string     `json:"id"`
	CheckoutURL string     `json:"checkout_url"`
	Lines       []CartLine `json:"lines"`
}

type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
	Code    string   `json:"code"`
}

type cartWire struct {
	ID          string `json:"id"`
	CheckoutURL string `json:"checkoutUrl"`
	Lines       struct {
		Edges []struct {
			Node struct {
				ID          string      `json:"id"`
				Quantity    int         `json:"quantity"`
				Attributes  []Attribute `json:"attributes"`
				Merchandise struct {
					ID    string `json:"id"`
					Title string `json:"title"`
					Price Money  `json:"price"`
				} `json:"merchandise"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"lines"`
}

type cartMutationPayload struct {
	Cart       *cartWire   `json:"cart"`
	UserErrors []userError `json:"userErrors"`
}

// CartCreate creates a remote cart seeded with the provided line.
func (c *Client) CartCreate(ctx context.Context, line CartLineInput) (*Cart, error) {
	variables := map[string]any{
		"input": map[string]any{
			"lines": []any{lineInputWire(line)},
		},
	}

	var data struct {
		CartCreate cartMutationPayload `json:"cartCreate"`
	}
	if err := c.do(ctx, "cart_create", cartCreateMutation, variables, &data); err != nil {
		return nil, err
	}

	if err := userErrorsToDomain(data.CartCreate.UserErrors, "cart_create"); err != nil {
		return nil, err
	}
	if data.CartCreate.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeRemote, "cart_create returned no cart").
			WithDetails(map[string]any{"remote_code": "EMPTY_PAYLOAD"})
	}
	return normalizeCart(data.CartCreate.Cart)
}

// CartLinesAdd appends a line to an existing remote cart. A cart the backend
// no longer tracks surfaces as NOT_FOUND so callers can recreate it.
func (c *Client) CartLinesAdd(ctx context.Context, cartID string, line CartLineInput) (*Cart, error) {
	variables := map[string]any{
		"cartId": cartID,
		"lines":  []any{lineInputWire(line)},
	}

	var data struct {
		CartLinesAdd cartMutationPayload `json:"cartLinesAdd"`
	}
	if err := c.do(ctx, "cart_lines_add", cartLinesAddMutation, variables, &data); err != nil {
		return nil, err
	}

	if err := userErrorsToDomain(data.CartLinesAdd.UserErrors, "cart_lines_add"); err != nil {
		return nil, err
	}
	if data.CartLinesAdd.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart no longer exists")
	}
	return normalizeCart(data.CartLinesAdd.Cart)
}

func lineInputWire(line CartLineInput) map[string]any {
	wire := map[string]any{
		"merchandiseId": line.VariantID,
		"quantity":      line.Quantity,
	}
	attributes := FilterAttributes(line.Attributes)
	if len(attributes) > 0 {
		wire["attributes"] = attributes
	}
	return wire
}

// FilterAttributes drops attributes with blank keys or values so they are
// never stored as empty pairs.
func FilterAttributes(attributes []Attribute) []Attribute {
	filtered := make([]Attribute, 0, len(attributes))
	for _, attr := range attributes {
		if strings.TrimSpace(attr.Key) == "" || strings.TrimSpace(attr.Value) == "" {
			continue
		}
		filtered = append(filtered, attr)
	}
	if len(filtered) == 0 {
		return nil
	}
	return filtered
}

func userErrorsToDomain(userErrors []userError, op string) error {
	if len(userErrors) == 0 {
		return nil
	}
	first := userErrors[0]
	details := map[string]any{
		"field":       strings.Join(first.Field, "."),
		"remote_code": first.Code,
	}
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s rejected: %s", op, first.Message)).
		WithDetails(details)
}

func normalizeCart(wire *cartWire) (*Cart, error) {
	cart := &Cart{
		ID:          wire.ID,
		CheckoutURL: wire.CheckoutURL,
		Lines:       make([]CartLine, 0, len(wire.Lines.Edges)),
	}
	if cart.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeRemote, "cart payload missing id").
			WithDetails(map[string]any{"remote_code": "MALFORMED_RESPONSE"})
	}
	for _, edge := range wire.Lines.Edges {
		node := edge.Node
		if err := node.Merchandise.Price.Validate(); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeRemote, err, "cart line price invalid").
				WithDetails(map[string]any{"remote_code": "MALFORMED_RESPONSE"})
		}
		cart.Lines = append(cart.Lines, CartLine{
			ID:         node.ID,
			VariantID:  node.Merchandise.ID,
			Title:      node.Merchandise.Title,
			Quantity:   node.Quantity,
			Price:      node.Merchandise.Price,
			Attributes: FilterAttributes(node.Attributes),
		})
	}
	return cart, nil
}
