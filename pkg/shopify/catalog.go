package shopify

import "context"

const productsQuery = `
query storefrontProducts($count: Int!) {
  products(first: $count) {
    edges {
      node {
        id
        title
        description
        images(first: 10) {
          edges {
            node {
              url
            }
          }
        }
        variants(first: 50) {
          edges {
            node {
              id
              title
              price {
                amount
                currencyCode
              }
              selectedOptions {
                name
                value
              }
            }
          }
        }
      }
    }
  }
}`

// SelectedOption is a variant axis such as the phone model.
type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// VariantNode is the raw variant shape returned by the Storefront API.
type VariantNode struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Price           Money            `json:"price"`
	SelectedOptions []SelectedOption `json:"selectedOptions"`
}

// ProductNode is the raw product shape returned by the Storefront API,
// still carrying the edges/nodes pagination wrappers.
type ProductNode struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Images      struct {
		Edges []struct {
			Node struct {
				URL string `json:"url"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"images"`
	Variants struct {
		Edges []struct {
			Node VariantNode `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

type productsData struct {
	Products struct {
		Edges []struct {
			Node ProductNode `json:"node"`
		} `json:"edges"`
	} `json:"products"`
}

// FetchProducts returns up to count raw product nodes. A shop with no
// published products yields an empty slice and no error.
func (c *Client) FetchProducts(ctx context.Context, count int) ([]ProductNode, error) {
	var data productsData
	if err := c.do(ctx, "fetch_products", productsQuery, map[string]any{"count": count}, &data); err != nil {
		return nil, err
	}

	nodes := make([]ProductNode, 0, len(data.Products.Edges))
	for _, edge := range data.Products.Edges {
		nodes = append(nodes, edge.Node)
	}
	return nodes, nil
}
