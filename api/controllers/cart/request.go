package cart

import (
	"github.com/snapformstudio/storefront-backend/api/validators"
	cartsvc "github.com/snapformstudio/storefront-backend/internal/cart"
	"github.com/snapformstudio/storefront-backend/pkg/shopify"
)

const (
	noteAttributeKey    = "_note"
	artworkAttributeKey = "_artwork_url"

	maxNoteLength = 500
)

// MoneyPayload is the optional client-side price snapshot.
type MoneyPayload struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currency_code"`
}

// AddItemRequest is the add-to-cart payload from the storefront UI.
type AddItemRequest struct {
	VariantID  string        `json:"variant_id" validate:"required"`
	Quantity   int           `json:"quantity" validate:"required,min=1,max=99"`
	Title      string        `json:"title"`
	Price      *MoneyPayload `json:"price"`
	Note       string        `json:"note"`
	ArtworkURL string        `json:"artwork_url"`
}

func toAddItemInput(payload AddItemRequest) cartsvc.AddItemInput {
	input := cartsvc.AddItemInput{
		VariantID:     payload.VariantID,
		Quantity:      payload.Quantity,
		TitleSnapshot: validators.SanitizeString(payload.Title, 0),
	}
	if payload.Price != nil {
		input.PriceSnapshot = shopify.Money{
			Amount:       payload.Price.Amount,
			CurrencyCode: payload.Price.CurrencyCode,
		}
	}

	// Blank attribute values are dropped at the gateway boundary too,
	// so an empty note simply never reaches the backend.
	input.Attributes = append(input.Attributes,
		shopify.Attribute{Key: noteAttributeKey, Value: validators.SanitizeString(payload.Note, maxNoteLength)},
		shopify.Attribute{Key: artworkAttributeKey, Value: validators.SanitizeString(payload.ArtworkURL, 0)},
	)
	return input
}
