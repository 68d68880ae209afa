package cart

import (
	cartsvc "github.com/snapformstudio/storefront-backend/internal/cart"
	pkgerrors "github.com/snapformstudio/storefront-backend/pkg/errors"
	"github.com/snapformstudio/storefront-backend/pkg/shopify"
)

type lineView struct {
	VariantID  string              `json:"variant_id"`
	Title      string              `json:"title"`
	Quantity   int                 `json:"quantity"`
	Price      shopify.Money       `json:"price"`
	Display    string              `json:"display_price"`
	Attributes []shopify.Attribute `json:"attributes,omitempty"`
}

type errorView struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type cartView struct {
	CartID      string     `json:"cart_id"`
	Lines       []lineView `json:"lines"`
	CheckoutURL string     `json:"checkout_url"`
	Status      string     `json:"status"`
	IsLoading   bool       `json:"is_loading"`
	LastError   *errorView `json:"last_error,omitempty"`
}

func newLineViews(lines []cartsvc.LineItem) []lineView {
	views := make([]lineView, 0, len(lines))
	for _, line := range lines {
		views = append(views, lineView{
			VariantID:  line.VariantID,
			Title:      line.Title,
			Quantity:   line.Quantity,
			Price:      line.Price,
			Display:    line.Price.Display(),
			Attributes: line.Attributes,
		})
	}
	return views
}

func newCartView(record *cartsvc.Record, status cartsvc.Status) cartView {
	return cartView{
		CartID:      record.CartID,
		Lines:       newLineViews(record.Lines),
		CheckoutURL: record.CheckoutURL,
		Status:      string(status),
		IsLoading:   status == cartsvc.StatusSyncing,
	}
}

func newSnapshotView(snap *cartsvc.Snapshot) cartView {
	view := cartView{
		CartID:      snap.CartID,
		Lines:       newLineViews(snap.Lines),
		CheckoutURL: snap.CheckoutURL,
		Status:      string(snap.Status),
		IsLoading:   snap.IsLoading,
	}
	if snap.LastError != nil {
		code := pkgerrors.CodeInternal
		if typed := pkgerrors.As(snap.LastError); typed != nil {
			code = typed.Code()
		}
		view.LastError = &errorView{
			Code:    string(code),
			Message: pkgerrors.MetadataFor(code).PublicMessage,
		}
	}
	return view
}
