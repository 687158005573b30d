package types

import "github.com/shopspring/decimal"

// LineItem is one purchased item of a checkout. Title and Description are opaque to
// this service and forwarded to the processor as-is.
type LineItem struct {
	ID          string          `json:"id" validate:"required,max=128"`
	Title       string          `json:"title,omitempty" validate:"max=256"`
	Description string          `json:"description,omitempty"`
	PictureURL  string          `json:"picture_url,omitempty" validate:"omitempty,url"`
	CategoryID  string          `json:"category_id,omitempty"`
	Quantity    int             `json:"quantity" validate:"gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	CurrencyID  string          `json:"currency_id" validate:"required,len=3"`
}

func (i LineItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// LineItemsTotal sums unit_price * quantity across items.
func LineItemsTotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}
