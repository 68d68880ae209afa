package shopify

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an exact decimal amount paired with a currency code. Amounts stay
// strings end to end; the only local arithmetic is display rounding.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// Validate checks the amount parses as a non-negative decimal and a currency
// code is present.
func (m Money) Validate() error {
	if m.CurrencyCode == "" {
		return fmt.Errorf("money: missing currency code")
	}
	amount, err := decimal.NewFromString(m.Amount)
	if err != nil {
		return fmt.Errorf("money: parse amount %q: %w", m.Amount, err)
	}
	if amount.IsNegative() {
		return fmt.Errorf("money: negative amount %q", m.Amount)
	}
	return nil
}

// IsZeroValue reports whether the money struct is entirely unset.
func (m Money) IsZeroValue() bool {
	return m.Amount == "" && m.CurrencyCode == ""
}

// Display renders the amount with two decimal places and the currency code,
// e.g. "29.99 USD".
func (m Money) Display() string {
	amount, err := decimal.NewFromString(m.Amount)
	if err != nil {
		return fmt.Sprintf("%s %s", m.Amount, m.CurrencyCode)
	}
	return fmt.Sprintf("%s %s", amount.StringFixed(2), m.CurrencyCode)
}
