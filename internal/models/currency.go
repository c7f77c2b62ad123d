package models

import "fmt"

// Currency is the closed set of currencies the ledger accepts.
type Currency string

const (
	CurrencyEUR   Currency = "EUR"
	CurrencyUSD   Currency = "USD"
	CurrencyWON   Currency = "WON"
	CurrencyYEN   Currency = "YEN"
	CurrencyPOUND Currency = "POUND"
)

// Valid reports whether c is a supported currency.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyEUR, CurrencyUSD, CurrencyWON, CurrencyYEN, CurrencyPOUND:
		return true
	}
	return false
}

// ParseCurrency converts a wire string into a Currency.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(s)
	if !c.Valid() {
		return "", fmt.Errorf("%s is not a valid currency", s)
	}
	return c, nil
}
