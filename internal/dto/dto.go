// Package dto holds the JSON request and response shapes of the HTTP API.
package dto

import "github.com/shopspring/decimal"

func init() {
	// Money fields are JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}
