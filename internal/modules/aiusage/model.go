package aiusage

import "errors"

// ErrInsufficientTokens is returned when a tenant has no fallback tokens remaining for the current month.
var ErrInsufficientTokens = errors.New("insufficient tokens")

// DefaultTokens is the number of fallback calls granted per tenant per month.
const DefaultTokens = 1000
