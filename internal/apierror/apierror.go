// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
// Kind mirrors the domain taxonomy so clients can branch without parsing text.
type APIError struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

func New(kind, msg string) *APIError {
	return &APIError{Kind: kind, Detail: msg}
}

// StockError extends the envelope with the quantities a cashier needs to see.
type StockError struct {
	Kind      string `json:"kind"`
	Detail    string `json:"detail"`
	Product   string `json:"product"`
	Available int    `json:"available"`
	Requested int    `json:"requested"`
}

// InUseError carries the number of referencing sales on a blocked delete.
type InUseError struct {
	Kind      string `json:"kind"`
	Detail    string `json:"detail"`
	SaleCount int64  `json:"sale_count"`
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Kind   string            `json:"kind"`
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Kind: "validation", Detail: "validation failed", Fields: fields}
}
