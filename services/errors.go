package services

import "errors"

// Sentinel errors surfaced by the service layer. Controllers translate them
// into the HTTP error taxonomy.
var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrPostNotFound     = errors.New("post not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrVoteConflict     = errors.New("duplicate vote")
)

// ValidationError carries a message and optional per-field details.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

func newValidationError(message string, fields map[string]string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// Pagination describes the page window of a listing response.
type Pagination struct {
	Total       int64 `json:"total"`
	Pages       int   `json:"pages"`
	CurrentPage int   `json:"currentPage"`
	Limit       int   `json:"limit"`
}

// PageRangeError reports a requested page beyond the available range. The
// pagination block is included so clients can recover without a second call.
type PageRangeError struct {
	Pagination Pagination
}

func (e *PageRangeError) Error() string { return "page exceeds available pages" }
