// Package models holds the spore domain entities and the envelopes shared
// between the service and the HTTP transport.
package models

import "time"

// Spore is a persisted geotagged note. Rows are append-only: created exactly
// once by a successful submission, never mutated, never deleted by this
// service. ID is assigned by storage and is the canonical order key.
type Spore struct {
	ID        int64     `json:"id"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Message   string    `json:"message"`
	CookieID  string    `json:"cookie_id"`
	CreatedAt time.Time `json:"created_at"`
	// IPAddress is recorded for abuse tooling but never serialized in read
	// responses.
	IPAddress string `json:"-"`
}

// SporeSubmission is a candidate submission as decoded from the request body.
// Pointer fields distinguish absent fields from zero values so the validator
// can report which field is wrong.
type SporeSubmission struct {
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
	Message  *string  `json:"message"`
	CookieID *string  `json:"cookie_id"`
}

// GeoFilters are the optional read-path parameters. Each bound is an
// independent inequality; a partial or inverted box is passed through as
// given. Cursor is an exclusive lower bound on ID. Limit caps the page size.
type GeoFilters struct {
	MinLat *float64
	MaxLat *float64
	MinLng *float64
	MaxLng *float64
	Cursor *int64
	Limit  *int
}

// SubmitResult reports a successful write.
type SubmitResult struct {
	ID int64
}

// Pagination describes the page returned by a query. NextCursor is set only
// when a limit was supplied and the page came back full, meaning more rows
// may exist.
type Pagination struct {
	Cursor     *int64 `json:"cursor"`
	NextCursor *int64 `json:"nextCursor"`
	Limit      *int   `json:"limit"`
	HasMore    bool   `json:"hasMore"`
}

// QueryResult is the read-path envelope. Total counts the whole filtered set,
// ignoring cursor and limit.
type QueryResult struct {
	Spores     []Spore    `json:"spores"`
	Total      int64      `json:"total"`
	Pagination Pagination `json:"pagination"`
}

// SubmitResponse is the HTTP body for a successful submission.
type SubmitResponse struct {
	Success bool   `json:"success"`
	ID      int64  `json:"id"`
	Message string `json:"message"`
}
