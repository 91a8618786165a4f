package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// Page size bounds.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ErrInvalidCursor is returned when a cursor does not decode.
var ErrInvalidCursor = errors.New("invalid cursor")

// PaginationRequest is the query of a cursor-paginated listing.
type PaginationRequest struct {
	// Cursor is the opaque NextCursor of a previous page.
	Cursor string `form:"cursor" json:"cursor"`

	// Limit is the page size (1-100, default 20).
	Limit int `form:"limit" json:"limit" validate:"omitempty,gte=1,lte=100"`
}

// GetLimit returns the limit with defaults applied.
func (p *PaginationRequest) GetLimit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}

	return min(p.Limit, MaxLimit)
}

// After decodes the cursor into the exclusive upper id of the page.
// No cursor means the first page and yields 0.
func (p *PaginationRequest) After() (int64, error) {
	if p.Cursor == "" {
		return 0, nil
	}

	cur, err := DecodeCursor(p.Cursor)
	if err != nil {
		return 0, err
	}

	return cur.After, nil
}

// PaginatedResponse is one page of a keyset listing.
type PaginatedResponse[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}

// NewPaginatedResponse builds a page. When more items exist, the cursor
// points past the last item using lastID.
func NewPaginatedResponse[T any](items []T, hasMore bool, lastID func(T) int64) *PaginatedResponse[T] {
	if items == nil {
		items = []T{}
	}

	resp := &PaginatedResponse[T]{Items: items, HasMore: hasMore}
	if hasMore && len(items) > 0 {
		resp.NextCursor = EncodeCursor(&Cursor{After: lastID(items[len(items)-1])})
	}

	return resp
}

// Cursor is the decoded form of an opaque page cursor.
type Cursor struct {
	After int64 `json:"a"`
}

// EncodeCursor encodes a cursor as URL-safe base64 JSON.
func EncodeCursor(cur *Cursor) string {
	if cur == nil {
		return ""
	}

	raw, err := json.Marshal(cur)
	if err != nil {
		return ""
	}

	return base64.URLEncoding.EncodeToString(raw)
}

// DecodeCursor reverses EncodeCursor.
func DecodeCursor(encoded string) (*Cursor, error) {
	raw, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	var cur Cursor
	if err := json.Unmarshal(raw, &cur); err != nil || cur.After <= 0 {
		return nil, ErrInvalidCursor
	}

	return &cur, nil
}
