package acl

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jsamuelsen/portfolio-service/internal/domain"
)

// maxResponseBody bounds decoded upstream payloads.
const maxResponseBody = 1 << 20

// decode reads a JSON document of type T from body.
func decode[T any](body io.Reader) (*T, error) {
	var out T
	if err := json.NewDecoder(io.LimitReader(body, maxResponseBody)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding upstream response: %w", err)
	}

	return &out, nil
}

// quotableQuote is the quote document served by quotable-compatible APIs.
// Other providers use "text"/"q" and "a" for the same fields.
type quotableQuote struct {
	ID      string   `json:"_id"`
	Content string   `json:"content"`
	Text    string   `json:"text"`
	Q       string   `json:"q"`
	Author  string   `json:"author"`
	A       string   `json:"a"`
	Tags    []string `json:"tags"`
}

// toDomain keeps only the text and author. Blank fields are passed through;
// deciding whether the quote is usable is left to the caller.
func (q *quotableQuote) toDomain() *domain.Quote {
	return &domain.Quote{
		Text:   firstNonBlank(q.Content, q.Text, q.Q),
		Author: firstNonBlank(q.Author, q.A),
	}
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}

	return ""
}
