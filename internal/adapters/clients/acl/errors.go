package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/portfolio-service/internal/adapters/clients"
	"github.com/jsamuelsen/portfolio-service/internal/domain"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 4 << 10

// upstreamError is the error body shape quote providers commonly return:
// either {"statusMessage": ...}, {"message": ...} or {"error": "..."}.
type upstreamError struct {
	StatusMessage string `json:"statusMessage"`
	Message       string `json:"message"`
	Error         string `json:"error"`
}

func (e upstreamError) text() string {
	switch {
	case e.StatusMessage != "":
		return e.StatusMessage
	case e.Message != "":
		return e.Message
	default:
		return e.Error
	}
}

// MapClientError turns a transport failure from clients.Client into a domain error.
func MapClientError(err error, service, operation string) error {
	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(service, "circuit breaker open during "+operation)
	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return domain.NewUnavailableError(service, operation+" failed after retries")
	default:
		return domain.NewUnavailableError(service, fmt.Sprintf("%s failed: %v", operation, err))
	}
}

// MapStatus turns a non-2xx upstream response into a domain error. It reads,
// but does not close, the body.
//
// Upstream rejections are never the caller's fault here, so every status,
// 404 included, surfaces as unavailable.
func MapStatus(resp *http.Response, service, operation string) error {
	message := fmt.Sprintf("%s returned HTTP %d", operation, resp.StatusCode)

	if resp.Body != nil {
		var body upstreamError
		if json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&body) == nil && body.text() != "" {
			message = fmt.Sprintf("%s (HTTP %d)", body.text(), resp.StatusCode)
		}
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return domain.NewUnavailableError(service, operation+" endpoint not found (HTTP 404)")
	case http.StatusTooManyRequests:
		return domain.NewUnavailableError(service, "rate limit exceeded")
	default:
		return domain.NewUnavailableError(service, message)
	}
}
