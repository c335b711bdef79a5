package mock

import (
	"strconv"

	"github.com/mockd/mockd/internal/model"
)

// MockResponse is the envelope handed to the transport layer: a status code,
// a JSON-serializable body, and any generated response headers.
type MockResponse struct {
	Status  int            `json:"status"`
	Body    any            `json:"body"`
	Headers map[string]any `json:"headers,omitempty"`
}

// Synthesize picks a response variant for the operation and produces its
// body and headers. The status pick is success-first: "200", then "201",
// then the first declared code. Operations with no declared responses get an
// empty 200. The ordering is a compatibility contract; do not reorder.
func (g *Generator) Synthesize(op *model.Operation, opts Options) *MockResponse {
	resp := selectResponse(op.Responses)
	if resp == nil {
		return &MockResponse{Status: 200, Body: map[string]any{}}
	}

	out := &MockResponse{
		Status: statusCode(resp.StatusCode),
		Body:   map[string]any{},
	}

	// First declared media type wins; there is no negotiation against the
	// request's Accept header.
	for _, content := range resp.Content {
		if content.Schema != nil {
			out.Body = g.Generate(content.Schema, opts)
		}
		break
	}

	for _, h := range resp.Headers {
		if h.Schema == nil {
			continue
		}
		if out.Headers == nil {
			out.Headers = make(map[string]any)
		}
		// Header values use the built-in defaults, not the caller's
		// body-generation overrides.
		out.Headers[h.Name] = g.Generate(h.Schema, DefaultOptions())
	}

	return out
}

func selectResponse(responses []model.Response) *model.Response {
	for i := range responses {
		if responses[i].StatusCode == "200" {
			return &responses[i]
		}
	}
	for i := range responses {
		if responses[i].StatusCode == "201" {
			return &responses[i]
		}
	}
	if len(responses) > 0 {
		return &responses[0]
	}
	return nil
}

// statusCode parses a declared status key. Non-numeric keys such as
// "default" fall back to 200 on the wire.
func statusCode(key string) int {
	if code, err := strconv.Atoi(key); err == nil && code >= 100 && code <= 599 {
		return code
	}
	return 200
}
