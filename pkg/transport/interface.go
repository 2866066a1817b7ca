package transport

import (
	"context"
	"fmt"
)

// Response is what the transport hands back for every completed request,
// whatever its status code.
type Response struct {
	StatusOk   bool
	StatusCode int
	Body       []byte
}

// ITransport is the HTTP collaborator the transfer service talks to. A
// request that never produced an HTTP response fails with *TransportError; a
// response with a non-2xx status is returned with StatusOk false.
type ITransport interface {
	// Post sends body to url with the given headers.
	Post(ctx context.Context, url string, body []byte, headers map[string]string) (*Response, error)

	// Get fetches url.
	Get(ctx context.Context, url string) (*Response, error)
}

// TransportError wraps a failure to obtain a response from the node.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Compile-time check to ensure Client implements ITransport
var _ ITransport = (*Client)(nil)
