package ports

import "context"

// Header is a single out-of-band request header, for credentials that travel
// beside the JSON body rather than inside it.
type Header struct {
	Name  string
	Value string
}

// Transport is the HTTP boundary used by the API clients. Implementations
// attach authorization from the current session and surface typed failures
// distinguishing "server rejected" from "no response reached the server".
type Transport interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any, headers ...Header) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}
