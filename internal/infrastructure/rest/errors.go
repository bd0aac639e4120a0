package rest

import "fmt"

// StatusError is a server-side rejection: the request reached the server and
// it answered with a failure status or a refused envelope. Transport-level
// failures (nothing reached the server) wrap domain.ErrUnreachable instead.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request rejected with status %d", e.Code)
}
