package domain

import "errors"

var ErrMalformedToken = errors.New("malformed token")
var ErrExpiredCredential = errors.New("credential expired")
var ErrOperationInFlight = errors.New("another authentication operation is in flight")
var ErrSessionSuperseded = errors.New("session superseded")
var ErrNotAuthenticated = errors.New("not authenticated")
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUnreachable marks transport failures where no response reached the
// server, as opposed to the server responding with a failure.
var ErrUnreachable = errors.New("server unreachable")
