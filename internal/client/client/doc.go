// Package client talks to the gophauth HTTP API.
//
// HTTPClient keeps the session token returned by Login and sends it as a
// bearer token on authenticated calls. Transport failures are reported as
// ErrUnavailable; non-2xx replies come back as *APIError, which also matches
// ErrUnauthorized for 401 under errors.Is.
package client
