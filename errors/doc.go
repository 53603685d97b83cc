// Package errors provides the structured error taxonomy shared by the
// HTTP API and the service layers.
//
// Every error carries a Code that maps deterministically to an HTTP
// status, so handlers never pick status codes ad hoc:
//
//	err := errors.New(errors.CodeNotFound, "task not found")
//	status := errors.HTTPStatus(err) // 404
//
// Unknown errors wrap to CodeInternal and surface as 500 without
// leaking their message to clients.
package errors
