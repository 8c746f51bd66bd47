// Package client talks to the quotes REST API.
//
// # Overview
//
//  1. Client is the API contract used by the services.
//  2. HTTPClient implements it over net/http. Every request carries a fresh
//     X-Request-ID and, when the credential store holds one, a bearer
//     credential read at send time.
//  3. InitDatabase and RunMigrations bootstrap the local SQLite store that
//     holds the credential between runs.
//
// # Errors
//
// Every failure is an *APIError with a displayable Message and the HTTP
// StatusCode (0 when the server was not reached). Its kind is one of the
// sentinel errors and can be matched with errors.Is: ErrUnauthorized,
// ErrForbidden, ErrNotFound, ErrValidation, ErrRequestFailed, ErrUnavailable,
// ErrInvalidResponse, ErrUnexpectedShape.
//
// A 401 on any request clears the credential store and fires the hook set
// with OnUnauthorized before the error is returned.
//
// # Response contract
//
// A body is either an envelope {"success": bool, "data": ..., "message": ...}
// or the bare payload. unwrap is the only code that knows this; everything
// else reads the payload it returns.
package client
