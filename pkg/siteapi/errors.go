package siteapi

import "github.com/rotisserie/eris"

// Failure classes for upstream payloads. Callers branch on these to decide
// between fallback catalogs, synthesized details, and hard errors; the
// wrapped chain keeps the endpoint and cause for logging.
var (
	// ErrTransport covers network failures and non-2xx responses.
	ErrTransport = eris.New("siteapi: transport failure")

	// ErrSchema covers responses that arrive but do not decode.
	ErrSchema = eris.New("siteapi: response does not match schema")

	// ErrEmpty covers well-formed responses with nothing in them.
	ErrEmpty = eris.New("siteapi: empty response")
)
