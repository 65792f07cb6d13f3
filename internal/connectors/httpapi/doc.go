// Package httpapi is the HTTP transport shared by the card catalog connectors.
//
// It sends GET requests, classifies responses (429 as *RateLimitError, any
// other non-2xx as *APIError), optionally follows a single redirect by hand,
// retries transient failures with exponential backoff, and decodes JSON
// bodies.
package httpapi
