// Package types holds the JSON envelope shapes shared by every API response.
package types

// SuccessEnvelope wraps successful payloads under a single "data" key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the client-facing error body. Details carries field-level
// validation output when the error code allows it.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps an APIError under a single "error" key.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
