package types

// APIError is the wire shape for failed requests. Details ride under the
// "error" key and are only populated outside production.
type APIError struct {
	Message string `json:"message"`
	Details any    `json:"error,omitempty"`
}
