package response

// APIResponse is the envelope used by every HTTP endpoint. The extension
// client keys off Success; Error carries a human-readable message and Data
// the endpoint-specific payload. Unlike an always-200 RPC envelope, the
// HTTP status code is meaningful and set by the handler.
type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    T      `json:"data,omitempty"`
}

// OKT returns a successful response with data.
func OKT[T any](data T) *APIResponse[T] {
	return &APIResponse[T]{Success: true, Data: data}
}

// OK returns a successful response with no payload.
func OK() *APIResponse[any] {
	return &APIResponse[any]{Success: true}
}

// ErrT returns a failed response carrying detail data, e.g. remaining
// quota on a 403.
func ErrT[T any](msg string, data T) *APIResponse[T] {
	return &APIResponse[T]{Success: false, Error: msg, Data: data}
}

// Err returns a failed response with a message only.
func Err(msg string) *APIResponse[any] {
	return &APIResponse[any]{Success: false, Error: msg}
}
