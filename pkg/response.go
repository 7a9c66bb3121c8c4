// Package pkg provides shared types and utilities for the qooqz API.
package pkg

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool       `json:"success"`
	Code    int        `json:"code"`
	Message string     `json:"message"`
	Data    any        `json:"data,omitempty"`
	Meta    any        `json:"meta,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// NewResponse creates a successful Response with the given code, data, and message.
func NewResponse(code int, data any, message string) Response {
	return Response{
		Success: true,
		Code:    code,
		Data:    data,
		Message: message,
	}
}

// NewPagedResponse creates a successful Response carrying pagination meta.
func NewPagedResponse(code int, data any, meta any, message string) Response {
	r := NewResponse(code, data, message)
	r.Meta = meta
	return r
}

// NewErrorResponse creates a failed Response. details is omitted when nil.
func NewErrorResponse(code int, errCode, message string, details any) Response {
	return Response{
		Success: false,
		Code:    code,
		Message: message,
		Error:   &ErrorBody{Code: errCode, Details: details},
	}
}
