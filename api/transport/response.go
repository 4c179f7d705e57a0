package transport

import "encoding/json"

// Envelope is the standard API response wrapper used for both success and
// error payloads.
type Envelope struct {
	Success bool         `json:"success"`
	Code    string       `json:"code,omitempty"`
	Message string       `json:"message,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
	Error   string       `json:"error,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

// FieldError pinpoints a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewSuccess returns a success envelope with an optional human message.
func NewSuccess(data interface{}, message string) Envelope {
	return Envelope{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// NewError returns an error envelope.
func NewError(code string, err string) Envelope {
	return Envelope{
		Success: false,
		Code:    code,
		Error:   err,
	}
}

// NewValidationError returns a 400-style envelope listing the offending fields.
func NewValidationError(details []FieldError) Envelope {
	return Envelope{
		Success: false,
		Code:    "INVALID",
		Error:   "validation error",
		Details: details,
	}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
