package transport

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Envelope is the standard API response wrapper used for both success and error payloads.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  *ErrorBody  `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// ErrorBody carries the client-facing error details. The generated id is
// logged server-side so opaque 500s stay correlatable.
type ErrorBody struct {
	ID         string    `json:"id"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

// NewError returns an error envelope with a freshly generated error id.
func NewError(code, message string, statusCode int) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error: &ErrorBody{
			ID:         uuid.NewString(),
			Message:    message,
			StatusCode: statusCode,
			Timestamp:  time.Now().UTC(),
		},
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
