package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is bumped whenever the envelope shape changes.
// Clients check it before parsing the payload.
const envelopeVersion = 1

// Envelope is the uniform wrapper around every JSON response body.
// Success responses carry the payload under "data"; error responses carry
// the APIError fields at the top level so clients never have to guess.
type Envelope struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps every response body in the versioned envelope.
// Registered on the huma config so handlers keep returning plain payloads.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		env := &Envelope{
			V:       envelopeVersion,
			Success: false,
			Error:   apiErr.Message,
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}
		return env, nil
	}

	return &Envelope{
		V:       envelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}
