package http

import (
	"encoding/json"

	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
)

// errorEnvelope is the Google API error shape: {"error": {...}}.
type errorEnvelope struct {
	Error *clouddns.APIError `json:"error"`
}

// classify turns a non-2xx reply into an error. A body carrying an error
// message, either wrapped in an "error" object or at the top level, becomes
// an *APIError; anything else becomes a *TransportError holding the raw
// body.
func classify(status int, body []byte) error {
	var envelope errorEnvelope

	err := json.Unmarshal(body, &envelope)
	if err == nil && envelope.Error != nil && envelope.Error.Message != "" {
		envelope.Error.StatusCode = status

		return envelope.Error
	}

	var bare clouddns.APIError

	err = json.Unmarshal(body, &bare)
	if err == nil && bare.Message != "" {
		bare.StatusCode = status

		return &bare
	}

	return &clouddns.TransportError{StatusCode: status, Body: body}
}
