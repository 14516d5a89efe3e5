package content

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// FieldError is one entry of a structured error body: a dotted field path
// plus a human-readable message.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// APIError is a non-success response from the document API. Fields carries
// per-field detail when the body followed the structured shape; Message is
// always populated.
type APIError struct {
	Status  int
	Message string
	Fields  []FieldError
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("document api: %s (%d field errors)", e.Message, len(e.Fields))
	}
	return fmt.Sprintf("document api: %s", e.Message)
}

// FieldMessages collapses the structured detail into a path -> message map.
func (e *APIError) FieldMessages() map[string]string {
	if len(e.Fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(e.Fields))
	for _, fieldErr := range e.Fields {
		if fieldErr.Path == "" {
			continue
		}
		if _, exists := out[fieldErr.Path]; !exists {
			out[fieldErr.Path] = fieldErr.Message
		}
	}
	return out
}

// newAPIError parses a failure body. Structured shapes are tried first;
// anything else falls back to a generic status message so no failure is
// ever silent.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		Status:  status,
		Message: fmt.Sprintf("%d %s", status, http.StatusText(status)),
	}
	if len(body) == 0 {
		return apiErr
	}

	// Two structured shapes exist in the wild:
	//   {"errors":[{"message":"...","data":[{"path","message"}]}]}
	//   {"message":"...","errors":[{"path","message"}]}
	// Both decode into this envelope; anything else keeps the generic
	// status message.
	var envelope struct {
		Message string `json:"message"`
		Errors  []struct {
			Path    string       `json:"path"`
			Message string       `json:"message"`
			Data    []FieldError `json:"data"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return apiErr
	}

	if msg := strings.TrimSpace(envelope.Message); msg != "" {
		apiErr.Message = msg
	}
	for _, entry := range envelope.Errors {
		switch {
		case len(entry.Data) > 0:
			apiErr.Fields = append(apiErr.Fields, entry.Data...)
			if apiErr.Message == fmt.Sprintf("%d %s", status, http.StatusText(status)) {
				if msg := strings.TrimSpace(entry.Message); msg != "" {
					apiErr.Message = msg
				}
			}
		case strings.TrimSpace(entry.Path) != "":
			apiErr.Fields = append(apiErr.Fields, FieldError{Path: entry.Path, Message: entry.Message})
		case strings.TrimSpace(entry.Message) != "":
			if apiErr.Message == fmt.Sprintf("%d %s", status, http.StatusText(status)) {
				apiErr.Message = strings.TrimSpace(entry.Message)
			}
		}
	}
	apiErr.Fields = pruneFieldErrors(apiErr.Fields)
	return apiErr
}

func pruneFieldErrors(fields []FieldError) []FieldError {
	out := fields[:0]
	for _, fieldErr := range fields {
		if strings.TrimSpace(fieldErr.Path) == "" && strings.TrimSpace(fieldErr.Message) == "" {
			continue
		}
		out = append(out, fieldErr)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
