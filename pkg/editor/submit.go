package editor

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-adminforms/pkg/content"
	"github.com/goliatone/go-adminforms/pkg/forms"
	"github.com/goliatone/go-adminforms/pkg/normalize"
	"github.com/goliatone/go-adminforms/pkg/schema"
)

// ErrValidation marks a submit blocked by required-field validation; the
// per-field messages live on the session view.
var ErrValidation = errors.New("editor: validation failed")

// Submit normalizes the working state and writes it: POST for a new record,
// PATCH for an existing one. On a structured API error the messages map back
// onto their fields and the session stays editable. A cancelled context
// leaves the session untouched and reports no error.
func (s *Session) Submit(ctx context.Context) error {
	if !s.Validate() {
		return ErrValidation
	}

	s.mu.Lock()
	if s.status != StatusReady {
		status := s.status
		s.mu.Unlock()
		return fmt.Errorf("editor: session is %s, not ready", status)
	}
	s.status = StatusSaving
	fields := s.fields
	state := s.state.Clone()
	s.mu.Unlock()

	payload := normalize.Payload(schema.EditableFields(fields), state)

	var (
		saved content.Document
		err   error
	)
	if s.recordID == "" {
		saved, err = s.api.Create(ctx, s.collection, s.locale, payload)
	} else {
		saved, err = s.api.Update(ctx, s.collection, s.recordID, s.locale, payload)
	}

	if errors.Is(err, context.Canceled) {
		s.mu.Lock()
		s.status = StatusReady
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusReady

	if err != nil {
		var apiErr *content.APIError
		if errors.As(err, &apiErr) {
			mapping := forms.MapAPIError(fields, apiErr)
			s.fieldErrors = mapping.Fields
			if s.fieldErrors == nil {
				s.fieldErrors = make(map[string]string)
			}
			s.message = joinMessages(mapping.Form)
			if s.message == "" && len(mapping.Fields) > 0 {
				s.message = "Please correct the highlighted fields"
			}
		} else {
			s.message = "Save failed, please try again"
		}
		s.logger.Warn("submit failed",
			zap.String("collection", s.collection),
			zap.String("record", s.recordID),
			zap.Error(err))
		return err
	}

	s.fieldErrors = make(map[string]string)
	s.message = "Saved"
	if s.recordID == "" {
		if id := documentID(saved); id != "" {
			s.savedID = id
			s.recordID = id
		}
	}
	s.logger.Info("record saved",
		zap.String("collection", s.collection),
		zap.String("record", s.recordID))
	return nil
}

func joinMessages(messages []string) string {
	switch len(messages) {
	case 0:
		return ""
	case 1:
		return messages[0]
	default:
		out := messages[0]
		for _, msg := range messages[1:] {
			out += "; " + msg
		}
		return out
	}
}

func documentID(doc content.Document) string {
	for _, key := range []string{"id", "_id"} {
		if raw, ok := doc[key]; ok && raw != nil {
			switch typed := raw.(type) {
			case string:
				return typed
			case float64:
				if typed == float64(int64(typed)) {
					return fmt.Sprintf("%d", int64(typed))
				}
				return fmt.Sprint(typed)
			default:
				return fmt.Sprint(typed)
			}
		}
	}
	// Writes may wrap the stored record in a doc envelope.
	if inner, ok := doc["doc"].(map[string]any); ok {
		return documentID(inner)
	}
	return ""
}
