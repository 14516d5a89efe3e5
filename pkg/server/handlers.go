package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/goliatone/go-adminforms/pkg/content"
	"github.com/goliatone/go-adminforms/pkg/editor"
	"github.com/goliatone/go-adminforms/pkg/forms"
	"github.com/goliatone/go-adminforms/pkg/formstate"
)

type formHandlers struct {
	deps Dependencies
}

func (h *formHandlers) newForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, chi.URLParam(r, "collection"), "")
}

func (h *formHandlers) editForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, chi.URLParam(r, "collection"), chi.URLParam(r, "id"))
}

func (h *formHandlers) renderForm(w http.ResponseWriter, r *http.Request, collection, recordID string) {
	session, err := h.openSession(r, collection, recordID)
	if err != nil {
		h.loadFailure(w, collection, recordID, err)
		return
	}
	h.writeForm(w, r, session, http.StatusOK)
}

// submit decodes the posted form back into state. Row actions re-render the
// form with the changed rows; a real submit writes through the document API
// and redirects to the stored record on success.
func (h *formHandlers) submit(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	recordID := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form submission", http.StatusBadRequest)
		return
	}

	session, err := h.openSession(r, collection, recordID)
	if err != nil {
		h.loadFailure(w, collection, recordID, err)
		return
	}

	state, err := formstate.Decode(session.View().Fields, r.PostForm)
	if err != nil {
		http.Error(w, "could not decode form values", http.StatusBadRequest)
		return
	}
	session.ReplaceState(state)

	if action := r.PostForm.Get("_action"); action != "" {
		h.rowAction(w, r, session, action)
		return
	}

	err = session.Submit(r.Context())
	switch {
	case err == nil:
		target := "/admin/" + collection + "/" + recordID
		if recordID == "" {
			target = "/admin/" + collection + "/" + session.SavedID()
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
	case errors.Is(err, editor.ErrValidation):
		h.writeForm(w, r, session, http.StatusUnprocessableEntity)
	default:
		var apiErr *content.APIError
		if errors.As(err, &apiErr) {
			h.writeForm(w, r, session, http.StatusUnprocessableEntity)
			return
		}
		h.deps.Logger.Error("submit failed",
			zap.String("collection", collection),
			zap.String("record", recordID),
			zap.Error(err))
		h.writeForm(w, r, session, http.StatusBadGateway)
	}
}

// rowAction applies "row:add:<path>" / "row:remove:<path>.<idx>" and
// re-renders the form without persisting anything.
func (h *formHandlers) rowAction(w http.ResponseWriter, r *http.Request, session *editor.Session, action string) {
	switch {
	case strings.HasPrefix(action, "row:add:"):
		path := strings.TrimPrefix(action, "row:add:")
		if err := session.AppendRow(path); err != nil {
			http.Error(w, "invalid row target", http.StatusBadRequest)
			return
		}
	case strings.HasPrefix(action, "row:remove:"):
		target := strings.TrimPrefix(action, "row:remove:")
		dot := strings.LastIndex(target, ".")
		if dot <= 0 {
			http.Error(w, "invalid row target", http.StatusBadRequest)
			return
		}
		index, err := strconv.Atoi(target[dot+1:])
		if err != nil {
			http.Error(w, "invalid row index", http.StatusBadRequest)
			return
		}
		if err := session.RemoveRow(target[:dot], index); err != nil {
			http.Error(w, "invalid row target", http.StatusBadRequest)
			return
		}
	default:
		http.Error(w, "unknown form action", http.StatusBadRequest)
		return
	}
	h.writeForm(w, r, session, http.StatusOK)
}

func (h *formHandlers) openSession(r *http.Request, collection, recordID string) (*editor.Session, error) {
	options := []editor.Option{editor.WithLogger(h.deps.Logger)}
	if h.deps.Layouts != nil {
		options = append(options, editor.WithLayoutResolver(h.deps.Layouts))
	}
	session, err := editor.NewSession(h.deps.API, collection, recordID, h.locale(r), options...)
	if err != nil {
		return nil, err
	}
	if err := session.Load(r.Context()); err != nil {
		return nil, err
	}
	if session.Status() != editor.StatusReady {
		// Covers cancellation mid-load; the client went away.
		if err := r.Context().Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("server: session did not become ready")
	}
	return session, nil
}

func (h *formHandlers) writeForm(w http.ResponseWriter, r *http.Request, session *editor.Session, status int) {
	view := session.View()
	options := forms.RenderOptions{Theme: h.deps.Theme}
	if view.EditMode() {
		options.Action = "/admin/" + view.Collection + "/" + view.RecordID
		options.Method = http.MethodPatch
	} else {
		options.Action = "/admin/" + view.Collection
		options.Method = http.MethodPost
	}
	options.CancelURL = "/admin/" + view.Collection

	page, err := h.deps.Renderer.Render(r.Context(), view, options)
	if err != nil {
		h.deps.Logger.Error("render failed",
			zap.String("collection", view.Collection),
			zap.Error(err))
		http.Error(w, "could not render form", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", h.deps.Renderer.ContentType())
	w.WriteHeader(status)
	w.Write(page)
}

func (h *formHandlers) loadFailure(w http.ResponseWriter, collection, recordID string, err error) {
	h.deps.Logger.Warn("form load failed",
		zap.String("collection", collection),
		zap.String("record", recordID),
		zap.Error(err))
	var apiErr *content.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	http.Error(w, "could not load form", http.StatusBadGateway)
}

func (h *formHandlers) locale(r *http.Request) string {
	if locale := r.URL.Query().Get("locale"); locale != "" {
		return locale
	}
	return h.deps.DefaultLocale
}
