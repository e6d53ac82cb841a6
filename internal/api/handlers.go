package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/yanizio/layoutkit/internal/engine"
	"github.com/yanizio/layoutkit/internal/layout"
)

/*──────────────────────────── request bodies ───────────────────────────────*/

// themeOverride mirrors layout.Theme with input checks.
type themeOverride struct {
	PrimaryColor    string `json:"primaryColor"    validate:"omitempty,iscolor"`
	SecondaryColor  string `json:"secondaryColor"  validate:"omitempty,iscolor"`
	BackgroundColor string `json:"backgroundColor" validate:"omitempty,iscolor"`
	TextColor       string `json:"textColor"       validate:"omitempty,iscolor"`
	FontFamily      string `json:"fontFamily"      validate:"omitempty,max=128"`
	BorderRadius    string `json:"borderRadius"    validate:"omitempty,max=32"`
}

func (o themeOverride) theme() layout.Theme {
	return layout.Theme{
		PrimaryColor:    o.PrimaryColor,
		SecondaryColor:  o.SecondaryColor,
		BackgroundColor: o.BackgroundColor,
		TextColor:       o.TextColor,
		FontFamily:      o.FontFamily,
		BorderRadius:    o.BorderRadius,
	}
}

// processRequest is the body of POST /api/templates/{id}/process.  With
// Strict set, variable problems reject the request instead of being
// returned as warnings.
type processRequest struct {
	Variables map[string]any `json:"variables"`
	Theme     *themeOverride `json:"theme"`
	Strict    bool           `json:"strict"`
}

type processResponse struct {
	Template *layout.Template `json:"template"`
	Warnings []string         `json:"warnings"`
}

type widgetKind struct {
	Kind     string `json:"kind"`
	Renderer string `json:"renderer"`
}

/*──────────────────────────── templates ────────────────────────────────────*/

func (s *Server) listTemplates(w http.ResponseWriter, r *http.Request) {
	eng := s.cat.Engine()
	c := r.URL.Query().Get("category")
	if c == "" {
		writeJSON(w, http.StatusOK, nonNil(eng.All()))
		return
	}
	cat := layout.Category(c)
	if !cat.Valid() {
		writeErrorWithField(w, r, http.StatusBadRequest, CodeInvalidParam,
			fmt.Sprintf("unknown category %q", c), "category")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(eng.ByCategory(cat)))
}

func (s *Server) getTemplate(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) putTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var t layout.Template
	if !s.decode(w, r, &t, false) {
		return
	}
	if t.ID == "" {
		t.ID = id
	}
	if t.ID != id {
		writeErrorWithField(w, r, http.StatusBadRequest, CodeInvalidParam,
			fmt.Sprintf("body id %q does not match path id %q", t.ID, id), "id")
		return
	}

	if res := s.cat.Engine().Validate(&t); !res.Valid {
		writeErrorList(w, r, http.StatusUnprocessableEntity, CodeValidationFailed,
			"template is not valid", res.Errors)
		return
	}

	_, existed := s.cat.Engine().Get(id)
	if err := s.cat.Put(r.Context(), &t); err != nil {
		s.log.Errorw("template save failed", "id", id, "err", err)
		writeError(w, r, http.StatusInternalServerError, CodeStoreError, "could not save template")
		return
	}
	status := http.StatusCreated
	if existed {
		status = http.StatusOK
	}
	writeJSON(w, status, &t)
}

func (s *Server) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	found, err := s.cat.Remove(r.Context(), id)
	if err != nil {
		s.log.Errorw("template delete failed", "id", id, "err", err)
		writeError(w, r, http.StatusInternalServerError, CodeStoreError, "could not delete template")
		return
	}
	if !found {
		writeError(w, r, http.StatusNotFound, CodeNotFound, fmt.Sprintf("template %q not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/*──────────────────────────── processing ───────────────────────────────────*/

func (s *Server) processTemplate(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req processRequest
	if !s.decode(w, r, &req, true) {
		return
	}
	if req.Theme != nil {
		if err := s.validate.Struct(req.Theme); err != nil {
			s.validationError(w, r, err, "theme")
			return
		}
	}

	vars := s.sanitizeVars(req.Variables)
	eng := s.cat.Engine()

	warnings := eng.CheckVariables(t, vars)
	if req.Strict && len(warnings) > 0 {
		writeErrorList(w, r, http.StatusUnprocessableEntity, CodeValidationFailed,
			"variables are not valid", warnings)
		return
	}

	out := eng.Process(t, vars)
	if req.Theme != nil {
		out = eng.ApplyTheme(out, req.Theme.theme())
	}
	writeJSON(w, http.StatusOK, processResponse{Template: out, Warnings: warnings})
}

/*──────────────────────────── validation ───────────────────────────────────*/

func (s *Server) validateTemplate(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.cat.Engine().Validate(t))
}

func (s *Server) validateDraft(w http.ResponseWriter, r *http.Request) {
	var t layout.Template
	if !s.decode(w, r, &t, false) {
		return
	}
	writeJSON(w, http.StatusOK, s.cat.Engine().Validate(&t))
}

/*──────────────────────────── widgets ──────────────────────────────────────*/

func (s *Server) listWidgets(w http.ResponseWriter, _ *http.Request) {
	all := s.kinds.All()
	out := make([]widgetKind, 0, len(all))
	for _, k := range s.kinds.Kinds() {
		if impl, ok := all[k]; ok {
			out = append(out, widgetKind{Kind: k, Renderer: impl})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

/*──────────────────────────── helpers ──────────────────────────────────────*/

// lookup resolves {id} through the catalog, writing the error reply on
// failure.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*layout.Template, bool) {
	id := chi.URLParam(r, "id")
	t, err := s.cat.Get(r.Context(), id)
	switch {
	case errors.Is(err, engine.ErrNotFound):
		writeError(w, r, http.StatusNotFound, CodeNotFound, fmt.Sprintf("template %q not found", id))
		return nil, false
	case err != nil:
		s.log.Errorw("template lookup failed", "id", id, "err", err)
		writeError(w, r, http.StatusInternalServerError, CodeStoreError, "could not load template")
		return nil, false
	}
	return t, true
}

// decode reads a size-capped JSON body into dst.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any, strict bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(dst); err != nil {
		writeErrorResponse(w, r, ErrorResponse{
			Code:    CodeInvalidBody,
			Message: "request body is not valid JSON for this endpoint",
			Status:  http.StatusBadRequest,
			Errors:  []string{err.Error()},
		})
		return false
	}
	return true
}

func (s *Server) validationError(w http.ResponseWriter, r *http.Request, err error, prefix string) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		writeError(w, r, http.StatusBadRequest, CodeInvalidBody, err.Error())
		return
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s.%s fails %q", prefix, fe.Field(), fe.Tag()))
	}
	writeErrorList(w, r, http.StatusUnprocessableEntity, CodeValidationFailed, "request is not valid", msgs)
}

// sanitizeVars strips markup from every string in vars, descending into
// lists and objects.  Text stays unescaped; escaping is the renderer's
// job.  The input map is not modified.
func (s *Server) sanitizeVars(vars map[string]any) map[string]any {
	if vars == nil {
		return nil
	}
	out := make(map[string]any, len(vars))
	for k, v := range vars {
		out[k] = s.sanitizeValue(v)
	}
	return out
}

func (s *Server) sanitizeValue(v any) any {
	switch x := v.(type) {
	case string:
		return html.UnescapeString(s.policy.Sanitize(x))
	case []any:
		cp := make([]any, len(x))
		for i, e := range x {
			cp[i] = s.sanitizeValue(e)
		}
		return cp
	case map[string]any:
		return s.sanitizeVars(x)
	default:
		return v
	}
}

func nonNil(ts []*layout.Template) []*layout.Template {
	if ts == nil {
		return []*layout.Template{}
	}
	return ts
}
