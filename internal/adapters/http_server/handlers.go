// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"appinsight/internal/app"
	"appinsight/internal/domain"
	"appinsight/internal/reply"
)

// Sessions is what the handlers need from the session layer.
type Sessions interface {
	Create(ctx context.Context, raw, country string) (app.SessionSummary, error)
	Reacquire(ctx context.Context, id, raw, country string) (app.SessionSummary, error)
	Delete(id string) error
	Get(id string) (app.SessionSummary, error)
	Analysis(id string, v app.View) (app.Report, error)
	Reviews(id string, v app.View) ([]app.ReviewView, error)
	Reply(id string, index int, v app.View) (reply.Suggestion, error)
}

type Handlers struct {
	S Sessions
	// AcquirePerMin limits session creation and re-acquisition per client
	// IP; zero disables the limit.
	AcquirePerMin int
	// DefaultLang applies when neither ?lang nor Accept-Language is given.
	DefaultLang domain.Language
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type acquireRequest struct {
	URL     string `json:"url" validate:"required,max=2048"`
	Country string `json:"country" validate:"omitempty,len=2,alpha"`
	Lang    string `json:"lang" validate:"omitempty,max=16"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1/sessions", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if h.AcquirePerMin > 0 {
				r.Use(httprate.LimitByIP(h.AcquirePerMin, time.Minute))
			}
			r.Post("/", h.createSession)
			r.Put("/{id}", h.reacquireSession)
		})
		r.Get("/{id}", h.getSession)
		r.Delete("/{id}", h.deleteSession)
		r.Get("/{id}/analysis", h.getAnalysis)
		r.Get("/{id}/reviews", h.listReviews)
		r.Get("/{id}/reviews/{index}/reply", h.getReply)
	})
}

func (h *Handlers) lang(r *http.Request, explicit string) domain.Language {
	for _, s := range []string{explicit, r.URL.Query().Get("lang"), r.Header.Get("Accept-Language")} {
		if strings.TrimSpace(s) != "" {
			return domain.ParseLanguage(s)
		}
	}
	if h.DefaultLang != "" {
		return h.DefaultLang
	}
	return domain.LangEN
}

func (h *Handlers) view(r *http.Request) app.View {
	q := r.URL.Query()
	return app.View{
		Lang:   h.lang(r, ""),
		Tone:   reply.ParseTone(q.Get("tone")),
		Preset: q.Get("range"),
		Start:  q.Get("start"),
		End:    q.Get("end"),
	}
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps service errors to problems. Acquisition failures always
// carry the same localized message; relay details stay in the logs.
func writeError(w http.ResponseWriter, err error, lang domain.Language, acquiring bool) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "session not found")
	case errors.Is(err, app.ErrReviewNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "review not found")
	case errors.Is(err, app.ErrSuperseded):
		writeProblem(w, http.StatusConflict, "Conflict", "a newer acquisition replaced this one")
	case errors.Is(err, domain.ErrAppNotFound):
		writeProblem(w, http.StatusNotFound, "App Not Found", domain.PublicMessage(lang))
	case errors.Is(err, domain.ErrRelayExhausted):
		writeProblem(w, http.StatusBadGateway, "Upstream Unavailable", domain.PublicMessage(lang))
	case errors.Is(err, domain.ErrInvalidInput) && acquiring:
		writeProblem(w, http.StatusBadRequest, "Invalid Input", domain.PublicMessage(lang))
	case errors.Is(err, domain.ErrInvalidInput):
		writeProblem(w, http.StatusBadRequest, "Invalid Input", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeProblem(w, http.StatusGatewayTimeout, "Timeout", domain.PublicMessage(lang))
	default:
		log.Error().Err(err).Msg("unhandled service error")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", domain.PublicMessage(lang))
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any, withETag bool) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if withETag && etag != "" {
		if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
			w.Header().Set("ETag", etag)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func (h *Handlers) decodeAcquire(w http.ResponseWriter, r *http.Request, urlRequired bool) (acquireRequest, bool) {
	var req acquireRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "body must be a JSON object")
		return req, false
	}
	err := validate.Struct(req)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && !urlRequired {
		// an empty url on re-acquisition reuses the session's link
		kept := verrs[:0]
		for _, fe := range verrs {
			if fe.Field() != "URL" || fe.Tag() != "required" {
				kept = append(kept, fe)
			}
		}
		if len(kept) == 0 {
			err = nil
		}
	}
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return req, false
	}
	return req, true
}

func (h *Handlers) createSession(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAcquire(w, r, true)
	if !ok {
		return
	}
	lang := h.lang(r, req.Lang)
	sum, err := h.S.Create(r.Context(), req.URL, req.Country)
	if err != nil {
		writeError(w, err, lang, true)
		return
	}
	w.Header().Set("Location", "/v1/sessions/"+sum.ID)
	writeJSON(w, r, http.StatusCreated, sum, false)
}

func (h *Handlers) reacquireSession(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAcquire(w, r, false)
	if !ok {
		return
	}
	lang := h.lang(r, req.Lang)
	sum, err := h.S.Reacquire(r.Context(), chi.URLParam(r, "id"), req.URL, req.Country)
	if err != nil {
		writeError(w, err, lang, true)
		return
	}
	writeJSON(w, r, http.StatusOK, sum, false)
}

func (h *Handlers) getSession(w http.ResponseWriter, r *http.Request) {
	sum, err := h.S.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err, h.lang(r, ""), false)
		return
	}
	writeJSON(w, r, http.StatusOK, sum, true)
}

func (h *Handlers) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.S.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, err, h.lang(r, ""), false)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) getAnalysis(w http.ResponseWriter, r *http.Request) {
	v := h.view(r)
	rep, err := h.S.Analysis(chi.URLParam(r, "id"), v)
	if err != nil {
		writeError(w, err, v.Lang, false)
		return
	}
	w.Header().Set("Content-Language", string(rep.Language))
	writeJSON(w, r, http.StatusOK, rep, true)
}

type reviewsPage struct {
	Count int              `json:"count"`
	Items []app.ReviewView `json:"items"`
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	v := h.view(r)
	items, err := h.S.Reviews(chi.URLParam(r, "id"), v)
	if err != nil {
		writeError(w, err, v.Lang, false)
		return
	}
	w.Header().Set("Content-Language", string(v.Lang))
	writeJSON(w, r, http.StatusOK, reviewsPage{Count: len(items), Items: items}, true)
}

func (h *Handlers) getReply(w http.ResponseWriter, r *http.Request) {
	v := h.view(r)
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || idx < 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid Index", "index must be a non-negative integer")
		return
	}
	s, err := h.S.Reply(chi.URLParam(r, "id"), idx, v)
	if err != nil {
		writeError(w, err, v.Lang, false)
		return
	}
	writeJSON(w, r, http.StatusOK, s, false)
}
