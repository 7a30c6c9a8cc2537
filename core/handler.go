package core

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/segmentio/encoding/json"
)

const (
	ViewMain   = "main"
	ViewQuiz   = "quiz"
	ViewResult = "result"

	landingCacheKey = ""
)

// Handler turns requests into view contexts. It keeps no per-request state.
type Handler struct {
	config   Config
	env      string
	renderer Renderer
	started  time.Time
}

func NewHandler(config Config, env string, renderer Renderer) *Handler {
	return &Handler{
		config:   config,
		env:      env,
		renderer: renderer,
		started:  time.Now(),
	}
}

// Landing renders the main view. Its context is always empty, so with
// caching enabled the first render is stored and reused.
func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	if h.config.CacheEnabled {
		if cached, ok := GetCachedHTML(h.config, landingCacheKey); ok {
			h.write(w, r, ViewMain, cached)
			return
		}
	}

	body, ok := h.render(w, r, ViewMain, ViewContext{})
	if !ok {
		return
	}

	if h.config.CacheEnabled {
		if err := SaveCachedHTML(h.config, landingCacheKey, body); err != nil {
			WithContext(r.Context()).WithError(err).Warn("could not cache landing page")
		}
	}

	h.write(w, r, ViewMain, body)
}

// Quiz is the link navigation entry: /quiz?cat=...&level=...
func (h *Handler) Quiz(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.renderQuiz(w, r, firstValue(q, "cat"), firstValue(q, "level"))
}

// StartQuiz is the form submission entry. Only the body is read; malformed
// pairs are dropped and the valid ones kept, so an unreadable body counts
// as an empty form.
func (h *Handler) StartQuiz(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		WithContext(r.Context()).WithError(err).Debug("form parsed with errors")
	}
	h.renderQuiz(w, r, firstValue(r.PostForm, "category"), firstValue(r.PostForm, "difficulty"))
}

func (h *Handler) Result(w http.ResponseWriter, r *http.Request) {
	data := ViewContext{"score": ScoreOrDefault(r.URL.Query().Get("score"))}

	if body, ok := h.render(w, r, ViewResult, data); ok {
		h.write(w, r, ViewResult, body)
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	payload := map[string]interface{}{
		"status": "ok",
		"env":    h.env,
		"uptime": time.Since(h.started).Round(time.Second).String(),
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		WithContext(r.Context()).WithError(err).Warn("could not write health response")
	}
}

func (h *Handler) renderQuiz(w http.ResponseWriter, r *http.Request, category, difficulty interface{}) {
	data := ViewContext{
		"category":   category,
		"difficulty": difficulty,
	}

	if body, ok := h.render(w, r, ViewQuiz, data); ok {
		h.write(w, r, ViewQuiz, body)
	}
}

// render executes the view into memory so a failing template never leaves a
// half written page behind.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, view string, data ViewContext) ([]byte, bool) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, view, data); err != nil {
		WithContext(r.Context()).WithError(err).WithField("view", view).Error("render failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return nil, false
	}
	return buf.Bytes(), true
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, view string, body []byte) {
	etag := generateETag(body)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", etag)
	if h.config.DebugHeaders {
		w.Header().Set("X-Quiz-View", view)
	}

	if r.Method == http.MethodGet && etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// ScoreOrDefault keeps a non-empty score as sent and substitutes 0 otherwise.
func ScoreOrDefault(score string) interface{} {
	if score == "" {
		return 0
	}
	return score
}

// firstValue returns nil when key is absent so views can tell "not sent"
// apart from "sent empty".
func firstValue(values url.Values, key string) interface{} {
	v, ok := values[key]
	if !ok || len(v) == 0 {
		return nil
	}
	return v[0]
}

func generateETag(body []byte) string {
	sum := md5.Sum(body)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
