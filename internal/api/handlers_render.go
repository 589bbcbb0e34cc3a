package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/markdoc/internal/chunker"
	"github.com/dgallion1/markdoc/internal/doctree"
	"github.com/dgallion1/markdoc/internal/parser"
	"github.com/dgallion1/markdoc/internal/pipeline"
	"github.com/dgallion1/markdoc/internal/render"
	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5/middleware"
)

// httpFormats are the render formats served over HTTP. The term format is
// left to the CLI.
var httpFormats = map[string]bool{"html": true, "text": true, "json": true}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readText(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":       pipeline.ContentHashHex([]byte(text))[:16],
		"document": s.parse(text),
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format, ok := requestFormat(w, r.URL.Query().Get("format"))
	if !ok {
		return
	}
	text, ok := s.readText(w, r)
	if !ok {
		return
	}

	hash := pipeline.ContentHashHex([]byte(text))
	etag := `"` + hash + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	key := pipeline.CacheKey(hash, format)
	out, hit := s.cache.Get(key)
	if !hit {
		renderer, err := render.ForFormat(format, render.Options{})
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		var buf bytes.Buffer
		if err := renderer.Render(&buf, s.parse(text)); err != nil {
			s.log.Error("render failed", "format", format, "error", err)
			jsonError(w, "render failed", http.StatusInternalServerError)
			return
		}
		out = buf.Bytes()
		s.cache.Put(key, out)
	}

	w.Header().Set("Content-Type", render.ContentType(format))
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.Write(out)
}

type batchRequest struct {
	Format    string           `json:"format"`
	Documents []pipeline.Input `json:"documents"`
}

func (s *Server) handleRenderBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !s.decodeJSON(w, r, s.cfg.MaxUploadBytes, &req) {
		return
	}
	format, ok := requestFormat(w, req.Format)
	if !ok {
		return
	}
	if len(req.Documents) == 0 {
		jsonError(w, "at least one document is required", http.StatusBadRequest)
		return
	}
	if len(req.Documents) > s.cfg.MaxBatchDocuments {
		jsonError(w, fmt.Sprintf("too many documents: %d (max %d)", len(req.Documents), s.cfg.MaxBatchDocuments),
			http.StatusRequestEntityTooLarge)
		return
	}
	for i, d := range req.Documents {
		if int64(len(d.Text)) > s.cfg.MaxInputBytes {
			jsonError(w, fmt.Sprintf("document %d exceeds %s limit", i, humanize.IBytes(uint64(s.cfg.MaxInputBytes))),
				http.StatusRequestEntityTooLarge)
			return
		}
	}

	renderer, err := render.ForFormat(format, render.Options{})
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	batch := &pipeline.Batch{
		Renderer:    renderer,
		Concurrency: s.cfg.BatchConcurrency,
		Stats:       s.stats,
		Log:         s.log.With("request_id", middleware.GetReqID(r.Context())),
	}
	results, err := batch.Run(r.Context(), req.Documents)
	if err != nil {
		jsonError(w, "batch cancelled", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"format":  format,
		"results": results,
	})
}

type sectionsRequest struct {
	Text        string `json:"text"`
	SectionSize int    `json:"section_size"`
	Overlap     *int   `json:"overlap"`
}

func (s *Server) handleSections(w http.ResponseWriter, r *http.Request) {
	var req sectionsRequest
	if !s.decodeJSON(w, r, s.cfg.MaxInputBytes, &req) {
		return
	}

	cfg := chunker.Config{
		SectionSize: s.cfg.DefaultSectionSize,
		Overlap:     s.cfg.DefaultSectionOverlap,
		MinSize:     1,
	}
	if req.SectionSize > 0 {
		cfg.SectionSize = req.SectionSize
	}
	if req.Overlap != nil && *req.Overlap >= 0 {
		cfg.Overlap = *req.Overlap
	}

	sections := chunker.Sections(s.parse(req.Text), cfg)
	if sections == nil {
		sections = []doctree.Chunk{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"sections": sections})
}

// parse runs the markup engine and records its latency.
func (s *Server) parse(text string) *doctree.Document {
	if s.stats == nil {
		return parser.Parse(text)
	}
	var doc *doctree.Document
	s.stats.Time(func() { doc = parser.Parse(text) })
	return doc
}

func requestFormat(w http.ResponseWriter, format string) (string, bool) {
	format = strings.ToLower(format)
	if format == "" {
		format = "html"
	}
	if !httpFormats[format] {
		jsonError(w, fmt.Sprintf("unsupported format %q (want html, text or json)", format), http.StatusBadRequest)
		return "", false
	}
	return format, true
}

// readText returns the markup text of a request. JSON bodies carry it in a
// "text" field; any other content type is taken as the text itself.
func (s *Server) readText(w http.ResponseWriter, r *http.Request) (string, bool) {
	body, ok := s.readBody(w, r, s.cfg.MaxInputBytes)
	if !ok {
		return "", false
	}

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		var req struct {
			Text *string `json:"text"`
		}
		if err := json.Unmarshal(body, &req); err != nil || req.Text == nil {
			jsonError(w, `body must be {"text": "..."}`, http.StatusBadRequest)
			return "", false
		}
		return *req.Text, true
	}

	if !utf8.Valid(body) {
		jsonError(w, "body must be UTF-8 text", http.StatusBadRequest)
		return "", false
	}
	return string(body), true
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) bool {
	body, ok := s.readBody(w, r, limit)
	if !ok {
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		jsonError(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			tooLarge(w, limit)
			return nil, false
		}
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return nil, false
	}
	return body, true
}

func tooLarge(w http.ResponseWriter, limit int64) {
	jsonError(w, fmt.Sprintf("input exceeds %s limit", humanize.IBytes(uint64(limit))), http.StatusRequestEntityTooLarge)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
