package server

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/olehluchkiv/classdiag/internal/analyzer"
	"github.com/olehluchkiv/classdiag/internal/diagram"
	"github.com/olehluchkiv/classdiag/internal/diagram/split"
	"github.com/olehluchkiv/classdiag/internal/lang"
	"github.com/olehluchkiv/classdiag/internal/uml"
)

// diagramRequest is the POST /api/diagram payload. Files are decoded one by
// one so malformed items can be skipped instead of failing the request.
type diagramRequest struct {
	Language    string            `json:"language"`
	Files       []json.RawMessage `json:"files"`
	HidePrivate bool              `json:"hidePrivate,omitempty"`
	NamePrefix  string            `json:"namePrefix,omitempty"`
	Focus       []string          `json:"focus,omitempty"`
	Depth       *int              `json:"depth,omitempty"`
	MaxNodes    int               `json:"maxNodes,omitempty"`
	Slides      bool              `json:"slides,omitempty"`
}

type diagramResponse struct {
	Mermaid  string          `json:"mermaid"`
	Entities []uml.Entity    `json:"entities"`
	Stats    uml.Stats       `json:"stats"`
	Slides   []diagram.Slide `json:"slides,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// normalizedRequest is what a response depends on; its hash is the cache key.
type normalizedRequest struct {
	Language lang.Language           `json:"language"`
	Units    []uml.SourceUnit        `json:"units"`
	Options  analyzer.AnalyzeOptions `json:"options"`
	Slides   bool                    `json:"slides"`
}

func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()
	logger := s.logger.With("request_id", requestID)
	w.Header().Set("X-Request-ID", requestID)

	var req diagramRequest
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn("request body too large", "limit", tooLarge.Limit)
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return
		}
		logger.Warn("invalid request body", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Files == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "files payload missing"})
		return
	}

	language := s.opts.DefaultLanguage
	if req.Language != "" {
		l, err := lang.Parse(req.Language)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		language = l
	}

	norm := normalizedRequest{
		Language: language,
		Units:    decodeUnits(req.Files, language),
		Options: analyzer.AnalyzeOptions{
			Filter:   analyzer.FilterOptions{HidePrivate: req.HidePrivate, NamePrefix: req.NamePrefix},
			Focus:    req.Focus,
			Depth:    -1,
			MaxNodes: max(req.MaxNodes, 0),
		},
		Slides: req.Slides,
	}
	if req.Depth != nil {
		norm.Options.Depth = *req.Depth
	}

	key := cacheKey(norm)
	if resp, ok := s.cache.Get(key); ok {
		logger.Debug("cache hit", "units", len(norm.Units))
		writeJSON(w, http.StatusOK, resp)
		return
	}

	res, err := analyzer.Analyze(language, norm.Units, norm.Options, logger)
	if err != nil {
		logger.Error("diagram generation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: analyzer.ErrExtraction.Error()})
		return
	}

	resp := diagramResponse{
		Mermaid:  res.Document.Text,
		Entities: res.Document.Entities,
		Stats:    res.Stats,
	}
	if norm.Slides {
		resp.Slides = diagram.BuildSlides(res.Document.Entities, norm.Options.Diagram,
			split.NewHubAndSpoke(split.DefaultOptions()), diagram.DefaultSlideOptions())
	}
	s.cache.Add(key, resp)
	logger.Info("diagram generated", "language", string(language), "units", len(norm.Units), "entities", len(resp.Entities))
	writeJSON(w, http.StatusOK, resp)
}

// decodeUnits keeps the items whose name and content are both strings.
// Blank names get the language's default file name.
func decodeUnits(raw []json.RawMessage, language lang.Language) []uml.SourceUnit {
	units := make([]uml.SourceUnit, 0, len(raw))
	for _, item := range raw {
		var fields map[string]any
		if err := json.Unmarshal(item, &fields); err != nil {
			continue
		}
		name, okName := fields["name"].(string)
		content, okContent := fields["content"].(string)
		if !okName || !okContent {
			continue
		}
		if name = strings.TrimSpace(name); name == "" {
			name = lang.DefaultUnitName(language, "")
		}
		units = append(units, uml.SourceUnit{Name: name, Content: content})
	}
	return units
}

func cacheKey(req normalizedRequest) string {
	data, _ := json.Marshal(req)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Warn("failed to encode response", "error", err)
	}
}
