// Copyright 2025 Docsift Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/docsift/docsift/core"
	"github.com/docsift/docsift/highlight"
	"github.com/docsift/docsift/index"
	"github.com/docsift/docsift/ingest"
	"github.com/docsift/docsift/service"
	"github.com/docsift/docsift/storage"
)

// maxUploadBytes caps multipart uploads at 32 MiB.
const maxUploadBytes = 32 << 20

// Server serves the document search HTTP API.
type Server struct {
	svc      *service.SearchService
	pipeline *ingest.Pipeline
	repo     storage.DocumentRepository
	idx      *index.Index
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewServer creates an HTTP server over the given search components.
func NewServer(svc *service.SearchService, pipeline *ingest.Pipeline, repo storage.DocumentRepository, idx *index.Index, opts ...Option) (*Server, error) {
	if svc == nil {
		return nil, errors.New("search service required")
	}

	s := &Server{
		svc:      svc,
		pipeline: pipeline,
		repo:     repo,
		idx:      idx,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

type uploadResponse struct {
	Status           string `json:"status"`
	DocLength        int    `json:"doc_length"`
	UniqueTerms      int    `json:"unique_terms"`
	Text             string `json:"text,omitempty"`
	ExtractionStatus string `json:"extraction_status,omitempty"`
}

// HandleUpload loads a document for interactive search.
// The document is persisted, added to the corpus index, and becomes the
// active document for /search and /search/render.
func (s *Server) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "form field 'file' is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read uploaded file")
		return
	}

	doc, err := s.pipeline.Ingest(r.Context(), header.Filename, data)
	if err != nil {
		// A rejected upload leaves no active document.
		s.svc.ClearDocument()
		status, detail := uploadErrorDetail(err)
		s.logger.Warn("upload rejected", "filename", header.Filename, "err", err)
		writeError(w, status, detail)
		return
	}

	s.svc.SetDocument(doc)

	writeJSON(w, http.StatusOK, uploadResponse{
		Status:           "loaded",
		DocLength:        doc.DocLength,
		UniqueTerms:      doc.UniqueTerms,
		Text:             doc.Text,
		ExtractionStatus: extractionStatus(doc.ContentType),
	})
}

func extractionStatus(contentType string) string {
	switch contentType {
	case "docx":
		return "Extracted text from Word document"
	default:
		return "Plain text loaded"
	}
}

func uploadErrorDetail(err error) (int, string) {
	var unsupported *ingest.UnsupportedFormatError
	switch {
	case errors.As(err, &unsupported):
		return http.StatusBadRequest, fmt.Sprintf("Unsupported file type: .%s. Supported: .txt, .docx", unsupported.Format)
	case errors.Is(err, ingest.ErrEmptyDocument):
		return http.StatusBadRequest, "Document is empty or contains no extractable text."
	case errors.Is(err, ingest.ErrUndecodableText):
		return http.StatusBadRequest, "Unable to decode text file. Please ensure it is saved with UTF-8 encoding."
	case errors.Is(err, ingest.ErrNotDocx):
		return http.StatusBadRequest, "Unable to extract text from this Word file. Please upload a valid .docx."
	default:
		return http.StatusInternalServerError, "Error processing file"
	}
}

// HandleSearch searches within the active document.
// Returns matches with character positions for highlighting.
func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	result, err := s.svc.Search(r.URL.Query().Get("q"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoDocument):
			writeError(w, http.StatusBadRequest, "No document uploaded. Please upload a document first.")
		case errors.Is(err, service.ErrEmptyQuery):
			writeError(w, http.StatusBadRequest, "Query 'q' must be non-empty")
		default:
			writeError(w, http.StatusInternalServerError, "search failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type renderResponse struct {
	Query        string `json:"query"`
	HTML         string `json:"html"`
	TotalMatches int    `json:"total_matches"`
	Fallback     bool   `json:"fallback"`
}

// HandleRender searches the active document and returns highlighted
// HTML markup. When position search yields nothing usable, a
// case-insensitive fallback scan produces the highlights instead.
func (s *Server) HandleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query().Get("q")
	result, text, err := s.svc.SearchText(q)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoDocument):
			writeError(w, http.StatusBadRequest, "No document uploaded. Please upload a document first.")
		case errors.Is(err, service.ErrEmptyQuery):
			writeError(w, http.StatusBadRequest, "Query 'q' must be non-empty")
		default:
			writeError(w, http.StatusInternalServerError, "search failed")
		}
		return
	}

	ranges := highlight.BuildRanges(text, result.Matches)
	fallback := false
	if len(ranges) == 0 && len(result.Matches) > 0 {
		ranges = highlight.FallbackRanges(text, q)
		fallback = true
	}
	markup := highlight.RenderHTML(text, highlight.Merge(ranges))

	writeJSON(w, http.StatusOK, renderResponse{
		Query:        q,
		HTML:         markup,
		TotalMatches: result.TotalMatches,
		Fallback:     fallback,
	})
}

// HandleStats reports aggregate search statistics.
func (s *Server) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Stats())
}

// HandleHealth is the health check endpoint.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"index_size": s.idx.Size(),
	})
}

type corpusResultItem struct {
	Id      string  `json:"id"`
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
	Type    string  `json:"type"`
}

type corpusSearchResponse struct {
	Results       []corpusResultItem `json:"results"`
	TotalResults  int                `json:"totalResults"`
	Page          int                `json:"page"`
	ExecutionTime float64            `json:"executionTime"`
}

// HandleCorpusSearch runs a ranked search over all ingested documents.
// Results are paginated via the page and limit query parameters.
func (s *Server) HandleCorpusSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		writeError(w, http.StatusBadRequest, "Query 'q' must be non-empty")
		return
	}

	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := queryInt(r, "limit", 10)
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	start := time.Now()
	ranked := s.idx.Search(q)

	total := len(ranked)
	startIdx := (page - 1) * limit
	endIdx := startIdx + limit
	if startIdx > total {
		startIdx = total
	}
	if endIdx > total {
		endIdx = total
	}
	pageRanked := ranked[startIdx:endIdx]

	ids := make([]core.ID, len(pageRanked))
	for i, rd := range pageRanked {
		ids[i] = rd.DocId
	}
	docs, err := s.repo.GetDocuments(r.Context(), ids...)
	if err != nil {
		s.logger.Error("corpus search document fetch failed", "err", err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	byID := make(map[core.ID]*core.Document, len(docs))
	for _, doc := range docs {
		byID[doc.Id] = doc
	}

	results := make([]corpusResultItem, 0, len(pageRanked))
	for _, rd := range pageRanked {
		doc, ok := byID[rd.DocId]
		if !ok {
			continue
		}
		results = append(results, corpusResultItem{
			Id:      strconv.FormatUint(uint64(rd.DocId), 10),
			Title:   documentTitle(doc),
			URL:     fmt.Sprintf("/document/%d", rd.DocId),
			Snippet: extractSnippet(doc.Text, q),
			Score:   rd.Score,
			Type:    documentType(doc),
		})
	}

	writeJSON(w, http.StatusOK, corpusSearchResponse{
		Results:       results,
		TotalResults:  total,
		Page:          page,
		ExecutionTime: float64(time.Since(start)) / float64(time.Millisecond),
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func documentTitle(doc *core.Document) string {
	line, _, _ := strings.Cut(doc.Text, "\n")
	if title := strings.TrimSpace(line); title != "" {
		return title
	}
	if doc.Name != "" {
		return doc.Name
	}
	return fmt.Sprintf("Document %d", doc.Id)
}

func documentType(doc *core.Document) string {
	if doc.ContentType == "docx" {
		return "doc"
	}
	return "article"
}

// Router returns the HTTP handler with all routes registered.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/upload", s.HandleUpload)
	mux.HandleFunc("/search", s.HandleSearch)
	mux.HandleFunc("/search/render", s.HandleRender)
	mux.HandleFunc("/stats", s.HandleStats)
	mux.HandleFunc("/api/health", s.HandleHealth)
	mux.HandleFunc("/api/search", s.HandleCorpusSearch)
	return mux
}

// Start listens on addr and serves the API until the listener fails.
func (s *Server) Start(addr string) error {
	s.logger.Info("API server listening", "addr", addr)
	return http.ListenAndServe(addr, s.Router())
}
