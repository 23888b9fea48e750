// Package server implements the ScribeStore HTTP API
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/nainya/scribestore/internal/logger"
	"github.com/nainya/scribestore/internal/metrics"
	"github.com/nainya/scribestore/pkg/document"
	"github.com/nainya/scribestore/pkg/search"
	"github.com/nainya/scribestore/pkg/store"
)

// Server owns the in-memory document collection and serves the HTTP API.
// A single RWMutex serializes writers; document mutation methods are not
// safe for concurrent callers on their own.
type Server struct {
	mu    sync.RWMutex
	docs  map[string]*document.Document
	index *search.Index
	files *store.FileStore

	log         *logger.Logger
	met         *metrics.Metrics
	maxVersions int
}

// Options configures a Server.
type Options struct {
	Store       *store.FileStore
	Search      search.Config
	Logger      *logger.Logger
	Metrics     *metrics.Metrics
	MaxVersions int // history bound applied to newly created documents
}

// NewServer loads persisted documents and builds the API server.
func NewServer(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if opts.Logger == nil {
		opts.Logger = logger.GetGlobalLogger()
	}
	if opts.MaxVersions < 1 {
		opts.MaxVersions = document.DefaultMaxVersions
	}

	docs, err := opts.Store.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}

	idx := search.NewIndex(opts.Search)
	idx.SetDocuments(docs)

	s := &Server{
		docs:        docs,
		index:       idx,
		files:       opts.Store,
		log:         opts.Logger,
		met:         opts.Metrics,
		maxVersions: opts.MaxVersions,
	}
	s.updateCollectionStats()
	return s, nil
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/v1/documents", s.observe("create_document", s.handleCreateDocument)).Methods(http.MethodPost)
	r.HandleFunc("/v1/documents", s.observe("list_documents", s.handleListDocuments)).Methods(http.MethodGet)
	r.HandleFunc("/v1/documents/{id}", s.observe("get_document", s.handleGetDocument)).Methods(http.MethodGet)
	r.HandleFunc("/v1/documents/{id}", s.observe("delete_document", s.handleDeleteDocument)).Methods(http.MethodDelete)
	r.HandleFunc("/v1/documents/{id}/content", s.observe("update_content", s.handleUpdateContent)).Methods(http.MethodPut)
	r.HandleFunc("/v1/documents/{id}/versions", s.observe("list_versions", s.handleListVersions)).Methods(http.MethodGet)
	r.HandleFunc("/v1/documents/{id}/versions/{number}", s.observe("get_version", s.handleGetVersion)).Methods(http.MethodGet)
	r.HandleFunc("/v1/documents/{id}/restore", s.observe("restore_version", s.handleRestoreVersion)).Methods(http.MethodPost)

	r.HandleFunc("/v1/search/text", s.observe("search_text", s.handleSearchText)).Methods(http.MethodPost)
	r.HandleFunc("/v1/search/metadata", s.observe("search_metadata", s.handleSearchMetadata)).Methods(http.MethodPost)
	r.HandleFunc("/v1/search/tags", s.observe("search_tags", s.handleSearchTags)).Methods(http.MethodPost)
	r.HandleFunc("/v1/search/advanced", s.observe("search_advanced", s.handleAdvancedSearch)).Methods(http.MethodPost)
	r.HandleFunc("/v1/highlight", s.observe("highlight", s.handleHighlight)).Methods(http.MethodPost)
	r.HandleFunc("/v1/suggestions", s.observe("suggestions", s.handleSuggestions)).Methods(http.MethodGet)

	return r
}

// ========== Document Operations ==========

type createDocumentRequest struct {
	Title    string                    `json:"title"`
	Type     string                    `json:"type"`
	Content  string                    `json:"content"`
	Tags     []string                  `json:"tags"`
	Metadata map[string]document.Value `json:"metadata"`
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	doc := document.New(req.Title, req.Type, req.Content)
	doc.SetMaxVersions(s.maxVersions)
	for _, tag := range req.Tags {
		doc.AddTag(tag)
	}
	for key, value := range req.Metadata {
		doc.SetMeta(key, value)
	}

	s.mu.Lock()
	s.docs[doc.ID()] = doc
	s.index.SetDocuments(s.docs)
	err := s.persist(doc, "create")
	body, encErr := encodeDocument(doc)
	s.mu.Unlock()

	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to persist document")
		return
	}
	if encErr != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode document")
		return
	}
	writeJSON(w, http.StatusCreated, body)
}

type documentSummary struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Type           string    `json:"type"`
	CurrentVersion int       `json:"current_version"`
	WordCount      int       `json:"word_count"`
	Tags           []string  `json:"tags"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	summaries := make([]documentSummary, 0, len(s.docs))
	for _, doc := range s.docs {
		summaries = append(summaries, documentSummary{
			ID:             doc.ID(),
			Title:          doc.Title(),
			Type:           doc.Type(),
			CurrentVersion: doc.CurrentVersion(),
			WordCount:      doc.WordCount(),
			Tags:           doc.Tags(),
			UpdatedAt:      doc.UpdatedAt(),
		})
	}
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"documents": summaries,
		"count":     len(summaries),
	})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	doc, ok := s.docs[mux.Vars(r)["id"]]
	var body json.RawMessage
	var err error
	if ok {
		body, err = encodeDocument(doc)
	}
	s.mu.RUnlock()

	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode document")
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	_, ok := s.docs[id]
	var err error
	if ok {
		// Remove the file first. Dropping the map entry before a failed file
		// removal would leave a document gone from the running server but
		// resurrected from disk on restart.
		if err = s.files.Delete(id); err == nil {
			delete(s.docs, id)
			s.index.SetDocuments(s.docs)
		}
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if err != nil {
		s.log.LogStoreOperation("delete", id, err)
		writeError(w, http.StatusInternalServerError, "failed to delete document")
		return
	}
	s.log.LogStoreOperation("delete", id, nil)
	s.updateCollectionStats()
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

type updateContentRequest struct {
	Content   string `json:"content"`
	Append    bool   `json:"append"`
	Snapshot  *bool  `json:"snapshot"` // nil means true
	CreatedBy string `json:"created_by"`
	Comment   string `json:"comment"`
}

func (s *Server) handleUpdateContent(w http.ResponseWriter, r *http.Request) {
	var req updateContentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snapshot := req.Snapshot == nil || *req.Snapshot

	s.mu.Lock()
	doc, ok := s.docs[mux.Vars(r)["id"]]
	var err error
	var body json.RawMessage
	var encErr error
	if ok {
		before := doc.CurrentVersion()
		if req.Append {
			doc.AppendContent(req.Content, snapshot, req.CreatedBy, req.Comment)
		} else {
			doc.SetContent(req.Content, snapshot, req.CreatedBy, req.Comment)
		}
		if s.met != nil && doc.CurrentVersion() > before {
			s.met.SnapshotsTotal.Inc()
		}
		err = s.persist(doc, "update_content")
		body, encErr = encodeDocument(doc)
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to persist document")
		return
	}
	if encErr != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode document")
		return
	}
	writeJSON(w, http.StatusOK, body)
}

// ========== Version Operations ==========

func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	doc, ok := s.docs[mux.Vars(r)["id"]]
	var versions []document.Version
	if ok {
		versions = doc.Versions()
	}
	s.mu.RUnlock()

	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if versions == nil {
		versions = []document.Version{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"versions": versions,
		"count":    len(versions),
	})
}

func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	number, err := strconv.Atoi(vars["number"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "version number must be an integer")
		return
	}

	s.mu.RLock()
	doc, ok := s.docs[vars["id"]]
	var v document.Version
	var found bool
	if ok {
		v, found = doc.GetVersion(number)
	}
	s.mu.RUnlock()

	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "version not found")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type restoreRequest struct {
	Version   int    `json:"version"`
	Snapshot  *bool  `json:"snapshot"` // nil means true
	CreatedBy string `json:"created_by"`
	Comment   string `json:"comment"`
}

func (s *Server) handleRestoreVersion(w http.ResponseWriter, r *http.Request) {
	var req restoreRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snapshot := req.Snapshot == nil || *req.Snapshot

	s.mu.Lock()
	doc, ok := s.docs[mux.Vars(r)["id"]]
	restored := false
	var err error
	var body json.RawMessage
	var encErr error
	if ok {
		restored = doc.RestoreVersion(req.Version, snapshot, req.CreatedBy, req.Comment)
		if restored {
			if s.met != nil {
				s.met.RestoresTotal.Inc()
			}
			err = s.persist(doc, "restore")
			body, encErr = encodeDocument(doc)
		}
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if !restored {
		writeError(w, http.StatusNotFound, "version not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to persist document")
		return
	}
	if encErr != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode document")
		return
	}
	writeJSON(w, http.StatusOK, body)
}

// ========== Search Operations ==========

type textSearchRequest struct {
	Query         string   `json:"query"`
	CaseSensitive bool     `json:"case_sensitive"`
	WholeWord     bool     `json:"whole_word"`
	DocumentTypes []string `json:"document_types"`
}

func (s *Server) handleSearchText(w http.ResponseWriter, r *http.Request) {
	var req textSearchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	s.mu.RLock()
	results, err := s.index.SearchText(req.Query, search.TextOptions{
		CaseSensitive: req.CaseSensitive,
		WholeWord:     req.WholeWord,
		DocumentTypes: req.DocumentTypes,
	})
	s.mu.RUnlock()

	s.finishSearch(w, "text", req.Query, results, time.Since(start), err)
}

type metadataSearchRequest struct {
	Key   string         `json:"key"`
	Value document.Value `json:"value"`
}

func (s *Server) handleSearchMetadata(w http.ResponseWriter, r *http.Request) {
	var req metadataSearchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Key == "" {
		writeError(w, http.StatusBadRequest, "key is required")
		return
	}

	start := time.Now()
	s.mu.RLock()
	results, err := s.index.SearchMetadata(req.Key, req.Value)
	s.mu.RUnlock()

	s.finishSearch(w, "metadata", req.Key, results, time.Since(start), err)
}

type tagSearchRequest struct {
	Tags     []string `json:"tags"`
	MatchAll bool     `json:"match_all"`
}

func (s *Server) handleSearchTags(w http.ResponseWriter, r *http.Request) {
	var req tagSearchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	s.mu.RLock()
	results, err := s.index.SearchTags(req.Tags, req.MatchAll)
	s.mu.RUnlock()

	s.finishSearch(w, "tags", fmt.Sprintf("%v", req.Tags), results, time.Since(start), err)
}

type advancedSearchRequest struct {
	Text          string                    `json:"text"`
	Metadata      map[string]document.Value `json:"metadata"`
	Tags          []string                  `json:"tags"`
	MatchAllTags  bool                      `json:"match_all_tags"`
	DocumentTypes []string                  `json:"document_types"`
	CaseSensitive bool                      `json:"case_sensitive"`
	WholeWord     bool                      `json:"whole_word"`
}

func (s *Server) handleAdvancedSearch(w http.ResponseWriter, r *http.Request) {
	var req advancedSearchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	s.mu.RLock()
	results, err := s.index.AdvancedSearch(search.AdvancedQuery{
		Text:          req.Text,
		Metadata:      req.Metadata,
		Tags:          req.Tags,
		MatchAllTags:  req.MatchAllTags,
		DocumentTypes: req.DocumentTypes,
		CaseSensitive: req.CaseSensitive,
		WholeWord:     req.WholeWord,
	})
	s.mu.RUnlock()

	s.finishSearch(w, "advanced", req.Text, results, time.Since(start), err)
}

type highlightRequest struct {
	Text          string `json:"text"`
	Query         string `json:"query"`
	CaseSensitive bool   `json:"case_sensitive"`
	WholeWord     bool   `json:"whole_word"`
	Prefix        string `json:"prefix"`
	Suffix        string `json:"suffix"`
}

func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	var req highlightRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	highlighted, err := s.index.HighlightMatches(req.Text, req.Query, search.HighlightOptions{
		CaseSensitive: req.CaseSensitive,
		WholeWord:     req.WholeWord,
		Prefix:        req.Prefix,
		Suffix:        req.Suffix,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if s.met != nil {
		s.met.HighlightCallsTotal.Inc()
	}
	writeJSON(w, http.StatusOK, map[string]string{"highlighted": highlighted})
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	max := 0
	if raw := r.URL.Query().Get("max"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "max must be an integer")
			return
		}
		max = parsed
	}

	s.mu.RLock()
	suggestions := s.index.Suggestions(q, max)
	s.mu.RUnlock()

	if s.met != nil {
		s.met.SuggestionCallsTotal.Inc()
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}

// ========== Helpers ==========

// persist writes a document through the file store and records the outcome.
// Callers hold the write lock.
func (s *Server) persist(doc *document.Document, operation string) error {
	start := time.Now()
	err := s.files.Save(doc)

	status := "success"
	if err != nil {
		status = "error"
	}
	if s.met != nil {
		s.met.RecordStoreOperation(operation, status, time.Since(start))
	}
	s.log.LogStoreOperation(operation, doc.ID(), err)
	s.updateCollectionStatsLocked()
	return err
}

func (s *Server) finishSearch(w http.ResponseWriter, kind, query string, results []search.SearchResult, duration time.Duration, err error) {
	s.log.LogSearchQuery(kind, query, len(results), duration, err)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if s.met != nil {
		s.met.RecordSearch(kind, len(results))
	}
	if results == nil {
		results = []search.SearchResult{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}

func (s *Server) updateCollectionStats() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.updateCollectionStatsLocked()
}

func (s *Server) updateCollectionStatsLocked() {
	if s.met == nil {
		return
	}
	versions := 0
	for _, doc := range s.docs {
		versions += len(doc.Versions())
	}
	s.met.UpdateCollectionStats(len(s.docs), versions)
}

// encodeDocument marshals a document to response bytes. Callers must hold at
// least the read lock; marshaling after unlocking would read document state
// concurrently with writers.
func encodeDocument(doc *document.Document) (json.RawMessage, error) {
	data, err := json.Marshal(doc)
	return json.RawMessage(data), err
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
