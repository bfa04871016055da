// Package chi exposes the retrieval pipeline, chatbot and embedding
// engine over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/assetops/ragline/internal/domain"
	"github.com/assetops/ragline/internal/domain/source"
	"github.com/assetops/ragline/internal/embedding"
	healthuc "github.com/assetops/ragline/internal/usecase/health"
	raguc "github.com/assetops/ragline/internal/usecase/rag"
)

const defaultSimilarTopK = 5

type errorCode string

const (
	codeBadRequest        errorCode = "bad_request"
	codeValidationFailed  errorCode = "validation_failed"
	codeSourceNotFound    errorCode = "source_not_found"
	codeDimensionMismatch errorCode = "dimension_mismatch"
	codeChatProviderError errorCode = "chat_provider_error"
	codeInternalError     errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// Pipeline runs the retrieval pipeline for one question.
type Pipeline interface {
	Query(ctx context.Context, question string) (raguc.Result, error)
}

// Chatbot answers conversations and titles sessions.
type Chatbot interface {
	Answer(ctx context.Context, messages []domain.Message) (domain.ChatResponse, error)
	SessionTitle(ctx context.Context, firstMessage string) string
}

// History ranks persisted messages against a question.
type History interface {
	FindSimilar(ctx context.Context, question string, topK int) ([]embedding.Match, error)
}

// Embedder generates vectors with the local engine.
type Embedder interface {
	Embed(text string) []float64
	Dimensions() int
}

// Catalog lists the registered data sources.
type Catalog interface {
	All() []source.Source
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API.
type Server struct {
	pipeline      Pipeline
	chatbot       Chatbot
	history       History
	embedder      Embedder
	catalog       Catalog
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	pipeline Pipeline,
	chatbot Chatbot,
	history History,
	embedder Embedder,
	catalog Catalog,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	s := &Server{
		pipeline: pipeline,
		chatbot:  chatbot,
		history:  history,
		embedder: embedder,
		catalog:  catalog,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyQuestion, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidIntent, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrNoJSONFound, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrDimensionMismatch, http.StatusBadRequest, codeDimensionMismatch),
		sentinelHandler(domain.ErrSourceNotFound, http.StatusNotFound, codeSourceNotFound),
		sentinelHandler(domain.ErrChatProviderError, http.StatusBadGateway, codeChatProviderError),
	}
	return s
}

// RegisterRoutes mounts every handler on the router.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Post("/query", s.QueryContext)
	r.Post("/chat", s.Chat)
	r.Post("/chat/title", s.ChatTitle)
	r.Post("/similar", s.FindSimilar)
	r.Post("/embeddings", s.GenerateEmbedding)
	r.Get("/datasources", s.ListDataSources)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

type queryRequest struct {
	Question string `json:"question"`
	// TopK is accepted for wire compatibility and ignored: result size
	// is governed by the executor's per-intent limits.
	TopK *int `json:"top_k,omitempty"`
}

type sourceRecord struct {
	Table     string         `json:"table"`
	ID        int64          `json:"id,omitempty"`
	Data      map[string]any `json:"data"`
	Relevance float64        `json:"relevance"`
}

type queryResponse struct {
	Context string         `json:"context"`
	Sources []sourceRecord `json:"sources"`
}

// QueryContext handles POST /query.
func (s *Server) QueryContext(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "question is required")
		return
	}

	res, err := s.pipeline.Query(r.Context(), req.Question)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	sources := make([]sourceRecord, len(res.Sources))
	for i, rec := range res.Sources {
		sources[i] = sourceRecord{
			Table:     rec.Table,
			ID:        rec.ID,
			Data:      rec.Data,
			Relevance: rec.Relevance,
		}
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Context: res.Context,
		Sources: sources,
	})
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages []chatMessage `json:"messages"`
}

type chatMetadata struct {
	Model           string `json:"model"`
	LatencyMs       int64  `json:"latency_ms"`
	EstimatedTokens int    `json:"estimated_tokens"`
}

type chatResponse struct {
	Content  string       `json:"content"`
	Metadata chatMetadata `json:"metadata"`
}

// Chat handles POST /chat.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "messages are required")
		return
	}

	messages := make([]domain.Message, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = domain.Message{Role: m.Role, Content: m.Content}
	}

	resp, err := s.chatbot.Answer(r.Context(), messages)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Content: resp.Content,
		Metadata: chatMetadata{
			Model:           resp.Metadata.Model,
			LatencyMs:       resp.Metadata.Latency.Milliseconds(),
			EstimatedTokens: resp.Metadata.EstimatedTokens,
		},
	})
}

type titleRequest struct {
	Message string `json:"message"`
}

type titleResponse struct {
	Title string `json:"title"`
}

// ChatTitle handles POST /chat/title.
func (s *Server) ChatTitle(w http.ResponseWriter, r *http.Request) {
	var req titleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "message is required")
		return
	}

	title := s.chatbot.SessionTitle(r.Context(), req.Message)
	writeJSON(w, http.StatusOK, titleResponse{Title: title})
}

type similarRequest struct {
	Text string `json:"text"`
	TopK *int   `json:"top_k"`
}

type similarMatch struct {
	ID         string  `json:"id"`
	Content    string  `json:"content"`
	Similarity float64 `json:"similarity"`
}

type similarResponse struct {
	Matches []similarMatch `json:"matches"`
}

// FindSimilar handles POST /similar.
func (s *Server) FindSimilar(w http.ResponseWriter, r *http.Request) {
	var req similarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "text is required")
		return
	}

	topK := defaultSimilarTopK
	if req.TopK != nil {
		if *req.TopK <= 0 {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "top_k must be positive")
			return
		}
		topK = *req.TopK
	}

	matches, err := s.history.FindSimilar(r.Context(), req.Text, topK)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]similarMatch, len(matches))
	for i, m := range matches {
		items[i] = similarMatch{ID: m.ID, Content: m.Content, Similarity: m.Similarity}
	}

	writeJSON(w, http.StatusOK, similarResponse{Matches: items})
}

type embeddingRequest struct {
	Text string `json:"text"`
}

type embeddingResponse struct {
	Embedding  []float64 `json:"embedding"`
	Dimensions int       `json:"dimensions"`
}

// GenerateEmbedding handles POST /embeddings.
func (s *Server) GenerateEmbedding(w http.ResponseWriter, r *http.Request) {
	var req embeddingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, embeddingResponse{
		Embedding:  s.embedder.Embed(req.Text),
		Dimensions: s.embedder.Dimensions(),
	})
}

type dataSourceItem struct {
	Name            string   `json:"name"`
	Entity          string   `json:"entity"`
	Table           string   `json:"table"`
	Description     string   `json:"description"`
	Fields          []string `json:"fields"`
	QueryableFields []string `json:"queryable_fields"`
}

type dataSourceListResponse struct {
	Items []dataSourceItem `json:"items"`
	Total int              `json:"total"`
}

// ListDataSources handles GET /datasources.
func (s *Server) ListDataSources(w http.ResponseWriter, r *http.Request) {
	sources := s.catalog.All()

	items := make([]dataSourceItem, len(sources))
	for i, src := range sources {
		items[i] = dataSourceItem{
			Name:            src.Name(),
			Entity:          src.Entity(),
			Table:           src.Table(),
			Description:     src.Description(),
			Fields:          src.Fields(),
			QueryableFields: src.QueryableFields(),
		}
	}

	writeJSON(w, http.StatusOK, dataSourceListResponse{
		Items: items,
		Total: len(items),
	})
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyQuestion,
		domain.ErrInvalidIntent,
		domain.ErrNoJSONFound,
		domain.ErrDimensionMismatch,
		domain.ErrSourceNotFound,
		domain.ErrChatProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
