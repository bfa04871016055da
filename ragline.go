// Package ragline embeds the retrieval pipeline in-process: a relational
// data source catalog, a deterministic local embedding engine and a
// keyword or model backed intent classifier, composed behind one client.
package ragline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/assetops/ragline/internal/assets"
	"github.com/assetops/ragline/internal/domain"
	"github.com/assetops/ragline/internal/domain/source"
	"github.com/assetops/ragline/internal/embedding"
	"github.com/assetops/ragline/internal/registry"
	"github.com/assetops/ragline/internal/store/sqlite"
	openaiChat "github.com/assetops/ragline/internal/transport/openai"
	"github.com/assetops/ragline/internal/usecase/classify"
	"github.com/assetops/ragline/internal/usecase/execute"
	"github.com/assetops/ragline/internal/usecase/plan"
	raguc "github.com/assetops/ragline/internal/usecase/rag"
)

// Relation declares how a dotted field path joins to a related table.
type Relation struct {
	Table    string
	LocalKey string
	RefKey   string
}

// DataSource describes one retrievable entity.
type DataSource struct {
	Name            string
	Entity          string
	Table           string
	Description     string
	Fields          []string
	QueryableFields []string
	Relations       map[string]Relation
}

// Record is one retrieved row or count.
type Record struct {
	Table     string
	ID        int64
	Data      map[string]any
	Relevance float64
}

// QueryResult is the retrieval output for one question.
type QueryResult struct {
	Context string
	Records []Record
}

// Candidate is a stored embedding considered for similarity ranking.
type Candidate struct {
	ID        string
	Content   string
	Embedding []float64
}

// Match is a ranked similarity hit.
type Match struct {
	ID         string
	Content    string
	Similarity float64
}

// Client is the ragline SDK entry point.
type Client struct {
	store    *sqlite.Store
	engine   *embedding.Engine
	registry *registry.Registry
	pipeline *raguc.Service
}

// New creates a ragline Client backed by a local SQLite database.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		dbPath: "data/ragline.db",
		embCfg: embedding.DefaultConfig(),
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(cfg)
	}

	store, err := sqlite.Open(cfg.dbPath)
	if err != nil {
		return nil, fmt.Errorf("ragline: open database: %w", err)
	}

	reg := registry.New()
	if cfg.assetCatalog {
		if err := assets.RegisterSources(reg); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("ragline: register asset catalog: %w", err)
		}
	}

	var chat domain.ChatClient = noopChat{}
	if cfg.chatAPIKey != "" {
		chat = openaiChat.NewChatClient(&openaiChat.Config{
			APIKey:   cfg.chatAPIKey,
			BaseURL:  cfg.chatBaseURL,
			Model:    cfg.chatModel,
			Provider: cfg.chatProvider,
			Logger:   cfg.logger,
		})
	}

	var hints raguc.Hinter = noopHinter{}
	if cfg.assetCatalog {
		hints = assets.NewHintEngine()
	}

	pipeline := raguc.New(
		hints,
		classify.New(chat, cfg.logger),
		plan.New(chat, cfg.logger),
		execute.New(store, cfg.logger),
		reg,
		cfg.logger,
	)

	return &Client{
		store:    store,
		engine:   embedding.New(cfg.embCfg),
		registry: reg,
		pipeline: pipeline,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() error {
	return c.store.Close()
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// RegisterDataSource adds an entity to the retrieval catalog.
func (c *Client) RegisterDataSource(ds DataSource) error {
	relations := make(map[string]source.Relation, len(ds.Relations))
	for name, rel := range ds.Relations {
		relations[name] = source.Relation{
			Table:    rel.Table,
			LocalKey: rel.LocalKey,
			RefKey:   rel.RefKey,
		}
	}

	src, err := source.New(
		ds.Name, ds.Entity, ds.Table,
		ds.Fields, ds.QueryableFields,
		relations, ds.Description,
	)
	if err != nil {
		return fmt.Errorf("ragline: register data source: %w", err)
	}

	c.registry.Register(src)
	return nil
}

// DataSources returns the registered catalog.
func (c *Client) DataSources() []DataSource {
	sources := c.registry.All()
	out := make([]DataSource, len(sources))
	for i, s := range sources {
		out[i] = DataSource{
			Name:            s.Name(),
			Entity:          s.Entity(),
			Table:           s.Table(),
			Description:     s.Description(),
			Fields:          s.Fields(),
			QueryableFields: s.QueryableFields(),
		}
	}
	return out
}

// Query answers one question with grounded context. Without a chat
// provider the classifier runs on keyword rules only. There is no top-K
// knob: result size is governed by per-intent execution limits.
func (c *Client) Query(ctx context.Context, question string) (QueryResult, error) {
	res, err := c.pipeline.Query(ctx, question)
	if err != nil {
		return QueryResult{}, fmt.Errorf("ragline: query: %w", err)
	}

	records := make([]Record, len(res.Sources))
	for i, r := range res.Sources {
		records[i] = Record{
			Table:     r.Table,
			ID:        r.ID,
			Data:      r.Data,
			Relevance: r.Relevance,
		}
	}

	return QueryResult{Context: res.Context, Records: records}, nil
}

// GenerateEmbedding generates the deterministic vector for text.
func (c *Client) GenerateEmbedding(text string) []float64 {
	return c.engine.Embed(text)
}

// Dimensions returns the embedding vector length.
func (c *Client) Dimensions() int {
	return c.engine.Dimensions()
}

// FindMostSimilar ranks candidates against a query vector by cosine
// similarity.
func (c *Client) FindMostSimilar(query []float64, candidates []Candidate, topK int) ([]Match, error) {
	internal := make([]embedding.Candidate, len(candidates))
	for i, cand := range candidates {
		internal[i] = embedding.Candidate{ID: cand.ID, Content: cand.Content, Embedding: cand.Embedding}
	}

	matches, err := embedding.FindMostSimilar(query, internal, topK)
	if err != nil {
		return nil, fmt.Errorf("ragline: rank candidates: %w", err)
	}

	out := make([]Match, len(matches))
	for i, m := range matches {
		out[i] = Match{ID: m.ID, Content: m.Content, Similarity: m.Similarity}
	}
	return out, nil
}

// noopChat fails every call so the classifier falls back to keyword
// rules (used when no chat provider is configured).
type noopChat struct{}

func (noopChat) Chat(_ context.Context, _ []domain.Message, _ domain.ChatOptions) (domain.ChatResponse, error) {
	return domain.ChatResponse{}, errors.New(
		"ragline: chat provider not configured (use WithChatProvider)",
	)
}

// noopHinter passes questions and context through unchanged.
type noopHinter struct{}

func (noopHinter) EnhanceQuery(question string) string    { return question }
func (noopHinter) EnrichContext(context, _ string) string { return context }
