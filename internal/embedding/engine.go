// Package embedding implements a deterministic, local text embedding
// engine: hashing-trick projection of term frequencies fused with a small
// set of linguistic features. No model downloads, no network calls; an
// embedding costs well under 20ms. Collisions in the hash projection are
// the accepted space/quality tradeoff.
package embedding

import (
	"crypto/md5"
	"encoding/hex"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/assetops/ragline/internal/domain"
	"github.com/assetops/ragline/internal/metrics"
)

const (
	// hashSeeds is the number of independent hash projections per token.
	hashSeeds = 3
	// featureSlots caps how many vector positions receive linguistic features.
	featureSlots = 20
	// featureScale weights linguistic features against hashed term content.
	featureScale = 2.0
	// positionalScale weights the fixed positional perturbation.
	positionalScale = 0.1
)

var nonWord = regexp.MustCompile(`[^\w\s]+`)

// Engine turns text into fixed-dimension vectors. Safe for concurrent
// use: the config is fixed at construction. To reconfigure, build a new
// Engine; vectors from different configs must never be compared.
type Engine struct {
	cfg Config
}

// New creates an engine with the given config (zero values filled with
// defaults).
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg.withDefaults()}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Dimensions returns the output vector length.
func (e *Engine) Dimensions() int { return e.cfg.Dimensions }

// Embed generates the vector for text. Empty or whitespace-only input
// yields an all-zero vector, never an error. Deterministic: identical
// config and text reproduce the vector bit for bit.
func (e *Engine) Embed(text string) []float64 {
	vec := make([]float64, e.cfg.Dimensions)
	if strings.TrimSpace(text) == "" {
		return vec
	}
	start := time.Now()
	defer func() {
		metrics.EmbeddingsGeneratedTotal.Inc()
		metrics.EmbeddingDuration.Observe(time.Since(start).Seconds())
	}()

	tokens := e.tokenize(text)
	tf := termFrequency(tokens)
	features := linguisticFeatures(text, tokens)

	e.project(vec, tf)
	addFeatures(vec, features)
	addPositionalEncoding(vec)

	if e.cfg.Normalize {
		normalize(vec)
	}
	return vec
}

// tokenize lowercases, strips non-word runs, splits on whitespace, drops
// short tokens and stop words, and optionally stems.
func (e *Engine) tokenize(text string) []string {
	cleaned := nonWord.ReplaceAllString(strings.ToLower(text), " ")

	var tokens []string
	for _, t := range strings.Fields(cleaned) {
		if len(t) <= 2 || isStopword(t, e.cfg.Language) {
			continue
		}
		if e.cfg.Stemming {
			t = stem(t)
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// termFrequency counts tokens normalized by total count.
func termFrequency(tokens []string) map[string]float64 {
	total := float64(max(1, len(tokens)))
	tf := make(map[string]float64, len(tokens))
	for _, t := range tokens {
		tf[t] += 1.0 / total
	}
	return tf
}

// project adds the hashed term-frequency mass into vec. Each token is
// hashed with three seeds; the first projection carries full weight, the
// remaining two half weight. Tokens are visited in sorted order: bucket
// collisions make the accumulated float sums order-sensitive, and map
// iteration order would leak into the output bits.
func (e *Engine) project(vec []float64, tf map[string]float64) {
	tokens := make([]string, 0, len(tf))
	for token := range tf {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)

	for _, token := range tokens {
		score := tf[token]
		for seed := 0; seed < hashSeeds; seed++ {
			pos := hashToken(token, seed) % uint32(e.cfg.Dimensions)
			weight := 1.0
			if seed > 0 {
				weight = 0.5
			}
			vec[pos] += score * weight
		}
	}
}

// hashToken maps a token and seed to a deterministic 32-bit value: the
// first 8 hex chars of md5(token + seed).
func hashToken(token string, seed int) uint32 {
	sum := md5.Sum([]byte(token + strconv.Itoa(seed)))
	v, _ := strconv.ParseUint(hex.EncodeToString(sum[:])[:8], 16, 32)
	return uint32(v)
}

// addFeatures folds the linguistic features into the leading positions,
// on top of any hashed content already there.
func addFeatures(vec []float64, features []float64) {
	n := min(len(features), featureSlots)
	for i := 0; i < n && i < len(vec); i++ {
		vec[i] += features[i] * featureScale
	}
}

// addPositionalEncoding applies a smooth content-independent perturbation
// that stabilizes near-empty vectors.
func addPositionalEncoding(vec []float64) {
	dims := float64(len(vec))
	for i := range vec {
		vec[i] += math.Sin(float64(i)/dims*math.Pi) * positionalScale
	}
}

// linguisticFeatures extracts ten scalar signals, each clamped to [0,1].
func linguisticFeatures(text string, tokens []string) []float64 {
	tokenCount := float64(max(1, len(tokens)))

	var totalLen int
	unique := make(map[string]struct{}, len(tokens))
	numeric := 0
	for _, t := range tokens {
		totalLen += len(t)
		unique[t] = struct{}{}
		if strings.ContainsAny(t, "0123456789") {
			numeric++
		}
	}

	capitals := 0
	for _, r := range text {
		if r >= 'A' && r <= 'Z' {
			capitals++
		}
	}

	return []float64{
		clamp01(float64(len(text)) / 1000),
		clamp01(float64(totalLen) / tokenCount / 10),
		float64(len(unique)) / tokenCount,
		clamp01(float64(len(tokens)) / 100),
		boolFeature(strings.Contains(text, "?")),
		boolFeature(strings.Contains(text, "!")),
		float64(numeric) / tokenCount,
		clamp01(float64(capitals) / float64(max(1, len(text)))),
		clamp01(float64(len(unique)) / math.Sqrt(tokenCount)),
		clamp01(float64(sentenceCount(text)) / 10),
	}
}

// sentenceCount counts runs of sentence-terminating punctuation.
func sentenceCount(text string) int {
	count := 0
	inRun := false
	for _, r := range text {
		switch r {
		case '.', '!', '?':
			if !inRun {
				count++
				inRun = true
			}
		default:
			inRun = false
		}
	}
	return count
}

func clamp01(v float64) float64 {
	return math.Min(v, 1.0)
}

func boolFeature(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}

// normalize scales vec to unit Euclidean length in place. A zero vector
// is left unchanged.
func normalize(vec []float64) {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	mag := math.Sqrt(sum)
	if mag == 0 {
		return
	}
	for i := range vec {
		vec[i] /= mag
	}
}

// CosineSimilarity returns dot(a,b)/(|a||b|), or 0 when either magnitude
// is zero. Comparing vectors of different dimensions fails hard: silently
// coercing them would produce a meaningless number.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, domain.ErrDimensionMismatch
	}

	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	mag := math.Sqrt(magA) * math.Sqrt(magB)
	if mag == 0 {
		return 0, nil
	}
	return dot / mag, nil
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

// FindMostSimilar scores query against every candidate, sorts descending
// and truncates to topK. Linear scan: candidate sets here are message
// histories, not a corpus-scale index. Returns ErrDimensionMismatch if
// any candidate has a different dimension than the query.
func FindMostSimilar(query []float64, candidates []Candidate, topK int) ([]Match, error) {
	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		sim, err := CosineSimilarity(query, c.Embedding)
		if err != nil {
			return nil, err
		}
		matches = append(matches, Match{ID: c.ID, Content: c.Content, Similarity: sim})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}
