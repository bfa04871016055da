package embedding

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/assetops/ragline/internal/domain"
)

func TestEmbed_Deterministic(t *testing.T) {
	e := New(DefaultConfig())

	a := e.Embed("How many assets are currently available in the warehouse?")
	b := e.Embed("How many assets are currently available in the warehouse?")

	if len(a) != len(b) {
		t.Fatalf("dimension mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("vectors differ at position %d: %v vs %v", i, a[i], b[i])
		}
	}
}

// Many distinct tokens force multiple hash-bucket collisions per
// position, where the accumulation order would show up at the bit level
// if projection followed map iteration order.
func TestEmbed_DeterministicManyTokens(t *testing.T) {
	e := New(Config{Dimensions: 8})

	var sb strings.Builder
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&sb, "inventory%d asset%d depreciation%d ", i, i, i)
	}
	text := sb.String()

	first := e.Embed(text)
	for run := 0; run < 10; run++ {
		next := e.Embed(text)
		for i := range first {
			if first[i] != next[i] {
				t.Fatalf("run %d: vectors differ at position %d: %v vs %v",
					run, i, first[i], next[i])
			}
		}
	}
}

func TestEmbed_EmptyInput(t *testing.T) {
	e := New(DefaultConfig())

	for _, text := range []string{"", "   ", "\n\t "} {
		vec := e.Embed(text)
		if len(vec) != 384 {
			t.Fatalf("expected 384 dimensions, got %d", len(vec))
		}
		for i, v := range vec {
			if v != 0 {
				t.Fatalf("expected zero vector for %q, got %v at %d", text, v, i)
			}
		}
	}
}

func TestEmbed_NormalizationInvariant(t *testing.T) {
	e := New(DefaultConfig())

	texts := []string{
		"show me all draft assets",
		"ASSET-0199-INV-1",
		"x y z", // all tokens dropped as too short; positional encoding still normalizes
		"Who is the custodian of the laptop issued last week?",
	}
	for _, text := range texts {
		vec := e.Embed(text)
		var sum float64
		for _, v := range vec {
			sum += v * v
		}
		norm := math.Sqrt(sum)
		if math.Abs(norm-1.0) > 1e-6 {
			t.Errorf("norm of embed(%q) = %v, want 1.0", text, norm)
		}
	}
}

func TestEmbed_NoNormalization(t *testing.T) {
	e := New(Config{Dimensions: 128, Normalize: false, Stemming: true})

	vec := e.Embed("verified assets")
	if len(vec) != 128 {
		t.Fatalf("expected 128 dimensions, got %d", len(vec))
	}
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if math.Abs(math.Sqrt(sum)-1.0) < 1e-6 {
		t.Error("unnormalized vector should not have unit norm")
	}
}

func TestEmbed_DimensionsConfigurable(t *testing.T) {
	for _, dims := range []int{128, 256, 512} {
		e := New(Config{Dimensions: dims, Normalize: true})
		if got := len(e.Embed("inventory status report")); got != dims {
			t.Errorf("dims=%d: got %d", dims, got)
		}
	}
}

func TestCosineSimilarity_SelfIsOne(t *testing.T) {
	e := New(DefaultConfig())
	vec := e.Embed("asset depreciation schedule for 2024")

	sim, err := CosineSimilarity(vec, vec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(sim-1.0) > 1e-6 {
		t.Errorf("self-similarity = %v, want 1.0", sim)
	}
}

func TestCosineSimilarity_Bounds(t *testing.T) {
	e := New(DefaultConfig())
	pairs := [][2]string{
		{"how many assets are verified", "count of verified assets"},
		{"employee contact details", "warehouse location status"},
		{"ASSET-0199-INV-1 custodian", "completely unrelated gardening topics"},
	}
	for _, p := range pairs {
		sim, err := CosineSimilarity(e.Embed(p[0]), e.Embed(p[1]))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sim < -1.0-1e-9 || sim > 1.0+1e-9 {
			t.Errorf("similarity(%q, %q) = %v out of [-1,1]", p[0], p[1], sim)
		}
	}
}

func TestCosineSimilarity_RelatedScoresHigher(t *testing.T) {
	e := New(DefaultConfig())

	query := e.Embed("how many verified assets do we have")
	related := e.Embed("count of verified assets in the system")
	unrelated := e.Embed("the quick brown fox jumps over the lazy dog")

	simRelated, _ := CosineSimilarity(query, related)
	simUnrelated, _ := CosineSimilarity(query, unrelated)
	if simRelated <= simUnrelated {
		t.Errorf("related=%v should exceed unrelated=%v", simRelated, simUnrelated)
	}
}

func TestCosineSimilarity_DimensionMismatch(t *testing.T) {
	a := New(Config{Dimensions: 384, Normalize: true}).Embed("test")
	b := New(Config{Dimensions: 256, Normalize: true}).Embed("test")

	if _, err := CosineSimilarity(a, b); !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestCosineSimilarity_ZeroMagnitude(t *testing.T) {
	zero := make([]float64, 8)
	other := []float64{1, 0, 0, 0, 0, 0, 0, 0}

	sim, err := CosineSimilarity(zero, other)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sim != 0 {
		t.Errorf("similarity with zero vector = %v, want 0", sim)
	}
}

func TestFindMostSimilar_RanksAndTruncates(t *testing.T) {
	e := New(DefaultConfig())
	query := e.Embed("verified asset count")

	candidates := []Candidate{
		{ID: "1", Content: "there are 42 verified assets", Embedding: e.Embed("there are 42 verified assets")},
		{ID: "2", Content: "the weather is nice today", Embedding: e.Embed("the weather is nice today")},
		{ID: "3", Content: "count of verified assets", Embedding: e.Embed("count of verified assets")},
	}

	matches, err := FindMostSimilar(query, candidates, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Similarity < matches[1].Similarity {
		t.Error("matches not sorted descending")
	}
}

func TestFindMostSimilar_DimensionMismatchFailsFast(t *testing.T) {
	e := New(DefaultConfig())
	query := e.Embed("anything")

	candidates := []Candidate{
		{ID: "ok", Embedding: e.Embed("fine")},
		{ID: "bad", Embedding: make([]float64, 256)},
	}

	if _, err := FindMostSimilar(query, candidates, 5); !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestFindMostSimilar_EmptyCandidates(t *testing.T) {
	e := New(DefaultConfig())
	matches, err := FindMostSimilar(e.Embed("query"), nil, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no matches, got %d", len(matches))
	}
}

func TestStem_Rules(t *testing.T) {
	cases := map[string]string{
		"companies": "company",
		"running":   "runn",
		"creation":  "creat",
		"assets":    "asset",
		"verified":  "verifi",
		"cat":       "cat",  // too short for stemming
		"used":      "used", // length gate: 4 chars
	}
	for in, want := range cases {
		if got := stem(in); got != want {
			t.Errorf("stem(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTokenize_DropsStopwordsAndShortTokens(t *testing.T) {
	e := New(Config{Dimensions: 64, Stemming: false, Language: LangEnglish})

	tokens := e.tokenize("The cat is on a MAT with assets!")
	for _, tok := range tokens {
		if tok == "the" || tok == "is" || tok == "on" || tok == "with" {
			t.Errorf("token %q should have been dropped", tok)
		}
	}
	found := false
	for _, tok := range tokens {
		if tok == "assets" {
			found = true
		}
	}
	if !found {
		t.Error("expected token \"assets\" to survive")
	}
}
