package classify

import (
	"strings"

	"github.com/assetops/ragline/internal/domain/intent"
	"github.com/assetops/ragline/internal/domain/source"
)

// Fallback derives an intent from keyword heuristics when the model is
// unavailable. It always succeeds; an unmatched question becomes a
// list query over all sources.
func Fallback(question string, sources []source.Source) intent.Intent {
	lower := strings.ToLower(question)

	kind := intent.List
	switch {
	case containsAny(lower, "how many", "count", "total"):
		kind = intent.Count
	case containsAny(lower, "show me", "list all"):
		kind = intent.List
	case containsAny(lower, "find", "get details"):
		kind = intent.Detail
	}

	var entities []string
	for _, src := range sources {
		if strings.Contains(lower, src.Name()) || strings.Contains(lower, src.Table()) {
			entities = []string{src.Name()}
			break
		}
	}

	filters := map[string]any{}
	if containsAny(lower, "draft", "unverified", "not verified") {
		filters["isDraft"] = true
		filters["isVerified"] = false
	}
	if strings.Contains(lower, "verified") && !containsAny(lower, "unverified", "not verified") {
		filters["isVerified"] = true
	}
	if strings.Contains(lower, "approved") {
		filters["isApproved"] = true
	}
	if strings.Contains(lower, "available") {
		filters["status"] = "Available"
	}

	return intent.New(kind, entities, filters, nil)
}

func containsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
