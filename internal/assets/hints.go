// Package assets adapts the generic retrieval pipeline to the asset
// management domain: it registers the source catalog and rewrites
// questions and answers with domain knowledge.
package assets

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/assetops/ragline/internal/format"
)

// domainKeywords maps a concept to the phrasings users reach for.
var domainKeywords = map[string][]string{
	"asset":     {"asset", "assets", "equipment", "item", "items", "property"},
	"draft":     {"draft", "drafts", "unverified", "pending", "incomplete"},
	"verified":  {"verified", "checked", "confirmed"},
	"approved":  {"approved", "authorized", "accepted"},
	"available": {"available", "ready", "free", "unused"},
	"issued":    {"issued", "assigned", "allocated", "distributed"},
	"repair":    {"repair", "broken", "damaged", "maintenance", "fixing"},
	"disposal":  {"disposal", "dispose", "scrap", "retire", "discarded"},
	"count":     {"how many", "count", "number of", "total", "quantity"},
	"list":      {"list", "show", "display", "what are", "give me"},
	"find":      {"find", "search", "locate", "get", "fetch"},
	"employee": {
		"employee", "staff", "personnel", "worker", "who", "under",
		"reports to", "assets of", "assets assigned to",
	},
	"custodian": {
		"custodian", "owner", "responsible", "in charge", "assigned to",
		"who has", "who is using",
	},
}

// inventoryNoPatterns match identifier shapes like ASSET-0199-INV-1.
// Ordered most to least specific; the first match wins.
var inventoryNoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ASSET-\d+-INV-\d+`),
	regexp.MustCompile(`(?i)ASSET\d+-INV-\d+`),
	regexp.MustCompile(`(?i)INV-\d+`),
	regexp.MustCompile(`(?i)inventory[:\s]+(\S+)`),
}

// HintEngine rewrites questions before classification and enriches the
// retrieved context afterwards. Hints are natural-language lines the
// classifier prompt sees; nothing downstream parses them.
type HintEngine struct{}

// NewHintEngine creates the asset domain hint engine.
func NewHintEngine() *HintEngine {
	return &HintEngine{}
}

// EnhanceQuery appends a "Query Analysis" section of hint lines derived
// from identifier patterns and keyword matches. A question with no
// matches is returned unchanged.
func (h *HintEngine) EnhanceQuery(question string) string {
	lower := strings.ToLower(question)
	var hints []string

	for _, pattern := range inventoryNoPatterns {
		if m := pattern.FindString(question); m != "" {
			hints = append(hints,
				fmt.Sprintf("MUST filter by exact inventoryNo = %q", strings.ToUpper(m)),
				"Table: assets_inventory (inventories)")
			break
		}
	}

	isCustodian := matchesConcept(lower, "custodian")
	isEmployee := matchesConcept(lower, "employee")
	isCount := matchesConcept(lower, "count")

	if isEmployee && isCustodian && isCount {
		hints = append(hints,
			"Intent: COUNT of assets held by an employee",
			"Table: employees with issuedAsset relationship",
			"Return fields: employeeId, firstName, lastName, issuedAsset, issuedAsset.asset.assetName")
	}

	if isCustodian {
		hints = append(hints,
			"MUST return custodian full details: firstName, lastName, employeeId, department, position, email, contactNumber",
			"Table: assets_inventory with custodian join",
			"Intent: DETAIL (single record)")
	}

	if matchesConcept(lower, "draft") {
		hints = append(hints, "Filter: isDraft = true")
	}
	if matchesConcept(lower, "verified") {
		hints = append(hints, "Filter: isVerified = true")
	}
	if matchesConcept(lower, "approved") {
		hints = append(hints, "Filter: isApproved = true")
	}

	if matchesConcept(lower, "available") {
		hints = append(hints, `Filter: status = "Available"`)
	}
	if matchesConcept(lower, "issued") {
		hints = append(hints, `Filter: status = "Issued"`)
	}
	if matchesConcept(lower, "repair") {
		hints = append(hints, `Filter: status = "For-Repair"`)
	}

	switch {
	case isCount:
		hints = append(hints, "Intent: COUNT")
	case matchesConcept(lower, "list"):
		hints = append(hints, "Intent: LIST")
	case containsAny(lower, "who", "custodian", "in charge"):
		hints = append(hints, "Intent: DETAIL")
	}

	if len(hints) == 0 {
		return question
	}
	return question + "\n\n Query Analysis:\n" + strings.Join(hints, "\n")
}

// EnrichContext appends glossary notes for keywords present in the
// question, and replaces the generic no-data sentinel with a targeted
// not-found message.
func (h *HintEngine) EnrichContext(context, question string) string {
	if context == "" || context == format.NoDataSentinel {
		return h.noDataMessage(question)
	}

	lower := strings.ToLower(question)
	enriched := context

	if strings.Contains(lower, "draft") {
		enriched += "\n\nNote: Draft = isDraft=true (not yet verified)"
	}
	if strings.Contains(lower, "verified") {
		enriched += "\n\nNote: Verified = isVerified=true (checked by staff)"
	}
	if strings.Contains(lower, "approved") {
		enriched += "\n\nNote: Approved = isApproved=true (authorized by management)"
	}
	if strings.Contains(lower, "custodian") {
		enriched += "\n\nNote: Custodian = Current employee assigned to this item"
	}

	return enriched
}

func (h *HintEngine) noDataMessage(question string) string {
	lower := strings.ToLower(question)

	if m := inventoryNoPatterns[0].FindString(question); m != "" {
		return fmt.Sprintf("No inventory item found with number %q. Please verify the inventory number is correct.", m)
	}
	if matchesConcept(lower, "custodian") {
		return "No custodian information found. The item may not be issued yet, or the inventory number may be incorrect."
	}
	if matchesConcept(lower, "draft") {
		return "No draft assets found. All assets may already be verified."
	}
	return "No data found matching your query. Try asking about: specific inventory numbers, custodian details, asset status, or total counts."
}

func matchesConcept(text, concept string) bool {
	return containsAny(text, domainKeywords[concept]...)
}

func containsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
