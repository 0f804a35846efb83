// Package enrich expands raw product text into an embedding-ready
// representation. Enrichment runs at indexing time: the output feeds the
// semantic index, never the display layer.
//
// Everything in this package is a pure function of its inputs; the same
// product always produces the same enriched text.
package enrich

import (
	"regexp"
	"sort"
	"strings"
)

// descriptionAnnotations pairs a trigger pattern with the bracketed
// semantic-role tag appended to the description when the pattern matches.
var descriptionAnnotations = []struct {
	pattern *regexp.Regexp
	tag     string
}{
	{regexp.MustCompile(`(?i)\b(contains|rich in|loaded with|packed with)\b`), "[nutrient-rich]"},
	{regexp.MustCompile(`(?i)\b(helps|supports|boosts|promotes)\b`), "[health-benefit]"},
	{regexp.MustCompile(`(?i)\b(traditional|ancient|ayurvedic)\b`), "[traditional-remedy]"},
	{regexp.MustCompile(`(?i)\b(fresh|natural|pure)\b`), "[natural-product]"},
}

// domainContexts pairs a pattern with an inferred context label. The whole
// composite text is scanned; every matching label is appended, in this order.
var domainContexts = []struct {
	pattern *regexp.Regexp
	label   string
}{
	{regexp.MustCompile(`(?i)(farm|crop|harvest|grain|seed|cultivat)`), "agricultural"},
	{regexp.MustCompile(`(?i)(health|immun|nutri|vitamin|mineral|protein)`), "health"},
	{regexp.MustCompile(`(?i)(ayurved|traditional|ancient|remedy|medicinal)`), "traditional-medicine"},
	{regexp.MustCompile(`(?i)(fiber|calcium|iron|omega|antioxidant|probiotic)`), "nutritional"},
	{regexp.MustCompile(`(?i)(cook|recipe|flavor|taste|seasoning|culinary)`), "culinary"},
}

// ExtractDomainKeywords scans text against the four domain vocabularies
// (nutrients, benefits, conditions, properties) using case-insensitive
// substring matching. The result is deduplicated and sorted.
func ExtractDomainKeywords(text string) []string {
	lower := strings.ToLower(text)

	seen := make(map[string]struct{})
	for _, vocab := range vocabularies {
		for _, term := range vocab {
			if strings.Contains(lower, term) {
				seen[term] = struct{}{}
			}
		}
	}

	keywords := make([]string, 0, len(seen))
	for k := range seen {
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)
	return keywords
}

// EnrichText builds the pipe-delimited enriched representation of a product.
//
// Segment order is fixed: enriched title, annotated description, category
// expansions, attributes, tag expansions, extracted-keyword expansions,
// inferred domain-context labels. Empty segments are skipped.
func EnrichText(title, description string, categories []string, attributes map[string]string, tags, benefits []string) string {
	var parts []string

	enrichedTitle := enrichTitle(title, categories, tags)
	if enrichedTitle != "" {
		parts = append(parts, enrichedTitle)
	}

	if annotated := annotateDescription(description); annotated != "" {
		parts = append(parts, annotated)
	}

	for _, cat := range categories {
		expansions := CategoryExpansions[strings.ToLower(cat)]
		if len(expansions) > 0 {
			parts = append(parts, cat+": "+strings.Join(expansions, ", "))
		} else {
			parts = append(parts, cat)
		}
	}

	if len(attributes) > 0 {
		keys := make([]string, 0, len(attributes))
		for k := range attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		attrParts := make([]string, 0, len(keys))
		for _, k := range keys {
			attrParts = append(attrParts, k+": "+attributes[k])
		}
		parts = append(parts, strings.Join(attrParts, ", "))
	}

	for _, tag := range tags {
		if syns := TagSynonyms[strings.ToLower(tag)]; len(syns) > 0 {
			parts = append(parts, tag+" ("+strings.Join(syns, ", ")+")")
		} else {
			parts = append(parts, tag)
		}
	}

	if len(benefits) > 0 {
		parts = append(parts, "benefits: "+strings.Join(benefits, ", "))
	}

	// Keywords are extracted from the composite built so far, so synonym
	// expansion also covers terms introduced by the category and tag
	// segments, not just the original copy.
	composite := strings.Join(parts, " | ")
	for _, keyword := range ExtractDomainKeywords(composite) {
		if syns := KeywordSynonyms[keyword]; len(syns) > 0 {
			parts = append(parts, strings.Join(syns, ", "))
		}
	}

	composite = strings.Join(parts, " | ")
	if labels := inferDomainContexts(composite); len(labels) > 0 {
		parts = append(parts, "context: "+strings.Join(labels, ", "))
	}

	return strings.Join(parts, " | ")
}

// enrichTitle prefixes "Organic" when a category or tag implies it but the
// title omits it, and appends a food qualifier when the category implies one.
func enrichTitle(title string, categories, tags []string) string {
	enriched := strings.TrimSpace(title)
	lowerTitle := strings.ToLower(enriched)

	if !strings.Contains(lowerTitle, "organic") && impliesOrganic(categories, tags) {
		enriched = "Organic " + enriched
	}

	for _, cat := range categories {
		qualifier, ok := foodQualifiers[strings.ToLower(cat)]
		if !ok {
			continue
		}
		if !strings.Contains(strings.ToLower(enriched), qualifier) {
			enriched = enriched + " " + qualifier
		}
		break
	}

	return enriched
}

func impliesOrganic(categories, tags []string) bool {
	for _, c := range categories {
		if strings.Contains(strings.ToLower(c), "organic") {
			return true
		}
	}
	for _, t := range tags {
		if strings.EqualFold(t, "organic") {
			return true
		}
	}
	return false
}

// annotateDescription appends bracketed semantic-role tags for each trigger
// phrase family found in the description.
func annotateDescription(description string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return ""
	}

	annotated := description
	for _, ann := range descriptionAnnotations {
		if ann.pattern.MatchString(description) {
			annotated += " " + ann.tag
		}
	}
	return annotated
}

// inferDomainContexts returns the context labels whose patterns match the
// composite text, in declaration order.
func inferDomainContexts(composite string) []string {
	var labels []string
	for _, dc := range domainContexts {
		if dc.pattern.MatchString(composite) {
			labels = append(labels, dc.label)
		}
	}
	return labels
}
