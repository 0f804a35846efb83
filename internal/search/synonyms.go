package search

import "strings"

// querySynonyms maps query tokens to retrieval synonyms. The table is
// deliberately small; broad expansion hurts keyword precision more than it
// helps recall.
var querySynonyms = map[string][]string{
	"organic":     {"natural", "pure", "bio", "ecological"},
	"healthy":     {"nutritious", "wholesome", "beneficial"},
	"traditional": {"ancient", "heritage", "classic"},
	"raw":         {"unprocessed", "unrefined", "whole"},
	"fresh":       {"farm-fresh", "seasonal"},
	"sweet":       {"jaggery", "honey", "sweetener"},
	"oil":         {"cold-pressed", "ghee"},
	"grain":       {"millet", "rice", "wheat"},
	"spice":       {"masala", "seasoning"},
	"immunity":    {"wellness", "ayurvedic"},
}

// synonymsFor returns the synonyms for every query token present in the
// table, in token order, deduplicated.
func synonymsFor(query string) []string {
	seen := make(map[string]struct{})
	var out []string

	for _, token := range strings.Fields(strings.ToLower(query)) {
		for _, syn := range querySynonyms[token] {
			if _, ok := seen[syn]; ok {
				continue
			}
			seen[syn] = struct{}{}
			out = append(out, syn)
		}
	}

	return out
}
