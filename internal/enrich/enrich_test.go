package enrich

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDomainKeywords(t *testing.T) {
	text := "Organic turmeric rich in curcumin, supports immunity and digestion"

	got := ExtractDomainKeywords(text)
	assert.Contains(t, got, "organic")
	assert.Contains(t, got, "curcumin")
	assert.Contains(t, got, "immunity")
	assert.Contains(t, got, "digestion")
	assert.NotContains(t, got, "protein")

	// Sorted and deduplicated.
	assert.IsIncreasing(t, got)
}

func TestExtractDomainKeywordsStableUnderReExtraction(t *testing.T) {
	text := "cold-pressed coconut oil with omega-3 and vitamin e for heart health"

	first := ExtractDomainKeywords(text)
	second := ExtractDomainKeywords(strings.Join(first, " "))
	assert.Equal(t, first, second)
}

func TestEnrichTextDeterministic(t *testing.T) {
	attrs := map[string]string{"origin": "Kerala", "weight": "250g"}

	a := EnrichText("Turmeric Powder", "Rich in curcumin", []string{"Spices"}, attrs, []string{"organic"}, []string{"immunity"})
	b := EnrichText("Turmeric Powder", "Rich in curcumin", []string{"Spices"}, attrs, []string{"organic"}, []string{"immunity"})
	assert.Equal(t, a, b, "map-valued attributes must not introduce ordering nondeterminism")
}

func TestEnrichTextSegments(t *testing.T) {
	got := EnrichText(
		"Turmeric Powder",
		"Rich in curcumin, supports immunity",
		[]string{"Spices"},
		map[string]string{"origin": "Kerala"},
		[]string{"organic"},
		[]string{"immunity", "digestion"},
	)

	// Organic prefix inferred from the tag; food qualifier from the category.
	assert.True(t, strings.HasPrefix(got, "Organic Turmeric Powder cooking spice"), got)

	// Description annotations for trigger phrases.
	assert.Contains(t, got, "[nutrient-rich]")
	assert.Contains(t, got, "[health-benefit]")

	// Category expansion, attributes, tag synonyms, benefits.
	assert.Contains(t, got, "Spices: cooking spices, seasoning, masala, culinary herbs")
	assert.Contains(t, got, "origin: Kerala")
	assert.Contains(t, got, "organic (natural, pure, bio, ecological)")
	assert.Contains(t, got, "benefits: immunity, digestion")

	// Keyword synonym expansion fires for extracted keywords.
	assert.Contains(t, got, "turmeric extract")
	assert.Contains(t, got, "immune support")

	// Context labels from the composite.
	assert.Contains(t, got, "context: ")
	assert.Contains(t, got, "health")
	assert.Contains(t, got, "culinary")
}

func TestEnrichTextNoOrganicDoublePrefix(t *testing.T) {
	got := EnrichText("Organic Honey", "", []string{"Honey"}, nil, []string{"organic"}, nil)
	assert.False(t, strings.Contains(got, "Organic Organic"), got)
}

func TestEnrichTextUnknownCategoryPassesThrough(t *testing.T) {
	got := EnrichText("Copper Bottle", "", []string{"Kitchenware"}, nil, nil, nil)
	assert.Contains(t, got, "Kitchenware")
	assert.NotContains(t, got, "Kitchenware:")
}

func TestEnrichTextEmptyInputs(t *testing.T) {
	got := EnrichText("", "", nil, nil, nil, nil)
	assert.Equal(t, "", got)
}

func TestChunkTextShortTextSingleChunk(t *testing.T) {
	got := ChunkText("A short description.", 500)
	require.Len(t, got, 1)
	assert.Equal(t, "A short description.", got[0])
}

func TestChunkTextEmpty(t *testing.T) {
	assert.Nil(t, ChunkText("   ", 500))
}

func TestChunkTextSplitsOnSentences(t *testing.T) {
	text := "First sentence here. Second sentence follows! Third one asks? Fourth closes."

	got := ChunkText(text, 30)
	require.Greater(t, len(got), 1)

	// Budget plus the restored trailing period bounds every chunk; only a
	// single oversized sentence may exceed it.
	for _, chunk := range got {
		assert.True(t, strings.HasSuffix(chunk, "."), chunk)
		assert.LessOrEqual(t, len(chunk), 30+1, chunk)
	}

	// No sentence content is lost.
	joined := strings.Join(got, " ")
	for _, want := range []string{"First sentence here", "Second sentence follows", "Third one asks", "Fourth closes"} {
		assert.Contains(t, joined, want)
	}
}

func TestChunkTextOversizedSentenceKept(t *testing.T) {
	long := strings.Repeat("word ", 40) + "end"

	got := ChunkText(long+". Short one.", 50)
	require.GreaterOrEqual(t, len(got), 2)
	assert.Contains(t, got[0], "word word")
}

func TestChunkTextZeroBudgetUsesDefault(t *testing.T) {
	text := strings.Repeat("Sentence here. ", 10)
	got := ChunkText(text, 0)
	require.Len(t, got, 1, "150 chars fit the default budget")
}
