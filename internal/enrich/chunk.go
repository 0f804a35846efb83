package enrich

import "strings"

// DefaultMaxChunkSize is the character budget used when chunking long
// descriptions for embedding.
const DefaultMaxChunkSize = 500

// ChunkText splits text into chunks of at most maxChunkSize characters,
// breaking only on sentence boundaries (., !, ?). Sentences are greedily
// packed; each chunk gets a trailing period restored. Text already within
// the budget is returned as a single chunk.
//
// A single sentence longer than maxChunkSize becomes its own oversized
// chunk; sentences are never split.
func ChunkText(text string, maxChunkSize int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}
	if len(text) <= maxChunkSize {
		return []string{text}
	}

	sentences := splitSentences(text)

	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		chunks = append(chunks, current.String()+".")
		current.Reset()
	}

	for _, sentence := range sentences {
		if current.Len() > 0 && current.Len()+1+len(sentence) > maxChunkSize {
			flush()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
	}
	flush()

	return chunks
}

// splitSentences splits on sentence terminators, trimming whitespace and
// dropping empty fragments. Terminators are not kept; ChunkText restores a
// trailing period per chunk.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range text {
		switch r {
		case '.', '!', '?':
			s := strings.TrimSpace(current.String())
			if s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}
