package sitecrawl

import (
	"context"
	"strings"
)

var keywordStopwords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"if": true, "because": true, "as": true, "what": true, "when": true,
	"where": true, "how": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "been": true, "being": true, "have": true,
	"has": true, "had": true, "do": true, "does": true, "did": true,
	"to": true, "from": true, "in": true, "out": true, "get": true,
	"find": true, "extract": true, "information": true, "about": true,
}

// Keywords returns the lowercased words of instructions longer than three
// characters that are not stopwords.
func Keywords(instructions string) []string {
	var a []string
	for _, w := range strings.Fields(strings.ToLower(instructions)) {
		if len(w) > 3 && !keywordStopwords[w] {
			a = append(a, w)
		}
	}
	return a
}

// KeywordRelevance scores content and title by how many instruction
// keywords they contain. Title hits weigh three times as much as content hits.
func KeywordRelevance(content, title, instructions string) *Relevance {
	keywords := Keywords(instructions)
	if len(keywords) == 0 {
		return &Relevance{Score: 0.5, Reason: "No specific keywords found in instructions"}
	}

	content = strings.ToLower(content)
	title = strings.ToLower(title)

	var titleHits, contentHits int
	for _, k := range keywords {
		if strings.Contains(title, k) {
			titleHits++
		}
		if strings.Contains(content, k) {
			contentHits++
		}
	}

	score := ClampScore(float64(titleHits*3+contentHits) / float64(len(keywords)*4))

	var reason string
	switch {
	case score > 0.7:
		reason = "High keyword match in title and content"
	case score > 0.4:
		reason = "Moderate keyword match"
	default:
		reason = "Low keyword match"
	}
	return &Relevance{Score: score, Reason: reason}
}

// Ensure KeywordGate implements RelevanceGate at compile time.
var _ RelevanceGate = KeywordGate{}

// KeywordGate is a RelevanceGate that needs no model. It is used when no AI
// backend is configured and as a fallback when one fails.
type KeywordGate struct{}

// ScoreRelevance implements RelevanceGate.
func (KeywordGate) ScoreRelevance(ctx context.Context, content, title, instructions string) (*Relevance, error) {
	return KeywordRelevance(content, title, instructions), nil
}
