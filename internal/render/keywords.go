package render

import (
	"strings"

	"github.com/pajuhan/tezyab/internal/models"
	"github.com/pajuhan/tezyab/internal/query"
)

// SplitKeywords splits the backend's newline-separated keyword field into
// trimmed keywords, dropping empty lines.
func SplitKeywords(text string) []string {
	var keywords []string
	for _, line := range strings.Split(text, "\n") {
		if kw := strings.TrimSpace(line); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// KeywordChips builds one chip per keyword, flagging those that overlap the
// active query tokens. Overlap is fuzzy containment in either direction, so a
// compound keyword like "شبکه عصبی" still matches the token "شبکه" and a long
// token still matches a shorter keyword inside it.
func KeywordChips(keywordText string, tokens query.TokenSet) []models.KeywordChip {
	keywords := SplitKeywords(keywordText)
	if len(keywords) == 0 {
		return nil
	}
	chips := make([]models.KeywordChip, 0, len(keywords))
	for _, kw := range keywords {
		chips = append(chips, models.KeywordChip{Text: kw, IsMatch: keywordMatches(kw, tokens)})
	}
	return chips
}

func keywordMatches(keyword string, tokens query.TokenSet) bool {
	for _, tok := range tokens.Tokens() {
		if strings.Contains(keyword, tok) || strings.Contains(tok, keyword) {
			return true
		}
	}
	return false
}
