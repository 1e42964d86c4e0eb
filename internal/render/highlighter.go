// Package render turns backend documents into render-ready presentation
// records: safe highlighting, header tags, person rows, and keyword chips.
package render

import (
	"html"
	"html/template"
	"regexp"
	"strings"

	"github.com/pajuhan/tezyab/internal/query"
)

// Highlight HTML-escapes text and wraps every occurrence of every token in a
// <mark> element. The text is escaped before matching so a highlight can
// never be abused to smuggle markup in, and every token is regexp-quoted so
// punctuation copied into the query cannot change match semantics or break
// the pattern. Matching is global and case-sensitive. Empty text or an empty
// token set returns the escaped text unchanged; Highlight never fails.
func Highlight(text string, tokens query.TokenSet) template.HTML {
	escaped := html.EscapeString(text)
	if text == "" || tokens.Len() == 0 {
		return template.HTML(escaped)
	}
	alternates := make([]string, 0, tokens.Len())
	for _, tok := range tokens.Tokens() {
		// Tokens are matched against escaped text, so escape them the same way
		// before neutralizing regexp metacharacters.
		alternates = append(alternates, regexp.QuoteMeta(html.EscapeString(tok)))
	}
	pattern, err := regexp.Compile(strings.Join(alternates, "|"))
	if err != nil {
		return template.HTML(escaped)
	}
	return template.HTML(pattern.ReplaceAllString(escaped, "<mark>$0</mark>"))
}
