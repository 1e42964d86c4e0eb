// Package query normalizes query strings into token sets and diffs expanded
// queries against the original.
package query

import (
	"strings"
	"unicode/utf8"
)

// minTokenLen is the minimum token length in runes. Shorter terms (Persian
// single-letter particles, stray latin characters) carry no search signal.
const minTokenLen = 2

// TokenSet is a deduplicated collection of query tokens. Membership is exact
// string equality; first-seen order is preserved for display.
type TokenSet struct {
	tokens []string
	seen   map[string]struct{}
}

// Tokenize splits s on whitespace into a TokenSet, dropping terms shorter
// than two runes and duplicates (first occurrence wins). An empty or
// whitespace-only string yields an empty set; Tokenize never fails.
func Tokenize(s string) TokenSet {
	return TokenizeList(strings.Fields(s))
}

// TokenizeList builds a TokenSet from pre-split terms. Entries are filtered
// and deduplicated like Tokenize but never re-split, so tokenizing an
// already-tokenized list is a no-op.
func TokenizeList(parts []string) TokenSet {
	var ts TokenSet
	for _, p := range parts {
		ts.add(p)
	}
	return ts
}

func (ts *TokenSet) add(tok string) {
	if utf8.RuneCountInString(tok) < minTokenLen {
		return
	}
	if _, dup := ts.seen[tok]; dup {
		return
	}
	if ts.seen == nil {
		ts.seen = make(map[string]struct{})
	}
	ts.seen[tok] = struct{}{}
	ts.tokens = append(ts.tokens, tok)
}

// Contains reports whether tok is in the set.
func (ts TokenSet) Contains(tok string) bool {
	_, ok := ts.seen[tok]
	return ok
}

// Tokens returns the tokens in first-seen order. The slice is a copy.
func (ts TokenSet) Tokens() []string {
	return append([]string(nil), ts.tokens...)
}

// Len returns the number of tokens in the set.
func (ts TokenSet) Len() int {
	return len(ts.tokens)
}

// Union returns a new set with extra appended after the receiver's tokens.
// Neither input is modified; extra entries go through the usual filtering.
func (ts TokenSet) Union(extra ...string) TokenSet {
	out := TokenizeList(ts.tokens)
	for _, tok := range extra {
		out.add(tok)
	}
	return out
}
