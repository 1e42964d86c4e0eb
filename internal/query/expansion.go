package query

import "github.com/pajuhan/tezyab/internal/models"

// DiffExpansion compares the backend's expanded query against the original
// and builds the expansion panel state. Every token of the expanded query
// becomes a chip, in order, classified as original (already searched for) or
// added (introduced by the expander). The panel is only visible when at least
// one added token exists; an expansion that echoes the original terms carries
// no information and stays hidden.
func DiffExpansion(original, expanded string) models.ExpansionResult {
	if expanded == "" || expanded == original {
		return models.ExpansionResult{}
	}
	q := Tokenize(original)
	var (
		chips []models.ExpansionChip
		added bool
	)
	for _, tok := range Tokenize(expanded).Tokens() {
		origin := models.OriginAdded
		if q.Contains(tok) {
			origin = models.OriginOriginal
		} else {
			added = true
		}
		chips = append(chips, models.ExpansionChip{Token: tok, Origin: origin})
	}
	return models.ExpansionResult{Chips: chips, Visible: added}
}

// AddedTokens returns the tokens of the chips classified as added, in order.
func AddedTokens(result models.ExpansionResult) []string {
	var out []string
	for _, chip := range result.Chips {
		if chip.Origin == models.OriginAdded {
			out = append(out, chip.Token)
		}
	}
	return out
}
