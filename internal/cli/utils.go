// Package cli provides CLI output utilities for TezYab.
package cli

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/pajuhan/tezyab/internal/models"
	"github.com/pajuhan/tezyab/internal/search"
)

// OutputFormat is the format for search result output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is the presentation records as JSON, consumable by any UI.
	OutputJSON OutputFormat = "json"
)

// WriteOutcome writes a search outcome to w in the given format.
func WriteOutcome(w io.Writer, outcome *search.Outcome, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(outcome)
	default:
		writeOutcomeText(w, outcome)
		return nil
	}
}

func writeOutcomeText(w io.Writer, outcome *search.Outcome) {
	fmt.Fprintf(w, "\nFound %d results for %q (parser: %s)\n", outcome.Count, outcome.Query, outcome.ParserUsed)
	if outcome.ORUsed {
		fmt.Fprintln(w, "Filters relaxed to OR to increase recall.")
	}
	if outcome.Expansion.Visible {
		fmt.Fprintf(w, "Expanded with: %s\n", strings.Join(addedTokens(outcome), " "))
	}
	fmt.Fprintln(w)
	for i := range outcome.Records {
		writeOneRecord(w, &outcome.Records[i])
	}
}

func addedTokens(outcome *search.Outcome) []string {
	var out []string
	for _, chip := range outcome.Expansion.Chips {
		if chip.Origin == models.OriginAdded {
			out = append(out, chip.Token)
		}
	}
	return out
}

func writeOneRecord(w io.Writer, rec *models.PresentationRecord) {
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "%d. %s\n", rec.Rank, StripMarks(string(rec.Title)))
	for _, tag := range rec.Tags {
		fmt.Fprintf(w, "  [%s] %s\n", tag.Kind, tag.Text)
	}
	for _, row := range rec.PersonRows {
		fmt.Fprintf(w, "  %s: %s\n", row.Label, strings.Join(row.Names, " | "))
	}
	if rec.Abstract != nil {
		fmt.Fprintf(w, "\n%s\n", Truncate(StripMarks(string(rec.Abstract.Body)), 300))
	}
	if len(rec.KeywordChips) > 0 {
		parts := make([]string, 0, len(rec.KeywordChips))
		for _, chip := range rec.KeywordChips {
			if chip.IsMatch {
				parts = append(parts, "*"+chip.Text+"*")
			} else {
				parts = append(parts, chip.Text)
			}
		}
		fmt.Fprintf(w, "  keywords: %s\n", strings.Join(parts, ", "))
	}
	fmt.Fprintln(w)
}

// StripMarks converts highlighted HTML back to plain terminal text: mark tags
// are removed and HTML entities decoded.
func StripMarks(s string) string {
	s = strings.ReplaceAll(s, "<mark>", "")
	s = strings.ReplaceAll(s, "</mark>", "")
	return html.UnescapeString(s)
}

// Truncate truncates s to maxLen runes and appends "..." if truncated.
// Rune-based so Persian text is never cut mid-character.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
