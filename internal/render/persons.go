package render

import (
	"regexp"
	"strings"
)

// personDelimiters matches the separators the backend uses inside name
// fields: comma, Arabic comma, semicolon, and slash.
var personDelimiters = regexp.MustCompile(`[,،;/]`)

// SplitPersonList splits a delimiter-separated name field into individual
// trimmed names, dropping empty parts. A field that reduces to zero names
// returns nil.
func SplitPersonList(field string) []string {
	if strings.TrimSpace(field) == "" {
		return nil
	}
	var names []string
	for _, part := range personDelimiters.Split(field, -1) {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
