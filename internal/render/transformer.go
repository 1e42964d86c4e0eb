package render

import (
	"strconv"
	"strings"

	"github.com/pajuhan/tezyab/internal/models"
	"github.com/pajuhan/tezyab/internal/query"
)

// titlePlaceholder is shown when a document arrives without a title.
const titlePlaceholder = "—"

// personField binds one backend name field to its row icon and label.
type personField struct {
	icon  string
	label string
	value func(*models.RawDocument) string
}

var personFields = []personField{
	{"user", "creator", func(d *models.RawDocument) string { return d.Authors }},
	{"mentor", "supervisor", func(d *models.RawDocument) string { return d.Advisors }},
	{"mentor-plus", "co-supervisor", func(d *models.RawDocument) string { return d.CoAdvisors }},
}

// Transform turns one backend document into a render-ready record. rank is
// the 1-based position in the result list and highlightTokens drives title,
// abstract, and keyword highlighting. Missing fields degrade silently: absent
// tags, rows, abstract, or keywords simply do not appear.
func Transform(doc *models.RawDocument, rank int, highlightTokens query.TokenSet) models.PresentationRecord {
	title := strings.TrimSpace(doc.Title)
	if title == "" {
		title = titlePlaceholder
	}
	rec := models.PresentationRecord{
		Rank:         rank,
		Title:        Highlight(title, highlightTokens),
		ScorePercent: FormatScorePercent(doc.Score),
	}
	rec.Tags = buildTags(doc, rec.ScorePercent)
	for _, pf := range personFields {
		names := SplitPersonList(pf.value(doc))
		if len(names) == 0 {
			continue
		}
		rec.PersonRows = append(rec.PersonRows, models.PersonRow{Icon: pf.icon, Label: pf.label, Names: names})
	}
	if abs := strings.TrimSpace(doc.AbsText); abs != "" {
		rec.Abstract = &models.Abstract{Body: Highlight(abs, highlightTokens)}
	}
	rec.KeywordChips = KeywordChips(doc.KeywordText, highlightTokens)
	return rec
}

// buildTags assembles the header tags in fixed order. Each tag appears only
// when its field is non-empty; the score tag is always last.
func buildTags(doc *models.RawDocument, scorePercent string) []models.Tag {
	var tags []models.Tag
	if doc.ID != 0 {
		tags = append(tags, models.Tag{Kind: "id", Text: strconv.FormatInt(doc.ID, 10)})
	}
	for _, t := range []models.Tag{
		{Kind: "degree", Text: strings.TrimSpace(doc.Degree)},
		{Kind: "year", Text: strings.TrimSpace(doc.Year)},
		{Kind: "doc_type", Text: strings.TrimSpace(doc.DocType)},
		{Kind: "university", Text: strings.TrimSpace(doc.University)},
	} {
		if t.Text != "" {
			tags = append(tags, t)
		}
	}
	return append(tags, models.Tag{Kind: "score", Text: scorePercent + "%"})
}

// FormatScorePercent renders a [0,1] score as a percentage with one decimal
// place, e.g. 0.8734 -> "87.3". It is always derived from the score field,
// never supplied independently.
func FormatScorePercent(score float64) string {
	return strconv.FormatFloat(score*100, 'f', 1, 64)
}
