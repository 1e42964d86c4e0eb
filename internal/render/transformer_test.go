package render

import (
	"reflect"
	"strings"
	"testing"

	"github.com/pajuhan/tezyab/internal/models"
	"github.com/pajuhan/tezyab/internal/query"
)

func fullDoc() *models.RawDocument {
	return &models.RawDocument{
		ID:          4217,
		Title:       "بررسی شبکه های عصبی",
		AbsText:     "چکیده‌ای درباره شبکه های عصبی و یادگیری عمیق",
		KeywordText: "شبکه عصبی\nیادگیری عمیق",
		Degree:      "کارشناسی ارشد",
		Year:        "1399",
		DocType:     "پایان‌نامه",
		Authors:     "علی رضایی، حسن محمدی",
		Advisors:    "مریم احمدی",
		University:  "دانشگاه تهران",
		Score:       0.8734,
	}
}

func TestTransform_scorePercent(t *testing.T) {
	rec := Transform(&models.RawDocument{Score: 0.8734}, 1, query.TokenSet{})
	if rec.ScorePercent != "87.3" {
		t.Errorf("ScorePercent = %q, want %q", rec.ScorePercent, "87.3")
	}
}

func TestFormatScorePercent(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.8734, "87.3"},
		{1, "100.0"},
		{0, "0.0"},
		{0.005, "0.5"},
	}
	for _, tt := range tests {
		if got := FormatScorePercent(tt.score); got != tt.want {
			t.Errorf("FormatScorePercent(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestTransform_tagsFixedOrder(t *testing.T) {
	rec := Transform(fullDoc(), 1, query.TokenSet{})
	want := []models.Tag{
		{Kind: "id", Text: "4217"},
		{Kind: "degree", Text: "کارشناسی ارشد"},
		{Kind: "year", Text: "1399"},
		{Kind: "doc_type", Text: "پایان‌نامه"},
		{Kind: "university", Text: "دانشگاه تهران"},
		{Kind: "score", Text: "87.3%"},
	}
	if !reflect.DeepEqual(rec.Tags, want) {
		t.Errorf("tags = %v, want %v", rec.Tags, want)
	}
}

func TestTransform_absentFieldsContributeNoTag(t *testing.T) {
	rec := Transform(&models.RawDocument{Year: "1400", Score: 0.5}, 1, query.TokenSet{})
	want := []models.Tag{
		{Kind: "year", Text: "1400"},
		{Kind: "score", Text: "50.0%"},
	}
	if !reflect.DeepEqual(rec.Tags, want) {
		t.Errorf("tags = %v, want %v", rec.Tags, want)
	}
}

func TestTransform_personRows(t *testing.T) {
	rec := Transform(fullDoc(), 1, query.TokenSet{})
	if len(rec.PersonRows) != 2 {
		t.Fatalf("expected 2 person rows, got %v", rec.PersonRows)
	}
	authors := rec.PersonRows[0]
	if authors.Label != "creator" || len(authors.Names) != 2 {
		t.Errorf("author row = %+v, want creator with 2 names", authors)
	}
	if authors.Names[0] != "علی رضایی" || authors.Names[1] != "حسن محمدی" {
		t.Errorf("author names = %v", authors.Names)
	}
	advisors := rec.PersonRows[1]
	if advisors.Label != "supervisor" || len(advisors.Names) != 1 {
		t.Errorf("advisor row = %+v, want supervisor with 1 name", advisors)
	}
}

func TestTransform_emptyPersonFieldOmitsRow(t *testing.T) {
	doc := &models.RawDocument{Authors: " ، ", Advisors: "", CoAdvisors: " ; / "}
	rec := Transform(doc, 1, query.TokenSet{})
	if len(rec.PersonRows) != 0 {
		t.Errorf("expected no person rows, got %v", rec.PersonRows)
	}
}

func TestTransform_noBody(t *testing.T) {
	rec := Transform(&models.RawDocument{Title: "x", Score: 0.5}, 1, query.TokenSet{})
	if rec.HasBody() {
		t.Error("record without people, abstract, and keywords must signal no body")
	}
	full := Transform(fullDoc(), 1, query.TokenSet{})
	if !full.HasBody() {
		t.Error("record with body content must signal a body")
	}
}

func TestTransform_abstract(t *testing.T) {
	rec := Transform(fullDoc(), 1, query.Tokenize("شبکه"))
	if rec.Abstract == nil {
		t.Fatal("expected abstract block")
	}
	if rec.Abstract.Expanded {
		t.Error("abstract must start collapsed")
	}
	if !strings.Contains(string(rec.Abstract.Body), "<mark>شبکه</mark>") {
		t.Errorf("abstract body not highlighted: %q", rec.Abstract.Body)
	}
	empty := Transform(&models.RawDocument{AbsText: "  "}, 1, query.TokenSet{})
	if empty.Abstract != nil {
		t.Error("blank abstract must be omitted")
	}
}

func TestTransform_titleFallback(t *testing.T) {
	rec := Transform(&models.RawDocument{}, 1, query.Tokenize("شبکه"))
	if string(rec.Title) != titlePlaceholder {
		t.Errorf("title = %q, want placeholder %q", rec.Title, titlePlaceholder)
	}
}

func TestTransform_titleHighlighted(t *testing.T) {
	rec := Transform(fullDoc(), 3, query.Tokenize("شبکه"))
	if !strings.Contains(string(rec.Title), "<mark>شبکه</mark>") {
		t.Errorf("title not highlighted: %q", rec.Title)
	}
	if rec.Rank != 3 {
		t.Errorf("rank = %d, want 3", rec.Rank)
	}
}
