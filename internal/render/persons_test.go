package render

import (
	"reflect"
	"testing"
)

func TestSplitPersonList(t *testing.T) {
	tests := []struct {
		name  string
		field string
		want  []string
	}{
		{"arabic comma", "علی رضایی، حسن محمدی", []string{"علی رضایی", "حسن محمدی"}},
		{"latin comma", "Jane Roe, John Doe", []string{"Jane Roe", "John Doe"}},
		{"semicolon and slash", "a bc; de fg / hi jk", []string{"a bc", "de fg", "hi jk"}},
		{"single name", "علی رضایی", []string{"علی رضایی"}},
		{"drops empty parts", "،، علی رضایی ،", []string{"علی رضایی"}},
		{"empty field", "", nil},
		{"whitespace only", "   ", nil},
		{"only delimiters", "،;/,", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitPersonList(tt.field)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitPersonList(%q) = %v, want %v", tt.field, got, tt.want)
			}
		})
	}
}
