package text

import (
	"reflect"
	"testing"
)

func TestWordTokenizer_Tokenize(t *testing.T) {
	tok := NewWordTokenizer()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"plain words", "the quick fox", []string{"the", "quick", "fox"}},
		{"trailing period", "call me now.", []string{"call", "me", "now", "."}},
		{"comma", "hello, world", []string{"hello", ",", "world"}},
		{"exclamations", "free now!!!", []string{"free", "now", "!", "!", "!"}},
		{"symbols", "win $$$ today", []string{"win", "$", "$", "$", "today"}},
		{"negation clitic", "don't stop", []string{"do", "n't", "stop"}},
		{"possessive clitic", "it's free", []string{"it", "'s", "free"}},
		{"decimal kept whole", "3.5 stars", []string{"3.5", "stars"}},
		{"thousands kept whole", "1,000 prizes", []string{"1,000", "prizes"}},
		{"cannot", "i cannot go", []string{"i", "can", "not", "go"}},
		{"gonna", "gonna win", []string{"gon", "na", "win"}},
		{"brackets", "(free) entry", []string{"(", "free", ")", "entry"}},
		{"double quotes", `"hello"`, []string{"``", "hello", "''"}},
		{"two sentences", "hello there. how are you?", []string{"hello", "there", ".", "how", "are", "you", "?"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tok.Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitLeadingApostrophes(t *testing.T) {
	if got := splitLeadingApostrophes("'x marks"); got != "' x marks" {
		t.Errorf("expected apostrophe split from single letter, got %q", got)
	}
	if got := splitLeadingApostrophes("it's"); got != "it's" {
		t.Errorf("expected clitic untouched, got %q", got)
	}
	if got := splitLeadingApostrophes("'hello"); got != "'hello" {
		t.Errorf("expected longer word untouched, got %q", got)
	}
}
