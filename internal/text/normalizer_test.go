package text

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
)

// fixtureStopwords is a small deterministic list that does not contain "now"
var fixtureStopwords = []string{"the", "is", "and", "a", "to", "you", "are"}

func TestNormalizer_Normalize(t *testing.T) {
	n := NewNormalizer(NewWordTokenizer(), NewStopwordSet(fixtureStopwords), NewPorterStemmer(), zaptest.NewLogger(t))

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace", "   \t\n", ""},
		{"pure punctuation", "!!! ??? ...", ""},
		{"stopword and stem", "The quick running fox", "quick run fox"},
		{"case and symbols", "WIN $$$ FREE now!!!", "win free now"},
		{"numbers kept", "Call 0800 now", "call 0800 now"},
		{"multiple sentences", "You are a WINNER. Claim the prize!", "winner claim prize"},
		{"unicode letters", "Café GRATUIT", "café gratuit"},
		{"invalid utf8", "fr\xffee", "free"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizer_DefaultStopwords(t *testing.T) {
	n := NewNormalizer(nil, nil, nil, nil)

	// "now" is part of the English list
	if got := n.Normalize("WIN $$$ FREE now!!!"); got != "win free" {
		t.Errorf("Normalize = %q, want %q", got, "win free")
	}
	if got := n.Normalize("The quick running fox"); got != "quick run fox" {
		t.Errorf("Normalize = %q, want %q", got, "quick run fox")
	}
}

func TestNormalizer_Deterministic(t *testing.T) {
	n := NewNormalizer(nil, nil, nil, nil)
	input := "URGENT! You have WON a £1,000 cash prize. Call 09061701461 to claim, it's free."
	first := n.Normalize(input)
	for i := 0; i < 10; i++ {
		if got := n.Normalize(input); got != first {
			t.Fatalf("Normalize not deterministic: %q then %q", first, got)
		}
	}
}

func TestNormalizer_LongInput(t *testing.T) {
	n := NewNormalizer(nil, nil, nil, nil)
	input := strings.Repeat("free prize ", 10000)
	got := n.Normalize(input)
	if len(strings.Fields(got)) != 20000 {
		t.Errorf("expected 20000 tokens, got %d", len(strings.Fields(got)))
	}
}

func TestNormalizer_OutputIsAlphanumeric(t *testing.T) {
	n := NewNormalizer(nil, nil, nil, nil)
	inputs := []string{
		"hello-world e-mail me@example.com",
		"'quoted' \"double\" (paren) [bracket]",
		"can't won't shouldn't",
		"€100 £50 $20 ¥1000",
	}
	for _, input := range inputs {
		for _, tok := range strings.Fields(n.Normalize(input)) {
			if !isAlnum(tok) {
				t.Errorf("Normalize(%q) produced non-alphanumeric token %q", input, tok)
			}
		}
	}
}
