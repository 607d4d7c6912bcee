package text

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

type substitution struct {
	re   *regexp.Regexp
	repl string
}

func sub(pattern, repl string) substitution {
	return substitution{re: regexp.MustCompile(pattern), repl: repl}
}

var (
	startingQuotes = []substitution{
		sub("([«“‘„]|`+)", " $1 "),
		sub(`^"`, "``"),
		sub("(``)", " $1 "),
		sub(`([ (\[{<])("|'')`, "$1 `` "),
	}

	punctuation = []substitution{
		sub(`([^.])(\.)([\])}>"'»”’ ]*)\s*$`, "$1 $2 $3 "),
		sub(`([:,])([^\p{Nd}])`, " $1 $2"),
		sub(`([:,])$`, " $1 "),
		sub(`\.{2,}`, " $0 "),
		sub(`[;@#$%&]`, " $0 "),
		sub(`([^.])(\.)([\])}>"']*)\s*$`, "$1 $2$3 "),
		sub(`[?!]`, " $0 "),
		sub(`([^'])' `, "$1 ' "),
		sub(`[*]`, " $0 "),
	}

	parensBrackets = sub(`[\]\[(){}<>]`, " $0 ")
	doubleDashes   = sub(`--`, " -- ")

	endingQuotes = []substitution{
		sub("([»”’])", " $1 "),
		sub(`''`, " '' "),
		sub(`"`, " '' "),
		sub(`([^' ])('[sS]|'[mM]|'[dD]|') `, "$1 $2 "),
		sub(`([^' ])('ll|'LL|'re|'RE|'ve|'VE|n't|N'T) `, "$1 $2 "),
	}

	contractions = []substitution{
		sub(`(?i)\b(can)(not)\b`, " $1 $2 "),
		sub(`(?i)\b(d)('ye)\b`, " $1 $2 "),
		sub(`(?i)\b(gim)(me)\b`, " $1 $2 "),
		sub(`(?i)\b(gon)(na)\b`, " $1 $2 "),
		sub(`(?i)\b(got)(ta)\b`, " $1 $2 "),
		sub(`(?i)\b(lem)(me)\b`, " $1 $2 "),
		sub(`(?i)\b(more)('n)\b`, " $1 $2 "),
		sub(`(?i)\b(wan)(na)\s`, " $1 $2 "),
		sub(`(?i) ('t)(is)\b`, " $1 $2 "),
		sub(`(?i) ('t)(was)\b`, " $1 $2 "),
	}
)

// WordTokenizer segments text into sentences and applies Penn Treebank
// word rules to each: punctuation is split from words, clitics such as
// "n't" and "'s" become their own tokens and numbers like "3.5" or "1,000"
// stay whole.
type WordTokenizer struct{}

// NewWordTokenizer creates a new WordTokenizer
func NewWordTokenizer() *WordTokenizer {
	return &WordTokenizer{}
}

// Tokenize splits text into word and punctuation tokens in input order
func (t *WordTokenizer) Tokenize(text string) []string {
	var tokens []string
	for _, sentence := range SplitSentences(text) {
		tokens = append(tokens, tokenizeSentence(sentence)...)
	}
	return tokens
}

func tokenizeSentence(s string) []string {
	for _, r := range startingQuotes {
		s = r.re.ReplaceAllString(s, r.repl)
	}
	s = splitLeadingApostrophes(s)

	for _, r := range punctuation {
		s = r.re.ReplaceAllString(s, r.repl)
	}

	s = parensBrackets.re.ReplaceAllString(s, parensBrackets.repl)
	s = doubleDashes.re.ReplaceAllString(s, doubleDashes.repl)

	s = " " + s + " "

	for _, r := range endingQuotes {
		s = r.re.ReplaceAllString(s, r.repl)
	}
	for _, r := range contractions {
		s = r.re.ReplaceAllString(s, r.repl)
	}

	return strings.Fields(s)
}

// splitLeadingApostrophes separates an apostrophe from a following
// single-character word unless it forms a clitic ('m, 't, 's, 'd, 'n).
func splitLeadingApostrophes(s string) string {
	if !strings.Contains(s, "'") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		b.WriteByte(s[i])
		if s[i] != '\'' {
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i+1:])
		if size == 0 || !isWordRune(r) || strings.ContainsRune("mtsdnMTSDN", r) {
			continue
		}
		after, _ := utf8.DecodeRuneInString(s[i+1+size:])
		if i+1+size < len(s) && isWordRune(after) {
			continue
		}
		b.WriteByte(' ')
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
