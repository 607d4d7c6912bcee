package text

import (
	"strings"

	"github.com/kljensen/snowball/english"
)

// irregularForms maps inflected words that suffix stripping gets wrong
// to their stems.
var irregularForms = map[string]string{
	"sky":      "sky",
	"skies":    "sky",
	"dying":    "die",
	"lying":    "lie",
	"tying":    "tie",
	"news":     "news",
	"innings":  "inning",
	"inning":   "inning",
	"outings":  "outing",
	"outing":   "outing",
	"cannings": "canning",
	"canning":  "canning",
	"howe":     "howe",
	"proceed":  "proceed",
	"exceed":   "exceed",
	"succeed":  "succeed",
}

// PorterStemmer implements the Porter suffix-stripping algorithm with the
// NLTK extensions: an irregular-form pool, untouched words of two runes
// or fewer, and the extra ies/ied, y, alli, fulli and logi rules.
type PorterStemmer struct{}

// NewPorterStemmer creates a new Porter stemmer
func NewPorterStemmer() *PorterStemmer {
	return &PorterStemmer{}
}

// Stem returns the stem of a word
func (p *PorterStemmer) Stem(word string) string {
	word = strings.ToLower(word)
	if base, ok := irregularForms[word]; ok {
		return base
	}

	w := []rune(word)
	if len(w) <= 2 {
		return word
	}

	w = step1a(w)
	w = step1b(w)
	w = step1c(w)
	w = step2(w)
	w = step3(w)
	w = step4(w)
	w = step5a(w)
	w = step5b(w)

	return string(w)
}

// SnowballStemmer wraps the Snowball English (Porter2) stemmer
type SnowballStemmer struct{}

// NewSnowballStemmer creates a new Snowball stemmer
func NewSnowballStemmer() *SnowballStemmer {
	return &SnowballStemmer{}
}

// Stem returns the Porter2 stem of a word
func (s *SnowballStemmer) Stem(word string) string {
	return english.Stem(word, true)
}

type rule struct {
	suffix      string
	replacement string
	cond        func(stem []rune) bool
}

func isConsonant(w []rune, i int) bool {
	switch w[i] {
	case 'a', 'e', 'i', 'o', 'u':
		return false
	case 'y':
		if i == 0 {
			return true
		}
		return !isConsonant(w, i-1)
	}
	return true
}

// measure counts vowel-consonant transitions, the m in [C](VC)^m[V]
func measure(w []rune) int {
	m := 0
	for i := 0; i+1 < len(w); i++ {
		if !isConsonant(w, i) && isConsonant(w, i+1) {
			m++
		}
	}
	return m
}

func positiveMeasure(stem []rune) bool {
	return measure(stem) > 0
}

func measureAboveOne(stem []rune) bool {
	return measure(stem) > 1
}

func containsVowel(w []rune) bool {
	for i := range w {
		if !isConsonant(w, i) {
			return true
		}
	}
	return false
}

func endsDoubleConsonant(w []rune) bool {
	n := len(w)
	return n >= 2 && w[n-1] == w[n-2] && isConsonant(w, n-1)
}

func endsCVC(w []rune) bool {
	n := len(w)
	if n >= 3 && isConsonant(w, n-3) && !isConsonant(w, n-2) && isConsonant(w, n-1) {
		switch w[n-1] {
		case 'w', 'x', 'y':
			return false
		}
		return true
	}
	return n == 2 && !isConsonant(w, 0) && isConsonant(w, 1)
}

func hasSuffix(w []rune, suffix string) bool {
	n := len(suffix)
	if len(w) < n {
		return false
	}
	return string(w[len(w)-n:]) == suffix
}

func withSuffix(stem []rune, suffix string) []rune {
	out := make([]rune, 0, len(stem)+len(suffix))
	out = append(out, stem...)
	return append(out, []rune(suffix)...)
}

func replaceSuffix(w []rune, suffix, replacement string) []rune {
	return withSuffix(w[:len(w)-len(suffix)], replacement)
}

// applyRules applies the first rule whose suffix matches. A matching rule
// whose condition fails stops the search.
func applyRules(w []rune, rules []rule) []rune {
	for _, r := range rules {
		if r.suffix == "*d" && endsDoubleConsonant(w) {
			stem := w[:len(w)-2]
			if r.cond == nil || r.cond(stem) {
				return withSuffix(stem, r.replacement)
			}
			return w
		}
		if hasSuffix(w, r.suffix) {
			stem := w[:len(w)-len(r.suffix)]
			if r.cond == nil || r.cond(stem) {
				return withSuffix(stem, r.replacement)
			}
			return w
		}
	}
	return w
}

func step1a(w []rune) []rune {
	if hasSuffix(w, "ies") && len(w) == 4 {
		return replaceSuffix(w, "ies", "ie")
	}
	return applyRules(w, []rule{
		{"sses", "ss", nil},
		{"ies", "i", nil},
		{"ss", "ss", nil},
		{"s", "", nil},
	})
}

func step1b(w []rune) []rune {
	if hasSuffix(w, "ied") {
		if len(w) == 4 {
			return replaceSuffix(w, "ied", "ie")
		}
		return replaceSuffix(w, "ied", "i")
	}

	if hasSuffix(w, "eed") {
		stem := w[:len(w)-3]
		if measure(stem) > 0 {
			return withSuffix(stem, "ee")
		}
		return w
	}

	var stem []rune
	matched := false
	for _, suffix := range []string{"ed", "ing"} {
		if hasSuffix(w, suffix) {
			stem = w[:len(w)-len(suffix)]
			if containsVowel(stem) {
				matched = true
				break
			}
		}
	}
	if !matched {
		return w
	}

	last := stem[len(stem)-1]
	return applyRules(stem, []rule{
		{"at", "ate", nil},
		{"bl", "ble", nil},
		{"iz", "ize", nil},
		{"*d", string(last), func([]rune) bool {
			return last != 'l' && last != 's' && last != 'z'
		}},
		{"", "e", func(s []rune) bool {
			return measure(s) == 1 && endsCVC(s)
		}},
	})
}

func step1c(w []rune) []rune {
	return applyRules(w, []rule{
		{"y", "i", func(stem []rune) bool {
			return len(stem) > 1 && isConsonant(stem, len(stem)-1)
		}},
	})
}

func step2(w []rune) []rune {
	if hasSuffix(w, "alli") && positiveMeasure(w[:len(w)-4]) {
		return step2(replaceSuffix(w, "alli", "al"))
	}

	return applyRules(w, []rule{
		{"ational", "ate", positiveMeasure},
		{"tional", "tion", positiveMeasure},
		{"enci", "ence", positiveMeasure},
		{"anci", "ance", positiveMeasure},
		{"izer", "ize", positiveMeasure},
		{"bli", "ble", positiveMeasure},
		{"alli", "al", positiveMeasure},
		{"entli", "ent", positiveMeasure},
		{"eli", "e", positiveMeasure},
		{"ousli", "ous", positiveMeasure},
		{"ization", "ize", positiveMeasure},
		{"ation", "ate", positiveMeasure},
		{"ator", "ate", positiveMeasure},
		{"alism", "al", positiveMeasure},
		{"iveness", "ive", positiveMeasure},
		{"fulness", "ful", positiveMeasure},
		{"ousness", "ous", positiveMeasure},
		{"aliti", "al", positiveMeasure},
		{"iviti", "ive", positiveMeasure},
		{"biliti", "ble", positiveMeasure},
		{"fulli", "ful", positiveMeasure},
		// the l of logi stays with the stem so geo-, theo- and friends qualify
		{"logi", "log", func([]rune) bool {
			return positiveMeasure(w[:len(w)-3])
		}},
	})
}

func step3(w []rune) []rune {
	return applyRules(w, []rule{
		{"icate", "ic", positiveMeasure},
		{"ative", "", positiveMeasure},
		{"alize", "al", positiveMeasure},
		{"iciti", "ic", positiveMeasure},
		{"ical", "ic", positiveMeasure},
		{"ful", "", positiveMeasure},
		{"ness", "", positiveMeasure},
	})
}

func step4(w []rune) []rune {
	return applyRules(w, []rule{
		{"al", "", measureAboveOne},
		{"ance", "", measureAboveOne},
		{"ence", "", measureAboveOne},
		{"er", "", measureAboveOne},
		{"ic", "", measureAboveOne},
		{"able", "", measureAboveOne},
		{"ible", "", measureAboveOne},
		{"ant", "", measureAboveOne},
		{"ement", "", measureAboveOne},
		{"ment", "", measureAboveOne},
		{"ent", "", measureAboveOne},
		{"ion", "", func(stem []rune) bool {
			if measure(stem) <= 1 {
				return false
			}
			last := stem[len(stem)-1]
			return last == 's' || last == 't'
		}},
		{"ou", "", measureAboveOne},
		{"ism", "", measureAboveOne},
		{"ate", "", measureAboveOne},
		{"iti", "", measureAboveOne},
		{"ous", "", measureAboveOne},
		{"ive", "", measureAboveOne},
		{"ize", "", measureAboveOne},
	})
}

func step5a(w []rune) []rune {
	if hasSuffix(w, "e") {
		stem := w[:len(w)-1]
		m := measure(stem)
		if m > 1 || (m == 1 && !endsCVC(stem)) {
			return stem
		}
	}
	return w
}

func step5b(w []rune) []rune {
	return applyRules(w, []rule{
		{"ll", "l", func([]rune) bool {
			return measure(w[:len(w)-1]) > 1
		}},
	})
}
