package text

import (
	"strings"
	"unicode"

	"github.com/mikey/spam-classifier/internal/ports"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalizer turns a raw message into the space-joined sequence of
// stemmed, non-stopword alphanumeric tokens the models were trained on.
// It is safe for concurrent use.
type Normalizer struct {
	tokenizer ports.Tokenizer
	stopwords ports.Stopwords
	stemmer   ports.Stemmer
	processor *TextProcessor
	logger    *zap.Logger
}

// NewNormalizer creates a new Normalizer. Nil collaborators fall back to
// the Treebank tokenizer, the English stopword list and the Porter stemmer.
func NewNormalizer(tokenizer ports.Tokenizer, stopwords ports.Stopwords, stemmer ports.Stemmer, logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tokenizer == nil {
		tokenizer = NewWordTokenizer()
	}
	if stopwords == nil {
		stopwords = EnglishStopwords()
	}
	if stemmer == nil {
		stemmer = NewPorterStemmer()
	}
	return &Normalizer{
		tokenizer: tokenizer,
		stopwords: stopwords,
		stemmer:   stemmer,
		processor: NewTextProcessor(logger),
		logger:    logger,
	}
}

// Normalize never fails. Input without alphanumeric tokens yields "".
func (n *Normalizer) Normalize(raw string) string {
	clean := n.processor.SanitizeUTF8(raw)
	// a Caser keeps state and must not be shared between goroutines
	lowered := cases.Lower(language.Und).String(clean)

	tokens := n.tokenizer.Tokenize(lowered)
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !isAlnum(tok) {
			continue
		}
		if n.stopwords.Contains(tok) || isPunctuation(tok) {
			continue
		}
		kept = append(kept, n.stemmer.Stem(tok))
	}

	return strings.Join(kept, " ")
}

func isAlnum(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

func isPunctuation(tok string) bool {
	for _, r := range tok {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return tok != ""
}
