package text

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// abbreviations are period-final words that do not end a sentence.
// Entries are lowercase without the final period.
var abbreviations = map[string]struct{}{
	"mr": {}, "mrs": {}, "ms": {}, "dr": {}, "prof": {}, "jr": {}, "sr": {},
	"st": {}, "vs": {}, "etc": {}, "inc": {}, "ltd": {}, "co": {}, "corp": {},
	"e.g": {}, "i.e": {}, "u.s": {}, "u.k": {}, "a.m": {}, "p.m": {},
	"jan": {}, "feb": {}, "aug": {}, "sept": {}, "oct": {}, "nov": {}, "dec": {},
	"approx": {}, "dept": {}, "est": {}, "govt": {}, "mt": {}, "ft": {}, "ave": {},
}

var numericRe = regexp.MustCompile(`^-?[.,]?\p{Nd}[\p{Nd},.\-]*$`)

const (
	sentenceClosers = "\"')]}»”’"
	chunkOpeners    = "\"'([{<«“‘"
	orthoBreakers   = ";:,.!?"
)

type span struct {
	start, end int
}

// SplitSentences segments lowercased text into sentences.
//
// A whitespace-delimited chunk ending in '.', '?' or '!' closes a sentence
// when another chunk follows, unless it is an ellipsis or a known
// abbreviation. Initials and numbers only close a sentence when the next
// chunk does not start with a lowercase letter.
func SplitSentences(text string) []string {
	chunks := whitespaceChunks(text)
	var sentences []string
	start := 0
	for i := 0; i+1 < len(chunks); i++ {
		cur := text[chunks[i].start:chunks[i].end]
		next := text[chunks[i+1].start:chunks[i+1].end]
		if !endsSentence(cur, next) {
			continue
		}
		if s := strings.TrimSpace(text[start:chunks[i].end]); s != "" {
			sentences = append(sentences, s)
		}
		start = chunks[i].end
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func whitespaceChunks(text string) []span {
	var chunks []span
	inChunk := false
	begin := 0
	for i, r := range text {
		if unicode.IsSpace(r) {
			if inChunk {
				chunks = append(chunks, span{begin, i})
				inChunk = false
			}
			continue
		}
		if !inChunk {
			begin = i
			inChunk = true
		}
	}
	if inChunk {
		chunks = append(chunks, span{begin, len(text)})
	}
	return chunks
}

func endsSentence(chunk, next string) bool {
	core := strings.TrimRight(chunk, sentenceClosers)
	if core == "" {
		return false
	}
	switch core[len(core)-1] {
	case '?', '!':
		return true
	case '.':
	default:
		return false
	}
	if strings.HasSuffix(core, "..") {
		return false
	}

	word := strings.TrimLeft(strings.TrimSuffix(core, "."), chunkOpeners)
	if isAbbreviation(word) {
		return false
	}
	if isInitial(word) || numericRe.MatchString(word) {
		r, _ := utf8.DecodeRuneInString(next)
		if unicode.IsLower(r) || strings.ContainsRune(orthoBreakers, r) {
			return false
		}
	}
	return true
}

func isAbbreviation(word string) bool {
	if _, ok := abbreviations[word]; ok {
		return true
	}
	if i := strings.LastIndex(word, "-"); i >= 0 {
		_, ok := abbreviations[word[i+1:]]
		return ok
	}
	return false
}

func isInitial(word string) bool {
	r, size := utf8.DecodeRuneInString(word)
	return size == len(word) && unicode.IsLetter(r)
}
