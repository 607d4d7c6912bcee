package ports

// Tokenizer splits lowercased text into word tokens
type Tokenizer interface {
	Tokenize(text string) []string
}

// Stemmer reduces a single token to its morphological root
type Stemmer interface {
	Stem(word string) string
}

// Stopwords reports whether a token is a low-information function word
type Stopwords interface {
	Contains(word string) bool
}
