package factory

import (
	"fmt"

	"github.com/mikey/spam-classifier/internal/config"
	"github.com/mikey/spam-classifier/internal/ports"
	"github.com/mikey/spam-classifier/internal/text"
	"go.uber.org/zap"
)

// TextFactory creates text processors and normalizers
type TextFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewTextFactory creates a new TextFactory
func NewTextFactory(cfg *config.Config, logger *zap.Logger) *TextFactory {
	return &TextFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateTextProcessor creates a new TextProcessor
func (f *TextFactory) CreateTextProcessor() *text.TextProcessor {
	return text.NewTextProcessor(f.logger)
}

// CreateNormalizer creates the message normalizer from the text settings
func (f *TextFactory) CreateNormalizer() (*text.Normalizer, error) {
	textCfg := f.cfg.GetText()

	var stemmer ports.Stemmer
	switch textCfg.Stemmer {
	case "", "porter":
		stemmer = text.NewPorterStemmer()
	case "snowball":
		stemmer = text.NewSnowballStemmer()
	default:
		return nil, fmt.Errorf("unsupported stemmer: %s", textCfg.Stemmer)
	}

	stopwords := text.EnglishStopwords()
	if textCfg.StopwordsFile != "" {
		var err error
		stopwords, err = text.LoadStopwordsFile(textCfg.StopwordsFile)
		if err != nil {
			return nil, err
		}
		f.logger.Info("Loaded stopwords",
			zap.String("file", textCfg.StopwordsFile),
			zap.Int("count", stopwords.Len()))
	}

	return text.NewNormalizer(text.NewWordTokenizer(), stopwords, stemmer, f.logger), nil
}
