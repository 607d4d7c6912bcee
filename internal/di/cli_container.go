package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/spam-classifier/internal/adapters/filter"
	"github.com/mikey/spam-classifier/internal/config"
	"github.com/mikey/spam-classifier/internal/core"
	"github.com/mikey/spam-classifier/internal/factory"
	"github.com/mikey/spam-classifier/internal/logging"
	"github.com/mikey/spam-classifier/internal/text"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Model flags
	Provider           string
	VectorizerArtifact string
	ClassifierArtifact string
	MaxInputSize       int

	// Text flags
	Stemmer       string
	StopwordsFile string

	// Embedding provider flags
	BedrockRegion   string
	BedrockModelID  string
	GeminiAPIKey    string
	GeminiModelName string
	OpenAIAPIKey    string
	OpenAIModelName string
	OpenAIBaseURL   string

	// Output flags
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(loadCLIConfig); err != nil {
		return nil, err
	}

	if err := provideCore(container); err != nil {
		return nil, err
	}

	// Register classifier service with no cache
	if err := container.Provide(func(normalizer *text.Normalizer, models *factory.Models, logger *zap.Logger) *core.ClassifierService {
		return core.NewClassifierService(normalizer, models.Vectorizer, models.Classifier, nil, logger,
			core.ServiceOptions{ModelID: models.ID})
	}); err != nil {
		return nil, err
	}

	// Register CLI frontend
	if err := container.Provide(func(svc *core.ClassifierService, logger *zap.Logger, flags *CLIFlags) (*filter.CliFilter, error) {
		return filter.NewCliFilter(svc, logger, flags.Verbose)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// BuildNormalizeContainer provides only the text pipeline, so normalizing
// needs no model artifacts
func BuildNormalizeContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}
	if err := container.Provide(func() (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(loadCLIConfig); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.TextFactory) (*text.Normalizer, error) {
		return f.CreateNormalizer()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// loadCLIConfig reads the config file when one is given, otherwise it
// builds the configuration from command line flags
func loadCLIConfig(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
	if flags.ConfigFile != "" {
		cfg, err := config.Load(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
		return cfg, nil
	}

	return createConfigFromFlags(flags), nil
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	// Set some cli specific settings
	v.Set("cli.verbose", flags.Verbose)
	v.Set("cache.enabled", false)

	setIfNotEmpty := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}

	setIfNotEmpty("text.stemmer", flags.Stemmer)
	setIfNotEmpty("text.stopwords_file", flags.StopwordsFile)
	setIfNotEmpty("vectorizer.provider", flags.Provider)
	setIfNotEmpty("vectorizer.artifact", flags.VectorizerArtifact)
	setIfNotEmpty("classifier.artifact", flags.ClassifierArtifact)
	if flags.MaxInputSize > 0 {
		v.Set("vectorizer.max_input_size", flags.MaxInputSize)
	}

	// Set provider-specific configuration
	switch flags.Provider {
	case "bedrock":
		setIfNotEmpty("bedrock.region", flags.BedrockRegion)
		setIfNotEmpty("bedrock.model_id", flags.BedrockModelID)
	case "gemini":
		setIfNotEmpty("gemini.api_key", flags.GeminiAPIKey)
		setIfNotEmpty("gemini.model_name", flags.GeminiModelName)
	case "openai":
		setIfNotEmpty("openai.api_key", flags.OpenAIAPIKey)
		setIfNotEmpty("openai.model_name", flags.OpenAIModelName)
		setIfNotEmpty("openai.base_url", flags.OpenAIBaseURL)
	}

	return config.NewFromViper(v)
}
