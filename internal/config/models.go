package config

import "time"

// TextConfig represents the configuration for text normalization
type TextConfig struct {
	Stemmer       string
	StopwordsFile string
}

// VectorizerConfig represents the configuration for the feature extractor
type VectorizerConfig struct {
	Provider     string
	Artifact     string
	MaxInputSize int
}

// ClassifierConfig represents the configuration for the trained classifier
type ClassifierConfig struct {
	Artifact string
}

// OpenAIConfig represents the configuration for OpenAI embeddings
type OpenAIConfig struct {
	APIKey    string
	BaseURL   string
	ModelName string
	Dimension int
}

// GeminiConfig represents the configuration for Google Gemini embeddings
type GeminiConfig struct {
	APIKey    string
	ModelName string
	Dimension int
}

// BedrockConfig represents the configuration for Amazon Bedrock embeddings
type BedrockConfig struct {
	Region    string
	ModelID   string
	Dimension int
}

// CacheConfig represents the configuration for the verdict cache
type CacheConfig struct {
	Enabled     bool
	Type        string
	SQLitePath  string
	MySQLDSN    string
	PostgresDSN string
	BoltPath    string
}

// HTTPConfig represents the configuration for the web frontend
type HTTPConfig struct {
	ListenAddress   string
	AllowedOrigins  []string
	MaxBodyBytes    int64
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// SMTPConfig represents the configuration for the Postfix content filter
type SMTPConfig struct {
	ListenAddress   string
	BlockSpam       bool
	StatusHeader    string
	LabelHeader     string
	ModelHeader     string
	PostfixAddress  string
	PostfixPort     int
	PostfixEnabled  bool
	SubjectPrefix   string
	ModifySubject   bool
	MaxMessageBytes int64
	Timeout         time.Duration
}

// GetText returns the text normalization configuration
func (c *Config) GetText() TextConfig {
	return TextConfig{
		Stemmer:       c.GetString("text.stemmer"),
		StopwordsFile: c.GetString("text.stopwords_file"),
	}
}

// GetVectorizer returns the vectorizer configuration
func (c *Config) GetVectorizer() VectorizerConfig {
	return VectorizerConfig{
		Provider:     c.GetString("vectorizer.provider"),
		Artifact:     c.GetString("vectorizer.artifact"),
		MaxInputSize: c.GetInt("vectorizer.max_input_size"),
	}
}

// GetClassifier returns the classifier configuration
func (c *Config) GetClassifier() ClassifierConfig {
	return ClassifierConfig{
		Artifact: c.GetString("classifier.artifact"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:    c.GetString("openai.api_key"),
		BaseURL:   c.GetString("openai.base_url"),
		ModelName: c.GetString("openai.model_name"),
		Dimension: c.GetInt("openai.dimension"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:    c.GetString("gemini.api_key"),
		ModelName: c.GetString("gemini.model_name"),
		Dimension: c.GetInt("gemini.dimension"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:    c.GetString("bedrock.region"),
		ModelID:   c.GetString("bedrock.model_id"),
		Dimension: c.GetInt("bedrock.dimension"),
	}
}

// GetCache returns the cache configuration
func (c *Config) GetCache() CacheConfig {
	return CacheConfig{
		Enabled:     c.GetBool("cache.enabled"),
		Type:        c.GetString("cache.type"),
		SQLitePath:  c.GetString("cache.sqlite_path"),
		MySQLDSN:    c.GetString("cache.mysql_dsn"),
		PostgresDSN: c.GetString("cache.postgres_dsn"),
		BoltPath:    c.GetString("cache.bolt_path"),
	}
}

// GetHTTP returns the web frontend configuration
func (c *Config) GetHTTP() HTTPConfig {
	return HTTPConfig{
		ListenAddress:   c.GetString("server.http.listen_address"),
		AllowedOrigins:  c.GetStringSlice("server.http.allowed_origins"),
		MaxBodyBytes:    c.GetInt64("server.http.max_body_bytes"),
		ReadTimeout:     c.v.GetDuration("server.http.read_timeout"),
		WriteTimeout:    c.v.GetDuration("server.http.write_timeout"),
		ShutdownTimeout: c.v.GetDuration("server.http.shutdown_timeout"),
	}
}

// GetSMTP returns the Postfix content filter configuration
func (c *Config) GetSMTP() SMTPConfig {
	return SMTPConfig{
		ListenAddress:   c.GetString("server.smtp.listen_address"),
		BlockSpam:       c.GetBool("server.smtp.block_spam"),
		StatusHeader:    c.GetString("server.smtp.headers.status"),
		LabelHeader:     c.GetString("server.smtp.headers.label"),
		ModelHeader:     c.GetString("server.smtp.headers.model"),
		PostfixAddress:  c.GetString("server.smtp.postfix.address"),
		PostfixPort:     c.GetInt("server.smtp.postfix.port"),
		PostfixEnabled:  c.GetBool("server.smtp.postfix.enabled"),
		SubjectPrefix:   c.GetString("server.smtp.subject_prefix"),
		ModifySubject:   c.GetBool("server.smtp.modify_subject"),
		MaxMessageBytes: c.GetInt64("server.smtp.max_message_bytes"),
		Timeout:         c.v.GetDuration("server.smtp.timeout"),
	}
}
