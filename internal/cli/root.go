package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mikey/spam-classifier/internal/di"
)

// NewRootCommand builds the spam-detector command tree
func NewRootCommand() *cobra.Command {
	flags := &di.CLIFlags{}

	rootCmd := &cobra.Command{
		Use:   "spam-detector",
		Short: "Classify SMS and email messages as spam or not spam",
		Long: `spam-detector runs messages through the trained spam classifier.

Example usage:
  spam-detector classify "WINNER!! Claim your free prize now"
  spam-detector classify --email --file message.eml
  spam-detector normalize "Running to the shops"`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.ConfigFile, "config", "", "path to config file (overrides the flags below)")
	pf.StringVar(&flags.Provider, "provider", "tfidf", "vectorizer provider (tfidf, openai, gemini, bedrock)")
	pf.StringVar(&flags.VectorizerArtifact, "vectorizer", "", "vectorizer artifact (default models/vectorizer.json)")
	pf.StringVar(&flags.ClassifierArtifact, "model", "", "classifier artifact (default models/model.json)")
	pf.IntVar(&flags.MaxInputSize, "max-input-size", 0, "maximum bytes sent to embedding APIs")
	pf.StringVar(&flags.Stemmer, "stemmer", "porter", "stemmer (porter, snowball)")
	pf.StringVar(&flags.StopwordsFile, "stopwords", "", "stopwords file (default built-in English list)")

	pf.StringVar(&flags.BedrockRegion, "bedrock-region", "", "AWS region for Bedrock")
	pf.StringVar(&flags.BedrockModelID, "bedrock-model", "", "Bedrock embedding model ID")
	pf.StringVar(&flags.GeminiAPIKey, "gemini-api-key", "", "API key for Google Gemini")
	pf.StringVar(&flags.GeminiModelName, "gemini-model", "", "Gemini embedding model name")
	pf.StringVar(&flags.OpenAIAPIKey, "openai-api-key", "", "API key for OpenAI")
	pf.StringVar(&flags.OpenAIModelName, "openai-model", "", "OpenAI embedding model name")
	pf.StringVar(&flags.OpenAIBaseURL, "openai-base-url", "", "OpenAI compatible API base URL")

	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVar(&flags.JSONLog, "json-log", false, "output logs in JSON format")

	rootCmd.AddCommand(newClassifyCommand(flags))
	rootCmd.AddCommand(newNormalizeCommand(flags))

	return rootCmd
}

// Execute runs the spam-detector command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// readInput returns the joined arguments, or the contents of file, or
// standard input, in that order
func readInput(cmd *cobra.Command, args []string, file string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	var r io.Reader = cmd.InOrStdin()
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return "", fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}
