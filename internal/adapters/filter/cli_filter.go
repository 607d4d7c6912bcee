package filter

import (
	"context"
	"fmt"
	"io"
	"net/mail"
	"os"
	"time"

	"github.com/mikey/spam-classifier/internal/core"
	"github.com/mikey/spam-classifier/internal/text"
	"go.uber.org/zap"
)

const previewSize = 500

// CliFilter implements a command-line interface for spam detection
type CliFilter struct {
	service   *core.ClassifierService
	processor *text.TextProcessor
	logger    *zap.Logger
	verbose   bool
	out       io.Writer
}

// NewCliFilter creates a new CLI filter printing to stdout
func NewCliFilter(service *core.ClassifierService, logger *zap.Logger, verbose bool) (*CliFilter, error) {
	return &CliFilter{
		service:   service,
		processor: text.NewTextProcessor(logger),
		logger:    logger,
		verbose:   verbose,
		out:       os.Stdout,
	}, nil
}

// SetOutput redirects the report printed by the filter
func (f *CliFilter) SetOutput(w io.Writer) {
	f.out = w
}

// ProcessMessage classifies a message and displays the results
func (f *CliFilter) ProcessMessage(ctx context.Context, message string) (*core.Verdict, error) {
	f.logger.Debug("Processing message", zap.Int("length", len(message)))

	fmt.Fprintf(f.out, "\n=== Message Summary ===\n")
	fmt.Fprintf(f.out, "Length: %d bytes\n", len(message))
	if f.verbose {
		fmt.Fprintf(f.out, "\nPreview:\n%s\n", f.processor.Preview(message, previewSize))
	}
	fmt.Fprintf(f.out, "\n")

	return f.classify(ctx, message)
}

// ProcessEmail reads an RFC 5322 message, classifies its subject and
// text/plain body and displays the results.
func (f *CliFilter) ProcessEmail(ctx context.Context, r io.Reader) (*core.Verdict, error) {
	msg, err := mail.ReadMessage(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email message: %w", err)
	}

	subject, err := decodeEncodedHeader(msg.Header.Get("Subject"))
	if err != nil {
		subject = msg.Header.Get("Subject")
	}
	body, err := extractTextFromMessage(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text content: %w", err)
	}

	fmt.Fprintf(f.out, "\n=== Email Summary ===\n")
	fmt.Fprintf(f.out, "From: %s\n", msg.Header.Get("From"))
	fmt.Fprintf(f.out, "To: %s\n", msg.Header.Get("To"))
	fmt.Fprintf(f.out, "Subject: %s\n", subject)
	fmt.Fprintf(f.out, "Body length: %d bytes\n", len(body))
	if f.verbose {
		fmt.Fprintf(f.out, "\nBody preview:\n%s\n", f.processor.Preview(body, previewSize))
	}
	fmt.Fprintf(f.out, "\n")

	return f.classify(ctx, messageText(subject, body))
}

// Normalize prints the normalized form of a message
func (f *CliFilter) Normalize(message string) string {
	normalized := f.service.Normalize(message)
	fmt.Fprintln(f.out, normalized)
	return normalized
}

func (f *CliFilter) classify(ctx context.Context, message string) (*core.Verdict, error) {
	fmt.Fprintf(f.out, "=== Analysis ===\n")
	startTime := time.Now()
	verdict, err := f.service.Classify(ctx, message)
	if err != nil {
		f.logger.Error("Failed to classify message", zap.Error(err))
		fmt.Fprintf(f.out, "Error: %v\n", err)
		return nil, err
	}
	duration := time.Since(startTime)

	fmt.Fprintf(f.out, "\n=== Results ===\n")
	fmt.Fprintf(f.out, "Result: %s\n", stateMessage(verdict.State()))
	if !verdict.EmptyInput {
		fmt.Fprintf(f.out, "Is spam: %t\n", verdict.IsSpam())
		fmt.Fprintf(f.out, "Raw label: %d\n", verdict.RawLabel)
		fmt.Fprintf(f.out, "Cached: %t\n", verdict.Cached)
		fmt.Fprintf(f.out, "Model used: %s\n", verdict.ModelUsed)
		if f.verbose {
			fmt.Fprintf(f.out, "Normalized: %s\n", verdict.Normalized)
		}
	}
	fmt.Fprintf(f.out, "Processing time: %v\n", duration)

	return verdict, nil
}

// Start is a no-op for the CLI filter
func (f *CliFilter) Start() error {
	return nil
}

// Stop is a no-op for the CLI filter
func (f *CliFilter) Stop() error {
	return nil
}
