package ports

import (
	"context"

	"github.com/mikey/spam-classifier/internal/core"
)

// MessageFilter defines the interface for a frontend that classifies messages
type MessageFilter interface {
	// ProcessMessage classifies a raw message and returns the verdict
	ProcessMessage(ctx context.Context, message string) (*core.Verdict, error)

	// Start starts the frontend
	Start() error

	// Stop stops the frontend
	Stop() error
}
