package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/spam-classifier/internal/adapters/cache"
	"github.com/mikey/spam-classifier/internal/di"
	"github.com/mikey/spam-classifier/internal/factory"
	"github.com/mikey/spam-classifier/internal/ports"
)

func main() {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:          "spam-classifier",
		Short:        "Serve the spam classifier over HTTP and as a Postfix content filter",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Build the dependency injection container
			var container *dig.Container
			var err error
			if cfgFile != "" {
				container, err = di.BuildContainerWithConfig(cfgFile)
			} else {
				container, err = di.BuildContainer()
			}
			if err != nil {
				return fmt.Errorf("failed to build dependency container: %w", err)
			}

			// Run the application
			return container.Invoke(run)
		},
	}
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default searches /etc/spam-classifier, $HOME/.spam-classifier, ./configs and .)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	filters []ports.MessageFilter,
	models *factory.Models,
	cacheRepo cache.Repository,
) error {
	defer logger.Sync()

	// Start the frontends
	for i, f := range filters {
		if err := f.Start(); err != nil {
			logger.Error("Failed to start frontend", zap.Error(err))
			for _, started := range filters[:i] {
				started.Stop()
			}
			return err
		}
	}
	logger.Info("Spam classifier ready",
		zap.String("model_id", models.ID),
		zap.Int("frontends", len(filters)))

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	// Stop the frontends
	for _, f := range filters {
		if err := f.Stop(); err != nil {
			logger.Error("Failed to stop frontend", zap.Error(err))
		}
	}

	// Close any resources that need closing
	if closer, ok := models.Vectorizer.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close vectorizer", zap.Error(err))
		}
	}

	// Stop the cache if needed
	if cacheRepo != nil {
		cacheRepo.Stop()
	}

	logger.Info("Shutdown complete")
	return nil
}
