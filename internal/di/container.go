package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/spam-classifier/internal/adapters/cache"
	"github.com/mikey/spam-classifier/internal/config"
	"github.com/mikey/spam-classifier/internal/core"
	"github.com/mikey/spam-classifier/internal/factory"
	"github.com/mikey/spam-classifier/internal/logging"
	"github.com/mikey/spam-classifier/internal/ports"
	"github.com/mikey/spam-classifier/internal/text"
	"github.com/mikey/spam-classifier/internal/whitelist"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	return buildContainer(config.New)
}

// BuildContainerWithConfig builds the server container from an explicit
// config file
func BuildContainerWithConfig(path string) (*dig.Container, error) {
	return buildContainer(func() (*config.Config, error) {
		return config.Load(path)
	})
}

func buildContainer(loadConfig func() (*config.Config, error)) (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(loadConfig); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideCore(container); err != nil {
		return nil, err
	}

	// Register cache repository
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.CacheFactory) (cache.Repository, error) {
		return f.CreateCacheRepository()
	}); err != nil {
		return nil, err
	}

	// Register classifier service
	if err := container.Provide(func(
		normalizer *text.Normalizer,
		models *factory.Models,
		repo cache.Repository,
		f *factory.CacheFactory,
		logger *zap.Logger,
	) (*core.ClassifierService, error) {
		ttl, err := f.GetCacheTTL()
		if err != nil {
			return nil, err
		}
		var cacheRepo core.CacheRepository
		if repo != nil {
			cacheRepo = repo
		}
		return core.NewClassifierService(normalizer, models.Vectorizer, models.Classifier, cacheRepo, logger,
			core.ServiceOptions{
				CacheEnabled: f.IsCacheEnabled(),
				CacheTTL:     ttl,
				ModelID:      models.ID,
			}), nil
	}); err != nil {
		return nil, err
	}

	// Register whitelisted domains
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *whitelist.Checker {
		whitelistedDomains := cfg.GetStringSlice("spam.whitelisted_domains")
		if len(whitelistedDomains) > 0 {
			logger.Info("Loaded whitelisted domains", zap.Strings("domains", whitelistedDomains))
		}
		return whitelist.NewChecker(whitelistedDomains, logger)
	}); err != nil {
		return nil, err
	}

	// Register frontends
	if err := container.Provide(factory.NewFilterFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.FilterFactory) ([]ports.MessageFilter, error) {
		return f.CreateFilters()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// provideCore registers the text pipeline and the trained models
func provideCore(container *dig.Container) error {
	if err := container.Provide(factory.NewTextFactory); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.TextFactory) *text.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.TextFactory) (*text.Normalizer, error) {
		return f.CreateNormalizer()
	}); err != nil {
		return err
	}

	if err := container.Provide(factory.NewModelFactory); err != nil {
		return err
	}
	return container.Provide(func(f *factory.ModelFactory) (*factory.Models, error) {
		return f.CreateModels()
	})
}
