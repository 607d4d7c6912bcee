package factory

import (
	"fmt"

	"github.com/mikey/spam-classifier/internal/adapters/filter"
	"github.com/mikey/spam-classifier/internal/config"
	"github.com/mikey/spam-classifier/internal/core"
	"github.com/mikey/spam-classifier/internal/ports"
	"github.com/mikey/spam-classifier/internal/whitelist"
	"go.uber.org/zap"
)

// FilterFactory creates message frontends based on configuration
type FilterFactory struct {
	cfg       *config.Config
	logger    *zap.Logger
	service   *core.ClassifierService
	whitelist *whitelist.Checker
}

// NewFilterFactory creates a new filter factory
func NewFilterFactory(cfg *config.Config, logger *zap.Logger, service *core.ClassifierService, checker *whitelist.Checker) *FilterFactory {
	return &FilterFactory{
		cfg:       cfg,
		logger:    logger,
		service:   service,
		whitelist: checker,
	}
}

// CreateFilter creates a single frontend by name
func (f *FilterFactory) CreateFilter(name string) (ports.MessageFilter, error) {
	switch name {
	case "http":
		return filter.NewHTTPFilter(f.service, f.logger.Named("http"), f.cfg.GetHTTP()), nil
	case "postfix":
		return filter.NewPostfixFilter(f.service, f.whitelist, f.logger.Named("postfix"), f.cfg.GetSMTP()), nil
	case "cli":
		return filter.NewCliFilter(f.service, f.logger, f.cfg.GetBool("cli.verbose"))
	default:
		return nil, fmt.Errorf("unsupported frontend: %s", name)
	}
}

// CreateFilters creates every frontend listed under server.frontends
func (f *FilterFactory) CreateFilters() ([]ports.MessageFilter, error) {
	names := f.cfg.GetStringSlice("server.frontends")
	if len(names) == 0 {
		return nil, fmt.Errorf("no frontends configured")
	}

	filters := make([]ports.MessageFilter, 0, len(names))
	for _, name := range names {
		mf, err := f.CreateFilter(name)
		if err != nil {
			return nil, err
		}
		filters = append(filters, mf)
	}
	return filters, nil
}
