// Package container provides dependency injection for the ebill-csv application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/ebill-csv/internal/categorizer"
	"fjacquet/ebill-csv/internal/config"
	"fjacquet/ebill-csv/internal/ebillparser"
	"fjacquet/ebill-csv/internal/logging"
	"fjacquet/ebill-csv/internal/parser"
	"fjacquet/ebill-csv/internal/report"
	"fjacquet/ebill-csv/internal/store"
)

// ParserType defines the types of parsers available.
type ParserType string

const (
	EBill ParserType = ebillparser.Name
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation: all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	store       *store.CategoryStore
	categorizer *categorizer.Categorizer
	ebill       *ebillparser.Parser
	reports     *report.Generator

	parsers map[ParserType]parser.FullParser
}

// NewContainer creates and wires all application dependencies, building the
// logger from the configuration.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, config.ConfigureLoggingFromConfig(cfg))
}

// NewContainerWithLogger wires the application around an existing logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = config.ConfigureLoggingFromConfig(cfg)
	}

	categoryStore := store.NewCategoryStore(cfg.Categories.File, logger)

	cat := categorizer.NewCategorizer(categoryStore, logger)
	cat.SetFallback(cfg.Categories.Fallback)

	ebill := ebillparser.NewParser(logger, cat, ebillparser.Options{
		Year:      cfg.Statement.Year,
		Account:   cfg.Statement.Account,
		AnchorID:  cfg.Parsers.EBill.AnchorID,
		MinCells:  cfg.Parsers.EBill.MinCells,
		Delimiter: cfg.CSVDelimiter(),
	})

	parsers := map[ParserType]parser.FullParser{
		EBill: ebill,
	}

	logger.Debug("Container initialized successfully",
		logging.F("parsers_count", len(parsers)),
		logging.F(logging.FieldFile, cfg.Categories.File))

	return &Container{
		logger:      logger,
		config:      cfg,
		store:       categoryStore,
		categorizer: cat,
		ebill:       ebill,
		reports:     report.NewGenerator(logger),
		parsers:     parsers,
	}, nil
}

// GetParser returns a parser for the given type.
func (c *Container) GetParser(pt ParserType) (parser.FullParser, error) {
	p, ok := c.parsers[pt]
	if !ok {
		return nil, fmt.Errorf("unknown parser type: %s", pt)
	}
	return p, nil
}

// GetParsers returns a copy of the parser registry.
func (c *Container) GetParsers() map[ParserType]parser.FullParser {
	result := make(map[ParserType]parser.FullParser, len(c.parsers))
	for k, v := range c.parsers {
		result[k] = v
	}
	return result
}

// GetEBillParser returns the concrete e-bill parser, which exposes the
// conversion result beyond the FullParser interface.
func (c *Container) GetEBillParser() *ebillparser.Parser {
	return c.ebill
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetCategorizer returns the container's categorizer instance.
func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

// GetStore returns the container's category store instance.
func (c *Container) GetStore() *store.CategoryStore {
	return c.store
}

// GetReportGenerator returns the summary report generator.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.reports
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
