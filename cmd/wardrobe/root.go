package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/wardrobe/internal/adapters/catalogsource"
	"github.com/okian/wardrobe/internal/config"
	"github.com/okian/wardrobe/internal/domain/catalog"
	"github.com/okian/wardrobe/pkg/logger"
)

// globalOptions holds the persistent flags.
type globalOptions struct {
	catalogPath string
	logLevel    string
	jsonOutput  bool
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "wardrobe",
		Short:         "Match avatar descriptions against an asset catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr())); err != nil {
				return err
			}
			return logger.SetLevelString(opts.logLevel)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "", "Catalog file (.yaml, .json, .toml); defaults to configuration, then the bundled catalog")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Write JSON even when stdout is a terminal")

	rootCmd.AddCommand(newMatchCommand(opts))
	rootCmd.AddCommand(newCatalogCommand(opts))
	rootCmd.AddCommand(newProbeCommand(opts))

	return rootCmd
}

// loadCatalog reads --catalog when given, otherwise whatever the
// configuration selects.
func (o *globalOptions) loadCatalog(ctx context.Context) (*catalog.Catalog, *config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	if path := strings.TrimSpace(o.catalogPath); path != "" {
		c, err := catalogsource.FromFile(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		return c, cfg, nil
	}
	c, _, err := catalogsource.Load(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}
	return c, cfg, nil
}
