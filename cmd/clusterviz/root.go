package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"clusterviz/internal/config"
	"clusterviz/internal/logger"
)

const rootLongDesc string = `clusterviz renders entity embeddings as an interactive scatter plot.

Every entity is colored by the cluster it belongs to, and hovering a point
lists the relations recorded for that cluster.

Example:
  clusterviz plot --clusters clusters.txt --entity-relations enriched/ --output out/ --input vectors.txt
  clusterviz relations enriched/ --html
  clusterviz browse --clusters clusters.txt --entity-relations enriched/ --input vectors.txt`

// app carries state shared by every subcommand once flags are parsed.
type app struct {
	cfgPath  string
	debug    bool
	jsonLogs bool

	cfg    *config.AppConfig
	logger *slog.Logger
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "clusterviz",
		Short:         "Visualize clustered embeddings",
		Long:          rootLongDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.init()
		},
	}

	cmd.PersistentFlags().StringVar(&a.cfgPath, "config", "", "Path to YAML config file (uses ./config.yaml or ~/.config/clusterviz/config.yaml if not provided)")
	cmd.PersistentFlags().BoolVarP(&a.debug, "debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&a.jsonLogs, "json-logs", false, "Log as JSON")

	cmd.AddCommand(
		newPlotCmd(a),
		newClustersCmd(a),
		newRelationsCmd(a),
		newBrowseCmd(a),
		newPushCmd(a),
	)
	return cmd
}

func (a *app) init() error {
	var err error
	if a.cfgPath == "" {
		a.cfg, _, err = config.LoadDefault()
	} else {
		a.cfg, err = config.Load(a.cfgPath)
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.logger = logger.New(
		logger.WithDebug(a.debug || a.cfg.Log.Debug),
		logger.WithJSON(a.jsonLogs || a.cfg.Log.JSON),
	)
	return nil
}
