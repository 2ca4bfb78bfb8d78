package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type plotCommander struct {
	clusters  string
	relations string
	output    string
	input     string
}

func newPlotCmd(a *app) *cobra.Command {
	c := &plotCommander{}
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Write an interactive HTML plot of the embeddings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := newVisualizer(a, c.input)
			if err != nil {
				return err
			}
			path, err := v.Plot(cmd.Context(), c.clusters, c.relations, c.output, a.cfg.Plot.Filename, plotOptions(a.cfg))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	addSessionFlags(cmd, &c.clusters, &c.relations, &c.input)
	cmd.Flags().StringVarP(&c.output, "output", "o", "", "Directory the HTML page is written to")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

// addSessionFlags registers the inputs every session-loading command needs.
func addSessionFlags(cmd *cobra.Command, clusters, relations, input *string) {
	cmd.Flags().StringVar(clusters, "clusters", "", "Cluster membership file")
	cmd.Flags().StringVar(relations, "entity-relations", "", "Directory of enriched_cluster_<id>.txt files")
	cmd.Flags().StringVarP(input, "input", "i", "", "Vector file (overrides embeddings config)")
	_ = cmd.MarkFlagRequired("clusters")
	_ = cmd.MarkFlagRequired("entity-relations")
}
