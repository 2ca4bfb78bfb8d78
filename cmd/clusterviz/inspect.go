package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"clusterviz/internal/domain"
	"clusterviz/internal/format"
)

func newClustersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clusters <file>",
		Short: "Summarize a cluster membership file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newParser(a.cfg, a.logger).ParseMembership(args[0])
			if err != nil {
				return err
			}
			writeMembership(cmd.OutOrStdout(), m)
			return nil
		},
	}
}

func newRelationsCmd(a *app) *cobra.Command {
	var html bool
	cmd := &cobra.Command{
		Use:   "relations <dir>",
		Short: "Print the relations of every enriched cluster file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rels, err := newParser(a.cfg, a.logger).ParseRelationsDir(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			writeRelations(cmd.OutOrStdout(), rels, html)
			return nil
		},
	}
	cmd.Flags().BoolVar(&html, "html", false, "Print the HTML form used in plot tooltips")
	return cmd
}

func writeMembership(w io.Writer, m domain.Membership) {
	total := 0
	for _, id := range m.ClusterIDs() {
		entities := m[id]
		total += len(entities)
		fmt.Fprintf(w, "%s: %s\n", format.TraceName(id, len(entities)), strings.Join(entities, ", "))
	}
	fmt.Fprintf(w, "%d clusters, %d entities\n", len(m), total)
}

func writeRelations(w io.Writer, rels domain.ClusterRelations, html bool) {
	ids := make([]int, 0, len(rels))
	for id := range rels {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for i, id := range ids {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "[[CLUSTER %d]]\n", id)
		if html {
			parts := make([]string, len(rels[id]))
			for j, r := range rels[id] {
				parts[j] = format.RelationHTML(r)
			}
			fmt.Fprintln(w, strings.Join(parts, "<br>"))
			continue
		}
		if len(rels[id]) > 0 {
			fmt.Fprintln(w, format.ClusterText(rels[id]))
		}
	}
}
