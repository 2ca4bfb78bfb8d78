package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"clusterviz/internal/tui"
)

func newBrowseCmd(a *app) *cobra.Command {
	var clusters, relations, input string
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse clusters, relations and nearest neighbors in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := newVisualizer(a, input)
			if err != nil {
				return err
			}
			s, err := v.Load(cmd.Context(), clusters, relations)
			if err != nil {
				return err
			}
			summary := fmt.Sprintf("%d clusters, %d relation files", len(s.Membership()), len(s.Relations()))
			_, err = tea.NewProgram(tui.New(s, summary), tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	addSessionFlags(cmd, &clusters, &relations, &input)
	return cmd
}
