package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/asanadoc/asanadoc/pkg/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previously exported documents",
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	hist, err := history.New()
	if err != nil {
		return fmt.Errorf("loading export history: %w", err)
	}

	exports := hist.List()
	if len(exports) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No exports recorded yet.")
		return nil
	}

	gray := color.New(color.FgHiBlack).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	for _, e := range exports {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n    %s\n",
			gray(e.ExportedAt.Format("2006-01-02 15:04")),
			cyan(e.GID),
			e.Title,
			e.Path)
	}
	return nil
}
