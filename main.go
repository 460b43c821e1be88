package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "asanadoc",
	Short: "Export an Asana task tree as a Markdown document",
	Long: `asanadoc resolves an Asana task from an ID or URL, walks its full
subtask tree through the Asana API, and renders everything (metadata,
descriptions, comments, nested subtasks) into one Markdown document.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
