package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/asanadoc/asanadoc/pkg/asana"
	"github.com/asanadoc/asanadoc/pkg/auth"
	"github.com/asanadoc/asanadoc/pkg/config"
	"github.com/asanadoc/asanadoc/pkg/history"
	"github.com/asanadoc/asanadoc/pkg/ingest"
	"github.com/asanadoc/asanadoc/pkg/journal"
	"github.com/asanadoc/asanadoc/pkg/render"
	"github.com/asanadoc/asanadoc/pkg/resolve"
)

var exportCmd = &cobra.Command{
	Use:   "export <task ID or URL>",
	Short: "Export a task and its subtask tree to Markdown",
	Long: `Resolve the given task (numeric GID or any asana.com task URL),
ingest it together with its comments and all nested subtasks, and print
the rendered Markdown document to stdout or write it to a file.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "Write the document to this file instead of stdout")
	exportCmd.Flags().Bool("save", false, "Write the document to the configured output directory")
	exportCmd.Flags().String("journal", "", "Append progress entries to this JSONL file")
	exportCmd.Flags().String("token", "", "Asana access token (overrides stored credentials)")
	exportCmd.Flags().BoolP("quiet", "q", false, "Suppress progress output")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	save, _ := cmd.Flags().GetBool("save")
	journalPath, _ := cmd.Flags().GetString("journal")
	tokenFlag, _ := cmd.Flags().GetString("token")
	quiet, _ := cmd.Flags().GetBool("quiet")

	gid, ok := resolve.TaskID(args[0])
	if !ok {
		return fmt.Errorf("could not find an Asana task ID in %q", args[0])
	}

	// Credential priority: flag > environment > stored token.
	token := tokenFlag
	if token == "" {
		var err error
		token, err = auth.AccessToken()
		if err != nil {
			return err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var sinks []journal.Sink
	if !quiet {
		sinks = append(sinks, journal.NewConsole(cmd.ErrOrStderr()))
	}
	if journalPath != "" {
		fileSink, err := journal.NewFile(journalPath)
		if err != nil {
			return err
		}
		defer fileSink.Close()
		sinks = append(sinks, fileSink)
	}

	client := asana.NewClientWithBaseURL(token, cfg.BaseURL)
	engine := ingest.New(client, journal.Multi(sinks...))

	tree, err := engine.Ingest(cmd.Context(), gid)
	if err != nil {
		return err
	}

	doc := render.Markdown(tree)

	if save && output == "" {
		dir := cfg.OutputDir
		if dir == "" {
			dir = "."
		}
		output = filepath.Join(dir, fmt.Sprintf("task-%s.md", gid))
	}

	if output == "" {
		fmt.Fprint(cmd.OutOrStdout(), doc)
		return nil
	}

	if err := os.WriteFile(output, []byte(doc), 0644); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	if !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", output)
	}

	// Best effort; a broken history file never fails the export.
	if hist, err := history.New(); err == nil {
		hist.Record(gid, tree.Name, output)
		hist.Save()
	}
	return nil
}
