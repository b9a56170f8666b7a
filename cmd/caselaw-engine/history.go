// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/caselaw-engine/internal/history"
	"github.com/pdiddy/caselaw-engine/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse and export saved research runs",
	Long: `History manages the local SQLite database of completed research runs.
Use subcommands to list recent runs, show one in full, search by
question text, or export everything to YAML or JSON.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent research runs, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := history.NewStore(historyConfigFromFlags(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.List(context.Background(), limit)
	if err != nil {
		return err
	}
	printRunTable(runs)
	return nil
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one saved run in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run ID %q", args[0])
	}

	store, err := history.NewStore(historyConfigFromFlags(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Get(context.Background(), id)
	if err != nil {
		return err
	}

	fmt.Printf("Run %d  (%s)\n", run.ID, run.Timestamp.Format(time.RFC3339))
	fmt.Printf("Question: %s\n", run.Question)
	fmt.Printf("Retrieved: %d cases, %d statutes\n", run.CaseCount, run.StatuteCount)
	printSynthesis(run.Synthesis)
	return nil
}

var historySearchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search saved runs by question text",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistorySearch,
}

func runHistorySearch(cmd *cobra.Command, args []string) error {
	store, err := history.NewStore(historyConfigFromFlags(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Search(context.Background(), args[0], limit)
	if err != nil {
		return err
	}
	printRunTable(runs)
	return nil
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all saved runs to YAML or JSON",
	RunE:  runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	cfg := historyConfigFromFlags(cmd)
	store, err := history.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "yaml", "":
		if err := store.ExportYAML(context.Background()); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/export.yaml\n", cfg.Dir)
	case "json":
		if err := store.ExportJSON(context.Background()); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/export.json\n", cfg.Dir)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	return nil
}

func printRunTable(runs []types.ResearchRun) {
	if len(runs) == 0 {
		fmt.Println("No runs found.")
		return
	}

	fmt.Printf("%-5s  %-20s  %-6s  %-8s  %s\n", "ID", "Timestamp", "Cases", "Statutes", "Question")
	for _, run := range runs {
		question := run.Question
		if len(question) > 60 {
			question = question[:57] + "..."
		}
		fmt.Printf("%-5d  %-20s  %-6d  %-8d  %s\n",
			run.ID, run.Timestamp.Format("2006-01-02 15:04"), run.CaseCount, run.StatuteCount, question)
	}
	fmt.Printf("\n%d runs\n", len(runs))
}

func init() {
	historyCmd.PersistentFlags().String("history-dir", "", "history database directory (default: history/)")
	historyListCmd.Flags().Int("limit", 0, "maximum runs to list (0 = default)")
	historySearchCmd.Flags().Int("limit", 0, "maximum runs to list (0 = default)")
	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historySearchCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
