// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/caselaw-engine/internal/fetch"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch case law and statutes by name from the legal databases",
	Long: `Fetch retrieves real records for named cases and statutes, plus optional
free-text search queries, without running the AI pipeline around it.
Results are deduplicated, backfilled from the landmark table, and
printed as a table or saved to a YAML file with --output.`,
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	caseNames, _ := cmd.Flags().GetStringSlice("case")
	statuteNames, _ := cmd.Flags().GetStringSlice("statute")
	queries, _ := cmd.Flags().GetStringSlice("query")

	if len(caseNames) == 0 && len(statuteNames) == 0 && len(queries) == 0 {
		return fmt.Errorf("nothing to fetch: provide --case, --statute, or --query")
	}

	fetcher := newFetcher(cmd)
	result, err := fetcher.Fetch(context.Background(), caseNames, statuteNames, queries, os.Stderr)
	if err != nil {
		return err
	}

	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		req := fetch.RequestParams{Cases: caseNames, Statutes: statuteNames, SearchQueries: queries}
		if err := fetch.WriteResultFile(outPath, req, result); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "saved: %s\n", outPath)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	for i, c := range result.Cases {
		landmark := ""
		if c.IsLandmark {
			landmark = "  [landmark]"
		}
		fmt.Printf("%2d. %s\n    %s  (%s)%s\n", i+1, c.CaseName, c.Citation, c.Source, landmark)
	}
	for i, s := range result.Statutes {
		fmt.Printf("%2d. %s", i+1, s.Title)
		if s.Number != "" {
			fmt.Printf(" (%s)", s.Number)
		}
		fmt.Println()
	}
	if len(result.MissingStatutes) > 0 {
		fmt.Println("\nIdentified but not found in database:")
		for _, name := range result.MissingStatutes {
			fmt.Printf("  - %s\n", name)
		}
	}
	fmt.Printf("\n%d cases, %d statutes\n", len(result.Cases), len(result.Statutes))
	return nil
}

func init() {
	sourceFlags(fetchCmd)
	fetchCmd.Flags().StringSlice("case", nil, "case name to look up (repeatable)")
	fetchCmd.Flags().StringSlice("statute", nil, "statute name to look up (repeatable)")
	fetchCmd.Flags().StringSlice("query", nil, "free-text search query (repeatable)")
	fetchCmd.Flags().String("output", "", "save results to a YAML file")
	fetchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(fetchCmd)
}
