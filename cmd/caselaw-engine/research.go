// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/caselaw-engine/internal/fetch"
	"github.com/pdiddy/caselaw-engine/internal/history"
	"github.com/pdiddy/caselaw-engine/internal/identify"
	"github.com/pdiddy/caselaw-engine/internal/synthesize"
	"github.com/pdiddy/caselaw-engine/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research [question]",
	Short: "Run the full question-to-answer research pipeline",
	Long: `Research runs all three pipeline steps for a legal question: the model
identifies relevant cases and statutes, the fetch stage retrieves the
real records from CourtListener, supremecourt.gov, and Congress.gov,
and the model synthesizes a sourced answer.

The completed run is saved to the history database unless --no-history
is set. Use --output to also save the raw fetched data as YAML.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResearch,
}

func runResearch(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")
	ctx := context.Background()

	ai := newAI(cmd)
	if !ai.IsConfigured() {
		return fmt.Errorf("Gemini API key required: set .secrets/%s or --api-key", geminiKeySecret)
	}

	// Step 1: identification.
	fmt.Fprintln(os.Stderr, "[1/3] identifying relevant cases and statutes...")
	identifier := &identify.Identifier{AI: ai}
	ident, err := identifier.Identify(ctx, question, os.Stderr)
	if err != nil {
		return err
	}
	for _, name := range ident.Cases {
		fmt.Fprintf(os.Stderr, "  case: %s\n", name)
	}
	for _, name := range ident.Statutes {
		fmt.Fprintf(os.Stderr, "  statute: %s\n", name)
	}
	for _, q := range ident.SearchQueries {
		fmt.Fprintf(os.Stderr, "  search: %s\n", q)
	}
	if ident.IsEmpty() {
		return fmt.Errorf("no cases or statutes identified: try rephrasing the question")
	}

	// Step 2: fetch.
	fmt.Fprintln(os.Stderr, "[2/3] fetching from CourtListener, SCOTUS, Congress.gov...")
	fetcher := newFetcher(cmd)
	result, err := fetcher.Fetch(ctx, ident.Cases, ident.Statutes, ident.SearchQueries, os.Stderr)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "  retrieved: %d cases, %d statutes\n", len(result.Cases), len(result.Statutes))
	if len(result.MissingStatutes) > 0 {
		fmt.Fprintf(os.Stderr, "  not found in database: %s\n", strings.Join(result.MissingStatutes, "; "))
	}

	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		req := fetch.RequestParams{
			Cases:         ident.Cases,
			Statutes:      ident.Statutes,
			SearchQueries: ident.SearchQueries,
		}
		if err := fetch.WriteResultFile(outPath, req, result); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "  saved fetch results: %s\n", outPath)
	}

	// Step 3: synthesis.
	fmt.Fprintln(os.Stderr, "[3/3] synthesizing answer...")
	synthesizer := &synthesize.Synthesizer{AI: ai}
	syn, err := synthesizer.Synthesize(ctx, question, result)
	if err != nil {
		return err
	}

	if noHistory, _ := cmd.Flags().GetBool("no-history"); !noHistory {
		store, err := history.NewStore(historyConfigFromFlags(cmd))
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.Save(ctx, types.ResearchRun{
			Question:     question,
			Timestamp:    time.Now().UTC(),
			CaseCount:    len(result.Cases),
			StatuteCount: len(result.Statutes),
			Synthesis:    syn,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "saved as run %d\n", id)
	}

	printSynthesis(syn)
	return nil
}

func printSynthesis(syn types.Synthesis) {
	divider := strings.Repeat("-", 70)

	fmt.Println(divider)
	fmt.Println("TLDR")
	fmt.Println(divider)
	if syn.TLDR != "" {
		fmt.Println(syn.TLDR)
	} else {
		fmt.Println("No summary available.")
	}

	printSection := func(title, body string) {
		if body == "" {
			return
		}
		fmt.Println()
		fmt.Println(title)
		fmt.Println(divider)
		fmt.Println(body)
	}

	printSection("KEY CASES", syn.KeyCases)
	printSection("RELEVANT STATUTES", syn.Statutes)
	printSection("ANSWER", syn.Answer)
	printSection("GAPS IN THIS RESEARCH", syn.Gaps)

	fmt.Println()
	fmt.Println("For research only. Not legal advice.")
}

func init() {
	sourceFlags(researchCmd)
	aiFlags(researchCmd)
	researchCmd.Flags().String("output", "", "save raw fetch results to a YAML file")
	researchCmd.Flags().Bool("no-history", false, "do not save this run to the history database")
	researchCmd.Flags().String("history-dir", "", "history database directory (default: history/)")

	rootCmd.AddCommand(researchCmd)
}
