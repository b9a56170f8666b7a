// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/caselaw-engine/internal/identify"
)

var identifyCmd = &cobra.Command{
	Use:   "identify [question]",
	Short: "Identify the cases and statutes relevant to a question",
	Long: `Identify runs only the first pipeline step: the model names the court
cases, federal statutes, and database search queries relevant to a
legal question, without fetching anything. Useful for inspecting what
the research command would look up.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIdentify,
}

func runIdentify(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	ai := newAI(cmd)
	if !ai.IsConfigured() {
		return fmt.Errorf("Gemini API key required: set .secrets/%s or --api-key", geminiKeySecret)
	}

	identifier := &identify.Identifier{AI: ai}
	ident, err := identifier.Identify(context.Background(), question, os.Stderr)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ident)
	}

	if len(ident.Cases) > 0 {
		fmt.Println("Cases:")
		for _, name := range ident.Cases {
			fmt.Printf("  - %s\n", name)
		}
	}
	if len(ident.Statutes) > 0 {
		fmt.Println("Statutes:")
		for _, name := range ident.Statutes {
			fmt.Printf("  - %s\n", name)
		}
	}
	if len(ident.SearchQueries) > 0 {
		fmt.Println("Search queries:")
		for _, q := range ident.SearchQueries {
			fmt.Printf("  - %s\n", q)
		}
	}
	if ident.IsEmpty() {
		fmt.Println("Nothing identified. Try rephrasing the question.")
	}
	return nil
}

func init() {
	aiFlags(identifyCmd)
	identifyCmd.Flags().Bool("json", false, "output the identification as JSON")

	rootCmd.AddCommand(identifyCmd)
}
