// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/pdiddy/caselaw-engine/internal/sources"
)

var scotusCmd = &cobra.Command{
	Use:   "scotus",
	Short: "Browse Supreme Court slip opinions and oral arguments",
	Long: `Scotus reads directly from supremecourt.gov, which has no formal API.
Use subcommands to list recent slip-opinion PDFs or oral-argument audio
for a term. The term is the October Term year, e.g. 24 for OT2024;
empty defaults to the current term.`,
}

func newSCOTUSClient() *sources.SCOTUSClient {
	return &sources.SCOTUSClient{
		Client:    &http.Client{Timeout: defaultHTTPTimeout},
		UserAgent: defaultUserAgent,
	}
}

var scotusOpinionsCmd = &cobra.Command{
	Use:   "opinions",
	Short: "List recent slip-opinion PDFs for a term",
	RunE: func(cmd *cobra.Command, args []string) error {
		term, _ := cmd.Flags().GetString("term")
		opinions, err := newSCOTUSClient().SlipOpinions(context.Background(), term)
		if err != nil {
			return err
		}
		if len(opinions) == 0 {
			fmt.Println("No slip opinions found.")
			return nil
		}
		for _, op := range opinions {
			fmt.Printf("OT%s  %s\n", op.Term, op.PDFURL)
		}
		return nil
	},
}

var scotusArgumentsCmd = &cobra.Command{
	Use:   "arguments",
	Short: "List recent oral-argument audio for a term",
	RunE: func(cmd *cobra.Command, args []string) error {
		term, _ := cmd.Flags().GetString("term")
		arguments, err := newSCOTUSClient().OralArguments(context.Background(), term)
		if err != nil {
			return err
		}
		if len(arguments) == 0 {
			fmt.Println("No argument audio found.")
			return nil
		}
		for _, arg := range arguments {
			fmt.Printf("OT%s  %s\n", arg.Term, arg.AudioURL)
		}
		return nil
	},
}

func init() {
	scotusCmd.PersistentFlags().String("term", "", "October Term year (empty = current term)")

	scotusCmd.AddCommand(scotusOpinionsCmd)
	scotusCmd.AddCommand(scotusArgumentsCmd)

	rootCmd.AddCommand(scotusCmd)
}
