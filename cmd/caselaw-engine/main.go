// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the caselaw-engine CLI.
// Implements: prd001-identification, prd002-fetch, prd003-synthesis,
//             prd004-history (CLI surface).
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/caselaw-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the caselaw-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "caselaw-engine",
	Short: "Constitutional law research over real legal databases",
	Long: `caselaw-engine answers legal questions with a three-step pipeline:
an AI model identifies the cases and statutes that matter, CourtListener,
supremecourt.gov, and Congress.gov supply the real data, and the model
synthesizes a sourced answer. Every cited case comes from a database,
never from model memory.

Each pipeline stage is also a standalone subcommand (identify, fetch)
for scripting and inspection. Completed runs are saved to a local
history database.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./caselaw-engine.yaml or ~/.config/caselaw-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("caselaw-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "caselaw-engine"))
		}
	}

	viper.SetEnvPrefix("CASELAW_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
