// Copyright 2025 GreenScan Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cmd implements the greenscan subcommands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ecolens/greenscan/pkg/config"
)

// Version is set at build time.
var Version = "v0.1.0"

// NewRootCommand creates the greenscan root command.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "greenscan",
		Short: "Greenwashing compliance analysis for marketing content",
		Long: `greenscan analyzes marketing content (text, images, PDFs, videos and web
pages) for greenwashing risk against the EU empowering-consumers directive
and the green-claims proposal, using an AI backend, and renders the results
as terminal output, PDF, Word and spreadsheet reports.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", "", "Path to the YAML configuration file")

	rootCmd.AddCommand(newAnalyzeCommand(&configPath))
	rootCmd.AddCommand(newServeCommand(&configPath))
	rootCmd.AddCommand(newEncryptCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// resolveConfig loads the configuration file if one is given or present,
// falling back to defaults with environment overrides.
func resolveConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	if _, err := os.Stat("config.yaml"); err == nil {
		return config.Load("config.yaml")
	}

	cfg := config.Default()
	if provider := os.Getenv("GREENSCAN_AI_PROVIDER"); provider != "" {
		cfg.AI.Provider = provider
	}
	if model := os.Getenv("GREENSCAN_AI_MODEL"); model != "" {
		cfg.AI.Model = model
	}
	cfg.AI.APIKey = firstEnv("GREENSCAN_API_KEY", "ANTHROPIC_API_KEY", "OPENAI_API_KEY")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
