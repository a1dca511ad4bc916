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

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ecolens/greenscan/internal/analyzer"
	"github.com/ecolens/greenscan/internal/app"
	"github.com/ecolens/greenscan/internal/report"
	"github.com/ecolens/greenscan/pkg/evaluator"
	"github.com/ecolens/greenscan/pkg/models"
)

type analyzeOptions struct {
	contentType string
	text        string
	input       string
	url         string
	note        string
	version     string
	greenClaims bool

	pdfOut   string
	wordOut  string
	xlsxOut  string
	jsonOut  string
	chartOut string
}

func newAnalyzeCommand(configPath *string) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze one piece of content for greenwashing risk",
		Example: `
  # Analyze a marketing sentence
  greenscan analyze --type text --text "Our products are 100% carbon neutral."

  # Analyze a PDF brochure and write a PDF report
  greenscan analyze --type pdf --input brochure.pdf --pdf report.pdf

  # Analyze a web page against both directives with the quick rubric
  greenscan analyze --type web --url https://example.com --green-claims --version v3

  # Analyze a video and export the raw result as JSON
  greenscan analyze --type video --input spot.mp4 --json result.json
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, *configPath, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.contentType, "type", "t", "text", "Content type: text, image, pdf, video or web")
	cmd.Flags().StringVar(&opts.text, "text", "", "Text to analyze (type text)")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Input file (types text, image, pdf, video)")
	cmd.Flags().StringVarP(&opts.url, "url", "u", "", "Page URL (type web)")
	cmd.Flags().StringVar(&opts.note, "note", "", "Additional context passed to the reviewer")
	cmd.Flags().StringVar(&opts.version, "version", "v1", "Criteria version: v1, v2 or v3")
	cmd.Flags().BoolVar(&opts.greenClaims, "green-claims", false, "Apply the green-claims proposal sections as well")
	cmd.Flags().StringVar(&opts.pdfOut, "pdf", "", "Write a PDF report to this path")
	cmd.Flags().StringVar(&opts.wordOut, "word", "", "Write a Word report to this path")
	cmd.Flags().StringVar(&opts.xlsxOut, "xlsx", "", "Write a spreadsheet export to this path")
	cmd.Flags().StringVar(&opts.jsonOut, "json", "", "Write the raw result JSON to this path")
	cmd.Flags().StringVar(&opts.chartOut, "chart", "", "Write a score chart PNG to this path")

	return cmd
}

func runAnalyze(cmd *cobra.Command, configPath string, opts *analyzeOptions) error {
	req, err := buildRequest(opts)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(configPath)
	if err != nil {
		return err
	}

	// Local phrase screening for text runs ahead of the AI call.
	if req.Type == models.ContentTypeText {
		printQuickFindings(cmd, analyzer.QuickCheck(req.Text))
	}

	application, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	result, err := application.Analyze(cmd.Context(), req)
	if err != nil {
		return err
	}

	cmd.Println(evaluator.FormatResult(result))

	return writeArtifacts(cmd, application, result, opts, cfg.Report.FontPath)
}

func buildRequest(opts *analyzeOptions) (models.AnalysisRequest, error) {
	req := models.AnalysisRequest{
		Type:        models.ContentType(opts.contentType),
		Version:     opts.version,
		GreenClaims: opts.greenClaims,
		Note:        opts.note,
	}

	switch req.Type {
	case models.ContentTypeText:
		req.Text = opts.text
		if req.Text == "" && opts.input != "" {
			data, err := readInput(opts.input)
			if err != nil {
				return req, fmt.Errorf("read input: %w", err)
			}
			req.Text = string(data)
		}
		if req.Text == "" {
			return req, fmt.Errorf("text analysis requires --text or --input")
		}

	case models.ContentTypeImage, models.ContentTypePDF, models.ContentTypeVideo:
		if opts.input == "" {
			return req, fmt.Errorf("%s analysis requires --input", req.Type)
		}
		data, err := readInput(opts.input)
		if err != nil {
			return req, fmt.Errorf("read input: %w", err)
		}
		req.Payload = data
		req.MIME = mime.TypeByExtension(strings.ToLower(filepath.Ext(opts.input)))

	case models.ContentTypeWeb:
		if opts.url == "" {
			return req, fmt.Errorf("web analysis requires --url")
		}
		req.URL = opts.url

	default:
		return req, fmt.Errorf("unsupported content type: %q", opts.contentType)
	}

	return req, nil
}

// readInput reads a file, or stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func printQuickFindings(cmd *cobra.Command, findings []analyzer.QuickFinding) {
	if len(findings) == 0 {
		return
	}
	cmd.Printf("Quick check flagged %d phrase(s) before AI analysis:\n", len(findings))
	for _, f := range findings {
		cmd.Printf("  - [%s] %q: %s\n", f.Type, f.Phrase, f.Suggestion)
	}
	cmd.Println()
}

func writeArtifacts(cmd *cobra.Command, application *app.App, result *models.EvaluationResult, opts *analyzeOptions, fontPath string) error {
	if opts.jsonOut != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("serialize result: %w", err)
		}
		if err := os.WriteFile(opts.jsonOut, data, 0o644); err != nil {
			return fmt.Errorf("write JSON result: %w", err)
		}
		cmd.Println("JSON result written to", opts.jsonOut)
	}

	if opts.pdfOut != "" {
		data, err := report.RenderPDFWithHistory(result, application.History(), fontPath)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.pdfOut, data, 0o644); err != nil {
			return fmt.Errorf("write PDF report: %w", err)
		}
		cmd.Println("PDF report written to", opts.pdfOut)
	}

	if opts.wordOut != "" {
		data, err := report.RenderWord(result)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.wordOut, data, 0o644); err != nil {
			return fmt.Errorf("write Word report: %w", err)
		}
		cmd.Println("Word report written to", opts.wordOut)
	}

	if opts.xlsxOut != "" {
		data, err := report.RenderWorkbook(application.History())
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.xlsxOut, data, 0o644); err != nil {
			return fmt.Errorf("write spreadsheet: %w", err)
		}
		cmd.Println("Spreadsheet written to", opts.xlsxOut)
	}

	if opts.chartOut != "" {
		data, err := report.RenderScoreChart(application.History(), fontPath)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.chartOut, data, 0o644); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
		cmd.Println("Score chart written to", opts.chartOut)
	}

	return nil
}
