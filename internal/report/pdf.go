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

package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/ecolens/greenscan/pkg/history"
	"github.com/ecolens/greenscan/pkg/models"
)

// tierFill maps a risk color name to the header fill used in reports.
var tierFill = map[string][3]int{
	"green":  {46, 125, 50},
	"yellow": {249, 168, 37},
	"orange": {239, 108, 0},
	"red":    {198, 40, 40},
}

// RenderPDF renders a full analysis report.
func RenderPDF(r *models.EvaluationResult) ([]byte, error) {
	pdf := newReportDoc(r)
	return pdfBytes(pdf)
}

// RenderPDFWithHistory renders the report with a score history chart page
// appended. The chart page is skipped when no chart can be drawn.
func RenderPDFWithHistory(r *models.EvaluationResult, entries []history.Entry, fontPath string) ([]byte, error) {
	pdf := newReportDoc(r)

	if png, err := RenderScoreChart(entries, fontPath); err == nil {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 8, "Score history", "", 1, "L", false, 0, "")
		pdf.Ln(2)
		opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		pdf.RegisterImageOptionsReader("score-history", opts, bytes.NewReader(png))
		pdf.ImageOptions("score-history", 15, pdf.GetY(), 180, 0, false, opts, 0, "")
	}

	return pdfBytes(pdf)
}

func newReportDoc(r *models.EvaluationResult) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Greenwashing Compliance Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated "+timestampLabel(time.Now()), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	if !r.Success {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 8, "Analysis failed", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, fmt.Sprintf("Error: %s", r.Error), "", "L", false)
		pdf.MultiCell(0, 6, r.Details, "", "L", false)
		return pdf
	}

	// Tier banner
	fill, ok := tierFill[r.RiskInfo.Color]
	if !ok {
		fill = [3]int{97, 97, 97}
	}
	pdf.SetFillColor(fill[0], fill[1], fill[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 12, fmt.Sprintf("%s  -  %d/100", r.OverallRisk, r.Score), "", 1, "C", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, r.RiskInfo.Description, "", "L", false)
	pdf.Ln(4)

	// Summary table
	summaryRows := [][2]string{
		{"Content type", r.ContentType},
		{"Directives", r.Directives},
		{"Criteria version", r.Version},
		{"Violations", fmt.Sprintf("%d", len(r.Violations))},
	}
	if r.ContentSample != "" {
		summaryRows = append(summaryRows, [2]string{"Content sample", r.ContentSample})
	}
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range summaryRows {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(45, 7, row[0], "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 7, row[1], "1", "L", false)
	}
	pdf.Ln(6)

	// Violations
	pdf.SetFont("Helvetica", "B", 14)
	if len(r.Violations) == 0 {
		pdf.CellFormat(0, 8, "Detected issues", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 6, "No issues detected.", "", 1, "L", false, 0, "")
	} else {
		pdf.CellFormat(0, 8, fmt.Sprintf("Detected issues (%d)", len(r.Violations)), "", 1, "L", false, 0, "")
		for i, v := range r.Violations {
			pdf.SetFont("Helvetica", "B", 11)
			title := fmt.Sprintf("%d. [%s] %s", i+1, v.Category, v.CategoryName)
			if v.Timestamp != nil {
				title += fmt.Sprintf(" (at %.1fs)", *v.Timestamp)
			}
			pdf.MultiCell(0, 6, title, "", "L", false)

			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, fmt.Sprintf("Risk level: %s   Points deducted: %d", v.RiskLevel, v.PointsDeducted), "", "L", false)
			if v.Description != "" {
				pdf.MultiCell(0, 5, "Issue: "+v.Description, "", "L", false)
			}
			if v.Evidence != "" {
				pdf.MultiCell(0, 5, "Expression: "+v.Evidence, "", "L", false)
			}
			pdf.Ln(3)
		}
	}
	pdf.Ln(4)

	// Recommendations
	pdf.SetFont("Helvetica", "B", 14)
	if len(r.Recommendations) == 0 {
		pdf.CellFormat(0, 8, "Recommendations", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 6, "No corrections required.", "", 1, "L", false, 0, "")
	} else {
		pdf.CellFormat(0, 8, fmt.Sprintf("Recommendations (%d)", len(r.Recommendations)), "", 1, "L", false, 0, "")
		for i, rec := range r.Recommendations {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.MultiCell(0, 6, fmt.Sprintf("%d. %s", i+1, rec.Issue), "", "L", false)
			pdf.SetFont("Helvetica", "", 10)
			if rec.CurrentExpression != "" {
				pdf.MultiCell(0, 5, "Current: "+rec.CurrentExpression, "", "L", false)
			}
			if rec.RecommendedExpression != "" {
				pdf.MultiCell(0, 5, "Recommended: "+rec.RecommendedExpression, "", "L", false)
			}
			if rec.Explanation != "" {
				pdf.MultiCell(0, 5, "Why: "+rec.Explanation, "", "L", false)
			}
			pdf.Ln(3)
		}
	}

	// Overall summary
	if r.Summary != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, r.Summary, "", "L", false)
	}

	return pdf
}

func pdfBytes(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
