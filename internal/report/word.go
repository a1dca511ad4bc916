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

	"github.com/fumiama/go-docx"

	"github.com/ecolens/greenscan/pkg/models"
)

// RenderWord renders the analysis report as a docx document. The layout
// mirrors the PDF report with paragraph-level formatting only.
func RenderWord(r *models.EvaluationResult) ([]byte, error) {
	doc := docx.New().WithDefaultTheme()

	doc.AddParagraph().AddText("Greenwashing Compliance Report").Size("36").Bold()
	doc.AddParagraph().AddText("Generated " + timestampLabel(time.Now()))
	doc.AddParagraph()

	if !r.Success {
		doc.AddParagraph().AddText("Analysis failed").Size("28").Bold()
		doc.AddParagraph().AddText("Error: " + r.Error)
		doc.AddParagraph().AddText(r.Details)
		return docxBytes(doc)
	}

	doc.AddParagraph().AddText(fmt.Sprintf("%s  -  %d/100", r.OverallRisk, r.Score)).Size("32").Bold()
	doc.AddParagraph().AddText(r.RiskInfo.Description)
	doc.AddParagraph()

	doc.AddParagraph().AddText("Analysis details").Size("28").Bold()
	doc.AddParagraph().AddText("Content type: " + r.ContentType)
	doc.AddParagraph().AddText("Directives: " + r.Directives)
	doc.AddParagraph().AddText("Criteria version: " + r.Version)
	doc.AddParagraph().AddText(fmt.Sprintf("Violations: %d", len(r.Violations)))
	if r.ContentSample != "" {
		doc.AddParagraph().AddText("Content sample: " + r.ContentSample)
	}
	doc.AddParagraph()

	if len(r.Violations) == 0 {
		doc.AddParagraph().AddText("Detected issues").Size("28").Bold()
		doc.AddParagraph().AddText("No issues detected.")
	} else {
		doc.AddParagraph().AddText(fmt.Sprintf("Detected issues (%d)", len(r.Violations))).Size("28").Bold()
		for i, v := range r.Violations {
			title := fmt.Sprintf("%d. [%s] %s", i+1, v.Category, v.CategoryName)
			if v.Timestamp != nil {
				title += fmt.Sprintf(" (at %.1fs)", *v.Timestamp)
			}
			doc.AddParagraph().AddText(title).Bold()
			doc.AddParagraph().AddText(fmt.Sprintf("Risk level: %s   Points deducted: %d", v.RiskLevel, v.PointsDeducted))
			if v.Description != "" {
				doc.AddParagraph().AddText("Issue: " + v.Description)
			}
			if v.Evidence != "" {
				doc.AddParagraph().AddText("Expression: " + v.Evidence)
			}
			doc.AddParagraph()
		}
	}

	if len(r.Recommendations) == 0 {
		doc.AddParagraph().AddText("Recommendations").Size("28").Bold()
		doc.AddParagraph().AddText("No corrections required.")
	} else {
		doc.AddParagraph().AddText(fmt.Sprintf("Recommendations (%d)", len(r.Recommendations))).Size("28").Bold()
		for i, rec := range r.Recommendations {
			doc.AddParagraph().AddText(fmt.Sprintf("%d. %s", i+1, rec.Issue)).Bold()
			if rec.CurrentExpression != "" {
				doc.AddParagraph().AddText("Current: " + rec.CurrentExpression)
			}
			if rec.RecommendedExpression != "" {
				doc.AddParagraph().AddText("Recommended: " + rec.RecommendedExpression)
			}
			if rec.Explanation != "" {
				doc.AddParagraph().AddText("Why: " + rec.Explanation)
			}
			doc.AddParagraph()
		}
	}

	if r.Summary != "" {
		doc.AddParagraph().AddText("Summary").Size("28").Bold()
		doc.AddParagraph().AddText(r.Summary)
	}

	return docxBytes(doc)
}

func docxBytes(doc *docx.Docx) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("render docx: %w", err)
	}
	return buf.Bytes(), nil
}
