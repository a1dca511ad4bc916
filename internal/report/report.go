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

// Package report renders evaluation results into shareable artifacts: PDF
// and Word reports, spreadsheet exports and history charts. Renderers are
// read-only consumers of the result.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/ecolens/greenscan/pkg/models"
)

const (
	// maxCellChars bounds free-text spreadsheet cells.
	maxCellChars = 500
	// maxCellViolations and maxCellRecommendations bound how many entries
	// are flattened into a single cell.
	maxCellViolations      = 5
	maxCellRecommendations = 3

	noneCell = "None"
)

func timestampLabel(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

func truncateCell(s string) string {
	runes := []rune(s)
	if len(runes) <= maxCellChars {
		return s
	}
	return string(runes[:maxCellChars])
}

// flattenViolations joins the first violations into one cell, preserving
// order and noting how many were omitted.
func flattenViolations(violations []models.Violation) string {
	if len(violations) == 0 {
		return noneCell
	}

	parts := make([]string, 0, maxCellViolations+1)
	for i, v := range violations {
		if i == maxCellViolations {
			break
		}
		parts = append(parts, fmt.Sprintf("[%s] %s: %s (deducted: %d)",
			v.Category, v.CategoryName, v.Description, v.PointsDeducted))
	}
	if len(violations) > maxCellViolations {
		parts = append(parts, fmt.Sprintf("...and %d more", len(violations)-maxCellViolations))
	}
	return strings.Join(parts, " | ")
}

// flattenRecommendations joins the first recommendations into one cell.
func flattenRecommendations(recommendations []models.Recommendation) string {
	if len(recommendations) == 0 {
		return noneCell
	}

	parts := make([]string, 0, maxCellRecommendations+1)
	for i, r := range recommendations {
		if i == maxCellRecommendations {
			break
		}
		parts = append(parts, fmt.Sprintf("%s: %s -> %s",
			r.Issue, r.CurrentExpression, r.RecommendedExpression))
	}
	if len(recommendations) > maxCellRecommendations {
		parts = append(parts, fmt.Sprintf("...and %d more", len(recommendations)-maxCellRecommendations))
	}
	return strings.Join(parts, " | ")
}
