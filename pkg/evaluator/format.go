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

package evaluator

import (
	"fmt"
	"strings"

	"github.com/ecolens/greenscan/pkg/models"
)

// FormatResult renders an EvaluationResult as a markdown block. It is a pure
// projection shared by the CLI output and the history viewer; no new
// computation happens here.
func FormatResult(r *models.EvaluationResult) string {
	var b strings.Builder

	if !r.Success {
		b.WriteString("## Analysis failed\n\n")
		fmt.Fprintf(&b, "- **Error**: %s\n", r.Error)
		if r.Details != "" {
			fmt.Fprintf(&b, "- **Details**: %s\n", r.Details)
		}
		return b.String()
	}

	b.WriteString("## Overall assessment\n\n")
	fmt.Fprintf(&b, "- **Risk tier**: %s (%s)\n", r.OverallRisk, r.RiskInfo.Color)
	fmt.Fprintf(&b, "- **Score**: %d/100\n", r.Score)
	if r.ContentType != "" {
		fmt.Fprintf(&b, "- **Content type**: %s\n", r.ContentType)
	}
	if r.Directives != "" {
		fmt.Fprintf(&b, "- **Directives**: %s\n", r.Directives)
	}
	if r.Version != "" {
		fmt.Fprintf(&b, "- **Criteria version**: %s\n", r.Version)
	}
	if r.RiskInfo.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", r.RiskInfo.Description)
	}

	fmt.Fprintf(&b, "\n### Violations (%d)\n\n", len(r.Violations))
	if len(r.Violations) == 0 {
		b.WriteString("No violations detected.\n")
	}
	for i, v := range r.Violations {
		fmt.Fprintf(&b, "%d. **%s**", i+1, v.CategoryName)
		if v.Category != "" {
			fmt.Fprintf(&b, " (item %s)", v.Category)
		}
		fmt.Fprintf(&b, ": %s risk, -%d points\n", v.RiskLevel, v.PointsDeducted)
		if v.Description != "" {
			fmt.Fprintf(&b, "   - Issue: %s\n", v.Description)
		}
		if v.Evidence != "" {
			fmt.Fprintf(&b, "   - Evidence: %q\n", v.Evidence)
		}
		if v.Timestamp != nil {
			fmt.Fprintf(&b, "   - At: %.1fs\n", *v.Timestamp)
		}
	}

	fmt.Fprintf(&b, "\n### Recommendations (%d)\n\n", len(r.Recommendations))
	if len(r.Recommendations) == 0 {
		b.WriteString("No corrections required.\n")
	}
	for i, rec := range r.Recommendations {
		issue := rec.Issue
		if issue == "" {
			issue = "Issue"
		}
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, issue)
		if rec.CurrentExpression != "" {
			fmt.Fprintf(&b, "   - Current: %q\n", rec.CurrentExpression)
		}
		if rec.RecommendedExpression != "" {
			fmt.Fprintf(&b, "   - Recommended: %q\n", rec.RecommendedExpression)
		}
		if rec.Explanation != "" {
			fmt.Fprintf(&b, "   - Why: %s\n", rec.Explanation)
		}
	}

	if r.Summary != "" {
		fmt.Fprintf(&b, "\n### Summary\n\n%s\n", r.Summary)
	}
	return b.String()
}
