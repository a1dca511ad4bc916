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
	"math"
	"strings"

	"github.com/ecolens/greenscan/pkg/models"
)

// Sentinels applied when the model omits a field.
const (
	UnknownCategoryName = "unknown item"
	UnknownRiskLevel    = "Unknown"
)

// NormalizeViolations converts the envelope's violations into Violation
// records. A missing violations key yields an empty list, never an error.
// Entry order is preserved exactly: it is the model's own priority ranking.
func NormalizeViolations(env *Envelope) []models.Violation {
	violations := make([]models.Violation, 0, len(env.Violations))
	for _, raw := range env.Violations {
		v := models.Violation{
			Category:       string(raw.Category),
			CategoryName:   string(raw.CategoryName),
			RiskLevel:      normalizeRiskLevel(string(raw.RiskLevel)),
			Description:    string(raw.Description),
			Evidence:       string(raw.Evidence),
			PointsDeducted: clampPoints(float64(raw.PointsDeducted)),
		}
		if v.CategoryName == "" {
			v.CategoryName = UnknownCategoryName
		}
		if raw.Timestamp != nil {
			ts := float64(*raw.Timestamp)
			v.Timestamp = &ts
		}
		violations = append(violations, v)
	}
	return violations
}

// NormalizeRecommendations converts the envelope's recommendations; every
// absent field defaults to the empty string.
func NormalizeRecommendations(env *Envelope) []models.Recommendation {
	recommendations := make([]models.Recommendation, 0, len(env.Recommendations))
	for _, raw := range env.Recommendations {
		recommendations = append(recommendations, models.Recommendation{
			Issue:                 string(raw.Issue),
			CurrentExpression:     string(raw.CurrentExpression),
			RecommendedExpression: string(raw.RecommendedExpression),
			Explanation:           string(raw.Explanation),
		})
	}
	return recommendations
}

// normalizeRiskLevel canonicalizes the Low/Medium/High enum case-insensitively;
// unrecognized values pass through unchanged.
func normalizeRiskLevel(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "low":
		return "Low"
	case "medium":
		return "Medium"
	case "high":
		return "High"
	case "":
		return UnknownRiskLevel
	default:
		return level
	}
}

// clampPoints bounds a per-item deduction to [0, 100].
func clampPoints(points float64) int {
	if math.IsNaN(points) || points < 0 {
		return 0
	}
	if points > 100 {
		return 100
	}
	return int(math.Round(points))
}
