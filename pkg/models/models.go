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

// Package models defines the shared data structures exchanged between the
// content adapters, the AI gateway, the result evaluator and the report
// renderers.
package models

import "encoding/json"

// ContentType identifies the kind of marketing content being analyzed.
type ContentType string

const (
	ContentTypeText  ContentType = "text"
	ContentTypeImage ContentType = "image"
	ContentTypePDF   ContentType = "pdf"
	ContentTypeVideo ContentType = "video"
	ContentTypeWeb   ContentType = "web"
)

// Risk tier names. The numeric thresholds live in the evaluator; the names
// are shared because decoded model replies may carry them verbatim.
const (
	RiskCompliant = "Compliant"
	RiskLow       = "Low Risk"
	RiskMedium    = "Medium Risk"
	RiskHigh      = "High Risk"
)

// RawModelReply is the opaque text returned by an AI backend. It is expected
// to contain a JSON object, possibly wrapped in markdown code fences.
type RawModelReply string

// AnalysisRequest describes one user-initiated analysis. It is ephemeral:
// created per action, discarded after the result is produced.
type AnalysisRequest struct {
	Type        ContentType `json:"type"`
	Text        string      `json:"text,omitempty"`
	URL         string      `json:"url,omitempty"`
	Payload     []byte      `json:"-"`
	MIME        string      `json:"mime,omitempty"`
	Version     string      `json:"version"`
	GreenClaims bool        `json:"green_claims"`
	Note        string      `json:"note,omitempty"`
}

// Violation is one detected instance of non-compliant content.
type Violation struct {
	Category       string   `json:"category"`
	CategoryName   string   `json:"category_name"`
	RiskLevel      string   `json:"risk_level"`
	Description    string   `json:"description"`
	Evidence       string   `json:"evidence"`
	PointsDeducted int      `json:"points_deducted"`
	Timestamp      *float64 `json:"timestamp,omitempty"`
}

// Recommendation is a suggested rewrite for a problematic expression.
type Recommendation struct {
	Issue                 string `json:"issue"`
	CurrentExpression     string `json:"current_expression"`
	RecommendedExpression string `json:"recommended_expression"`
	Explanation           string `json:"explanation"`
}

// RiskInfo carries display metadata for a risk tier.
type RiskInfo struct {
	Color       string `json:"color"`
	Description string `json:"description"`
}

// EvaluationResult is the evaluator's output. It is immutable once built;
// renderers and sinks are read-only consumers.
type EvaluationResult struct {
	Success         bool             `json:"success"`
	OverallRisk     string           `json:"overall_risk"`
	Score           int              `json:"score"`
	Violations      []Violation      `json:"violations"`
	Recommendations []Recommendation `json:"recommendations"`
	Summary         string           `json:"summary"`
	RiskInfo        RiskInfo         `json:"risk_info"`

	// Request metadata copied through for renderers.
	ContentType   string `json:"content_type"`
	Version       string `json:"version"`
	Directives    string `json:"directives"`
	ContentSample string `json:"content_sample"`

	// Populated only when Success is false.
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

// MarshalJSON keeps the two terminal shapes distinct: a rejected result
// serializes to success/error/details only, without empty scoring fields.
func (r *EvaluationResult) MarshalJSON() ([]byte, error) {
	if !r.Success {
		return json.Marshal(struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
			Details string `json:"details"`
		}{Success: false, Error: r.Error, Details: r.Details})
	}
	type alias EvaluationResult
	return json.Marshal((*alias)(r))
}
