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

// Package evaluator turns a raw AI backend reply into a scored, classified
// EvaluationResult. Decode failure is represented as data, never as a panic
// or an error crossing the package boundary.
package evaluator

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ErrKindDecode is the error kind reported when a reply cannot be parsed.
const ErrKindDecode = "decode_error"

// maxRawExcerpt bounds the reply excerpt attached to decode errors so that
// malformed replies never flood logs or the UI.
const maxRawExcerpt = 500

// Envelope is the decoded shape of a model reply. All keys are optional;
// unknown keys are ignored for forward compatibility.
type Envelope struct {
	Violations      []RawViolation      `json:"violations"`
	Recommendations []RawRecommendation `json:"recommendations"`
	Summary         flexString          `json:"summary"`
	Score           *flexNumber         `json:"score"`
	OverallRisk     flexString          `json:"overall_risk"`
}

// RawViolation mirrors one violations[] entry before normalization. Field
// types are tolerant: mistyped scalars coerce to safe defaults instead of
// failing the whole decode.
type RawViolation struct {
	Category       flexString  `json:"category"`
	CategoryName   flexString  `json:"category_name"`
	RiskLevel      flexString  `json:"risk_level"`
	Description    flexString  `json:"description"`
	Evidence       flexString  `json:"evidence"`
	PointsDeducted flexNumber  `json:"points_deducted"`
	Timestamp      *flexNumber `json:"timestamp"`
}

// RawRecommendation mirrors one recommendations[] entry.
type RawRecommendation struct {
	Issue                 flexString `json:"issue"`
	CurrentExpression     flexString `json:"current_expression"`
	RecommendedExpression flexString `json:"recommended_expression"`
	Explanation           flexString `json:"explanation"`
}

// DecodeError describes a reply that could not be parsed. It is reported to
// the user, not raised; the caller may retry the whole request but never the
// decoding alone.
type DecodeError struct {
	Kind    string
	Details string
	Raw     string
}

// Decode strips markdown code fences from a raw reply and parses the
// remaining text as a JSON object. An empty or whitespace-only reply is a
// decode error, not a crash.
func Decode(raw string) (*Envelope, *DecodeError) {
	text := stripFences(raw)
	if text == "" {
		return nil, &DecodeError{Kind: ErrKindDecode, Details: "reply is empty"}
	}

	var env Envelope
	if err := json.Unmarshal([]byte(text), &env); err != nil {
		return nil, &DecodeError{
			Kind:    ErrKindDecode,
			Details: err.Error(),
			Raw:     excerpt(text, maxRawExcerpt),
		}
	}
	return &env, nil
}

// stripFences removes a leading ```json or ``` fence and a trailing ```
// fence, with surrounding whitespace, regardless of which backend produced
// them. Decoding a fenced and an unfenced reply yields identical envelopes.
func stripFences(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[3:]
	}
	if strings.HasSuffix(text, "```") {
		text = text[:len(text)-3]
	}
	return strings.TrimSpace(text)
}

func excerpt(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// flexString decodes JSON strings directly and stringifies numbers and
// booleans; anything else becomes the empty string.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexString(strconv.FormatFloat(n, 'f', -1, 64))
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flexString(strconv.FormatBool(b))
		return nil
	}
	*f = ""
	return nil
}

// flexNumber decodes JSON numbers and numeric strings; anything else
// coerces to zero rather than failing.
type flexNumber float64

func (f *flexNumber) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexNumber(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*f = flexNumber(parsed)
			return nil
		}
	}
	*f = 0
	return nil
}
