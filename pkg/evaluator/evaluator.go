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
	"strings"

	"github.com/ecolens/greenscan/pkg/models"
)

// maxMetaLen bounds the request metadata strings copied into the result so
// downstream renderers stay bounded.
const maxMetaLen = 200

// RequestMeta is the request metadata passed through to the result.
type RequestMeta struct {
	ContentType   string
	Version       string
	Directives    string
	ContentSample string
}

// Evaluate is the sole public entry point of the core pipeline: decode the
// raw reply, normalize violations and recommendations, compute the score,
// classify the risk tier and assemble the final result. Every invocation
// ends in exactly one of two terminal states: Evaluated (Success=true) or
// Rejected (Success=false with a decode error).
func Evaluate(raw models.RawModelReply, meta RequestMeta) *models.EvaluationResult {
	result := &models.EvaluationResult{
		ContentType:   truncate(meta.ContentType, maxMetaLen),
		Version:       truncate(meta.Version, maxMetaLen),
		Directives:    truncate(meta.Directives, maxMetaLen),
		ContentSample: truncate(meta.ContentSample, maxMetaLen),
	}

	env, decodeErr := Decode(string(raw))
	if decodeErr != nil {
		result.Success = false
		result.Error = decodeErr.Kind
		details := decodeErr.Details
		if decodeErr.Raw != "" {
			details += ": " + decodeErr.Raw
		}
		result.Details = truncate(details, maxRawExcerpt)
		return result
	}

	violations := NormalizeViolations(env)
	recommendations := NormalizeRecommendations(env)
	score := ComputeScore(env, violations)
	tier, info := ClassifyRisk(score)

	// An explicit tier from the model wins over the numeric mapping; its
	// metadata falls back to the numeric tier's when the name is unknown.
	if explicit := strings.TrimSpace(string(env.OverallRisk)); explicit != "" {
		tier = explicit
		if explicitInfo, ok := RiskInfoFor(explicit); ok {
			info = explicitInfo
		}
	}

	result.Success = true
	result.OverallRisk = tier
	result.Score = score
	result.Violations = violations
	result.Recommendations = recommendations
	result.Summary = string(env.Summary)
	result.RiskInfo = info
	return result
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
