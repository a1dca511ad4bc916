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

package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/ecolens/greenscan/internal/ai"
	"github.com/ecolens/greenscan/pkg/criteria"
	"github.com/ecolens/greenscan/pkg/models"
)

// minTextLength rejects inputs too short to contain an assessable claim.
const minTextLength = 10

func (a *Analyzer) analyzeText(ctx context.Context, system string, req models.AnalysisRequest) (*Analysis, error) {
	text := strings.TrimSpace(req.Text)
	if len([]rune(text)) < minTextLength {
		return nil, fmt.Errorf("text too short for analysis: need at least %d characters", minTextLength)
	}

	instruction := fmt.Sprintf(`Content to analyze (marketing text):
%s

Applicable criteria sections: %s

Assess every environmental claim in the text against the criteria.`, text, criteriaList(req))

	reply, err := a.gateway.Review(ctx, ai.ReviewRequest{
		System:      system,
		Instruction: withNote(instruction, req.Note),
	})
	if err != nil {
		return nil, fmt.Errorf("text analysis: %w", err)
	}

	return &Analysis{Reply: reply, Sample: text}, nil
}

// QuickFinding is one locally matched risk phrase. The quick check runs
// before the AI call so users see likely problem spots immediately; it never
// affects the score.
type QuickFinding struct {
	Type       string `json:"type"`
	Phrase     string `json:"phrase"`
	Suggestion string `json:"suggestion"`
}

// QuickCheck scans text for known risk phrases, case-insensitively.
func QuickCheck(text string) []QuickFinding {
	lower := strings.ToLower(text)
	findings := make([]QuickFinding, 0)
	for _, pattern := range criteria.QuickCheckPatterns {
		for _, phrase := range pattern.Phrases {
			if strings.Contains(lower, strings.ToLower(phrase)) {
				findings = append(findings, QuickFinding{
					Type:       pattern.Type,
					Phrase:     phrase,
					Suggestion: pattern.Suggestion,
				})
			}
		}
	}
	return findings
}
