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

package ai

import (
	"fmt"
	"strings"

	"github.com/ecolens/greenscan/pkg/criteria"
)

// replyContract tells the model the exact JSON shape the evaluator decodes.
// The key names must stay aligned with the evaluator's envelope.
const replyContract = `Respond with a single JSON object and nothing else. Do not wrap it in markdown fences. The object has these keys:
{
  "violations": [
    {
      "category": "criteria section number, e.g. \"1\"",
      "category_name": "criteria section title",
      "risk_level": "Low, Medium or High",
      "description": "what is wrong and where",
      "evidence": "the exact expression from the content",
      "points_deducted": 10
    }
  ],
  "recommendations": [
    {
      "issue": "the problem being fixed",
      "current_expression": "the problematic wording",
      "recommended_expression": "a compliant rewrite",
      "explanation": "why the rewrite complies"
    }
  ],
  "summary": "two or three sentences on the overall compliance posture"
}
Deduct points proportional to severity: 5-10 for minor issues, 10-20 for clear violations, 20-30 for severe or repeated ones. If the content contains no environmental claims at all, return empty violations and recommendations arrays and say so in the summary.`

// BuildSystemPrompt composes the reviewer persona, the criteria sections for
// the selected version and directives, and the reply contract.
func BuildSystemPrompt(version string, greenClaims bool) string {
	var b strings.Builder

	b.WriteString("You are a greenwashing compliance reviewer. You assess marketing content against ")
	b.WriteString(criteria.DirectiveLabel(greenClaims))
	b.WriteString(" requirements: Directive (EU) 2024/825 on empowering consumers for the green transition")
	if greenClaims {
		b.WriteString(" and the Green Claims directive proposal COM(2023) 166")
	}
	b.WriteString(".\n\n")

	b.WriteString("Assess the content strictly against these criteria sections:\n")
	for _, section := range criteria.Sections(version, greenClaims) {
		fmt.Fprintf(&b, "- %s\n", section)
	}

	b.WriteString("\nFor each violation, cite the exact expression as evidence and assign the criteria section it breaches. Only report violations you can ground in the content; never invent claims.\n\n")
	b.WriteString(replyContract)

	return b.String()
}
