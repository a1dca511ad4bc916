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

type riskTier struct {
	name string
	min  int
	info models.RiskInfo
}

// Tier thresholds are inclusive lower bounds, evaluated high to low.
// The boundary placement is compliance policy and must not drift: 90 is
// Compliant, 89 is Low Risk, 70 is Low Risk, 69 is Medium Risk, 40 is
// Medium Risk, 39 is High Risk.
var riskTiers = []riskTier{
	{
		name: models.RiskCompliant,
		min:  90,
		info: models.RiskInfo{
			Color:       "green",
			Description: "No significant greenwashing risk detected. The content meets the disclosure standards of the applied directives.",
		},
	},
	{
		name: models.RiskLow,
		min:  70,
		info: models.RiskInfo{
			Color:       "yellow",
			Description: "Minor issues detected. Review the flagged expressions and add substantiation where needed.",
		},
	},
	{
		name: models.RiskMedium,
		min:  40,
		info: models.RiskInfo{
			Color:       "orange",
			Description: "Several problematic expressions detected. Corrections are recommended before publication.",
		},
	},
	{
		name: models.RiskHigh,
		min:  0,
		info: models.RiskInfo{
			Color:       "red",
			Description: "Serious compliance issues detected. The content is likely to violate the applied directives and should be revised.",
		},
	},
}

// ClassifyRisk maps a score in [0,100] to its tier name and display
// metadata. First match wins.
func ClassifyRisk(score int) (string, models.RiskInfo) {
	for _, tier := range riskTiers {
		if score >= tier.min {
			return tier.name, tier.info
		}
	}
	last := riskTiers[len(riskTiers)-1]
	return last.name, last.info
}

// RiskInfoFor returns the display metadata for a tier named explicitly by
// the model, matched case-insensitively. Unknown names report ok=false and
// the caller keeps the numeric classification's metadata.
func RiskInfoFor(name string) (models.RiskInfo, bool) {
	for _, tier := range riskTiers {
		if strings.EqualFold(strings.TrimSpace(name), tier.name) {
			return tier.info, true
		}
	}
	return models.RiskInfo{}, false
}
