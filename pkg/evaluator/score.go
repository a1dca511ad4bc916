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

	"github.com/ecolens/greenscan/pkg/models"
)

// ComputeScore derives the compliance score. An explicit score supplied by
// the envelope (pre-aggregated multi-part analyses such as video) is trusted
// as-is; otherwise the score is 100 minus the sum of deductions, floored at
// zero. Pure function: no randomness, no I/O.
func ComputeScore(env *Envelope, violations []models.Violation) int {
	if env.Score != nil {
		return int(math.Round(float64(*env.Score)))
	}

	total := 0
	for _, v := range violations {
		total += v.PointsDeducted
	}
	score := 100 - total
	if score < 0 {
		score = 0
	}
	return score
}
