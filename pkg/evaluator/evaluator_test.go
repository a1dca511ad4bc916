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
	"encoding/json"
	"strings"
	"testing"

	"github.com/ecolens/greenscan/pkg/models"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestEvaluator(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Evaluator Suite")
}

func violationJSON(points int) string {
	return `{"category":"1","category_name":"Vague claims","risk_level":"High","description":"d","evidence":"e","points_deducted":` + itoa(points) + `}`
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

var _ = Describe("Decode", func() {
	It("should parse a plain JSON object", func() {
		env, decodeErr := Decode(`{"summary":"ok"}`)
		Expect(decodeErr).To(BeNil())
		Expect(string(env.Summary)).To(Equal("ok"))
	})

	It("should strip json-annotated fences and yield the same envelope as unfenced input", func() {
		fenced, errFenced := Decode("```json\n{\"summary\":\"ok\"}\n```")
		plain, errPlain := Decode(`{"summary":"ok"}`)
		Expect(errFenced).To(BeNil())
		Expect(errPlain).To(BeNil())
		Expect(fenced).To(Equal(plain))
	})

	It("should strip generic fences", func() {
		env, decodeErr := Decode("```\n{\"summary\":\"ok\"}\n```")
		Expect(decodeErr).To(BeNil())
		Expect(string(env.Summary)).To(Equal("ok"))
	})

	It("should report a decode error for non-JSON text without panicking", func() {
		env, decodeErr := Decode("not json at all")
		Expect(env).To(BeNil())
		Expect(decodeErr).NotTo(BeNil())
		Expect(decodeErr.Kind).To(Equal(ErrKindDecode))
		Expect(len(decodeErr.Raw)).To(BeNumerically("<=", 500))
	})

	It("should treat an empty reply as a decode error", func() {
		_, decodeErr := Decode("")
		Expect(decodeErr).NotTo(BeNil())
		Expect(decodeErr.Kind).To(Equal(ErrKindDecode))
	})

	It("should treat a whitespace-only reply as a decode error", func() {
		_, decodeErr := Decode("   \n\t  ")
		Expect(decodeErr).NotTo(BeNil())
	})

	It("should bound the raw excerpt to 500 characters", func() {
		long := "x" + strings.Repeat("y", 2000)
		_, decodeErr := Decode(long)
		Expect(decodeErr).NotTo(BeNil())
		Expect(len([]rune(decodeErr.Raw))).To(Equal(500))
	})

	It("should ignore unknown keys", func() {
		env, decodeErr := Decode(`{"summary":"ok","future_field":{"a":1}}`)
		Expect(decodeErr).To(BeNil())
		Expect(string(env.Summary)).To(Equal("ok"))
	})
})

var _ = Describe("NormalizeViolations", func() {
	It("should return an empty list when the violations key is missing", func() {
		env, _ := Decode(`{"summary":"ok"}`)
		Expect(NormalizeViolations(env)).To(BeEmpty())
	})

	It("should apply defaults for missing fields", func() {
		env, _ := Decode(`{"violations":[{}]}`)
		violations := NormalizeViolations(env)
		Expect(violations).To(HaveLen(1))
		Expect(violations[0].CategoryName).To(Equal(UnknownCategoryName))
		Expect(violations[0].RiskLevel).To(Equal(UnknownRiskLevel))
		Expect(violations[0].PointsDeducted).To(Equal(0))
		Expect(violations[0].Category).To(Equal(""))
		Expect(violations[0].Description).To(Equal(""))
		Expect(violations[0].Evidence).To(Equal(""))
	})

	It("should coerce non-numeric points to zero", func() {
		env, _ := Decode(`{"violations":[{"points_deducted":"lots"}]}`)
		violations := NormalizeViolations(env)
		Expect(violations[0].PointsDeducted).To(Equal(0))
	})

	It("should accept numeric strings as points", func() {
		env, _ := Decode(`{"violations":[{"points_deducted":"15"}]}`)
		violations := NormalizeViolations(env)
		Expect(violations[0].PointsDeducted).To(Equal(15))
	})

	It("should clamp per-item points to [0, 100]", func() {
		env, _ := Decode(`{"violations":[{"points_deducted":250},{"points_deducted":-10}]}`)
		violations := NormalizeViolations(env)
		Expect(violations[0].PointsDeducted).To(Equal(100))
		Expect(violations[1].PointsDeducted).To(Equal(0))
	})

	It("should canonicalize risk levels case-insensitively", func() {
		env, _ := Decode(`{"violations":[{"risk_level":"HIGH"},{"risk_level":"low"},{"risk_level":"Critical"}]}`)
		violations := NormalizeViolations(env)
		Expect(violations[0].RiskLevel).To(Equal("High"))
		Expect(violations[1].RiskLevel).To(Equal("Low"))
		Expect(violations[2].RiskLevel).To(Equal("Critical"))
	})

	It("should preserve input order exactly", func() {
		env, _ := Decode(`{"violations":[{"category":"A"},{"category":"B"},{"category":"C"}]}`)
		violations := NormalizeViolations(env)
		Expect(violations[0].Category).To(Equal("A"))
		Expect(violations[1].Category).To(Equal("B"))
		Expect(violations[2].Category).To(Equal("C"))
	})

	It("should pass through unknown category codes", func() {
		env, _ := Decode(`{"violations":[{"category":"99.9","category_name":"Made up"}]}`)
		violations := NormalizeViolations(env)
		Expect(violations[0].Category).To(Equal("99.9"))
	})

	It("should carry frame timestamps when present", func() {
		env, _ := Decode(`{"violations":[{"category":"1","timestamp":12.5}]}`)
		violations := NormalizeViolations(env)
		Expect(violations[0].Timestamp).NotTo(BeNil())
		Expect(*violations[0].Timestamp).To(Equal(12.5))
	})
})

var _ = Describe("ComputeScore", func() {
	It("should subtract deductions from 100", func() {
		env, _ := Decode(`{"violations":[` + violationJSON(10) + `,` + violationJSON(20) + `]}`)
		violations := NormalizeViolations(env)
		Expect(ComputeScore(env, violations)).To(Equal(70))
	})

	It("should never go below zero", func() {
		entries := make([]string, 5)
		for i := range entries {
			entries[i] = violationJSON(30)
		}
		env, _ := Decode(`{"violations":[` + strings.Join(entries, ",") + `]}`)
		violations := NormalizeViolations(env)
		Expect(ComputeScore(env, violations)).To(Equal(0))
	})

	It("should be deterministic for a fixed violation list", func() {
		env, _ := Decode(`{"violations":[` + violationJSON(13) + `,` + violationJSON(7) + `]}`)
		violations := NormalizeViolations(env)
		first := ComputeScore(env, violations)
		for i := 0; i < 10; i++ {
			Expect(ComputeScore(env, violations)).To(Equal(first))
		}
	})

	It("should trust an explicit score even when the subtraction differs", func() {
		env, _ := Decode(`{"score":42,"violations":[` + violationJSON(5) + `]}`)
		violations := NormalizeViolations(env)
		Expect(ComputeScore(env, violations)).To(Equal(42))
	})

	It("should count a violation with missing points as zero", func() {
		env, _ := Decode(`{"violations":[{"category":"1"},` + violationJSON(25) + `]}`)
		violations := NormalizeViolations(env)
		Expect(ComputeScore(env, violations)).To(Equal(75))
	})
})

var _ = Describe("ClassifyRisk", func() {
	DescribeTable("boundary classification",
		func(score int, expected string) {
			tier, _ := ClassifyRisk(score)
			Expect(tier).To(Equal(expected))
		},
		Entry("100 is Compliant", 100, models.RiskCompliant),
		Entry("90 is Compliant", 90, models.RiskCompliant),
		Entry("89 is Low Risk", 89, models.RiskLow),
		Entry("70 is Low Risk", 70, models.RiskLow),
		Entry("69 is Medium Risk", 69, models.RiskMedium),
		Entry("40 is Medium Risk", 40, models.RiskMedium),
		Entry("39 is High Risk", 39, models.RiskHigh),
		Entry("0 is High Risk", 0, models.RiskHigh),
	)

	It("should attach the tier's display metadata", func() {
		_, info := ClassifyRisk(95)
		Expect(info.Color).To(Equal("green"))
		Expect(info.Description).NotTo(BeEmpty())
	})

	It("should resolve explicit tier names case-insensitively", func() {
		info, ok := RiskInfoFor("high risk")
		Expect(ok).To(BeTrue())
		Expect(info.Color).To(Equal("red"))
	})

	It("should report unknown tier names", func() {
		_, ok := RiskInfoFor("Catastrophic")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Evaluate", func() {
	meta := RequestMeta{
		ContentType:   "text",
		Version:       "v1",
		Directives:    "Empowerment + Green Claims",
		ContentSample: "Our products are carbon neutral.",
	}

	It("should evaluate the end-to-end scenario", func() {
		raw := models.RawModelReply(`{"violations":[{"category":"4.1","category_name":"Color Use","risk_level":"High","description":"excessive green","evidence":"green background","points_deducted":30}],"recommendations":[],"summary":"one issue found"}`)
		result := Evaluate(raw, meta)

		Expect(result.Success).To(BeTrue())
		Expect(result.Score).To(Equal(70))
		Expect(result.OverallRisk).To(Equal(models.RiskLow))
		Expect(result.Violations).To(HaveLen(1))
		Expect(result.Violations[0].CategoryName).To(Equal("Color Use"))
		Expect(result.Recommendations).To(BeEmpty())
		Expect(result.Summary).To(Equal("one issue found"))
		Expect(result.RiskInfo.Color).To(Equal("yellow"))
		Expect(result.ContentType).To(Equal("text"))
		Expect(result.Version).To(Equal("v1"))
	})

	It("should short-circuit on decode failure", func() {
		result := Evaluate("not json at all", meta)
		Expect(result.Success).To(BeFalse())
		Expect(result.Error).To(Equal(ErrKindDecode))
		Expect(result.Details).NotTo(BeEmpty())
		Expect(len([]rune(result.Details))).To(BeNumerically("<=", 500))
		Expect(result.Violations).To(BeNil())
		Expect(result.OverallRisk).To(BeEmpty())
	})

	It("should trust an explicit overall risk tier", func() {
		raw := models.RawModelReply(`{"score":95,"overall_risk":"Medium Risk","violations":[],"summary":"merged"}`)
		result := Evaluate(raw, meta)
		Expect(result.Success).To(BeTrue())
		Expect(result.Score).To(Equal(95))
		Expect(result.OverallRisk).To(Equal(models.RiskMedium))
		Expect(result.RiskInfo.Color).To(Equal("orange"))
	})

	It("should keep an unknown explicit tier with numeric metadata fallback", func() {
		raw := models.RawModelReply(`{"score":95,"overall_risk":"Slightly Odd"}`)
		result := Evaluate(raw, meta)
		Expect(result.OverallRisk).To(Equal("Slightly Odd"))
		Expect(result.RiskInfo.Color).To(Equal("green"))
	})

	It("should truncate request metadata to 200 characters", func() {
		long := strings.Repeat("a", 900)
		result := Evaluate(`{"summary":"ok"}`, RequestMeta{ContentSample: long})
		Expect(len([]rune(result.ContentSample))).To(Equal(200))
	})

	It("should produce identical results across repeated invocations", func() {
		raw := models.RawModelReply(`{"violations":[` + violationJSON(12) + `],"summary":"s"}`)
		first := Evaluate(raw, meta)
		second := Evaluate(raw, meta)
		Expect(first).To(Equal(second))
	})

	It("should serialize failures to the reduced JSON shape", func() {
		result := Evaluate("nope", meta)
		data, err := json.Marshal(result)
		Expect(err).NotTo(HaveOccurred())

		var decoded map[string]any
		Expect(json.Unmarshal(data, &decoded)).To(Succeed())
		Expect(decoded).To(HaveKey("error"))
		Expect(decoded).To(HaveKey("details"))
		Expect(decoded).NotTo(HaveKey("score"))
		Expect(decoded).NotTo(HaveKey("violations"))
	})

	It("should serialize successes with the full field set", func() {
		result := Evaluate(`{"summary":"ok"}`, meta)
		data, err := json.Marshal(result)
		Expect(err).NotTo(HaveOccurred())

		var decoded map[string]any
		Expect(json.Unmarshal(data, &decoded)).To(Succeed())
		for _, key := range []string{"success", "overall_risk", "score", "violations", "recommendations", "summary", "risk_info", "content_type", "version", "directives", "content_sample"} {
			Expect(decoded).To(HaveKey(key))
		}
	})
})

var _ = Describe("FormatResult", func() {
	It("should render a successful result as markdown", func() {
		raw := models.RawModelReply(`{"violations":[{"category":"4.1","category_name":"Color Use","risk_level":"High","points_deducted":30}],"summary":"one issue"}`)
		result := Evaluate(raw, RequestMeta{ContentType: "text"})
		out := FormatResult(result)
		Expect(out).To(ContainSubstring("Overall assessment"))
		Expect(out).To(ContainSubstring("Color Use"))
		Expect(out).To(ContainSubstring("70/100"))
	})

	It("should render a failure without scoring sections", func() {
		result := Evaluate("garbage", RequestMeta{})
		out := FormatResult(result)
		Expect(out).To(ContainSubstring("Analysis failed"))
		Expect(out).NotTo(ContainSubstring("Violations"))
	})
})
