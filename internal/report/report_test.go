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

package report

import (
	"fmt"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ecolens/greenscan/pkg/history"
	"github.com/ecolens/greenscan/pkg/models"
)

func TestReport(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Report Suite")
}

func sampleResult() *models.EvaluationResult {
	ts := 3.5
	return &models.EvaluationResult{
		Success:     true,
		OverallRisk: models.RiskLow,
		Score:       75,
		Violations: []models.Violation{
			{
				Category:       "1",
				CategoryName:   "Vague claims",
				RiskLevel:      "Medium",
				Description:    "generic eco language",
				Evidence:       "eco-friendly",
				PointsDeducted: 15,
			},
			{
				Category:       "5",
				CategoryName:   "Carbon neutrality",
				RiskLevel:      "High",
				Description:    "unsubstantiated neutrality claim",
				Evidence:       "carbon neutral",
				PointsDeducted: 10,
				Timestamp:      &ts,
			},
		},
		Recommendations: []models.Recommendation{
			{
				Issue:                 "vague wording",
				CurrentExpression:     "eco-friendly",
				RecommendedExpression: "made from 80% recycled paper",
				Explanation:           "names the verified aspect",
			},
		},
		Summary:       "Some issues found.",
		RiskInfo:      models.RiskInfo{Color: "yellow", Description: "Minor issues detected."},
		ContentType:   "text",
		Version:       "v1",
		Directives:    "Empowerment + Green Claims",
		ContentSample: "Our eco-friendly carbon neutral bottle.",
	}
}

var _ = Describe("Cell flattening", func() {
	It("reports None for empty lists", func() {
		Expect(flattenViolations(nil)).To(Equal("None"))
		Expect(flattenRecommendations(nil)).To(Equal("None"))
	})

	It("keeps at most five violations and counts the rest", func() {
		violations := make([]models.Violation, 8)
		for i := range violations {
			violations[i] = models.Violation{
				Category:     fmt.Sprintf("%d", i+1),
				CategoryName: fmt.Sprintf("cat-%d", i+1),
			}
		}
		cell := flattenViolations(violations)
		Expect(cell).To(ContainSubstring("cat-5"))
		Expect(cell).NotTo(ContainSubstring("cat-6"))
		Expect(cell).To(ContainSubstring("...and 3 more"))
	})

	It("keeps at most three recommendations and counts the rest", func() {
		recs := make([]models.Recommendation, 5)
		for i := range recs {
			recs[i] = models.Recommendation{Issue: fmt.Sprintf("issue-%d", i+1)}
		}
		cell := flattenRecommendations(recs)
		Expect(cell).To(ContainSubstring("issue-3"))
		Expect(cell).NotTo(ContainSubstring("issue-4"))
		Expect(cell).To(ContainSubstring("...and 2 more"))
	})

	It("preserves violation order in the cell", func() {
		cell := flattenViolations([]models.Violation{
			{CategoryName: "first"}, {CategoryName: "second"},
		})
		Expect(strings.Index(cell, "first")).To(BeNumerically("<", strings.Index(cell, "second")))
	})

	It("truncates long cells to five hundred characters", func() {
		long := strings.Repeat("x", 900)
		Expect([]rune(truncateCell(long))).To(HaveLen(500))
		Expect(truncateCell("short")).To(Equal("short"))
	})
})

var _ = Describe("RenderWorkbook", func() {
	It("produces a non-empty workbook for history entries", func() {
		entries := []history.Entry{
			{Timestamp: time.Now(), Type: models.ContentTypeText, Result: sampleResult()},
		}
		data, err := RenderWorkbook(entries)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).NotTo(BeEmpty())
	})

	It("handles rejected results", func() {
		entries := []history.Entry{
			{Timestamp: time.Now(), Type: models.ContentTypeText, Result: &models.EvaluationResult{
				Success: false, Error: "decode_error", Details: "unexpected end of JSON input",
			}},
		}
		_, err := RenderWorkbook(entries)
		Expect(err).NotTo(HaveOccurred())
	})
})

var _ = Describe("RenderPDF", func() {
	It("renders a successful result", func() {
		data, err := RenderPDF(sampleResult())
		Expect(err).NotTo(HaveOccurred())
		Expect(data).NotTo(BeEmpty())
		Expect(string(data[:5])).To(Equal("%PDF-"))
	})

	It("renders a failure report", func() {
		data, err := RenderPDF(&models.EvaluationResult{
			Success: false, Error: "decode_error", Details: "reply is empty",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(data).NotTo(BeEmpty())
	})

	It("appends a chart page when history is available", func() {
		entries := []history.Entry{
			{Timestamp: time.Now(), Type: models.ContentTypeText, Result: sampleResult()},
			{Timestamp: time.Now(), Type: models.ContentTypeWeb, Result: sampleResult()},
		}
		data, err := RenderPDFWithHistory(sampleResult(), entries, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data[:5])).To(Equal("%PDF-"))

		plain, err := RenderPDF(sampleResult())
		Expect(err).NotTo(HaveOccurred())
		Expect(len(data)).To(BeNumerically(">", len(plain)))
	})
})

var _ = Describe("RenderWord", func() {
	It("renders a successful result", func() {
		data, err := RenderWord(sampleResult())
		Expect(err).NotTo(HaveOccurred())
		// docx files are zip archives
		Expect(data[:2]).To(Equal([]byte("PK")))
	})
})

var _ = Describe("RenderScoreChart", func() {
	It("charts successful analyses", func() {
		entries := []history.Entry{
			{Timestamp: time.Now(), Type: models.ContentTypeText, Result: sampleResult()},
			{Timestamp: time.Now(), Type: models.ContentTypeWeb, Result: sampleResult()},
		}
		data, err := RenderScoreChart(entries, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(data).NotTo(BeEmpty())
	})

	It("fails when there is nothing to chart", func() {
		entries := []history.Entry{
			{Result: &models.EvaluationResult{Success: false}},
		}
		_, err := RenderScoreChart(entries, "")
		Expect(err).To(HaveOccurred())
	})
})
