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

package history_test

import (
	"sync"
	"testing"

	"github.com/ecolens/greenscan/pkg/history"
	"github.com/ecolens/greenscan/pkg/models"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestHistory(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "History Suite")
}

func successResult(score int, risk string) *models.EvaluationResult {
	return &models.EvaluationResult{Success: true, Score: score, OverallRisk: risk}
}

var _ = Describe("Log", func() {
	var log *history.Log

	BeforeEach(func() {
		log = history.NewLog()
	})

	It("should start empty", func() {
		Expect(log.Len()).To(Equal(0))
		Expect(log.Entries()).To(BeEmpty())
		Expect(log.Stats().Total).To(Equal(0))
	})

	It("should append entries with unique IDs", func() {
		first := log.Append(models.ContentTypeText, successResult(80, models.RiskLow))
		second := log.Append(models.ContentTypeWeb, successResult(30, models.RiskHigh))
		Expect(first.ID).NotTo(Equal(second.ID))
		Expect(log.Len()).To(Equal(2))
	})

	It("should return entries newest first", func() {
		log.Append(models.ContentTypeText, successResult(80, models.RiskLow))
		log.Append(models.ContentTypeWeb, successResult(30, models.RiskHigh))
		entries := log.Entries()
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].Timestamp.Before(entries[1].Timestamp)).To(BeFalse())
	})

	It("should support concurrent appends without corruption", func() {
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				log.Append(models.ContentTypeText, successResult(50, models.RiskMedium))
			}()
		}
		wg.Wait()
		Expect(log.Len()).To(Equal(50))
	})

	It("should clear all entries", func() {
		log.Append(models.ContentTypeText, successResult(80, models.RiskLow))
		log.Clear()
		Expect(log.Len()).To(Equal(0))
	})

	Describe("Stats", func() {
		It("should aggregate scores, high-risk count and dominant type", func() {
			log.Append(models.ContentTypeText, successResult(90, models.RiskCompliant))
			log.Append(models.ContentTypeText, successResult(30, models.RiskHigh))
			log.Append(models.ContentTypeWeb, successResult(60, models.RiskMedium))

			stats := log.Stats()
			Expect(stats.Total).To(Equal(3))
			Expect(stats.AverageScore).To(BeNumerically("~", 60.0, 0.001))
			Expect(stats.HighRiskCount).To(Equal(1))
			Expect(stats.MostCommonType).To(Equal("text"))
		})

		It("should exclude rejected evaluations from the average", func() {
			log.Append(models.ContentTypeText, successResult(100, models.RiskCompliant))
			log.Append(models.ContentTypeText, &models.EvaluationResult{Success: false, Error: "decode_error"})

			stats := log.Stats()
			Expect(stats.Total).To(Equal(2))
			Expect(stats.AverageScore).To(BeNumerically("~", 100.0, 0.001))
		})
	})
})
