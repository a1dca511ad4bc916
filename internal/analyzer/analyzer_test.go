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
	"encoding/json"
	"strconv"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ecolens/greenscan/internal/ai"
	"github.com/ecolens/greenscan/pkg/config"
	"github.com/ecolens/greenscan/pkg/models"
)

func TestAnalyzer(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Analyzer Suite")
}

// stubGateway replays canned replies and records the requests it received.
type stubGateway struct {
	replies  []models.RawModelReply
	requests []ai.ReviewRequest
	calls    int
}

func (s *stubGateway) Review(_ context.Context, req ai.ReviewRequest) (models.RawModelReply, error) {
	s.requests = append(s.requests, req)
	reply := s.replies[s.calls%len(s.replies)]
	s.calls++
	return reply, nil
}

func (s *stubGateway) Model() string { return "stub-model" }

func newTestAnalyzer(gw ai.Gateway) *Analyzer {
	cfg := config.Default().Analyzer
	cfg.Browser.Enabled = false
	return New(gw, cfg)
}

var _ = Describe("QuickCheck", func() {
	It("flags known risk phrases case-insensitively", func() {
		findings := QuickCheck("Our packaging is Carbon Neutral and ECO-FRIENDLY.")
		Expect(findings).To(HaveLen(2))
		Expect(findings[0].Type).To(Equal("Absolute claims"))
		Expect(findings[0].Phrase).To(Equal("carbon neutral"))
		Expect(findings[1].Type).To(Equal("Vague terms"))
	})

	It("returns an empty list for neutral text", func() {
		Expect(QuickCheck("Our new kettle boils water in 90 seconds.")).To(BeEmpty())
	})

	It("carries a suggestion with every finding", func() {
		findings := QuickCheck("net zero by 2050")
		Expect(findings).NotTo(BeEmpty())
		Expect(findings[0].Suggestion).NotTo(BeEmpty())
	})
})

var _ = Describe("Text analysis", func() {
	var gw *stubGateway

	BeforeEach(func() {
		gw = &stubGateway{replies: []models.RawModelReply{
			`{"violations": [], "recommendations": [], "summary": "clean"}`,
		}}
	})

	It("sends the text and criteria to the gateway", func() {
		a := newTestAnalyzer(gw)
		analysis, err := a.Analyze(context.Background(), models.AnalysisRequest{
			Type:    models.ContentTypeText,
			Text:    "Our products are carbon neutral.",
			Version: "v1",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(analysis.Sample).To(Equal("Our products are carbon neutral."))
		Expect(gw.requests).To(HaveLen(1))
		Expect(gw.requests[0].Instruction).To(ContainSubstring("Our products are carbon neutral."))
		Expect(gw.requests[0].Instruction).To(ContainSubstring("Vague or generic environmental claims"))
		Expect(gw.requests[0].System).NotTo(BeEmpty())
	})

	It("rejects text below the minimum length", func() {
		a := newTestAnalyzer(gw)
		_, err := a.Analyze(context.Background(), models.AnalysisRequest{
			Type: models.ContentTypeText,
			Text: "  green  ",
		})
		Expect(err).To(MatchError(ContainSubstring("too short")))
		Expect(gw.calls).To(BeZero())
	})

	It("appends the requester note to the instruction", func() {
		a := newTestAnalyzer(gw)
		_, err := a.Analyze(context.Background(), models.AnalysisRequest{
			Type: models.ContentTypeText,
			Text: "Completely sustainable production.",
			Note: "Campaign targets the German market.",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(gw.requests[0].Instruction).To(ContainSubstring("Campaign targets the German market."))
	})
})

var _ = Describe("Dispatch", func() {
	It("rejects unknown content types", func() {
		a := newTestAnalyzer(&stubGateway{replies: []models.RawModelReply{""}})
		_, err := a.Analyze(context.Background(), models.AnalysisRequest{Type: "audio"})
		Expect(err).To(MatchError(ContainSubstring("unsupported content type")))
	})

	It("requires a payload for image analysis", func() {
		a := newTestAnalyzer(&stubGateway{replies: []models.RawModelReply{""}})
		_, err := a.Analyze(context.Background(), models.AnalysisRequest{Type: models.ContentTypeImage})
		Expect(err).To(MatchError(ContainSubstring("payload")))
	})
})

var _ = Describe("Frame merging", func() {
	frameReply := func(evidence string, points int) models.RawModelReply {
		return models.RawModelReply(`{
			"violations": [{"category": "4", "category_name": "Visual elements", "risk_level": "Medium",
				"description": "nature imagery", "evidence": "` + evidence + `", "points_deducted": ` + itoa(points) + `}],
			"recommendations": [{"issue": "imagery", "recommended_expression": "neutral design"}],
			"summary": "frame summary"
		}`)
	}

	threeFrames := []frame{
		{Timestamp: 0, Data: []byte("f0")},
		{Timestamp: 5, Data: []byte("f5")},
		{Timestamp: 10, Data: []byte("f10")},
	}

	It("merges frame violations with timestamps and computes the aggregate score", func() {
		gw := &stubGateway{replies: []models.RawModelReply{
			frameReply("forest", 10),
			frameReply("leaves", 20),
			frameReply("globe", 15),
		}}
		a := newTestAnalyzer(gw)

		analysis, err := a.analyzeFrames(context.Background(), "system", models.AnalysisRequest{Version: "v1"}, threeFrames)
		Expect(err).NotTo(HaveOccurred())

		var merged mergedReply
		Expect(json.Unmarshal([]byte(analysis.Reply), &merged)).To(Succeed())
		Expect(merged.Score).To(Equal(55))
		Expect(merged.OverallRisk).To(Equal(models.RiskMedium))
		Expect(merged.Violations).To(HaveLen(3))
		Expect(merged.Recommendations).To(HaveLen(3))

		Expect(merged.Violations[0].Timestamp).To(HaveValue(Equal(0.0)))
		Expect(merged.Violations[1].Timestamp).To(HaveValue(Equal(5.0)))
		Expect(merged.Violations[2].Timestamp).To(HaveValue(Equal(10.0)))
	})

	It("keeps duplicate violations from different frames", func() {
		gw := &stubGateway{replies: []models.RawModelReply{frameReply("forest", 10)}}
		a := newTestAnalyzer(gw)

		analysis, err := a.analyzeFrames(context.Background(), "system", models.AnalysisRequest{}, threeFrames)
		Expect(err).NotTo(HaveOccurred())

		var merged mergedReply
		Expect(json.Unmarshal([]byte(analysis.Reply), &merged)).To(Succeed())
		Expect(merged.Violations).To(HaveLen(3))
		Expect(merged.Violations[0].Evidence).To(Equal(merged.Violations[1].Evidence))
	})

	It("skips undecodable frame replies but keeps the rest", func() {
		gw := &stubGateway{replies: []models.RawModelReply{
			frameReply("forest", 10),
			"this is not json",
			frameReply("globe", 20),
		}}
		a := newTestAnalyzer(gw)

		analysis, err := a.analyzeFrames(context.Background(), "system", models.AnalysisRequest{}, threeFrames)
		Expect(err).NotTo(HaveOccurred())

		var merged mergedReply
		Expect(json.Unmarshal([]byte(analysis.Reply), &merged)).To(Succeed())
		Expect(merged.Violations).To(HaveLen(2))
		Expect(merged.Score).To(Equal(70))
	})

	It("surfaces the raw reply when every frame fails to decode", func() {
		gw := &stubGateway{replies: []models.RawModelReply{"garbage reply"}}
		a := newTestAnalyzer(gw)

		analysis, err := a.analyzeFrames(context.Background(), "system", models.AnalysisRequest{}, threeFrames)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(analysis.Reply)).To(Equal("garbage reply"))
	})

	It("analyzes a single-frame video once", func() {
		gw := &stubGateway{replies: []models.RawModelReply{frameReply("forest", 10)}}
		a := newTestAnalyzer(gw)

		_, err := a.analyzeFrames(context.Background(), "system", models.AnalysisRequest{}, []frame{{Timestamp: 0}})
		Expect(err).NotTo(HaveOccurred())
		Expect(gw.calls).To(Equal(1))
	})
})

var _ = Describe("HTML text extraction", func() {
	It("drops scripts and styles", func() {
		text := extractText(`<html><head><style>.a{}</style><script>var x;</script></head>
			<body><h1>Green power</h1><p>100% renewable</p></body></html>`)
		Expect(text).To(ContainSubstring("Green power"))
		Expect(text).To(ContainSubstring("100% renewable"))
		Expect(text).NotTo(ContainSubstring("var x"))
		Expect(text).NotTo(ContainSubstring(".a{}"))
	})
})

var _ = Describe("URL normalization", func() {
	It("prefixes a missing scheme", func() {
		Expect(normalizeURL("example.com/green")).To(Equal("https://example.com/green"))
	})

	It("keeps explicit schemes", func() {
		Expect(normalizeURL("http://example.com")).To(Equal("http://example.com"))
	})

	It("maps empty input to empty output", func() {
		Expect(normalizeURL("   ")).To(Equal(""))
	})
})

func itoa(n int) string {
	return strconv.Itoa(n)
}
