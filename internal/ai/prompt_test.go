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
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ecolens/greenscan/pkg/config"
)

func testAIConfig(provider, apiKey string) config.AIConfig {
	return config.AIConfig{
		Provider:       provider,
		APIKey:         apiKey,
		MaxTokens:      2000,
		TimeoutSeconds: 60,
	}
}

func TestAI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "AI Gateway Suite")
}

var _ = Describe("BuildSystemPrompt", func() {
	It("includes every section of the selected version", func() {
		prompt := BuildSystemPrompt("v3", false)
		Expect(prompt).To(ContainSubstring("1. Vague or generic environmental claims"))
		Expect(prompt).To(ContainSubstring("2. Unsubstantiated absolute claims"))
		Expect(prompt).NotTo(ContainSubstring("5. Carbon neutrality"))
	})

	It("appends the green claims sections when selected", func() {
		prompt := BuildSystemPrompt("v1", true)
		Expect(prompt).To(ContainSubstring("Green Claims proposal"))
		Expect(prompt).To(ContainSubstring("COM(2023) 166"))
	})

	It("omits the green claims sections otherwise", func() {
		prompt := BuildSystemPrompt("v1", false)
		Expect(prompt).NotTo(ContainSubstring("Green Claims proposal"))
	})

	It("states the reply key contract", func() {
		prompt := BuildSystemPrompt("v1", false)
		Expect(prompt).To(ContainSubstring(`"violations"`))
		Expect(prompt).To(ContainSubstring(`"recommendations"`))
		Expect(prompt).To(ContainSubstring(`"points_deducted"`))
		Expect(prompt).To(ContainSubstring(`"summary"`))
	})

	It("falls back to the full rubric for unknown versions", func() {
		Expect(BuildSystemPrompt("v99", false)).To(Equal(BuildSystemPrompt("v1", false)))
	})
})

var _ = Describe("New", func() {
	It("rejects an empty API key", func() {
		_, err := New(testAIConfig("anthropic", ""))
		Expect(err).To(MatchError(ContainSubstring("API key")))
	})

	It("rejects unknown providers", func() {
		_, err := New(testAIConfig("llama", "key"))
		Expect(err).To(MatchError(ContainSubstring("unsupported AI provider")))
	})

	It("builds an anthropic gateway with the default model", func() {
		gw, err := New(testAIConfig("anthropic", "key"))
		Expect(err).NotTo(HaveOccurred())
		Expect(gw.Model()).To(Equal(defaultAnthropicModel))
	})

	It("builds an openai gateway with the default model", func() {
		gw, err := New(testAIConfig("openai", "key"))
		Expect(err).NotTo(HaveOccurred())
		Expect(gw.Model()).To(Equal(defaultOpenAIModel))
	})
})
