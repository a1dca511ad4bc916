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

package criteria

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCriteria(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Criteria Suite")
}

var _ = Describe("Sections", func() {
	It("returns the full rubric for v1", func() {
		Expect(Sections("v1", false)).To(HaveLen(8))
	})

	It("returns the reduced sets for v2 and v3", func() {
		Expect(Sections("v2", false)).To(HaveLen(4))
		Expect(Sections("v3", false)).To(HaveLen(2))
	})

	It("appends the green claims sections after the version sections", func() {
		sections := Sections("v3", true)
		Expect(sections).To(HaveLen(4))
		Expect(sections[2]).To(ContainSubstring("Green Claims proposal"))
		Expect(sections[3]).To(ContainSubstring("Green Claims proposal"))
	})

	It("falls back to v1 for unknown versions", func() {
		Expect(Sections("v9", false)).To(Equal(Sections("v1", false)))
	})

	It("does not mutate the registry across calls", func() {
		before := len(Versions["v3"].Sections)
		_ = Sections("v3", true)
		Expect(Versions["v3"].Sections).To(HaveLen(before))
	})
})

var _ = Describe("DirectiveLabel", func() {
	It("labels both selections", func() {
		Expect(DirectiveLabel(true)).To(Equal(DirectivesBoth))
		Expect(DirectiveLabel(false)).To(Equal(DirectivesEmpowermentOnly))
	})
})

var _ = Describe("Registry integrity", func() {
	It("gives every example library entry a reason", func() {
		for category, examples := range ExampleLibrary {
			Expect(examples).NotTo(BeEmpty(), category)
			for _, ex := range examples {
				Expect(ex.NG).NotTo(BeEmpty())
				Expect(ex.OK).NotTo(BeEmpty())
				Expect(ex.Reason).NotTo(BeEmpty())
			}
		}
	})

	It("gives every quick check pattern phrases and a suggestion", func() {
		for _, pattern := range QuickCheckPatterns {
			Expect(pattern.Phrases).NotTo(BeEmpty(), pattern.Type)
			Expect(pattern.Suggestion).NotTo(BeEmpty(), pattern.Type)
		}
	})
})
