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

// Package criteria holds the static rubric registry: analysis versions, the
// criteria sections applied under each version and directive selection, and
// the example phrase library. The registry is consumed by prompt construction
// and echoed into result metadata; the evaluator never validates violation
// categories against it.
package criteria

// Version describes one rubric version.
type Version struct {
	Name        string
	Description string
	Sections    []string
}

// Versions maps a rubric version identifier to its definition, ordered by
// coverage: v1 is the full rubric, v3 the quick screening subset.
var Versions = map[string]Version{
	"v1": {
		Name:        "v1 - Full criteria",
		Description: "All criteria sections of the Empowering Consumers Directive, recommended for final compliance review.",
		Sections: []string{
			"1. Vague or generic environmental claims",
			"2. Unsubstantiated absolute claims",
			"3. Misleading omissions and selective disclosure",
			"4. Visual and design elements (colors, imagery, symbols)",
			"5. Carbon neutrality and offsetting claims",
			"6. Future environmental targets",
			"7. Comparative environmental claims",
			"8. Sustainability labels and certifications",
		},
	},
	"v2": {
		Name:        "v2 - Directive core",
		Description: "Core prohibitions of Directive (EU) 2024/825 only, for a minimal legal-compliance check.",
		Sections: []string{
			"1. Vague or generic environmental claims",
			"2. Unsubstantiated absolute claims",
			"3. Misleading omissions and selective disclosure",
			"8. Sustainability labels and certifications",
		},
	},
	"v3": {
		Name:        "v3 - Quick screening",
		Description: "Reduced section set for fast first-pass screening of draft copy.",
		Sections: []string{
			"1. Vague or generic environmental claims",
			"2. Unsubstantiated absolute claims",
		},
	},
}

// GreenClaimsSections are appended when the Green Claims directive proposal
// is selected in addition to the empowerment directive.
var GreenClaimsSections = []string{
	"9. Substantiation and life-cycle evidence (Green Claims proposal)",
	"10. Independent verification and communication requirements (Green Claims proposal)",
}

// Directive labels echoed into result metadata.
const (
	DirectivesBoth            = "Empowerment + Green Claims"
	DirectivesEmpowermentOnly = "Empowerment only"
)

// Sections returns the ordered criteria section labels for a version and
// directive selection. Unknown versions fall back to v1.
func Sections(version string, greenClaims bool) []string {
	v, ok := Versions[version]
	if !ok {
		v = Versions["v1"]
	}
	sections := make([]string, 0, len(v.Sections)+len(GreenClaimsSections))
	sections = append(sections, v.Sections...)
	if greenClaims {
		sections = append(sections, GreenClaimsSections...)
	}
	return sections
}

// DirectiveLabel returns the display label for a directive selection.
func DirectiveLabel(greenClaims bool) string {
	if greenClaims {
		return DirectivesBoth
	}
	return DirectivesEmpowermentOnly
}

// Example pairs a non-compliant expression with a compliant alternative.
type Example struct {
	NG     string
	OK     string
	Reason string
}

// ExampleLibrary maps a claim category to reference rewrites shown to users
// and embedded in remediation prompts.
var ExampleLibrary = map[string][]Example{
	"Carbon neutrality claims": {
		{
			NG:     "Our products are carbon neutral.",
			OK:     "We reduced manufacturing CO2 emissions by 35% since 2020 (per-unit, third-party verified); remaining emissions are offset through certified removal projects listed in our climate report.",
			Reason: "Neutrality claims based on offsetting must disclose the reduction share, the offset scheme and its verification.",
		},
		{
			NG:     "Climate neutral shipping on all orders.",
			OK:     "Shipping emissions are calculated per order and compensated via Gold Standard projects; see methodology at example.com/shipping-climate.",
			Reason: "A blanket neutrality label without methodology is a generic claim prohibited by Directive (EU) 2024/825.",
		},
	},
	"Vague eco-language": {
		{
			NG:     "The eco-friendly choice for your family.",
			OK:     "Packaging made from 80% post-consumer recycled paper, certified by FSC.",
			Reason: "Generic terms such as eco-friendly or green require specification of the exact environmental aspect.",
		},
		{
			NG:     "A greener way to travel.",
			OK:     "Per passenger-kilometre, this route emits 45% less CO2 than the 2023 average domestic flight (verified data).",
			Reason: "Comparative environmental claims need a stated baseline and verifiable figures.",
		},
	},
	"Future targets": {
		{
			NG:     "Net zero by 2050.",
			OK:     "We target net zero by 2050 with interim milestones of -30% by 2030 and -60% by 2040; the transition plan is audited annually and published.",
			Reason: "Forward-looking claims require a public, time-bound implementation plan with independent monitoring.",
		},
	},
	"Labels and certifications": {
		{
			NG:     "Awarded our own Green Star seal of sustainability.",
			OK:     "Certified under the EU Ecolabel (licence no. ...), criteria available at the official registry.",
			Reason: "Self-declared sustainability labels without third-party certification are prohibited.",
		},
	},
	"Visual imagery": {
		{
			NG:     "Packaging covered in forest photography and green tones for a conventional detergent.",
			OK:     "Neutral design with a specific, substantiated claim: refill pack uses 60% less plastic than the standard bottle.",
			Reason: "Nature imagery and color schemes that imply an environmental benefit the product does not have are misleading by omission.",
		},
	},
}

// PhrasePattern is a locally screenable phrase group used by the text
// adapter's quick check. The quick check is heuristic only and never replaces
// the AI analysis.
type PhrasePattern struct {
	Type       string
	Phrases    []string
	Suggestion string
}

// QuickCheckPatterns lists phrase groups that commonly indicate greenwashing
// risk, matched case-insensitively.
var QuickCheckPatterns = []PhrasePattern{
	{
		Type:       "Absolute claims",
		Phrases:    []string{"carbon neutral", "climate neutral", "zero emissions", "100% sustainable", "100% eco-friendly", "fully recyclable"},
		Suggestion: "Absolute claims require substantiation across the full product life cycle.",
	},
	{
		Type:       "Vague terms",
		Phrases:    []string{"eco-friendly", "environmentally friendly", "green product", "sustainable choice", "kind to the planet"},
		Suggestion: "Generic environmental terms must name the specific, verified environmental aspect.",
	},
	{
		Type:       "Offset reliance",
		Phrases:    []string{"carbon offset", "offsetting", "compensated emissions"},
		Suggestion: "Offset-based claims must disclose the scheme, its share of the claim, and its verification.",
	},
	{
		Type:       "Future promises",
		Phrases:    []string{"net zero by", "carbon negative by", "by 2050", "by 2040"},
		Suggestion: "Future targets need a credible, published transition plan with interim milestones.",
	},
}
