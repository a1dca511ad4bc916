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
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/ecolens/greenscan/internal/ai"
	"github.com/ecolens/greenscan/pkg/models"
)

// maxPDFChars bounds the extracted text sent to the backend.
const maxPDFChars = 5000

func (a *Analyzer) analyzePDF(ctx context.Context, system string, req models.AnalysisRequest) (*Analysis, error) {
	if len(req.Payload) == 0 {
		return nil, fmt.Errorf("pdf analysis requires a payload")
	}

	text, pages, err := extractPDFText(req.Payload)
	if err != nil {
		return nil, fmt.Errorf("pdf analysis: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("pdf analysis: no extractable text in document")
	}

	excerpt := text
	if runes := []rune(excerpt); len(runes) > maxPDFChars {
		excerpt = string(runes[:maxPDFChars])
	}

	instruction := fmt.Sprintf(`Content to analyze: a PDF document of %d pages. Extracted text follows.

%s

Applicable criteria sections: %s

The document may span multiple pages; consider the overall context, the
consistency of claims across sections, captions of figures and charts, and
whether disclaimers are relegated to fine print.`, pages, excerpt, criteriaList(req))

	reply, err := a.gateway.Review(ctx, ai.ReviewRequest{
		System:      system,
		Instruction: withNote(instruction, req.Note),
	})
	if err != nil {
		return nil, fmt.Errorf("pdf analysis: %w", err)
	}

	return &Analysis{Reply: reply, Sample: excerpt}, nil
}

// extractPDFText returns the document's plain text and page count.
func extractPDFText(data []byte) (string, int, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", 0, fmt.Errorf("extract pdf text: %w", err)
	}

	var b strings.Builder
	if _, err := io.Copy(&b, plain); err != nil {
		return "", 0, fmt.Errorf("read pdf text: %w", err)
	}
	return b.String(), reader.NumPage(), nil
}
