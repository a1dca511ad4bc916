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
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	"github.com/ecolens/greenscan/internal/ai"
	"github.com/ecolens/greenscan/pkg/models"
)

func (a *Analyzer) analyzeImage(ctx context.Context, system string, req models.AnalysisRequest) (*Analysis, error) {
	if len(req.Payload) == 0 {
		return nil, fmt.Errorf("image analysis requires a payload")
	}

	mime := req.MIME
	if mime == "" {
		mime = http.DetectContentType(req.Payload)
	}

	sample := fmt.Sprintf("[image %s, %d bytes]", mime, len(req.Payload))
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(req.Payload)); err == nil {
		sample = fmt.Sprintf("[image %s, %dx%d]", mime, cfg.Width, cfg.Height)
	}

	instruction := fmt.Sprintf(`Content to analyze: a marketing image.

Applicable criteria sections: %s

Analyze both the text visible in the image and its visual elements: color
schemes, nature imagery, symbols and self-declared labels that imply an
environmental benefit.`, criteriaList(req))

	reply, err := a.gateway.Review(ctx, ai.ReviewRequest{
		System:      system,
		Instruction: withNote(instruction, req.Note),
		Attachment:  &ai.Attachment{MIME: mime, Data: req.Payload},
	})
	if err != nil {
		return nil, fmt.Errorf("image analysis: %w", err)
	}

	return &Analysis{Reply: reply, Sample: sample}, nil
}
