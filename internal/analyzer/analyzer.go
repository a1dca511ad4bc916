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

// Package analyzer contains the content adapters. Each adapter turns one
// content type into an AI review call (or several, for video) and hands the
// raw reply back uninterpreted; scoring belongs to the evaluator.
package analyzer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ecolens/greenscan/internal/ai"
	"github.com/ecolens/greenscan/pkg/config"
	"github.com/ecolens/greenscan/pkg/criteria"
	"github.com/ecolens/greenscan/pkg/logger"
	"github.com/ecolens/greenscan/pkg/models"
)

// Analysis is an adapter's output: the backend reply plus a short content
// sample for result metadata.
type Analysis struct {
	Reply  models.RawModelReply
	Sample string
}

// Analyzer dispatches analysis requests to the adapter for their content
// type. Safe for concurrent use.
type Analyzer struct {
	gateway  ai.Gateway
	cfg      config.AnalyzerConfig
	pool     *BrowserPool
	poolOnce sync.Once
	log      logger.Logger
}

// New builds an Analyzer. The browser pool is created lazily on the first
// web analysis so that text-only deployments never launch a browser.
func New(gateway ai.Gateway, cfg config.AnalyzerConfig) *Analyzer {
	return &Analyzer{
		gateway: gateway,
		cfg:     cfg,
		log:     logger.GetLogger().WithField("component", "analyzer"),
	}
}

// Close releases adapter resources.
func (a *Analyzer) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

// Analyze runs the adapter for the request's content type.
func (a *Analyzer) Analyze(ctx context.Context, req models.AnalysisRequest) (*Analysis, error) {
	system := ai.BuildSystemPrompt(req.Version, req.GreenClaims)

	start := time.Now()
	a.log.Info("Starting analysis", logger.Fields{
		"type":    req.Type,
		"version": req.Version,
	})

	var (
		analysis *Analysis
		err      error
	)
	switch req.Type {
	case models.ContentTypeText:
		analysis, err = a.analyzeText(ctx, system, req)
	case models.ContentTypeImage:
		analysis, err = a.analyzeImage(ctx, system, req)
	case models.ContentTypePDF:
		analysis, err = a.analyzePDF(ctx, system, req)
	case models.ContentTypeVideo:
		analysis, err = a.analyzeVideo(ctx, system, req)
	case models.ContentTypeWeb:
		analysis, err = a.analyzeWeb(ctx, system, req)
	default:
		return nil, fmt.Errorf("unsupported content type: %q", req.Type)
	}
	if err != nil {
		return nil, err
	}

	a.log.Info("Analysis completed", logger.Fields{
		"type":        req.Type,
		"duration_ms": time.Since(start).Milliseconds(),
		"reply_bytes": len(analysis.Reply),
	})
	return analysis, nil
}

// criteriaList renders the section labels for instruction templates.
func criteriaList(req models.AnalysisRequest) string {
	return strings.Join(criteria.Sections(req.Version, req.GreenClaims), ", ")
}

// withNote appends the user-supplied context note to an instruction.
func withNote(instruction, note string) string {
	if note == "" {
		return instruction
	}
	return instruction + "\n\nAdditional context supplied by the requester:\n" + note + "\nTake this context into account during the analysis."
}
