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
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/ecolens/greenscan/internal/ai"
	"github.com/ecolens/greenscan/pkg/evaluator"
	"github.com/ecolens/greenscan/pkg/logger"
	"github.com/ecolens/greenscan/pkg/models"
)

// frame is one sampled video frame.
type frame struct {
	Timestamp float64
	Data      []byte
}

// mergedReply is the aggregate of the per-frame analyses, re-serialized in
// the backend reply shape so the evaluator processes video results through
// the same path as every other content type.
type mergedReply struct {
	OverallRisk     string                  `json:"overall_risk"`
	Score           int                     `json:"score"`
	Violations      []models.Violation      `json:"violations"`
	Recommendations []models.Recommendation `json:"recommendations"`
	Summary         string                  `json:"summary"`
}

func (a *Analyzer) analyzeVideo(ctx context.Context, system string, req models.AnalysisRequest) (*Analysis, error) {
	if len(req.Payload) == 0 {
		return nil, fmt.Errorf("video analysis requires a payload")
	}

	frames, err := a.extractFrames(ctx, req.Payload)
	if err != nil {
		return nil, fmt.Errorf("video analysis: %w", err)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("video analysis: no frames could be extracted")
	}

	return a.analyzeFrames(ctx, system, req, frames)
}

// analyzeFrames reviews the representative frames and merges the per-frame
// results into a single pre-aggregated reply.
func (a *Analyzer) analyzeFrames(ctx context.Context, system string, req models.AnalysisRequest, frames []frame) (*Analysis, error) {
	// First, middle and last frame represent the whole clip.
	indices := []int{0, len(frames) / 2, len(frames) - 1}
	seen := make(map[int]bool, len(indices))

	var (
		violations      = make([]models.Violation, 0)
		recommendations = make([]models.Recommendation, 0)
		analyzed        int
		lastReply       models.RawModelReply
	)
	for _, idx := range indices {
		if seen[idx] {
			continue
		}
		seen[idx] = true
		f := frames[idx]

		instruction := fmt.Sprintf(`Content to analyze: a frame from a marketing video, sampled at %.1f seconds.

Applicable criteria sections: %s

Analyze the visual elements and any visible text in this frame.`, f.Timestamp, criteriaList(req))

		reply, err := a.gateway.Review(ctx, ai.ReviewRequest{
			System:      system,
			Instruction: withNote(instruction, req.Note),
			Attachment:  &ai.Attachment{MIME: "image/jpeg", Data: f.Data},
		})
		if err != nil {
			return nil, fmt.Errorf("video frame analysis at %.1fs: %w", f.Timestamp, err)
		}
		lastReply = reply

		env, decErr := evaluator.Decode(string(reply))
		if decErr != nil {
			a.log.Warn("Frame reply could not be decoded, skipping frame", logger.Fields{
				"timestamp": f.Timestamp,
				"details":   decErr.Details,
			})
			continue
		}
		analyzed++

		// Violations are appended in frame order, duplicates included:
		// a claim repeated across frames is repeated exposure.
		for _, v := range evaluator.NormalizeViolations(env) {
			ts := f.Timestamp
			v.Timestamp = &ts
			violations = append(violations, v)
		}
		recommendations = append(recommendations, evaluator.NormalizeRecommendations(env)...)
	}

	// Every frame reply failed to decode: surface the last raw reply so the
	// evaluator reports the decode failure.
	if analyzed == 0 {
		return &Analysis{
			Reply:  lastReply,
			Sample: fmt.Sprintf("[video, %d frames sampled]", len(frames)),
		}, nil
	}

	total := 0
	for _, v := range violations {
		total += v.PointsDeducted
	}
	score := 100 - total
	if score < 0 {
		score = 0
	}
	tier, _ := evaluator.ClassifyRisk(score)

	merged := mergedReply{
		OverallRisk:     tier,
		Score:           score,
		Violations:      violations,
		Recommendations: recommendations,
		Summary: fmt.Sprintf("Analyzed %d of %d sampled video frames. %d violations detected across the sampled frames.",
			analyzed, len(frames), len(violations)),
	}
	data, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("video analysis: merge results: %w", err)
	}

	return &Analysis{
		Reply:  models.RawModelReply(data),
		Sample: fmt.Sprintf("[video, %d frames sampled, %d analyzed]", len(frames), analyzed),
	}, nil
}

// extractFrames samples the video at the configured interval up to the
// configured duration cap, using ffmpeg.
func (a *Analyzer) extractFrames(ctx context.Context, payload []byte) ([]frame, error) {
	dir, err := os.MkdirTemp("", "greenscan-video-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "input.mp4")
	if err := os.WriteFile(input, payload, 0o600); err != nil {
		return nil, fmt.Errorf("write temp video: %w", err)
	}

	cfg := a.cfg.Video
	pattern := filepath.Join(dir, "frame-%04d.jpg")
	cmd := exec.CommandContext(ctx, cfg.FFmpegPath,
		"-i", input,
		"-t", fmt.Sprintf("%d", cfg.MaxDurationSeconds),
		"-vf", fmt.Sprintf("fps=1/%d", cfg.FrameInterval),
		"-q:v", "2",
		pattern,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("ffmpeg frame extraction: %w: %s", err, excerptBytes(out, 300))
	}

	matches, err := filepath.Glob(filepath.Join(dir, "frame-*.jpg"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	frames := make([]frame, 0, len(matches))
	for i, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read frame %s: %w", filepath.Base(path), err)
		}
		frames = append(frames, frame{
			Timestamp: float64(i * cfg.FrameInterval),
			Data:      data,
		})
	}
	return frames, nil
}

func excerptBytes(b []byte, limit int) string {
	if len(b) <= limit {
		return string(b)
	}
	return string(b[:limit])
}
