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
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/ecolens/greenscan/pkg/config"
	"github.com/ecolens/greenscan/pkg/logger"
	"github.com/ecolens/greenscan/pkg/models"
)

const defaultAnthropicModel = "claude-sonnet-4-20250514"

type anthropicGateway struct {
	client    anthropic.Client
	model     string
	maxTokens int
	log       logger.Logger
}

func newAnthropicGateway(cfg config.AIConfig) (Gateway, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}

	return &anthropicGateway{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: cfg.MaxTokens,
		log:       logger.GetLogger().WithField("provider", "anthropic"),
	}, nil
}

func (g *anthropicGateway) Review(ctx context.Context, req ReviewRequest) (models.RawModelReply, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = g.maxTokens
	}

	content := []anthropic.ContentBlockParamUnion{
		anthropic.NewTextBlock(req.Instruction),
	}
	if req.Attachment != nil {
		encoded := base64.StdEncoding.EncodeToString(req.Attachment.Data)
		content = append(content, anthropic.NewImageBlockBase64(req.Attachment.MIME, encoded))
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(content...),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{
			{Type: "text", Text: req.System},
		}
	}

	start := time.Now()
	resp, err := g.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic review: %w", err)
	}

	g.log.Debug("Review completed", logger.Fields{
		"model":         g.model,
		"duration_ms":   time.Since(start).Milliseconds(),
		"input_tokens":  resp.Usage.InputTokens,
		"output_tokens": resp.Usage.OutputTokens,
		"stop_reason":   resp.StopReason,
	})

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return models.RawModelReply(text), nil
}

func (g *anthropicGateway) Model() string {
	return g.model
}
