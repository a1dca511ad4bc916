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

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/ecolens/greenscan/pkg/config"
	"github.com/ecolens/greenscan/pkg/logger"
	"github.com/ecolens/greenscan/pkg/models"
)

const defaultOpenAIModel = "gpt-4o"

type openaiGateway struct {
	client    openai.Client
	model     string
	maxTokens int
	log       logger.Logger
}

func newOpenAIGateway(cfg config.AIConfig) (Gateway, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	return &openaiGateway{
		client:    openai.NewClient(opts...),
		model:     model,
		maxTokens: cfg.MaxTokens,
		log:       logger.GetLogger().WithField("provider", "openai"),
	}, nil
}

func (g *openaiGateway) Review(ctx context.Context, req ReviewRequest) (models.RawModelReply, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = g.maxTokens
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}

	if req.Attachment != nil {
		dataURL := fmt.Sprintf("data:%s;base64,%s",
			req.Attachment.MIME,
			base64.StdEncoding.EncodeToString(req.Attachment.Data))
		parts := []openai.ChatCompletionContentPartUnionParam{
			openai.TextContentPart(req.Instruction),
			openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL: dataURL,
			}),
		}
		messages = append(messages, openai.UserMessage(parts))
	} else {
		messages = append(messages, openai.UserMessage(req.Instruction))
	}

	params := openai.ChatCompletionNewParams{
		Model:               g.model,
		Messages:            messages,
		MaxCompletionTokens: openai.Int(int64(maxTokens)),
	}

	start := time.Now()
	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai review: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	g.log.Debug("Review completed", logger.Fields{
		"model":             g.model,
		"duration_ms":       time.Since(start).Milliseconds(),
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
		"finish_reason":     resp.Choices[0].FinishReason,
	})

	return models.RawModelReply(resp.Choices[0].Message.Content), nil
}

func (g *openaiGateway) Model() string {
	return g.model
}
