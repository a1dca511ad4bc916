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

// Package ai provides a provider-neutral gateway over the supported AI
// backends. Adapters hand it a system prompt, an instruction and an optional
// binary attachment; they get back the raw reply text, uninterpreted.
package ai

import (
	"context"
	"fmt"

	"github.com/ecolens/greenscan/pkg/config"
	"github.com/ecolens/greenscan/pkg/models"
)

// Attachment is a binary payload sent alongside the instruction, typically
// an image for visual analysis.
type Attachment struct {
	// MIME is the media type, e.g. "image/png".
	MIME string
	// Data is the raw bytes; the gateway handles encoding.
	Data []byte
}

// ReviewRequest is one analysis call to the backend.
type ReviewRequest struct {
	System      string
	Instruction string
	Attachment  *Attachment
	// MaxTokens caps the reply length; zero uses the configured default.
	MaxTokens int
}

// Gateway sends review requests to an AI backend. Implementations are safe
// for concurrent use.
type Gateway interface {
	Review(ctx context.Context, req ReviewRequest) (models.RawModelReply, error)
	Model() string
}

// New builds a Gateway for the configured provider.
func New(cfg config.AIConfig) (Gateway, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	switch cfg.Provider {
	case "openai":
		return newOpenAIGateway(cfg)
	case "anthropic", "":
		return newAnthropicGateway(cfg)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %q", cfg.Provider)
	}
}
