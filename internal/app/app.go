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

// Package app wires the analysis pipeline together: adapters, AI gateway,
// evaluator, history log and the optional database sink.
package app

import (
	"context"
	"fmt"

	"github.com/ecolens/greenscan/internal/ai"
	"github.com/ecolens/greenscan/internal/analyzer"
	"github.com/ecolens/greenscan/internal/store"
	"github.com/ecolens/greenscan/pkg/config"
	"github.com/ecolens/greenscan/pkg/criteria"
	"github.com/ecolens/greenscan/pkg/evaluator"
	"github.com/ecolens/greenscan/pkg/history"
	"github.com/ecolens/greenscan/pkg/logger"
	"github.com/ecolens/greenscan/pkg/models"
)

// Sink receives finished evaluations. The MySQL store satisfies it; a nil
// sink means persistence is disabled.
type Sink interface {
	Record(ctx context.Context, entry history.Entry) error
	Close() error
}

// App runs analyses end to end and records their results.
type App struct {
	cfg      *config.Config
	gateway  ai.Gateway
	analyzer *analyzer.Analyzer
	history  *history.Log
	sink     Sink
	log      logger.Logger
}

// New builds the pipeline from configuration. A store connection failure is
// fatal only when the store is enabled.
func New(cfg *config.Config) (*App, error) {
	log := logger.GetLogger()
	log.SetLevel(cfg.Log.Level)

	gateway, err := ai.New(cfg.AI)
	if err != nil {
		return nil, fmt.Errorf("initialize AI gateway: %w", err)
	}

	a := &App{
		cfg:      cfg,
		gateway:  gateway,
		analyzer: analyzer.New(gateway, cfg.Analyzer),
		history:  history.NewLog(),
		log:      log.WithField("component", "app"),
	}

	if cfg.Store.Enabled {
		sink, err := store.Open(cfg.Store)
		if err != nil {
			return nil, fmt.Errorf("initialize store: %w", err)
		}
		a.sink = sink
	}

	a.log.Info("Application initialized", logger.Fields{
		"provider":      cfg.AI.Provider,
		"model":         gateway.Model(),
		"store_enabled": cfg.Store.Enabled,
	})
	return a, nil
}

// Close releases pipeline resources.
func (a *App) Close() {
	a.analyzer.Close()
	if a.sink != nil {
		if err := a.sink.Close(); err != nil {
			a.log.Warn("Failed to close store", logger.Fields{"error": err.Error()})
		}
	}
}

// Analyze runs one analysis request through the pipeline. The returned
// result is always non-nil on a nil error: adapter and backend failures are
// errors, while undecodable replies are rejected results.
func (a *App) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.EvaluationResult, error) {
	if req.Version == "" {
		req.Version = "v1"
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.AI.Timeout())
	defer cancel()

	analysis, err := a.analyzer.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	result := evaluator.Evaluate(analysis.Reply, evaluator.RequestMeta{
		ContentType:   string(req.Type),
		Version:       req.Version,
		Directives:    criteria.DirectiveLabel(req.GreenClaims),
		ContentSample: analysis.Sample,
	})

	entry := a.history.Append(req.Type, result)
	a.persist(ctx, entry)

	return result, nil
}

// persist hands the entry to the database sink; failures are logged, never
// surfaced, so a dead database cannot reject an analysis.
func (a *App) persist(ctx context.Context, entry history.Entry) {
	if a.sink == nil {
		return
	}
	if err := a.sink.Record(ctx, entry); err != nil {
		a.log.Error("Failed to persist evaluation record", logger.Fields{
			"error":    err.Error(),
			"entry_id": entry.ID,
		})
	}
}

// History returns the recorded entries, newest first.
func (a *App) History() []history.Entry {
	return a.history.Entries()
}

// Stats aggregates the recorded history.
func (a *App) Stats() history.Stats {
	return a.history.Stats()
}

// ClearHistory drops all recorded entries.
func (a *App) ClearHistory() {
	a.history.Clear()
}

// Model reports the backend model in use.
func (a *App) Model() string {
	return a.gateway.Model()
}
