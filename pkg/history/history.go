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

// Package history keeps the in-process, append-only log of completed
// evaluations. It is owned by the calling layer; the evaluator only returns
// values the caller appends. Entries live for the process lifetime with no
// persistence guarantee.
package history

import (
	"sort"
	"sync"
	"time"

	"github.com/ecolens/greenscan/pkg/models"
	"github.com/google/uuid"
)

// Entry is one recorded evaluation.
type Entry struct {
	ID        string                   `json:"id"`
	Timestamp time.Time                `json:"timestamp"`
	Type      models.ContentType       `json:"type"`
	Result    *models.EvaluationResult `json:"result"`
}

// Stats aggregates the log for display.
type Stats struct {
	Total          int     `json:"total"`
	AverageScore   float64 `json:"average_score"`
	HighRiskCount  int     `json:"high_risk_count"`
	MostCommonType string  `json:"most_common_type"`
}

// Log is a mutex-guarded append-only sequence. Appends from overlapping
// sessions are safe. Entries are sorted by timestamp at display time,
// not by arrival order.
type Log struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewLog creates an empty history log.
func NewLog() *Log {
	return &Log{}
}

// Append records one evaluation and returns its entry.
func (l *Log) Append(contentType models.ContentType, result *models.EvaluationResult) Entry {
	entry := Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Type:      contentType,
		Result:    result,
	}
	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()
	return entry
}

// Len returns the number of recorded entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Entries returns a copy of the log sorted by timestamp, newest first.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	l.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// Clear discards all entries.
func (l *Log) Clear() {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
}

// Stats computes display statistics over successful entries. Scores of
// rejected evaluations are excluded from the average.
func (l *Log) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stats := Stats{Total: len(l.entries)}
	if stats.Total == 0 {
		return stats
	}

	scoreSum := 0
	scored := 0
	typeCounts := make(map[models.ContentType]int)
	for _, e := range l.entries {
		typeCounts[e.Type]++
		if e.Result == nil || !e.Result.Success {
			continue
		}
		scoreSum += e.Result.Score
		scored++
		if e.Result.OverallRisk == models.RiskHigh {
			stats.HighRiskCount++
		}
	}
	if scored > 0 {
		stats.AverageScore = float64(scoreSum) / float64(scored)
	}

	best := 0
	for t, n := range typeCounts {
		if n > best || (n == best && string(t) < stats.MostCommonType) {
			best = n
			stats.MostCommonType = string(t)
		}
	}
	return stats
}
