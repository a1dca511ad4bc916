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

package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ecolens/greenscan/pkg/history"
)

const sheetName = "Results"

var sheetHeaders = []interface{}{
	"Analyzed At", "Content Type", "Content Sample", "Directives", "Version",
	"Overall Risk", "Score", "Violation Count", "Violations",
	"Recommendations", "Summary",
}

// RenderWorkbook exports history entries to an xlsx workbook, one row per
// analysis, oldest first.
func RenderWorkbook(entries []history.Entry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &sheetHeaders); err != nil {
		return nil, fmt.Errorf("write header row: %w", err)
	}

	// History lists newest first; the export reads naturally oldest first.
	row := 2
	for i := len(entries) - 1; i >= 0; i-- {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, resultRow(entries[i])); err != nil {
			return nil, fmt.Errorf("write result row: %w", err)
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func resultRow(entry history.Entry) *[]interface{} {
	r := entry.Result
	ts := entry.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	if !r.Success {
		return &[]interface{}{
			timestampLabel(ts), string(entry.Type), "", "", "",
			"Rejected", "", 0, truncateCell(r.Details), noneCell, "",
		}
	}

	return &[]interface{}{
		timestampLabel(ts),
		r.ContentType,
		truncateCell(r.ContentSample),
		r.Directives,
		r.Version,
		r.OverallRisk,
		r.Score,
		len(r.Violations),
		truncateCell(flattenViolations(r.Violations)),
		truncateCell(flattenRecommendations(r.Recommendations)),
		truncateCell(r.Summary),
	}
}
