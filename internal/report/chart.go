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
	"bytes"
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ecolens/greenscan/pkg/history"
)

// tierBarColor maps a risk color name to a bar color.
var tierBarColor = map[string]drawing.Color{
	"green":  {R: 46, G: 125, B: 50, A: 255},
	"yellow": {R: 249, G: 168, B: 37, A: 255},
	"orange": {R: 239, G: 108, B: 0, A: 255},
	"red":    {R: 198, G: 40, B: 40, A: 255},
}

// RenderScoreChart renders the score history as a PNG bar chart, oldest
// first, one bar per successful analysis, colored by risk tier. fontPath may
// name a TTF file for labels; empty uses the built-in font.
func RenderScoreChart(entries []history.Entry, fontPath string) ([]byte, error) {
	bars := make([]chart.Value, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.Result == nil || !e.Result.Success {
			continue
		}

		color, ok := tierBarColor[e.Result.RiskInfo.Color]
		if !ok {
			color = drawing.Color{R: 97, G: 97, B: 97, A: 255}
		}
		bars = append(bars, chart.Value{
			Value: float64(e.Result.Score),
			Label: fmt.Sprintf("%s %s", e.Timestamp.Format("01-02 15:04"), e.Type),
			Style: chart.Style{FillColor: color, StrokeColor: color},
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no successful analyses to chart")
	}

	graph := chart.BarChart{
		Title:    "Compliance score history",
		Height:   400,
		BarWidth: 40,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Bars: bars,
	}

	if fontPath != "" {
		font, err := loadFont(fontPath)
		if err != nil {
			return nil, err
		}
		graph.Font = font
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

func loadFont(path string) (*truetype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font file: %w", err)
	}
	font, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font file: %w", err)
	}
	return font, nil
}
