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
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"golang.org/x/net/html"

	"github.com/ecolens/greenscan/internal/ai"
	"github.com/ecolens/greenscan/pkg/logger"
	"github.com/ecolens/greenscan/pkg/models"
)

// maxWebChars bounds the page text sent to the backend.
const maxWebChars = 10000

func (a *Analyzer) analyzeWeb(ctx context.Context, system string, req models.AnalysisRequest) (*Analysis, error) {
	url := normalizeURL(req.URL)
	if url == "" {
		return nil, fmt.Errorf("web analysis requires a URL")
	}

	var (
		pageHTML   string
		screenshot []byte
	)
	if a.cfg.Browser.Enabled {
		var err error
		pageHTML, screenshot, err = a.captureWithBrowser(ctx, url)
		if err != nil {
			a.log.Warn("Browser capture failed, falling back to plain fetch", logger.Fields{
				"url":   url,
				"error": err.Error(),
			})
		}
	}
	if pageHTML == "" {
		var err error
		pageHTML, err = fetchPlain(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("web analysis: %w", err)
		}
	}

	text := extractText(pageHTML)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("web analysis: page contains no extractable text")
	}
	if runes := []rune(text); len(runes) > maxWebChars {
		text = string(runes[:maxWebChars])
	}

	instruction := fmt.Sprintf(`Content to analyze: the page at %s. Extracted page text follows.

%s

Applicable criteria sections: %s

Analyze the environmental claims on the page. When a page screenshot is
attached, also assess its visual presentation: color schemes, nature imagery
and label-like badges.`, url, text, criteriaList(req))

	reviewReq := ai.ReviewRequest{
		System:      system,
		Instruction: withNote(instruction, req.Note),
	}
	if screenshot != nil {
		reviewReq.Attachment = &ai.Attachment{MIME: "image/jpeg", Data: screenshot}
	}

	reply, err := a.gateway.Review(ctx, reviewReq)
	if err != nil {
		return nil, fmt.Errorf("web analysis: %w", err)
	}

	return &Analysis{Reply: reply, Sample: url}, nil
}

func (a *Analyzer) browserPool() *BrowserPool {
	a.poolOnce.Do(func() {
		a.pool = NewBrowserPool(
			a.cfg.Browser.PoolSize,
			time.Duration(a.cfg.Browser.MaxAgeMinutes)*time.Minute,
		)
	})
	return a.pool
}

// captureWithBrowser renders the page in a pooled headless browser and
// returns its HTML and a JPEG screenshot.
func (a *Analyzer) captureWithBrowser(ctx context.Context, url string) (string, []byte, error) {
	taskCtx, cancel := context.WithTimeout(ctx, time.Duration(a.cfg.Browser.TimeoutSeconds)*time.Second)
	defer cancel()

	pool := a.browserPool()
	instance, err := pool.Get(taskCtx)
	if err != nil {
		return "", nil, fmt.Errorf("get browser instance: %w", err)
	}
	defer pool.Put(instance)

	var page *rod.Page
	if err := rod.Try(func() {
		page = instance.Browser.MustPage().Context(taskCtx)
	}); err != nil {
		return "", nil, fmt.Errorf("create page: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			a.log.Warn("Failed to close page", logger.Fields{"error": err.Error()})
		}
	}()

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             1366,
		Height:            768,
		DeviceScaleFactor: 1,
	}); err != nil {
		return "", nil, err
	}

	if err := page.Navigate(url); err != nil {
		return "", nil, fmt.Errorf("navigate: %w", err)
	}
	if err := waitForPageLoad(taskCtx, page); err != nil {
		return "", nil, err
	}

	content, err := page.HTML()
	if err != nil {
		return "", nil, fmt.Errorf("get page content: %w", err)
	}

	var screenshot []byte
	quality := 75
	if rodErr := rod.Try(func() {
		screenshot, err = page.Screenshot(true, &proto.PageCaptureScreenshot{
			Format:  proto.PageCaptureScreenshotFormatJpeg,
			Quality: &quality,
		})
	}); rodErr != nil {
		err = rodErr
	}
	if err != nil {
		a.log.Warn("Screenshot failed, continuing with HTML only", logger.Fields{
			"url":   url,
			"error": err.Error(),
		})
		screenshot = nil
	}

	return content, screenshot, nil
}

func waitForPageLoad(ctx context.Context, page *rod.Page) error {
	waitDone := make(chan error, 1)
	go func() {
		waitDone <- page.WaitLoad()
	}()
	select {
	case err := <-waitDone:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// fetchPlain downloads the page without rendering it.
func fetchPlain(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "greenscan/1.0")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch page: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read page body: %w", err)
	}
	return string(body), nil
}

// extractText flattens an HTML document to its visible text.
func extractText(pageHTML string) string {
	doc, err := html.Parse(strings.NewReader(pageHTML))
	if err != nil {
		return pageHTML
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				b.WriteString(text)
				b.WriteString("\n")
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return b.String()
}

func normalizeURL(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	return "https://" + url
}
