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

package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/ecolens/greenscan/internal/app"
	"github.com/ecolens/greenscan/internal/report"
	"github.com/ecolens/greenscan/pkg/logger"
	"github.com/ecolens/greenscan/pkg/models"
)

// Handler carries the API route implementations.
type Handler struct {
	app      *app.App
	fontPath string
	log      logger.Logger
}

// NewHandler creates the API handler. fontPath points at an optional TTF
// file for chart labels.
func NewHandler(application *app.App, fontPath string) *Handler {
	return &Handler{
		app:      application,
		fontPath: fontPath,
		log:      logger.GetLogger().WithField("component", "api"),
	}
}

// analyzeRequest is the wire form of an analysis request. Binary content
// travels base64 encoded.
type analyzeRequest struct {
	Type          models.ContentType `json:"type"`
	Text          string             `json:"text,omitempty"`
	URL           string             `json:"url,omitempty"`
	PayloadBase64 string             `json:"payload_base64,omitempty"`
	MIME          string             `json:"mime,omitempty"`
	Version       string             `json:"version,omitempty"`
	GreenClaims   bool               `json:"green_claims"`
	Note          string             `json:"note,omitempty"`
}

// AnalyzeHandler runs one analysis.
func (h *Handler) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	analysisReq := models.AnalysisRequest{
		Type:        req.Type,
		Text:        req.Text,
		URL:         req.URL,
		MIME:        req.MIME,
		Version:     req.Version,
		GreenClaims: req.GreenClaims,
		Note:        req.Note,
	}
	if req.PayloadBase64 != "" {
		payload, err := base64.StdEncoding.DecodeString(req.PayloadBase64)
		if err != nil {
			http.Error(w, "Invalid payload encoding", http.StatusBadRequest)
			return
		}
		analysisReq.Payload = payload
	}

	result, err := h.app.Analyze(r.Context(), analysisReq)
	if err != nil {
		h.log.Error("Analysis request failed", logger.Fields{
			"type":   req.Type,
			"error":  err.Error(),
			"remote": r.RemoteAddr,
		})
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	h.writeJSON(w, result)
}

// HistoryHandler returns all recorded analyses, newest first.
func (h *Handler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	entries := h.app.History()
	h.log.Info("Returning analysis history", logger.Fields{
		"count":  len(entries),
		"remote": r.RemoteAddr,
	})
	h.writeJSON(w, entries)
}

// StatsHandler returns aggregate history statistics.
func (h *Handler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.writeJSON(w, h.app.Stats())
}

// ReportHandler renders the history (or its latest entry) in the requested
// format: pdf, docx, xlsx or chart.
func (h *Handler) ReportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	entries := h.app.History()
	if len(entries) == 0 {
		http.Error(w, "No analyses recorded", http.StatusNotFound)
		return
	}

	var (
		data        []byte
		contentType string
		filename    string
		err         error
	)
	switch format := r.URL.Query().Get("format"); format {
	case "pdf", "":
		data, err = report.RenderPDFWithHistory(entries[0].Result, entries, h.fontPath)
		contentType = "application/pdf"
		filename = "greenscan-report.pdf"
	case "docx":
		data, err = report.RenderWord(entries[0].Result)
		contentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
		filename = "greenscan-report.docx"
	case "xlsx":
		data, err = report.RenderWorkbook(entries)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = "greenscan-history.xlsx"
	case "chart":
		data, err = report.RenderScoreChart(entries, h.fontPath)
		contentType = "image/png"
		filename = "greenscan-scores.png"
	default:
		http.Error(w, "Unknown report format: "+format, http.StatusBadRequest)
		return
	}
	if err != nil {
		h.log.Error("Report rendering failed", logger.Fields{"error": err.Error()})
		http.Error(w, "Report rendering failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.log.Warn("Failed to write report response", logger.Fields{"error": err.Error()})
	}
}

// HealthHandler reports liveness.
func (h *Handler) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"model":  h.app.Model(),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.WithError(err).Error("Failed to encode response")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
