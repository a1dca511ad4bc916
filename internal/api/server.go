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

// Package api exposes the analysis pipeline over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ecolens/greenscan/internal/app"
	"github.com/ecolens/greenscan/pkg/config"
	"github.com/ecolens/greenscan/pkg/logger"
)

// Server is the HTTP API server.
type Server struct {
	handler    *Handler
	httpServer *http.Server
	port       int
	log        logger.Logger
}

// NewServer registers the API routes on a fresh mux.
func NewServer(application *app.App, cfg *config.Config) *Server {
	handler := NewHandler(application, cfg.Report.FontPath)
	mux := http.NewServeMux()

	mux.HandleFunc("/api/analyze", handler.AnalyzeHandler)
	mux.HandleFunc("/api/history", handler.HistoryHandler)
	mux.HandleFunc("/api/history/stats", handler.StatsHandler)
	mux.HandleFunc("/api/report", handler.ReportHandler)
	mux.HandleFunc("/health", handler.HealthHandler)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	return &Server{
		handler:    handler,
		httpServer: httpServer,
		port:       cfg.Server.Port,
		log:        logger.GetLogger().WithField("component", "api"),
	}
}

// Start begins serving; it returns once the listener is up or has failed.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info("Starting API server", logger.Fields{
		"port": s.port,
		"endpoints": []string{
			"/api/analyze",
			"/api/history",
			"/api/history/stats",
			"/api/report",
			"/health",
		},
	})

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("failed to start API server: %w", err)
	case <-time.After(100 * time.Millisecond):
		s.log.Info("API server started successfully", logger.Fields{"port": s.port})
		return nil
	}
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Stopping API server")
	return s.httpServer.Shutdown(ctx)
}
