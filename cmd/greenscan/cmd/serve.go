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

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecolens/greenscan/internal/api"
	"github.com/ecolens/greenscan/internal/app"
	"github.com/ecolens/greenscan/pkg/config"
	"github.com/ecolens/greenscan/pkg/logger"
)

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the analysis HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *configPath)
		},
	}
}

func runServe(ctx context.Context, configPath string) error {
	log := logger.GetLogger().WithField("component", "serve")

	cfg, err := resolveConfig(configPath)
	if err != nil {
		return err
	}

	application, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	server := api.NewServer(application, cfg)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := server.Start(ctx); err != nil {
		return err
	}

	// Hot reload applies log level changes; pipeline changes need a restart.
	if configPath != "" {
		watcher, err := config.NewWatcher(configPath, func(newCfg *config.Config) {
			logger.GetLogger().SetLevel(newCfg.Log.Level)
			log.Info("Applied reloaded log configuration", logger.Fields{
				"level": newCfg.Log.Level,
			})
		})
		if err != nil {
			log.Warn("Config watcher unavailable", logger.Fields{"error": err.Error()})
		} else {
			if err := watcher.Start(ctx); err != nil {
				log.Warn("Failed to start config watcher", logger.Fields{"error": err.Error()})
			}
			defer watcher.Stop()
		}
	}

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second,
	)
	defer shutdownCancel()
	return server.Stop(shutdownCtx)
}
