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

package config

import (
	"context"
	"crypto/sha256"
	"os"
	"path/filepath"

	"github.com/ecolens/greenscan/pkg/logger"
	"github.com/fsnotify/fsnotify"
)

// UpdateHandler is called with the new configuration after a reload.
type UpdateHandler func(*Config)

// Watcher watches the configuration file and reloads it on change.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	handler UpdateHandler
	log     logger.Logger
	lastSum [sha256.Size]byte
}

// NewWatcher creates a watcher for the configuration file at path.
func NewWatcher(path string, handler UpdateHandler) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:    path,
		watcher: fsWatcher,
		handler: handler,
		log:     logger.GetLogger().WithField("component", "config-watcher"),
	}
	if data, err := os.ReadFile(path); err == nil {
		w.lastSum = sha256.Sum256(data)
	}
	return w, nil
}

// Start begins watching the configuration file for changes. Watching the
// directory instead of the file survives editors that replace the file.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	w.log.Info("Started monitoring configuration file", logger.Fields{"path": w.path})

	go w.watchLoop(ctx)
	return nil
}

// Stop stops the configuration watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Name == w.path && event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.handleFileChange()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("File watcher error", logger.Fields{"error": err})
		}
	}
}

func (w *Watcher) handleFileChange() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		w.log.WithError(err).Error("Failed to read configuration file after change")
		return
	}

	sum := sha256.Sum256(data)
	if sum == w.lastSum {
		return
	}
	w.lastSum = sum

	w.log.Info("Detected configuration file content change, reloading", logger.Fields{"file": w.path})

	newConfig, err := Load(w.path)
	if err != nil {
		w.log.WithError(err).Error("Failed to load new configuration, continuing with old configuration")
		return
	}

	if w.handler != nil {
		w.handler(newConfig)
	}
}
