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

// Package logger provides structured logging for the analysis pipeline,
// backed by logrus. Output level and format are configured from the
// GREENSCAN_LOG_LEVEL and GREENSCAN_LOG_FORMAT environment variables.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Fields represents a map of structured logging fields.
type Fields map[string]any

// Logger is the logging interface used across the application.
type Logger interface {
	Debug(msg string, fields ...Fields)
	Info(msg string, fields ...Fields)
	Warn(msg string, fields ...Fields)
	Error(msg string, fields ...Fields)
	Fatal(msg string, fields ...Fields)

	WithField(key string, value any) Logger
	WithFields(fields Fields) Logger
	WithError(err error) Logger

	SetLevel(level string)
	SetOutput(w io.Writer)
}

type logrusLogger struct {
	logger *logrus.Logger
	entry  *logrus.Entry
}

var (
	global Logger
	once   sync.Once
)

// GetLogger returns the process-wide logger, creating it on first use.
func GetLogger() Logger {
	once.Do(func() {
		global = New()
	})
	return global
}

// New creates a logger configured from the environment.
func New() Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.InfoLevel)

	if format := os.Getenv("GREENSCAN_LOG_FORMAT"); format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
		})
	}

	log := &logrusLogger{logger: l, entry: logrus.NewEntry(l)}
	if level := os.Getenv("GREENSCAN_LOG_LEVEL"); level != "" {
		log.SetLevel(level)
	}
	return log
}

func merge(fields []Fields) logrus.Fields {
	out := logrus.Fields{}
	for _, f := range fields {
		for k, v := range f {
			out[k] = v
		}
	}
	return out
}

func (l *logrusLogger) Debug(msg string, fields ...Fields) {
	l.entry.WithFields(merge(fields)).Debug(msg)
}

func (l *logrusLogger) Info(msg string, fields ...Fields) {
	l.entry.WithFields(merge(fields)).Info(msg)
}

func (l *logrusLogger) Warn(msg string, fields ...Fields) {
	l.entry.WithFields(merge(fields)).Warn(msg)
}

func (l *logrusLogger) Error(msg string, fields ...Fields) {
	l.entry.WithFields(merge(fields)).Error(msg)
}

func (l *logrusLogger) Fatal(msg string, fields ...Fields) {
	l.entry.WithFields(merge(fields)).Fatal(msg)
}

func (l *logrusLogger) WithField(key string, value any) Logger {
	return &logrusLogger{logger: l.logger, entry: l.entry.WithField(key, value)}
}

func (l *logrusLogger) WithFields(fields Fields) Logger {
	return &logrusLogger{logger: l.logger, entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *logrusLogger) WithError(err error) Logger {
	return &logrusLogger{logger: l.logger, entry: l.entry.WithError(err)}
}

func (l *logrusLogger) SetLevel(level string) {
	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.logger.SetLevel(parsed)
}

func (l *logrusLogger) SetOutput(w io.Writer) {
	l.logger.SetOutput(w)
}
