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

// Package store persists evaluation results to MySQL. It is an optional,
// write-only sink: analyses succeed even when the store is down, and the
// in-memory history remains the read path.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/ecolens/greenscan/pkg/config"
	"github.com/ecolens/greenscan/pkg/history"
	"github.com/ecolens/greenscan/pkg/logger"
)

// EvaluationRecord is one persisted analysis row.
type EvaluationRecord struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	EntryID        string    `gorm:"size:64;index" json:"entry_id"`
	ContentType    string    `gorm:"size:32"    json:"content_type"`
	ContentSample  string    `gorm:"size:500"   json:"content_sample"`
	Directives     string    `gorm:"size:64"    json:"directives"`
	Version        string    `gorm:"size:16"    json:"version"`
	Success        bool      `                  json:"success"`
	OverallRisk    string    `gorm:"size:32"    json:"overall_risk"`
	Score          int       `                  json:"score"`
	ViolationCount int       `                  json:"violation_count"`
	Result         string    `gorm:"type:text"  json:"result"`
	CreatedAt      time.Time `                  json:"created_at"`
	UpdatedAt      time.Time `                  json:"updated_at"`
}

// Store writes evaluation records to a MySQL table.
type Store struct {
	db  *gorm.DB
	cfg config.StoreConfig
	log logger.Logger
}

// Open connects to MySQL, creates the database if needed and migrates the
// record table.
func Open(cfg config.StoreConfig) (*Store, error) {
	s := &Store{
		cfg: cfg,
		log: logger.GetLogger().WithField("component", "store"),
	}

	dbConfig := &gorm.Config{
		Logger: gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				SlowThreshold: 3 * time.Second,
				LogLevel:      gormLogger.Error,
				Colorful:      false,
			},
		),
	}

	db, err := gorm.Open(mysql.Open(s.buildDSN(false)), dbConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to MySQL server: %w", err)
	}
	err = db.Exec(
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s CHARACTER SET %s COLLATE %s_unicode_ci",
			cfg.Database, cfg.Charset, cfg.Charset),
	).Error
	if err != nil {
		return nil, fmt.Errorf("create database: %w", err)
	}

	db, err = gorm.Open(mysql.Open(s.buildDSN(true)), dbConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	s.db = db

	if err := s.migrate(); err != nil {
		return nil, err
	}

	s.log.Info("Store initialized", logger.Fields{
		"database": cfg.Database,
		"table":    cfg.Table,
	})
	return s, nil
}

func (s *Store) migrate() error {
	if err := s.db.Table(s.cfg.Table).AutoMigrate(&EvaluationRecord{}); err != nil {
		return fmt.Errorf("migrate table %s: %w", s.cfg.Table, err)
	}
	return nil
}

// Record saves one history entry. The full result is kept as JSON alongside
// the queryable summary columns.
func (s *Store) Record(ctx context.Context, entry history.Entry) error {
	if s.db == nil {
		return errors.New("store not initialized")
	}
	if entry.Result == nil {
		return errors.New("entry has no result")
	}

	resultJSON, err := json.Marshal(entry.Result)
	if err != nil {
		return fmt.Errorf("serialize result: %w", err)
	}

	record := EvaluationRecord{
		EntryID:        entry.ID,
		ContentType:    string(entry.Type),
		ContentSample:  entry.Result.ContentSample,
		Directives:     entry.Result.Directives,
		Version:        entry.Result.Version,
		Success:        entry.Result.Success,
		OverallRisk:    entry.Result.OverallRisk,
		Score:          entry.Result.Score,
		ViolationCount: len(entry.Result.Violations),
		Result:         string(resultJSON),
		CreatedAt:      entry.Timestamp,
	}

	if err := s.db.WithContext(ctx).Table(s.cfg.Table).Create(&record).Error; err != nil {
		s.log.Error("Failed to insert record", logger.Fields{
			"error":    err.Error(),
			"entry_id": entry.ID,
		})
		return err
	}

	s.log.Debug("Record saved", logger.Fields{
		"entry_id": entry.ID,
		"score":    record.Score,
	})
	return nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get database connection: %w", err)
	}
	return sqlDB.Close()
}

func (s *Store) buildDSN(includeDB bool) string {
	dbPart := "/"
	if includeDB {
		dbPart = "/" + s.cfg.Database
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)%s?charset=%s&parseTime=True&loc=Local",
		s.cfg.Username,
		s.cfg.Password,
		s.cfg.Host,
		s.cfg.Port,
		dbPart,
		s.cfg.Charset,
	)
}
