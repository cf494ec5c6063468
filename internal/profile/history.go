/*
 * Copyright (c) 2026 by the aiquiz authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "aiquiz/internal/log"
	"aiquiz/internal/quiz"
	"aiquiz/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// HistoryDirName holds shared ephemeral data under the profiles root.
	HistoryDirName  = ".aiq"
	HistoryFileName = "history.sqlite"

	// historySchemaVersion tracks the local SQLite schema. Bump on breaking
	// changes and extend migrate accordingly.
	historySchemaVersion = 1
)

// HistoryPath returns the full path of the shared history database.
func HistoryPath(profilesRoot string) string {
	return filepath.Join(profilesRoot, HistoryDirName, HistoryFileName)
}

// OpenHistory opens (creating if needed) the history database under the
// profiles root, enables WAL mode, and ensures the schema. The returned
// *sql.DB is ready for use; callers close it when done.
func OpenHistory(profilesRoot string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("profile"), "history_open").With(
		slog.String("root", profilesRoot),
	)
	if strings.TrimSpace(profilesRoot) == "" {
		return nil, errors.New("profiles root is required")
	}
	if err := os.MkdirAll(filepath.Join(profilesRoot, HistoryDirName), 0o755); err != nil {
		l.Error("create history dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(HistoryPath(profilesRoot)))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureHistorySchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure schema failed", slog.Any("err", err))
		return nil, err
	}
	l.Debug("history ready", slog.String("path", HistoryPath(profilesRoot)))
	return db, nil
}

func ensureHistorySchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS rounds (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			profile     TEXT NOT NULL,
			domain      TEXT NOT NULL,
			difficulty  TEXT NOT NULL,
			questions   INTEGER NOT NULL,
			correct     INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			finished_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_profile ON rounds(profile, finished_at);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := db.ExecContext(ctx,
		`INSERT INTO meta(key, value) VALUES('schema', ?) ON CONFLICT(key) DO NOTHING`,
		fmt.Sprintf("%d", historySchemaVersion)); err != nil {
		return fmt.Errorf("seed schema version: %w", err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO meta(key, value) VALUES('app', ?) ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		version.String()+" "+now); err != nil {
		return fmt.Errorf("stamp app version: %w", err)
	}
	return nil
}

// RecordRound stores a finished session in the history database.
func RecordRound(ctx context.Context, db *sql.DB, s *quiz.Session) error {
	if s == nil {
		return errors.New("nil session")
	}
	if s.FinishedAt.IsZero() {
		return errors.New("session not finished")
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO rounds(profile, domain, difficulty, questions, correct, duration_ms, finished_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?)`,
		s.Profile, s.Domain, string(s.Difficulty), len(s.Questions), s.Correct(),
		s.Duration().Milliseconds(), s.FinishedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert round: %w", err)
	}
	return nil
}

// Stats aggregates a profile's quiz history.
type Stats struct {
	Rounds         int
	Questions      int
	Correct        int
	BestPercent    int
	PerfectRounds  int
	DistinctTopics int
}

// LoadStats computes aggregate stats for a profile.
func LoadStats(ctx context.Context, db *sql.DB, profileName string) (Stats, error) {
	var st Stats
	row := db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(questions), 0),
		        COALESCE(SUM(correct), 0),
		        COALESCE(MAX(correct * 100 / questions), 0),
		        COALESCE(SUM(CASE WHEN correct = questions AND questions > 0 THEN 1 ELSE 0 END), 0),
		        COUNT(DISTINCT domain)
		 FROM rounds WHERE profile = ? AND questions > 0`, profileName)
	if err := row.Scan(&st.Rounds, &st.Questions, &st.Correct, &st.BestPercent, &st.PerfectRounds, &st.DistinctTopics); err != nil {
		return st, fmt.Errorf("load stats: %w", err)
	}
	return st, nil
}

// RoundSummary is a single row of history for display.
type RoundSummary struct {
	Domain     string
	Difficulty string
	Questions  int
	Correct    int
	FinishedAt time.Time
}

// RecentRounds returns up to limit most recent rounds for a profile.
func RecentRounds(ctx context.Context, db *sql.DB, profileName string, limit int) ([]RoundSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.QueryContext(ctx,
		`SELECT domain, difficulty, questions, correct, finished_at
		 FROM rounds WHERE profile = ? ORDER BY finished_at DESC, id DESC LIMIT ?`,
		profileName, limit)
	if err != nil {
		return nil, fmt.Errorf("query rounds: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []RoundSummary
	for rows.Next() {
		var r RoundSummary
		var ts string
		if err := rows.Scan(&r.Domain, &r.Difficulty, &r.Questions, &r.Correct, &ts); err != nil {
			return nil, err
		}
		r.FinishedAt, _ = time.Parse(time.RFC3339, ts)
		out = append(out, r)
	}
	return out, rows.Err()
}
