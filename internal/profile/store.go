/*
 * Copyright (c) 2026 by the aiquiz authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package profile persists user profiles under the profiles directory.
// Each profile is a human-readable JSON manifest in its own folder with
// timestamped backups; finished quiz rounds are recorded in a shared
// SQLite history database for progress stats and achievements.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

const (
	ManifestFileName = "profile.json"
	BackupsDirName   = "backups"
)

var nameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 _.-]{0,31}$`)

// ErrInvalidName rejects profile names that would not survive as directory names.
var ErrInvalidName = errors.New("invalid profile name")

// Profile is the persisted per-user record.
type Profile struct {
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
	LastSeen     time.Time `json:"lastSeen"`
	Achievements []string  `json:"achievements,omitempty"`
}

// Store roots all profile data at a single directory (usually "profiles").
type Store struct {
	Root string
}

// NewStore returns a store rooted at dir. The directory itself is created by
// the startup checks, not here.
func NewStore(dir string) *Store { return &Store{Root: dir} }

func (s *Store) profileDir(name string) string { return filepath.Join(s.Root, name) }

func (s *Store) manifestPath(name string) string {
	return filepath.Join(s.profileDir(name), ManifestFileName)
}

// Create scaffolds a new profile folder and writes its manifest.
func (s *Store) Create(name string) (*Profile, error) {
	if !nameRe.MatchString(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	dir := s.profileDir(name)
	if _, err := os.Stat(s.manifestPath(name)); err == nil {
		return nil, fmt.Errorf("profile %q already exists", name)
	}
	if err := os.MkdirAll(filepath.Join(dir, BackupsDirName), 0o755); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}
	now := time.Now()
	p := &Profile{Name: name, CreatedAt: now, LastSeen: now}
	if err := s.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Load reads a profile manifest. If the current manifest is unreadable or
// corrupt, the latest backup is tried before giving up.
func (s *Store) Load(name string) (*Profile, error) {
	mpath := s.manifestPath(name)
	b, err := os.ReadFile(mpath)
	if err != nil {
		p, berr := s.loadFromLatestBackup(name)
		if berr != nil {
			return nil, fmt.Errorf("open manifest: %w; backup attempt: %v", err, berr)
		}
		return p, nil
	}
	var p Profile
	if uerr := json.Unmarshal(b, &p); uerr != nil {
		bp, berr := s.loadFromLatestBackup(name)
		if berr != nil {
			return nil, fmt.Errorf("parse manifest: %w; backup attempt: %v", uerr, berr)
		}
		return bp, nil
	}
	return &p, nil
}

// Save writes the manifest transactionally, keeping a timestamped backup of
// the previous version.
func (s *Store) Save(p *Profile) error {
	if p == nil {
		return errors.New("nil profile")
	}
	if !nameRe.MatchString(p.Name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, p.Name)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	data = append(data, '\n')

	dir := s.profileDir(p.Name)
	bdir := filepath.Join(dir, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return fmt.Errorf("ensure backups dir: %w", err)
	}
	mpath := s.manifestPath(p.Name)
	if _, statErr := os.Stat(mpath); statErr == nil {
		stamp := time.Now().Format("20060102-150405")
		bpath := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", ManifestFileName, stamp))
		if cerr := copyFile(mpath, bpath); cerr != nil {
			return fmt.Errorf("backup current manifest: %w", cerr)
		}
	}

	// Transactional write: temp file in the same directory, then rename.
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", ManifestFileName, os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		return fmt.Errorf("write temp manifest: %w", werr)
	}
	// On Windows, replace by removing destination first if needed.
	if _, err := os.Stat(mpath); err == nil {
		_ = os.Remove(mpath)
	}
	if rerr := os.Rename(temp, mpath); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace manifest: %w", rerr)
	}
	return nil
}

// Touch updates LastSeen and persists.
func (s *Store) Touch(p *Profile) error {
	p.LastSeen = time.Now()
	return s.Save(p)
}

// List returns the names of all profiles with a readable manifest, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if _, err := os.Stat(s.manifestPath(e.Name())); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// GrantAchievement appends an achievement if absent and reports whether it
// was newly granted. The caller persists via Save.
func (p *Profile) GrantAchievement(id string) bool {
	for _, a := range p.Achievements {
		if a == id {
			return false
		}
	}
	p.Achievements = append(p.Achievements, id)
	return true
}

func (s *Store) loadFromLatestBackup(name string) (*Profile, error) {
	bdir := filepath.Join(s.profileDir(name), BackupsDirName)
	entries, err := os.ReadDir(bdir)
	if err != nil {
		return nil, err
	}
	var baks []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".bak") {
			baks = append(baks, e.Name())
		}
	}
	if len(baks) == 0 {
		return nil, errors.New("no backups present")
	}
	sort.Strings(baks) // timestamped names sort chronologically
	for i := len(baks) - 1; i >= 0; i-- {
		b, err := os.ReadFile(filepath.Join(bdir, baks[i]))
		if err != nil {
			continue
		}
		var p Profile
		if err := json.Unmarshal(b, &p); err == nil {
			return &p, nil
		}
	}
	return nil, errors.New("no readable backup")
}

// writeFileSync writes data to a file and flushes it to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	return df.Sync()
}
