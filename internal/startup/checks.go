/*
 * Copyright (c) 2026 by the aiquiz authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package startup runs the launcher's environment validation sequence:
// configuration, Gemini API key, connectivity, profiles directory and write
// permissions. Check results are printed as a human-readable report; the two
// soft checks (missing key, failed connectivity) may be bypassed with
// explicit user consent, hard failures are recorded but never block launch.
package startup

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "aiquiz/internal/log"
)

// Options wires the orchestrator to its collaborators. All fields are narrow
// so tests can exercise every branch without a real keyring or network.
type Options struct {
	In  io.Reader // prompt input, usually os.Stdin
	Out io.Writer // report output, usually os.Stdout

	ProfilesDir string // relative directory holding user profiles

	ConfigErr        error                       // result of configuration construction
	APIKeyConfigured func() bool                 // key presence probe
	TestConnection   func(context.Context) error // Gemini connectivity probe

	// Interactive gates the continue-anyway prompt. When false (aiquiz check),
	// a failed soft check counts as a decline.
	Interactive bool

	ConnectTimeout time.Duration // connectivity probe budget, default 10s
}

// CheckResult is the outcome of a single startup check.
type CheckResult struct {
	Name   string
	Passed bool
	Note   string // short annotation such as "(created)"
}

// Report is the aggregate outcome of a startup run.
type Report struct {
	Checks    []CheckResult
	AllPassed bool
	// Declined is set only when the user refused to continue past a soft
	// check. It is the single fatal path; every other failure degrades.
	Declined bool
}

// Continue reports whether the application may proceed to launch.
func (r Report) Continue() bool { return !r.Declined }

// PrintBanner writes the static welcome banner.
func PrintBanner(w io.Writer) {
	sep := strings.Repeat("=", 70)
	fmt.Fprintln(w)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, "  🤖 AI-POWERED QUIZ APPLICATION")
	fmt.Fprintln(w, "  Powered by Google Gemini AI")
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w)
}

// Run executes the startup checks in fixed order and prints the report to
// opts.Out. The returned report's Declined field is true only when the user
// explicitly refused to continue; hard failures merely degrade.
func Run(ctx context.Context, opts Options) Report {
	l := applog.WithComponent("startup")
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ProfilesDir == "" {
		opts.ProfilesDir = "profiles"
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 10 * time.Second
	}

	var rep Report
	rep.AllPassed = true
	record := func(c CheckResult) {
		rep.Checks = append(rep.Checks, c)
		if !c.Passed {
			rep.AllPassed = false
		}
		l.Info("check", slog.String("name", c.Name), slog.Bool("passed", c.Passed))
	}
	in := bufio.NewReader(opts.In)

	fmt.Fprintln(opts.Out, "🔍 Performing startup checks...")
	fmt.Fprintln(opts.Out)

	// Check 1: configuration
	fmt.Fprint(opts.Out, "  Checking configuration... ")
	if opts.ConfigErr != nil {
		fmt.Fprintf(opts.Out, "❌ %v\n", opts.ConfigErr)
		record(CheckResult{Name: "config", Passed: false})
	} else {
		fmt.Fprintln(opts.Out, "✅")
		record(CheckResult{Name: "config", Passed: true})
	}

	// Check 2: API key (soft)
	fmt.Fprint(opts.Out, "  Checking Gemini API key... ")
	keyOK := opts.APIKeyConfigured != nil && opts.APIKeyConfigured()
	if !keyOK {
		fmt.Fprintln(opts.Out, "⚠ NOT CONFIGURED")
		fmt.Fprintln(opts.Out)
		fmt.Fprintln(opts.Out, "    ⚠️  Gemini API key is not configured!")
		fmt.Fprintln(opts.Out, "    To configure, run: aiquizsetup")
		fmt.Fprintln(opts.Out, "    Or get your key at: https://makersuite.google.com/app/apikey")
		fmt.Fprintln(opts.Out)
		if !askToContinue(opts, in) {
			record(CheckResult{Name: "api_key", Passed: false})
			rep.Declined = true
			return rep
		}
		record(CheckResult{Name: "api_key", Passed: false})
	} else {
		fmt.Fprintln(opts.Out, "✅")
		record(CheckResult{Name: "api_key", Passed: true})

		// Check 3: connectivity (soft), only when a key is present
		fmt.Fprint(opts.Out, "  Testing Gemini AI connection... ")
		cctx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
		err := errNoTester
		if opts.TestConnection != nil {
			err = opts.TestConnection(cctx)
		}
		cancel()
		if err != nil {
			fmt.Fprintln(opts.Out, "⚠ FAILED")
			fmt.Fprintln(opts.Out)
			fmt.Fprintln(opts.Out, "    ⚠️  Could not connect to Gemini AI")
			fmt.Fprintln(opts.Out, "    Possible issues:")
			fmt.Fprintln(opts.Out, "    - Invalid API key")
			fmt.Fprintln(opts.Out, "    - No internet connection")
			fmt.Fprintln(opts.Out, "    - Gemini API temporarily unavailable")
			fmt.Fprintln(opts.Out)
			l.Warn("connectivity check failed", slog.Any("err", err))
			if !askToContinue(opts, in) {
				record(CheckResult{Name: "connectivity", Passed: false})
				rep.Declined = true
				return rep
			}
			record(CheckResult{Name: "connectivity", Passed: false})
		} else {
			fmt.Fprintln(opts.Out, "✅")
			record(CheckResult{Name: "connectivity", Passed: true})
		}
	}

	// Check 4: profiles directory (hard)
	fmt.Fprint(opts.Out, "  Checking profiles directory... ")
	switch _, err := os.Stat(opts.ProfilesDir); {
	case err == nil:
		fmt.Fprintln(opts.Out, "✅")
		record(CheckResult{Name: "profiles_dir", Passed: true})
	case os.IsNotExist(err):
		if mkErr := os.Mkdir(opts.ProfilesDir, 0o755); mkErr != nil {
			fmt.Fprintln(opts.Out, "❌ Could not create directory")
			l.Error("create profiles dir failed", slog.Any("err", mkErr))
			record(CheckResult{Name: "profiles_dir", Passed: false})
		} else {
			fmt.Fprintln(opts.Out, "✅ (created)")
			record(CheckResult{Name: "profiles_dir", Passed: true, Note: "(created)"})
		}
	default:
		fmt.Fprintln(opts.Out, "❌ Could not access directory")
		l.Error("stat profiles dir failed", slog.Any("err", err))
		record(CheckResult{Name: "profiles_dir", Passed: false})
	}

	// Check 5: write permissions (hard)
	fmt.Fprint(opts.Out, "  Checking write permissions... ")
	if writable(opts.ProfilesDir) && writable(".") {
		fmt.Fprintln(opts.Out, "✅")
		record(CheckResult{Name: "write_perms", Passed: true})
	} else {
		fmt.Fprintln(opts.Out, "❌ No write permission")
		fmt.Fprintln(opts.Out)
		fmt.Fprintln(opts.Out, "    ❌ The application needs write permissions")
		fmt.Fprintln(opts.Out, "    to save user profiles and configuration.")
		fmt.Fprintln(opts.Out)
		record(CheckResult{Name: "write_perms", Passed: false})
	}

	fmt.Fprintln(opts.Out)
	if rep.AllPassed {
		fmt.Fprintln(opts.Out, "✅ All checks passed!")
	} else {
		fmt.Fprintln(opts.Out, "⚠️  Some checks failed, but application can run with limited functionality.")
	}
	fmt.Fprintln(opts.Out)
	return rep
}

var errNoTester = fmt.Errorf("no connectivity tester configured")

// askToContinue prompts for consent to continue past a failed soft check.
// Anything other than "y"/"yes" (case-insensitive), including a read error,
// declines. In non-interactive runs the prompt is skipped and counts as a
// decline.
func askToContinue(opts Options, in *bufio.Reader) bool {
	if !opts.Interactive {
		return false
	}
	fmt.Fprint(opts.Out, "\n  Continue anyway? (y/n): ")
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	resp := strings.ToLower(strings.TrimSpace(line))
	return resp == "y" || resp == "yes"
}

// writable probes a directory by creating and removing a temp file. Go has no
// portable access-bits check, and a probe answers the real question anyway.
func writable(dir string) bool {
	f, err := os.CreateTemp(dir, ".aiq-perm-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}

// ProfilesPath resolves the profiles directory against the working directory
// for display purposes.
func ProfilesPath(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}
