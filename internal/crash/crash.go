/*
 * Copyright (c) 2026 by the aiquiz authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package crash turns panics into crash report files instead of bare stack
// traces on the user's terminal.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	applog "aiquiz/internal/log"
	"aiquiz/internal/telemetry"
	"aiquiz/internal/version"
)

// exitFn is swappable so tests can observe Recover without dying.
var exitFn = os.Exit

// CrashDirName under the profiles root receives crash reports.
const CrashDirName = "crashes"

// Recover captures a panic, logs it with a stacktrace, writes a report file
// under the profiles root (temp dir when none is available), and exits
// non-zero.
//
// Usage: defer crash.Recover(profilesDir)
func Recover(profilesDir string) {
	if r := recover(); r != nil {
		l := applog.WithComponent("crash")
		stack := debug.Stack()
		l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

		reportPath, err := writeReport(profilesDir, r, stack)
		if err != nil {
			l.Error("write crash report failed", slog.Any("err", err))
		}
		fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath)
		fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH)
		exitFn(2)
	}
}

func writeReport(profilesDir string, panicVal any, stack []byte) (string, error) {
	dir := os.TempDir()
	if profilesDir != "" {
		if fi, err := os.Stat(profilesDir); err == nil && fi.IsDir() {
			dir = filepath.Join(profilesDir, CrashDirName)
			_ = os.MkdirAll(dir, 0o755)
		}
	}
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(dir, fmt.Sprintf("crash-%s.log", stamp))

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "AI Quiz Crash Report\n")
	fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&buf, "Version: %s\n", version.String())
	fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, err
	}
	// opt-in anonymized upload
	telemetry.UploadCrash(buf.Bytes())
	return path, nil
}
