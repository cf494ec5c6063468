/*
 * Copyright (c) 2026 by the aiquiz authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"aiquiz/internal/backend"
	"aiquiz/internal/config"
	"aiquiz/internal/crash"
	"aiquiz/internal/gemini"
	applog "aiquiz/internal/log"
	"aiquiz/internal/startup"
	"aiquiz/internal/ui"
	"aiquiz/internal/version"
)

func usage() {
	fmt.Println("AI Quiz — desktop quiz application")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  aiquiz                       Launch the application (startup checks + UI)")
	fmt.Println("  aiquiz ui                    Same as the default")
	fmt.Println("  aiquiz check                 Run startup checks only (non-interactive)")
	fmt.Println("  aiquiz top [domain]          Show the shared leaderboard (requires a server)")
	fmt.Println("  aiquiz serve                 Start the leaderboard server (if enabled)")
	fmt.Println("  aiquiz version|-v|--version  Show version")
}

func main() {
	applog.Init(applog.FromEnv())
	cfg, apiKey, cfgErr := config.Load()
	// re-init logging from the merged config; env still wins inside FromEnv
	if cfgErr == nil {
		applog.Init(applog.Options{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.Source,
			File:      cfg.Logging.File,
		})
	}
	l := applog.WithComponent("cli")
	defer crash.Recover(cfg.Quiz.ProfilesDir)

	args := os.Args
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("AI Quiz — desktop quiz application")
			fmt.Println(version.String())
			return
		case "check":
			rep := runChecks(cfg, apiKey, cfgErr, false)
			if !rep.Continue() {
				os.Exit(1)
			}
			return
		case "top":
			domain := ""
			if len(args) > 2 {
				domain = args[2]
			}
			showLeaderboard(cfg, domain)
			return
		case "serve":
			if !cfg.General.EnableServer {
				fmt.Println("Leaderboard server is disabled. Set general.enable_server in the config or AIQ_ENABLE_SERVER=1.")
				os.Exit(1)
			}
			if err := backend.Start(backend.ConfigFromEnv()); err != nil {
				l.Error("server failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "ui":
			// fall through to the launcher below
		case "help", "-h", "--help":
			usage()
			return
		default:
			usage()
			os.Exit(2)
		}
	}

	launch(cfg, apiKey, cfgErr, l)
}

// launch is the full startup flow: theme, banner, checks, GUI handoff.
func launch(cfg config.AppConfig, apiKey string, cfgErr error, l *slog.Logger) {
	// Step 1: look and feel. Failure is cosmetic, never fatal.
	if err := ui.ValidateTheme(cfg.General.Theme); err != nil {
		fmt.Fprintln(os.Stderr, "Could not set look and feel:", err)
		l.Warn("theme validation failed", slog.Any("err", err))
	}

	startup.PrintBanner(os.Stdout)

	rep := runChecks(cfg, apiKey, cfgErr, true)
	if !rep.Continue() {
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "❌ Startup checks failed. Please fix the issues above and restart.")
		os.Exit(1)
	}

	fmt.Println("✅ Application launched successfully!")
	fmt.Println("📚 Ready to generate AI-powered questions!")
	fmt.Println()

	if err := ui.Run(ui.Params{Config: cfg, APIKey: apiKey, Degraded: !rep.AllPassed}); err != nil {
		l.Error("launch failed", slog.Any("err", err))
		fmt.Fprintln(os.Stderr, "❌ Failed to launch application:", err)
	}
}

func runChecks(cfg config.AppConfig, apiKey string, cfgErr error, interactive bool) startup.Report {
	client := gemini.NewClient(gemini.Options{
		Endpoint: cfg.Gemini.Endpoint,
		Model:    cfg.Gemini.Model,
		APIKey:   apiKey,
		Timeout:  time.Duration(cfg.Gemini.TimeoutMs) * time.Millisecond,
	})
	return startup.Run(context.Background(), startup.Options{
		In:               os.Stdin,
		Out:              os.Stdout,
		ProfilesDir:      cfg.Quiz.ProfilesDir,
		ConfigErr:        cfgErr,
		APIKeyConfigured: config.IsAPIKeyConfigured,
		TestConnection:   client.TestConnection,
		Interactive:      interactive,
		ConnectTimeout:   time.Duration(cfg.Gemini.TimeoutMs) * time.Millisecond,
	})
}

func showLeaderboard(cfg config.AppConfig, domain string) {
	base := os.Getenv("AIQ_SERVER_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	c := backend.NewClient(base, os.Getenv("AIQ_SERVER_TOKEN"))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	list, err := c.Leaderboard(ctx, domain, 10)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	if len(list) == 0 {
		fmt.Println("No scores yet.")
		return
	}
	fmt.Printf("%-20s %-20s %-8s %s\n", "PLAYER", "DOMAIN", "SCORE", "WHEN")
	for _, e := range list {
		fmt.Printf("%-20s %-20s %3d%%     %s\n", e.Player, e.Domain, e.Percent, e.CreatedAt.Format("2006-01-02"))
	}
}
