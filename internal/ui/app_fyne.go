//go:build fyne && cgo

/*
 * Copyright (c) 2026 by the aiquiz authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"aiquiz/internal/export"
	"aiquiz/internal/gemini"
	applog "aiquiz/internal/log"
	"aiquiz/internal/profile"
	"aiquiz/internal/quiz"
)

// historyDB keeps the view signatures readable.
type historyDB = *sql.DB

// Run starts the Fyne-based desktop UI with the login window. It blocks until
// the user closes the application. A launch failure is surfaced via a
// blocking error dialog and returned to the caller.
func Run(p Params) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	fyneApp := app.NewWithID("aiquiz")
	applyTheme(fyneApp, p.Config.General.Theme, l)

	w := fyneApp.NewWindow("AI Quiz — Login")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 900)
	winH := prefs.IntWithFallback("window.height", 640)
	if winW < 640 {
		winW = 640
	}
	if winH < 480 {
		winH = 480
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	if err := buildLogin(w, p, l); err != nil {
		l.Error("launch failed", slog.Any("err", err))
		d := dialog.NewError(fmt.Errorf("failed to launch application: %w", err), w)
		d.Show()
		w.ShowAndRun()
		return err
	}

	w.ShowAndRun()
	return nil
}

func applyTheme(a fyne.App, name string, l *slog.Logger) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "system":
		// system appearance is the Fyne default
	case "light":
		a.Settings().SetTheme(theme.LightTheme())
	case "dark":
		a.Settings().SetTheme(theme.DarkTheme())
	default:
		l.Warn("could not apply theme", slog.String("theme", name))
	}
}

func buildLogin(w fyne.Window, p Params, l *slog.Logger) error {
	store := profile.NewStore(p.Config.Quiz.ProfilesDir)
	names, err := store.List()
	if err != nil {
		return fmt.Errorf("list profiles: %w", err)
	}

	db, err := profile.OpenHistory(p.Config.Quiz.ProfilesDir)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	w.SetOnClosed(func() { _ = db.Close() })

	selected := -1
	list := widget.NewList(
		func() int { return len(names) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= 0 && int(i) < len(names) {
				o.(*widget.Label).SetText(names[i])
			}
		},
	)
	list.OnSelected = func(id widget.ListItemID) { selected = int(id) }

	newName := widget.NewEntry()
	newName.SetPlaceHolder("New profile name")

	status := widget.NewLabel("")
	if p.Degraded {
		status.SetText("⚠ Limited mode: AI question generation is unavailable until setup completes.")
	}

	openProfile := func(name string) {
		prof, err := store.Load(name)
		if err != nil {
			dialog.ShowError(fmt.Errorf("load profile: %w", err), w)
			return
		}
		if err := store.Touch(prof); err != nil {
			l.Warn("touch profile failed", slog.Any("err", err))
		}
		l.Info("profile opened", slog.String("profile", prof.Name))
		showHome(w, p, store, prof, db, l)
	}

	loginBtn := widget.NewButton("Log In", func() {
		if selected < 0 || selected >= len(names) {
			dialog.ShowInformation("Login", "Select a profile first.", w)
			return
		}
		openProfile(names[selected])
	})
	createBtn := widget.NewButton("Create Profile", func() {
		prof, err := store.Create(strings.TrimSpace(newName.Text))
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		l.Info("profile created", slog.String("profile", prof.Name))
		showHome(w, p, store, prof, db, l)
	})
	helpBtn := widget.NewButton("Help", func() { showHelp(w) })

	content := container.NewBorder(
		widget.NewLabel("Who is playing?"),
		container.NewVBox(newName, container.NewHBox(loginBtn, createBtn, helpBtn), status),
		nil, nil,
		list,
	)
	w.SetContent(content)
	return nil
}

func showHelp(w fyne.Window) {
	help := widget.NewLabel(HelpText)
	help.TextStyle = fyne.TextStyle{Monospace: true}
	dialog.ShowCustom("Application Help", "Close", container.NewScroll(help), w)
}

func showHome(w fyne.Window, p Params, store *profile.Store, prof *profile.Profile, db historyDB, l *slog.Logger) {
	w.SetTitle("AI Quiz — " + prof.Name)

	domainSel := widget.NewSelect(quiz.Domains, nil)
	domainSel.SetSelected(quiz.Domains[0])
	diffSel := widget.NewSelect([]string{"easy", "medium", "hard"}, nil)
	diffSel.SetSelected(string(quiz.ParseDifficulty(p.Config.Quiz.Difficulty)))

	statsLabel := widget.NewLabel("")
	refreshStats := func() {
		st, err := profile.LoadStats(context.Background(), db, prof.Name)
		if err != nil {
			l.Warn("load stats failed", slog.Any("err", err))
			return
		}
		statsLabel.SetText(fmt.Sprintf("Rounds: %d   Questions: %d   Correct: %d   Best: %d%%   Achievements: %d",
			st.Rounds, st.Questions, st.Correct, st.BestPercent, len(prof.Achievements)))
	}
	refreshStats()

	startBtn := widget.NewButton("Start Quiz", func() {
		if strings.TrimSpace(p.APIKey) == "" {
			dialog.ShowInformation("AI unavailable",
				"No Gemini API key is configured. Run aiquizsetup to enable question generation.", w)
			return
		}
		domain := domainSel.Selected
		diff := quiz.ParseDifficulty(diffSel.Selected)
		n := p.Config.Quiz.QuestionsPerRound

		progress := dialog.NewCustomWithoutButtons("Generating questions",
			container.NewVBox(widget.NewLabel("Asking Gemini for fresh questions…"), widget.NewProgressBarInfinite()), w)
		progress.Show()

		client := gemini.NewClient(gemini.Options{
			Endpoint: p.Config.Gemini.Endpoint,
			Model:    p.Config.Gemini.Model,
			APIKey:   p.APIKey,
			Timeout:  time.Duration(p.Config.Gemini.TimeoutMs) * time.Millisecond,
		})
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			qs, err := client.GenerateQuestions(ctx, domain, diff, n)
			fyne.Do(func() {
				progress.Hide()
				if err != nil {
					dialog.ShowError(fmt.Errorf("question generation failed: %w", err), w)
					return
				}
				session := quiz.NewSession(prof.Name, domain, diff, qs)
				showRound(w, p, store, prof, db, session, refreshStats, l)
			})
		}()
	})
	helpBtn := widget.NewButton("Help", func() { showHelp(w) })
	achBtn := widget.NewButton("Achievements", func() {
		var sb strings.Builder
		if len(prof.Achievements) == 0 {
			sb.WriteString("Nothing earned yet. Play a round!")
		}
		for _, id := range prof.Achievements {
			sb.WriteString("🏆 " + profile.AchievementTitle(id) + "\n")
		}
		dialog.ShowInformation("Achievements", sb.String(), w)
	})

	form := container.NewVBox(
		widget.NewLabel("Pick a domain and difficulty:"),
		domainSel,
		diffSel,
		container.NewHBox(startBtn, achBtn, helpBtn),
		widget.NewSeparator(),
		statsLabel,
	)
	w.SetContent(container.NewPadded(form))
}

func showRound(w fyne.Window, p Params, store *profile.Store, prof *profile.Profile, db historyDB, s *quiz.Session, refreshStats func(), l *slog.Logger) {
	idx := 0
	prompt := widget.NewLabel("")
	prompt.Wrapping = fyne.TextWrapWord
	progress := widget.NewLabel("")
	var choiceBox *fyne.Container

	var render func()
	finish := func() {
		s.Finish()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := profile.RecordRound(ctx, db, s); err != nil {
			l.Error("record round failed", slog.Any("err", err))
		}
		st, err := profile.LoadStats(ctx, db, prof.Name)
		if err == nil {
			granted := false
			for _, id := range profile.EvaluateAchievements(st) {
				if prof.GrantAchievement(id) {
					granted = true
				}
			}
			if granted {
				if err := store.Save(prof); err != nil {
					l.Error("save profile failed", slog.Any("err", err))
				}
			}
		}
		showResults(w, p, store, prof, db, s, refreshStats, l)
	}
	render = func() {
		if idx >= len(s.Questions) {
			finish()
			return
		}
		q := s.Questions[idx]
		progress.SetText(fmt.Sprintf("Question %d of %d — %s (%s)", idx+1, len(s.Questions), s.Domain, s.Difficulty))
		prompt.SetText(q.Prompt)
		choiceBox.RemoveAll()
		for ci, choice := range q.Choices {
			ci := ci
			choiceBox.Add(widget.NewButton(choice, func() {
				if _, err := s.Answer(idx, ci); err != nil {
					l.Warn("answer rejected", slog.Any("err", err))
					return
				}
				idx++
				render()
			}))
		}
		choiceBox.Refresh()
	}

	choiceBox = container.NewVBox()
	w.SetContent(container.NewPadded(container.NewVBox(progress, widget.NewSeparator(), prompt, choiceBox)))
	render()
}

func showResults(w fyne.Window, p Params, store *profile.Store, prof *profile.Profile, db historyDB, s *quiz.Session, refreshStats func(), l *slog.Logger) {
	score := widget.NewLabel(fmt.Sprintf("You scored %d of %d (%d%%) in %s.",
		s.Correct(), len(s.Questions), s.ScorePercent(), s.Duration().Round(time.Second)))

	exportBtn := widget.NewButton("Export PDF Report", func() {
		out := filepath.Join(p.Config.Quiz.ProfilesDir, prof.Name,
			fmt.Sprintf("report-%s.pdf", time.Now().Format("20060102-150405")))
		if err := export.WriteSessionReport(out, prof, s); err != nil {
			dialog.ShowError(fmt.Errorf("export report: %w", err), w)
			return
		}
		l.Info("report exported", slog.String("path", out))
		dialog.ShowInformation("Export", "Report saved to "+out, w)
	})
	againBtn := widget.NewButton("Play Again", func() {
		showHome(w, p, store, prof, db, l)
	})

	w.SetContent(container.NewPadded(container.NewVBox(
		widget.NewLabel("Round complete!"),
		score,
		container.NewHBox(exportBtn, againBtn),
	)))
	refreshStats()
}
