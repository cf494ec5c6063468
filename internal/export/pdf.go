/*
 * Copyright (c) 2026 by the aiquiz authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package export renders quiz session reports to PDF. Built-in Helvetica is
// used for portability; font embedding can come later if needed.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"aiquiz/internal/profile"
	"aiquiz/internal/quiz"
	"aiquiz/internal/version"
)

// WriteSessionReport writes a one-round summary for the given profile to
// outPath, creating parent directories as needed.
func WriteSessionReport(outPath string, p *profile.Profile, s *quiz.Session) error {
	if p == nil || s == nil {
		return fmt.Errorf("profile and session are required")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("AI Quiz Session Report", false)
	pdf.SetAuthor("aiquiz "+version.String(), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "AI Quiz — Session Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Player: %s", p.Name), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Domain: %s    Difficulty: %s", s.Domain, s.Difficulty), "", 1, "L", false, 0, "")
	when := s.FinishedAt
	if when.IsZero() {
		when = time.Now()
	}
	pdf.CellFormat(0, 7, fmt.Sprintf("Finished: %s    Duration: %s",
		when.Format("2006-01-02 15:04"), s.Duration().Round(time.Second)), "", 1, "L", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, fmt.Sprintf("Score: %d / %d (%d%%)",
		s.Correct(), len(s.Questions), s.ScorePercent()), "", 1, "L", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 10)
	for i, q := range s.Questions {
		mark := "✗"
		if i < len(s.Answers) && s.Answers[i] == q.Answer {
			mark = "✓"
		}
		pdf.SetFont("Helvetica", "B", 10)
		pdf.MultiCell(0, 6, fmt.Sprintf("%s  Q%d: %s", mark, i+1, q.Prompt), "", "L", false)
		pdf.SetFont("Helvetica", "", 10)
		answer := "(unanswered)"
		if i < len(s.Answers) && s.Answers[i] >= 0 && s.Answers[i] < len(q.Choices) {
			answer = q.Choices[s.Answers[i]]
		}
		pdf.MultiCell(0, 5, fmt.Sprintf("    Your answer: %s", answer), "", "L", false)
		if q.Answer >= 0 && q.Answer < len(q.Choices) {
			pdf.MultiCell(0, 5, fmt.Sprintf("    Correct answer: %s", q.Choices[q.Answer]), "", "L", false)
		}
		if q.Explanation != "" {
			pdf.MultiCell(0, 5, fmt.Sprintf("    %s", q.Explanation), "", "L", false)
		}
		pdf.Ln(1)
	}

	pdf.SetY(-20)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated by aiquiz %s", version.String()), "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
