package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"aiquiz/internal/profile"
	"aiquiz/internal/quiz"
)

func TestWriteSessionReport(t *testing.T) {
	qs := []quiz.Question{
		{Domain: "Science", Difficulty: quiz.Medium, Prompt: "Symbol for gold?", Choices: []string{"Au", "Ag"}, Answer: 0, Explanation: "Aurum."},
		{Domain: "Science", Difficulty: quiz.Medium, Prompt: "Planet count?", Choices: []string{"8", "9"}, Answer: 0},
	}
	s := quiz.NewSession("ada", "Science", quiz.Medium, qs)
	if _, err := s.Answer(0, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Answer(1, 1); err != nil {
		t.Fatal(err)
	}
	s.Finish()

	p := &profile.Profile{Name: "ada", CreatedAt: time.Now(), LastSeen: time.Now()}
	out := filepath.Join(t.TempDir(), "nested", "report.pdf")
	if err := WriteSessionReport(out, p, s); err != nil {
		t.Fatalf("WriteSessionReport: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if len(data) < 500 || !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output does not look like a PDF (%d bytes)", len(data))
	}
}

func TestWriteSessionReportNilArgs(t *testing.T) {
	if err := WriteSessionReport(filepath.Join(t.TempDir(), "x.pdf"), nil, nil); err == nil {
		t.Fatal("nil args accepted")
	}
}
