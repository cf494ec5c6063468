package profile

import (
	"context"
	"testing"
	"time"

	"aiquiz/internal/quiz"
)

func finishedSession(profileName, domain string, total, correct int) *quiz.Session {
	qs := make([]quiz.Question, total)
	for i := range qs {
		qs[i] = quiz.Question{
			Domain:     domain,
			Difficulty: quiz.Medium,
			Prompt:     "q?",
			Choices:    []string{"a", "b"},
			Answer:     0,
		}
	}
	s := quiz.NewSession(profileName, domain, quiz.Medium, qs)
	for i := 0; i < total; i++ {
		choice := 1
		if i < correct {
			choice = 0
		}
		if _, err := s.Answer(i, choice); err != nil {
			panic(err)
		}
	}
	s.Finish()
	return s
}

func TestRecordAndStats(t *testing.T) {
	root := t.TempDir()
	db, err := OpenHistory(root)
	if err != nil {
		t.Fatalf("OpenHistory: %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	if err := RecordRound(ctx, db, finishedSession("ada", "Science", 10, 7)); err != nil {
		t.Fatalf("RecordRound: %v", err)
	}
	if err := RecordRound(ctx, db, finishedSession("ada", "History", 5, 5)); err != nil {
		t.Fatalf("RecordRound: %v", err)
	}
	if err := RecordRound(ctx, db, finishedSession("bea", "Science", 10, 10)); err != nil {
		t.Fatalf("RecordRound: %v", err)
	}

	st, err := LoadStats(ctx, db, "ada")
	if err != nil {
		t.Fatalf("LoadStats: %v", err)
	}
	if st.Rounds != 2 || st.Questions != 15 || st.Correct != 12 {
		t.Fatalf("unexpected totals: %+v", st)
	}
	if st.BestPercent != 100 || st.PerfectRounds != 1 || st.DistinctTopics != 2 {
		t.Fatalf("unexpected derived stats: %+v", st)
	}
}

func TestRecordRoundRejectsUnfinished(t *testing.T) {
	root := t.TempDir()
	db, err := OpenHistory(root)
	if err != nil {
		t.Fatalf("OpenHistory: %v", err)
	}
	defer func() { _ = db.Close() }()

	s := quiz.NewSession("ada", "Science", quiz.Medium, nil)
	if err := RecordRound(context.Background(), db, s); err == nil {
		t.Fatal("unfinished session accepted")
	}
}

func TestRecentRoundsOrder(t *testing.T) {
	root := t.TempDir()
	db, err := OpenHistory(root)
	if err != nil {
		t.Fatalf("OpenHistory: %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	for _, d := range []string{"Science", "History", "Music"} {
		if err := RecordRound(ctx, db, finishedSession("ada", d, 3, 2)); err != nil {
			t.Fatalf("RecordRound: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}
	rounds, err := RecentRounds(ctx, db, "ada", 2)
	if err != nil {
		t.Fatalf("RecentRounds: %v", err)
	}
	if len(rounds) != 2 {
		t.Fatalf("expected 2 rounds, got %d", len(rounds))
	}
	if rounds[0].Domain != "Music" {
		t.Fatalf("expected most recent first, got %+v", rounds)
	}
}

func TestOpenHistoryReopen(t *testing.T) {
	root := t.TempDir()
	db, err := OpenHistory(root)
	if err != nil {
		t.Fatalf("OpenHistory: %v", err)
	}
	if err := RecordRound(context.Background(), db, finishedSession("ada", "Science", 2, 1)); err != nil {
		t.Fatalf("RecordRound: %v", err)
	}
	_ = db.Close()

	db2, err := OpenHistory(root)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = db2.Close() }()
	st, err := LoadStats(context.Background(), db2, "ada")
	if err != nil || st.Rounds != 1 {
		t.Fatalf("data lost across reopen: %+v err=%v", st, err)
	}
}

func TestEvaluateAchievements(t *testing.T) {
	got := EvaluateAchievements(Stats{})
	if len(got) != 0 {
		t.Fatalf("empty stats should earn nothing, got %v", got)
	}
	got = EvaluateAchievements(Stats{Rounds: 12, Questions: 120, PerfectRounds: 3, DistinctTopics: 6})
	want := map[string]bool{
		AchFirstRound: true, AchTenRounds: true, AchPerfect: true,
		AchSharpshoot: true, AchCentury: true, AchExplorer: true,
	}
	if len(got) != len(want) {
		t.Fatalf("expected all achievements, got %v", got)
	}
	for _, id := range got {
		if !want[id] {
			t.Fatalf("unexpected achievement %q", id)
		}
		if AchievementTitle(id) == id {
			t.Fatalf("missing title for %q", id)
		}
	}
}
