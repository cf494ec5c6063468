package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCreateLoadRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())
	p, err := s.Create("ada")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := s.Load("ada")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Name != p.Name || got.CreatedAt.IsZero() {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestCreateRejectsBadNames(t *testing.T) {
	s := NewStore(t.TempDir())
	for _, name := range []string{"", "../evil", "a/b", strings.Repeat("x", 40), ".hidden"} {
		if _, err := s.Create(name); err == nil {
			t.Fatalf("name %q accepted", name)
		}
	}
}

func TestCreateDuplicate(t *testing.T) {
	s := NewStore(t.TempDir())
	if _, err := s.Create("ada"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.Create("ada"); err == nil {
		t.Fatal("duplicate create accepted")
	}
}

func TestSaveKeepsBackupAndRecovers(t *testing.T) {
	s := NewStore(t.TempDir())
	p, err := s.Create("ada")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	p.GrantAchievement(AchFirstRound)
	if err := s.Save(p); err != nil {
		t.Fatalf("Save: %v", err)
	}

	bdir := filepath.Join(s.Root, "ada", BackupsDirName)
	entries, err := os.ReadDir(bdir)
	if err != nil || len(entries) == 0 {
		t.Fatalf("expected a backup after second save, err=%v entries=%d", err, len(entries))
	}

	// Corrupt the manifest; Load must fall back to the latest backup.
	mpath := filepath.Join(s.Root, "ada", ManifestFileName)
	if err := os.WriteFile(mpath, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt manifest: %v", err)
	}
	got, err := s.Load("ada")
	if err != nil {
		t.Fatalf("Load after corruption: %v", err)
	}
	if got.Name != "ada" {
		t.Fatalf("recovered profile mismatch: %+v", got)
	}
}

func TestListSkipsInternalDirs(t *testing.T) {
	s := NewStore(t.TempDir())
	for _, n := range []string{"bea", "ada"} {
		if _, err := s.Create(n); err != nil {
			t.Fatalf("Create(%s): %v", n, err)
		}
	}
	if err := os.MkdirAll(filepath.Join(s.Root, HistoryDirName), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(s.Root, "stray"), 0o755); err != nil {
		t.Fatal(err) // dir without manifest must be ignored
	}
	names, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 2 || names[0] != "ada" || names[1] != "bea" {
		t.Fatalf("unexpected list: %v", names)
	}
}

func TestListMissingRoot(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nope"))
	names, err := s.List()
	if err != nil || names != nil {
		t.Fatalf("missing root should be empty: %v %v", names, err)
	}
}

func TestGrantAchievementIdempotent(t *testing.T) {
	p := &Profile{Name: "ada"}
	if !p.GrantAchievement(AchPerfect) {
		t.Fatal("first grant should report true")
	}
	if p.GrantAchievement(AchPerfect) {
		t.Fatal("second grant should report false")
	}
	if len(p.Achievements) != 1 {
		t.Fatalf("achievement duplicated: %v", p.Achievements)
	}
}
