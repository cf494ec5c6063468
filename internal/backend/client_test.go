package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLeaderboardRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/leaderboard" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("domain") != "Science" || r.URL.Query().Get("limit") != "5" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode([]Entry{
			{Player: "ada", Domain: "Science", Difficulty: "medium", Questions: 10, Correct: 9, Percent: 90},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "")
	list, err := c.Leaderboard(context.Background(), "Science", 5)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(list) != 1 || list[0].Player != "ada" || list[0].Percent != 90 {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestSubmitScoreSendsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("missing bearer token")
		}
		var e Entry
		_ = json.NewDecoder(r.Body).Decode(&e)
		if e.Player != "ada" || e.Correct != 8 {
			t.Errorf("unexpected entry: %+v", e)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	err := c.SubmitScore(context.Background(), Entry{
		Player: "ada", Domain: "Science", Difficulty: "hard", Questions: 10, Correct: 8,
	})
	if err != nil {
		t.Fatalf("SubmitScore: %v", err)
	}
}

func TestSubmitScoreValidates(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "")
	if err := c.SubmitScore(context.Background(), Entry{Player: "", Domain: "Science", Questions: 10}); err == nil {
		t.Fatal("empty player accepted")
	}
	if err := c.SubmitScore(context.Background(), Entry{Player: "ada", Domain: "d", Questions: 5, Correct: 9}); err == nil {
		t.Fatal("correct > questions accepted")
	}
}

func TestServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()
	c := NewClient(srv.URL, "")
	if _, err := c.Leaderboard(context.Background(), "", 0); err == nil {
		t.Fatal("expected error from 500 response")
	}
}
