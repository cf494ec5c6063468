/*
 * Copyright (c) 2026 by the aiquiz authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package quiz defines the core quiz data model: questions, rounds and
// scoring. Everything serializes to JSON so rounds can be persisted into
// profile history.
package quiz

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Difficulty of generated questions.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// ParseDifficulty maps a user-supplied string to a Difficulty, defaulting to
// Medium for anything unrecognized.
func ParseDifficulty(s string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy
	case "hard":
		return Hard
	default:
		return Medium
	}
}

// Domains is the catalog of knowledge domains offered to the user.
var Domains = []string{
	"General Knowledge",
	"Science",
	"Mathematics",
	"History",
	"Geography",
	"Literature",
	"Art & Culture",
	"Music",
	"Movies & TV",
	"Sports",
	"Technology",
	"Computer Science",
	"Physics",
	"Chemistry",
	"Biology",
	"Astronomy",
	"Economics",
	"Politics",
	"Philosophy",
	"Psychology",
	"Mythology",
	"Food & Drink",
	"Nature & Animals",
	"World Languages",
}

// IsKnownDomain reports whether name matches a catalog entry (case-insensitive).
func IsKnownDomain(name string) bool {
	for _, d := range Domains {
		if strings.EqualFold(d, name) {
			return true
		}
	}
	return false
}

// Question is a single multiple-choice question.
type Question struct {
	Domain      string     `json:"domain"`
	Difficulty  Difficulty `json:"difficulty"`
	Prompt      string     `json:"prompt"`
	Choices     []string   `json:"choices"`
	Answer      int        `json:"answer"` // index into Choices
	Explanation string     `json:"explanation,omitempty"`
}

// Validate checks structural soundness of a question.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return errors.New("empty prompt")
	}
	if len(q.Choices) < 2 {
		return fmt.Errorf("need at least 2 choices, got %d", len(q.Choices))
	}
	if q.Answer < 0 || q.Answer >= len(q.Choices) {
		return fmt.Errorf("answer index %d out of range [0,%d)", q.Answer, len(q.Choices))
	}
	for i, c := range q.Choices {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("choice %d is empty", i)
		}
	}
	return nil
}

// Session is one quiz round for a profile.
type Session struct {
	Profile    string     `json:"profile"`
	Domain     string     `json:"domain"`
	Difficulty Difficulty `json:"difficulty"`
	Questions  []Question `json:"questions"`
	Answers    []int      `json:"answers"` // -1 = unanswered
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt time.Time  `json:"finishedAt,omitempty"`
}

// NewSession starts a round over the given questions.
func NewSession(profile, domain string, diff Difficulty, qs []Question) *Session {
	answers := make([]int, len(qs))
	for i := range answers {
		answers[i] = -1
	}
	return &Session{
		Profile:    profile,
		Domain:     domain,
		Difficulty: diff,
		Questions:  qs,
		Answers:    answers,
		StartedAt:  time.Now(),
	}
}

// Answer records the choice for question i and reports whether it was correct.
func (s *Session) Answer(i, choice int) (bool, error) {
	if i < 0 || i >= len(s.Questions) {
		return false, fmt.Errorf("question index %d out of range", i)
	}
	if choice < 0 || choice >= len(s.Questions[i].Choices) {
		return false, fmt.Errorf("choice %d out of range for question %d", choice, i)
	}
	s.Answers[i] = choice
	return choice == s.Questions[i].Answer, nil
}

// Correct returns the number of correctly answered questions.
func (s *Session) Correct() int {
	n := 0
	for i, q := range s.Questions {
		if i < len(s.Answers) && s.Answers[i] == q.Answer {
			n++
		}
	}
	return n
}

// Answered returns how many questions have an answer recorded.
func (s *Session) Answered() int {
	n := 0
	for _, a := range s.Answers {
		if a >= 0 {
			n++
		}
	}
	return n
}

// ScorePercent returns the score as a 0..100 percentage.
func (s *Session) ScorePercent() int {
	if len(s.Questions) == 0 {
		return 0
	}
	return s.Correct() * 100 / len(s.Questions)
}

// Finish stamps the session as complete.
func (s *Session) Finish() {
	if s.FinishedAt.IsZero() {
		s.FinishedAt = time.Now()
	}
}

// Duration returns the wall time of the round, zero while in progress.
func (s *Session) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
