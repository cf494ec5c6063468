/*
 * Copyright (c) 2026 by the aiquiz authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package gemini is a minimal HTTP client for the Gemini generateContent REST
// API. It covers exactly what the quiz application needs: a cheap
// connectivity probe used by the startup checks and question generation.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"aiquiz/internal/quiz"
)

// ErrNoAPIKey is returned when the client is used without a configured key.
var ErrNoAPIKey = errors.New("gemini: no API key configured")

// Options configures a Client.
type Options struct {
	Endpoint string // base URL, e.g. https://generativelanguage.googleapis.com
	Model    string // e.g. gemini-1.5-flash
	APIKey   string
	Timeout  time.Duration
}

// Client talks to the Gemini API. Zero-value is not usable; use NewClient.
type Client struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
}

// NewClient creates a Gemini client. The endpoint may carry a trailing slash;
// it will be normalized.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	model := opts.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &Client{
		endpoint: strings.TrimRight(opts.Endpoint, "/"),
		model:    model,
		apiKey:   opts.APIKey,
		client:   &http.Client{Timeout: timeout},
	}
}

// request/response wire types for generateContent.

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", ErrNoAPIKey
	}
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}
	u := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.endpoint, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", err
	}
	var gr generateResponse
	if err := json.Unmarshal(data, &gr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if gr.Error != nil {
		return "", fmt.Errorf("gemini %s: %s", gr.Error.Status, gr.Error.Message)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("gemini: %s", resp.Status)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini: empty response")
	}
	var sb strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

// TestConnection sends a trivial prompt to verify the key and reachability.
// A nil error means the service answered.
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.generate(ctx, "Reply with the single word OK.")
	return err
}

// GenerateQuestions asks the model for n fresh multiple-choice questions in
// the given domain and difficulty. Questions failing validation are dropped;
// an error is returned only when nothing usable came back.
func (c *Client) GenerateQuestions(ctx context.Context, domain string, diff quiz.Difficulty, n int) ([]quiz.Question, error) {
	if n <= 0 {
		n = 10
	}
	text, err := c.generate(ctx, buildPrompt(domain, diff, n))
	if err != nil {
		return nil, err
	}
	qs, err := parseQuestions(text)
	if err != nil {
		return nil, err
	}
	out := make([]quiz.Question, 0, len(qs))
	for _, q := range qs {
		q.Domain = domain
		q.Difficulty = diff
		if q.Validate() == nil {
			out = append(out, q)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("gemini: no valid questions in response")
	}
	return out, nil
}

func buildPrompt(domain string, diff quiz.Difficulty, n int) string {
	return fmt.Sprintf(`Generate %d multiple-choice quiz questions about %s at %s difficulty.
Respond with a JSON array only, no prose. Each element must have exactly these
fields: "prompt" (string), "choices" (array of 4 strings), "answer" (0-based
index of the correct choice), "explanation" (one short sentence).`, n, domain, diff)
}

// parseQuestions extracts a JSON array of questions from model output,
// tolerating markdown code fences and leading prose.
func parseQuestions(text string) ([]quiz.Question, error) {
	s := strings.TrimSpace(text)
	if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
		s = strings.TrimPrefix(s, "json")
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	}
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end <= start {
		return nil, errors.New("gemini: no JSON array in response")
	}
	var qs []quiz.Question
	if err := json.Unmarshal([]byte(s[start:end+1]), &qs); err != nil {
		return nil, fmt.Errorf("parse questions: %w", err)
	}
	return qs, nil
}
