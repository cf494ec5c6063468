/*
 * Copyright (c) 2026 by the aiquiz authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Entry is a single leaderboard row.
type Entry struct {
	Player     string    `json:"player"`
	Domain     string    `json:"domain"`
	Difficulty string    `json:"difficulty"`
	Questions  int       `json:"questions"`
	Correct    int       `json:"correct"`
	Percent    int       `json:"percent,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

func (e Entry) validate() error {
	if strings.TrimSpace(e.Player) == "" || strings.TrimSpace(e.Domain) == "" {
		return errors.New("player and domain are required")
	}
	if e.Questions <= 0 || e.Correct < 0 || e.Correct > e.Questions {
		return fmt.Errorf("bad score %d/%d", e.Correct, e.Questions)
	}
	return nil
}

// Client is a minimal HTTP client for the leaderboard API.
type Client struct {
	BaseURL string
	Token   string // bearer token for writes
	client  *http.Client
}

// NewClient creates a leaderboard client. baseURL may include a trailing
// slash; it will be normalized.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server %s %s: %s", method, u.Path, resp.Status)
	}
	if dest == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	return dec.Decode(dest)
}

// Leaderboard fetches up to limit entries, optionally filtered by domain.
func (c *Client) Leaderboard(ctx context.Context, domain string, limit int) ([]Entry, error) {
	q := url.Values{}
	if domain != "" {
		q.Set("domain", domain)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/leaderboard"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}
	var list []Entry
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SubmitScore uploads a finished round.
func (c *Client) SubmitScore(ctx context.Context, e Entry) error {
	if err := e.validate(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/api/scores", e, nil)
}
