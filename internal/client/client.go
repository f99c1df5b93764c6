package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/scoremvp/scoremvp/internal/stats"
	"github.com/scoremvp/scoremvp/internal/store"
)

// APIError is a non-2xx answer from the API
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("scoremvp api: %d %s", e.Status, e.Message)
}

// Client talks to the ScoreMVP REST API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client for baseURL. A nil httpClient gets a 15s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// WithToken returns a copy of c sending token as a bearer credential
func (c *Client) WithToken(token string) *Client {
	cpy := *c
	cpy.token = token
	return &cpy
}

// RecordStats posts one stat line for gameID. A non-empty key makes retries safe.
func (c *Client) RecordStats(ctx context.Context, gameID int, entry stats.Entry, key string) (*store.StatEntry, error) {
	body, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("encoding stat entry: %w", err)
	}

	headers := map[string]string{}
	if key != "" {
		headers["Idempotency-Key"] = key
	}

	var record store.StatEntry
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/jogos/%d/stats", gameID), nil, body, headers, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// GameSummary fetches the per-quarter summary of gameID
func (c *Client) GameSummary(ctx context.Context, gameID int) (*stats.Summary, error) {
	var summary stats.Summary
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/jogos/%d/stats", gameID), nil, nil, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// PlayerLines fetches the stat lines of gameID; zero filter fields are omitted
func (c *Client) PlayerLines(ctx context.Context, gameID int, filter store.StatFilter) ([]*store.StatEntryWithPlayer, error) {
	q := url.Values{}
	if filter.Quarter > 0 {
		q.Set("quarto", strconv.Itoa(filter.Quarter))
	}
	if filter.PlayerID > 0 {
		q.Set("jogadora_id", strconv.Itoa(filter.PlayerID))
	}

	var lines []*store.StatEntryWithPlayer
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/jogos/%d/stats/jogadoras", gameID), q, nil, nil, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Players fetches the roster
func (c *Client) Players(ctx context.Context) ([]*store.Player, error) {
	var players []*store.Player
	if err := c.do(ctx, http.MethodGet, "/players", nil, nil, nil, &players); err != nil {
		return nil, err
	}
	return players, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte, headers map[string]string, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	log.WithFields(log.Fields{
		"method": method,
		"path":   path,
		"status": resp.StatusCode,
	}).Debug("scoremvp api call")

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
