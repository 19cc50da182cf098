// Package client talks to the dice server over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rocketscienceinc/dice-backend/internal/entity"
	"github.com/rocketscienceinc/dice-backend/transport/rest"
)

const DefaultTimeout = 5 * time.Second

var (
	ErrNotFound       = errors.New("not found")
	ErrUnexpectedHTTP = errors.New("unexpected response status")
)

type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// New - client for the server at baseURL. A zero timeout means DefaultTimeout.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host are required", baseURL)
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: parsed,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (that *Client) StartGame(ctx context.Context) (string, error) {
	var resp rest.StartResponse
	if err := that.do(ctx, http.MethodPost, "api/games/start", nil, &resp); err != nil {
		return "", err
	}

	return resp.GameID, nil
}

func (that *Client) ResetGame(ctx context.Context) (*rest.ResetResponse, error) {
	var resp rest.ResetResponse
	if err := that.do(ctx, http.MethodPost, "api/games/reset", nil, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (that *Client) Roll(ctx context.Context, gameID string) (*entity.RollResult, error) {
	var resp entity.RollResult
	if err := that.do(ctx, http.MethodPost, "api/games/roll", rest.RollRequest{GameID: gameID}, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (that *Client) GetStats(ctx context.Context) (*entity.Stats, error) {
	var resp entity.Stats
	if err := that.do(ctx, http.MethodGet, "api/games/stats", nil, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (that *Client) GetHistory(ctx context.Context) ([]entity.HistoryEntry, error) {
	var resp []entity.HistoryEntry
	if err := that.do(ctx, http.MethodGet, "api/games/history", nil, &resp); err != nil {
		return nil, err
	}

	return resp, nil
}

func (that *Client) do(ctx context.Context, method, path string, body, out any) error {
	endpoint := that.baseURL.JoinPath(path)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := that.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(method, path, resp)
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}

	return nil
}

func statusError(method, path string, resp *http.Response) error {
	var errResp rest.ErrorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
	if json.Unmarshal(raw, &errResp) != nil || errResp.Error == "" {
		errResp.Error = strings.TrimSpace(string(raw))
	}

	kind := ErrUnexpectedHTTP
	if resp.StatusCode == http.StatusNotFound {
		kind = ErrNotFound
	}

	return fmt.Errorf("%s %s: %w: %d %s", method, path, kind, resp.StatusCode, errResp.Error)
}
