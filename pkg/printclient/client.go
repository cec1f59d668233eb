package printclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	apiKeyHeader    = "X-API-Key"
	maxBodyBytes    = 1 << 20
	maxErrorSnippet = 512
)

// LeaderboardRow is one ranked participant as served by the board.
type LeaderboardRow struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Cost  int    `json:"cost"`
}

// PrintRequest is the body of a print dispatch.
type PrintRequest struct {
	Message string `json:"message"`
}

// LeaderboardEntry is the body of a leaderboard insert.
type LeaderboardEntry struct {
	Name string `json:"name"`
}

type identityResponse struct {
	IP string `json:"ip"`
}

type imageResponse struct {
	ImageURL string `json:"imageUrl"`
}

// Client performs the individual remote calls against the board and the
// identity lookup.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient returns a Client for cfg. cfg is copied.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.PrintMessage == "" {
		cfg.PrintMessage = DefaultPrintMessage
	}
	return &Client{cfg: cfg, http: httpClient}
}

// Config returns the configuration the client was built with.
func (c *Client) Config() Config { return c.cfg }

// ResolveIdentity looks up the caller's public address.
func (c *Client) ResolveIdentity(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodGet, OpIdentity, nil, false)
	if err != nil {
		return "", err
	}

	var resp identityResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedIdentity, err)
	}
	ip := strings.TrimSpace(resp.IP)
	if ip == "" {
		return "", fmt.Errorf("%w: missing ip", ErrMalformedIdentity)
	}
	return ip, nil
}

// SendPrint asks the board to print message.
func (c *Client) SendPrint(ctx context.Context, message string) error {
	_, err := c.do(ctx, http.MethodPost, OpSendPrint, PrintRequest{Message: message}, true)
	return err
}

// InsertLeaderboardEntry records a leaderboard entry for name.
func (c *Client) InsertLeaderboardEntry(ctx context.Context, name string) error {
	_, err := c.do(ctx, http.MethodPost, OpInsertLeaderboard, LeaderboardEntry{Name: name}, true)
	return err
}

// ReadLeaderboard fetches the current leaderboard snapshot.
func (c *Client) ReadLeaderboard(ctx context.Context) ([]LeaderboardRow, error) {
	body, err := c.do(ctx, http.MethodGet, OpLeaderboardRead, nil, true)
	if err != nil {
		return nil, err
	}
	rows := []LeaderboardRow{}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode leaderboard: %w", err)
	}
	return rows, nil
}

// FetchImage returns the URL of the current preview image.
func (c *Client) FetchImage(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodGet, OpGetImage, nil, false)
	if err != nil {
		return "", err
	}
	var resp imageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode image response: %w", err)
	}
	return resp.ImageURL, nil
}

// do sends one request and returns the response body of a 2xx answer.
// Other statuses come back as *StatusError.
func (c *Client) do(ctx context.Context, method string, op Operation, payload any, keyed bool) ([]byte, error) {
	url, err := c.cfg.Endpoints.Resolve(op)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if keyed {
		req.Header.Set(apiKeyHeader, c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Code:   resp.StatusCode,
			Status: resp.Status,
			Body:   snippet(body),
		}
	}
	return body, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorSnippet {
		s = s[:maxErrorSnippet]
	}
	return s
}

// IsStatus reports whether err carries a *StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
