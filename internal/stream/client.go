// Package stream implements the upstream pricing feed client (§4.7),
// modeled on the OANDA v3 REST/streaming API.
package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/declanomara/tidepool/internal/ports"
)

const (
	livePracticeBaseURL = "https://api-fxpractice.oanda.com"
	liveBaseURL         = "https://api-fxtrade.oanda.com"
	streamBaseURL       = "https://stream-fxpractice.oanda.com"
	liveStreamBaseURL   = "https://stream-fxtrade.oanda.com"
)

// Client implements ports.StreamClient against the upstream REST and
// streaming endpoints.
type Client struct {
	token      string
	baseURL    string
	streamURL  string
	httpClient *http.Client
}

// New creates a client for either the practice or live environment.
func New(token string, live bool) *Client {
	base, stream := livePracticeBaseURL, streamBaseURL
	if live {
		base, stream = liveBaseURL, liveStreamBaseURL
	}
	return &Client{
		token:      token,
		baseURL:    base,
		streamURL:  stream,
		httpClient: &http.Client{},
	}
}

type errorResponse struct {
	ErrorMessage string `json:"errorMessage"`
}

func (c *Client) authedRequest(ctx context.Context, baseURL, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	return req, nil
}

type accountsResponse struct {
	Accounts []struct {
		ID    string `json:"id"`
		Alias string `json:"alias"`
	} `json:"accounts"`
	ErrorMessage string `json:"errorMessage"`
}

// GetAccount resolves an account by its configured alias.
func (c *Client) GetAccount(ctx context.Context, alias string) (ports.Account, error) {
	req, err := c.authedRequest(ctx, c.baseURL, "/v3/accounts")
	if err != nil {
		return ports.Account{}, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.Account{}, fmt.Errorf("stream: list accounts: %w", err)
	}
	defer resp.Body.Close()

	var body accountsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ports.Account{}, fmt.Errorf("stream: decode accounts: %w", err)
	}
	if body.ErrorMessage != "" {
		return ports.Account{}, fmt.Errorf("stream: accounts: %s", body.ErrorMessage)
	}
	for _, a := range body.Accounts {
		if a.Alias == alias {
			return ports.Account{ID: a.ID, Alias: a.Alias}, nil
		}
	}
	return ports.Account{}, fmt.Errorf("stream: no account found with alias %q", alias)
}

type instrumentsResponse struct {
	Instruments []struct {
		Name        string `json:"name"`
		DisplayName string `json:"displayName"`
	} `json:"instruments"`
	ErrorMessage string `json:"errorMessage"`
}

// ListInstruments auto-discovers tradeable instruments for an account
// (used when config's useInstruments is false).
func (c *Client) ListInstruments(ctx context.Context, accountID string) ([]ports.Instrument, error) {
	req, err := c.authedRequest(ctx, c.baseURL, fmt.Sprintf("/v3/accounts/%s/instruments", accountID))
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stream: list instruments: %w", err)
	}
	defer resp.Body.Close()

	var body instrumentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("stream: decode instruments: %w", err)
	}
	if body.ErrorMessage != "" {
		return nil, fmt.Errorf("stream: instruments: %s", body.ErrorMessage)
	}

	out := make([]ports.Instrument, 0, len(body.Instruments))
	for _, i := range body.Instruments {
		out = append(out, ports.Instrument{Name: i.Name, DisplayName: i.DisplayName})
	}
	return out, nil
}

// StreamPrices opens a long-lived streaming connection and invokes onLine
// for each non-empty line as it arrives, returning when ctx is canceled or
// the upstream connection ends.
func (c *Client) StreamPrices(ctx context.Context, accountID string, instruments []string, onLine func([]byte)) error {
	path := fmt.Sprintf("/v3/accounts/%s/pricing/stream?instruments=%s", accountID, joinCSV(instruments))
	req, err := c.authedRequest(ctx, c.streamURL, path)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("stream: open price stream: %w", err)
	}
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		onLine(cp)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stream: read price stream: %w", err)
	}
	return nil
}

func joinCSV(items []string) string {
	out := ""
	for i, s := range items {
		if i > 0 {
			out += ","
		}
		out += s
	}
	return out
}

var _ ports.StreamClient = (*Client)(nil)
