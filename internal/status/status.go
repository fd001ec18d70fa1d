// Package status reads the public server-status API for the configured
// connect address. Every failure mode renders as offline.
package status

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the public status API queried per connect address.
const DefaultBaseURL = "https://api.mcstatus.io/v2/status/java/"

// Status is the server's reachability and player counts.
type Status struct {
	Online        bool
	PlayersOnline int
	PlayersMax    int
}

// Client fetches server status.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, client *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: baseURL, client: client}
}

type apiResponse struct {
	Online  bool `json:"online"`
	Players struct {
		Online int `json:"online"`
		Max    int `json:"max"`
	} `json:"players"`
}

// Fetch returns the status for address. An empty address, transport failure,
// non-2xx response, or undecodable body all report offline; Fetch never
// returns an error.
func (c *Client) Fetch(ctx context.Context, address string) Status {
	if address == "" {
		return Status{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+url.PathEscape(address), nil)
	if err != nil {
		return Status{}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		slog.Debug("Server status fetch failed", "address", address, "error", err)
		return Status{}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Debug("Server status fetch failed", "address", address, "status", resp.StatusCode)
		return Status{}
	}

	var data apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		slog.Debug("Server status response undecodable", "address", address, "error", err)
		return Status{}
	}
	if !data.Online {
		return Status{}
	}
	return Status{Online: true, PlayersOnline: data.Players.Online, PlayersMax: data.Players.Max}
}
