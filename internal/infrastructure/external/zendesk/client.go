package zendesk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/johnquangdev/erp-issue-hub/pkg/config"
)

// ErrNotFound is returned when Zendesk answers 404
var ErrNotFound = errors.New("zendesk resource not found")

// APIError carries a non-success Zendesk response
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("zendesk returned status %d: %s", e.StatusCode, e.Body)
}

// Client is a Zendesk Support REST client authenticated with bearer tokens
type Client struct {
	baseURL    string
	http       *http.Client
	maxElapsed time.Duration
}

// NewClient creates a Zendesk client. OAuth client credentials are preferred
// when configured; otherwise the static API token is sent as a bearer token.
func NewClient(ctx context.Context, cfg config.ZendeskConfig) *Client {
	baseURL := strings.TrimRight(cfg.APIBaseURL(), "/")

	var hc *http.Client
	if cfg.OAuthClientID != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
			TokenURL:     baseURL + "/oauth/tokens",
			Scopes:       []string{"read", "write"},
			AuthStyle:    oauth2.AuthStyleInParams,
		}
		hc = cc.Client(ctx)
	} else {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIToken, TokenType: "Bearer"})
		hc = oauth2.NewClient(ctx, ts)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	hc.Timeout = timeout

	return &Client{
		baseURL:    baseURL,
		http:       hc,
		maxElapsed: 20 * time.Second,
	}
}

// SearchTickets runs a Zendesk search restricted to tickets. page starts at 1.
func (c *Client) SearchTickets(ctx context.Context, query string, page int) (*SearchResult, error) {
	if !strings.Contains(query, "type:ticket") {
		query = strings.TrimSpace("type:ticket " + query)
	}
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", fmt.Sprint(page))
	params.Set("sort_by", "updated_at")
	params.Set("sort_order", "desc")

	var resp searchResponse
	if err := c.get(ctx, "/api/v2/search.json?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	result := &SearchResult{Count: resp.Count}
	for _, r := range resp.Results {
		if r.ResultType != "" && r.ResultType != "ticket" {
			continue
		}
		result.Tickets = append(result.Tickets, r.Ticket)
	}
	if resp.NextPage != nil {
		result.NextPage = *resp.NextPage
	}
	return result, nil
}

// GetTicket fetches a single ticket
func (c *Client) GetTicket(ctx context.Context, id int64) (*Ticket, error) {
	var resp ticketResponse
	if err := c.get(ctx, fmt.Sprintf("/api/v2/tickets/%d.json", id), &resp); err != nil {
		return nil, err
	}
	return &resp.Ticket, nil
}

// GetUser fetches a user by id
func (c *Client) GetUser(ctx context.Context, id int64) (*User, error) {
	var resp userResponse
	if err := c.get(ctx, fmt.Sprintf("/api/v2/users/%d.json", id), &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// GetGroup fetches a group by id
func (c *Client) GetGroup(ctx context.Context, id int64) (*Group, error) {
	var resp groupResponse
	if err := c.get(ctx, fmt.Sprintf("/api/v2/groups/%d.json", id), &resp); err != nil {
		return nil, err
	}
	return &resp.Group, nil
}

// get performs a GET and decodes the JSON body, retrying rate limits and 5xx
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	call := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(ErrNotFound)
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		case resp.StatusCode >= 400:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return backoff.Permanent(&APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))})
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode zendesk response: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = c.maxElapsed

	return backoff.Retry(call, backoff.WithContext(bo, ctx))
}
