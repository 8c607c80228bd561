package zendesk

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/johnquangdev/erp-issue-hub/pkg/config"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	c := NewClient(context.Background(), config.ZendeskConfig{
		BaseURL:  ts.URL,
		APIToken: "secret-token",
		Timeout:  time.Second,
	})
	c.maxElapsed = 2 * time.Second
	return c
}

func TestSearchTickets(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/search.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret-token" {
			t.Errorf("unexpected authorization %q", got)
		}
		if q := r.URL.Query().Get("query"); q != "type:ticket status<solved" {
			t.Errorf("unexpected query %q", q)
		}
		w.Write([]byte(`{
			"results": [
				{"result_type":"ticket","id":101,"subject":"Login broken","status":"open","priority":"high","type":"incident","requester_id":7,"tags":["erp"]},
				{"result_type":"user","id":7}
			],
			"count": 1,
			"next_page": null
		}`))
	})

	res, err := c.SearchTickets(context.Background(), "status<solved", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Tickets) != 1 {
		t.Fatalf("expected 1 ticket, got %d", len(res.Tickets))
	}
	tk := res.Tickets[0]
	if tk.ID != 101 || tk.Priority != "high" || tk.RequesterID != 7 || len(tk.Tags) != 1 {
		t.Fatalf("unexpected ticket %+v", tk)
	}
	if res.NextPage != "" {
		t.Fatalf("expected no next page, got %q", res.NextPage)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	if _, err := c.GetUser(context.Background(), 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetGroup_RetriesRateLimit(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"group":{"id":3,"name":"ERP Support"}}`))
	})

	g, err := c.GetGroup(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Name != "ERP Support" || atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected retry then success, got %q after %d calls", g.Name, calls)
	}
}

func TestGetTicket_Unauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Couldn't authenticate you"}`))
	})
	_, err := c.GetTicket(context.Background(), 9)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 APIError, got %v", err)
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	body := []byte(`{"ticket_id":42}`)
	signAt := func(ts string) string {
		mac := hmac.New(sha256.New, []byte("shh"))
		mac.Write([]byte(ts))
		mac.Write(body)
		return base64.StdEncoding.EncodeToString(mac.Sum(nil))
	}
	ts := "2026-01-01T00:00:00Z"
	sig := signAt(ts)
	now := time.Date(2026, 1, 1, 0, 2, 0, 0, time.UTC)

	if !VerifyWebhookSignature("shh", ts, body, sig, now) {
		t.Fatal("expected valid signature")
	}
	if VerifyWebhookSignature("shh", "2026-01-01T00:00:01Z", body, sig, now) {
		t.Fatal("expected timestamp to be part of the signature")
	}
	if VerifyWebhookSignature("", ts, body, sig, now) {
		t.Fatal("expected empty secret to fail")
	}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"within tolerance", now, true},
		{"replayed later", now.Add(time.Hour), false},
		{"far future timestamp", now.Add(-time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifyWebhookSignature("shh", ts, body, sig, tt.now); got != tt.want {
				t.Fatalf("VerifyWebhookSignature() = %v, want %v", got, tt.want)
			}
		})
	}

	if VerifyWebhookSignature("shh", "yesterday", body, signAt("yesterday"), now) {
		t.Fatal("expected unparseable timestamp to fail")
	}
}
