package webhook

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestSendEmptyURL(t *testing.T) {
	c := New(time.Second)
	status, err := c.Send(context.Background(), "", &Embed{Title: "x"})
	if err != nil || status != 0 {
		t.Errorf("Send with empty url = (%d, %v), want (0, nil)", status, err)
	}
}

func TestSendFillsDefaults(t *testing.T) {
	var got payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("invalid body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(time.Second)
	status, err := c.Send(context.Background(), srv.URL, &Embed{Title: "hello", Color: 0xFF0000})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if status != http.StatusNoContent {
		t.Errorf("status = %d, want %d", status, http.StatusNoContent)
	}
	if len(got.Embeds) != 1 {
		t.Fatalf("got %d embeds, want 1", len(got.Embeds))
	}
	if got.Embeds[0].Footer == nil || !strings.Contains(got.Embeds[0].Footer.Text, "PancyMod") {
		t.Errorf("footer not filled: %+v", got.Embeds[0].Footer)
	}
	if got.Embeds[0].Timestamp == "" {
		t.Error("timestamp not filled")
	}
}

func TestSendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	status, err := New(time.Second).Send(context.Background(), srv.URL, &Embed{Title: "x"})
	if err == nil {
		t.Error("expected error for 429 response")
	}
	if status != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", status)
	}
}
