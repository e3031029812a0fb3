package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPClientChat_Success(t *testing.T) {
	var got chatRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Use HTTPS everywhere.  "}}]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/", "key-1", "model-x", time.Second, nil)
	out, err := c.Chat(context.Background(), []Message{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "ssl?"},
	}, 300)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != "Use HTTPS everywhere." {
		t.Fatalf("expected trimmed content, got %q", out)
	}
	if auth != "Bearer key-1" {
		t.Fatalf("unexpected auth header %q", auth)
	}
	if got.Model != "model-x" || got.MaxTokens != 300 || len(got.Messages) != 2 {
		t.Fatalf("unexpected request body %+v", got)
	}
}

func TestHTTPClientChat_Errors(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "http error", status: http.StatusBadGateway, body: `upstream down`},
		{name: "api error", status: http.StatusOK, body: `{"error":{"message":"quota"}}`},
		{name: "bad json", status: http.StatusOK, body: `not json`},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, wantErr: ErrEmptyResponse},
		{name: "blank content", status: http.StatusOK, body: `{"choices":[{"message":{"content":"   "}}]}`, wantErr: ErrEmptyResponse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := NewHTTPClient(srv.URL, "k", "m", time.Second, nil)
			_, err := c.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}}, 10)
			if err == nil {
				t.Fatalf("expected error")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestNewHTTPClient_Defaults(t *testing.T) {
	c := NewHTTPClient("", "k", "m", 0, nil)
	if c.baseURL != "https://api.openai.com/v1" {
		t.Fatalf("unexpected default base url %q", c.baseURL)
	}
	if c.client.Timeout != 30*time.Second {
		t.Fatalf("unexpected default timeout %v", c.client.Timeout)
	}
	if c.logger == nil {
		t.Fatalf("expected nop logger")
	}
}
