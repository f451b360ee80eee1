package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newStubGemini(t *testing.T, status int, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.WriteHeader(status)
		if status != http.StatusOK {
			return
		}
		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func newTestParser(baseURL string) *Parser {
	return NewParser("test-key", "gemini-1.5-flash", baseURL, 2*time.Second)
}

func TestParseWellFormed(t *testing.T) {
	srv := newStubGemini(t, http.StatusOK,
		`{"title": "Buy milk", "priority": "HIGH", "due_date": "2026-09-01T18:00:00"}`)
	defer srv.Close()

	got := newTestParser(srv.URL).Parse(context.Background(), "buy milk ASAP before 6pm tomorrow")
	if got.Title != "Buy milk" {
		t.Fatalf("title: %q", got.Title)
	}
	if got.Priority != PriorityHigh {
		t.Fatalf("priority: %q", got.Priority)
	}
	if got.DueDate == nil || got.DueDate.Hour() != 18 {
		t.Fatalf("due date: %v", got.DueDate)
	}
}

func TestParseStripsCodeFences(t *testing.T) {
	srv := newStubGemini(t, http.StatusOK,
		"```json\n{\"title\": \"Walk dog\", \"priority\": \"low\", \"due_date\": null}\n```")
	defer srv.Close()

	got := newTestParser(srv.URL).Parse(context.Background(), "walk the dog whenever")
	if got.Title != "Walk dog" || got.Priority != PriorityLow || got.DueDate != nil {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestParseFallback(t *testing.T) {
	cases := []struct {
		name   string
		status int
		text   string
	}{
		{"upstream error", http.StatusInternalServerError, ""},
		{"non-JSON", http.StatusOK, "sorry, I can't do that"},
		{"missing title", http.StatusOK, `{"priority": "high", "due_date": null}`},
		{"bad priority", http.StatusOK, `{"title": "x", "priority": "urgent", "due_date": null}`},
		{"bad due date", http.StatusOK, `{"title": "x", "priority": "high", "due_date": "next tuesday"}`},
		{"wrong type", http.StatusOK, `{"title": 42, "priority": "high", "due_date": null}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newStubGemini(t, tc.status, tc.text)
			defer srv.Close()

			const input = "original free text"
			got := newTestParser(srv.URL).Parse(context.Background(), input)
			if got.Title != input || got.Priority != PriorityMedium || got.DueDate != nil {
				t.Fatalf("expected fallback, got %+v", got)
			}
		})
	}
}

func TestParseUnreachableUpstream(t *testing.T) {
	p := newTestParser("http://127.0.0.1:1")
	got := p.Parse(context.Background(), "some text")
	if got.Title != "some text" || got.Priority != PriorityMedium || got.DueDate != nil {
		t.Fatalf("expected fallback, got %+v", got)
	}
}

func TestParseNoAPIKey(t *testing.T) {
	p := NewParser("", "gemini-1.5-flash", "http://example.invalid", time.Second)
	got := p.Parse(context.Background(), "text")
	if got.Title != "text" || got.Priority != PriorityMedium {
		t.Fatalf("expected fallback without key, got %+v", got)
	}
}

func TestSuggestSubTasks(t *testing.T) {
	srv := newStubGemini(t, http.StatusOK, `["Book venue", "Call caterer", " ", "Send invites"]`)
	defer srv.Close()

	got := newTestParser(srv.URL).SuggestSubTasks(context.Background(), "plan party")
	want := []string{"Book venue", "Call caterer", "Send invites"}
	if len(got) != len(want) {
		t.Fatalf("unexpected suggestions: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("suggestion %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestSuggestSubTasksFallback(t *testing.T) {
	srv := newStubGemini(t, http.StatusOK, "not a list")
	defer srv.Close()

	if got := newTestParser(srv.URL).SuggestSubTasks(context.Background(), "plan party"); len(got) != 0 {
		t.Fatalf("expected empty suggestions, got %v", got)
	}
}
