package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStream_AssemblesReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, part := range []string{"Feed ", "twice ", "a day"} {
			_, _ = w.Write([]byte(chunkLine(part)))
			flusher.Flush()
		}
		_, _ = w.Write([]byte("data: [DONE]\n"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")

	var updates []string
	reply, err := c.Stream(context.Background(), []ChatMessage{{Role: "user", Content: "how often?"}}, func(partial string) {
		updates = append(updates, partial)
	})
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if reply != "Feed twice a day" {
		t.Fatalf("reply = %q", reply)
	}
	if len(updates) == 0 || updates[len(updates)-1] != reply {
		t.Fatalf("updates did not converge on the reply: %v", updates)
	}
}

func TestStream_ErrorBodySurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": "You have reached the limit of 20 messages per hour. Please try again later."}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	_, err := c.Stream(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "You have reached the limit of 20 messages per hour. Please try again later." {
		t.Fatalf("error text = %q", err.Error())
	}
}

func TestStream_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Stream(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "assistant request failed: status 502" {
		t.Fatalf("error text = %q", err.Error())
	}
}

func TestApplyDelta(t *testing.T) {
	msgs := []ChatMessage{{Role: "user", Content: "hi"}}

	out := ApplyDelta(msgs, "hel")
	if len(out) != 2 || out[1].Role != "assistant" || out[1].Content != "hel" {
		t.Fatalf("append failed: %+v", out)
	}

	out = ApplyDelta(out, "hello")
	if len(out) != 2 || out[1].Content != "hello" {
		t.Fatalf("replace failed: %+v", out)
	}

	// The input slices stay untouched.
	if msgs[0].Content != "hi" || len(msgs) != 1 {
		t.Fatalf("input mutated: %+v", msgs)
	}
}
