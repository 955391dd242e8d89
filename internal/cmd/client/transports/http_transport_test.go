package transports

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPTransportSubmitWait(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/tasks/submit" {
			t.Fatalf("path %s", r.URL.Path)
		}
		if r.URL.Query().Get("wait") != "true" {
			t.Fatalf("missing wait query")
		}
		var req struct {
			Identity string `json:"identity"`
			Topic    string `json:"topic"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"identity": req.Identity,
			"topic":    req.Topic,
			"payload":  []byte("out"),
		})
	}))
	defer srv.Close()

	tr := NewHTTPTransport(srv.URL)
	res, err := tr.SubmitWait(context.Background(), "a", "echo", []byte("in"))
	if err != nil {
		t.Fatalf("submit wait: %v", err)
	}
	if res.Identity != "a" || res.Topic != "echo" || string(res.Payload) != "out" {
		t.Fatalf("result %+v", res)
	}
}

func TestHTTPTransportErrorDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "task removed"})
	}))
	defer srv.Close()

	tr := NewHTTPTransport(srv.URL)
	_, err := tr.SubmitWait(context.Background(), "a", "echo", nil)
	if err == nil || err.Error() != "server: task removed" {
		t.Fatalf("error %v", err)
	}
}

func TestHTTPTransportWatchParsesSSE(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		// preamble, then two completions
		_, _ = w.Write([]byte("data: {\"subscription\":\"abc\"}\n\n"))
		_, _ = w.Write([]byte("data: {\"identity\":\"x\",\"topic\":\"echo\",\"atMs\":1}\n\n"))
		_, _ = w.Write([]byte("data: {\"identity\":\"y\",\"topic\":\"echo\",\"atMs\":2}\n\n"))
	}))
	defer srv.Close()

	tr := NewHTTPTransport(srv.URL)
	var got []string
	err := tr.Watch(context.Background(), WatchRequest{Limit: 2}, func(ev WatchEvent) error {
		got = append(got, ev.Identity)
		return nil
	})
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	if len(got) != 2 || got[0] != "x" || got[1] != "y" {
		t.Fatalf("events %v", got)
	}
}

func TestHTTPTransportRemove(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]bool{"removed": true})
	}))
	defer srv.Close()

	tr := NewHTTPTransport(srv.URL)
	removed, err := tr.Remove(context.Background(), "a")
	if err != nil || !removed {
		t.Fatalf("remove: %v %v", removed, err)
	}
}
