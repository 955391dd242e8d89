package transports

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// HTTPTransport talks to a pl-flow server over its REST gateway.
type HTTPTransport struct {
	base   string
	client *http.Client
}

// NewHTTPTransport returns a transport rooted at base (e.g. http://127.0.0.1:8080).
func NewHTTPTransport(base string) *HTTPTransport {
	return &HTTPTransport{base: strings.TrimRight(base, "/"), client: &http.Client{}}
}

func (t *HTTPTransport) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.base+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return t.client.Do(req)
}

func decodeError(resp *http.Response) error {
	var e struct {
		Error string `json:"error"`
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(b, &e) == nil && e.Error != "" {
		return fmt.Errorf("server: %s", e.Error)
	}
	return fmt.Errorf("server: status %d", resp.StatusCode)
}

type submitBody struct {
	Identity string `json:"identity"`
	Topic    string `json:"topic"`
	Payload  []byte `json:"payload,omitempty"`
}

func (t *HTTPTransport) Submit(ctx context.Context, identity, topic string, payload []byte) error {
	resp, err := t.postJSON(ctx, "/v1/tasks/submit", submitBody{Identity: identity, Topic: topic, Payload: payload})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		return decodeError(resp)
	}
	return nil
}

func (t *HTTPTransport) SubmitWait(ctx context.Context, identity, topic string, payload []byte) (SubmitResult, error) {
	resp, err := t.postJSON(ctx, "/v1/tasks/submit?wait=true", submitBody{Identity: identity, Topic: topic, Payload: payload})
	if err != nil {
		return SubmitResult{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return SubmitResult{}, decodeError(resp)
	}
	var out struct {
		Identity string `json:"identity"`
		Topic    string `json:"topic"`
		Payload  []byte `json:"payload"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return SubmitResult{}, err
	}
	return SubmitResult{Identity: out.Identity, Topic: out.Topic, Payload: out.Payload}, nil
}

func (t *HTTPTransport) Remove(ctx context.Context, identity string) (bool, error) {
	resp, err := t.postJSON(ctx, "/v1/tasks/remove", map[string]string{"identity": identity})
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, decodeError(resp)
	}
	var out struct {
		Removed bool `json:"removed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, err
	}
	return out.Removed, nil
}

func (t *HTTPTransport) Clear(ctx context.Context) error {
	resp, err := t.postJSON(ctx, "/v1/tasks/clear", struct{}{})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		return decodeError(resp)
	}
	return nil
}

func (t *HTTPTransport) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.base+path, nil)
	if err != nil {
		return err
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (t *HTTPTransport) GetStats(ctx context.Context) (Stats, error) {
	var out Stats
	err := t.getJSON(ctx, "/v1/tasks/stats", &out)
	return out, err
}

func (t *HTTPTransport) Topics(ctx context.Context) ([]string, error) {
	var out struct {
		Topics []string `json:"topics"`
	}
	err := t.getJSON(ctx, "/v1/tasks/topics", &out)
	return out.Topics, err
}

// Watch consumes the SSE success feed until ctx ends, the limit is reached, or
// onEvent returns an error.
func (t *HTTPTransport) Watch(ctx context.Context, req WatchRequest, onEvent func(WatchEvent) error) error {
	q := url.Values{}
	if req.Filter != "" {
		q.Set("filter", req.Filter)
	}
	if req.Buffer > 0 {
		q.Set("buffer", strconv.Itoa(req.Buffer))
	}
	hreq, err := http.NewRequestWithContext(ctx, http.MethodGet, t.base+"/v1/tasks/subscribe?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := t.client.Do(hreq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}

	seen := 0
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev WatchEvent
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev); err != nil {
			continue
		}
		// skip the subscription preamble
		if ev.Identity == "" && ev.Topic == "" {
			continue
		}
		if err := onEvent(ev); err != nil {
			return err
		}
		seen++
		if req.Limit > 0 && seen >= req.Limit {
			return nil
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func (t *HTTPTransport) ReadJournal(ctx context.Context, after string, limit int) ([]JournalEntry, error) {
	q := url.Values{}
	if after != "" {
		q.Set("after", after)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out struct {
		Entries []JournalEntry `json:"entries"`
	}
	if err := t.getJSON(ctx, "/v1/journal/read?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out.Entries, nil
}
