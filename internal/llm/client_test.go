package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"pgregory.net/rapid"
)

type capturedRequest struct {
	mu          sync.Mutex
	method      string
	path        string
	key         string
	contentType string
	body        GenerateContentRequest
}

func newGeminiStub(t *testing.T, status int, respBody string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			captured.mu.Lock()
			defer captured.mu.Unlock()
			captured.method = r.Method
			captured.path = r.URL.Path
			captured.key = r.URL.Query().Get("key")
			captured.contentType = r.Header.Get("Content-Type")
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &captured.body)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(respBody))
	}))
}

func TestGeminiClientGenerateContent_WireShape(t *testing.T) {
	var got capturedRequest
	srv := newGeminiStub(t, http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"Paris"}]}}]}`, &got)
	defer srv.Close()

	c := NewGeminiClient(srv.URL+"/", "secret-key", "gemini-1.5-flash", time.Second, srv.Client(), zap.NewNop())
	resp, err := c.GenerateContent(context.Background(), "Capital of France?")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got.mu.Lock()
	defer got.mu.Unlock()
	if got.method != http.MethodPost {
		t.Fatalf("expected POST, got %s", got.method)
	}
	if got.path != "/v1beta/models/gemini-1.5-flash:generateContent" {
		t.Fatalf("unexpected path %q", got.path)
	}
	if got.key != "secret-key" {
		t.Fatalf("expected key query param, got %q", got.key)
	}
	if got.contentType != "application/json" {
		t.Fatalf("expected json content type, got %q", got.contentType)
	}
	if len(got.body.Contents) != 1 || len(got.body.Contents[0].Parts) != 1 {
		t.Fatalf("expected one content with one part, got %+v", got.body)
	}
	if got.body.Contents[0].Parts[0].Text != "Capital of France?" {
		t.Fatalf("unexpected prompt %q", got.body.Contents[0].Parts[0].Text)
	}

	text, ok := resp.FirstText()
	if !ok || text != "Paris" {
		t.Fatalf("expected Paris, got %q (ok=%v)", text, ok)
	}
}

func TestNewTextRequest_SerializesExactNesting(t *testing.T) {
	raw, err := json.Marshal(NewTextRequest("hola"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"contents":[{"parts":[{"text":"hola"}]}]}`
	if string(raw) != want {
		t.Fatalf("expected %s, got %s", want, raw)
	}
}

func TestGeminiClientGenerateContent_PromptRoundTrip(t *testing.T) {
	var got capturedRequest
	srv := newGeminiStub(t, http.StatusOK, `{"candidates":[]}`, &got)
	defer srv.Close()
	c := NewGeminiClient(srv.URL, "k", "", time.Second, srv.Client(), nil)

	rapid.Check(t, func(rt *rapid.T) {
		prompt := rapid.StringMatching(`[a-zA-Z0-9 ,.?!]{1,80}`).Draw(rt, "prompt")
		if _, err := c.GenerateContent(context.Background(), prompt); err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		got.mu.Lock()
		sent := got.body.Contents[0].Parts[0].Text
		got.mu.Unlock()
		if sent != prompt {
			rt.Fatalf("expected %q upstream, got %q", prompt, sent)
		}
	})
}

func TestGeminiClientGenerateContent_StatusErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		rateLimited bool
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, rateLimited: true},
		{name: "server error", status: http.StatusInternalServerError},
		{name: "bad request", status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newGeminiStub(t, tt.status, `{"error":{"message":"boom"}}`, nil)
			defer srv.Close()
			c := NewGeminiClient(srv.URL, "k", "m", time.Second, srv.Client(), zap.NewNop())

			_, err := c.GenerateContent(context.Background(), "hola")
			var se *StatusError
			if !errors.As(err, &se) {
				t.Fatalf("expected StatusError, got %v", err)
			}
			if se.StatusCode != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, se.StatusCode)
			}
			if IsRateLimited(err) != tt.rateLimited {
				t.Fatalf("expected rate limited=%v for %v", tt.rateLimited, err)
			}
			if StatusCode(err) != tt.status {
				t.Fatalf("expected StatusCode helper to return %d", tt.status)
			}
			if !strings.Contains(err.Error(), "boom") {
				t.Fatalf("expected upstream body in error, got %q", err.Error())
			}
		})
	}
}

func TestGeminiClientGenerateContent_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewGeminiClient(srv.URL, "secret-key", "m", 50*time.Millisecond, srv.Client(), zap.NewNop())
	_, err := c.GenerateContent(context.Background(), "hola")
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if strings.Contains(err.Error(), "secret-key") {
		t.Fatalf("api key leaked in error: %q", err.Error())
	}
}

func TestGeminiClientGenerateContent_MalformedBody(t *testing.T) {
	srv := newGeminiStub(t, http.StatusOK, `not json`, nil)
	defer srv.Close()
	c := NewGeminiClient(srv.URL, "k", "m", time.Second, srv.Client(), zap.NewNop())

	_, err := c.GenerateContent(context.Background(), "hola")
	if err == nil || !strings.Contains(err.Error(), "unmarshal response") {
		t.Fatalf("expected unmarshal error, got %v", err)
	}
}

func TestGeminiClientGenerateContent_UnexpectedShapes(t *testing.T) {
	bodies := []string{
		`{"candidates":{}}`,
		`{"candidates":[{"content":{"parts":[{}]}}]}`,
		`{"candidates":[{"content":"oops"}]}`,
		`{"candidates":[{"content":{"parts":[{"text":42}]}}]}`,
		`{"candidates":[{"content":{"parts":"x"}}]}`,
		`[]`,
		`{}`,
	}
	for _, body := range bodies {
		srv := newGeminiStub(t, http.StatusOK, body, nil)
		c := NewGeminiClient(srv.URL, "k", "m", time.Second, srv.Client(), zap.NewNop())

		resp, err := c.GenerateContent(context.Background(), "hola")
		srv.Close()
		if err != nil {
			t.Fatalf("%s: expected no error for well-formed json, got %v", body, err)
		}
		if text, ok := resp.FirstText(); ok {
			t.Fatalf("%s: expected no text, got %q", body, text)
		}
	}
}

func TestGeminiClientGenerateContent_ShapeMismatchKeepsValidText(t *testing.T) {
	srv := newGeminiStub(t, http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"Paris"}]},"finishReason":1}]}`, nil)
	defer srv.Close()
	c := NewGeminiClient(srv.URL, "k", "m", time.Second, srv.Client(), zap.NewNop())

	resp, err := c.GenerateContent(context.Background(), "hola")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if text, ok := resp.FirstText(); !ok || text != "Paris" {
		t.Fatalf("expected Paris, got %q (ok=%v)", text, ok)
	}
}

func TestFirstText(t *testing.T) {
	cases := []struct {
		name string
		resp *GenerateContentResponse
		ok   bool
	}{
		{name: "nil", resp: nil},
		{name: "no candidates", resp: &GenerateContentResponse{}},
		{name: "nil content", resp: &GenerateContentResponse{Candidates: []Candidate{{FinishReason: "SAFETY"}}}},
		{name: "no parts", resp: &GenerateContentResponse{Candidates: []Candidate{{Content: &Content{}}}}},
		{name: "empty text", resp: &GenerateContentResponse{Candidates: []Candidate{{Content: &Content{Parts: []Part{{}}}}}}},
		{name: "ok", resp: &GenerateContentResponse{Candidates: []Candidate{{Content: &Content{Parts: []Part{{Text: "x"}}}}}}, ok: true},
	}
	for _, c := range cases {
		if _, ok := c.resp.FirstText(); ok != c.ok {
			t.Fatalf("%s: expected ok=%v", c.name, c.ok)
		}
	}
}
