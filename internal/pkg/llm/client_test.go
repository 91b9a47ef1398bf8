package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// chatServer is an OpenAI-compatible stub recording every request body.
type chatServer struct {
	mu       sync.Mutex
	requests []ChatRequest
	reply    string
	apiError string
}

func (s *chatServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		s.requests = append(s.requests, req)
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if s.apiError != "" {
			fmt.Fprintf(w, `{"error":{"message":%q,"type":"invalid_request_error"}}`, s.apiError)
			return
		}
		reply := s.reply
		if reply == "" {
			reply = "stub reply"
		}
		fmt.Fprintf(w, `{"choices":[{"index":0,"message":{"role":"assistant","content":%q}}]}`, reply)
	}
}

func (s *chatServer) lastRequest() ChatRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[len(s.requests)-1]
}

func testClient(url string) *Client {
	return &Client{
		BaseURL:   url,
		APIKey:    "test-key",
		Model:     "gpt-test",
		MaxTokens: 512,
		Client:    &http.Client{Timeout: 5 * time.Second},
	}
}

func TestChatSendsRequestAndReturnsReply(t *testing.T) {
	stub := &chatServer{reply: "hello"}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	client := testClient(srv.URL)
	reply, err := client.Chat(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	if reply != "hello" {
		t.Fatalf("unexpected reply: %s", reply)
	}

	req := stub.lastRequest()
	if req.Model != "gpt-test" || req.MaxTokens != 512 {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.Temperature != 0.7 {
		t.Fatalf("default temperature not applied: %v", req.Temperature)
	}
	if len(req.Messages) != 1 || req.Messages[0].Content != "hi" {
		t.Fatalf("messages not forwarded: %+v", req.Messages)
	}
}

func TestChatWithTemperature(t *testing.T) {
	stub := &chatServer{}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	client := testClient(srv.URL)
	if _, err := client.ChatWithTemperature(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}}, 0.2); err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	if got := stub.lastRequest().Temperature; got != 0.2 {
		t.Fatalf("temperature not forwarded: %v", got)
	}
}

func TestChatAPIError(t *testing.T) {
	stub := &chatServer{apiError: "model overloaded"}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	client := testClient(srv.URL)
	_, err := client.Chat(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}})
	if err == nil || !strings.Contains(err.Error(), "model overloaded") {
		t.Fatalf("expected API error, got %v", err)
	}
}

func TestChatContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	client := testClient(srv.URL)
	if _, err := client.Chat(ctx, []ChatMessage{{Role: "user", Content: "hi"}}); err == nil {
		t.Fatalf("expected timeout error")
	}
}

func TestServiceSessionLifecycle(t *testing.T) {
	stub := &chatServer{reply: "assistant says"}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	svc := NewService(testClient(srv.URL))

	if err := svc.StartChat("s1"); err != nil {
		t.Fatalf("startChat failed: %v", err)
	}
	if err := svc.StartChat("s1"); err == nil {
		t.Fatalf("duplicate session must be rejected")
	}

	if _, err := svc.SendMessage(context.Background(), "s1", "first"); err != nil {
		t.Fatalf("sendMessage failed: %v", err)
	}
	if _, err := svc.SendMessage(context.Background(), "s1", "second"); err != nil {
		t.Fatalf("sendMessage failed: %v", err)
	}

	// second request carries the full history: user, assistant, user
	req := stub.lastRequest()
	if len(req.Messages) != 3 {
		t.Fatalf("expected 3 messages in history, got %d: %+v", len(req.Messages), req.Messages)
	}
	if req.Messages[1].Role != "assistant" || req.Messages[1].Content != "assistant says" {
		t.Fatalf("assistant reply not kept in history: %+v", req.Messages)
	}
	if svc.SessionLen("s1") != 4 {
		t.Fatalf("expected 4 stored messages, got %d", svc.SessionLen("s1"))
	}

	svc.ClearChat("s1")
	if _, err := svc.SendMessage(context.Background(), "s1", "third"); err == nil {
		t.Fatalf("cleared session must reject messages")
	}
	if err := svc.StartChat("s1"); err != nil {
		t.Fatalf("session id must be reusable after clear: %v", err)
	}
}

func TestServiceSendMessageUnknownSession(t *testing.T) {
	svc := NewService(testClient("http://unused"))
	if _, err := svc.SendMessage(context.Background(), "nope", "hi"); err == nil {
		t.Fatalf("expected unknown session error")
	}
}

func TestServiceGenerateContent(t *testing.T) {
	stub := &chatServer{reply: "one shot"}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	svc := NewService(testClient(srv.URL))
	reply, err := svc.GenerateContent(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("generateContent failed: %v", err)
	}
	if reply != "one shot" {
		t.Fatalf("unexpected reply: %s", reply)
	}
	if len(stub.lastRequest().Messages) != 1 {
		t.Fatalf("one-shot call must not carry history: %+v", stub.lastRequest().Messages)
	}
}
