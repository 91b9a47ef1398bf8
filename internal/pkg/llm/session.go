package llm

import (
	"context"
	"fmt"
	"sync"

	"k8s.io/klog/v2"
)

// Service adds stateful chat sessions on top of Client. A session is
// owned by exactly one generation run; the map here is a lookup
// convenience, never a point of cross-run sharing.
type Service struct {
	client   *Client
	mutex    sync.Mutex
	sessions map[string][]ChatMessage
}

func NewService(client *Client) *Service {
	return &Service{
		client:   client,
		sessions: make(map[string][]ChatMessage),
	}
}

// StartChat opens a new session with empty history.
func (s *Service) StartChat(sessionID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, ok := s.sessions[sessionID]; ok {
		return fmt.Errorf("session %s already exists", sessionID)
	}
	s.sessions[sessionID] = []ChatMessage{}
	klog.V(6).Infof("Chat session started: sessionID=%s", sessionID)
	return nil
}

// SendMessage appends a user message to the session history, sends the
// history to the LLM and appends the assistant reply.
func (s *Service) SendMessage(ctx context.Context, sessionID, text string) (string, error) {
	s.mutex.Lock()
	history, ok := s.sessions[sessionID]
	if !ok {
		s.mutex.Unlock()
		return "", fmt.Errorf("session %s not found", sessionID)
	}
	messages := make([]ChatMessage, len(history), len(history)+2)
	copy(messages, history)
	messages = append(messages, ChatMessage{Role: "user", Content: text})
	s.mutex.Unlock()

	reply, err := s.client.Chat(ctx, messages)
	if err != nil {
		return "", err
	}

	s.mutex.Lock()
	// The session may have been cleared while the call was in flight.
	if _, ok := s.sessions[sessionID]; ok {
		s.sessions[sessionID] = append(messages, ChatMessage{Role: "assistant", Content: reply})
	}
	s.mutex.Unlock()

	return reply, nil
}

// GenerateContent issues a one-shot completion outside any session.
func (s *Service) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return s.client.GenerateContent(ctx, prompt)
}

// GenerateWithTemperature issues a one-shot completion with an explicit
// sampling temperature.
func (s *Service) GenerateWithTemperature(ctx context.Context, prompt string, temperature float64) (string, error) {
	return s.client.ChatWithTemperature(ctx, []ChatMessage{{Role: "user", Content: prompt}}, temperature)
}

// ClearChat drops a session and its history.
func (s *Service) ClearChat(sessionID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.sessions, sessionID)
	klog.V(6).Infof("Chat session cleared: sessionID=%s", sessionID)
}

// SessionLen reports the number of messages held for a session.
func (s *Service) SessionLen(sessionID string) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.sessions[sessionID])
}
