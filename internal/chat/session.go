// Package chat runs LLM conversations seeded with a corrected video
// transcript. A session keeps the full turn history in memory so follow-up
// questions can reference earlier answers; nothing is persisted.
package chat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrWong99/courtside/internal/observe"
	"github.com/MrWong99/courtside/pkg/provider/llm"
)

// transcriptSeed is the opening user turn that loads the transcript into the
// conversation.
const transcriptSeed = "This is the transcript of a YouTube video:\n\n%s"

// seedAck is the scripted assistant acknowledgement that closes the seed
// exchange, so the model treats the transcript as established context rather
// than a question to answer.
const seedAck = "Okay, I understand. I have the context from the transcript. Ask me anything about it."

// Prompts returns the canned fantasy-basketball questions offered alongside
// free-form input.
func Prompts() []string {
	return []string{
		"Which players mentioned in the video are good waiver wire pickups?",
		"Based on this video, who are some buy-low or sell-high candidates?",
		"What are the injury updates discussed in the video, and how do they impact player value?",
		"Does this video suggest any players I should drop from my roster?",
		"Summarize the overall strategy discussed in the video (e.g., streaming, punting categories).",
		"Generate a list of players mentioned in this video, categorized by position and projected value.",
	}
}

// Session is a single seeded conversation. Safe for concurrent use, though
// questions are answered one at a time under the session lock so the history
// stays ordered.
type Session struct {
	id       string
	provider llm.Provider

	mu      sync.Mutex
	history []llm.Message

	temperature float64
	maxTokens   int
}

// SessionOption configures a [Session].
type SessionOption func(*Session)

// WithTemperature sets the sampling temperature for all turns.
func WithTemperature(t float64) SessionOption {
	return func(s *Session) { s.temperature = t }
}

// WithMaxTokens caps the completion length for all turns.
func WithMaxTokens(n int) SessionOption {
	return func(s *Session) { s.maxTokens = n }
}

// NewSession starts a conversation seeded with transcript. The transcript
// should already be cleaned and name-corrected.
func NewSession(provider llm.Provider, transcript string, opts ...SessionOption) (*Session, error) {
	if provider == nil {
		return nil, fmt.Errorf("chat: provider must not be nil")
	}
	if transcript == "" {
		return nil, fmt.Errorf("chat: transcript must not be empty")
	}

	s := &Session{
		id:       uuid.NewString(),
		provider: provider,
		history: []llm.Message{
			{Role: llm.RoleUser, Content: fmt.Sprintf(transcriptSeed, transcript)},
			{Role: llm.RoleAssistant, Content: seedAck},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Len reports the number of turns in the history, including the two seed
// turns.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// Ask appends question to the history, requests a completion, and returns the
// assistant's answer. On provider failure the question is rolled back so a
// retry does not duplicate turns.
func (s *Session) Ask(ctx context.Context, question string) (string, error) {
	if question == "" {
		return "", fmt.Errorf("chat: question must not be empty")
	}

	ctx, span := observe.StartSpan(ctx, "chat.ask")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, llm.Message{Role: llm.RoleUser, Content: question})

	start := time.Now()
	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Messages:    s.history,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
	observe.DefaultMetrics().ChatDuration.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		s.history = s.history[:len(s.history)-1]
		observe.DefaultMetrics().RecordProviderError(ctx, "llm", "chat")
		return "", fmt.Errorf("chat: completion: %w", err)
	}
	if resp == nil || resp.Content == "" {
		s.history = s.history[:len(s.history)-1]
		return "", fmt.Errorf("chat: empty completion")
	}

	s.history = append(s.history, llm.Message{Role: llm.RoleAssistant, Content: resp.Content})

	observe.Logger(ctx).Debug("chat turn completed",
		"session", s.id,
		"turns", len(s.history),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)
	return resp.Content, nil
}
