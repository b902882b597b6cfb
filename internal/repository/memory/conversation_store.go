package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"smartCatalog/domain"
)

// ConversationStore keeps transcripts in process memory. State is per instance.
type ConversationStore struct {
	mu    sync.RWMutex
	convs map[string]domain.Conversation
}

func NewConversationStore() *ConversationStore {
	return &ConversationStore{convs: map[string]domain.Conversation{}}
}

func (s *ConversationStore) Create(ctx context.Context, conv domain.Conversation) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.convs[conv.ID]; ok {
		return fmt.Errorf("conversation %s already exists", conv.ID)
	}
	s.convs[conv.ID] = cloneConversation(conv)
	return nil
}

func (s *ConversationStore) Get(ctx context.Context, id string) (domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return domain.Conversation{}, fmt.Errorf("context error: %w", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.convs[id]
	if !ok {
		return domain.Conversation{}, fmt.Errorf("%w: conversation %s", domain.ErrNotFound, id)
	}
	return cloneConversation(conv), nil
}

func (s *ConversationStore) Update(ctx context.Context, id string, mutate func(*domain.Conversation) error) (domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return domain.Conversation{}, fmt.Errorf("context error: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.convs[id]
	if !ok {
		return domain.Conversation{}, fmt.Errorf("%w: conversation %s", domain.ErrNotFound, id)
	}
	conv = cloneConversation(conv)
	if err := mutate(&conv); err != nil {
		return domain.Conversation{}, err
	}
	conv.ID = id
	s.convs[id] = cloneConversation(conv)
	return conv, nil
}

func (s *ConversationStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.convs[id]; !ok {
		return fmt.Errorf("%w: conversation %s", domain.ErrNotFound, id)
	}
	delete(s.convs, id)
	return nil
}

func (s *ConversationStore) ExpireBefore(ctx context.Context, cutoff time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, conv := range s.convs {
		if conv.LastActivity.Before(cutoff) {
			delete(s.convs, id)
			n++
		}
	}
	return n, nil
}

func cloneConversation(c domain.Conversation) domain.Conversation {
	out := c
	out.Messages = append([]domain.ConversationMessage(nil), c.Messages...)
	if c.Preferences != nil {
		out.Preferences = make(map[string]string, len(c.Preferences))
		for k, v := range c.Preferences {
			out.Preferences[k] = v
		}
	}
	return out
}
