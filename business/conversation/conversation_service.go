package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"smartCatalog/domain"
	"smartCatalog/pkg/logger"

	"github.com/google/uuid"
)

const (
	DefaultMaxMessages = 50
	DefaultIdleTTL     = 24 * time.Hour
)

// Store is the injected persistence for transcripts. Get and Update return
// domain.ErrNotFound for unknown ids.
type Store interface {
	Create(ctx context.Context, conv domain.Conversation) error
	Get(ctx context.Context, id string) (domain.Conversation, error)
	// Update applies mutate to the stored conversation with no other writer in
	// between. A mutate error leaves the stored value untouched.
	Update(ctx context.Context, id string, mutate func(*domain.Conversation) error) (domain.Conversation, error)
	Delete(ctx context.Context, id string) error
	// ExpireBefore removes conversations idle since before cutoff and returns how many.
	ExpireBefore(ctx context.Context, cutoff time.Time) (int, error)
}

type Service struct {
	store       Store
	maxMessages int
	idleTTL     time.Duration
	now         func() time.Time
}

func NewService(store Store, maxMessages int, idleTTL time.Duration) *Service {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxMessages
	}
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Service{
		store:       store,
		maxMessages: maxMessages,
		idleTTL:     idleTTL,
		now:         time.Now,
	}
}

func (s *Service) Create(ctx context.Context, userID string) (domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return domain.Conversation{}, fmt.Errorf("context error: %w", err)
	}
	if strings.TrimSpace(userID) == "" {
		return domain.Conversation{}, domain.NewConstraintError("user_id", "is required")
	}

	now := s.now().UTC()
	conv := domain.Conversation{
		ID:           uuid.NewString(),
		UserID:       userID,
		Messages:     []domain.ConversationMessage{},
		Preferences:  map[string]string{},
		CreatedAt:    now,
		LastActivity: now,
	}
	if err := s.store.Create(ctx, conv); err != nil {
		return domain.Conversation{}, fmt.Errorf("failed to create conversation: %w", err)
	}

	logger.Debug("conversation_created", "conversation_id", conv.ID, "user_id", userID)
	return conv, nil
}

// Get returns the caller's conversation unless it has been idle past the TTL,
// in which case it is removed and reported as not found. Conversations owned by
// someone else are reported as not found too.
func (s *Service) Get(ctx context.Context, userID, id string) (domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return domain.Conversation{}, fmt.Errorf("context error: %w", err)
	}

	conv, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.Conversation{}, err
	}
	if err := s.check(conv, userID); err != nil {
		if errors.Is(err, errExpired) {
			s.expire(ctx, id)
		}
		return domain.Conversation{}, err
	}
	return conv, nil
}

var errExpired = fmt.Errorf("%w: conversation expired", domain.ErrNotFound)

func (s *Service) check(conv domain.Conversation, userID string) error {
	if conv.UserID != userID {
		return fmt.Errorf("%w: conversation %s", domain.ErrNotFound, conv.ID)
	}
	if s.now().UTC().Sub(conv.LastActivity) > s.idleTTL {
		return errExpired
	}
	return nil
}

func (s *Service) expire(ctx context.Context, id string) {
	if err := s.store.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.Warn("conversation_expire_failed", "conversation_id", id, "error", err)
	}
}

// AppendMessage adds one message and keeps only the most recent maxMessages.
func (s *Service) AppendMessage(ctx context.Context, userID, id string, msg domain.ConversationMessage) (domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return domain.Conversation{}, fmt.Errorf("context error: %w", err)
	}
	msg.Role = strings.ToLower(strings.TrimSpace(msg.Role))
	if msg.Role != domain.RoleUser && msg.Role != domain.RoleAssistant {
		return domain.Conversation{}, domain.NewConstraintError("role", "must be %q or %q", domain.RoleUser, domain.RoleAssistant)
	}
	if strings.TrimSpace(msg.Content) == "" {
		return domain.Conversation{}, domain.NewConstraintError("content", "is required")
	}

	conv, err := s.store.Update(ctx, id, func(conv *domain.Conversation) error {
		if err := s.check(*conv, userID); err != nil {
			return err
		}
		now := s.now().UTC()
		msg.Timestamp = now
		conv.Messages = append(conv.Messages, msg)
		if len(conv.Messages) > s.maxMessages {
			conv.Messages = append([]domain.ConversationMessage(nil), conv.Messages[len(conv.Messages)-s.maxMessages:]...)
		}
		conv.LastActivity = now
		return nil
	})
	if err != nil {
		if errors.Is(err, errExpired) {
			s.expire(ctx, id)
		}
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Conversation{}, err
		}
		return domain.Conversation{}, fmt.Errorf("failed to save conversation: %w", err)
	}
	return conv, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// ExpireIdle drops every conversation idle longer than the TTL.
func (s *Service) ExpireIdle(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}
	n, err := s.store.ExpireBefore(ctx, s.now().UTC().Add(-s.idleTTL))
	if err != nil {
		return 0, fmt.Errorf("failed to expire conversations: %w", err)
	}
	if n > 0 {
		logger.Info("conversations_expired", "count", n)
	}
	return n, nil
}

// RunJanitor calls ExpireIdle on every tick until ctx is cancelled.
func (s *Service) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.ExpireIdle(ctx); err != nil {
				logger.Warn("conversation_janitor_failed", "error", err)
			}
		}
	}
}
