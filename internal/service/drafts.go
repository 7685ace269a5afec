package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mbertin/recipevault/internal/model"
)

// draftTTL is how long a generated draft stays retrievable.
const draftTTL = 24 * time.Hour

// Draft is a generated recipe waiting for user review.
type Draft struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	Source    string           `json:"source"`
	Form      model.RecipeForm `json:"form"`
}

// Compile-time interface checks.
var (
	_ DraftStore = (*MemoryDraftStore)(nil)
	_ DraftStore = (*RedisDraftStore)(nil)
)

// MemoryDraftStore keeps drafts in memory. The default when no Redis is
// configured; drafts do not survive a restart.
type MemoryDraftStore struct {
	mu     sync.Mutex
	drafts map[string]*Draft
}

// NewMemoryDraftStore creates an empty in-memory draft store.
func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{drafts: make(map[string]*Draft)}
}

// SaveDraft stores the draft, assigning it a fresh identifier.
func (s *MemoryDraftStore) SaveDraft(ctx context.Context, draft *Draft) error {
	draft.ID = uuid.New().String()
	draft.CreatedAt = time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()
	s.drafts[draft.ID] = draft
	return nil
}

// GetDraft retrieves a draft by id.
func (s *MemoryDraftStore) GetDraft(ctx context.Context, id string) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()

	draft, ok := s.drafts[id]
	if !ok {
		return nil, fmt.Errorf("draft %s not found", id)
	}
	return draft, nil
}

// DeleteDraft removes a draft by id.
func (s *MemoryDraftStore) DeleteDraft(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
	return nil
}

// prune drops expired drafts. Caller holds the lock.
func (s *MemoryDraftStore) prune() {
	cutoff := time.Now().Add(-draftTTL)
	for id, draft := range s.drafts {
		if draft.CreatedAt.Before(cutoff) {
			delete(s.drafts, id)
		}
	}
}

// RedisDraftStore keeps drafts in Redis with a TTL, so they survive app
// restarts on setups that run one.
type RedisDraftStore struct {
	redis *redis.Client
}

// NewRedisDraftStore creates a Redis-backed draft store from a URL.
func NewRedisDraftStore(url string) (*RedisDraftStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisDraftStore{redis: client}, nil
}

func draftKey(id string) string {
	return fmt.Sprintf("recipe:draft:%s", id)
}

// SaveDraft stores the draft under a fresh identifier with the draft TTL.
func (s *RedisDraftStore) SaveDraft(ctx context.Context, draft *Draft) error {
	draft.ID = uuid.New().String()
	draft.CreatedAt = time.Now()

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	if err := s.redis.Set(ctx, draftKey(draft.ID), data, draftTTL).Err(); err != nil {
		return fmt.Errorf("failed to save draft to Redis: %w", err)
	}
	return nil
}

// GetDraft retrieves a draft by id.
func (s *RedisDraftStore) GetDraft(ctx context.Context, id string) (*Draft, error) {
	data, err := s.redis.Get(ctx, draftKey(id)).Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to get draft from Redis: %w", err)
	}

	var draft Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &draft, nil
}

// DeleteDraft removes a draft by id.
func (s *RedisDraftStore) DeleteDraft(ctx context.Context, id string) error {
	if err := s.redis.Del(ctx, draftKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft from Redis: %w", err)
	}
	return nil
}
