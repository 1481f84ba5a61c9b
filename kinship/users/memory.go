package users

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps users in process memory. It backs tests and local development
// without a database; it is never wired in production.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byEmail map[string]string
	byName  map[string]string
}

// creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]*User),
		byEmail: make(map[string]string),
		byName:  make(map[string]string),
	}
}

// stores a new user, assigning an id when the caller did not
func (s *MemoryStore) Create(_ context.Context, params CreateParams) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[params.Email]; exists {
		return nil, ErrDuplicateEmail
	}

	if _, exists := s.byName[params.Username]; exists && params.Username != "" {
		return nil, ErrDuplicateUsername
	}

	id := params.ID
	if id == "" {
		id = uuid.NewString()
	}

	now := time.Now().UTC()
	user := &User{
		ID:           id,
		Email:        params.Email,
		Username:     params.Username,
		PasswordHash: params.PasswordHash,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	s.byID[id] = user
	s.byEmail[user.Email] = id
	if user.Username != "" {
		s.byName[user.Username] = id
	}

	clone := *user
	return &clone, nil
}

// finds a user by email address
func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}

	clone := *s.byID[id]
	return &clone, nil
}

// finds a user by their ID
func (s *MemoryStore) FindByID(_ context.Context, userID string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[userID]
	if !ok {
		return nil, ErrNotFound
	}

	clone := *user
	return &clone, nil
}

// removes a user; used by tests to simulate deleted accounts
func (s *MemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[userID]
	if !ok {
		return ErrNotFound
	}

	delete(s.byID, userID)
	delete(s.byEmail, user.Email)
	delete(s.byName, user.Username)

	return nil
}

// always reachable
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// number of stored users
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.byID)
}
