package auth

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrInvalidSession = errors.New("session is invalid")
	ErrExpiredSession = errors.New("session is expired")
)

const defaultSessionDuration = 12 * time.Hour

type SessionManagerInterface interface {
	RegisterSession(token, userID string, duration time.Duration)
	VerifySession(token string) (string, error)
	RevokeSession(token string)
	PurgeExpired() int
}

type Session struct {
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionManager tracks live game-client sessions so a token can be revoked
// on logout even before its JWT expiry. State is in-memory; a restart simply
// logs everyone out.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewSessionManager() SessionManagerInterface {
	return &SessionManager{
		sessions: make(map[string]Session),
	}
}

func (sm *SessionManager) RegisterSession(token, userID string, duration time.Duration) {
	if duration <= 0 {
		duration = defaultSessionDuration
	}
	now := time.Now()
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.sessions[token] = Session{
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(duration),
	}
}

func (sm *SessionManager) VerifySession(token string) (string, error) {
	sm.mu.RLock()
	session, exists := sm.sessions[token]
	sm.mu.RUnlock()

	if !exists {
		return "", ErrInvalidSession
	}
	if time.Now().After(session.ExpiresAt) {
		return "", ErrExpiredSession
	}
	return session.UserID, nil
}

func (sm *SessionManager) RevokeSession(token string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, token)
}

// PurgeExpired drops expired sessions and returns how many were removed.
// Called from the scheduler in main.
func (sm *SessionManager) PurgeExpired() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	removed := 0
	for token, session := range sm.sessions {
		if time.Now().After(session.ExpiresAt) {
			delete(sm.sessions, token)
			removed++
		}
	}
	return removed
}
