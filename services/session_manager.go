package services

import (
	"fmt"
	"log"
	"sync"

	"galaxykiro/repository"
)

// SessionManager hands out the single engine instance owning each
// (assessment, user) session. Engines are created lazily and dropped once a
// session completes; a dropped pair gets a fresh engine on its next request.
type SessionManager struct {
	catalog *AssessmentCatalog
	store   repository.ProgressStore
	engines map[string]*AssessmentEngine
	mu      sync.RWMutex
}

// NewSessionManager creates a new SessionManager.
func NewSessionManager(catalog *AssessmentCatalog, store repository.ProgressStore) *SessionManager {
	return &SessionManager{
		catalog: catalog,
		store:   store,
		engines: make(map[string]*AssessmentEngine),
	}
}

func sessionKey(assessmentID, userID string) string {
	return assessmentID + "|" + userID
}

// Engine returns the engine owning the (assessment, user) session, creating
// it on first use. The returned engine may still be uninitialized; callers
// drive InitializeAssessment or LoadAssessmentState.
func (m *SessionManager) Engine(assessmentID, userID string) (*AssessmentEngine, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID cannot be empty")
	}
	cfg, exists := m.catalog.Get(assessmentID)
	if !exists {
		return nil, fmt.Errorf("unknown assessment '%s'", assessmentID)
	}

	key := sessionKey(assessmentID, userID)

	m.mu.RLock()
	engine, ok := m.engines[key]
	m.mu.RUnlock()
	if ok {
		return engine, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if engine, ok := m.engines[key]; ok { // Re-check under the write lock
		return engine, nil
	}
	engine = NewAssessmentEngine(cfg, m.store)
	m.engines[key] = engine
	log.Printf("INFO: [SessionManager] Created engine for assessment '%s', user '%s'.", assessmentID, userID)
	return engine, nil
}

// Drop releases the engine of a finished session.
func (m *SessionManager) Drop(assessmentID, userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.engines, sessionKey(assessmentID, userID))
}
