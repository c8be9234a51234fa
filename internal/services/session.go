package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/resume-maker/internal/models"
)

// Session is one browser's walk through the upload, select and generate
// steps. It owns the candidate list of its latest upload, the current
// selection and the progress of its generation jobs.
type Session struct {
	ID   string
	Jobs *JobTracker

	mu         sync.RWMutex
	candidates []models.CandidateRecord
	selected   *models.CandidateRecord
	lastSeen   time.Time
}

// SetCandidates replaces the candidate list and clears the selection.
func (s *Session) SetCandidates(candidates []models.CandidateRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.candidates = append([]models.CandidateRecord(nil), candidates...)
	s.selected = nil
}

func (s *Session) Candidates() []models.CandidateRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.CandidateRecord(nil), s.candidates...)
}

func (s *Session) Select(candidateID string) (models.CandidateRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.candidates {
		if s.candidates[i].ID == candidateID {
			chosen := s.candidates[i]
			s.selected = &chosen
			return chosen, nil
		}
	}
	return models.CandidateRecord{}, ErrCandidateNotFound
}

func (s *Session) Selected() (models.CandidateRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selected == nil {
		return models.CandidateRecord{}, false
	}
	return *s.selected, true
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// GetOrCreate returns the session for id, or a fresh session with a new ID
// when id is empty or unknown.
func (s *SessionStore) GetOrCreate(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if session, ok := s.sessions[id]; ok && id != "" {
		session.touch(now)
		return session
	}

	session := &Session{
		ID:       uuid.NewString(),
		Jobs:     NewJobTracker(),
		lastSeen: now,
	}
	s.sessions[session.ID] = session
	return session
}

func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if ok {
		session.touch(s.now())
	}
	return session, ok
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the TTL. Sessions with a running
// job are kept so the job can still be polled.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, session := range s.sessions {
		if session.idleSince().After(cutoff) || session.Jobs.HasRunning() {
			continue
		}
		delete(s.sessions, id)
		removed++
	}
	return removed
}

// RunJanitor sweeps every interval until ctx is cancelled.
func (s *SessionStore) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Println("🧹 Session janitor started")

	for {
		select {
		case <-ctx.Done():
			log.Println("🧹 Session janitor stopped")
			return
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 {
				log.Printf("🧹 Evicted %d idle sessions\n", removed)
			}
		}
	}
}
