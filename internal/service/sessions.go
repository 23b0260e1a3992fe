package service

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"shoemart/internal/model"
)

// DefaultMaxSessions is the session cap when none is configured
const DefaultMaxSessions = 10000

// ErrInvalidSessionID is returned for session ids that are not UUIDs
var ErrInvalidSessionID = errors.New("invalid session id")

// TranscriptStore persists finished turns
type TranscriptStore interface {
	LogChatTurn(ctx context.Context, entry *model.ChatLog) error
}

// SessionOptions configures a SessionManager
type SessionOptions struct {
	Dispatcher  DispatcherOptions
	MaxHistory  int
	TTL         time.Duration
	// MaxSessions bounds live sessions; the longest idle one is evicted to
	// make room for a new one
	MaxSessions int
	// RandomSeed makes reply selection reproducible; 0 seeds from the clock
	RandomSeed  int64
}

type session struct {
	mutex    sync.Mutex
	bot      *ChatBot
	lastSeen time.Time
}

// SessionManager holds one ChatBot per client session.
// Turns of the same session are serialised; sessions share nothing but storage.
type SessionManager struct {
	storage     Storage
	transcripts TranscriptStore
	classifier  *Classifier
	opts        SessionOptions

	sessions map[string]*session
	created  int64
	now      func() time.Time
	mutex    sync.Mutex
}

// NewSessionManager creates a session manager. transcripts may be nil.
func NewSessionManager(storage Storage, transcripts TranscriptStore, opts SessionOptions) *SessionManager {
	if opts.MaxHistory <= 0 {
		opts.MaxHistory = DefaultMaxHistory
	}
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Minute
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultMaxSessions
	}

	return &SessionManager{
		storage:     storage,
		transcripts: transcripts,
		classifier:  NewClassifier(nil),
		opts:        opts,
		sessions:    make(map[string]*session),
		now:         time.Now,
	}
}

// Chat runs one turn in the given session. An empty sessionID starts a new
// session; an unknown but well-formed one is created on the fly.
func (m *SessionManager) Chat(ctx context.Context, sessionID, message string) (string, Reply, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	} else if _, err := uuid.Parse(sessionID); err != nil {
		return "", Reply{}, ErrInvalidSessionID
	}

	s := m.getOrCreate(sessionID)

	s.mutex.Lock()
	reply := s.bot.Chat(ctx, message)
	s.mutex.Unlock()

	if m.transcripts != nil && strings.TrimSpace(message) != "" {
		entry := &model.ChatLog{
			SessionID:   sessionID,
			UserMessage: message,
			BotReply:    reply.Text,
			Intent:      reply.Intent,
			CreatedAt:   reply.Timestamp,
		}
		// Log chat turn (non-blocking)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := m.transcripts.LogChatTurn(ctx, entry); err != nil {
				log.Printf("⚠️  Failed to log chat turn for session %s: %v", entry.SessionID, err)
			}
		}()
	}

	return sessionID, reply, nil
}

// History returns the turns of a session, oldest first
func (m *SessionManager) History(sessionID string) ([]ConversationTurn, bool) {
	m.mutex.Lock()
	s, ok := m.sessions[sessionID]
	m.mutex.Unlock()
	if !ok {
		return nil, false
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.bot.History(), true
}

// Delete drops a session and reports whether it existed
func (m *SessionManager) Delete(sessionID string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, ok := m.sessions[sessionID]; !ok {
		return false
	}
	delete(m.sessions, sessionID)
	return true
}

// Count returns the number of live sessions
func (m *SessionManager) Count() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return len(m.sessions)
}

// Sweep evicts sessions idle for longer than the TTL and returns how many went
func (m *SessionManager) Sweep() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	cutoff := m.now().Add(-m.opts.TTL)
	evicted := 0
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted
}

// StartSweeper runs Sweep every interval until ctx is done
func (m *SessionManager) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := m.Sweep(); n > 0 {
					log.Printf("🧹 Evicted %d idle chat sessions", n)
				}
			}
		}
	}()
}

func (m *SessionManager) getOrCreate(sessionID string) *session {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if s, ok := m.sessions[sessionID]; ok {
		s.lastSeen = m.now()
		return s
	}

	if len(m.sessions) >= m.opts.MaxSessions {
		m.evictIdlest()
	}

	m.created++
	seed := m.opts.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	opts := m.opts.Dispatcher
	opts.Rand = rand.New(rand.NewSource(seed + m.created))

	s := &session{
		bot: NewChatBot(
			m.classifier,
			NewDispatcher(m.storage, opts),
			NewConversationLog(m.opts.MaxHistory),
		),
		lastSeen: m.now(),
	}
	m.sessions[sessionID] = s
	return s
}

// evictIdlest drops the session seen least recently. Callers hold m.mutex.
func (m *SessionManager) evictIdlest() {
	var (
		idlest   string
		lastSeen time.Time
	)
	for id, s := range m.sessions {
		if idlest == "" || s.lastSeen.Before(lastSeen) {
			idlest, lastSeen = id, s.lastSeen
		}
	}
	if idlest != "" {
		delete(m.sessions, idlest)
	}
}
