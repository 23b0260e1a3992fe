package service

import (
	"sync"
	"time"
)

// DefaultMaxHistory is the conversation log bound used when none is given
const DefaultMaxHistory = 100

// ConversationTurn is one user message and the reply it got
type ConversationTurn struct {
	Timestamp time.Time `json:"timestamp"`
	UserText  string    `json:"user"`
	BotText   string    `json:"bot"`
}

// ConversationLog keeps the most recent turns of a session, oldest first.
// Once full, recording a turn evicts the oldest one.
type ConversationLog struct {
	turns   []ConversationTurn
	maxSize int
	now     func() time.Time
	mutex   sync.RWMutex
}

// LogOption configures a ConversationLog
type LogOption func(*ConversationLog)

// WithClock replaces time.Now as the turn timestamp source
func WithClock(now func() time.Time) LogOption {
	return func(l *ConversationLog) {
		l.now = now
	}
}

// NewConversationLog creates a log holding at most maxSize turns
func NewConversationLog(maxSize int, opts ...LogOption) *ConversationLog {
	if maxSize <= 0 {
		maxSize = DefaultMaxHistory
	}

	l := &ConversationLog{
		turns:   make([]ConversationTurn, 0, maxSize),
		maxSize: maxSize,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record appends a turn and returns it
func (l *ConversationLog) Record(userText, botText string) ConversationTurn {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	turn := ConversationTurn{
		Timestamp: l.now(),
		UserText:  userText,
		BotText:   botText,
	}
	l.turns = append(l.turns, turn)

	// sliding window
	if len(l.turns) > l.maxSize {
		l.turns = append(l.turns[:0], l.turns[len(l.turns)-l.maxSize:]...)
	}

	return turn
}

// Turns returns a copy of the retained turns, oldest first
func (l *ConversationLog) Turns() []ConversationTurn {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	turns := make([]ConversationTurn, len(l.turns))
	copy(turns, l.turns)
	return turns
}

// Len returns the number of retained turns
func (l *ConversationLog) Len() int {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	return len(l.turns)
}

// MaxSize returns the log bound
func (l *ConversationLog) MaxSize() int {
	return l.maxSize
}
