package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepClock returns a clock that advances one second per call
func stepClock(start time.Time) func() time.Time {
	calls := 0
	return func() time.Time {
		t := start.Add(time.Duration(calls) * time.Second)
		calls++
		return t
	}
}

func TestConversationLog_Bounded(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		max     int
		records int
		wantLen int
	}{
		{name: "below bound", max: 3, records: 2, wantLen: 2},
		{name: "at bound", max: 3, records: 3, wantLen: 3},
		{name: "one over bound", max: 3, records: 4, wantLen: 3},
		{name: "far over bound", max: 2, records: 10, wantLen: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := NewConversationLog(tt.max, WithClock(stepClock(start)))
			for i := 0; i < tt.records; i++ {
				log.Record(fmt.Sprintf("user %d", i), fmt.Sprintf("bot %d", i))
			}

			turns := log.Turns()
			require.Len(t, turns, tt.wantLen)
			assert.Equal(t, tt.wantLen, log.Len())

			// the newest turns survive, oldest first
			firstKept := tt.records - tt.wantLen
			assert.Equal(t, fmt.Sprintf("user %d", firstKept), turns[0].UserText)
			assert.Equal(t, start.Add(time.Duration(firstKept)*time.Second), turns[0].Timestamp)
			assert.Equal(t, fmt.Sprintf("bot %d", tt.records-1), turns[len(turns)-1].BotText)
		})
	}
}

func TestConversationLog_DefaultBound(t *testing.T) {
	log := NewConversationLog(0)
	assert.Equal(t, DefaultMaxHistory, log.MaxSize())

	for i := 0; i < DefaultMaxHistory+1; i++ {
		log.Record("q", "a")
	}
	assert.Equal(t, DefaultMaxHistory, log.Len())
}

func TestConversationLog_TurnsIsCopy(t *testing.T) {
	log := NewConversationLog(5)
	log.Record("xin chào", "chào bạn")

	turns := log.Turns()
	turns[0].UserText = "changed"

	assert.Equal(t, "xin chào", log.Turns()[0].UserText)
}
