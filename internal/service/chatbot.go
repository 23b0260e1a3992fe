package service

import (
	"context"
	"log"
	"strings"
	"time"

	"shoemart/internal/metrics"
	"shoemart/internal/model"
)

// Reply is the outcome of one chat turn
type Reply struct {
	Text      string
	Intent    model.Intent
	Timestamp time.Time
}

// ChatBot is one conversation: it classifies each message, dispatches it and
// keeps the bounded turn log. A ChatBot is not safe for concurrent turns.
type ChatBot struct {
	classifier *Classifier
	dispatcher *Dispatcher
	history    *ConversationLog
}

// NewChatBot creates a chatbot session. A nil classifier uses the built-in
// intent table, a nil dispatcher answers in offline mode and a nil history
// gets the default bound.
func NewChatBot(classifier *Classifier, dispatcher *Dispatcher, history *ConversationLog) *ChatBot {
	if classifier == nil {
		classifier = NewClassifier(nil)
	}
	if dispatcher == nil {
		dispatcher = NewDispatcher(nil, DispatcherOptions{})
	}
	if history == nil {
		history = NewConversationLog(DefaultMaxHistory)
	}
	return &ChatBot{
		classifier: classifier,
		dispatcher: dispatcher,
		history:    history,
	}
}

// GetResponse answers text without recording it. The reply is never empty.
func (b *ChatBot) GetResponse(ctx context.Context, text string) string {
	reply, _ := b.respond(ctx, text)
	return reply
}

// Chat answers text and records the turn. Blank messages get a prompt and
// are not recorded.
func (b *ChatBot) Chat(ctx context.Context, text string) Reply {
	reply, intent := b.respond(ctx, text)
	if strings.TrimSpace(text) == "" {
		return Reply{Text: reply, Intent: intent, Timestamp: time.Now()}
	}

	turn := b.history.Record(text, reply)
	return Reply{Text: reply, Intent: intent, Timestamp: turn.Timestamp}
}

// History returns the recorded turns, oldest first
func (b *ChatBot) History() []ConversationTurn {
	return b.history.Turns()
}

// Greeting returns a random welcome line
func (b *ChatBot) Greeting() string {
	return b.dispatcher.pick(PoolGreeting)
}

func (b *ChatBot) respond(ctx context.Context, text string) (reply string, intent model.Intent) {
	intent = model.IntentDefault

	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Response generation failed for %q: %v", text, r)
			reply = MsgApology
		}
	}()

	if strings.TrimSpace(text) == "" {
		return MsgEmptyInput, intent
	}

	intent = b.classifier.Classify(text)
	metrics.RecordIntent(string(intent))

	reply = b.dispatcher.Dispatch(ctx, intent, text)
	if reply == "" {
		reply = MsgApology
	}
	return reply, intent
}
