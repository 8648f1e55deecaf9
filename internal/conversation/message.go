// Package conversation owns the chat history of a proposal workspace and
// turns user text into delayed assistant replies that edit the draft.
package conversation

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/csheth/proppilot/internal/proposal"
)

// Sender identifies who wrote a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Message is an immutable history entry. IDs sort in creation order.
type Message struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Event is published once per committed reply: the reply and the draft it produced.
type Event struct {
	Message  Message
	Document proposal.Document
}

var (
	// ErrEmptyMessage is returned for blank submissions; history is untouched.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrClosed is returned by Submit once the engine has been closed.
	ErrClosed = errors.New("conversation closed")
)

// Greeting is the opening assistant line for the given project.
func Greeting(project string) string {
	return fmt.Sprintf("Hello! I'm PropPilot for project %s. How can I help you refine this proposal? Try commands like 'make executive summary shorter'.", project)
}

func newMessage(sender Sender, text string, now time.Time) Message {
	return Message{ID: newID(), Sender: sender, Text: text, CreatedAt: now}
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
