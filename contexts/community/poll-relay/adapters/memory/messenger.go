package memory

import (
	"context"
	"fmt"
	"sync"

	"quorum/contexts/community/poll-relay/domain/entities"
	"quorum/contexts/community/poll-relay/ports"
)

// SentPoll pairs the draft the relay submitted with the location the
// messenger assigned to it.
type SentPoll struct {
	Draft  ports.PollDraft
	Posted ports.PostedPoll
}

// SentMessage pairs an outgoing message with its assigned id.
type SentMessage struct {
	Message ports.OutgoingMessage
	ID      entities.MessageID
}

// AppliedEdit records one in-place text replacement.
type AppliedEdit struct {
	ChatID    entities.ChatID
	MessageID entities.MessageID
	Edit      ports.MessageEdit
}

// Deletion records one removed message.
type Deletion struct {
	ChatID    entities.ChatID
	MessageID entities.MessageID
}

// Messenger is an in-memory gateway double. It assigns sequential message
// and poll ids and records every call so tests can assert on the outbound
// traffic. Error knobs force individual operations to fail.
type Messenger struct {
	mu sync.Mutex

	Self ports.BotProfile

	SendPollErr    error
	SendMessageErr error
	EditErr        error
	DeleteErrs     map[entities.MessageID]error

	Polls    []SentPoll
	Messages []SentMessage
	Edits    []AppliedEdit
	Deleted  []Deletion

	nextMessageID entities.MessageID
	nextPollSeq   int
}

func NewMessenger(self ports.BotProfile) *Messenger {
	return &Messenger{
		Self:          self,
		DeleteErrs:    make(map[entities.MessageID]error),
		nextMessageID: 1000,
	}
}

func (m *Messenger) Me(_ context.Context) (ports.BotProfile, error) {
	return m.Self, nil
}

func (m *Messenger) SendPoll(_ context.Context, draft ports.PollDraft) (ports.PostedPoll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendPollErr != nil {
		return ports.PostedPoll{}, m.SendPollErr
	}
	m.nextMessageID++
	m.nextPollSeq++
	posted := ports.PostedPoll{
		PollID:    fmt.Sprintf("poll-%d", m.nextPollSeq),
		ChatID:    draft.ChatID,
		MessageID: m.nextMessageID,
	}
	m.Polls = append(m.Polls, SentPoll{Draft: draft, Posted: posted})
	return posted, nil
}

func (m *Messenger) SendMessage(_ context.Context, msg ports.OutgoingMessage) (ports.PostedMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendMessageErr != nil {
		return ports.PostedMessage{}, m.SendMessageErr
	}
	m.nextMessageID++
	m.Messages = append(m.Messages, SentMessage{Message: msg, ID: m.nextMessageID})
	return ports.PostedMessage{ChatID: msg.ChatID, MessageID: m.nextMessageID}, nil
}

func (m *Messenger) EditMessageText(
	_ context.Context,
	chatID entities.ChatID,
	messageID entities.MessageID,
	edit ports.MessageEdit,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EditErr != nil {
		return m.EditErr
	}
	m.Edits = append(m.Edits, AppliedEdit{ChatID: chatID, MessageID: messageID, Edit: edit})
	return nil
}

func (m *Messenger) DeleteMessage(_ context.Context, chatID entities.ChatID, messageID entities.MessageID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.DeleteErrs[messageID]; err != nil {
		return err
	}
	m.Deleted = append(m.Deleted, Deletion{ChatID: chatID, MessageID: messageID})
	return nil
}

// LastMessage returns the most recently sent message.
func (m *Messenger) LastMessage() (SentMessage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Messages) == 0 {
		return SentMessage{}, false
	}
	return m.Messages[len(m.Messages)-1], true
}

var _ ports.Messenger = (*Messenger)(nil)
