// Package ports declares the boundary interfaces of the poll-relay
// service: the messaging gateway it relays through, the update feed it
// consumes and the repositories behind the vote ledger.
package ports

import (
	"context"
	"time"

	"quorum/contexts/community/poll-relay/domain/entities"
)

// BotProfile identifies the gateway bot account the relay republishes
// polls through.
type BotProfile struct {
	ID       entities.UserID
	Username string
}

// PollDraft is the payload for republishing a poll under the bot account.
type PollDraft struct {
	ChatID                entities.ChatID
	Question              string
	Options               []string
	IsAnonymous           bool
	AllowsMultipleAnswers bool
	CloseDate             *time.Time
	ThreadID              int
	ReplyTo               entities.MessageID
}

// PostedPoll reports where a republished poll landed.
type PostedPoll struct {
	PollID    string
	ChatID    entities.ChatID
	MessageID entities.MessageID
}

// OutgoingMessage is a plain text message to post.
type OutgoingMessage struct {
	ChatID                entities.ChatID
	Text                  string
	ThreadID              int
	ReplyTo               entities.MessageID
	ParseMode             string
	DisableWebPagePreview bool
}

// PostedMessage reports where a sent message landed.
type PostedMessage struct {
	ChatID    entities.ChatID
	MessageID entities.MessageID
}

// MessageEdit replaces the text of an already posted message.
type MessageEdit struct {
	Text                  string
	ParseMode             string
	DisableWebPagePreview bool
}

// Messenger is the messaging gateway the relay posts through.
type Messenger interface {
	Me(ctx context.Context) (BotProfile, error)
	SendPoll(ctx context.Context, draft PollDraft) (PostedPoll, error)
	SendMessage(ctx context.Context, msg OutgoingMessage) (PostedMessage, error)
	EditMessageText(ctx context.Context, chatID entities.ChatID, messageID entities.MessageID, edit MessageEdit) error
	DeleteMessage(ctx context.Context, chatID entities.ChatID, messageID entities.MessageID) error
}

// Update is one gateway event. Exactly one of Message or VoteAnswer is set.
type Update struct {
	UpdateID   int64
	Message    *entities.Message
	VoteAnswer *entities.VoteAnswer
}

// UpdateSource hands out batches of gateway updates in ascending id order,
// starting after the given offset.
type UpdateSource interface {
	PollUpdates(ctx context.Context, offset int64, limit int) ([]Update, error)
}

// Authorizer resolves the community role of a user.
type Authorizer interface {
	ResolveRole(ctx context.Context, userID entities.UserID) (entities.Role, error)
}

// ResidentDirectory lists the residents currently eligible to vote.
type ResidentDirectory interface {
	ListResidents(ctx context.Context) ([]entities.Resident, error)
	// ListNonVoters returns the eligible residents whose ids are not in
	// roster, in ascending id order.
	ListNonVoters(ctx context.Context, roster []entities.UserID) ([]entities.Resident, error)
}

// TrackedPollRepository persists tracked polls and their voter rosters.
type TrackedPollRepository interface {
	// CreateTrackedPoll inserts a new tracked poll. It fails with
	// ErrPollAlreadyTracked when the poll id is already present.
	CreateTrackedPoll(ctx context.Context, poll entities.TrackedPoll) error
	// FindTrackedPoll loads a tracked poll, or ErrPollNotFound.
	FindTrackedPoll(ctx context.Context, pollID string) (entities.TrackedPoll, error)
	// ApplyVote atomically folds one vote into the poll's roster and
	// returns the updated record, or ErrPollNotFound. Concurrent calls
	// for the same poll must not lose each other's writes.
	ApplyVote(ctx context.Context, pollID string, userID entities.UserID, retract bool) (entities.TrackedPoll, error)
}

// OffsetStore persists the dispatcher's update cursor between runs.
type OffsetStore interface {
	LoadOffset(ctx context.Context) (int64, error)
	SaveOffset(ctx context.Context, offset int64) error
}
