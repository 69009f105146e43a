package entities

import (
	"sort"
	"time"
)

// Identifier types mirror the platform's numeric id spaces so they cannot be
// mixed up in call sites.
type (
	UserID    int64
	ChatID    int64
	MessageID int64
)

type PollType string

const (
	PollTypeRegular PollType = "regular"
	PollTypeQuiz    PollType = "quiz"
)

// Poll is the platform poll object as consumed from the messenger.
type Poll struct {
	ID                    string
	Question              string
	Options               []string
	TotalVoterCount       int
	IsClosed              bool
	IsAnonymous           bool
	Type                  PollType
	AllowsMultipleAnswers bool
	CloseDate             *time.Time
}

// VoteAnswer is the platform's native vote notification. An empty OptionIDs
// means the user retracted their vote.
type VoteAnswer struct {
	PollID    string
	UserID    UserID
	OptionIDs []int
}

// Message carries the metadata the relay needs from an incoming message.
// ThreadID and ReplyTo are zero when absent. ForwardFrom is set only when
// the forward origin is a visible user account.
type Message struct {
	ChatID        ChatID
	MessageID     MessageID
	ThreadID      int
	ReplyTo       MessageID
	From          UserID
	ChatIsPrivate bool
	Forwarded     bool
	ForwardFrom   UserID
	Poll          *Poll
}

// UserProfile is the cached display profile for a participant. Username is
// empty when the participant has no public handle.
type UserProfile struct {
	ID        UserID
	Username  string
	FirstName string
	LastName  string
}

// TrackedPoll correlates a relayed poll with its status-report location and
// accumulated voter roster. VotedUsers is kept strictly ascending with no
// duplicates; every mutation goes through WithVote.
type TrackedPoll struct {
	PollID        string
	CreatorID     UserID
	InfoChatID    ChatID
	InfoMessageID MessageID
	VotedUsers    []UserID
}

// WithVote returns the poll with user folded into the roster: removed when
// retract is set, inserted otherwise. Inserting a present id or removing an
// absent one is a no-op, so replaying the same event is idempotent.
func (p TrackedPoll) WithVote(user UserID, retract bool) TrackedPoll {
	roster := make([]UserID, 0, len(p.VotedUsers)+1)
	for _, id := range p.VotedUsers {
		if retract && id == user {
			continue
		}
		roster = append(roster, id)
	}
	if !retract {
		roster = append(roster, user)
	}
	p.VotedUsers = NormalizeRoster(roster)
	return p
}

// NormalizeRoster sorts ids ascending and drops duplicates.
func NormalizeRoster(ids []UserID) []UserID {
	normalized := make([]UserID, len(ids))
	copy(normalized, ids)
	sort.Slice(normalized, func(i, j int) bool { return normalized[i] < normalized[j] })
	deduped := normalized[:0]
	var last UserID
	for i, id := range normalized {
		if i > 0 && id == last {
			continue
		}
		deduped = append(deduped, id)
		last = id
	}
	return deduped
}
