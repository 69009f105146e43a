package commands

import (
	"quorum/contexts/community/poll-relay/domain/entities"
)

// EventKind is the classification of one inbound message.
type EventKind int

const (
	// EventIgnored matches no relay transition.
	EventIgnored EventKind = iota
	// EventNewEligiblePoll is a fresh poll the relay should republish.
	EventNewEligiblePoll
	// EventForwardedPollReference asks for the non-voter report of a
	// previously relayed poll.
	EventForwardedPollReference
)

// ClassifiedEvent is the tagged result of classification. Poll is set for
// EventNewEligiblePoll, PollID for EventForwardedPollReference.
type ClassifiedEvent struct {
	Kind   EventKind
	Poll   entities.Poll
	PollID string
}

// ClassifyMessage decides which relay transition, if any, a message
// triggers. It is pure: the caller resolves the sender's role beforehand.
// Forward-ness discriminates first, so a forwarded copy of an open poll can
// never classify as a new one.
func ClassifyMessage(msg entities.Message, botID entities.UserID, senderRole entities.Role) ClassifiedEvent {
	if msg.Poll == nil {
		return ClassifiedEvent{Kind: EventIgnored}
	}

	if msg.Forwarded {
		if msg.ForwardFrom == botID &&
			msg.ChatIsPrivate &&
			senderRole.Meets(entities.RoleResident) {
			return ClassifiedEvent{Kind: EventForwardedPollReference, PollID: msg.Poll.ID}
		}
		return ClassifiedEvent{Kind: EventIgnored}
	}

	poll := *msg.Poll
	// Polls that already collected votes or closed are left alone; anonymous
	// polls have nothing a roster could track; quiz polls expose no answer
	// data to bots.
	if poll.TotalVoterCount == 0 &&
		!poll.IsClosed &&
		!poll.IsAnonymous &&
		poll.Type == entities.PollTypeRegular &&
		senderRole.Meets(entities.RoleResident) {
		return ClassifiedEvent{Kind: EventNewEligiblePoll, Poll: poll}
	}
	return ClassifiedEvent{Kind: EventIgnored}
}
