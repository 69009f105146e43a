package commands

import (
	"testing"

	"quorum/contexts/community/poll-relay/domain/entities"
)

const classifierBotID = entities.UserID(900)

func eligiblePoll() *entities.Poll {
	return &entities.Poll{
		ID:       "poll-1",
		Question: "Pizza night?",
		Options:  []string{"yes", "no"},
		Type:     entities.PollTypeRegular,
	}
}

func TestClassifyNewEligiblePoll(t *testing.T) {
	msg := entities.Message{ChatID: 5, MessageID: 10, From: 42, Poll: eligiblePoll()}

	got := ClassifyMessage(msg, classifierBotID, entities.RoleResident)
	if got.Kind != EventNewEligiblePoll {
		t.Fatalf("expected new-poll event, got %v", got.Kind)
	}
	if got.Poll.ID != "poll-1" {
		t.Fatalf("expected poll payload, got %+v", got.Poll)
	}
}

func TestClassifyRejectsIneligibleNewPolls(t *testing.T) {
	withVotes := eligiblePoll()
	withVotes.TotalVoterCount = 3
	closed := eligiblePoll()
	closed.IsClosed = true
	anonymous := eligiblePoll()
	anonymous.IsAnonymous = true
	quiz := eligiblePoll()
	quiz.Type = entities.PollTypeQuiz

	cases := []struct {
		name string
		poll *entities.Poll
		role entities.Role
	}{
		{"votes already cast", withVotes, entities.RoleResident},
		{"closed", closed, entities.RoleResident},
		{"anonymous", anonymous, entities.RoleResident},
		{"quiz", quiz, entities.RoleResident},
		{"sender below resident", eligiblePoll(), entities.RoleGuest},
	}
	for _, tc := range cases {
		msg := entities.Message{ChatID: 5, MessageID: 10, From: 42, Poll: tc.poll}
		if got := ClassifyMessage(msg, classifierBotID, tc.role); got.Kind != EventIgnored {
			t.Fatalf("%s: expected ignored, got %v", tc.name, got.Kind)
		}
	}
}

func TestClassifyAdminMeetsThreshold(t *testing.T) {
	msg := entities.Message{ChatID: 5, MessageID: 10, From: 42, Poll: eligiblePoll()}
	if got := ClassifyMessage(msg, classifierBotID, entities.RoleAdmin); got.Kind != EventNewEligiblePoll {
		t.Fatalf("expected new-poll event for admin, got %v", got.Kind)
	}
}

func TestClassifyForwardedPollReference(t *testing.T) {
	msg := entities.Message{
		ChatID:        7,
		MessageID:     11,
		From:          42,
		ChatIsPrivate: true,
		Forwarded:     true,
		ForwardFrom:   classifierBotID,
		Poll:          eligiblePoll(),
	}

	got := ClassifyMessage(msg, classifierBotID, entities.RoleResident)
	if got.Kind != EventForwardedPollReference {
		t.Fatalf("expected forward event, got %v", got.Kind)
	}
	if got.PollID != "poll-1" {
		t.Fatalf("expected poll id payload, got %q", got.PollID)
	}
}

func TestClassifyRejectsIneligibleForwards(t *testing.T) {
	base := entities.Message{
		ChatID:        7,
		MessageID:     11,
		From:          42,
		ChatIsPrivate: true,
		Forwarded:     true,
		ForwardFrom:   classifierBotID,
		Poll:          eligiblePoll(),
	}

	notFromBot := base
	notFromBot.ForwardFrom = 123

	hiddenOrigin := base
	hiddenOrigin.ForwardFrom = 0

	groupChat := base
	groupChat.ChatIsPrivate = false

	cases := []struct {
		name string
		msg  entities.Message
		role entities.Role
	}{
		{"forwarded from someone else", notFromBot, entities.RoleResident},
		{"hidden forward origin", hiddenOrigin, entities.RoleResident},
		{"group chat", groupChat, entities.RoleResident},
		{"sender below resident", base, entities.RoleGuest},
	}
	for _, tc := range cases {
		if got := ClassifyMessage(tc.msg, classifierBotID, tc.role); got.Kind != EventIgnored {
			t.Fatalf("%s: expected ignored, got %v", tc.name, got.Kind)
		}
	}
}

// A forwarded copy of a zero-vote open poll must never be treated as a new
// poll to republish.
func TestClassifyForwardNeverBecomesNewPoll(t *testing.T) {
	msg := entities.Message{
		ChatID:      7,
		MessageID:   11,
		From:        42,
		Forwarded:   true,
		ForwardFrom: 123,
		Poll:        eligiblePoll(),
	}
	if got := ClassifyMessage(msg, classifierBotID, entities.RoleAdmin); got.Kind != EventIgnored {
		t.Fatalf("expected ignored, got %v", got.Kind)
	}
}

func TestClassifyMessageWithoutPollIgnored(t *testing.T) {
	msg := entities.Message{ChatID: 5, MessageID: 10, From: 42}
	if got := ClassifyMessage(msg, classifierBotID, entities.RoleAdmin); got.Kind != EventIgnored {
		t.Fatalf("expected ignored, got %v", got.Kind)
	}
}
