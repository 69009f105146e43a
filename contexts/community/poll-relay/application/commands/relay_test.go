package commands

import (
	"context"
	"errors"
	"testing"

	"quorum/contexts/community/poll-relay/adapters/memory"
	"quorum/contexts/community/poll-relay/domain/entities"
	domainerrors "quorum/contexts/community/poll-relay/domain/errors"
	"quorum/contexts/community/poll-relay/ports"
)

const testBotID = entities.UserID(999)

type relayFixture struct {
	store     *memory.Store
	messenger *memory.Messenger
	relay     RelayUseCase
}

func newRelayFixture() relayFixture {
	store := memory.NewStore(nil)
	messenger := memory.NewMessenger(ports.BotProfile{ID: testBotID, Username: "quorum_bot"})
	return relayFixture{
		store:     store,
		messenger: messenger,
		relay: RelayUseCase{
			BotID:     testBotID,
			Ledger:    VoteLedger{Polls: store},
			Residents: store,
			Roles:     store,
			Messenger: messenger,
		},
	}
}

func eligiblePollMessage(from entities.UserID) entities.Message {
	return entities.Message{
		ChatID:    -100200,
		MessageID: 41,
		ThreadID:  7,
		From:      from,
		Poll: &entities.Poll{
			ID:       "orig-poll",
			Question: "Lunch spot?",
			Options:  []string{"ramen", "tacos"},
			Type:     entities.PollTypeRegular,
		},
	}
}

func forwardedPollMessage(from entities.UserID, pollID string) entities.Message {
	return entities.Message{
		ChatID:        entities.ChatID(from),
		MessageID:     77,
		From:          from,
		ChatIsPrivate: true,
		Forwarded:     true,
		ForwardFrom:   testBotID,
		Poll:          &entities.Poll{ID: pollID, Type: entities.PollTypeRegular},
	}
}

func TestRelayEligiblePoll(t *testing.T) {
	fx := newRelayFixture()
	fx.store.SetResident(entities.Resident{ID: 42, Profile: &entities.UserProfile{Username: "sender"}})

	msg := eligiblePollMessage(42)
	if err := fx.relay.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("handle message failed: %v", err)
	}

	if len(fx.messenger.Polls) != 1 {
		t.Fatalf("expected one republished poll, got %d", len(fx.messenger.Polls))
	}
	sent := fx.messenger.Polls[0]
	if sent.Draft.Question != "Lunch spot?" {
		t.Fatalf("question not preserved: %q", sent.Draft.Question)
	}
	if len(sent.Draft.Options) != 2 || sent.Draft.Options[0] != "ramen" || sent.Draft.Options[1] != "tacos" {
		t.Fatalf("options not preserved: %v", sent.Draft.Options)
	}
	if sent.Draft.ChatID != msg.ChatID || sent.Draft.ThreadID != msg.ThreadID {
		t.Fatalf("republished poll not placed in the original conversation: %+v", sent.Draft)
	}

	if len(fx.messenger.Deleted) != 1 || fx.messenger.Deleted[0].MessageID != msg.MessageID {
		t.Fatalf("original message not deleted: %+v", fx.messenger.Deleted)
	}

	report, ok := fx.messenger.LastMessage()
	if !ok {
		t.Fatal("expected a status report message")
	}
	if report.Message.Text != "Poll info" {
		t.Fatalf("unexpected status report text: %q", report.Message.Text)
	}
	if report.Message.ReplyTo != sent.Posted.MessageID {
		t.Fatalf("status report must reply to the republished poll, got reply_to=%d", report.Message.ReplyTo)
	}

	tracked, err := fx.store.FindTrackedPoll(context.Background(), sent.Posted.PollID)
	if err != nil {
		t.Fatalf("tracked poll not stored: %v", err)
	}
	if tracked.CreatorID != 42 {
		t.Fatalf("expected creator 42, got %d", tracked.CreatorID)
	}
	if len(tracked.VotedUsers) != 0 {
		t.Fatalf("expected empty roster, got %v", tracked.VotedUsers)
	}
	if tracked.InfoChatID != report.Message.ChatID || tracked.InfoMessageID != report.ID {
		t.Fatalf("status report location not stored: %+v", tracked)
	}
}

func TestRelayAbortsWhenOriginalCannotBeDeleted(t *testing.T) {
	fx := newRelayFixture()
	fx.store.SetResident(entities.Resident{ID: 42})

	msg := eligiblePollMessage(42)
	fx.messenger.DeleteErrs[msg.MessageID] = errors.New("message can't be deleted")

	if err := fx.relay.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("aborted relay must not propagate: %v", err)
	}

	if len(fx.messenger.Polls) != 1 {
		t.Fatalf("expected the republish attempt, got %d", len(fx.messenger.Polls))
	}
	posted := fx.messenger.Polls[0].Posted

	if len(fx.messenger.Deleted) != 1 || fx.messenger.Deleted[0].MessageID != posted.MessageID {
		t.Fatalf("expected compensating deletion of the republished copy, got %+v", fx.messenger.Deleted)
	}
	if len(fx.messenger.Messages) != 0 {
		t.Fatalf("no status report may be posted on abort, got %d", len(fx.messenger.Messages))
	}
	if _, err := fx.store.FindTrackedPoll(context.Background(), posted.PollID); !errors.Is(err, domainerrors.ErrPollNotFound) {
		t.Fatalf("no tracked poll may exist after abort, got %v", err)
	}
}

func TestRelayIgnoresGuestSender(t *testing.T) {
	fx := newRelayFixture()

	if err := fx.relay.HandleMessage(context.Background(), eligiblePollMessage(500)); err != nil {
		t.Fatalf("handle message failed: %v", err)
	}
	if len(fx.messenger.Polls) != 0 || len(fx.messenger.Messages) != 0 || len(fx.messenger.Deleted) != 0 {
		t.Fatal("guest poll must be ignored without side effects")
	}
}

func TestVoteFlowKeepsReportCurrent(t *testing.T) {
	fx := newRelayFixture()
	fx.store.SetAdmin(42)
	fx.store.SetResident(entities.Resident{ID: 10, Profile: &entities.UserProfile{Username: "alice"}})
	fx.store.SetResident(entities.Resident{ID: 11, Profile: &entities.UserProfile{Username: "bob"}})

	if err := fx.relay.HandleMessage(context.Background(), eligiblePollMessage(42)); err != nil {
		t.Fatalf("relay failed: %v", err)
	}
	pollID := fx.messenger.Polls[0].Posted.PollID
	report, _ := fx.messenger.LastMessage()

	vote := func(userID entities.UserID, options []int) {
		t.Helper()
		err := fx.relay.HandleVoteAnswer(context.Background(), entities.VoteAnswer{
			PollID:    pollID,
			UserID:    userID,
			OptionIDs: options,
		})
		if err != nil {
			t.Fatalf("vote from %d failed: %v", userID, err)
		}
	}

	vote(10, []int{3})
	if len(fx.messenger.Edits) != 1 {
		t.Fatalf("expected one edit, got %d", len(fx.messenger.Edits))
	}
	edit := fx.messenger.Edits[0]
	if edit.ChatID != report.Message.ChatID || edit.MessageID != report.ID {
		t.Fatalf("edit must target the stored status report, got %+v", edit)
	}
	if want := "Voted 1 users, Pending vote 1 users: @bob.\n"; edit.Edit.Text != want {
		t.Fatalf("expected %q, got %q", want, edit.Edit.Text)
	}

	vote(11, []int{0})
	edit = fx.messenger.Edits[len(fx.messenger.Edits)-1]
	if edit.Edit.Text != "Everyone voted!" {
		t.Fatalf("expected everyone-voted text, got %q", edit.Edit.Text)
	}

	vote(10, nil)
	edit = fx.messenger.Edits[len(fx.messenger.Edits)-1]
	if want := "Voted 1 users, Pending vote 1 users: @alice.\n"; edit.Edit.Text != want {
		t.Fatalf("expected %q after retraction, got %q", want, edit.Edit.Text)
	}
}

func TestVoteForUntrackedPollIsIgnored(t *testing.T) {
	fx := newRelayFixture()

	err := fx.relay.HandleVoteAnswer(context.Background(), entities.VoteAnswer{
		PollID:    "never-relayed",
		UserID:    10,
		OptionIDs: []int{1},
	})
	if err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
	if len(fx.messenger.Edits) != 0 {
		t.Fatalf("no edit may happen for untracked polls, got %d", len(fx.messenger.Edits))
	}
}

func TestForwardUnknownPoll(t *testing.T) {
	fx := newRelayFixture()
	fx.store.SetResident(entities.Resident{ID: 10})

	msg := forwardedPollMessage(10, "missing")
	if err := fx.relay.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("handle message failed: %v", err)
	}

	reply, ok := fx.messenger.LastMessage()
	if !ok {
		t.Fatal("expected a reply")
	}
	if reply.Message.Text != "Unknown poll" {
		t.Fatalf("expected %q, got %q", "Unknown poll", reply.Message.Text)
	}
	if reply.Message.ReplyTo != msg.MessageID {
		t.Fatalf("reply must target the forwarded message, got reply_to=%d", reply.Message.ReplyTo)
	}
}

func TestForwardTrackedPollRepliesWithReport(t *testing.T) {
	fx := newRelayFixture()
	fx.store.SetAdmin(42)
	fx.store.SetResident(entities.Resident{ID: 10, Profile: &entities.UserProfile{Username: "alice"}})
	fx.store.SetResident(entities.Resident{ID: 11, Profile: &entities.UserProfile{Username: "bob"}})

	if err := fx.relay.HandleMessage(context.Background(), eligiblePollMessage(42)); err != nil {
		t.Fatalf("relay failed: %v", err)
	}
	pollID := fx.messenger.Polls[0].Posted.PollID
	err := fx.relay.HandleVoteAnswer(context.Background(), entities.VoteAnswer{
		PollID:    pollID,
		UserID:    10,
		OptionIDs: []int{1},
	})
	if err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	if err := fx.relay.HandleMessage(context.Background(), forwardedPollMessage(11, pollID)); err != nil {
		t.Fatalf("forward failed: %v", err)
	}
	reply, _ := fx.messenger.LastMessage()
	if want := "Voted 1 users, Pending vote 1 users: @bob.\n"; reply.Message.Text != want {
		t.Fatalf("expected %q, got %q", want, reply.Message.Text)
	}
	if !reply.Message.DisableWebPagePreview {
		t.Fatal("report reply must disable link previews")
	}
}
