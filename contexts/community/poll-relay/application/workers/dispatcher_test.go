package workers

import (
	"context"
	"errors"
	"testing"

	"quorum/contexts/community/poll-relay/adapters/memory"
	"quorum/contexts/community/poll-relay/application/commands"
	"quorum/contexts/community/poll-relay/domain/entities"
	"quorum/contexts/community/poll-relay/ports"
)

const testBotID = entities.UserID(999)

func newDispatcher(feed *memory.Feed) (UpdateDispatcher, *memory.Store, *memory.Messenger) {
	store := memory.NewStore(nil)
	messenger := memory.NewMessenger(ports.BotProfile{ID: testBotID, Username: "quorum_bot"})
	dispatcher := UpdateDispatcher{
		Source: feed,
		Relay: commands.RelayUseCase{
			BotID:     testBotID,
			Ledger:    commands.VoteLedger{Polls: store},
			Residents: store,
			Roles:     store,
			Messenger: messenger,
		},
		Offsets:   store,
		BatchSize: 10,
	}
	return dispatcher, store, messenger
}

func pollUpdate(updateID int64, from entities.UserID) ports.Update {
	return ports.Update{
		UpdateID: updateID,
		Message: &entities.Message{
			ChatID:    -100200,
			MessageID: entities.MessageID(updateID),
			From:      from,
			Poll: &entities.Poll{
				ID:       "orig-poll",
				Question: "Meeting day?",
				Options:  []string{"mon", "tue"},
				Type:     entities.PollTypeRegular,
			},
		},
	}
}

func TestRunOnceDispatchesBatchAndAdvancesOffset(t *testing.T) {
	feed := memory.NewFeed()
	dispatcher, store, messenger := newDispatcher(feed)
	store.SetResident(entities.Resident{ID: 42})

	feed.Append(
		pollUpdate(11, 42),
		ports.Update{UpdateID: 12},
		ports.Update{
			UpdateID:   13,
			VoteAnswer: &entities.VoteAnswer{PollID: "poll-1", UserID: 42, OptionIDs: []int{0}},
		},
	)

	if err := dispatcher.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once failed: %v", err)
	}

	if len(messenger.Polls) != 1 {
		t.Fatalf("expected one relayed poll, got %d", len(messenger.Polls))
	}
	offset, err := store.LoadOffset(context.Background())
	if err != nil {
		t.Fatalf("load offset failed: %v", err)
	}
	if offset != 13 {
		t.Fatalf("expected offset 13, got %d", offset)
	}
}

func TestRunOnceSkipsAlreadySeenUpdates(t *testing.T) {
	feed := memory.NewFeed(pollUpdate(11, 42))
	dispatcher, store, messenger := newDispatcher(feed)
	store.SetResident(entities.Resident{ID: 42})

	if err := dispatcher.RunOnce(context.Background()); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if err := dispatcher.RunOnce(context.Background()); err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if len(messenger.Polls) != 1 {
		t.Fatalf("update must be handled exactly once, got %d relays", len(messenger.Polls))
	}
	offset, err := store.LoadOffset(context.Background())
	if err != nil {
		t.Fatalf("load offset failed: %v", err)
	}
	if offset != 11 {
		t.Fatalf("expected offset 11, got %d", offset)
	}
}

func TestRunOnceAdvancesPastFailedHandlers(t *testing.T) {
	feed := memory.NewFeed(pollUpdate(21, 42))
	dispatcher, store, messenger := newDispatcher(feed)
	store.SetResident(entities.Resident{ID: 42})
	messenger.SendPollErr = errors.New("gateway unavailable")

	if err := dispatcher.RunOnce(context.Background()); err != nil {
		t.Fatalf("handler failures must not fail the cycle: %v", err)
	}
	offset, err := store.LoadOffset(context.Background())
	if err != nil {
		t.Fatalf("load offset failed: %v", err)
	}
	if offset != 21 {
		t.Fatalf("expected offset 21 after failed handler, got %d", offset)
	}
}

func TestRunOncePropagatesSourceErrors(t *testing.T) {
	feed := memory.NewFeed()
	feed.PollErr = errors.New("gateway unavailable")
	dispatcher, _, _ := newDispatcher(feed)

	if err := dispatcher.RunOnce(context.Background()); err == nil {
		t.Fatal("expected source error to propagate")
	}
}

func TestConcurrentVoteUpdatesAllLand(t *testing.T) {
	feed := memory.NewFeed()
	dispatcher, store, _ := newDispatcher(feed)

	seedErr := store.CreateTrackedPoll(context.Background(), entities.TrackedPoll{PollID: "poll-9"})
	if seedErr != nil {
		t.Fatalf("seed failed: %v", seedErr)
	}
	const voters = 20
	for i := 0; i < voters; i++ {
		feed.Append(ports.Update{
			UpdateID: int64(100 + i),
			VoteAnswer: &entities.VoteAnswer{
				PollID:    "poll-9",
				UserID:    entities.UserID(i + 1),
				OptionIDs: []int{1},
			},
		})
	}

	if err := dispatcher.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once failed: %v", err)
	}
	tracked, err := store.FindTrackedPoll(context.Background(), "poll-9")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(tracked.VotedUsers) != voters {
		t.Fatalf("expected %d voters, got %d", voters, len(tracked.VotedUsers))
	}
}
