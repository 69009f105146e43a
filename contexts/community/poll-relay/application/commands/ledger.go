package commands

import (
	"context"
	"errors"
	"log/slog"

	application "quorum/contexts/community/poll-relay/application"
	"quorum/contexts/community/poll-relay/domain/entities"
	domainerrors "quorum/contexts/community/poll-relay/domain/errors"
	"quorum/contexts/community/poll-relay/ports"
)

// VoteLedger wraps the tracked-poll repository with the vote accounting
// rules. Atomicity of the read-modify-write lives in the repository; the
// empty-option-set retraction rule lives here.
type VoteLedger struct {
	Polls  ports.TrackedPollRepository
	Logger *slog.Logger
}

// Create records a freshly relayed poll. The roster starts empty and the
// insert fails with ErrPollAlreadyTracked when the poll id is taken.
func (l VoteLedger) Create(ctx context.Context, poll entities.TrackedPoll) error {
	logger := application.ResolveLogger(l.Logger)
	poll.VotedUsers = entities.NormalizeRoster(poll.VotedUsers)
	if err := l.Polls.CreateTrackedPoll(ctx, poll); err != nil {
		logger.Error("tracked poll create failed",
			"event", "tracked_poll_create_failed",
			"module", "community/poll-relay",
			"layer", "application",
			"poll_id", poll.PollID,
			"error", err.Error(),
		)
		return err
	}
	logger.Info("tracked poll created",
		"event", "tracked_poll_created",
		"module", "community/poll-relay",
		"layer", "application",
		"poll_id", poll.PollID,
		"creator_id", int64(poll.CreatorID),
		"info_chat_id", int64(poll.InfoChatID),
		"info_message_id", int64(poll.InfoMessageID),
	)
	return nil
}

// ApplyVote folds one vote-answer event into the poll's roster: an empty
// chosen-option set retracts the vote, anything else casts it. Unknown
// polls return ErrPollNotFound; the caller decides whether that is a
// silent no-op.
func (l VoteLedger) ApplyVote(ctx context.Context, answer entities.VoteAnswer) (entities.TrackedPoll, error) {
	logger := application.ResolveLogger(l.Logger)
	retract := len(answer.OptionIDs) == 0
	updated, err := l.Polls.ApplyVote(ctx, answer.PollID, answer.UserID, retract)
	if err != nil {
		if !errors.Is(err, domainerrors.ErrPollNotFound) {
			logger.Error("vote apply failed",
				"event", "vote_apply_failed",
				"module", "community/poll-relay",
				"layer", "application",
				"poll_id", answer.PollID,
				"user_id", int64(answer.UserID),
				"error", err.Error(),
			)
		}
		return entities.TrackedPoll{}, err
	}
	logger.Info("vote applied",
		"event", "vote_applied",
		"module", "community/poll-relay",
		"layer", "application",
		"poll_id", answer.PollID,
		"user_id", int64(answer.UserID),
		"retracted", retract,
		"roster_size", len(updated.VotedUsers),
	)
	return updated, nil
}

// Find returns the tracked poll for pollID, or ErrPollNotFound.
func (l VoteLedger) Find(ctx context.Context, pollID string) (entities.TrackedPoll, error) {
	return l.Polls.FindTrackedPoll(ctx, pollID)
}
