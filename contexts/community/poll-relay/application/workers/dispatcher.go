package workers

import (
	"context"
	"log/slog"
	"sync"

	application "quorum/contexts/community/poll-relay/application"
	"quorum/contexts/community/poll-relay/application/commands"
	"quorum/contexts/community/poll-relay/ports"

	"github.com/google/uuid"
)

// UpdateDispatcher pulls gateway updates and fans each one out to the
// relay as its own unit of work. The cursor advances once the whole batch
// has been handled, errors included: a failed update is logged and not
// retried.
type UpdateDispatcher struct {
	Source    ports.UpdateSource
	Relay     commands.RelayUseCase
	Offsets   ports.OffsetStore
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce fetches one bounded batch of updates past the stored cursor,
// handles every update concurrently and persists the advanced cursor.
func (d UpdateDispatcher) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(d.Logger)
	limit := d.BatchSize
	if limit <= 0 {
		limit = 100
	}

	offset, err := d.Offsets.LoadOffset(ctx)
	if err != nil {
		logger.Error("update offset load failed",
			"event", "update_offset_load_failed",
			"module", "community/poll-relay",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	updates, err := d.Source.PollUpdates(ctx, offset, limit)
	if err != nil {
		logger.Error("update poll failed",
			"event", "update_poll_failed",
			"module", "community/poll-relay",
			"layer", "worker",
			"offset", offset,
			"error", err.Error(),
		)
		return err
	}
	if len(updates) == 0 {
		logger.Debug("update dispatch cycle found no updates",
			"event", "update_dispatch_noop",
			"module", "community/poll-relay",
			"layer", "worker",
			"offset", offset,
		)
		return nil
	}

	var wg sync.WaitGroup
	for _, update := range updates {
		wg.Add(1)
		go func(update ports.Update) {
			defer wg.Done()
			d.dispatch(ctx, update)
		}(update)
	}
	wg.Wait()

	// Updates arrive in ascending id order, so the last id is the new
	// cursor position.
	next := updates[len(updates)-1].UpdateID
	if err := d.Offsets.SaveOffset(ctx, next); err != nil {
		logger.Error("update offset save failed",
			"event", "update_offset_save_failed",
			"module", "community/poll-relay",
			"layer", "worker",
			"offset", next,
			"error", err.Error(),
		)
		return err
	}

	logger.Info("update dispatch cycle completed",
		"event", "update_dispatch_completed",
		"module", "community/poll-relay",
		"layer", "worker",
		"update_count", len(updates),
		"offset", next,
	)
	return nil
}

func (d UpdateDispatcher) dispatch(ctx context.Context, update ports.Update) {
	logger := application.ResolveLogger(d.Logger).With(
		"correlation_id", uuid.NewString(),
		"update_id", update.UpdateID,
	)
	relay := d.Relay
	relay.Logger = logger

	switch {
	case update.Message != nil:
		if err := relay.HandleMessage(ctx, *update.Message); err != nil {
			logger.Error("message handling failed",
				"event", "update_message_failed",
				"module", "community/poll-relay",
				"layer", "worker",
				"error", err.Error(),
			)
		}
	case update.VoteAnswer != nil:
		if err := relay.HandleVoteAnswer(ctx, *update.VoteAnswer); err != nil {
			logger.Error("vote handling failed",
				"event", "update_vote_failed",
				"module", "community/poll-relay",
				"layer", "worker",
				"error", err.Error(),
			)
		}
	default:
		logger.Debug("update without message or vote ignored",
			"event", "update_ignored",
			"module", "community/poll-relay",
			"layer", "worker",
		)
	}
}
