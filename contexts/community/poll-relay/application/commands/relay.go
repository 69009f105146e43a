package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	application "quorum/contexts/community/poll-relay/application"
	"quorum/contexts/community/poll-relay/domain/entities"
	domainerrors "quorum/contexts/community/poll-relay/domain/errors"
	"quorum/contexts/community/poll-relay/ports"
)

const (
	// statusReportSeed is the placeholder text of the report message posted
	// right after a relay; vote events edit it in place from then on.
	statusReportSeed = "Poll info"
	// unknownPollReply is the only failure text rendered to end users.
	unknownPollReply = "Unknown poll"

	parseModeHTML = "HTML"
)

// RelayUseCase drives the poll relay: it classifies each incoming message
// once and executes the matching transition against the messenger and the
// vote ledger.
type RelayUseCase struct {
	BotID     entities.UserID
	Ledger    VoteLedger
	Residents ports.ResidentDirectory
	Roles     ports.Authorizer
	Messenger ports.Messenger
	Logger    *slog.Logger
}

// HandleMessage processes one incoming chat message. Messages that do not
// carry a poll, and polls that fail eligibility, are ignored without error.
func (uc RelayUseCase) HandleMessage(ctx context.Context, msg entities.Message) error {
	if msg.Poll == nil {
		return nil
	}
	role, err := uc.Roles.ResolveRole(ctx, msg.From)
	if err != nil {
		return fmt.Errorf("resolve role for user %d: %w", msg.From, err)
	}
	event := ClassifyMessage(msg, uc.BotID, role)
	switch event.Kind {
	case EventNewEligiblePoll:
		return uc.relayNewPoll(ctx, msg, event.Poll)
	case EventForwardedPollReference:
		return uc.replyWithReport(ctx, msg, event.PollID)
	default:
		return nil
	}
}

// relayNewPoll republishes the poll under the bot account, removes the
// original and starts tracking votes on the republished copy.
func (uc RelayUseCase) relayNewPoll(ctx context.Context, msg entities.Message, poll entities.Poll) error {
	logger := application.ResolveLogger(uc.Logger)

	posted, err := uc.Messenger.SendPoll(ctx, ports.PollDraft{
		ChatID:                msg.ChatID,
		Question:              poll.Question,
		Options:               poll.Options,
		IsAnonymous:           poll.IsAnonymous,
		AllowsMultipleAnswers: poll.AllowsMultipleAnswers,
		CloseDate:             poll.CloseDate,
		ThreadID:              msg.ThreadID,
		ReplyTo:               msg.ReplyTo,
	})
	if err != nil {
		return fmt.Errorf("republish poll: %w", err)
	}

	if err := uc.Messenger.DeleteMessage(ctx, msg.ChatID, msg.MessageID); err != nil {
		// The sender keeps their original poll, so the republished copy
		// must go: two live copies would split the vote. No tracked-poll
		// row may exist for the id we are about to unpublish.
		logger.Warn("original poll message could not be deleted, aborting relay",
			"event", "relay_delete_original_failed",
			"module", "community/poll-relay",
			"layer", "application",
			"chat_id", int64(msg.ChatID),
			"message_id", int64(msg.MessageID),
			"error", err.Error(),
		)
		if cleanupErr := uc.Messenger.DeleteMessage(ctx, posted.ChatID, posted.MessageID); cleanupErr != nil {
			logger.Error("republished poll cleanup failed",
				"event", "relay_cleanup_failed",
				"module", "community/poll-relay",
				"layer", "application",
				"chat_id", int64(posted.ChatID),
				"message_id", int64(posted.MessageID),
				"error", cleanupErr.Error(),
			)
		}
		return nil
	}

	report, err := uc.Messenger.SendMessage(ctx, ports.OutgoingMessage{
		ChatID:   msg.ChatID,
		Text:     statusReportSeed,
		ThreadID: msg.ThreadID,
		ReplyTo:  posted.MessageID,
	})
	if err != nil {
		return fmt.Errorf("post status report: %w", err)
	}

	if err := uc.Ledger.Create(ctx, entities.TrackedPoll{
		PollID:        posted.PollID,
		CreatorID:     msg.From,
		InfoChatID:    report.ChatID,
		InfoMessageID: report.MessageID,
	}); err != nil {
		return err
	}

	logger.Info("poll relayed",
		"event", "poll_relayed",
		"module", "community/poll-relay",
		"layer", "application",
		"poll_id", posted.PollID,
		"chat_id", int64(msg.ChatID),
		"creator_id", int64(msg.From),
	)
	return nil
}

// replyWithReport answers a forwarded poll reference with the current
// vote status. This path never mutates stored state.
func (uc RelayUseCase) replyWithReport(ctx context.Context, msg entities.Message, pollID string) error {
	tracked, err := uc.Ledger.Find(ctx, pollID)
	if errors.Is(err, domainerrors.ErrPollNotFound) {
		if _, sendErr := uc.Messenger.SendMessage(ctx, ports.OutgoingMessage{
			ChatID:                msg.ChatID,
			Text:                  unknownPollReply,
			ThreadID:              msg.ThreadID,
			ReplyTo:               msg.MessageID,
			DisableWebPagePreview: true,
		}); sendErr != nil {
			return fmt.Errorf("reply to unknown poll reference: %w", sendErr)
		}
		return nil
	}
	if err != nil {
		return err
	}

	report, err := uc.voteReport(ctx, tracked.VotedUsers)
	if err != nil {
		return err
	}
	if _, err := uc.Messenger.SendMessage(ctx, ports.OutgoingMessage{
		ChatID:                msg.ChatID,
		Text:                  report.Text(),
		ThreadID:              msg.ThreadID,
		ReplyTo:               msg.MessageID,
		DisableWebPagePreview: true,
	}); err != nil {
		return fmt.Errorf("reply with vote report: %w", err)
	}
	return nil
}

// HandleVoteAnswer folds one vote-answer event into the ledger and keeps
// the poll's status-report message current. Votes for polls the relay
// never tracked are silently ignored.
func (uc RelayUseCase) HandleVoteAnswer(ctx context.Context, answer entities.VoteAnswer) error {
	logger := application.ResolveLogger(uc.Logger)

	updated, err := uc.Ledger.ApplyVote(ctx, answer)
	if errors.Is(err, domainerrors.ErrPollNotFound) {
		logger.Debug("vote for untracked poll ignored",
			"event", "vote_untracked_poll",
			"module", "community/poll-relay",
			"layer", "application",
			"poll_id", answer.PollID,
			"user_id", int64(answer.UserID),
		)
		return nil
	}
	if err != nil {
		return err
	}

	report, err := uc.voteReport(ctx, updated.VotedUsers)
	if err != nil {
		return err
	}
	if err := uc.Messenger.EditMessageText(ctx, updated.InfoChatID, updated.InfoMessageID, ports.MessageEdit{
		Text:                  report.Text(),
		ParseMode:             parseModeHTML,
		DisableWebPagePreview: true,
	}); err != nil {
		return fmt.Errorf("edit status report: %w", err)
	}
	return nil
}

func (uc RelayUseCase) voteReport(ctx context.Context, roster []entities.UserID) (entities.VoteReport, error) {
	nonVoters, err := uc.Residents.ListNonVoters(ctx, roster)
	if err != nil {
		return entities.VoteReport{}, fmt.Errorf("list non-voters: %w", err)
	}
	return entities.VoteReport{VoterCount: len(roster), NonVoters: nonVoters}, nil
}
