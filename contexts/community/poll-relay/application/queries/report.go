package queries

import (
	"context"
	"strings"

	"quorum/contexts/community/poll-relay/domain/entities"
	"quorum/contexts/community/poll-relay/ports"
)

type ReportUseCase struct {
	Polls     ports.TrackedPollRepository
	Residents ports.ResidentDirectory
}

func (uc ReportUseCase) TrackedPoll(ctx context.Context, pollID string) (entities.TrackedPoll, error) {
	return uc.Polls.FindTrackedPoll(ctx, strings.TrimSpace(pollID))
}

func (uc ReportUseCase) PollStatus(ctx context.Context, pollID string) (entities.VoteReport, error) {
	tracked, err := uc.Polls.FindTrackedPoll(ctx, strings.TrimSpace(pollID))
	if err != nil {
		return entities.VoteReport{}, err
	}
	nonVoters, err := uc.Residents.ListNonVoters(ctx, tracked.VotedUsers)
	if err != nil {
		return entities.VoteReport{}, err
	}
	return entities.VoteReport{VoterCount: len(tracked.VotedUsers), NonVoters: nonVoters}, nil
}

func (uc ReportUseCase) ListResidents(ctx context.Context) ([]entities.Resident, error) {
	return uc.Residents.ListResidents(ctx)
}
