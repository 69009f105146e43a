package httpadapter

import (
	"context"
	"log/slog"

	"quorum/contexts/community/poll-relay/application/queries"
	"quorum/contexts/community/poll-relay/domain/entities"
	httptransport "quorum/contexts/community/poll-relay/transport/http"
)

type Handler struct {
	Reports queries.ReportUseCase
	Logger  *slog.Logger
}

// GetTrackedPollHandler godoc
// @Summary Get a tracked poll
// @Description Returns the stored record of a relayed poll, roster included.
// @Tags poll-relay
// @Produce json
// @Param poll_id path string true "External poll id"
// @Success 200 {object} httptransport.TrackedPollResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/v1/polls/{poll_id} [get]
func (h Handler) GetTrackedPollHandler(ctx context.Context, pollID string) (httptransport.TrackedPollResponse, error) {
	tracked, err := h.Reports.TrackedPoll(ctx, pollID)
	if err != nil {
		return httptransport.TrackedPollResponse{}, err
	}
	roster := make([]int64, 0, len(tracked.VotedUsers))
	for _, userID := range tracked.VotedUsers {
		roster = append(roster, int64(userID))
	}
	return httptransport.TrackedPollResponse{
		PollID:        tracked.PollID,
		CreatorID:     int64(tracked.CreatorID),
		InfoChatID:    int64(tracked.InfoChatID),
		InfoMessageID: int64(tracked.InfoMessageID),
		VotedUsers:    roster,
	}, nil
}

// PollStatusHandler godoc
// @Summary Non-voter report for a tracked poll
// @Description Resolves which eligible residents have not voted yet and renders the report text.
// @Tags poll-relay
// @Produce json
// @Param poll_id path string true "External poll id"
// @Success 200 {object} httptransport.PollStatusResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/v1/polls/{poll_id}/non-voters [get]
func (h Handler) PollStatusHandler(ctx context.Context, pollID string) (httptransport.PollStatusResponse, error) {
	report, err := h.Reports.PollStatus(ctx, pollID)
	if err != nil {
		return httptransport.PollStatusResponse{}, err
	}
	return httptransport.PollStatusResponse{
		PollID:     pollID,
		VoterCount: report.VoterCount,
		NonVoters:  mapResidents(report.NonVoters),
		ReportText: report.Text(),
	}, nil
}

// ListResidentsHandler godoc
// @Summary List eligible residents
// @Description Returns every resident currently eligible to vote, in ascending id order.
// @Tags poll-relay
// @Produce json
// @Success 200 {object} httptransport.ResidentsResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/v1/residents [get]
func (h Handler) ListResidentsHandler(ctx context.Context) (httptransport.ResidentsResponse, error) {
	residents, err := h.Reports.ListResidents(ctx)
	if err != nil {
		return httptransport.ResidentsResponse{}, err
	}
	return httptransport.ResidentsResponse{Items: mapResidents(residents)}, nil
}

func mapResidents(residents []entities.Resident) []httptransport.ResidentResponse {
	items := make([]httptransport.ResidentResponse, 0, len(residents))
	for _, resident := range residents {
		item := httptransport.ResidentResponse{UserID: int64(resident.ID)}
		if resident.Profile != nil {
			item.Username = resident.Profile.Username
			item.FirstName = resident.Profile.FirstName
			item.LastName = resident.Profile.LastName
		}
		items = append(items, item)
	}
	return items
}
