package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type TrackedPollResponse struct {
	PollID        string  `json:"poll_id"`
	CreatorID     int64   `json:"creator_id"`
	InfoChatID    int64   `json:"info_chat_id"`
	InfoMessageID int64   `json:"info_message_id"`
	VotedUsers    []int64 `json:"voted_users"`
}

type ResidentResponse struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type ResidentsResponse struct {
	Items []ResidentResponse `json:"items"`
}

type PollStatusResponse struct {
	PollID     string             `json:"poll_id"`
	VoterCount int                `json:"voter_count"`
	NonVoters  []ResidentResponse `json:"non_voters"`
	ReportText string             `json:"report_text"`
}
