package gateway

import (
	"time"

	"quorum/contexts/community/poll-relay/domain/entities"
	"quorum/contexts/community/poll-relay/ports"
)

type botProfileDTO struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type updatesResponse struct {
	Items []updateDTO `json:"items"`
}

type updateDTO struct {
	UpdateID   int64          `json:"update_id"`
	Message    *messageDTO    `json:"message,omitempty"`
	PollAnswer *pollAnswerDTO `json:"poll_answer,omitempty"`
}

type messageDTO struct {
	MessageID   int64    `json:"message_id"`
	Chat        chatDTO  `json:"chat"`
	ThreadID    int      `json:"message_thread_id,omitempty"`
	ReplyTo     int64    `json:"reply_to_message_id,omitempty"`
	From        *userDTO `json:"from,omitempty"`
	ForwardFrom *userDTO `json:"forward_from,omitempty"`
	ForwardDate int64    `json:"forward_date,omitempty"`
	Poll        *pollDTO `json:"poll,omitempty"`
}

type chatDTO struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

type userDTO struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type pollDTO struct {
	ID                    string          `json:"id"`
	Question              string          `json:"question"`
	Options               []pollOptionDTO `json:"options"`
	TotalVoterCount       int             `json:"total_voter_count"`
	IsClosed              bool            `json:"is_closed"`
	IsAnonymous           bool            `json:"is_anonymous"`
	Type                  string          `json:"type"`
	AllowsMultipleAnswers bool            `json:"allows_multiple_answers"`
	CloseDate             int64           `json:"close_date,omitempty"`
}

type pollOptionDTO struct {
	Text       string `json:"text"`
	VoterCount int    `json:"voter_count"`
}

type pollAnswerDTO struct {
	PollID    string  `json:"poll_id"`
	User      userDTO `json:"user"`
	OptionIDs []int   `json:"option_ids"`
}

type sendPollRequest struct {
	ChatID                int64    `json:"chat_id"`
	Question              string   `json:"question"`
	Options               []string `json:"options"`
	IsAnonymous           bool     `json:"is_anonymous"`
	AllowsMultipleAnswers bool     `json:"allows_multiple_answers"`
	CloseDate             int64    `json:"close_date,omitempty"`
	ThreadID              int      `json:"message_thread_id,omitempty"`
	ReplyTo               int64    `json:"reply_to_message_id,omitempty"`
}

type postedPollDTO struct {
	PollID    string `json:"poll_id"`
	ChatID    int64  `json:"chat_id"`
	MessageID int64  `json:"message_id"`
}

type sendMessageRequest struct {
	ChatID                int64  `json:"chat_id"`
	Text                  string `json:"text"`
	ThreadID              int    `json:"message_thread_id,omitempty"`
	ReplyTo               int64  `json:"reply_to_message_id,omitempty"`
	ParseMode             string `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview,omitempty"`
}

type postedMessageDTO struct {
	ChatID    int64 `json:"chat_id"`
	MessageID int64 `json:"message_id"`
}

type editMessageRequest struct {
	ChatID                int64  `json:"chat_id"`
	MessageID             int64  `json:"message_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview,omitempty"`
}

type deleteMessageRequest struct {
	ChatID    int64 `json:"chat_id"`
	MessageID int64 `json:"message_id"`
}

func (u updateDTO) toUpdate() ports.Update {
	update := ports.Update{UpdateID: u.UpdateID}
	if u.Message != nil {
		msg := u.Message.toEntity()
		update.Message = &msg
	}
	if u.PollAnswer != nil {
		update.VoteAnswer = &entities.VoteAnswer{
			PollID:    u.PollAnswer.PollID,
			UserID:    entities.UserID(u.PollAnswer.User.ID),
			OptionIDs: u.PollAnswer.OptionIDs,
		}
	}
	return update
}

func (m messageDTO) toEntity() entities.Message {
	msg := entities.Message{
		ChatID:        entities.ChatID(m.Chat.ID),
		MessageID:     entities.MessageID(m.MessageID),
		ThreadID:      m.ThreadID,
		ReplyTo:       entities.MessageID(m.ReplyTo),
		ChatIsPrivate: m.Chat.Type == "private",
		Forwarded:     m.ForwardDate != 0 || m.ForwardFrom != nil,
	}
	if m.From != nil {
		msg.From = entities.UserID(m.From.ID)
	}
	if m.ForwardFrom != nil {
		msg.ForwardFrom = entities.UserID(m.ForwardFrom.ID)
	}
	if m.Poll != nil {
		poll := m.Poll.toEntity()
		msg.Poll = &poll
	}
	return msg
}

func (p pollDTO) toEntity() entities.Poll {
	poll := entities.Poll{
		ID:                    p.ID,
		Question:              p.Question,
		Options:               make([]string, 0, len(p.Options)),
		TotalVoterCount:       p.TotalVoterCount,
		IsClosed:              p.IsClosed,
		IsAnonymous:           p.IsAnonymous,
		Type:                  entities.PollType(p.Type),
		AllowsMultipleAnswers: p.AllowsMultipleAnswers,
	}
	for _, option := range p.Options {
		poll.Options = append(poll.Options, option.Text)
	}
	if p.CloseDate != 0 {
		closeDate := time.Unix(p.CloseDate, 0).UTC()
		poll.CloseDate = &closeDate
	}
	return poll
}
