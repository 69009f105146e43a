// Package gateway is the HTTP client for the chat gateway: it resolves
// the bot profile, pulls update batches and posts polls and messages on
// the bot's behalf.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"quorum/contexts/community/poll-relay/domain/entities"
	"quorum/contexts/community/poll-relay/ports"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: normalizeBaseURL(baseURL),
		token:   token,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

func (c *Client) Me(ctx context.Context) (ports.BotProfile, error) {
	var out botProfileDTO
	if err := c.getJSON(ctx, "/bot/me", nil, &out); err != nil {
		return ports.BotProfile{}, fmt.Errorf("resolve bot profile: %w", err)
	}
	return ports.BotProfile{
		ID:       entities.UserID(out.ID),
		Username: out.Username,
	}, nil
}

func (c *Client) PollUpdates(ctx context.Context, offset int64, limit int) ([]ports.Update, error) {
	query := url.Values{}
	query.Set("offset", strconv.FormatInt(offset, 10))
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var out updatesResponse
	if err := c.getJSON(ctx, "/bot/updates", query, &out); err != nil {
		return nil, fmt.Errorf("poll updates: %w", err)
	}

	updates := make([]ports.Update, 0, len(out.Items))
	for _, item := range out.Items {
		updates = append(updates, item.toUpdate())
	}
	return updates, nil
}

func (c *Client) SendPoll(ctx context.Context, draft ports.PollDraft) (ports.PostedPoll, error) {
	req := sendPollRequest{
		ChatID:                int64(draft.ChatID),
		Question:              draft.Question,
		Options:               draft.Options,
		IsAnonymous:           draft.IsAnonymous,
		AllowsMultipleAnswers: draft.AllowsMultipleAnswers,
		ThreadID:              draft.ThreadID,
		ReplyTo:               int64(draft.ReplyTo),
	}
	if draft.CloseDate != nil {
		req.CloseDate = draft.CloseDate.Unix()
	}

	var out postedPollDTO
	if err := c.postJSON(ctx, "/bot/polls", req, &out); err != nil {
		return ports.PostedPoll{}, fmt.Errorf("send poll: %w", err)
	}
	return ports.PostedPoll{
		PollID:    out.PollID,
		ChatID:    entities.ChatID(out.ChatID),
		MessageID: entities.MessageID(out.MessageID),
	}, nil
}

func (c *Client) SendMessage(ctx context.Context, msg ports.OutgoingMessage) (ports.PostedMessage, error) {
	req := sendMessageRequest{
		ChatID:                int64(msg.ChatID),
		Text:                  msg.Text,
		ThreadID:              msg.ThreadID,
		ReplyTo:               int64(msg.ReplyTo),
		ParseMode:             msg.ParseMode,
		DisableWebPagePreview: msg.DisableWebPagePreview,
	}

	var out postedMessageDTO
	if err := c.postJSON(ctx, "/bot/messages", req, &out); err != nil {
		return ports.PostedMessage{}, fmt.Errorf("send message: %w", err)
	}
	return ports.PostedMessage{
		ChatID:    entities.ChatID(out.ChatID),
		MessageID: entities.MessageID(out.MessageID),
	}, nil
}

func (c *Client) EditMessageText(ctx context.Context, chatID entities.ChatID, messageID entities.MessageID, edit ports.MessageEdit) error {
	req := editMessageRequest{
		ChatID:                int64(chatID),
		MessageID:             int64(messageID),
		Text:                  edit.Text,
		ParseMode:             edit.ParseMode,
		DisableWebPagePreview: edit.DisableWebPagePreview,
	}
	if err := c.postJSON(ctx, "/bot/messages/edit", req, nil); err != nil {
		return fmt.Errorf("edit message %d in chat %d: %w", messageID, chatID, err)
	}
	return nil
}

func (c *Client) DeleteMessage(ctx context.Context, chatID entities.ChatID, messageID entities.MessageID) error {
	req := deleteMessageRequest{
		ChatID:    int64(chatID),
		MessageID: int64(messageID),
	}
	if err := c.postJSON(ctx, "/bot/messages/delete", req, nil); err != nil {
		return fmt.Errorf("delete message %d in chat %d: %w", messageID, chatID, err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(request, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	return c.do(request, out)
}

func (c *Client) do(request *http.Request, out any) error {
	if c.token != "" {
		request.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(request)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	var gw struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &gw) == nil && gw.Message != "" {
		return fmt.Errorf("gateway status %s: %s", resp.Status, gw.Message)
	}
	return fmt.Errorf("gateway status %s", resp.Status)
}

func normalizeBaseURL(baseURL string) string {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return trimmed
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	return strings.TrimRight(trimmed, "/")
}

var (
	_ ports.Messenger    = (*Client)(nil)
	_ ports.UpdateSource = (*Client)(nil)
)
