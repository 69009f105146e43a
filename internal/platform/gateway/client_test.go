package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quorum/contexts/community/poll-relay/domain/entities"
	"quorum/contexts/community/poll-relay/ports"
)

func TestMeSendsTokenAndDecodesProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/bot/me" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Fatalf("unexpected authorization header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 999, "username": "quorum_bot"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "test-token")

	profile, err := client.Me(context.Background())
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if profile.ID != 999 || profile.Username != "quorum_bot" {
		t.Fatalf("unexpected profile %+v", profile)
	}
}

func TestPollUpdatesMapsMessagesAndVotes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bot/updates" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("offset"); got != "41" {
			t.Fatalf("unexpected offset %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "50" {
			t.Fatalf("unexpected limit %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items": [
				{
					"update_id": 42,
					"message": {
						"message_id": 7,
						"chat": {"id": -100200, "type": "supergroup"},
						"message_thread_id": 3,
						"from": {"id": 10, "username": "alice"},
						"poll": {
							"id": "poll-1",
							"question": "Lunch spot?",
							"options": [{"text": "ramen", "voter_count": 0}, {"text": "tacos", "voter_count": 0}],
							"type": "regular",
							"allows_multiple_answers": true,
							"close_date": 1700000000
						}
					}
				},
				{
					"update_id": 43,
					"message": {
						"message_id": 8,
						"chat": {"id": 10, "type": "private"},
						"from": {"id": 10},
						"forward_date": 1700000100,
						"forward_from": {"id": 999, "username": "quorum_bot"}
					}
				},
				{
					"update_id": 44,
					"poll_answer": {"poll_id": "poll-1", "user": {"id": 10}, "option_ids": [1]}
				}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")

	updates, err := client.PollUpdates(context.Background(), 41, 50)
	if err != nil {
		t.Fatalf("poll updates: %v", err)
	}
	if len(updates) != 3 {
		t.Fatalf("expected 3 updates, got %d", len(updates))
	}

	first := updates[0]
	if first.UpdateID != 42 || first.Message == nil || first.VoteAnswer != nil {
		t.Fatalf("unexpected first update %+v", first)
	}
	msg := first.Message
	if msg.ChatID != -100200 || msg.MessageID != 7 || msg.ThreadID != 3 || msg.From != 10 {
		t.Fatalf("unexpected message %+v", msg)
	}
	if msg.ChatIsPrivate || msg.Forwarded {
		t.Fatalf("group message misclassified: %+v", msg)
	}
	if msg.Poll == nil {
		t.Fatal("expected poll payload")
	}
	if msg.Poll.ID != "poll-1" || msg.Poll.Question != "Lunch spot?" {
		t.Fatalf("unexpected poll %+v", msg.Poll)
	}
	if len(msg.Poll.Options) != 2 || msg.Poll.Options[0] != "ramen" || msg.Poll.Options[1] != "tacos" {
		t.Fatalf("unexpected options %v", msg.Poll.Options)
	}
	if msg.Poll.Type != entities.PollTypeRegular || !msg.Poll.AllowsMultipleAnswers {
		t.Fatalf("unexpected poll flags %+v", msg.Poll)
	}
	if msg.Poll.CloseDate == nil || msg.Poll.CloseDate.Unix() != 1700000000 {
		t.Fatalf("unexpected close date %v", msg.Poll.CloseDate)
	}

	second := updates[1].Message
	if second == nil || !second.Forwarded || second.ForwardFrom != 999 || !second.ChatIsPrivate {
		t.Fatalf("unexpected forwarded message %+v", second)
	}

	third := updates[2]
	if third.VoteAnswer == nil || third.Message != nil {
		t.Fatalf("unexpected vote update %+v", third)
	}
	if third.VoteAnswer.PollID != "poll-1" || third.VoteAnswer.UserID != 10 || len(third.VoteAnswer.OptionIDs) != 1 {
		t.Fatalf("unexpected vote answer %+v", third.VoteAnswer)
	}
}

func TestSendPollPostsDraft(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/bot/polls" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"poll_id": "poll-7", "chat_id": -100200, "message_id": 55}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token")

	posted, err := client.SendPoll(context.Background(), ports.PollDraft{
		ChatID:                -100200,
		Question:              "Lunch spot?",
		Options:               []string{"ramen", "tacos"},
		AllowsMultipleAnswers: true,
		ThreadID:              3,
		ReplyTo:               12,
	})
	if err != nil {
		t.Fatalf("send poll: %v", err)
	}
	if posted.PollID != "poll-7" || posted.ChatID != -100200 || posted.MessageID != 55 {
		t.Fatalf("unexpected posted poll %+v", posted)
	}

	if body["question"] != "Lunch spot?" {
		t.Fatalf("unexpected question %v", body["question"])
	}
	if body["chat_id"] != float64(-100200) {
		t.Fatalf("unexpected chat id %v", body["chat_id"])
	}
	if body["allows_multiple_answers"] != true {
		t.Fatalf("unexpected multiple answers flag %v", body["allows_multiple_answers"])
	}
	if body["message_thread_id"] != float64(3) || body["reply_to_message_id"] != float64(12) {
		t.Fatalf("unexpected threading fields %v", body)
	}
	if _, ok := body["close_date"]; ok {
		t.Fatal("close_date should be omitted when unset")
	}
}

func TestEditMessageToleratesEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bot/messages/edit" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["chat_id"] != float64(10) || body["message_id"] != float64(20) {
			t.Fatalf("unexpected target %v", body)
		}
		if body["parse_mode"] != "HTML" || body["disable_web_page_preview"] != true {
			t.Fatalf("unexpected formatting fields %v", body)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")

	err := client.EditMessageText(context.Background(), 10, 20, ports.MessageEdit{
		Text:                  "updated",
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
	if err != nil {
		t.Fatalf("edit message: %v", err)
	}
}

func TestDeleteMessagePostsTarget(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bot/messages/delete" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["chat_id"] != float64(-100200) || body["message_id"] != float64(41) {
			t.Fatalf("unexpected target %v", body)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")

	if err := client.DeleteMessage(context.Background(), -100200, 41); err != nil {
		t.Fatalf("delete message: %v", err)
	}
}

func TestGatewayErrorsCarryServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"code": "forbidden", "message": "bot is not a chat member"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")

	_, err := client.SendMessage(context.Background(), ports.OutgoingMessage{ChatID: 1, Text: "hi"})
	if err == nil {
		t.Fatal("expected error for forbidden response")
	}
	if !strings.Contains(err.Error(), "bot is not a chat member") {
		t.Fatalf("expected server message in error, got %v", err)
	}
}
