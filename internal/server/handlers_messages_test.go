package server

import (
	"net/http"
	"strconv"
	"strings"
	"testing"
)

func sendMessage(t *testing.T, api *testAPI, from, to int, content string) int {
	t.Helper()
	resp := doRequest(t, api.ts, http.MethodPost, "/api/messages", map[string]any{
		"senderId":   from,
		"receiverId": to,
		"content":    content,
	})
	expectStatus(t, resp, http.StatusCreated)
	return int(assertNumber(t, decodeBody(t, resp)["id"]))
}

func TestMessageLifecycle(t *testing.T) {
	api := newTestAPI(t)
	id := sendMessage(t, api, 1, 2, "good game")
	path := "/api/messages/" + strconv.Itoa(id)

	resp := doRequest(t, api.ts, http.MethodGet, path, nil)
	expectStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	if assertString(t, body["content"]) != "good game" || body["readAt"] != nil {
		t.Fatalf("unexpected message %v", body)
	}

	resp = doRequest(t, api.ts, http.MethodPatch, path, map[string]string{"content": "good game!"})
	expectStatus(t, resp, http.StatusOK)
	if assertString(t, decodeBody(t, resp)["content"]) != "good game!" {
		t.Fatalf("edit did not apply")
	}

	resp = doRequest(t, api.ts, http.MethodPost, path+"/read", nil)
	expectStatus(t, resp, http.StatusOK)
	assertString(t, decodeBody(t, resp)["readAt"])

	resp = doRequest(t, api.ts, http.MethodDelete, path, nil)
	expectStatus(t, resp, http.StatusOK)

	resp = doRequest(t, api.ts, http.MethodGet, path, nil)
	expectStatus(t, resp, http.StatusNotFound)
	resp = doRequest(t, api.ts, http.MethodDelete, path, nil)
	expectStatus(t, resp, http.StatusNotFound)
}

func TestSendMessageValidation(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name    string
		payload map[string]any
		message string
	}{
		{name: "self", payload: map[string]any{"senderId": 1, "receiverId": 1, "content": "hi"}, message: "sender and receiver must differ"},
		{name: "missing receiver", payload: map[string]any{"senderId": 1, "content": "hi"}, message: "senderId and receiverId are required"},
		{name: "blank", payload: map[string]any{"senderId": 1, "receiverId": 2, "content": "   "}, message: "content must be 1-2000 characters"},
		{name: "too long", payload: map[string]any{"senderId": 1, "receiverId": 2, "content": strings.Repeat("a", 2001)}, message: "content must be 1-2000 characters"},
		{name: "missing content", payload: map[string]any{"senderId": 1, "receiverId": 2}, message: "content is required"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(t, api.ts, http.MethodPost, "/api/messages", tc.payload)
			expectStatus(t, resp, http.StatusBadRequest)
			if msg := assertString(t, decodeBody(t, resp)["error"]); msg != tc.message {
				t.Fatalf("expected %q, got %q", tc.message, msg)
			}
		})
	}
}

func TestSendMessageToUnknownUser(t *testing.T) {
	api := newTestAPI(t)
	resp := doRequest(t, api.ts, http.MethodPost, "/api/messages", map[string]any{
		"senderId":   1,
		"receiverId": 999,
		"content":    "hi",
	})
	expectStatus(t, resp, http.StatusUnprocessableEntity)
	if msg := assertString(t, decodeBody(t, resp)["error"]); msg != "sender or receiver does not exist" {
		t.Fatalf("unexpected error %q", msg)
	}
}

func TestMailboxPageBeyondRange(t *testing.T) {
	api := newTestAPI(t)
	sendMessage(t, api, 1, 2, "one")

	resp := doRequest(t, api.ts, http.MethodGet, "/api/users/2/messages?page=92233720368547758&per_page=100", nil)
	expectStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	if rows := body["messages"].([]any); len(rows) != 0 {
		t.Fatalf("expected empty page, got %v", rows)
	}
	pagination := body["pagination"].(map[string]any)
	if assertNumber(t, pagination["page"]) != maxPage || pagination["hasNext"] != false {
		t.Fatalf("unexpected pagination %v", pagination)
	}
}

func TestMailboxAndConversation(t *testing.T) {
	api := newTestAPI(t)
	first := sendMessage(t, api, 1, 2, "one")
	second := sendMessage(t, api, 2, 1, "two")
	third := sendMessage(t, api, 1, 2, "three")
	sendMessage(t, api, 3, 2, "unrelated")

	resp := doRequest(t, api.ts, http.MethodGet, "/api/users/2/messages?per_page=2", nil)
	expectStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	inbox := body["messages"].([]any)
	pagination := body["pagination"].(map[string]any)
	if len(inbox) != 2 || assertNumber(t, pagination["total"]) != 3 || pagination["hasNext"] != true {
		t.Fatalf("unexpected inbox page %v", body)
	}

	resp = doRequest(t, api.ts, http.MethodGet, "/api/users/1/messages?box=sent", nil)
	expectStatus(t, resp, http.StatusOK)
	sent := decodeBody(t, resp)["messages"].([]any)
	if len(sent) != 2 || int(assertNumber(t, sent[0].(map[string]any)["id"])) != third {
		t.Fatalf("expected newest sent message first, got %v", sent)
	}

	resp = doRequest(t, api.ts, http.MethodGet, "/api/users/1/messages?box=spam", nil)
	expectStatus(t, resp, http.StatusBadRequest)

	resp = doRequest(t, api.ts, http.MethodGet, "/api/users/2/conversations/1", nil)
	expectStatus(t, resp, http.StatusOK)
	convo := decodeBody(t, resp)["messages"].([]any)
	var ids []int
	for _, raw := range convo {
		ids = append(ids, int(assertNumber(t, raw.(map[string]any)["id"])))
	}
	if len(ids) != 3 || ids[0] != first || ids[1] != second || ids[2] != third {
		t.Fatalf("expected chronological conversation, got %v", ids)
	}
}

func TestMessagesWithoutDatabase(t *testing.T) {
	api := newTestAPI(t, withoutDatabase())
	resp := doRequest(t, api.ts, http.MethodPost, "/api/messages", map[string]any{"senderId": 1, "receiverId": 2, "content": "hi"})
	expectStatus(t, resp, http.StatusServiceUnavailable)

	resp = doRequest(t, api.ts, http.MethodGet, "/api/users/1/messages", nil)
	expectStatus(t, resp, http.StatusServiceUnavailable)
}
