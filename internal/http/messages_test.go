package httpapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var messageColumns = []string{
	"id", "sender_id", "receiver_id", "listing_id", "announcement_id", "content", "is_read", "created_at",
	"sender_email", "sender_first_name", "sender_last_name",
	"receiver_email", "receiver_first_name", "receiver_last_name",
	"listing_title", "announcement_title",
}

func TestSendMessageToSelf(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "stud-1", "ana@example.com", "student")

	rec := doJSON(t, s, http.MethodPost, "/api/messages", token, map[string]interface{}{
		"receiverId": "stud-1", "content": "talking to myself",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	expectMet(t, mock)
}

func TestSendMessageUnknownRecipient(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "stud-1", "ana@example.com", "student")

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users`).
		WillReturnRows(existsRow(false))

	rec := doJSON(t, s, http.MethodPost, "/api/messages", token, map[string]interface{}{
		"receiverId": "ghost", "content": "hello?",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	expectMet(t, mock)
}

// Three messages with the same counterpart: two general, one tied to a
// listing. The listing thread must come out as its own conversation.
func TestListConversationsSplitsByContext(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "me", "ana@example.com", "student")

	rows := sqlmock.NewRows(messageColumns).
		AddRow("m3", "them", "me", "listing-1", nil, "about the room", false, testNow.Add(2*time.Minute),
			"dan@example.com", nil, nil, "ana@example.com", nil, nil, "Room near campus", nil).
		AddRow("m2", "me", "them", nil, nil, "hey again", true, testNow.Add(time.Minute),
			"ana@example.com", nil, nil, "dan@example.com", nil, nil, nil, nil).
		AddRow("m1", "them", "me", nil, nil, "hey", false, testNow,
			"dan@example.com", nil, nil, "ana@example.com", nil, nil, nil, nil)
	mock.ExpectQuery(`FROM messages m`).WillReturnRows(rows)

	rec := doJSON(t, s, http.MethodGet, "/api/messages/conversations", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp map[string][]ConversationDTO
	decodeBody(t, rec, &resp)
	items := resp["items"]
	if len(items) != 2 {
		t.Fatalf("got %d conversations, want 2: %+v", len(items), items)
	}

	// Newest activity first: the listing thread leads.
	if items[0].ContextType != "listing" || items[0].ContextID == nil || *items[0].ContextID != "listing-1" {
		t.Errorf("first conversation = %+v", items[0])
	}
	if items[0].UnreadCount != 1 || items[0].MessageCount != 1 {
		t.Errorf("listing thread counts = %d unread / %d total", items[0].UnreadCount, items[0].MessageCount)
	}
	if items[1].ContextType != "general" || items[1].MessageCount != 2 {
		t.Errorf("general thread = %+v", items[1])
	}
	if items[1].UnreadCount != 1 {
		t.Errorf("general unread = %d", items[1].UnreadCount)
	}
	for _, conv := range items {
		if conv.CounterpartID != "them" {
			t.Errorf("counterpart = %q", conv.CounterpartID)
		}
	}
}

func TestMarkMessagesReadGeneralScope(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "me", "ana@example.com", "student")

	mock.ExpectExec(`UPDATE messages SET is_read = true WHERE receiver_id = \$1 AND sender_id = \$2 AND listing_id IS NULL AND announcement_id IS NULL`).
		WithArgs("me", "them").
		WillReturnResult(sqlmock.NewResult(0, 2))

	rec := doJSON(t, s, http.MethodPut, "/api/messages/read", token, map[string]interface{}{
		"counterpartId": "them",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp map[string]int64
	decodeBody(t, rec, &resp)
	if resp["updated"] != 2 {
		t.Errorf("updated = %d", resp["updated"])
	}
	expectMet(t, mock)
}

func TestMarkMessagesReadListingScope(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "me", "ana@example.com", "student")

	mock.ExpectExec(`UPDATE messages SET is_read = true WHERE receiver_id = \$1 AND sender_id = \$2 AND listing_id = \$3`).
		WithArgs("me", "them", "listing-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := doJSON(t, s, http.MethodPut, "/api/messages/read", token, map[string]interface{}{
		"counterpartId": "them", "listingId": "listing-1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	expectMet(t, mock)
}
