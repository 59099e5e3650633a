package domain

import "time"

// Thread is a conversation between two users. UserA < UserB so a pair maps to one thread.
type Thread struct {
	ID            string    `json:"id"`
	UserA         string    `json:"user_a"`
	UserB         string    `json:"user_b"`
	LastMessageAt time.Time `json:"last_message_at"`
	CreatedOn     time.Time `json:"created_on"`
}

// Other returns the participant that is not userID.
func (t *Thread) Other(userID string) string {
	if t.UserA == userID {
		return t.UserB
	}
	return t.UserA
}

func (t *Thread) Has(userID string) bool {
	return t.UserA == userID || t.UserB == userID
}

// ThreadPair orders two user IDs the way threads store them.
func ThreadPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

type Message struct {
	ID       string     `json:"id"`
	ThreadID string     `json:"thread_id"`
	SenderID string     `json:"sender_id"`
	Text     string     `json:"text"`
	SentAt   time.Time  `json:"sent_at"`
	ReadAt   *time.Time `json:"read_at,omitempty"`
}

// ThreadSummary is a thread as seen by one participant in the inbox.
type ThreadSummary struct {
	Thread
	OtherUserID string `json:"other_user_id"`
	OtherName   string `json:"other_name"`
	LastMessage string `json:"last_message"`
	Unread      int    `json:"unread"`
}
