package domain

import "time"

// ─── Activity Types ─────────────────────────────────────────────────────────

// ActivityType identifies a streak-qualifying user action.
type ActivityType string

const (
	// ActivityPresenceOpen — the user opened the app today.
	ActivityPresenceOpen ActivityType = "PRESENCE_OPEN"
	// ActivityMessageSent — the user sent a feelings message.
	ActivityMessageSent ActivityType = "MESSAGE_SENT"
	// ActivityEchoBackSent — the user responded to a received message.
	ActivityEchoBackSent ActivityType = "ECHO_BACK_SENT"
)

// Valid reports whether the activity type is known.
func (a ActivityType) Valid() bool {
	switch a {
	case ActivityPresenceOpen, ActivityMessageSent, ActivityEchoBackSent:
		return true
	}
	return false
}

// Sentiment classifies the emotional tone of a sent message.
// Only positive messages drive the kindness track.
type Sentiment string

const (
	SentimentPositive Sentiment = "POSITIVE"
	SentimentNeutral  Sentiment = "NEUTRAL"
	SentimentNegative Sentiment = "NEGATIVE"
)

// Activity is a single ingested user action, dated on the user's local
// calendar day. Date must be a normalized calendar date (see DateOf);
// timezone resolution is the caller's responsibility.
type Activity struct {
	UserID    string       `json:"user_id"`
	Type      ActivityType `json:"type"`
	Sentiment Sentiment    `json:"sentiment,omitempty"`
	Date      time.Time    `json:"date"`
	RelatedID string       `json:"related_id,omitempty"` // source message id, if any
}
