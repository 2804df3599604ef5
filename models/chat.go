package models

import "github.com/google/uuid"

// ChatMessage records one assistant exchange within a session.
type ChatMessage struct {
	ID        string    `bson:"id" json:"id"`
	SessionID string    `bson:"session_id" json:"session_id"`
	UserID    string    `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Message   string    `bson:"message" json:"message"`
	Response  string    `bson:"response" json:"response"`
	CreatedAt Timestamp `bson:"created_at" json:"created_at"`
}

func NewChatMessage(sessionID, userID, message, response string) ChatMessage {
	return ChatMessage{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		UserID:    userID,
		Message:   message,
		Response:  response,
		CreatedAt: Now(),
	}
}
