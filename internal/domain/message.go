package domain

import "time"

// Author identifies who wrote a chat message
type Author string

const (
	AuthorUser      Author = "user"
	AuthorAssistant Author = "assistant"
)

// ChatMessage represents one entry of the support chat log
type ChatMessage struct {
	ID        string    `json:"id"`
	Author    Author    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Streaming bool      `json:"streaming"`
}
