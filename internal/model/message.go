package model

import (
	"context"
	"time"
)

// MessageStore defines persistence operations for messages.
type MessageStore interface {
	// Create appends a message; the store assigns ID and CreatedAt.
	Create(ctx context.Context, msg Message) (Message, error)
	GetByID(ctx context.Context, spaceID, id int64) (Message, error)
	List(ctx context.Context, spaceID int64, query MessageQuery) ([]Message, error)
	Delete(ctx context.Context, spaceID, id int64) error
}

// Message is a text posted into a space.
type Message struct {
	ID        int64
	SpaceID   int64
	Author    string
	CreatedAt time.Time
	Text      string
}

// MessageQuery selects messages in [Since, Until) in ascending time order.
type MessageQuery struct {
	Since time.Time
	Until *time.Time
	Limit int
}
