package memory

import (
	"context"
	"sort"
	"time"

	"github.com/dtroode/gophspace-server/internal/model"
)

var _ model.MessageStore = (*MessageRepository)(nil)

type MessageRepository struct {
	db *DB
}

func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, msg model.Message) (model.Message, error) {
	var saved model.Message
	err := r.db.do(ctx, func(s *state) error {
		if _, ok := s.spaces[msg.SpaceID]; !ok {
			return model.ErrNotFound
		}
		r.db.messageSeq++
		saved = model.Message{
			ID:        r.db.messageSeq,
			SpaceID:   msg.SpaceID,
			Author:    msg.Author,
			CreatedAt: time.Now(),
			Text:      msg.Text,
		}
		s.messages[saved.ID] = saved
		return nil
	})
	return saved, err
}

func (r *MessageRepository) GetByID(ctx context.Context, spaceID, id int64) (model.Message, error) {
	var msg model.Message
	err := r.db.do(ctx, func(s *state) error {
		m, ok := s.messages[id]
		if !ok || m.SpaceID != spaceID {
			return model.ErrNotFound
		}
		msg = m
		return nil
	})
	return msg, err
}

func (r *MessageRepository) List(ctx context.Context, spaceID int64, q model.MessageQuery) ([]model.Message, error) {
	messages := make([]model.Message, 0)
	err := r.db.do(ctx, func(s *state) error {
		for _, m := range s.messages {
			if m.SpaceID != spaceID || m.CreatedAt.Before(q.Since) {
				continue
			}
			if q.Until != nil && !m.CreatedAt.Before(*q.Until) {
				continue
			}
			messages = append(messages, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(messages, func(i, j int) bool {
		if messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].ID < messages[j].ID
		}
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	if q.Limit > 0 && len(messages) > q.Limit {
		messages = messages[:q.Limit]
	}
	return messages, nil
}

func (r *MessageRepository) Delete(ctx context.Context, spaceID, id int64) error {
	return r.db.do(ctx, func(s *state) error {
		m, ok := s.messages[id]
		if !ok || m.SpaceID != spaceID {
			return model.ErrNotFound
		}
		delete(s.messages, id)
		return nil
	})
}
