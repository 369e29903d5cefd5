package postgres

import (
	"context"

	"github.com/dtroode/gophspace-server/internal/model"
)

var _ model.MessageStore = (*MessageRepository)(nil)

type MessageRepository struct {
	db *Connection
}

func NewMessageRepository(db *Connection) *MessageRepository {
	return &MessageRepository{
		db: db,
	}
}

func (r *MessageRepository) Create(ctx context.Context, msg model.Message) (model.Message, error) {
	query := `INSERT INTO messages (space_id, author, msg_text)
			  VALUES ($1, $2, $3)
			  RETURNING msg_id, space_id, author, msg_time, msg_text`

	var saved model.Message
	err := r.db.conn(ctx).QueryRow(ctx, query, msg.SpaceID, msg.Author, msg.Text).Scan(
		&saved.ID, &saved.SpaceID, &saved.Author, &saved.CreatedAt, &saved.Text,
	)
	if err != nil {
		return model.Message{}, wrapError(err, "create message")
	}

	return saved, nil
}

func (r *MessageRepository) GetByID(ctx context.Context, spaceID, id int64) (model.Message, error) {
	query := `SELECT msg_id, space_id, author, msg_time, msg_text
			  FROM messages
			  WHERE space_id = $1 AND msg_id = $2`

	var msg model.Message
	err := r.db.conn(ctx).QueryRow(ctx, query, spaceID, id).Scan(
		&msg.ID, &msg.SpaceID, &msg.Author, &msg.CreatedAt, &msg.Text,
	)
	if err != nil {
		return model.Message{}, wrapError(err, "get message by id")
	}

	return msg, nil
}

func (r *MessageRepository) List(ctx context.Context, spaceID int64, q model.MessageQuery) ([]model.Message, error) {
	query := `SELECT msg_id, space_id, author, msg_time, msg_text
			  FROM messages
			  WHERE space_id = $1
			    AND msg_time >= $2
			    AND ($3::timestamptz IS NULL OR msg_time < $3)
			  ORDER BY msg_time ASC, msg_id ASC
			  LIMIT $4`

	rows, err := r.db.conn(ctx).Query(ctx, query, spaceID, q.Since, q.Until, q.Limit)
	if err != nil {
		return nil, wrapError(err, "list messages")
	}
	defer rows.Close()

	messages := make([]model.Message, 0)
	for rows.Next() {
		var msg model.Message
		if err := rows.Scan(&msg.ID, &msg.SpaceID, &msg.Author, &msg.CreatedAt, &msg.Text); err != nil {
			return nil, wrapError(err, "scan message")
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(err, "iterate messages")
	}

	return messages, nil
}

func (r *MessageRepository) Delete(ctx context.Context, spaceID, id int64) error {
	query := `DELETE FROM messages WHERE space_id = $1 AND msg_id = $2`

	tag, err := r.db.conn(ctx).Exec(ctx, query, spaceID, id)
	if err != nil {
		return wrapError(err, "delete message")
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}
