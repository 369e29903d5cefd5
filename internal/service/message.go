package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dtroode/gophspace-server/internal/config"
	"github.com/dtroode/gophspace-server/internal/logger"
	"github.com/dtroode/gophspace-server/internal/model"
)

const defaultListLimit = 100

// ListQuery is the caller's view of a message range. Zero values pick defaults.
type ListQuery struct {
	Since *time.Time
	Until *time.Time
	Limit int
}

// Message posts, lists, reads and removes messages. The access check and the
// effect share one transaction, so a revocation committed before the effect
// also blocks it.
type Message struct {
	tx       model.Transactor
	messages model.MessageStore
	access   *AccessControl
	limits   config.Limits
	now      func() time.Time
	logger   *logger.Logger
}

func NewMessage(tx model.Transactor, messages model.MessageStore, access *AccessControl, limits config.Limits, logger *logger.Logger) *Message {
	return &Message{
		tx:       tx,
		messages: messages,
		access:   access,
		limits:   limits,
		now:      time.Now,
		logger:   logger,
	}
}

func (m *Message) Post(ctx context.Context, spaceID int64, author, text string) (model.Message, error) {
	if strings.TrimSpace(text) == "" {
		return model.Message{}, model.NewValidationError("message", "message must not be empty")
	}
	if strings.ContainsRune(text, 0) || !utf8.ValidString(text) {
		return model.Message{}, model.NewValidationError("message", "message must be valid UTF-8 without NUL characters")
	}
	if utf8.RuneCountInString(text) > m.limits.MaxMessageLength {
		return model.Message{}, model.NewValidationError("message",
			fmt.Sprintf("message must be at most %d characters", m.limits.MaxMessageLength))
	}

	var msg model.Message
	err := m.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := m.access.Authorize(ctx, spaceID, author, model.CapabilityWrite); err != nil {
			return err
		}
		var err error
		msg, err = m.messages.Create(ctx, model.Message{SpaceID: spaceID, Author: author, Text: text})
		if err != nil {
			return fmt.Errorf("failed to create message: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Message{}, err
	}

	m.logger.Debug("Message service: message posted",
		"space_id", spaceID,
		"message_id", msg.ID,
		"author", author)

	return msg, nil
}

// List returns messages of the space in ascending time order. Since defaults
// to the configured window before now.
func (m *Message) List(ctx context.Context, spaceID int64, userID string, q ListQuery) ([]model.Message, error) {
	query := model.MessageQuery{Until: q.Until, Limit: q.Limit}
	if q.Since != nil {
		query.Since = *q.Since
	} else {
		query.Since = m.now().Add(-m.limits.DefaultListWindow)
	}
	if query.Until != nil && query.Until.Before(query.Since) {
		return nil, model.NewValidationError("until", "until must not be before since")
	}
	switch {
	case query.Limit < 0:
		return nil, model.NewValidationError("limit", "limit must not be negative")
	case query.Limit == 0:
		query.Limit = min(defaultListLimit, m.limits.MaxListLimit)
	case query.Limit > m.limits.MaxListLimit:
		query.Limit = m.limits.MaxListLimit
	}

	var msgs []model.Message
	err := m.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := m.access.Authorize(ctx, spaceID, userID, model.CapabilityRead); err != nil {
			return err
		}
		var err error
		msgs, err = m.messages.List(ctx, spaceID, query)
		if err != nil {
			return fmt.Errorf("failed to list messages: %w", err)
		}
		return nil
	})
	return msgs, err
}

func (m *Message) Get(ctx context.Context, spaceID, messageID int64, userID string) (model.Message, error) {
	var msg model.Message
	err := m.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := m.access.Authorize(ctx, spaceID, userID, model.CapabilityRead); err != nil {
			return err
		}
		var err error
		msg, err = m.messages.GetByID(ctx, spaceID, messageID)
		if err != nil {
			return fmt.Errorf("failed to get message: %w", err)
		}
		return nil
	})
	return msg, err
}

// Delete is the moderator removal path and requires DELETE.
func (m *Message) Delete(ctx context.Context, spaceID, messageID int64, userID string) error {
	err := m.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := m.access.Authorize(ctx, spaceID, userID, model.CapabilityDelete); err != nil {
			return err
		}
		if err := m.messages.Delete(ctx, spaceID, messageID); err != nil {
			return fmt.Errorf("failed to delete message: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info("Message service: message removed",
		"space_id", spaceID,
		"message_id", messageID,
		"moderator", userID)

	return nil
}
