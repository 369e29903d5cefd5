// Package memory is an in-process implementation of the model stores. A
// transaction holds the store lock for its whole duration and is undone on error.
package memory

import (
	"context"
	"sync"

	"github.com/dtroode/gophspace-server/internal/model"
)

var _ model.Transactor = (*DB)(nil)

type grantKey struct {
	spaceID int64
	userID  string
}

type state struct {
	users      map[string]model.User
	spaces     map[int64]model.Space
	spaceNames map[string]int64
	grants     map[grantKey]model.Grant
	messages   map[int64]model.Message
}

func newState() *state {
	return &state{
		users:      make(map[string]model.User),
		spaces:     make(map[int64]model.Space),
		spaceNames: make(map[string]int64),
		grants:     make(map[grantKey]model.Grant),
		messages:   make(map[int64]model.Message),
	}
}

func (s *state) clone() *state {
	c := &state{
		users:      make(map[string]model.User, len(s.users)),
		spaces:     make(map[int64]model.Space, len(s.spaces)),
		spaceNames: make(map[string]int64, len(s.spaceNames)),
		grants:     make(map[grantKey]model.Grant, len(s.grants)),
		messages:   make(map[int64]model.Message, len(s.messages)),
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.spaces {
		c.spaces[k] = v
	}
	for k, v := range s.spaceNames {
		c.spaceNames[k] = v
	}
	for k, v := range s.grants {
		c.grants[k] = v
	}
	for k, v := range s.messages {
		c.messages[k] = v
	}
	return c
}

// DB is the shared state of all memory repositories.
type DB struct {
	mu    sync.Mutex
	state *state

	// Sequences live outside state so a rollback never hands an id out twice.
	spaceSeq   int64
	messageSeq int64

	auditMu  sync.Mutex
	audit    []model.AuditEntry
	auditIdx map[model.AuditHandle]int
	auditSeq int64
}

// NewDB creates an empty store.
func NewDB() *DB {
	return &DB{
		state:    newState(),
		auditIdx: make(map[model.AuditHandle]int),
	}
}

type txKey struct{}

func (db *DB) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*DB)
	return ok && owner == db
}

// WithinTx runs fn with exclusive access to the store. Nested calls join the outer one.
func (db *DB) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if db.inTx(ctx) {
		return fn(ctx)
	}

	db.mu.Lock()
	snapshot := db.state.clone()
	committed := false
	defer func() {
		if !committed {
			db.state = snapshot
		}
		db.mu.Unlock()
	}()

	if err := fn(model.MarkTx(context.WithValue(ctx, txKey{}, db))); err != nil {
		return err
	}
	committed = true
	return nil
}

// do runs fn against the state, locking unless ctx already holds the transaction.
func (db *DB) do(ctx context.Context, fn func(s *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !db.inTx(ctx) {
		db.mu.Lock()
		defer db.mu.Unlock()
	}
	return fn(db.state)
}

// Ping always succeeds; it lets the store stand in for a database in health checks.
func (db *DB) Ping(ctx context.Context) error {
	return ctx.Err()
}
