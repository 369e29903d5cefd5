package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/gophspace-server/internal/config"
	"github.com/dtroode/gophspace-server/internal/model"
	"github.com/dtroode/gophspace-server/internal/repository/memory"
	"github.com/dtroode/gophspace-server/internal/testutil"
)

var testLimits = config.Limits{
	MaxMessageLength:   16,
	MaxSpaceNameLength: 10,
	DefaultListWindow:  24 * time.Hour,
	MaxListLimit:       5,
}

type testEnv struct {
	db         *memory.DB
	users      *memory.UserRepository
	spaces     *memory.SpaceRepository
	grants     *memory.PermissionRepository
	messages   *memory.MessageRepository
	audit      *memory.AuditRepository
	access     *AccessControl
	identity   *Identity
	space      *Space
	permission *Permission
	message    *Message
	auditLog   *Audit
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := memory.NewDB()
	env := &testEnv{
		db:       db,
		users:    memory.NewUserRepository(db),
		spaces:   memory.NewSpaceRepository(db),
		grants:   memory.NewPermissionRepository(db),
		messages: memory.NewMessageRepository(db),
		audit:    memory.NewAuditRepository(db),
	}

	log := testutil.MakeNoopLogger()
	identity, err := NewIdentity(env.users, bcrypt.MinCost, log)
	require.NoError(t, err)

	env.identity = identity
	env.access = NewAccessControl(env.spaces, env.grants, nil, log)
	env.space = NewSpace(env.spaces, env.users, env.access, testLimits.MaxSpaceNameLength, log)
	env.permission = NewPermission(db, env.spaces, env.users, env.grants, log)
	env.message = NewMessage(db, env.messages, env.access, testLimits, log)
	env.auditLog = NewAudit(env.audit, []string{"auditor"}, log)

	return env
}

func (e *testEnv) mustUser(t *testing.T, id string) {
	t.Helper()
	_, err := e.users.Create(context.Background(), model.User{ID: id, PasswordHash: []byte("x")})
	require.NoError(t, err)
}

func (e *testEnv) mustSpace(t *testing.T, name, owner string) model.Space {
	t.Helper()
	space, err := e.space.Create(context.Background(), name, owner)
	require.NoError(t, err)
	return space
}

func caps(c ...model.Capability) model.CapabilitySet {
	return model.NewCapabilitySet(c...)
}
