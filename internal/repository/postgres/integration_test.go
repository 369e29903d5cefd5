//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/gophspace-server/database"
	"github.com/dtroode/gophspace-server/internal/model"
	repo "github.com/dtroode/gophspace-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "gophspace_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/gophspace_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func connect(t *testing.T) *repo.Connection {
	t.Helper()
	conn, err := repo.NewConection(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func createUser(t *testing.T, conn *repo.Connection, id string) {
	t.Helper()
	_, err := repo.NewUserRepository(conn).Create(context.Background(), model.User{ID: id, PasswordHash: []byte("hash")})
	require.NoError(t, err)
}

func TestRepositories_CRUD(t *testing.T) {
	ctx := context.Background()
	conn := connect(t)

	t.Run("user_repository", func(t *testing.T) {
		ur := repo.NewUserRepository(conn)
		saved, err := ur.Create(ctx, model.User{ID: "crudalice", PasswordHash: []byte("h1")})
		require.NoError(t, err)
		require.Equal(t, "crudalice", saved.ID)

		_, err = ur.Create(ctx, model.User{ID: "crudalice", PasswordHash: []byte("h2")})
		require.ErrorIs(t, err, model.ErrConflict)

		require.NoError(t, ur.UpdatePasswordHash(ctx, "crudalice", []byte("h3")))
		got, err := ur.GetByID(ctx, "crudalice")
		require.NoError(t, err)
		require.Equal(t, []byte("h3"), got.PasswordHash)

		_, err = ur.GetByID(ctx, "nobody")
		require.ErrorIs(t, err, model.ErrNotFound)
		require.ErrorIs(t, ur.UpdatePasswordHash(ctx, "nobody", nil), model.ErrNotFound)
	})

	t.Run("space_and_permission_repository", func(t *testing.T) {
		createUser(t, conn, "crudowner")
		createUser(t, conn, "crudbob")
		sr := repo.NewSpaceRepository(conn)
		pr := repo.NewPermissionRepository(conn)

		space, err := sr.Create(ctx, model.Space{Name: "crud-general", Owner: "crudowner"})
		require.NoError(t, err)
		require.NotZero(t, space.ID)

		_, err = sr.Create(ctx, model.Space{Name: "crud-general", Owner: "crudbob"})
		require.ErrorIs(t, err, model.ErrConflict)

		got, err := sr.GetByID(ctx, space.ID)
		require.NoError(t, err)
		require.Equal(t, "crudowner", got.Owner)

		_, err = pr.Upsert(ctx, model.Grant{SpaceID: space.ID, UserID: "crudbob", Capabilities: model.NewCapabilitySet(model.CapabilityRead)})
		require.NoError(t, err)
		g, err := pr.Upsert(ctx, model.Grant{SpaceID: space.ID, UserID: "crudbob", Capabilities: model.NewCapabilitySet(model.CapabilityWrite)})
		require.NoError(t, err)
		require.Equal(t, model.NewCapabilitySet(model.CapabilityWrite), g.Capabilities)

		list, err := pr.ListBySpace(ctx, space.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)

		_, err = pr.Upsert(ctx, model.Grant{SpaceID: space.ID, UserID: "ghost", Capabilities: model.NewCapabilitySet(model.CapabilityRead)})
		require.ErrorIs(t, err, model.ErrNotFound)

		require.NoError(t, pr.Delete(ctx, space.ID, "crudbob"))
		require.ErrorIs(t, pr.Delete(ctx, space.ID, "crudbob"), model.ErrNotFound)
		_, err = pr.Get(ctx, space.ID, "crudbob")
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("message_repository", func(t *testing.T) {
		createUser(t, conn, "msgowner")
		sr := repo.NewSpaceRepository(conn)
		mr := repo.NewMessageRepository(conn)

		a, err := sr.Create(ctx, model.Space{Name: "msg-a", Owner: "msgowner"})
		require.NoError(t, err)
		b, err := sr.Create(ctx, model.Space{Name: "msg-b", Owner: "msgowner"})
		require.NoError(t, err)

		m1, err := mr.Create(ctx, model.Message{SpaceID: a.ID, Author: "msgowner", Text: "one"})
		require.NoError(t, err)
		m2, err := mr.Create(ctx, model.Message{SpaceID: b.ID, Author: "msgowner", Text: "two"})
		require.NoError(t, err)
		m3, err := mr.Create(ctx, model.Message{SpaceID: a.ID, Author: "msgowner", Text: "three"})
		require.NoError(t, err)
		require.Less(t, m1.ID, m2.ID)
		require.Less(t, m2.ID, m3.ID)

		list, err := mr.List(ctx, a.ID, model.MessageQuery{Since: time.Now().Add(-time.Hour), Limit: 10})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "one", list[0].Text)
		assert.Equal(t, "three", list[1].Text)

		_, err = mr.Create(ctx, model.Message{SpaceID: 999999, Author: "msgowner", Text: "x"})
		require.ErrorIs(t, err, model.ErrNotFound)

		require.NoError(t, mr.Delete(ctx, a.ID, m1.ID))
		_, err = mr.GetByID(ctx, a.ID, m1.ID)
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("audit_repository", func(t *testing.T) {
		ar := repo.NewAuditRepository(conn)
		user := "auditor"

		first, err := ar.RecordAttempt(ctx, model.AuditAttempt{Method: "POST", Path: "/spaces", UserID: &user})
		require.NoError(t, err)
		second, err := ar.RecordAttempt(ctx, model.AuditAttempt{Method: "GET", Path: "/spaces/1"})
		require.NoError(t, err)
		require.Greater(t, second.Seq, first.Seq)
		require.Nil(t, first.Status)

		require.NoError(t, ar.RecordOutcome(ctx, first.Seq, 201))
		require.ErrorIs(t, ar.RecordOutcome(ctx, first.Seq, 500), model.ErrAuditEntryClosed)
		require.ErrorIs(t, ar.RecordOutcome(ctx, 1<<40, 200), model.ErrNotFound)

		entries, err := ar.List(ctx, model.AuditFilter{AfterSeq: first.Seq - 1, Limit: 10})
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(entries), 2)
		require.NotNil(t, entries[0].Status)
		assert.Equal(t, 201, *entries[0].Status)

		mine, err := ar.List(ctx, model.AuditFilter{UserID: &user, Limit: 10})
		require.NoError(t, err)
		require.Len(t, mine, 1)
	})
}

func TestSpaceRepository_ConcurrentCreateSameName(t *testing.T) {
	ctx := context.Background()
	conn := connect(t)
	createUser(t, conn, "racer")
	sr := repo.NewSpaceRepository(conn)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := sr.Create(ctx, model.Space{Name: "team", Owner: "racer"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, model.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
}

func TestConnection_WithinTx_RollbackKeepsAudit(t *testing.T) {
	ctx := context.Background()
	conn := connect(t)
	createUser(t, conn, "txowner")
	sr := repo.NewSpaceRepository(conn)
	ar := repo.NewAuditRepository(conn)

	var handle model.AuditHandle
	boom := errors.New("boom")
	err := conn.WithinTx(ctx, func(ctx context.Context) error {
		entry, err := ar.RecordAttempt(ctx, model.AuditAttempt{Method: "POST", Path: "/spaces"})
		require.NoError(t, err)
		handle = entry.Seq
		_, err = sr.Create(ctx, model.Space{Name: "rolled-back", Owner: "txowner"})
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = sr.Create(ctx, model.Space{Name: "rolled-back", Owner: "txowner"})
	require.NoError(t, err, "space insert must have been rolled back")
	require.NoError(t, ar.RecordOutcome(ctx, handle, 500), "audit attempt must survive the rollback")
}

func TestTeardown(t *testing.T) {
	ctx := context.Background()
	conn := connect(t)

	require.NoError(t, database.Teardown(ctx, conn.SQL()))
	require.NoError(t, database.Migrate(ctx, conn.SQL()))
}
