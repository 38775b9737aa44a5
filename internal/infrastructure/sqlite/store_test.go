package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkarls/memberbase/internal/domain/entity"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func openStore(t *testing.T, dir string) *Store {
	t.Helper()
	store, err := Open(dir, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testUser(id, email string) *entity.User {
	return &entity.User{
		ID:              id,
		Email:           email,
		PasswordHash:    "$2a$10$fakedigestfortesting",
		MembershipLevel: entity.MembershipBronze,
		CreatedAt:       time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestOpen_CreatesDatabaseFile(t *testing.T) {
	dir := t.TempDir()
	openStore(t, dir)

	_, err := os.Stat(filepath.Join(dir, dbFileName))
	require.NoError(t, err)
}

func TestOpen_RequiresDataDir(t *testing.T) {
	for _, dir := range []string{"", "   "} {
		_, err := Open(dir, testLogger())
		assert.Error(t, err)
	}
}

func TestStore_PreservesDataAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(dir, testLogger())
	require.NoError(t, err)

	want := testUser("u1", "ada@example.com")
	first := "Ada"
	want.FirstName = &first
	want.MembershipLevel = entity.MembershipGold
	want.Points = 250
	require.NoError(t, NewUserRepository(store).Create(ctx, want))
	require.NoError(t, store.Close())

	store = openStore(t, dir)
	got, err := NewUserRepository(store).GetByID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, want.Email, got.Email)
	assert.Equal(t, want.PasswordHash, got.PasswordHash)
	require.NotNil(t, got.FirstName)
	assert.Equal(t, "Ada", *got.FirstName)
	assert.Nil(t, got.LastName)
	assert.Equal(t, entity.MembershipGold, got.MembershipLevel)
	assert.Equal(t, int64(250), got.Points)
	assert.True(t, got.CreatedAt.Equal(want.CreatedAt), "created_at drifted across reopen")
}

func TestOpen_AdoptsLegacyTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, dbFileName)

	raw, err := sql.Open("sqlite", "file:"+path)
	require.NoError(t, err)
	_, err = raw.Exec(`
CREATE TABLE users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  created_at INTEGER NOT NULL
)`)
	require.NoError(t, err)
	_, err = raw.Exec(`INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		"legacy-1", "old@example.com", "$2a$10$legacydigest", int64(1700000000000))
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	store := openStore(t, dir)
	got, err := NewUserRepository(store).GetByID(context.Background(), "legacy-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "old@example.com", got.Email)
	assert.Equal(t, "$2a$10$legacydigest", got.PasswordHash)
	assert.True(t, got.CreatedAt.Equal(fromMillis(1700000000000)))
	assert.Equal(t, entity.MembershipBronze, got.MembershipLevel)
	assert.Zero(t, got.Points)
	assert.Nil(t, got.FirstName)
	assert.Nil(t, got.LastName)
	assert.Nil(t, got.Phone)
}

func TestOpen_LegacyTableGainsEmailUniqueness(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, dbFileName)

	raw, err := sql.Open("sqlite", "file:"+path)
	require.NoError(t, err)
	_, err = raw.Exec(`
CREATE TABLE users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  created_at INTEGER NOT NULL
)`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	repo := NewUserRepository(openStore(t, dir))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, testUser("u1", "dup@example.com")))
	err = repo.Create(ctx, testUser("u2", "dup@example.com"))
	assert.Error(t, err)
}

func TestOpen_RebuildsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, dbFileName)
	garbage := bytes.Repeat([]byte("not a database "), 32)
	require.NoError(t, os.WriteFile(path, garbage, 0o644))

	repo := NewUserRepository(openStore(t, dir))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, testUser("u1", "fresh@example.com")))

	got, err := repo.GetByEmail(ctx, "fresh@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestOpen_RebuildsWhenRequiredColumnMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, dbFileName)

	raw, err := sql.Open("sqlite", "file:"+path)
	require.NoError(t, err)
	_, err = raw.Exec(`CREATE TABLE users (id TEXT PRIMARY KEY, email TEXT NOT NULL)`)
	require.NoError(t, err)
	_, err = raw.Exec(`INSERT INTO users (id, email) VALUES ('u1', 'stranded@example.com')`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	store := openStore(t, dir)
	got, err := NewUserRepository(store).GetByEmail(context.Background(), "stranded@example.com")
	require.NoError(t, err)
	assert.Nil(t, got, "rebuild should start from an empty table")
}
