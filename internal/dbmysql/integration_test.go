package dbmysql

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"chatroom/internal/config"
)

// Runs against the MySQL from docker-compose when MYSQL_INTEGRATION=1.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if os.Getenv("MYSQL_INTEGRATION") != "1" {
		t.Skip("set MYSQL_INTEGRATION=1 to run against a live MySQL")
	}

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Host:         getEnvOrDefault("MYSQL_HOST", "localhost"),
			Port:         getEnvOrDefault("MYSQL_PORT", "3306"),
			Username:     getEnvOrDefault("MYSQL_USERNAME", "chatroom"),
			Password:     getEnvOrDefault("MYSQL_PASSWORD", "chatroom123"),
			DatabaseName: getEnvOrDefault("MYSQL_DATABASE", "chatroom_test"),
			MaxOpenConns: 5,
			MaxIdleConns: 1,
		},
		Logging: config.LoggingConfig{Level: "error"},
	}

	db, err := NewMySQL(cfg)
	require.NoError(t, err, "ensure MySQL is running: docker-compose up -d mysql")
	t.Cleanup(func() { Close(db) })
	return db
}

func TestUserRepository_Integration(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	email := uuid.NewString() + "@it.test"
	u := &User{UserID: uuid.NewString(), Email: email, PasswordHash: "hash", Status: UserStatusActive}
	require.NoError(t, repo.CreateUser(ctx, u))
	t.Cleanup(func() { db.Unscoped().Delete(u) })

	got, err := repo.GetUserByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, u.UserID, got.UserID)

	byID, err := repo.GetUserByID(ctx, u.UserID)
	require.NoError(t, err)
	assert.Equal(t, email, byID.Email)

	dup := &User{UserID: uuid.NewString(), Email: email, PasswordHash: "hash"}
	assert.ErrorIs(t, repo.CreateUser(ctx, dup), ErrEmailTaken)

	_, err = repo.GetUserByEmail(ctx, "missing-"+email)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMessageRepository_Integration(t *testing.T) {
	db := openTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	collection := "it-" + uuid.NewString()[:8]
	t.Cleanup(func() { db.Where("collection = ?", collection).Delete(&Message{}) })

	same := time.Now().UTC().Truncate(time.Millisecond)
	for _, text := range []string{"first", "second"} {
		require.NoError(t, repo.Create(ctx, &Message{
			DocID: uuid.NewString(), Collection: collection, Text: text, Author: "a@x.com", CreatedAt: same,
		}))
	}
	require.NoError(t, repo.Create(ctx, &Message{
		DocID: uuid.NewString(), Collection: collection, Text: "earlier", CreatedAt: same.Add(-time.Second),
	}))

	asc, err := repo.List(ctx, collection, false)
	require.NoError(t, err)
	require.Len(t, asc, 3)
	assert.Equal(t, []string{"earlier", "first", "second"}, texts(asc))

	desc, err := repo.List(ctx, collection, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "first", "earlier"}, texts(desc))

	seq, err := repo.LatestSeq(ctx, collection)
	require.NoError(t, err)
	// "earlier" was inserted last.
	assert.Equal(t, asc[0].Seq, seq)
	assert.Less(t, asc[1].Seq, asc[2].Seq)
}

func TestMediaRefRepository_Integration(t *testing.T) {
	db := openTestDB(t)
	repo := NewMediaRefRepository(db)
	ctx := context.Background()

	ref := &MediaRef{FileID: uuid.NewString()[:24], Path: "uploads/" + uuid.NewString(), FileName: "a.jpg", Size: 3}
	require.NoError(t, repo.Create(ctx, ref))
	t.Cleanup(func() { db.Delete(ref) })

	got, err := repo.ByPath(ctx, ref.Path)
	require.NoError(t, err)
	assert.Equal(t, ref.FileID, got.FileID)

	_, err = repo.ByPath(ctx, "uploads/missing")
	assert.ErrorIs(t, err, ErrMediaNotFound)
}

func texts(msgs []Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Text
	}
	return out
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
