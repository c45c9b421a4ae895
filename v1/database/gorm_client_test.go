package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type note struct {
	ID   int    `gorm:"primaryKey"`
	Text string `gorm:"uniqueIndex"`
	Done bool
}

func newTestClient(t *testing.T) *GormClient {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	closed := false
	client := NewGormClient(func() *gorm.DB { return db }, func() error {
		closed = true
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})
	t.Cleanup(func() {
		if !closed {
			_ = client.GracefulShutdown()
		}
	})

	require.NoError(t, client.AutoMigrate(context.Background(), &note{}))
	return client
}

func TestGormClient_CRUD(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	n := note{Text: "milk"}
	require.NoError(t, client.Create(ctx, &n))
	assert.NotZero(t, n.ID)

	var got note
	require.NoError(t, client.First(ctx, &got, n.ID))
	assert.Equal(t, "milk", got.Text)

	affected, err := client.Update(ctx, &note{ID: n.ID}, map[string]interface{}{"done": true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	var count int64
	require.NoError(t, client.Count(ctx, &note{}, &count, "done = ?", true))
	assert.Equal(t, int64(1), count)

	affected, err = client.Delete(ctx, &note{}, n.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	err = client.First(ctx, &got, n.ID)
	assert.ErrorIs(t, client.TranslateError(err), ErrRecordNotFound)
}

func TestGormClient_DuplicateKey(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	require.NoError(t, client.Create(ctx, &note{Text: "same"}))
	err := client.Create(ctx, &note{Text: "same"})
	assert.ErrorIs(t, client.TranslateError(err), ErrDuplicateKey)
}

func TestGormClient_TransactionRollback(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	sentinel := errors.New("abort")
	err := client.Transaction(ctx, func(tx Client) error {
		if err := tx.Create(ctx, &note{Text: "rolled back"}); err != nil {
			return err
		}
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	var count int64
	require.NoError(t, client.Count(ctx, &note{}, &count))
	assert.Zero(t, count)
}

func TestGormClient_QueryBuilder(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	for _, text := range []string{"a", "b", "c"} {
		require.NoError(t, client.Create(ctx, &note{Text: text, Done: text != "b"}))
	}

	var done []note
	require.NoError(t, client.Query(ctx).Model(&note{}).Where("done = ?", true).Order("id DESC").Find(&done))
	require.Len(t, done, 2)
	assert.Equal(t, "c", done[0].Text)

	var first note
	err := client.Transaction(ctx, func(tx Client) error {
		return tx.Query(ctx).Model(&note{}).ForUpdate().Where("text = ?", "b").First(&first)
	})
	require.NoError(t, err)
	assert.False(t, first.Done)

	var none note
	err = client.Query(ctx).Model(&note{}).Where("text = ?", "z").First(&none)
	assert.ErrorIs(t, client.TranslateError(err), ErrRecordNotFound)
}

func TestGormClient_PingAndShutdown(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	assert.Equal(t, "sqlite", client.Dialect())
	require.NoError(t, client.Ping(ctx))
	require.NoError(t, client.GracefulShutdown())
	assert.ErrorIs(t, client.Ping(ctx), ErrConnection)
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, TranslateError(nil))
	assert.ErrorIs(t, TranslateError(gorm.ErrRecordNotFound), ErrRecordNotFound)
	assert.ErrorIs(t, TranslateError(gorm.ErrInvalidData), ErrInvalidData)

	other := errors.New("other")
	assert.Equal(t, other, TranslateError(other))
	assert.False(t, IsRetryable(other))
	assert.True(t, IsRetryable(ErrConnection))
}
