package bank_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/0903lokchan/banking/bank"
	_ "github.com/mattn/go-sqlite3"
)

func newTestRepository(t *testing.T) *bank.Repository {
	t.Helper()

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "card.s3db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := bank.NewRepository(db)
	require.NoError(t, repo.Migrate(context.Background()))

	return repo
}

func TestRepository_InsertAndFind(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertCard(ctx, "4000000000000002", "1234"))

	card, err := repo.FindByNumber(ctx, "4000000000000002")
	require.NoError(t, err)
	require.Equal(t, "4000000000000002", card.Number)
	require.Equal(t, "1234", card.PIN)
	require.Equal(t, int64(0), card.Balance)

	_, err = repo.FindByNumber(ctx, "4000008449433403")
	require.ErrorIs(t, err, bank.ErrNotFound)
}

func TestRepository_InsertDuplicate(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertCard(ctx, "4000000000000002", "1234"))
	err := repo.InsertCard(ctx, "4000000000000002", "9999")
	require.ErrorIs(t, err, bank.ErrConflict)
}

func TestRepository_GetBalance(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	// A zero balance must be distinguishable from a missing row.
	require.NoError(t, repo.InsertCard(ctx, "4000000000000002", "1234"))
	balance, err := repo.GetBalance(ctx, "4000000000000002")
	require.NoError(t, err)
	require.Equal(t, int64(0), balance)

	_, err = repo.GetBalance(ctx, "4000008449433403")
	require.ErrorIs(t, err, bank.ErrNotFound)
}

func TestRepository_SetBalance(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertCard(ctx, "4000000000000002", "1234"))
	require.NoError(t, repo.SetBalance(ctx, "4000000000000002", 750))

	balance, err := repo.GetBalance(ctx, "4000000000000002")
	require.NoError(t, err)
	require.Equal(t, int64(750), balance)

	err = repo.SetBalance(ctx, "4000008449433403", 100)
	require.ErrorIs(t, err, bank.ErrNotFound)
}

func TestRepository_DeleteCard(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertCard(ctx, "4000000000000002", "1234"))

	deleted, err := repo.DeleteCard(ctx, "4000000000000002")
	require.NoError(t, err)
	require.True(t, deleted)

	_, err = repo.GetBalance(ctx, "4000000000000002")
	require.ErrorIs(t, err, bank.ErrNotFound)

	deleted, err = repo.DeleteCard(ctx, "4000000000000002")
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestRepository_AddToBalance(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertCard(ctx, "4000000000000002", "1234"))
	require.NoError(t, repo.AddToBalance(ctx, "4000000000000002", 500))
	require.NoError(t, repo.AddToBalance(ctx, "4000000000000002", -200))

	balance, err := repo.GetBalance(ctx, "4000000000000002")
	require.NoError(t, err)
	require.Equal(t, int64(300), balance)

	err = repo.AddToBalance(ctx, "4000008449433403", 100)
	require.ErrorIs(t, err, bank.ErrNotFound)
}

func TestRepository_Transfer(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertCard(ctx, "4000000000000002", "1234"))
	require.NoError(t, repo.InsertCard(ctx, "4000008449433403", "5678"))
	require.NoError(t, repo.SetBalance(ctx, "4000000000000002", 500))

	require.NoError(t, repo.Transfer(ctx, "4000000000000002", "4000008449433403", 300))

	from, err := repo.GetBalance(ctx, "4000000000000002")
	require.NoError(t, err)
	to, err := repo.GetBalance(ctx, "4000008449433403")
	require.NoError(t, err)
	require.Equal(t, int64(200), from)
	require.Equal(t, int64(300), to)
	require.Equal(t, int64(500), from+to)
}

func TestRepository_TransferInsufficientFunds(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertCard(ctx, "4000000000000002", "1234"))
	require.NoError(t, repo.InsertCard(ctx, "4000008449433403", "5678"))
	require.NoError(t, repo.SetBalance(ctx, "4000000000000002", 100))

	err := repo.Transfer(ctx, "4000000000000002", "4000008449433403", 101)
	require.ErrorIs(t, err, bank.ErrInsufficientFunds)

	from, err := repo.GetBalance(ctx, "4000000000000002")
	require.NoError(t, err)
	to, err := repo.GetBalance(ctx, "4000008449433403")
	require.NoError(t, err)
	require.Equal(t, int64(100), from)
	require.Equal(t, int64(0), to)
}

func TestRepository_TransferRollsBackOnMissingReceiver(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertCard(ctx, "4000000000000002", "1234"))
	require.NoError(t, repo.SetBalance(ctx, "4000000000000002", 500))

	err := repo.Transfer(ctx, "4000000000000002", "4000008449433403", 300)
	require.ErrorIs(t, err, bank.ErrNotFound)

	// The debit leg must not survive the failed credit.
	from, err := repo.GetBalance(ctx, "4000000000000002")
	require.NoError(t, err)
	require.Equal(t, int64(500), from)
}

func TestRepository_TransferMissingSender(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertCard(ctx, "4000008449433403", "5678"))

	err := repo.Transfer(ctx, "4000000000000002", "4000008449433403", 10)
	require.ErrorIs(t, err, bank.ErrNotFound)
}
