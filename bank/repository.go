package bank

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/0903lokchan/banking/bank/models"
	"github.com/mattn/go-sqlite3"
)

// Repository is the card store. All balance mutations that touch more
// than one row run inside a single SQL transaction.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the card table when it is missing. Safe to run on
// every startup.
func (r *Repository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS card (
            id      INTEGER PRIMARY KEY AUTOINCREMENT,
            number  TEXT    NOT NULL UNIQUE,
            pin     TEXT    NOT NULL,
            balance INTEGER NOT NULL DEFAULT 0
        )
    `)
	if err != nil {
		return fmt.Errorf("creating card table: %w", err)
	}
	return nil
}

// GetBalance returns the balance for the card number, or ErrNotFound.
// A zero balance is a valid result and distinct from a missing row.
func (r *Repository) GetBalance(ctx context.Context, number string) (int64, error) {
	row := r.db.QueryRowContext(ctx, `SELECT balance FROM card WHERE number = ?`, number)
	var balance int64
	if err := row.Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("querying balance: %w", err)
	}
	return balance, nil
}

// SetBalance overwrites the balance of an existing card.
func (r *Repository) SetBalance(ctx context.Context, number string, balance int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE card SET balance = ? WHERE number = ?`, balance, number)
	if err != nil {
		return fmt.Errorf("updating balance: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertCard creates a new card row with a zero balance. Returns
// ErrConflict when the number already exists.
func (r *Repository) InsertCard(ctx context.Context, number, pin string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO card(number, pin) VALUES (?, ?)`, number, pin)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("inserting card: %w", err)
	}
	return nil
}

// FindByNumber returns the full card record for login matching.
func (r *Repository) FindByNumber(ctx context.Context, number string) (*models.Card, error) {
	row := r.db.QueryRowContext(ctx, `SELECT number, pin, balance FROM card WHERE number = ?`, number)
	card := models.Card{}
	if err := row.Scan(&card.Number, &card.PIN, &card.Balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying card: %w", err)
	}
	return &card, nil
}

// DeleteCard removes the card row. Returns false without an error when
// no such row exists.
func (r *Repository) DeleteCard(ctx context.Context, number string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM card WHERE number = ?`, number)
	if err != nil {
		return false, fmt.Errorf("deleting card: %w", err)
	}
	rows, _ := res.RowsAffected()
	return rows > 0, nil
}

// AddToBalance applies a signed delta to an existing card's balance as
// a single UPDATE, so concurrent callers cannot lose each other's
// writes.
func (r *Repository) AddToBalance(ctx context.Context, number string, amount int64) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE card SET balance = balance + ? WHERE number = ?
    `, amount, number)
	if err != nil {
		return fmt.Errorf("adding to balance: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Transfer debits `from` and credits `to` inside one transaction. The
// debit is guarded by a balance check so the sender can never go
// negative; any failure rolls back both legs.
func (r *Repository) Transfer(ctx context.Context, from, to string, amount int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transfer: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
        UPDATE card SET balance = balance - ?
         WHERE number = ? AND balance >= ?
    `, amount, from, amount)
	if err != nil {
		return fmt.Errorf("debiting sender: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		// Either the sender vanished or the funds did; look once to
		// tell which.
		var balance int64
		err := tx.QueryRowContext(ctx, `SELECT balance FROM card WHERE number = ?`, from).Scan(&balance)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("querying sender: %w", err)
		}
		return ErrInsufficientFunds
	}

	res, err = tx.ExecContext(ctx, `
        UPDATE card SET balance = balance + ? WHERE number = ?
    `, amount, to)
	if err != nil {
		return fmt.Errorf("crediting receiver: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transfer: %w", err)
	}
	return nil
}

// Ping reports store readiness.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
			se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
