package bank

import "fmt"

var (
	// ErrNotFound means the referenced card row does not exist (or
	// vanished between calls).
	ErrNotFound = fmt.Errorf("not found")

	// ErrConflict means a freshly generated card number collided with
	// an existing row. Account creation retries on it; it is never
	// surfaced to the user.
	ErrConflict = fmt.Errorf("conflict")

	// ErrInvalidCredentials is returned for every failed login. A
	// missing card and a wrong PIN produce the same error so callers
	// cannot enumerate accounts.
	ErrInvalidCredentials = fmt.Errorf("wrong card number or PIN")

	// ErrNotAuthenticated means the session token is unknown or the
	// session has ended.
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// ErrInvalidCard means a transfer target failed Luhn validation.
	ErrInvalidCard = fmt.Errorf("invalid card number")

	// ErrNoSuchAccount means a transfer target validates but has no row.
	ErrNoSuchAccount = fmt.Errorf("no such account")

	// ErrSameAccount rejects transfers onto the sending account.
	ErrSameAccount = fmt.Errorf("cannot transfer to the same account")

	// ErrInsufficientFunds means the transfer amount exceeds the
	// sender's balance.
	ErrInsufficientFunds = fmt.Errorf("insufficient funds")
)
