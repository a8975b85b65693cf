package bank

import (
	"context"
	"errors"
	"fmt"

	"github.com/0903lokchan/banking/bank/models"
	"github.com/0903lokchan/banking/internal/cardgen"
)

// Service is the account business logic: card minting, login, and the
// balance-mutating operations. It never caches balances; every read
// goes back to the repository.
type Service struct {
	repo     *Repository
	cfg      *Config
	sessions *sessionManager
}

func NewService(repo *Repository, cfg *Config) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Service{
		repo:     repo,
		cfg:      cfg,
		sessions: newSessionManager(),
	}
}

// CreateAccount mints a card number under the configured BIN, generates
// a PIN and stores the new row with a zero balance. A number collision
// triggers transparent regeneration; only exhausting the retry budget
// surfaces an error.
func (s *Service) CreateAccount(ctx context.Context) (*models.Card, error) {
	retries := s.cfg.CreateRetries
	if retries <= 0 {
		retries = 1
	}
	for attempt := 0; attempt < retries; attempt++ {
		number, err := cardgen.GeneratePAN(s.cfg.BINPrefix)
		if err != nil {
			return nil, fmt.Errorf("generating card number: %w", err)
		}
		pin, err := cardgen.GeneratePIN(s.cfg.PINLength)
		if err != nil {
			return nil, fmt.Errorf("generating pin: %w", err)
		}

		err = s.repo.InsertCard(ctx, number, pin)
		if errors.Is(err, ErrConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("creating account: %w", err)
		}
		return &models.Card{Number: number, PIN: pin, Balance: 0}, nil
	}
	return nil, fmt.Errorf("could not create a unique card after %d attempts", retries)
}

// Login matches card number and PIN exactly and opens a session. A
// missing card and a wrong PIN are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, number, pin string) (string, error) {
	card, err := s.repo.FindByNumber(ctx, number)
	if errors.Is(err, ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("logging in: %w", err)
	}
	if card.PIN != pin {
		return "", ErrInvalidCredentials
	}
	return s.sessions.Start(number), nil
}

// Balance returns the current balance of the session's account.
func (s *Service) Balance(ctx context.Context, token string) (int64, error) {
	number, err := s.authenticate(token)
	if err != nil {
		return 0, err
	}
	return s.repo.GetBalance(ctx, number)
}

// AddIncome applies a signed amount to the session's account. Negative
// amounts act as withdrawals; input validation is the presentation
// layer's job.
func (s *Service) AddIncome(ctx context.Context, token string, amount int64) error {
	number, err := s.authenticate(token)
	if err != nil {
		return err
	}
	return s.repo.AddToBalance(ctx, number, amount)
}

// ValidateTarget runs the amount-independent transfer preconditions:
// checksum, self-transfer and existence. The menu calls it before
// prompting for an amount; Transfer re-checks everything regardless.
func (s *Service) ValidateTarget(ctx context.Context, token, target string) error {
	number, err := s.authenticate(token)
	if err != nil {
		return err
	}
	if err := cardgen.ValidatePAN(target); err != nil {
		return ErrInvalidCard
	}
	if target == number {
		return ErrSameAccount
	}
	if _, err := s.repo.GetBalance(ctx, target); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNoSuchAccount
		}
		return fmt.Errorf("checking target: %w", err)
	}
	return nil
}

// Transfer moves amount from the session's account to target. The
// preconditions are checked in order: target checksum, self-transfer,
// target existence, sufficient funds. Both legs then run in one
// repository transaction, so the combined balance is conserved even on
// partial failure.
func (s *Service) Transfer(ctx context.Context, token, target string, amount int64) error {
	number, err := s.authenticate(token)
	if err != nil {
		return err
	}
	if err := s.ValidateTarget(ctx, token, target); err != nil {
		return err
	}
	balance, err := s.repo.GetBalance(ctx, number)
	if err != nil {
		return fmt.Errorf("checking balance: %w", err)
	}
	if amount > balance {
		return ErrInsufficientFunds
	}
	return s.repo.Transfer(ctx, number, target, amount)
}

// CloseAccount deletes the session's card row. The session itself is
// left to the caller to end.
func (s *Service) CloseAccount(ctx context.Context, token string) error {
	number, err := s.authenticate(token)
	if err != nil {
		return err
	}
	deleted, err := s.repo.DeleteCard(ctx, number)
	if err != nil {
		return fmt.Errorf("closing account: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// Logout ends the session unconditionally.
func (s *Service) Logout(token string) {
	s.sessions.End(token)
}

func (s *Service) authenticate(token string) (string, error) {
	number, ok := s.sessions.Number(token)
	if !ok {
		return "", ErrNotAuthenticated
	}
	return number, nil
}
