package bank

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/exp/slog"

	"github.com/0903lokchan/banking/internal/cardgen"
)

// command enumerates every menu action. Input lines are parsed into a
// command once and dispatched with a switch, so there is no
// string-keyed handler table to fall through.
type command int

const (
	cmdUnknown command = iota
	cmdExit
	cmdCreateAccount
	cmdLogin
	cmdBalance
	cmdAddIncome
	cmdTransfer
	cmdCloseAccount
	cmdLogout
)

const mainMenuText = `
1. Create an account
2. Log into account
0. Exit
`

const accountMenuText = `
1. Balance
2. Add income
3. Do transfer
4. Close account
5. Log out
0. Exit
`

// Menu drives the interactive session. It only talks to the Service;
// all parsing and prompting stays here.
type Menu struct {
	service *Service
	in      *bufio.Scanner
	out     io.Writer
	logger  *slog.Logger
}

func NewMenu(service *Service, in io.Reader, out io.Writer, logger *slog.Logger) *Menu {
	return &Menu{
		service: service,
		in:      bufio.NewScanner(in),
		out:     out,
		logger:  logger,
	}
}

// Run loops over the unauthenticated menu until the user exits or the
// input ends. Errors from the store are reported and the menu
// continues; they never end the session.
func (m *Menu) Run(ctx context.Context) error {
	for {
		fmt.Fprint(m.out, mainMenuText)
		line, ok := m.readLine()
		if !ok {
			return nil
		}
		switch parseMainCommand(line) {
		case cmdExit:
			fmt.Fprintln(m.out, "Bye!")
			return nil
		case cmdCreateAccount:
			m.createAccount(ctx)
		case cmdLogin:
			if exit := m.login(ctx); exit {
				fmt.Fprintln(m.out, "Bye!")
				return nil
			}
		default:
			fmt.Fprintln(m.out, "Please input the corresponding number of options eg. 1")
		}
	}
}

func parseMainCommand(line string) command {
	switch line {
	case "0":
		return cmdExit
	case "1":
		return cmdCreateAccount
	case "2":
		return cmdLogin
	default:
		return cmdUnknown
	}
}

func parseAccountCommand(line string) command {
	switch line {
	case "0":
		return cmdExit
	case "1":
		return cmdBalance
	case "2":
		return cmdAddIncome
	case "3":
		return cmdTransfer
	case "4":
		return cmdCloseAccount
	case "5":
		return cmdLogout
	default:
		return cmdUnknown
	}
}

func (m *Menu) createAccount(ctx context.Context) {
	card, err := m.service.CreateAccount(ctx)
	if err != nil {
		m.logger.Error("creating account", "err", err)
		fmt.Fprintln(m.out, "An error occurred creating the account.")
		return
	}
	fmt.Fprintf(m.out, "\nYour card has been created\nYour card number:\n%s\nYour card PIN:\n%s\n", card.Number, card.PIN)
}

// login prompts for credentials and, on success, runs the account menu.
// The returned bool reports that the user chose to exit the program
// from inside the account menu.
func (m *Menu) login(ctx context.Context) bool {
	fmt.Fprintln(m.out, "Enter your card number:")
	number, ok := m.readLine()
	if !ok {
		return true
	}
	fmt.Fprintln(m.out, "Enter your PIN:")
	pin, ok := m.readLine()
	if !ok {
		return true
	}

	token, err := m.service.Login(ctx, number, pin)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			fmt.Fprintln(m.out, "Wrong card number or PIN!")
		} else {
			m.logger.Error("logging in", "card", cardgen.MaskPAN(number), "err", err)
			fmt.Fprintln(m.out, "An error occurred logging in.")
		}
		return false
	}

	fmt.Fprintln(m.out, "You have successfully logged in!")
	return m.accountMenu(ctx, token)
}

// accountMenu loops until the user logs out (false) or exits (true).
func (m *Menu) accountMenu(ctx context.Context, token string) bool {
	defer m.service.Logout(token)

	for {
		fmt.Fprint(m.out, accountMenuText)
		line, ok := m.readLine()
		if !ok {
			return true
		}
		switch parseAccountCommand(line) {
		case cmdExit:
			return true
		case cmdBalance:
			m.checkBalance(ctx, token)
		case cmdAddIncome:
			m.addIncome(ctx, token)
		case cmdTransfer:
			m.transfer(ctx, token)
		case cmdCloseAccount:
			if closed := m.closeAccount(ctx, token); closed {
				return false
			}
		case cmdLogout:
			fmt.Fprintln(m.out, "You have successfully logged out!")
			return false
		default:
			fmt.Fprintln(m.out, "Please input the corresponding number of options eg. 1")
		}
	}
}

func (m *Menu) checkBalance(ctx context.Context, token string) {
	balance, err := m.service.Balance(ctx, token)
	if err != nil {
		m.logger.Error("checking balance", "err", err)
		fmt.Fprintln(m.out, "An error occurred checking the balance.")
		return
	}
	fmt.Fprintf(m.out, "Balance: %d\n", balance)
}

func (m *Menu) addIncome(ctx context.Context, token string) {
	fmt.Fprintln(m.out, "Enter income:")
	amount, ok := m.readAmount()
	if !ok {
		return
	}
	if err := m.service.AddIncome(ctx, token, amount); err != nil {
		m.logger.Error("adding income", "err", err)
		fmt.Fprintln(m.out, "An error occurred adding income.")
		return
	}
	fmt.Fprintln(m.out, "Income was added!")
}

func (m *Menu) transfer(ctx context.Context, token string) {
	fmt.Fprintln(m.out, "Transfer")
	fmt.Fprintln(m.out, "Enter card number:")
	target, ok := m.readLine()
	if !ok {
		return
	}
	if err := m.service.ValidateTarget(ctx, token, target); err != nil {
		m.reportTransferError(err)
		return
	}
	fmt.Fprintln(m.out, "Enter how much money you want to transfer:")
	amount, ok := m.readAmount()
	if !ok {
		return
	}
	if err := m.service.Transfer(ctx, token, target, amount); err != nil {
		m.reportTransferError(err)
		return
	}
	fmt.Fprintln(m.out, "Success!")
}

func (m *Menu) reportTransferError(err error) {
	switch {
	case errors.Is(err, ErrInvalidCard):
		fmt.Fprintln(m.out, "Probably you made a mistake in the card number. Please try again!")
	case errors.Is(err, ErrSameAccount):
		fmt.Fprintln(m.out, "You can't transfer money to the same account!")
	case errors.Is(err, ErrNoSuchAccount):
		fmt.Fprintln(m.out, "Such a card does not exist.")
	case errors.Is(err, ErrInsufficientFunds):
		fmt.Fprintln(m.out, "Not enough money!")
	default:
		m.logger.Error("transferring", "err", err)
		fmt.Fprintln(m.out, "An error occurred during the transfer.")
	}
}

func (m *Menu) closeAccount(ctx context.Context, token string) bool {
	if err := m.service.CloseAccount(ctx, token); err != nil {
		m.logger.Error("closing account", "err", err)
		fmt.Fprintln(m.out, "The account was not closed.")
		return false
	}
	fmt.Fprintln(m.out, "The account has been closed!")
	return true
}

func (m *Menu) readLine() (string, bool) {
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

// readAmount parses an integer amount, rejecting non-numeric text here
// so the service never sees it.
func (m *Menu) readAmount() (int64, bool) {
	line, ok := m.readLine()
	if !ok {
		return 0, false
	}
	amount, err := strconv.ParseInt(line, 10, 64)
	if err != nil {
		fmt.Fprintln(m.out, "Please enter a whole number amount.")
		return 0, false
	}
	return amount, true
}
