package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/term"

	"fincore.org/internal/audit"
	"fincore.org/internal/auth"
	"fincore.org/internal/bank"
	"fincore.org/internal/identity"
	"fincore.org/internal/ids"
	"fincore.org/internal/validate"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

var mainOptions = []string{"Login", "Create Account", "Create Business Account", "Exit"}

var accountOptions = []string{"Balance", "Deposit", "Withdraw", "Logout"}

type app struct {
	api *bank.Facade
	in  *bufio.Scanner
	out io.Writer
}

func newApp(api *bank.Facade, in io.Reader, out io.Writer) *app {
	return &app{api: api, in: bufio.NewScanner(in), out: out}
}

// run drives the two-level menu: the main menu until a login or account
// creation succeeds, then the account menu until logout.
func (a *app) run(ctx context.Context) {
	var user *identity.Identity
	for {
		for user == nil {
			user = a.mainMenu(ctx)
		}
		for user != nil {
			user = a.accountMenu(ctx, user)
		}
	}
}

func (a *app) mainMenu(ctx context.Context) *identity.Identity {
	fmt.Fprintln(a.out, strings.Repeat(" ", 10)+strings.Repeat("-", 60))
	fmt.Fprintln(a.out, strings.Repeat(" ", 20)+"Welcome to the FinCORE CLI Banking App")
	fmt.Fprintln(a.out, strings.Repeat(" ", 22)+"Please select an option below")
	fmt.Fprintln(a.out, strings.Repeat(" ", 10)+strings.Repeat("-", 60))

	ctx = audit.WithRequestID(ctx, ids.New())
	switch a.choose(mainOptions) {
	case 1:
		return a.doLogin(ctx)
	case 2:
		return a.doCreateIndividual(ctx)
	case 3:
		return a.doCreateOrganization(ctx)
	case 4:
		os.Exit(0)
	}
	return nil
}

func (a *app) accountMenu(ctx context.Context, user *identity.Identity) *identity.Identity {
	ctx = audit.WithRequestID(auth.ContextWithSubject(ctx, user.ID), ids.New())

	balance := decimal.Zero
	if bal, err := a.api.Balance(ctx, user.ID); err != nil {
		a.render(err)
	} else {
		balance = bal
	}

	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, strings.Repeat("=", 8)+" FinCore CLI Banking App "+strings.Repeat("=", 8))
	fmt.Fprintln(a.out, strings.Repeat(" ", 9)+"Account Holder: "+user.DisplayName())
	fmt.Fprintln(a.out, strings.Repeat(" ", 9)+"Current Balance: "+balance.StringFixedBank(2))
	fmt.Fprintln(a.out, "Please select an option from the menu below")
	fmt.Fprintln(a.out, strings.Repeat("=", 40))

	switch a.choose(accountOptions) {
	case 1:
		bal, err := a.api.Balance(ctx, user.ID)
		if err != nil {
			a.render(err)
			break
		}
		fmt.Fprintln(a.out, "Current Balance: $"+bal.StringFixedBank(2))
	case 2:
		amount, err := a.readAmount()
		if err != nil {
			a.render(err)
			break
		}
		if err := a.api.Deposit(ctx, user, amount); err != nil {
			a.render(err)
			break
		}
		fmt.Fprintln(a.out, "Amount deposited: $"+amount.StringFixedBank(2))
		a.showNewBalance(ctx, user)
	case 3:
		amount, err := a.readAmount()
		if err != nil {
			a.render(err)
			break
		}
		if err := a.api.Withdraw(ctx, user, amount); err != nil {
			a.render(err)
			break
		}
		fmt.Fprintln(a.out, "Amount withdrawn: $"+amount.StringFixedBank(2))
		a.showNewBalance(ctx, user)
	case 4:
		a.api.Logout(ctx, user.ID)
		return nil
	}
	return user
}

func (a *app) doLogin(ctx context.Context) *identity.Identity {
	fmt.Fprintln(a.out, "Please enter your username and password to login")
	username := a.prompt("Username:")
	secret := a.promptSecret("Password:")

	if err := validate.Username(username); err != nil {
		a.render(err)
		return nil
	}
	if err := validate.Secret(secret); err != nil {
		a.render(err)
		return nil
	}
	user, err := a.api.Login(ctx, username, secret)
	if err != nil {
		a.render(err)
		return nil
	}
	return user
}

func (a *app) doCreateIndividual(ctx context.Context) *identity.Identity {
	username := a.prompt("Please enter an account username between 6-20 characters:")
	secret := a.promptSecret("Please create a password, between 12 and 64 characters, including at least 2 numbers and special characters:")
	first := a.prompt("Please enter your first name:")
	last := a.prompt("Please enter your surname:")

	if err := validate.Username(username); err != nil {
		a.render(err)
		return nil
	}
	if err := validate.Secret(secret); err != nil {
		a.render(err)
		return nil
	}
	if err := validate.PersonName(first, last); err != nil {
		a.render(err)
		return nil
	}
	user, err := a.api.CreateIndividual(ctx, username, secret, first, last)
	if err != nil {
		a.render(err)
		return nil
	}
	return user
}

func (a *app) doCreateOrganization(ctx context.Context) *identity.Identity {
	name := a.prompt("Please enter your business name between 6-20 characters:")
	secret := a.promptSecret("Please create a password, between 12 and 64 characters, including at least 2 numbers and special characters:")

	if err := validate.BusinessName(name); err != nil {
		a.render(err)
		return nil
	}
	if err := validate.Secret(secret); err != nil {
		a.render(err)
		return nil
	}
	user, err := a.api.CreateOrganization(ctx, name, secret)
	if err != nil {
		a.render(err)
		return nil
	}
	return user
}

func (a *app) showNewBalance(ctx context.Context, user *identity.Identity) {
	bal, err := a.api.Balance(ctx, user.ID)
	if err != nil {
		a.render(err)
		return
	}
	fmt.Fprintln(a.out, "New balance: $"+bal.StringFixedBank(2))
}

// choose prints a numbered menu and reads a selection until it is valid.
func (a *app) choose(options []string) int {
	for {
		for i, opt := range options {
			fmt.Fprintf(a.out, "%d. %s\n", i+1, opt)
		}
		choice, err := strconv.Atoi(strings.TrimSpace(a.readLine()))
		if err != nil || choice < 1 || choice > len(options) {
			fmt.Fprintln(a.out, "Invalid choice")
			continue
		}
		return choice
	}
}

func (a *app) prompt(label string) string {
	fmt.Fprintln(a.out, label)
	return strings.TrimSpace(a.readLine())
}

// promptSecret hides input when stdin is a terminal and falls back to a
// plain line read otherwise, so the app stays scriptable.
func (a *app) promptSecret(label string) string {
	fmt.Fprintln(a.out, label)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := readPassword(fd)
		fmt.Fprintln(a.out)
		if err == nil {
			return strings.TrimSpace(string(raw))
		}
	}
	return strings.TrimSpace(a.readLine())
}

func (a *app) readAmount() (decimal.Decimal, error) {
	fmt.Fprintln(a.out, "Enter the amount:")
	return decimal.NewFromString(strings.TrimSpace(a.readLine()))
}

func (a *app) readLine() string {
	if !a.in.Scan() {
		os.Exit(0)
	}
	return a.in.Text()
}

// render maps error kinds to user-facing messages; the facade surfaces
// errors untranslated, presentation happens here.
func (a *app) render(err error) {
	var vErr *validate.Error
	switch {
	case errors.As(err, &vErr):
		fmt.Fprintln(a.out, vErr.Reason)
	case errors.Is(err, identity.ErrNotFound):
		fmt.Fprintln(a.out, "User Not Found! The account does not exist in the database.")
	case errors.Is(err, identity.ErrCredentialMismatch):
		fmt.Fprintln(a.out, "Password Mismatch! Username or password is incorrect.")
	case errors.Is(err, identity.ErrDuplicate):
		fmt.Fprintln(a.out, "An account with that username already exists.")
	case errors.Is(err, identity.ErrUnauthorized):
		fmt.Fprintln(a.out, "Not authorised to perform this action!")
	case errors.Is(err, auth.ErrTooManyAttempts):
		fmt.Fprintln(a.out, "Too many login attempts, try again shortly.")
	case errors.Is(err, bank.ErrInsufficientFunds):
		fmt.Fprintln(a.out, "Insufficient funds for this withdrawal.")
	case errors.Is(err, identity.ErrDataIntegrity):
		fmt.Fprintln(a.out, "Could not find the user or the account in the database")
	default:
		fmt.Fprintln(a.out, "Unknown error! "+err.Error())
	}
}
