// The cli command is the interactive terminal front of the bank: a menu loop
// that collects and validates input, then drives the services. All business
// rules live in the services; this loop only prompts and prints.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/abbeysbank/banking/config"
	"github.com/abbeysbank/banking/infra/initializer"
	"github.com/abbeysbank/banking/pkg/domain"
	domainaccount "github.com/abbeysbank/banking/pkg/domain/account"
	"github.com/abbeysbank/banking/pkg/domain/money"
	"github.com/abbeysbank/banking/pkg/utils"
	log "github.com/charmbracelet/log"
	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	headline = color.New(color.FgCyan, color.Bold)
	success  = color.New(color.FgGreen)
	failure  = color.New(color.FgRed)
)

type shell struct {
	deps *initializer.Deps
	in   *bufio.Reader
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	logger := slog.Default()
	cfg, err := config.Load(logger, ".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}
	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.Close() //nolint:errcheck

	sh := &shell{deps: deps, in: bufio.NewReader(os.Stdin)}
	sh.mainLoop()
	return nil
}

func (sh *shell) mainLoop() {
	headline.Println("Welcome to Abbey's Bank")
	for {
		fmt.Println("\n1. Create Account")
		fmt.Println("2. Login")
		fmt.Println("3. Exit")
		switch sh.prompt("Choose an option: ") {
		case "1":
			sh.createAccount()
		case "2":
			sh.login()
		case "3":
			fmt.Println("Goodbye.")
			return
		default:
			failure.Println("Invalid option.")
		}
	}
}

func (sh *shell) prompt(label string) string {
	fmt.Print(label)
	line, err := sh.in.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

func (sh *shell) promptPassword(label string) string {
	fmt.Print(label)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

func (sh *shell) createAccount() {
	var email string
	for {
		email = sh.prompt("Enter email: ")
		if utils.IsEmail(email) {
			break
		}
		failure.Println("Invalid email format. Please enter a valid email address.")
	}

	var phone string
	for {
		phone = sh.prompt("Enter your phone number in this format (08012345678): ")
		if utils.IsValidPhoneNumber(phone) {
			break
		}
		failure.Println("Invalid phone number.")
	}

	var password string
	for {
		password = sh.promptPassword("Enter password: ")
		if utils.IsStrongPassword(password) {
			break
		}
		failure.Println("Password must be at least 8 characters long and contain " +
			"an uppercase letter, a lowercase letter and a digit.")
	}

	a, err := sh.deps.AccountSvc.Register(context.Background(), email, password, phone)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateIdentity) {
			failure.Println("Email or account number already exists.")
		} else {
			failure.Println("Account creation failed:", err)
		}
		return
	}
	success.Printf("Account creation successful.\nYour account number is: %s\n", a.AccountNumber)
	success.Printf("You have received an initial balance of %s naira from Abbey's Bank!\n",
		a.Balance.String())
}

func (sh *shell) login() {
	email := sh.prompt("Enter email: ")
	password := sh.promptPassword("Enter password: ")
	a, err := sh.deps.AuthSvc.Login(context.Background(), email, password)
	if err != nil {
		failure.Println("Invalid credentials.")
		return
	}
	success.Println("Login successful.")
	sh.sessionLoop(a)
}

func (sh *shell) sessionLoop(a *domainaccount.Account) {
	for {
		fmt.Println("\n1. Check Balance")
		fmt.Println("2. Deposit")
		fmt.Println("3. Transfer")
		fmt.Println("4. Transaction History")
		fmt.Println("5. Logout")
		switch sh.prompt("Choose an option: ") {
		case "1":
			sh.checkBalance(a)
		case "2":
			sh.deposit(a)
		case "3":
			sh.transfer(a)
		case "4":
			sh.history(a)
		case "5":
			if err := sh.deps.AuthSvc.Logout(context.Background(), a.ID); err != nil {
				failure.Println("Logout failed:", err)
			}
			fmt.Println("Logged out.")
			return
		default:
			failure.Println("Invalid option.")
		}
	}
}

func (sh *shell) readAmount(label string) (money.Money, bool) {
	raw := sh.prompt(label)
	naira, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		failure.Println("Invalid amount.")
		return money.Zero, false
	}
	amount, err := money.New(naira)
	if err != nil {
		failure.Println("Invalid amount:", err)
		return money.Zero, false
	}
	return amount, true
}

func (sh *shell) checkBalance(a *domainaccount.Account) {
	balance, err := sh.deps.AccountSvc.GetBalance(context.Background(), a.ID)
	if err != nil {
		failure.Println("Could not fetch balance:", err)
		return
	}
	fmt.Printf("Current balance: %s naira\n", balance.String())
}

func (sh *shell) deposit(a *domainaccount.Account) {
	amount, ok := sh.readAmount("Enter amount to deposit: ")
	if !ok {
		return
	}
	balance, err := sh.deps.TxSvc.Deposit(context.Background(), a.ID, amount)
	if err != nil {
		sh.printEngineError(err)
		return
	}
	success.Printf("Deposited %s naira. New balance: %s naira\n", amount.String(), balance.String())
}

func (sh *shell) transfer(a *domainaccount.Account) {
	number := sh.prompt("Enter recipient account number: ")
	amount, ok := sh.readAmount("Enter amount to transfer: ")
	if !ok {
		return
	}
	plan, err := sh.deps.TxSvc.PlanTransfer(context.Background(), a.ID, number, amount)
	if err != nil {
		sh.printEngineError(err)
		return
	}

	// Confirmation happens here, between plan and execute, never under locks.
	for {
		answer := strings.ToLower(sh.prompt(fmt.Sprintf(
			"Are you sure you want to send %s naira to %s? Type 'y' to confirm or 'n' to decline: ",
			plan.Amount.String(), plan.RecipientEmail)))
		if answer == "y" {
			break
		}
		if answer == "n" {
			fmt.Println("Transfer canceled.")
			return
		}
		failure.Println("Invalid input. Please type 'y' or 'n'.")
	}

	balance, err := sh.deps.TxSvc.ExecuteTransfer(context.Background(), plan)
	if err != nil {
		sh.printEngineError(err)
		return
	}
	success.Printf("Transferred %s naira to account %s. Your new balance is %s naira.\n",
		plan.Amount.String(), plan.RecipientAccountNumber, balance.String())
}

func (sh *shell) history(a *domainaccount.Account) {
	records, err := sh.deps.TxSvc.History(context.Background(), a.ID)
	if err != nil {
		failure.Println("Could not fetch history:", err)
		return
	}
	if len(records) == 0 {
		fmt.Println("No transactions yet.")
		return
	}
	fmt.Printf("%-20s %-14s %12s %14s\n", "TIME", "TYPE", "AMOUNT", "BALANCE")
	for _, rec := range records {
		fmt.Printf("%-20s %-14s %12s %14s\n",
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
			rec.Kind,
			rec.Amount.String(),
			rec.BalanceAfter.String())
	}
}

func (sh *shell) printEngineError(err error) {
	switch {
	case errors.Is(err, domainaccount.ErrInvalidAmount):
		failure.Println("Amount must be greater than zero.")
	case errors.Is(err, domainaccount.ErrInsufficientFunds):
		failure.Println("Transfer amount exceeds account balance.")
	case errors.Is(err, domainaccount.ErrRecipientNotFound):
		failure.Println("Recipient account number not found.")
	case errors.Is(err, domainaccount.ErrSelfTransfer):
		failure.Println("You cannot transfer to your own account.")
	default:
		failure.Println("Operation failed:", err)
	}
}
