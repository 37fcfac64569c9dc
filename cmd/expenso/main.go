package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"golang.org/x/term"
	"golang.org/x/text/currency"

	"github.com/denis-severinov/expenso-go/internal/amount"
	"github.com/denis-severinov/expenso-go/internal/auth"
	"github.com/denis-severinov/expenso-go/internal/config"
	"github.com/denis-severinov/expenso-go/internal/domain"
	"github.com/denis-severinov/expenso-go/internal/storage"
	"github.com/denis-severinov/expenso-go/internal/telemetry"
	"github.com/denis-severinov/expenso-go/internal/tui"
	"github.com/denis-severinov/expenso-go/internal/viewmodel"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) >= 3 && os.Args[1] == "key" {
		if err := runKeyCommand(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "key %s error: %v\n", os.Args[2], err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "expenso: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	dbPath, err := cfg.ResolveDBPath()
	if err != nil {
		return err
	}

	ctx := context.Background()
	db, err := storage.Open(ctx, storage.Config{
		Mode: storage.Mode(cfg.DBMode),
		Path: dbPath,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	categories, err := storage.NewCategoriesRepo(ctx, db)
	if err != nil {
		return err
	}
	transactions, err := storage.NewTransactionsRepo(ctx, db)
	if err != nil {
		return err
	}

	events := telemetry.Nop()
	if cfg.TelemetryPath != "" {
		f, err := os.OpenFile(cfg.TelemetryPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("open telemetry file: %w", err)
		}
		defer f.Close()
		events = telemetry.New(f)
	}

	unit, err := currency.ParseISO(cfg.Currency)
	if err != nil {
		return fmt.Errorf("parse currency %q: %w", cfg.Currency, err)
	}

	tag := cfg.LanguageTag()
	host := slog.Default()
	vm := viewmodel.NewEnterAmount(
		amount.SeparatorFor(tag),
		categories,
		transactions,
		viewmodel.Flow{
			ShowHistory:  func() { host.Info("navigation requested", "target", "history") },
			ShowSettings: func() { host.Info("navigation requested", "target", "settings") },
			ShowTransactionDetails: func(t domain.Transaction) {
				host.Info("navigation requested", "target", "transaction_details", "id", t.ID)
			},
		},
	)
	defer vm.Close()

	p := tea.NewProgram(
		tui.New(vm, events, tag, unit),
		tea.WithAltScreen(),
		tea.WithReportFocus(),
	)
	_, err = p.Run()
	return err
}

func runKeyCommand(action string) error {
	switch action {
	case "set":
		fmt.Print("Enter db key: ")
		key, err := readSecret()
		if err != nil {
			return err
		}
		fmt.Println()
		if strings.TrimSpace(key) == "" {
			return errors.New("empty key")
		}
		if err := auth.SaveDBKey(key); err != nil {
			return err
		}
		fmt.Println("db key saved to your system credential store.")
		return nil
	case "clear":
		if err := auth.DeleteDBKey(); err != nil {
			return err
		}
		fmt.Println("db key removed from your system credential store.")
		return nil
	default:
		return fmt.Errorf("usage: expenso key set|clear")
	}
}

func readSecret() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		value, err := term.ReadPassword(fd)
		if err != nil {
			return "", err
		}
		return string(value), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		if len(line) == 0 {
			return "", err
		}
	}
	return strings.TrimSpace(line), nil
}
