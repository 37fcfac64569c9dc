// Package viewmodel is the presentation state behind the enter-amount screen:
// derived fields recomputed from the repository streams and the current amount
// string, plus the transaction/category operations the screen commits through.
//
// Everything here runs on the event-processing goroutine. Stream deliveries
// are synchronous, so an observer never sees SpentTodayCents disagree with
// TodayTransactions.
package viewmodel

import (
	"context"
	"strings"
	"time"

	"github.com/denis-severinov/expenso-go/internal/amount"
	"github.com/denis-severinov/expenso-go/internal/domain"
	"github.com/denis-severinov/expenso-go/internal/stream"
)

// CategoryRepository is the persistence boundary for categories.
type CategoryRepository interface {
	AllCategories() *stream.Source[[]domain.Category]
	Add(ctx context.Context, c domain.Category) (domain.Category, error)
	Update(ctx context.Context, c domain.Category) error
	Delete(ctx context.Context, c domain.Category) error
}

// TransactionRepository is the persistence boundary for transactions. Its
// stream is scoped to the current calendar day and is the sole source of truth
// for the list; mutations never patch local state optimistically.
type TransactionRepository interface {
	TodayTransactions() *stream.Source[[]domain.Transaction]
	Add(ctx context.Context, t domain.Transaction) (domain.Transaction, error)
	Update(ctx context.Context, t domain.Transaction) error
	Delete(ctx context.Context, t domain.Transaction) error
}

// Flow holds the host-provided navigation callbacks. Any of them may be nil.
type Flow struct {
	ShowHistory            func()
	ShowSettings           func()
	ShowTransactionDetails func(domain.Transaction)
}

// EnterAmount owns the screen's derived state. Exported fields are read by the
// view; only EnterAmount methods write them.
type EnterAmount struct {
	Flow Flow

	CurrentAmount     string
	IsAmountValid     bool
	SpentTodayCents   int64
	TodayTransactions []domain.Transaction
	AllCategories     []domain.Category

	SelectedCategory       *domain.Category
	CategoryForEdit        *domain.Category
	LastCreatedTransaction *domain.Transaction

	reducer   amount.Reducer
	validator amount.Validator
	sep       rune

	categories   CategoryRepository
	transactions TransactionRepository

	subs []*stream.Subscription
	now  func() time.Time
}

func NewEnterAmount(sep rune, categories CategoryRepository, transactions TransactionRepository, flow Flow) *EnterAmount {
	vm := &EnterAmount{
		Flow:          flow,
		CurrentAmount: amount.Empty,
		reducer:       amount.NewReducer(sep),
		validator:     amount.NewValidator(sep),
		sep:           sep,
		categories:    categories,
		transactions:  transactions,
		now:           time.Now,
	}
	vm.IsAmountValid = vm.validator.Valid(vm.CurrentAmount)

	vm.subs = append(vm.subs,
		transactions.TodayTransactions().Subscribe(vm.applyTodayTransactions),
		categories.AllCategories().Subscribe(func(cs []domain.Category) {
			vm.AllCategories = cs
		}),
	)
	return vm
}

// Close releases the stream subscriptions.
func (vm *EnterAmount) Close() {
	for _, s := range vm.subs {
		s.Cancel()
	}
	vm.subs = nil
}

// applyTodayTransactions installs a new snapshot and its sum in one step, so
// the two are never observable out of sync.
func (vm *EnterAmount) applyTodayTransactions(ts []domain.Transaction) {
	var sum int64
	for _, t := range ts {
		sum += t.AmountCents
	}
	vm.TodayTransactions = ts
	vm.SpentTodayCents = sum
}

// HandleButton folds a keypad action into the current amount and recomputes
// validity. Enter and Back are routed by the screen and leave the amount
// untouched.
func (vm *EnterAmount) HandleButton(a amount.Action) {
	vm.setAmount(vm.reducer.Reduce(vm.CurrentAmount, a))
}

// HandleEnteredBackground strips a trailing decimal separator left behind when
// the app is backgrounded mid-entry. Re-firing on a clean string is a no-op.
func (vm *EnterAmount) HandleEnteredBackground() {
	trimmed := strings.TrimSuffix(vm.CurrentAmount, string(vm.sep))
	if trimmed == vm.CurrentAmount {
		return
	}
	if trimmed == "" {
		trimmed = amount.Empty
	}
	vm.setAmount(trimmed)
}

func (vm *EnterAmount) setAmount(s string) {
	vm.CurrentAmount = s
	vm.IsAmountValid = vm.validator.Valid(s)
}

// AddTransaction commits the current amount. The category defaults to the
// uncategorized sentinel and the date to now. On success the persisted record
// is kept as LastCreatedTransaction and the amount resets; on failure nothing
// changes.
func (vm *EnterAmount) AddTransaction(ctx context.Context, category *domain.Category, at *time.Time) (domain.Transaction, error) {
	cents, err := amount.ParseCents(vm.CurrentAmount, vm.sep)
	if err != nil {
		return domain.Transaction{}, &ParseError{Input: vm.CurrentAmount, Err: err}
	}
	if cents <= 0 {
		return domain.Transaction{}, &ParseError{Input: vm.CurrentAmount}
	}

	cat := domain.Uncategorized()
	if category != nil {
		cat = *category
	}
	createdAt := vm.now()
	if at != nil {
		createdAt = *at
	}

	added, err := vm.transactions.Add(ctx, domain.Transaction{
		AmountCents: cents,
		CreatedAt:   createdAt,
		Category:    cat,
	})
	if err != nil {
		return domain.Transaction{}, &PersistenceError{Op: "add transaction", Err: err}
	}

	vm.LastCreatedTransaction = &added
	vm.setAmount(amount.Empty)
	return added, nil
}

func (vm *EnterAmount) EditTransaction(ctx context.Context, t domain.Transaction) error {
	if err := vm.transactions.Update(ctx, t); err != nil {
		return &PersistenceError{Op: "edit transaction", Err: err}
	}
	return nil
}

func (vm *EnterAmount) DeleteTransaction(ctx context.Context, t domain.Transaction) error {
	if err := vm.transactions.Delete(ctx, t); err != nil {
		return &PersistenceError{Op: "delete transaction", Err: err}
	}
	return nil
}

// AddNewCategory persists a category with the given name and selects the
// repository-returned record.
func (vm *EnterAmount) AddNewCategory(ctx context.Context, name string) (domain.Category, error) {
	added, err := vm.categories.Add(ctx, domain.Category{Name: name})
	if err != nil {
		return domain.Category{}, &PersistenceError{Op: "add category", Err: err}
	}
	vm.SelectedCategory = &added
	return added, nil
}

func (vm *EnterAmount) EditCategory(ctx context.Context, c domain.Category) error {
	if err := vm.categories.Update(ctx, c); err != nil {
		return &PersistenceError{Op: "edit category", Err: err}
	}
	return nil
}

func (vm *EnterAmount) DeleteCategory(ctx context.Context, c domain.Category) error {
	if err := vm.categories.Delete(ctx, c); err != nil {
		return &PersistenceError{Op: "delete category", Err: err}
	}
	if vm.SelectedCategory != nil && vm.SelectedCategory.ID == c.ID {
		vm.SelectedCategory = nil
	}
	return nil
}

func (vm *EnterAmount) ShowHistory() {
	if vm.Flow.ShowHistory != nil {
		vm.Flow.ShowHistory()
	}
}

func (vm *EnterAmount) ShowSettings() {
	if vm.Flow.ShowSettings != nil {
		vm.Flow.ShowSettings()
	}
}

func (vm *EnterAmount) ShowTransactionDetails(t domain.Transaction) {
	if vm.Flow.ShowTransactionDetails != nil {
		vm.Flow.ShowTransactionDetails(t)
	}
}

// Separator is the decimal separator resolved at construction.
func (vm *EnterAmount) Separator() rune {
	return vm.sep
}
