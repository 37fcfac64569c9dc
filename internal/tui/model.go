package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/denis-severinov/expenso-go/internal/amount"
	"github.com/denis-severinov/expenso-go/internal/domain"
	"github.com/denis-severinov/expenso-go/internal/telemetry"
	"github.com/denis-severinov/expenso-go/internal/viewmodel"
)

// overlayState tracks which modal surface is layered over the screen. At most
// one overlay is active at a time.
type overlayState int

const (
	overlayNone overlayState = iota
	overlayAddCategory
	overlayEditCategory
	overlayAddComment
	overlayCommentDetails
)

// sheetState tracks the secondary surface. Its lifecycle is independent of
// the overlay's; both may be visible at once, in which case the sheet is
// topmost and receives key input first.
type sheetState int

const (
	sheetNone sheetState = iota
	sheetSelectDateTime
)

// categoryDeleteDelay lets the row's exit animation finish before the
// collection mutates underneath it.
const categoryDeleteDelay = 500 * time.Millisecond

type deleteCategoryMsg struct {
	id string
}

type model struct {
	vm     *viewmodel.EnterAmount
	events *telemetry.Sink

	printer *message.Printer
	unit    currency.Unit

	width  int
	height int

	categorySelectionVisible bool
	categoryCursor           int
	listCursor               int

	overlay overlayState
	sheet   sheetState

	pendingDate *time.Time

	nameInput    textinput.Model
	commentInput textinput.Model

	cal calendar

	errText  string
	quitting bool

	now func() time.Time
}

func New(vm *viewmodel.EnterAmount, events *telemetry.Sink, tag language.Tag, unit currency.Unit) tea.Model {
	nameInput := textinput.New()
	nameInput.Prompt = "name: "
	nameInput.Placeholder = "Groceries"
	nameInput.CharLimit = 40
	nameInput.Width = 32

	commentInput := textinput.New()
	commentInput.Prompt = "comment: "
	commentInput.Placeholder = "what was this for?"
	commentInput.CharLimit = 120
	commentInput.Width = 48

	return model{
		vm:           vm,
		events:       events,
		printer:      message.NewPrinter(tag),
		unit:         unit,
		nameInput:    nameInput,
		commentInput: commentInput,
		now:          time.Now,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.BlurMsg:
		// Terminal lost focus: drop a dangling separator so the amount
		// string is never left mid-entry. Idempotent.
		m.vm.HandleEnteredBackground()
		return m, nil

	case deleteCategoryMsg:
		return m.applyDeferredCategoryDelete(msg.id)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	// The sheet is topmost when visible; overlays come next. Only when both
	// are dismissed do keys reach the selection pane or the keypad.
	if m.sheet != sheetNone {
		return m.handleSheetKey(msg)
	}
	if m.overlay != overlayNone {
		return m.handleOverlayKey(msg)
	}
	if m.categorySelectionVisible {
		return m.handleCategorySelectionKey(msg)
	}
	return m.handleKeypadKey(msg)
}

func (m model) handleKeypadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "enter":
		return m.handleEnter()
	case "backspace", "delete":
		m.vm.HandleButton(amount.ActionBackspace)
		return m, nil
	case "ctrl+u":
		m.vm.HandleButton(amount.ActionClear)
		return m, nil
	case "up", "k":
		if m.listCursor > 0 {
			m.listCursor--
		}
		return m, nil
	case "down", "j":
		if m.listCursor < len(m.vm.TodayTransactions)-1 {
			m.listCursor++
		}
		return m, nil
	case "d":
		if t, ok := m.transactionUnderCursor(); ok {
			m.events.Log(telemetry.EventTransactionDeleted)
			if err := m.vm.DeleteTransaction(context.Background(), t); err != nil {
				m.errText = err.Error()
				return m, nil
			}
			m.errText = ""
			if m.listCursor >= len(m.vm.TodayTransactions) && m.listCursor > 0 {
				m.listCursor--
			}
		}
		return m, nil
	case "v":
		if t, ok := m.transactionUnderCursor(); ok {
			m.events.Log(telemetry.EventTransactionDetails)
			m.vm.ShowTransactionDetails(t)
		}
		return m, nil
	case "h":
		m.vm.ShowHistory()
		return m, nil
	case "s":
		m.events.Log(telemetry.EventSettings)
		m.vm.ShowSettings()
		return m, nil
	case "t":
		m.events.Log(telemetry.EventDateTimeSelected)
		m.sheet = sheetSelectDateTime
		m.cal = newCalendar(m.calendarAnchor())
		return m, nil
	}

	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		r := msg.Runes[0]
		if r >= '0' && r <= '9' {
			m.vm.HandleButton(amount.Digit(int(r - '0')))
			return m, nil
		}
		if r == m.vm.Separator() {
			m.vm.HandleButton(amount.ActionSeparator)
			return m, nil
		}
	}
	return m, nil
}

// handleEnter drives the two-step commit flow: the first enter reveals the
// category selection, the second commits the transaction and opens the
// add-comment overlay.
func (m model) handleEnter() (tea.Model, tea.Cmd) {
	if !m.categorySelectionVisible {
		if !m.vm.IsAmountValid {
			return m, nil
		}
		m.events.Log(telemetry.EventAmountEntered)
		m.categorySelectionVisible = true
		m.categoryCursor = 0
		return m, nil
	}

	m.events.Log(telemetry.EventCategorySelected, "no_category", m.vm.SelectedCategory == nil)
	if _, err := m.vm.AddTransaction(context.Background(), m.vm.SelectedCategory, m.pendingDate); err != nil {
		m.errText = err.Error()
		return m, nil
	}
	m.events.Log(telemetry.EventTransactionCreated, "custom_date", m.pendingDate != nil)

	m.errText = ""
	m.overlay = overlayAddComment
	m.vm.SelectedCategory = nil
	m.pendingDate = nil
	m.categorySelectionVisible = false
	return m, nil
}

func (m model) handleCategorySelectionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.handleEnter()
	case "esc", "b":
		// Back forces selection off regardless of prior state.
		m.categorySelectionVisible = false
		return m, nil
	case "up", "k":
		if m.categoryCursor > 0 {
			m.categoryCursor--
		}
		return m, nil
	case "down", "j":
		if m.categoryCursor < len(m.vm.AllCategories)-1 {
			m.categoryCursor++
		}
		return m, nil
	case " ", "space":
		if c, ok := m.categoryUnderCursor(); ok {
			if m.vm.SelectedCategory != nil && m.vm.SelectedCategory.ID == c.ID {
				m.vm.SelectedCategory = nil
			} else {
				selected := c
				m.vm.SelectedCategory = &selected
			}
		}
		return m, nil
	case "a":
		m.overlay = overlayAddCategory
		m.nameInput.SetValue("")
		m.nameInput.Focus()
		m.errText = ""
		return m, nil
	case "e":
		if c, ok := m.categoryUnderCursor(); ok {
			m.events.Log(telemetry.EventEditCategory)
			target := c
			m.vm.CategoryForEdit = &target
			m.overlay = overlayEditCategory
			m.nameInput.SetValue(c.Name)
			m.nameInput.Focus()
			m.errText = ""
		}
		return m, nil
	case "d":
		if c, ok := m.categoryUnderCursor(); ok {
			m.events.Log(telemetry.EventDeleteCategory)
			id := c.ID
			return m, tea.Tick(categoryDeleteDelay, func(time.Time) tea.Msg {
				return deleteCategoryMsg{id: id}
			})
		}
		return m, nil
	}
	return m, nil
}

// applyDeferredCategoryDelete runs the deletion scheduled when the user
// pressed delete. The category may already be gone if the user re-triggered
// the delete; that second pass is a no-op.
func (m model) applyDeferredCategoryDelete(id string) (tea.Model, tea.Cmd) {
	for _, c := range m.vm.AllCategories {
		if c.ID != id {
			continue
		}
		if err := m.vm.DeleteCategory(context.Background(), c); err != nil {
			m.errText = err.Error()
			return m, nil
		}
		break
	}
	if m.categoryCursor >= len(m.vm.AllCategories) && m.categoryCursor > 0 {
		m.categoryCursor--
	}
	return m, nil
}

func (m model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.overlay {
	case overlayAddCategory:
		switch msg.String() {
		case "esc":
			m.overlay = overlayNone
			m.nameInput.Blur()
			return m, nil
		case "enter":
			name := strings.TrimSpace(m.nameInput.Value())
			if name == "" {
				m.errText = "category name cannot be empty"
				return m, nil
			}
			if _, err := m.vm.AddNewCategory(context.Background(), name); err != nil {
				m.errText = err.Error()
				return m, nil
			}
			m.events.Log(telemetry.EventCategoryCreated)
			m.errText = ""
			m.overlay = overlayNone
			m.nameInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd

	case overlayEditCategory:
		switch msg.String() {
		case "esc":
			// Dismissal clears the edit target even when nothing was
			// submitted.
			m.overlay = overlayNone
			m.vm.CategoryForEdit = nil
			m.nameInput.Blur()
			return m, nil
		case "enter":
			if m.vm.CategoryForEdit == nil {
				m.overlay = overlayNone
				m.nameInput.Blur()
				return m, nil
			}
			name := strings.TrimSpace(m.nameInput.Value())
			if name == "" {
				m.errText = "category name cannot be empty"
				return m, nil
			}
			updated := *m.vm.CategoryForEdit
			updated.Name = name
			if err := m.vm.EditCategory(context.Background(), updated); err != nil {
				m.errText = err.Error()
				return m, nil
			}
			m.events.Log(telemetry.EventCategoryRenamed)
			m.errText = ""
			m.overlay = overlayNone
			m.vm.CategoryForEdit = nil
			m.nameInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd

	case overlayAddComment:
		switch msg.String() {
		case "enter", "a":
			// The bar's own proceed action chains straight into the
			// comment editor.
			m.overlay = overlayCommentDetails
			m.commentInput.SetValue("")
			m.commentInput.Focus()
			return m, nil
		case "esc":
			m.events.Log(telemetry.EventCommentBarDismissed, "reason", "outside_tap")
			m.overlay = overlayNone
			return m, nil
		}
		return m, nil

	case overlayCommentDetails:
		switch msg.String() {
		case "esc":
			m.overlay = overlayNone
			m.commentInput.Blur()
			return m, nil
		case "enter":
			comment := strings.TrimSpace(m.commentInput.Value())
			if comment != "" && m.vm.LastCreatedTransaction != nil {
				updated := *m.vm.LastCreatedTransaction
				updated.Comment = comment
				if err := m.vm.EditTransaction(context.Background(), updated); err != nil {
					m.errText = err.Error()
					return m, nil
				}
				m.events.Log(telemetry.EventCommentAdded)
				m.vm.LastCreatedTransaction = nil
			}
			m.errText = ""
			m.overlay = overlayNone
			m.commentInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.commentInput, cmd = m.commentInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleSheetKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.sheet = sheetNone
		return m, nil
	case "left":
		m.cal = m.cal.shiftDays(-1)
		return m, nil
	case "right":
		m.cal = m.cal.shiftDays(1)
		return m, nil
	case "up":
		m.cal = m.cal.shiftDays(-7)
		return m, nil
	case "down":
		m.cal = m.cal.shiftDays(7)
		return m, nil
	case "shift+left":
		m.cal = m.cal.shiftMonths(-1)
		return m, nil
	case "shift+right":
		m.cal = m.cal.shiftMonths(1)
		return m, nil
	case "n":
		return m.completeDateSelection(m.now()), nil
	case "enter":
		clock := m.now()
		chosen := time.Date(
			m.cal.cursor.Year(), m.cal.cursor.Month(), m.cal.cursor.Day(),
			clock.Hour(), clock.Minute(), 0, 0, time.Local,
		)
		return m.completeDateSelection(chosen), nil
	}
	return m, nil
}

// completeDateSelection stores the picked timestamp, except that a pick equal
// to now (to the minute) counts as "no custom date" and clears the pending
// date instead.
func (m model) completeDateSelection(chosen time.Time) model {
	if chosen.Truncate(time.Minute).Equal(m.now().Truncate(time.Minute)) {
		m.pendingDate = nil
	} else {
		d := chosen
		m.pendingDate = &d
	}
	m.sheet = sheetNone
	return m
}

func (m model) calendarAnchor() time.Time {
	if m.pendingDate != nil {
		return *m.pendingDate
	}
	return m.now()
}

func (m model) transactionUnderCursor() (domain.Transaction, bool) {
	if m.listCursor < 0 || m.listCursor >= len(m.vm.TodayTransactions) {
		return domain.Transaction{}, false
	}
	return m.vm.TodayTransactions[m.listCursor], true
}

func (m model) categoryUnderCursor() (domain.Category, bool) {
	if m.categoryCursor < 0 || m.categoryCursor >= len(m.vm.AllCategories) {
		return domain.Category{}, false
	}
	return m.vm.AllCategories[m.categoryCursor], true
}
