package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/currency"
	"golang.org/x/text/number"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F47A60"))
	spentStyle    = lipgloss.NewStyle().Bold(true)
	amountStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#87CEEB"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A8CC8C"))
	overlayStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#F47A60")).
			Padding(1, 2)
)

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("expenso"))
	b.WriteString("  ")
	b.WriteString(spentStyle.Render("spent today: " + m.formatCents(m.vm.SpentTodayCents)))
	b.WriteString("\n\n")

	b.WriteString(m.renderTransactionsList())
	b.WriteString("\n")

	b.WriteString(m.renderAmountBar())
	b.WriteString("\n\n")

	if m.categorySelectionVisible {
		b.WriteString(m.renderCategorySelection())
	} else {
		b.WriteString(dimStyle.Render("0-9 digits · " + string(m.vm.Separator()) + " separator · backspace · enter commit · t date · h history · s settings · q quit"))
	}

	if m.errText != "" {
		b.WriteString("\n\n")
		b.WriteString(errStyle.Render(m.errText))
	}

	content := b.String()
	if view, ok := m.renderSurface(); ok {
		return content + "\n\n" + view
	}
	return content
}

func (m model) renderAmountBar() string {
	bar := amountStyle.Render(m.currencySymbol() + m.vm.CurrentAmount)
	if m.pendingDate != nil {
		bar += dimStyle.Render("  @ " + m.pendingDate.Format("Jan 2 15:04"))
	}
	if !m.vm.IsAmountValid {
		bar += dimStyle.Render("  (enter disabled)")
	}
	return bar
}

func (m model) renderTransactionsList() string {
	if len(m.vm.TodayTransactions) == 0 {
		return dimStyle.Render("no transactions today") + "\n"
	}
	var b strings.Builder
	for i, t := range m.vm.TodayTransactions {
		line := fmt.Sprintf(
			"%s  %-18s %10s",
			t.CreatedAt.Local().Format("15:04"),
			t.Category.Name,
			m.formatCents(t.AmountCents),
		)
		if t.Comment != "" {
			line += dimStyle.Render("  # " + t.Comment)
		}
		if i == m.listCursor && !m.categorySelectionVisible {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) renderCategorySelection() string {
	var b strings.Builder
	b.WriteString(spentStyle.Render("select category"))
	b.WriteString("\n")
	if len(m.vm.AllCategories) == 0 {
		b.WriteString(dimStyle.Render("no categories yet — press a to add one"))
		b.WriteString("\n")
	}
	for i, c := range m.vm.AllCategories {
		marker := "[ ]"
		if m.vm.SelectedCategory != nil && m.vm.SelectedCategory.ID == c.ID {
			marker = "[x]"
		}
		line := marker + " " + c.Name
		if m.vm.SelectedCategory != nil && m.vm.SelectedCategory.ID == c.ID {
			line = selectedStyle.Render(line)
		}
		if i == m.categoryCursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("space select · enter commit · a add · e edit · d delete · esc back"))
	return b.String()
}

// renderSurface draws the topmost modal surface, sheet over overlay.
func (m model) renderSurface() (string, bool) {
	if m.sheet == sheetSelectDateTime {
		body := m.cal.render(m.now()) + "\n\n" +
			dimStyle.Render("arrows move · shift+←/→ month · enter pick · n now · esc cancel")
		return overlayStyle.Render(body), true
	}

	switch m.overlay {
	case overlayAddCategory:
		body := spentStyle.Render("new category") + "\n\n" + m.nameInput.View() + "\n\n" +
			dimStyle.Render("enter save · esc cancel")
		return overlayStyle.Render(body), true
	case overlayEditCategory:
		body := spentStyle.Render("rename category") + "\n\n" + m.nameInput.View() + "\n\n" +
			dimStyle.Render("enter save · esc cancel")
		return overlayStyle.Render(body), true
	case overlayAddComment:
		body := spentStyle.Render("transaction saved") + "\n\n" +
			"add a comment?" + "\n\n" +
			dimStyle.Render("enter add · esc dismiss")
		return overlayStyle.Render(body), true
	case overlayCommentDetails:
		body := spentStyle.Render("add comment") + "\n\n" + m.commentInput.View() + "\n\n" +
			dimStyle.Render("enter save · esc cancel")
		return overlayStyle.Render(body), true
	}
	return "", false
}

func (m model) formatCents(cents int64) string {
	return m.currencySymbol() + m.printer.Sprint(number.Decimal(float64(cents)/100, number.Scale(2)))
}

func (m model) currencySymbol() string {
	return m.printer.Sprint(currency.Symbol(m.unit))
}
