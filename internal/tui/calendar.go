package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// calendar is the date cursor behind the select-date/time sheet. cursor is the
// highlighted day at midnight local time; month is the first of the displayed
// month.
type calendar struct {
	month  time.Time
	cursor time.Time
}

func newCalendar(anchor time.Time) calendar {
	local := anchor.In(time.Local)
	return calendar{
		month:  time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, time.Local),
		cursor: time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local),
	}
}

func (c calendar) shiftDays(n int) calendar {
	c.cursor = c.cursor.AddDate(0, 0, n)
	c.month = time.Date(c.cursor.Year(), c.cursor.Month(), 1, 0, 0, 0, 0, time.Local)
	return c
}

func (c calendar) shiftMonths(n int) calendar {
	c.cursor = shiftCalendarByMonths(c.cursor, n)
	c.month = time.Date(c.cursor.Year(), c.cursor.Month(), 1, 0, 0, 0, 0, time.Local)
	return c
}

// shiftCalendarByMonths moves t by n months, clamping the day so e.g. Jan 31
// shifted one month lands on Feb 28/29 rather than rolling into March.
func shiftCalendarByMonths(t time.Time, n int) time.Time {
	firstOfTarget := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, n, 0)
	day := t.Day()
	if last := lastDayOfMonth(firstOfTarget); day > last {
		day = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, t.Location())
}

func lastDayOfMonth(firstOfMonth time.Time) int {
	return firstOfMonth.AddDate(0, 1, -1).Day()
}

var (
	calendarHeaderStyle = lipgloss.NewStyle().Bold(true)
	calendarCursorStyle = lipgloss.NewStyle().Reverse(true).Bold(true)
	calendarTodayStyle  = lipgloss.NewStyle().Underline(true)
)

func (c calendar) render(today time.Time) string {
	var b strings.Builder
	b.WriteString(calendarHeaderStyle.Render(c.month.Format("January 2006")))
	b.WriteString("\n")
	b.WriteString("Mo Tu We Th Fr Sa Su\n")

	// Column of the month's first day in a Monday-first week.
	offset := (int(c.month.Weekday()) + 6) % 7
	last := lastDayOfMonth(c.month)

	cells := make([]string, 0, offset+last)
	for i := 0; i < offset; i++ {
		cells = append(cells, "  ")
	}
	todayLocal := today.In(time.Local)
	for day := 1; day <= last; day++ {
		label := fmt.Sprintf("%2d", day)
		switch {
		case c.cursor.Day() == day && c.cursor.Month() == c.month.Month() && c.cursor.Year() == c.month.Year():
			label = calendarCursorStyle.Render(label)
		case todayLocal.Day() == day && todayLocal.Month() == c.month.Month() && todayLocal.Year() == c.month.Year():
			label = calendarTodayStyle.Render(label)
		}
		cells = append(cells, label)
	}
	for i, cell := range cells {
		b.WriteString(cell)
		if (i+1)%7 == 0 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	return strings.TrimRight(b.String(), " \n")
}
