// Package telemetry is the fire-and-forget event sink. Events are structured
// slog records; logging never blocks the caller on failure and never returns
// an error.
package telemetry

import (
	"io"
	"log/slog"
)

// Event names mirror the user milestones the screen reports.
type Event string

const (
	EventAmountEntered       Event = "amount_entered"
	EventCategorySelected    Event = "category_selected"
	EventTransactionCreated  Event = "transaction_created"
	EventTransactionDeleted  Event = "transaction_deleted"
	EventTransactionDetails  Event = "transaction_details"
	EventCategoryCreated     Event = "category_created"
	EventCategoryRenamed     Event = "category_renamed"
	EventEditCategory        Event = "edit_category"
	EventDeleteCategory      Event = "delete_category"
	EventCommentAdded        Event = "comment_added"
	EventCommentBarDismissed Event = "comment_bar_dismissed"
	EventDateTimeSelected    Event = "datetime_selected"
	EventSettings            Event = "settings"
)

type Sink struct {
	log *slog.Logger
}

// New builds a sink writing JSON records to w.
func New(w io.Writer) *Sink {
	return &Sink{log: slog.New(slog.NewJSONHandler(w, nil))}
}

// Nop returns a sink that drops every event.
func Nop() *Sink {
	return &Sink{}
}

// Log records an event with optional key/value attributes. A nil or no-op sink
// is safe to log to.
func (s *Sink) Log(e Event, args ...any) {
	if s == nil || s.log == nil {
		return
	}
	s.log.Info(string(e), args...)
}
