package services

import (
	"context"

	log "github.com/sirupsen/logrus"
)

type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
)

// Notifier is the operator-facing surface: a yes/no confirmation for
// destructive actions and one-shot success/error messages.
type Notifier interface {
	Confirm(ctx context.Context, title, body string) bool
	Notify(kind NotificationKind, title, body string)
}

const (
	ConfirmDeleteTitle = "Are you sure?"
	ConfirmDeleteBody  = "You will not be able to recover this order!"

	titleSuccess = "Success!"
	titleDeleted = "Deleted!"
	titleError   = "Error!"

	msgDeleted      = "Your order has been deleted."
	msgDeleteFailed = "There was an error deleting this order."
	msgStatusFailed = "There was an error updating the order status."
	msgLoadFailed   = "There was an error fetching orders."
)

// LogNotifier is used where no operator is present, such as the startup
// load. It never confirms.
type LogNotifier struct{}

func (LogNotifier) Confirm(context.Context, string, string) bool {
	return false
}

func (LogNotifier) Notify(kind NotificationKind, title, body string) {
	entry := log.WithFields(log.Fields{"kind": kind, "title": title})
	if kind == NotifyError {
		entry.Warn(body)
		return
	}
	entry.Info(body)
}
