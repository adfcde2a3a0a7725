package ops

import "github.com/gen2brain/beeep"

// Notifier delivers failure messages outside the terminal.
type Notifier interface {
	Notify(title, message string) error
}

// DesktopNotifier sends desktop notifications.
type DesktopNotifier struct {
	// Icon is an optional path to an icon file.
	Icon string
}

// Notify implements Notifier.
func (d DesktopNotifier) Notify(title, message string) error {
	return beeep.Notify(title, message, d.Icon)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(title, message string) error

// Notify implements Notifier.
func (f NotifierFunc) Notify(title, message string) error {
	return f(title, message)
}
