// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
)

// WriterNotifier prints one styled line per notification to W.
type WriterNotifier struct {
	W io.Writer
}

// NotifySuccess implements Notifier.
func (n WriterNotifier) NotifySuccess(msg string) {
	fmt.Fprintln(n.W, successStyle.Render("✓ "+msg))
}

// NotifyFailure implements Notifier.
func (n WriterNotifier) NotifyFailure(msg string) {
	fmt.Fprintln(n.W, errorStyle.Render("✗ "+msg))
}

// LogNotifier records notifications in the log.
type LogNotifier struct {
	Logger *zap.Logger
}

// NotifySuccess implements Notifier.
func (n LogNotifier) NotifySuccess(msg string) {
	n.Logger.Info(msg, zap.String("notification", "success"))
}

// NotifyFailure implements Notifier.
func (n LogNotifier) NotifyFailure(msg string) {
	n.Logger.Warn(msg, zap.String("notification", "failure"))
}

// Notifiers fans each notification out to every member.
type Notifiers []Notifier

// NotifySuccess implements Notifier.
func (ns Notifiers) NotifySuccess(msg string) {
	for _, n := range ns {
		n.NotifySuccess(msg)
	}
}

// NotifyFailure implements Notifier.
func (ns Notifiers) NotifyFailure(msg string) {
	for _, n := range ns {
		n.NotifyFailure(msg)
	}
}
