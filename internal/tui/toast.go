// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type toastKind int

const (
	toastSuccess toastKind = iota
	toastFailure
)

type toast struct {
	id   int
	kind toastKind
	text string
}

// toastExpiredMsg removes a toast once its display time has passed.
type toastExpiredMsg struct {
	id int
}

// toastBoard collects notifications from the session and schedules their
// removal. It implements convert.Notifier.
type toastBoard struct {
	mu      sync.Mutex
	nextID  int
	items   []toast
	pending []int
}

func (b *toastBoard) NotifySuccess(msg string) { b.push(toastSuccess, msg) }

func (b *toastBoard) NotifyFailure(msg string) { b.push(toastFailure, msg) }

func (b *toastBoard) push(kind toastKind, msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.items = append(b.items, toast{id: b.nextID, kind: kind, text: msg})
	b.pending = append(b.pending, b.nextID)
}

// expireCmd returns a command that expires every toast added since the last
// call after ttl.
func (b *toastBoard) expireCmd(ttl time.Duration) tea.Cmd {
	b.mu.Lock()
	ids := b.pending
	b.pending = nil
	b.mu.Unlock()

	cmds := make([]tea.Cmd, 0, len(ids))
	for _, id := range ids {
		cmds = append(cmds, tea.Tick(ttl, func(time.Time) tea.Msg {
			return toastExpiredMsg{id: id}
		}))
	}
	return tea.Batch(cmds...)
}

func (b *toastBoard) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, t := range b.items {
		if t.id == id {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return
		}
	}
}

func (b *toastBoard) visible() []toast {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]toast(nil), b.items...)
}
