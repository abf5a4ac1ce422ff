// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tui hosts the conversion widget in a terminal: a trigger line that
// opens an overlay with a URL input, a busy indicator while the conversion
// is in flight, and transient toast notifications.
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/pdiddy/url2md/internal/convert"
)

const defaultToastTTL = 3 * time.Second

var (
	primary    = lipgloss.Color("#6C8EEF")
	accent     = lipgloss.Color("#FFD787")
	successCol = lipgloss.Color("#A6E3A1")
	errorCol   = lipgloss.Color("#F38BA8")
	textCol    = lipgloss.Color("#CDD6F4")
	muted      = lipgloss.Color("#7F849C")

	triggerStyle  = lipgloss.NewStyle().Bold(true).Foreground(primary)
	disabledStyle = lipgloss.NewStyle().Foreground(muted).Strikethrough(true)
	overlayStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(primary).Padding(0, 1)
	submitStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	inactiveStyle = lipgloss.NewStyle().Foreground(muted)
	normalStyle   = lipgloss.NewStyle().Foreground(textCol)
	successStyle  = lipgloss.NewStyle().Foreground(successCol)
	errorStyle    = lipgloss.NewStyle().Foreground(errorCol)
	helpStyle     = lipgloss.NewStyle().Foreground(muted).Italic(true)
)

// fetchDoneMsg carries the outcome of a conversion request back to Update.
type fetchDoneMsg struct {
	req  convert.Request
	body string
	err  error
}

// Config wires a Model to its collaborators.
type Config struct {
	Fetcher    convert.Fetcher
	Saver      convert.Saver
	ServiceURL string
	Disabled   bool
	ToastTTL   time.Duration
	OnSubmit   func(url string)
	Logger     *zap.Logger
}

// Model is the bubbletea model for one conversion widget.
type Model struct {
	ctx      context.Context
	session  *convert.Session
	fetcher  convert.Fetcher
	toasts   *toastBoard
	toastTTL time.Duration
	input    textinput.Model
	spinner  spinner.Model
	pending  *convert.Request
	quitting bool
}

// New builds a closed widget. ctx bounds every conversion request the
// widget issues.
func New(ctx context.Context, cfg Config) Model {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := cfg.ToastTTL
	if ttl <= 0 {
		ttl = defaultToastTTL
	}
	serviceURL := cfg.ServiceURL
	if serviceURL == "" {
		serviceURL = convert.DefaultServiceURL
	}

	board := &toastBoard{}
	session := convert.New(cfg.Fetcher, cfg.Saver, board,
		convert.WithServiceURL(serviceURL),
		convert.WithDisabled(cfg.Disabled),
		convert.WithOnSubmit(cfg.OnSubmit),
		convert.WithLogger(logger),
	)

	input := textinput.New()
	input.Placeholder = "Enter URL to convert..."
	input.Prompt = "> "
	input.Width = 48
	input.TextStyle = normalStyle
	input.Cursor.Style = submitStyle

	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	sp.Style = submitStyle

	return Model{
		ctx:      ctx,
		session:  session,
		fetcher:  cfg.Fetcher,
		toasts:   board,
		toastTTL: ttl,
		input:    input,
		spinner:  sp,
	}
}

// Session exposes the underlying conversion session.
func (m Model) Session() *convert.Session { return m.session }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case fetchDoneMsg:
		m.pending = nil
		_, _ = m.session.Complete(msg.req, msg.body, msg.err)
		m.input.SetValue(m.session.Text())
		if !m.session.IsOpen() {
			m.input.Blur()
		}
		return m, m.toasts.expireCmd(m.toastTTL)

	case toastExpiredMsg:
		m.toasts.remove(msg.id)
		return m, nil

	case spinner.TickMsg:
		if !m.session.InFlight() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if !m.session.IsOpen() {
		switch msg.String() {
		case "q", "esc":
			return m.quit()
		case "enter", " ", "o":
			if m.session.Toggle() {
				return m, m.input.Focus()
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.session.Close()
		m.input.Blur()
		return m, nil
	case "enter":
		return m.submit()
	}

	if m.session.Disabled() {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.session.SetText(m.input.Value())
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	m.session.SetText(m.input.Value())
	req, err := m.session.Begin()
	if err != nil {
		if errors.Is(err, convert.ErrInvalidURL) {
			return m, m.toasts.expireCmd(m.toastTTL)
		}
		return m, nil
	}
	m.pending = &req
	return m, tea.Batch(m.spinner.Tick, m.fetchCmd(req))
}

func (m Model) fetchCmd(req convert.Request) tea.Cmd {
	ctx, fetcher := m.ctx, m.fetcher
	return func() tea.Msg {
		body, err := fetcher.Fetch(ctx, req.Target)
		return fetchDoneMsg{req: req, body: body, err: err}
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.session.Dispose()
	m.quitting = true
	return m, tea.Quit
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	label := "[ ◍ Convert URL to Markdown ]"
	if m.session.Disabled() {
		b.WriteString(disabledStyle.Render(label))
	} else {
		b.WriteString(triggerStyle.Render(label))
	}
	b.WriteString("\n")

	if m.session.IsOpen() {
		indicator := "→"
		if m.session.InFlight() {
			indicator = m.spinner.View()
		}
		style := submitStyle
		if !m.session.CanSubmit() {
			style = inactiveStyle
		}
		b.WriteString(overlayStyle.Render(m.input.View() + " " + style.Render(indicator)))
		b.WriteString("\n")
	}

	for _, t := range m.toasts.visible() {
		switch t.kind {
		case toastSuccess:
			b.WriteString(successStyle.Render("✓ " + t.text))
		case toastFailure:
			b.WriteString(errorStyle.Render("✗ " + t.text))
		}
		b.WriteString("\n")
	}

	help := "enter open • q quit"
	if m.session.IsOpen() {
		help = "enter convert • esc close • ctrl+c quit"
	}
	b.WriteString("\n" + helpStyle.Render(help))
	return b.String()
}
