// Package tui is a terminal rendition of the workspace: the assistant
// transcript in a viewport, an input line and the latest system log lines.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ziadkadry99/opsdash/internal/activity"
	"github.com/ziadkadry99/opsdash/internal/assistant"
)

const (
	logLines     = 4
	chromeHeight = logLines + 6
	helpText     = "enter send · tab quick action · /sync /dispatch /open ID /approve ID /reject ID /request TEXT · esc quit"
)

type eventMsg struct{}

type closedMsg struct{}

// Model is the bubbletea model of the workspace.
type Model struct {
	session  *assistant.Session
	sub      *assistant.Subscription
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	styles   Styles

	snap     assistant.Snapshot
	quick    int
	status   string
	width    int
	height   int
	quitting bool
}

// New builds a model over an open assistant session.
func New(s *assistant.Session) Model {
	in := textinput.New()
	in.Placeholder = "Ask the copilot..."
	in.Focus()
	in.CharLimit = 500

	m := Model{
		session:  s,
		sub:      s.Subscribe(64),
		input:    in,
		viewport: viewport.New(80, 20),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		styles:   DefaultStyles(),
		quick:    -1,
	}
	m.refresh()
	return m
}

// Init starts listening for session events.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, waitForEvent(m.sub))
}

func waitForEvent(sub *assistant.Subscription) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-sub.C(); !ok {
			return closedMsg{}
		}
		return eventMsg{}
	}
}

// Update handles input and session events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 3)
		m.input.Width = msg.Width - 4
		m.refresh()

	case eventMsg:
		m.refresh()
		cmds = append(cmds, waitForEvent(m.sub))

	case closedMsg:
		m.quitting = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			m.sub.Cancel()
			return m, tea.Quit
		case tea.KeyTab:
			m.quick = (m.quick + 1) % len(assistant.QuickActions)
			m.input.SetValue(assistant.QuickActions[m.quick])
			m.input.CursorEnd()
			return m, nil
		case tea.KeyEnter:
			line := m.input.Value()
			m.input.Reset()
			m.quick = -1
			m.status = ""
			if err := m.execute(line); err != nil {
				m.status = err.Error()
			}
			m.refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

var errNoTarget = errors.New("no message offers that action")

// execute runs a chat line. Lines starting with '/' drive the controls of
// the most recent message that offers them.
func (m *Model) execute(line string) error {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		_, err := m.session.Submit(line)
		return err
	}
	cmd, arg, _ := strings.Cut(line[1:], " ")
	arg = strings.TrimSpace(arg)

	var a assistant.Action
	var pick func(assistant.Message) bool
	switch cmd {
	case "sync":
		a = assistant.Action{Name: assistant.ActionSyncReport}
		pick = func(msg assistant.Message) bool { return offers(msg, a.Name) }
	case "dispatch":
		a = assistant.Action{Name: assistant.ActionAssignDispatch}
		pick = func(msg assistant.Message) bool { return offers(msg, a.Name) }
	case "open", "approve", "reject":
		name := map[string]assistant.ActionName{
			"open":    assistant.ActionToggleOrder,
			"approve": assistant.ActionApproveOrder,
			"reject":  assistant.ActionRejectOrder,
		}[cmd]
		a = assistant.Action{Name: name, Target: strings.ToUpper(arg)}
		pick = func(msg assistant.Message) bool { return msg.Pending != nil && !msg.Pending.Done() }
	case "request":
		a = assistant.Action{Name: assistant.ActionRequestChanges}
		pick = func(msg assistant.Message) bool {
			return msg.Discrepancy != nil && msg.Discrepancy.State == assistant.DiscrepancyInitial
		}
	default:
		return fmt.Errorf("unknown command /%s", cmd)
	}

	msgs := m.session.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if !pick(msgs[i]) {
			continue
		}
		if err := m.session.Act(msgs[i].ID, a); err != nil {
			return err
		}
		if cmd == "request" {
			return m.session.Act(msgs[i].ID, assistant.Action{Name: assistant.ActionSubmitRequest, Text: arg})
		}
		return nil
	}
	return errNoTarget
}

func offers(msg assistant.Message, name assistant.ActionName) bool {
	for _, f := range msg.FollowUps {
		if f == name {
			return true
		}
	}
	return false
}

func (m *Model) refresh() {
	m.snap = m.session.Snapshot()
	m.viewport.SetContent(m.transcript())
	m.viewport.GotoBottom()
}

func (m Model) transcript() string {
	var b strings.Builder
	for _, msg := range m.snap.Messages {
		switch msg.Role {
		case assistant.RoleUser:
			b.WriteString(m.styles.User.Render("You"))
		default:
			b.WriteString(m.styles.Assistant.Render("AI Copilot"))
		}
		b.WriteString("\n")
		b.WriteString(m.styles.Body.Render(msg.Plain()))
		for _, f := range msg.FollowUps {
			b.WriteString("\n" + m.styles.Help.Render("  → /"+followUpCommand(f)))
		}
		b.WriteString("\n\n")
	}
	return b.String()
}

func followUpCommand(a assistant.ActionName) string {
	if a == assistant.ActionAssignDispatch {
		return "dispatch"
	}
	return "sync"
}

func (m Model) logStyle(level activity.Level) func(...string) string {
	switch level {
	case activity.LevelWarning, activity.LevelError:
		return m.styles.Warning.Render
	case activity.LevelSuccess:
		return m.styles.Success.Render
	}
	return m.styles.Log.Render
}

// View renders the workspace.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("AI Workspace"))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.snap.Composing {
		b.WriteString(m.spinner.View() + " AI Copilot is typing...\n")
	} else {
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.styles.Error.Render(m.status) + "\n")
	}
	for i, l := range m.snap.Logs {
		if i == logLines {
			break
		}
		b.WriteString(m.logStyle(l.Level)(fmt.Sprintf("%s  %-8s %s", l.Time, l.Level, l.Text)) + "\n")
	}
	b.WriteString(m.styles.Help.Render(helpText))
	return b.String()
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(s *assistant.Session) error {
	_, err := tea.NewProgram(New(s), tea.WithAltScreen()).Run()
	return err
}
