package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cpebble/rustui/internal/app"
	"github.com/cpebble/rustui/internal/keys"
)

// frameMsg carries a finished render model from the app loop into the
// program.
type frameMsg struct {
	frame app.Frame
}

var (
	titleColor  = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#89B4FA"}
	borderColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}
	sourceColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	idleColor   = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	mutedColor  = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#696969"}

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(titleColor)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)

	sourceStyle = lipgloss.NewStyle().
			Foreground(sourceColor)

	idleStyle = lipgloss.NewStyle().
			Foreground(idleColor).
			Bold(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

// model is the Bubble Tea side of the dashboard. It is deliberately dumb:
// state lives in the app loop, the model just shows the latest frame and
// pushes input back out through events.
type model struct {
	keymap keys.KeyMap
	events chan<- tea.Msg

	frame  app.Frame
	width  int
	height int
}

func newModel(keymap keys.KeyMap, events chan<- tea.Msg) model {
	return model{keymap: keymap, events: events}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Key presses are forwarded to the relay,
// never handled here; quitting is the app loop's decision.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case frameMsg:
		m.frame = msg.frame
	case tea.KeyMsg:
		select {
		case m.events <- msg:
		default:
			// Relay stalled; dropping beats blocking the render loop.
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m model) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	panelWidth := width - 4
	if panelWidth > 76 {
		panelWidth = 76
	}
	if panelWidth < 20 {
		panelWidth = 20
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(" Pulse Outputs "))
	b.WriteString("\n\n")

	lines := m.frame.Messages
	if len(lines) == 0 {
		lines = []string{"waiting for the audio daemon..."}
	}
	b.WriteString(panelStyle.Width(panelWidth).Render(strings.Join(lines, "\n")))
	b.WriteString("\n\n")

	if len(m.frame.Sources) == 0 {
		b.WriteString(footerStyle.Render("  no outputs"))
		b.WriteString("\n")
	}
	for _, i := range m.frame.Sources {
		b.WriteString(sourceStyle.Render(fmt.Sprintf("  Hello %d", i)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf(" sources: %d", m.frame.Counter))
	if m.frame.Idle {
		b.WriteString(idleStyle.Render("  idle"))
	}
	b.WriteString("\n")
	b.WriteString(footerStyle.Render(m.helpLine()))
	return b.String()
}

// helpLine builds the footer from the key map so the hints cannot drift
// from the bindings.
func (m model) helpLine() string {
	bindings := []key.Binding{
		m.keymap.Increment,
		m.keymap.Decrement,
		m.keymap.ToggleIdle,
		m.keymap.Mark,
		m.keymap.StopDaemon,
		m.keymap.Quit,
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return " " + strings.Join(parts, " · ")
}
