package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tatianab/zork-parser/internal/engine"
	"github.com/tatianab/zork-parser/internal/events"
	"github.com/tatianab/zork-parser/internal/parser"
)

type sessionState int

const (
	statePlaying sessionState = iota
	stateOver
	stateError
)

type model struct {
	state     sessionState
	bridge    *bridge
	title     string
	textInput textinput.Model
	viewport  viewport.Model
	status    engine.Status
	err       error
	gameLog   string
	width     int
	height    int
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)
)

type outputMsg struct{ text string }

type promptMsg struct{ prompt string }

type statusMsg struct{ status engine.Status }

type gameOverMsg struct{ err error }

func newModel(b *bridge, title string) model {
	ti := textinput.New()
	ti.Placeholder = "What do you do?"
	ti.Focus()
	ti.CharLimit = 1000
	ti.Width = 60

	return model{
		state:     statePlaying,
		bridge:    b,
		title:     title,
		textInput: ti,
		viewport:  viewport.New(80, 20),
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			if m.state != statePlaying {
				return m, tea.Quit
			}
			action := m.textInput.Value()
			m.textInput.Reset()
			if action == "/quit" {
				return m, tea.Quit
			}
			if !m.bridge.submit(action) {
				return m, nil
			}
			if action != "" {
				m.appendLog(userStyle.Width(m.logWidth()).Render("> " + action))
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.logWidth()
		m.viewport.Height = max(msg.Height-6, 1)
		m.viewport.SetContent(m.gameLog)
		m.viewport.GotoBottom()

	case outputMsg:
		m.appendLog(gameStyle.Width(m.logWidth()).Render(msg.text))
		return m, nil

	case promptMsg:
		m.textInput.Prompt = msg.prompt
		return m, nil

	case statusMsg:
		m.status = msg.status
		return m, nil

	case gameOverMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.state = stateOver
		return m, nil
	}

	if m.state == statePlaying {
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) appendLog(s string) {
	if m.gameLog != "" {
		m.gameLog += "\n\n"
	}
	m.gameLog += s
	m.viewport.SetContent(m.gameLog)
	m.viewport.GotoBottom()
}

func (m model) logWidth() int {
	if m.width == 0 {
		return 80
	}
	return int(float64(m.width) * 0.75)
}

func (m model) View() string {
	var s string

	switch m.state {
	case statePlaying, stateOver:
		mainView := lipgloss.JoinHorizontal(lipgloss.Top,
			m.viewport.View(),
			m.renderState(),
		)
		help := helpStyle.Render("Type commands like \"open mailbox\". /quit or Esc to leave.")
		if m.state == stateOver {
			help = helpStyle.Render("The game is over. Press Enter to leave.")
		}
		s = lipgloss.JoinVertical(lipgloss.Left,
			mainView,
			"\n"+m.textInput.View(),
			"\n"+help,
		)

	case stateError:
		s = fmt.Sprintf("\n  Error: %v\n\nPress Esc to quit.", m.err)
	}

	return "\n" + s + "\n"
}

func (m model) renderState() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(strings.ToUpper(m.title)) + "\n\n")
	b.WriteString(titleStyle.Render("LOCATION") + "\n" + m.status.Room + "\n\n")
	b.WriteString(titleStyle.Render("MOVES") + "\n" + fmt.Sprint(m.status.Moves) + "\n\n")
	b.WriteString(titleStyle.Render("INVENTORY") + "\n")
	if len(m.status.Inventory) == 0 {
		b.WriteString("(empty)")
	}
	for _, item := range m.status.Inventory {
		b.WriteString("- " + item + "\n")
	}

	stateWidth := int(float64(max(m.width, 80)) * 0.23)
	return stateStyle.Width(stateWidth).Height(m.viewport.Height).Render(b.String())
}

// Run plays a game in the terminal UI. build creates the engine around the
// console the UI provides; the engine then runs on its own goroutine.
func Run(ctx context.Context, title string, build func(parser.Console) (*engine.Engine, error)) error {
	b := newBridge()
	eng, err := build(b)
	if err != nil {
		return err
	}

	p := tea.NewProgram(newModel(b, title), tea.WithAltScreen(), tea.WithContext(ctx))
	b.attach(p)

	// Status is read on the engine goroutine, where the world is safe to touch.
	eng.Bus().Subscribe(events.SubscriberFunc(func(ev events.Event) {
		if ev.Type == events.EvOutput {
			b.send(statusMsg{status: eng.Status()})
		}
	}))

	done := startEngine(ctx, eng, b)
	_, err = p.Run()
	b.close()
	// The engine may be mid-turn; callers close its store after Run returns.
	<-done
	return err
}

// startEngine runs eng on its own goroutine. The returned channel is closed
// once the engine has stopped.
func startEngine(ctx context.Context, eng *engine.Engine, b *bridge) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		err := eng.Run(ctx)
		b.send(gameOverMsg{err: err})
	}()
	return done
}
