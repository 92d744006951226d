package tui

import (
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// bridge is the parser console seen by the engine goroutine. Output and
// prompts become tea messages; lines typed in the UI come back on a channel.
type bridge struct {
	lines chan string

	mu      sync.Mutex
	program *tea.Program
	closed  bool
}

func newBridge() *bridge {
	return &bridge{lines: make(chan string, 16)}
}

func (b *bridge) attach(p *tea.Program) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.program = p
}

func (b *bridge) send(msg tea.Msg) {
	b.mu.Lock()
	p := b.program
	b.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func (b *bridge) Println(s string) {
	b.send(outputMsg{text: s})
}

func (b *bridge) ReadLine(prompt string) (string, error) {
	b.send(promptMsg{prompt: prompt})
	line, ok := <-b.lines
	if !ok {
		return "", io.EOF
	}
	return line, nil
}

// submit hands a typed line to the engine. It reports false once the
// game is over or too much input is queued.
func (b *bridge) submit(line string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return false
	}
	select {
	case b.lines <- line:
		return true
	default:
		return false
	}
}

func (b *bridge) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.lines)
	}
}
