package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/stockbot/internal/status"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the status bridge can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe). It is a no-op
// before SetProgram and returns immediately once the program has exited.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// statusBridge forwards status transitions into the event loop.
type statusBridge struct {
	ref *programRef
}

var _ status.Observer = (*statusBridge)(nil)

// OnStatus implements status.Observer.
func (b *statusBridge) OnStatus(s status.Snapshot) {
	b.ref.Send(StatusMsg{Snapshot: s})
}
