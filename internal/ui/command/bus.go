package command

import (
	"fmt"
	"sync"
	"time"

	"github.com/atomicstack/notebook-popup-control/internal/logging/events"
	"github.com/atomicstack/notebook-popup-control/internal/menu"
	tea "github.com/charmbracelet/bubbletea"
)

// Request encapsulates an action invocation.
type Request struct {
	ID      string
	Label   string
	Handler menu.Action
	Item    menu.Item
}

// Bus runs menu actions. A request whose ID is still running is dropped, so
// a repeated enter cannot delete or move a document twice.
type Bus struct {
	mu      sync.Mutex
	running map[string]bool
	now     func() time.Time
}

func New() *Bus {
	return &Bus{running: make(map[string]bool), now: time.Now}
}

// Running reports whether the action with id has not finished yet.
func (b *Bus) Running(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.running[id]
}

// Execute wraps a menu action into a Bubble Tea command. It returns nil when
// the request has no handler or the same action is already in flight.
func (b *Bus) Execute(ctx menu.Context, req Request) tea.Cmd {
	if req.Handler == nil {
		events.Command.Skip(req.ID, req.Label)
		return nil
	}
	cmd := req.Handler(ctx, req.Item)
	if cmd == nil {
		events.Command.NoOp(req.ID, req.Label)
		return nil
	}
	if !b.claim(req.ID) {
		events.Command.Busy(req.ID, req.Label)
		return nil
	}
	events.Command.Queue(req.ID, req.Label)
	return func() tea.Msg {
		start := b.now()
		defer b.release(req.ID)
		msg := cmd()
		events.Command.Result(req.ID, req.Label, fmt.Sprintf("%T", msg), b.now().Sub(start))
		return msg
	}
}

func (b *Bus) claim(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running[id] {
		return false
	}
	b.running[id] = true
	return true
}

func (b *Bus) release(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.running, id)
}
