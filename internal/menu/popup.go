package menu

import "github.com/atomicstack/notebook-popup-control/internal/logging/events"

// Position is the anchor of a popup in terminal cells.
type Position struct {
	X int
	Y int
}

// Menu is the one popup menu of the application. Popup bumps the generation
// so responses prepared for an earlier menu can be recognised and dropped.
type Menu struct {
	items      []Item
	position   Position
	visible    bool
	generation int
}

// Remove hides the menu and drops its items.
func (m *Menu) Remove() {
	if m.visible {
		events.Menu.Remove(m.generation)
	}
	m.items = nil
	m.visible = false
}

// Append adds items to the menu being built.
func (m *Menu) Append(items ...Item) {
	m.items = append(m.items, items...)
}

// Popup shows the menu at pos.
func (m *Menu) Popup(pos Position) {
	m.generation++
	m.position = pos
	m.visible = true
	events.Menu.Popup(m.generation, len(m.items))
}

func (m *Menu) Items() []Item {
	return append([]Item(nil), m.items...)
}

func (m *Menu) Visible() bool      { return m.visible }
func (m *Menu) Position() Position { return m.position }
func (m *Menu) Generation() int    { return m.generation }
