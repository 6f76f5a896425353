package state

import "github.com/atomicstack/notebook-popup-control/internal/menu"

// Level is one open menu page: the loaded items, the filtered view of them,
// the filter line and the cursor within the view.
type Level struct {
	ID    string
	Title string
	Node  *menu.Node

	Full  []menu.Item
	Items []menu.Item

	Filter       string
	FilterCursor int

	Cursor     int
	LastCursor int

	ViewportOffset int
}

// NewLevel opens a page on items with the cursor on the first selectable
// entry.
func NewLevel(id, title string, items []menu.Item, node *menu.Node) *Level {
	l := &Level{ID: id, Title: title, Node: node, Cursor: -1, LastCursor: -1}
	l.UpdateItems(items)
	return l
}

// IndexOf returns the position of id in the filtered view, or -1.
func (l *Level) IndexOf(id string) int {
	for i, item := range l.Items {
		if id != "" && item.ID == id {
			return i
		}
	}
	return -1
}

// Current returns the item under the cursor when it is selectable.
func (l *Level) Current() (menu.Item, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return menu.Item{}, false
	}
	item := l.Items[l.Cursor]
	return item, item.Selectable()
}

// UpdateItems swaps in freshly loaded items. The filter is reapplied and the
// scroll offset kept while it still points inside the list.
func (l *Level) UpdateItems(items []menu.Item) {
	offset := l.ViewportOffset
	l.Full = CloneItems(items)
	l.applyFilter()
	if offset < 0 || offset >= len(l.Items) {
		offset = 0
	}
	l.ViewportOffset = offset
}
