package state

func (l *Level) selectable(i int) bool {
	return i >= 0 && i < len(l.Items) && l.Items[i].Selectable()
}

// FirstSelectable returns the index of the first item the cursor may rest
// on, or -1.
func (l *Level) FirstSelectable() int {
	for i := range l.Items {
		if l.selectable(i) {
			return i
		}
	}
	return -1
}

// LastSelectable returns the index of the last item the cursor may rest on,
// or -1.
func (l *Level) LastSelectable() int {
	for i := len(l.Items) - 1; i >= 0; i-- {
		if l.selectable(i) {
			return i
		}
	}
	return -1
}

// snap moves the cursor off separators and read-only rows, preferring dir
// and falling back to the opposite direction.
func (l *Level) snap(dir int) {
	if len(l.Items) == 0 || l.selectable(l.Cursor) {
		return
	}
	if dir == 0 {
		dir = 1
	}
	for _, d := range []int{dir, -dir} {
		for i := l.Cursor + d; i >= 0 && i < len(l.Items); i += d {
			if l.selectable(i) {
				l.Cursor = i
				return
			}
		}
	}
}

// SetCursor places the cursor on idx if that item is selectable.
func (l *Level) SetCursor(idx int) bool {
	if !l.selectable(idx) || idx == l.Cursor {
		return false
	}
	l.Cursor = idx
	return true
}

// MoveCursor steps delta selectable items, wrapping around the ends.
func (l *Level) MoveCursor(delta int) bool {
	n := len(l.Items)
	if n == 0 || delta == 0 || l.FirstSelectable() < 0 {
		return false
	}
	old := l.Cursor
	dir := 1
	if delta < 0 {
		dir, delta = -1, -delta
	}
	idx := l.Cursor
	for ; delta > 0; delta-- {
		for step := 0; step < n; step++ {
			idx = ((idx+dir)%n + n) % n
			if l.selectable(idx) {
				break
			}
		}
	}
	l.Cursor = idx
	return l.Cursor != old
}

// MoveCursorHome moves the cursor to the first selectable item.
func (l *Level) MoveCursorHome() bool {
	if len(l.Items) == 0 {
		l.Cursor = 0
		return false
	}
	first := l.FirstSelectable()
	if first < 0 {
		return false
	}
	old := l.Cursor
	l.Cursor = first
	return old != l.Cursor
}

// MoveCursorEnd moves the cursor to the last selectable item.
func (l *Level) MoveCursorEnd() bool {
	if len(l.Items) == 0 {
		l.Cursor = 0
		return false
	}
	last := l.LastSelectable()
	if last < 0 {
		return false
	}
	old := l.Cursor
	l.Cursor = last
	return old != l.Cursor
}

// MoveCursorPageUp moves the cursor up by the given page size.
func (l *Level) MoveCursorPageUp(maxVisible int) bool {
	return l.moveCursorBy(-l.pageSize(maxVisible))
}

// MoveCursorPageDown moves the cursor down by the given page size.
func (l *Level) MoveCursorPageDown(maxVisible int) bool {
	return l.moveCursorBy(l.pageSize(maxVisible))
}

func (l *Level) moveCursorBy(delta int) bool {
	if len(l.Items) == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	if l.Cursor < 0 {
		l.Cursor = 0
	}
	l.Cursor += delta
	if l.Cursor < 0 {
		l.Cursor = 0
	}
	if l.Cursor >= len(l.Items) {
		l.Cursor = len(l.Items) - 1
	}
	dir := 1
	if delta < 0 {
		dir = -1
	}
	l.snap(dir)
	return l.Cursor != old
}

func (l *Level) pageSize(maxVisible int) int {
	total := len(l.Items)
	if total == 0 {
		return 0
	}
	size := maxVisible
	if size <= 0 || size > total {
		size = total
	}
	if size < 1 {
		size = 1
	}
	return size
}

// EnsureCursorVisible adjusts the viewport offset so the cursor stays visible.
func (l *Level) EnsureCursorVisible(maxVisible int) {
	if len(l.Items) == 0 {
		l.Cursor = 0
		l.ViewportOffset = 0
		return
	}
	if l.Cursor < 0 {
		l.Cursor = 0
	}
	if l.Cursor >= len(l.Items) {
		l.Cursor = len(l.Items) - 1
	}
	if maxVisible <= 0 {
		l.ViewportOffset = 0
		return
	}
	maxOffset := len(l.Items) - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if l.ViewportOffset > maxOffset {
		l.ViewportOffset = maxOffset
	}
	if l.ViewportOffset < 0 {
		l.ViewportOffset = 0
	}
	if l.Cursor < l.ViewportOffset {
		l.ViewportOffset = l.Cursor
	}
	upper := l.ViewportOffset + maxVisible - 1
	if l.Cursor > upper {
		l.ViewportOffset = l.Cursor - maxVisible + 1
		if l.ViewportOffset < 0 {
			l.ViewportOffset = 0
		}
		if l.ViewportOffset > maxOffset {
			l.ViewportOffset = maxOffset
		}
	}
}
