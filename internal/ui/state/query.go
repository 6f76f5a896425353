package state

import (
	"strings"
	"unicode"
)

// SetFilter replaces the filter text and caret. Starting a filter remembers
// the cursor so clearing it can put the cursor back.
func (l *Level) SetFilter(query string, caret int) {
	was := strings.TrimSpace(l.Filter)
	now := strings.TrimSpace(query)
	l.Filter = query
	l.FilterCursor = clamp(caret, 0, len([]rune(query)))

	switch {
	case now != "" && was == "":
		l.LastCursor = l.Cursor
		l.Cursor = 0
	case now != "":
		l.Cursor = 0
	}
	l.applyFilter()

	if now != "" {
		if idx := BestMatchIndex(l.Items, now); idx >= 0 {
			l.Cursor = idx
			l.snap(1)
		}
		return
	}
	if was == "" {
		return
	}
	if l.selectable(l.LastCursor) {
		l.Cursor = l.LastCursor
	} else if first := l.FirstSelectable(); first >= 0 {
		l.Cursor = first
	}
	l.LastCursor = -1
}

// FilterCursorPos returns the caret as a rune offset inside the filter.
func (l *Level) FilterCursorPos() int {
	return clamp(l.FilterCursor, 0, len([]rune(l.Filter)))
}

// InsertFilterText inserts text at the caret.
func (l *Level) InsertFilterText(text string) bool {
	insert := []rune(text)
	if len(insert) == 0 {
		return false
	}
	runes, pos := []rune(l.Filter), l.FilterCursorPos()
	out := make([]rune, 0, len(runes)+len(insert))
	out = append(append(append(out, runes[:pos]...), insert...), runes[pos:]...)
	l.SetFilter(string(out), pos+len(insert))
	return true
}

// DeleteFilterRuneBackward removes the rune before the caret.
func (l *Level) DeleteFilterRuneBackward() bool {
	pos := l.FilterCursorPos()
	if pos == 0 {
		return false
	}
	return l.cut(pos-1, pos)
}

// DeleteFilterWordBackward removes the word before the caret together with
// any spaces between it and the caret.
func (l *Level) DeleteFilterWordBackward() bool {
	pos := l.FilterCursorPos()
	if pos == 0 {
		return false
	}
	return l.cut(wordStart([]rune(l.Filter), pos), pos)
}

func (l *Level) cut(from, to int) bool {
	runes := []rune(l.Filter)
	out := append(append([]rune{}, runes[:from]...), runes[to:]...)
	l.SetFilter(string(out), from)
	return true
}

func (l *Level) MoveFilterCursorStart() bool {
	return l.moveCaret(0)
}

func (l *Level) MoveFilterCursorEnd() bool {
	return l.moveCaret(len([]rune(l.Filter)))
}

func (l *Level) MoveFilterCursorRuneBackward() bool {
	return l.moveCaret(l.FilterCursorPos() - 1)
}

func (l *Level) MoveFilterCursorRuneForward() bool {
	return l.moveCaret(l.FilterCursorPos() + 1)
}

func (l *Level) MoveFilterCursorWordBackward() bool {
	return l.moveCaret(wordStart([]rune(l.Filter), l.FilterCursorPos()))
}

func (l *Level) MoveFilterCursorWordForward() bool {
	return l.moveCaret(wordEnd([]rune(l.Filter), l.FilterCursorPos()))
}

// moveCaret places the caret at pos and reports whether it moved.
func (l *Level) moveCaret(pos int) bool {
	pos = clamp(pos, 0, len([]rune(l.Filter)))
	if pos == l.FilterCursorPos() {
		return false
	}
	l.FilterCursor = pos
	return true
}

// wordStart skips spaces then a word to the left of pos.
func wordStart(runes []rune, pos int) int {
	for pos > 0 && unicode.IsSpace(runes[pos-1]) {
		pos--
	}
	for pos > 0 && !unicode.IsSpace(runes[pos-1]) {
		pos--
	}
	return pos
}

// wordEnd skips a word then spaces to the right of pos.
func wordEnd(runes []rune, pos int) int {
	for pos < len(runes) && !unicode.IsSpace(runes[pos]) {
		pos++
	}
	for pos < len(runes) && unicode.IsSpace(runes[pos]) {
		pos++
	}
	return pos
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
