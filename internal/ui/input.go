package ui

import (
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/atomicstack/notebook-popup-control/internal/logging/events"
)

// filterEdit changes the filter of a menu level and reports whether anything
// moved. edited is false for pure caret motion.
type filterEdit struct {
	apply  func(*level) bool
	edited bool
	trace  func(*level)
}

var filterKeys = map[string]filterEdit{
	"ctrl+u": {
		apply: func(l *level) bool {
			if l.Filter == "" {
				return false
			}
			l.SetFilter("", 0)
			return true
		},
		edited: true,
		trace:  func(l *level) { events.Filter.Cleared(l.ID) },
	},
	"ctrl+w": {
		apply:  (*level).DeleteFilterWordBackward,
		edited: true,
		trace:  func(l *level) { events.Filter.WordBackspace(l.ID, l.Filter) },
	},
	"backspace": {
		apply:  (*level).DeleteFilterRuneBackward,
		edited: true,
		trace:  func(l *level) { events.Filter.Backspace(l.ID, l.Filter) },
	},
	"ctrl+h": {
		apply:  (*level).DeleteFilterRuneBackward,
		edited: true,
		trace:  func(l *level) { events.Filter.Backspace(l.ID, l.Filter) },
	},
	"ctrl+a":    caretEdit((*level).MoveFilterCursorStart),
	"ctrl+e":    caretEdit((*level).MoveFilterCursorEnd),
	"left":      caretEdit((*level).MoveFilterCursorRuneBackward),
	"right":     caretEdit((*level).MoveFilterCursorRuneForward),
	"alt+b":     wordCaretEdit((*level).MoveFilterCursorWordBackward),
	"alt+f":     wordCaretEdit((*level).MoveFilterCursorWordForward),
	"alt+left":  wordCaretEdit((*level).MoveFilterCursorWordBackward),
	"alt+right": wordCaretEdit((*level).MoveFilterCursorWordForward),
}

func caretEdit(fn func(*level) bool) filterEdit {
	return filterEdit{apply: fn, trace: func(l *level) { events.Filter.Cursor(l.ID, l.FilterCursor) }}
}

func wordCaretEdit(fn func(*level) bool) filterEdit {
	return filterEdit{apply: fn, trace: func(l *level) { events.Filter.CursorWord(l.ID, l.FilterCursor) }}
}

// handleTextInput edits the filter of the open menu level. It reports whether
// the key was consumed; unconsumed keys fall through to menu navigation.
func (m *Model) handleTextInput(msg tea.KeyMsg) (bool, tea.Cmd) {
	if m.loading {
		return false, nil
	}
	current := m.currentLevel()
	if current == nil {
		return false, nil
	}
	if edit, ok := filterKeys[msg.String()]; ok {
		if !edit.apply(current) {
			return false, nil
		}
		if edit.edited {
			m.filterChanged(current)
		}
		edit.trace(current)
		return true, nil
	}
	text, ok := filterText(msg)
	if !ok || !current.InsertFilterText(text) {
		return false, nil
	}
	m.filterChanged(current)
	events.Filter.Append(current.ID, current.Filter)
	return true, nil
}

// filterText extracts printable input from a key press. Alt chords and
// control runes are left to the keymap.
func filterText(msg tea.KeyMsg) (string, bool) {
	switch msg.Type {
	case tea.KeySpace:
		return " ", true
	case tea.KeyRunes:
	default:
		return "", false
	}
	if msg.Alt || len(msg.Runes) == 0 {
		return "", false
	}
	for _, r := range msg.Runes {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return "", false
		}
	}
	return string(msg.Runes), true
}

func (m *Model) filterChanged(current *level) {
	m.forceClearInfo()
	m.errMsg = ""
	m.syncViewport(current)
}

// filterPrompt renders the filter row with a block caret at the edit
// position, or the hint when the filter is empty.
func (m *Model) filterPrompt() string {
	prompt := "» "
	if styles.FilterPrompt != nil {
		prompt = styles.FilterPrompt.Render(prompt)
	}
	current := m.currentLevel()
	if current == nil {
		return prompt
	}
	if current.Filter == "" {
		hint := []rune(m.lang.Get("filterHint"))
		if len(hint) == 0 {
			return prompt + m.renderFilterCursor(" ", styles.FilterPlaceholder)
		}
		return prompt + m.renderFilterCursor(string(hint[0]), styles.FilterPlaceholder) +
			renderOptional(styles.FilterPlaceholder, string(hint[1:]))
	}
	runes := []rune(current.Filter)
	pos := current.FilterCursorPos()
	if pos < 0 {
		pos = 0
	}
	if pos > len(runes) {
		pos = len(runes)
	}
	caret, rest := " ", ""
	if pos < len(runes) {
		caret, rest = string(runes[pos]), string(runes[pos+1:])
	}
	return prompt + renderOptional(styles.Filter, string(runes[:pos])) +
		m.renderFilterCursor(caret, styles.Filter) + renderOptional(styles.Filter, rest)
}

func renderOptional(style *lipgloss.Style, value string) string {
	if style == nil || value == "" {
		return value
	}
	return style.Render(value)
}

// renderFilterCursor draws char under the caret using text as the base style.
func (m *Model) renderFilterCursor(char string, text *lipgloss.Style) string {
	m.filterCursor.SetChar(char)
	base := lipgloss.NewStyle().Inline(true)
	if text != nil {
		base = text.Copy().Inline(true)
	}
	m.filterCursor.TextStyle = base
	if styles.Cursor != nil {
		return base.Inherit(styles.Cursor.Copy().Inline(true)).Blink(false).Render(char)
	}
	return base.Reverse(true).Render(char)
}
