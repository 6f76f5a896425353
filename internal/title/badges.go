package title

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/atomicstack/notebook-popup-control/internal/model"
	"github.com/atomicstack/notebook-popup-control/internal/theme"
)

// Badge is one entry of the attribute strip below the title.
type Badge struct {
	Kind   string
	Text   string
	DefIDs []string
	RefIDs []string
}

var badgeIcons = map[string]string{
	theme.BadgeBookmark: "",
	theme.BadgeName:     "N ",
	theme.BadgeAlias:    "A ",
	theme.BadgeMemo:     "M",
}

// attrClickOrder is the precedence used when a click matches several badges.
var attrClickOrder = []string{
	theme.BadgeBookmark,
	theme.BadgeName,
	theme.BadgeAlias,
	theme.BadgeMemo,
}

// BuildBadges derives the attribute strip for a document. Attribute values
// are escaped; the memo badge only shows its icon.
func BuildBadges(info model.DocInfo, rootID string) []Badge {
	badges := make([]Badge, 0, 5)
	for _, kind := range attrClickOrder {
		value := info.Attr(kind)
		if value == "" {
			continue
		}
		text := badgeIcons[kind]
		if kind != theme.BadgeMemo {
			text += escape(value)
		}
		badges = append(badges, Badge{Kind: kind, Text: text})
	}
	if info.RefCount != 0 {
		badges = append(badges, Badge{
			Kind:   theme.BadgeRefCount,
			Text:   strconv.Itoa(info.RefCount),
			DefIDs: []string{rootID},
			RefIDs: append([]string(nil), info.RefIDs...),
		})
	}
	return badges
}

// escape removes terminal control sequences and folds line breaks so a
// value can never alter the layout around it.
func escape(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			return ' '
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, s)
}

const badgeGap = " "

func renderStrip(badges []Badge, styles *theme.Styles) string {
	parts := make([]string, 0, len(badges))
	for _, b := range badges {
		style := lipgloss.NewStyle()
		if styles != nil {
			if s := styles.BadgeStyle(b.Kind); s != nil {
				style = *s
			}
		}
		parts = append(parts, style.Render(b.Text))
	}
	return strings.Join(parts, badgeGap)
}

// badgeAt maps a column of the rendered strip to the badge under it.
func badgeAt(badges []Badge, col int) (Badge, bool) {
	if col < 0 {
		return Badge{}, false
	}
	x := 0
	for i, b := range badges {
		if i > 0 {
			x += lipgloss.Width(badgeGap)
		}
		w := lipgloss.Width(b.Text)
		if col >= x && col < x+w {
			return b, true
		}
		x += w
	}
	return Badge{}, false
}
