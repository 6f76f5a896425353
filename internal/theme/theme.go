package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Loading               *lipgloss.Style
	Item                  *lipgloss.Style
	ItemIndicator         *lipgloss.Style
	SelectedItemIndicator *lipgloss.Style
	SelectedItem          *lipgloss.Style
	DisabledItem          *lipgloss.Style
	Separator             *lipgloss.Style
	Accelerator           *lipgloss.Style
	Error                 *lipgloss.Style
	Info                  *lipgloss.Style
	Header                *lipgloss.Style
	Footer                *lipgloss.Style
	Filter                *lipgloss.Style
	FilterPrompt          *lipgloss.Style
	FilterPlaceholder     *lipgloss.Style
	Cursor                *lipgloss.Style
	PreviewTitle          *lipgloss.Style
	PreviewBody           *lipgloss.Style
	PreviewError          *lipgloss.Style

	TitleIcon     *lipgloss.Style
	TitleInput    *lipgloss.Style
	TitleUntitled *lipgloss.Style
	TitleFocused  *lipgloss.Style
	Badge         map[string]*lipgloss.Style
	Block         *lipgloss.Style
	BlockFocused  *lipgloss.Style

	FieldLabel  *lipgloss.Style
	FieldDesc   *lipgloss.Style
	FieldActive *lipgloss.Style
	ToggleOn    *lipgloss.Style
	ToggleOff   *lipgloss.Style
	Dialog      *lipgloss.Style
}

// Badge keys.
const (
	BadgeBookmark = "bookmark"
	BadgeName     = "name"
	BadgeAlias    = "alias"
	BadgeMemo     = "memo"
	BadgeRefCount = "refcount"
)

var defaultStyles = Styles{
	Loading: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Italic(true),
	),
	Item: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	ItemIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	),
	SelectedItemIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Background(lipgloss.Color("238")),
	),
	SelectedItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	DisabledItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Italic(true),
	),
	Separator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	),
	Accelerator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Header: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Filter: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	FilterPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	FilterPlaceholder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Cursor: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("33")).Blink(true),
	),
	PreviewTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	PreviewBody: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	),
	PreviewError: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	TitleIcon: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	),
	TitleInput: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
	),
	TitleUntitled: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Bold(true),
	),
	TitleFocused: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true).Underline(true),
	),
	Badge: map[string]*lipgloss.Style{
		BadgeBookmark: ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("214"))),
		BadgeName:     ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("39"))),
		BadgeAlias:    ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("141"))),
		BadgeMemo:     ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("114"))),
		BadgeRefCount: ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Background(lipgloss.Color("236"))),
	},
	Block: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	),
	BlockFocused: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("236")),
	),
	FieldLabel: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true),
	),
	FieldDesc: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
	),
	FieldActive: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	),
	ToggleOn: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	ToggleOff: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Dialog: ptr(
		lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

// BadgeStyle returns the style for badge kind, falling back to Info.
func (s *Styles) BadgeStyle(kind string) *lipgloss.Style {
	if st, ok := s.Badge[kind]; ok && st != nil {
		return st
	}
	return s.Info
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
