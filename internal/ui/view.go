package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/atomicstack/notebook-popup-control/internal/ids"
	"github.com/atomicstack/notebook-popup-control/internal/menu"
	"github.com/atomicstack/notebook-popup-control/internal/model"
)

const (
	previewPanelMinWidth = 30  // minimum cols for the side panel; below this no split
	previewPanelFraction = 0.6 // fraction of total width given to the side panel
	titleRows            = 2   // icon/title line plus the attribute strip
)

// previewBorder styles used when drawing the panel box.
var (
	previewBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	previewScrollStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var nowFn = time.Now

// previewPanelWidth returns the width in columns for the right-hand panel.
// Returns 0 when the terminal is too narrow to split.
func (m *Model) previewPanelWidth() int {
	if m.width <= 0 {
		return 0
	}
	w := int(float64(m.width) * previewPanelFraction)
	if w < previewPanelMinWidth {
		return 0
	}
	return w
}

// panelHeight is the number of rows the bordered panel occupies.
func (m *Model) panelHeight() int {
	h := m.height - 2
	if m.previewPanelWidth() == 0 {
		h -= titleRows + 1
	}
	if h < 3 {
		h = 3
	}
	return h
}

// View implements tea.Model.
func (m *Model) View() string {
	switch m.mode {
	case ModeSettings:
		return m.viewSettings()
	case ModeMenu:
		return m.viewMenu(m.menuHeader())
	case ModeAttrForm:
		if m.attrForm != nil {
			return m.withTitle(m.viewAttrForm())
		}
	case ModeConfirm:
		if m.confirmForm != nil {
			return m.withTitle(m.viewConfirmForm())
		}
	case ModeReminder:
		if m.reminderForm != nil {
			return m.withTitle(m.viewReminderForm())
		}
	case ModePanel:
		if m.panel != nil {
			if m.previewPanelWidth() > 0 {
				return m.viewSideBySide()
			}
			return m.withTitle(m.renderPreviewPanel(m.panel, m.width, m.panelHeight()))
		}
	case ModeBody:
		return m.viewBody()
	}
	return m.viewTitle()
}

func (m *Model) titleView() string {
	if m.editor == nil {
		return ""
	}
	return m.editor.View()
}

// withTitle stacks content under the title and appends the status rows.
func (m *Model) withTitle(content string) string {
	parts := []string{}
	if t := m.titleView(); t != "" {
		parts = append(parts, t, "")
	}
	parts = append(parts, content)
	return strings.Join(parts, "\n") + "\n" + m.statusView()
}

func (m *Model) viewTitle() string {
	lines := []string{m.titleView()}
	if info := m.currentInfo(); info != "" {
		lines = append(lines, "", renderStyled(styles.Info, info))
	}
	if m.showFooter && m.editor != nil {
		h := help.New()
		if m.width > 0 {
			h.Width = m.width
		}
		footer := "enter edit  m menu  a attributes  q quit"
		if m.editor.Focused() {
			footer = h.ShortHelpView(m.editor.Keys().ShortHelp())
		}
		lines = append(lines, "", renderStyled(styles.Footer, footer))
	}
	return strings.Join(lines, "\n") + "\n" + m.statusView()
}

// viewBody renders the title above the document's blocks. The focused block
// shows when it was last updated.
func (m *Model) viewBody() string {
	lines := make([]styledLine, 0, 16)
	lines = append(lines, styledLine{text: m.lang.Get("body"), style: styles.Header})
	if m.body != nil {
		m.syncViewport(m.body)
		lines = append(lines, m.itemLines(m.body, m.width)...)
		if item, ok := m.body.Current(); ok {
			if b, ok := m.bodyBlocks[item.ID]; ok {
				lines = append(lines, styledLine{}, styledLine{text: blockFooter(b), style: styles.Footer})
			}
		}
	}
	lines = limitHeight(lines, m.height-titleRows-2, m.width)
	lines = applyWidth(lines, m.width)
	return m.titleView() + "\n" + renderLines(lines) + "\n" + m.statusView()
}

func blockFooter(b model.Block) string {
	stamp := b.Updated
	if stamp == "" {
		stamp = b.IAL[model.AttrUpdated]
	}
	t, err := ids.ParseStamp(stamp)
	if err != nil {
		if t, err = ids.TimeOf(b.ID); err != nil {
			return b.Type
		}
	}
	return fmt.Sprintf("%s · %s", b.Type, humanize.RelTime(t, nowFn(), "ago", "from now"))
}

func (m *Model) viewSettings() string {
	if m.settings == nil {
		return m.statusView()
	}
	return m.settings.View(m.width) + "\n\n" + renderStyled(styles.Footer, m.settings.Help()) + "\n" + m.statusView()
}

// viewMenu renders the doc menu in a single column with the filter prompt at
// the bottom.
func (m *Model) viewMenu(header string) string {
	lines := make([]styledLine, 0, 16)
	if header != "" {
		lines = append(lines, styledLine{text: header, style: styles.Header})
	}
	if current := m.currentLevel(); current != nil {
		lines = append(lines, m.itemLines(current, m.width)...)
	}
	if info := m.currentInfo(); info != "" {
		lines = append(lines, styledLine{}, styledLine{text: info, style: styles.Info})
	}
	if m.showFooter {
		lines = append(lines, styledLine{}, styledLine{text: "↑/↓ move  enter select  backspace clear  esc back  ctrl+c quit", style: styles.Footer})
	}
	// Reserve rows for the bottom bar (status + prompt).
	lines = limitHeight(lines, m.height-2, m.width)
	lines = applyWidth(lines, m.width)

	promptText := m.filterPrompt()
	bottomLines := applyWidth([]styledLine{m.statusLine(), {text: promptText}}, m.width)
	lines = append(lines, bottomLines...)
	return renderLines(lines)
}

// itemLines renders the visible window of a level.
func (m *Model) itemLines(current *level, width int) []styledLine {
	m.syncViewport(current)
	if len(current.Items) == 0 {
		msg := "(no entries)"
		if current.Filter != "" {
			msg = fmt.Sprintf("No matches for %q", current.Filter)
		}
		return []styledLine{{text: msg, style: styles.Info}}
	}
	start := 0
	displayItems := current.Items
	if maxItems := m.maxVisibleItems(); maxItems > 0 && len(displayItems) > maxItems {
		start = current.ViewportOffset
		if start < 0 {
			start = 0
		}
		if start+maxItems > len(displayItems) {
			start = len(displayItems) - maxItems
			if start < 0 {
				start = 0
			}
			current.ViewportOffset = start
		}
		displayItems = displayItems[start : start+maxItems]
	}
	lines := make([]styledLine, 0, len(displayItems))
	for i, item := range displayItems {
		lines = append(lines, m.buildItemLine(item, start+i, current, width))
	}
	return lines
}

// viewSideBySide renders the title on the left and the panel on the right.
func (m *Model) viewSideBySide() string {
	prevW := m.previewPanelWidth()
	leftW := m.width - prevW
	panelH := m.panelHeight()

	leftRows := strings.Split(m.titleView(), "\n")
	if info := m.currentInfo(); info != "" {
		leftRows = append(leftRows, "", renderStyled(styles.Info, info))
	}
	if len(leftRows) > panelH {
		leftRows = leftRows[:panelH]
	}
	for len(leftRows) < panelH {
		leftRows = append(leftRows, "")
	}
	// Rows must be exactly leftW wide to keep the panel flush right.
	for i, row := range leftRows {
		leftRows[i] = padCell(row, leftW)
	}
	rightStr := m.renderPreviewPanel(m.panel, prevW, panelH)
	top := lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(leftRows, "\n"), rightStr)
	return top + "\n" + m.statusView()
}

// buildItemLine constructs a single styledLine for a menu item.
// width is the target column width; when > 0 the text is padded so that
// the selected item's background spans the full container and the
// accelerator sits at the right edge.
func (m *Model) buildItemLine(item menu.Item, idx int, current *level, width int) styledLine {
	if item.Kind == menu.KindSeparator {
		n := width
		if n <= 0 {
			n = 20
		}
		return styledLine{text: strings.Repeat("─", n), style: styles.Separator}
	}
	indicator := "▌"
	lineStyle := styles.Item
	indicatorStyle := styles.ItemIndicator
	if item.Kind == menu.KindReadOnly {
		lineStyle = styles.DisabledItem
	}
	if idx == current.Cursor && item.Selectable() {
		indicatorStyle = styles.SelectedItemIndicator
		lineStyle = styles.SelectedItem
	}
	label := item.Label
	if item.Kind == menu.KindSubmenu {
		label += " ›"
	}
	fullText := indicator + " " + label
	if item.Accelerator != "" {
		gap := 2
		if width > 0 {
			if pad := width - len([]rune(fullText)) - len([]rune(item.Accelerator)); pad > gap {
				gap = pad
			}
		}
		fullText += strings.Repeat(" ", gap) + item.Accelerator
	}
	if width > 0 {
		if pad := width - len([]rune(fullText)); pad > 0 {
			fullText += strings.Repeat(" ", pad)
		}
	}
	return styledLine{
		text:          fullText,
		style:         lineStyle,
		prefixStyle:   indicatorStyle,
		highlightFrom: 1, // just the ▌ character
	}
}

// handleMouseMsg maps clicks on the title, the attribute strip and menu rows,
// and wheel events on the side panel.
func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	ev, ok := msg.(tea.MouseMsg)
	if !ok {
		return nil
	}
	switch m.mode {
	case ModePanel:
		switch ev.Button {
		case tea.MouseButtonWheelUp:
			m.scrollPanel(-3)
		case tea.MouseButtonWheelDown:
			m.scrollPanel(3)
		}
		return nil
	case ModeMenu:
		return m.handleMenuClick(ev)
	case ModeTitle, ModeBody:
		return m.handleTitleClick(ev)
	}
	return nil
}

func (m *Model) handleTitleClick(ev tea.MouseMsg) tea.Cmd {
	if m.editor == nil || ev.Action != tea.MouseActionPress {
		return nil
	}
	if m.mode == ModeBody {
		if ev.Y > 1 {
			return nil
		}
		m.body = nil
		m.bodyBlocks = nil
		m.setMode(ModeTitle)
	}
	switch ev.Y {
	case 0:
		if ev.X < 2 {
			m.menuPos = menu.Position{X: ev.X, Y: ev.Y + 1}
			switch ev.Button {
			case tea.MouseButtonLeft:
				return m.editor.ClickIcon(ev.Shift)
			case tea.MouseButtonRight:
				return m.editor.ContextMenu()
			}
			return nil
		}
		if ev.Button == tea.MouseButtonRight {
			m.menuPos = menu.Position{X: ev.X, Y: ev.Y + 1}
			return m.editor.ContextMenu()
		}
		return m.editor.Focus()
	case 1:
		if ev.Button == tea.MouseButtonLeft {
			return m.editor.ClickStrip(ev.X)
		}
	}
	return nil
}

// handleMenuClick selects and enters the item under the pointer.
func (m *Model) handleMenuClick(ev tea.MouseMsg) tea.Cmd {
	current := m.currentLevel()
	if current == nil || ev.Action != tea.MouseActionPress {
		return nil
	}
	switch ev.Button {
	case tea.MouseButtonWheelUp:
		m.moveCursor(-1)
		return nil
	case tea.MouseButtonWheelDown:
		m.moveCursor(1)
		return nil
	case tea.MouseButtonLeft:
	default:
		return nil
	}
	row := ev.Y
	if m.menuHeader() != "" {
		row--
	}
	idx := current.ViewportOffset + row
	if row < 0 || idx >= len(current.Items) || !current.Items[idx].Selectable() {
		return nil
	}
	current.SetCursor(idx)
	return m.handleEnterKey()
}

func (m *Model) menuHeader() string {
	segments := m.headerSegments()
	if len(segments) == 0 {
		return ""
	}
	return strings.Join(segments, menuHeaderSeparator)
}

func (m *Model) headerSegments() []string {
	if len(m.stack) == 0 {
		return nil
	}
	segments := make([]string, 0, len(m.stack))
	for _, l := range m.stack {
		if segment := headerSegmentForLevel(l); segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}

func headerSegmentForLevel(l *level) string {
	if l == nil {
		return ""
	}
	candidate := strings.TrimSpace(l.Title)
	if candidate == "" {
		candidate = headerSegmentCleaner.Replace(strings.TrimSpace(l.ID))
	}
	return strings.Join(strings.Fields(candidate), " ")
}

// statusLine shows the error, a backend warning or the pending action.
func (m *Model) statusLine() styledLine {
	switch {
	case m.errMsg != "":
		return styledLine{text: fmt.Sprintf("Error: %s", m.errMsg), style: styles.Error}
	case m.loading:
		label := m.pendingLabel
		if label == "" {
			label = m.pendingID
		}
		return styledLine{text: fmt.Sprintf("%s…", label), style: styles.Loading}
	}
	if warn, msg := m.hasBackendIssue(); warn {
		return styledLine{text: fmt.Sprintf("Backend: %s", msg), style: styles.Error}
	}
	return styledLine{}
}

func (m *Model) statusView() string {
	return renderLines(applyWidth([]styledLine{m.statusLine()}, m.width))
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	if m.attrForm != nil && m.width > 0 {
		m.attrForm.SetWidth(m.width - 4)
	}
	if current := m.currentLevel(); current != nil {
		m.syncViewport(current)
	}
	m.scrollPanel(0)
	return nil
}

func (m *Model) maxVisibleItems() int {
	if m.height <= 0 {
		return -1
	}
	used := 2 // bottom bar: status + filter prompt
	if m.mode == ModeBody {
		used = titleRows + 1 + 3 // header, blank and block footer
	} else if header := m.menuHeader(); header != "" {
		used++
	}
	if info := m.currentInfo(); info != "" {
		used += 2
	}
	if m.showFooter {
		used += 2
	}
	remain := m.height - used
	if remain < 1 {
		return 1
	}
	return remain
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(5 * time.Second)
}

func (m *Model) clearInfo() {
	if m.infoMsg == "" {
		return
	}
	if !m.infoExpire.IsZero() && time.Now().Before(m.infoExpire) {
		return
	}
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}
