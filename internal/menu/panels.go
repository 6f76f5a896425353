package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/notebook-popup-control/internal/logging/events"
	"github.com/atomicstack/notebook-popup-control/internal/model"
)

// Side panel kinds.
const (
	PanelOutline   = "outline"
	PanelBacklinks = "backlinks"
	PanelGraph     = "graph"
)

// PanelMsg carries the content of a side panel.
type PanelMsg struct {
	Kind  string
	Title string
	Lines []string
	Err   error
}

// panelWidth is the wrap width used for markdown rendered into panels.
var panelWidth = 48

func OutlineAction(ctx Context, item Item) tea.Cmd {
	return func() tea.Msg {
		events.Menu.Panel(PanelOutline, ctx.Info.ID)
		headings, err := ctx.Client.Outline(ctx.ctx(), ctx.Info.ID)
		if err != nil {
			return PanelMsg{Kind: PanelOutline, Title: item.Label, Err: err}
		}
		return PanelMsg{Kind: PanelOutline, Title: item.Label, Lines: OutlineLines(headings)}
	}
}

// OutlineLines renders headings as a nested markdown list.
func OutlineLines(headings []model.Heading) []string {
	if len(headings) == 0 {
		return []string{"(no headings)"}
	}
	var md strings.Builder
	for _, h := range headings {
		depth := h.Level - 1
		if depth < 0 {
			depth = 0
		}
		fmt.Fprintf(&md, "%s- %s\n", strings.Repeat("  ", depth), h.Content)
	}
	rendered, err := RenderMarkdown(md.String(), panelWidth)
	if err != nil {
		return strings.Split(strings.TrimRight(md.String(), "\n"), "\n")
	}
	return trimBlank(strings.Split(rendered, "\n"))
}

func BacklinksAction(ctx Context, item Item) tea.Cmd {
	return func() tea.Msg {
		events.Menu.Panel(PanelBacklinks, ctx.Info.ID)
		links, err := ctx.Client.Backlinks(ctx.ctx(), ctx.Info.ID)
		if err != nil {
			return PanelMsg{Kind: PanelBacklinks, Title: item.Label, Err: err}
		}
		return PanelMsg{Kind: PanelBacklinks, Title: item.Label, Lines: BacklinkLines(links)}
	}
}

// BacklinkLines groups referencing blocks under their document path.
func BacklinkLines(links []model.Backlink) []string {
	if len(links) == 0 {
		return []string{"(no backlinks)"}
	}
	lines := []string{}
	last := ""
	for _, l := range links {
		if l.HPath != last {
			if last != "" {
				lines = append(lines, "")
			}
			lines = append(lines, l.HPath)
			last = l.HPath
		}
		lines = append(lines, "  "+l.Content)
	}
	return lines
}

func GraphAction(ctx Context, item Item) tea.Cmd {
	return func() tea.Msg {
		events.Menu.Panel(PanelGraph, ctx.Info.ID)
		graph, err := ctx.Client.LocalGraph(ctx.ctx(), ctx.Info.ID)
		if err != nil {
			return PanelMsg{Kind: PanelGraph, Title: item.Label, Err: err}
		}
		return PanelMsg{Kind: PanelGraph, Title: item.Label, Lines: GraphLines(graph)}
	}
}

// GraphLines lists the nodes of the local graph followed by its edges.
func GraphLines(g model.Graph) []string {
	labels := make(map[string]string, len(g.Nodes))
	lines := make([]string, 0, len(g.Nodes)+len(g.Links)+1)
	for _, n := range g.Nodes {
		labels[n.ID] = n.Label
		lines = append(lines, fmt.Sprintf("● %s (%d)", n.Label, n.RefCount))
	}
	if len(g.Links) > 0 {
		lines = append(lines, "")
	}
	for _, l := range g.Links {
		from, to := labels[l.From], labels[l.To]
		if from == "" {
			from = l.From
		}
		if to == "" {
			to = l.To
		}
		lines = append(lines, fmt.Sprintf("%s → %s ×%d", from, to, l.Count))
	}
	return lines
}

func trimBlank(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}
